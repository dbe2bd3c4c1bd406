package http

import (
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	custommiddleware "mastersol/internal/middleware"
)

// RouterConfig holds all dependencies for routing
type RouterConfig struct {
	Auth             *custommiddleware.Authenticator
	AuthHandler      *AuthHandler
	UserHandler      *UserHandler
	BotHandler       *BotHandler
	ForensicsHandler *ForensicsHandler
	AdminHandler     *AdminHandler
	StreamHandler    *StreamHandler
}

// SetupRoutes configures all HTTP routes
func SetupRoutes(e *echo.Echo, config *RouterConfig) {
	// Middleware
	e.Use(middleware.LoggerWithConfig(middleware.LoggerConfig{
		Skipper: func(c echo.Context) bool {
			// Skip logging for polling and long-lived endpoints
			switch c.Request().URL.Path {
			case "/health", "/api/bot/status", "/api/stream":
				return true
			}
			return false
		},
	}))
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())
	e.Use(middleware.RequestID())
	e.Use(middleware.Secure())

	// Health check
	e.GET("/health", func(c echo.Context) error {
		return SuccessResponse(c, map[string]interface{}{
			"status":  "healthy",
			"service": "mastersol-api",
		})
	})

	// API group
	api := e.Group("/api")

	// Public routes
	api.GET("/users", config.AuthHandler.ListUsers)
	api.POST("/auth/login", config.AuthHandler.Login)

	// Session routes (protected with AuthMiddleware)
	user := api.Group("", config.Auth.AuthMiddleware)
	{
		user.POST("/auth/logout", config.AuthHandler.Logout)
		user.GET("/me", config.UserHandler.GetMe)
		user.GET("/dashboard", config.UserHandler.GetDashboard)
		user.POST("/wallet/connect", config.UserHandler.ConnectWallet)
		user.POST("/wallet/disconnect", config.UserHandler.DisconnectWallet)
		user.POST("/mode", config.UserHandler.SetMode)

		user.GET("/bot/status", config.BotHandler.GetStatus)
		user.POST("/bot/enable", config.BotHandler.Enable)
		user.POST("/bot/trade-amount", config.BotHandler.SetTradeAmount)
		user.POST("/bot/insight", config.BotHandler.RequestInsight)
		user.POST("/insight/dismiss", config.BotHandler.DismissInsight)

		user.GET("/forensics/tokens", config.ForensicsHandler.ListTokens)
		user.POST("/forensics/filter", config.ForensicsHandler.SetFilter)
		user.POST("/forensics/tokens/:id/analyze", config.ForensicsHandler.AnalyzeToken)

		user.GET("/stream", config.StreamHandler.Stream)
	}

	// Admin routes (protected with Auth + Admin middleware)
	admin := api.Group("/admin", config.Auth.AuthMiddleware, custommiddleware.AdminMiddleware)
	{
		admin.PUT("/bot-key", config.AdminHandler.SetBotKey)
		admin.GET("/api-keys", config.AdminHandler.GetAPIKeys)
		admin.PUT("/api-keys/:service", config.AdminHandler.SetAPIKey)
		admin.POST("/api-keys/check", config.AdminHandler.CheckAPIs)
	}
}
