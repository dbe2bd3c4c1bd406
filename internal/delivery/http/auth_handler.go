package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"mastersol/internal/delivery/http/dto"
	"mastersol/internal/middleware"
	"mastersol/internal/usecase"
)

// AuthHandler handles authentication-related requests
type AuthHandler struct {
	dashboard    *usecase.DashboardService
	auth         *middleware.Authenticator
	secureCookie bool
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(dashboard *usecase.DashboardService, auth *middleware.Authenticator, secureCookie bool) *AuthHandler {
	return &AuthHandler{
		dashboard:    dashboard,
		auth:         auth,
		secureCookie: secureCookie,
	}
}

// ListUsers returns the agents selectable at login
// GET /api/users
func (h *AuthHandler) ListUsers(c echo.Context) error {
	users := h.dashboard.Users()
	out := make([]*dto.UserOutput, len(users))
	for i, u := range users {
		out[i] = dto.NewUserOutput(u)
		out[i].Address = "" // not shown before login
	}
	return SuccessResponse(c, out)
}

// Login opens a new dashboard session
// POST /api/auth/login
func (h *AuthHandler) Login(c echo.Context) error {
	var req dto.LoginRequest
	if err := c.Bind(&req); err != nil {
		return BadRequestResponse(c, "Invalid request payload")
	}

	// Validate input
	if req.UserID == 0 || req.Passcode == "" {
		return BadRequestResponse(c, "User and passcode are required")
	}

	sess, err := h.dashboard.Login(req.UserID, req.Passcode)
	if err != nil {
		return DomainErrorResponse(c, err)
	}

	snap, err := sess.Snapshot()
	if err != nil {
		return DomainErrorResponse(c, err)
	}

	// Generate JWT token
	token, err := h.auth.GenerateJWT(sess.ID(), snap.User.ID, snap.User.Role)
	if err != nil {
		_ = h.dashboard.Logout(sess.ID())
		return InternalServerErrorResponse(c, "Failed to generate token", err)
	}

	// Set HTTP-only cookie
	c.SetCookie(&http.Cookie{
		Name:     middleware.TokenCookie,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   h.secureCookie,
		SameSite: http.SameSiteStrictMode,
		MaxAge:   int(h.auth.TTL().Seconds()),
	})

	return SuccessResponse(c, dto.LoginResponse{
		Token:     token,
		SessionID: sess.ID(),
		User:      dto.NewUserOutput(snap.User),
	})
}

// Logout tears the session down
// POST /api/auth/logout
func (h *AuthHandler) Logout(c echo.Context) error {
	sessionID, err := middleware.GetSessionID(c)
	if err != nil {
		return UnauthorizedResponse(c, "User not authenticated")
	}

	// Clear the cookie
	c.SetCookie(&http.Cookie{
		Name:     middleware.TokenCookie,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		MaxAge:   -1, // Delete cookie
	})

	// An already swept session still counts as logged out
	_ = h.dashboard.Logout(sessionID)
	return SuccessMessageResponse(c, "Logged out", nil)
}
