package http

import (
	"github.com/labstack/echo/v4"

	"mastersol/internal/delivery/http/dto"
	"mastersol/internal/middleware"
	"mastersol/internal/usecase"
)

// AdminHandler handles admin-related requests
type AdminHandler struct {
	dashboard *usecase.DashboardService
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(dashboard *usecase.DashboardService) *AdminHandler {
	return &AdminHandler{dashboard: dashboard}
}

// SetBotKey configures the bot wallet key for every open session.
// An empty key clears it and takes the bot offline.
// PUT /api/admin/bot-key
func (h *AdminHandler) SetBotKey(c echo.Context) error {
	id, err := middleware.GetSessionID(c)
	if err != nil {
		return UnauthorizedResponse(c, "User not authenticated")
	}

	var req dto.BotKeyRequest
	if err := c.Bind(&req); err != nil {
		return BadRequestResponse(c, "Invalid request payload")
	}

	if err := h.dashboard.SetBotPrivateKey(id, req.PrivateKey); err != nil {
		return DomainErrorResponse(c, err)
	}

	message := "Bot private key saved"
	if req.PrivateKey == "" {
		message = "Bot private key cleared"
	}
	return SuccessMessageResponse(c, message, nil)
}

// GetAPIKeys returns the API key matrix with the last check result
// GET /api/admin/api-keys
func (h *AdminHandler) GetAPIKeys(c echo.Context) error {
	id, err := middleware.GetSessionID(c)
	if err != nil {
		return UnauthorizedResponse(c, "User not authenticated")
	}

	states, err := h.dashboard.APIStates(id)
	if err != nil {
		return DomainErrorResponse(c, err)
	}
	return SuccessResponse(c, states)
}

// SetAPIKey stores one key of the matrix
// PUT /api/admin/api-keys/:service
func (h *AdminHandler) SetAPIKey(c echo.Context) error {
	id, err := middleware.GetSessionID(c)
	if err != nil {
		return UnauthorizedResponse(c, "User not authenticated")
	}

	var req dto.APIKeyRequest
	if err := c.Bind(&req); err != nil {
		return BadRequestResponse(c, "Invalid request payload")
	}

	if err := h.dashboard.SetAPIKey(id, c.Param("service"), req.Value); err != nil {
		return DomainErrorResponse(c, err)
	}

	states, err := h.dashboard.APIStates(id)
	if err != nil {
		return DomainErrorResponse(c, err)
	}
	return SuccessResponse(c, states)
}

// CheckAPIs starts a simulated connectivity check of every configured key
// POST /api/admin/api-keys/check
func (h *AdminHandler) CheckAPIs(c echo.Context) error {
	id, err := middleware.GetSessionID(c)
	if err != nil {
		return UnauthorizedResponse(c, "User not authenticated")
	}

	if err := h.dashboard.CheckAPIs(id); err != nil {
		return DomainErrorResponse(c, err)
	}

	states, err := h.dashboard.APIStates(id)
	if err != nil {
		return DomainErrorResponse(c, err)
	}
	return SuccessMessageResponse(c, "API check started", states)
}
