package http

import (
	"context"

	"github.com/labstack/echo/v4"

	"mastersol/internal/delivery/http/dto"
	"mastersol/internal/middleware"
	"mastersol/internal/usecase"
)

// ForensicsHandler handles the token event feed
type ForensicsHandler struct {
	dashboard *usecase.DashboardService
}

// NewForensicsHandler creates a new ForensicsHandler
func NewForensicsHandler(dashboard *usecase.DashboardService) *ForensicsHandler {
	return &ForensicsHandler{dashboard: dashboard}
}

// ListTokens returns analyzed tokens, newest first
// GET /api/forensics/tokens?filter=RugPull
func (h *ForensicsHandler) ListTokens(c echo.Context) error {
	id, err := middleware.GetSessionID(c)
	if err != nil {
		return UnauthorizedResponse(c, "User not authenticated")
	}

	tokens, err := h.dashboard.Tokens(id, c.QueryParam("filter"))
	if err != nil {
		return DomainErrorResponse(c, err)
	}
	return SuccessResponse(c, dto.NewTokenOutputs(tokens))
}

// SetFilter stores the session's event filter
// POST /api/forensics/filter
func (h *ForensicsHandler) SetFilter(c echo.Context) error {
	id, err := middleware.GetSessionID(c)
	if err != nil {
		return UnauthorizedResponse(c, "User not authenticated")
	}

	var req dto.FilterRequest
	if err := c.Bind(&req); err != nil {
		return BadRequestResponse(c, "Invalid request payload")
	}

	if err := h.dashboard.SetFilter(id, req.Filter); err != nil {
		return DomainErrorResponse(c, err)
	}

	tokens, err := h.dashboard.Tokens(id, "")
	if err != nil {
		return DomainErrorResponse(c, err)
	}
	return SuccessResponse(c, dto.NewTokenOutputs(tokens))
}

// AnalyzeToken requests a text analysis of one token
// POST /api/forensics/tokens/:id/analyze
func (h *ForensicsHandler) AnalyzeToken(c echo.Context) error {
	id, err := middleware.GetSessionID(c)
	if err != nil {
		return UnauthorizedResponse(c, "User not authenticated")
	}

	tokenID := c.Param("id")
	if tokenID == "" {
		return BadRequestResponse(c, "Token ID is required")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), insightTimeout)
	defer cancel()

	panel, err := h.dashboard.RequestTokenInsight(ctx, id, tokenID)
	if err != nil {
		return DomainErrorResponse(c, err)
	}
	return SuccessResponse(c, panel)
}
