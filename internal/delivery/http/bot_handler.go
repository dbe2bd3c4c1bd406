package http

import (
	"context"
	"time"

	"github.com/labstack/echo/v4"

	"mastersol/internal/delivery/http/dto"
	"mastersol/internal/middleware"
	"mastersol/internal/usecase"
)

// insightTimeout bounds a single text generation request
const insightTimeout = 30 * time.Second

// BotHandler handles copy trading requests
type BotHandler struct {
	dashboard *usecase.DashboardService
}

// NewBotHandler creates a new BotHandler
func NewBotHandler(dashboard *usecase.DashboardService) *BotHandler {
	return &BotHandler{dashboard: dashboard}
}

// GetStatus returns the copy trader state and activity log
// GET /api/bot/status
func (h *BotHandler) GetStatus(c echo.Context) error {
	id, err := middleware.GetSessionID(c)
	if err != nil {
		return UnauthorizedResponse(c, "User not authenticated")
	}

	status, err := h.dashboard.BotStatus(id)
	if err != nil {
		return DomainErrorResponse(c, err)
	}
	return SuccessResponse(c, dto.NewBotStatusOutput(status))
}

// Enable switches the copy trader on or off
// POST /api/bot/enable
func (h *BotHandler) Enable(c echo.Context) error {
	id, err := middleware.GetSessionID(c)
	if err != nil {
		return UnauthorizedResponse(c, "User not authenticated")
	}

	var req dto.EnableBotRequest
	if err := c.Bind(&req); err != nil || req.Enabled == nil {
		return BadRequestResponse(c, "enabled is required")
	}

	if err := h.dashboard.EnableBot(id, *req.Enabled); err != nil {
		return DomainErrorResponse(c, err)
	}

	status, err := h.dashboard.BotStatus(id)
	if err != nil {
		return DomainErrorResponse(c, err)
	}
	return SuccessResponse(c, dto.NewBotStatusOutput(status))
}

// SetTradeAmount changes the SOL amount used per copied trade
// POST /api/bot/trade-amount
func (h *BotHandler) SetTradeAmount(c echo.Context) error {
	id, err := middleware.GetSessionID(c)
	if err != nil {
		return UnauthorizedResponse(c, "User not authenticated")
	}

	var req dto.TradeAmountRequest
	if err := c.Bind(&req); err != nil || req.Amount == nil {
		return BadRequestResponse(c, "amount is required")
	}

	if err := h.dashboard.SetTradeAmount(id, *req.Amount); err != nil {
		return DomainErrorResponse(c, err)
	}
	return SuccessMessageResponse(c, "Trade amount updated", map[string]interface{}{
		"amount": req.Amount,
	})
}

// RequestInsight asks for a summary of the live trades
// POST /api/bot/insight
func (h *BotHandler) RequestInsight(c echo.Context) error {
	id, err := middleware.GetSessionID(c)
	if err != nil {
		return UnauthorizedResponse(c, "User not authenticated")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), insightTimeout)
	defer cancel()

	panel, err := h.dashboard.RequestTradingInsight(ctx, id)
	if err != nil {
		return DomainErrorResponse(c, err)
	}
	return SuccessResponse(c, panel)
}

// DismissInsight closes the insight panel
// POST /api/insight/dismiss
func (h *BotHandler) DismissInsight(c echo.Context) error {
	id, err := middleware.GetSessionID(c)
	if err != nil {
		return UnauthorizedResponse(c, "User not authenticated")
	}

	if err := h.dashboard.DismissInsight(id); err != nil {
		return DomainErrorResponse(c, err)
	}
	return SuccessMessageResponse(c, "Insight dismissed", nil)
}
