package http

import (
	"github.com/labstack/echo/v4"

	"mastersol/internal/delivery/http/dto"
	"mastersol/internal/middleware"
	"mastersol/internal/usecase"
)

// UserHandler handles session and wallet requests
type UserHandler struct {
	dashboard *usecase.DashboardService
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(dashboard *usecase.DashboardService) *UserHandler {
	return &UserHandler{dashboard: dashboard}
}

// GetMe returns the full dashboard snapshot
// GET /api/me
func (h *UserHandler) GetMe(c echo.Context) error {
	id, err := middleware.GetSessionID(c)
	if err != nil {
		return UnauthorizedResponse(c, "User not authenticated")
	}

	snap, err := h.dashboard.Snapshot(id)
	if err != nil {
		return DomainErrorResponse(c, err)
	}
	return SuccessResponse(c, dto.NewSnapshotOutput(snap))
}

// GetDashboard returns portfolio, seeded trades and balances
// GET /api/dashboard
func (h *UserHandler) GetDashboard(c echo.Context) error {
	id, err := middleware.GetSessionID(c)
	if err != nil {
		return UnauthorizedResponse(c, "User not authenticated")
	}

	data, err := h.dashboard.Dashboard(id)
	if err != nil {
		return DomainErrorResponse(c, err)
	}
	return SuccessResponse(c, data)
}

// ConnectWallet starts the simulated wallet handshake
// POST /api/wallet/connect
func (h *UserHandler) ConnectWallet(c echo.Context) error {
	id, err := middleware.GetSessionID(c)
	if err != nil {
		return UnauthorizedResponse(c, "User not authenticated")
	}

	if err := h.dashboard.ConnectWallet(id); err != nil {
		return DomainErrorResponse(c, err)
	}
	return SuccessMessageResponse(c, "Connecting wallet...", nil)
}

// DisconnectWallet drops the wallet and returns to test mode
// POST /api/wallet/disconnect
func (h *UserHandler) DisconnectWallet(c echo.Context) error {
	id, err := middleware.GetSessionID(c)
	if err != nil {
		return UnauthorizedResponse(c, "User not authenticated")
	}

	if err := h.dashboard.DisconnectWallet(id); err != nil {
		return DomainErrorResponse(c, err)
	}
	return SuccessMessageResponse(c, "Wallet disconnected", nil)
}

// SetMode switches between the test and live bot wallets
// POST /api/mode
func (h *UserHandler) SetMode(c echo.Context) error {
	id, err := middleware.GetSessionID(c)
	if err != nil {
		return UnauthorizedResponse(c, "User not authenticated")
	}

	var req dto.ToggleModeRequest
	if err := c.Bind(&req); err != nil || req.TestMode == nil {
		return BadRequestResponse(c, "test_mode is required")
	}

	if err := h.dashboard.SetTestMode(id, *req.TestMode); err != nil {
		return DomainErrorResponse(c, err)
	}

	snap, err := h.dashboard.Snapshot(id)
	if err != nil {
		return DomainErrorResponse(c, err)
	}
	return SuccessResponse(c, map[string]interface{}{
		"test_mode":      snap.TestMode,
		"mode":           snap.Mode,
		"wallet_balance": snap.WalletBalance,
	})
}
