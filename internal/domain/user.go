package domain

import (
	"github.com/shopspring/decimal"
)

// Role identifies what a user may do in the dashboard
type Role string

// UserRole constants
const (
	RoleAdmin  Role = "Admin"
	RoleTrader Role = "Trader"
)

// User represents one of the canned agents selectable at login
type User struct {
	ID           int    `json:"id"`
	Name         string `json:"name"`
	Role         Role   `json:"role"`
	Address      string `json:"address"`
	PasscodeHash string `json:"-"` // Never expose passcode hash in JSON
}

// IsAdmin reports whether the user may reach the admin panel
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// Wallet is the user's connected wallet. It exists only between connect and disconnect.
type Wallet struct {
	Address string          `json:"address"`
	Balance decimal.Decimal `json:"balance"`
}

// TradingMode constants
const (
	ModeTest = "TEST"
	ModeLive = "LIVE"
)
