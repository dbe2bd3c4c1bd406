package dto

import (
	"github.com/shopspring/decimal"

	"mastersol/internal/domain"
	"mastersol/internal/session"
)

// UserOutput represents user details in API responses
type UserOutput struct {
	ID      int    `json:"id"`
	Name    string `json:"name"`
	Role    string `json:"role"`
	Address string `json:"address,omitempty"`
}

// NewUserOutput converts a domain user
func NewUserOutput(u domain.User) *UserOutput {
	return &UserOutput{ID: u.ID, Name: u.Name, Role: string(u.Role), Address: u.Address}
}

// ToggleModeRequest represents the test/live mode switch
type ToggleModeRequest struct {
	TestMode *bool `json:"test_mode"`
}

// SnapshotOutput is the full dashboard state pushed to the browser
type SnapshotOutput struct {
	SessionID      string                   `json:"session_id"`
	User           *UserOutput              `json:"user"`
	Wallet         *domain.Wallet           `json:"wallet"`
	Connecting     bool                     `json:"connecting"`
	TestMode       bool                     `json:"test_mode"`
	Mode           string                   `json:"mode"`
	WalletBalance  decimal.Decimal          `json:"wallet_balance"`
	Bot            *BotStatusOutput         `json:"bot"`
	Filter         string                   `json:"filter"`
	AnalyzedTokens []TokenOutput            `json:"analyzed_tokens"`
	NewTokenID     string                   `json:"new_token_id,omitempty"`
	APIStatuses    []domain.APIServiceState `json:"api_statuses,omitempty"`
	Insight        domain.InsightPanel      `json:"insight"`
	Version        uint64                   `json:"version"`
}

// NewSnapshotOutput converts a session snapshot
func NewSnapshotOutput(s session.Snapshot) *SnapshotOutput {
	return &SnapshotOutput{
		SessionID:      s.SessionID,
		User:           NewUserOutput(s.User),
		Wallet:         s.Wallet,
		Connecting:     s.Connecting,
		TestMode:       s.TestMode,
		Mode:           s.Mode,
		WalletBalance:  s.WalletBalance,
		Bot:            NewBotStatusOutput(s.Bot),
		Filter:         s.Filter,
		AnalyzedTokens: NewTokenOutputs(s.AnalyzedTokens),
		NewTokenID:     s.NewTokenID,
		APIStatuses:    s.APIStatuses,
		Insight:        s.Insight,
		Version:        s.Version,
	}
}
