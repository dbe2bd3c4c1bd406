package dto

import (
	"github.com/shopspring/decimal"

	"mastersol/internal/domain"
	"mastersol/internal/utils"
)

// EnableBotRequest represents the bot on/off switch
type EnableBotRequest struct {
	Enabled *bool `json:"enabled"`
}

// TradeAmountRequest represents a copy trade size change
type TradeAmountRequest struct {
	Amount *decimal.Decimal `json:"amount"`
}

// BotStatusOutput represents the copy trader in API responses
type BotStatusOutput struct {
	Status      domain.BotStatus `json:"status"`
	Enabled     bool             `json:"enabled"`
	HasKey      bool             `json:"has_key"`
	TradeAmount decimal.Decimal  `json:"trade_amount"`
	RealizedPnL decimal.Decimal  `json:"realized_pnl"`
	LiveTrades  []domain.Trade   `json:"live_trades"`
	Logs        []string         `json:"logs"` // "15:04:05: text", newest first
}

// NewBotStatusOutput converts a bot snapshot, rendering log lines for display
func NewBotStatusOutput(b domain.BotSnapshot) *BotStatusOutput {
	logs := make([]string, len(b.Logs))
	for i, l := range b.Logs {
		logs[i] = utils.FormatClock(l.At) + ": " + l.Text
	}
	trades := b.LiveTrades
	if trades == nil {
		trades = []domain.Trade{}
	}
	return &BotStatusOutput{
		Status:      b.Status,
		Enabled:     b.Enabled,
		HasKey:      b.HasKey,
		TradeAmount: b.TradeAmount,
		RealizedPnL: b.RealizedPnL,
		LiveTrades:  trades,
		Logs:        logs,
	}
}
