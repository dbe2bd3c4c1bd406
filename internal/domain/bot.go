package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// BotStatus is the lifecycle state of the copy trading bot
type BotStatus string

// BotStatus constants
const (
	BotOffline      BotStatus = "Offline"
	BotInitializing BotStatus = "Initializing"
	BotRunning      BotStatus = "Running"
	BotError        BotStatus = "Error"
)

// LogLine is a single timestamped entry of the bot activity log
type LogLine struct {
	At   time.Time `json:"at"`
	Text string    `json:"text"`
}

// BotSnapshot is a read-only copy of the copy trader state
type BotSnapshot struct {
	Status      BotStatus       `json:"status"`
	Enabled     bool            `json:"enabled"`
	HasKey      bool            `json:"has_key"`
	TradeAmount decimal.Decimal `json:"trade_amount"`
	RealizedPnL decimal.Decimal `json:"realized_pnl"`
	LiveTrades  []Trade         `json:"live_trades"`
	Logs        []LogLine       `json:"logs"`
}

// APIStatus is the connectivity state of an external service in the admin matrix
type APIStatus string

// APIStatus constants
const (
	APIIdle     APIStatus = "idle"
	APIChecking APIStatus = "checking"
	APISuccess  APIStatus = "success"
	APIFailed   APIStatus = "error"
)

// APIService describes one entry of the admin API configuration matrix
type APIService struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// APIServiceState is the configured key and last check result for a service
type APIServiceState struct {
	APIService
	Key        string    `json:"-"`
	Configured bool      `json:"configured"`
	Status     APIStatus `json:"status"`
}
