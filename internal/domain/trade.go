package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TradeSide is the direction of a trade
type TradeSide string

// TradeSide constants
const (
	SideBuy  TradeSide = "BUY"
	SideSell TradeSide = "SELL"
)

// TradeStatus is the settlement state of a trade
type TradeStatus string

// TradeStatus constants
const (
	TradeCompleted TradeStatus = "Completed"
	TradePending   TradeStatus = "Pending"
	TradeFailed    TradeStatus = "Failed"
)

// Trade represents a single executed (or attempted) swap
type Trade struct {
	ID        string          `json:"id"`
	Pair      string          `json:"pair"` // BASE/QUOTE, e.g. WIF/SOL
	Side      TradeSide       `json:"type"`
	Amount    decimal.Decimal `json:"amount"`
	Price     decimal.Decimal `json:"price"`
	Timestamp time.Time       `json:"timestamp"`
	Status    TradeStatus     `json:"status"`
}

// PortfolioPoint is one sample of the dashboard portfolio chart
type PortfolioPoint struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
}
