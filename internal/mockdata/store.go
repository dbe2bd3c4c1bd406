// Package mockdata holds the static seed collections behind the dashboard.
package mockdata

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"

	"mastersol/internal/domain"
)

// Store implements domain.UserRepository and domain.MarketDataRepository
// over immutable in-memory seed data.
type Store struct {
	users []domain.User
}

// NewStore creates the seed store. Every canned user shares the demo passcode,
// hashed with the given bcrypt cost.
func NewStore(passcode string, cost int) (*Store, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(passcode), cost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash demo passcode: %w", err)
	}

	users := []domain.User{
		{ID: 1, Name: "Agent Smith", Role: domain.RoleAdmin, Address: "5GrwvaEF5zXb26Fz9rcQpDWS57CtERHpNehXCPoON85f"},
		{ID: 2, Name: "Agent Trinity", Role: domain.RoleTrader, Address: "7xKMG8m6gC8qVbJ5qT9pW3fH9sY8Z2cE6d"},
	}
	for i := range users {
		users[i].PasscodeHash = string(hash)
	}

	return &Store{users: users}, nil
}

// DefaultWalletAddress is used when a connecting user has no known address
const DefaultWalletAddress = "7xKMG8m6gC8qVbJ5qT9pW3fH9sY8Z2cE6d"

// ConnectedWalletBalance is the balance every freshly connected wallet reports
var ConnectedWalletBalance = decimal.RequireFromString("10.53")

// TradesLast24h is the fixed figure shown on the dashboard trade counter
const TradesLast24h = 128

// GetAll returns a copy of the users in login order
func (s *Store) GetAll() []domain.User {
	out := make([]domain.User, len(s.users))
	copy(out, s.users)
	return out
}

// GetByID returns a copy of the user with the given ID
func (s *Store) GetByID(id int) (*domain.User, error) {
	for _, u := range s.users {
		if u.ID == id {
			user := u
			return &user, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

// RecentTrades returns the seeded dashboard trade history
func (s *Store) RecentTrades() []domain.Trade {
	return []domain.Trade{
		{ID: "1", Pair: "SOL/USDC", Side: domain.SideBuy, Amount: decimal.NewFromInt(10), Price: decimal.RequireFromString("150.5"), Timestamp: seedTime("2024-07-16 10:30:00"), Status: domain.TradeCompleted},
		{ID: "2", Pair: "WIF/SOL", Side: domain.SideSell, Amount: decimal.NewFromInt(200), Price: decimal.RequireFromString("2.1"), Timestamp: seedTime("2024-07-16 09:15:00"), Status: domain.TradeCompleted},
		{ID: "3", Pair: "BONK/SOL", Side: domain.SideBuy, Amount: decimal.NewFromInt(5000000), Price: decimal.RequireFromString("0.000022"), Timestamp: seedTime("2024-07-16 08:45:00"), Status: domain.TradePending},
		{ID: "4", Pair: "JUP/USDC", Side: domain.SideBuy, Amount: decimal.NewFromInt(500), Price: decimal.RequireFromString("0.75"), Timestamp: seedTime("2024-07-15 18:00:00"), Status: domain.TradeFailed},
	}
}

// AnalyzedTokens returns the seeded forensics rows
func (s *Store) AnalyzedTokens() []domain.AnalyzedToken {
	return []domain.AnalyzedToken{
		{ID: "T1", Name: "CyberPepe", Symbol: "CYPE", EventType: domain.EventPump, Date: "2024-07-15", MarketCap: 1500000, Description: "Massive overnight volume spike."},
		{ID: "T2", Name: "SolanaChad", Symbol: "SCHAD", EventType: domain.EventRugPull, Date: "2024-07-14", MarketCap: 250000, Description: "Liquidity pulled from Raydium."},
		{ID: "T3", Name: "QuantumLink", Symbol: "QLINK", EventType: domain.EventTier1, Date: "2024-07-12", MarketCap: 500000000, Description: "Sustained growth and high volume."},
		{ID: "T4", Name: "NeonProtocol", Symbol: "NEONP", EventType: domain.EventCEXListing, Date: "2024-07-10", MarketCap: 120000000, Description: "Rumors of Binance listing confirmed."},
		{ID: "T5", Name: "AstroGlitch", Symbol: "AGL", EventType: domain.EventRugPull, Date: "2024-07-09", MarketCap: 50000, Description: "Deployer wallet sold all tokens."},
	}
}

// Portfolio returns the seeded portfolio chart series
func (s *Store) Portfolio() []domain.PortfolioPoint {
	return []domain.PortfolioPoint{
		{Name: "Jan", Value: 40000},
		{Name: "Feb", Value: 35000},
		{Name: "Mar", Value: 52000},
		{Name: "Apr", Value: 48000},
		{Name: "May", Value: 61000},
		{Name: "Jun", Value: 75000},
	}
}

// APIServices returns the admin connectivity matrix entries
func (s *Store) APIServices() []domain.APIService {
	return []domain.APIService{
		{ID: "solana", Name: "Solana RPC Endpoint"},
		{ID: "jupiter", Name: "Jupiter API Key"},
		{ID: "birdeye", Name: "Birdeye API Key"},
		{ID: "rugcheck", Name: "Rug Check Service API"},
	}
}

func seedTime(s string) time.Time {
	t, err := time.ParseInLocation(time.DateTime, s, time.UTC)
	if err != nil {
		panic(fmt.Sprintf("mockdata: bad seed time %q: %v", s, err))
	}
	return t
}
