package domain

// UserRepository defines the interface for looking up login identities
type UserRepository interface {
	// GetAll retrieves all selectable users in login order
	GetAll() []User

	// GetByID retrieves a user by ID
	GetByID(id int) (*User, error)
}

// MarketDataRepository defines the interface for the static dashboard data
type MarketDataRepository interface {
	// RecentTrades returns the seeded dashboard trade history
	RecentTrades() []Trade

	// AnalyzedTokens returns the seeded forensics rows
	AnalyzedTokens() []AnalyzedToken

	// Portfolio returns the seeded portfolio chart series
	Portfolio() []PortfolioPoint

	// APIServices returns the admin connectivity matrix entries
	APIServices() []APIService
}
