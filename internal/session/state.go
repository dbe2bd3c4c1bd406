// Package session holds the per-login dashboard state and the simulators bound to it.
package session

import (
	"github.com/shopspring/decimal"

	"mastersol/internal/domain"
)

// State is the identity and wallet part of a session. The bot wallet
// counters live here; the copy trader reaches the active one through State
// as a service.BalanceAccount.
type State struct {
	User       domain.User
	Wallet     *domain.Wallet
	Connecting bool
	TestMode   bool

	TestBalance decimal.Decimal
	LiveBalance decimal.Decimal
}

// NewState creates the state of a fresh login: no wallet, test mode on
func NewState(user domain.User, testBalance, liveBalance decimal.Decimal) *State {
	return &State{
		User:        user,
		TestMode:    true,
		TestBalance: testBalance,
		LiveBalance: liveBalance,
	}
}

// Mode returns the trading mode label
func (s *State) Mode() string {
	if s.TestMode {
		return domain.ModeTest
	}
	return domain.ModeLive
}

// Balance returns the bot wallet balance of the active mode
func (s *State) Balance() decimal.Decimal {
	if s.TestMode {
		return s.TestBalance
	}
	return s.LiveBalance
}

// Adjust adds delta to the bot wallet balance of the active mode
func (s *State) Adjust(delta decimal.Decimal) {
	if s.TestMode {
		s.TestBalance = s.TestBalance.Add(delta)
		return
	}
	s.LiveBalance = s.LiveBalance.Add(delta)
}

// SetTestMode switches between the test and live counters.
// Leaving test mode requires a connected wallet.
func (s *State) SetTestMode(on bool) error {
	if !on && s.Wallet == nil {
		return domain.ErrWalletNotConnected
	}
	s.TestMode = on
	return nil
}

// BeginConnect marks a wallet handshake in progress
func (s *State) BeginConnect() error {
	if s.Connecting {
		return domain.ErrWalletConnecting
	}
	s.Connecting = true
	return nil
}

// FinishConnect attaches the user's wallet with the given balance
func (s *State) FinishConnect(defaultAddress string, balance decimal.Decimal) {
	address := s.User.Address
	if address == "" {
		address = defaultAddress
	}
	s.Connecting = false
	s.Wallet = &domain.Wallet{Address: address, Balance: balance}
}

// Disconnect drops the wallet and forces test mode back on
func (s *State) Disconnect() {
	s.Connecting = false
	s.Wallet = nil
	s.TestMode = true
}
