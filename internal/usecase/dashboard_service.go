package usecase

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"

	"mastersol/configs"
	"mastersol/internal/domain"
	"mastersol/internal/infra"
	"mastersol/internal/mockdata"
	"mastersol/internal/observability"
	"mastersol/internal/service"
	"mastersol/internal/session"
)

// SessionRepository stores live sessions
type SessionRepository interface {
	Save(s *session.Session)
	GetByID(id string) (*session.Session, error)
	Delete(id string) (*session.Session, error)
	DeleteIdle(cutoff time.Time) []*session.Session
	All() []*session.Session
	Count() int
}

// DashboardData is the content of the dashboard landing page
type DashboardData struct {
	Wallet           *domain.Wallet          `json:"wallet"`
	TestMode         bool                    `json:"test_mode"`
	BotWalletBalance decimal.Decimal         `json:"bot_wallet_balance"`
	TradesLast24h    int                     `json:"trades_24h"`
	RecentTrades     []domain.Trade          `json:"recent_trades"`
	Portfolio        []domain.PortfolioPoint `json:"portfolio"`
}

// Options carries the optional collaborators of a DashboardService
type Options struct {
	Metrics *observability.Metrics
	Clock   func() time.Time
	NewLoop func() session.Loop
	NewRand func() domain.RandomSource
}

// DashboardService implements the dashboard commands and queries on top of per-login sessions
type DashboardService struct {
	users    domain.UserRepository
	market   domain.MarketDataRepository
	sessions SessionRepository
	insight  *service.InsightService
	sim      configs.SimulationConfig
	opts     Options

	mu     sync.Mutex // guards botKey
	botKey string
}

// NewDashboardService creates a new DashboardService
func NewDashboardService(
	users domain.UserRepository,
	market domain.MarketDataRepository,
	sessions SessionRepository,
	insight *service.InsightService,
	sim configs.SimulationConfig,
	opts Options,
) *DashboardService {
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	if opts.NewLoop == nil {
		opts.NewLoop = func() session.Loop { return infra.NewEventLoop() }
	}
	if opts.NewRand == nil {
		opts.NewRand = func() domain.RandomSource { return rand.New(rand.NewSource(time.Now().UnixNano())) }
	}
	return &DashboardService{
		users:    users,
		market:   market,
		sessions: sessions,
		insight:  insight,
		sim:      sim,
		opts:     opts,
	}
}

// Users lists the agents selectable at login
func (s *DashboardService) Users() []domain.User {
	return s.users.GetAll()
}

// Login checks the passcode and opens a new session for the user
func (s *DashboardService) Login(userID int, passcode string) (*session.Session, error) {
	user, err := s.users.GetByID(userID)
	if err != nil {
		s.opts.Metrics.ObserveLogin("unknown_user")
		return nil, domain.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasscodeHash), []byte(passcode)); err != nil {
		s.opts.Metrics.ObserveLogin("bad_passcode")
		return nil, domain.ErrInvalidCredentials
	}

	sess := session.New(uuid.NewString(), s.opts.NewLoop(), s.opts.NewRand(), session.Options{
		User:        *user,
		Tokens:      s.market.AnalyzedTokens(),
		APIServices: s.market.APIServices(),
		Simulation:  s.sim,
		Insight:     s.insight,
		Metrics:     s.opts.Metrics,
		Clock:       s.opts.Clock,
	})

	// Saved before the key is applied so a concurrent key change reaches it.
	s.sessions.Save(sess)
	if err := s.syncBotKey(sess); err != nil {
		_, _ = s.sessions.Delete(sess.ID())
		sess.Close()
		return nil, fmt.Errorf("failed to apply bot key: %w", err)
	}

	s.opts.Metrics.ObserveLogin("ok")
	s.opts.Metrics.SetActiveSessions(s.sessions.Count())
	log.Info().Str("session", sess.ID()).Str("user", user.Name).Msg("user logged in")
	return sess, nil
}

// Logout tears the session down
func (s *DashboardService) Logout(sessionID string) error {
	sess, err := s.sessions.Delete(sessionID)
	if err != nil {
		return err
	}
	sess.Close()
	s.opts.Metrics.SetActiveSessions(s.sessions.Count())
	return nil
}

// Session returns a live session and records activity on it
func (s *DashboardService) Session(sessionID string) (*session.Session, error) {
	sess, err := s.sessions.GetByID(sessionID)
	if err != nil {
		return nil, err
	}
	sess.Touch()
	return sess, nil
}

func (s *DashboardService) withSession(sessionID string, fn func(*session.Session) error) error {
	sess, err := s.Session(sessionID)
	if err != nil {
		return err
	}
	return fn(sess)
}

// Snapshot returns everything the dashboard renders for a session
func (s *DashboardService) Snapshot(sessionID string) (session.Snapshot, error) {
	var snap session.Snapshot
	err := s.withSession(sessionID, func(sess *session.Session) error {
		var err error
		snap, err = sess.Snapshot()
		return err
	})
	return snap, err
}

// Dashboard returns the landing page content
func (s *DashboardService) Dashboard(sessionID string) (*DashboardData, error) {
	snap, err := s.Snapshot(sessionID)
	if err != nil {
		return nil, err
	}
	return &DashboardData{
		Wallet:           snap.Wallet,
		TestMode:         snap.TestMode,
		BotWalletBalance: snap.WalletBalance,
		TradesLast24h:    mockdata.TradesLast24h,
		RecentTrades:     s.market.RecentTrades(),
		Portfolio:        s.market.Portfolio(),
	}, nil
}

// BotStatus returns the copy trader state of a session
func (s *DashboardService) BotStatus(sessionID string) (domain.BotSnapshot, error) {
	var bot domain.BotSnapshot
	err := s.withSession(sessionID, func(sess *session.Session) error {
		var err error
		bot, err = sess.BotStatus()
		return err
	})
	return bot, err
}

// EnableBot switches the session's copy trader on or off
func (s *DashboardService) EnableBot(sessionID string, on bool) error {
	return s.withSession(sessionID, func(sess *session.Session) error {
		return sess.EnableBot(on)
	})
}

// SetTradeAmount changes the session's copy trade size
func (s *DashboardService) SetTradeAmount(sessionID string, amount decimal.Decimal) error {
	return s.withSession(sessionID, func(sess *session.Session) error {
		return sess.SetTradeAmount(amount)
	})
}

// SetFilter selects the forensics filter
func (s *DashboardService) SetFilter(sessionID, filter string) error {
	return s.withSession(sessionID, func(sess *session.Session) error {
		return sess.SetFilter(filter)
	})
}

// Tokens lists forensics rows for a filter
func (s *DashboardService) Tokens(sessionID, filter string) ([]domain.AnalyzedToken, error) {
	var out []domain.AnalyzedToken
	err := s.withSession(sessionID, func(sess *session.Session) error {
		var err error
		out, err = sess.Tokens(filter)
		return err
	})
	return out, err
}

// RequestTradingInsight analyzes the session's live trades
func (s *DashboardService) RequestTradingInsight(ctx context.Context, sessionID string) (domain.InsightPanel, error) {
	var panel domain.InsightPanel
	err := s.withSession(sessionID, func(sess *session.Session) error {
		var err error
		panel, err = sess.RequestTradingInsight(ctx)
		return err
	})
	return panel, err
}

// RequestTokenInsight analyzes one forensics row
func (s *DashboardService) RequestTokenInsight(ctx context.Context, sessionID, tokenID string) (domain.InsightPanel, error) {
	var panel domain.InsightPanel
	err := s.withSession(sessionID, func(sess *session.Session) error {
		var err error
		panel, err = sess.RequestTokenInsight(ctx, tokenID)
		return err
	})
	return panel, err
}

// DismissInsight closes the insight panel
func (s *DashboardService) DismissInsight(sessionID string) error {
	return s.withSession(sessionID, func(sess *session.Session) error {
		return sess.DismissInsight()
	})
}

// ConnectWallet starts the wallet handshake
func (s *DashboardService) ConnectWallet(sessionID string) error {
	return s.withSession(sessionID, func(sess *session.Session) error {
		return sess.ConnectWallet()
	})
}

// DisconnectWallet drops the wallet
func (s *DashboardService) DisconnectWallet(sessionID string) error {
	return s.withSession(sessionID, func(sess *session.Session) error {
		return sess.DisconnectWallet()
	})
}

// SetTestMode switches between test and live bot wallets
func (s *DashboardService) SetTestMode(sessionID string, on bool) error {
	return s.withSession(sessionID, func(sess *session.Session) error {
		return sess.SetTestMode(on)
	})
}

// SetBotPrivateKey configures the bot wallet key. The key outlives the
// admin's session and applies to every live and future session.
func (s *DashboardService) SetBotPrivateKey(sessionID, key string) error {
	if _, err := s.Session(sessionID); err != nil {
		return err
	}

	s.mu.Lock()
	s.botKey = key
	s.mu.Unlock()

	var errs []error
	for _, sess := range s.sessions.All() {
		if err := s.syncBotKey(sess); err != nil && !errors.Is(err, domain.ErrSessionNotFound) {
			errs = append(errs, err)
		}
	}
	log.Info().Bool("configured", key != "").Msg("bot private key updated")
	return errors.Join(errs...)
}

// syncBotKey applies the current service key to sess until the key read
// before the apply is still current afterwards. Applying an unchanged key is
// a no-op in the copy trader.
func (s *DashboardService) syncBotKey(sess *session.Session) error {
	key := s.currentBotKey()
	for {
		if err := sess.SetBotPrivateKey(key); err != nil {
			return err
		}
		latest := s.currentBotKey()
		if latest == key {
			return nil
		}
		key = latest
	}
}

func (s *DashboardService) currentBotKey() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.botKey
}

// SetAPIKey stores a service key in the session's admin matrix
func (s *DashboardService) SetAPIKey(sessionID, serviceID, key string) error {
	return s.withSession(sessionID, func(sess *session.Session) error {
		return sess.SetAPIKey(serviceID, key)
	})
}

// CheckAPIs runs the admin connectivity check
func (s *DashboardService) CheckAPIs(sessionID string) error {
	return s.withSession(sessionID, func(sess *session.Session) error {
		return sess.CheckAPIs()
	})
}

// APIStates returns the admin matrix
func (s *DashboardService) APIStates(sessionID string) ([]domain.APIServiceState, error) {
	var out []domain.APIServiceState
	err := s.withSession(sessionID, func(sess *session.Session) error {
		var err error
		out, err = sess.APIStates()
		return err
	})
	return out, err
}

// SweepIdle closes sessions without activity for longer than ttl and returns how many
func (s *DashboardService) SweepIdle(ttl time.Duration) int {
	removed := s.sessions.DeleteIdle(s.opts.Clock().Add(-ttl))
	for _, sess := range removed {
		sess.Close()
	}
	s.opts.Metrics.SetActiveSessions(s.sessions.Count())
	if len(removed) > 0 {
		log.Info().Int("count", len(removed)).Msg("swept idle sessions")
	}
	return len(removed)
}

// ActiveSessions returns the number of live sessions
func (s *DashboardService) ActiveSessions() int {
	return s.sessions.Count()
}

// Shutdown closes every session
func (s *DashboardService) Shutdown() {
	for _, sess := range s.sessions.All() {
		if _, err := s.sessions.Delete(sess.ID()); err == nil {
			sess.Close()
		}
	}
	s.opts.Metrics.SetActiveSessions(0)
}
