package session

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"mastersol/configs"
	"mastersol/internal/domain"
	"mastersol/internal/mockdata"
	"mastersol/internal/observability"
	"mastersol/internal/service"
)

const walletHandshake = 1500 * time.Millisecond

// Loop runs a session's timers and commands one at a time
type Loop interface {
	domain.Scheduler
	Do(fn func()) error
	Close()
}

// Options configures a new Session
type Options struct {
	User        domain.User
	Tokens      []domain.AnalyzedToken // forensics seed, newest first
	APIServices []domain.APIService
	Simulation  configs.SimulationConfig
	Insight     *service.InsightService
	Metrics     *observability.Metrics
	Clock       func() time.Time
}

// Snapshot is a read-only view of everything the dashboard renders
type Snapshot struct {
	SessionID      string                   `json:"session_id"`
	User           domain.User              `json:"user"`
	Wallet         *domain.Wallet           `json:"wallet"`
	Connecting     bool                     `json:"connecting"`
	TestMode       bool                     `json:"test_mode"`
	Mode           string                   `json:"mode"`
	WalletBalance  decimal.Decimal          `json:"wallet_balance"` // active bot wallet
	TestBalance    decimal.Decimal          `json:"test_balance"`
	LiveBalance    decimal.Decimal          `json:"live_balance"`
	Bot            domain.BotSnapshot       `json:"bot"`
	Filter         string                   `json:"filter"`
	AnalyzedTokens []domain.AnalyzedToken   `json:"analyzed_tokens"`
	NewTokenID     string                   `json:"new_token_id,omitempty"`
	APIStatuses    []domain.APIServiceState `json:"api_statuses,omitempty"`
	Insight        domain.InsightPanel      `json:"insight"`
	Version        uint64                   `json:"version"`
}

// Session is one logged-in dashboard. Everything except the subscriber
// list is owned by the loop goroutine and only touched inside Do.
type Session struct {
	id      string
	loop    Loop
	clock   func() time.Time
	logger  zerolog.Logger
	insight *service.InsightService

	state   *State
	feed    *service.ForensicsFeed
	trader  *service.CopyTrader
	checker *service.APIStatusChecker
	panel    domain.InsightPanel
	panelSeq uint64
	connect  domain.TimerHandle
	version  uint64
	closed   bool

	closeOnce sync.Once

	mu         sync.Mutex // guards lastSeen and subs
	lastSeen   time.Time
	subs       map[chan struct{}]struct{}
	subsClosed bool
}

// New creates a session bound to loop and starts its event feed
func New(id string, loop Loop, rng domain.RandomSource, opts Options) *Session {
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	sim := opts.Simulation
	logger := log.With().Str("session", id).Int("user_id", opts.User.ID).Logger()

	s := &Session{
		id:       id,
		loop:     loop,
		clock:    opts.Clock,
		logger:   logger,
		insight:  opts.Insight,
		lastSeen: opts.Clock(),
		subs:     make(map[chan struct{}]struct{}),
	}
	s.state = NewState(opts.User, decimal.NewFromFloat(sim.TestBotBalance), decimal.NewFromFloat(sim.LiveBotBalance))

	s.feed = service.NewForensicsFeed(loop, rng, opts.Tokens, service.FeedOptions{
		Clock:    opts.Clock,
		Metrics:  opts.Metrics,
		OnChange: s.bump,
	})
	s.trader = service.NewCopyTrader(loop, rng, s.state, decimal.NewFromFloat(sim.DefaultTradeAmount), TraderConfig(sim), service.CopyTraderOptions{
		Clock:    opts.Clock,
		Metrics:  opts.Metrics,
		Logger:   &logger,
		OnChange: s.bump,
	})
	s.checker = service.NewAPIStatusChecker(loop, rng, opts.APIServices, sim.APICheckSuccessProbability, s.bump)

	// Nothing else can reach the session yet
	s.feed.Start()
	logger.Info().Msg("session started")
	return s
}

// TraderConfig maps the simulation settings onto the copy trader constants
func TraderConfig(sim configs.SimulationConfig) service.CopyTraderConfig {
	cfg := service.DefaultCopyTraderConfig()
	cfg.DetectionProbability = sim.DetectionProbability
	cfg.SuccessProbability = sim.SuccessProbability
	cfg.PnLLowerBound = sim.PnLLowerBound
	cfg.PnLUpperBound = sim.PnLUpperBound
	cfg.FailureLimit = sim.FailureLimit
	return cfg
}

// ID returns the session id
func (s *Session) ID() string {
	return s.id
}

// UserID returns the id of the logged-in user
func (s *Session) UserID() int {
	return s.state.User.ID // immutable after New
}

// Touch records activity on the session
func (s *Session) Touch() {
	s.mu.Lock()
	s.lastSeen = s.clock()
	s.mu.Unlock()
}

// LastSeen returns the time of the last recorded activity
func (s *Session) LastSeen() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen
}

// Subscribe returns a channel that receives a signal after state changes.
// Signals coalesce; call cancel to unsubscribe. The channel is closed when
// the session closes, or immediately if it already has.
func (s *Session) Subscribe() (<-chan struct{}, func()) {
	ch := make(chan struct{}, 1)
	s.mu.Lock()
	if s.subsClosed {
		s.mu.Unlock()
		close(ch)
		return ch, func() {}
	}
	s.subs[ch] = struct{}{}
	s.mu.Unlock()

	return ch, func() {
		s.mu.Lock()
		delete(s.subs, ch)
		s.mu.Unlock()
	}
}

// bump runs on the loop after every visible change
func (s *Session) bump() {
	s.version++
	s.mu.Lock()
	for ch := range s.subs {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
	s.mu.Unlock()
}

// do runs fn on the loop
func (s *Session) do(fn func() error) error {
	var err error
	if loopErr := s.loop.Do(func() {
		if s.closed {
			err = domain.ErrSessionNotFound
			return
		}
		err = fn()
	}); loopErr != nil {
		return domain.ErrSessionNotFound
	}
	return err
}

// Snapshot returns a consistent copy of the session state
func (s *Session) Snapshot() (Snapshot, error) {
	var snap Snapshot
	err := s.do(func() error {
		snap = s.snapshot()
		return nil
	})
	return snap, err
}

func (s *Session) snapshot() Snapshot {
	var wallet *domain.Wallet
	if s.state.Wallet != nil {
		w := *s.state.Wallet
		wallet = &w
	}
	snap := Snapshot{
		SessionID:      s.id,
		User:           s.state.User,
		Wallet:         wallet,
		Connecting:     s.state.Connecting,
		TestMode:       s.state.TestMode,
		Mode:           s.state.Mode(),
		WalletBalance:  s.state.Balance(),
		TestBalance:    s.state.TestBalance,
		LiveBalance:    s.state.LiveBalance,
		Bot:            s.trader.Snapshot(),
		Filter:         s.feed.Filter(),
		AnalyzedTokens: s.feed.Visible(),
		NewTokenID:     s.feed.NewTokenID(),
		Insight:        s.panel,
		Version:        s.version,
	}
	if s.state.User.IsAdmin() {
		snap.APIStatuses = s.checker.States()
	}
	return snap
}

// BotStatus returns the copy trader state
func (s *Session) BotStatus() (domain.BotSnapshot, error) {
	var snap domain.BotSnapshot
	err := s.do(func() error {
		snap = s.trader.Snapshot()
		return nil
	})
	return snap, err
}

// EnableBot switches the copy trader on or off
func (s *Session) EnableBot(on bool) error {
	return s.do(func() error {
		return s.trader.SetEnabled(on)
	})
}

// SetTradeAmount changes the copy trade size
func (s *Session) SetTradeAmount(amount decimal.Decimal) error {
	return s.do(func() error {
		return s.trader.SetTradeAmount(amount)
	})
}

// SetBotPrivateKey configures or clears the bot wallet key
func (s *Session) SetBotPrivateKey(key string) error {
	return s.do(func() error {
		s.trader.SetPrivateKey(key)
		return nil
	})
}

// SetFilter selects the forensics event type filter
func (s *Session) SetFilter(filter string) error {
	return s.do(func() error {
		if err := s.feed.SetFilter(filter); err != nil {
			return err
		}
		s.bump()
		return nil
	})
}

// Tokens returns the forensics rows matching filter, or the active filter when filter is empty
func (s *Session) Tokens(filter string) ([]domain.AnalyzedToken, error) {
	var out []domain.AnalyzedToken
	err := s.do(func() error {
		if filter == "" {
			out = s.feed.Visible()
			return nil
		}
		var err error
		out, err = service.FilterTokens(s.feed.Tokens(), filter)
		return err
	})
	return out, err
}

// ConnectWallet starts the simulated wallet handshake
func (s *Session) ConnectWallet() error {
	return s.do(func() error {
		if s.state.Wallet != nil {
			return nil
		}
		if err := s.state.BeginConnect(); err != nil {
			return err
		}
		s.connect = s.loop.Schedule(walletHandshake, func() {
			s.connect = 0
			s.state.FinishConnect(mockdata.DefaultWalletAddress, mockdata.ConnectedWalletBalance)
			s.logger.Info().Str("address", s.state.Wallet.Address).Msg("wallet connected")
			s.bump()
		})
		s.bump()
		return nil
	})
}

// DisconnectWallet drops the wallet and returns to test mode
func (s *Session) DisconnectWallet() error {
	return s.do(func() error {
		s.loop.Cancel(s.connect)
		s.connect = 0
		s.state.Disconnect()
		s.bump()
		return nil
	})
}

// SetTestMode switches the active bot wallet counter
func (s *Session) SetTestMode(on bool) error {
	return s.do(func() error {
		if err := s.state.SetTestMode(on); err != nil {
			return err
		}
		s.bump()
		return nil
	})
}

// SetAPIKey stores a service key in the admin matrix
func (s *Session) SetAPIKey(id, key string) error {
	return s.do(func() error {
		return s.checker.SetKey(id, key)
	})
}

// CheckAPIs runs the simulated connectivity check over the admin matrix
func (s *Session) CheckAPIs() error {
	return s.do(func() error {
		s.checker.CheckAll()
		return nil
	})
}

// APIStates returns the admin matrix
func (s *Session) APIStates() ([]domain.APIServiceState, error) {
	var out []domain.APIServiceState
	err := s.do(func() error {
		out = s.checker.States()
		return nil
	})
	return out, err
}

// RequestTradingInsight asks for an analysis of the live trades. The panel
// shows a loading state while the request is outstanding.
func (s *Session) RequestTradingInsight(ctx context.Context) (domain.InsightPanel, error) {
	var (
		bot domain.BotSnapshot
		seq uint64
	)
	err := s.do(func() error {
		bot = s.trader.Snapshot()
		if len(bot.LiveTrades) == 0 {
			return domain.ErrNoLiveTrades
		}
		seq = s.openPanel(domain.InsightTrading, "Gemini AI Analysis")
		return nil
	})
	if err != nil {
		return domain.InsightPanel{}, err
	}

	text, err := s.insight.TradingInsight(ctx, bot)
	if err != nil {
		return domain.InsightPanel{}, err
	}
	return s.closePanel(seq, domain.InsightTrading, "Gemini AI Analysis", text)
}

// RequestTokenInsight asks for a forensic analysis of one token
func (s *Session) RequestTokenInsight(ctx context.Context, tokenID string) (domain.InsightPanel, error) {
	var (
		token domain.AnalyzedToken
		seq   uint64
	)
	err := s.do(func() error {
		var err error
		if token, err = s.feed.Find(tokenID); err != nil {
			return err
		}
		seq = s.openPanel(domain.InsightToken, tokenTitle(token))
		return nil
	})
	if err != nil {
		return domain.InsightPanel{}, err
	}

	return s.closePanel(seq, domain.InsightToken, tokenTitle(token), s.insight.TokenInsight(ctx, token))
}

// openPanel shows the loading state and returns the request's sequence number
func (s *Session) openPanel(kind domain.InsightKind, title string) uint64 {
	s.panelSeq++
	s.panel = domain.InsightPanel{Open: true, Loading: true, Kind: kind, Title: title}
	s.bump()
	return s.panelSeq
}

// closePanel shows text only if request seq still owns the open panel
func (s *Session) closePanel(seq uint64, kind domain.InsightKind, title, text string) (domain.InsightPanel, error) {
	panel := domain.InsightPanel{Open: true, Kind: kind, Title: title, Text: text}
	err := s.do(func() error {
		if s.panel.Open && s.panelSeq == seq {
			s.panel = panel
			s.bump()
		}
		return nil
	})
	return panel, err
}

func tokenTitle(t domain.AnalyzedToken) string {
	return "AI Analysis: " + t.Name
}

// DismissInsight closes the insight panel
func (s *Session) DismissInsight() error {
	return s.do(func() error {
		s.panel = domain.InsightPanel{}
		s.bump()
		return nil
	})
}

// Close stops every simulator and the loop. It is safe to call more than once.
func (s *Session) Close() {
	s.closeOnce.Do(func() {
		_ = s.loop.Do(func() {
			s.closed = true
			s.feed.Stop()
			s.trader.Halt()
			s.checker.Stop()
			s.loop.Cancel(s.connect)
		})
		s.loop.Close()

		s.mu.Lock()
		s.subsClosed = true
		for ch := range s.subs {
			close(ch)
			delete(s.subs, ch)
		}
		s.mu.Unlock()
		s.logger.Info().Msg("session closed")
	})
}
