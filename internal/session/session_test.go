package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mastersol/configs"
	"mastersol/internal/domain"
	"mastersol/internal/service"
	"mastersol/internal/testutil"
)

type stubGenerator struct {
	reply string
	err   error
	calls int
}

func (g *stubGenerator) Complete(context.Context, string, string) (string, error) {
	g.calls++
	return g.reply, g.err
}

func testSimulation() configs.SimulationConfig {
	return configs.SimulationConfig{
		LiveBotBalance:             5.0,
		TestBotBalance:             0.5,
		DetectionProbability:       0.4,
		SuccessProbability:         0.9,
		PnLLowerBound:              -0.4,
		PnLUpperBound:              0.6,
		DefaultTradeAmount:         0.1,
		FailureLimit:               3,
		APICheckSuccessProbability: 0.75,
	}
}

var (
	admin  = domain.User{ID: 1, Name: "Agent Smith", Role: domain.RoleAdmin, Address: "5GrwvaEF5zXb26Fz9rcQpDWS57CtERHpNehXCPoON85f"}
	trader = domain.User{ID: 2, Name: "Agent Trinity", Role: domain.RoleTrader, Address: "7xKMG8m6gC8qVbJ5qT9pW3fH9sY8Z2cE6d"}
)

func newTestSession(user domain.User, gen domain.TextGenerator) (*Session, *testutil.ManualScheduler, *testutil.ScriptedRand) {
	sched := testutil.NewManualScheduler()
	rng := testutil.NewScriptedRand()
	s := New("sess-1", sched, rng, Options{
		User:        user,
		Tokens:      []domain.AnalyzedToken{{ID: "T1", Name: "CyberPepe", EventType: domain.EventPump}, {ID: "T2", Name: "SolanaChad", EventType: domain.EventRugPull}},
		APIServices: []domain.APIService{{ID: "solana", Name: "Solana RPC Endpoint"}},
		Simulation:  testSimulation(),
		Insight:     service.NewInsightService(gen, "gemini-2.5-flash", nil),
		Clock:       func() time.Time { return time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC) },
	})
	return s, sched, rng
}

func TestSession_InitialSnapshot(t *testing.T) {
	s, sched, _ := newTestSession(trader, &stubGenerator{})

	snap, err := s.Snapshot()
	require.NoError(t, err)
	assert.Equal(t, "sess-1", snap.SessionID)
	assert.Nil(t, snap.Wallet)
	assert.True(t, snap.TestMode)
	assert.Equal(t, domain.ModeTest, snap.Mode)
	assert.True(t, decimal.NewFromFloat(0.5).Equal(snap.WalletBalance))
	assert.Equal(t, domain.BotOffline, snap.Bot.Status)
	assert.Len(t, snap.AnalyzedTokens, 2)
	assert.Nil(t, snap.APIStatuses, "traders do not see the admin matrix")

	// feed production is pending
	assert.Equal(t, 1, sched.Pending())
}

func TestSession_WalletHandshake(t *testing.T) {
	s, sched, _ := newTestSession(trader, &stubGenerator{})

	assert.ErrorIs(t, s.SetTestMode(false), domain.ErrWalletNotConnected)

	require.NoError(t, s.ConnectWallet())
	assert.ErrorIs(t, s.ConnectWallet(), domain.ErrWalletConnecting)

	snap, _ := s.Snapshot()
	assert.True(t, snap.Connecting)
	assert.Nil(t, snap.Wallet)

	sched.Advance(1500 * time.Millisecond)
	snap, _ = s.Snapshot()
	require.NotNil(t, snap.Wallet)
	assert.False(t, snap.Connecting)
	assert.Equal(t, trader.Address, snap.Wallet.Address)
	assert.True(t, decimal.RequireFromString("10.53").Equal(snap.Wallet.Balance))

	require.NoError(t, s.SetTestMode(false))
	snap, _ = s.Snapshot()
	assert.Equal(t, domain.ModeLive, snap.Mode)
	assert.True(t, decimal.NewFromInt(5).Equal(snap.WalletBalance))

	require.NoError(t, s.DisconnectWallet())
	snap, _ = s.Snapshot()
	assert.Nil(t, snap.Wallet)
	assert.True(t, snap.TestMode)
}

func TestSession_DisconnectDuringHandshake(t *testing.T) {
	s, sched, _ := newTestSession(trader, &stubGenerator{})

	require.NoError(t, s.ConnectWallet())
	require.NoError(t, s.DisconnectWallet())
	sched.Advance(5 * time.Second)

	snap, _ := s.Snapshot()
	assert.Nil(t, snap.Wallet)
	assert.False(t, snap.Connecting)
}

func TestSession_ModeSwitchLeavesOtherCounterAlone(t *testing.T) {
	s, sched, rng := newTestSession(admin, &stubGenerator{})
	rng.Fallback = 0.1 // every scan detects a SELL that succeeds

	require.NoError(t, s.ConnectWallet())
	sched.Advance(1500 * time.Millisecond)
	require.NoError(t, s.SetBotPrivateKey("K1"))
	require.NoError(t, s.EnableBot(true))

	sched.Advance(20 * time.Second)
	snap, _ := s.Snapshot()
	testBalance := snap.TestBalance
	require.False(t, testBalance.Equal(decimal.NewFromFloat(0.5)))
	require.True(t, snap.LiveBalance.Equal(decimal.NewFromInt(5)))

	require.NoError(t, s.SetTestMode(false))
	sched.Advance(20 * time.Second)
	snap, _ = s.Snapshot()
	assert.True(t, testBalance.Equal(snap.TestBalance))
	assert.False(t, snap.LiveBalance.Equal(decimal.NewFromInt(5)))
}

func TestSession_EnableWithoutKey(t *testing.T) {
	s, _, _ := newTestSession(admin, &stubGenerator{})

	assert.ErrorIs(t, s.EnableBot(true), domain.ErrNoPrivateKey)
}

func TestSession_TradingInsightNeedsLiveTrades(t *testing.T) {
	gen := &stubGenerator{reply: "ok"}
	s, _, _ := newTestSession(admin, gen)

	_, err := s.RequestTradingInsight(context.Background())
	assert.ErrorIs(t, err, domain.ErrNoLiveTrades)
	assert.Equal(t, 0, gen.calls)

	snap, _ := s.Snapshot()
	assert.False(t, snap.Insight.Open)
}

func TestSession_TradingInsight(t *testing.T) {
	gen := &stubGenerator{reply: "Watch BONK momentum."}
	s, sched, rng := newTestSession(admin, gen)
	rng.Fallback = 0.1

	require.NoError(t, s.SetBotPrivateKey("K1"))
	require.NoError(t, s.EnableBot(true))
	sched.Advance(10 * time.Second)

	panel, err := s.RequestTradingInsight(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Watch BONK momentum.", panel.Text)
	assert.Equal(t, "Gemini AI Analysis", panel.Title)
	assert.Equal(t, 1, gen.calls)

	snap, _ := s.Snapshot()
	assert.Equal(t, panel, snap.Insight)
}

func TestSession_TokenInsightFallback(t *testing.T) {
	gen := &stubGenerator{err: errors.New("network down")}
	s, _, _ := newTestSession(trader, gen)

	panel, err := s.RequestTokenInsight(context.Background(), "T2")
	require.NoError(t, err)
	assert.Equal(t, service.TokenInsightFallback, panel.Text)
	assert.Equal(t, "AI Analysis: SolanaChad", panel.Title)
	assert.False(t, panel.Loading)

	_, err = s.RequestTokenInsight(context.Background(), "nope")
	assert.ErrorIs(t, err, domain.ErrTokenNotFound)

	require.NoError(t, s.DismissInsight())
	snap, _ := s.Snapshot()
	assert.False(t, snap.Insight.Open)
}

// funcGenerator answers each call through fn
type funcGenerator func() (string, error)

func (g funcGenerator) Complete(context.Context, string, string) (string, error) {
	return g()
}

func TestSession_OverlappingInsightKeepsNewest(t *testing.T) {
	var (
		s      *Session
		calls  int
		second domain.InsightPanel
	)
	gen := funcGenerator(func() (string, error) {
		calls++
		if calls == 1 {
			// a second request for the same token lands while the first is in flight
			var err error
			second, err = s.RequestTokenInsight(context.Background(), "T1")
			require.NoError(t, err)
			return "stale analysis", nil
		}
		return "fresh analysis", nil
	})
	s, _, _ = newTestSession(trader, gen)

	first, err := s.RequestTokenInsight(context.Background(), "T1")
	require.NoError(t, err)
	assert.Equal(t, "stale analysis", first.Text)
	assert.Equal(t, "fresh analysis", second.Text)

	snap, _ := s.Snapshot()
	assert.Equal(t, "fresh analysis", snap.Insight.Text)
	assert.False(t, snap.Insight.Loading)
}

func TestSession_InsightAfterNewRequestStaysLoading(t *testing.T) {
	var s *Session
	gen := funcGenerator(func() (string, error) {
		snap, err := s.Snapshot()
		require.NoError(t, err)
		require.True(t, snap.Insight.Loading)

		// reopen the panel as a newer request would, then let this one finish
		require.NoError(t, s.do(func() error {
			s.openPanel(domain.InsightToken, "AI Analysis: CyberPepe")
			return nil
		}))
		return "older", nil
	})
	s, _, _ = newTestSession(trader, gen)

	_, err := s.RequestTokenInsight(context.Background(), "T1")
	require.NoError(t, err)

	snap, _ := s.Snapshot()
	assert.True(t, snap.Insight.Loading)
	assert.Empty(t, snap.Insight.Text)
}

func TestSession_Filter(t *testing.T) {
	s, _, _ := newTestSession(trader, &stubGenerator{})

	require.NoError(t, s.SetFilter(string(domain.EventRugPull)))
	snap, _ := s.Snapshot()
	require.Len(t, snap.AnalyzedTokens, 1)
	assert.Equal(t, "T2", snap.AnalyzedTokens[0].ID)

	tokens, err := s.Tokens(domain.FilterAll)
	require.NoError(t, err)
	assert.Len(t, tokens, 2)

	_, err = s.Tokens("Moon")
	assert.ErrorIs(t, err, domain.ErrUnknownEventType)
}

func TestSession_AdminMatrix(t *testing.T) {
	s, sched, _ := newTestSession(admin, &stubGenerator{})

	require.NoError(t, s.SetAPIKey("solana", "https://rpc.example"))
	require.NoError(t, s.CheckAPIs())
	sched.Advance(2 * time.Second)

	states, err := s.APIStates()
	require.NoError(t, err)
	require.Len(t, states, 1)
	assert.Equal(t, domain.APISuccess, states[0].Status)

	assert.ErrorIs(t, s.SetAPIKey("dexscreener", "x"), domain.ErrUnknownService)
}

func TestSession_SubscribeAndClose(t *testing.T) {
	s, sched, _ := newTestSession(admin, &stubGenerator{})

	ch, cancel := s.Subscribe()
	defer cancel()

	require.NoError(t, s.SetFilter(domain.FilterAll))
	select {
	case _, ok := <-ch:
		assert.True(t, ok)
	default:
		t.Fatal("expected a change signal")
	}

	require.NoError(t, s.SetBotPrivateKey("K1"))
	require.NoError(t, s.EnableBot(true))
	s.Close()
	s.Close()

	assert.Equal(t, 0, sched.Pending())
	_, ok := <-drain(ch)
	assert.False(t, ok, "channel closed on session close")

	assert.ErrorIs(t, s.EnableBot(false), domain.ErrSessionNotFound)
	_, err := s.Snapshot()
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestSession_SubscribeAfterClose(t *testing.T) {
	s, _, _ := newTestSession(trader, &stubGenerator{})
	s.Close()

	ch, cancel := s.Subscribe()
	defer cancel()

	select {
	case _, ok := <-ch:
		assert.False(t, ok)
	default:
		t.Fatal("expected a closed channel")
	}
}

// drain discards buffered signals so the next receive observes the close
func drain(ch <-chan struct{}) <-chan struct{} {
	for {
		select {
		case _, ok := <-ch:
			if !ok {
				closed := make(chan struct{})
				close(closed)
				return closed
			}
		default:
			return ch
		}
	}
}

func TestSession_Touch(t *testing.T) {
	s, _, _ := newTestSession(trader, &stubGenerator{})
	first := s.LastSeen()

	s.Touch()
	assert.False(t, s.LastSeen().Before(first))
	assert.Equal(t, 2, s.UserID())
}
