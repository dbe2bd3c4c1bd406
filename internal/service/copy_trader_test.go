package service

import (
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mastersol/internal/domain"
	"mastersol/internal/testutil"
)

// swapAccount mimics the session's test/live counters
type swapAccount struct {
	balances [2]decimal.Decimal
	active   int
}

func (a *swapAccount) Balance() decimal.Decimal { return a.balances[a.active] }

func (a *swapAccount) Adjust(delta decimal.Decimal) {
	a.balances[a.active] = a.balances[a.active].Add(delta)
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func assertDecimal(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	assert.True(t, dec(want).Equal(got), "want %s, got %s", want, got)
}

type traderFixture struct {
	trader  *CopyTrader
	sched   *testutil.ManualScheduler
	rng     *testutil.ScriptedRand
	account *swapAccount
}

func newTraderFixture(balance string) *traderFixture {
	sched := testutil.NewManualScheduler()
	rng := testutil.NewScriptedRand()
	account := &swapAccount{balances: [2]decimal.Decimal{dec(balance), dec("5")}}
	clock := func() time.Time { return time.Date(2024, 7, 1, 9, 30, 0, 0, time.UTC) }

	trader := NewCopyTrader(sched, rng, account, dec("0.1"), DefaultCopyTraderConfig(), CopyTraderOptions{Clock: clock})
	return &traderFixture{trader: trader, sched: sched, rng: rng, account: account}
}

// running enables the bot and advances to the first scan
func (f *traderFixture) running(t *testing.T) {
	t.Helper()
	f.trader.SetPrivateKey("K1")
	require.NoError(t, f.trader.SetEnabled(true))
	f.sched.Advance(2000 * time.Millisecond)
	require.Equal(t, domain.BotRunning, f.trader.Status())
}

func logTexts(s domain.BotSnapshot) []string {
	out := make([]string, len(s.Logs))
	for i, l := range s.Logs {
		out[i] = l.Text
	}
	return out
}

func TestCopyTrader_StartsOfflineWithoutKey(t *testing.T) {
	f := newTraderFixture("1")

	snap := f.trader.Snapshot()
	assert.Equal(t, domain.BotOffline, snap.Status)
	assert.False(t, snap.HasKey)
	assert.Equal(t, []string{logNoKey}, logTexts(snap))

	assert.ErrorIs(t, f.trader.SetEnabled(true), domain.ErrNoPrivateKey)
	assert.Equal(t, domain.BotOffline, f.trader.Status())
	assert.Equal(t, 0, f.sched.Pending())
}

func TestCopyTrader_Lifecycle(t *testing.T) {
	f := newTraderFixture("1")

	f.trader.SetPrivateKey("K1")
	assert.Equal(t, []string{logReady}, logTexts(f.trader.Snapshot()))

	require.NoError(t, f.trader.SetEnabled(true))
	assert.Equal(t, domain.BotInitializing, f.trader.Status())
	assert.Equal(t, 1, f.sched.Pending())

	f.sched.Advance(1999 * time.Millisecond)
	assert.Equal(t, domain.BotInitializing, f.trader.Status())

	f.sched.Advance(time.Millisecond)
	snap := f.trader.Snapshot()
	assert.Equal(t, domain.BotRunning, snap.Status)
	assert.Equal(t, "[SYS] Bot is online and running. Trade amount set to 0.1 SOL.", snap.Logs[0].Text)
	assert.Equal(t, logInitializing, snap.Logs[1].Text)
	assert.Equal(t, 1, f.sched.Pending())

	// First scan 1000ms after Running; detection draw 0.9 misses
	f.rng.Push(0.9, 0)
	f.sched.Advance(1000 * time.Millisecond)
	assert.Equal(t, logScanning, f.trader.Snapshot().Logs[0].Text)

	d, ok := f.sched.NextDelay()
	require.True(t, ok)
	assert.Equal(t, 3000*time.Millisecond, d)
	assert.Equal(t, 1, f.sched.Pending())
}

func TestCopyTrader_SuccessfulSell(t *testing.T) {
	f := newTraderFixture("1")
	f.running(t)

	f.rng.Push(
		0.1,        // detect
		0, 0, 0.2,  // wallet, pair, side=SELL
		0.5, 0.5,   // success, tx id
		0.9,        // pnl fraction -0.4 + 0.9 = 0.5
		0.75, 0.25, // amount factor 2.0, price 1.0
		0,          // next cycle in 3000ms
	)

	f.sched.Advance(1000 * time.Millisecond) // scan
	f.sched.Advance(500 * time.Millisecond)  // detect
	assert.Equal(t, "[DETECT] New SELL trade detected on wallet 7xKMG8...", f.trader.Snapshot().Logs[0].Text)

	f.sched.Advance(1000 * time.Millisecond) // execute
	assert.Equal(t, "[EXEC] Executing copy trade: SELL WIF/SOL for 0.1 SOL...", f.trader.Snapshot().Logs[0].Text)
	assertDecimal(t, "1", f.account.Balance())

	f.sched.Advance(1500 * time.Millisecond) // settle
	snap := f.trader.Snapshot()
	assert.Equal(t, "[SUCCESS] Trade completed. TxID: Tx6f05b59d...", snap.Logs[0].Text)
	assertDecimal(t, "0.05", snap.RealizedPnL)
	assertDecimal(t, "1.15", f.account.Balance())

	require.Len(t, snap.LiveTrades, 1)
	trade := snap.LiveTrades[0]
	assert.Equal(t, "Tx6f05b59d3b20000", trade.ID)
	assert.Equal(t, "WIF/SOL", trade.Pair)
	assert.Equal(t, domain.SideSell, trade.Side)
	assert.Equal(t, domain.TradeCompleted, trade.Status)
	assertDecimal(t, "0.05", trade.Amount)
	assertDecimal(t, "1", trade.Price)

	d, ok := f.sched.NextDelay()
	require.True(t, ok)
	assert.Equal(t, 3000*time.Millisecond, d)
}

func TestCopyTrader_SuccessfulBuyDebits(t *testing.T) {
	f := newTraderFixture("1")
	f.running(t)

	f.rng.Push(0.1, 0.3, 0.5, 0.8, 0.2, 0.5, 0.5, 0.5, 0)

	f.sched.Advance(4000 * time.Millisecond)

	snap := f.trader.Snapshot()
	require.Len(t, snap.LiveTrades, 1)
	assert.Equal(t, domain.SideBuy, snap.LiveTrades[0].Side)
	assert.Equal(t, TokenPairs[2], snap.LiveTrades[0].Pair)
	assertDecimal(t, "0.9", f.account.Balance())
	assertDecimal(t, "0", snap.RealizedPnL)
}

func TestCopyTrader_InsufficientFundsBuy(t *testing.T) {
	f := newTraderFixture("0.05")
	f.running(t)

	f.rng.Push(0.1, 0, 0, 0.9, 0)

	f.sched.Advance(1000 * time.Millisecond)
	f.sched.Advance(500 * time.Millisecond)
	f.sched.Advance(1000 * time.Millisecond)

	snap := f.trader.Snapshot()
	assert.Equal(t, "[FAIL] Trade failed: Insufficient funds. Need 0.1 SOL, have 0.0500 SOL.", snap.Logs[0].Text)
	assert.Empty(t, snap.LiveTrades)
	assertDecimal(t, "0.05", f.account.Balance())

	// next cycle scheduled right away, no settlement pending
	d, ok := f.sched.NextDelay()
	require.True(t, ok)
	assert.Equal(t, 3000*time.Millisecond, d)
	assert.Equal(t, 1, f.sched.Pending())
}

func TestCopyTrader_SellProceedsWithoutFunds(t *testing.T) {
	f := newTraderFixture("0")
	f.running(t)

	f.rng.Push(0.1, 0, 0, 0.2, 0.5, 0.5, 0.4, 0.25, 0.25, 0)
	f.sched.Advance(4000 * time.Millisecond)

	snap := f.trader.Snapshot()
	require.Len(t, snap.LiveTrades, 1)
	assertDecimal(t, "0.1", f.account.Balance())
}

func TestCopyTrader_NoEffectsAfterDisable(t *testing.T) {
	stages := []time.Duration{0, 1000, 1500, 2500, 3999}

	for _, stage := range stages {
		f := newTraderFixture("1")
		f.rng.Fallback = 0.1 // always detect, always succeed
		f.running(t)

		f.sched.Advance(stage * time.Millisecond)
		require.NoError(t, f.trader.SetEnabled(false))

		snap := f.trader.Snapshot()
		assert.Equal(t, domain.BotOffline, snap.Status)
		assert.Equal(t, logDisabled, snap.Logs[0].Text)
		assert.Equal(t, 0, f.sched.Pending())
		balance := f.account.Balance()

		f.sched.Advance(time.Minute)
		after := f.trader.Snapshot()
		assert.Equal(t, snap.Logs, after.Logs, "stage %v", stage)
		assert.True(t, balance.Equal(f.account.Balance()), "stage %v", stage)
	}
}

func TestCopyTrader_DisableWithoutKeyLogsNothing(t *testing.T) {
	f := newTraderFixture("1")
	f.running(t)

	f.trader.SetPrivateKey("")
	snap := f.trader.Snapshot()
	assert.False(t, snap.Enabled)
	assert.Equal(t, domain.BotOffline, snap.Status)
	assert.Equal(t, []string{logNoKey}, logTexts(snap))
	assert.Equal(t, 0, f.sched.Pending())

	require.NoError(t, f.trader.SetEnabled(false))
	assert.Equal(t, []string{logNoKey}, logTexts(f.trader.Snapshot()))
}

func TestCopyTrader_ClearingKeyKeepsSessionCounters(t *testing.T) {
	f := newTraderFixture("1")
	f.rng.Fallback = 0.1
	f.running(t)
	f.sched.Advance(10 * time.Second)

	before := f.trader.Snapshot()
	require.NotEmpty(t, before.LiveTrades)

	f.trader.SetPrivateKey("")
	after := f.trader.Snapshot()
	assert.Equal(t, domain.BotOffline, after.Status)
	assert.Equal(t, before.LiveTrades, after.LiveTrades)
	assert.True(t, before.RealizedPnL.Equal(after.RealizedPnL))
	assert.Equal(t, 0, f.sched.Pending())
}

func TestCopyTrader_Caps(t *testing.T) {
	f := newTraderFixture("1000")
	f.rng.Fallback = 0.1
	f.running(t)

	for i := 0; i < 120; i++ {
		f.sched.Advance(5 * time.Second)
		snap := f.trader.Snapshot()
		require.LessOrEqual(t, len(snap.LiveTrades), 10)
		require.LessOrEqual(t, len(snap.Logs), 50)
	}

	snap := f.trader.Snapshot()
	assert.Len(t, snap.LiveTrades, 10)
	assert.Len(t, snap.Logs, 50)
}

func TestCopyTrader_NewSessionResetsCounters(t *testing.T) {
	f := newTraderFixture("1")
	f.rng.Fallback = 0.1
	f.running(t)

	f.sched.Advance(30 * time.Second)
	snap := f.trader.Snapshot()
	require.NotEmpty(t, snap.LiveTrades)
	require.False(t, snap.RealizedPnL.IsZero())
	balance := f.account.Balance()

	// trade amount changes do not reset anything
	require.NoError(t, f.trader.SetTradeAmount(dec("0.2")))
	assert.Len(t, f.trader.Snapshot().LiveTrades, len(snap.LiveTrades))

	require.NoError(t, f.trader.SetEnabled(false))
	assert.NotEmpty(t, f.trader.Snapshot().LiveTrades)

	require.NoError(t, f.trader.SetEnabled(true))
	snap = f.trader.Snapshot()
	assert.Empty(t, snap.LiveTrades)
	assert.True(t, snap.RealizedPnL.IsZero())
	assert.True(t, balance.Equal(f.account.Balance()))
}

func TestCopyTrader_ModeSwapRedirectsBalance(t *testing.T) {
	f := newTraderFixture("1")
	f.running(t)

	f.rng.Push(0.1, 0, 0, 0.9, 0.5, 0.5, 0.5, 0.5, 0)

	f.sched.Advance(2500 * time.Millisecond) // through execution
	f.account.active = 1                     // switch counters before settlement
	f.sched.Advance(1500 * time.Millisecond)

	assertDecimal(t, "1", f.account.balances[0])
	assertDecimal(t, "4.9", f.account.balances[1])
}

func TestCopyTrader_TradeAmountReadAtExecution(t *testing.T) {
	f := newTraderFixture("1")
	f.running(t)

	f.rng.Push(0.1, 0, 0, 0.9, 0.5, 0.5, 0.5, 0.5, 0)

	f.sched.Advance(1500 * time.Millisecond) // detected
	require.NoError(t, f.trader.SetTradeAmount(dec("0.3")))
	f.sched.Advance(1000 * time.Millisecond) // execute with 0.3
	require.NoError(t, f.trader.SetTradeAmount(dec("0.5")))
	f.sched.Advance(1500 * time.Millisecond)

	assertDecimal(t, "0.7", f.account.Balance())
}

func TestCopyTrader_RejectsNegativeAmount(t *testing.T) {
	f := newTraderFixture("1")

	assert.ErrorIs(t, f.trader.SetTradeAmount(dec("-0.1")), domain.ErrInvalidTradeAmount)
	assertDecimal(t, "0.1", f.trader.Snapshot().TradeAmount)
}

func TestCopyTrader_ErrorAfterConsecutiveFailures(t *testing.T) {
	f := newTraderFixture("1")
	f.running(t)

	// detect SELL then fail at settlement, three times
	for i := 0; i < 3; i++ {
		f.rng.Push(0.1, 0, 0, 0.2, 0.95, 0)
	}
	f.sched.Advance(time.Minute)

	snap := f.trader.Snapshot()
	assert.Equal(t, domain.BotError, snap.Status)
	assert.True(t, snap.Enabled)
	assert.True(t, strings.HasPrefix(snap.Logs[0].Text, "[ERR] Bot halted after 3 consecutive failed trades"))
	assert.Equal(t, logSlippage, snap.Logs[1].Text)
	assert.Equal(t, 0, f.sched.Pending())

	// re-enabling starts a fresh session
	require.NoError(t, f.trader.SetEnabled(true))
	assert.Equal(t, domain.BotInitializing, f.trader.Status())
	assert.Equal(t, 1, f.sched.Pending())
}

func TestCopyTrader_SuccessResetsFailureCount(t *testing.T) {
	f := newTraderFixture("1")
	f.running(t)

	f.rng.Push(0.1, 0, 0, 0.2, 0.95, 0)
	f.rng.Push(0.1, 0, 0, 0.2, 0.95, 0)
	f.rng.Push(0.1, 0, 0, 0.2, 0.5, 0.5, 0.5, 0.5, 0.5, 0)
	f.rng.Push(0.1, 0, 0, 0.2, 0.95, 0)
	f.rng.Push(0.1, 0, 0, 0.2, 0.95, 0)
	f.rng.Fallback = 0.9 // no more detections
	f.sched.Advance(2 * time.Minute)

	assert.Equal(t, domain.BotRunning, f.trader.Status())
}

func TestCopyTrader_KeyChangeWhileEnabledRestarts(t *testing.T) {
	f := newTraderFixture("1")
	f.rng.Fallback = 0.1
	f.running(t)
	f.sched.Advance(10 * time.Second)
	require.NotEmpty(t, f.trader.Snapshot().LiveTrades)

	f.trader.SetPrivateKey("K2")
	snap := f.trader.Snapshot()
	assert.Equal(t, domain.BotInitializing, snap.Status)
	assert.Empty(t, snap.LiveTrades)
	assert.Equal(t, []string{logInitializing, logReady}, logTexts(snap))
	assert.Equal(t, 1, f.sched.Pending())
}
