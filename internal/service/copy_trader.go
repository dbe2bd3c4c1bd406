package service

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"mastersol/internal/domain"
	"mastersol/internal/observability"
)

// Watch-list and pairs the copy trader pretends to follow
var (
	TopWallets = []string{
		"7xKMG8m6gC8qVbJ5qT9pW3fH9sY8Z2cE6d",
		"5GrwvaEF5zXb26Fz9rcQpDWS57CtERHpNehX",
		"So1111111111111111111111111111111111",
		"BonK1Y...421J",
	}
	TokenPairs = []string{"WIF/SOL", "BONK/SOL", "JUP/USDC", "PYTH/SOL", "CYPE/SOL"}
)

// Activity log messages
const (
	logReady        = "[SYS] Bot ready. Enable to start copy trading."
	logNoKey        = "[SYS] Bot offline. No private key configured."
	logInitializing = "[SYS] Bot is initializing..."
	logDisabled     = "[SYS] Bot has been disabled by user."
	logScanning     = "[INFO] Scanning Top Wallets for new transactions..."
	logSlippage     = "[FAIL] Trade failed: High slippage or network congestion."
)

// BalanceAccount is the wallet balance the bot trades against
type BalanceAccount interface {
	Balance() decimal.Decimal
	Adjust(delta decimal.Decimal)
}

// CopyTraderConfig holds the timing, probability and size constants of the simulation
type CopyTraderConfig struct {
	InitDelay       time.Duration // Initializing -> Running
	FirstCycleDelay time.Duration // Running -> first scan
	DetectDelay     time.Duration // scan -> detection
	ExecuteDelay    time.Duration // detection -> execution
	SettleDelay     time.Duration // execution -> settlement
	MinCycleDelay   time.Duration
	MaxCycleDelay   time.Duration // exclusive

	DetectionProbability float64
	SuccessProbability   float64
	PnLLowerBound        float64 // fraction of the trade amount
	PnLUpperBound        float64 // exclusive

	// FailureLimit consecutive failed executions put the bot in Error. 0 disables it.
	FailureLimit int

	MaxLiveTrades int
	MaxLogLines   int
}

// DefaultCopyTraderConfig returns the stock simulation constants
func DefaultCopyTraderConfig() CopyTraderConfig {
	return CopyTraderConfig{
		InitDelay:            2000 * time.Millisecond,
		FirstCycleDelay:      1000 * time.Millisecond,
		DetectDelay:          500 * time.Millisecond,
		ExecuteDelay:         1000 * time.Millisecond,
		SettleDelay:          1500 * time.Millisecond,
		MinCycleDelay:        3000 * time.Millisecond,
		MaxCycleDelay:        7000 * time.Millisecond,
		DetectionProbability: 0.4,
		SuccessProbability:   0.9,
		PnLLowerBound:        -0.4,
		PnLUpperBound:        0.6,
		FailureLimit:         3,
		MaxLiveTrades:        10,
		MaxLogLines:          50,
	}
}

// CopyTraderOptions carries the optional collaborators of a CopyTrader
type CopyTraderOptions struct {
	Clock    func() time.Time
	Metrics  *observability.Metrics
	Logger   *zerolog.Logger
	OnChange func()
}

// pendingTrade is the copy trade travelling through detect, execute and settle
type pendingTrade struct {
	wallet string
	pair   string
	side   domain.TradeSide
	amount decimal.Decimal // fixed when execution starts
}

// CopyTrader simulates a bot that mirrors trades of a watch-list of wallets.
// At most one timer is pending at any time. It is not safe for concurrent use;
// every method must run on the goroutine that drives sched.
type CopyTrader struct {
	sched   domain.Scheduler
	rng     domain.RandomSource
	account BalanceAccount
	cfg     CopyTraderConfig
	opts    CopyTraderOptions
	logger  zerolog.Logger

	status      domain.BotStatus
	enabled     bool
	privateKey  string
	tradeAmount decimal.Decimal
	realizedPnL decimal.Decimal
	liveTrades  []domain.Trade
	logs        []domain.LogLine
	failures    int

	timer domain.TimerHandle
}

// NewCopyTrader creates an offline copy trader with no key configured
func NewCopyTrader(sched domain.Scheduler, rng domain.RandomSource, account BalanceAccount, tradeAmount decimal.Decimal, cfg CopyTraderConfig, opts CopyTraderOptions) *CopyTrader {
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	logger := log.Logger
	if opts.Logger != nil {
		logger = *opts.Logger
	}

	c := &CopyTrader{
		sched:       sched,
		rng:         rng,
		account:     account,
		cfg:         cfg,
		opts:        opts,
		logger:      logger,
		status:      domain.BotOffline,
		tradeAmount: tradeAmount,
		realizedPnL: decimal.Zero,
	}
	c.resetLogs(logNoKey)
	return c
}

// SetPrivateKey configures the bot wallet key. Clearing it takes the bot
// offline and keeps the last session's trades; replacing it while enabled
// restarts the session.
func (c *CopyTrader) SetPrivateKey(key string) {
	if key == c.privateKey {
		return
	}
	c.privateKey = key

	if key == "" {
		c.cancelTimer()
		c.enabled = false
		c.setStatus(domain.BotOffline)
		c.resetLogs(logNoKey)
		c.changed()
		return
	}

	c.resetLogs(logReady)
	if c.enabled {
		c.cancelTimer()
		c.setStatus(domain.BotOffline)
		c.start()
	}
	c.changed()
}

// HasPrivateKey reports whether a bot wallet key is configured
func (c *CopyTrader) HasPrivateKey() bool {
	return c.privateKey != ""
}

// SetEnabled switches the bot on or off. Enabling without a key fails with
// domain.ErrNoPrivateKey. Enabling a bot in Error starts a new session.
func (c *CopyTrader) SetEnabled(on bool) error {
	if !on {
		if !c.enabled {
			return nil
		}
		c.enabled = false
		c.cancelTimer()
		c.setStatus(domain.BotOffline)
		if c.privateKey != "" {
			c.addLog(logDisabled)
		}
		c.changed()
		return nil
	}

	if c.privateKey == "" {
		return domain.ErrNoPrivateKey
	}
	if c.enabled && c.status != domain.BotError {
		return nil
	}
	c.enabled = true
	c.start()
	c.changed()
	return nil
}

// SetTradeAmount changes the size of future copy trades. A running cycle
// picks it up at its next execution.
func (c *CopyTrader) SetTradeAmount(amount decimal.Decimal) error {
	if amount.IsNegative() {
		return domain.ErrInvalidTradeAmount
	}
	c.tradeAmount = amount
	c.changed()
	return nil
}

// Status returns the lifecycle state
func (c *CopyTrader) Status() domain.BotStatus {
	return c.status
}

// Snapshot returns a copy of the bot state
func (c *CopyTrader) Snapshot() domain.BotSnapshot {
	trades := make([]domain.Trade, len(c.liveTrades))
	copy(trades, c.liveTrades)
	logs := make([]domain.LogLine, len(c.logs))
	copy(logs, c.logs)

	return domain.BotSnapshot{
		Status:      c.status,
		Enabled:     c.enabled,
		HasKey:      c.privateKey != "",
		TradeAmount: c.tradeAmount,
		RealizedPnL: c.realizedPnL,
		LiveTrades:  trades,
		Logs:        logs,
	}
}

// Halt cancels the pending timer and goes offline without touching the
// enabled flag or the log. Used on session teardown.
func (c *CopyTrader) Halt() {
	c.cancelTimer()
	c.setStatus(domain.BotOffline)
}

// start begins a new session: P&L and live trades reset, balance does not
func (c *CopyTrader) start() {
	c.cancelTimer()
	c.realizedPnL = decimal.Zero
	c.liveTrades = nil
	c.failures = 0

	c.setStatus(domain.BotInitializing)
	c.addLog(logInitializing)
	c.timer = c.sched.Schedule(c.cfg.InitDelay, c.goOnline)
}

func (c *CopyTrader) goOnline() {
	c.timer = 0
	c.setStatus(domain.BotRunning)
	c.addLog(fmt.Sprintf("[SYS] Bot is online and running. Trade amount set to %s SOL.", c.tradeAmount))
	c.timer = c.sched.Schedule(c.cfg.FirstCycleDelay, c.cycle)
	c.changed()
}

func (c *CopyTrader) cycle() {
	c.timer = 0
	c.opts.Metrics.ObserveCycle()
	c.addLog(logScanning)

	if c.rng.Float64() < c.cfg.DetectionProbability {
		c.timer = c.sched.Schedule(c.cfg.DetectDelay, c.detect)
	} else {
		c.scheduleNext()
	}
	c.changed()
}

func (c *CopyTrader) detect() {
	c.timer = 0

	t := &pendingTrade{
		wallet: TopWallets[pick(c.rng, len(TopWallets))],
		pair:   TokenPairs[pick(c.rng, len(TokenPairs))],
		side:   domain.SideSell,
	}
	if c.rng.Float64() > 0.5 {
		t.side = domain.SideBuy
	}

	c.addLog(fmt.Sprintf("[DETECT] New %s trade detected on wallet %s...", t.side, abbrev(t.wallet, 6)))
	c.timer = c.sched.Schedule(c.cfg.ExecuteDelay, func() { c.execute(t) })
	c.changed()
}

func (c *CopyTrader) execute(t *pendingTrade) {
	c.timer = 0
	t.amount = c.tradeAmount

	if t.side == domain.SideBuy {
		if balance := c.account.Balance(); balance.LessThan(t.amount) {
			c.addLog(fmt.Sprintf("[FAIL] Trade failed: Insufficient funds. Need %s SOL, have %s SOL.", t.amount, balance.StringFixed(4)))
			c.opts.Metrics.ObserveTrade(string(t.side), observability.OutcomeInsufficientFunds)
			c.scheduleNext()
			c.changed()
			return
		}
	}

	c.addLog(fmt.Sprintf("[EXEC] Executing copy trade: %s %s for %s SOL...", t.side, t.pair, t.amount))
	c.timer = c.sched.Schedule(c.cfg.SettleDelay, func() { c.settle(t) })
	c.changed()
}

func (c *CopyTrader) settle(t *pendingTrade) {
	c.timer = 0

	if c.rng.Float64() >= c.cfg.SuccessProbability {
		c.addLog(logSlippage)
		c.opts.Metrics.ObserveTrade(string(t.side), observability.OutcomeFailed)
		c.failures++
		if c.cfg.FailureLimit > 0 && c.failures >= c.cfg.FailureLimit {
			c.setStatus(domain.BotError)
			c.addLog(fmt.Sprintf("[ERR] Bot halted after %d consecutive failed trades. Re-enable to restart.", c.failures))
			c.changed()
			return
		}
		c.scheduleNext()
		c.changed()
		return
	}

	c.failures = 0
	txID := fmt.Sprintf("Tx%x", uint64(c.rng.Float64()*1e18))
	c.addLog(fmt.Sprintf("[SUCCESS] Trade completed. TxID: %s...", abbrev(txID, 10)))

	if t.side == domain.SideSell {
		delta := c.drawPnL(t.amount)
		c.realizedPnL = c.realizedPnL.Add(delta)
		c.account.Adjust(t.amount.Add(delta))
	} else {
		c.account.Adjust(t.amount.Neg())
	}

	factor := decimal.NewFromFloat(c.rng.Float64()*2 + 0.5)
	price := decimal.NewFromFloat(c.rng.Float64()*2 + 0.5)
	trade := domain.Trade{
		ID:        txID,
		Pair:      t.pair,
		Side:      t.side,
		Amount:    t.amount.DivRound(factor, 6),
		Price:     price.Round(4),
		Timestamp: c.opts.Clock(),
		Status:    domain.TradeCompleted,
	}
	c.liveTrades = prependCapped(c.liveTrades, trade, c.cfg.MaxLiveTrades)
	c.opts.Metrics.ObserveTrade(string(t.side), observability.OutcomeSuccess)

	c.scheduleNext()
	c.changed()
}

// drawPnL returns a profit or loss uniform in [lower*amount, upper*amount)
func (c *CopyTrader) drawPnL(amount decimal.Decimal) decimal.Decimal {
	lo := decimal.NewFromFloat(c.cfg.PnLLowerBound)
	hi := decimal.NewFromFloat(c.cfg.PnLUpperBound)
	frac := lo.Add(decimal.NewFromFloat(c.rng.Float64()).Mul(hi.Sub(lo)))
	return amount.Mul(frac)
}

func (c *CopyTrader) scheduleNext() {
	c.timer = c.sched.Schedule(uniformDuration(c.rng, c.cfg.MinCycleDelay, c.cfg.MaxCycleDelay), c.cycle)
}

func (c *CopyTrader) cancelTimer() {
	if c.timer != 0 {
		c.sched.Cancel(c.timer)
		c.timer = 0
	}
}

func (c *CopyTrader) setStatus(s domain.BotStatus) {
	if c.status == s {
		return
	}
	c.status = s
	c.opts.Metrics.ObserveTransition(string(s))
	c.logger.Info().Str("status", string(s)).Msg("bot status changed")
}

func (c *CopyTrader) addLog(text string) {
	line := domain.LogLine{At: c.opts.Clock(), Text: text}
	c.logs = prependCapped(c.logs, line, c.cfg.MaxLogLines)
}

func (c *CopyTrader) resetLogs(text string) {
	c.logs = []domain.LogLine{{At: c.opts.Clock(), Text: text}}
}

func (c *CopyTrader) changed() {
	if c.opts.OnChange != nil {
		c.opts.OnChange()
	}
}

// abbrev keeps the first n characters of s
func abbrev(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
