package service

import (
	"time"

	"github.com/google/uuid"

	"mastersol/internal/domain"
	"mastersol/internal/observability"
)

const (
	// MaxAnalyzedTokens is how many rows the forensics table keeps
	MaxAnalyzedTokens = 20

	feedMinDelay      = 2000 * time.Millisecond
	feedMaxDelay      = 5000 * time.Millisecond
	newTokenHighlight = 1500 * time.Millisecond
)

// FeedOptions carries the optional collaborators of a ForensicsFeed
type FeedOptions struct {
	Clock    func() time.Time
	NewID    func() string
	Metrics  *observability.Metrics
	OnChange func() // called after every visible change
}

// ForensicsFeed keeps the forensics table populated with synthetic token events.
// It is not safe for concurrent use; every method must run on the goroutine
// that drives sched.
type ForensicsFeed struct {
	sched domain.Scheduler
	rng   domain.RandomSource
	opts  FeedOptions

	tokens     []domain.AnalyzedToken
	filter     string
	newTokenID string

	running   bool
	produce   domain.TimerHandle
	highlight domain.TimerHandle
}

// NewForensicsFeed creates a feed seeded with the given rows (newest first)
func NewForensicsFeed(sched domain.Scheduler, rng domain.RandomSource, seed []domain.AnalyzedToken, opts FeedOptions) *ForensicsFeed {
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	if opts.NewID == nil {
		opts.NewID = func() string { return uuid.NewString() }
	}

	tokens := make([]domain.AnalyzedToken, 0, MaxAnalyzedTokens)
	for _, t := range seed {
		if len(tokens) == MaxAnalyzedTokens {
			break
		}
		tokens = append(tokens, t)
	}

	return &ForensicsFeed{
		sched:  sched,
		rng:    rng,
		opts:   opts,
		tokens: tokens,
		filter: domain.FilterAll,
	}
}

// Start begins producing token events. Calling Start on a running feed is a no-op.
func (f *ForensicsFeed) Start() {
	if f.running {
		return
	}
	f.running = true
	f.scheduleProduce()
}

// Stop cancels the pending production and highlight timers
func (f *ForensicsFeed) Stop() {
	if !f.running {
		return
	}
	f.running = false
	f.sched.Cancel(f.produce)
	f.sched.Cancel(f.highlight)
	f.produce, f.highlight = 0, 0
	f.newTokenID = ""
}

// Running reports whether the feed is producing events
func (f *ForensicsFeed) Running() bool {
	return f.running
}

func (f *ForensicsFeed) scheduleProduce() {
	f.produce = f.sched.Schedule(uniformDuration(f.rng, feedMinDelay, feedMaxDelay), f.onProduce)
}

func (f *ForensicsFeed) onProduce() {
	f.produce = 0
	if !f.running {
		return
	}

	token := GenerateTokenEvent(f.rng, f.opts.NewID(), f.opts.Clock())
	f.tokens = prependCapped(f.tokens, token, MaxAnalyzedTokens)
	f.opts.Metrics.ObserveTokenEvent(string(token.EventType))

	// A new row takes over the highlight from the previous one
	f.sched.Cancel(f.highlight)
	f.newTokenID = token.ID
	f.highlight = f.sched.Schedule(newTokenHighlight, f.onHighlightExpired)

	f.scheduleProduce()
	f.changed()
}

func (f *ForensicsFeed) onHighlightExpired() {
	f.highlight = 0
	f.newTokenID = ""
	f.changed()
}

func (f *ForensicsFeed) changed() {
	if f.opts.OnChange != nil {
		f.opts.OnChange()
	}
}

// SetFilter selects the event type shown by Visible. FilterAll or the empty
// string shows every row; labels such as "Rug Pull" are accepted too.
func (f *ForensicsFeed) SetFilter(filter string) error {
	if filter == "" || filter == domain.FilterAll {
		f.filter = domain.FilterAll
		return nil
	}
	t, ok := domain.ParseEventType(filter)
	if !ok {
		return domain.ErrUnknownEventType
	}
	f.filter = string(t)
	return nil
}

// Filter returns the active filter
func (f *ForensicsFeed) Filter() string {
	return f.filter
}

// Tokens returns a copy of every row, newest first
func (f *ForensicsFeed) Tokens() []domain.AnalyzedToken {
	out := make([]domain.AnalyzedToken, len(f.tokens))
	copy(out, f.tokens)
	return out
}

// Visible returns the rows matching the active filter
func (f *ForensicsFeed) Visible() []domain.AnalyzedToken {
	out, _ := FilterTokens(f.tokens, f.filter)
	return out
}

// Find looks up a row by id
func (f *ForensicsFeed) Find(id string) (domain.AnalyzedToken, error) {
	for _, t := range f.tokens {
		if t.ID == id {
			return t, nil
		}
	}
	return domain.AnalyzedToken{}, domain.ErrTokenNotFound
}

// NewTokenID returns the id of the highlighted row, or "" outside a highlight window
func (f *ForensicsFeed) NewTokenID() string {
	return f.newTokenID
}

// FilterTokens returns the rows of the given event type in their original order.
// FilterAll and "" return every row.
func FilterTokens(tokens []domain.AnalyzedToken, filter string) ([]domain.AnalyzedToken, error) {
	out := make([]domain.AnalyzedToken, 0, len(tokens))
	if filter == "" || filter == domain.FilterAll {
		return append(out, tokens...), nil
	}

	t, ok := domain.ParseEventType(filter)
	if !ok {
		return nil, domain.ErrUnknownEventType
	}
	for _, tok := range tokens {
		if tok.EventType == t {
			out = append(out, tok)
		}
	}
	return out, nil
}
