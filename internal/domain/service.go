package domain

import (
	"context"
	"time"
)

// TimerHandle identifies a pending scheduled callback
type TimerHandle uint64

// Scheduler runs callbacks after a delay. Callbacks scheduled on the same
// Scheduler never run concurrently with each other.
type Scheduler interface {
	// Schedule arranges for fn to run once after delay
	Schedule(delay time.Duration, fn func()) TimerHandle

	// Cancel prevents a pending callback from running. Unknown or already
	// fired handles are ignored.
	Cancel(h TimerHandle)
}

// RandomSource yields uniform draws in [0, 1). *rand.Rand satisfies it.
type RandomSource interface {
	Float64() float64
}

// TextGenerator defines the interface for the external text completion service
type TextGenerator interface {
	// Complete sends prompt to model and returns the generated text.
	// Failures are reported as *ServiceError.
	Complete(ctx context.Context, model, prompt string) (string, error)
}
