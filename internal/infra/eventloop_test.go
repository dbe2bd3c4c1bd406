package infra

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mastersol/internal/domain"
)

func TestEventLoop_DoRunsOnLoop(t *testing.T) {
	l := NewEventLoop()
	defer l.Close()

	var got int
	require.NoError(t, l.Do(func() { got = 42 }))
	assert.Equal(t, 42, got)
}

func TestEventLoop_ScheduleFires(t *testing.T) {
	l := NewEventLoop()
	defer l.Close()

	fired := make(chan struct{})
	l.Schedule(10*time.Millisecond, func() { close(fired) })

	select {
	case <-fired:
	case <-time.After(2 * time.Second):
		t.Fatal("scheduled callback never fired")
	}
	assert.Eventually(t, func() bool { return l.Pending() == 0 }, time.Second, 5*time.Millisecond)
}

func TestEventLoop_CancelPreventsCallback(t *testing.T) {
	l := NewEventLoop()
	defer l.Close()

	var fired atomic.Bool
	var h domain.TimerHandle
	require.NoError(t, l.Do(func() {
		h = l.Schedule(20*time.Millisecond, func() { fired.Store(true) })
	}))
	require.NoError(t, l.Do(func() { l.Cancel(h) }))

	time.Sleep(60 * time.Millisecond)
	assert.False(t, fired.Load())
	assert.Equal(t, 0, l.Pending())
}

func TestEventLoop_CancelAfterTimerQueued(t *testing.T) {
	l := NewEventLoop()
	defer l.Close()

	// Block the loop so the timer's callback is queued behind us, then cancel
	// from inside the same loop turn.
	var fired atomic.Bool
	require.NoError(t, l.Do(func() {
		h := l.Schedule(time.Millisecond, func() { fired.Store(true) })
		time.Sleep(20 * time.Millisecond)
		l.Cancel(h)
	}))

	require.NoError(t, l.Do(func() {}))
	assert.False(t, fired.Load())
}

func TestEventLoop_DoAfterClose(t *testing.T) {
	l := NewEventLoop()
	l.Close()
	l.Close()

	assert.ErrorIs(t, l.Do(func() {}), domain.ErrLoopClosed)
}
