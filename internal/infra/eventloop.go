package infra

import (
	"sync"
	"time"

	"mastersol/internal/domain"
)

// EventLoop serialises timer callbacks and submitted commands on a single
// goroutine. State touched only from inside the loop needs no locking.
type EventLoop struct {
	tasks chan func()
	done  chan struct{}

	mu     sync.Mutex // guards timers and nextID
	timers map[domain.TimerHandle]*time.Timer
	nextID domain.TimerHandle

	closeOnce sync.Once
}

// NewEventLoop creates and starts an event loop
func NewEventLoop() *EventLoop {
	l := &EventLoop{
		tasks:  make(chan func(), 64),
		done:   make(chan struct{}),
		timers: make(map[domain.TimerHandle]*time.Timer),
	}
	go l.run()
	return l
}

func (l *EventLoop) run() {
	for {
		select {
		case fn := <-l.tasks:
			fn()
		case <-l.done:
			return
		}
	}
}

// Schedule implements domain.Scheduler. The callback runs on the loop goroutine.
func (l *EventLoop) Schedule(delay time.Duration, fn func()) domain.TimerHandle {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.nextID++
	id := l.nextID
	l.timers[id] = time.AfterFunc(delay, func() {
		l.post(func() { l.fire(id, fn) })
	})
	return id
}

// Cancel implements domain.Scheduler
func (l *EventLoop) Cancel(h domain.TimerHandle) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if t, ok := l.timers[h]; ok {
		t.Stop()
		delete(l.timers, h)
	}
}

// fire runs fn unless its handle was cancelled while the callback sat in the queue
func (l *EventLoop) fire(id domain.TimerHandle, fn func()) {
	l.mu.Lock()
	_, live := l.timers[id]
	delete(l.timers, id)
	l.mu.Unlock()

	if live {
		fn()
	}
}

func (l *EventLoop) post(fn func()) {
	select {
	case l.tasks <- fn:
	case <-l.done:
	}
}

// Do runs fn on the loop and waits for it to finish.
// It must not be called from a loop callback.
func (l *EventLoop) Do(fn func()) error {
	finished := make(chan struct{})
	select {
	case l.tasks <- func() { fn(); close(finished) }:
	case <-l.done:
		return domain.ErrLoopClosed
	}

	select {
	case <-finished:
		return nil
	case <-l.done:
		return domain.ErrLoopClosed
	}
}

// Pending returns the number of scheduled callbacks that have not run yet
func (l *EventLoop) Pending() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.timers)
}

// Close stops every pending timer and the loop goroutine
func (l *EventLoop) Close() {
	l.closeOnce.Do(func() {
		l.mu.Lock()
		for id, t := range l.timers {
			t.Stop()
			delete(l.timers, id)
		}
		l.mu.Unlock()
		close(l.done)
	})
}
