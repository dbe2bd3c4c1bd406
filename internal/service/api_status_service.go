package service

import (
	"time"

	"mastersol/internal/domain"
)

const (
	apiCheckMinDelay = 500 * time.Millisecond
	apiCheckMaxDelay = 2000 * time.Millisecond
)

// APIStatusChecker tracks the admin API key matrix and simulates
// connectivity checks against each configured service.
// It is not safe for concurrent use.
type APIStatusChecker struct {
	sched       domain.Scheduler
	rng         domain.RandomSource
	successRate float64
	onChange    func()

	services []domain.APIServiceState
	pending  map[string]domain.TimerHandle
}

// NewAPIStatusChecker creates a checker with every service idle and unconfigured
func NewAPIStatusChecker(sched domain.Scheduler, rng domain.RandomSource, services []domain.APIService, successRate float64, onChange func()) *APIStatusChecker {
	states := make([]domain.APIServiceState, len(services))
	for i, s := range services {
		states[i] = domain.APIServiceState{APIService: s, Status: domain.APIIdle}
	}
	return &APIStatusChecker{
		sched:       sched,
		rng:         rng,
		successRate: successRate,
		onChange:    onChange,
		services:    states,
		pending:     make(map[string]domain.TimerHandle),
	}
}

// SetKey stores the key for a service and resets its status to idle,
// dropping any check still in flight for it.
func (c *APIStatusChecker) SetKey(id, key string) error {
	i := c.index(id)
	if i < 0 {
		return domain.ErrUnknownService
	}
	c.cancel(id)
	c.services[i].Key = key
	c.services[i].Configured = key != ""
	c.services[i].Status = domain.APIIdle
	c.changed()
	return nil
}

// CheckAll marks every service as checking and resolves each one after a random delay
func (c *APIStatusChecker) CheckAll() {
	for i := range c.services {
		id := c.services[i].ID
		c.cancel(id)
		c.services[i].Status = domain.APIChecking
		c.pending[id] = c.sched.Schedule(uniformDuration(c.rng, apiCheckMinDelay, apiCheckMaxDelay), func() {
			c.resolve(id)
		})
	}
	c.changed()
}

func (c *APIStatusChecker) resolve(id string) {
	delete(c.pending, id)
	i := c.index(id)
	if i < 0 {
		return
	}
	if c.rng.Float64() < c.successRate {
		c.services[i].Status = domain.APISuccess
	} else {
		c.services[i].Status = domain.APIFailed
	}
	c.changed()
}

// States returns a copy of the matrix in display order
func (c *APIStatusChecker) States() []domain.APIServiceState {
	out := make([]domain.APIServiceState, len(c.services))
	copy(out, c.services)
	return out
}

// Stop cancels every check in flight
func (c *APIStatusChecker) Stop() {
	for id := range c.pending {
		c.cancel(id)
	}
}

func (c *APIStatusChecker) cancel(id string) {
	if h, ok := c.pending[id]; ok {
		c.sched.Cancel(h)
		delete(c.pending, id)
	}
}

func (c *APIStatusChecker) index(id string) int {
	for i, s := range c.services {
		if s.ID == id {
			return i
		}
	}
	return -1
}

func (c *APIStatusChecker) changed() {
	if c.onChange != nil {
		c.onChange()
	}
}
