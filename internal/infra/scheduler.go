package infra

import (
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
)

// SessionSweeper is the part of the dashboard service the housekeeper drives
type SessionSweeper interface {
	SweepIdle(ttl time.Duration) int
	ActiveSessions() int
}

// GaugeSetter receives the active session count after every sweep
type GaugeSetter interface {
	SetActiveSessions(n int)
}

// Housekeeper runs periodic maintenance on cron schedules
type Housekeeper struct {
	cron     *cron.Cron
	sessions SessionSweeper
	gauge    GaugeSetter
	ttl      time.Duration
	schedule string
}

// NewHousekeeper creates a new housekeeper. schedule defaults to "@every 1m".
func NewHousekeeper(sessions SessionSweeper, gauge GaugeSetter, ttl time.Duration, schedule string) *Housekeeper {
	if schedule == "" {
		schedule = "@every 1m"
	}
	return &Housekeeper{
		cron:     cron.New(),
		sessions: sessions,
		gauge:    gauge,
		ttl:      ttl,
		schedule: schedule,
	}
}

// Start registers the jobs and starts the cron runner
func (h *Housekeeper) Start() error {
	log.Info().Str("schedule", h.schedule).Dur("ttl", h.ttl).Msg("starting housekeeper")

	if _, err := h.cron.AddFunc(h.schedule, h.Sweep); err != nil {
		return err
	}

	h.cron.Start()
	log.Info().Msg("[OK] Housekeeper started")
	return nil
}

// Sweep closes idle sessions and refreshes the session gauge
func (h *Housekeeper) Sweep() {
	if n := h.sessions.SweepIdle(h.ttl); n > 0 {
		log.Debug().Int("closed", n).Msg("[CRON] sweep finished")
	}
	if h.gauge != nil {
		h.gauge.SetActiveSessions(h.sessions.ActiveSessions())
	}
}

// Stop stops the cron runner and waits for a running sweep
func (h *Housekeeper) Stop() {
	log.Info().Msg("Stopping housekeeper...")
	<-h.cron.Stop().Done()
	log.Info().Msg("[OK] Housekeeper stopped")
}
