package observability

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetrics_Counters(t *testing.T) {
	m := NewMetrics("test")

	m.ObserveCycle()
	m.ObserveCycle()
	m.ObserveTrade("BUY", OutcomeSuccess)
	m.ObserveInsight("trading", OutcomeFailed)
	m.SetActiveSessions(3)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.BotCycles))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.BotTrades.WithLabelValues("BUY", OutcomeSuccess)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.InsightRequests.WithLabelValues("trading", OutcomeFailed)))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.ActiveSessions))
}

func TestMetrics_IndependentRegistries(t *testing.T) {
	a := NewMetrics("")
	b := NewMetrics("")

	a.ObserveCycle()

	assert.Equal(t, 1.0, testutil.ToFloat64(a.BotCycles))
	assert.Equal(t, 0.0, testutil.ToFloat64(b.BotCycles))
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *Metrics

	assert.NotPanics(t, func() {
		m.ObserveCycle()
		m.ObserveTrade("SELL", OutcomeFailed)
		m.ObserveTokenEvent("RugPull")
		m.SetActiveSessions(1)
	})
}
