package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mastersol/internal/domain"
	"mastersol/internal/testutil"
)

var testServices = []domain.APIService{
	{ID: "solana", Name: "Solana RPC Endpoint"},
	{ID: "jupiter", Name: "Jupiter API Key"},
}

func statuses(c *APIStatusChecker) []domain.APIStatus {
	var out []domain.APIStatus
	for _, s := range c.States() {
		out = append(out, s.Status)
	}
	return out
}

func TestAPIStatusChecker_CheckAll(t *testing.T) {
	sched := testutil.NewManualScheduler()
	// delays 500ms and 1850ms, then solana succeeds and jupiter fails
	rng := testutil.NewScriptedRand(0, 0.9, 0.5, 0.8)
	c := NewAPIStatusChecker(sched, rng, testServices, 0.75, nil)

	assert.Equal(t, []domain.APIStatus{domain.APIIdle, domain.APIIdle}, statuses(c))

	c.CheckAll()
	assert.Equal(t, []domain.APIStatus{domain.APIChecking, domain.APIChecking}, statuses(c))

	sched.Advance(500 * time.Millisecond)
	assert.Equal(t, []domain.APIStatus{domain.APISuccess, domain.APIChecking}, statuses(c))

	sched.Advance(1500 * time.Millisecond)
	assert.Equal(t, []domain.APIStatus{domain.APISuccess, domain.APIFailed}, statuses(c))
	assert.Equal(t, 0, sched.Pending())
}

func TestAPIStatusChecker_SetKeyResetsToIdle(t *testing.T) {
	sched := testutil.NewManualScheduler()
	rng := testutil.NewScriptedRand()
	c := NewAPIStatusChecker(sched, rng, testServices, 0.75, nil)

	c.CheckAll()
	require.NoError(t, c.SetKey("jupiter", "jup-key"))
	assert.Equal(t, 1, sched.Pending())

	sched.Advance(5 * time.Second)
	states := c.States()
	assert.Equal(t, domain.APISuccess, states[0].Status)
	assert.Equal(t, domain.APIIdle, states[1].Status)
	assert.True(t, states[1].Configured)
	assert.False(t, states[0].Configured)
}

func TestAPIStatusChecker_UnknownService(t *testing.T) {
	c := NewAPIStatusChecker(testutil.NewManualScheduler(), testutil.NewScriptedRand(), testServices, 0.75, nil)

	assert.ErrorIs(t, c.SetKey("coingecko", "x"), domain.ErrUnknownService)
}

func TestAPIStatusChecker_Stop(t *testing.T) {
	sched := testutil.NewManualScheduler()
	c := NewAPIStatusChecker(sched, testutil.NewScriptedRand(), testServices, 0.75, nil)

	c.CheckAll()
	c.Stop()
	assert.Equal(t, 0, sched.Pending())

	sched.Advance(time.Minute)
	assert.Equal(t, []domain.APIStatus{domain.APIChecking, domain.APIChecking}, statuses(c))
}
