package testutil

// ScriptedRand replays a fixed sequence of draws, then keeps returning Fallback.
type ScriptedRand struct {
	Draws    []float64
	Fallback float64
	next     int
	used     int
}

// NewScriptedRand creates a source that yields draws in order
func NewScriptedRand(draws ...float64) *ScriptedRand {
	return &ScriptedRand{Draws: draws}
}

// Float64 returns the next scripted draw, or Fallback once the script runs out
func (r *ScriptedRand) Float64() float64 {
	r.used++
	if r.next < len(r.Draws) {
		v := r.Draws[r.next]
		r.next++
		return v
	}
	return r.Fallback
}

// Push appends more draws to the script
func (r *ScriptedRand) Push(draws ...float64) {
	r.Draws = append(r.Draws, draws...)
}

// Used returns how many draws have been consumed, fallbacks included
func (r *ScriptedRand) Used() int {
	return r.used
}
