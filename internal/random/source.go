// Package random provides the seeded linear congruential stream that drives
// number generation. The recurrence and its constants are part of the output
// contract: changing them changes every published set.
package random

// LCG parameters
const (
	Multiplier = 1664525
	Increment  = 1013904223
	Modulus    = 2147483647
)

// Source is a deterministic stream of values in [0,1).
// A Source is not safe for concurrent use; give each generation run its own.
type Source struct {
	state int64
	draws int
}

// New creates a source positioned at seed
func New(seed int64) *Source {
	return &Source{state: seed}
}

// Reseed restarts the stream from seed
func (s *Source) Reseed(seed int64) {
	s.state = seed
	s.draws = 0
}

// Next advances the recurrence and returns state/Modulus.
// state*Multiplier stays below 2^53 for any state below Modulus, so int64 is exact.
func (s *Source) Next() float64 {
	s.state = (s.state*Multiplier + Increment) % Modulus
	s.draws++
	return float64(s.state) / Modulus
}

// Intn returns floor(Next()*n), consuming exactly one value
func (s *Source) Intn(n int) int {
	return int(s.Next() * float64(n))
}

// Draws reports how many values were consumed since construction or the last Reseed
func (s *Source) Draws() int {
	return s.draws
}

// State exposes the raw recurrence state
func (s *Source) State() int64 {
	return s.state
}
