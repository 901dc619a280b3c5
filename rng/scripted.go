package rng

import "log"

// Scripted is a Source that replays a fixed list of draws. Its Shuffle keeps
// the original order. It is meant for forcing exact transitions.
type Scripted struct {
	draws    []float64
	consumed int
}

// NewScripted creates a Scripted source that returns the given draws in
// order.
func NewScripted(draws ...float64) *Scripted {
	return &Scripted{draws: draws}
}

// Float64 returns the next scripted draw. It panics when the script is
// exhausted.
func (s *Scripted) Float64() float64 {
	if s.consumed >= len(s.draws) {
		log.Panicf("scripted source exhausted after %d draws", s.consumed)
	}

	d := s.draws[s.consumed]
	s.consumed++

	return d
}

// Shuffle leaves the order untouched.
func (s *Scripted) Shuffle(_ int, _ func(i, j int)) {}

// Consumed returns how many draws have been taken.
func (s *Scripted) Consumed() int {
	return s.consumed
}

// Remaining returns how many draws are left.
func (s *Scripted) Remaining() int {
	return len(s.draws) - s.consumed
}

// Append adds more draws to the end of the script.
func (s *Scripted) Append(draws ...float64) {
	s.draws = append(s.draws, draws...)
}
