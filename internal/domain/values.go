package domain

import "math/rand/v2"

// Value bounds for a single refined datum.
const (
	MinValue = 1
	MaxValue = 10
)

// Prizes a refiner may be awarded once every bin is full.
var Prizes = []string{
	"Waffle Party",
	"Melon Bar",
	"Finger Trap",
	"Caricature Portrait",
	"Dance Experience",
	"Music/Dance Experience",
	"Wellness Session",
	"Coffee Cozy",
	"Choice of Desk Toy",
}

// ValueSource is a session's private pseudo-random stream. Every session
// owns exactly one; nothing is shared across sessions, so a fixed seed
// makes a whole session deterministic under test.
type ValueSource struct {
	rng *rand.Rand
}

func NewValueSource(seed uint64) *ValueSource {
	return &ValueSource{rng: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

// Next produces one refined value in [MinValue, MaxValue] with a uniformly
// chosen feel.
func (s *ValueSource) Next() Refined {
	return Refined{
		Value: MinValue + s.rng.IntN(MaxValue-MinValue+1),
		Feel:  Feels[s.rng.IntN(len(Feels))],
	}
}

// Batch produces refined values totalling exactly units, each within the
// value bounds. The final value is clamped to the remaining budget so one
// digit press always refines the same number of units.
func (s *ValueSource) Batch(units int) []Refined {
	var out []Refined
	for remaining := units; remaining > 0; {
		v := s.Next()
		if v.Value > remaining {
			v.Value = remaining
		}
		remaining -= v.Value
		out = append(out, v)
	}
	return out
}

// PickContainer chooses a container id uniformly from 1..n.
func (s *ValueSource) PickContainer(n int) int {
	return 1 + s.rng.IntN(n)
}

// LoadingIncrement produces one warm-up progress step in [0, 13).
func (s *ValueSource) LoadingIncrement() float64 {
	return s.rng.Float64() * 13
}

// Prize picks the session's award.
func (s *ValueSource) Prize() string {
	return Prizes[s.rng.IntN(len(Prizes))]
}
