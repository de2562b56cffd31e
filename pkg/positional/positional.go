// Package positional computes the round-robin structure over position
// tokens (1..N), before any participant is bound to a position. It is a
// first-class product for inspection and for future standings-aware
// schedulers (Swiss, etc.).
package positional

import "fmt"

// ByePosition is the distinguished position token representing the bye
// slot for odd cardinality. It is never a valid participant position.
const ByePosition = 0

// Pairing is an ordered pair of position tokens (1..N, or ByePosition).
type Pairing struct {
	First  int
	Second int
}

// HasBye reports whether either side of the pairing is the bye token.
func (p Pairing) HasBye() bool { return p.First == ByePosition || p.Second == ByePosition }

// Round is the ordered sequence of pairings for a single round.
type Round struct {
	Number   int
	Pairings []Pairing
}

// Schedule is the full positional round-robin structure for N positions:
// the sequence of positional rounds produced by the circle method.
type Schedule struct {
	n      int
	rounds []Round
}

// N returns the position count this structure was generated for.
func (s *Schedule) N() int { return s.n }

// Rounds returns the positional rounds in round-number order.
func (s *Schedule) Rounds() []Round {
	cp := make([]Round, len(s.rounds))
	copy(cp, s.rounds)
	return cp
}

// RoundCount returns the number of rounds: N-1 if N is even, else N.
func (s *Schedule) RoundCount() int { return len(s.rounds) }

// PairingCount returns the total number of non-bye pairings across all
// rounds: N*(N-1)/2.
func (s *Schedule) PairingCount() int {
	count := 0
	for _, r := range s.rounds {
		for _, p := range r.Pairings {
			if !p.HasBye() {
				count++
			}
		}
	}
	return count
}

// Generate computes the positional round-robin structure for n positions
// via the circle method. For even n, position 1 is fixed and positions 2..n
// rotate through n-1 rounds; for odd n, a bye slot is fixed instead and all
// n positions rotate through n rounds, each sitting out once.
// This is a total, pure function of n — it has no dependency on
// participants, constraints, or randomness.
func Generate(n int) (*Schedule, error) {
	if n < 2 {
		return nil, fmt.Errorf("positional: n must be at least 2, got %d", n)
	}

	odd := n%2 != 0
	var slots []int
	if odd {
		// One extra slot holds the bye marker, fixed at index 0, so that the
		// rotating real positions each visit the bye pairing exactly once
		// across the n rounds.
		slots = make([]int, n+1)
		for i := 1; i <= n; i++ {
			slots[i] = i
		}
		slots[0] = ByePosition
	} else {
		slots = make([]int, n)
		for i := 0; i < n; i++ {
			slots[i] = i + 1
		}
	}

	size := len(slots)
	roundCount := size - 1
	rounds := make([]Round, 0, roundCount)

	// Standard circle method: slots[0] stays fixed, slots[1:] rotate by one
	// position each round. Pairing i pairs slots[i] with slots[size-1-i].
	working := make([]int, size)
	copy(working, slots)

	for r := 1; r <= roundCount; r++ {
		pairings := make([]Pairing, 0, size/2)
		for i := 0; i < size/2; i++ {
			pairings = append(pairings, Pairing{First: working[i], Second: working[size-1-i]})
		}
		rounds = append(rounds, Round{Number: r, Pairings: pairings})

		// Rotate: fix working[0], rotate the rest by one.
		fixed := working[0]
		last := working[size-1]
		copy(working[2:], working[1:size-1])
		working[1] = last
		working[0] = fixed
	}

	return &Schedule{n: n, rounds: rounds}, nil
}
