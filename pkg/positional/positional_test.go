package positional_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/mission-gaming/tactician-sub000/pkg/positional"
)

func TestGenerateRejectsTooFewPositions(t *testing.T) {
	_, err := positional.Generate(1)
	require.Error(t, err)
}

func TestGenerateEvenN(t *testing.T) {
	s, err := positional.Generate(4)
	require.NoError(t, err)
	require.Equal(t, 3, s.RoundCount())
	require.Equal(t, 6, s.PairingCount())

	for _, r := range s.Rounds() {
		require.Len(t, r.Pairings, 2)
		for _, p := range r.Pairings {
			require.False(t, p.HasBye())
		}
	}
}

func TestGenerateOddN(t *testing.T) {
	s, err := positional.Generate(5)
	require.NoError(t, err)
	require.Equal(t, 5, s.RoundCount())
	require.Equal(t, 10, s.PairingCount())

	for _, r := range s.Rounds() {
		byeCount := 0
		for _, p := range r.Pairings {
			if p.HasBye() {
				byeCount++
			}
		}
		require.Equal(t, 1, byeCount, "round %d should have exactly one bye pairing", r.Number)
	}
}

// TestPositionCoverage checks, for a range of N, that every unordered pair
// of positions 1..N appears exactly once across the whole structure, and
// that for odd N every position sits out exactly once.
func TestPositionCoverage(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		n := rapid.IntRange(2, 40).Draw(rt, "n")
		s, err := positional.Generate(n)
		require.NoError(rt, err)

		seen := make(map[[2]int]int)
		byeCount := make(map[int]int)

		for _, round := range s.Rounds() {
			present := make(map[int]bool)
			for _, p := range round.Pairings {
				if p.HasBye() {
					absent := p.First
					if absent == positional.ByePosition {
						absent = p.Second
					}
					byeCount[absent]++
					continue
				}
				a, b := p.First, p.Second
				if a > b {
					a, b = b, a
				}
				seen[[2]int{a, b}]++
				present[p.First] = true
				present[p.Second] = true
			}
		}

		expectedPairs := n * (n - 1) / 2
		require.Len(rt, seen, expectedPairs)
		for _, count := range seen {
			require.Equal(rt, 1, count)
		}

		if n%2 != 0 {
			for pos := 1; pos <= n; pos++ {
				require.Equal(rt, 1, byeCount[pos], "position %d should have exactly one bye", pos)
			}
		}
	})
}
