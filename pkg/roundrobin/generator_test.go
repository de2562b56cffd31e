package roundrobin_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mission-gaming/tactician-sub000/pkg/constraints"
	"github.com/mission-gaming/tactician-sub000/pkg/legstrategy"
	"github.com/mission-gaming/tactician-sub000/pkg/model"
	"github.com/mission-gaming/tactician-sub000/pkg/orderer"
	"github.com/mission-gaming/tactician-sub000/pkg/roundrobin"
	"github.com/mission-gaming/tactician-sub000/pkg/violations"
)

func participants(t *testing.T, ids ...string) []model.Participant {
	t.Helper()
	out := make([]model.Participant, len(ids))
	for i, id := range ids {
		p, err := model.NewParticipant(id, "", nil)
		require.NoError(t, err)
		out[i] = p
	}
	return out
}

func seededParticipants(t *testing.T, idsAndSeeds map[string]int, order []string) []model.Participant {
	t.Helper()
	out := make([]model.Participant, len(order))
	for i, id := range order {
		p, err := model.NewParticipant(id, "", nil)
		require.NoError(t, err)
		p, err = p.WithSeed(idsAndSeeds[id])
		require.NoError(t, err)
		out[i] = p
	}
	return out
}

func TestEvenParticipantsSingleLeg(t *testing.T) {
	people := participants(t, "A", "B", "C", "D")
	schedule, _, collector, err := roundrobin.GenerateSchedule(people, roundrobin.Options{Legs: 1, ExplicitOrder: true})
	require.NoError(t, err)
	require.Equal(t, roundrobin.ExpectedRoundRobinEvents(4, 1), len(schedule))
	require.Equal(t, 6, len(schedule))
	require.Equal(t, 0, collector.Count())

	counts := make(map[string]int)
	maxRound := 0
	for _, e := range schedule {
		r, _ := e.Round()
		if r > maxRound {
			maxRound = r
		}
		for _, p := range e.Participants() {
			counts[p.ID()]++
		}
	}
	require.Equal(t, 3, maxRound)
	for _, id := range []string{"A", "B", "C", "D"} {
		require.Equal(t, 3, counts[id])
	}
}

func TestOddParticipantsSingleLeg(t *testing.T) {
	people := participants(t, "A", "B", "C", "D", "E")
	schedule, _, collector, err := roundrobin.GenerateSchedule(people, roundrobin.Options{Legs: 1, ExplicitOrder: true})
	require.NoError(t, err)
	require.Equal(t, 10, len(schedule))
	require.Equal(t, 0, collector.Count())

	byRound := make(map[int]int)
	counts := make(map[string]int)
	for _, e := range schedule {
		r, _ := e.Round()
		byRound[r]++
		for _, p := range e.Participants() {
			counts[p.ID()]++
		}
	}
	require.Len(t, byRound, 5)
	for _, n := range byRound {
		require.Equal(t, 2, n)
	}
	for _, id := range []string{"A", "B", "C", "D", "E"} {
		require.Equal(t, 4, counts[id])
	}
}

func TestMirroredLegsWithStaticOrdererBalanceRoles(t *testing.T) {
	people := participants(t, "A", "B", "C", "D")
	schedule, _, collector, err := roundrobin.GenerateSchedule(people, roundrobin.Options{
		Legs:        2,
		LegStrategy: legstrategy.Mirrored{},
		Orderer:     orderer.Static{},
		ExplicitOrder: true,
	})
	require.NoError(t, err)
	require.Equal(t, 12, len(schedule))
	require.Equal(t, 0, collector.Count())

	firstRoleCount := make(map[string]int)
	secondRoleCount := make(map[string]int)
	for _, e := range schedule {
		firstRoleCount[e.Participants()[0].ID()]++
		secondRoleCount[e.Participants()[1].ID()]++
	}
	for _, id := range []string{"A", "B", "C", "D"} {
		require.Equal(t, firstRoleCount[id], secondRoleCount[id])
	}
}

func TestNoRepeatPairingsAcrossLegsProducesIncompleteCounts(t *testing.T) {
	people := participants(t, "A", "B", "C", "D")
	cset, err := constraints.NewBuilder().NoRepeatPairings().Build()
	require.NoError(t, err)

	schedule, _, collector, err := roundrobin.GenerateSchedule(people, roundrobin.Options{
		Legs:          2,
		Constraints:   cset,
		ExplicitOrder: true,
	})
	require.NoError(t, err)
	require.Equal(t, 6, len(schedule), "leg 2 must be entirely rejected by NoRepeatPairings")
	require.Equal(t, 12, roundrobin.ExpectedRoundRobinEvents(4, 2))
	require.Equal(t, 6, collector.Count())
	for _, v := range collector.All() {
		require.Equal(t, "NoRepeatPairings", v.ConstraintName)
	}
}

func TestSeedProtectionGuardsEarlyRounds(t *testing.T) {
	order := []string{"p1", "p2", "p3", "p4", "p5", "p6", "p7", "p8"}
	seeds := map[string]int{"p1": 1, "p2": 2, "p3": 3, "p4": 4, "p5": 5, "p6": 6, "p7": 7, "p8": 8}
	people := seededParticipants(t, seeds, order)

	cset, err := constraints.NewBuilder().NoRepeatPairings().SeedProtection(4, 0.15).Build()
	require.NoError(t, err)

	schedule, _, collector, err := roundrobin.GenerateSchedule(people, roundrobin.Options{
		Legs:          1,
		Constraints:   cset,
		ExplicitOrder: true,
	})
	require.NoError(t, err)
	require.Equal(t, 28, len(schedule))
	require.Equal(t, 0, collector.Count())

	for _, e := range schedule {
		r, _ := e.Round()
		if r > 2 {
			continue
		}
		topSeeded := 0
		for _, p := range e.Participants() {
			if seed, ok := p.Seed(); ok && seed <= 4 {
				topSeeded++
			}
		}
		require.Less(t, topSeeded, 2, "round %d must not pair two top-4 seeds", r)
	}
}

func TestGenerateRoundMatchesGenerateSchedule(t *testing.T) {
	people := participants(t, "A", "B", "C", "D")
	opts := roundrobin.Options{Legs: 2, LegStrategy: legstrategy.Mirrored{}, ExplicitOrder: true}

	full, _, _, err := roundrobin.GenerateSchedule(people, opts)
	require.NoError(t, err)

	ctx := model.NewSchedulingContext(people)
	collector := violations.NewCollector()
	var incremental []model.Event
	for round := 1; round <= 6; round++ {
		events, err := roundrobin.GenerateRound(people, round, ctx, collector, opts)
		require.NoError(t, err)
		incremental = append(incremental, events...)
	}

	require.Equal(t, len(full), len(incremental))
	for i := range full {
		require.Equal(t, full[i].Participants()[0].ID(), incremental[i].Participants()[0].ID())
		require.Equal(t, full[i].Participants()[1].ID(), incremental[i].Participants()[1].ID())
	}
}
