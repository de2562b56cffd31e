package engine_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mission-gaming/tactician-sub000/pkg/diagnostics"
	"github.com/mission-gaming/tactician-sub000/pkg/engine"
	"github.com/mission-gaming/tactician-sub000/pkg/model"
)

func participants(t *testing.T, ids ...string) []model.Participant {
	t.Helper()
	out := make([]model.Participant, 0, len(ids))
	for _, id := range ids {
		p, err := model.NewParticipant(id, "", nil)
		require.NoError(t, err)
		out = append(out, p)
	}
	return out
}

func TestGenerateScheduleEvenParticipants(t *testing.T) {
	s := engine.NewRoundRobinScheduler()
	schedule, err := s.GenerateSchedule(participants(t, "a", "b", "c", "d"))
	require.NoError(t, err)
	require.Equal(t, 6, schedule.Count())
	require.Equal(t, "COMPLETE", s.LastState())
}

func TestGenerateScheduleRejectsTooFewParticipants(t *testing.T) {
	s := engine.NewRoundRobinScheduler()
	_, err := s.GenerateSchedule(participants(t, "a"))
	require.Error(t, err)
	var invalid *diagnostics.InvalidConfiguration
	require.ErrorAs(t, err, &invalid)
}

func TestGenerateScheduleRejectsDuplicateIDs(t *testing.T) {
	s := engine.NewRoundRobinScheduler()
	_, err := s.GenerateSchedule(participants(t, "a", "a", "b"))
	require.Error(t, err)
	var invalid *diagnostics.InvalidConfiguration
	require.ErrorAs(t, err, &invalid)
}

func TestGenerateScheduleRejectsNonPositiveLegs(t *testing.T) {
	s := engine.NewRoundRobinScheduler()
	_, err := s.GenerateSchedule(participants(t, "a", "b"), engine.WithLegs(0))
	require.Error(t, err)
}

func TestGenerateScheduleSurfacesIncompleteSchedule(t *testing.T) {
	ps := participants(t, "a", "b", "c", "d")

	cset, err := buildNoRepeatSet()
	require.NoError(t, err)

	s := engine.NewRoundRobinScheduler()
	_, err = s.GenerateSchedule(ps, engine.WithLegs(2), engine.WithConstraints(cset))
	require.Error(t, err)

	var incomplete *diagnostics.IncompleteSchedule
	require.ErrorAs(t, err, &incomplete)
	require.Equal(t, 12, incomplete.Expected)
	require.Less(t, incomplete.Actual, incomplete.Expected)
	require.Equal(t, "INCOMPLETE", s.LastState())
}

func TestGenerateScheduleRaisesImpossibleConstraintsViaPrecheck(t *testing.T) {
	ps := participants(t, "a", "b", "c")

	cset, err := buildMinimumRestSet(50)
	require.NoError(t, err)

	s := engine.NewRoundRobinScheduler()
	_, err = s.GenerateSchedule(ps, engine.WithConstraints(cset))
	require.Error(t, err)

	var impossible *diagnostics.ImpossibleConstraints
	require.ErrorAs(t, err, &impossible)
	require.Equal(t, 3, impossible.ParticipantCount)
}

func TestGenerateStructure(t *testing.T) {
	s := engine.NewRoundRobinScheduler()
	structure, err := s.GenerateStructure(4)
	require.NoError(t, err)
	require.NotNil(t, structure)
}

func TestSupportsCompleteGeneration(t *testing.T) {
	s := engine.NewRoundRobinScheduler()
	require.True(t, s.SupportsCompleteGeneration())
}
