package diagnostics_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mission-gaming/tactician-sub000/pkg/diagnostics"
	"github.com/mission-gaming/tactician-sub000/pkg/model"
	"github.com/mission-gaming/tactician-sub000/pkg/violations"
)

func TestInvalidConfigurationReport(t *testing.T) {
	f := &diagnostics.InvalidConfiguration{Issue: "participant count < 2"}
	require.ErrorContains(t, f, "invalid configuration")
	report := f.DiagnosticReport()
	require.Contains(t, report, "INVALID CONFIGURATION DIAGNOSTIC REPORT")
	require.Contains(t, report, "participant count < 2")
	require.Contains(t, report, "CONFIGURATION DETAILS")
	require.Contains(t, report, "(none supplied)")
	require.Contains(t, report, "REQUIREMENTS")
	require.NotContains(t, report, "REQUIREMENTS CHECKLIST")
}

func TestInvalidConfigurationReportEchoesDetails(t *testing.T) {
	f := &diagnostics.InvalidConfiguration{
		Issue: "participant count must be >= 2, got 1",
		Details: map[string]string{
			"participant_count": "1",
		},
	}
	report := f.DiagnosticReport()
	require.Contains(t, report, "CONFIGURATION DETAILS")
	require.Contains(t, report, "participant_count: 1")
}

func TestImpossibleConstraintsReport(t *testing.T) {
	f := &diagnostics.ImpossibleConstraints{
		ParticipantCount: 3,
		Legs:             1,
		Conflicts: []diagnostics.ConflictingConstraint{
			{Name: "MinimumRestPeriodsConstraint", Explanation: "requires 50 rounds of rest but only 3 rounds exist"},
		},
	}
	report := f.DiagnosticReport()
	require.Contains(t, report, "IMPOSSIBLE CONSTRAINTS DIAGNOSTIC REPORT")
	require.Contains(t, report, "total events needed: 3")
	require.Contains(t, report, "MinimumRestPeriodsConstraint")
	require.Contains(t, report, "SUGGESTIONS")
}

func TestIncompleteScheduleReport(t *testing.T) {
	a, _ := model.NewParticipant("a", "", nil)
	b, _ := model.NewParticipant("b", "", nil)
	c, _ := model.NewParticipant("c", "", nil)
	d, _ := model.NewParticipant("d", "", nil)

	collector := violations.NewCollector()
	collector.Record(violations.ConstraintViolation{ConstraintName: "NoRepeatPairings", Reason: "already scheduled", Round: 4, ParticipantIDs: []string{"a", "b"}})
	collector.Record(violations.ConstraintViolation{ConstraintName: "NoRepeatPairings", Reason: "already scheduled", Round: 4, ParticipantIDs: []string{"c", "d"}})

	f := &diagnostics.IncompleteSchedule{
		Expected:     12,
		Actual:       6,
		Collector:    collector,
		Participants: []model.Participant{a, b, c, d},
		Legs:         2,
	}
	report := f.DiagnosticReport()
	require.Contains(t, report, "INCOMPLETE SCHEDULE DIAGNOSTIC REPORT")
	require.Contains(t, report, "expected: 12")
	require.Contains(t, report, "actual: 6")
	require.Contains(t, report, "missing: 6")
	require.Contains(t, report, "NoRepeatPairings: 2 violations")
	require.Contains(t, report, "4 (2)")
}

func TestIncompleteScheduleSuggestsConstraintSpecificRelaxations(t *testing.T) {
	collector := violations.NewCollector()
	collector.Record(violations.ConstraintViolation{ConstraintName: "MinimumRestPeriodsConstraint", Round: 1, ParticipantIDs: []string{"a", "b"}})
	collector.Record(violations.ConstraintViolation{ConstraintName: "ConsecutiveRoleConstraint", Round: 2, ParticipantIDs: []string{"a", "c"}})

	f := &diagnostics.IncompleteSchedule{Expected: 10, Actual: 8, Collector: collector, Legs: 1}
	report := f.DiagnosticReport()
	require.Contains(t, report, "raise the ConsecutiveRoleConstraint limit")
	require.Contains(t, report, "lower the MinimumRestPeriodsConstraint minimum")
}
