// Package diagnostics implements the engine's typed failure taxonomy:
// InvalidConfiguration for entry-point misuse, ImpossibleConstraints for
// statically provable infeasibility, and IncompleteSchedule for a run
// that finished short of the expected event count. Each renders a
// section-by-section textual report via strings.Builder.
package diagnostics

import (
	"fmt"
	"sort"
	"strings"

	"github.com/mission-gaming/tactician-sub000/pkg/model"
	"github.com/mission-gaming/tactician-sub000/pkg/violations"
)

// Failure is the common interface implemented by every diagnostic
// failure type: an error plus a stable, structured textual report.
type Failure interface {
	error
	DiagnosticReport() string
}

// InvalidConfiguration covers misuses at the entry point: participant
// count < 2, duplicate participant ids, non-positive legs, or a
// constraint whose constructor arguments were themselves invalid. Details
// carries the offending configuration values (e.g. "participant_count":
// "1") so the report can echo them instead of just the free-text Issue.
type InvalidConfiguration struct {
	Issue   string
	Details map[string]string
}

// Error implements error.
func (f *InvalidConfiguration) Error() string {
	return fmt.Sprintf("diagnostics: invalid configuration: %s", f.Issue)
}

// DiagnosticReport implements Failure.
func (f *InvalidConfiguration) DiagnosticReport() string {
	var b strings.Builder
	b.WriteString("INVALID CONFIGURATION DIAGNOSTIC REPORT\n\n")
	b.WriteString("Issue: " + f.Issue + "\n\n")

	b.WriteString("CONFIGURATION DETAILS\n")
	if len(f.Details) == 0 {
		b.WriteString("  (none supplied)\n")
	} else {
		keys := make([]string, 0, len(f.Details))
		for k := range f.Details {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			b.WriteString(fmt.Sprintf("  %s: %s\n", k, f.Details[k]))
		}
	}

	b.WriteString("\nREQUIREMENTS\n")
	b.WriteString("  - participant count must be >= 2\n")
	b.WriteString("  - participant ids must be unique\n")
	b.WriteString("  - legs must be a positive integer\n")
	b.WriteString("  - every constraint's constructor arguments must satisfy its own preconditions\n")
	return b.String()
}

// ConflictingConstraint names one constraint contributing to a
// statically-provable infeasibility, alongside a short explanation.
type ConflictingConstraint struct {
	Name        string
	Explanation string
}

// ImpossibleConstraints is raised when pre-generation analysis proves
// that no complete schedule can satisfy the supplied constraints for the
// given participant count and leg count — e.g. a minimum rest period that
// exceeds the number of available rounds.
type ImpossibleConstraints struct {
	ParticipantCount int
	Legs             int
	Conflicts        []ConflictingConstraint
}

// Error implements error.
func (f *ImpossibleConstraints) Error() string {
	return fmt.Sprintf("diagnostics: constraints cannot be satisfied for %d participants, %d legs", f.ParticipantCount, f.Legs)
}

// DiagnosticReport implements Failure.
func (f *ImpossibleConstraints) DiagnosticReport() string {
	var b strings.Builder
	b.WriteString("IMPOSSIBLE CONSTRAINTS DIAGNOSTIC REPORT\n\n")
	b.WriteString("MATHEMATICAL ANALYSIS\n")
	totalEvents := f.Legs * f.ParticipantCount * (f.ParticipantCount - 1) / 2
	b.WriteString(fmt.Sprintf("  participants: %d\n", f.ParticipantCount))
	b.WriteString(fmt.Sprintf("  legs: %d\n", f.Legs))
	b.WriteString(fmt.Sprintf("  total events needed: %d\n", totalEvents))
	b.WriteString("\nPER-CONSTRAINT ANALYSIS\n")
	for _, c := range f.Conflicts {
		b.WriteString(fmt.Sprintf("  %s: %s\n", c.Name, c.Explanation))
	}
	b.WriteString("\nSUGGESTIONS\n")
	b.WriteString("  - add participants\n")
	b.WriteString("  - add legs\n")
	b.WriteString("  - relax the conflicting constraints\n")
	return b.String()
}

// IncompleteSchedule is raised when a generation run finishes with fewer
// committed events than expected. It carries everything needed to
// diagnose why: the expected/actual counts, the full violation collector,
// the participant roster, and the leg count.
type IncompleteSchedule struct {
	Expected     int
	Actual       int
	Collector    *violations.Collector
	Participants []model.Participant
	Legs         int
}

// Error implements error.
func (f *IncompleteSchedule) Error() string {
	return fmt.Sprintf("diagnostics: incomplete schedule: expected %d events, got %d", f.Expected, f.Actual)
}

// DiagnosticReport implements Failure. Section order is fixed: header,
// summary, violations (one block per distinct constraint name, its count,
// its top-three most-affected participants, and its affected rounds as
// "round (count)" entries), then suggestions.
func (f *IncompleteSchedule) DiagnosticReport() string {
	var b strings.Builder
	b.WriteString("INCOMPLETE SCHEDULE DIAGNOSTIC REPORT\n\n")

	b.WriteString("SUMMARY\n")
	b.WriteString(fmt.Sprintf("  expected: %d\n", f.Expected))
	b.WriteString(fmt.Sprintf("  actual: %d\n", f.Actual))
	b.WriteString(fmt.Sprintf("  missing: %d\n", f.Expected-f.Actual))
	b.WriteString(fmt.Sprintf("  participants: %d\n", len(f.Participants)))
	b.WriteString(fmt.Sprintf("  legs: %d\n", f.Legs))
	b.WriteString("  algorithm: circle-method round-robin\n")

	b.WriteString("\nCONSTRAINT VIOLATIONS\n")
	byName := f.Collector.ByConstraintName()
	byRounds := f.Collector.AffectedRoundsByConstraint()
	names := make([]string, 0, len(byName))
	for name := range byName {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		viols := byName[name]
		b.WriteString(fmt.Sprintf("%s: %d violations\n", name, len(viols)))

		top := f.Collector.TopParticipants(name, 3)
		if len(top) > 0 {
			b.WriteString("  most affected: " + strings.Join(top, ", ") + "\n")
		}

		rounds := byRounds[name]
		parts := make([]string, 0, len(rounds))
		for _, rc := range rounds {
			parts = append(parts, fmt.Sprintf("%d (%d)", rc.Round, rc.Count))
		}
		b.WriteString("  affected rounds: " + strings.Join(parts, ", ") + "\n")
	}

	b.WriteString("\nSUGGESTIONS\n")
	if _, has := byName["ConsecutiveRoleConstraint"]; has {
		b.WriteString("  - raise the ConsecutiveRoleConstraint limit\n")
	}
	if _, has := byName["MinimumRestPeriodsConstraint"]; has {
		b.WriteString("  - lower the MinimumRestPeriodsConstraint minimum\n")
	}
	b.WriteString("  - add participants\n")
	b.WriteString("  - add legs\n")
	b.WriteString("  - relax constraints\n")

	return b.String()
}
