package engine

import (
	"fmt"

	"github.com/mission-gaming/tactician-sub000/pkg/constraints"
	"github.com/mission-gaming/tactician-sub000/pkg/diagnostics"
	"github.com/mission-gaming/tactician-sub000/pkg/model"
	"github.com/mission-gaming/tactician-sub000/pkg/roundrobin"
)

// Precheck performs statically-provable infeasibility analysis before
// generation starts: a bound constraint whose own parameters rule out any
// possible schedule (e.g. a minimum rest period that exceeds the total
// number of rounds) is reported as
// diagnostics.ImpossibleConstraints instead of being discovered the slow
// way, round by rejected round. Precheck is necessary-condition analysis,
// not a solver: it catches what it can prove, and lets generation proceed
// whenever it cannot.
func Precheck(participants []model.Participant, opts roundrobin.Options) *diagnostics.ImpossibleConstraints {
	if opts.Constraints == nil || len(participants) == 0 {
		return nil
	}

	legs := opts.Legs
	if legs < 1 {
		legs = 1
	}
	roundsPerLeg := roundrobin.RoundsPerLeg(len(participants))
	totalRounds := roundsPerLeg * legs
	// With a single event per participant no rest period is ever checked.
	if (len(participants)-1)*legs < 2 {
		return nil
	}

	var conflicts []diagnostics.ConflictingConstraint
	for _, c := range opts.Constraints.Constraints() {
		if mr, ok := c.(*constraints.MinimumRestPeriodsConstraint); ok {
			k := mr.MinimumRest()
			if k >= totalRounds {
				conflicts = append(conflicts, diagnostics.ConflictingConstraint{
					Name: mr.Name(),
					Explanation: fmt.Sprintf(
						"requires %d rounds of rest between a participant's events but only %d rounds exist in total",
						k, totalRounds,
					),
				})
			}
		}
	}

	if len(conflicts) == 0 {
		return nil
	}
	return &diagnostics.ImpossibleConstraints{
		ParticipantCount: len(participants),
		Legs:             legs,
		Conflicts:        conflicts,
	}
}
