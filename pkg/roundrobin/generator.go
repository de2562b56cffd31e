// Package roundrobin implements the constraint-driven round-robin
// generator: it binds participants to the positional structure, assigns
// roles via a pluggable Orderer, evaluates each candidate against a
// constraint Set, and stitches additional legs together via a pluggable
// legstrategy.Strategy. Generation is a single greedy pass with no
// backtracking; rejected candidates are recorded into a
// violations.Collector rather than retried.
package roundrobin

import (
	"fmt"

	"github.com/mission-gaming/tactician-sub000/pkg/constraints"
	"github.com/mission-gaming/tactician-sub000/pkg/legstrategy"
	"github.com/mission-gaming/tactician-sub000/pkg/model"
	"github.com/mission-gaming/tactician-sub000/pkg/orderer"
	"github.com/mission-gaming/tactician-sub000/pkg/positional"
	"github.com/mission-gaming/tactician-sub000/pkg/rngsrc"
	"github.com/mission-gaming/tactician-sub000/pkg/violations"
)

// Options configures a generation run. Zero values for LegStrategy,
// Orderer, and Constraints fall back to Repeated, Static, and an empty
// constraint set respectively.
type Options struct {
	Legs          int
	LegStrategy   legstrategy.Strategy
	Orderer       orderer.Orderer
	Constraints   *constraints.Set
	Source        rngsrc.Source
	ExplicitOrder bool
}

func (o Options) resolve() (Options, error) {
	if o.Legs < 1 {
		return o, fmt.Errorf("roundrobin: legs must be >= 1, got %d", o.Legs)
	}
	if o.LegStrategy == nil {
		o.LegStrategy = legstrategy.Repeated{}
	}
	if o.Orderer == nil {
		o.Orderer = orderer.Static{}
	}
	if o.Constraints == nil {
		empty, err := constraints.NewBuilder().Build()
		if err != nil {
			return o, err
		}
		o.Constraints = empty
	}
	return o, nil
}

// BindPositions produces the caller-order-to-position binding the
// generator pairs against positional structure slots. If explicitOrder is
// true, participants are used exactly as supplied. Otherwise, if src is
// non-nil, a deterministic shuffle (keyed "participant-binding") is
// applied; with no source and no explicit order, the supplied order is
// kept as-is.
func BindPositions(participants []model.Participant, explicitOrder bool, src rngsrc.Source) []model.Participant {
	if explicitOrder || src == nil {
		cp := make([]model.Participant, len(participants))
		copy(cp, participants)
		return cp
	}
	perm := src.Sub("participant-binding").Permute(len(participants))
	bound := make([]model.Participant, len(participants))
	for i, p := range perm {
		bound[i] = participants[p]
	}
	return bound
}

// GenerateSchedule runs the full multi-leg generation, committing accepted
// events into a fresh SchedulingContext and recording rejections into a
// fresh Collector. It does not itself raise IncompleteSchedule — callers
// (the engine façade) compare the returned schedule's event count to
// ExpectedRoundRobinEvents and raise diagnostics accordingly.
func GenerateSchedule(participants []model.Participant, opts Options) ([]model.Event, *model.SchedulingContext, *violations.Collector, error) {
	if len(participants) < 2 {
		return nil, nil, nil, fmt.Errorf("roundrobin: need at least 2 participants, got %d", len(participants))
	}
	resolved, err := opts.resolve()
	if err != nil {
		return nil, nil, nil, err
	}

	n := len(participants)
	structure, err := positional.Generate(n)
	if err != nil {
		return nil, nil, nil, err
	}
	roundsPerLeg := structure.RoundCount()
	totalRounds := roundsPerLeg * resolved.Legs
	resolved.Constraints.BindTotalRounds(totalRounds)

	bound := BindPositions(participants, resolved.ExplicitOrder, resolved.Source)
	ctx := model.NewSchedulingContext(participants)
	collector := violations.NewCollector()

	var schedule []model.Event

	leg1Accepted, err := generateLeg1(structure, bound, resolved, ctx, collector)
	if err != nil {
		return nil, nil, nil, err
	}
	schedule = append(schedule, leg1Accepted...)

	for leg := 2; leg <= resolved.Legs; leg++ {
		transformed, err := resolved.LegStrategy.TransformLeg(leg1Accepted, leg, resolved.Source)
		if err != nil {
			return nil, nil, nil, err
		}
		accepted := evaluateAndCommit(transformed, resolved.Constraints, ctx, collector)
		schedule = append(schedule, accepted...)
	}

	return schedule, ctx, collector, nil
}

// GenerateRound produces the accepted events of a single global round
// number, against a caller-maintained context that must already hold
// every event committed for rounds strictly before roundNumber. For
// round-robin the round's contents are fully determined by the positional
// structure; the per-round entry point exists so a common interface can
// also cover future standings-aware schedulers.
func GenerateRound(participants []model.Participant, roundNumber int, ctx *model.SchedulingContext, collector *violations.Collector, opts Options) ([]model.Event, error) {
	if len(participants) < 2 {
		return nil, fmt.Errorf("roundrobin: need at least 2 participants, got %d", len(participants))
	}
	resolved, err := opts.resolve()
	if err != nil {
		return nil, err
	}

	n := len(participants)
	structure, err := positional.Generate(n)
	if err != nil {
		return nil, err
	}
	roundsPerLeg := structure.RoundCount()
	totalRounds := roundsPerLeg * resolved.Legs
	if roundNumber < 1 || roundNumber > totalRounds {
		return nil, fmt.Errorf("roundrobin: round %d out of range 1..%d", roundNumber, totalRounds)
	}
	resolved.Constraints.BindTotalRounds(totalRounds)

	legNumber := (roundNumber-1)/roundsPerLeg + 1
	withinLegRound := (roundNumber-1)%roundsPerLeg + 1
	bound := BindPositions(participants, resolved.ExplicitOrder, resolved.Source)

	if legNumber == 1 {
		positionalRound := structure.Rounds()[withinLegRound-1]
		candidates, err := buildRoundCandidates(positionalRound, bound, roundNumber, resolved.Orderer, ctx)
		if err != nil {
			return nil, err
		}
		return evaluateAndCommit(candidates, resolved.Constraints, ctx, collector), nil
	}

	leg1Events := make([]model.Event, 0, roundsPerLeg)
	for _, e := range ctx.Events() {
		if r, ok := e.Round(); ok && r >= 1 && r <= roundsPerLeg {
			leg1Events = append(leg1Events, e)
		}
	}
	transformed, err := resolved.LegStrategy.TransformLeg(leg1Events, legNumber, resolved.Source)
	if err != nil {
		return nil, err
	}
	var thisRound []model.Event
	for _, e := range transformed {
		if r, ok := e.Round(); ok && r == roundNumber {
			thisRound = append(thisRound, e)
		}
	}
	return evaluateAndCommit(thisRound, resolved.Constraints, ctx, collector), nil
}

// generateLeg1 builds and commits every round of the base leg in order,
// consulting the orderer and constraint set for every candidate.
func generateLeg1(structure *positional.Schedule, bound []model.Participant, opts Options, ctx *model.SchedulingContext, collector *violations.Collector) ([]model.Event, error) {
	var accepted []model.Event
	for _, round := range structure.Rounds() {
		candidates, err := buildRoundCandidates(round, bound, round.Number, opts.Orderer, ctx)
		if err != nil {
			return nil, err
		}
		accepted = append(accepted, evaluateAndCommit(candidates, opts.Constraints, ctx, collector)...)
	}
	return accepted, nil
}

// buildRoundCandidates binds positional pairings to participants for a
// single round and asks the orderer to assign roles, skipping the bye
// slot. candidateIndex (the pairing's index within the round) is passed
// through to the orderer for strategies like Alternating/SeededRandom
// that key on it.
func buildRoundCandidates(round positional.Round, bound []model.Participant, roundNumber int, ord orderer.Orderer, ctx *model.SchedulingContext) ([]model.Event, error) {
	candidates := make([]model.Event, 0, len(round.Pairings))
	candidateIndex := 0
	for _, pairing := range round.Pairings {
		if pairing.HasBye() {
			continue
		}
		unordered := []model.Participant{bound[pairing.First-1], bound[pairing.Second-1]}
		ordered := ord.Order(unordered, roundNumber, candidateIndex, ctx)
		candidateIndex++
		e, err := model.NewEvent(ordered, roundNumber, nil)
		if err != nil {
			return nil, err
		}
		candidates = append(candidates, e)
	}
	return candidates, nil
}

// evaluateAndCommit runs each candidate through the constraint set in
// order, committing accepted events into ctx and recording rejections
// into collector. It returns the accepted events, in evaluation order.
func evaluateAndCommit(candidates []model.Event, cset *constraints.Set, ctx *model.SchedulingContext, collector *violations.Collector) []model.Event {
	accepted := make([]model.Event, 0, len(candidates))
	for _, candidate := range candidates {
		ok, failed, reason := cset.Evaluate(candidate, ctx)
		if ok {
			ctx.Commit(candidate)
			accepted = append(accepted, candidate)
			continue
		}
		round, _ := candidate.Round()
		ids := make([]string, 0, candidate.Arity())
		for _, p := range candidate.Participants() {
			ids = append(ids, p.ID())
		}
		collector.Record(violations.ConstraintViolation{
			ConstraintName: failed.Name(),
			Reason:         reason,
			Round:          round,
			ParticipantIDs: ids,
		})
	}
	return accepted
}
