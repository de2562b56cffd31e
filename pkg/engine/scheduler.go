// Package engine is the scheduling engine's public façade: it binds
// participants to the round-robin generator, resolves defaults, compares
// the produced event count to the expected count, and surfaces the
// typed diagnostics.Failure taxonomy on anything short of success.
package engine

import (
	"fmt"

	"github.com/mission-gaming/tactician-sub000/pkg/constraints"
	"github.com/mission-gaming/tactician-sub000/pkg/diagnostics"
	"github.com/mission-gaming/tactician-sub000/pkg/legstrategy"
	"github.com/mission-gaming/tactician-sub000/pkg/model"
	"github.com/mission-gaming/tactician-sub000/pkg/orderer"
	"github.com/mission-gaming/tactician-sub000/pkg/positional"
	"github.com/mission-gaming/tactician-sub000/pkg/rngsrc"
	"github.com/mission-gaming/tactician-sub000/pkg/roundrobin"
	"github.com/mission-gaming/tactician-sub000/pkg/violations"
)

// Scheduler is the common interface a tournament scheduling algorithm
// implements. RoundRobinScheduler is the only implementation; the
// interface exists so that a future standings-aware algorithm (Swiss)
// can share the same façade.
type Scheduler interface {
	// GenerateStructure returns the positional round-robin structure for
	// n positions, independent of participants, constraints, or
	// randomness.
	GenerateStructure(n int) (*positional.Schedule, error)

	// GenerateSchedule produces a complete multi-leg schedule, or a
	// diagnostics.Failure describing why it could not.
	GenerateSchedule(participants []model.Participant, opts ...Option) (*model.Schedule, error)

	// GenerateRound produces the accepted events of a single global round
	// number, threading a caller-maintained context across calls.
	GenerateRound(participants []model.Participant, roundNumber int, ctx *model.SchedulingContext, collector *violations.Collector, opts ...Option) ([]model.Event, error)

	// SupportsCompleteGeneration reports whether GenerateSchedule is
	// available for this scheduler instance.
	SupportsCompleteGeneration() bool
}

// genState models the per-generation-call state machine: INIT -> BOUND
// (participants validated, positions bound) -> GENERATING (one round at a
// time) -> COMPLETE | INCOMPLETE.
type genState int

const (
	genInit genState = iota
	genBound
	genGenerating
	genComplete
	genIncomplete
)

func (s genState) String() string {
	switch s {
	case genInit:
		return "INIT"
	case genBound:
		return "BOUND"
	case genGenerating:
		return "GENERATING"
	case genComplete:
		return "COMPLETE"
	case genIncomplete:
		return "INCOMPLETE"
	default:
		return "UNKNOWN"
	}
}

// Option configures a single generation call, mirroring
// roundrobin.Options as a set of chainable functional options.
type Option func(*roundrobin.Options)

// WithLegs sets the number of legs. Default: 1.
func WithLegs(legs int) Option {
	return func(o *roundrobin.Options) { o.Legs = legs }
}

// WithLegStrategy sets the leg-composition strategy. Default: Repeated.
func WithLegStrategy(strategy legstrategy.Strategy) Option {
	return func(o *roundrobin.Options) { o.LegStrategy = strategy }
}

// WithOrderer sets the participant orderer. Default: Static.
func WithOrderer(ord orderer.Orderer) Option {
	return func(o *roundrobin.Options) { o.Orderer = ord }
}

// WithConstraints sets the constraint set. Default: empty.
func WithConstraints(set *constraints.Set) Option {
	return func(o *roundrobin.Options) { o.Constraints = set }
}

// WithSource sets the random source used for position-binding shuffles and
// Shuffled leg composition. It is not passed to the orderer: a SeededRandom
// orderer draws from the source it was constructed with.
func WithSource(src rngsrc.Source) Option {
	return func(o *roundrobin.Options) { o.Source = src }
}

// WithExplicitOrder pins position binding to the caller-supplied
// participant order, even when a random source is also configured.
func WithExplicitOrder() Option {
	return func(o *roundrobin.Options) { o.ExplicitOrder = true }
}

// RoundRobinScheduler is the engine's sole Scheduler implementation. A
// RoundRobinScheduler value is not safe for concurrent use across
// generation calls — like rngsrc.DeterministicSource, each concurrent run
// should hold its own instance.
type RoundRobinScheduler struct {
	state genState
}

// NewRoundRobinScheduler constructs a ready-to-use scheduler.
func NewRoundRobinScheduler() *RoundRobinScheduler {
	return &RoundRobinScheduler{state: genInit}
}

// LastState reports the state the most recent generation call finished
// in, for tests and diagnostics.
func (s *RoundRobinScheduler) LastState() string { return s.state.String() }

// SupportsCompleteGeneration implements Scheduler.
func (s *RoundRobinScheduler) SupportsCompleteGeneration() bool { return true }

// GenerateStructure implements Scheduler.
func (s *RoundRobinScheduler) GenerateStructure(n int) (*positional.Schedule, error) {
	return positional.Generate(n)
}

// GenerateSchedule implements Scheduler.
func (s *RoundRobinScheduler) GenerateSchedule(participants []model.Participant, opts ...Option) (*model.Schedule, error) {
	s.state = genInit

	if err := validateParticipants(participants); err != nil {
		return nil, err
	}

	resolved := roundrobin.Options{Legs: 1}
	for _, opt := range opts {
		opt(&resolved)
	}
	if resolved.Legs < 1 {
		s.state = genInit
		return nil, &diagnostics.InvalidConfiguration{
			Issue: fmt.Sprintf("legs must be >= 1, got %d", resolved.Legs),
			Details: map[string]string{
				"legs":              fmt.Sprintf("%d", resolved.Legs),
				"participant_count": fmt.Sprintf("%d", len(participants)),
			},
		}
	}

	if failure := Precheck(participants, resolved); failure != nil {
		return nil, failure
	}

	s.state = genBound
	s.state = genGenerating

	events, _, collector, err := roundrobin.GenerateSchedule(participants, resolved)
	if err != nil {
		s.state = genInit
		return nil, &diagnostics.InvalidConfiguration{
			Issue: err.Error(),
			Details: map[string]string{
				"participant_count": fmt.Sprintf("%d", len(participants)),
				"legs":              fmt.Sprintf("%d", resolved.Legs),
			},
		}
	}

	expected := roundrobin.ExpectedRoundRobinEvents(len(participants), resolved.Legs)
	actual := len(events)
	metadata := model.Metadata{
		"algorithm":         model.StringValue("circle-method round-robin"),
		"participant_count": model.IntValue(int64(len(participants))),
		"legs":              model.IntValue(int64(resolved.Legs)),
		"rounds_per_leg":    model.IntValue(int64(roundrobin.RoundsPerLeg(len(participants)))),
		"total_rounds":      model.IntValue(int64(roundrobin.RoundsPerLeg(len(participants)) * resolved.Legs)),
		"events_per_round":  model.IntValue(int64(roundrobin.EventsPerRound(len(participants)))),
	}
	schedule := model.NewSchedule(events, metadata)

	if actual != expected {
		s.state = genIncomplete
		return nil, &diagnostics.IncompleteSchedule{
			Expected:     expected,
			Actual:       actual,
			Collector:    collector,
			Participants: participants,
			Legs:         resolved.Legs,
		}
	}

	s.state = genComplete
	return schedule, nil
}

// GenerateRound implements Scheduler.
func (s *RoundRobinScheduler) GenerateRound(participants []model.Participant, roundNumber int, ctx *model.SchedulingContext, collector *violations.Collector, opts ...Option) ([]model.Event, error) {
	if err := validateParticipants(participants); err != nil {
		return nil, err
	}
	resolved := roundrobin.Options{Legs: 1}
	for _, opt := range opts {
		opt(&resolved)
	}
	s.state = genGenerating
	events, err := roundrobin.GenerateRound(participants, roundNumber, ctx, collector, resolved)
	if err != nil {
		s.state = genInit
		return nil, &diagnostics.InvalidConfiguration{
			Issue: err.Error(),
			Details: map[string]string{
				"round_number":      fmt.Sprintf("%d", roundNumber),
				"participant_count": fmt.Sprintf("%d", len(participants)),
			},
		}
	}
	return events, nil
}

// validateParticipants enforces the InvalidConfiguration entry checks that
// are independent of any particular constraint.
func validateParticipants(participants []model.Participant) error {
	if len(participants) < 2 {
		return &diagnostics.InvalidConfiguration{
			Issue:   fmt.Sprintf("participant count must be >= 2, got %d", len(participants)),
			Details: map[string]string{"participant_count": fmt.Sprintf("%d", len(participants))},
		}
	}
	seen := make(map[string]struct{}, len(participants))
	for _, p := range participants {
		if _, dup := seen[p.ID()]; dup {
			return &diagnostics.InvalidConfiguration{
				Issue: fmt.Sprintf("duplicate participant id %q", p.ID()),
				Details: map[string]string{
					"duplicate_id":      p.ID(),
					"participant_count": fmt.Sprintf("%d", len(participants)),
				},
			}
		}
		seen[p.ID()] = struct{}{}
	}
	return nil
}
