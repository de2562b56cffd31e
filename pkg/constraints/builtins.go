package constraints

import (
	"fmt"
	"math"

	"github.com/mission-gaming/tactician-sub000/pkg/model"
)

// NoRepeatPairingsConstraint rejects a candidate if the unordered set of
// participant ids it carries already appears in any event committed so
// far.
type NoRepeatPairingsConstraint struct{}

// NoRepeatPairings appends a NoRepeatPairingsConstraint to the builder.
func (b *Builder) NoRepeatPairings() *Builder {
	return b.Add(&NoRepeatPairingsConstraint{})
}

// Name implements Constraint.
func (c *NoRepeatPairingsConstraint) Name() string { return "NoRepeatPairings" }

// IsSatisfied implements Constraint.
func (c *NoRepeatPairingsConstraint) IsSatisfied(candidate model.Event, ctx *model.SchedulingContext) (bool, string) {
	if ctx.HasUnorderedPairing(candidate.UnorderedKey()) {
		return false, "this unordered pairing has already been scheduled"
	}
	return true, ""
}

// MinimumRestPeriodsConstraint requires that, for every participant in the
// candidate, the candidate's round number minus the greatest round number
// of any of that participant's prior events exceeds k — i.e. at least k
// rounds of rest between games.
type MinimumRestPeriodsConstraint struct {
	k int
}

// MinimumRestPeriods appends a MinimumRestPeriodsConstraint to the
// builder. k must be >= 1.
func (b *Builder) MinimumRestPeriods(k int) *Builder {
	c, err := NewMinimumRestPeriodsConstraint(k)
	return b.addOrRecord(c, err)
}

// NewMinimumRestPeriodsConstraint validates k and constructs the
// constraint. Invalid k surfaces as an error so callers (and the engine's
// InvalidConfiguration path) can report it instead of crashing.
func NewMinimumRestPeriodsConstraint(k int) (*MinimumRestPeriodsConstraint, error) {
	if k < 1 {
		return nil, fmt.Errorf("constraints: MinimumRestPeriods k must be >= 1, got %d", k)
	}
	return &MinimumRestPeriodsConstraint{k: k}, nil
}

// Name implements Constraint.
func (c *MinimumRestPeriodsConstraint) Name() string { return "MinimumRestPeriodsConstraint" }

// MinimumRest returns the configured minimum rest period, consulted by the
// diagnostic subsystem when suggesting relaxations.
func (c *MinimumRestPeriodsConstraint) MinimumRest() int { return c.k }

// IsSatisfied implements Constraint.
func (c *MinimumRestPeriodsConstraint) IsSatisfied(candidate model.Event, ctx *model.SchedulingContext) (bool, string) {
	round, ok := candidate.Round()
	if !ok {
		return true, ""
	}
	for _, p := range candidate.Participants() {
		last, had := ctx.LastRoundFor(p.ID())
		if !had {
			continue
		}
		if round-last <= c.k {
			return false, fmt.Sprintf("participant %q last played round %d, no more than %d rounds ago", p.ID(), last, c.k)
		}
	}
	return true, ""
}

// SeedProtectionConstraint rejects any candidate, within the early
// fraction of the tournament, pairing two participants whose seeds are
// both within the top-N band. The round cutoff is
// ceil(fraction * totalRounds).
type SeedProtectionConstraint struct {
	topN           int
	fraction       float64
	totalRounds    int
	totalRoundsSet bool
}

// SeedProtection appends a SeedProtectionConstraint to the builder. topN
// must be >= 1 and fraction must be in (0, 1].
func (b *Builder) SeedProtection(topN int, fraction float64) *Builder {
	c, err := NewSeedProtectionConstraint(topN, fraction)
	return b.addOrRecord(c, err)
}

// NewSeedProtectionConstraint validates its arguments and constructs the
// constraint.
func NewSeedProtectionConstraint(topN int, fraction float64) (*SeedProtectionConstraint, error) {
	if topN < 1 {
		return nil, fmt.Errorf("constraints: SeedProtection topN must be >= 1, got %d", topN)
	}
	if fraction <= 0 || fraction > 1 {
		return nil, fmt.Errorf("constraints: SeedProtection fraction must be in (0, 1], got %g", fraction)
	}
	return &SeedProtectionConstraint{topN: topN, fraction: fraction}, nil
}

// TopN returns the configured seed band, consulted by diagnostics.
func (c *SeedProtectionConstraint) TopN() int { return c.topN }

// Fraction returns the configured protected-rounds fraction.
func (c *SeedProtectionConstraint) Fraction() float64 { return c.fraction }

func (c *SeedProtectionConstraint) bindTotalRounds(totalRounds int) {
	c.totalRounds = totalRounds
	c.totalRoundsSet = true
}

// protectedRounds returns the last round number still under seed
// protection, rounded away from zero (ceiling).
func (c *SeedProtectionConstraint) protectedRounds() int {
	return int(math.Ceil(c.fraction * float64(c.totalRounds)))
}

// Name implements Constraint.
func (c *SeedProtectionConstraint) Name() string { return "SeedProtectionConstraint" }

// IsSatisfied implements Constraint.
func (c *SeedProtectionConstraint) IsSatisfied(candidate model.Event, ctx *model.SchedulingContext) (bool, string) {
	if !c.totalRoundsSet {
		return true, ""
	}
	round, ok := candidate.Round()
	if !ok || round > c.protectedRounds() {
		return true, ""
	}
	protectedCount := 0
	for _, p := range candidate.Participants() {
		seed, has := p.Seed()
		if has && seed <= c.topN {
			protectedCount++
		}
	}
	if protectedCount >= 2 {
		return false, fmt.Sprintf("round %d is within the protected window (1..%d); both participants are seeded <= %d", round, c.protectedRounds(), c.topN)
	}
	return true, ""
}

// RoleKind distinguishes which notion of "role" ConsecutiveRoleConstraint
// tracks.
type RoleKind int

const (
	// HomeAwayRole tracks the binary home/away role (event index 0 vs 1).
	HomeAwayRole RoleKind = iota
	// PositionRole tracks the participant's raw event-index position,
	// generalizing beyond two-participant events.
	PositionRole
)

// ConsecutiveRoleConstraint rejects a candidate that would extend a
// participant's run of most-recent consecutive events occupying the same
// role slot beyond limit.
type ConsecutiveRoleConstraint struct {
	limit int
	kind  RoleKind
}

// ConsecutiveRole appends a ConsecutiveRoleConstraint to the builder.
// limit must be >= 1.
func (b *Builder) ConsecutiveRole(limit int, kind RoleKind) *Builder {
	c, err := NewConsecutiveRoleConstraint(limit, kind)
	return b.addOrRecord(c, err)
}

// NewConsecutiveRoleConstraint validates its arguments and constructs the
// constraint.
func NewConsecutiveRoleConstraint(limit int, kind RoleKind) (*ConsecutiveRoleConstraint, error) {
	if limit < 1 {
		return nil, fmt.Errorf("constraints: ConsecutiveRole limit must be >= 1, got %d", limit)
	}
	return &ConsecutiveRoleConstraint{limit: limit, kind: kind}, nil
}

// Limit returns the configured run limit, consulted by diagnostics.
func (c *ConsecutiveRoleConstraint) Limit() int { return c.limit }

// Name implements Constraint.
func (c *ConsecutiveRoleConstraint) Name() string { return "ConsecutiveRoleConstraint" }

// IsSatisfied implements Constraint.
func (c *ConsecutiveRoleConstraint) IsSatisfied(candidate model.Event, ctx *model.SchedulingContext) (bool, string) {
	for roleIndex, p := range candidate.Participants() {
		if c.kind == HomeAwayRole && roleIndex > 1 {
			continue
		}
		run := c.currentRun(ctx, p.ID(), roleIndex)
		if run+1 > c.limit {
			return false, fmt.Sprintf("participant %q would extend a run of %d consecutive events in role %d beyond the limit of %d", p.ID(), run, roleIndex, c.limit)
		}
	}
	return true, ""
}

// currentRun counts the participant's most-recent consecutive events
// (by commit order) occupying roleIndex, stopping at the first event
// (scanning backward) where they occupied a different role.
func (c *ConsecutiveRoleConstraint) currentRun(ctx *model.SchedulingContext, participantID string, roleIndex int) int {
	events := ctx.EventsFor(participantID)
	run := 0
	for i := len(events) - 1; i >= 0; i-- {
		ev := events[i]
		matched := false
		for idx, p := range ev.Participants() {
			if p.ID() != participantID {
				continue
			}
			if idx == roleIndex {
				matched = true
			}
			break
		}
		if !matched {
			break
		}
		run++
	}
	return run
}
