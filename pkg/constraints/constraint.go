// Package constraints implements the engine's pluggable constraint
// pipeline: a Constraint predicate over (candidate Event, SchedulingContext),
// composed into an ordered, short-circuited Set built via a fluent Builder.
package constraints

import (
	"errors"
	"fmt"

	"github.com/mission-gaming/tactician-sub000/pkg/model"
)

// Constraint is a predicate over a candidate Event and the scheduling
// context accumulated so far. It reports whether the candidate is
// satisfied and, when it is not, a short human-readable reason. Every
// constraint exposes a stable Name used by the violation collector and the
// diagnostic report.
type Constraint interface {
	Name() string
	IsSatisfied(candidate model.Event, ctx *model.SchedulingContext) (bool, string)
}

// totalRoundsAware is implemented by constraints whose semantics depend on
// the total round count of the run (SeedProtection), which is not known
// until the generator has computed it. This is a capability-query style
// of introspection via an optional interface, rather than runtime
// reflection.
type totalRoundsAware interface {
	bindTotalRounds(totalRounds int)
}

// Set is an ordered, short-circuited composition of constraints: the
// candidate is rejected as soon as one constraint reports not-satisfied.
// Short-circuit ordering only affects performance — the final committed
// event satisfies every constraint in the set regardless of order.
type Set struct {
	constraints []Constraint
}

// Constraints returns the ordered constraint list. The returned slice is a
// defensive copy.
func (s *Set) Constraints() []Constraint {
	cp := make([]Constraint, len(s.constraints))
	copy(cp, s.constraints)
	return cp
}

// Len returns the number of constraints in the set.
func (s *Set) Len() int { return len(s.constraints) }

// Evaluate runs every constraint in order against the candidate, stopping
// at the first one reporting not-satisfied. It returns true with a nil
// failing constraint on success, or false with the failing constraint and
// its reason on rejection.
func (s *Set) Evaluate(candidate model.Event, ctx *model.SchedulingContext) (ok bool, failed Constraint, reason string) {
	for _, c := range s.constraints {
		satisfied, why := c.IsSatisfied(candidate, ctx)
		if !satisfied {
			return false, c, why
		}
	}
	return true, nil, ""
}

// BindTotalRounds informs every total-rounds-aware constraint in the set
// (currently only SeedProtection) of the run's total round count. The
// engine calls this once, after the round-robin generator has computed
// rounds-per-leg * legs, and before generation begins.
func (s *Set) BindTotalRounds(totalRounds int) {
	for _, c := range s.constraints {
		if aware, ok := c.(totalRoundsAware); ok {
			aware.bindTotalRounds(totalRounds)
		}
	}
}

// Builder assembles a Set via chainable method calls. It is append-only;
// each shortcut method validates its own arguments immediately and, on
// invalid input, records the error instead of panicking — construction
// errors are a caller mistake (InvalidConfiguration territory), not a
// programming invariant violation. Build() surfaces every recorded error,
// joined, if any, and otherwise takes an immutable snapshot of the
// constraints appended so far; multiple Build() calls on a Builder that
// has since had more constraints appended each yield an independent Set.
type Builder struct {
	constraints []Constraint
	errs        []error
}

// NewBuilder creates an empty Builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// Add appends an arbitrary Constraint to the builder. Built-in shortcut
// methods below are convenience wrappers around Add.
func (b *Builder) Add(c Constraint) *Builder {
	b.constraints = append(b.constraints, c)
	return b
}

func (b *Builder) addOrRecord(c Constraint, err error) *Builder {
	if err != nil {
		b.errs = append(b.errs, err)
		return b
	}
	return b.Add(c)
}

// Custom adapts an arbitrary predicate into a Constraint with a
// caller-supplied name.
func (b *Builder) Custom(name string, predicate func(candidate model.Event, ctx *model.SchedulingContext) (bool, string)) *Builder {
	return b.Add(&CallableConstraint{name: name, predicate: predicate})
}

// Build takes an immutable snapshot of the builder's constraints so far,
// or returns the construction errors recorded by shortcut methods, joined
// with errors.Join.
func (b *Builder) Build() (*Set, error) {
	if len(b.errs) > 0 {
		return nil, errors.Join(b.errs...)
	}
	cp := make([]Constraint, len(b.constraints))
	copy(cp, b.constraints)
	return &Set{constraints: cp}, nil
}

// CallableConstraint adapts an arbitrary predicate function into a
// Constraint. If the predicate itself panics, the panic propagates
// untouched — the engine does not recover it.
type CallableConstraint struct {
	name      string
	predicate func(candidate model.Event, ctx *model.SchedulingContext) (bool, string)
}

// NewCallableConstraint constructs a CallableConstraint directly.
func NewCallableConstraint(name string, predicate func(model.Event, *model.SchedulingContext) (bool, string)) (*CallableConstraint, error) {
	if name == "" {
		return nil, fmt.Errorf("constraints: callable constraint name must not be empty")
	}
	if predicate == nil {
		return nil, fmt.Errorf("constraints: callable constraint predicate must not be nil")
	}
	return &CallableConstraint{name: name, predicate: predicate}, nil
}

// Name implements Constraint.
func (c *CallableConstraint) Name() string { return c.name }

// IsSatisfied implements Constraint.
func (c *CallableConstraint) IsSatisfied(candidate model.Event, ctx *model.SchedulingContext) (bool, string) {
	return c.predicate(candidate, ctx)
}
