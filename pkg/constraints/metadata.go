package constraints

import (
	"fmt"

	"github.com/mission-gaming/tactician-sub000/pkg/model"
)

// metadataMode selects one of MetadataConstraint's four parametric checks.
type metadataMode int

const (
	modeRequireSameValue metadataMode = iota
	modeRequireDifferentValues
	modeRequireAdjacentValues
	modeMaxUniqueValues
)

// MetadataConstraint checks a property of the metadata values participants
// carry at a given key. Four modes are available via the Builder shortcuts
// below: RequireSameValue, RequireDifferentValues, RequireAdjacentValues,
// and MaxUniqueValues.
type MetadataConstraint struct {
	mode metadataMode
	key  string
	n    int // used by MaxUniqueValues
	name string
}

// RequireSameValue appends a MetadataConstraint requiring all participants
// in a candidate to share the same value at key.
func (b *Builder) RequireSameValue(key string) *Builder {
	return b.Add(&MetadataConstraint{mode: modeRequireSameValue, key: key, name: "MetadataConstraint.RequireSameValue(" + key + ")"})
}

// RequireDifferentValues appends a MetadataConstraint requiring all
// participants in a candidate to have pairwise distinct values at key.
func (b *Builder) RequireDifferentValues(key string) *Builder {
	return b.Add(&MetadataConstraint{mode: modeRequireDifferentValues, key: key, name: "MetadataConstraint.RequireDifferentValues(" + key + ")"})
}

// RequireAdjacentValues appends a MetadataConstraint requiring the
// integer values at key across the candidate's participants to differ by
// exactly 1. It is defined for two-participant events.
func (b *Builder) RequireAdjacentValues(key string) *Builder {
	return b.Add(&MetadataConstraint{mode: modeRequireAdjacentValues, key: key, name: "MetadataConstraint.RequireAdjacentValues(" + key + ")"})
}

// MaxUniqueValues appends a MetadataConstraint requiring the number of
// distinct values at key among the candidate's participants to be <= n.
func (b *Builder) MaxUniqueValues(key string, n int) *Builder {
	c, err := newMaxUniqueValues(key, n)
	return b.addOrRecord(c, err)
}

func newMaxUniqueValues(key string, n int) (*MetadataConstraint, error) {
	if n < 1 {
		return nil, fmt.Errorf("constraints: MaxUniqueValues n must be >= 1, got %d", n)
	}
	return &MetadataConstraint{mode: modeMaxUniqueValues, key: key, n: n, name: fmt.Sprintf("MetadataConstraint.MaxUniqueValues(%s,%d)", key, n)}, nil
}

// Name implements Constraint.
func (c *MetadataConstraint) Name() string { return c.name }

// IsSatisfied implements Constraint.
func (c *MetadataConstraint) IsSatisfied(candidate model.Event, ctx *model.SchedulingContext) (bool, string) {
	switch c.mode {
	case modeRequireSameValue:
		return c.requireSameValue(candidate)
	case modeRequireDifferentValues:
		return c.requireDifferentValues(candidate)
	case modeRequireAdjacentValues:
		return c.requireAdjacentValues(candidate)
	case modeMaxUniqueValues:
		return c.maxUniqueValues(candidate)
	default:
		return true, ""
	}
}

func (c *MetadataConstraint) requireSameValue(candidate model.Event) (bool, string) {
	participants := candidate.Participants()
	first := participants[0].Metadata().Get(c.key)
	for _, p := range participants[1:] {
		if !p.Metadata().Get(c.key).Equal(first) {
			return false, fmt.Sprintf("participants do not share the same value at metadata key %q", c.key)
		}
	}
	return true, ""
}

func (c *MetadataConstraint) requireDifferentValues(candidate model.Event) (bool, string) {
	seen := make(map[string]struct{})
	for _, p := range candidate.Participants() {
		key := p.Metadata().Get(c.key).Key()
		if _, dup := seen[key]; dup {
			return false, fmt.Sprintf("participants do not have pairwise distinct values at metadata key %q", c.key)
		}
		seen[key] = struct{}{}
	}
	return true, ""
}

func (c *MetadataConstraint) requireAdjacentValues(candidate model.Event) (bool, string) {
	participants := candidate.Participants()
	if len(participants) != 2 {
		return true, ""
	}
	a, okA := participants[0].Metadata().Get(c.key).AsInt()
	b, okB := participants[1].Metadata().Get(c.key).AsInt()
	if !okA || !okB {
		return false, fmt.Sprintf("metadata key %q is not an integer value on both participants", c.key)
	}
	diff := a - b
	if diff != 1 && diff != -1 {
		return false, fmt.Sprintf("metadata key %q values %d and %d do not differ by exactly 1", c.key, a, b)
	}
	return true, ""
}

func (c *MetadataConstraint) maxUniqueValues(candidate model.Event) (bool, string) {
	seen := make(map[string]struct{})
	for _, p := range candidate.Participants() {
		seen[p.Metadata().Get(c.key).Key()] = struct{}{}
	}
	if len(seen) > c.n {
		return false, fmt.Sprintf("metadata key %q has %d distinct values, exceeding the maximum of %d", c.key, len(seen), c.n)
	}
	return true, ""
}
