// Package orderer assigns roles (home/away, or the generalized per-index
// role for wider events) to a candidate pairing before it is checked
// against the constraint set. Role assignment runs first because
// role-aware constraints (constraints.ConsecutiveRoleConstraint) consume
// the ordered tuple as input.
package orderer

import (
	"encoding/binary"
	"sync"

	"github.com/mission-gaming/tactician-sub000/pkg/model"
	"github.com/mission-gaming/tactician-sub000/pkg/rngsrc"
)

// Orderer assigns an ordered role tuple to an unordered pairing. roundNumber
// and candidateIndex locate the pairing within the generation sequence;
// ctx carries everything committed so far. Implementations must return a
// permutation of participants — same set, possibly reordered.
type Orderer interface {
	Order(participants []model.Participant, roundNumber, candidateIndex int, ctx *model.SchedulingContext) []model.Participant

	// Name identifies the strategy for config/diagnostics.
	Name() string
}

// registry is a name-keyed global map of factories, guarded for
// concurrent use from multiple engine instances.
var (
	registryMu sync.RWMutex
	registry   = make(map[string]func() Orderer)
)

// Register adds an orderer factory under name. Panics if name is already
// registered.
func Register(name string, factory func() Orderer) {
	registryMu.Lock()
	defer registryMu.Unlock()
	if factory == nil {
		panic("orderer: Register factory for " + name + " is nil")
	}
	if _, exists := registry[name]; exists {
		panic("orderer: Register called twice for " + name)
	}
	registry[name] = factory
}

// Get constructs a registered orderer by name.
func Get(name string) (Orderer, error) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	factory, exists := registry[name]
	if !exists {
		return nil, errOrdererNotRegistered(name)
	}
	return factory(), nil
}

// List returns the names of all registered orderers.
func List() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	return names
}

func errOrdererNotRegistered(name string) error {
	return &notRegisteredError{name: name}
}

type notRegisteredError struct{ name string }

func (e *notRegisteredError) Error() string {
	return "orderer: " + e.name + " not registered"
}

func init() {
	Register("static", func() Orderer { return Static{} })
	Register("alternating", func() Orderer { return Alternating{} })
	Register("balanced", func() Orderer { return Balanced{} })
}

// Static preserves the order the caller (the round-robin generator's
// position binding) already produced.
type Static struct{}

// Name implements Orderer.
func (Static) Name() string { return "static" }

// Order implements Orderer.
func (Static) Order(participants []model.Participant, roundNumber, candidateIndex int, ctx *model.SchedulingContext) []model.Participant {
	return participants
}

// Alternating flips the order based on the candidate's index within its
// round, giving intra-round balance between first- and second-role
// assignment.
type Alternating struct{}

// Name implements Orderer.
func (Alternating) Name() string { return "alternating" }

// Order implements Orderer.
func (Alternating) Order(participants []model.Participant, roundNumber, candidateIndex int, ctx *model.SchedulingContext) []model.Participant {
	if candidateIndex%2 == 0 {
		return participants
	}
	return reversed(participants)
}

// Balanced consults the SchedulingContext: for a two-participant pairing,
// whichever side has fewer prior first-role (index 0) appearances takes
// the first role this time; ties break to the order already supplied.
type Balanced struct{}

// Name implements Orderer.
func (Balanced) Name() string { return "balanced" }

// Order implements Orderer.
func (Balanced) Order(participants []model.Participant, roundNumber, candidateIndex int, ctx *model.SchedulingContext) []model.Participant {
	if len(participants) != 2 {
		return participants
	}
	firstCount := ctx.CountInRole(participants[0].ID(), 0)
	secondCount := ctx.CountInRole(participants[1].ID(), 0)
	if secondCount < firstCount {
		return reversed(participants)
	}
	return participants
}

// SeededRandom derives a stable bit from a hash of the participant ids,
// round number, and candidate index using the supplied random source, and
// swaps the pairing's two participants when the bit is set. It is only
// meaningful for two-participant events.
type SeededRandom struct {
	Source rngsrc.Source
}

// NewSeededRandom constructs a SeededRandom orderer bound to src.
func NewSeededRandom(src rngsrc.Source) SeededRandom {
	return SeededRandom{Source: src}
}

// Name implements Orderer.
func (SeededRandom) Name() string { return "seeded_random" }

// Order implements Orderer.
func (o SeededRandom) Order(participants []model.Participant, roundNumber, candidateIndex int, ctx *model.SchedulingContext) []model.Participant {
	if len(participants) != 2 || o.Source == nil {
		return participants
	}
	purpose := orderingPurpose(participants[0].ID(), participants[1].ID(), roundNumber, candidateIndex)
	if o.Source.Sub(purpose).Bool() {
		return reversed(participants)
	}
	return participants
}

// orderingPurpose derives a unique sub-source purpose string per call site
// so that the bit drawn is stable across runs for the same inputs but
// independent across pairings, rounds, and candidate positions.
func orderingPurpose(a, b string, round, candidateIndex int) string {
	buf := make([]byte, 0, len(a)+len(b)+20)
	buf = append(buf, "orderer/"...)
	buf = append(buf, a...)
	buf = append(buf, '/')
	buf = append(buf, b...)
	buf = append(buf, '/')
	var tmp [8]byte
	binary.BigEndian.PutUint32(tmp[0:4], uint32(round))
	binary.BigEndian.PutUint32(tmp[4:8], uint32(candidateIndex))
	buf = append(buf, tmp[:]...)
	return string(buf)
}

func reversed(participants []model.Participant) []model.Participant {
	out := make([]model.Participant, len(participants))
	for i, p := range participants {
		out[len(participants)-1-i] = p
	}
	return out
}
