// Package legstrategy transforms a base leg's round-robin events into the
// events of subsequent legs, preserving round-number continuity. Strategy
// output for legs 2..N keeps its role order: it is checked against the
// constraint set as is and never re-submitted to the participant orderer (the
// "strategy wins" resolution of the mirror/orderer interaction).
package legstrategy

import (
	"fmt"
	"sync"

	"github.com/mission-gaming/tactician-sub000/pkg/model"
	"github.com/mission-gaming/tactician-sub000/pkg/rngsrc"
)

// Strategy derives the events of leg legNumber (2-indexed: the base leg is
// leg 1 and is never passed through TransformLeg) from base, the base
// leg's events in round order. Implementations must be stateless across
// calls; all randomness must flow through src.
type Strategy interface {
	TransformLeg(base []model.Event, legNumber int, src rngsrc.Source) ([]model.Event, error)

	// Name identifies the strategy for config/diagnostics.
	Name() string
}

var (
	registryMu sync.RWMutex
	registry   = make(map[string]Strategy)
)

// Register adds s to the global registry under name. Panics if name is
// already registered.
func Register(name string, s Strategy) {
	registryMu.Lock()
	defer registryMu.Unlock()
	if _, exists := registry[name]; exists {
		panic(fmt.Sprintf("legstrategy: %q already registered", name))
	}
	registry[name] = s
}

// Get retrieves a registered strategy by name, or nil if absent.
func Get(name string) Strategy {
	registryMu.RLock()
	defer registryMu.RUnlock()
	return registry[name]
}

// List returns the names of all registered strategies.
func List() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	return names
}

func init() {
	Register("repeated", Repeated{})
	Register("mirrored", Mirrored{})
	Register("shuffled", Shuffled{})
}

// Repeated reproduces the base leg's events unchanged, except for the
// round numbers, which are offset so the leg's rounds continue where the
// previous leg left off.
type Repeated struct{}

// Name implements Strategy.
func (Repeated) Name() string { return "repeated" }

// TransformLeg implements Strategy.
func (Repeated) TransformLeg(base []model.Event, legNumber int, src rngsrc.Source) ([]model.Event, error) {
	return offsetRounds(base, legNumber)
}

// Mirrored reverses the role order within each pairing — index 0 swaps
// with index 1 in the binary case — preserving pairing identity. If
// participant p is first in leg 1's event, p is second in the
// corresponding leg-2 event. Only defined for two-participant events.
type Mirrored struct{}

// Name implements Strategy.
func (Mirrored) Name() string { return "mirrored" }

// TransformLeg implements Strategy.
func (Mirrored) TransformLeg(base []model.Event, legNumber int, src rngsrc.Source) ([]model.Event, error) {
	mirrored := make([]model.Event, 0, len(base))
	for _, e := range base {
		participants := e.Participants()
		if len(participants) != 2 {
			return nil, fmt.Errorf("legstrategy: Mirrored requires two-participant events, got arity %d", len(participants))
		}
		swapped := []model.Participant{participants[1], participants[0]}
		ne, err := model.NewEvent(swapped, roundOf(e), e.Metadata())
		if err != nil {
			return nil, err
		}
		mirrored = append(mirrored, ne)
	}
	return offsetRounds(mirrored, legNumber)
}

// Shuffled applies a deterministic permutation (derived from src) to the
// sequence of leg 1's pairings: each slot takes the round number of leg 1's
// event at that slot and the pairing the permutation maps to it (which may
// be its own). Role order within a pairing is
// left untouched — only Mirrored swaps roles.
type Shuffled struct{}

// Name implements Strategy.
func (Shuffled) Name() string { return "shuffled" }

// TransformLeg implements Strategy.
func (s Shuffled) TransformLeg(base []model.Event, legNumber int, src rngsrc.Source) ([]model.Event, error) {
	if src == nil {
		return nil, fmt.Errorf("legstrategy: Shuffled requires a non-nil random source")
	}
	legSrc := src.Sub(fmt.Sprintf("legstrategy/shuffled/leg%d", legNumber))
	perm := legSrc.Permute(len(base))
	shuffled := make([]model.Event, len(base))
	for slot, source := range perm {
		ne, err := model.NewEvent(base[source].Participants(), roundOf(base[slot]), base[source].Metadata())
		if err != nil {
			return nil, err
		}
		shuffled[slot] = ne
	}
	return offsetRounds(shuffled, legNumber)
}

// roundOf returns e's round number, or 0 if it carries none.
func roundOf(e model.Event) int {
	r, ok := e.Round()
	if !ok {
		return 0
	}
	return r
}

// offsetRounds shifts every event's round number by (legNumber-1) times
// the highest round number in events, so leg continuity holds: leg 2's
// round 1 becomes round (roundsPerLeg + 1), and so on.
func offsetRounds(events []model.Event, legNumber int) ([]model.Event, error) {
	if legNumber < 2 {
		return events, nil
	}
	roundsPerLeg := 0
	for _, e := range events {
		if r := roundOf(e); r > roundsPerLeg {
			roundsPerLeg = r
		}
	}
	offset := (legNumber - 1) * roundsPerLeg
	out := make([]model.Event, 0, len(events))
	for _, e := range events {
		shifted, err := model.NewEvent(e.Participants(), roundOf(e)+offset, e.Metadata())
		if err != nil {
			return nil, err
		}
		out = append(out, shifted)
	}
	return out, nil
}
