package model

import "fmt"

// Event is an ordered tuple of participants constituting one match. Order
// encodes role: index 0 is the "home"/first role, index 1 is "away"/second,
// and so on for wider events. Once committed to a Schedule an Event is
// never mutated.
type Event struct {
	participants []Participant
	round        int
	hasRound     bool
	metadata     Metadata
}

// NewEvent constructs an Event from an ordered participant list. The list
// must have length >= 2 and contain no duplicate participant ids.
func NewEvent(participants []Participant, round int, metadata Metadata) (Event, error) {
	if len(participants) < 2 {
		return Event{}, fmt.Errorf("model: event must have at least 2 participants, got %d", len(participants))
	}
	seen := make(map[string]struct{}, len(participants))
	for _, p := range participants {
		if _, dup := seen[p.ID()]; dup {
			return Event{}, fmt.Errorf("model: event cannot contain duplicate participant %q", p.ID())
		}
		seen[p.ID()] = struct{}{}
	}
	cp := make([]Participant, len(participants))
	copy(cp, participants)
	return Event{participants: cp, round: round, hasRound: round > 0, metadata: metadata}, nil
}

// Participants returns the ordered participant list. The returned slice is
// a defensive copy.
func (e Event) Participants() []Participant {
	cp := make([]Participant, len(e.participants))
	copy(cp, e.participants)
	return cp
}

// Arity returns the number of participants in the event.
func (e Event) Arity() int { return len(e.participants) }

// At returns the participant occupying role index i (0 = home/first).
func (e Event) At(i int) Participant { return e.participants[i] }

// Round returns the event's round number and whether one was set.
func (e Event) Round() (int, bool) { return e.round, e.hasRound }

// Metadata returns the event's metadata bag.
func (e Event) Metadata() Metadata { return e.metadata }

// HasParticipant reports whether id appears anywhere in the event.
func (e Event) HasParticipant(id string) bool {
	for _, p := range e.participants {
		if p.ID() == id {
			return true
		}
	}
	return false
}

// UnorderedKey returns a canonical, order-independent string identifying
// the set of participant ids in the event. Used by NoRepeatPairings to
// detect a repeated unordered pairing regardless of role assignment.
func (e Event) UnorderedKey() string {
	ids := make([]string, len(e.participants))
	for i, p := range e.participants {
		ids[i] = p.ID()
	}
	return canonicalJoin(ids)
}

func canonicalJoin(ids []string) string {
	// Insertion sort: event arity is small (2 in the overwhelming common
	// case), so this avoids pulling in sort.Strings for a handful of items.
	sorted := make([]string, len(ids))
	copy(sorted, ids)
	for i := 1; i < len(sorted); i++ {
		for j := i; j > 0 && sorted[j-1] > sorted[j]; j-- {
			sorted[j-1], sorted[j] = sorted[j], sorted[j-1]
		}
	}
	out := ""
	for i, id := range sorted {
		if i > 0 {
			out += "\x00"
		}
		out += id
	}
	return out
}
