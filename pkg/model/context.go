package model

// SchedulingContext grows during generation and is frozen (by convention,
// not by the type system — callers must not mutate a context handed to a
// constraint) when handed to a constraint. It holds every event committed
// strictly before the candidate currently being evaluated, plus a
// participant-id -> event-index inverted index kept consistent with the
// event list on every commit.
type SchedulingContext struct {
	participants []Participant
	events       []Event
	byParticipant map[string][]int
}

// NewSchedulingContext creates an empty context over the given
// participant roster.
func NewSchedulingContext(participants []Participant) *SchedulingContext {
	cp := make([]Participant, len(participants))
	copy(cp, participants)
	return &SchedulingContext{
		participants:  cp,
		byParticipant: make(map[string][]int),
	}
}

// Participants returns the full participant roster for this run.
func (c *SchedulingContext) Participants() []Participant {
	cp := make([]Participant, len(c.participants))
	copy(cp, c.participants)
	return cp
}

// Events returns every event committed so far, in commit order.
func (c *SchedulingContext) Events() []Event {
	cp := make([]Event, len(c.events))
	copy(cp, c.events)
	return cp
}

// EventsFor returns the events committed so far that involve the given
// participant id, in commit order.
func (c *SchedulingContext) EventsFor(participantID string) []Event {
	idxs := c.byParticipant[participantID]
	out := make([]Event, 0, len(idxs))
	for _, i := range idxs {
		out = append(out, c.events[i])
	}
	return out
}

// Commit appends e to the context, updating the inverted index. It must be
// called in the exact generation order so that the context exposed to a
// later candidate contains every event committed strictly before it, and
// no others.
func (c *SchedulingContext) Commit(e Event) {
	idx := len(c.events)
	c.events = append(c.events, e)
	for _, p := range e.Participants() {
		c.byParticipant[p.ID()] = append(c.byParticipant[p.ID()], idx)
	}
}

// Count returns the number of events committed so far.
func (c *SchedulingContext) Count() int { return len(c.events) }

// LastRoundFor returns the greatest round number among events committed so
// far that involve participantID, and whether any such event exists.
func (c *SchedulingContext) LastRoundFor(participantID string) (int, bool) {
	best := 0
	found := false
	for _, i := range c.byParticipant[participantID] {
		if round, ok := c.events[i].Round(); ok {
			if !found || round > best {
				best = round
				found = true
			}
		}
	}
	return best, found
}

// CountInRole counts, among events committed so far involving
// participantID, how many placed it at role index roleIndex.
func (c *SchedulingContext) CountInRole(participantID string, roleIndex int) int {
	count := 0
	for _, i := range c.byParticipant[participantID] {
		ev := c.events[i]
		if roleIndex < ev.Arity() && ev.At(roleIndex).ID() == participantID {
			count++
		}
	}
	return count
}

// HasUnorderedPairing reports whether any committed event has the same
// unordered participant-id set as key.
func (c *SchedulingContext) HasUnorderedPairing(key string) bool {
	for _, e := range c.events {
		if e.UnorderedKey() == key {
			return true
		}
	}
	return false
}
