package model

import "sort"

// Schedule is the ordered sequence of all events produced for a
// tournament. It is immutable after generation, traversable in commit
// order, and countable in O(1).
type Schedule struct {
	events   []Event
	metadata Metadata
}

// NewSchedule constructs a Schedule from a committed event sequence and
// metadata. The metadata map should carry at least "algorithm",
// "participant_count", "legs", "rounds_per_leg", "total_rounds", and
// "events_per_round".
func NewSchedule(events []Event, metadata Metadata) *Schedule {
	cp := make([]Event, len(events))
	copy(cp, events)
	return &Schedule{events: cp, metadata: metadata}
}

// Count returns the number of committed events in O(1).
func (s *Schedule) Count() int { return len(s.events) }

// Events returns the committed events in commit order. The returned slice
// is a defensive copy.
func (s *Schedule) Events() []Event {
	cp := make([]Event, len(s.events))
	copy(cp, s.events)
	return cp
}

// Metadata returns the schedule's metadata bag.
func (s *Schedule) Metadata() Metadata { return s.metadata }

// MetadataOrDefault returns the metadata value at key, or def if absent.
func (s *Schedule) MetadataOrDefault(key string, def Value) Value {
	return s.metadata.GetOrDefault(key, def)
}

// ByRound groups the committed events into a map keyed by round number,
// preserving within-round commit order. The map itself is unordered; use
// RoundNumbers for the ascending round list.
func (s *Schedule) ByRound() map[int][]Event {
	grouped := make(map[int][]Event)
	for _, e := range s.events {
		round, ok := e.Round()
		if !ok {
			continue
		}
		grouped[round] = append(grouped[round], e)
	}
	return grouped
}

// MaxRound returns the highest round number with a committed event, or 0
// if the schedule is empty.
func (s *Schedule) MaxRound() int {
	max := 0
	for _, e := range s.events {
		if round, ok := e.Round(); ok && round > max {
			max = round
		}
	}
	return max
}

// RoundNumbers returns the sorted list of distinct round numbers present
// in the schedule.
func (s *Schedule) RoundNumbers() []int {
	seen := make(map[int]struct{})
	for _, e := range s.events {
		if round, ok := e.Round(); ok {
			seen[round] = struct{}{}
		}
	}
	out := make([]int, 0, len(seen))
	for r := range seen {
		out = append(out, r)
	}
	sort.Ints(out)
	return out
}
