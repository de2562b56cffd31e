// Package violations collects the rejections the round-robin generator
// records when a candidate pairing fails the constraint set, and derives
// the indices the diagnostics and export packages report from.
package violations

import "sort"

// ConstraintViolation records one rejected candidate: which constraint
// failed it, the human-readable reason the constraint gave, the round the
// candidate would have occupied, and the participant ids it involved.
type ConstraintViolation struct {
	ConstraintName string
	Reason         string
	Round          int
	ParticipantIDs []string
}

// Collector accumulates ConstraintViolations in rejection order. It is
// append-only; the round-robin generator calls Record once per rejected
// candidate and never removes entries.
type Collector struct {
	violations []ConstraintViolation
}

// NewCollector creates an empty Collector.
func NewCollector() *Collector {
	return &Collector{}
}

// Record appends v to the collector.
func (c *Collector) Record(v ConstraintViolation) {
	c.violations = append(c.violations, v)
}

// All returns every recorded violation, in recording order. The returned
// slice is a defensive copy.
func (c *Collector) All() []ConstraintViolation {
	cp := make([]ConstraintViolation, len(c.violations))
	copy(cp, c.violations)
	return cp
}

// Count returns the number of recorded violations.
func (c *Collector) Count() int { return len(c.violations) }

// ByConstraintName groups violations by the name of the constraint that
// rejected them.
func (c *Collector) ByConstraintName() map[string][]ConstraintViolation {
	out := make(map[string][]ConstraintViolation)
	for _, v := range c.violations {
		out[v.ConstraintName] = append(out[v.ConstraintName], v)
	}
	return out
}

// ByParticipantID groups violations by every participant id they involve.
// A violation touching two participants appears under both ids.
func (c *Collector) ByParticipantID() map[string][]ConstraintViolation {
	out := make(map[string][]ConstraintViolation)
	for _, v := range c.violations {
		for _, id := range v.ParticipantIDs {
			out[id] = append(out[id], v)
		}
	}
	return out
}

// AffectedRoundsByConstraint returns, per constraint name, the sorted list
// of distinct round numbers in which that constraint rejected at least one
// candidate, alongside how many times it did so in that round.
func (c *Collector) AffectedRoundsByConstraint() map[string][]RoundCount {
	counts := make(map[string]map[int]int)
	for _, v := range c.violations {
		if counts[v.ConstraintName] == nil {
			counts[v.ConstraintName] = make(map[int]int)
		}
		counts[v.ConstraintName][v.Round]++
	}
	out := make(map[string][]RoundCount, len(counts))
	for name, byRound := range counts {
		rounds := make([]RoundCount, 0, len(byRound))
		for round, n := range byRound {
			rounds = append(rounds, RoundCount{Round: round, Count: n})
		}
		sort.Slice(rounds, func(i, j int) bool { return rounds[i].Round < rounds[j].Round })
		out[name] = rounds
	}
	return out
}

// RoundCount pairs a round number with an occurrence count.
type RoundCount struct {
	Round int
	Count int
}

// TopParticipants returns, for constraintName, the up-to-n participant ids
// most frequently involved in that constraint's violations, most frequent
// first. Ties break by id for determinism.
func (c *Collector) TopParticipants(constraintName string, n int) []string {
	byID := make(map[string]int)
	for _, v := range c.violations {
		if v.ConstraintName != constraintName {
			continue
		}
		for _, id := range v.ParticipantIDs {
			byID[id]++
		}
	}
	type entry struct {
		id    string
		count int
	}
	entries := make([]entry, 0, len(byID))
	for id, count := range byID {
		entries = append(entries, entry{id, count})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].count != entries[j].count {
			return entries[i].count > entries[j].count
		}
		return entries[i].id < entries[j].id
	})
	if n > len(entries) {
		n = len(entries)
	}
	out := make([]string, n)
	for i := 0; i < n; i++ {
		out[i] = entries[i].id
	}
	return out
}
