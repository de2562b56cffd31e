package model

import "fmt"

// Round identifies a numbered group of events. Round numbers are 1-based
// and globally monotonic across legs.
type Round struct {
	number   int
	metadata Metadata
}

// NewRound constructs a Round. number must be positive.
func NewRound(number int, metadata Metadata) (Round, error) {
	if number <= 0 {
		return Round{}, fmt.Errorf("model: round number must be positive, got %d", number)
	}
	return Round{number: number, metadata: metadata}, nil
}

// Number returns the 1-based round number.
func (r Round) Number() int { return r.number }

// Metadata returns the round's metadata bag.
func (r Round) Metadata() Metadata { return r.metadata }
