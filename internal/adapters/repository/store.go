// Package repository defines the key-moment ranking store interface and
// errors.
package repository

import "context"

// Moment is one ranked key moment: the frame whose best progression option
// carried the given danger (expected value).
type Moment struct {
	Rank        int
	FrameID     string
	Danger      float64
	Timestamp   float64
	Action      string
	OptionCount int
}

// Store provides read/write access to the key-moment ranking.
type Store interface {
	// RecordMoment stores the danger rating for a frame if it improves on
	// the existing one. Returns true if the store updated the rating.
	RecordMoment(ctx context.Context, frameID string, danger, timestamp float64, action string, optionCount int) (bool, error)

	// Rank returns the current rank and rating for a frame.
	// Returns ErrNotFound if the frame is unknown.
	Rank(ctx context.Context, frameID string) (Moment, error)

	// TopN returns the top-N moments ordered by danger desc.
	TopN(ctx context.Context, n int) ([]Moment, error)

	// Count returns the number of frames tracked in the ranking.
	Count(ctx context.Context) int
}
