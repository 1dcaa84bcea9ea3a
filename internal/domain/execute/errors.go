package execute

import "errors"

// Sentinel errors.
var (
	// ErrUnknownAction is returned when an option carries an action kind
	// the executor does not implement. The kind set is closed; hitting
	// this means a programming error upstream.
	ErrUnknownAction = errors.New("unknown action kind")

	// ErrNoCarrier is returned when an action requires a ball carrier and
	// the snapshot has none.
	ErrNoCarrier = errors.New("snapshot has no ball carrier")
)
