// Package state contains the immutable value types that describe one
// instant of play: actors, the ball, and the full snapshot.
//
// Snapshots are never mutated. Every transition builds a fresh snapshot
// from the pieces that changed; unchanged actor slices may be shared
// because nothing writes through them.
package state

import (
	"errors"

	"github.com/okian/tiki/internal/domain/pitch"
)

// Default physical attributes applied when a feed does not supply them.
// All actors are treated as physically equal; the engine ranks positions
// and space, not individual talent.
const (
	DefaultTopSpeed     = 8.0 // m/s
	DefaultReactionTime = 0.3 // seconds
	carrierRadius       = 2.0 // meters within which an actor "has" the ball
)

// Sentinel errors for snapshot validation.
var (
	ErrCarrierNotAttacking = errors.New("ball carrier is not in the attacking list")
	ErrDuplicateActorID    = errors.New("duplicate actor id in snapshot")
)

// Actor is a player or generic mover. Values are immutable; derive changed
// copies with MovedTo / WithVelocity.
type Actor struct {
	ID           string
	Position     pitch.Point
	Velocity     pitch.Vector
	TopSpeed     float64 // m/s
	ReactionTime float64 // seconds
	Facing       float64 // radians, heading of the actor's body
	HasFacing    bool    // false when the feed supplied no orientation
	Goalkeeper   bool
}

// NewActor builds an actor at a position with the default physical profile.
func NewActor(id string, pos pitch.Point) Actor {
	return Actor{
		ID:           id,
		Position:     pos,
		TopSpeed:     DefaultTopSpeed,
		ReactionTime: DefaultReactionTime,
	}
}

// MovedTo returns a copy of a at the given position.
func (a Actor) MovedTo(pos pitch.Point) Actor {
	a.Position = pos
	return a
}

// WithVelocity returns a copy of a with the given velocity.
func (a Actor) WithVelocity(v pitch.Vector) Actor {
	a.Velocity = v
	return a
}

// Ball is the ball's position plus an optional carrier reference.
type Ball struct {
	Position  pitch.Point
	CarrierID string // empty when the ball is loose
}

// Loose reports whether no actor carries the ball.
func (b Ball) Loose() bool { return b.CarrierID == "" }

// Snapshot is the full positional state at one instant. Attackers play
// toward +X. Timestamp increases monotonically across a sequence.
type Snapshot struct {
	Ball      Ball
	Attackers []Actor
	Defenders []Actor
	Timestamp float64
}

// Carrier returns the attacking actor referenced by the ball, if any.
func (s Snapshot) Carrier() (Actor, bool) {
	if s.Ball.Loose() {
		return Actor{}, false
	}
	for _, a := range s.Attackers {
		if a.ID == s.Ball.CarrierID {
			return a, true
		}
	}
	return Actor{}, false
}

// Validate checks the snapshot invariants: a carrier, when present, must be
// an attacking actor, and actor IDs must be unique across both teams.
func (s Snapshot) Validate() error {
	seen := make(map[string]struct{}, len(s.Attackers)+len(s.Defenders))
	for _, a := range s.Attackers {
		if _, dup := seen[a.ID]; dup {
			return ErrDuplicateActorID
		}
		seen[a.ID] = struct{}{}
	}
	for _, d := range s.Defenders {
		if _, dup := seen[d.ID]; dup {
			return ErrDuplicateActorID
		}
		seen[d.ID] = struct{}{}
	}
	if !s.Ball.Loose() {
		if _, ok := s.Carrier(); !ok {
			return ErrCarrierNotAttacking
		}
	}
	return nil
}

// NearestDefender returns the defender closest to p, or false when the
// defending list is empty.
func (s Snapshot) NearestDefender(p pitch.Point) (Actor, bool) {
	best := -1
	bestDist := 0.0
	for i, d := range s.Defenders {
		dist := d.Position.DistanceTo(p)
		if best < 0 || dist < bestDist {
			best, bestDist = i, dist
		}
	}
	if best < 0 {
		return Actor{}, false
	}
	return s.Defenders[best], true
}

// AtPosition returns the first actor in list within the carrier radius of p.
func AtPosition(list []Actor, p pitch.Point) (Actor, bool) {
	for _, a := range list {
		if a.Position.DistanceTo(p) < carrierRadius {
			return a, true
		}
	}
	return Actor{}, false
}

// Frame pairs a snapshot with a caller-supplied identity for batch analysis.
type Frame struct {
	ID       string
	Snapshot Snapshot
}
