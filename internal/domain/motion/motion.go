// Package motion models how far and how fast an actor can move: reachable
// radius within a horizon, time to reach a point, and the drifting coverage
// zone implied by current velocity.
package motion

import (
	"math"

	"github.com/okian/tiki/internal/domain/pitch"
	"github.com/okian/tiki/internal/domain/state"
)

// velocityDrift is the fraction of the actor's current velocity applied to
// the coverage-zone center over the horizon. Actors keep part of their
// momentum while reorienting.
const velocityDrift = 0.5

// ReachableRadius returns how far the actor can cover within the horizon,
// after the reaction time is spent standing still.
func ReachableRadius(a state.Actor, horizon float64) float64 {
	effective := horizon - a.ReactionTime
	if effective < 0 {
		effective = 0
	}
	return a.TopSpeed * effective
}

// TimeToReach returns the time the actor needs to arrive at p. Actors with
// no top speed can never arrive; that is signalled with +Inf rather than an
// error.
func TimeToReach(p pitch.Point, a state.Actor) float64 {
	if a.TopSpeed <= 0 {
		return math.Inf(1)
	}
	return a.ReactionTime + a.Position.DistanceTo(p)/a.TopSpeed
}

// CoverageZone returns the circular area the actor can cover within the
// horizon. The center drifts with half the current velocity before the
// reachable radius applies.
func CoverageZone(a state.Actor, horizon float64) (center pitch.Point, radius float64) {
	drift := a.Velocity.Scale(horizon * velocityDrift)
	return a.Position.Add(drift), ReachableRadius(a, horizon)
}

// InCoverage reports whether p falls inside the actor's coverage zone for
// the horizon.
func InCoverage(p pitch.Point, a state.Actor, horizon float64) bool {
	center, radius := CoverageZone(a, horizon)
	return center.DistanceTo(p) <= radius
}

// MinTimeToReach returns the smallest TimeToReach across the actors, or
// +Inf for an empty list.
func MinTimeToReach(p pitch.Point, actors []state.Actor) float64 {
	best := math.Inf(1)
	for _, a := range actors {
		if t := TimeToReach(p, a); t < best {
			best = t
		}
	}
	return best
}
