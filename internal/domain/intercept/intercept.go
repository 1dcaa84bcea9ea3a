// Package intercept models the time race between a moving ball and the
// defenders chasing it. Interception chance is a function of the worst-case
// margin between ball arrival and defender arrival along the trajectory.
package intercept

import (
	"math"

	"github.com/okian/tiki/internal/domain/motion"
	"github.com/okian/tiki/internal/domain/pitch"
	"github.com/okian/tiki/internal/domain/state"
)

// Ball speeds and sampling constants.
const (
	DefaultGroundSpeed = 15.0 // m/s
	DefaultAirSpeed    = 20.0 // m/s

	sampleSpacing     = 2.0 // meters between trajectory samples
	minSamples        = 5
	canInterceptSteps = 20
	minTrajectoryLen  = 0.1 // below this the pass is degenerate
)

// Margin-to-probability curve breakpoints. These are hand-tuned and the
// discontinuities are load-bearing: downstream expected values compare
// options across both sides of each breakpoint, so do not smooth them.
const (
	clearMargin    = 0.5 // defender arrives this much earlier: near-certain
	clearProb      = 0.9
	positiveSlope  = 0.8 // probability per second for 0 < margin <= 0.5
	positiveOffset = 0.5
	negativeSlope  = 0.4 // probability per second for -0.5 < margin <= 0
	negativeOffset = 0.3
	floorSlope     = 0.1
	floorOffset    = 0.1
	floorProb      = 0.05
)

// Model computes interception probabilities for ground and aerial balls.
type Model struct {
	groundSpeed float64
	airSpeed    float64
}

// Option applies a configuration option to the Model.
type Option func(*Model)

// WithGroundSpeed sets the speed of a driven ground pass.
func WithGroundSpeed(speed float64) Option {
	return func(m *Model) {
		if speed > 0 {
			m.groundSpeed = speed
		}
	}
}

// WithAirSpeed sets the speed of an aerial pass.
func WithAirSpeed(speed float64) Option {
	return func(m *Model) {
		if speed > 0 {
			m.airSpeed = speed
		}
	}
}

// NewModel builds an interception model with default ball speeds.
func NewModel(opts ...Option) *Model {
	m := &Model{
		groundSpeed: DefaultGroundSpeed,
		airSpeed:    DefaultAirSpeed,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Probability returns the chance that any defender intercepts a ball played
// from start to end. Degenerate trajectories and empty defender lists
// return zero.
func (m *Model) Probability(start, end pitch.Point, defenders []state.Actor, aerial bool) float64 {
	if len(defenders) == 0 {
		return 0
	}

	trajectory := start.VectorTo(end)
	length := trajectory.Norm()
	if length < minTrajectoryLen {
		return 0
	}

	ballSpeed := m.groundSpeed
	if aerial {
		ballSpeed = m.airSpeed
	}

	samples := int(length / sampleSpacing)
	if samples < minSamples {
		samples = minSamples
	}

	// Track the defenders' best (most negative is worst for them) arrival
	// margin across the whole trajectory.
	minMargin := math.Inf(1)
	for i := 0; i <= samples; i++ {
		t := float64(i) / float64(samples)
		point := start.Add(trajectory.Scale(t))

		ballTime := t * length / ballSpeed
		defenderTime := motion.MinTimeToReach(point, defenders)

		margin := ballTime - defenderTime
		if margin < minMargin {
			minMargin = margin
		}
	}

	return marginToProbability(minMargin)
}

// marginToProbability maps the worst-case time margin (positive when the
// defender arrives before the ball) to an interception probability.
func marginToProbability(margin float64) float64 {
	switch {
	case margin > clearMargin:
		return clearProb
	case margin > 0:
		return positiveOffset + margin*positiveSlope
	case margin > -clearMargin:
		return negativeOffset + margin*negativeSlope
	default:
		return math.Max(floorProb, floorOffset+margin*floorSlope)
	}
}

// CanIntercept reports whether one specific defender beats the ball to any
// point on the trajectory, and the first trajectory fraction where that
// happens. Degenerate trajectories cannot be intercepted.
func (m *Model) CanIntercept(start, end pitch.Point, defender state.Actor, aerial bool) (bool, float64) {
	trajectory := start.VectorTo(end)
	length := trajectory.Norm()
	if length < minTrajectoryLen {
		return false, 0
	}

	ballSpeed := m.groundSpeed
	if aerial {
		ballSpeed = m.airSpeed
	}

	for i := 0; i <= canInterceptSteps; i++ {
		t := float64(i) / float64(canInterceptSteps)
		point := start.Add(trajectory.Scale(t))

		ballTime := t * length / ballSpeed
		if motion.TimeToReach(point, defender) < ballTime {
			return true, t
		}
	}
	return false, 1
}
