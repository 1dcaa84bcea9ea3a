package predict

import (
	"math"

	"github.com/okian/tiki/internal/domain/motion"
	"github.com/okian/tiki/internal/domain/pitch"
	"github.com/okian/tiki/internal/domain/state"
)

// Dribble-model constants. The carrier moves slower than a free runner.
const (
	DefaultDribbleStep = 5.0 // meters per dribble candidate
	dribbleSpeed       = 6.0 // m/s while carrying the ball

	dribbleBaseProbability = 0.70
	dribbleContestPenalty  = 0.45 // multiplier when a defender wins the race
	dribblePressureWeight  = 0.30

	dribbleMinProbability = 0.05
	dribbleMaxProbability = 0.95
)

// dribbleHeadings is the forward-biased fan of candidate directions,
// radians relative to the attacking axis.
var dribbleHeadings = [...]float64{
	-math.Pi / 3, // -60°
	-math.Pi / 6, // -30°
	0,
	math.Pi / 6, // +30°
	math.Pi / 3, // +60°
}

// DribbleCandidate is one possible carry target with its predicted success.
type DribbleCandidate struct {
	Target             pitch.Point
	SuccessProbability float64
}

// DribbleModel enumerates forward carry options for the ball carrier.
type DribbleModel struct {
	dims pitch.Dimensions
	step float64
}

// DribbleOption applies a configuration option to the DribbleModel.
type DribbleOption func(*DribbleModel)

// WithDribbleStep sets the distance of each candidate carry.
func WithDribbleStep(step float64) DribbleOption {
	return func(m *DribbleModel) {
		if step > 0 {
			m.step = step
		}
	}
}

// NewDribbleModel builds a dribble model for the given pitch.
func NewDribbleModel(dims pitch.Dimensions, opts ...DribbleOption) *DribbleModel {
	m := &DribbleModel{dims: dims, step: DefaultDribbleStep}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Candidates returns the fan of carry targets for the carrier, each with a
// success probability. Targets are clamped in bounds; pressure is the
// normalized pressure at the carrier's current position.
func (m *DribbleModel) Candidates(carrier state.Actor, defenders []state.Actor, pressure float64) []DribbleCandidate {
	out := make([]DribbleCandidate, 0, len(dribbleHeadings))
	for _, heading := range dribbleHeadings {
		target := m.dims.Clamp(pitch.Point{
			X: carrier.Position.X + m.step*math.Cos(heading),
			Y: carrier.Position.Y + m.step*math.Sin(heading),
		})

		p := dribbleBaseProbability
		if m.contested(carrier, target, defenders) {
			p *= dribbleContestPenalty
		}
		p *= 1 - pressure*dribblePressureWeight

		out = append(out, DribbleCandidate{
			Target:             target,
			SuccessProbability: clampProbability(p, dribbleMinProbability, dribbleMaxProbability),
		})
	}
	return out
}

// contested reports whether any defender reaches the path midpoint or the
// endpoint before the dribbler does at carrying speed.
func (m *DribbleModel) contested(carrier state.Actor, target pitch.Point, defenders []state.Actor) bool {
	mid := pitch.Point{
		X: (carrier.Position.X + target.X) / 2,
		Y: (carrier.Position.Y + target.Y) / 2,
	}
	halfTime := carrier.Position.DistanceTo(mid) / dribbleSpeed
	fullTime := carrier.Position.DistanceTo(target) / dribbleSpeed

	for _, d := range defenders {
		if motion.TimeToReach(mid, d) < halfTime || motion.TimeToReach(target, d) < fullTime {
			return true
		}
	}
	return false
}
