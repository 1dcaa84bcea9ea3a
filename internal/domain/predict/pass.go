// Package predict holds the per-action success models: pass completion,
// shot quality, dribble candidates, and reception quality. Each model
// composes distance decay, pressure, and geometric factors into a success
// probability; the executor, not these models, decides ground truth.
package predict

import (
	"github.com/okian/tiki/internal/domain/intercept"
	"github.com/okian/tiki/internal/domain/pitch"
	"github.com/okian/tiki/internal/domain/state"
)

// Pass-model constants.
const (
	pressurePenalty   = 0.25 // success lost at full pressure
	forwardPassFactor = 0.9  // forward passes are harder
	interceptWeight   = 0.7  // share of interception risk charged to success
	longPassDecay     = 0.8  // applied beyond the last distance anchor

	// PassMinProbability and PassMaxProbability bound every pass estimate.
	PassMinProbability = 0.05
	PassMaxProbability = 0.98
)

// passDistances and passProbabilities anchor the distance decay curve;
// values between anchors interpolate linearly.
var (
	passDistances     = [...]float64{5, 10, 15, 20, 25, 30, 35, 40}
	passProbabilities = [...]float64{0.95, 0.90, 0.85, 0.78, 0.70, 0.62, 0.55, 0.48}
)

// PassModel predicts the completion probability of a pass.
type PassModel struct {
	intercept *intercept.Model
}

// NewPassModel builds a pass model around an interception model.
func NewPassModel(ic *intercept.Model) *PassModel {
	return &PassModel{intercept: ic}
}

// SuccessProbability estimates the chance a pass from passer to target is
// completed. Pressure is the normalized pressure on the passer in [0, 1];
// forward marks a pass that advances the ball upfield.
func (m *PassModel) SuccessProbability(passer, target pitch.Point, defenders []state.Actor, pressure float64, forward bool) float64 {
	base := distanceToProbability(passer.DistanceTo(target))

	pressureFactor := 1 - pressure*pressurePenalty
	directionFactor := 1.0
	if forward {
		directionFactor = forwardPassFactor
	}

	interceptProb := m.intercept.Probability(passer, target, defenders, false)

	p := base * pressureFactor * directionFactor * (1 - interceptProb*interceptWeight)
	return clampProbability(p, PassMinProbability, PassMaxProbability)
}

// distanceToProbability interpolates the anchor table. Short passes use the
// first anchor; beyond the last anchor a further decay applies.
func distanceToProbability(distance float64) float64 {
	if distance <= passDistances[0] {
		return passProbabilities[0]
	}
	last := len(passDistances) - 1
	if distance >= passDistances[last] {
		return passProbabilities[last] * longPassDecay
	}
	for i := 0; i < last; i++ {
		if distance < passDistances[i+1] {
			span := passDistances[i+1] - passDistances[i]
			t := (distance - passDistances[i]) / span
			return passProbabilities[i] + t*(passProbabilities[i+1]-passProbabilities[i])
		}
	}
	return passProbabilities[last] * longPassDecay
}

func clampProbability(p, lo, hi float64) float64 {
	if p < lo {
		return lo
	}
	if p > hi {
		return hi
	}
	return p
}
