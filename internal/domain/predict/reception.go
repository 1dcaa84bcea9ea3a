package predict

import (
	"math"

	"github.com/okian/tiki/internal/domain/motion"
	"github.com/okian/tiki/internal/domain/pitch"
	"github.com/okian/tiki/internal/domain/state"
)

// Reception-model constants. Difficulty bands depend on how far the
// receiver must turn toward the incoming ball.
const (
	controlWindow = 1.0 // seconds the receiver needs to bring the ball down

	receptionEasy     = 0.10 // ball arrives in front of the receiver
	receptionModerate = 0.30
	receptionHard     = 0.60
	receptionBlind    = 0.85 // ball arrives from behind

	unknownFacingDifficulty = receptionModerate
)

// Reception describes how cleanly a receiver can control an incoming pass.
type Reception struct {
	Difficulty float64 // 0 easy .. 1 nearly impossible
	Pressure   float64 // 0 free .. 1 under immediate challenge
	FacesGoal  bool    // receiver will face the opposing goal after control
}

// ReceptionModel assesses first-touch conditions for a pass receiver.
type ReceptionModel struct {
	dims pitch.Dimensions
}

// NewReceptionModel builds a reception model for the given pitch.
func NewReceptionModel(dims pitch.Dimensions) *ReceptionModel {
	return &ReceptionModel{dims: dims}
}

// Assess evaluates the receiver's first touch for a ball played from
// passFrom. Receivers without a known facing get the moderate difficulty
// band.
func (m *ReceptionModel) Assess(receiver state.Actor, passFrom pitch.Point, defenders []state.Actor) Reception {
	incoming := passFrom.VectorTo(receiver.Position).Angle()

	difficulty := unknownFacingDifficulty
	facesGoal := true
	if receiver.HasFacing {
		turn := math.Abs(angleDiff(receiver.Facing, incoming))
		difficulty = turnDifficulty(turn)

		toGoal := receiver.Position.VectorTo(m.dims.AttackingGoal()).Angle()
		facesGoal = math.Abs(angleDiff(receiver.Facing, toGoal)) < math.Pi/2
	}

	return Reception{
		Difficulty: difficulty,
		Pressure:   m.postControlPressure(receiver, defenders),
		FacesGoal:  facesGoal,
	}
}

// turnDifficulty maps the turn the receiver must make onto four bands.
func turnDifficulty(turn float64) float64 {
	switch {
	case turn < math.Pi/4:
		return receptionEasy
	case turn < math.Pi/2:
		return receptionModerate
	case turn < 3*math.Pi/4:
		return receptionHard
	default:
		return receptionBlind
	}
}

// postControlPressure measures how quickly the nearest defender can arrive
// within the control window.
func (m *ReceptionModel) postControlPressure(receiver state.Actor, defenders []state.Actor) float64 {
	arrival := motion.MinTimeToReach(receiver.Position, defenders)
	if math.IsInf(arrival, 1) || arrival >= controlWindow {
		return 0
	}
	return 1 - arrival/controlWindow
}

// angleDiff returns the signed difference a-b wrapped to (-π, π].
func angleDiff(a, b float64) float64 {
	d := math.Mod(a-b, 2*math.Pi)
	if d > math.Pi {
		d -= 2 * math.Pi
	}
	if d <= -math.Pi {
		d += 2 * math.Pi
	}
	return d
}
