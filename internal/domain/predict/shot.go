package predict

import (
	"math"

	"github.com/okian/tiki/internal/domain/pitch"
	"github.com/okian/tiki/internal/domain/state"
)

// Shot-model constants. The block distance bands are hand-tuned; keep the
// exact thresholds, downstream expected values depend on them.
const (
	// ShotMinValue and ShotMaxValue bound the final shot value, which also
	// serves as the shot's success probability (a shot is binary).
	ShotMinValue = 0.01
	ShotMaxValue = 0.95

	blockCorridor   = 2.0 // meters perpendicular to the shot line
	blockBaseChance = 0.3 // block chance for a defender far down the line
	blockNearWeight = 0.4 // extra chance the closer the defender stands

	saveLateralReach = 3.0  // meters of keeper reach across the shot line
	saveBaseChance   = 0.35 // save chance floor for a well-placed keeper
	saveDistanceGain = 40.0 // meters over which distance aids the keeper
	saveMaxChance    = 0.9

	centralShotBias  = 0.3  // value reduction at the touchline
	minAngleFactor   = 0.2  // tight angles never zero the shot entirely
	referenceAngleAt = 11.0 // penalty-spot distance used to normalize angle
)

// shotDistanceBrackets and shotBaseValues give the raw positional value of
// a shot by distance band.
var (
	shotDistanceBrackets = [...]float64{6, 11, 16.5, 22, 30}
	shotBaseValues       = [...]float64{0.60, 0.35, 0.20, 0.12, 0.07}
	shotLongRangeValue   = 0.03
)

// ShotQuality is the decomposition of a shot evaluation.
type ShotQuality struct {
	Base             float64 // positional value before defenders
	BlockProbability float64
	SaveProbability  float64
	Value            float64 // Base × (1−block) × (1−save)
}

// ShotModel evaluates shot quality from any position against the current
// defensive picture.
type ShotModel struct {
	dims pitch.Dimensions
}

// NewShotModel builds a shot model for the given pitch.
func NewShotModel(dims pitch.Dimensions) *ShotModel {
	return &ShotModel{dims: dims}
}

// Evaluate scores a shot from the given position. The goalkeeper, when
// present in the defender list, contributes the save probability; outfield
// defenders contribute the block probability.
func (m *ShotModel) Evaluate(from pitch.Point, defenders []state.Actor) ShotQuality {
	goal := m.dims.AttackingGoal()
	distance := from.DistanceTo(goal)

	base := baseShotValue(distance)
	base *= m.angleFactor(from, distance)
	base *= 1 - math.Abs(from.Y)/m.dims.HalfWidth()*centralShotBias
	base = clampProbability(base, ShotMinValue, ShotMaxValue)

	block := m.blockProbability(from, goal, defenders)
	save := m.saveProbability(from, goal, distance, defenders)

	return ShotQuality{
		Base:             base,
		BlockProbability: block,
		SaveProbability:  save,
		Value:            clampProbability(base*(1-block)*(1-save), ShotMinValue, ShotMaxValue),
	}
}

func baseShotValue(distance float64) float64 {
	for i, limit := range shotDistanceBrackets {
		if distance <= limit {
			return shotBaseValues[i]
		}
	}
	return shotLongRangeValue
}

// angleFactor scales by the goal mouth visible from the shot position,
// normalized against the view from the penalty spot.
func (m *ShotModel) angleFactor(from pitch.Point, distance float64) float64 {
	if distance < 1e-9 {
		return 1
	}
	visible := goalMouthAngle(from, m.dims)
	reference := 2 * math.Atan2(pitch.GoalWidth/2, referenceAngleAt)
	factor := visible / reference
	return clampProbability(factor, minAngleFactor, 1)
}

// goalMouthAngle returns the angle subtended by the two posts from p.
func goalMouthAngle(p pitch.Point, dims pitch.Dimensions) float64 {
	half := pitch.GoalWidth / 2
	near := pitch.Point{X: dims.HalfLength(), Y: -half}
	far := pitch.Point{X: dims.HalfLength(), Y: half}
	a := math.Atan2(near.Y-p.Y, near.X-p.X)
	b := math.Atan2(far.Y-p.Y, far.X-p.X)
	angle := math.Abs(b - a)
	if angle > math.Pi {
		angle = 2*math.Pi - angle
	}
	return angle
}

// blockProbability accumulates, multiplicatively, the chance that an
// outfield defender inside the block corridor cuts the shot out. Defenders
// nearer the shooter block more.
func (m *ShotModel) blockProbability(from, goal pitch.Point, defenders []state.Actor) float64 {
	shotLength := from.DistanceTo(goal)
	if shotLength < 1e-9 {
		return 0
	}

	clear := 1.0
	for _, d := range defenders {
		if d.Goalkeeper {
			continue
		}
		if pitch.PerpendicularDistance(d.Position, from, goal) >= blockCorridor {
			continue
		}
		// Only defenders between the shooter and the goal can block.
		if d.Position.DistanceTo(goal) >= shotLength {
			continue
		}
		nearness := 1 - d.Position.DistanceTo(from)/shotLength
		clear *= 1 - (blockBaseChance + blockNearWeight*nearness)
	}
	return 1 - clear
}

// saveProbability models the keeper as a function of lateral offset from
// the shot line and shot distance. No keeper, no save.
func (m *ShotModel) saveProbability(from, goal pitch.Point, distance float64, defenders []state.Actor) float64 {
	for _, d := range defenders {
		if !d.Goalkeeper {
			continue
		}
		lateral := pitch.PerpendicularDistance(d.Position, from, goal)
		lateralFactor := 1 - lateral/saveLateralReach
		if lateralFactor < 0 {
			lateralFactor = 0
		}
		save := lateralFactor * (saveBaseChance + distance/saveDistanceGain)
		return clampProbability(save, 0, saveMaxChance)
	}
	return 0
}
