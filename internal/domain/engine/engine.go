// Package engine combines the gap detector and the action sub-models into
// a ranked list of progression options for one snapshot. Analysis is a pure
// computation: the same snapshot always produces an identical result.
package engine

import (
	"context"
	"sort"

	"github.com/okian/tiki/internal/domain/gaps"
	"github.com/okian/tiki/internal/domain/intercept"
	"github.com/okian/tiki/internal/domain/pitch"
	"github.com/okian/tiki/internal/domain/predict"
	"github.com/okian/tiki/internal/domain/rules"
	"github.com/okian/tiki/internal/domain/state"
	"github.com/okian/tiki/internal/domain/zones"
)

// ActionKind enumerates the candidate action types. The set is closed: the
// executor matches exhaustively over it.
type ActionKind string

// Action kinds.
const (
	KindPass        ActionKind = "pass"
	KindThroughBall ActionKind = "through_ball"
	KindDribble     ActionKind = "dribble"
	KindShot        ActionKind = "shot"
)

// Recommendation buckets an option by its expected value and safety.
type Recommendation string

// Recommendation categories.
const (
	RecommendHighValue Recommendation = "HIGH_VALUE"
	RecommendSafe      Recommendation = "SAFE"
	RecommendModerate  Recommendation = "MODERATE"
	RecommendLowValue  Recommendation = "LOW_VALUE"
	RecommendAvoid     Recommendation = "AVOID"
)

// Engine defaults and tuning constants.
const (
	DefaultEVHighThreshold = 0.05
	DefaultEVSafeThreshold = 0.02
	DefaultShotRange       = 30.0 // meters from goal within which a shot is offered

	safeSuccessThreshold = 0.80 // counts toward "safe options"
	safeRecommendSuccess = 0.85 // recommendation band is stricter
	throughBallPenalty   = 0.85 // through balls are harder than plain passes
	pressureRadius       = 15.0 // meters over which defender proximity produces pressure
	pressureSampleCount  = 3    // nearest defenders considered for pressure
	goalValue            = 1.0  // zone value credited to a scored goal

	// Turnover base costs by pitch third; losing the ball high up invites
	// the counter-attack.
	turnoverAttackingThird = 0.08
	turnoverMiddleThird    = 0.05
	turnoverOwnThird       = 0.02
	turnoverDistanceScale  = 50.0
)

// ProgressionOption is one candidate action with its predicted outcome.
// Options are pure function outputs of a snapshot; they carry no identity.
type ProgressionOption struct {
	Kind                    ActionKind
	TargetID                string // receiving actor, empty for space targets
	Target                  pitch.Point
	SuccessProbability      float64
	InterceptionProbability float64
	ZoneValueOrigin         float64
	ZoneValueTarget         float64
	ZoneGain                float64
	TurnoverCost            float64
	ExpectedValue           float64
	Recommendation          Recommendation
	Reception               *predict.Reception // set for passes to teammates
}

// Analysis is the full decision-engine output for one snapshot.
type Analysis struct {
	Timestamp    float64
	BallPosition pitch.Point
	CarrierID    string
	Pressure     float64 // pressure on the ball carrier in [0, 1]

	Gaps    []gaps.Gap
	Options []ProgressionOption // sorted descending by expected value
	Best    *ProgressionOption  // copy of the head option, nil when empty

	TotalOptions     int
	HighValueOptions int // expected value at or above the high threshold
	SafeOptions      int // success probability at or above 0.80
}

// Engine is the analysis façade. Construct once and share: the zone grid
// is read-only and every Analyze call is independent.
type Engine struct {
	grid      *zones.Grid
	detector  *gaps.Detector
	intercept *intercept.Model
	pass      *predict.PassModel
	shot      *predict.ShotModel
	dribble   *predict.DribbleModel
	reception *predict.ReceptionModel

	evHigh    float64
	evSafe    float64
	shotRange float64
	filter    *rules.Filter
}

// Option applies a configuration option to the Engine.
type Option func(*Engine)

// WithGapDetector replaces the default gap detector.
func WithGapDetector(d *gaps.Detector) Option {
	return func(e *Engine) {
		if d != nil {
			e.detector = d
		}
	}
}

// WithInterceptModel replaces the default interception model.
func WithInterceptModel(m *intercept.Model) Option {
	return func(e *Engine) {
		if m != nil {
			e.intercept = m
			e.pass = predict.NewPassModel(m)
		}
	}
}

// WithDribbleModel replaces the default dribble model.
func WithDribbleModel(m *predict.DribbleModel) Option {
	return func(e *Engine) {
		if m != nil {
			e.dribble = m
		}
	}
}

// WithEVThresholds sets the high-value and safe expected-value thresholds.
func WithEVThresholds(high, safe float64) Option {
	return func(e *Engine) {
		if high > 0 {
			e.evHigh = high
		}
		if safe > 0 {
			e.evSafe = safe
		}
	}
}

// WithShotRange sets the maximum goal distance at which a shot is offered.
func WithShotRange(meters float64) Option {
	return func(e *Engine) {
		if meters > 0 {
			e.shotRange = meters
		}
	}
}

// WithOptionFilter applies a compiled filter to every candidate option.
func WithOptionFilter(f *rules.Filter) Option {
	return func(e *Engine) {
		e.filter = f
	}
}

// New builds an engine around a shared zone grid.
func New(grid *zones.Grid, opts ...Option) *Engine {
	ic := intercept.NewModel()
	dims := grid.Dimensions()
	e := &Engine{
		grid:      grid,
		detector:  gaps.NewDetector(),
		intercept: ic,
		pass:      predict.NewPassModel(ic),
		shot:      predict.NewShotModel(dims),
		dribble:   predict.NewDribbleModel(dims),
		reception: predict.NewReceptionModel(dims),
		evHigh:    DefaultEVHighThreshold,
		evSafe:    DefaultEVSafeThreshold,
		shotRange: DefaultShotRange,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Analyze evaluates a snapshot and returns the ranked option list. Empty
// inputs (no teammates, no defenders) yield empty collections, never an
// error. The context is accepted for interface symmetry with the rest of
// the service; analysis itself is bounded and does not block.
func (e *Engine) Analyze(_ context.Context, snap state.Snapshot) Analysis {
	ball := snap.Ball.Position
	detected := e.detector.Detect(snap.Defenders, e.grid)
	pressure := e.pressureAt(ball, snap.Defenders)

	var options []ProgressionOption

	if opt, ok := e.shotOption(snap); ok {
		options = e.appendIfKept(options, opt)
	}

	for _, mate := range snap.Attackers {
		if mate.ID == snap.Ball.CarrierID {
			continue
		}
		options = e.appendIfKept(options, e.passOption(snap, mate, pressure))
	}

	for _, g := range detected {
		if !g.Exploitable {
			continue
		}
		options = e.appendIfKept(options, e.throughBallOption(snap, g, pressure))
	}

	if carrier, ok := snap.Carrier(); ok {
		for _, cand := range e.dribble.Candidates(carrier, snap.Defenders, pressure) {
			options = e.appendIfKept(options, e.dribbleOption(snap, cand))
		}
	}

	sort.SliceStable(options, func(i, j int) bool {
		return options[i].ExpectedValue > options[j].ExpectedValue
	})

	analysis := Analysis{
		Timestamp:    snap.Timestamp,
		BallPosition: ball,
		CarrierID:    snap.Ball.CarrierID,
		Pressure:     pressure,
		Gaps:         detected,
		Options:      options,
		TotalOptions: len(options),
	}
	if len(options) > 0 {
		best := options[0]
		analysis.Best = &best
	}
	for _, o := range options {
		if o.ExpectedValue >= e.evHigh {
			analysis.HighValueOptions++
		}
		if o.SuccessProbability >= safeSuccessThreshold {
			analysis.SafeOptions++
		}
	}
	return analysis
}

// appendIfKept applies the configured option filter.
func (e *Engine) appendIfKept(options []ProgressionOption, opt ProgressionOption) []ProgressionOption {
	if e.filter != nil && !e.filter.Keep(rules.Env{
		Kind:      string(opt.Kind),
		EV:        opt.ExpectedValue,
		Success:   opt.SuccessProbability,
		Intercept: opt.InterceptionProbability,
		Gain:      opt.ZoneGain,
	}) {
		return options
	}
	return append(options, opt)
}

// pressureAt inverts the mean distance of the nearest defenders into a
// normalized pressure value.
func (e *Engine) pressureAt(p pitch.Point, defenders []state.Actor) float64 {
	if len(defenders) == 0 {
		return 0
	}
	distances := make([]float64, len(defenders))
	for i, d := range defenders {
		distances[i] = d.Position.DistanceTo(p)
	}
	sort.Float64s(distances)

	n := pressureSampleCount
	if len(distances) < n {
		n = len(distances)
	}
	sum := 0.0
	for _, d := range distances[:n] {
		sum += d
	}
	avg := sum / float64(n)

	pressure := 1 - avg/pressureRadius
	if pressure < 0 {
		return 0
	}
	return pressure
}

// shotOption offers a shot when a carrier holds the ball within range of
// goal. The shot value doubles as its success probability: the outcome is
// binary. Pressure on the shooter comes through the block model, not the
// passer penalty.
func (e *Engine) shotOption(snap state.Snapshot) (ProgressionOption, bool) {
	if _, ok := snap.Carrier(); !ok {
		return ProgressionOption{}, false
	}

	goal := e.grid.Dimensions().AttackingGoal()
	ball := snap.Ball.Position
	if ball.DistanceTo(goal) > e.shotRange {
		return ProgressionOption{}, false
	}

	quality := e.shot.Evaluate(ball, snap.Defenders)
	origin := e.grid.ValueAt(ball)

	opt := ProgressionOption{
		Kind:                    KindShot,
		Target:                  goal,
		SuccessProbability:      quality.Value,
		InterceptionProbability: quality.BlockProbability,
		ZoneValueOrigin:         origin,
		ZoneValueTarget:         goalValue,
		ZoneGain:                goalValue - origin,
		TurnoverCost:            e.turnoverCost(ball, goal),
	}
	e.score(&opt)
	return opt, true
}

// passOption evaluates a pass to one teammate.
func (e *Engine) passOption(snap state.Snapshot, mate state.Actor, pressure float64) ProgressionOption {
	ball := snap.Ball.Position
	target := mate.Position
	forward := target.X > ball.X

	reception := e.reception.Assess(mate, ball, snap.Defenders)

	opt := ProgressionOption{
		Kind:                    KindPass,
		TargetID:                mate.ID,
		Target:                  target,
		SuccessProbability:      e.pass.SuccessProbability(ball, target, snap.Defenders, pressure, forward),
		InterceptionProbability: e.intercept.Probability(ball, target, snap.Defenders, false),
		ZoneValueOrigin:         e.grid.ValueAt(ball),
		ZoneValueTarget:         e.grid.ValueAt(target),
		TurnoverCost:            e.turnoverCost(ball, target),
		Reception:               &reception,
	}
	opt.ZoneGain = opt.ZoneValueTarget - opt.ZoneValueOrigin
	e.score(&opt)
	return opt
}

// throughBallOption evaluates a pass into a detected gap.
func (e *Engine) throughBallOption(snap state.Snapshot, g gaps.Gap, pressure float64) ProgressionOption {
	ball := snap.Ball.Position

	opt := ProgressionOption{
		Kind:                    KindThroughBall,
		Target:                  g.Location,
		SuccessProbability:      e.pass.SuccessProbability(ball, g.Location, snap.Defenders, pressure, true) * throughBallPenalty,
		InterceptionProbability: e.intercept.Probability(ball, g.Location, snap.Defenders, false),
		ZoneValueOrigin:         e.grid.ValueAt(ball),
		ZoneValueTarget:         g.ZoneValue,
		TurnoverCost:            e.turnoverCost(ball, g.Location),
	}
	opt.ZoneGain = opt.ZoneValueTarget - opt.ZoneValueOrigin
	e.score(&opt)
	return opt
}

// dribbleOption evaluates one carry candidate.
func (e *Engine) dribbleOption(snap state.Snapshot, cand predict.DribbleCandidate) ProgressionOption {
	ball := snap.Ball.Position

	opt := ProgressionOption{
		Kind:               KindDribble,
		Target:             cand.Target,
		SuccessProbability: cand.SuccessProbability,
		ZoneValueOrigin:    e.grid.ValueAt(ball),
		ZoneValueTarget:    e.grid.ValueAt(cand.Target),
		TurnoverCost:       e.turnoverCost(ball, cand.Target),
	}
	opt.ZoneGain = opt.ZoneValueTarget - opt.ZoneValueOrigin
	e.score(&opt)
	return opt
}

// score fills the expected value and recommendation from the option's
// probabilities. EV = p×gain − (1−p)×cost, exactly.
func (e *Engine) score(opt *ProgressionOption) {
	p := opt.SuccessProbability
	opt.ExpectedValue = p*opt.ZoneGain - (1-p)*opt.TurnoverCost
	opt.Recommendation = e.recommend(opt.ExpectedValue, p)
}

func (e *Engine) recommend(ev, success float64) Recommendation {
	switch {
	case ev >= e.evHigh:
		return RecommendHighValue
	case success >= safeRecommendSuccess && ev >= 0:
		return RecommendSafe
	case ev >= e.evSafe:
		return RecommendModerate
	case ev >= 0:
		return RecommendLowValue
	default:
		return RecommendAvoid
	}
}

// turnoverCost estimates the damage of losing the ball at the target. The
// cost rises in the attacking third, where a turnover feeds the counter,
// and with pass length, which leaves more space behind the ball.
func (e *Engine) turnoverCost(from, to pitch.Point) float64 {
	length := e.grid.Dimensions().Length
	var base float64
	switch {
	case from.X > length/6:
		base = turnoverAttackingThird
	case from.X > -length/6:
		base = turnoverMiddleThird
	default:
		base = turnoverOwnThird
	}
	return base * (1 + from.DistanceTo(to)/turnoverDistanceScale)
}
