// Package execute resolves a chosen progression option into the next
// snapshot. Resolution is deterministic: geometry and timing decide every
// contest, so replaying the same option on the same snapshot always yields
// the same result.
package execute

import (
	"context"

	"github.com/okian/tiki/internal/domain/engine"
	"github.com/okian/tiki/internal/domain/motion"
	"github.com/okian/tiki/internal/domain/pitch"
	"github.com/okian/tiki/internal/domain/state"
)

// Outcome classifies the result of executing one action.
type Outcome string

// Outcomes.
const (
	OutcomeSuccess     Outcome = "SUCCESS"
	OutcomeIntercepted Outcome = "INTERCEPTED"
	OutcomeBlocked     Outcome = "BLOCKED"
	OutcomeGoal        Outcome = "GOAL"
	OutcomeOutOfBounds Outcome = "OUT_OF_BOUNDS"
)

// Execution constants. Interception favors the ball slightly: a defender
// must beat the pass with time to spare, not merely tie it.
const (
	passSpeed         = 15.0 // m/s along the ground
	passCorridor      = 3.0  // meters either side of the pass line
	passTimeAdvantage = 0.8  // defender must arrive within this fraction of the ball's time

	tackleRadius = 2.0 // meters within which a defender wins the ball from a carrier

	shotBlockCorridor = 2.0 // meters either side of the shot line

	stepDuration     = 0.5 // seconds advanced by a normal action
	kickoffDuration  = 1.0 // seconds consumed by the restart after a goal
	convergeFraction = 0.5 // defenders track the ball at half their top speed
	convergeMinDist  = 1.0 // meters inside which a defender stops closing
)

// Result is the resolved outcome of one executed action. DefenderID names
// the defender that decided the contest, when one did.
type Result struct {
	Outcome    Outcome
	After      state.Snapshot
	DefenderID string
}

// Possession reports whether the attacking side still has the ball.
func (r Result) Possession() bool {
	return r.Outcome == OutcomeSuccess || r.Outcome == OutcomeGoal
}

// Executor applies options to snapshots.
type Executor struct {
	dims pitch.Dimensions
}

// NewExecutor builds an executor for the given pitch.
func NewExecutor(dims pitch.Dimensions) *Executor {
	return &Executor{dims: dims}
}

// Execute resolves opt against snap and returns the resulting state. The
// input snapshot is never modified. The context is accepted for interface
// symmetry; execution is bounded and does not block.
func (e *Executor) Execute(_ context.Context, snap state.Snapshot, opt engine.ProgressionOption) (Result, error) {
	switch opt.Kind {
	case engine.KindPass, engine.KindThroughBall:
		return e.pass(snap, opt), nil
	case engine.KindDribble:
		return e.dribble(snap, opt)
	case engine.KindShot:
		return e.shot(snap, opt)
	default:
		return Result{}, ErrUnknownAction
	}
}

// pass resolves a pass or through ball toward opt.Target.
func (e *Executor) pass(snap state.Snapshot, opt engine.ProgressionOption) Result {
	from := snap.Ball.Position
	target := opt.Target

	if !e.dims.Contains(target) {
		return e.outOfBounds(snap, target)
	}

	if interceptor, ok := e.interceptingDefender(snap.Defenders, from, target); ok {
		return e.turnover(snap, interceptor, interceptor.Position)
	}
	// A defender marking the receiver tight wins the arriving ball even
	// when the flight itself was clean.
	if marker, ok := state.AtPosition(snap.Defenders, target); ok {
		return e.turnover(snap, marker, target)
	}

	after := snap
	after.Timestamp += stepDuration
	after.Ball = state.Ball{Position: target}

	if opt.TargetID != "" {
		after.Ball.CarrierID = opt.TargetID
		after.Attackers = moveActor(snap.Attackers, opt.TargetID, target)
	} else {
		// A ball into space is a race. Whichever side arrives first
		// collects it.
		runner, runnerTime := fastestTo(target, snap.Attackers)
		chaser, chaserTime := fastestTo(target, snap.Defenders)
		if chaser != nil && (runner == nil || chaserTime < runnerTime) {
			return e.turnover(snap, *chaser, target)
		}
		if runner != nil {
			after.Ball.CarrierID = runner.ID
			after.Attackers = moveActor(snap.Attackers, runner.ID, target)
		}
	}

	after.Defenders = convergeOnBall(after.Defenders, target)
	return Result{Outcome: OutcomeSuccess, After: after}
}

// dribble resolves a carry to opt.Target. Any defender close enough to the
// start or end of the run makes the tackle.
func (e *Executor) dribble(snap state.Snapshot, opt engine.ProgressionOption) (Result, error) {
	carrier, ok := snap.Carrier()
	if !ok {
		return Result{}, ErrNoCarrier
	}

	target := e.dims.Clamp(opt.Target)
	for _, d := range snap.Defenders {
		if d.Position.DistanceTo(carrier.Position) < tackleRadius ||
			d.Position.DistanceTo(target) < tackleRadius {
			return e.turnover(snap, d, carrier.Position), nil
		}
	}

	after := snap
	after.Timestamp += stepDuration
	after.Ball = state.Ball{Position: target, CarrierID: carrier.ID}
	after.Attackers = moveActor(snap.Attackers, carrier.ID, target)
	after.Defenders = convergeOnBall(snap.Defenders, target)
	return Result{Outcome: OutcomeSuccess, After: after}, nil
}

// shot resolves a strike at goal. A defender inside the block corridor and
// nearer the goal than the shooter stops it; otherwise the shot scores and
// play restarts from the center spot.
func (e *Executor) shot(snap state.Snapshot, opt engine.ProgressionOption) (Result, error) {
	if _, ok := snap.Carrier(); !ok {
		return Result{}, ErrNoCarrier
	}

	from := snap.Ball.Position
	goal := e.dims.AttackingGoal()
	shotLength := from.DistanceTo(goal)

	for _, d := range snap.Defenders {
		if pitch.PerpendicularDistance(d.Position, from, goal) >= shotBlockCorridor {
			continue
		}
		if d.Position.DistanceTo(goal) >= shotLength {
			continue
		}
		res := e.turnover(snap, d, d.Position)
		res.Outcome = OutcomeBlocked
		return res, nil
	}

	// Goal. Ball returns to the center spot for the restart; everyone
	// holds position while the clock runs through the kickoff.
	after := snap
	after.Timestamp += kickoffDuration
	after.Ball = state.Ball{Position: pitch.Point{}}
	return Result{Outcome: OutcomeGoal, After: after}, nil
}

// outOfBounds hands a dead ball to the defending side at the spot it left
// play.
func (e *Executor) outOfBounds(snap state.Snapshot, target pitch.Point) Result {
	after := snap
	after.Timestamp += stepDuration
	after.Ball = state.Ball{Position: e.dims.Clamp(target)}
	after.Attackers, after.Defenders = snap.Defenders, snap.Attackers
	return Result{Outcome: OutcomeOutOfBounds, After: after}
}

// turnover flips possession to the given defender at the given spot.
func (e *Executor) turnover(snap state.Snapshot, d state.Actor, at pitch.Point) Result {
	after := snap
	after.Timestamp += stepDuration
	after.Ball = state.Ball{Position: at, CarrierID: d.ID}
	after.Attackers = moveActor(snap.Defenders, d.ID, at)
	after.Defenders = snap.Attackers
	return Result{Outcome: OutcomeIntercepted, After: after, DefenderID: d.ID}
}

// interceptingDefender finds the first defender that cuts out a pass from
// from to target. The defender must stand inside the corridor and beat the
// ball to its own closest point on the line with time to spare.
func (e *Executor) interceptingDefender(defenders []state.Actor, from, target pitch.Point) (state.Actor, bool) {
	line := from.VectorTo(target)
	length := line.Norm()
	if length < 1e-9 {
		return state.Actor{}, false
	}
	unit := line.Unit()

	for _, d := range defenders {
		if pitch.PerpendicularDistance(d.Position, from, target) >= passCorridor {
			continue
		}
		along := from.VectorTo(d.Position).Dot(unit)
		if along <= 0 || along >= length {
			continue
		}
		cutPoint := from.Add(unit.Scale(along))
		ballTime := along / passSpeed
		if motion.TimeToReach(cutPoint, d) < ballTime*passTimeAdvantage {
			return d, true
		}
	}
	return state.Actor{}, false
}

// convergeOnBall moves every defender toward the ball at half speed for one
// step. Defenders already on top of the ball hold position.
func convergeOnBall(defenders []state.Actor, ball pitch.Point) []state.Actor {
	out := make([]state.Actor, len(defenders))
	for i, d := range defenders {
		out[i] = d
		toBall := d.Position.VectorTo(ball)
		dist := toBall.Norm()
		if dist <= convergeMinDist {
			continue
		}
		step := d.TopSpeed * convergeFraction * stepDuration
		if step > dist-convergeMinDist {
			step = dist - convergeMinDist
		}
		out[i] = d.MovedTo(d.Position.Add(toBall.Unit().Scale(step)))
	}
	return out
}

// moveActor returns a copy of list with the named actor relocated.
func moveActor(list []state.Actor, id string, to pitch.Point) []state.Actor {
	out := make([]state.Actor, len(list))
	for i, a := range list {
		if a.ID == id {
			out[i] = a.MovedTo(to)
		} else {
			out[i] = a
		}
	}
	return out
}

// fastestTo returns the actor in list that reaches p soonest.
func fastestTo(p pitch.Point, list []state.Actor) (*state.Actor, float64) {
	var best *state.Actor
	bestTime := 0.0
	for i := range list {
		t := motion.TimeToReach(p, list[i])
		if best == nil || t < bestTime {
			best, bestTime = &list[i], t
		}
	}
	return best, bestTime
}
