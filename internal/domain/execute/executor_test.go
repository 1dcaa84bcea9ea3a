package execute_test

import (
	"context"
	"testing"

	"github.com/okian/tiki/internal/domain/engine"
	"github.com/okian/tiki/internal/domain/execute"
	"github.com/okian/tiki/internal/domain/pitch"
	"github.com/okian/tiki/internal/domain/state"
	. "github.com/smartystreets/goconvey/convey"
)

func TestExecutor_Pass(t *testing.T) {
	Convey("Given an executor on the standard pitch", t, func() {
		exec := execute.NewExecutor(pitch.Standard())
		ctx := context.Background()

		snap := state.Snapshot{
			Ball: state.Ball{Position: pitch.Point{X: 0, Y: 0}, CarrierID: "a7"},
			Attackers: []state.Actor{
				state.NewActor("a7", pitch.Point{X: 0, Y: 0}),
				state.NewActor("a9", pitch.Point{X: 20, Y: 10}),
			},
			Defenders: []state.Actor{
				state.NewActor("d1", pitch.Point{X: 30, Y: -20}),
			},
			Timestamp: 5.0,
		}

		Convey("When the pass target is open", func() {
			opt := engine.ProgressionOption{
				Kind:     engine.KindPass,
				TargetID: "a9",
				Target:   pitch.Point{X: 20, Y: 10},
			}
			result, err := exec.Execute(ctx, snap, opt)

			Convey("Then the ball arrives and the receiver becomes the carrier", func() {
				So(err, ShouldBeNil)
				So(result.Outcome, ShouldEqual, execute.OutcomeSuccess)
				So(result.Possession(), ShouldBeTrue)
				So(result.After.Ball.CarrierID, ShouldEqual, "a9")
				So(result.After.Ball.Position, ShouldResemble, pitch.Point{X: 20, Y: 10})
				So(result.After.Timestamp, ShouldAlmostEqual, 5.5)
			})

			Convey("Then the input snapshot is untouched", func() {
				So(err, ShouldBeNil)
				So(snap.Ball.CarrierID, ShouldEqual, "a7")
				So(snap.Timestamp, ShouldEqual, 5.0)
			})

			Convey("Then defenders converge on the new ball position", func() {
				So(err, ShouldBeNil)
				before := snap.Defenders[0].Position.DistanceTo(opt.Target)
				after := result.After.Defenders[0].Position.DistanceTo(opt.Target)
				So(after, ShouldBeLessThan, before)
			})
		})

		Convey("When a defender marks the receiver tight", func() {
			snap.Defenders = []state.Actor{state.NewActor("d1", pitch.Point{X: 20, Y: 11})}
			opt := engine.ProgressionOption{
				Kind:     engine.KindPass,
				TargetID: "a9",
				Target:   pitch.Point{X: 20, Y: 10},
			}
			result, err := exec.Execute(ctx, snap, opt)

			Convey("Then the marker wins the arriving ball", func() {
				So(err, ShouldBeNil)
				So(result.Outcome, ShouldEqual, execute.OutcomeIntercepted)
				So(result.Possession(), ShouldBeFalse)
				So(result.DefenderID, ShouldEqual, "d1")
			})

			Convey("Then possession flips sides", func() {
				So(err, ShouldBeNil)
				So(result.After.Ball.CarrierID, ShouldEqual, "d1")
				So(result.After.Attackers[0].ID, ShouldEqual, "d1")
				So(result.After.Defenders, ShouldHaveLength, 2)
			})
		})

		Convey("When a defender camps on the pass line", func() {
			snap.Defenders = []state.Actor{state.NewActor("d1", pitch.Point{X: 10, Y: 5})}
			opt := engine.ProgressionOption{
				Kind:     engine.KindPass,
				TargetID: "a9",
				Target:   pitch.Point{X: 20, Y: 10},
			}
			result, err := exec.Execute(ctx, snap, opt)

			Convey("Then the pass is cut out mid-flight", func() {
				So(err, ShouldBeNil)
				So(result.Outcome, ShouldEqual, execute.OutcomeIntercepted)
				So(result.DefenderID, ShouldEqual, "d1")
			})
		})

		Convey("When the target is off the pitch", func() {
			opt := engine.ProgressionOption{
				Kind:   engine.KindPass,
				Target: pitch.Point{X: 60, Y: 0},
			}
			result, err := exec.Execute(ctx, snap, opt)

			Convey("Then the ball goes dead to the defending side", func() {
				So(err, ShouldBeNil)
				So(result.Outcome, ShouldEqual, execute.OutcomeOutOfBounds)
				So(result.After.Ball.Loose(), ShouldBeTrue)
				So(result.After.Attackers[0].ID, ShouldEqual, "d1")
			})
		})
	})
}

func TestExecutor_ThroughBall(t *testing.T) {
	Convey("Given a through ball into space", t, func() {
		exec := execute.NewExecutor(pitch.Standard())
		ctx := context.Background()

		snap := state.Snapshot{
			Ball: state.Ball{Position: pitch.Point{X: 0, Y: 0}, CarrierID: "a7"},
			Attackers: []state.Actor{
				state.NewActor("a7", pitch.Point{X: 0, Y: 0}),
				state.NewActor("a9", pitch.Point{X: 25, Y: 8}),
			},
			Defenders: []state.Actor{
				state.NewActor("d1", pitch.Point{X: 30, Y: -30}),
			},
		}
		target := pitch.Point{X: 30, Y: 10}
		opt := engine.ProgressionOption{Kind: engine.KindThroughBall, Target: target}

		Convey("When the runner wins the race", func() {
			result, err := exec.Execute(ctx, snap, opt)

			Convey("Then the nearest attacker collects in space", func() {
				So(err, ShouldBeNil)
				So(result.Outcome, ShouldEqual, execute.OutcomeSuccess)
				So(result.After.Ball.CarrierID, ShouldEqual, "a9")
			})
		})

		Convey("When a defender is closer to the landing spot", func() {
			snap.Defenders = []state.Actor{state.NewActor("d1", pitch.Point{X: 33, Y: 10})}
			snap.Attackers[1] = state.NewActor("a9", pitch.Point{X: 10, Y: 25})
			result, err := exec.Execute(ctx, snap, opt)

			Convey("Then the defense collects instead", func() {
				So(err, ShouldBeNil)
				So(result.Outcome, ShouldEqual, execute.OutcomeIntercepted)
				So(result.DefenderID, ShouldEqual, "d1")
			})
		})
	})
}

func TestExecutor_Dribble(t *testing.T) {
	Convey("Given an executor on the standard pitch", t, func() {
		exec := execute.NewExecutor(pitch.Standard())
		ctx := context.Background()

		snap := state.Snapshot{
			Ball: state.Ball{Position: pitch.Point{X: 0, Y: 0}, CarrierID: "a7"},
			Attackers: []state.Actor{
				state.NewActor("a7", pitch.Point{X: 0, Y: 0}),
			},
			Defenders: []state.Actor{
				state.NewActor("d1", pitch.Point{X: 20, Y: 20}),
			},
		}
		opt := engine.ProgressionOption{Kind: engine.KindDribble, Target: pitch.Point{X: 5, Y: 0}}

		Convey("When the carry is unchallenged", func() {
			result, err := exec.Execute(ctx, snap, opt)

			Convey("Then the carrier advances with the ball", func() {
				So(err, ShouldBeNil)
				So(result.Outcome, ShouldEqual, execute.OutcomeSuccess)
				So(result.After.Ball.CarrierID, ShouldEqual, "a7")
				So(result.After.Ball.Position, ShouldResemble, pitch.Point{X: 5, Y: 0})
				So(result.After.Attackers[0].Position, ShouldResemble, pitch.Point{X: 5, Y: 0})
			})
		})

		Convey("When a defender stands at the end of the run", func() {
			snap.Defenders = []state.Actor{state.NewActor("d1", pitch.Point{X: 6, Y: 0})}
			result, err := exec.Execute(ctx, snap, opt)

			Convey("Then the tackle wins the ball", func() {
				So(err, ShouldBeNil)
				So(result.Outcome, ShouldEqual, execute.OutcomeIntercepted)
				So(result.DefenderID, ShouldEqual, "d1")
			})
		})

		Convey("When the ball is loose", func() {
			snap.Ball.CarrierID = ""
			_, err := exec.Execute(ctx, snap, opt)

			Convey("Then there is no one to carry it", func() {
				So(err, ShouldEqual, execute.ErrNoCarrier)
			})
		})
	})
}

func TestExecutor_Shot(t *testing.T) {
	Convey("Given a carrier in front of goal", t, func() {
		exec := execute.NewExecutor(pitch.Standard())
		ctx := context.Background()

		snap := state.Snapshot{
			Ball: state.Ball{Position: pitch.Point{X: 45, Y: 0}, CarrierID: "a9"},
			Attackers: []state.Actor{
				state.NewActor("a9", pitch.Point{X: 45, Y: 0}),
			},
			Timestamp: 30.0,
		}
		opt := engine.ProgressionOption{Kind: engine.KindShot, Target: pitch.Point{X: 52.5, Y: 0}}

		Convey("When the path to goal is clear", func() {
			result, err := exec.Execute(ctx, snap, opt)

			Convey("Then the shot scores and play restarts from the center", func() {
				So(err, ShouldBeNil)
				So(result.Outcome, ShouldEqual, execute.OutcomeGoal)
				So(result.Possession(), ShouldBeTrue)
				So(result.After.Ball.Position, ShouldResemble, pitch.Point{})
				So(result.After.Ball.Loose(), ShouldBeTrue)
				So(result.After.Timestamp, ShouldAlmostEqual, 31.0)
			})
		})

		Convey("When a defender stands in the shot corridor", func() {
			snap.Defenders = []state.Actor{state.NewActor("d1", pitch.Point{X: 48, Y: 1})}
			result, err := exec.Execute(ctx, snap, opt)

			Convey("Then the shot is blocked and possession flips", func() {
				So(err, ShouldBeNil)
				So(result.Outcome, ShouldEqual, execute.OutcomeBlocked)
				So(result.Possession(), ShouldBeFalse)
				So(result.DefenderID, ShouldEqual, "d1")
				So(result.After.Ball.CarrierID, ShouldEqual, "d1")
			})
		})

		Convey("When a defender trails behind the shooter", func() {
			snap.Defenders = []state.Actor{state.NewActor("d1", pitch.Point{X: 40, Y: 0})}
			result, err := exec.Execute(ctx, snap, opt)

			Convey("Then the shot still scores", func() {
				So(err, ShouldBeNil)
				So(result.Outcome, ShouldEqual, execute.OutcomeGoal)
			})
		})

		Convey("When the ball is loose", func() {
			snap.Ball.CarrierID = ""
			_, err := exec.Execute(ctx, snap, opt)

			Convey("Then there is no shooter", func() {
				So(err, ShouldEqual, execute.ErrNoCarrier)
			})
		})
	})
}

func TestExecutor_UnknownAction(t *testing.T) {
	Convey("Given an option with an unknown kind", t, func() {
		exec := execute.NewExecutor(pitch.Standard())
		snap := state.Snapshot{
			Ball:      state.Ball{Position: pitch.Point{}, CarrierID: "a7"},
			Attackers: []state.Actor{state.NewActor("a7", pitch.Point{})},
		}

		Convey("Then execution refuses it", func() {
			_, err := exec.Execute(context.Background(), snap, engine.ProgressionOption{Kind: "volley"})
			So(err, ShouldEqual, execute.ErrUnknownAction)
		})
	})
}
