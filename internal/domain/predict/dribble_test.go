package predict_test

import (
	"testing"

	"github.com/okian/tiki/internal/domain/pitch"
	"github.com/okian/tiki/internal/domain/predict"
	"github.com/okian/tiki/internal/domain/state"
	. "github.com/smartystreets/goconvey/convey"
)

func TestDribbleModel_Candidates(t *testing.T) {
	Convey("Given a dribble model on the standard pitch", t, func() {
		model := predict.NewDribbleModel(pitch.Standard())
		carrier := state.NewActor("a7", pitch.Point{X: 0, Y: 0})

		Convey("When no one contests the carry", func() {
			candidates := model.Candidates(carrier, nil, 0)

			Convey("Then the forward fan has five targets at the base probability", func() {
				So(candidates, ShouldHaveLength, 5)
				for _, c := range candidates {
					So(c.SuccessProbability, ShouldAlmostEqual, 0.70)
					So(c.Target.X, ShouldBeGreaterThan, carrier.Position.X)
				}
			})
		})

		Convey("When a defender sits straight ahead", func() {
			defenders := []state.Actor{state.NewActor("d1", pitch.Point{X: 5, Y: 0})}
			candidates := model.Candidates(carrier, defenders, 0)

			Convey("Then the contested carry is penalized while the wide ones are not", func() {
				var contested, free int
				for _, c := range candidates {
					if c.SuccessProbability < 0.5 {
						contested++
					} else {
						free++
					}
				}
				So(contested, ShouldBeGreaterThanOrEqualTo, 1)
				So(free, ShouldBeGreaterThanOrEqualTo, 1)
			})
		})

		Convey("When the carrier is under pressure", func() {
			free := model.Candidates(carrier, nil, 0)
			pressed := model.Candidates(carrier, nil, 1)

			Convey("Then every candidate loses probability", func() {
				for i := range pressed {
					So(pressed[i].SuccessProbability, ShouldBeLessThan, free[i].SuccessProbability)
				}
			})
		})

		Convey("When the carrier is at the edge of the pitch", func() {
			edgeCarrier := state.NewActor("a9", pitch.Point{X: 51, Y: 0})
			candidates := model.Candidates(edgeCarrier, nil, 0)

			Convey("Then every target is clamped in bounds", func() {
				for _, c := range candidates {
					So(pitch.Standard().Contains(c.Target), ShouldBeTrue)
				}
			})
		})
	})
}

func TestDribbleModel_Options(t *testing.T) {
	Convey("Given a dribble model with a longer step", t, func() {
		model := predict.NewDribbleModel(pitch.Standard(), predict.WithDribbleStep(10))
		carrier := state.NewActor("a7", pitch.Point{X: 0, Y: 0})

		Convey("Then the straight candidate lands ten meters ahead", func() {
			candidates := model.Candidates(carrier, nil, 0)
			var straight *predict.DribbleCandidate
			for i := range candidates {
				if candidates[i].Target.Y == 0 {
					straight = &candidates[i]
				}
			}
			So(straight, ShouldNotBeNil)
			So(straight.Target.X, ShouldAlmostEqual, 10.0)
		})
	})
}
