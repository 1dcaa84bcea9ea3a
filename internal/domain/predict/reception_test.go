package predict_test

import (
	"math"
	"testing"

	"github.com/okian/tiki/internal/domain/pitch"
	"github.com/okian/tiki/internal/domain/predict"
	"github.com/okian/tiki/internal/domain/state"
	. "github.com/smartystreets/goconvey/convey"
)

func TestReceptionModel_Assess(t *testing.T) {
	Convey("Given a reception model on the standard pitch", t, func() {
		model := predict.NewReceptionModel(pitch.Standard())
		passFrom := pitch.Point{X: 0, Y: 0}

		Convey("When the feed supplied no orientation", func() {
			receiver := state.NewActor("a9", pitch.Point{X: 10, Y: 0})
			reception := model.Assess(receiver, passFrom, nil)

			Convey("Then the moderate difficulty band applies", func() {
				So(reception.Difficulty, ShouldAlmostEqual, 0.30)
				So(reception.FacesGoal, ShouldBeTrue)
			})
		})

		Convey("When the receiver already faces the ball's direction of travel", func() {
			receiver := state.NewActor("a9", pitch.Point{X: 10, Y: 0})
			receiver.Facing = 0
			receiver.HasFacing = true
			reception := model.Assess(receiver, passFrom, nil)

			Convey("Then the first touch is easy and goal-facing", func() {
				So(reception.Difficulty, ShouldAlmostEqual, 0.10)
				So(reception.FacesGoal, ShouldBeTrue)
			})
		})

		Convey("When the receiver faces its own goal", func() {
			receiver := state.NewActor("a9", pitch.Point{X: 10, Y: 0})
			receiver.Facing = math.Pi
			receiver.HasFacing = true
			reception := model.Assess(receiver, passFrom, nil)

			Convey("Then the ball arrives from behind", func() {
				So(reception.Difficulty, ShouldAlmostEqual, 0.85)
				So(reception.FacesGoal, ShouldBeFalse)
			})
		})

		Convey("When a defender is right on top of the receiver", func() {
			receiver := state.NewActor("a9", pitch.Point{X: 10, Y: 0})
			defenders := []state.Actor{state.NewActor("d1", pitch.Point{X: 10, Y: 0.5})}
			reception := model.Assess(receiver, passFrom, defenders)

			Convey("Then control happens under pressure", func() {
				So(reception.Pressure, ShouldBeGreaterThan, 0.5)
			})
		})

		Convey("When the nearest defender is far away", func() {
			receiver := state.NewActor("a9", pitch.Point{X: 10, Y: 0})
			defenders := []state.Actor{state.NewActor("d1", pitch.Point{X: 40, Y: 20})}
			reception := model.Assess(receiver, passFrom, defenders)

			Convey("Then there is no pressure at all", func() {
				So(reception.Pressure, ShouldEqual, 0)
			})
		})
	})
}
