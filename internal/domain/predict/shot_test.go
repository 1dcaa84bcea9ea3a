package predict_test

import (
	"testing"

	"github.com/okian/tiki/internal/domain/pitch"
	"github.com/okian/tiki/internal/domain/predict"
	"github.com/okian/tiki/internal/domain/state"
	. "github.com/smartystreets/goconvey/convey"
)

func TestShotModel_Evaluate(t *testing.T) {
	Convey("Given a shot model on the standard pitch", t, func() {
		model := predict.NewShotModel(pitch.Standard())
		spot := pitch.Point{X: 45, Y: 0} // 7.5 m out, straight in front

		Convey("When no one defends the goal", func() {
			quality := model.Evaluate(spot, nil)

			Convey("Then nothing reduces the positional value", func() {
				So(quality.BlockProbability, ShouldEqual, 0)
				So(quality.SaveProbability, ShouldEqual, 0)
				So(quality.Value, ShouldAlmostEqual, quality.Base)
				So(quality.Base, ShouldAlmostEqual, 0.35)
			})
		})

		Convey("When shooting from point-blank range at an empty goal", func() {
			quality := model.Evaluate(pitch.Point{X: 49, Y: 0}, nil)

			Convey("Then the final value is the raw positional value", func() {
				So(quality.BlockProbability, ShouldEqual, 0)
				So(quality.SaveProbability, ShouldEqual, 0)
				So(quality.Base, ShouldAlmostEqual, 0.60)
				So(quality.Value, ShouldAlmostEqual, quality.Base)
			})
		})

		Convey("When a keeper stands on the shot line", func() {
			keeper := state.NewActor("gk", pitch.Point{X: 50, Y: 0})
			keeper.Goalkeeper = true
			quality := model.Evaluate(spot, []state.Actor{keeper})

			Convey("Then the save probability cuts the value", func() {
				So(quality.SaveProbability, ShouldAlmostEqual, 0.5375, 1e-9)
				So(quality.Value, ShouldBeLessThan, quality.Base)
			})
		})

		Convey("When an outfield defender stands in the shot corridor", func() {
			blocker := state.NewActor("d1", pitch.Point{X: 48, Y: 0.5})
			quality := model.Evaluate(spot, []state.Actor{blocker})

			Convey("Then the block probability rises", func() {
				So(quality.BlockProbability, ShouldBeGreaterThan, 0.3)
				So(quality.Value, ShouldBeLessThan, quality.Base)
			})
		})

		Convey("When the defender is behind the shooter", func() {
			trailer := state.NewActor("d1", pitch.Point{X: 42, Y: 0})
			quality := model.Evaluate(spot, []state.Actor{trailer})

			Convey("Then it cannot block", func() {
				So(quality.BlockProbability, ShouldEqual, 0)
			})
		})

		Convey("Then value decays with distance", func() {
			near := model.Evaluate(pitch.Point{X: 47, Y: 0}, nil)
			mid := model.Evaluate(spot, nil)
			long := model.Evaluate(pitch.Point{X: 35, Y: 0}, nil)
			So(near.Value, ShouldBeGreaterThan, mid.Value)
			So(mid.Value, ShouldBeGreaterThan, long.Value)
		})

		Convey("Then a wide position is worth less than a central one", func() {
			central := model.Evaluate(spot, nil)
			wide := model.Evaluate(pitch.Point{X: 45, Y: 20}, nil)
			So(wide.Value, ShouldBeLessThan, central.Value)
		})

		Convey("Then the value never leaves its bounds", func() {
			quality := model.Evaluate(pitch.Point{X: -50, Y: 33}, nil)
			So(quality.Value, ShouldBeGreaterThanOrEqualTo, predict.ShotMinValue)
			So(quality.Value, ShouldBeLessThanOrEqualTo, predict.ShotMaxValue)
		})
	})
}
