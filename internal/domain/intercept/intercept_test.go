package intercept_test

import (
	"testing"

	"github.com/okian/tiki/internal/domain/intercept"
	"github.com/okian/tiki/internal/domain/pitch"
	"github.com/okian/tiki/internal/domain/state"
	. "github.com/smartystreets/goconvey/convey"
)

func TestModel_Probability(t *testing.T) {
	Convey("Given an interception model with default ball speeds", t, func() {
		model := intercept.NewModel()
		start := pitch.Point{X: 0, Y: 0}
		end := pitch.Point{X: 30, Y: 0}

		Convey("Then no defenders means no interception", func() {
			So(model.Probability(start, end, nil, false), ShouldEqual, 0)
		})

		Convey("Then a degenerate trajectory cannot be intercepted", func() {
			defenders := []state.Actor{state.NewActor("d1", start)}
			So(model.Probability(start, start, defenders, false), ShouldEqual, 0)
		})

		Convey("Then the probability stays within the curve's bounds", func() {
			defenders := []state.Actor{state.NewActor("d1", pitch.Point{X: 15, Y: 1})}
			p := model.Probability(start, end, defenders, false)
			So(p, ShouldBeGreaterThan, 0)
			So(p, ShouldBeLessThanOrEqualTo, 0.9)
		})

		Convey("Then a defender crowding the passer threatens a short pass more than a distant one", func() {
			short := pitch.Point{X: 5, Y: 0}
			near := model.Probability(start, short, []state.Actor{
				state.NewActor("d1", pitch.Point{X: 1, Y: 0}),
			}, false)
			far := model.Probability(start, short, []state.Actor{
				state.NewActor("d1", pitch.Point{X: 15, Y: 35}),
			}, false)
			So(near, ShouldBeGreaterThan, far)
			So(far, ShouldAlmostEqual, 0.05)
		})

		Convey("Then an aerial ball is harder to intercept than a ground ball", func() {
			defenders := []state.Actor{state.NewActor("d1", pitch.Point{X: 20, Y: 2})}
			ground := model.Probability(start, end, defenders, false)
			aerial := model.Probability(start, end, defenders, true)
			So(aerial, ShouldBeLessThanOrEqualTo, ground)
		})
	})
}

func TestModel_Options(t *testing.T) {
	Convey("Given a model with a slower ground ball", t, func() {
		slow := intercept.NewModel(intercept.WithGroundSpeed(8))
		fast := intercept.NewModel()

		start := pitch.Point{X: 0, Y: 0}
		end := pitch.Point{X: 5, Y: 0}
		defenders := []state.Actor{state.NewActor("d1", pitch.Point{X: 1, Y: 0})}

		Convey("Then the slower ball is easier to cut out", func() {
			So(slow.Probability(start, end, defenders, false),
				ShouldBeGreaterThanOrEqualTo,
				fast.Probability(start, end, defenders, false))
		})
	})
}

func TestModel_CanIntercept(t *testing.T) {
	Convey("Given a thirty-meter ground pass", t, func() {
		model := intercept.NewModel()
		start := pitch.Point{X: 0, Y: 0}
		end := pitch.Point{X: 30, Y: 0}

		Convey("Then a defender sitting near the receiving end beats the ball", func() {
			d := state.NewActor("d1", pitch.Point{X: 28, Y: 0})
			ok, frac := model.CanIntercept(start, end, d, false)
			So(ok, ShouldBeTrue)
			So(frac, ShouldBeGreaterThan, 0)
			So(frac, ShouldBeLessThanOrEqualTo, 1)
		})

		Convey("Then a defender far from the line never gets there", func() {
			d := state.NewActor("d1", pitch.Point{X: 15, Y: 40})
			ok, frac := model.CanIntercept(start, end, d, false)
			So(ok, ShouldBeFalse)
			So(frac, ShouldEqual, 1)
		})

		Convey("Then a degenerate trajectory reports no interception", func() {
			d := state.NewActor("d1", start)
			ok, _ := model.CanIntercept(start, start, d, false)
			So(ok, ShouldBeFalse)
		})
	})
}
