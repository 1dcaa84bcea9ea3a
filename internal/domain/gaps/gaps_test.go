package gaps_test

import (
	"testing"

	"github.com/okian/tiki/internal/domain/gaps"
	"github.com/okian/tiki/internal/domain/pitch"
	"github.com/okian/tiki/internal/domain/state"
	"github.com/okian/tiki/internal/domain/zones"
	. "github.com/smartystreets/goconvey/convey"
)

func TestDetector_PairGaps(t *testing.T) {
	Convey("Given a detector with default thresholds", t, func() {
		detector := gaps.NewDetector()
		grid := zones.New()

		Convey("When two defenders stand thirty meters apart", func() {
			defenders := []state.Actor{
				state.NewActor("d1", pitch.Point{X: 20, Y: -15}),
				state.NewActor("d2", pitch.Point{X: 20, Y: 15}),
			}
			found := detector.Detect(defenders, grid)

			Convey("Then the gap is reported and exploitable", func() {
				So(found, ShouldHaveLength, 1)
				So(found[0].Size, ShouldAlmostEqual, 30.0)
				So(found[0].Location, ShouldResemble, pitch.Point{X: 20, Y: 0})
				So(found[0].DefenderA, ShouldEqual, "d1")
				So(found[0].DefenderB, ShouldEqual, "d2")
				So(found[0].Exploitable, ShouldBeTrue)
				So(found[0].BetweenLines(), ShouldBeFalse)
			})
		})

		Convey("When the defenders stand twenty meters apart", func() {
			defenders := []state.Actor{
				state.NewActor("d1", pitch.Point{X: 20, Y: -10}),
				state.NewActor("d2", pitch.Point{X: 20, Y: 10}),
			}
			found := detector.Detect(defenders, grid)

			Convey("Then the gap is reported but closes too fast to exploit", func() {
				So(found, ShouldHaveLength, 1)
				So(found[0].Exploitable, ShouldBeFalse)
			})
		})

		Convey("When the back line leaves its left channel open", func() {
			defenders := []state.Actor{
				state.NewActor("d4", pitch.Point{X: 33, Y: 3}),
				state.NewActor("d5", pitch.Point{X: 30, Y: 18}),
			}
			found := detector.Detect(defenders, grid)

			Convey("Then the gap is found but closes before the ball could arrive", func() {
				So(found, ShouldHaveLength, 1)
				So(found[0].Size, ShouldAlmostEqual, 15.297, 0.001)
				So(found[0].Location, ShouldResemble, pitch.Point{X: 31.5, Y: 10.5})
				So(found[0].TimeToClose, ShouldBeLessThan, 1.8)
				So(found[0].Exploitable, ShouldBeFalse)
			})

			Convey("Then slower defenders leave it open past the arrival margin", func() {
				for i := range defenders {
					defenders[i].TopSpeed = 4.0
				}
				slow := detector.Detect(defenders, grid)
				So(slow, ShouldHaveLength, 1)
				So(slow[0].TimeToClose, ShouldBeGreaterThan, 1.8)
				So(slow[0].Exploitable, ShouldBeTrue)
			})
		})

		Convey("When the defenders stand closer than the minimum gap", func() {
			defenders := []state.Actor{
				state.NewActor("d1", pitch.Point{X: 20, Y: -2}),
				state.NewActor("d2", pitch.Point{X: 20, Y: 2}),
			}

			Convey("Then nothing is reported", func() {
				So(detector.Detect(defenders, grid), ShouldBeEmpty)
			})
		})

		Convey("When fewer than two defenders are on the pitch", func() {
			Convey("Then nothing is reported", func() {
				So(detector.Detect(nil, grid), ShouldBeEmpty)
				So(detector.Detect([]state.Actor{state.NewActor("d1", pitch.Point{})}, grid), ShouldBeEmpty)
			})
		})
	})
}

func TestDetector_LineGaps(t *testing.T) {
	Convey("Given a defense split into two lines", t, func() {
		detector := gaps.NewDetector()
		grid := zones.New()

		defenders := []state.Actor{
			state.NewActor("d1", pitch.Point{X: -5, Y: 0}),
			state.NewActor("d2", pitch.Point{X: -3, Y: 0}),
			state.NewActor("d3", pitch.Point{X: 10, Y: 0}),
			state.NewActor("d4", pitch.Point{X: 12, Y: 0}),
		}
		found := detector.Detect(defenders, grid)

		Convey("Then between-lines gaps appear alongside the pair gap", func() {
			var lines, pairs int
			for _, g := range found {
				if g.BetweenLines() {
					lines++
					So(g.Exploitable, ShouldBeTrue)
					So(g.DefenderA, ShouldEqual, gaps.NoDefender)
				} else {
					pairs++
				}
			}
			So(lines, ShouldEqual, 3)
			So(pairs, ShouldEqual, 1)
		})

		Convey("Then the list is sorted by zone value, best first", func() {
			for i := 1; i < len(found); i++ {
				So(found[i].ZoneValue, ShouldBeLessThanOrEqualTo, found[i-1].ZoneValue)
			}
		})
	})
}

func TestDetector_Options(t *testing.T) {
	Convey("Given a detector with a raised minimum gap size", t, func() {
		detector := gaps.NewDetector(gaps.WithMinGapSize(25))
		grid := zones.New()

		defenders := []state.Actor{
			state.NewActor("d1", pitch.Point{X: 20, Y: -10}),
			state.NewActor("d2", pitch.Point{X: 20, Y: 10}),
		}

		Convey("Then a twenty-meter gap no longer qualifies", func() {
			So(detector.MinGapSize(), ShouldEqual, 25.0)
			So(detector.Detect(defenders, grid), ShouldBeEmpty)
		})
	})

	Convey("Given a detector with a generous exploit margin", t, func() {
		detector := gaps.NewDetector(gaps.WithExploitMargin(0.1))
		grid := zones.New()

		defenders := []state.Actor{
			state.NewActor("d1", pitch.Point{X: 20, Y: -10}),
			state.NewActor("d2", pitch.Point{X: 20, Y: 10}),
		}
		found := detector.Detect(defenders, grid)

		Convey("Then the same gap becomes exploitable", func() {
			So(found, ShouldHaveLength, 1)
			So(found[0].Exploitable, ShouldBeTrue)
		})
	})
}
