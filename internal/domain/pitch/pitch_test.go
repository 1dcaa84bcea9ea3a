package pitch_test

import (
	"testing"

	"github.com/okian/tiki/internal/domain/pitch"
	. "github.com/smartystreets/goconvey/convey"
)

func TestPoint_Geometry(t *testing.T) {
	Convey("Given two points on the pitch", t, func() {
		a := pitch.Point{X: 0, Y: 0}
		b := pitch.Point{X: 3, Y: 4}

		Convey("Then the distance between them is Euclidean", func() {
			So(a.DistanceTo(b), ShouldAlmostEqual, 5.0)
			So(b.DistanceTo(a), ShouldAlmostEqual, 5.0)
		})

		Convey("Then VectorTo and Add round-trip", func() {
			v := a.VectorTo(b)
			So(a.Add(v), ShouldResemble, b)
		})
	})
}

func TestVector_Operations(t *testing.T) {
	Convey("Given a vector", t, func() {
		v := pitch.Vector{X: 3, Y: 4}

		Convey("Then Norm returns its length", func() {
			So(v.Norm(), ShouldAlmostEqual, 5.0)
		})

		Convey("Then Unit returns a length-one vector in the same direction", func() {
			u := v.Unit()
			So(u.Norm(), ShouldAlmostEqual, 1.0)
			So(u.X, ShouldAlmostEqual, 0.6)
			So(u.Y, ShouldAlmostEqual, 0.8)
		})

		Convey("Then the zero vector normalizes to itself", func() {
			So(pitch.Vector{}.Unit(), ShouldResemble, pitch.Vector{})
		})

		Convey("Then Scale multiplies both components", func() {
			So(v.Scale(2), ShouldResemble, pitch.Vector{X: 6, Y: 8})
		})
	})
}

func TestDimensions_Bounds(t *testing.T) {
	Convey("Given the standard pitch", t, func() {
		dims := pitch.Standard()

		Convey("Then its goals sit on the center line of each goal line", func() {
			So(dims.AttackingGoal(), ShouldResemble, pitch.Point{X: 52.5, Y: 0})
			So(dims.DefendingGoal(), ShouldResemble, pitch.Point{X: -52.5, Y: 0})
		})

		Convey("Then Contains accepts in-bounds points", func() {
			So(dims.Contains(pitch.Point{X: 0, Y: 0}), ShouldBeTrue)
			So(dims.Contains(pitch.Point{X: 52.5, Y: 34}), ShouldBeTrue)
		})

		Convey("Then Contains rejects out-of-bounds points", func() {
			So(dims.Contains(pitch.Point{X: 53, Y: 0}), ShouldBeFalse)
			So(dims.Contains(pitch.Point{X: 0, Y: -34.1}), ShouldBeFalse)
		})

		Convey("Then Clamp moves out-of-bounds points to the nearest edge", func() {
			clamped := dims.Clamp(pitch.Point{X: 60, Y: -40})
			So(clamped, ShouldResemble, pitch.Point{X: 52.5, Y: -34})

			inside := pitch.Point{X: 10, Y: -5}
			So(dims.Clamp(inside), ShouldResemble, inside)
		})
	})
}

func TestPerpendicularDistance(t *testing.T) {
	Convey("Given a segment along the X axis", t, func() {
		a := pitch.Point{X: 0, Y: 0}
		b := pitch.Point{X: 10, Y: 0}

		Convey("Then a point above the middle measures its Y offset", func() {
			So(pitch.PerpendicularDistance(pitch.Point{X: 5, Y: 3}, a, b), ShouldAlmostEqual, 3.0)
		})

		Convey("Then a point beyond the end measures to the endpoint", func() {
			So(pitch.PerpendicularDistance(pitch.Point{X: 13, Y: 4}, a, b), ShouldAlmostEqual, 5.0)
		})

		Convey("Then a degenerate segment measures to the single point", func() {
			So(pitch.PerpendicularDistance(pitch.Point{X: 3, Y: 4}, a, a), ShouldAlmostEqual, 5.0)
		})
	})
}
