// Package pitch provides the coordinate system and vector math shared by
// every model in the engine.
//
// Coordinates are in meters, centered on the pitch: the length axis runs
// from -Length/2 to +Length/2 and the width axis from -Width/2 to +Width/2.
// The attacking team always plays toward +X.
package pitch

import "math"

// Standard pitch dimensions in meters.
const (
	StandardLength = 105.0
	StandardWidth  = 68.0

	// GoalWidth is the distance between the posts.
	GoalWidth = 7.32
)

// Point is a location on the pitch in meters.
type Point struct {
	X float64
	Y float64
}

// Vector is a 2-D direction or velocity in meters (per second, for velocities).
type Vector struct {
	X float64
	Y float64
}

// DistanceTo returns the Euclidean distance between p and q.
func (p Point) DistanceTo(q Point) float64 {
	return math.Hypot(q.X-p.X, q.Y-p.Y)
}

// Add returns p displaced by v.
func (p Point) Add(v Vector) Point {
	return Point{X: p.X + v.X, Y: p.Y + v.Y}
}

// VectorTo returns the vector from p to q.
func (p Point) VectorTo(q Point) Vector {
	return Vector{X: q.X - p.X, Y: q.Y - p.Y}
}

// Norm returns the length of v.
func (v Vector) Norm() float64 {
	return math.Hypot(v.X, v.Y)
}

// Scale returns v multiplied by k.
func (v Vector) Scale(k float64) Vector {
	return Vector{X: v.X * k, Y: v.Y * k}
}

// Dot returns the dot product of v and w.
func (v Vector) Dot(w Vector) float64 {
	return v.X*w.X + v.Y*w.Y
}

// Unit returns v normalized to length one. The zero vector is returned
// unchanged.
func (v Vector) Unit() Vector {
	n := v.Norm()
	if n == 0 {
		return Vector{}
	}
	return Vector{X: v.X / n, Y: v.Y / n}
}

// Angle returns the heading of v in radians.
func (v Vector) Angle() float64 {
	return math.Atan2(v.Y, v.X)
}

// Dimensions describes a pitch. The zero value is not usable; use Standard
// or build one from configuration.
type Dimensions struct {
	Length float64
	Width  float64
}

// Standard returns the regulation 105x68 pitch.
func Standard() Dimensions {
	return Dimensions{Length: StandardLength, Width: StandardWidth}
}

// HalfLength returns the distance from the center to either goal line.
func (d Dimensions) HalfLength() float64 { return d.Length / 2 }

// HalfWidth returns the distance from the center to either touchline.
func (d Dimensions) HalfWidth() float64 { return d.Width / 2 }

// AttackingGoal returns the center of the goal the attacking team shoots at.
func (d Dimensions) AttackingGoal() Point {
	return Point{X: d.HalfLength(), Y: 0}
}

// DefendingGoal returns the center of the goal the attacking team defends.
func (d Dimensions) DefendingGoal() Point {
	return Point{X: -d.HalfLength(), Y: 0}
}

// Contains reports whether p lies inside the field of play.
func (d Dimensions) Contains(p Point) bool {
	return math.Abs(p.X) <= d.HalfLength() && math.Abs(p.Y) <= d.HalfWidth()
}

// Clamp returns p moved to the nearest in-bounds location.
func (d Dimensions) Clamp(p Point) Point {
	return Point{
		X: clamp(p.X, -d.HalfLength(), d.HalfLength()),
		Y: clamp(p.Y, -d.HalfWidth(), d.HalfWidth()),
	}
}

// PerpendicularDistance returns the distance from p to the segment a-b.
// Degenerate segments collapse to the distance from p to a.
func PerpendicularDistance(p, a, b Point) float64 {
	ab := a.VectorTo(b)
	length := ab.Norm()
	if length < 1e-9 {
		return p.DistanceTo(a)
	}
	ap := a.VectorTo(p)
	t := ap.Dot(ab) / (length * length)
	t = clamp(t, 0, 1)
	closest := a.Add(ab.Scale(t))
	return p.DistanceTo(closest)
}

func clamp(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
