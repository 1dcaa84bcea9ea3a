// Package zones precomputes a coarse grid of scoring value across the
// pitch. A cell's value approximates the probability of scoring if a shot
// were taken from that location.
//
// The grid is deliberately coarse and built once; it must be treated as
// read-only after construction so it can be shared across concurrent
// analyses.
package zones

import (
	"math"

	"github.com/okian/tiki/internal/domain/pitch"
)

// Grid construction constants. The exact numeric shape is a tuned
// approximation; what matters downstream is monotonic decay with distance
// to goal and the central bias.
const (
	// DefaultCols and DefaultRows give roughly 9x8 meter cells on a
	// standard pitch.
	DefaultCols = 12
	DefaultRows = 8

	distanceDecay   = 20.0 // e-folding distance of the base value, meters
	baseScale       = 0.5  // value at zero distance before penalties
	anglePenaltyExp = 0.5  // cos(angle)^exp tight-angle penalty
	centralBias     = 0.3  // max reduction at the touchline

	penaltyAreaDepth = 16.5
	penaltyAreaHalfW = 20.16
	sixYardDepth     = 5.5
	sixYardHalfW     = 9.16
	penaltyAreaBoost = 1.8
	sixYardBoost     = 1.5

	// MinValue and MaxValue bound every cell.
	MinValue = 0.01
	MaxValue = 0.45
)

// Grid maps pitch locations to precomputed scoring values.
type Grid struct {
	dims pitch.Dimensions
	cols int
	rows int
	cell []float64 // row-major, rows*cols
}

// Option applies a configuration option to the Grid under construction.
type Option func(*Grid)

// WithDimensions sets the pitch the grid spans.
func WithDimensions(d pitch.Dimensions) Option {
	return func(g *Grid) {
		if d.Length > 0 && d.Width > 0 {
			g.dims = d
		}
	}
}

// WithResolution sets the number of grid columns and rows.
func WithResolution(cols, rows int) Option {
	return func(g *Grid) {
		if cols > 0 && rows > 0 {
			g.cols = cols
			g.rows = rows
		}
	}
}

// New constructs and fills a grid. The result is immutable.
func New(opts ...Option) *Grid {
	g := &Grid{
		dims: pitch.Standard(),
		cols: DefaultCols,
		rows: DefaultRows,
	}
	for _, opt := range opts {
		opt(g)
	}
	g.cell = make([]float64, g.cols*g.rows)
	g.fill()
	return g
}

// fill computes every cell from its center position.
func (g *Grid) fill() {
	goal := g.dims.AttackingGoal()
	for row := 0; row < g.rows; row++ {
		for col := 0; col < g.cols; col++ {
			center := g.cellCenter(col, row)

			distance := center.DistanceTo(goal)
			angle := math.Abs(math.Atan2(center.Y, goal.X-center.X))

			base := math.Exp(-distance/distanceDecay) * baseScale
			angleFactor := math.Pow(math.Cos(angle), anglePenaltyExp)
			if math.IsNaN(angleFactor) { // behind the goal line
				angleFactor = 0
			}
			central := 1 - math.Abs(center.Y)/g.dims.HalfWidth()*centralBias

			v := base * angleFactor * central

			if g.inPenaltyArea(center) {
				v *= penaltyAreaBoost
			}
			if g.inSixYardBox(center) {
				v *= sixYardBoost
			}

			g.cell[row*g.cols+col] = clampValue(v)
		}
	}
}

func (g *Grid) inPenaltyArea(p pitch.Point) bool {
	return p.X > g.dims.HalfLength()-penaltyAreaDepth && math.Abs(p.Y) <= penaltyAreaHalfW
}

func (g *Grid) inSixYardBox(p pitch.Point) bool {
	return p.X > g.dims.HalfLength()-sixYardDepth && math.Abs(p.Y) <= sixYardHalfW
}

func (g *Grid) cellCenter(col, row int) pitch.Point {
	cw := g.dims.Length / float64(g.cols)
	ch := g.dims.Width / float64(g.rows)
	return pitch.Point{
		X: -g.dims.HalfLength() + (float64(col)+0.5)*cw,
		Y: -g.dims.HalfWidth() + (float64(row)+0.5)*ch,
	}
}

// ValueAt returns the precomputed value for the cell containing p.
// Out-of-bounds positions clamp to the nearest cell; the lookup is O(1)
// with no interpolation.
func (g *Grid) ValueAt(p pitch.Point) float64 {
	col := int((p.X + g.dims.HalfLength()) / g.dims.Length * float64(g.cols))
	row := int((p.Y + g.dims.HalfWidth()) / g.dims.Width * float64(g.rows))
	col = clampIndex(col, g.cols-1)
	row = clampIndex(row, g.rows-1)
	return g.cell[row*g.cols+col]
}

// Gain returns the value improvement from moving the ball between two
// positions. Negative when the move retreats.
func (g *Grid) Gain(from, to pitch.Point) float64 {
	return g.ValueAt(to) - g.ValueAt(from)
}

// Dimensions returns the pitch the grid spans.
func (g *Grid) Dimensions() pitch.Dimensions { return g.dims }

func clampValue(v float64) float64 {
	if v < MinValue {
		return MinValue
	}
	if v > MaxValue {
		return MaxValue
	}
	return v
}

func clampIndex(i, max int) int {
	if i < 0 {
		return 0
	}
	if i > max {
		return max
	}
	return i
}
