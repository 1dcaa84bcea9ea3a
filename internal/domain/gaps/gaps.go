// Package gaps scans a defensive line for exploitable space: lateral gaps
// between adjacent defenders and the vertical gap between defensive lines.
package gaps

import (
	"sort"

	"github.com/okian/tiki/internal/domain/motion"
	"github.com/okian/tiki/internal/domain/pitch"
	"github.com/okian/tiki/internal/domain/state"
	"github.com/okian/tiki/internal/domain/zones"
)

// Detection constants. The ball-arrival estimate assumes a firm ground
// pass received roughly a second after release.
const (
	DefaultMinGapSize    = 6.0 // meters
	DefaultTimeHorizon   = 1.5 // seconds
	DefaultExploitMargin = 1.0 // seconds

	ballArrivalEstimate = 0.8  // seconds for a pass to arrive at a gap
	lineGapThreshold    = 10.0 // meters of X separation marking two lines
	lineCloseTime       = 1.0  // seconds a line gap must stay open
	minDefendersForLine = 4
)

// lineOffsets are the lateral sample positions across a between-lines gap.
var lineOffsets = [...]float64{-15, 0, 15}

// NoDefender marks a gap side that is not bounded by a specific defender,
// used for between-lines gaps.
const NoDefender = ""

// Gap is a detected weakness in defensive coverage. Produced fresh on
// every detection call; never persisted.
type Gap struct {
	Location    pitch.Point
	Size        float64 // meters between the bounding defenders
	TimeToClose float64 // seconds for the nearest defender to reach it
	DefenderA   string  // bounding defender IDs, NoDefender for line gaps
	DefenderB   string
	Exploitable bool
	ZoneValue   float64 // grid value at the gap location
}

// BetweenLines reports whether the gap sits between defensive lines rather
// than between a specific pair of defenders.
func (g Gap) BetweenLines() bool {
	return g.DefenderA == NoDefender && g.DefenderB == NoDefender
}

// Detector finds gaps in a defending team's shape.
type Detector struct {
	minGapSize    float64
	timeHorizon   float64
	exploitMargin float64
}

// Option applies a configuration option to the Detector.
type Option func(*Detector)

// WithMinGapSize sets the smallest defender separation worth reporting.
func WithMinGapSize(size float64) Option {
	return func(d *Detector) {
		if size > 0 {
			d.minGapSize = size
		}
	}
}

// WithTimeHorizon sets the coverage-analysis window.
func WithTimeHorizon(horizon float64) Option {
	return func(d *Detector) {
		if horizon > 0 {
			d.timeHorizon = horizon
		}
	}
}

// WithExploitMargin sets the safety margin a gap must stay open beyond the
// ball's arrival to count as exploitable.
func WithExploitMargin(margin float64) Option {
	return func(d *Detector) {
		if margin > 0 {
			d.exploitMargin = margin
		}
	}
}

// NewDetector builds a detector with the default thresholds.
func NewDetector(opts ...Option) *Detector {
	d := &Detector{
		minGapSize:    DefaultMinGapSize,
		timeHorizon:   DefaultTimeHorizon,
		exploitMargin: DefaultExploitMargin,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// MinGapSize returns the configured minimum gap width.
func (d *Detector) MinGapSize() float64 { return d.minGapSize }

// Detect returns all gaps in the defending shape, sorted descending by the
// zone value at the gap location. Fewer than two defenders yield no gaps.
func (d *Detector) Detect(defenders []state.Actor, grid *zones.Grid) []Gap {
	if len(defenders) < 2 {
		return nil
	}

	sorted := make([]state.Actor, len(defenders))
	copy(sorted, defenders)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Position.X < sorted[j].Position.X
	})

	var found []Gap
	for i := 0; i < len(sorted)-1; i++ {
		if g, ok := d.pairGap(sorted[i], sorted[i+1], grid); ok {
			found = append(found, g)
		}
	}

	found = append(found, d.lineGaps(sorted, grid)...)

	sort.SliceStable(found, func(i, j int) bool {
		return found[i].ZoneValue > found[j].ZoneValue
	})
	return found
}

// pairGap analyzes the space between two adjacent defenders.
func (d *Detector) pairGap(a, b state.Actor, grid *zones.Grid) (Gap, bool) {
	center := pitch.Point{
		X: (a.Position.X + b.Position.X) / 2,
		Y: (a.Position.Y + b.Position.Y) / 2,
	}
	size := a.Position.DistanceTo(b.Position)
	if size < d.minGapSize {
		return Gap{}, false
	}

	closeTime := motion.TimeToReach(center, a)
	if t := motion.TimeToReach(center, b); t < closeTime {
		closeTime = t
	}

	return Gap{
		Location:    center,
		Size:        size,
		TimeToClose: closeTime,
		DefenderA:   a.ID,
		DefenderB:   b.ID,
		Exploitable: closeTime > ballArrivalEstimate+d.exploitMargin,
		ZoneValue:   grid.ValueAt(center),
	}, true
}

// lineGaps detects the single largest X gap between consecutive defenders
// and, when it splits the team into two lines, samples lateral positions
// across it. Needs at least four defenders to speak of lines at all.
func (d *Detector) lineGaps(sortedByX []state.Actor, grid *zones.Grid) []Gap {
	if len(sortedByX) < minDefendersForLine {
		return nil
	}

	maxGap := 0.0
	gapIndex := 0
	for i := 0; i < len(sortedByX)-1; i++ {
		xGap := sortedByX[i+1].Position.X - sortedByX[i].Position.X
		if xGap > maxGap {
			maxGap = xGap
			gapIndex = i
		}
	}
	if maxGap <= lineGapThreshold {
		return nil
	}

	backAvg := meanX(sortedByX[:gapIndex+1])
	frontAvg := meanX(sortedByX[gapIndex+1:])
	gapX := (backAvg + frontAvg) / 2

	var found []Gap
	for _, offset := range lineOffsets {
		center := pitch.Point{X: gapX, Y: offset}
		closeTime := motion.MinTimeToReach(center, sortedByX)
		if closeTime <= lineCloseTime {
			continue
		}
		found = append(found, Gap{
			Location:    center,
			Size:        maxGap,
			TimeToClose: closeTime,
			DefenderA:   NoDefender,
			DefenderB:   NoDefender,
			Exploitable: true,
			ZoneValue:   grid.ValueAt(center),
		})
	}
	return found
}

func meanX(actors []state.Actor) float64 {
	sum := 0.0
	for _, a := range actors {
		sum += a.Position.X
	}
	return sum / float64(len(actors))
}
