package engine

import (
	"fmt"
	"strings"
)

// summaryOptionLimit caps how many options the text report lists.
const summaryOptionLimit = 5

// Summary renders an analysis as a short human-readable report, one option
// per line, best first.
func (a Analysis) Summary() string {
	var b strings.Builder

	fmt.Fprintf(&b, "t=%.1fs ball=(%.1f, %.1f)", a.Timestamp, a.BallPosition.X, a.BallPosition.Y)
	if a.CarrierID != "" {
		fmt.Fprintf(&b, " carrier=%s", a.CarrierID)
	}
	fmt.Fprintf(&b, " pressure=%.2f\n", a.Pressure)
	fmt.Fprintf(&b, "gaps=%d options=%d (high-value=%d, safe=%d)\n",
		len(a.Gaps), a.TotalOptions, a.HighValueOptions, a.SafeOptions)

	limit := len(a.Options)
	if limit > summaryOptionLimit {
		limit = summaryOptionLimit
	}
	for i := 0; i < limit; i++ {
		o := a.Options[i]
		fmt.Fprintf(&b, "%d. %-12s", i+1, o.Kind)
		if o.TargetID != "" {
			fmt.Fprintf(&b, " -> %s", o.TargetID)
		} else {
			fmt.Fprintf(&b, " -> (%.1f, %.1f)", o.Target.X, o.Target.Y)
		}
		fmt.Fprintf(&b, "  ev=%+.3f p=%.2f gain=%+.3f  %s\n",
			o.ExpectedValue, o.SuccessProbability, o.ZoneGain, o.Recommendation)
	}
	return b.String()
}
