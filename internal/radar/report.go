package radar

import (
	"fmt"
	"sort"
	"strings"

	"github.com/atotto/clipboard"
)

// PlacementReport renders one frame's layout as a fixed-format text block:
// per-kind listings, cache population, and the hidden tally. Intended for
// pasting into bug reports when a layout misbehaves.
func (e *Engine) PlacementReport(res Result) string {
	var b strings.Builder
	fmt.Fprintf(&b, "--- Radar-Scope placement report ---\n")
	fmt.Fprintf(&b, "frame=%d direct=%d leader=%d callouts=%d hidden=%d\n",
		e.frame, len(res.DirectLabels), len(res.LeaderLabels), len(res.Callouts), res.HiddenCount)
	fmt.Fprintf(&b, "callout_cache=%d cluster_cell=%.0fpx width_cache=%d\n\n",
		len(e.calloutCache), e.ClusterCellSize(), len(e.widthCache))

	if len(res.DirectLabels) > 0 {
		b.WriteString("direct:\n")
		for _, pl := range res.DirectLabels {
			fmt.Fprintf(&b, "  %-10s %-10s box=(%.0f,%.0f %.0fx%.0f) anchor=(%.0f,%.0f)\n",
				pl.Aircraft.ID, pl.Aircraft.Callsign,
				pl.Box.X, pl.Box.Y, pl.Box.W, pl.Box.H, pl.Anchor.X, pl.Anchor.Y)
		}
	}
	if len(res.LeaderLabels) > 0 {
		b.WriteString("leader:\n")
		for _, pl := range res.LeaderLabels {
			fmt.Fprintf(&b, "  %-10s %-10s box=(%.0f,%.0f %.0fx%.0f) anchor=(%.0f,%.0f)\n",
				pl.Aircraft.ID, pl.Aircraft.Callsign,
				pl.Box.X, pl.Box.Y, pl.Box.W, pl.Box.H, pl.Anchor.X, pl.Anchor.Y)
		}
	}
	if len(res.Callouts) > 0 {
		b.WriteString("callouts:\n")
		for i, co := range res.Callouts {
			signs := make([]string, len(co.Aircraft))
			for j, ac := range co.Aircraft {
				signs[j] = ac.Callsign
			}
			fmt.Fprintf(&b, "  %02d) box=(%.0f,%.0f %.0fx%.0f) centroid=(%.0f,%.0f) members=%d omitted=%d [%s]\n",
				i+1, co.Box.X, co.Box.Y, co.Box.W, co.Box.H,
				co.Centroid.X, co.Centroid.Y,
				len(co.AircraftPoints), co.OmittedCount, strings.Join(signs, ", "))
		}
	}
	if res.HiddenIndicator != nil {
		fmt.Fprintf(&b, "indicator: %q at (%.0f,%.0f)\n",
			res.HiddenIndicator.Aircraft.Callsign,
			res.HiddenIndicator.Box.X, res.HiddenIndicator.Box.Y)
	}

	if len(e.calloutCache) > 0 {
		b.WriteString("cache:\n")
		keys := make([]string, 0, len(e.calloutCache))
		for k := range e.calloutCache {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			m := e.calloutCache[k]
			fmt.Fprintf(&b, "  %-10s last_seen=F%d members=%d box=%.0fx%.0f\n",
				k, m.lastSeenFrame, len(m.memberIDs), m.boxW, m.boxH)
		}
	}
	return b.String()
}

// CopyPlacementReport places the report on the system clipboard.
func (e *Engine) CopyPlacementReport(res Result) error {
	return clipboard.WriteAll(e.PlacementReport(res))
}
