package radar

import (
	"fmt"
	"math"
)

// clampBox shifts a box to lie inside the viewport where possible. The size
// is never changed, so a box larger than the viewport ends up with a negative
// origin and fails the subsequent in-viewport check.
func clampBox(b Box, vw, vh float64) Box {
	if b.X+b.W > vw {
		b.X = vw - b.W
	}
	if b.Y+b.H > vh {
		b.Y = vh - b.H
	}
	if b.X < 0 {
		b.X = 0
	}
	if b.Y < 0 {
		b.Y = 0
	}
	return b
}

// calloutDims returns the box size for a member list plus how many callsigns
// are shown and how many fold into the "+N more" line. The box is as wide as
// the widest shown line.
func (e *Engine) calloutDims(members []displaced) (w, h float64, shown, omitted int) {
	shown = len(members)
	if shown > e.opts.MaxCalloutLabels {
		shown = e.opts.MaxCalloutLabels
	}
	omitted = len(members) - shown

	maxW := 0.0
	for _, m := range members[:shown] {
		if tw := e.textWidth(m.aircraft.Callsign); tw > maxW {
			maxW = tw
		}
	}
	lines := shown
	if omitted > 0 {
		if tw := e.textWidth(fmt.Sprintf("+%d more", omitted)); tw > maxW {
			maxW = tw
		}
		lines++
	}
	w = maxW + 2*e.opts.Padding
	h = float64(lines)*e.lineHeight() + 2*e.opts.Padding
	return w, h, shown, omitted
}

// calloutCentroid returns the centroid to anchor this frame's callout on. The
// raw mean of the visible member anchors is blended into the cached centroid
// (stored as an offset from the cluster cell centre, so it survives panning)
// by a fixed easing factor, but only once enough members are visible, so a
// lone straggler cannot drag the box around.
func (e *Engine) calloutCentroid(cl cluster, req Request) Point {
	var sx, sy float64
	for _, m := range cl.members {
		sx += m.anchor.X
		sy += m.anchor.Y
	}
	n := float64(len(cl.members))
	raw := Point{X: sx / n, Y: sy / n}

	memo, ok := e.calloutCache[cl.key]
	if !ok {
		return raw
	}
	ccx, ccy, ok := e.clusterCellCenter(cl.key, req)
	if !ok {
		return raw
	}
	cached := Point{X: ccx + memo.centroidOffX, Y: ccy + memo.centroidOffY}
	if len(cl.members) >= minBlendMembers {
		cached.X += (raw.X - cached.X) * centroidBlend
		cached.Y += (raw.Y - cached.Y) * centroidBlend
	}
	return cached
}

// placeCallout attempts a stacked callout for one cluster. Candidates are
// tried in order: the cached box offset, compass slots at increasing rings
// around the centroid, then an expanding square-ring sweep over a coarser
// grid whose extent is bounded by the viewport, guaranteeing termination.
// On success the box is committed to the grid, the cache entry is refreshed,
// and every member's placement is recorded as callout.
func (e *Engine) placeCallout(cl cluster, req Request) (Callout, bool) {
	if len(cl.members) == 0 {
		return Callout{}, false
	}

	centroid := e.calloutCentroid(cl, req)
	w, h, shown, omitted := e.calloutDims(cl.members)

	accepted := Box{}
	found := false
	try := func(b Box) bool {
		b = clampBox(b, req.ViewportW, req.ViewportH)
		if !b.inside(req.ViewportW, req.ViewportH) || e.grid.hasOverlap(b) {
			return false
		}
		accepted = b
		found = true
		return true
	}

	e.searchCalloutBox(cl.key, centroid, w, h, req, try)
	if !found {
		return Callout{}, false
	}

	e.grid.insert(accepted)
	e.rememberCallout(cl, accepted, centroid, req)

	out := Callout{
		Box:          accepted,
		Centroid:     centroid,
		OmittedCount: omitted,
	}
	for _, m := range cl.members[:shown] {
		out.Aircraft = append(out.Aircraft, m.aircraft)
	}
	for _, m := range cl.members {
		out.AircraftPoints = append(out.AircraftPoints, m.anchor)
		e.curPlacements[m.aircraft.ID] = placementMemo{kind: placementCallout, candidateIdx: -1}
	}
	return out, true
}

// searchCalloutBox feeds candidate boxes to try until one is accepted. try
// returns true to stop the search.
func (e *Engine) searchCalloutBox(key string, centroid Point, w, h float64, req Request, try func(Box) bool) {
	// (a) Last frame's box, re-anchored on this frame's centroid.
	if memo, ok := e.calloutCache[key]; ok {
		if try(Box{X: centroid.X + memo.boxOffX, Y: centroid.Y + memo.boxOffY, W: w, H: h}) {
			return
		}
	}

	// (b) Compass slots at increasing rings around the centroid.
	for _, ring := range []float64{1, 2, 3} {
		d := ring * e.opts.LeaderMargin
		slots := []Box{
			{X: centroid.X + d, Y: centroid.Y - h/2, W: w, H: h},     // right
			{X: centroid.X - d - w, Y: centroid.Y - h/2, W: w, H: h}, // left
			{X: centroid.X - w/2, Y: centroid.Y - d - h, W: w, H: h}, // above
			{X: centroid.X - w/2, Y: centroid.Y + d, W: w, H: h},     // below
		}
		for _, b := range slots {
			if try(b) {
				return
			}
		}
	}

	// (c) Expanding square rings over a coarse step, centred on the centroid.
	// The ring count is bounded by the viewport diagonal so the sweep always
	// terminates.
	step := e.ClusterCellSize() / 2
	maxRing := int(math.Ceil(math.Max(req.ViewportW, req.ViewportH)/step)) + 1
	for ring := 1; ring <= maxRing; ring++ {
		for dy := -ring; dy <= ring; dy++ {
			for dx := -ring; dx <= ring; dx++ {
				if dx > -ring && dx < ring && dy > -ring && dy < ring {
					continue // interior already covered by a smaller ring
				}
				cx := centroid.X + float64(dx)*step
				cy := centroid.Y + float64(dy)*step
				if try(Box{X: cx - w/2, Y: cy - h/2, W: w, H: h}) {
					return
				}
			}
		}
	}
}

// rememberCallout refreshes the cluster's cache entry from an accepted box.
func (e *Engine) rememberCallout(cl cluster, b Box, centroid Point, req Request) {
	ccx, ccy, ok := e.clusterCellCenter(cl.key, req)
	if !ok {
		ccx, ccy = centroid.X, centroid.Y
	}
	ids := make(map[string]struct{}, len(cl.members))
	for _, m := range cl.members {
		ids[m.aircraft.ID] = struct{}{}
	}
	e.calloutCache[cl.key] = &calloutMemo{
		boxOffX:       b.X - centroid.X,
		boxOffY:       b.Y - centroid.Y,
		boxW:          b.W,
		boxH:          b.H,
		centroidOffX:  centroid.X - ccx,
		centroidOffY:  centroid.Y - ccy,
		memberIDs:     ids,
		lastSeenFrame: e.frame,
	}
}
