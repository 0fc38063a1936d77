package radar

import "math"

// leaderCandidate is one offset slot around an anchor. The box top-left is
//
//	anchor + unit*dist + (wMul*labelW, hMul*labelH)
//
// so the box sits on the correct side of the anchor for its direction: a
// left-side slot subtracts the full label width, a vertically centred slot
// subtracts half the height, and so on.
type leaderCandidate struct {
	ux, uy     float64 // unit direction from the anchor
	wMul, hMul float64 // width/height correction for the direction
	dist       float64 // distance along the direction
}

// box returns the candidate's label box for an anchor and label size.
func (c leaderCandidate) box(anchor Point, w, h float64) Box {
	return Box{
		X: anchor.X + c.ux*c.dist + c.wMul*w,
		Y: anchor.Y + c.uy*c.dist + c.hMul*h,
		W: w,
		H: h,
	}
}

// rebuildLeaderCandidates precomputes the slot table for the current options.
// The table is rebuilt only on configuration changes, never per call. Order
// matters: nearer rings come first, and right-side slots lead within a ring
// because labels read to the right of a contact.
func (e *Engine) rebuildLeaderCandidates() {
	diag := math.Sqrt2 / 2
	dirs := []struct {
		ux, uy     float64
		wMul, hMul float64
	}{
		{1, 0, 0, -0.5},        // right, vertically centred
		{diag, -diag, 0, -1},   // right-up
		{diag, diag, 0, 0},     // right-down
		{-1, 0, -1, -0.5},      // left, vertically centred
		{-diag, -diag, -1, -1}, // left-up
		{-diag, diag, -1, 0},   // left-down
		{0, -1, -0.5, -1},      // above, horizontally centred
		{0, 1, -0.5, 0},        // below, horizontally centred
	}
	rings := []float64{1, 2, 3, 4}

	e.leaderCandidates = e.leaderCandidates[:0]
	for _, ring := range rings {
		for _, d := range dirs {
			e.leaderCandidates = append(e.leaderCandidates, leaderCandidate{
				ux:   d.ux,
				uy:   d.uy,
				wMul: d.wMul,
				hMul: d.hMul,
				dist: ring * e.opts.LeaderMargin,
			})
		}
	}
}

// placeLeader tries each candidate slot for one displaced aircraft and
// accepts the first that is fully in-viewport and non-overlapping. The slot
// that won last frame is tried first so a stable scene keeps stable slots.
func (e *Engine) placeLeader(d displaced, req Request) (PlacedLabel, bool) {
	stickyIdx := -1
	if memo, ok := e.prevPlacements[d.aircraft.ID]; ok && memo.kind == placementLeader {
		stickyIdx = memo.candidateIdx
	}

	try := func(i int) (PlacedLabel, bool) {
		if i < 0 || i >= len(e.leaderCandidates) {
			return PlacedLabel{}, false
		}
		b := e.leaderCandidates[i].box(d.anchor, d.boxW, d.boxH)
		if !b.inside(req.ViewportW, req.ViewportH) || e.grid.hasOverlap(b) {
			return PlacedLabel{}, false
		}
		e.grid.insert(b)
		e.curPlacements[d.aircraft.ID] = placementMemo{kind: placementLeader, candidateIdx: i}
		return PlacedLabel{
			Aircraft:        d.aircraft,
			Box:             b,
			Anchor:          d.anchor,
			NeedsLeaderLine: true,
		}, true
	}

	if pl, ok := try(stickyIdx); ok {
		return pl, true
	}
	for i := range e.leaderCandidates {
		if i == stickyIdx {
			continue
		}
		if pl, ok := try(i); ok {
			return pl, true
		}
	}
	return PlacedLabel{}, false
}
