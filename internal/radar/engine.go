package radar

import (
	"fmt"
	"sort"
)

const (
	// cullMargin is how far past the viewport edge an anchor may sit before
	// the aircraft is ignored for the frame.
	cullMargin = 100.0

	// collisionCellFactor sizes the broad-phase grid cell (× font size).
	collisionCellFactor = 4.0
	// clusterCellFactor sizes the visual-grouping cell (× font size).
	clusterCellFactor = 12.0

	defaultLabelOffsetX = 10.0

	// centroidBlend eases a cached callout centroid toward the raw mean.
	centroidBlend = 0.2
	// minBlendMembers gates the easing: below this many visible members the
	// cached centroid does not move at all.
	minBlendMembers = 2

	// calloutPruneFrames is how long an unseen cache entry survives.
	calloutPruneFrames = 60
	// calloutHoldFrames is how long after a cell's callout was last seen its
	// members stay barred from direct placement.
	calloutHoldFrames = 15

	// indicatorEdgeGap is the gap between the "+N hidden" label and the
	// viewport edge.
	indicatorEdgeGap = 8.0
)

// Engine computes a non-overlapping label layout every frame and owns all
// cross-frame hysteresis state. The layout is rebuilt from scratch per call;
// the caches only bias decisions toward repeating the previous frame.
//
// Not safe for concurrent use: internal state is mutated in place and swapped
// at the end of each call, so one Place must finish before the next starts.
type Engine struct {
	opts    Options
	grid    *spatialGrid
	measure MeasureFunc

	widthCache       map[widthKey]float64
	leaderCandidates []leaderCandidate

	frame int

	prevPlacements  map[string]placementMemo
	curPlacements   map[string]placementMemo
	prevClusterKeys map[string]string
	curClusterKeys  map[string]string
	calloutCache    map[string]*calloutMemo
}

// NewEngine builds an engine with the given option overrides on top of
// DefaultOptions.
func NewEngine(opts ...Option) *Engine {
	o := DefaultOptions()
	for _, fn := range opts {
		fn(&o)
	}
	e := &Engine{
		opts:            o,
		widthCache:      make(map[widthKey]float64),
		prevPlacements:  make(map[string]placementMemo),
		curPlacements:   make(map[string]placementMemo),
		prevClusterKeys: make(map[string]string),
		curClusterKeys:  make(map[string]string),
		calloutCache:    make(map[string]*calloutMemo),
	}
	e.grid = newSpatialGrid(o.FontSize * collisionCellFactor)
	e.rebuildLeaderCandidates()
	return e
}

// SetMeasureFunc swaps the text measurement strategy. Pass nil to return to
// the character-count estimate. The width cache is invalidated.
func (e *Engine) SetMeasureFunc(fn MeasureFunc) {
	e.measure = fn
	e.widthCache = make(map[widthKey]float64)
}

// UpdateOptions merges option overrides into the current configuration and
// rebuilds the collision grid, the width cache, and the candidate tables for
// the new values.
func (e *Engine) UpdateOptions(opts ...Option) {
	for _, fn := range opts {
		fn(&e.opts)
	}
	e.grid = newSpatialGrid(e.opts.FontSize * collisionCellFactor)
	e.widthCache = make(map[widthKey]float64)
	e.rebuildLeaderCandidates()
}

// ClearState resets every cross-frame cache and the frame counter. Callers
// must invoke it on discontinuous changes (a large zoom jump, a full dataset
// reload) so stale stability hints do not leak into an unrelated layout.
func (e *Engine) ClearState() {
	e.frame = 0
	e.prevPlacements = make(map[string]placementMemo)
	e.curPlacements = make(map[string]placementMemo)
	e.prevClusterKeys = make(map[string]string)
	e.curClusterKeys = make(map[string]string)
	e.calloutCache = make(map[string]*calloutMemo)
}

// ClusterCellSize returns the coarse clustering cell size in pixels, exposed
// for caller-side debug overlays.
func (e *Engine) ClusterCellSize() float64 {
	return e.opts.FontSize * clusterCellFactor
}

// Frame returns the number of Place calls since construction or ClearState.
func (e *Engine) Frame() int {
	return e.frame
}

func (e *Engine) lineHeight() float64 {
	return e.opts.FontSize * e.opts.LineHeightRatio
}

// labelDims returns the box size for a single-line label.
func (e *Engine) labelDims(text string) (w, h float64) {
	return e.textWidth(text) + 2*e.opts.Padding, e.lineHeight() + 2*e.opts.Padding
}

// Place computes the label layout for one frame. It is deterministic given
// identical inputs and warm cache state, and it never fails: anything that
// cannot be placed is reported through Result.HiddenCount instead.
func (e *Engine) Place(aircraft []Aircraft, project Projector, req Request) Result {
	e.frame++
	if req.LabelOffsetX == 0 {
		req.LabelOffsetX = defaultLabelOffsetX
	}
	e.grid.clear()

	var res Result
	if req.LockLayout {
		res = e.placeLocked(aircraft, project, req)
	} else {
		res = e.placeFresh(aircraft, project, req)
	}

	e.pruneCalloutCache()
	e.swapGenerations()
	return res
}

// placeFresh runs the full per-frame pipeline: priority sort, direct pass,
// clustering, per-cluster leader/callout resolution, hidden indicator.
func (e *Engine) placeFresh(aircraft []Aircraft, project Projector, req Request) Result {
	// 1. Highest priority places first; ties keep input order.
	sorted := make([]Aircraft, len(aircraft))
	copy(sorted, aircraft)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Priority > sorted[j].Priority
	})

	var res Result
	var displacedList []displaced

	// 2–3. Direct pass.
	for _, ac := range sorted {
		sx, sy := project(ac.WorldX, ac.WorldY)
		if sx < -cullMargin || sx > req.ViewportW+cullMargin ||
			sy < -cullMargin || sy > req.ViewportH+cullMargin {
			continue
		}
		w, h := e.labelDims(ac.Callsign)
		d := displaced{aircraft: ac, anchor: Point{X: sx, Y: sy}, boxW: w, boxH: h}

		if e.directBlocked(ac.ID, sx, sy, req) {
			displacedList = append(displacedList, d)
			continue
		}
		b := Box{X: sx + req.LabelOffsetX, Y: sy - h/2, W: w, H: h}
		if b.inside(req.ViewportW, req.ViewportH) && !e.grid.hasOverlap(b) {
			e.grid.insert(b)
			e.curPlacements[ac.ID] = placementMemo{kind: placementDirect, candidateIdx: -1}
			res.DirectLabels = append(res.DirectLabels, PlacedLabel{
				Aircraft: ac,
				Box:      b,
				Anchor:   d.anchor,
			})
			continue
		}
		displacedList = append(displacedList, d)
	}

	// 4. Cluster the displaced by coarse anchor cell, with hysteresis.
	clusters := e.clusterDisplaced(displacedList, req)

	// 5–7. Resolve each cluster.
	for _, cl := range clusters {
		if e.wantsCallout(cl) {
			if co, ok := e.placeCallout(cl, req); ok {
				res.Callouts = append(res.Callouts, co)
			} else {
				e.markHidden(cl.members, &res)
			}
			continue
		}
		var remainder []displaced
		for _, m := range cl.members {
			if pl, ok := e.placeLeader(m, req); ok {
				res.LeaderLabels = append(res.LeaderLabels, pl)
			} else {
				remainder = append(remainder, m)
			}
		}
		if len(remainder) > 0 {
			// Members whose leader search failed escalate into a fallback
			// callout under the same cluster key.
			fallback := cluster{key: cl.key, members: remainder}
			if co, ok := e.placeCallout(fallback, req); ok {
				res.Callouts = append(res.Callouts, co)
			} else {
				e.markHidden(remainder, &res)
			}
		}
	}

	// 8. A single "+N hidden" indicator, placed after all other geometry.
	e.placeHiddenIndicator(&res, req)
	return res
}

// directBlocked reports whether an aircraft may not even attempt a direct
// label this frame: callout members and aircraft inside a cell whose callout
// was live (or very recently live) stay displaced. Without this an aircraft
// on a cluster's edge escapes to a direct label one frame and is recaptured
// the next, flickering between the two.
func (e *Engine) directBlocked(id string, x, y float64, req Request) bool {
	if memo, ok := e.prevPlacements[id]; ok && memo.kind == placementCallout {
		return true
	}
	key := e.clusterKeyAt(x, y, req)
	if memo, ok := e.calloutCache[key]; ok && e.frame-memo.lastSeenFrame <= calloutHoldFrames {
		return true
	}
	return false
}

// markHidden records a failed member list in the hidden counter.
func (e *Engine) markHidden(members []displaced, res *Result) {
	for _, m := range members {
		e.curPlacements[m.aircraft.ID] = placementMemo{kind: placementHidden, candidateIdx: -1}
		res.HiddenCount++
	}
}

// placeHiddenIndicator tries the "+N hidden" label in each viewport corner in
// fixed order, accepting the first that fits without overlapping committed
// geometry. It runs last, after everything else is in the grid.
func (e *Engine) placeHiddenIndicator(res *Result, req Request) {
	if res.HiddenCount <= 0 {
		return
	}
	text := fmt.Sprintf("+%d hidden", res.HiddenCount)
	w, h := e.labelDims(text)
	corners := []Point{
		{X: indicatorEdgeGap, Y: indicatorEdgeGap},
		{X: req.ViewportW - w - indicatorEdgeGap, Y: indicatorEdgeGap},
		{X: indicatorEdgeGap, Y: req.ViewportH - h - indicatorEdgeGap},
		{X: req.ViewportW - w - indicatorEdgeGap, Y: req.ViewportH - h - indicatorEdgeGap},
	}
	for _, c := range corners {
		b := Box{X: c.X, Y: c.Y, W: w, H: h}
		if !b.inside(req.ViewportW, req.ViewportH) || e.grid.hasOverlap(b) {
			continue
		}
		e.grid.insert(b)
		res.HiddenIndicator = &PlacedLabel{
			Aircraft: Aircraft{Callsign: text},
			Box:      b,
			Anchor:   c,
		}
		return
	}
}

// placeLocked re-projects the previous frame's choices without searching for
// new slots. Membership and slot indices are frozen; anything that no longer
// fits, and anything that was not placed before the lock, is counted as
// hidden. Used while the caller drags the view and wants the layout to track
// the camera without reshuffling.
func (e *Engine) placeLocked(aircraft []Aircraft, project Projector, req Request) Result {
	sorted := make([]Aircraft, len(aircraft))
	copy(sorted, aircraft)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Priority > sorted[j].Priority
	})

	var res Result
	var calloutOrder []string
	calloutMembers := make(map[string][]displaced)

	hide := func(id string) {
		e.curPlacements[id] = placementMemo{kind: placementHidden, candidateIdx: -1}
		res.HiddenCount++
	}

	for _, ac := range sorted {
		sx, sy := project(ac.WorldX, ac.WorldY)
		if sx < -cullMargin || sx > req.ViewportW+cullMargin ||
			sy < -cullMargin || sy > req.ViewportH+cullMargin {
			continue
		}
		w, h := e.labelDims(ac.Callsign)
		d := displaced{aircraft: ac, anchor: Point{X: sx, Y: sy}, boxW: w, boxH: h}

		if key, ok := e.prevClusterKeys[ac.ID]; ok {
			e.curClusterKeys[ac.ID] = key
		}

		memo, ok := e.prevPlacements[ac.ID]
		if !ok {
			hide(ac.ID)
			continue
		}
		switch memo.kind {
		case placementDirect:
			b := Box{X: sx + req.LabelOffsetX, Y: sy - h/2, W: w, H: h}
			if b.inside(req.ViewportW, req.ViewportH) && !e.grid.hasOverlap(b) {
				e.grid.insert(b)
				e.curPlacements[ac.ID] = memo
				res.DirectLabels = append(res.DirectLabels, PlacedLabel{
					Aircraft: ac,
					Box:      b,
					Anchor:   d.anchor,
				})
			} else {
				hide(ac.ID)
			}
		case placementLeader:
			idx := memo.candidateIdx
			if idx < 0 || idx >= len(e.leaderCandidates) {
				hide(ac.ID)
				continue
			}
			b := e.leaderCandidates[idx].box(d.anchor, w, h)
			if b.inside(req.ViewportW, req.ViewportH) && !e.grid.hasOverlap(b) {
				e.grid.insert(b)
				e.curPlacements[ac.ID] = memo
				res.LeaderLabels = append(res.LeaderLabels, PlacedLabel{
					Aircraft:        ac,
					Box:             b,
					Anchor:          d.anchor,
					NeedsLeaderLine: true,
				})
			} else {
				hide(ac.ID)
			}
		case placementCallout:
			key, ok := e.prevClusterKeys[ac.ID]
			if !ok || e.calloutCache[key] == nil {
				hide(ac.ID)
				continue
			}
			if _, seen := calloutMembers[key]; !seen {
				calloutOrder = append(calloutOrder, key)
			}
			calloutMembers[key] = append(calloutMembers[key], d)
		default:
			hide(ac.ID)
		}
	}

	for _, key := range calloutOrder {
		members := calloutMembers[key]
		memo := e.calloutCache[key]

		var sx, sy float64
		for _, m := range members {
			sx += m.anchor.X
			sy += m.anchor.Y
		}
		n := float64(len(members))
		centroid := Point{X: sx / n, Y: sy / n}

		b := Box{
			X: centroid.X + memo.boxOffX,
			Y: centroid.Y + memo.boxOffY,
			W: memo.boxW,
			H: memo.boxH,
		}
		b = clampBox(b, req.ViewportW, req.ViewportH)
		if !b.inside(req.ViewportW, req.ViewportH) || e.grid.hasOverlap(b) {
			for _, m := range members {
				hide(m.aircraft.ID)
			}
			continue
		}
		e.grid.insert(b)
		memo.lastSeenFrame = e.frame // keep the entry alive through the drag

		shown := len(members)
		if shown > e.opts.MaxCalloutLabels {
			shown = e.opts.MaxCalloutLabels
		}
		co := Callout{
			Box:          b,
			Centroid:     centroid,
			OmittedCount: len(members) - shown,
		}
		for _, m := range members[:shown] {
			co.Aircraft = append(co.Aircraft, m.aircraft)
		}
		for _, m := range members {
			co.AircraftPoints = append(co.AircraftPoints, m.anchor)
			e.curPlacements[m.aircraft.ID] = placementMemo{kind: placementCallout, candidateIdx: -1}
		}
		res.Callouts = append(res.Callouts, co)
	}

	e.placeHiddenIndicator(&res, req)
	return res
}
