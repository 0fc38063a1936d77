package radar

import "testing"

func lockedRequest(gridOffX float64) Request {
	return Request{ViewportW: 800, ViewportH: 600, GridOffsetX: gridOffX, LockLayout: true}
}

func TestPlaceLocked_ReprojectsWithoutReshuffling(t *testing.T) {
	e := NewEngine()
	scene := []Aircraft{
		{ID: "low", Callsign: "LOW01", WorldX: 400, WorldY: 305, Priority: 1},
		{ID: "high", Callsign: "HIGH1", WorldX: 400, WorldY: 300, Priority: 5},
	}
	r1 := e.Place(scene, identity, stdRequest())
	if len(r1.DirectLabels) != 1 || len(r1.LeaderLabels) != 1 {
		t.Fatalf("expected direct+leader baseline, got %+v", r1)
	}
	leaderIdx := e.prevPlacements["low"].candidateIdx

	// Drag the camera 30px: locked placement re-projects the same choices.
	panned := func(wx, wy float64) (float64, float64) { return wx + 30, wy }
	r2 := e.Place(scene, panned, lockedRequest(30))

	if len(r2.DirectLabels) != 1 || len(r2.LeaderLabels) != 1 || r2.HiddenCount != 0 {
		t.Fatalf("locked layout changed shape: %+v", r2)
	}
	if got, want := r2.DirectLabels[0].Box.X, r1.DirectLabels[0].Box.X+30; got != want {
		t.Fatalf("direct box should track the drag: got %.1f want %.1f", got, want)
	}
	if got, want := r2.LeaderLabels[0].Box.X, r1.LeaderLabels[0].Box.X+30; got != want {
		t.Fatalf("leader box should track the drag: got %.1f want %.1f", got, want)
	}
	if e.prevPlacements["low"].candidateIdx != leaderIdx {
		t.Fatal("locked layout must not re-search leader slots")
	}
}

func TestPlaceLocked_UnknownAircraftAreHidden(t *testing.T) {
	e := NewEngine()
	known := Aircraft{ID: "a", Callsign: "KNW01", WorldX: 400, WorldY: 300}
	e.Place([]Aircraft{known}, identity, stdRequest())

	res := e.Place([]Aircraft{
		known,
		{ID: "new", Callsign: "NEW99", WorldX: 200, WorldY: 200},
	}, identity, lockedRequest(0))

	if len(res.DirectLabels) != 1 || res.DirectLabels[0].Aircraft.ID != "a" {
		t.Fatalf("known aircraft should keep its slot: %+v", res.DirectLabels)
	}
	if res.HiddenCount != 1 {
		t.Fatalf("aircraft without a pre-lock placement must be hidden, got %d", res.HiddenCount)
	}
	if res.HiddenIndicator == nil {
		t.Fatal("expected a hidden indicator during the lock")
	}
}

func TestPlaceLocked_CalloutTracksDragAndStaysCached(t *testing.T) {
	e := NewEngine()
	aircraft := make([]Aircraft, 5)
	for i := range aircraft {
		aircraft[i] = Aircraft{ID: string(rune('a' + i)), Callsign: "LCK123", WorldX: 400, WorldY: 300}
	}
	e.Place(aircraft, identity, stdRequest())
	r1 := e.Place(aircraft, identity, stdRequest())
	if len(r1.Callouts) != 1 {
		t.Fatalf("expected a converged callout, got %+v", r1)
	}
	key := e.clusterKeyAt(400, 300, stdRequest())

	panned := func(wx, wy float64) (float64, float64) { return wx + 40, wy }
	r2 := e.Place(aircraft, panned, lockedRequest(40))

	if len(r2.Callouts) != 1 || len(r2.Callouts[0].AircraftPoints) != 5 {
		t.Fatalf("locked callout lost members: %+v", r2)
	}
	if got, want := r2.Callouts[0].Box.X, r1.Callouts[0].Box.X+40; !approxEq(got, want) {
		t.Fatalf("callout box should track the drag: got %.2f want %.2f", got, want)
	}
	memo := e.calloutCache[key]
	if memo == nil || memo.lastSeenFrame != e.Frame() {
		t.Fatal("locked frames must keep the callout cache entry alive")
	}
}

func TestPlaceLocked_MisfitCountsHidden(t *testing.T) {
	e := NewEngine()
	scene := []Aircraft{{ID: "a", Callsign: "EDG01", WorldX: 400, WorldY: 300}}
	e.Place(scene, identity, stdRequest())

	// Drag until the direct box pokes past the right edge.
	panned := func(wx, wy float64) (float64, float64) { return wx + 380, wy }
	res := e.Place(scene, panned, lockedRequest(380))

	if len(res.DirectLabels) != 0 {
		t.Fatalf("out-of-viewport box must not be kept: %+v", res.DirectLabels)
	}
	if res.HiddenCount != 1 {
		t.Fatalf("misfit aircraft must be counted hidden, got %d", res.HiddenCount)
	}
}
