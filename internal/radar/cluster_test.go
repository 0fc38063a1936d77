package radar

import "testing"

func TestClusterKeyAt(t *testing.T) {
	e := NewEngine() // cluster cell = 12 × 12px font = 144px
	req := stdRequest()

	if key := e.clusterKeyAt(100, 100, req); key != "0:0" {
		t.Fatalf("expected 0:0, got %s", key)
	}
	if key := e.clusterKeyAt(150, 150, req); key != "1:1" {
		t.Fatalf("expected 1:1, got %s", key)
	}
	if key := e.clusterKeyAt(-1, -1, req); key != "-1:-1" {
		t.Fatalf("expected -1:-1, got %s", key)
	}
}

func TestClusterKeyAt_GridOffsetAnchorsCells(t *testing.T) {
	e := NewEngine()
	// With the grid origin moved to (150,150) the same screen point lands in
	// the origin cell: cell boundaries follow the world, not the screen.
	req := Request{ViewportW: 800, ViewportH: 600, GridOffsetX: 150, GridOffsetY: 150}
	if key := e.clusterKeyAt(150, 150, req); key != "0:0" {
		t.Fatalf("expected 0:0 under offset grid, got %s", key)
	}
	if key := e.clusterKeyAt(100, 100, req); key != "-1:-1" {
		t.Fatalf("expected -1:-1 under offset grid, got %s", key)
	}
}

func TestClusterCellCenter(t *testing.T) {
	e := NewEngine()
	cx, cy, ok := e.clusterCellCenter("1:1", stdRequest())
	if !ok || cx != 216 || cy != 216 {
		t.Fatalf("expected centre (216,216), got (%.1f,%.1f) ok=%v", cx, cy, ok)
	}

	// Round trip: the centre of a key's cell maps back to the same key.
	if key := e.clusterKeyAt(cx, cy, stdRequest()); key != "1:1" {
		t.Fatalf("cell centre did not round-trip, got %s", key)
	}

	if _, _, ok := e.clusterCellCenter("garbage", stdRequest()); ok {
		t.Fatal("malformed key must not parse")
	}
}

func TestAssignClusterKey_Hysteresis(t *testing.T) {
	e := NewEngine() // cell 144, margin 16: reassign past 88px from the old centre
	req := stdRequest()
	e.prevClusterKeys["a"] = "0:0" // cell centre (72,72)

	// 78px from the old centre: inside the hysteresis band, key is kept even
	// though the anchor now sits in cell 1:0.
	if key := e.assignClusterKey("a", 150, 70, req); key != "0:0" {
		t.Fatalf("anchor inside hysteresis band must keep its key, got %s", key)
	}
	// 98px out: past the band, the fresh key wins.
	if key := e.assignClusterKey("a", 170, 70, req); key != "1:0" {
		t.Fatalf("anchor past hysteresis band must re-cluster, got %s", key)
	}
	// Unknown aircraft have no previous key to stick to.
	if key := e.assignClusterKey("b", 150, 70, req); key != "1:0" {
		t.Fatalf("unknown aircraft must get the fresh key, got %s", key)
	}
}

func TestClusterDisplaced_GroupsInEncounterOrder(t *testing.T) {
	e := NewEngine()
	items := []displaced{
		{aircraft: Aircraft{ID: "a"}, anchor: Point{X: 10, Y: 10}},
		{aircraft: Aircraft{ID: "b"}, anchor: Point{X: 500, Y: 10}},
		{aircraft: Aircraft{ID: "c"}, anchor: Point{X: 20, Y: 20}},
	}
	clusters := e.clusterDisplaced(items, stdRequest())

	if len(clusters) != 2 {
		t.Fatalf("expected 2 clusters, got %d", len(clusters))
	}
	if clusters[0].key != "0:0" || len(clusters[0].members) != 2 {
		t.Fatalf("first cluster wrong: key=%s members=%d", clusters[0].key, len(clusters[0].members))
	}
	if clusters[0].members[0].aircraft.ID != "a" || clusters[0].members[1].aircraft.ID != "c" {
		t.Fatal("member order must follow input order")
	}
	if clusters[1].key != "3:0" || len(clusters[1].members) != 1 {
		t.Fatalf("second cluster wrong: key=%s members=%d", clusters[1].key, len(clusters[1].members))
	}
}

func TestWantsCallout(t *testing.T) {
	e := NewEngine() // threshold 4, release 3

	if e.wantsCallout(cluster{key: "0:0", members: make([]displaced, 4)}) != true {
		t.Fatal("cluster at formation threshold must want a callout")
	}
	if e.wantsCallout(cluster{key: "0:0", members: make([]displaced, 3)}) != false {
		t.Fatal("sub-threshold cluster with no cached callout must use leader lines")
	}

	// A cached entry keeps the cluster boxed: at the release size via the
	// shrink rule, and below it for as long as the entry survives pruning.
	e.frame = 6
	e.calloutCache["0:0"] = &calloutMemo{lastSeenFrame: 5}
	if e.wantsCallout(cluster{key: "0:0", members: make([]displaced, 3)}) != true {
		t.Fatal("cluster at release size with a live callout must stay boxed")
	}
	if e.wantsCallout(cluster{key: "0:0", members: make([]displaced, 1)}) != true {
		t.Fatal("any cached, unpruned callout keeps its cluster boxed")
	}
}

func TestCallout_ShrinkingClusterStaysBoxed(t *testing.T) {
	e := NewEngine()
	build := func(n int) []Aircraft {
		out := make([]Aircraft, n)
		for i := range out {
			out[i] = Aircraft{ID: string(rune('a' + i)), Callsign: "SHR123", WorldX: 400, WorldY: 300}
		}
		return out
	}

	e.Place(build(5), identity, stdRequest())
	e.Place(build(5), identity, stdRequest()) // converged: one 5-member callout

	// Shrink to 3: at the release threshold, the callout persists.
	res := e.Place(build(3), identity, stdRequest())
	if len(res.Callouts) != 1 || len(res.Callouts[0].AircraftPoints) != 3 {
		t.Fatalf("callout must persist at release size: %+v", res)
	}
	if len(res.DirectLabels) != 0 || len(res.LeaderLabels) != 0 {
		t.Fatal("shrunk cluster must not release into individual labels")
	}

	// Shrink to 2: still boxed while the cache entry lives.
	res = e.Place(build(2), identity, stdRequest())
	if len(res.Callouts) != 1 || len(res.Callouts[0].AircraftPoints) != 2 {
		t.Fatalf("callout must persist below release size while cached: %+v", res)
	}
}

func TestPruneCalloutCache_EvictsStaleEntries(t *testing.T) {
	e := NewEngine()
	aircraft := make([]Aircraft, 5)
	for i := range aircraft {
		aircraft[i] = Aircraft{ID: string(rune('a' + i)), Callsign: "PRU123", WorldX: 400, WorldY: 300}
	}
	e.Place(aircraft, identity, stdRequest())
	e.Place(aircraft, identity, stdRequest())
	if len(e.calloutCache) != 1 {
		t.Fatalf("expected one cached callout, got %d", len(e.calloutCache))
	}

	// An empty scope ages the entry out after the prune window.
	for i := 0; i < 70; i++ {
		e.Place(nil, identity, stdRequest())
	}
	if len(e.calloutCache) != 0 {
		t.Fatalf("stale callout entry survived pruning: %d left", len(e.calloutCache))
	}
}
