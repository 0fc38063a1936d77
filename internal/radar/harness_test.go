package radar

import "testing"

func TestNewTestScope_Defaults(t *testing.T) {
	ts := NewTestScope()
	if ts.Width != 800 || ts.Height != 600 || ts.Zoom != 1 {
		t.Fatalf("unexpected defaults: %f×%f zoom=%f", ts.Width, ts.Height, ts.Zoom)
	}
	if ts.Engine == nil || ts.Log == nil {
		t.Fatal("scope must construct its engine and log")
	}
}

func TestTestScope_ProjectorCentersCamera(t *testing.T) {
	ts := NewTestScope(WithViewport(800, 600), WithCamera(100, 50, 2))
	p := ts.Projector()

	if x, y := p(100, 50); x != 400 || y != 300 {
		t.Fatalf("camera position must project to the viewport centre, got (%.1f,%.1f)", x, y)
	}
	if x, _ := p(150, 50); x != 500 {
		t.Fatalf("zoom must scale offsets from the camera, got x=%.1f", x)
	}
}

func TestTestScope_StaticSceneDoesNotFlicker(t *testing.T) {
	ts := NewTestScope(
		WithAircraft("a", "STA01", -150, -100, 0),
		WithAircraft("b", "STA02", 150, 100, 0),
	)
	ts.RunFrames(30)

	if n := ts.Log.Count("placement", "kind_change"); n != 0 {
		t.Fatalf("static scene produced %d kind changes:\n%s", n, ts.Log.Format())
	}
	if n := ts.Log.Count("cluster", "key_change"); n != 0 {
		t.Fatalf("static scene produced %d cluster changes:\n%s", n, ts.Log.Format())
	}
	if len(ts.LastResult.DirectLabels) != 2 {
		t.Fatalf("both separated aircraft should label directly: %+v", ts.LastResult)
	}
}

func TestTestScope_LogsKindChanges(t *testing.T) {
	opts := []ScopeOption{}
	for i := 0; i < 5; i++ {
		opts = append(opts, WithAircraft(string(rune('a'+i)), "KND123", 0, 0, 0))
	}
	ts := NewTestScope(opts...)
	ts.RunFrames(3)

	// The first frame's direct escapee is recaptured into the callout on the
	// second frame, which the log must record as a kind change.
	if ts.Log.Count("placement", "kind_change") == 0 {
		t.Fatal("expected at least one kind change during convergence")
	}
	if !ts.Log.HasEvent("placement", "kind_change", "callout") {
		t.Fatalf("expected a change into callout:\n%s", ts.Log.Format())
	}
	if ts.Log.Count("callout", "count_change") == 0 {
		t.Fatalf("callout formation should be logged:\n%s", ts.Log.Format())
	}
	if len(ts.LastResult.Callouts) != 1 || len(ts.LastResult.Callouts[0].AircraftPoints) != 5 {
		t.Fatalf("stack should converge to one callout: %+v", ts.LastResult)
	}
}

func TestTestScope_LogsHiddenCountChanges(t *testing.T) {
	ts := NewTestScope(
		WithViewport(100, 100),
		WithAircraft("big", "WWWWWWWWWWWWWWWWWWWWWWWWWWWWWWWWWWWWWWWW", 0, 0, 0),
	)
	ts.RunFrames(5)

	if n := ts.Log.Count("hidden", "count_change"); n != 1 {
		t.Fatalf("expected a single 0→1 transition, got %d:\n%s", n, ts.Log.Format())
	}
	ev, ok := ts.Log.LastOf("hidden", "count_change")
	if !ok || ev.NumVal != 1 {
		t.Fatalf("hidden event should carry the new count: %+v", ev)
	}
}

func TestTestScope_RunUntil(t *testing.T) {
	ts := NewTestScope(
		WithViewport(100, 100),
		WithAircraft("big", "WWWWWWWWWWWWWWWWWWWWWWWWWWWWWWWWWWWWWWWW", 0, 0, 0),
	)
	frame := ts.RunUntil(func(ts *TestScope) bool {
		return ts.LastResult.HiddenCount > 0
	}, 10)
	if frame != 1 {
		t.Fatalf("predicate satisfied on frame 1, got %d", frame)
	}

	if got := ts.RunUntil(func(*TestScope) bool { return false }, 5); got != -1 {
		t.Fatalf("unsatisfied predicate must return -1, got %d", got)
	}
}

func TestTestScope_MoveAndRemoveAircraft(t *testing.T) {
	ts := NewTestScope(
		WithAircraft("a", "MOV01", 0, 0, 0),
		WithAircraft("b", "MOV02", 100, 0, 0),
	)

	ts.MoveAircraft("b", 250, 50)
	ts.RemoveAircraft("a")

	got := ts.Aircraft()
	if len(got) != 1 || got[0].ID != "b" {
		t.Fatalf("expected only b to remain: %+v", got)
	}
	if got[0].WorldX != 250 || got[0].WorldY != 50 {
		t.Fatalf("move not applied: %+v", got[0])
	}
}

func TestTestScope_MovingAircraftAdvance(t *testing.T) {
	ts := NewTestScope(WithMovingAircraft("m", "MVG01", 10, 20, 1, -0.5, 0))
	ts.RunFrames(4)

	got := ts.Aircraft()[0]
	if got.WorldX != 14 || got.WorldY != 18 {
		t.Fatalf("velocity not applied per frame: %+v", got)
	}
}
