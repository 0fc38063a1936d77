package radar

import "fmt"

// TestScope is a headless harness driving the engine over scripted frames.
// It mirrors the interactive scope's update loop without any Ebiten
// dependency: aircraft advance along fixed velocities, the camera projector
// is a plain pan+zoom transform, and per-frame change detection feeds a
// StabilityLog that tests and the headless report interrogate.
type TestScope struct {
	Width  float64
	Height float64

	Engine *Engine
	Log    *StabilityLog

	CamX float64 // world-space position projected to the viewport centre
	CamY float64
	Zoom float64

	LastResult Result

	aircraft   []Aircraft
	velocities map[string]Point // world units per frame

	lastKinds    map[string]placementKind
	lastKeys     map[string]string
	lastHidden   int
	lastCallouts int
}

// scopeOptionKind controls the pass in which an option is applied.
type scopeOptionKind int

const (
	scopeOptInfra    scopeOptionKind = iota // viewport, camera, engine options, verbose
	scopeOptAircraft                        // add aircraft, applied after the engine exists
)

// ScopeOption is a builder function applied to a TestScope during construction.
type ScopeOption struct {
	kind scopeOptionKind
	fn   func(*TestScope)
}

// WithViewport sets the screen dimensions.
func WithViewport(w, h float64) ScopeOption {
	return ScopeOption{scopeOptInfra, func(ts *TestScope) {
		ts.Width = w
		ts.Height = h
	}}
}

// WithCamera sets the camera centre and zoom.
func WithCamera(x, y, zoom float64) ScopeOption {
	return ScopeOption{scopeOptInfra, func(ts *TestScope) {
		ts.CamX = x
		ts.CamY = y
		ts.Zoom = zoom
	}}
}

// WithEngineOptions forwards option overrides to the engine.
func WithEngineOptions(opts ...Option) ScopeOption {
	return ScopeOption{scopeOptInfra, func(ts *TestScope) {
		ts.Engine.UpdateOptions(opts...)
	}}
}

// WithVerboseLog enables per-frame verbose logging.
func WithVerboseLog(v bool) ScopeOption {
	return ScopeOption{scopeOptInfra, func(ts *TestScope) {
		ts.Log = NewStabilityLog(v)
	}}
}

// WithAircraft adds a stationary aircraft.
func WithAircraft(id, callsign string, x, y, priority float64) ScopeOption {
	return ScopeOption{scopeOptAircraft, func(ts *TestScope) {
		ts.addAircraft(Aircraft{ID: id, Callsign: callsign, WorldX: x, WorldY: y, Priority: priority}, 0, 0)
	}}
}

// WithMovingAircraft adds an aircraft advancing (vx,vy) world units per frame.
func WithMovingAircraft(id, callsign string, x, y, vx, vy, priority float64) ScopeOption {
	return ScopeOption{scopeOptAircraft, func(ts *TestScope) {
		ts.addAircraft(Aircraft{ID: id, Callsign: callsign, WorldX: x, WorldY: y, Priority: priority}, vx, vy)
	}}
}

// NewTestScope constructs a TestScope in two ordered passes: infrastructure
// first (viewport, camera, engine options), aircraft second.
func NewTestScope(opts ...ScopeOption) *TestScope {
	ts := &TestScope{
		Width:      800,
		Height:     600,
		Zoom:       1,
		Engine:     NewEngine(),
		Log:        NewStabilityLog(false),
		velocities: make(map[string]Point),
		lastKinds:  make(map[string]placementKind),
		lastKeys:   make(map[string]string),
	}
	for _, o := range opts {
		if o.kind == scopeOptInfra {
			o.fn(ts)
		}
	}
	for _, o := range opts {
		if o.kind == scopeOptAircraft {
			o.fn(ts)
		}
	}
	return ts
}

func (ts *TestScope) addAircraft(ac Aircraft, vx, vy float64) {
	ts.aircraft = append(ts.aircraft, ac)
	ts.velocities[ac.ID] = Point{X: vx, Y: vy}
}

// Aircraft returns the current aircraft set.
func (ts *TestScope) Aircraft() []Aircraft {
	return ts.aircraft
}

// MoveAircraft teleports an aircraft to a new world position.
func (ts *TestScope) MoveAircraft(id string, x, y float64) {
	for i := range ts.aircraft {
		if ts.aircraft[i].ID == id {
			ts.aircraft[i].WorldX = x
			ts.aircraft[i].WorldY = y
			return
		}
	}
}

// RemoveAircraft drops an aircraft from the set.
func (ts *TestScope) RemoveAircraft(id string) {
	kept := ts.aircraft[:0]
	for _, ac := range ts.aircraft {
		if ac.ID != id {
			kept = append(kept, ac)
		}
	}
	ts.aircraft = kept
	delete(ts.velocities, id)
}

// Projector returns the camera's world→screen transform.
func (ts *TestScope) Projector() Projector {
	camX, camY, zoom := ts.CamX, ts.CamY, ts.Zoom
	w, h := ts.Width, ts.Height
	return func(wx, wy float64) (float64, float64) {
		return (wx-camX)*zoom + w/2, (wy-camY)*zoom + h/2
	}
}

// Request returns the per-frame Place request for the current camera.
func (ts *TestScope) Request(lock bool) Request {
	project := ts.Projector()
	ox, oy := project(0, 0)
	return Request{
		ViewportW:   ts.Width,
		ViewportH:   ts.Height,
		GridOffsetX: ox,
		GridOffsetY: oy,
		LockLayout:  lock,
	}
}

// RunFrames advances the scope n frames, logging change events.
func (ts *TestScope) RunFrames(n int) {
	for i := 0; i < n; i++ {
		ts.runOneFrame(false)
	}
}

// RunLockedFrames advances n frames with the layout locked.
func (ts *TestScope) RunLockedFrames(n int) {
	for i := 0; i < n; i++ {
		ts.runOneFrame(true)
	}
}

// RunUntil advances up to maxFrames, stopping early if predicate returns
// true. Returns the frame at which the predicate was satisfied, or -1.
func (ts *TestScope) RunUntil(predicate func(*TestScope) bool, maxFrames int) int {
	for i := 0; i < maxFrames; i++ {
		ts.runOneFrame(false)
		if predicate(ts) {
			return ts.Engine.Frame()
		}
	}
	return -1
}

// runOneFrame advances positions, places labels, and logs changes against the
// previous frame.
func (ts *TestScope) runOneFrame(lock bool) {
	for i := range ts.aircraft {
		v := ts.velocities[ts.aircraft[i].ID]
		ts.aircraft[i].WorldX += v.X
		ts.aircraft[i].WorldY += v.Y
	}

	ts.LastResult = ts.Engine.Place(ts.aircraft, ts.Projector(), ts.Request(lock))
	frame := ts.Engine.Frame()

	// Change detection. After Place returns, the engine's "previous"
	// generation holds exactly this frame's outcome.
	for _, ac := range ts.aircraft {
		kind := placementNone
		if memo, ok := ts.Engine.prevPlacements[ac.ID]; ok {
			kind = memo.kind
		}
		if last, ok := ts.lastKinds[ac.ID]; ok && last != kind {
			ts.Log.Add(frame, ac.ID, "placement", "kind_change",
				fmt.Sprintf("%s → %s", last, kind), 0)
		}
		ts.lastKinds[ac.ID] = kind

		key := ts.Engine.prevClusterKeys[ac.ID]
		if last, ok := ts.lastKeys[ac.ID]; ok && key != "" && last != "" && last != key {
			ts.Log.Add(frame, ac.ID, "cluster", "key_change",
				fmt.Sprintf("%s → %s", last, key), 0)
		}
		ts.lastKeys[ac.ID] = key

		ts.Log.AddVerbose(frame, ac.ID, "placement", "kind", kind.String(), 0)
	}

	if ts.LastResult.HiddenCount != ts.lastHidden {
		ts.Log.Add(frame, "--", "hidden", "count_change",
			fmt.Sprintf("%d → %d", ts.lastHidden, ts.LastResult.HiddenCount),
			float64(ts.LastResult.HiddenCount))
	}
	ts.lastHidden = ts.LastResult.HiddenCount

	if n := len(ts.LastResult.Callouts); n != ts.lastCallouts {
		ts.Log.Add(frame, "--", "callout", "count_change",
			fmt.Sprintf("%d → %d", ts.lastCallouts, n), float64(n))
		ts.lastCallouts = n
	}
}
