package radar

// Aircraft is one labelable contact, supplied fresh every frame. Identity is
// the ID string; the engine correlates frames by ID, never by slice position.
type Aircraft struct {
	ID       string
	Callsign string  // label text shown on the scope
	WorldX   float64 // anchor position in world space
	WorldY   float64
	Priority float64 // higher places first; zero is a normal contact
}

// Point is a screen-space position in pixels.
type Point struct {
	X float64
	Y float64
}

// Box is an axis-aligned screen-space rectangle with a top-left origin.
type Box struct {
	X float64
	Y float64
	W float64
	H float64
}

// overlaps reports whether two boxes intersect on both axes.
// Touching edges count as non-overlap.
func (b Box) overlaps(o Box) bool {
	return b.X < o.X+o.W && o.X < b.X+b.W &&
		b.Y < o.Y+o.H && o.Y < b.Y+b.H
}

// inside reports whether b lies fully within a w×h viewport.
func (b Box) inside(w, h float64) bool {
	return b.X >= 0 && b.Y >= 0 && b.X+b.W <= w && b.Y+b.H <= h
}

// PlacedLabel is one accepted label: the aircraft it belongs to, the chosen
// box, and the screen anchor the label refers to.
type PlacedLabel struct {
	Aircraft        Aircraft
	Box             Box
	Anchor          Point
	NeedsLeaderLine bool // caller should draw an anchor→box connector
}

// Callout is one stacked box summarising a dense cluster. The caller draws
// the box, the shown callsigns, an optional "+N more" line, and a branch line
// from the box to every entry in AircraftPoints.
type Callout struct {
	Aircraft       []Aircraft // members shown in the box (possibly truncated)
	Box            Box
	Centroid       Point   // smoothed cluster centroid in screen space
	AircraftPoints []Point // screen anchor of every member, shown or omitted
	OmittedCount   int     // members folded into the "+N more" line
}

// Result is the full outcome of one Place call. All boxes across DirectLabels,
// LeaderLabels, Callouts, and HiddenIndicator are mutually non-overlapping.
type Result struct {
	DirectLabels []PlacedLabel
	LeaderLabels []PlacedLabel
	Callouts     []Callout
	HiddenCount  int
	// HiddenIndicator is the "+N hidden" corner label. Nil when everything
	// fit, or when no viewport corner was free.
	HiddenIndicator *PlacedLabel
}

// Projector converts a world position to screen pixels. It must be pure;
// the engine may call it many times per frame.
type Projector func(worldX, worldY float64) (screenX, screenY float64)

// MeasureFunc returns the pixel width of text at a font size. It must be
// pure; results are cached by (text, fontSize) for the engine's lifetime.
type MeasureFunc func(text string, fontSize float64) float64

// Request carries the per-call parameters of Place.
type Request struct {
	ViewportW float64
	ViewportH float64

	// LabelOffsetX is the preferred gap between an anchor and its direct
	// label. Zero means the default of 10px.
	LabelOffsetX float64

	// GridOffsetX/Y shift the clustering grid so cluster cell boundaries stay
	// fixed in world space instead of sliding with the camera. Callers
	// typically pass the projected screen position of the world origin.
	GridOffsetX float64
	GridOffsetY float64

	// LockLayout freezes membership and slot choices: the previous frame's
	// placements are re-projected and kept if they still fit, and nothing new
	// is searched. Anything that no longer fits is counted as hidden.
	LockLayout bool
}
