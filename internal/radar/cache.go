package radar

// placementKind classifies how an aircraft was handled in a frame. The
// previous frame's kind drives this frame's hysteresis decisions.
type placementKind uint8

const (
	placementNone placementKind = iota
	placementDirect
	placementLeader
	placementCallout
	placementHidden
)

func (k placementKind) String() string {
	switch k {
	case placementDirect:
		return "direct"
	case placementLeader:
		return "leader"
	case placementCallout:
		return "callout"
	case placementHidden:
		return "hidden"
	default:
		return "none"
	}
}

// placementMemo is the per-aircraft cross-frame record: what kind of slot the
// aircraft got and, for leader labels, which candidate index won.
type placementMemo struct {
	kind         placementKind
	candidateIdx int // winning leader slot; -1 for non-leader placements
}

// calloutMemo is the per-cluster-key callout cache entry. Positions are
// stored as offsets (box relative to centroid, centroid relative to the
// cluster cell's geometric centre) so the entry stays valid while the
// camera pans.
type calloutMemo struct {
	boxOffX, boxOffY           float64
	boxW, boxH                 float64
	centroidOffX, centroidOffY float64
	memberIDs                  map[string]struct{}
	lastSeenFrame              int
}

// pruneCalloutCache evicts entries not refreshed within calloutPruneFrames,
// bounding cache growth as clusters appear and vanish over a long session.
func (e *Engine) pruneCalloutCache() {
	for key, m := range e.calloutCache {
		if e.frame-m.lastSeenFrame > calloutPruneFrames {
			delete(e.calloutCache, key)
		}
	}
}

// swapGenerations publishes this frame's memos as the next frame's "previous"
// state. The current maps are rebuilt from scratch each call, so a slot is
// never read and written through in the same generation.
func (e *Engine) swapGenerations() {
	e.prevPlacements = e.curPlacements
	e.curPlacements = make(map[string]placementMemo, len(e.prevPlacements))
	e.prevClusterKeys = e.curClusterKeys
	e.curClusterKeys = make(map[string]string, len(e.prevClusterKeys))
}
