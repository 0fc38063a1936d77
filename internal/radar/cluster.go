package radar

import (
	"fmt"
	"math"
)

// displaced is an aircraft that failed (or was barred from) direct placement,
// carried through clustering with its projected anchor and preferred label
// dimensions already computed.
type displaced struct {
	aircraft Aircraft
	anchor   Point
	boxW     float64
	boxH     float64
}

// cluster is a group of displaced aircraft sharing one coarse grid cell,
// resolved together as either leader lines or a stacked callout. Member order
// preserves the priority order of the frame.
type cluster struct {
	key     string
	members []displaced
}

// clusterKeyAt returns the stable key of the clustering cell containing a
// screen anchor. The caller-supplied grid offset anchors cell boundaries in
// world space so they do not slide as the camera pans.
func (e *Engine) clusterKeyAt(x, y float64, req Request) string {
	cell := e.ClusterCellSize()
	cx := int(math.Floor((x - req.GridOffsetX) / cell))
	cy := int(math.Floor((y - req.GridOffsetY) / cell))
	return fmt.Sprintf("%d:%d", cx, cy)
}

// clusterCellCenter returns the screen-space centre of a cluster key's cell.
func (e *Engine) clusterCellCenter(key string, req Request) (float64, float64, bool) {
	var cx, cy int
	if _, err := fmt.Sscanf(key, "%d:%d", &cx, &cy); err != nil {
		return 0, 0, false
	}
	cell := e.ClusterCellSize()
	return (float64(cx)+0.5)*cell + req.GridOffsetX,
		(float64(cy)+0.5)*cell + req.GridOffsetY, true
}

// assignClusterKey computes an aircraft's cluster key with hysteresis: the
// previous frame's key is kept until the anchor moves more than half a cell
// plus the configured margin from the previous cell's centre. Aircraft
// hovering near a cell boundary therefore do not re-cluster every frame.
func (e *Engine) assignClusterKey(id string, x, y float64, req Request) string {
	fresh := e.clusterKeyAt(x, y, req)
	prev, ok := e.prevClusterKeys[id]
	if !ok || prev == fresh {
		return fresh
	}
	pcx, pcy, ok := e.clusterCellCenter(prev, req)
	if !ok {
		return fresh
	}
	limit := e.ClusterCellSize()/2 + e.opts.ClusterHysteresisMargin
	if math.Abs(x-pcx) > limit || math.Abs(y-pcy) > limit {
		return fresh
	}
	return prev
}

// clusterDisplaced groups displaced aircraft by cluster key. Cluster order is
// first-member-encounter order and member order is input order, both of which
// follow the frame's priority sort, keeping the whole resolve pass
// deterministic.
func (e *Engine) clusterDisplaced(items []displaced, req Request) []cluster {
	byKey := make(map[string]int, len(items))
	var out []cluster
	for _, d := range items {
		key := e.assignClusterKey(d.aircraft.ID, d.anchor.X, d.anchor.Y, req)
		e.curClusterKeys[d.aircraft.ID] = key
		i, ok := byKey[key]
		if !ok {
			i = len(out)
			byKey[key] = i
			out = append(out, cluster{key: key})
		}
		out[i].members = append(out[i].members, d)
	}
	return out
}

// wantsCallout decides callout-vs-leader-lines for a cluster. A callout forms
// when the cluster is large enough, and an existing callout persists while
// its cache entry lives: a cluster that shrinks below the release size stays
// boxed until the entry is pruned, which stops flapping as membership churns.
func (e *Engine) wantsCallout(cl cluster) bool {
	if len(cl.members) >= e.opts.CalloutThreshold {
		return true
	}
	memo, ok := e.calloutCache[cl.key]
	if !ok {
		return false
	}
	if memo.lastSeenFrame == e.frame-1 && len(cl.members) >= e.opts.CalloutReleaseThreshold {
		return true
	}
	// A cached box that has not yet been pruned keeps the cluster boxed even
	// below the release size; this is what stops escape-and-recapture flicker.
	return true
}
