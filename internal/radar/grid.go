package radar

import "math"

// spatialGrid is a uniform-cell broad-phase index over screen-space boxes.
// It only accumulates: boxes are inserted as the engine accepts them and the
// whole index is dropped at the start of the next frame. There is no removal.
//
// The cell size scales with the font size so typical labels span only a
// handful of cells. It is deliberately smaller than the clustering cell:
// collision granularity and visual grouping granularity are different jobs.
type spatialGrid struct {
	cellSize float64
	cells    map[gridCell][]int // cell → indices into boxes
	boxes    []Box
}

type gridCell struct {
	cx int
	cy int
}

func newSpatialGrid(cellSize float64) *spatialGrid {
	if cellSize <= 0 {
		cellSize = 1
	}
	return &spatialGrid{
		cellSize: cellSize,
		cells:    make(map[gridCell][]int),
	}
}

// cellSpan returns the inclusive cell range covered by a box.
func (g *spatialGrid) cellSpan(b Box) (x0, y0, x1, y1 int) {
	x0 = int(math.Floor(b.X / g.cellSize))
	y0 = int(math.Floor(b.Y / g.cellSize))
	x1 = int(math.Floor((b.X + b.W) / g.cellSize))
	y1 = int(math.Floor((b.Y + b.H) / g.cellSize))
	return x0, y0, x1, y1
}

// insert registers a box in every cell its rectangle spans.
func (g *spatialGrid) insert(b Box) {
	idx := len(g.boxes)
	g.boxes = append(g.boxes, b)
	x0, y0, x1, y1 := g.cellSpan(b)
	for cy := y0; cy <= y1; cy++ {
		for cx := x0; cx <= x1; cx++ {
			k := gridCell{cx: cx, cy: cy}
			g.cells[k] = append(g.cells[k], idx)
		}
	}
}

// hasOverlap reports whether b overlaps any inserted box. A box registered in
// several cells is tested only once.
func (g *spatialGrid) hasOverlap(b Box) bool {
	x0, y0, x1, y1 := g.cellSpan(b)
	seen := make(map[int]struct{})
	for cy := y0; cy <= y1; cy++ {
		for cx := x0; cx <= x1; cx++ {
			for _, idx := range g.cells[gridCell{cx: cx, cy: cy}] {
				if _, ok := seen[idx]; ok {
					continue
				}
				seen[idx] = struct{}{}
				if b.overlaps(g.boxes[idx]) {
					return true
				}
			}
		}
	}
	return false
}

// queryOverlaps returns every inserted box that overlaps b, deduplicated.
func (g *spatialGrid) queryOverlaps(b Box) []Box {
	x0, y0, x1, y1 := g.cellSpan(b)
	seen := make(map[int]struct{})
	var out []Box
	for cy := y0; cy <= y1; cy++ {
		for cx := x0; cx <= x1; cx++ {
			for _, idx := range g.cells[gridCell{cx: cx, cy: cy}] {
				if _, ok := seen[idx]; ok {
					continue
				}
				seen[idx] = struct{}{}
				if b.overlaps(g.boxes[idx]) {
					out = append(out, g.boxes[idx])
				}
			}
		}
	}
	return out
}

// clear drops all buckets. Called once per frame before the direct pass.
func (g *spatialGrid) clear() {
	g.boxes = g.boxes[:0]
	clear(g.cells)
}
