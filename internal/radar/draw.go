package radar

import (
	"fmt"
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

var (
	colBackground = color.RGBA{R: 8, G: 14, B: 10, A: 255}
	colBlip       = color.RGBA{R: 90, G: 230, B: 120, A: 255}
	colBlipPrio   = color.RGBA{R: 255, G: 180, B: 60, A: 255}
	colDirectBG   = color.RGBA{R: 16, G: 34, B: 22, A: 200}
	colLeaderBG   = color.RGBA{R: 16, G: 28, B: 40, A: 200}
	colLeaderLine = color.RGBA{R: 110, G: 170, B: 200, A: 120}
	colCalloutBG  = color.RGBA{R: 34, G: 26, B: 14, A: 220}
	colCalloutBrd = color.RGBA{R: 210, G: 160, B: 70, A: 180}
	colBranchLine = color.RGBA{R: 210, G: 160, B: 70, A: 90}
	colIndicator  = color.RGBA{R: 70, G: 16, B: 16, A: 220}
	colCellLine   = color.RGBA{R: 60, G: 90, B: 70, A: 60}
)

// Draw renders the sector, the blips, and the full placement result.
func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(colBackground)

	if g.showCells {
		g.drawClusterCells(screen)
	}
	g.drawBlips(screen)
	g.drawPlacement(screen)
	g.drawHUD(screen)
}

// drawBlips draws every contact as a small diamond, priority traffic in amber.
func (g *Game) drawBlips(screen *ebiten.Image) {
	project := g.projector()
	for _, ac := range g.traffic.Aircraft() {
		sx, sy := project(ac.WorldX, ac.WorldY)
		if sx < -20 || sx > float64(g.width)+20 || sy < -20 || sy > float64(g.height)+20 {
			continue
		}
		col := colBlip
		if ac.Priority > 0 {
			col = colBlipPrio
		}
		x := float32(sx)
		y := float32(sy)
		r := float32(3)
		vector.StrokeLine(screen, x-r, y, x, y-r, 1, col, false)
		vector.StrokeLine(screen, x, y-r, x+r, y, 1, col, false)
		vector.StrokeLine(screen, x+r, y, x, y+r, 1, col, false)
		vector.StrokeLine(screen, x, y+r, x-r, y, 1, col, false)
	}
}

// drawPlacement renders every element of the engine's result: label pills,
// leader lines, stacked callouts with branch lines, and the hidden indicator.
func (g *Game) drawPlacement(screen *ebiten.Image) {
	pad := 4

	for _, pl := range g.result.DirectLabels {
		drawPill(screen, pl.Box, colDirectBG)
		ebitenutil.DebugPrintAt(screen, pl.Aircraft.Callsign, int(pl.Box.X)+pad, int(pl.Box.Y)+pad)
	}

	for _, pl := range g.result.LeaderLabels {
		// Connector from the anchor to the nearest point on the box edge.
		ex, ey := nearestBoxPoint(pl.Box, pl.Anchor)
		vector.StrokeLine(screen,
			float32(pl.Anchor.X), float32(pl.Anchor.Y),
			float32(ex), float32(ey), 1, colLeaderLine, false)
		drawPill(screen, pl.Box, colLeaderBG)
		ebitenutil.DebugPrintAt(screen, pl.Aircraft.Callsign, int(pl.Box.X)+pad, int(pl.Box.Y)+pad)
	}

	for _, co := range g.result.Callouts {
		// Branch lines first so the box paints over their near ends.
		bx := float32(co.Box.X + co.Box.W/2)
		by := float32(co.Box.Y + co.Box.H/2)
		for _, p := range co.AircraftPoints {
			vector.StrokeLine(screen, bx, by, float32(p.X), float32(p.Y), 1, colBranchLine, false)
		}
		drawPill(screen, co.Box, colCalloutBG)
		vector.StrokeRect(screen,
			float32(co.Box.X), float32(co.Box.Y),
			float32(co.Box.W), float32(co.Box.H), 1, colCalloutBrd, false)

		lineH := int(g.engine.lineHeight())
		for i, ac := range co.Aircraft {
			ebitenutil.DebugPrintAt(screen, ac.Callsign, int(co.Box.X)+pad, int(co.Box.Y)+pad+i*lineH)
		}
		if co.OmittedCount > 0 {
			more := fmt.Sprintf("+%d more", co.OmittedCount)
			ebitenutil.DebugPrintAt(screen, more, int(co.Box.X)+pad, int(co.Box.Y)+pad+len(co.Aircraft)*lineH)
		}
	}

	if ind := g.result.HiddenIndicator; ind != nil {
		drawPill(screen, ind.Box, colIndicator)
		ebitenutil.DebugPrintAt(screen, ind.Aircraft.Callsign, int(ind.Box.X)+pad, int(ind.Box.Y)+pad)
	}
}

// drawClusterCells overlays the clustering grid for debugging, using the same
// world-anchored offset the engine clusters with.
func (g *Game) drawClusterCells(screen *ebiten.Image) {
	cell := g.engine.ClusterCellSize()
	project := g.projector()
	ox, oy := project(0, 0)

	startX := math.Mod(ox, cell)
	if startX > 0 {
		startX -= cell
	}
	startY := math.Mod(oy, cell)
	if startY > 0 {
		startY -= cell
	}
	for x := startX; x <= float64(g.width); x += cell {
		vector.StrokeLine(screen, float32(x), 0, float32(x), float32(g.height), 1, colCellLine, false)
	}
	for y := startY; y <= float64(g.height); y += cell {
		vector.StrokeLine(screen, 0, float32(y), float32(g.width), float32(y), 1, colCellLine, false)
	}
}

// drawHUD prints the control help and the frame's placement tallies.
func (g *Game) drawHUD(screen *ebiten.Image) {
	status := fmt.Sprintf(
		"frame %d  direct:%d leader:%d callouts:%d hidden:%d  zoom %.2fx",
		g.engine.Frame(),
		len(g.result.DirectLabels), len(g.result.LeaderLabels),
		len(g.result.Callouts), g.result.HiddenCount, g.camZoom)
	ebitenutil.DebugPrintAt(screen, status, 8, g.height-34)
	help := "arrows/drag: pan  wheel: zoom  +/-: zoom jump  space: pause  C: cells  R: copy report"
	ebitenutil.DebugPrintAt(screen, help, 8, g.height-18)

	if g.statusLeft > 0 && g.statusMsg != "" {
		ebitenutil.DebugPrintAt(screen, g.statusMsg, 8, g.height-50)
	}
}

// drawPill fills a label background box.
func drawPill(screen *ebiten.Image, b Box, col color.RGBA) {
	vector.FillRect(screen, float32(b.X), float32(b.Y), float32(b.W), float32(b.H), col, false)
}

// nearestBoxPoint returns the point on the box perimeter closest to p,
// used as the leader-line endpoint.
func nearestBoxPoint(b Box, p Point) (float64, float64) {
	x := math.Max(b.X, math.Min(p.X, b.X+b.W))
	y := math.Max(b.Y, math.Min(p.Y, b.Y+b.H))
	return x, y
}
