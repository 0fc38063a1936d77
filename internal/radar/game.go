package radar

import (
	"fmt"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
)

const (
	defaultWindowW = 1280
	defaultWindowH = 720

	trafficCount  = 90
	sectorW       = 2400.0
	sectorH       = 1400.0
	zoomStep      = 1.1
	panSpeed      = 8.0 // world units per frame at zoom 1
	statusFrames  = 120 // how long a status message stays on the HUD
	zoomJumpRatio = 1.5 // zoom change beyond this ratio resets engine state
)

// Game is the interactive scope: synthetic traffic, a pannable/zoomable
// camera, and the placement engine layered on top. While the mouse drags the
// view the layout is locked so labels track the camera without reshuffling.
type Game struct {
	width  int
	height int

	engine  *Engine
	traffic *Traffic
	result  Result

	camX    float64 // world-space point at the viewport centre
	camY    float64
	camZoom float64

	paused    bool
	showCells bool // cluster cell debug overlay

	dragging   bool
	lastMouseX int
	lastMouseY int

	prevKeys map[ebiten.Key]bool

	statusMsg  string
	statusLeft int
}

// New builds the interactive scope with default traffic.
func New() *Game {
	g := &Game{
		width:    defaultWindowW,
		height:   defaultWindowH,
		engine:   NewEngine(),
		traffic:  NewTraffic(trafficCount, time.Now().UnixNano(), sectorW, sectorH),
		camX:     sectorW / 2,
		camY:     sectorH / 2,
		camZoom:  0.6,
		prevKeys: make(map[ebiten.Key]bool),
	}
	// The demo renders with the 7x13 bitmap face, so measure with it too.
	g.engine.SetMeasureFunc(MeasureBasicFont)
	return g
}

// keyPressed reports an edge-triggered key press.
func (g *Game) keyPressed(k ebiten.Key) bool {
	down := ebiten.IsKeyPressed(k)
	was := g.prevKeys[k]
	g.prevKeys[k] = down
	return down && !was
}

// projector returns the current camera's world→screen transform.
func (g *Game) projector() Projector {
	camX, camY, zoom := g.camX, g.camY, g.camZoom
	w, h := float64(g.width), float64(g.height)
	return func(wx, wy float64) (float64, float64) {
		return (wx-camX)*zoom + w/2, (wy-camY)*zoom + h/2
	}
}

func (g *Game) setStatus(msg string) {
	g.statusMsg = msg
	g.statusLeft = statusFrames
}

// Update advances traffic, handles input, and recomputes the layout.
func (g *Game) Update() error {
	g.handleInput()

	if !g.paused {
		g.traffic.Advance()
	}

	project := g.projector()
	ox, oy := project(0, 0)
	g.result = g.engine.Place(g.traffic.Aircraft(), project, Request{
		ViewportW:   float64(g.width),
		ViewportH:   float64(g.height),
		GridOffsetX: ox,
		GridOffsetY: oy,
		LockLayout:  g.dragging,
	})

	if g.statusLeft > 0 {
		g.statusLeft--
	}
	return nil
}

func (g *Game) handleInput() {
	// Keyboard pan.
	pan := panSpeed / g.camZoom
	if ebiten.IsKeyPressed(ebiten.KeyArrowLeft) {
		g.camX -= pan
	}
	if ebiten.IsKeyPressed(ebiten.KeyArrowRight) {
		g.camX += pan
	}
	if ebiten.IsKeyPressed(ebiten.KeyArrowUp) {
		g.camY -= pan
	}
	if ebiten.IsKeyPressed(ebiten.KeyArrowDown) {
		g.camY += pan
	}

	// Zoom. A wheel notch is a gentle step; a big programmatic jump would
	// need ClearState, which the +/- keys demonstrate.
	_, wheelY := ebiten.Wheel()
	if wheelY > 0 {
		g.camZoom *= zoomStep
	} else if wheelY < 0 {
		g.camZoom /= zoomStep
	}
	if g.keyPressed(ebiten.KeyEqual) { // '+' without shift on most layouts
		old := g.camZoom
		g.camZoom *= zoomJumpRatio
		g.onZoomJump(old)
	}
	if g.keyPressed(ebiten.KeyMinus) {
		old := g.camZoom
		g.camZoom /= zoomJumpRatio
		g.onZoomJump(old)
	}

	// Mouse drag pans with the layout locked.
	mx, my := ebiten.CursorPosition()
	if ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft) {
		if g.dragging {
			g.camX -= float64(mx-g.lastMouseX) / g.camZoom
			g.camY -= float64(my-g.lastMouseY) / g.camZoom
		}
		g.dragging = true
		g.lastMouseX = mx
		g.lastMouseY = my
	} else {
		g.dragging = false
	}

	if g.keyPressed(ebiten.KeySpace) {
		g.paused = !g.paused
	}
	if g.keyPressed(ebiten.KeyC) {
		g.showCells = !g.showCells
	}
	if g.keyPressed(ebiten.KeyR) {
		if err := g.engine.CopyPlacementReport(g.result); err != nil {
			g.setStatus("report copy failed: " + err.Error())
		} else {
			g.setStatus("placement report copied to clipboard")
		}
	}
}

// onZoomJump resets engine state on discontinuous zoom changes so stability
// hints from the old scale do not distort the new layout.
func (g *Game) onZoomJump(oldZoom float64) {
	ratio := g.camZoom / oldZoom
	if ratio < 1 {
		ratio = 1 / ratio
	}
	if ratio >= zoomJumpRatio {
		g.engine.ClearState()
		g.setStatus(fmt.Sprintf("zoom %.2fx: engine state cleared", g.camZoom))
	}
}

// Layout implements ebiten.Game.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.width, g.height
}
