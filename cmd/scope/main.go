package main

import (
	"log"

	"github.com/Garsondee/Radar-Scope/internal/radar"
	"github.com/hajimehoshi/ebiten/v2"
)

func main() {
	ebiten.SetWindowTitle("Radar Scope")
	ebiten.SetWindowSize(1280, 720)
	if err := ebiten.RunGame(radar.New()); err != nil {
		log.Fatal(err)
	}
}
