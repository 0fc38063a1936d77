package radar

import (
	"strings"
	"testing"
)

func TestPlacementReport_Contents(t *testing.T) {
	e := NewEngine()
	scene := []Aircraft{{ID: "solo", Callsign: "RPT001", WorldX: 100, WorldY: 100}}
	for i := 0; i < 5; i++ {
		scene = append(scene, Aircraft{
			ID:       "knot-" + string(rune('a'+i)),
			Callsign: "RPT123",
			WorldX:   500,
			WorldY:   400,
		})
	}
	e.Place(scene, identity, stdRequest())
	res := e.Place(scene, identity, stdRequest())

	rep := e.PlacementReport(res)
	for _, want := range []string{
		"placement report",
		"frame=2 direct=1 leader=0 callouts=1 hidden=0",
		"direct:",
		"RPT001",
		"callouts:",
		"members=5 omitted=0",
		"cache:",
	} {
		if !strings.Contains(rep, want) {
			t.Fatalf("report missing %q:\n%s", want, rep)
		}
	}
	if strings.Contains(rep, "indicator:") {
		t.Fatalf("no indicator expected with nothing hidden:\n%s", rep)
	}
}

func TestPlacementReport_Empty(t *testing.T) {
	e := NewEngine()
	res := e.Place(nil, identity, stdRequest())

	rep := e.PlacementReport(res)
	if !strings.Contains(rep, "frame=1 direct=0 leader=0 callouts=0 hidden=0") {
		t.Fatalf("empty frame summary wrong:\n%s", rep)
	}
	if strings.Contains(rep, "direct:") || strings.Contains(rep, "callouts:") {
		t.Fatalf("empty frame must not list sections:\n%s", rep)
	}
}
