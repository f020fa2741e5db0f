package engine

import (
	"reflect"
	"slices"
	"testing"
	"time"

	"github.com/vovakirdan/arena-survival/internal/core"
)

func TestRenderIsPure(t *testing.T) {
	w := newTestWorld(t, testConfig())
	st := w.st
	place(t, w, "T", core.V(100, 100))
	st.AddHazard(Hazard{Kind: "zone", Behavior: HazardZone, Pos: core.V(300, 300), Radius: 40, ArmedAt: time.Second})
	st.Pickups = append(st.Pickups, Pickup{Pos: core.V(50, 50), Glyph: "+", Progress: 0.5})
	st.Alert("PHASE 2", core.ColorBrightYellow, time.Second)

	hazards := slices.Clone(st.Hazards)
	pickups := slices.Clone(st.Pickups)
	player := st.Player

	first := Render(st, w.cfg)
	second := Render(st, w.cfg)

	if !reflect.DeepEqual(first, second) {
		t.Error("Render is not deterministic")
	}
	if !reflect.DeepEqual(hazards, st.Hazards) || !reflect.DeepEqual(pickups, st.Pickups) || player != st.Player {
		t.Error("Render mutated the run state")
	}
}

func TestRenderCommands(t *testing.T) {
	w := newTestWorld(t, testConfig())
	st := w.st
	st.AddHazard(Hazard{Kind: "zone", Behavior: HazardZone, Pos: core.V(300, 300), Radius: 40, Inner: 20, ArmedAt: time.Second})
	st.Pickups = append(st.Pickups, Pickup{Pos: core.V(50, 50), Glyph: "+", Progress: 0.5})
	st.Alert("LOW HP!", core.ColorBrightRed, time.Second)

	cmds := Render(st, w.cfg)

	var ring, pickup, player, banner *DrawCmd
	for i := range cmds {
		c := &cmds[i]
		switch {
		case c.Kind == DrawRing:
			ring = c
		case c.Kind == DrawGlyph && c.Glyph == "+":
			pickup = c
		case c.Kind == DrawGlyph && c.Glyph == "@":
			player = c
		case c.Kind == DrawBanner:
			banner = c
		}
	}
	if ring == nil || !ring.Dim || ring.Inner != 20 {
		t.Errorf("telegraphed ring zone = %+v", ring)
	}
	if pickup == nil || !pickup.Dim {
		t.Errorf("fading pickup = %+v", pickup)
	}
	if player == nil {
		t.Error("no player command")
	}
	if banner == nil || banner.Text != "LOW HP!" {
		t.Errorf("banner = %+v", banner)
	}
}

func TestRenderDeadPlayer(t *testing.T) {
	w := newTestWorld(t, testConfig())
	w.st.Dead = true

	cmds := Render(w.st, w.cfg)
	last := cmds[len(cmds)-1]
	if last.Glyph != "X" {
		t.Errorf("dead player glyph = %q, want X", last.Glyph)
	}
}

func TestDebugOverlay(t *testing.T) {
	w := newTestWorld(t, testConfig())
	place(t, w, "B", core.V(100, 100))

	plain := len(Render(w.st, w.cfg))
	w.st.Debug = true
	if got := len(Render(w.st, w.cfg)); got <= plain {
		t.Errorf("debug overlay added nothing: %d vs %d commands", got, plain)
	}
}
