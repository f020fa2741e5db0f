package engine

import (
	"testing"
	"time"

	"github.com/vovakirdan/arena-survival/internal/core"
)

func TestPressHoldWindow(t *testing.T) {
	s := NewInputSampler(0)
	t0 := time.Unix(1000, 0)

	s.Press(core.ActionMoveLeft, t0)

	first := s.Sample(t0.Add(50 * time.Millisecond))
	if !first.Has(core.ActionMoveLeft) || !first.Tapped(core.ActionMoveLeft) {
		t.Fatal("press not held or not tapped on first sample")
	}
	second := s.Sample(t0.Add(100 * time.Millisecond))
	if !second.Has(core.ActionMoveLeft) {
		t.Error("press released before the hold window")
	}
	if second.Tapped(core.ActionMoveLeft) {
		t.Error("press edge reported twice")
	}
	if s.Sample(t0.Add(DefaultHoldFor + time.Millisecond)).Has(core.ActionMoveLeft) {
		t.Error("press still held after the hold window")
	}
}

func TestRepeatExtendsHold(t *testing.T) {
	s := NewInputSampler(100 * time.Millisecond)
	t0 := time.Unix(1000, 0)

	s.Press(core.ActionFire, t0)
	s.Press(core.ActionFire, t0.Add(80*time.Millisecond))

	if !s.Sample(t0.Add(150 * time.Millisecond)).Has(core.ActionFire) {
		t.Error("auto-repeat did not extend the hold")
	}
}

func TestHoldUntilRelease(t *testing.T) {
	s := NewInputSampler(0)
	t0 := time.Unix(1000, 0)

	s.Hold(core.ActionFire)
	if !s.Sample(t0.Add(time.Hour)).Has(core.ActionFire) {
		t.Error("held button dropped without release")
	}
	s.Release(core.ActionFire)
	if s.Sample(t0).Has(core.ActionFire) {
		t.Error("released button still held")
	}
}

func TestDebugActionGated(t *testing.T) {
	s := NewInputSampler(0)
	t0 := time.Unix(1000, 0)

	s.Press(core.ActionDebug, t0)
	if s.Sample(t0).Tapped(core.ActionDebug) {
		t.Error("debug action accepted while debug is off")
	}

	s.SetDebug(true)
	s.Press(core.ActionDebug, t0)
	if !s.Sample(t0).Tapped(core.ActionDebug) {
		t.Error("debug action dropped while debug is on")
	}
}

func TestMoveNormalized(t *testing.T) {
	tests := []struct {
		name   string
		held   []core.Action
		wantX  float64
		wantY  float64
		facing core.Direction
	}{
		{"none", nil, 0, 0, core.DirNone},
		{"left", []core.Action{core.ActionMoveLeft}, -1, 0, core.DirLeft},
		{"opposed", []core.Action{core.ActionMoveLeft, core.ActionMoveRight}, 0, 0, core.DirNone},
		{"down", []core.Action{core.ActionMoveDown}, 0, 1, core.DirDown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var in InputSnapshot
			for _, a := range tt.held {
				in.Held[a] = true
			}
			m := in.Move()
			if m.X != tt.wantX || m.Y != tt.wantY {
				t.Errorf("Move() = %v, want (%v, %v)", m, tt.wantX, tt.wantY)
			}
			if f := in.Facing(); f != tt.facing {
				t.Errorf("Facing() = %v, want %v", f, tt.facing)
			}
		})
	}

	var diag InputSnapshot
	diag.Held[core.ActionMoveUp] = true
	diag.Held[core.ActionMoveRight] = true
	if l := diag.Move().Len(); !near(l, 1) {
		t.Errorf("diagonal length = %v, want 1", l)
	}
}

func TestPointerIdle(t *testing.T) {
	s := NewInputSampler(0)
	t0 := time.Unix(1000, 0)

	if s.Sample(t0).HasPointer {
		t.Fatal("pointer reported before any move")
	}
	s.MovePointer(core.V(10, 20), t0)
	snap := s.Sample(t0.Add(300 * time.Millisecond))
	if !snap.HasPointer || snap.Pointer != core.V(10, 20) {
		t.Errorf("pointer = %v (%v)", snap.Pointer, snap.HasPointer)
	}
	if snap.PointerIdle != 300*time.Millisecond {
		t.Errorf("PointerIdle = %v, want 300ms", snap.PointerIdle)
	}
}
