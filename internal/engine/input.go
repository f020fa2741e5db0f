package engine

import (
	"time"

	"github.com/vovakirdan/arena-survival/internal/core"
)

// DefaultHoldFor is how long a key press counts as held without a repeat.
// Terminals report presses and auto-repeats but no releases.
const DefaultHoldFor = 140 * time.Millisecond

// InputSampler keeps the currently held actions and the last pointer
// position. Host callbacks mutate it; the simulation reads a snapshot once
// per tick.
type InputSampler struct {
	holdFor   time.Duration
	heldUntil [core.ActionCount]time.Time
	latched   [core.ActionCount]bool
	pressed   [core.ActionCount]bool

	pointer    core.Vec2
	pointerAt  time.Time
	hasPointer bool

	debug bool
}

// NewInputSampler creates a sampler. A non-positive holdFor uses DefaultHoldFor.
func NewInputSampler(holdFor time.Duration) *InputSampler {
	if holdFor <= 0 {
		holdFor = DefaultHoldFor
	}
	return &InputSampler{holdFor: holdFor}
}

// SetDebug enables the debug action. It is dropped otherwise.
func (s *InputSampler) SetDebug(on bool) {
	s.debug = on
}

// Press marks an action held for the hold window and records a press edge.
// Repeated presses extend the window.
func (s *InputSampler) Press(a core.Action, now time.Time) {
	if !s.valid(a) {
		return
	}
	s.heldUntil[a] = now.Add(s.holdFor)
	s.pressed[a] = true
}

// Hold marks an action held until Release, for hosts that report releases
// (mouse buttons).
func (s *InputSampler) Hold(a core.Action) {
	if !s.valid(a) {
		return
	}
	if !s.latched[a] {
		s.pressed[a] = true
	}
	s.latched[a] = true
}

// Release clears an action immediately.
func (s *InputSampler) Release(a core.Action) {
	if a <= core.ActionNone || int(a) >= core.ActionCount {
		return
	}
	s.heldUntil[a] = time.Time{}
	s.latched[a] = false
}

// MovePointer records the aim position in arena coordinates.
func (s *InputSampler) MovePointer(p core.Vec2, now time.Time) {
	s.pointer = p
	s.pointerAt = now
	s.hasPointer = true
}

// Reset forgets all held actions and the pointer.
func (s *InputSampler) Reset() {
	debug, holdFor := s.debug, s.holdFor
	*s = InputSampler{holdFor: holdFor, debug: debug}
}

func (s *InputSampler) valid(a core.Action) bool {
	if a <= core.ActionNone || int(a) >= core.ActionCount {
		return false
	}
	return a != core.ActionDebug || s.debug
}

// InputSnapshot is the immutable input state for one tick.
type InputSnapshot struct {
	Held    [core.ActionCount]bool
	Pressed [core.ActionCount]bool // Pressed since the previous sample

	Pointer     core.Vec2
	HasPointer  bool
	PointerIdle time.Duration
}

// Sample returns the input state at now and clears press edges.
func (s *InputSampler) Sample(now time.Time) InputSnapshot {
	var snap InputSnapshot
	for a := 1; a < core.ActionCount; a++ {
		snap.Held[a] = s.latched[a] || now.Before(s.heldUntil[a])
		snap.Pressed[a] = s.pressed[a]
		s.pressed[a] = false
	}
	if s.hasPointer {
		snap.Pointer = s.pointer
		snap.HasPointer = true
		snap.PointerIdle = now.Sub(s.pointerAt)
	}
	return snap
}

// Has reports whether a is held.
func (in InputSnapshot) Has(a core.Action) bool {
	return a > core.ActionNone && int(a) < core.ActionCount && in.Held[a]
}

// Tapped reports whether a was pressed since the previous sample.
func (in InputSnapshot) Tapped(a core.Action) bool {
	return a > core.ActionNone && int(a) < core.ActionCount && in.Pressed[a]
}

// Move returns the unit movement direction from the held move actions.
// Opposing keys cancel.
func (in InputSnapshot) Move() core.Vec2 {
	var v core.Vec2
	if in.Has(core.ActionMoveLeft) {
		v.X--
	}
	if in.Has(core.ActionMoveRight) {
		v.X++
	}
	if in.Has(core.ActionMoveUp) {
		v.Y--
	}
	if in.Has(core.ActionMoveDown) {
		v.Y++
	}
	return v.Norm()
}

// Facing returns the dominant held direction, or DirNone.
func (in InputSnapshot) Facing() core.Direction {
	switch {
	case in.Has(core.ActionMoveLeft) && !in.Has(core.ActionMoveRight):
		return core.DirLeft
	case in.Has(core.ActionMoveRight) && !in.Has(core.ActionMoveLeft):
		return core.DirRight
	case in.Has(core.ActionMoveUp) && !in.Has(core.ActionMoveDown):
		return core.DirUp
	case in.Has(core.ActionMoveDown) && !in.Has(core.ActionMoveUp):
		return core.DirDown
	}
	return core.DirNone
}
