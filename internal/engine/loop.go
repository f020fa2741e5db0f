// Package engine implements the arena-survival simulation: the frame loop,
// the entity store, phase escalation, spawning, collision and damage, and a
// pure render pass producing draw commands. It knows nothing about terminals;
// the platform layer supplies a Scheduler and rasterizes the draw list.
package engine

import "time"

// Scheduler asks the host for one future frame callback.
// The host must eventually call Loop.Frame with the same token.
type Scheduler interface {
	RequestFrame(token uint64)
}

// Loop drives update and render from host frame callbacks.
// Each Start begins a new generation; callbacks carrying an older token
// are dropped, so a frame scheduled before Stop never reaches a later run.
type Loop struct {
	frameCap time.Duration
	sched    Scheduler
	update   func(dt time.Duration, now time.Time)
	render   func(now time.Time)

	token   uint64
	running bool
	pending bool
	last    time.Time
}

// NewLoop creates a stopped loop.
func NewLoop(frameCap time.Duration, sched Scheduler, update func(time.Duration, time.Time), render func(time.Time)) *Loop {
	return &Loop{
		frameCap: frameCap,
		sched:    sched,
		update:   update,
		render:   render,
	}
}

// Start begins scheduling frames. Starting a running loop is a no-op.
func (l *Loop) Start(now time.Time) {
	if l.running {
		return
	}
	l.token++
	l.running = true
	l.last = now
	l.schedule()
}

// Stop halts scheduling and invalidates any outstanding callback.
// It is safe to call repeatedly.
func (l *Loop) Stop() {
	if !l.running {
		return
	}
	l.running = false
	l.pending = false
	l.token++
}

// Running reports whether the loop is scheduling frames.
func (l *Loop) Running() bool {
	return l.running
}

// Pending reports whether a frame callback is outstanding.
func (l *Loop) Pending() bool {
	return l.pending
}

// Token returns the current generation token.
func (l *Loop) Token() uint64 {
	return l.token
}

// Frame runs one update+render pair if token is current, then schedules the
// next frame. It reports whether the frame ran.
func (l *Loop) Frame(token uint64, now time.Time) bool {
	if !l.running || token != l.token {
		return false
	}
	l.pending = false

	dt := now.Sub(l.last)
	if dt < 0 {
		dt = 0
	}
	if dt > l.frameCap {
		dt = l.frameCap
	}
	l.last = now

	l.update(dt, now)
	l.render(now)

	// update may have stopped the loop
	if l.running && token == l.token {
		l.schedule()
	}
	return true
}

func (l *Loop) schedule() {
	l.pending = true
	if l.sched != nil {
		l.sched.RequestFrame(l.token)
	}
}
