package engine

import (
	"errors"
	"testing"
	"time"

	"github.com/vovakirdan/arena-survival/internal/config"
	"github.com/vovakirdan/arena-survival/internal/core"
	"github.com/vovakirdan/arena-survival/internal/economy"
)

func newTestEngine(t *testing.T, opts ...Option) (*Engine, *fakeScheduler) {
	t.Helper()
	sched := &fakeScheduler{}
	opts = append([]Option{WithScheduler(sched), WithSeed(7)}, opts...)
	e, err := New(testConfig(), opts...)
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	return e, sched
}

func TestLoopFrameCap(t *testing.T) {
	sched := &fakeScheduler{}
	var dts []time.Duration
	l := NewLoop(50*time.Millisecond, sched, func(dt time.Duration, _ time.Time) { dts = append(dts, dt) }, func(time.Time) {})
	t0 := time.Unix(1000, 0)

	l.Start(t0)
	l.Frame(sched.last(), t0.Add(16*time.Millisecond))
	l.Frame(sched.last(), t0.Add(10*time.Second))
	l.Frame(sched.last(), t0.Add(5*time.Second))

	want := []time.Duration{16 * time.Millisecond, 50 * time.Millisecond, 0}
	if len(dts) != len(want) {
		t.Fatalf("updates = %d, want %d", len(dts), len(want))
	}
	for i := range want {
		if dts[i] != want[i] {
			t.Errorf("dt[%d] = %v, want %v", i, dts[i], want[i])
		}
	}
}

func TestLoopStopIdempotent(t *testing.T) {
	sched := &fakeScheduler{}
	calls := 0
	l := NewLoop(50*time.Millisecond, sched, func(time.Duration, time.Time) { calls++ }, func(time.Time) {})
	t0 := time.Unix(1000, 0)

	l.Start(t0)
	stale := sched.last()
	l.Stop()
	l.Stop()
	if l.Running() || l.Pending() {
		t.Error("loop still running after Stop")
	}
	if l.Frame(stale, t0.Add(frame)) {
		t.Error("frame ran after Stop")
	}

	l.Start(t0)
	if l.Frame(stale, t0.Add(frame)) {
		t.Error("stale token from the previous run was accepted")
	}
	if !l.Frame(sched.last(), t0.Add(frame)) {
		t.Error("current token rejected")
	}
	if calls != 1 {
		t.Errorf("updates = %d, want 1", calls)
	}
	if !l.Pending() {
		t.Error("next frame not requested")
	}
}

func TestNewRefusesInvalidConfig(t *testing.T) {
	cfg := testConfig()
	cfg.Player.MaxHP = 0

	_, err := New(cfg)
	var verr *config.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("New() error = %v, want ValidationError", err)
	}
}

func TestSurfaceClaimedOnce(t *testing.T) {
	screen := core.NewScreen(80, 24)
	if _, err := New(testConfig(), WithSurface(screen)); err != nil {
		t.Fatalf("first New() failed: %v", err)
	}
	_, err := New(testConfig(), WithSurface(screen))
	if !errors.Is(err, ErrSurfaceClaimed) {
		t.Errorf("second New() error = %v, want ErrSurfaceClaimed", err)
	}
}

func TestRunLifecycle(t *testing.T) {
	e, sched := newTestEngine(t)
	t0 := time.Unix(1000, 0)

	e.StartRun(t0)
	first := sched.last()
	if !e.Running() {
		t.Fatal("engine not running after StartRun")
	}
	if !e.Frame(first, t0.Add(frame)) {
		t.Fatal("first frame rejected")
	}
	if e.State().Elapsed != frame {
		t.Errorf("Elapsed = %v, want %v", e.State().Elapsed, frame)
	}

	e.StopRun()
	e.StopRun()
	if e.Running() {
		t.Error("engine running after StopRun")
	}

	e.StartRun(t0.Add(time.Second))
	if e.Frame(first, t0.Add(time.Second+frame)) {
		t.Error("frame from the previous run was accepted")
	}
	if e.State().Elapsed != 0 {
		t.Errorf("new run Elapsed = %v, want 0", e.State().Elapsed)
	}
}

func TestDeathNotifiesOnceAndRestarts(t *testing.T) {
	e, sched := newTestEngine(t)
	t0 := time.Unix(1000, 0)

	var summaries []RunSummary
	e.OnDeath(func(s RunSummary) { summaries = append(summaries, s) })

	e.StartRun(t0)
	h := place(t, e.world, "A", e.State().Player.Pos)
	h.def.ContactDamage = 1000

	now := t0
	for i := 0; i < 5; i++ {
		now = now.Add(frame)
		e.Frame(sched.last(), now)
	}

	if len(summaries) != 1 {
		t.Fatalf("death callbacks = %d, want 1", len(summaries))
	}
	if summaries[0].Variant != "test" {
		t.Errorf("summary variant = %q", summaries[0].Variant)
	}
	hud := e.HUD()
	if !hud.Dead || hud.HP != 0 {
		t.Errorf("HUD = %+v, want dead at 0 hp", hud)
	}
	if !e.Running() {
		t.Error("render loop stopped on death")
	}

	var died bool
	for _, ev := range e.DrainEvents() {
		if ev.Kind == EventDeath {
			died = true
		}
	}
	if !died {
		t.Error("no death event")
	}

	e.Input().Press(core.ActionRestart, now)
	now = now.Add(frame)
	e.Frame(sched.last(), now)

	if e.State().Dead || e.State().Player.HP != 100 {
		t.Errorf("restart did not begin a new run: dead=%v hp=%v", e.State().Dead, e.State().Player.HP)
	}
}

func TestRestartIgnoredWhileAlive(t *testing.T) {
	e, sched := newTestEngine(t)
	t0 := time.Unix(1000, 0)
	e.StartRun(t0)
	e.Frame(sched.last(), t0.Add(frame))

	e.Input().Press(core.ActionRestart, t0.Add(frame))
	e.Frame(sched.last(), t0.Add(2*frame))

	if e.State().Elapsed != 2*frame {
		t.Errorf("Elapsed = %v, want %v", e.State().Elapsed, 2*frame)
	}
}

func TestPauseFreezesSimulation(t *testing.T) {
	e, sched := newTestEngine(t)
	t0 := time.Unix(1000, 0)
	e.StartRun(t0)

	e.Input().Press(core.ActionPause, t0)
	e.Frame(sched.last(), t0.Add(frame))
	e.Frame(sched.last(), t0.Add(2*frame))

	if !e.Paused() {
		t.Fatal("engine not paused")
	}
	if e.State().Elapsed != 0 {
		t.Errorf("Elapsed = %v while paused, want 0", e.State().Elapsed)
	}
}

func TestSurfaceRasterized(t *testing.T) {
	screen := core.NewScreen(80, 24)
	e, _ := newTestEngine(t, WithSurface(screen))
	e.StartRun(time.Unix(1000, 0))

	// player starts at the arena centre
	if got := screen.Get(40, 12); got != '@' {
		t.Errorf("centre cell = %q, want '@'", got)
	}
}

func TestLedgerDebounceFollowsConfig(t *testing.T) {
	tests := []struct {
		name       string
		debounceMs int
		want       time.Duration
	}{
		{"configured", 250, 250 * time.Millisecond},
		{"unset keeps default", 0, economy.DefaultDebounce},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig()
			cfg.Economy.DebounceMs = tt.debounceMs
			gw := economy.New(economy.NewMemoryStore())
			defer gw.Close()

			if _, err := New(cfg, WithLedger(gw), WithScheduler(&fakeScheduler{})); err != nil {
				t.Fatalf("New() failed: %v", err)
			}
			if got := gw.Debounce(); got != tt.want {
				t.Errorf("Debounce() = %v, want %v", got, tt.want)
			}
		})
	}
}
