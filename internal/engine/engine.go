package engine

import (
	"errors"
	"fmt"
	"io"
	"math/rand"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/arena-survival/internal/config"
	"github.com/vovakirdan/arena-survival/internal/core"
	"github.com/vovakirdan/arena-survival/internal/economy"
)

// ErrSurfaceClaimed is returned when a screen already belongs to another engine.
var ErrSurfaceClaimed = errors.New("engine: surface already claimed")

// Ledger receives currency earned in a run. *economy.Gateway implements it.
type Ledger interface {
	Credit(c economy.Currency, amount int64) error
	Pump()
	Flush()
	Totals() economy.Totals
}

// debouncer is a Ledger whose write coalescing window follows the arena's
// economy.debounce_ms.
type debouncer interface {
	SetDebounce(d time.Duration)
}

// EventKind tags engine notifications for the host (sound cues, logs).
type EventKind uint8

const (
	EventPhase EventKind = iota
	EventHit
	EventPickup
	EventKill
	EventBlast
	EventAnnounce
	EventDeath
)

// Event is something that happened during a frame.
type Event struct {
	Kind   EventKind
	Phase  int
	Amount float64
	Text   string
}

// RunSummary describes a finished run.
type RunSummary struct {
	Variant  string
	Phase    int
	Survived time.Duration
	Kills    int
	Soft     int64
	Premium  int64
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the engine logger.
func WithLogger(l *log.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithLedger routes earned currency to l.
func WithLedger(l Ledger) Option {
	return func(e *Engine) {
		if l != nil {
			e.ledger = l
		}
	}
}

// WithScheduler sets the host frame scheduler.
func WithScheduler(s Scheduler) Option {
	return func(e *Engine) { e.sched = s }
}

// WithSeed fixes the RNG seed. Zero picks a time-based seed.
func WithSeed(seed int64) Option {
	return func(e *Engine) { e.seed = seed }
}

// WithDebug enables the debug action.
func WithDebug(on bool) Option {
	return func(e *Engine) { e.debug = on }
}

// WithSurface rasterizes every rendered frame into screen. The engine claims
// the screen; a screen already claimed by another engine is refused.
func WithSurface(screen *core.Screen) Option {
	return func(e *Engine) { e.surface = screen }
}

// WithHoldFor sets how long a key press counts as held.
func WithHoldFor(d time.Duration) Option {
	return func(e *Engine) { e.holdFor = d }
}

// Engine owns one arena: configuration, input, the current run and the
// frame loop. Hosts construct one per surface.
type Engine struct {
	cfg     config.ArenaConfig
	logger  *log.Logger
	ledger  Ledger
	sched   Scheduler
	seed    int64
	debug   bool
	holdFor time.Duration
	surface *core.Screen

	rng   *rand.Rand
	loop  *Loop
	input *InputSampler
	world *world

	paused   bool
	notified bool
	onDeath  func(RunSummary)
	events   []Event
	draw     []DrawCmd
}

// New validates cfg and builds an idle engine. No run starts until StartRun.
func New(cfg config.ArenaConfig, opts ...Option) (*Engine, error) {
	if err := config.Validate(cfg); err != nil {
		return nil, fmt.Errorf("engine: invalid config: %w", err)
	}

	e := &Engine{
		cfg:    cfg,
		logger: log.New(io.Discard),
		ledger: &memLedger{},
	}
	for _, opt := range opts {
		opt(e)
	}
	if d, ok := e.ledger.(debouncer); ok && cfg.Economy.DebounceMs > 0 {
		d.SetDebounce(cfg.Economy.Debounce())
	}

	if e.surface != nil {
		if err := e.surface.Claim(fmt.Sprintf("engine-%p", e)); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrSurfaceClaimed, err)
		}
	}

	if e.seed == 0 {
		e.seed = time.Now().UnixNano()
	}
	e.rng = rand.New(rand.NewSource(e.seed))
	e.input = NewInputSampler(e.holdFor)
	e.input.SetDebug(e.debug)
	e.loop = NewLoop(cfg.Loop.FrameCap(), e.sched, e.update, e.render)
	e.world = newWorld(&e.cfg, e.rng, e.ledger, e.logger)
	return e, nil
}

// Config returns the engine's arena configuration.
func (e *Engine) Config() config.ArenaConfig {
	return e.cfg
}

// Input returns the sampler host callbacks write into.
func (e *Engine) Input() *InputSampler {
	return e.input
}

// Loop exposes the frame driver, for hosts that inspect the token.
func (e *Engine) Loop() *Loop {
	return e.loop
}

// State returns the current run. Callers must treat it as read-only.
func (e *Engine) State() *RunState {
	return e.world.st
}

// OnDeath registers the terminal-state callback.
func (e *Engine) OnDeath(fn func(RunSummary)) {
	e.onDeath = fn
}

// StartRun discards the current run and begins a new one at now.
func (e *Engine) StartRun(now time.Time) {
	e.loop.Stop()

	e.world = newWorld(&e.cfg, e.rng, e.ledger, e.logger)
	e.world.seed()
	e.input.Reset()
	e.paused = false
	e.notified = false
	e.events = nil

	e.loop.Start(now)
	e.render(now)
	e.logger.Info("engine: run started", "variant", e.cfg.ID, "hazards", len(e.world.st.Hazards))
}

// StopRun halts the current run. Calling it again has no effect.
func (e *Engine) StopRun() {
	e.loop.Stop()
	st := e.world.st
	if !st.Running {
		return
	}
	st.Running = false
	e.ledger.Flush()
	e.logger.Info("engine: run stopped", "variant", e.cfg.ID, "phase", st.Phase.Phase, "elapsed", st.Elapsed)
}

// Running reports whether a run is active (including its death frame).
func (e *Engine) Running() bool {
	return e.loop.Running()
}

// Paused reports whether the simulation is paused.
func (e *Engine) Paused() bool {
	return e.paused
}

// Frame is the host's frame callback. Stale tokens are ignored.
func (e *Engine) Frame(token uint64, now time.Time) bool {
	return e.loop.Frame(token, now)
}

// DrawList returns the draw commands of the last rendered frame.
func (e *Engine) DrawList() []DrawCmd {
	return e.draw
}

// DrainEvents returns and clears the events gathered since the last call.
func (e *Engine) DrainEvents() []Event {
	ev := e.events
	e.events = nil
	return ev
}

// HUD returns the values the host displays for the current frame.
func (e *Engine) HUD() HUD {
	st := e.world.st
	totals := e.ledger.Totals()
	return HUD{
		Title:    e.cfg.Title,
		HP:       st.Player.HP,
		MaxHP:    st.Player.MaxHP,
		Elapsed:  st.Elapsed,
		Phase:    st.Phase.Phase,
		Soft:     totals.Soft,
		Premium:  totals.Premium,
		RunSoft:  st.Player.Soft,
		RunPrem:  st.Player.Premium,
		Kills:    st.Kills,
		Grenades: st.Player.Grenade,
		Boost:    st.Player.Boost,
		Dead:     st.Dead,
		Paused:   e.paused,
		Alert:    st.LatestAlert(),
	}
}

// Summary describes the current run.
func (e *Engine) Summary() RunSummary {
	st := e.world.st
	return RunSummary{
		Variant:  e.cfg.ID,
		Phase:    st.Phase.Phase,
		Survived: st.Elapsed,
		Kills:    st.Kills,
		Soft:     st.Player.Soft,
		Premium:  st.Player.Premium,
	}
}

func (e *Engine) update(dt time.Duration, now time.Time) {
	in := e.input.Sample(now)
	w := e.world
	st := w.st

	if in.Tapped(core.ActionDebug) {
		st.Debug = !st.Debug
	}
	if st.Dead {
		if in.Tapped(core.ActionRestart) {
			e.StartRun(now)
		}
		return
	}
	if in.Tapped(core.ActionPause) {
		e.paused = !e.paused
	}
	if e.paused {
		return
	}

	w.step(in, dt)
	e.events = append(e.events, w.events...)
	w.events = w.events[:0]

	if st.Dead && !e.notified {
		e.notified = true
		sum := e.Summary()
		e.logger.Info("engine: player died", "variant", sum.Variant, "phase", sum.Phase, "survived", sum.Survived, "kills", sum.Kills)
		if e.onDeath != nil {
			e.onDeath(sum)
		}
	}
}

func (e *Engine) render(_ time.Time) {
	e.draw = Render(e.world.st, &e.cfg)
	if e.surface != nil {
		e.surface.Clear()
		Rasterize(e.surface, e.draw, core.Bounds{W: e.cfg.Arena.Width, H: e.cfg.Arena.Height})
	}
}

// memLedger keeps totals in memory for engines without durable storage.
type memLedger struct {
	totals economy.Totals
}

func (m *memLedger) Credit(c economy.Currency, amount int64) error {
	if amount < 0 {
		return fmt.Errorf("%w: %d %s", economy.ErrNegativeAmount, amount, c)
	}
	switch c {
	case economy.Soft:
		m.totals.Soft += amount
	case economy.Premium:
		m.totals.Premium += amount
	default:
		return fmt.Errorf("%w: %q", economy.ErrUnknownCurrency, c)
	}
	return nil
}

func (m *memLedger) Pump()                  {}
func (m *memLedger) Flush()                 {}
func (m *memLedger) Totals() economy.Totals { return m.totals }
