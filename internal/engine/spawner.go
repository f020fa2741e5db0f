package engine

import (
	"math"
	"math/rand"
	"sort"
	"time"

	"github.com/vovakirdan/arena-survival/internal/config"
	"github.com/vovakirdan/arena-survival/internal/core"
)

type spawnTimer struct {
	def    config.TimedSpawn
	nextAt time.Duration
}

// Spawner materializes hazards and pickups and retires what is gone.
type Spawner struct {
	cfg    *config.ArenaConfig
	bounds core.Bounds
	rng    *rand.Rand

	timers     []spawnTimer
	eventFired bool
	tracked    []string // Hazard kinds managed by the composition table
}

// NewSpawner creates a spawner whose timers start at phase 1.
func NewSpawner(cfg *config.ArenaConfig, rng *rand.Rand) *Spawner {
	s := &Spawner{
		cfg:    cfg,
		bounds: core.Bounds{W: cfg.Arena.Width, H: cfg.Arena.Height},
		rng:    rng,
	}

	// Kinds fill in the order the table introduces them, so under the
	// hazard cap later arrivals are the ones left short.
	seen := make(map[string]bool)
	for _, step := range cfg.Composition {
		var fresh []string
		for kind := range step.Counts {
			if !seen[kind] {
				seen[kind] = true
				fresh = append(fresh, kind)
			}
		}
		sort.Strings(fresh)
		s.tracked = append(s.tracked, fresh...)
	}

	first := NewPhaseScheduler(cfg.Phase)
	for _, def := range cfg.Spawns {
		s.timers = append(s.timers, spawnTimer{def: def, nextAt: s.interval(def, &first)})
	}
	return s
}

// interval draws the next delay for a timed spawn: base plus or minus
// jitter, shrunk by the phase, never below the floor.
func (s *Spawner) interval(def config.TimedSpawn, ph *PhaseScheduler) time.Duration {
	base := float64(def.BaseIntervalMs)
	if def.JitterMs > 0 {
		base += (s.rng.Float64()*2 - 1) * float64(def.JitterMs)
	}
	ms := math.Max(float64(def.MinIntervalMs), base*ph.SpawnIntervalMult())
	return time.Duration(ms * float64(time.Millisecond))
}

// Target returns the composition for a phase: the last step whose
// threshold the phase has reached.
func (s *Spawner) Target(phase int) map[string]int {
	var target map[string]int
	for _, step := range s.cfg.Composition {
		if step.FromPhase > phase {
			break
		}
		target = step.Counts
	}
	return target
}

// Reconcile spawns the shortfall of every composition kind. Overshoot is
// only trimmed when seeding a run; mid-run hazards are never removed.
func (s *Spawner) Reconcile(st *RunState, seeding bool) (added, removed int) {
	target := s.Target(st.Phase.Phase)
	for _, kind := range s.tracked {
		want := target[kind]
		have := st.CountKind(kind)
		for i := have; i < want; i++ {
			if s.SpawnHazard(st, kind) {
				added++
			}
		}
		if seeding && have > want {
			removed += s.trim(st, kind, have-want)
		}
	}
	return added, removed
}

// trim marks the newest n hazards of kind dead.
func (s *Spawner) trim(st *RunState, kind string, n int) int {
	removed := 0
	for i := len(st.Hazards) - 1; i >= 0 && removed < n; i-- {
		h := &st.Hazards[i]
		if !h.Dead && h.Kind == kind {
			h.Dead = true
			removed++
		}
	}
	return removed
}

// SpawnHazard adds one hazard of kind entering from an arena edge.
// It refuses when the live hazard cap is reached.
func (s *Spawner) SpawnHazard(st *RunState, kind string) bool {
	if s.cfg.MaxHazards > 0 && st.LiveHazards() >= s.cfg.MaxHazards {
		return false
	}
	return s.spawnHazard(st, kind)
}

func (s *Spawner) spawnHazard(st *RunState, kind string) bool {
	def, ok := s.cfg.Hazards[kind]
	if !ok {
		return false
	}
	b, ok := parseBehavior(def.Behavior)
	if !ok {
		return false
	}

	pos, vel := s.edgeEntry(def.Radius)
	hp := def.HP
	if hp > 0 && def.HPJitter > 0 {
		hp += s.rng.Float64() * def.HPJitter
	}
	speed := def.Speed
	if def.SpeedJitter > 0 {
		speed += s.rng.Float64() * def.SpeedJitter
	}
	wobble := 0.0
	if def.Wobble > 0 {
		wobble = def.Wobble * (0.8 + s.rng.Float64()*1.1)
	}

	defCopy := def
	st.AddHazard(Hazard{
		Kind:      kind,
		Behavior:  b,
		Pos:       pos,
		Vel:       vel,
		Radius:    def.Radius,
		HP:        hp,
		MaxHP:     hp,
		Speed:     speed,
		BornAt:    st.Elapsed,
		ContactAt: st.Elapsed,
		FireAt:    st.Elapsed,
		Wobble:    wobble,
		WobbleT:   s.rng.Float64() * 2 * math.Pi,
		Glyph:     def.Glyph,
		Color:     colorByName(def.Color),
		def:       &defCopy,
	})
	return true
}

// edgeEntry picks a position just outside a random edge and a heading
// into the arena with a little sideways drift.
func (s *Spawner) edgeEntry(radius float64) (core.Vec2, core.Vec2) {
	w, h := s.bounds.W, s.bounds.H
	off := math.Min(2*radius, s.cfg.Arena.DespawnMargin/2)
	inset := math.Min(80, math.Min(w, h)/4)
	drift := s.rng.Float64()*0.6 - 0.3

	switch s.rng.Intn(4) {
	case 0:
		return core.V(-off, inset+s.rng.Float64()*(h-2*inset)), core.V(1, drift).Norm()
	case 1:
		return core.V(w+off, inset+s.rng.Float64()*(h-2*inset)), core.V(-1, drift).Norm()
	case 2:
		return core.V(inset+s.rng.Float64()*(w-2*inset), -off), core.V(drift, 1).Norm()
	default:
		return core.V(inset+s.rng.Float64()*(w-2*inset), h+off), core.V(drift, -1).Norm()
	}
}

// randomPos returns a uniform position inside the spawn margin.
func (s *Spawner) randomPos() core.Vec2 {
	m := s.cfg.Arena.SpawnMargin
	return core.V(m+s.rng.Float64()*(s.bounds.W-2*m), m+s.rng.Float64()*(s.bounds.H-2*m))
}

// SpawnZone adds a damage zone with random size, lifetime and shape.
func (s *Spawner) SpawnZone(st *RunState) {
	z := s.cfg.Zones
	radius := z.MinRadius + s.rng.Float64()*(z.MaxRadius-z.MinRadius)
	life := z.MinLifeMs + s.rng.Intn(z.MaxLifeMs-z.MinLifeMs+1)

	inner := 0.0
	if s.rng.Float64() < z.RingChance && radius > z.RingWidth {
		inner = radius - z.RingWidth
	}
	st.AddHazard(Hazard{
		Kind:      "zone",
		Behavior:  HazardZone,
		Pos:       s.randomPos(),
		Radius:    radius,
		Inner:     inner,
		BornAt:    st.Elapsed,
		ArmedAt:   st.Elapsed + msDuration(z.WarnMs),
		ExpiresAt: st.Elapsed + msDuration(life),
		Color:     core.ColorBlue,
	})
}

// SpawnGas adds the shrinking safe circle centred on the arena.
func (s *Spawner) SpawnGas(st *RunState) {
	g := s.cfg.Gas
	st.AddHazard(Hazard{
		Kind:     "gas",
		Behavior: HazardGas,
		Pos:      s.bounds.Center(),
		Radius:   math.Max(s.bounds.W, s.bounds.H) * g.StartFactor,
		BornAt:   st.Elapsed,
		Color:    core.ColorPurple,
	})
}

// SpawnPickup adds a pickup of kind. With at == nil the pickup appears at a
// random position, or drops in from the top edge when the kind falls.
func (s *Spawner) SpawnPickup(st *RunState, name string, at *core.Vec2) bool {
	def, ok := s.cfg.Pickups[name]
	if !ok {
		return false
	}
	kind, ok := parsePickup(name)
	if !ok {
		return false
	}

	var pos core.Vec2
	switch {
	case at != nil && def.FallSpeed > 0:
		m := s.cfg.Arena.SpawnMargin
		pos = core.V(core.ClampF(at.X, m, s.bounds.W-m), -def.Radius)
	case at != nil:
		pos = *at
	case def.FallSpeed > 0:
		pos = core.V(s.randomPos().X, -def.Radius)
	default:
		pos = s.randomPos()
	}

	p := Pickup{
		Kind:      kind,
		Pos:       pos,
		Radius:    def.Radius,
		Value:     def.Value,
		FallSpeed: def.FallSpeed,
		BornAt:    st.Elapsed,
		Progress:  1,
		Glyph:     def.Glyph,
		Color:     colorByName(def.Color),
	}
	if def.FadeInMs > 0 {
		p.Progress = 0
	}
	if def.TTLMs > 0 {
		p.ExpiresAt = st.Elapsed + msDuration(def.TTLMs)
	}
	st.Pickups = append(st.Pickups, p)
	return true
}

// Drop rolls a drop rule and spawns its pickup near at.
func (s *Spawner) Drop(st *RunState, rule config.DropRule, at core.Vec2) bool {
	if rule.Pickup == "" || s.rng.Float64() >= rule.Chance {
		return false
	}
	return s.SpawnPickup(st, rule.Pickup, &at)
}

// Tick fires due timed spawns and rolls the one-shot event. It returns the
// event announcement when the event triggers.
func (s *Spawner) Tick(st *RunState) (announce string, fired bool) {
	for i := range s.timers {
		t := &s.timers[i]
		if st.Elapsed < t.nextAt {
			continue
		}
		t.nextAt = st.Elapsed + s.interval(t.def, &st.Phase)
		if st.Phase.Phase < t.def.FromPhase || s.rng.Float64() >= t.def.Chance {
			continue
		}
		s.spawnTarget(st, t.def.Spawn)
	}

	ev := s.cfg.Event
	if ev.Enabled && !s.eventFired &&
		st.Phase.Phase >= ev.PhaseMin && st.Phase.Phase <= ev.PhaseMax &&
		s.rng.Float64() < ev.ChancePerFrame {
		s.eventFired = true
		// the event ignores the hazard cap
		if s.spawnHazard(st, ev.Kind) {
			return ev.Announce, true
		}
	}
	return "", false
}

// EventFired reports whether the one-shot event already triggered this run.
func (s *Spawner) EventFired() bool {
	return s.eventFired
}

func (s *Spawner) spawnTarget(st *RunState, target string) {
	if target == config.SpawnZone {
		s.SpawnZone(st)
		return
	}
	if _, ok := s.cfg.Pickups[target]; ok {
		s.SpawnPickup(st, target, nil)
		return
	}
	s.SpawnHazard(st, target)
}

// Sweep removes dead, expired and out-of-bounds entities. Hazards whose
// behavior keeps them alive off-bounds are re-entered instead.
func (s *Spawner) Sweep(w *world) {
	st := w.st
	margin := s.cfg.Arena.DespawnMargin
	now := st.Elapsed

	for i := range st.Hazards {
		h := &st.Hazards[i]
		if h.Dead {
			continue
		}
		if h.ExpiresAt > 0 && now >= h.ExpiresAt {
			h.Dead = true
			continue
		}
		if !s.bounds.Contains(h.Pos, margin+h.Radius) {
			if off := behaviors[h.Behavior].offBounds; off != nil {
				off(w, h)
			} else {
				h.Dead = true
			}
		}
	}
	st.Hazards = filter(st.Hazards, func(h *Hazard) bool { return !h.Dead })

	st.Projectiles = filter(st.Projectiles, func(p *Projectile) bool {
		return !p.Dead && now < p.ExpiresAt && s.bounds.Contains(p.Pos, margin)
	})
	st.Pickups = filter(st.Pickups, func(p *Pickup) bool {
		return !p.Dead && (p.ExpiresAt == 0 || now < p.ExpiresAt) && s.bounds.Contains(p.Pos, margin+p.Radius)
	})
	st.Grenades = filter(st.Grenades, func(g *Grenade) bool { return !g.Dead })
	st.Effects = filter(st.Effects, func(e *Effect) bool { return now < e.ExpiresAt })
}

// filter keeps the elements for which keep returns true, in place.
func filter[T any](items []T, keep func(*T) bool) []T {
	out := items[:0]
	for i := range items {
		if keep(&items[i]) {
			out = append(out, items[i])
		}
	}
	var zero T
	for i := len(out); i < len(items); i++ {
		items[i] = zero
	}
	return out
}

func msDuration(ms int) time.Duration {
	return time.Duration(ms) * time.Millisecond
}
