package engine

import (
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/arena-survival/internal/config"
	"github.com/vovakirdan/arena-survival/internal/core"
	"github.com/vovakirdan/arena-survival/internal/economy"
)

// world bundles one run's state with the collaborators that mutate it.
type world struct {
	cfg     *config.ArenaConfig
	bounds  core.Bounds
	st      *RunState
	rng     *rand.Rand
	spawner *Spawner
	ledger  Ledger
	logger  *log.Logger

	events  []Event
	pending float64 // Player damage queued by this frame's explosions
}

func newWorld(cfg *config.ArenaConfig, rng *rand.Rand, ledger Ledger, logger *log.Logger) *world {
	return &world{
		cfg:     cfg,
		bounds:  core.Bounds{W: cfg.Arena.Width, H: cfg.Arena.Height},
		st:      NewRunState(cfg),
		rng:     rng,
		spawner: NewSpawner(cfg, rng),
		ledger:  ledger,
		logger:  logger,
	}
}

// seed prepares a fresh run: the gas ring and the phase 1 composition.
func (w *world) seed() {
	w.st.Running = true
	if w.cfg.Gas.Enabled {
		w.spawner.SpawnGas(w.st)
	}
	w.spawner.Reconcile(w.st, true)
	w.spawner.Sweep(w)
}

func (w *world) emit(ev Event) {
	w.events = append(w.events, ev)
}

// credit routes currency to the ledger and the run tally.
func (w *world) credit(c economy.Currency, n int64) {
	if n <= 0 {
		return
	}
	if err := w.ledger.Credit(c, n); err != nil {
		w.logger.Warn("engine: credit refused", "currency", c, "amount", n, "error", err)
		return
	}
	switch c {
	case economy.Soft:
		w.st.Player.Soft += n
	case economy.Premium:
		w.st.Player.Premium += n
	}
}

// step advances the run by dt: phase, spawns, movement, collisions and the
// despawn sweep, in that order.
func (w *world) step(in InputSnapshot, dt time.Duration) {
	st := w.st
	if !st.Running || st.Dead {
		return
	}
	st.Elapsed += dt
	secs := dt.Seconds()

	if n := st.Phase.Advance(st.Elapsed); n > 0 {
		w.onPhase(n)
	}
	if text, ok := w.spawner.Tick(st); ok {
		st.Alert(text, core.ColorBrightRed, 2500*time.Millisecond)
		w.emit(Event{Kind: EventAnnounce, Phase: st.Phase.Phase, Text: text})
		w.logger.Info("engine: event hazard", "kind", w.cfg.Event.Kind, "phase", st.Phase.Phase)
	}

	w.movePlayer(in, dt)
	w.playerFire(in)
	w.throwGrenade(in)
	w.moveHazards(secs)
	w.moveProjectiles(secs)
	w.movePickups(secs)
	w.updateGrenades(secs)

	w.resolve()
	w.spawner.Sweep(w)
	w.ledger.Pump()
}

func (w *world) onPhase(n int) {
	st := w.st
	w.credit(economy.Soft, w.cfg.Economy.SoftPerPhase*int64(n))
	w.credit(economy.Premium, w.cfg.Economy.PremiumPerPhase*int64(n))
	added, _ := w.spawner.Reconcile(st, false)

	st.Alert(fmt.Sprintf("PHASE %d", st.Phase.Phase), core.ColorBrightYellow, 1500*time.Millisecond)
	w.emit(Event{Kind: EventPhase, Phase: st.Phase.Phase})
	w.logger.Debug("engine: phase up", "phase", st.Phase.Phase, "next_at", st.Phase.NextAt, "spawned", added)
}

func (w *world) movePlayer(in InputSnapshot, dt time.Duration) {
	p := &w.st.Player
	pc := w.cfg.Player

	p.Invuln -= dt
	if p.Invuln < 0 {
		p.Invuln = 0
	}

	dir := in.Move()
	if f := in.Facing(); f != core.DirNone {
		p.Facing = f
	}
	if dir == (core.Vec2{}) {
		return
	}
	p.Aim = dir

	speed := pc.Speed
	if in.Has(core.ActionDash) && pc.DashSpeed > 0 {
		speed = pc.DashSpeed
	}
	if pc.SlowBelowHP > 0 && p.HP < pc.SlowBelowHP {
		speed *= pc.SlowFactor
	}
	p.Speed = speed

	p.Pos = p.Pos.Add(dir.Scale(speed * dt.Seconds()))
	p.Pos.X = core.ClampF(p.Pos.X, p.Radius, w.bounds.W-p.Radius)
	p.Pos.Y = core.ClampF(p.Pos.Y, p.Radius, w.bounds.H-p.Radius)
}

// aimDir points at a recently moved pointer, otherwise at the nearest
// hazard, otherwise along the player's last heading.
func (w *world) aimDir(in InputSnapshot) core.Vec2 {
	p := &w.st.Player
	idle := msDuration(w.cfg.Aim.IdleMs)
	if in.HasPointer && in.PointerIdle <= idle {
		if d := in.Pointer.Sub(p.Pos).Norm(); d != (core.Vec2{}) {
			return d
		}
	}
	if h := w.nearestHazard(); h != nil {
		if d := h.Pos.Sub(p.Pos).Norm(); d != (core.Vec2{}) {
			return d
		}
	}
	return p.Aim
}

func (w *world) nearestHazard() *Hazard {
	var best *Hazard
	bestD := math.Inf(1)
	for i := range w.st.Hazards {
		h := &w.st.Hazards[i]
		if h.Dead || behaviors[h.Behavior].area {
			continue
		}
		if d := core.Dist(h.Pos, w.st.Player.Pos); d < bestD {
			best, bestD = h, d
		}
	}
	return best
}

func (w *world) playerFire(in InputSnapshot) {
	wc := w.cfg.Player.Weapon
	st := w.st
	p := &st.Player
	if !wc.Enabled || !in.Has(core.ActionFire) || st.Elapsed < p.FireAt {
		return
	}

	dmg, cd := wc.Damage, float64(wc.CooldownMs)
	if p.Boost > 0 {
		dmg = wc.BoostedDamage
		cd /= wc.BoostedRateMult
		p.Boost--
	}
	dir := w.aimDir(in)
	st.Projectiles = append(st.Projectiles, Projectile{
		Pos:       p.Pos,
		Vel:       dir.Scale(wc.BulletSpeed),
		Radius:    wc.BulletRadius,
		ExpiresAt: st.Elapsed + msDuration(wc.BulletTTLMs),
		Owner:     OwnerPlayer,
		Damage:    dmg,
	})
	p.FireAt = st.Elapsed + time.Duration(cd*float64(time.Millisecond))
}

func (w *world) throwGrenade(in InputSnapshot) {
	gc := w.cfg.Player.Grenades
	p := &w.st.Player
	if !gc.Enabled || !in.Tapped(core.ActionGrenade) || p.Grenade <= 0 {
		return
	}
	p.Grenade--
	w.st.Grenades = append(w.st.Grenades, Grenade{
		Pos:       p.Pos,
		Vel:       w.aimDir(in).Scale(gc.ThrowSpeed),
		ExplodeAt: w.st.Elapsed + msDuration(gc.FuseMs),
	})
}

func (w *world) moveHazards(secs float64) {
	for i := range w.st.Hazards {
		h := &w.st.Hazards[i]
		if h.Dead {
			continue
		}
		b := behaviors[h.Behavior]
		if b.move != nil {
			b.move(w, h, secs)
		}
		if b.attack != nil {
			b.attack(w, h)
		}
	}
}

func (w *world) moveProjectiles(secs float64) {
	for i := range w.st.Projectiles {
		pr := &w.st.Projectiles[i]
		pr.Pos = pr.Pos.Add(pr.Vel.Scale(secs))
	}
}

func (w *world) movePickups(secs float64) {
	st := w.st
	for i := range st.Pickups {
		p := &st.Pickups[i]
		if p.FallSpeed > 0 {
			p.Pos.Y += p.FallSpeed * secs
		}
		if p.Progress < 1 {
			fade := w.cfg.Pickups[p.Kind.String()].FadeInMs
			if fade <= 0 {
				p.Progress = 1
			} else {
				p.Progress = math.Min(1, float64(st.Elapsed-p.BornAt)/float64(msDuration(fade)))
			}
		}
	}
}

func (w *world) updateGrenades(secs float64) {
	gc := w.cfg.Player.Grenades
	st := w.st
	drag := math.Pow(gc.Friction, secs)

	for i := range st.Grenades {
		g := &st.Grenades[i]
		if g.Dead {
			continue
		}
		g.Pos = g.Pos.Add(g.Vel.Scale(secs))
		g.Vel = g.Vel.Scale(drag)
		if st.Elapsed < g.ExplodeAt {
			continue
		}

		g.Dead = true
		for j := range st.Hazards {
			h := &st.Hazards[j]
			if h.Dead || !h.Destructible() {
				continue
			}
			if core.Dist(h.Pos, g.Pos) <= gc.Radius+h.Radius {
				w.damageHazard(h, gc.Damage)
			}
		}
		if core.Dist(st.Player.Pos, g.Pos) <= gc.Radius+st.Player.Radius {
			w.pending += gc.SelfDamage
		}
		st.Effects = append(st.Effects, Effect{
			Kind:      EffectBlast,
			Pos:       g.Pos,
			Radius:    gc.Radius,
			Color:     core.ColorOrange,
			ExpiresAt: st.Elapsed + msDuration(gc.BlastMs),
		})
		w.emit(Event{Kind: EventBlast, Phase: st.Phase.Phase})
	}
}
