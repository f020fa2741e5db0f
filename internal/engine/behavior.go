package engine

import (
	"math"

	"github.com/vovakirdan/arena-survival/internal/config"
	"github.com/vovakirdan/arena-survival/internal/core"
	"github.com/vovakirdan/arena-survival/internal/economy"
)

// HazardBehavior selects a hazard's entry in the behavior table.
type HazardBehavior uint8

const (
	HazardChaser HazardBehavior = iota
	HazardTurret
	HazardDrifter
	HazardElite
	HazardZone
	HazardGas
	behaviorCount
)

// behavior is the per-kind dispatch record. Nil funcs are skipped.
type behavior struct {
	name string
	// area hazards hurt on a fixed tick while the player is inside,
	// instead of per contact.
	area      bool
	move      func(w *world, h *Hazard, dt float64)
	attack    func(w *world, h *Hazard)
	touches   func(w *world, h *Hazard) bool
	offBounds func(w *world, h *Hazard)
}

var behaviors [behaviorCount]behavior

func init() {
	behaviors = [behaviorCount]behavior{
		HazardChaser: {
			name:      config.BehaviorChaser,
			move:      moveChase,
			touches:   touchCircle,
			offBounds: retire,
		},
		HazardTurret: {
			name:      config.BehaviorTurret,
			move:      moveDrift,
			attack:    fireAtPlayer,
			touches:   touchCircle,
			offBounds: reenter,
		},
		HazardDrifter: {
			name:      config.BehaviorDrifter,
			move:      moveDrift,
			touches:   touchCircle,
			offBounds: retire,
		},
		HazardElite: {
			name:      config.BehaviorElite,
			move:      moveChase,
			attack:    fireAtPlayer,
			touches:   touchCircle,
			offBounds: retire,
		},
		HazardZone: {
			name:    "zone",
			area:    true,
			touches: touchZone,
		},
		HazardGas: {
			name:    "gas",
			area:    true,
			move:    shrinkGas,
			touches: outsideGas,
		},
	}
}

// String returns the behavior name.
func (b HazardBehavior) String() string {
	if b < behaviorCount {
		return behaviors[b].name
	}
	return "unknown"
}

// parseBehavior maps a config behavior name to its table index.
func parseBehavior(name string) (HazardBehavior, bool) {
	for i := range behaviors {
		if behaviors[i].name == name {
			return HazardBehavior(i), true
		}
	}
	return 0, false
}

func moveChase(w *world, h *Hazard, dt float64) {
	dir := w.st.Player.Pos.Sub(h.Pos).Norm()
	h.Vel = dir
	h.Pos = h.Pos.Add(dir.Scale(h.Speed * w.st.Phase.SpeedMult() * dt))
}

func moveDrift(w *world, h *Hazard, dt float64) {
	h.Pos = h.Pos.Add(h.Vel.Scale(h.Speed * w.st.Phase.SpeedMult() * dt))
	if h.Wobble > 0 {
		h.WobbleT += dt * 5
		h.Pos.X += math.Cos(h.WobbleT) * h.Wobble * dt
		h.Pos.Y += math.Sin(h.WobbleT*1.2) * h.Wobble * 0.7 * dt
	}
}

func shrinkGas(w *world, h *Hazard, dt float64) {
	g := w.cfg.Gas
	h.Radius = math.Max(g.MinRadius, h.Radius-g.ShrinkPerSec*dt)
}

func touchCircle(w *world, h *Hazard) bool {
	p := &w.st.Player
	return core.CirclesOverlap(h.Pos, h.Radius, p.Pos, p.Radius)
}

func touchZone(w *world, h *Hazard) bool {
	if w.st.Elapsed < h.ArmedAt {
		return false
	}
	return core.InAnnulus(w.st.Player.Pos, h.Pos, h.Inner, h.Radius)
}

func outsideGas(w *world, h *Hazard) bool {
	return core.Dist(w.st.Player.Pos, h.Pos) > h.Radius
}

func retire(_ *world, h *Hazard) {
	h.Dead = true
}

// reenter brings a turret back from a random edge instead of losing it.
func reenter(w *world, h *Hazard) {
	pos, vel := w.spawner.edgeEntry(h.Radius)
	h.Pos = pos
	h.Vel = vel
}

// fireAtPlayer runs a hazard's attack cycle: aimed shots with jittered
// cooldowns and a longer pause every few shots.
func fireAtPlayer(w *world, h *Hazard) {
	f := h.def.Fire
	if f == nil || w.st.Elapsed < h.FireAt {
		return
	}
	st := w.st
	rng := w.rng

	half := f.AimJitter / 2
	target := st.Player.Pos.Add(core.V(rng.Float64()*f.AimJitter-half, rng.Float64()*f.AimJitter-half))
	dir := target.Sub(h.Pos).Norm()
	if dir == (core.Vec2{}) {
		dir = core.V(1, 0)
	}
	speed := f.Projectile.Speed + f.Projectile.SpeedStep*float64(st.Phase.Phase)

	st.Projectiles = append(st.Projectiles, Projectile{
		Pos:       h.Pos.Add(dir.Scale(h.Radius * 0.35)),
		Vel:       dir.Scale(speed),
		Radius:    f.Projectile.Radius,
		ExpiresAt: st.Elapsed + msDuration(f.Projectile.TTLMs),
		Owner:     OwnerHazard,
		Damage:    st.Phase.ProjectileDamage(f.Projectile),
	})
	h.Shots++

	cd := float64(f.CooldownMs) * f.RateMult * st.Phase.FireCooldownMult(f) * (0.7 + rng.Float64()*0.6)
	if f.BurstEvery > 0 && h.Shots%(f.BurstEvery+rng.Intn(4)) == 0 {
		cd *= f.BurstPauseMult
	}
	h.FireAt = st.Elapsed + msDuration(int(cd))
}

// PickupKind selects a pickup's entry in the effect table.
type PickupKind uint8

const (
	PickupHeal PickupKind = iota
	PickupSoft
	PickupPremium
	PickupAmmo
	PickupGrenade
	pickupCount
)

type pickupEffect struct {
	name  string
	apply func(w *world, p *Pickup)
}

var pickupEffects [pickupCount]pickupEffect

func init() {
	pickupEffects = [pickupCount]pickupEffect{
		PickupHeal:    {name: config.PickupHeal, apply: applyHeal},
		PickupSoft:    {name: config.PickupSoft, apply: applySoft},
		PickupPremium: {name: config.PickupPremium, apply: applyPremium},
		PickupAmmo:    {name: config.PickupAmmo, apply: applyAmmo},
		PickupGrenade: {name: config.PickupGrenade, apply: applyGrenade},
	}
}

// String returns the pickup kind name.
func (k PickupKind) String() string {
	if k < pickupCount {
		return pickupEffects[k].name
	}
	return "unknown"
}

func parsePickup(name string) (PickupKind, bool) {
	for i := range pickupEffects {
		if pickupEffects[i].name == name {
			return PickupKind(i), true
		}
	}
	return 0, false
}

func (w *world) pickupCap(kind PickupKind, fallback float64) float64 {
	if def, ok := w.cfg.Pickups[kind.String()]; ok && def.Cap > 0 {
		return def.Cap
	}
	return fallback
}

func applyHeal(w *world, p *Pickup) {
	pl := &w.st.Player
	limit := math.Min(pl.MaxHP, w.pickupCap(PickupHeal, pl.MaxHP))
	if pl.HP < limit {
		pl.HP = math.Min(limit, pl.HP+p.Value)
	}
}

func applySoft(w *world, p *Pickup) {
	w.credit(economy.Soft, int64(p.Value))
}

func applyPremium(w *world, p *Pickup) {
	w.credit(economy.Premium, int64(p.Value))
}

func applyAmmo(w *world, p *Pickup) {
	w.st.Player.Boost = int(p.Value)
}

func applyGrenade(w *world, p *Pickup) {
	pl := &w.st.Player
	limit := int(w.pickupCap(PickupGrenade, float64(w.cfg.Player.Grenades.Max)))
	pl.Grenade = core.Clamp(pl.Grenade+int(p.Value), 0, limit)
}
