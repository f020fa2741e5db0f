package engine

import (
	"math"
	"time"

	"github.com/vovakirdan/arena-survival/internal/config"
	"github.com/vovakirdan/arena-survival/internal/core"
	"github.com/vovakirdan/arena-survival/internal/economy"
)

// lowHPFraction triggers the low health banner.
const lowHPFraction = 0.25

// resolve runs one frame of collision and damage.
//
// Every damage source overlapping the player this frame is summed and
// applied once, followed by a single invulnerability window. While that
// window is open nothing hurts: enemy contact timers do not advance and
// hazard projectiles pass through without being consumed.
func (w *world) resolve() {
	st := w.st
	p := &st.Player

	w.resolvePlayerFire()

	total := w.pending
	w.pending = 0
	if p.Invuln > 0 {
		total = 0
	} else {
		total += w.hazardDamage()
	}
	if total > 0 {
		w.applyDamage(total)
	}
	if st.Dead {
		return
	}

	for i := range st.Pickups {
		pk := &st.Pickups[i]
		if pk.Dead || !core.CirclesOverlap(pk.Pos, pk.Radius, p.Pos, p.Radius) {
			continue
		}
		pickupEffects[pk.Kind].apply(w, pk)
		pk.Dead = true
		w.emit(Event{Kind: EventPickup, Phase: st.Phase.Phase, Text: pk.Kind.String(), Amount: pk.Value})
	}
}

// hazardDamage sums contact, area and projectile damage for this frame.
func (w *world) hazardDamage() float64 {
	st := w.st
	p := &st.Player
	total := 0.0

	var areaHits [behaviorCount]int
	for i := range st.Hazards {
		h := &st.Hazards[i]
		if h.Dead {
			continue
		}
		b := behaviors[h.Behavior]
		if b.touches == nil || !b.touches(w, h) {
			continue
		}
		if b.area {
			areaHits[h.Behavior]++
			continue
		}
		if h.def == nil || h.def.ContactDamage <= 0 || st.Elapsed < h.ContactAt {
			continue
		}
		total += h.def.ContactDamage
		h.ContactAt = st.Elapsed + msDuration(h.def.ContactEveryMs)
	}

	for b, n := range areaHits {
		if n == 0 || st.Elapsed < st.areaTickAt[b] {
			continue
		}
		total += st.Phase.DamagePerTick() * float64(n)
		st.areaTickAt[b] = st.Elapsed + w.areaTick(HazardBehavior(b))
	}

	for i := range st.Projectiles {
		pr := &st.Projectiles[i]
		if pr.Dead || pr.Owner != OwnerHazard {
			continue
		}
		if core.CirclesOverlap(pr.Pos, pr.Radius, p.Pos, p.Radius) {
			total += pr.Damage
			pr.Dead = true
		}
	}
	return total
}

func (w *world) areaTick(b HazardBehavior) time.Duration {
	if b == HazardGas {
		return msDuration(w.cfg.Gas.TickMs)
	}
	return msDuration(w.cfg.Zones.TickMs)
}

// applyDamage subtracts dmg, clamps at zero and opens the invulnerability
// window.
func (w *world) applyDamage(dmg float64) {
	st := w.st
	p := &st.Player
	before := p.HP

	p.HP = math.Max(0, p.HP-dmg)
	p.Invuln = msDuration(w.cfg.Player.InvulnMs)

	st.Effects = append(st.Effects, Effect{
		Kind:      EffectHit,
		Pos:       p.Pos,
		Radius:    p.Radius,
		Color:     core.ColorRed,
		ExpiresAt: st.Elapsed + 200*time.Millisecond,
	})
	w.emit(Event{Kind: EventHit, Phase: st.Phase.Phase, Amount: before - p.HP})

	if p.HP <= 0 {
		w.die()
		return
	}
	w.spawner.Drop(st, w.cfg.Drops.OnHit, p.Pos.Add(core.V(w.rng.Float64()*40-20, 0)))

	low := p.MaxHP * lowHPFraction
	if p.HP <= low && before > low {
		st.Alert("LOW HP!", core.ColorBrightRed, 1200*time.Millisecond)
	}
}

func (w *world) die() {
	st := w.st
	st.Dead = true
	st.Alert("YOU DIED", core.ColorRed, time.Hour)
	w.emit(Event{Kind: EventDeath, Phase: st.Phase.Phase})
	w.ledger.Flush()
}

// resolvePlayerFire applies player bullets to destructible hazards.
// A bullet hits at most one hazard.
func (w *world) resolvePlayerFire() {
	st := w.st
	for i := range st.Projectiles {
		pr := &st.Projectiles[i]
		if pr.Dead || pr.Owner != OwnerPlayer {
			continue
		}
		for j := range st.Hazards {
			h := &st.Hazards[j]
			if h.Dead || !h.Destructible() {
				continue
			}
			if core.CirclesOverlap(pr.Pos, pr.Radius, h.Pos, h.Radius) {
				w.damageHazard(h, pr.Damage)
				pr.Dead = true
				break
			}
		}
	}
}

func (w *world) damageHazard(h *Hazard, dmg float64) {
	if h.Dead {
		return
	}
	h.HP -= dmg
	if h.HP <= 0 {
		w.kill(h)
	}
}

func (w *world) kill(h *Hazard) {
	st := w.st
	h.HP = 0
	h.Dead = true
	st.Kills++

	var reward config.RewardDef
	if h.def != nil {
		reward = h.def.Reward
	}
	w.credit(economy.Soft, reward.Soft)
	w.credit(economy.Premium, reward.Premium)
	w.spawner.Drop(st, w.cfg.Drops.OnKill, h.Pos)
	w.emit(Event{Kind: EventKill, Phase: st.Phase.Phase, Text: h.Kind})
}
