package config

import (
	"fmt"
	"sort"
	"strings"
)

// ValidationError lists every problem found in an arena config.
type ValidationError struct {
	ID       string
	Problems []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("config %q: %d problem(s):\n  - %s",
		e.ID, len(e.Problems), strings.Join(e.Problems, "\n  - "))
}

type validator struct {
	problems []string
}

func (v *validator) addf(format string, args ...any) {
	v.problems = append(v.problems, fmt.Sprintf(format, args...))
}

func (v *validator) positive(name string, val float64) {
	if val <= 0 {
		v.addf("%s must be positive, got %v", name, val)
	}
}

func (v *validator) nonNegative(name string, val float64) {
	if val < 0 {
		v.addf("%s must not be negative, got %v", name, val)
	}
}

func (v *validator) probability(name string, val float64) {
	if val < 0 || val > 1 {
		v.addf("%s must be within [0, 1], got %v", name, val)
	}
}

// Validate checks an arena config and returns a *ValidationError
// describing all problems, or nil.
func Validate(cfg ArenaConfig) error {
	v := &validator{}

	if cfg.ID == "" {
		v.addf("id is required")
	}
	v.positive("arena.width", cfg.Arena.Width)
	v.positive("arena.height", cfg.Arena.Height)
	v.nonNegative("arena.spawn_margin", cfg.Arena.SpawnMargin)
	v.nonNegative("arena.despawn_margin", cfg.Arena.DespawnMargin)
	if 2*cfg.Arena.SpawnMargin >= cfg.Arena.Width || 2*cfg.Arena.SpawnMargin >= cfg.Arena.Height {
		v.addf("arena.spawn_margin %v leaves no room to spawn", cfg.Arena.SpawnMargin)
	}
	v.positive("loop.frame_cap_ms", float64(cfg.Loop.FrameCapMs))

	validatePlayer(v, cfg.Player)
	validatePhase(v, cfg.Phase)

	for _, kind := range sortedKeys(cfg.Hazards) {
		validateHazard(v, kind, cfg.Hazards[kind])
	}
	v.nonNegative("max_hazards", float64(cfg.MaxHazards))
	validateComposition(v, cfg)

	if cfg.Zones.MaxRadius > 0 || cfg.Zones.MinRadius > 0 || usesZones(cfg) {
		validateZones(v, cfg.Zones)
	}
	if cfg.Gas.Enabled {
		v.positive("gas.start_factor", cfg.Gas.StartFactor)
		v.positive("gas.min_radius", cfg.Gas.MinRadius)
		v.nonNegative("gas.shrink_per_sec", cfg.Gas.ShrinkPerSec)
		v.positive("gas.tick_ms", float64(cfg.Gas.TickMs))
	}

	for i, s := range cfg.Spawns {
		name := fmt.Sprintf("spawns[%d]", i)
		if !spawnTargetKnown(cfg, s.Spawn) {
			v.addf("%s: unknown spawn %q", name, s.Spawn)
		}
		v.positive(name+".base_interval_ms", float64(s.BaseIntervalMs))
		v.positive(name+".min_interval_ms", float64(s.MinIntervalMs))
		v.nonNegative(name+".jitter_ms", float64(s.JitterMs))
		if s.MinIntervalMs > s.BaseIntervalMs {
			v.addf("%s: min_interval_ms %d exceeds base_interval_ms %d", name, s.MinIntervalMs, s.BaseIntervalMs)
		}
		v.probability(name+".chance", s.Chance)
	}

	if cfg.Event.Enabled {
		if _, ok := cfg.Hazards[cfg.Event.Kind]; !ok {
			v.addf("event.kind: unknown hazard %q", cfg.Event.Kind)
		}
		if cfg.Event.PhaseMin < 1 || cfg.Event.PhaseMax < cfg.Event.PhaseMin {
			v.addf("event: phase window [%d, %d] is invalid", cfg.Event.PhaseMin, cfg.Event.PhaseMax)
		}
		v.probability("event.chance_per_frame", cfg.Event.ChancePerFrame)
	}

	for _, kind := range sortedKeys(cfg.Pickups) {
		if !knownPickup(kind) {
			v.addf("pickups: unknown kind %q", kind)
		}
		p := cfg.Pickups[kind]
		v.positive("pickups."+kind+".radius", p.Radius)
		v.positive("pickups."+kind+".value", p.Value)
		v.nonNegative("pickups."+kind+".cap", p.Cap)
		v.nonNegative("pickups."+kind+".ttl_ms", float64(p.TTLMs))
	}
	for name, rule := range map[string]DropRule{"drops.on_hit": cfg.Drops.OnHit, "drops.on_kill": cfg.Drops.OnKill} {
		if rule.Pickup == "" {
			continue
		}
		if _, ok := cfg.Pickups[rule.Pickup]; !ok {
			v.addf("%s: pickup %q is not defined", name, rule.Pickup)
		}
		v.probability(name+".chance", rule.Chance)
	}

	v.nonNegative("economy.debounce_ms", float64(cfg.Economy.DebounceMs))
	v.nonNegative("economy.soft_per_phase", float64(cfg.Economy.SoftPerPhase))
	v.nonNegative("economy.premium_per_phase", float64(cfg.Economy.PremiumPerPhase))
	v.nonNegative("aim.idle_ms", float64(cfg.Aim.IdleMs))

	if len(v.problems) == 0 {
		return nil
	}
	sort.Strings(v.problems)
	return &ValidationError{ID: cfg.ID, Problems: v.problems}
}

func validatePlayer(v *validator, p PlayerConfig) {
	v.positive("player.radius", p.Radius)
	v.positive("player.max_hp", p.MaxHP)
	v.positive("player.speed", p.Speed)
	v.nonNegative("player.dash_speed", p.DashSpeed)
	v.nonNegative("player.invuln_ms", float64(p.InvulnMs))
	if p.SlowFactor <= 0 || p.SlowFactor > 1 {
		v.addf("player.slow_factor must be within (0, 1], got %v", p.SlowFactor)
	}
	if w := p.Weapon; w.Enabled {
		v.positive("player.weapon.cooldown_ms", float64(w.CooldownMs))
		v.positive("player.weapon.damage", w.Damage)
		v.positive("player.weapon.bullet_speed", w.BulletSpeed)
		v.positive("player.weapon.bullet_radius", w.BulletRadius)
		v.positive("player.weapon.bullet_ttl_ms", float64(w.BulletTTLMs))
		v.positive("player.weapon.boosted_rate_mult", w.BoostedRateMult)
	}
	if g := p.Grenades; g.Enabled {
		v.nonNegative("player.grenades.start", float64(g.Start))
		if g.Max < g.Start {
			v.addf("player.grenades.max %d is below start %d", g.Max, g.Start)
		}
		v.positive("player.grenades.fuse_ms", float64(g.FuseMs))
		v.positive("player.grenades.radius", g.Radius)
		v.probability("player.grenades.friction", g.Friction)
	}
}

func validatePhase(v *validator, p PhaseConfig) {
	v.positive("phase.interval_ms", float64(p.IntervalMs))
	v.nonNegative("phase.spawn_decay", p.SpawnDecay)
	if p.MinSpawnMult <= 0 || p.MinSpawnMult > 1 {
		v.addf("phase.min_spawn_mult must be within (0, 1], got %v", p.MinSpawnMult)
	}
	v.nonNegative("phase.speed_step", p.SpeedStep)
	if len(p.DamageTable) == 0 {
		v.addf("phase.damage_table must not be empty")
	}
	for i, d := range p.DamageTable {
		if d < 0 {
			v.addf("phase.damage_table[%d] must not be negative, got %v", i, d)
		}
		if i > 0 && d < p.DamageTable[i-1] {
			v.addf("phase.damage_table must be non-decreasing at index %d", i)
		}
	}
}

func validateHazard(v *validator, kind string, h HazardDef) {
	name := "hazards." + kind
	switch h.Behavior {
	case BehaviorChaser, BehaviorTurret, BehaviorElite, BehaviorDrifter:
	default:
		v.addf("%s.behavior: unknown behavior %q", name, h.Behavior)
	}
	v.positive(name+".radius", h.Radius)
	v.nonNegative(name+".hp", h.HP)
	v.nonNegative(name+".speed", h.Speed)
	v.nonNegative(name+".contact_damage", h.ContactDamage)
	if h.ContactDamage > 0 {
		v.positive(name+".contact_every_ms", float64(h.ContactEveryMs))
	}
	if h.Behavior == BehaviorTurret && h.Fire == nil {
		v.addf("%s: turret needs a fire section", name)
	}
	if f := h.Fire; f != nil {
		v.positive(name+".fire.cooldown_ms", float64(f.CooldownMs))
		v.positive(name+".fire.rate_mult", f.RateMult)
		v.positive(name+".fire.projectile.speed", f.Projectile.Speed)
		v.positive(name+".fire.projectile.radius", f.Projectile.Radius)
		v.positive(name+".fire.projectile.ttl_ms", float64(f.Projectile.TTLMs))
		v.nonNegative(name+".fire.projectile.damage", f.Projectile.Damage)
	}
	v.nonNegative(name+".reward.soft", float64(h.Reward.Soft))
	v.nonNegative(name+".reward.premium", float64(h.Reward.Premium))
}

func validateComposition(v *validator, cfg ArenaConfig) {
	last := 0
	for i, step := range cfg.Composition {
		if i == 0 && step.FromPhase != 1 {
			v.addf("composition must start at phase 1, got %d", step.FromPhase)
		}
		if step.FromPhase <= last {
			v.addf("composition[%d].from_phase %d is not ascending", i, step.FromPhase)
		}
		last = step.FromPhase
		total := 0
		for kind, n := range step.Counts {
			if _, ok := cfg.Hazards[kind]; !ok {
				v.addf("composition[%d]: unknown hazard %q", i, kind)
			}
			if n < 0 {
				v.addf("composition[%d].%s must not be negative", i, kind)
			}
			total += n
		}
		if cfg.MaxHazards > 0 && total > cfg.MaxHazards {
			v.addf("composition[%d] targets %d hazards, above max_hazards %d", i, total, cfg.MaxHazards)
		}
	}
}

func validateZones(v *validator, z ZoneConfig) {
	v.positive("zones.min_radius", z.MinRadius)
	if z.MaxRadius < z.MinRadius {
		v.addf("zones.max_radius %v is below min_radius %v", z.MaxRadius, z.MinRadius)
	}
	v.positive("zones.min_life_ms", float64(z.MinLifeMs))
	if z.MaxLifeMs < z.MinLifeMs {
		v.addf("zones.max_life_ms %d is below min_life_ms %d", z.MaxLifeMs, z.MinLifeMs)
	}
	v.probability("zones.ring_chance", z.RingChance)
	if z.RingChance > 0 {
		v.positive("zones.ring_width", z.RingWidth)
	}
	v.nonNegative("zones.warn_ms", float64(z.WarnMs))
	v.positive("zones.tick_ms", float64(z.TickMs))
}

// SpawnZone is the timed spawn target that creates a damage zone.
const SpawnZone = "zone"

func usesZones(cfg ArenaConfig) bool {
	for _, s := range cfg.Spawns {
		if s.Spawn == SpawnZone {
			return true
		}
	}
	return false
}

func spawnTargetKnown(cfg ArenaConfig, target string) bool {
	if target == SpawnZone {
		return true
	}
	if _, ok := cfg.Pickups[target]; ok {
		return true
	}
	_, ok := cfg.Hazards[target]
	return ok
}

func knownPickup(kind string) bool {
	switch kind {
	case PickupHeal, PickupSoft, PickupPremium, PickupAmmo, PickupGrenade:
		return true
	}
	return false
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
