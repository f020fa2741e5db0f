// Package config provides YAML-based arena configuration loading,
// validation and difficulty presets.
package config

import "time"

// ArenaConfig is the complete content definition of one arena variant.
// The engine is generic; everything that differs between variants lives here.
type ArenaConfig struct {
	ID          string               `yaml:"id"`
	Title       string               `yaml:"title"`
	Arena       ArenaBounds          `yaml:"arena"`
	Loop        LoopConfig           `yaml:"loop"`
	Player      PlayerConfig         `yaml:"player"`
	Phase       PhaseConfig          `yaml:"phase"`
	Hazards     map[string]HazardDef `yaml:"hazards"`
	MaxHazards  int                  `yaml:"max_hazards"`
	Composition []CompositionStep    `yaml:"composition"`
	Zones       ZoneConfig           `yaml:"zones"`
	Gas         GasConfig            `yaml:"gas"`
	Spawns      []TimedSpawn         `yaml:"spawns"`
	Event       EventConfig          `yaml:"event"`
	Pickups     map[string]PickupDef `yaml:"pickups"`
	Drops       DropConfig           `yaml:"drops"`
	Economy     EconomyConfig        `yaml:"economy"`
	Aim         AimConfig            `yaml:"aim"`
}

// ArenaBounds defines the play area in arena units.
type ArenaBounds struct {
	Width         float64 `yaml:"width"`
	Height        float64 `yaml:"height"`
	SpawnMargin   float64 `yaml:"spawn_margin"`   // Random spawn positions keep this far from the edge
	DespawnMargin float64 `yaml:"despawn_margin"` // Entities beyond bounds+margin are retired
}

// LoopConfig controls the frame driver.
type LoopConfig struct {
	FrameCapMs int `yaml:"frame_cap_ms"` // Upper bound on a single frame's dt
}

// FrameCap returns the frame cap as a duration.
func (l LoopConfig) FrameCap() time.Duration {
	return time.Duration(l.FrameCapMs) * time.Millisecond
}

// PlayerConfig defines the player's body and weapons.
type PlayerConfig struct {
	Radius    float64 `yaml:"radius"`
	MaxHP     float64 `yaml:"max_hp"`
	Speed     float64 `yaml:"speed"`      // Units per second
	DashSpeed float64 `yaml:"dash_speed"` // Units per second while dash is held
	InvulnMs  int     `yaml:"invuln_ms"`  // Invulnerability window after damage

	// Movement slows when hit points drop below SlowBelowHP.
	SlowBelowHP float64 `yaml:"slow_below_hp"`
	SlowFactor  float64 `yaml:"slow_factor"`

	Weapon   WeaponConfig  `yaml:"weapon"`
	Grenades GrenadeConfig `yaml:"grenades"`
}

// WeaponConfig defines the player's gun. Disabled in dodge-only variants.
type WeaponConfig struct {
	Enabled      bool    `yaml:"enabled"`
	CooldownMs   int     `yaml:"cooldown_ms"`
	Damage       float64 `yaml:"damage"`
	BulletSpeed  float64 `yaml:"bullet_speed"`
	BulletRadius float64 `yaml:"bullet_radius"`
	BulletTTLMs  int     `yaml:"bullet_ttl_ms"`

	// Ammo boost granted by the ammo pickup, counted in shots.
	BoostedDamage   float64 `yaml:"boosted_damage"`
	BoostedRateMult float64 `yaml:"boosted_rate_mult"`
}

// GrenadeConfig defines throwable grenades.
type GrenadeConfig struct {
	Enabled    bool    `yaml:"enabled"`
	Start      int     `yaml:"start"`
	Max        int     `yaml:"max"`
	ThrowSpeed float64 `yaml:"throw_speed"`
	Friction   float64 `yaml:"friction"` // Velocity multiplier applied per second
	FuseMs     int     `yaml:"fuse_ms"`
	BlastMs    int     `yaml:"blast_ms"` // How long the blast stays visible
	Radius     float64 `yaml:"radius"`
	Damage     float64 `yaml:"damage"`
	SelfDamage float64 `yaml:"self_damage"`
}

// PhaseConfig defines difficulty escalation over survival time.
type PhaseConfig struct {
	IntervalMs   int       `yaml:"interval_ms"`
	SpawnDecay   float64   `yaml:"spawn_decay"`    // Spawn interval multiplier lost per phase
	MinSpawnMult float64   `yaml:"min_spawn_mult"` // Floor for the spawn interval multiplier
	SpeedStep    float64   `yaml:"speed_step"`     // Hazard speed multiplier gained per phase
	DamageTable  []float64 `yaml:"damage_table"`   // Damage per tick, indexed by phase-1
}

// Interval returns the phase interval as a duration.
func (p PhaseConfig) Interval() time.Duration {
	return time.Duration(p.IntervalMs) * time.Millisecond
}

// Hazard behaviors understood by the engine.
const (
	BehaviorChaser  = "chaser"  // Walks toward the player
	BehaviorTurret  = "turret"  // Drifts across the arena firing at the player
	BehaviorElite   = "elite"   // Chases and fires; used by the one-shot event
	BehaviorDrifter = "drifter" // Crosses the arena in a straight line
)

// HazardDef describes one hazard kind.
type HazardDef struct {
	Behavior       string    `yaml:"behavior"`
	Radius         float64   `yaml:"radius"`
	HP             float64   `yaml:"hp"` // Zero means indestructible
	HPJitter       float64   `yaml:"hp_jitter"`
	Speed          float64   `yaml:"speed"` // Units per second at phase 1
	SpeedJitter    float64   `yaml:"speed_jitter"`
	Wobble         float64   `yaml:"wobble"`           // Sideways sway amplitude, units per second
	ContactDamage  float64   `yaml:"contact_damage"`   // Damage per contact hit, 0 for none
	ContactEveryMs int       `yaml:"contact_every_ms"` // Per-hazard contact rate limit
	Fire           *FireDef  `yaml:"fire,omitempty"`
	Reward         RewardDef `yaml:"reward"`
	Glyph          string    `yaml:"glyph"`
	Color          string    `yaml:"color"`
}

// FireDef describes a hazard's attack cycle.
type FireDef struct {
	CooldownMs     int           `yaml:"cooldown_ms"`
	RateMult       float64       `yaml:"rate_mult"`        // Multiplies the cooldown; lower fires faster
	MinPhaseMult   float64       `yaml:"min_phase_mult"`   // Floor for the per-phase cooldown reduction
	PhaseStep      float64       `yaml:"phase_step"`       // Cooldown reduction per phase
	BurstEvery     int           `yaml:"burst_every"`      // Pause after this many shots (plus jitter)
	BurstPauseMult float64       `yaml:"burst_pause_mult"` // Cooldown multiplier for the pause
	AimJitter      float64       `yaml:"aim_jitter"`
	Projectile     ProjectileDef `yaml:"projectile"`
}

// ProjectileDef describes bullets fired by hazards.
// Damage is Damage + min(DamageCap, floor(phase*DamageStep)).
type ProjectileDef struct {
	Speed      float64 `yaml:"speed"`
	SpeedStep  float64 `yaml:"speed_step"`
	Radius     float64 `yaml:"radius"`
	TTLMs      int     `yaml:"ttl_ms"`
	Damage     float64 `yaml:"damage"`
	DamageStep float64 `yaml:"damage_step"`
	DamageCap  float64 `yaml:"damage_cap"`
}

// RewardDef is credited when the player destroys a hazard.
type RewardDef struct {
	Soft    int64 `yaml:"soft"`
	Premium int64 `yaml:"premium"`
}

// CompositionStep sets target hazard counts from FromPhase onward.
type CompositionStep struct {
	FromPhase int            `yaml:"from_phase"`
	Counts    map[string]int `yaml:"counts"`
}

// ZoneConfig defines randomly placed damage zones.
type ZoneConfig struct {
	MinRadius  float64 `yaml:"min_radius"`
	MaxRadius  float64 `yaml:"max_radius"`
	MinLifeMs  int     `yaml:"min_life_ms"`
	MaxLifeMs  int     `yaml:"max_life_ms"`
	RingChance float64 `yaml:"ring_chance"` // Probability a zone is a ring instead of a disc
	RingWidth  float64 `yaml:"ring_width"`
	WarnMs     int     `yaml:"warn_ms"` // Zones are harmless while telegraphed
	TickMs     int     `yaml:"tick_ms"` // Damage is applied at most once per tick
}

// GasConfig defines the shrinking safe circle. Everything outside it hurts.
type GasConfig struct {
	Enabled      bool    `yaml:"enabled"`
	StartFactor  float64 `yaml:"start_factor"` // Initial safe radius as a fraction of max(width, height)
	MinRadius    float64 `yaml:"min_radius"`
	ShrinkPerSec float64 `yaml:"shrink_per_sec"`
	TickMs       int     `yaml:"tick_ms"`
}

// TimedSpawn periodically materializes something: "zone", a pickup kind,
// or a hazard kind.
type TimedSpawn struct {
	Spawn          string  `yaml:"spawn"`
	BaseIntervalMs int     `yaml:"base_interval_ms"`
	JitterMs       int     `yaml:"jitter_ms"`
	MinIntervalMs  int     `yaml:"min_interval_ms"`
	FromPhase      int     `yaml:"from_phase"`
	Chance         float64 `yaml:"chance"` // Probability the spawn happens when the timer fires
}

// EventConfig defines a rare one-shot hazard.
type EventConfig struct {
	Enabled        bool    `yaml:"enabled"`
	Kind           string  `yaml:"kind"`
	PhaseMin       int     `yaml:"phase_min"`
	PhaseMax       int     `yaml:"phase_max"`
	ChancePerFrame float64 `yaml:"chance_per_frame"`
	Announce       string  `yaml:"announce"`
}

// Pickup kinds understood by the engine.
const (
	PickupHeal    = "heal"
	PickupSoft    = "soft"
	PickupPremium = "premium"
	PickupAmmo    = "ammo"
	PickupGrenade = "grenade"
)

// PickupDef describes one pickup kind.
type PickupDef struct {
	Radius    float64 `yaml:"radius"`
	Value     float64 `yaml:"value"`
	Cap       float64 `yaml:"cap"` // Upper bound for heal/charges; 0 means player max
	TTLMs     int     `yaml:"ttl_ms"`
	FallSpeed float64 `yaml:"fall_speed"` // Non-zero pickups drop in from above
	FadeInMs  int     `yaml:"fade_in_ms"`
	Glyph     string  `yaml:"glyph"`
	Color     string  `yaml:"color"`
}

// DropConfig defines pickups spawned as a reaction to combat.
type DropConfig struct {
	OnHit  DropRule `yaml:"on_hit"`
	OnKill DropRule `yaml:"on_kill"`
}

// DropRule spawns Pickup with the given probability.
type DropRule struct {
	Pickup string  `yaml:"pickup"`
	Chance float64 `yaml:"chance"`
}

// EconomyConfig defines run rewards and the durable write debounce.
type EconomyConfig struct {
	DebounceMs      int   `yaml:"debounce_ms"`
	SoftPerPhase    int64 `yaml:"soft_per_phase"`
	PremiumPerPhase int64 `yaml:"premium_per_phase"`
}

// Debounce returns the write coalescing window.
func (e EconomyConfig) Debounce() time.Duration {
	return time.Duration(e.DebounceMs) * time.Millisecond
}

// AimConfig controls pointer aiming.
type AimConfig struct {
	IdleMs int `yaml:"idle_ms"` // Pointer idle longer than this falls back to auto-aim
}
