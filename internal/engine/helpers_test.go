package engine

import (
	"io"
	"math/rand"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/arena-survival/internal/config"
	"github.com/vovakirdan/arena-survival/internal/core"
)

// testConfig is a small valid arena with inert hazards, so tests place
// exactly what they need.
func testConfig() config.ArenaConfig {
	return config.ArenaConfig{
		ID:    "test",
		Title: "Test Arena",
		Arena: config.ArenaBounds{Width: 800, Height: 600, SpawnMargin: 40, DespawnMargin: 60},
		Loop:  config.LoopConfig{FrameCapMs: 50},
		Player: config.PlayerConfig{
			Radius:     10,
			MaxHP:      100,
			Speed:      200,
			InvulnMs:   300,
			SlowFactor: 1,
		},
		Phase: config.PhaseConfig{
			IntervalMs:   28000,
			SpawnDecay:   0.1,
			MinSpawnMult: 0.4,
			SpeedStep:    0.1,
			DamageTable:  []float64{6, 8},
		},
		Hazards: map[string]config.HazardDef{
			"A": {Behavior: config.BehaviorChaser, Radius: 10, ContactDamage: 6, ContactEveryMs: 1, Glyph: "a"},
			"B": {Behavior: config.BehaviorDrifter, Radius: 10, Glyph: "b"},
			"T": {
				Behavior: config.BehaviorTurret,
				Radius:   12,
				HP:       30,
				Fire: &config.FireDef{
					CooldownMs: 1000,
					RateMult:   1,
					Projectile: config.ProjectileDef{Speed: 100, Radius: 3, TTLMs: 5000, Damage: 8},
				},
				Reward: config.RewardDef{Soft: 10},
				Glyph:  "T",
			},
		},
		Composition: []config.CompositionStep{
			{FromPhase: 1, Counts: map[string]int{}},
			{FromPhase: 5, Counts: map[string]int{"A": 2, "B": 1}},
		},
		Zones: config.ZoneConfig{
			MinRadius: 40, MaxRadius: 80,
			MinLifeMs: 4000, MaxLifeMs: 8000,
			WarnMs: 500, TickMs: 250,
		},
		Pickups: map[string]config.PickupDef{
			"heal": {Radius: 10, Value: 25, Glyph: "+"},
			"soft": {Radius: 10, Value: 50, Glyph: "$", TTLMs: 3000},
		},
		Economy: config.EconomyConfig{SoftPerPhase: 100},
		Aim:     config.AimConfig{IdleMs: 1000},
	}
}

func newTestWorld(t *testing.T, cfg config.ArenaConfig) *world {
	t.Helper()
	if err := config.Validate(cfg); err != nil {
		t.Fatalf("test config invalid: %v", err)
	}
	w := newWorld(&cfg, rand.New(rand.NewSource(1)), &memLedger{}, log.New(io.Discard))
	w.st.Running = true
	return w
}

// place adds a hazard of kind at pos without going through the spawner.
func place(t *testing.T, w *world, kind string, pos core.Vec2) *Hazard {
	t.Helper()
	def, ok := w.cfg.Hazards[kind]
	if !ok {
		t.Fatalf("unknown hazard %q", kind)
	}
	b, ok := parseBehavior(def.Behavior)
	if !ok {
		t.Fatalf("unknown behavior %q", def.Behavior)
	}
	w.st.AddHazard(Hazard{
		Kind:     kind,
		Behavior: b,
		Pos:      pos,
		Radius:   def.Radius,
		HP:       def.HP,
		MaxHP:    def.HP,
		Speed:    def.Speed,
		FireAt:   time.Hour,
		def:      &def,
	})
	return &w.st.Hazards[len(w.st.Hazards)-1]
}

// run steps the world n frames of dt with no input.
func run(w *world, n int, dt time.Duration) {
	for i := 0; i < n; i++ {
		w.step(InputSnapshot{}, dt)
	}
}

type fakeScheduler struct {
	tokens []uint64
}

func (f *fakeScheduler) RequestFrame(token uint64) {
	f.tokens = append(f.tokens, token)
}

func (f *fakeScheduler) last() uint64 {
	if len(f.tokens) == 0 {
		return 0
	}
	return f.tokens[len(f.tokens)-1]
}

func testWeapon() config.WeaponConfig {
	return config.WeaponConfig{
		Enabled:         true,
		CooldownMs:      200,
		Damage:          20,
		BulletSpeed:     500,
		BulletRadius:    2,
		BulletTTLMs:     2000,
		BoostedDamage:   35,
		BoostedRateMult: 2,
	}
}
