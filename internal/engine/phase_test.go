package engine

import (
	"testing"
	"time"

	"github.com/vovakirdan/arena-survival/internal/config"
)

func TestPhaseBoundary(t *testing.T) {
	p := NewPhaseScheduler(config.PhaseConfig{IntervalMs: 28000, DamageTable: []float64{1}})
	if p.Phase != 1 || p.NextAt != 28*time.Second {
		t.Fatalf("start = phase %d next %v", p.Phase, p.NextAt)
	}

	if n := p.Advance(27999 * time.Millisecond); n != 0 {
		t.Errorf("Advance before boundary = %d, want 0", n)
	}
	if n := p.Advance(28 * time.Second); n != 1 {
		t.Errorf("Advance at boundary = %d, want 1", n)
	}
	if p.Phase != 2 || p.NextAt != 56*time.Second {
		t.Errorf("got phase %d next %v, want 2 and 56s", p.Phase, p.NextAt)
	}
}

func TestPhaseNoDrift(t *testing.T) {
	p := NewPhaseScheduler(config.PhaseConfig{IntervalMs: 1000, DamageTable: []float64{1}})

	// uneven frames overshoot each boundary by a different amount
	var elapsed time.Duration
	for _, dt := range []int{700, 450, 900, 333, 1617} {
		elapsed += time.Duration(dt) * time.Millisecond
		p.Advance(elapsed)
	}

	// 4000ms total
	if p.Phase != 5 {
		t.Errorf("Phase = %d, want 5", p.Phase)
	}
	if p.NextAt != 5*time.Second {
		t.Errorf("NextAt = %v, want 5s", p.NextAt)
	}
}

func TestPhaseMultiStepAdvance(t *testing.T) {
	p := NewPhaseScheduler(config.PhaseConfig{IntervalMs: 1000, DamageTable: []float64{1}})
	if n := p.Advance(3500 * time.Millisecond); n != 3 {
		t.Errorf("Advance = %d, want 3", n)
	}
	if p.Phase != 4 {
		t.Errorf("Phase = %d, want 4", p.Phase)
	}
}

func TestPhaseMultipliers(t *testing.T) {
	cfg := config.PhaseConfig{
		IntervalMs:   1000,
		SpawnDecay:   0.1,
		MinSpawnMult: 0.4,
		SpeedStep:    0.1,
		DamageTable:  []float64{1, 2, 3},
	}
	proj := config.ProjectileDef{Damage: 8, DamageStep: 0.9, DamageCap: 12}
	fire := &config.FireDef{MinPhaseMult: 0.5, PhaseStep: 0.1}

	tests := []struct {
		phase     int
		spawnMult float64
		speedMult float64
		tick      float64
		projDmg   float64
		fireMult  float64
	}{
		{1, 1, 1, 1, 8, 1},
		{3, 0.8, 1.2, 3, 10, 0.8},
		{5, 0.6, 1.4, 3, 12, 0.6},
		{20, 0.4, 2.9, 3, 20, 0.5},
	}
	for _, tt := range tests {
		p := NewPhaseScheduler(cfg)
		p.Phase = tt.phase
		if got := p.SpawnIntervalMult(); !near(got, tt.spawnMult) {
			t.Errorf("phase %d: SpawnIntervalMult = %v, want %v", tt.phase, got, tt.spawnMult)
		}
		if got := p.SpeedMult(); !near(got, tt.speedMult) {
			t.Errorf("phase %d: SpeedMult = %v, want %v", tt.phase, got, tt.speedMult)
		}
		if got := p.DamagePerTick(); got != tt.tick {
			t.Errorf("phase %d: DamagePerTick = %v, want %v", tt.phase, got, tt.tick)
		}
		if got := p.ProjectileDamage(proj); got != tt.projDmg {
			t.Errorf("phase %d: ProjectileDamage = %v, want %v", tt.phase, got, tt.projDmg)
		}
		if got := p.FireCooldownMult(fire); !near(got, tt.fireMult) {
			t.Errorf("phase %d: FireCooldownMult = %v, want %v", tt.phase, got, tt.fireMult)
		}
	}
}

func near(a, b float64) bool {
	d := a - b
	return d < 1e-9 && d > -1e-9
}
