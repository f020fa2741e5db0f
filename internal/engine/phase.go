package engine

import (
	"math"
	"time"

	"github.com/vovakirdan/arena-survival/internal/config"
)

// PhaseScheduler tracks the difficulty tier. Phase starts at 1 and only
// grows; NextAt advances by exactly one interval per transition so frame
// jitter never shifts later boundaries.
type PhaseScheduler struct {
	cfg      config.PhaseConfig
	interval time.Duration

	Phase  int
	NextAt time.Duration
}

// NewPhaseScheduler returns a scheduler at phase 1.
func NewPhaseScheduler(cfg config.PhaseConfig) PhaseScheduler {
	interval := cfg.Interval()
	return PhaseScheduler{
		cfg:      cfg,
		interval: interval,
		Phase:    1,
		NextAt:   interval,
	}
}

// Advance moves through every boundary elapsed has crossed and returns how
// many transitions happened.
func (p *PhaseScheduler) Advance(elapsed time.Duration) int {
	if p.interval <= 0 {
		return 0
	}
	n := 0
	for elapsed >= p.NextAt {
		p.Phase++
		p.NextAt += p.interval
		n++
	}
	return n
}

// SpawnIntervalMult shrinks spawn intervals as phases pass, floored at the
// configured minimum.
func (p *PhaseScheduler) SpawnIntervalMult() float64 {
	m := 1 - p.cfg.SpawnDecay*float64(p.Phase-1)
	return math.Max(p.cfg.MinSpawnMult, m)
}

// SpeedMult scales hazard speed linearly with phase.
func (p *PhaseScheduler) SpeedMult() float64 {
	return 1 + p.cfg.SpeedStep*float64(p.Phase-1)
}

// DamagePerTick returns area damage for the current phase. Phases beyond the
// table use its last entry.
func (p *PhaseScheduler) DamagePerTick() float64 {
	t := p.cfg.DamageTable
	if len(t) == 0 {
		return 0
	}
	i := p.Phase - 1
	if i >= len(t) {
		i = len(t) - 1
	}
	return t[i]
}

// ProjectileDamage returns base + min(cap, floor(phase*step)).
func (p *PhaseScheduler) ProjectileDamage(def config.ProjectileDef) float64 {
	bonus := math.Floor(float64(p.Phase) * def.DamageStep)
	return def.Damage + math.Min(def.DamageCap, bonus)
}

// FireCooldownMult shortens hazard fire cooldowns per phase, floored at min.
func (p *PhaseScheduler) FireCooldownMult(def *config.FireDef) float64 {
	return math.Max(def.MinPhaseMult, 1-float64(p.Phase-1)*def.PhaseStep)
}
