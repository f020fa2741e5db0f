package config

import (
	"fmt"
	"math"
)

// Preset names accepted by --difficulty.
const (
	PresetEasy   = "easy"
	PresetNormal = "normal"
	PresetHard   = "hard"
)

// DifficultyPreset scales a variant's pacing and the player's toughness.
type DifficultyPreset struct {
	Name         string
	IntervalMult float64 // Multiplies the phase interval; larger is gentler
	HPMult       float64 // Multiplies player max HP
	InvulnMult   float64 // Multiplies the invulnerability window
}

var presets = map[string]DifficultyPreset{
	PresetEasy:   {Name: PresetEasy, IntervalMult: 1.4, HPMult: 1.5, InvulnMult: 1.3},
	PresetNormal: {Name: PresetNormal, IntervalMult: 1, HPMult: 1, InvulnMult: 1},
	PresetHard:   {Name: PresetHard, IntervalMult: 0.7, HPMult: 0.75, InvulnMult: 0.8},
}

// LookupPreset returns the preset with the given name.
// An empty name selects normal.
func LookupPreset(name string) (DifficultyPreset, error) {
	if name == "" {
		name = PresetNormal
	}
	p, ok := presets[name]
	if !ok {
		return DifficultyPreset{}, fmt.Errorf("config: unknown difficulty %q (want easy, normal or hard)", name)
	}
	return p, nil
}

// ApplyPreset returns a copy of cfg scaled by the preset.
func ApplyPreset(cfg ArenaConfig, p DifficultyPreset) ArenaConfig {
	cfg.Phase.IntervalMs = int(math.Round(float64(cfg.Phase.IntervalMs) * p.IntervalMult))
	cfg.Player.MaxHP *= p.HPMult
	cfg.Player.InvulnMs = int(math.Round(float64(cfg.Player.InvulnMs) * p.InvulnMult))
	return cfg
}
