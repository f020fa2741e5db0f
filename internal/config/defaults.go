package config

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"sort"

	"gopkg.in/yaml.v3"
)

//go:embed defaults/bluezone.yaml
var defaultBlueZoneYAML []byte

//go:embed defaults/smgstorm.yaml
var defaultSMGStormYAML []byte

//go:embed defaults/crates.yaml
var defaultCratesYAML []byte

var embedded = map[string][]byte{
	"bluezone": defaultBlueZoneYAML,
	"smgstorm": defaultSMGStormYAML,
	"crates":   defaultCratesYAML,
}

// DefaultYAML returns the embedded default YAML for a variant, or nil.
func DefaultYAML(id string) []byte {
	return embedded[id]
}

// DefaultIDs lists the variants that ship an embedded config.
func DefaultIDs() []string {
	ids := make([]string, 0, len(embedded))
	for id := range embedded {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Default parses the embedded config for a variant.
func Default(id string) (ArenaConfig, error) {
	data := DefaultYAML(id)
	if data == nil {
		return ArenaConfig{}, fmt.Errorf("config: no embedded default for %q", id)
	}
	return Parse(data)
}

// Parse decodes a YAML arena config and fills unset optional fields.
// Keys that match no field are rejected.
func Parse(data []byte) (ArenaConfig, error) {
	var cfg ArenaConfig
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return cfg, fmt.Errorf("config: cannot parse yaml: %w", err)
	}
	cfg.applyFallbacks()
	return cfg, nil
}

// applyFallbacks sets values that are optional in YAML.
func (c *ArenaConfig) applyFallbacks() {
	if c.Loop.FrameCapMs == 0 {
		c.Loop.FrameCapMs = 50
	}
	if c.Player.SlowFactor == 0 {
		c.Player.SlowFactor = 1
	}
	if c.Player.Weapon.BoostedRateMult == 0 {
		c.Player.Weapon.BoostedRateMult = 1
	}
	if c.Phase.MinSpawnMult == 0 {
		c.Phase.MinSpawnMult = 1
	}
	if c.Zones.TickMs == 0 {
		c.Zones.TickMs = 250
	}
	if c.Gas.TickMs == 0 {
		c.Gas.TickMs = 250
	}
	for i := range c.Spawns {
		if c.Spawns[i].FromPhase == 0 {
			c.Spawns[i].FromPhase = 1
		}
	}
	for kind, h := range c.Hazards {
		if h.Fire != nil && h.Fire.RateMult == 0 {
			h.Fire.RateMult = 1
			c.Hazards[kind] = h
		}
	}
}
