// Package crates registers Crate Arena, the shooter variant: zombies,
// a shrinking gas ring, ammo crates and grenades.
package crates

import (
	"github.com/vovakirdan/arena-survival/internal/config"
	"github.com/vovakirdan/arena-survival/internal/registry"
)

// ID is the variant identifier.
const ID = "crates"

func init() {
	registry.Register(ID, func() registry.Variant { return Variant{} })
}

// Variant is the Crate Arena.
type Variant struct{}

func (Variant) ID() string    { return ID }
func (Variant) Title() string { return "Crate Arena" }
func (Variant) Blurb() string { return "Shoot zombies, stay inside the ring, loot crates" }

func (Variant) Controls() []string {
	return []string{
		"WASD/arrows: move",
		"space/mouse: fire",
		"mouse: aim (auto-aim when idle)",
		"g: grenade",
		"p: pause",
		"r: restart after death",
	}
}

func (Variant) Config(customPath string) (config.ArenaConfig, error) {
	return config.Load(ID, customPath)
}
