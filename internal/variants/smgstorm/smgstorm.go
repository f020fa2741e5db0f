// Package smgstorm registers SMG Storm: drifting SMG turrets fill the arena
// with bullets while the phase table brings in faster guns.
package smgstorm

import (
	"github.com/vovakirdan/arena-survival/internal/config"
	"github.com/vovakirdan/arena-survival/internal/registry"
)

// ID is the variant identifier.
const ID = "smgstorm"

func init() {
	registry.Register(ID, func() registry.Variant { return Variant{} })
}

// Variant is the SMG Storm arena.
type Variant struct{}

func (Variant) ID() string    { return ID }
func (Variant) Title() string { return "SMG Storm" }
func (Variant) Blurb() string { return "Weave through UMP, MP9, Vector and P90 fire" }

func (Variant) Controls() []string {
	return []string{
		"WASD/arrows: move",
		"p: pause",
		"r: restart after death",
	}
}

func (Variant) Config(customPath string) (config.ArenaConfig, error) {
	return config.Load(ID, customPath)
}
