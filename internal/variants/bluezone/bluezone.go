// Package bluezone registers Blue Zone Runner: dodge telegraphed blue
// zones, collect currency and medkits, and outlast the hunter.
package bluezone

import (
	"github.com/vovakirdan/arena-survival/internal/config"
	"github.com/vovakirdan/arena-survival/internal/registry"
)

// ID is the variant identifier.
const ID = "bluezone"

func init() {
	registry.Register(ID, func() registry.Variant { return Variant{} })
}

// Variant is the Blue Zone Runner arena.
type Variant struct{}

func (Variant) ID() string    { return ID }
func (Variant) Title() string { return "Blue Zone Runner" }

func (Variant) Blurb() string {
	return "Dodge the blue zones, grab BP and GC, survive the hunter"
}

func (Variant) Controls() []string {
	return []string{
		"WASD/arrows: move",
		"shift+move: dash",
		"p: pause",
		"r: restart after death",
	}
}

func (Variant) Config(customPath string) (config.ArenaConfig, error) {
	return config.Load(ID, customPath)
}
