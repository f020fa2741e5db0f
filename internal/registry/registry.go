// Package registry provides a global registry of arena variants.
// Variants register themselves in init() functions, allowing the CLI and
// the platform to discover them without hardcoded dependencies.
package registry

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/vovakirdan/arena-survival/internal/config"
)

// ErrUnknownVariant is returned by Lookup for unregistered ids.
var ErrUnknownVariant = errors.New("registry: unknown variant")

// Variant is one arena: a content configuration for the generic engine.
// Variants hold no simulation logic.
type Variant interface {
	// ID returns a unique identifier (e.g., "bluezone").
	// Used for CLI commands, config files and run storage.
	ID() string

	// Title returns a human-readable name for display.
	Title() string

	// Blurb is a one-line description for menus.
	Blurb() string

	// Controls lists the keys that matter in this arena, as "key: action".
	Controls() []string

	// Config loads the arena configuration. An empty customPath uses the
	// standard search order.
	Config(customPath string) (config.ArenaConfig, error)
}

// Info contains metadata about a registered variant.
type Info struct {
	ID    string
	Title string
	Blurb string
}

// Factory creates a variant.
type Factory func() Variant

var (
	factories = make(map[string]Factory)
	infos     = make(map[string]Info)
	mu        sync.RWMutex
)

// Register adds a variant factory to the registry.
// Typically called from a variant's init() function.
// Panics if a variant with the same ID is already registered.
func Register(id string, f Factory) {
	mu.Lock()
	defer mu.Unlock()

	if _, exists := factories[id]; exists {
		panic(fmt.Sprintf("registry: variant %q already registered", id))
	}

	v := f()
	factories[id] = f
	infos[id] = Info{ID: id, Title: v.Title(), Blurb: v.Blurb()}
}

// List returns information about all registered variants, sorted by ID.
func List() []Info {
	mu.RLock()
	defer mu.RUnlock()

	result := make([]Info, 0, len(infos))
	for _, info := range infos {
		result = append(result, info)
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].ID < result[j].ID
	})

	return result
}

// Lookup instantiates a variant by its ID.
func Lookup(id string) (Variant, error) {
	mu.RLock()
	defer mu.RUnlock()

	f, ok := factories[id]
	if !ok {
		return nil, fmt.Errorf("%w %q", ErrUnknownVariant, id)
	}

	return f(), nil
}

// Exists checks if a variant with the given ID is registered.
func Exists(id string) bool {
	mu.RLock()
	defer mu.RUnlock()

	_, ok := factories[id]
	return ok
}
