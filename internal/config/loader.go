package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// Load loads the arena configuration for a variant.
// Search order: customPath -> ~/.arena/configs/<id>.yaml -> ./configs/<id>.yaml -> embedded default.
// A custom path that cannot be read or parsed is an error; the other
// locations are skipped silently when absent or broken.
func Load(id, customPath string) (ArenaConfig, error) {
	if customPath != "" {
		return LoadFile(customPath)
	}

	name := id + ".yaml"

	if userCfgPath := userConfigPath(name); userCfgPath != "" {
		if cfg, err := LoadFile(userCfgPath); err == nil {
			return cfg, nil
		}
	}

	if cfg, err := LoadFile(filepath.Join("configs", name)); err == nil {
		return cfg, nil
	}

	return Default(id)
}

// LoadFile reads and parses a single config file.
func LoadFile(path string) (ArenaConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return ArenaConfig{}, fmt.Errorf("config: failed to read %s: %w", path, err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return cfg, fmt.Errorf("config: %s: %w", path, err)
	}
	return cfg, nil
}

// userConfigPath returns the path to a config file in the user's config directory.
func userConfigPath(filename string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".arena", "configs", filename)
}
