package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/term"

	"github.com/vovakirdan/arena-survival/internal/audio"
	"github.com/vovakirdan/arena-survival/internal/config"
	"github.com/vovakirdan/arena-survival/internal/core"
	"github.com/vovakirdan/arena-survival/internal/economy"
	"github.com/vovakirdan/arena-survival/internal/registry"
	"github.com/vovakirdan/arena-survival/internal/storage"
)

// Wallet backends accepted by --wallet.
const (
	walletSQLite = "sqlite"
	walletYAML   = "yaml"
)

// defaultWalletFile is the YAML wallet location.
const defaultWalletFile = "~/.arena/wallet.yaml"

// expandHome replaces a leading ~ with the home directory.
func expandHome(path string) string {
	if !strings.HasPrefix(path, "~") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[1:])
}

// newFileLogger opens the interactive log. The TUI owns the terminal, so
// logs go to a file; a file that cannot be opened silences logging.
func newFileLogger(path, level string) (*log.Logger, io.Closer) {
	lvl, err := log.ParseLevel(level)
	if err != nil {
		lvl = log.InfoLevel
	}

	path = expandHome(path)
	if mkErr := os.MkdirAll(filepath.Dir(path), 0o755); mkErr != nil {
		return log.New(io.Discard), io.NopCloser(nil)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return log.New(io.Discard), io.NopCloser(nil)
	}

	logger := log.NewWithOptions(f, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.DateTime,
		Level:           lvl,
	})
	return logger, f
}

// newStderrLogger builds the logger for non-interactive commands.
func newStderrLogger(level, prefix string) *log.Logger {
	lvl, err := log.ParseLevel(level)
	if err != nil {
		lvl = log.InfoLevel
	}
	return log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Level:           lvl,
		Prefix:          prefix,
	})
}

// runtimeConfig sizes the run to the current terminal.
func runtimeConfig() core.RuntimeConfig {
	cfg := core.DefaultConfig()
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		cfg.ScreenW = w
		cfg.ScreenH = h
	}
	cfg.TickRate = flagFPS
	cfg.Seed = flagSeed
	return cfg
}

// arenaConfig resolves a variant, loads its config and applies the preset.
func arenaConfig(id, customPath, difficulty string) (config.ArenaConfig, error) {
	v, err := registry.Lookup(id)
	if err != nil {
		return config.ArenaConfig{}, err
	}
	cfg, err := v.Config(customPath)
	if err != nil {
		return config.ArenaConfig{}, err
	}
	preset, err := config.LookupPreset(difficulty)
	if err != nil {
		return config.ArenaConfig{}, err
	}
	return config.ApplyPreset(cfg, preset), nil
}

// services holds what an interactive session shares across runs.
type services struct {
	store   *storage.Store
	gateway *economy.Gateway
	cues    *audio.Cues
	logger  *log.Logger
}

// openServices opens the runs database and the wallet. A database that
// cannot be opened disables run history; the wallet then falls back to YAML.
func openServices(walletKind string, sound bool, logger *log.Logger) (*services, error) {
	s := &services{logger: logger}

	store, err := storage.Open(flagDBPath)
	if err != nil {
		logger.Warn("could not open runs database", "path", flagDBPath, "error", err)
		fmt.Fprintf(os.Stderr, "Warning: could not open runs database: %v\n", err)
		store = nil
	}
	s.store = store

	var backing economy.Store
	switch walletKind {
	case walletSQLite, "":
		if store != nil {
			backing = store
			break
		}
		fallthrough
	case walletYAML:
		fs, fsErr := economy.NewFileStore(defaultWalletFile)
		if fsErr != nil {
			s.close()
			return nil, fsErr
		}
		backing = fs
	default:
		s.close()
		return nil, fmt.Errorf("unknown wallet backend %q (want sqlite or yaml)", walletKind)
	}

	s.gateway = economy.New(backing, economy.WithLogger(logger))
	s.gateway.Load(context.Background())
	s.cues = audio.New(sound, logger)
	return s, nil
}

// close flushes pending credits and releases everything.
func (s *services) close() {
	if s.gateway != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := s.gateway.FlushNow(ctx); err != nil {
			s.logger.Error("wallet flush failed", "error", err)
			fmt.Fprintf(os.Stderr, "Warning: could not save wallet: %v\n", err)
		}
		cancel()
		s.gateway.Close()
	}
	if s.cues != nil {
		s.cues.Close()
	}
	if s.store != nil {
		s.store.Close()
	}
}
