package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/arena-survival/internal/platform/tui"
)

var menuCmd = &cobra.Command{
	Use:   "menu",
	Short: "Start with an arena picker menu",
	Long: `Start in interactive menu mode.

Use arrow keys or j/k to navigate, Enter to pick an arena.
Leaving a run (Esc when paused or dead) returns to the menu.

Controls:
  Up/Down/j/k  - Navigate menu
  Enter/Space  - Play arena
  Tab          - Longest runs
  Q            - Quit

Examples:
  survival menu
  survival menu --fps 30 --sound
  survival menu --db ./arena.db`,
	Run: runMenu,
}

func runMenu(_ *cobra.Command, _ []string) {
	logger, logFile := newFileLogger(flagLogFile, flagLogLevel)
	defer logFile.Close()

	svc, err := openServices(flagWallet, flagSound, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer svc.close()

	rt := runtimeConfig()

	for {
		totals := svc.gateway.Totals()
		menuResult, err := tui.RunMenu(&totals, rt)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			break
		}

		// Update config with any size changes
		rt = menuResult.Config

		if menuResult.Quit {
			break
		}

		if menuResult.WantsRuns {
			goBack, runsErr := tui.RunRuns(svc.store, menuResult.VariantID, rt.ScreenW, rt.ScreenH)
			if runsErr != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", runsErr)
			}
			if goBack {
				continue
			}
			break
		}

		cfg, err := arenaConfig(menuResult.VariantID, "", flagDifficulty)
		if err != nil {
			logger.Error("cannot load arena", "variant", menuResult.VariantID, "error", err)
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			continue
		}

		// New seed for each run unless pinned
		if flagSeed == 0 {
			rt.Seed = time.Now().UnixNano()
		}

		result, err := tui.Run(cfg, rt, tui.GameDeps{
			Store:  svc.store,
			Ledger: svc.gateway,
			Cues:   svc.cues,
			Logger: logger,
			Debug:  flagDebug,
		})
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error running arena: %v\n", err)
		}
		if !result.BackToMenu {
			break
		}
	}
}
