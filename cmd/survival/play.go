package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/arena-survival/internal/platform/tui"
	"github.com/vovakirdan/arena-survival/internal/registry"
)

var (
	flagConfig     string
	flagDifficulty string
	flagSound      bool
	flagWallet     string
	flagDebug      bool
)

var playCmd = &cobra.Command{
	Use:   "play <arena>",
	Short: "Play an arena",
	Long: `Start a run in the specified arena.

Controls:
  WASD/Arrows      - Move
  Shift+Direction  - Dash
  Space/Mouse      - Fire (mouse aims)
  G                - Grenade
  P                - Pause
  R                - Restart (after death)
  Esc/B            - Back (when paused or dead)
  Ctrl+S           - Screenshot
  Q/Ctrl+C         - Quit

Difficulty options:
  easy   - Slower phases, more hit points
  normal - Arena as configured
  hard   - Faster phases, fewer hit points

Examples:
  survival play bluezone
  survival play smgstorm --difficulty hard
  survival play crates --sound
  survival play bluezone --config ./my-bluezone.yaml
  survival play crates --wallet yaml`,
	Args: cobra.ExactArgs(1),
	Run:  runPlay,
}

func init() {
	for _, c := range []*cobra.Command{playCmd, menuCmd} {
		c.Flags().StringVar(&flagDifficulty, "difficulty", "", "Difficulty preset: easy, normal, hard")
		c.Flags().BoolVar(&flagSound, "sound", false, "Play sound cues")
		c.Flags().StringVar(&flagWallet, "wallet", walletSQLite, "Wallet backend: sqlite or yaml")
		c.Flags().BoolVar(&flagDebug, "debug", false, "Enable the debug overlay key (F9)")
	}
	playCmd.Flags().StringVar(&flagConfig, "config", "", "Path to custom arena config YAML")
}

func runPlay(_ *cobra.Command, args []string) {
	variantID := args[0]

	if !registry.Exists(variantID) {
		fmt.Fprintf(os.Stderr, "Error: unknown arena %q\n", variantID)
		fmt.Fprintln(os.Stderr, "Run 'survival list' to see available arenas.")
		os.Exit(1)
	}

	cfg, err := arenaConfig(variantID, flagConfig, flagDifficulty)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	logger, logFile := newFileLogger(flagLogFile, flagLogLevel)
	defer logFile.Close()

	svc, err := openServices(flagWallet, flagSound, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	_, runErr := tui.Run(cfg, runtimeConfig(), tui.GameDeps{
		Store:  svc.store,
		Ledger: svc.gateway,
		Cues:   svc.cues,
		Logger: logger,
		Debug:  flagDebug,
	})

	// Flush the wallet before potential exit
	svc.close()

	if runErr != nil {
		fmt.Fprintf(os.Stderr, "Error running arena: %v\n", runErr)
		os.Exit(1)
	}
}
