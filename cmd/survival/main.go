// survival is a terminal arena-survival game: dodge hazards, outlast the
// escalating phases and bank the currency you earn.
//
// Usage:
//
//	survival list               - List available arenas
//	survival play <arena>       - Play an arena
//	survival menu               - Start menu to pick arenas interactively
//	survival runs <arena>       - Show the longest runs for an arena
//	survival wallet             - Show banked currency
//	survival validate <file>    - Check an arena config file
//	survival serve              - Start SSH server for remote play
//
// Global flags:
//
//	--fps <rate>        - Set frame rate (default: 60)
//	--seed <value>      - Set RNG seed for reproducible runs
//	--db <path>         - Set database path (default: ~/.arena/arena.db)
//	--log-level <lvl>   - debug, info, warn, error (default: info)
//	--log-file <path>   - Log destination (default: ~/.arena/arena.log)
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	// Import variants to register them
	_ "github.com/vovakirdan/arena-survival/internal/variants/bluezone"
	_ "github.com/vovakirdan/arena-survival/internal/variants/crates"
	_ "github.com/vovakirdan/arena-survival/internal/variants/smgstorm"
)

var (
	// Global flags
	flagFPS      int
	flagSeed     int64
	flagDBPath   string
	flagLogLevel string
	flagLogFile  string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "survival",
	Short: "Arena Survival - outlast the arena in your terminal",
	Long: `Arena Survival is a terminal game: move, dodge and shoot while the
arena escalates every phase. Currency earned in runs is banked between runs.

Available commands:
  list      - Show all available arenas
  play      - Play a specific arena directly
  menu      - Interactive arena picker menu
  runs      - View the longest runs
  wallet    - Show banked currency
  validate  - Check an arena config file
  serve     - Start SSH server for remote play

Examples:
  survival list
  survival play bluezone
  survival play crates --difficulty hard --sound
  survival menu
  survival serve --ssh :2222
  survival runs smgstorm`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 60, "Frame rate (frames per second)")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "~/.arena/arena.db", "Path to runs database")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "info", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&flagLogFile, "log-file", "~/.arena/arena.log", "Log file for interactive commands")

	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(menuCmd)
	rootCmd.AddCommand(runsCmd)
	rootCmd.AddCommand(walletCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(serveCmd)
}
