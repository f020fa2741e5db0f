package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/arena-survival/internal/registry"
	"github.com/vovakirdan/arena-survival/internal/storage"
)

var (
	flagRunsLimit int
	flagRunsClear bool
)

var runsCmd = &cobra.Command{
	Use:   "runs <arena>",
	Short: "Show the longest runs for an arena",
	Long: `Display the longest runs recorded for the specified arena, with
aggregate statistics.

Examples:
  survival runs bluezone
  survival runs crates --limit 25
  survival runs smgstorm --clear`,
	Args: cobra.ExactArgs(1),
	Run:  runRuns,
}

func init() {
	runsCmd.Flags().IntVar(&flagRunsLimit, "limit", 10, "Number of runs to show")
	runsCmd.Flags().BoolVar(&flagRunsClear, "clear", false, "Delete the recorded runs for the arena")
}

func runRuns(_ *cobra.Command, args []string) {
	variantID := args[0]

	v, err := registry.Lookup(variantID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		fmt.Fprintln(os.Stderr, "Run 'survival list' to see available arenas.")
		os.Exit(1)
	}

	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening runs database: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	if flagRunsClear {
		if err := store.ClearRuns(variantID); err != nil {
			fmt.Fprintf(os.Stderr, "Error clearing runs: %v\n", err)
			return
		}
		fmt.Printf("Cleared runs for %s.\n", v.Title())
		return
	}

	runs, err := store.TopRuns(variantID, flagRunsLimit)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error retrieving runs: %v\n", err)
		return
	}

	fmt.Printf("Longest Runs - %s\n", v.Title())
	fmt.Println()

	if len(runs) == 0 {
		fmt.Println("No runs recorded yet.")
		fmt.Println()
		fmt.Printf("Play 'survival play %s' to set the first record!\n", variantID)
		return
	}

	fmt.Printf("  %-4s  %-9s  %-5s  %-5s  %-12s  %s\n", "Rank", "Survived", "Phase", "Kills", "Earned", "Date")
	fmt.Printf("  %-4s  %-9s  %-5s  %-5s  %-12s  %s\n", "----", "--------", "-----", "-----", "------", "----")
	for i, r := range runs {
		fmt.Printf("  %-4d  %-9s  %-5d  %-5d  %-12s  %s\n",
			i+1, formatDuration(r.Survived), r.Phase, r.Kills,
			fmt.Sprintf("%d/%d", r.Soft, r.Premium), r.CreatedAt.Format("2006-01-02 15:04"))
	}

	stats, err := store.GetVariantStats(variantID)
	if err == nil && stats.Runs > 0 {
		fmt.Println()
		fmt.Printf("Runs: %d  Best: %s  Average: %s  Top phase: %d  Kills: %d\n",
			stats.Runs, formatDuration(stats.BestSurvived), formatDuration(stats.AvgSurvived),
			stats.BestPhase, stats.TotalKills)
	}
}

// formatDuration renders a run length as m:ss.
func formatDuration(d time.Duration) string {
	d = d.Round(time.Second)
	return fmt.Sprintf("%d:%02d", int(d/time.Minute), int(d%time.Minute/time.Second))
}
