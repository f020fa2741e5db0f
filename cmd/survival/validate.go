package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/arena-survival/internal/config"
)

var validateCmd = &cobra.Command{
	Use:   "validate <file>",
	Short: "Check an arena config file",
	Long: `Parse an arena config YAML and report every problem found.

Examples:
  survival validate ./configs/bluezone.yaml`,
	Args: cobra.ExactArgs(1),
	Run:  runValidate,
}

func runValidate(_ *cobra.Command, args []string) {
	path := args[0]

	cfg, err := config.LoadFile(path)
	if err == nil {
		err = config.Validate(cfg)
	}

	var verr *config.ValidationError
	switch {
	case errors.As(err, &verr):
		fmt.Fprintf(os.Stderr, "%s: %d problem(s)\n", path, len(verr.Problems))
		for _, p := range verr.Problems {
			fmt.Fprintf(os.Stderr, "  - %s\n", p)
		}
		os.Exit(1)
	case err != nil:
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("%s: ok (%s, %d hazard kinds, %d composition steps)\n",
		path, cfg.ID, len(cfg.Hazards), len(cfg.Composition))
}
