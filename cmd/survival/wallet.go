package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/arena-survival/internal/economy"
	"github.com/vovakirdan/arena-survival/internal/storage"
)

var walletCmd = &cobra.Command{
	Use:   "wallet",
	Short: "Show banked currency",
	Long: `Display the currency banked across runs.

Examples:
  survival wallet
  survival wallet --wallet yaml`,
	Run: runWallet,
}

func init() {
	walletCmd.Flags().StringVar(&flagWallet, "wallet", walletSQLite, "Wallet backend: sqlite or yaml")
}

func runWallet(_ *cobra.Command, _ []string) {
	var (
		backing economy.Store
		where   string
	)

	switch flagWallet {
	case walletSQLite:
		store, err := storage.Open(flagDBPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error opening database: %v\n", err)
			os.Exit(1)
		}
		defer store.Close()
		backing, where = store, flagDBPath
	case walletYAML:
		fs, err := economy.NewFileStore(defaultWalletFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		backing, where = fs, fs.Path()
	default:
		fmt.Fprintf(os.Stderr, "Error: unknown wallet backend %q (want sqlite or yaml)\n", flagWallet)
		os.Exit(1)
	}

	gw := economy.New(backing, economy.WithLogger(newStderrLogger(flagLogLevel, "wallet")))
	defer gw.Close()
	totals := gw.Load(context.Background())

	fmt.Printf("Wallet (%s)\n", where)
	fmt.Println()
	fmt.Printf("  %-8s %d\n", economy.Soft, totals.Soft)
	fmt.Printf("  %-8s %d\n", economy.Premium, totals.Premium)
}
