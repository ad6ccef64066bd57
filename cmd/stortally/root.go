package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"stortally/internal/flags"
)

func newRootCmd(app *appContainer) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "stortally",
		Short: "Stortally tallies bucket storage usage across cloud providers.",
		Long: `A command-line tool that enumerates the storage buckets of your
configured cloud accounts, scans their objects, and reports usage
totals broken down by bucket, storage class and region.`,
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().BoolP(flags.Debug, flags.DebugShort, false, "Enable verbose logging")

	rootCmd.AddCommand(newScanCmd(app))
	rootCmd.AddCommand(newBucketsCmd(app))
	rootCmd.AddCommand(newConfigCmd(app))
	return rootCmd
}

func Execute(app *appContainer) {
	if err := newRootCmd(app).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
