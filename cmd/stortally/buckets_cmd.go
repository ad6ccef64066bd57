package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"stortally/internal/flags"
	"stortally/internal/provider/registry"
)

func newBucketsCmd(app *appContainer) *cobra.Command {
	var providersList []string

	bucketsCmd := &cobra.Command{
		Use:   "buckets",
		Short: "List storage buckets without scanning their contents",
		Long: `Lists all storage buckets visible to the configured providers, along with
any usage the provider reports on its own, without enumerating objects.
Use the --providers flag to specify which providers to query (e.g., --providers aws,gcp).`,
		RunE: func(cmd *cobra.Command, args []string) error {
			providersToQuery, err := resolveProviders(providersList, app.ProviderFactory)
			if err != nil {
				return err
			}

			allBuckets, err := app.ScanService.ListAllBuckets(cmd.Context(), providersToQuery)
			if err != nil {
				return err
			}

			if len(allBuckets) == 0 {
				if len(providersToQuery) == 0 {
					fmt.Printf("No providers configured. Use 'stortally config set'. Supported providers: %s\n", strings.Join(registry.GetSupportedProviders(), ", "))
				} else {
					fmt.Println("No buckets found.")
				}
				return nil
			}

			fmt.Println(app.Formatter.FormatBucketList(allBuckets))
			return nil
		},
	}

	bucketsCmd.Flags().StringSliceVarP(&providersList, flags.Providers, flags.ProvidersShort, []string{}, "Specify providers to query (comma-separated). Defaults to all configured providers.")
	return bucketsCmd
}
