package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"stortally/internal/flags"
	"stortally/internal/provider/factory"
	"stortally/internal/provider/registry"
	"stortally/internal/scanner"
	"stortally/internal/service"
	"stortally/internal/ui/progress"
	"stortally/internal/ui/prompt"
	"stortally/pkg/formatter"
	"stortally/pkg/summary"
)

type scanFlags struct {
	providersList []string
	regions       []string
	bucket        string
	pageSize      int32
	maxObjects    int64
	bucketTimeout time.Duration
	concurrency   int
	csvPath       string
	format        string
	progress      bool
	force         bool
}

func newScanCmd(app *appContainer) *cobra.Command {
	cmdFlags := scanFlags{}

	scanCmd := &cobra.Command{
		Use:   "scan",
		Short: "Scan bucket contents and report storage usage",
		Long: `Scans the objects of every bucket visible to the configured providers and
reports object counts and sizes per bucket, storage class and region.
If no flags are provided, it queries all configured providers.
Use the --providers flag to specify which providers to query (e.g., --providers aws,gcp).`,
		RunE: func(cmd *cobra.Command, args []string) error {
			providersToQuery, err := resolveProviders(cmdFlags.providersList, app.ProviderFactory)
			if err != nil {
				return err
			}
			if len(providersToQuery) == 0 {
				return fmt.Errorf("no providers configured. Use 'stortally config set'. Supported providers: %s",
					strings.Join(registry.GetSupportedProviders(), ", "))
			}

			if cmdFlags.format != "table" && cmdFlags.format != "yaml" {
				return fmt.Errorf("unsupported output format '%s' (expected 'table' or 'yaml')", cmdFlags.format)
			}

			if cmdFlags.csvPath != "" && !cmdFlags.force {
				if _, err := os.Stat(cmdFlags.csvPath); err == nil {
					ok, err := prompt.ConfirmOverwrite(app.Prompter, cmdFlags.csvPath)
					if err != nil {
						return err
					}
					if !ok {
						return errors.New("aborted: output file not overwritten")
					}
				}
			}

			req := service.ScanRequest{
				Providers: providersToQuery,
				Regions:   normalizeRegions(cmdFlags.regions),
				Bucket:    cmdFlags.bucket,
				Scan: scanner.Options{
					PageSize:      cmdFlags.pageSize,
					MaxObjects:    cmdFlags.maxObjects,
					Timeout:       cmdFlags.bucketTimeout,
					RetryAttempts: app.Config.Scan.RetryAttempts,
				},
				Concurrency: cmdFlags.concurrency,
			}

			report, err := runScan(cmd, app, req, cmdFlags.progress)
			if err != nil {
				return err
			}

			if err := printReport(app, report, cmdFlags.format); err != nil {
				return err
			}

			if cmdFlags.csvPath != "" {
				if err := writeCSVReport(cmdFlags.csvPath, report); err != nil {
					return err
				}
				fmt.Printf("CSV report written to %s\n", cmdFlags.csvPath)
			}
			return nil
		},
	}

	scanCmd.Flags().StringSliceVarP(&cmdFlags.providersList, flags.Providers, flags.ProvidersShort, []string{}, "Specify providers to query (comma-separated). Defaults to all configured providers.")
	scanCmd.Flags().StringSliceVarP(&cmdFlags.regions, flags.Regions, flags.RegionsShort, []string{}, "Only scan buckets in these regions (comma-separated)")
	scanCmd.Flags().StringVarP(&cmdFlags.bucket, flags.Bucket, flags.BucketShort, "", "Scan a single named bucket")
	scanCmd.Flags().Int32Var(&cmdFlags.pageSize, flags.PageSize, app.Config.Scan.PageSize, "Object listing page size (1-1000)")
	scanCmd.Flags().Int64Var(&cmdFlags.maxObjects, flags.MaxObjects, app.Config.Scan.MaxObjects, "Stop scanning a bucket after this many objects (0 = no limit)")
	scanCmd.Flags().DurationVar(&cmdFlags.bucketTimeout, flags.BucketTimeout, app.Config.Scan.BucketTimeout, "Per-bucket scan time limit (0 = no limit)")
	scanCmd.Flags().IntVar(&cmdFlags.concurrency, flags.Concurrency, app.Config.Scan.Concurrency, "Number of buckets scanned in parallel")
	scanCmd.Flags().StringVar(&cmdFlags.csvPath, flags.CSV, app.Config.Output.CSVPath, "Write the report to this CSV file")
	scanCmd.Flags().StringVar(&cmdFlags.format, flags.Format, app.Config.Output.Format, "Console output format: table or yaml")
	scanCmd.Flags().BoolVar(&cmdFlags.progress, flags.Progress, false, "Show an interactive progress display while scanning")
	scanCmd.Flags().BoolVarP(&cmdFlags.force, flags.Force, flags.ForceShort, false, "Overwrite existing output files without asking")

	return scanCmd
}

// runScan executes the scan, optionally behind the interactive progress
// display. With the display on, the scan runs in a goroutine and feeds
// bucket updates to the bubbletea program until it finishes.
func runScan(cmd *cobra.Command, app *appContainer, req service.ScanRequest, showProgress bool) (*summary.Report, error) {
	if !showProgress {
		return app.ScanService.ScanAccount(cmd.Context(), req)
	}

	prog := tea.NewProgram(progress.NewModel(), tea.WithOutput(os.Stderr))
	req.OnProgress = func(bp service.BucketProgress) {
		prog.Send(progress.BucketMsg{
			Provider: string(bp.Provider),
			Bucket:   bp.Bucket,
			Index:    bp.Index,
			Total:    bp.Total,
			Objects:  bp.Objects,
			Bytes:    bp.Bytes,
			Done:     bp.Done,
		})
	}

	return scanBehindDisplay(cmd.Context(), prog, func(ctx context.Context) (*summary.Report, error) {
		return app.ScanService.ScanAccount(ctx, req)
	})
}

// progressDisplay is the slice of *tea.Program scanBehindDisplay needs.
type progressDisplay interface {
	Run() (tea.Model, error)
	Send(tea.Msg)
}

// scanBehindDisplay runs scan concurrently with the display. The display may
// quit before the scan finishes (e.g. on Ctrl+C); in that case the scan is
// canceled and the whole run reports an abort instead of a partial result.
// The scan goroutine is always joined before its results are read.
func scanBehindDisplay(parent context.Context, display progressDisplay, scan func(context.Context) (*summary.Report, error)) (*summary.Report, error) {
	ctx, cancel := context.WithCancel(parent)
	defer cancel()

	var (
		report  *summary.Report
		scanErr error
	)
	done := make(chan struct{})
	go func() {
		defer close(done)
		report, scanErr = scan(ctx)
		display.Send(progress.FinishedMsg{})
	}()

	_, runErr := display.Run()
	cancel()
	<-done

	if runErr != nil {
		return nil, fmt.Errorf("progress display failed: %w", runErr)
	}
	if scanErr != nil {
		if errors.Is(scanErr, context.Canceled) && parent.Err() == nil {
			return nil, errors.New("scan aborted")
		}
		return nil, scanErr
	}
	if report == nil {
		return nil, errors.New("scan aborted")
	}
	return report, nil
}

func printReport(app *appContainer, report *summary.Report, format string) error {
	switch format {
	case "yaml":
		return formatter.WriteYAML(os.Stdout, report)
	default:
		fmt.Println(app.Formatter.FormatReport(report))
		return nil
	}
}

func writeCSVReport(path string, report *summary.Report) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("error creating CSV file '%s': %w", path, err)
	}
	if err := formatter.WriteCSV(f, report); err != nil {
		f.Close()
		return fmt.Errorf("error writing CSV report: %w", err)
	}
	return f.Close()
}

func normalizeRegions(regions []string) []string {
	var out []string
	seen := make(map[string]bool)
	for _, r := range regions {
		r = strings.ToLower(strings.TrimSpace(r))
		if r == "" || seen[r] {
			continue
		}
		seen[r] = true
		out = append(out, r)
	}
	return out
}

func resolveProviders(requestedProviders []string, factory *factory.Factory) ([]string, error) {
	if len(requestedProviders) == 0 {
		return factory.GetConfiguredProviders(), nil
	}

	var validatedProviders []string
	var invalidProviders []string
	seen := make(map[string]bool)

	for _, p := range requestedProviders {
		p = strings.ToLower(strings.TrimSpace(p))

		if seen[p] {
			continue
		}
		seen[p] = true

		if registry.IsSupported(p) {
			if factory.IsConfigured(p) {
				validatedProviders = append(validatedProviders, p)
			} else {
				return nil, fmt.Errorf("provider '%s' was requested but is not configured. Use 'stortally config set %s.<key> <value>'", p, p)
			}
		} else {
			invalidProviders = append(invalidProviders, p)
		}
	}

	if len(invalidProviders) > 0 {
		return nil, fmt.Errorf("unsupported providers requested: %v. Supported providers are: %v", invalidProviders, registry.GetSupportedProviders())
	}

	return validatedProviders, nil
}
