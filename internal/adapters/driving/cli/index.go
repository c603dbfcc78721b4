package cli

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/noteqa/internal/core/domain"
	"github.com/custodia-labs/noteqa/internal/core/ports/driving"
	"github.com/custodia-labs/noteqa/internal/logger"
)

var (
	indexSources []string
	indexPrune   bool
	indexWatch   bool
	indexDryRun  bool
)

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Index new and changed notes",
	Long: `Reads every enabled note source and indexes the notes that are new or
changed since the last run. Unchanged notes are skipped.

Apple Notes requires Full Disk Access for the terminal running noteqa.

Examples:
  noteqa index
  noteqa index --source vault --prune
  noteqa index --watch`,
	Args: cobra.NoArgs,
	RunE: runIndex,
}

func init() {
	indexCmd.Flags().StringSliceVarP(&indexSources, "source", "s", nil, "limit to sources (vault, notes)")
	indexCmd.Flags().BoolVar(&indexPrune, "prune", false, "remove notes that no longer exist in their source")
	indexCmd.Flags().BoolVarP(&indexWatch, "watch", "w", false, "keep running and re-index the vault on change")
	indexCmd.Flags().BoolVar(&indexDryRun, "dry-run", false, "report what would change without writing")
	rootCmd.AddCommand(indexCmd)
}

func runIndex(cmd *cobra.Command, _ []string) error {
	app, err := openApp(cmd, Options{DryRun: indexDryRun})
	if err != nil {
		return err
	}
	defer closeApp(app)

	opts := driving.IndexOptions{
		Sources: indexSources,
		Prune:   app.Config.Index.Prune,
	}
	if cmd.Flags().Changed("prune") {
		opts.Prune = indexPrune
	}

	ctx := commandContext(cmd)
	report, err := app.Indexer.Index(ctx, opts)
	printReport(cmd, report)
	if err != nil {
		return indexError(err)
	}
	if indexDryRun {
		cmd.Println("Dry run: nothing was written.")
	}

	if !indexWatch {
		return nil
	}
	return watchVault(ctx, cmd, app, opts)
}

// watchVault re-indexes the vault on every change signal until ctx is done.
func watchVault(ctx context.Context, cmd *cobra.Command, app *App, opts driving.IndexOptions) error {
	if app.Watch == nil {
		return fmt.Errorf("%w: vault is disabled", domain.ErrUnsupportedType)
	}
	if len(opts.Sources) > 0 && !slices.Contains(opts.Sources, domain.SourceVault) {
		return fmt.Errorf("%w: --watch needs the vault source", domain.ErrInvalidInput)
	}

	signals, err := app.Watch(ctx)
	if err != nil {
		return fmt.Errorf("watch vault: %w", err)
	}
	cmd.Println("Watching the vault for changes. Press Ctrl+C to stop.")

	opts.Sources = []string{domain.SourceVault}
	for range signals {
		report, err := app.Indexer.Index(ctx, opts)
		if errors.Is(err, context.Canceled) {
			break
		}
		if err != nil {
			logger.Error("Re-index failed: %v", err)
			continue
		}
		if report.Added+report.Updated+report.Pruned > 0 {
			printReport(cmd, report)
		}
	}
	return nil
}

func printReport(cmd *cobra.Command, report domain.IndexReport) {
	cmd.Printf("Indexed: %d new, %d updated, %d unchanged", report.Added, report.Updated, report.Unchanged)
	if report.Pruned > 0 {
		cmd.Printf(", %d pruned", report.Pruned)
	}
	cmd.Println()

	if len(report.Skipped) > 0 {
		cmd.Printf("Skipped %d unreadable items\n", len(report.Skipped))
	}
	for _, failure := range report.Failed {
		cmd.Printf("  failed: %s: %v\n", failure.ID, failure.Err)
	}
	for _, sourceErr := range report.SourceErrors {
		cmd.Printf("  unavailable: %v\n", sourceErr)
		var se *domain.SourceError
		if errors.As(sourceErr, &se) && se.Hint != "" {
			cmd.Println(se.Hint)
		}
	}
}

// indexError keeps interrupts quiet.
func indexError(err error) error {
	if errors.Is(err, context.Canceled) {
		logger.Info("Indexing interrupted, progress saved")
		return nil
	}
	return err
}
