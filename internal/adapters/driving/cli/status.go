package cli

import (
	"context"
	"fmt"
	"sort"

	"github.com/spf13/cobra"
)

var statusCheck bool

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show index status",
	Long: `Shows the number of indexed documents and tracked fingerprints per
source. With --check, also probes the embedding and chat services.`,
	Args: cobra.NoArgs,
	RunE: runStatus,
}

func init() {
	statusCmd.Flags().BoolVar(&statusCheck, "check", false, "check that the AI services are reachable")
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, _ []string) error {
	app, err := openApp(cmd, Options{})
	if err != nil {
		return err
	}
	defer closeApp(app)

	ctx := commandContext(cmd)
	status, err := app.Indexer.Status(ctx)
	if err != nil {
		return fmt.Errorf("read status: %w", err)
	}

	cmd.Printf("Indexed documents:    %d\n", status.Documents)
	cmd.Printf("Tracked fingerprints: %d\n", status.Tracked)

	sources := make([]string, 0, len(status.PerSource))
	for name := range status.PerSource {
		sources = append(sources, name)
	}
	sort.Strings(sources)
	for _, name := range sources {
		cmd.Printf("  %-8s %d\n", name, status.PerSource[name])
	}

	cmd.Printf("Embedding: %s %s\n", app.Config.Embedding.Provider, app.Config.Embedding.Model)
	cmd.Printf("LLM:       %s %s\n", app.Config.LLM.Provider, app.Config.LLM.Model)

	if statusCheck {
		return runChecks(ctx, cmd, app.Checks)
	}
	return nil
}

// runChecks runs every check and fails if any did.
func runChecks(ctx context.Context, cmd *cobra.Command, checks []HealthCheck) error {
	failed := 0
	for _, check := range checks {
		if err := check.Run(ctx); err != nil {
			failed++
			cmd.Printf("  %s: FAILED (%v)\n", check.Name, err)
			continue
		}
		cmd.Printf("  %s: ok\n", check.Name)
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d checks failed", failed, len(checks))
	}
	return nil
}
