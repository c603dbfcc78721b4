// Package cli provides the noteqa command line interface.
package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/noteqa/internal/core/domain"
	"github.com/custodia-labs/noteqa/internal/core/ports/driving"
	"github.com/custodia-labs/noteqa/internal/logger"
)

// version is set at build time.
var version = "dev"

var (
	configPath string
	verbose    bool
)

// ErrNotConfigured is returned when a command runs before SetBootstrap.
var ErrNotConfigured = errors.New("services not configured")

// Options tell the bootstrap what a command needs.
type Options struct {
	// ConfigPath overrides the configuration file location.
	ConfigPath string

	// DryRun indexes into memory and leaves the persisted index and
	// fingerprints untouched. No AI service is created.
	DryRun bool
}

// HealthCheck probes one external dependency.
type HealthCheck struct {
	Name string
	Run  func(ctx context.Context) error
}

// App holds the services a command runs against.
type App struct {
	Config  domain.Config
	Indexer driving.Indexer

	// Query is nil for dry runs.
	Query driving.QueryService

	// Watch signals vault changes. Nil when the vault is disabled.
	Watch func(ctx context.Context) (<-chan struct{}, error)

	// Checks probe the embedding and chat services.
	Checks []HealthCheck

	// Close releases everything the bootstrap opened.
	Close func() error
}

// Bootstrap builds the services from configuration.
type Bootstrap func(ctx context.Context, opts Options) (*App, error)

var bootstrap Bootstrap

// SetBootstrap sets the function commands use to build their services.
func SetBootstrap(b Bootstrap) {
	bootstrap = b
}

var rootCmd = &cobra.Command{
	Use:   "noteqa",
	Short: "Ask questions about your personal notes",
	Long: `noteqa indexes an Obsidian vault and the Apple Notes database into a
local vector index and answers questions about them with a language model.

Run "noteqa index" first, then "noteqa chat" or "noteqa tui".`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "config file (default ~/.noteqa/config.toml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "print progress and debug output")
}

// Execute runs the root command with ctx.
func Execute(ctx context.Context, v string) error {
	if v != "" {
		version = v
	}
	return rootCmd.ExecuteContext(ctx)
}

// openApp bootstraps the services for cmd.
func openApp(cmd *cobra.Command, opts Options) (*App, error) {
	if bootstrap == nil {
		return nil, ErrNotConfigured
	}
	opts.ConfigPath = configPath
	return bootstrap(commandContext(cmd), opts)
}

// closeApp releases app, logging failures.
func closeApp(app *App) {
	if app == nil || app.Close == nil {
		return
	}
	if err := app.Close(); err != nil {
		logger.Warn("Close: %v", err)
	}
}

// requireQuery returns the query service or an error for dry-run apps.
func requireQuery(app *App) (driving.QueryService, error) {
	if app.Query == nil {
		return nil, fmt.Errorf("%w: query service", ErrNotConfigured)
	}
	return app.Query, nil
}

// commandContext returns cmd's context, falling back to Background.
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
