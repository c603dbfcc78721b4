package cli

import (
	"fmt"
	"os"
	"runtime/debug"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/noteqa/internal/adapters/driving/tui"
	"github.com/custodia-labs/noteqa/internal/logger"
)

// tuiCmd represents the tui command.
var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch the interactive chat UI",
	Long: `Launch the full screen chat interface.

Controls:
  Enter        - Send
  Ctrl+S       - Toggle sources for the last answer
  Ctrl+L       - Clear the conversation
  PgUp/PgDn    - Scroll the transcript
  Esc, Ctrl+C  - Quit`,
	Args: cobra.NoArgs,
	RunE: runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, _ []string) error {
	// Add panic recovery to get stack traces
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "Panic in TUI: %v\n", r)
			fmt.Fprintf(os.Stderr, "Stack trace:\n%s\n", debug.Stack())
		}
	}()

	app, err := openApp(cmd, Options{})
	if err != nil {
		return err
	}
	defer closeApp(app)

	query, err := requireQuery(app)
	if err != nil {
		return err
	}

	ui, err := tui.NewApp(&tui.Ports{Query: query})
	if err != nil {
		return fmt.Errorf("failed to create TUI: %w", err)
	}
	ui.WithContext(commandContext(cmd))

	logger.SetQuiet(true)
	defer logger.SetQuiet(false)

	if err := ui.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}
