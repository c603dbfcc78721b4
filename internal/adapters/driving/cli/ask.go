package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/noteqa/internal/core/ports/driving"
)

var askSources bool

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Ask a single question about your notes",
	Long: `Answers one question using the most relevant indexed notes and exits.

Example:
  noteqa ask "When did I last go to Paris?"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAsk,
}

func init() {
	askCmd.Flags().BoolVar(&askSources, "sources", false, "list the notes behind the answer")
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	app, err := openApp(cmd, Options{})
	if err != nil {
		return err
	}
	defer closeApp(app)

	query, err := requireQuery(app)
	if err != nil {
		return err
	}

	question := strings.Join(args, " ")
	outcome, err := query.Handle(commandContext(cmd), query.NewSession(), question)
	if err != nil {
		return err
	}
	if outcome.Kind != driving.OutcomeAnswer {
		return nil
	}

	out := newPrinter(cmd.OutOrStdout())
	out.answer(outcome.Answer)
	if askSources {
		out.sources(outcome.Sources)
	}
	return nil
}
