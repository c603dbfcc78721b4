package cli

import (
	"bufio"
	"context"
	"errors"
	"io"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/noteqa/internal/core/ports/driving"
)

var chatSources bool

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Chat with your notes in the terminal",
	Long: `Starts a line-based conversation about your indexed notes.

Each question retrieves the most relevant notes and sends them to the
language model together with the recent conversation.

Commands:
  exit, quit  End the conversation
  clear       Forget the conversation so far`,
	Args: cobra.NoArgs,
	RunE: runChat,
}

func init() {
	chatCmd.Flags().BoolVar(&chatSources, "sources", false, "list the notes behind each answer")
	rootCmd.AddCommand(chatCmd)
}

func runChat(cmd *cobra.Command, _ []string) error {
	app, err := openApp(cmd, Options{})
	if err != nil {
		return err
	}
	defer closeApp(app)

	query, err := requireQuery(app)
	if err != nil {
		return err
	}
	return chatLoop(commandContext(cmd), query, cmd.InOrStdin(), newPrinter(cmd.OutOrStdout()))
}

// chatLoop reads questions until exit, end of input or cancellation.
// A failed exchange is reported and the loop continues.
func chatLoop(ctx context.Context, query driving.QueryService, in io.Reader, out *printer) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	session := query.NewSession()
	lines := readLines(ctx, in)

	out.muted(driving.WelcomeText)
	out.line("")

	for {
		out.prompt()

		var line string
		var ok bool
		select {
		case <-ctx.Done():
			out.line("")
			out.line(driving.GoodbyeText)
			return nil
		case line, ok = <-lines:
		}
		if !ok {
			out.line("")
			out.line(driving.GoodbyeText)
			return nil
		}

		outcome, err := query.Handle(ctx, session, line)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				out.line(driving.GoodbyeText)
				return nil
			}
			out.failure(err)
			out.line("")
			continue
		}

		switch outcome.Kind {
		case driving.OutcomeExit:
			out.line(driving.GoodbyeText)
			return nil
		case driving.OutcomeCleared:
			out.muted(driving.ClearedText)
		case driving.OutcomeAnswer:
			out.line("")
			out.answer(outcome.Answer)
			if chatSources {
				out.sources(outcome.Sources)
			}
		case driving.OutcomeNoop:
			continue
		}
		out.line("")
	}
}

// readLines delivers input lines until EOF or ctx is done.
func readLines(ctx context.Context, in io.Reader) <-chan string {
	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
	}()
	return lines
}
