package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/noteqa/internal/core/domain"
	"github.com/custodia-labs/noteqa/internal/core/ports/driving"
)

// fakeIndexer records every Index call.
type fakeIndexer struct {
	report domain.IndexReport
	err    error
	status *driving.IndexStatus
	calls  []driving.IndexOptions
}

func (f *fakeIndexer) Index(_ context.Context, opts driving.IndexOptions) (domain.IndexReport, error) {
	f.calls = append(f.calls, opts)
	return f.report, f.err
}

func (f *fakeIndexer) Status(context.Context) (*driving.IndexStatus, error) {
	if f.status == nil {
		return &driving.IndexStatus{PerSource: map[string]int{}}, f.err
	}
	return f.status, f.err
}

// fakeSession is a minimal unbounded driving.Session.
type fakeSession struct {
	turns []domain.Turn
}

func (s *fakeSession) Append(turn domain.Turn) { s.turns = append(s.turns, turn) }
func (s *fakeSession) Clear()                  { s.turns = nil }
func (s *fakeSession) Turns() []domain.Turn    { return s.turns }
func (s *fakeSession) Len() int                { return len(s.turns) }
func (s *fakeSession) Messages() []domain.Turn { return s.turns }

// fakeQuery answers every question with answer, or fails with errFor.
type fakeQuery struct {
	answer  string
	sources []domain.RetrievedDocument
	errFor  map[string]error
	asked   []string
	limit   int
}

func (f *fakeQuery) NewSession() driving.Session { return &fakeSession{} }

func (f *fakeQuery) Handle(_ context.Context, session driving.Session, input string) (*driving.Outcome, error) {
	switch strings.ToLower(strings.TrimSpace(input)) {
	case "":
		return &driving.Outcome{Kind: driving.OutcomeNoop}, nil
	case "exit", "quit":
		return &driving.Outcome{Kind: driving.OutcomeExit}, nil
	case "clear":
		session.Clear()
		return &driving.Outcome{Kind: driving.OutcomeCleared}, nil
	}
	f.asked = append(f.asked, input)
	if err := f.errFor[input]; err != nil {
		return nil, err
	}
	session.Append(domain.Turn{Role: domain.RoleUser, Content: input})
	session.Append(domain.Turn{Role: domain.RoleAssistant, Content: f.answer})
	return &driving.Outcome{Kind: driving.OutcomeAnswer, Answer: f.answer, Sources: f.sources}, nil
}

func (f *fakeQuery) Search(_ context.Context, query string, limit int) ([]domain.RetrievedDocument, error) {
	f.asked = append(f.asked, query)
	f.limit = limit
	return f.sources, nil
}

func (f *fakeQuery) Note(context.Context, string) (*domain.Document, error) {
	return nil, domain.ErrNotFound
}

// testApp wires fakes into the bootstrap and records the options it saw.
type testApp struct {
	indexer *fakeIndexer
	query   *fakeQuery
	app     *App
	opts    Options
	closed  int
}

func setupTestApp(t *testing.T) *testApp {
	t.Helper()
	ta := &testApp{
		indexer: &fakeIndexer{},
		query:   &fakeQuery{answer: "You flew to Paris."},
	}
	ta.app = &App{
		Config:  domain.DefaultConfig(t.TempDir()),
		Indexer: ta.indexer,
		Query:   ta.query,
		Close: func() error {
			ta.closed++
			return nil
		},
	}
	SetBootstrap(func(_ context.Context, opts Options) (*App, error) {
		ta.opts = opts
		return ta.app, nil
	})
	t.Cleanup(func() { SetBootstrap(nil) })
	return ta
}

// resetFlags restores every flag to its default between executions.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			_ = sv.Replace(nil)
		} else {
			_ = f.Value.Set(f.DefValue)
		}
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	return executeWithInput(t, "", args...)
}

func executeWithInput(t *testing.T, input string, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd)

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetIn(strings.NewReader(input))
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetArgs(nil)
		rootCmd.SetIn(nil)
	})

	err := rootCmd.ExecuteContext(context.Background())
	return buf.String(), err
}

func TestRootCmd(t *testing.T) {
	assert.Equal(t, "noteqa", rootCmd.Use)
	assert.True(t, rootCmd.SilenceUsage)

	for _, name := range []string{"config", "verbose"} {
		assert.NotNil(t, rootCmd.PersistentFlags().Lookup(name), name)
	}

	names := make(map[string]bool)
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}
	for _, name := range []string{"index", "chat", "ask", "search", "status", "tui", "mcp", "config", "version"} {
		assert.True(t, names[name], "missing command %s", name)
	}
}

func TestVersionCmd(t *testing.T) {
	out, err := execute(t, "version")

	require.NoError(t, err)
	assert.Equal(t, "noteqa version dev\n", out)
}

func TestCommands_NotConfigured(t *testing.T) {
	SetBootstrap(nil)

	for _, args := range [][]string{
		{"index"},
		{"ask", "question"},
		{"search", "query"},
		{"status"},
	} {
		_, err := execute(t, args...)
		assert.ErrorIs(t, err, ErrNotConfigured, "%v", args)
	}
}

func TestCommands_PassConfigPath(t *testing.T) {
	ta := setupTestApp(t)

	_, err := execute(t, "--config", "/tmp/custom.toml", "status")

	require.NoError(t, err)
	assert.Equal(t, "/tmp/custom.toml", ta.opts.ConfigPath)
	assert.Equal(t, 1, ta.closed)
}

func TestCommands_DryRunAppHasNoQuery(t *testing.T) {
	ta := setupTestApp(t)
	ta.app.Query = nil

	_, err := execute(t, "ask", "anything")

	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestMCPServeCmd_HasPortFlag(t *testing.T) {
	flag := mcpServeCmd.Flags().Lookup("port")
	require.NotNil(t, flag)
	assert.Equal(t, "p", flag.Shorthand)
	assert.Equal(t, "0", flag.DefValue)
}
