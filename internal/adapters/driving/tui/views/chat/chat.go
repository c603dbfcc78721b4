// Package chat provides the conversation view for the TUI.
package chat

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/noteqa/internal/adapters/driving/tui/components/input"
	"github.com/custodia-labs/noteqa/internal/adapters/driving/tui/components/list"
	"github.com/custodia-labs/noteqa/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/noteqa/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/noteqa/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/noteqa/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/noteqa/internal/core/domain"
	"github.com/custodia-labs/noteqa/internal/core/ports/driving"
)

// Layout heights in lines.
const (
	headerHeight  = 2
	inputHeight   = 3
	statusHeight  = 1
	sourcesHeight = 9
)

// entryKind distinguishes transcript lines.
type entryKind int

const (
	entryUser entryKind = iota
	entryAssistant
	entryNotice
	entryFailure
)

// entry is one block of the transcript. rendered caches the assistant's
// markdown output for the current width.
type entry struct {
	kind     entryKind
	text     string
	rendered string
}

// View is the chat screen: transcript, optional sources panel, input and status bar.
type View struct {
	styles    *styles.Styles
	keymap    *keymap.KeyMap
	input     *input.PromptInput
	statusbar *status.Bar
	sources   *list.SourceList
	viewport  viewport.Model
	spinner   spinner.Model
	renderer  *glamour.TermRenderer

	query   driving.QueryService
	session driving.Session
	ctx     context.Context

	entries     []entry
	busy        bool
	showSources bool
	width       int
	height      int
}

// NewView creates a chat view with a fresh session.
func NewView(s *styles.Styles, km *keymap.KeyMap, query driving.QueryService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(s.Theme().Primary)

	v := &View{
		styles:    s,
		keymap:    km,
		input:     input.NewPromptInput(s),
		statusbar: status.NewBar(s, km),
		sources:   list.NewSourceList(s),
		viewport:  viewport.New(80, 16),
		spinner:   sp,
		query:     query,
		session:   query.NewSession(),
		ctx:       context.Background(),
	}
	v.SetDimensions(80, 24)
	return v
}

// WithContext sets the context passed to each exchange.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// Init starts the input cursor.
func (v *View) Init() tea.Cmd {
	return v.input.Init()
}

// Update handles messages for the chat view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		return v.handleKey(msg)

	case messages.InputSubmitted:
		return v, v.submit(msg.Input)

	case messages.ExchangeCompleted:
		return v, v.handleCompleted(msg)

	case messages.ErrorOccurred:
		v.statusbar.SetState(status.StateError)
		v.statusbar.SetMessage(msg.Err.Error())
		return v, nil

	case spinner.TickMsg:
		if !v.busy {
			return v, nil
		}
		var cmd tea.Cmd
		v.spinner, cmd = v.spinner.Update(msg)
		v.statusbar.SetSpinner(v.spinner.View())
		return v, cmd
	}

	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	return v, cmd
}

func (v *View) handleKey(msg tea.KeyMsg) (*View, tea.Cmd) {
	keyStr := msg.String()

	switch {
	case keymap.Matches(keyStr, v.keymap.Quit):
		return v, tea.Quit

	case keymap.Matches(keyStr, v.keymap.Send):
		text := v.input.Value()
		v.input.Reset()
		return v, v.submit(text)

	case keymap.Matches(keyStr, v.keymap.Clear):
		if v.busy {
			return v, nil
		}
		v.busy = true
		return v, v.exchange("clear")

	case keymap.Matches(keyStr, v.keymap.ScrollUp):
		v.viewport.ScrollUp(max(v.viewport.Height/2, 1))
		return v, nil

	case keymap.Matches(keyStr, v.keymap.ScrollDown):
		v.viewport.ScrollDown(max(v.viewport.Height/2, 1))
		return v, nil

	case keymap.Matches(keyStr, v.keymap.Sources):
		v.showSources = !v.showSources
		v.SetDimensions(v.width, v.height)
		return v, nil
	}

	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	return v, cmd
}

// submit starts an exchange unless one is already running.
func (v *View) submit(text string) tea.Cmd {
	if v.busy || strings.TrimSpace(text) == "" {
		return nil
	}

	v.busy = true
	v.entries = append(v.entries, entry{kind: entryUser, text: strings.TrimSpace(text)})
	v.statusbar.SetState(status.StateThinking)
	v.statusbar.SetMessage("")
	v.refresh()
	return tea.Batch(v.exchange(text), v.spinner.Tick)
}

// exchange runs one Handle call off the update loop.
func (v *View) exchange(text string) tea.Cmd {
	ctx, query, session := v.ctx, v.query, v.session
	return func() tea.Msg {
		outcome, err := query.Handle(ctx, session, text)
		return messages.ExchangeCompleted{Input: text, Outcome: outcome, Err: err}
	}
}

func (v *View) handleCompleted(msg messages.ExchangeCompleted) tea.Cmd {
	v.busy = false
	v.statusbar.SetState(status.StateReady)

	if msg.Err != nil {
		v.entries = append(v.entries, entry{kind: entryFailure, text: msg.Err.Error() + "\n" + driving.FailureText})
		v.statusbar.SetState(status.StateError)
		v.statusbar.SetMessage("Last question failed")
		v.refresh()
		return nil
	}

	switch msg.Outcome.Kind {
	case driving.OutcomeExit:
		return tea.Quit

	case driving.OutcomeCleared:
		v.entries = []entry{{kind: entryNotice, text: driving.ClearedText}}
		v.sources.SetDocuments(nil)
		v.statusbar.SetMessage(driving.ClearedText)

	case driving.OutcomeAnswer:
		v.entries = append(v.entries, entry{kind: entryAssistant, text: msg.Outcome.Answer})
		v.sources.SetDocuments(msg.Outcome.Sources)

	case driving.OutcomeNoop:
	}

	v.statusbar.SetTurns(v.session.Len())
	v.refresh()
	return nil
}

// View renders the chat screen.
func (v *View) View() string {
	header := v.styles.Title.Render("noteqa") + " " + v.styles.Muted.Render("ask your notes")

	parts := []string{header, "", v.viewport.View()}
	if v.showSources {
		parts = append(parts, v.sources.View())
	}
	parts = append(parts, v.input.View(), v.statusbar.View())
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

// SetDimensions resizes every component and re-renders the transcript.
func (v *View) SetDimensions(width, height int) {
	widthChanged := width != v.width
	v.width = width
	v.height = height

	transcriptHeight := height - headerHeight - inputHeight - statusHeight
	if v.showSources {
		transcriptHeight -= sourcesHeight
	}
	if transcriptHeight < 3 {
		transcriptHeight = 3
	}

	v.viewport.Width = width
	v.viewport.Height = transcriptHeight
	v.input.SetWidth(width)
	v.statusbar.SetWidth(width)
	v.sources.SetDimensions(width, sourcesHeight)

	if widthChanged {
		v.renderer = newRenderer(width - 4)
		for i := range v.entries {
			v.entries[i].rendered = ""
		}
	}
	v.refresh()
}

// refresh rebuilds the transcript and scrolls to the newest entry.
func (v *View) refresh() {
	if len(v.entries) == 0 {
		v.viewport.SetContent(v.styles.Muted.Render(driving.WelcomeText))
		return
	}

	blocks := make([]string, 0, len(v.entries))
	for i := range v.entries {
		blocks = append(blocks, v.renderEntry(&v.entries[i]))
	}
	v.viewport.SetContent(v.styles.Transcript.Render(strings.Join(blocks, "\n\n")))
	v.viewport.GotoBottom()
}

func (v *View) renderEntry(e *entry) string {
	switch e.kind {
	case entryUser:
		return v.styles.UserLabel.Render("You: ") + v.styles.Normal.Render(e.text)
	case entryAssistant:
		if e.rendered == "" {
			e.rendered = v.renderMarkdown(e.text)
		}
		return v.styles.AssistantLabel.Render("Assistant:") + "\n" + e.rendered
	case entryFailure:
		return v.styles.Error.Render(e.text)
	case entryNotice:
	}
	return v.styles.Success.Render(e.text)
}

// renderMarkdown formats an answer, falling back to plain text.
func (v *View) renderMarkdown(text string) string {
	if v.renderer == nil {
		return text
	}
	out, err := v.renderer.Render(text)
	if err != nil {
		return text
	}
	return strings.Trim(out, "\n")
}

func newRenderer(wrap int) *glamour.TermRenderer {
	if wrap < 20 {
		wrap = 20
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle("dark"),
		glamour.WithWordWrap(wrap),
	)
	if err != nil {
		return nil
	}
	return r
}

// Busy reports whether an exchange is in flight.
func (v *View) Busy() bool {
	return v.busy
}

// Session returns the conversation session owned by the view.
func (v *View) Session() driving.Session {
	return v.session
}

// Transcript returns the plain text of each entry, oldest first.
func (v *View) Transcript() []string {
	out := make([]string, len(v.entries))
	for i, e := range v.entries {
		out[i] = e.text
	}
	return out
}

// Sources returns the documents behind the last answer.
func (v *View) Sources() []domain.RetrievedDocument {
	return v.sources.Documents()
}

// StatusState returns the status bar state.
func (v *View) StatusState() status.State {
	return v.statusbar.State()
}
