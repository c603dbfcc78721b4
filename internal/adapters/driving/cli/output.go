package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/custodia-labs/noteqa/internal/core/domain"
	"github.com/custodia-labs/noteqa/internal/core/ports/driving"
)

// answerWrap is the word wrap width for rendered answers.
const answerWrap = 100

var (
	userLabelStyle      = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7C3AED"))
	assistantLabelStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#10B981"))
	mutedStyle          = lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))
	errorStyle          = lipgloss.NewStyle().Foreground(lipgloss.Color("#EF4444"))
)

// printer writes conversation output, styled when w is a terminal.
type printer struct {
	w        io.Writer
	styled   bool
	markdown *glamour.TermRenderer
}

func newPrinter(w io.Writer) *printer {
	p := &printer{w: w}
	if f, ok := w.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		p.styled = true
		r, err := glamour.NewTermRenderer(
			glamour.WithAutoStyle(),
			glamour.WithWordWrap(answerWrap),
		)
		if err == nil {
			p.markdown = r
		}
	}
	return p
}

func (p *printer) style(s lipgloss.Style, text string) string {
	if !p.styled {
		return text
	}
	return s.Render(text)
}

// prompt writes the user prompt without a newline.
func (p *printer) prompt() {
	io.WriteString(p.w, p.style(userLabelStyle, "You: ")) //nolint:errcheck // best effort output
}

func (p *printer) line(text string) {
	io.WriteString(p.w, text+"\n") //nolint:errcheck // best effort output
}

func (p *printer) muted(text string) {
	p.line(p.style(mutedStyle, text))
}

// answer writes the assistant reply, rendering markdown on terminals.
func (p *printer) answer(text string) {
	label := p.style(assistantLabelStyle, "Assistant:")
	if p.markdown != nil {
		if out, err := p.markdown.Render(text); err == nil {
			p.line(label)
			p.line(strings.Trim(out, "\n"))
			return
		}
	}
	p.line(label + " " + text)
}

// failure writes a failed exchange and the recovery hint.
func (p *printer) failure(err error) {
	p.line(p.style(errorStyle, "Error: "+err.Error()))
	p.line(p.style(errorStyle, driving.FailureText))
}

// sources lists the documents behind an answer.
func (p *printer) sources(docs []domain.RetrievedDocument) {
	if len(docs) == 0 {
		return
	}
	p.muted("Sources:")
	for i, doc := range docs {
		p.muted(formatSource(i, doc))
	}
}

// formatSource renders one retrieved document as a single line.
func formatSource(rank int, doc domain.RetrievedDocument) string {
	source := doc.Metadata.Source
	if source == "" {
		source = doc.ID
	}
	return fmt.Sprintf("  [%d] %s (%.2f)", rank+1, source, doc.Score)
}
