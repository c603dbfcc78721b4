// Package list provides list display components for the TUI.
package list

import (
	"fmt"
	"strings"

	"github.com/custodia-labs/noteqa/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/noteqa/internal/core/domain"
)

// SourceList shows the notes an answer was conditioned on, best first.
type SourceList struct {
	docs   []domain.RetrievedDocument
	styles *styles.Styles
	width  int
	height int
}

// NewSourceList creates a new source list component.
func NewSourceList(s *styles.Styles) *SourceList {
	if s == nil {
		s = styles.DefaultStyles()
	}

	return &SourceList{
		styles: s,
		width:  80,
		height: 10,
	}
}

// View renders as many sources as fit, two lines each.
func (l *SourceList) View() string {
	if len(l.docs) == 0 {
		return l.styles.Muted.Render("No sources for the last answer")
	}

	lines := make([]string, 0, len(l.docs)*2+1)
	lines = append(lines, l.styles.Subtitle.Render(fmt.Sprintf("Sources (%d)", len(l.docs))))

	visible := (l.height - 1) / 2
	if visible < 1 {
		visible = 1
	}
	for i, doc := range l.docs {
		if i >= visible {
			lines = append(lines, l.styles.Muted.Render(fmt.Sprintf("  ... %d more", len(l.docs)-i)))
			break
		}
		lines = append(lines, l.renderDoc(i, doc))
	}
	return strings.Join(lines, "\n")
}

// renderDoc formats one source as a path line and a preview line.
func (l *SourceList) renderDoc(index int, doc domain.RetrievedDocument) string {
	source := doc.Metadata.Source
	if source == "" {
		source = doc.ID
	}
	score := fmt.Sprintf("%.2f", doc.Score)

	maxSource := l.width - len(score) - 8
	if maxSource < 10 {
		maxSource = 10
	}
	source = truncate(source, maxSource)

	title := l.styles.Normal.Render(fmt.Sprintf("  [%d] %-*s  ", index+1, maxSource, source)) +
		l.styles.Muted.Render(score)

	preview := firstLine(doc.Content)
	preview = truncate(preview, max(l.width-8, 20))
	return title + "\n" + l.styles.Muted.Render("      "+preview)
}

// SetDocuments replaces the listed sources.
func (l *SourceList) SetDocuments(docs []domain.RetrievedDocument) {
	l.docs = docs
}

// Documents returns the listed sources.
func (l *SourceList) Documents() []domain.RetrievedDocument {
	return l.docs
}

// SetDimensions sets the component dimensions.
func (l *SourceList) SetDimensions(width, height int) {
	l.width = width
	l.height = height
}

// Count returns the number of sources.
func (l *SourceList) Count() int {
	return len(l.docs)
}

// firstLine returns the first non-blank line that is not a markdown heading.
func firstLine(content string) string {
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if line != "" && !strings.HasPrefix(line, "#") {
			return line
		}
	}
	return ""
}

// truncate shortens s to n runes, marking the cut with an ellipsis.
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n <= 3 {
		return string(r[:n])
	}
	return string(r[:n-3]) + "..."
}
