package list

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/custodia-labs/noteqa/internal/core/domain"
)

func TestSourceList_Empty(t *testing.T) {
	l := NewSourceList(nil)

	assert.Equal(t, 0, l.Count())
	assert.Contains(t, l.View(), "No sources")
}

func TestSourceList_View(t *testing.T) {
	l := NewSourceList(nil)
	l.SetDimensions(80, 5)
	l.SetDocuments([]domain.RetrievedDocument{
		{ID: "vault:travel/Trip.md", Content: "# Trip\n\nFlight to Paris", Metadata: domain.Metadata{Source: "travel/Trip.md"}, Score: 0.91},
		{ID: "notes:Idea", Content: "quick thought", Score: 0.5},
		{ID: "notes:Other", Content: "x", Score: 0.1},
	})

	view := l.View()

	assert.Contains(t, view, "Sources (3)")
	assert.Contains(t, view, "travel/Trip.md")
	assert.Contains(t, view, "0.91")
	assert.Contains(t, view, "Flight to Paris")
	assert.Contains(t, view, "notes:Idea", "falls back to the id")
	assert.Contains(t, view, "1 more")
}

func TestFirstLine(t *testing.T) {
	assert.Equal(t, "body", firstLine("# Title\n\n  body  \nmore"))
	assert.Equal(t, "", firstLine("# only heading"))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "abcdefg...", truncate("abcdefghijklmnop", 10))
	assert.Equal(t, "ab", truncate("abcdef", 2))
	assert.Equal(t, "café...", truncate("cafébabe-longer", 7))
}
