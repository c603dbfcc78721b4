package cli

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/noteqa/internal/core/domain"
)

func tripResult() domain.RetrievedDocument {
	return domain.RetrievedDocument{
		ID:       "vault:travel/Trip.md",
		Content:  "# Trip\n\nFlight to Paris",
		Metadata: domain.Metadata{Source: "travel/Trip.md", Tags: []string{"travel"}},
		Score:    0.87,
	}
}

func TestSearchCmd_Table(t *testing.T) {
	ta := setupTestApp(t)
	ta.query.sources = []domain.RetrievedDocument{tripResult()}

	out, err := execute(t, "search", "paris", "flight")

	require.NoError(t, err)
	assert.Contains(t, out, "Results:")
	assert.Contains(t, out, "[1] travel/Trip.md (0.87)")
	assert.Contains(t, out, "Flight to Paris")
	assert.Equal(t, []string{"paris flight"}, ta.query.asked)
	assert.Equal(t, ta.app.Config.Query.MaxChunks, ta.query.limit)
}

func TestSearchCmd_Limit(t *testing.T) {
	ta := setupTestApp(t)

	out, err := execute(t, "search", "-n", "3", "anything")

	require.NoError(t, err)
	assert.Equal(t, 3, ta.query.limit)
	assert.Contains(t, out, "No results found.")
}

func TestSearchCmd_JSON(t *testing.T) {
	ta := setupTestApp(t)
	ta.query.sources = []domain.RetrievedDocument{tripResult()}

	out, err := execute(t, "search", "--json", "paris")
	require.NoError(t, err)

	var results []searchResult
	require.NoError(t, json.Unmarshal([]byte(out), &results))
	require.Len(t, results, 1)
	assert.Equal(t, "vault:travel/Trip.md", results[0].ID)
	assert.Equal(t, "travel/Trip.md", results[0].Source)
	assert.Equal(t, []string{"travel"}, results[0].Meta.Tags)
}

func TestSearchCmd_RequiresQuery(t *testing.T) {
	setupTestApp(t)

	_, err := execute(t, "search")

	assert.Error(t, err)
}

func TestPreview(t *testing.T) {
	assert.Equal(t, "body", preview("# Title\n\nbody\nmore", 100))
	assert.Equal(t, "abc...", preview("abcdef", 3))
	assert.Equal(t, "", preview("# only", 10))
}
