package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMetadata_ContextFields_OrderAndJoin(t *testing.T) {
	m := Metadata{
		Source:     "travel/Trip.md",
		Filename:   "Trip.md",
		Aliases:    []string{"Paris trip", "Vacation"},
		Category:   "travel",
		Tags:       []string{"paris", "2024"},
		ModifiedAt: "2024-05-02T10:00:00Z",
		CreatedAt:  "2024-05-01T10:00:00Z",
	}

	fields := m.ContextFields()

	assert.Equal(t, []MetadataField{
		{Key: "created_at", Value: "2024-05-01T10:00:00Z"},
		{Key: "modified_at", Value: "2024-05-02T10:00:00Z"},
		{Key: "tags", Value: "paris, 2024"},
		{Key: "category", Value: "travel"},
		{Key: "aliases", Value: "Paris trip, Vacation"},
	}, fields)
}

func TestMetadata_ContextFields_Empty(t *testing.T) {
	fields := Metadata{Source: "a.md", Filename: "a.md"}.ContextFields()
	assert.Empty(t, fields)
}

func TestDocument_Fingerprint(t *testing.T) {
	doc := Document{Metadata: Metadata{ModifiedAt: "2024-01-01T00:00:00Z"}}
	assert.Equal(t, "2024-01-01T00:00:00Z", doc.Fingerprint())
}

func TestFormatTimestamp_NormalisesZone(t *testing.T) {
	utc := time.Date(2024, 3, 1, 12, 0, 0, 500, time.UTC)
	local := utc.In(time.FixedZone("BRT", -3*60*60))

	assert.Equal(t, FormatTimestamp(utc), FormatTimestamp(local))
	assert.Equal(t, "2024-03-01T12:00:00.0000005Z", FormatTimestamp(utc))
}

func TestNamespacedID(t *testing.T) {
	assert.Equal(t, "vault:travel/Trip.md", NamespacedID(SourceVault, "travel/Trip.md"))
	assert.Equal(t, "notes:Idea", NamespacedID(SourceNotes, "Idea"))
}

func TestIndexReport_Merge(t *testing.T) {
	r := IndexReport{Added: 1, Unchanged: 2}
	r.Merge(IndexReport{
		Added:   2,
		Updated: 1,
		Pruned:  1,
		Failed:  []DocumentFailure{{ID: "vault:x.md"}},
	})

	assert.Equal(t, 3, r.Added)
	assert.Equal(t, 1, r.Updated)
	assert.Equal(t, 2, r.Unchanged)
	assert.Equal(t, 1, r.Pruned)
	assert.Len(t, r.Failed, 1)
}
