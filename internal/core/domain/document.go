package domain

import (
	"strings"
	"time"
)

// Source names used as document ID namespaces.
const (
	SourceVault = "vault"
	SourceNotes = "notes"
)

// Document is a note after normalisation by a source adapter.
type Document struct {
	// ID is unique across the combined corpus, namespaced by source
	// (e.g. "vault:travel/Trip.md", "notes:Idea").
	ID string

	// SourceName is the adapter that produced the document.
	SourceName string

	// Content is the text that gets embedded and handed to the generator.
	Content string

	// Metadata holds the recognised metadata fields.
	Metadata Metadata
}

// Fingerprint returns the change-detection token for the document.
func (d Document) Fingerprint() string {
	return d.Metadata.ModifiedAt
}

// Metadata is the closed set of metadata fields kept for a document.
// Keys outside this set are dropped by the adapters.
type Metadata struct {
	// Source is the source-relative path. Always set.
	Source string `json:"source"`

	CreatedAt  string `json:"created_at,omitempty"`
	ModifiedAt string `json:"modified_at,omitempty"`
	Filename   string `json:"filename,omitempty"`

	// Tags is always a list, even when the note stored a single scalar.
	Tags []string `json:"tags,omitempty"`

	Title    string   `json:"title,omitempty"`
	Date     string   `json:"date,omitempty"`
	Category string   `json:"category,omitempty"`
	Aliases  []string `json:"aliases,omitempty"`
}

// MetadataField is a rendered metadata key/value pair.
type MetadataField struct {
	Key   string
	Value string
}

// ContextFields returns the non-empty context-relevant fields in their fixed
// order. List values are joined with ", ".
func (m Metadata) ContextFields() []MetadataField {
	candidates := []MetadataField{
		{Key: "created_at", Value: m.CreatedAt},
		{Key: "modified_at", Value: m.ModifiedAt},
		{Key: "tags", Value: strings.Join(m.Tags, ", ")},
		{Key: "title", Value: m.Title},
		{Key: "date", Value: m.Date},
		{Key: "category", Value: m.Category},
		{Key: "aliases", Value: strings.Join(m.Aliases, ", ")},
	}

	fields := make([]MetadataField, 0, len(candidates))
	for _, f := range candidates {
		if f.Value != "" {
			fields = append(fields, f)
		}
	}
	return fields
}

// RetrievedDocument is a single ranked hit returned by the index.
type RetrievedDocument struct {
	ID       string
	Content  string
	Metadata Metadata

	// Score is the cosine similarity to the query (higher is closer).
	Score float64
}

// Extraction is the output of one source adapter run.
type Extraction struct {
	// Documents are the successfully normalised notes.
	Documents []Document

	// Skipped lists items the adapter could not turn into documents.
	Skipped []ItemFailure
}

// ItemFailure records a single item an adapter skipped.
type ItemFailure struct {
	// Item is the path or title of the skipped item.
	Item string

	// Kind classifies the failure.
	Kind FailureKind

	// Err is the underlying error.
	Err error
}

// FormatTimestamp normalises a time into the string form used for
// fingerprints and metadata. Equal instants always produce equal strings.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

// NamespacedID builds a corpus-wide document ID.
func NamespacedID(source, key string) string {
	return source + ":" + key
}
