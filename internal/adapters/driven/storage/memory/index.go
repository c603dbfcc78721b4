package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"unicode"

	"github.com/custodia-labs/noteqa/internal/core/domain"
	"github.com/custodia-labs/noteqa/internal/core/ports/driven"
)

// Ensure Index implements the interface.
var _ driven.Index = (*Index)(nil)

// Index is an in-memory driven.Index. It ranks by keyword overlap instead
// of embeddings, so it needs no model.
type Index struct {
	mu   sync.RWMutex
	docs map[string]domain.Document
}

// NewIndex creates an empty in-memory index.
func NewIndex() *Index {
	return &Index{docs: make(map[string]domain.Document)}
}

// Upsert stores documents, replacing any with the same ID.
func (x *Index) Upsert(_ context.Context, docs []domain.Document) error {
	for i := range docs {
		if docs[i].ID == "" {
			return domain.ErrInvalidInput
		}
	}

	x.mu.Lock()
	defer x.mu.Unlock()
	for i := range docs {
		x.docs[docs[i].ID] = docs[i]
	}
	return nil
}

// Query scores each document by the share of query terms it contains.
// Documents with no matching term are left out.
func (x *Index) Query(ctx context.Context, text string, topK int) ([]domain.RetrievedDocument, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	terms := tokenize(text)
	if len(terms) == 0 || topK <= 0 {
		return []domain.RetrievedDocument{}, nil
	}

	x.mu.RLock()
	defer x.mu.RUnlock()

	results := make([]domain.RetrievedDocument, 0)
	for _, doc := range x.docs {
		words := make(map[string]bool)
		for _, w := range tokenize(doc.Content + " " + doc.Metadata.Title) {
			words[w] = true
		}

		matched := 0
		for _, term := range terms {
			if words[term] {
				matched++
			}
		}
		if matched == 0 {
			continue
		}

		results = append(results, domain.RetrievedDocument{
			ID:       doc.ID,
			Content:  doc.Content,
			Metadata: doc.Metadata,
			Score:    float64(matched) / float64(len(terms)),
		})
	}

	sort.Slice(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return results[i].ID < results[j].ID
	})
	if len(results) > topK {
		results = results[:topK]
	}
	return results, nil
}

// Delete removes documents by ID. Unknown IDs are ignored.
func (x *Index) Delete(_ context.Context, ids []string) error {
	x.mu.Lock()
	defer x.mu.Unlock()
	for _, id := range ids {
		delete(x.docs, id)
	}
	return nil
}

// Count returns the number of stored documents.
func (x *Index) Count(_ context.Context) (int, error) {
	x.mu.RLock()
	defer x.mu.RUnlock()
	return len(x.docs), nil
}

// Get retrieves a document by ID.
func (x *Index) Get(_ context.Context, id string) (*domain.Document, error) {
	x.mu.RLock()
	defer x.mu.RUnlock()
	doc, ok := x.docs[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &doc, nil
}

// Close is a no-op.
func (x *Index) Close() error {
	return nil
}

// tokenize lowercases text and splits it on anything that is not a letter or digit.
// Query terms are de-duplicated.
func tokenize(text string) []string {
	fields := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})

	seen := make(map[string]bool, len(fields))
	terms := fields[:0]
	for _, f := range fields {
		if !seen[f] {
			seen[f] = true
			terms = append(terms, f)
		}
	}
	return terms
}
