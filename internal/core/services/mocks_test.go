package services

import (
	"context"
	"errors"
	"sort"

	"github.com/custodia-labs/noteqa/internal/core/domain"
	"github.com/custodia-labs/noteqa/internal/core/ports/driven"
)

// --- Shared mock implementations for service tests ---

// mockSource implements driven.SourceAdapter.
type mockSource struct {
	name       string
	extraction domain.Extraction
	err        error
	calls      int
	onExtract  func()
}

func (m *mockSource) Name() string { return m.name }

func (m *mockSource) Extract(_ context.Context) (domain.Extraction, error) {
	m.calls++
	if m.onExtract != nil {
		m.onExtract()
	}
	if m.err != nil {
		return domain.Extraction{}, m.err
	}
	return m.extraction, nil
}

// mockIndex implements driven.Index in memory.
type mockIndex struct {
	docs        map[string]domain.Document
	upserts     int
	upsertErrs  map[string]error
	deleted     []string
	deleteErr   error
	queryResult []domain.RetrievedDocument
	queryErr    error
	queries     []string
	countErr    error
	getErr      error
}

func newMockIndex() *mockIndex {
	return &mockIndex{
		docs:       make(map[string]domain.Document),
		upsertErrs: make(map[string]error),
	}
}

func (m *mockIndex) Upsert(_ context.Context, docs []domain.Document) error {
	for _, d := range docs {
		if err := m.upsertErrs[d.ID]; err != nil {
			return err
		}
	}
	for _, d := range docs {
		m.upserts++
		m.docs[d.ID] = d
	}
	return nil
}

func (m *mockIndex) Query(_ context.Context, text string, topK int) ([]domain.RetrievedDocument, error) {
	m.queries = append(m.queries, text)
	if m.queryErr != nil {
		return nil, m.queryErr
	}
	if len(m.queryResult) > topK {
		return m.queryResult[:topK], nil
	}
	return m.queryResult, nil
}

func (m *mockIndex) Get(_ context.Context, id string) (*domain.Document, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	doc, ok := m.docs[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &doc, nil
}

func (m *mockIndex) Delete(_ context.Context, ids []string) error {
	if m.deleteErr != nil {
		return m.deleteErr
	}
	for _, id := range ids {
		delete(m.docs, id)
		m.deleted = append(m.deleted, id)
	}
	return nil
}

func (m *mockIndex) Count(_ context.Context) (int, error) {
	if m.countErr != nil {
		return 0, m.countErr
	}
	return len(m.docs), nil
}

func (m *mockIndex) Close() error { return nil }

func (m *mockIndex) ids() []string {
	ids := make([]string, 0, len(m.docs))
	for id := range m.docs {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// mockFingerprintStore implements driven.FingerprintStore in memory.
type mockFingerprintStore struct {
	saved   domain.Fingerprints
	loadErr error
	saveErr error
	saves   int
}

func (m *mockFingerprintStore) Load(_ context.Context) (domain.Fingerprints, error) {
	if m.loadErr != nil {
		return domain.Fingerprints{}, m.loadErr
	}
	out := domain.Fingerprints{}
	for k, v := range m.saved {
		out[k] = v
	}
	return out, nil
}

func (m *mockFingerprintStore) Save(_ context.Context, f domain.Fingerprints) error {
	m.saves++
	if m.saveErr != nil {
		return m.saveErr
	}
	m.saved = domain.Fingerprints{}
	for k, v := range f {
		m.saved[k] = v
	}
	return nil
}

// mockLLM implements driven.LLMService.
type mockLLM struct {
	answer   string
	err      error
	messages [][]domain.Turn
	opts     []driven.ChatOptions
}

func (m *mockLLM) Chat(_ context.Context, messages []domain.Turn, opts driven.ChatOptions) (string, error) {
	m.messages = append(m.messages, messages)
	m.opts = append(m.opts, opts)
	if m.err != nil {
		return "", m.err
	}
	return m.answer, nil
}

func (m *mockLLM) ModelName() string { return "mock-llm" }
func (m *mockLLM) Close() error      { return nil }

// mockPromptStore implements driven.PromptStore.
type mockPromptStore struct {
	prompts map[string]string
}

func (m *mockPromptStore) Load(name string) (string, error) {
	p, ok := m.prompts[name]
	if !ok {
		return "", errors.New("prompt not found")
	}
	return p, nil
}

func (m *mockPromptStore) Reload() {}

func vaultDoc(rel, modified string) domain.Document {
	return domain.Document{
		ID:         domain.NamespacedID(domain.SourceVault, rel),
		SourceName: domain.SourceVault,
		Content:    "content of " + rel,
		Metadata: domain.Metadata{
			Source:     rel,
			ModifiedAt: modified,
			Filename:   rel,
		},
	}
}
