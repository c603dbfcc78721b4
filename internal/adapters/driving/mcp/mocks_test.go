package mcp

import (
	"context"

	"github.com/custodia-labs/noteqa/internal/core/domain"
	"github.com/custodia-labs/noteqa/internal/core/ports/driving"
)

// mockSession is a minimal driving.Session.
type mockSession struct {
	turns []domain.Turn
}

func (m *mockSession) Append(turn domain.Turn) { m.turns = append(m.turns, turn) }
func (m *mockSession) Clear()                  { m.turns = nil }
func (m *mockSession) Turns() []domain.Turn    { return m.turns }
func (m *mockSession) Len() int                { return len(m.turns) }
func (m *mockSession) Messages() []domain.Turn { return m.turns }

// mockQueryService is a mock implementation of driving.QueryService.
type mockQueryService struct {
	results   []domain.RetrievedDocument
	outcome   *driving.Outcome
	err       error
	lastQuery string
	lastLimit int
	sessions  int
	notes     map[string]domain.Document
}

func (m *mockQueryService) NewSession() driving.Session {
	m.sessions++
	return &mockSession{}
}

func (m *mockQueryService) Handle(_ context.Context, _ driving.Session, input string) (*driving.Outcome, error) {
	m.lastQuery = input
	return m.outcome, m.err
}

func (m *mockQueryService) Search(_ context.Context, query string, limit int) ([]domain.RetrievedDocument, error) {
	m.lastQuery = query
	m.lastLimit = limit
	return m.results, m.err
}

func (m *mockQueryService) Note(_ context.Context, id string) (*domain.Document, error) {
	if m.err != nil {
		return nil, m.err
	}
	doc, ok := m.notes[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &doc, nil
}

// mockIndexer is a mock implementation of driving.Indexer.
type mockIndexer struct {
	status *driving.IndexStatus
	err    error
}

func (m *mockIndexer) Index(context.Context, driving.IndexOptions) (domain.IndexReport, error) {
	return domain.IndexReport{}, m.err
}

func (m *mockIndexer) Status(context.Context) (*driving.IndexStatus, error) {
	return m.status, m.err
}
