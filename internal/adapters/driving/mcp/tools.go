package mcp

import (
	"context"
	"errors"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/noteqa/internal/core/domain"
	"github.com/custodia-labs/noteqa/internal/core/ports/driving"
)

// defaultLimit is the number of search results when the caller sets none.
const defaultLimit = 8

// SearchInput is the input schema for the search_notes tool.
type SearchInput struct {
	Query string `json:"query" jsonschema:"text to find similar notes for"`
	Limit int    `json:"limit,omitempty" jsonschema:"maximum number of results to return (default 8)"`
}

// SearchOutput is the output schema for the search_notes tool.
type SearchOutput struct {
	Results []NoteOutput `json:"results"`
	Count   int          `json:"count"`
}

// NoteOutput represents a single retrieved note.
type NoteOutput struct {
	ID      string   `json:"id"`
	Source  string   `json:"source"`
	Title   string   `json:"title,omitempty"`
	Tags    []string `json:"tags,omitempty"`
	Score   float64  `json:"score"`
	Content string   `json:"content"`
}

// AskInput is the input schema for the ask_notes tool.
type AskInput struct {
	Question string `json:"question" jsonschema:"question to answer from the notes"`
}

// AskOutput is the output schema for the ask_notes tool.
type AskOutput struct {
	Answer  string       `json:"answer"`
	Sources []NoteOutput `json:"sources"`
}

// GetNoteInput is the input schema for the get_note tool.
type GetNoteInput struct {
	ID string `json:"id" jsonschema:"note id as returned by search_notes, e.g. vault:travel/Trip.md"`
}

// GetNoteOutput is a full indexed note.
type GetNoteOutput struct {
	ID         string   `json:"id"`
	Source     string   `json:"source"`
	Title      string   `json:"title,omitempty"`
	Tags       []string `json:"tags,omitempty"`
	Aliases    []string `json:"aliases,omitempty"`
	CreatedAt  string   `json:"created_at,omitempty"`
	ModifiedAt string   `json:"modified_at,omitempty"`
	Content    string   `json:"content"`
}

// errEmptyInput is returned for blank queries and questions.
var errEmptyInput = errors.New("input must not be empty")

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "search_notes",
		Description: "Find the personal notes most similar to a query",
	}, s.handleSearch)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "ask_notes",
		Description: "Answer a question using the personal notes as context",
	}, s.handleAsk)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "get_note",
		Description: "Read one indexed note in full by its id",
	}, s.handleGetNote)
}

// handleSearch handles the search_notes tool invocation.
func (s *Server) handleSearch(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SearchInput,
) (*mcp.CallToolResult, SearchOutput, error) {
	if strings.TrimSpace(input.Query) == "" {
		return nil, SearchOutput{}, errEmptyInput
	}

	limit := input.Limit
	if limit <= 0 {
		limit = defaultLimit
	}

	results, err := s.ports.Query.Search(ctx, input.Query, limit)
	if err != nil {
		return nil, SearchOutput{}, err
	}

	return nil, SearchOutput{Results: toNotes(results), Count: len(results)}, nil
}

// handleAsk answers one question in a fresh session.
func (s *Server) handleAsk(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input AskInput,
) (*mcp.CallToolResult, AskOutput, error) {
	if strings.TrimSpace(input.Question) == "" {
		return nil, AskOutput{}, errEmptyInput
	}

	outcome, err := s.ports.Query.Handle(ctx, s.ports.Query.NewSession(), input.Question)
	if err != nil {
		return nil, AskOutput{}, err
	}
	if outcome.Kind != driving.OutcomeAnswer {
		return nil, AskOutput{}, errEmptyInput
	}

	return nil, AskOutput{Answer: outcome.Answer, Sources: toNotes(outcome.Sources)}, nil
}

// handleGetNote returns the stored text and metadata of one note.
func (s *Server) handleGetNote(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input GetNoteInput,
) (*mcp.CallToolResult, GetNoteOutput, error) {
	if strings.TrimSpace(input.ID) == "" {
		return nil, GetNoteOutput{}, errEmptyInput
	}

	doc, err := s.ports.Query.Note(ctx, input.ID)
	if err != nil {
		return nil, GetNoteOutput{}, err
	}

	return nil, GetNoteOutput{
		ID:         doc.ID,
		Source:     doc.Metadata.Source,
		Title:      doc.Metadata.Title,
		Tags:       doc.Metadata.Tags,
		Aliases:    doc.Metadata.Aliases,
		CreatedAt:  doc.Metadata.CreatedAt,
		ModifiedAt: doc.Metadata.ModifiedAt,
		Content:    doc.Content,
	}, nil
}

func toNotes(docs []domain.RetrievedDocument) []NoteOutput {
	notes := make([]NoteOutput, len(docs))
	for i := range docs {
		notes[i] = NoteOutput{
			ID:      docs[i].ID,
			Source:  docs[i].Metadata.Source,
			Title:   docs[i].Metadata.Title,
			Tags:    docs[i].Metadata.Tags,
			Score:   docs[i].Score,
			Content: docs[i].Content,
		}
	}
	return notes
}
