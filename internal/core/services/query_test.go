package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/noteqa/internal/core/domain"
	"github.com/custodia-labs/noteqa/internal/core/ports/driven"
	"github.com/custodia-labs/noteqa/internal/core/ports/driving"
)

func newTestOrchestrator() (*QueryOrchestrator, *mockIndex, *mockLLM) {
	index := newMockIndex()
	index.queryResult = []domain.RetrievedDocument{{
		ID:       "vault:travel/Trip.md",
		Content:  "Flight to Tokyo on 2024-05-01",
		Metadata: domain.Metadata{Source: "travel/Trip.md", Title: "Trip"},
		Score:    0.9,
	}}
	llm := &mockLLM{answer: "You fly on May 1st [travel/Trip.md]."}
	cfg := domain.QueryConfig{MaxChunks: 8, HistoryLimit: 6}
	return NewQueryOrchestrator(index, llm, cfg, 0.7), index, llm
}

func TestQueryOrchestrator_ReservedCommands(t *testing.T) {
	tests := []struct {
		input string
		want  driving.OutcomeKind
	}{
		{"exit", driving.OutcomeExit},
		{"quit", driving.OutcomeExit},
		{"  EXIT  ", driving.OutcomeExit},
		{"Quit", driving.OutcomeExit},
		{"clear", driving.OutcomeCleared},
		{" Clear\n", driving.OutcomeCleared},
		{"", driving.OutcomeNoop},
		{"   \t", driving.OutcomeNoop},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			o, index, llm := newTestOrchestrator()
			session := o.NewSession()
			session.Append(domain.Turn{Role: domain.RoleUser, Content: "earlier"})

			outcome, err := o.Handle(context.Background(), session, tt.input)
			require.NoError(t, err)

			assert.Equal(t, tt.want, outcome.Kind)
			assert.Empty(t, index.queries)
			assert.Empty(t, llm.messages)
			if tt.want == driving.OutcomeCleared {
				assert.Equal(t, 0, session.Len())
			} else {
				assert.Equal(t, 1, session.Len())
			}
		})
	}
}

func TestQueryOrchestrator_AnswersQuestion(t *testing.T) {
	o, index, llm := newTestOrchestrator()
	session := o.NewSession()

	outcome, err := o.Handle(context.Background(), session, "  When is my flight?  ")
	require.NoError(t, err)

	assert.Equal(t, driving.OutcomeAnswer, outcome.Kind)
	assert.Equal(t, llm.answer, outcome.Answer)
	require.Len(t, outcome.Sources, 1)
	assert.Equal(t, "travel/Trip.md", outcome.Sources[0].Metadata.Source)
	assert.Equal(t, []string{"When is my flight?"}, index.queries)

	assert.Equal(t, []domain.Turn{
		{Role: domain.RoleUser, Content: "When is my flight?"},
		{Role: domain.RoleAssistant, Content: llm.answer},
	}, session.Turns())
}

func TestQueryOrchestrator_MessageComposition(t *testing.T) {
	o, index, llm := newTestOrchestrator()
	session := o.NewSession()
	session.Append(domain.Turn{Role: domain.RoleUser, Content: "previous question"})
	session.Append(domain.Turn{Role: domain.RoleAssistant, Content: "previous answer"})

	_, err := o.Handle(context.Background(), session, "When is my flight?")
	require.NoError(t, err)

	require.Len(t, llm.messages, 1)
	messages := llm.messages[0]
	require.Len(t, messages, 4)

	assert.Equal(t, domain.RoleSystem, messages[0].Role)
	assert.Equal(t, domain.DefaultSystemPrompt, messages[0].Content)
	assert.Equal(t, "previous question", messages[1].Content)
	assert.Equal(t, "previous answer", messages[2].Content)

	wantContext := AssembleContext(index.queryResult)
	assert.Equal(t, domain.Turn{
		Role:    domain.RoleUser,
		Content: "Context:\n" + wantContext + "\n\nQuestion: When is my flight?",
	}, messages[3])
	assert.InDelta(t, 0.7, llm.opts[0].Temperature, 1e-9)
}

func TestQueryOrchestrator_EmptyRetrievalStillGenerates(t *testing.T) {
	o, index, llm := newTestOrchestrator()
	index.queryResult = nil

	outcome, err := o.Handle(context.Background(), o.NewSession(), "anything?")
	require.NoError(t, err)

	assert.Equal(t, driving.OutcomeAnswer, outcome.Kind)
	assert.Empty(t, outcome.Sources)
	require.Len(t, llm.messages, 1)
	assert.Equal(t, "Context:\n\n\nQuestion: anything?", llm.messages[0][1].Content)
}

func TestQueryOrchestrator_FailuresLeaveHistoryUntouched(t *testing.T) {
	tests := []struct {
		name  string
		setup func(*mockIndex, *mockLLM)
	}{
		{
			name:  "retrieval failure",
			setup: func(i *mockIndex, _ *mockLLM) { i.queryErr = errors.New("index unavailable") },
		},
		{
			name:  "generation failure",
			setup: func(_ *mockIndex, l *mockLLM) { l.err = errors.New("rate limited") },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o, index, llm := newTestOrchestrator()
			tt.setup(index, llm)
			session := o.NewSession()
			session.Append(domain.Turn{Role: domain.RoleUser, Content: "kept"})

			outcome, err := o.Handle(context.Background(), session, "question")
			require.Error(t, err)

			assert.Nil(t, outcome)
			assert.ErrorIs(t, err, domain.ErrExternalService)
			assert.Equal(t, []domain.Turn{{Role: domain.RoleUser, Content: "kept"}}, session.Turns())
		})
	}
}

func TestQueryOrchestrator_HistoryStaysBounded(t *testing.T) {
	o, _, _ := newTestOrchestrator()
	session := o.NewSession()

	for i := 0; i < 5; i++ {
		_, err := o.Handle(context.Background(), session, "question")
		require.NoError(t, err)
	}

	assert.Equal(t, 6, session.Len())
}

func TestQueryOrchestrator_PromptStore(t *testing.T) {
	o, _, llm := newTestOrchestrator()
	o.SetPromptStore(&mockPromptStore{prompts: map[string]string{
		driven.PromptChatSystem: "custom instruction",
	}})

	_, err := o.Handle(context.Background(), o.NewSession(), "question")
	require.NoError(t, err)
	assert.Equal(t, "custom instruction", llm.messages[0][0].Content)

	o.SetPromptStore(&mockPromptStore{})
	_, err = o.Handle(context.Background(), o.NewSession(), "question")
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultSystemPrompt, llm.messages[1][0].Content)
}

func TestQueryOrchestrator_Search(t *testing.T) {
	o, index, _ := newTestOrchestrator()

	docs, err := o.Search(context.Background(), "tokyo", 5)
	require.NoError(t, err)
	assert.Len(t, docs, 1)

	docs, err = o.Search(context.Background(), "   ", 5)
	require.NoError(t, err)
	assert.Empty(t, docs)
	assert.Equal(t, []string{"tokyo"}, index.queries)

	index.queryErr = errors.New("boom")
	_, err = o.Search(context.Background(), "tokyo", 0)
	assert.ErrorIs(t, err, domain.ErrExternalService)
}

func TestQueryOrchestrator_Note(t *testing.T) {
	o, index, _ := newTestOrchestrator()
	index.docs["vault:Trip.md"] = vaultDoc("Trip.md", ts1)

	doc, err := o.Note(context.Background(), " vault:Trip.md ")
	require.NoError(t, err)
	assert.Equal(t, "vault:Trip.md", doc.ID)

	_, err = o.Note(context.Background(), "vault:missing.md")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = o.Note(context.Background(), "  ")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	index.getErr = errors.New("disk I/O error")
	_, err = o.Note(context.Background(), "vault:Trip.md")
	assert.ErrorIs(t, err, domain.ErrExternalService)
}

func TestQueryState_String(t *testing.T) {
	assert.Equal(t, "RETRIEVE", stateRetrieve.String())
	assert.Equal(t, "UPDATE_HISTORY", stateUpdateHistory.String())
	assert.Equal(t, "UNKNOWN", queryState(99).String())
}
