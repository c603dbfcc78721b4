package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/custodia-labs/noteqa/internal/core/domain"
	"github.com/custodia-labs/noteqa/internal/core/ports/driven"
	"github.com/custodia-labs/noteqa/internal/core/ports/driving"
	"github.com/custodia-labs/noteqa/internal/logger"
)

// Ensure QueryOrchestrator implements the interface.
var _ driving.QueryService = (*QueryOrchestrator)(nil)

// Reserved interactive commands, matched trimmed and case-insensitively.
var (
	exitCommands  = []string{"exit", "quit"}
	clearCommands = []string{"clear"}
)

// queryState is a step of the per-question state machine.
type queryState int

const (
	stateReceive queryState = iota
	stateRetrieve
	stateAssembleContext
	stateGenerate
	stateUpdateHistory
	stateRespond
	stateError
)

func (s queryState) String() string {
	switch s {
	case stateReceive:
		return "RECEIVE"
	case stateRetrieve:
		return "RETRIEVE"
	case stateAssembleContext:
		return "ASSEMBLE_CONTEXT"
	case stateGenerate:
		return "GENERATE"
	case stateUpdateHistory:
		return "UPDATE_HISTORY"
	case stateRespond:
		return "RESPOND"
	case stateError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// exchange carries one question through the state machine.
type exchange struct {
	question string
	docs     []domain.RetrievedDocument
	context  string
	answer   string
	err      error
}

// QueryOrchestrator answers questions by retrieving notes and asking the LLM.
type QueryOrchestrator struct {
	index        driven.Index
	llm          driven.LLMService
	promptStore  driven.PromptStore
	topK         int
	historyLimit int
	chatOpts     driven.ChatOptions
}

// NewQueryOrchestrator creates an orchestrator.
// cfg supplies the retrieval size and history bound; temperature is passed
// to every chat request.
func NewQueryOrchestrator(
	index driven.Index,
	llm driven.LLMService,
	cfg domain.QueryConfig,
	temperature float64,
) *QueryOrchestrator {
	topK := cfg.MaxChunks
	if topK <= 0 {
		topK = domain.DefaultConfig("").Query.MaxChunks
	}
	return &QueryOrchestrator{
		index:        index,
		llm:          llm,
		topK:         topK,
		historyLimit: cfg.HistoryLimit,
		chatOpts:     driven.ChatOptions{Temperature: temperature},
	}
}

// SetPromptStore sets the store the system instruction is loaded from.
// Without one, domain.DefaultSystemPrompt is used.
func (o *QueryOrchestrator) SetPromptStore(store driven.PromptStore) {
	o.promptStore = store
}

// NewSession starts an empty conversation.
func (o *QueryOrchestrator) NewSession() driving.Session {
	return NewConversationSession(o.systemPrompt(), o.historyLimit)
}

// Handle processes one line of user input.
func (o *QueryOrchestrator) Handle(ctx context.Context, session driving.Session, input string) (*driving.Outcome, error) {
	question := strings.TrimSpace(input)
	command := strings.ToLower(question)

	switch {
	case question == "":
		return &driving.Outcome{Kind: driving.OutcomeNoop}, nil
	case matches(command, exitCommands):
		return &driving.Outcome{Kind: driving.OutcomeExit}, nil
	case matches(command, clearCommands):
		session.Clear()
		return &driving.Outcome{Kind: driving.OutcomeCleared}, nil
	}

	return o.answer(ctx, session, question)
}

// Search runs retrieval alone.
func (o *QueryOrchestrator) Search(ctx context.Context, query string, limit int) ([]domain.RetrievedDocument, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []domain.RetrievedDocument{}, nil
	}
	if limit <= 0 {
		limit = o.topK
	}

	docs, err := o.index.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("%w: retrieve: %w", domain.ErrExternalService, err)
	}
	return docs, nil
}

// Note returns an indexed document by ID.
func (o *QueryOrchestrator) Note(ctx context.Context, id string) (*domain.Document, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, fmt.Errorf("%w: empty note id", domain.ErrInvalidInput)
	}

	doc, err := o.index.Get(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("note %q: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: get note: %w", domain.ErrExternalService, err)
	}
	return doc, nil
}

// answer drives RECEIVE → RETRIEVE → ASSEMBLE_CONTEXT → GENERATE →
// UPDATE_HISTORY → RESPOND. RETRIEVE and GENERATE failures jump to ERROR,
// which returns before the session is touched.
func (o *QueryOrchestrator) answer(ctx context.Context, session driving.Session, question string) (*driving.Outcome, error) {
	ex := &exchange{question: question}
	state := stateReceive

	for {
		logger.Debug("Query state: %s", state)

		switch state {
		case stateReceive:
			state = stateRetrieve

		case stateRetrieve:
			docs, err := o.index.Query(ctx, ex.question, o.topK)
			if err != nil {
				ex.err = fmt.Errorf("%w: retrieve: %w", domain.ErrExternalService, err)
				state = stateError
				continue
			}
			ex.docs = docs
			state = stateAssembleContext

		case stateAssembleContext:
			ex.context = AssembleContext(ex.docs)
			state = stateGenerate

		case stateGenerate:
			messages := append(session.Messages(), domain.Turn{
				Role:    domain.RoleUser,
				Content: fmt.Sprintf("Context:\n%s\n\nQuestion: %s", ex.context, ex.question),
			})
			answer, err := o.llm.Chat(ctx, messages, o.chatOpts)
			if err != nil {
				ex.err = fmt.Errorf("%w: generate: %w", domain.ErrExternalService, err)
				state = stateError
				continue
			}
			ex.answer = answer
			state = stateUpdateHistory

		case stateUpdateHistory:
			session.Append(domain.Turn{Role: domain.RoleUser, Content: ex.question})
			session.Append(domain.Turn{Role: domain.RoleAssistant, Content: ex.answer})
			state = stateRespond

		case stateRespond:
			return &driving.Outcome{
				Kind:    driving.OutcomeAnswer,
				Answer:  ex.answer,
				Sources: ex.docs,
			}, nil

		case stateError:
			return nil, ex.err

		default:
			return nil, fmt.Errorf("query state machine: unexpected state %s", state)
		}
	}
}

// systemPrompt loads the system instruction, falling back to the default.
func (o *QueryOrchestrator) systemPrompt() string {
	if o.promptStore == nil {
		return domain.DefaultSystemPrompt
	}
	prompt, err := o.promptStore.Load(driven.PromptChatSystem)
	if err != nil || strings.TrimSpace(prompt) == "" {
		logger.Debug("Using default system prompt: %v", err)
		return domain.DefaultSystemPrompt
	}
	return prompt
}

func matches(command string, words []string) bool {
	for _, w := range words {
		if command == w {
			return true
		}
	}
	return false
}
