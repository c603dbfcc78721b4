package driving

import (
	"context"

	"github.com/custodia-labs/noteqa/internal/core/domain"
)

// QueryService answers questions about the indexed notes.
type QueryService interface {
	// NewSession starts an empty conversation.
	NewSession() Session

	// Handle processes one line of user input within a session.
	// Reserved commands (exit, quit, clear) and empty input never reach
	// retrieval or generation. A returned error leaves the session untouched.
	Handle(ctx context.Context, session Session, input string) (*Outcome, error)

	// Search runs retrieval alone and returns the ranked documents.
	Search(ctx context.Context, query string, limit int) ([]domain.RetrievedDocument, error)

	// Note returns an indexed document by ID. Unknown IDs yield domain.ErrNotFound.
	Note(ctx context.Context, id string) (*domain.Document, error)
}

// Session is a bounded, ordered conversation history.
type Session interface {
	// Append adds a turn, evicting the oldest turns beyond the bound.
	Append(turn domain.Turn)

	// Clear empties the history.
	Clear()

	// Turns returns a copy of the history in insertion order.
	Turns() []domain.Turn

	// Len returns the number of turns held.
	Len() int

	// Messages returns the system instruction followed by the history.
	Messages() []domain.Turn
}

// OutcomeKind tells the caller what Handle did.
type OutcomeKind int

const (
	// OutcomeNoop means the input was empty.
	OutcomeNoop OutcomeKind = iota

	// OutcomeAnswer means a question was answered.
	OutcomeAnswer

	// OutcomeCleared means the history was reset.
	OutcomeCleared

	// OutcomeExit means the user asked to end the session.
	OutcomeExit
)

// Outcome is the result of handling one input.
type Outcome struct {
	Kind OutcomeKind

	// Answer is the assistant reply for OutcomeAnswer.
	Answer string

	// Sources are the retrieved documents the answer was conditioned on.
	Sources []domain.RetrievedDocument
}

// Text shown by the interactive surfaces.
const (
	WelcomeText = `Ask questions about your notes.
  Type 'exit' or 'quit' to leave.
  Type 'clear' to forget the conversation so far.`
	GoodbyeText = "Goodbye!"
	ClearedText = "Conversation history cleared."

	// FailureText follows the error of a failed exchange. The session is unchanged.
	FailureText = "Something went wrong. Try again or type 'exit' to quit."
)
