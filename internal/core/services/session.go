package services

import (
	"github.com/custodia-labs/noteqa/internal/core/domain"
	"github.com/custodia-labs/noteqa/internal/core/ports/driving"
)

// Ensure ConversationSession implements the interface.
var _ driving.Session = (*ConversationSession)(nil)

// ConversationSession is a bounded conversation history.
// After every Append it holds at most limit turns, oldest evicted first.
type ConversationSession struct {
	systemPrompt string
	limit        int
	turns        []domain.Turn
}

// NewConversationSession creates an empty session.
// A non-positive limit uses domain.DefaultHistoryLimit.
func NewConversationSession(systemPrompt string, limit int) *ConversationSession {
	if limit <= 0 {
		limit = domain.DefaultHistoryLimit
	}
	if systemPrompt == "" {
		systemPrompt = domain.DefaultSystemPrompt
	}
	return &ConversationSession{
		systemPrompt: systemPrompt,
		limit:        limit,
		turns:        make([]domain.Turn, 0, limit+1),
	}
}

// Append adds a turn at the tail and evicts from the head beyond the bound.
func (s *ConversationSession) Append(turn domain.Turn) {
	s.turns = append(s.turns, turn)
	if overflow := len(s.turns) - s.limit; overflow > 0 {
		s.turns = append(s.turns[:0], s.turns[overflow:]...)
	}
}

// Clear empties the history.
func (s *ConversationSession) Clear() {
	s.turns = s.turns[:0]
}

// Turns returns a copy of the history.
func (s *ConversationSession) Turns() []domain.Turn {
	out := make([]domain.Turn, len(s.turns))
	copy(out, s.turns)
	return out
}

// Len returns the number of turns held.
func (s *ConversationSession) Len() int {
	return len(s.turns)
}

// Limit returns the history bound.
func (s *ConversationSession) Limit() int {
	return s.limit
}

// Messages returns the system instruction followed by the history.
func (s *ConversationSession) Messages() []domain.Turn {
	messages := make([]domain.Turn, 0, len(s.turns)+1)
	messages = append(messages, domain.Turn{Role: domain.RoleSystem, Content: s.systemPrompt})
	return append(messages, s.turns...)
}
