// Package messages defines Bubbletea message types for the TUI.
// Messages represent events and commands that flow through the Elm architecture.
package messages

import (
	"github.com/custodia-labs/noteqa/internal/core/ports/driving"
)

// InputSubmitted is sent when the user presses enter on a non-busy input.
type InputSubmitted struct {
	Input string
}

// ExchangeCompleted carries the result of handling one input.
type ExchangeCompleted struct {
	Input   string
	Outcome *driving.Outcome
	Err     error
}

// ErrorOccurred signals that an error happened outside an exchange.
type ErrorOccurred struct {
	Err error
}

// Quit signals the application should exit.
type Quit struct{}
