// Package messages defines Bubbletea message types for the TUI.
// Messages represent events and commands that flow through the Elm architecture.
package messages

import (
	"github.com/custodia-labs/catalogo-cli/internal/core/domain"
)

// QuestionSubmitted is sent when the user presses enter on a question.
type QuestionSubmitted struct {
	Question string
}

// TurnCompleted carries the retrieved context and answer for one question.
// Err is set when either step failed. Retrieved reports whether Result
// holds the context sent to the model.
type TurnCompleted struct {
	Question  string
	Result    domain.QueryResult
	Retrieved bool
	Answer    domain.Answer
	Err       error
}

// ErrorOccurred signals that an error happened.
type ErrorOccurred struct {
	Err error
}

// Quit signals the application should exit.
type Quit struct{}
