// Package tui provides an interactive terminal chat over the catalog.
// It implements a driving adapter following hexagonal architecture principles.
package tui

import (
	"github.com/custodia-labs/catalogo-cli/internal/core/ports/driving"
)

// Ports aggregates the driving ports required by the TUI.
type Ports struct {
	// Ask retrieves catalog context and answers questions.
	Ask driving.AskService
}

// Options tune the chat screen.
type Options struct {
	// K is the number of chunks retrieved per question.
	K int

	// PreviewChars limits the context preview shown for each turn.
	PreviewChars int

	// Title is shown in the header and the terminal window title.
	Title string
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p == nil || p.Ask == nil {
		return ErrMissingAskService
	}
	return nil
}
