package driving

import (
	"context"

	"github.com/custodia-labs/catalogo-cli/internal/core/domain"
)

// AskService answers questions about the indexed catalog.
type AskService interface {
	// Retrieve returns the k chunks most similar to the question.
	// A non-positive k uses the configured default.
	Retrieve(ctx context.Context, question string, k int) (domain.QueryResult, error)

	// Answer sends a grounding prompt built from the result to the model
	// and returns its trimmed text.
	Answer(ctx context.Context, question string, result domain.QueryResult) (domain.Answer, error)
}
