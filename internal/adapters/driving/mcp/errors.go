// Package mcp provides an MCP (Model Context Protocol) server adapter for the
// catalog assistant. It lets AI assistants search the indexed catalog and ask
// grounded questions about it.
package mcp

import (
	"errors"
	"fmt"

	"github.com/custodia-labs/catalogo-cli/internal/core/domain"
)

// ErrMissingAskService is returned when the ask service is not provided.
var ErrMissingAskService = errors.New("mcp: ask service is required")

// userError rewrites domain errors into messages an assistant can act on.
// The original error stays in the chain.
func userError(err error) error {
	var msg string
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		msg = "the question must not be empty"
	case errors.Is(err, domain.ErrLLMUnavailable):
		msg = "the answering model is not available; use search_catalog instead"
	case errors.Is(err, domain.ErrEmbeddingUnavailable):
		msg = "the embedding model is not available"
	case errors.Is(err, domain.ErrEmptyAnswer):
		msg = "the model returned an empty answer"
	case errors.Is(err, domain.ErrMissingCredential):
		msg = "an API key is missing from the server environment"
	case errors.Is(err, domain.ErrNotFound):
		msg = "not found"
	default:
		return err
	}
	return fmt.Errorf("%s: %w", msg, err)
}
