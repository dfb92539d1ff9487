package mcp

import (
	"context"

	"github.com/custodia-labs/catalogo-cli/internal/core/domain"
	"github.com/custodia-labs/catalogo-cli/internal/core/ports/driving"
)

// Catalog gives read access to the indexed catalog for resources.
// The in-memory document store satisfies it.
type Catalog interface {
	ListDocuments(ctx context.Context) ([]domain.Document, error)
	GetChunks(ctx context.Context, documentID string) ([]domain.Chunk, error)
	GetChunk(ctx context.Context, id string) (*domain.Chunk, error)
}

// Ports aggregates all driving port interfaces required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Ask retrieves passages and answers questions.
	Ask driving.AskService

	// Catalog exposes documents and chunks as resources. Optional.
	Catalog Catalog
}

// Validate ensures all required ports are set.
// Returns an error if any required port is nil.
func (p *Ports) Validate() error {
	if p.Ask == nil {
		return ErrMissingAskService
	}
	return nil
}
