package driven

import (
	"context"

	"github.com/custodia-labs/catalogo-cli/internal/core/domain"
)

// DocumentStore holds loaded documents and their chunks.
// Chunks are looked up by ID when resolving vector search hits.
type DocumentStore interface {
	// SaveDocument stores or replaces a document.
	SaveDocument(ctx context.Context, doc *domain.Document) error

	// SaveChunks replaces the chunks of the document they belong to.
	SaveChunks(ctx context.Context, chunks []domain.Chunk) error

	// GetDocument retrieves a document by ID.
	GetDocument(ctx context.Context, id string) (*domain.Document, error)

	// GetChunk retrieves a chunk by ID.
	GetChunk(ctx context.Context, id string) (*domain.Chunk, error)

	// GetChunks returns a document's chunks in position order.
	GetChunks(ctx context.Context, documentID string) ([]domain.Chunk, error)

	// ListDocuments returns every stored document.
	ListDocuments(ctx context.Context) ([]domain.Document, error)

	// DeleteDocument removes a document and its chunks.
	DeleteDocument(ctx context.Context, id string) error
}
