package driven

import (
	"context"

	"github.com/custodia-labs/catalogo-cli/internal/core/domain"
)

// DocumentLoader converts a source file into ordered text fragments.
// Implementations include pdftotext, MuPDF, OCR and plain text.
type DocumentLoader interface {
	// Name returns the loader name for logging and configuration.
	Name() string

	// Load extracts fragments from the file at path in reading order.
	// Returns domain.ErrNotFound if the file does not exist and
	// domain.ErrExtractorUnavailable if the backing tool is missing.
	Load(ctx context.Context, path string) ([]domain.RawFragment, error)
}
