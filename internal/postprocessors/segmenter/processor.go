package segmenter

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/custodia-labs/catalogo-cli/internal/core/domain"
	"github.com/custodia-labs/catalogo-cli/internal/core/ports/driven"
)

// Ensure Processor implements the interface.
var _ driven.PostProcessor = (*Processor)(nil)

// Processor turns document content into one chunk per product record.
// Input chunks are ignored; this processor creates the initial chunks.
type Processor struct {
	segmenter driven.Segmenter
}

// NewProcessor wraps a segmenter as a pipeline stage.
func NewProcessor(s driven.Segmenter) *Processor {
	return &Processor{segmenter: s}
}

// Name returns the processor name.
func (p *Processor) Name() string {
	return "segmenter"
}

// Process segments the document content.
func (p *Processor) Process(_ context.Context, doc *domain.Document, _ []domain.Chunk) ([]domain.Chunk, error) {
	if doc.Content == "" {
		return nil, nil
	}

	records := p.segmenter.Segment(doc.Content)
	chunks := make([]domain.Chunk, 0, len(records))
	for i, r := range records {
		chunks = append(chunks, domain.Chunk{
			ID:          uuid.New().String(),
			DocumentID:  doc.ID,
			RecordIndex: i,
			Content:     r.Content,
			Position:    i,
			Metadata: map[string]any{
				"offset": r.Offset,
				"title":  headingOf(r.Content),
			},
		})
	}
	return chunks, nil
}

const maxTitleRunes = 80

func headingOf(content string) string {
	if i := strings.IndexByte(content, '\n'); i >= 0 {
		content = strings.TrimSpace(content[:i])
	}
	if r := []rune(content); len(r) > maxTitleRunes {
		return string(r[:maxTitleRunes])
	}
	return content
}
