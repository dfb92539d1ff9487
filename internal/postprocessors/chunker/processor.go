// Package chunker provides a separator-aware text chunking processor.
package chunker

import (
	"context"
	"maps"

	"github.com/google/uuid"

	"github.com/custodia-labs/catalogo-cli/internal/core/domain"
	"github.com/custodia-labs/catalogo-cli/internal/core/ports/driven"
)

// Ensure Processor implements the interface.
var _ driven.PostProcessor = (*Processor)(nil)

// DefaultChunkSize is the default number of characters per chunk.
const DefaultChunkSize = domain.DefaultChunkSize

// DefaultChunkOverlap is the default number of overlapping characters.
const DefaultChunkOverlap = domain.DefaultChunkOverlap

// Processor re-splits oversized chunks into bounded, overlapping pieces.
// Lengths are measured in characters (runes), not bytes.
// It implements the PostProcessor interface.
type Processor struct {
	chunkSize  int
	overlap    int
	separators [][]rune
}

// Option configures the chunker processor.
type Option func(*Processor)

// WithChunkSize sets the chunk size in characters.
func WithChunkSize(size int) Option {
	return func(p *Processor) {
		if size > 0 {
			p.chunkSize = size
		}
	}
}

// WithOverlap sets the overlap between chunks in characters.
func WithOverlap(overlap int) Option {
	return func(p *Processor) {
		if overlap >= 0 {
			p.overlap = overlap
		}
	}
}

// WithSeparators sets the split preferences, highest priority first.
// Empty separators are ignored.
func WithSeparators(seps ...string) Option {
	return func(p *Processor) {
		p.separators = p.separators[:0]
		for _, s := range seps {
			if s != "" {
				p.separators = append(p.separators, []rune(s))
			}
		}
	}
}

// New creates a new chunker processor with the given options.
func New(opts ...Option) *Processor {
	p := &Processor{
		chunkSize: DefaultChunkSize,
		overlap:   DefaultChunkOverlap,
	}
	WithSeparators(domain.DefaultChunkSeparators()...)(p)

	for _, opt := range opts {
		opt(p)
	}

	// Ensure overlap doesn't exceed chunk size
	if p.overlap >= p.chunkSize {
		p.overlap = p.chunkSize / 4
	}

	return p
}

// Name returns the processor name.
func (p *Processor) Name() string {
	return "chunker"
}

// ChunkSize returns the maximum chunk length in characters.
func (p *Processor) ChunkSize() int { return p.chunkSize }

// Overlap returns the overlap between adjacent chunks in characters.
func (p *Processor) Overlap() int { return p.overlap }

// Process splits every input chunk that exceeds the chunk size.
// With no input chunks the whole document content is treated as one record.
// Positions are renumbered across the document.
func (p *Processor) Process(ctx context.Context, doc *domain.Document, chunks []domain.Chunk) ([]domain.Chunk, error) {
	if chunks == nil {
		if doc.Content == "" {
			// Empty content produces no chunks
			return nil, nil
		}
		chunks = []domain.Chunk{{DocumentID: doc.ID, Content: doc.Content}}
	}

	out := make([]domain.Chunk, 0, len(chunks))
	for _, in := range chunks {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		pieces := p.Split(in.Content)
		for i, piece := range pieces {
			meta := make(map[string]any, len(in.Metadata)+2)
			maps.Copy(meta, in.Metadata)
			meta["part"] = i
			meta["parts"] = len(pieces)

			out = append(out, domain.Chunk{
				ID:          uuid.New().String(),
				DocumentID:  doc.ID,
				RecordIndex: in.RecordIndex,
				Content:     piece,
				Position:    len(out),
				Metadata:    meta,
			})
		}
	}

	return out, nil
}

// Split cuts text into pieces of at most ChunkSize characters.
//
// Text that already fits is returned unchanged. Otherwise each cut is made
// just after the rightmost occurrence of the highest-priority separator that
// keeps the piece within bounds, falling back to a hard cut. The next piece
// starts Overlap characters before the cut, so adjacent pieces share exactly
// Overlap characters.
func (p *Processor) Split(text string) []string {
	runes := []rune(text)
	if len(runes) <= p.chunkSize {
		return []string{text}
	}

	pieces := make([]string, 0, len(runes)/(p.chunkSize-p.overlap)+1)
	start := 0
	for len(runes)-start > p.chunkSize {
		cut := p.cutPoint(runes, start)
		pieces = append(pieces, string(runes[start:cut]))
		start = cut - p.overlap
	}
	pieces = append(pieces, string(runes[start:]))

	return pieces
}

// cutPoint returns the end of the piece starting at start.
// The cut must lie beyond start+overlap so the next start always advances.
func (p *Processor) cutPoint(runes []rune, start int) int {
	limit := start + p.chunkSize
	floor := start + p.overlap

	for _, sep := range p.separators {
		lo := max(start, floor+1-len(sep))
		for i := limit - len(sep); i >= lo; i-- {
			if hasPrefix(runes[i:], sep) {
				return i + len(sep)
			}
		}
	}

	return limit
}

func hasPrefix(runes, prefix []rune) bool {
	if len(runes) < len(prefix) {
		return false
	}
	for i, r := range prefix {
		if runes[i] != r {
			return false
		}
	}
	return true
}
