package driven

import "github.com/custodia-labs/catalogo-cli/internal/core/domain"

// Segmenter splits concatenated document text into product records.
// Heading detection is heuristic and format specific; keeping it behind
// this interface lets the pattern change without touching chunking.
type Segmenter interface {
	// Segment returns the records found in text, in document order.
	// It never fails: unrecognised text yields fewer or no records.
	Segment(text string) []domain.ProductRecord
}
