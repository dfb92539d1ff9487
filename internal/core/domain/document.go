package domain

import "time"

// Document is the loaded catalog.
// It is the canonical representation after loading and before segmentation.
type Document struct {
	// ID is the unique identifier for the document.
	ID string

	// URI is the original location (file path).
	URI string

	// Title is the human-readable title.
	Title string

	// Content is the full text, fragments joined with FragmentSeparator.
	Content string

	// Pages is the number of pages the loader saw.
	Pages int

	// Metadata contains arbitrary key-value pairs.
	Metadata map[string]any

	// LoadedAt is when the document was loaded.
	LoadedAt time.Time
}

// ProductRecord is a contiguous span of text believed to describe one
// catalog product.
type ProductRecord struct {
	// Content is the trimmed text of the record.
	Content string

	// Offset is the byte offset of the untrimmed span in the document text.
	Offset int
}

// Chunk represents a searchable unit within a document.
// Records longer than the configured size are split into several chunks.
type Chunk struct {
	// ID is the unique identifier for the chunk.
	ID string

	// DocumentID links to the parent Document.
	DocumentID string

	// RecordIndex is the ordinal of the ProductRecord this chunk came from.
	RecordIndex int

	// Content is the text content of this chunk.
	Content string

	// Position is the ordinal position within the document.
	Position int

	// Embedding is the vector representation for semantic search.
	Embedding []float32

	// Metadata contains chunk-specific key-value pairs.
	Metadata map[string]any
}
