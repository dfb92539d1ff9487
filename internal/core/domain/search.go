package domain

import "strings"

// ContextSeparator joins chunk contents when building prompt context.
const ContextSeparator = "\n"

// ScoredChunk is a chunk returned by retrieval with its similarity.
type ScoredChunk struct {
	// Chunk is the matched chunk.
	Chunk Chunk

	// Score is the cosine similarity to the query.
	Score float64
}

// QueryResult is the ordered set of chunks most similar to a query,
// highest similarity first.
type QueryResult struct {
	// Query is the question that produced the result.
	Query string

	// Chunks are the retrieved chunks.
	Chunks []ScoredChunk
}

// Context joins the chunk contents in retrieval order.
func (r QueryResult) Context() string {
	parts := make([]string, len(r.Chunks))
	for i, c := range r.Chunks {
		parts[i] = c.Chunk.Content
	}
	return strings.Join(parts, ContextSeparator)
}

// Preview returns the first n characters of the joined context.
func (r QueryResult) Preview(n int) string {
	ctx := []rune(r.Context())
	if n < 0 || len(ctx) <= n {
		return string(ctx)
	}
	return string(ctx[:n])
}

// Answer is the model response to a question.
type Answer struct {
	// Question is what the user asked.
	Question string

	// Text is the model output with surrounding whitespace trimmed.
	Text string

	// Sources are the chunks the answer was grounded on.
	Sources QueryResult
}
