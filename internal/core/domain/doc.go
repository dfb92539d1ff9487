// Package domain defines the core business entities for catalogo.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - RawFragment: A piece of text extracted from the source catalog
//   - Document: The loaded catalog with its concatenated text
//   - ProductRecord: A span of text describing one catalog product
//   - Chunk: A size-bounded piece of a record prepared for embedding
//   - QueryResult: The chunks most similar to a question
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
