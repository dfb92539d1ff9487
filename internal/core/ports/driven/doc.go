// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
// These must be provided for the application to function:
//
//   - DocumentLoader: Extracts text fragments from the catalog file
//   - Segmenter: Splits catalog text into product records
//   - PostProcessorPipeline: Turns a document into chunks
//   - EmbeddingService: Generates vector embeddings
//   - VectorIndex: In-memory similarity search
//   - LLMService: Generates grounded answers
//   - PromptStore: Prompt templates
//   - ConfigStore: Application configuration
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter, loader, or post-processor package
package driven
