// Package services implements the driving port interfaces.
// Services orchestrate calls to driven ports (adapters): loading and
// splitting the catalog, embedding and indexing chunks, and answering
// questions from the retrieved context.
//
// Services depend only on the domain and port packages; adapters are
// injected by the caller.
package services
