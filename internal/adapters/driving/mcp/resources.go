package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const (
	// uriScheme is the custom URI scheme for catalog resources.
	uriScheme = "catalogo://"
)

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "documents",
		Name:        "documents",
		Description: "The indexed catalog documents",
		MIMEType:    "application/json",
	}, s.handleDocumentsResource)

	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "documents/{documentId}/chunks",
		Name:        "document-chunks",
		Description: "Chunks a catalog document was split into",
		MIMEType:    "application/json",
	}, s.handleChunksResource)

	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "chunks/{chunkId}",
		Name:        "chunk-content",
		Description: "Text of a single catalog chunk",
		MIMEType:    "text/plain",
	}, s.handleChunkContentResource)
}

// handleDocumentsResource lists the indexed documents.
func (s *Server) handleDocumentsResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	docs, err := s.ports.Catalog.ListDocuments(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing documents: %w", err)
	}

	type docInfo struct {
		ID    string `json:"id"`
		Title string `json:"title"`
		URI   string `json:"uri"`
		Pages int    `json:"pages"`
	}

	infos := make([]docInfo, len(docs))
	for i := range docs {
		infos[i] = docInfo{
			ID:    docs[i].ID,
			Title: docs[i].Title,
			URI:   docs[i].URI,
			Pages: docs[i].Pages,
		}
	}

	return jsonResult(req.Params.URI, infos, "documents")
}

// handleChunksResource lists the chunks of one document.
func (s *Server) handleChunksResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	// catalogo://documents/{documentId}/chunks
	docID := extractDocumentID(req.Params.URI)
	if docID == "" {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	chunks, err := s.ports.Catalog.GetChunks(ctx, docID)
	if err != nil {
		return nil, fmt.Errorf("listing chunks: %w", err)
	}

	type chunkInfo struct {
		ID       string `json:"id"`
		Position int    `json:"position"`
		Record   int    `json:"record"`
		Length   int    `json:"length"`
	}

	infos := make([]chunkInfo, len(chunks))
	for i := range chunks {
		infos[i] = chunkInfo{
			ID:       chunks[i].ID,
			Position: chunks[i].Position,
			Record:   chunks[i].RecordIndex,
			Length:   len([]rune(chunks[i].Content)),
		}
	}

	return jsonResult(req.Params.URI, infos, "chunks")
}

// handleChunkContentResource returns the text of one chunk.
func (s *Server) handleChunkContentResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	// catalogo://chunks/{chunkId}
	chunkID := extractChunkID(req.Params.URI)
	if chunkID == "" {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	chunk, err := s.ports.Catalog.GetChunk(ctx, chunkID)
	if err != nil {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "text/plain",
			Text:     chunk.Content,
		}},
	}, nil
}

func jsonResult(uri string, v any, what string) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling %s: %w", what, err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// extractDocumentID extracts the document ID from a URI like catalogo://documents/{documentId}/chunks.
func extractDocumentID(uri string) string {
	const prefix = uriScheme + "documents/"
	const suffix = "/chunks"

	if !strings.HasPrefix(uri, prefix) {
		return ""
	}

	uri = strings.TrimPrefix(uri, prefix)
	if !strings.HasSuffix(uri, suffix) {
		return ""
	}

	return strings.TrimSuffix(uri, suffix)
}

// extractChunkID extracts the chunk ID from a URI like catalogo://chunks/{chunkId}.
func extractChunkID(uri string) string {
	const prefix = uriScheme + "chunks/"

	if !strings.HasPrefix(uri, prefix) {
		return ""
	}

	return strings.TrimPrefix(uri, prefix)
}
