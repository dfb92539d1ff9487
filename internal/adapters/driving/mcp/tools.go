package mcp

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/catalogo-cli/internal/core/domain"
)

// QuestionInput is the input schema for both catalog tools.
type QuestionInput struct {
	Question string `json:"question" jsonschema:"the question about the product catalog"`
	K        int    `json:"k,omitempty" jsonschema:"number of passages to retrieve (default from configuration)"`
}

// PassageOutput is one retrieved catalog passage.
type PassageOutput struct {
	ChunkID string  `json:"chunk_id"`
	Score   float64 `json:"score"`
	Content string  `json:"content"`
}

// SearchOutput is the output schema for the search_catalog tool.
type SearchOutput struct {
	Passages []PassageOutput `json:"passages"`
	Count    int             `json:"count"`
}

// AskOutput is the output schema for the ask_catalog tool.
type AskOutput struct {
	Answer   string          `json:"answer"`
	Passages []PassageOutput `json:"passages"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "search_catalog",
		Description: "Find the product catalog passages most similar to a question",
	}, s.handleSearch)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "ask_catalog",
		Description: "Answer a question using only the product catalog as context",
	}, s.handleAsk)
}

// handleSearch handles the search_catalog tool invocation.
func (s *Server) handleSearch(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input QuestionInput,
) (*mcp.CallToolResult, SearchOutput, error) {
	result, err := s.ports.Ask.Retrieve(ctx, input.Question, input.K)
	if err != nil {
		return nil, SearchOutput{}, userError(err)
	}

	passages := toPassages(result)
	return nil, SearchOutput{Passages: passages, Count: len(passages)}, nil
}

// handleAsk handles the ask_catalog tool invocation.
func (s *Server) handleAsk(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input QuestionInput,
) (*mcp.CallToolResult, AskOutput, error) {
	result, err := s.ports.Ask.Retrieve(ctx, input.Question, input.K)
	if err != nil {
		return nil, AskOutput{}, userError(err)
	}

	answer, err := s.ports.Ask.Answer(ctx, input.Question, result)
	if err != nil {
		return nil, AskOutput{}, userError(err)
	}

	return nil, AskOutput{Answer: answer.Text, Passages: toPassages(result)}, nil
}

func toPassages(result domain.QueryResult) []PassageOutput {
	passages := make([]PassageOutput, len(result.Chunks))
	for i, c := range result.Chunks {
		passages[i] = PassageOutput{
			ChunkID: c.Chunk.ID,
			Score:   c.Score,
			Content: c.Chunk.Content,
		}
	}
	return passages
}
