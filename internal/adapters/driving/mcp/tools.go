package mcp

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/podchunk/internal/core/domain"
)

// ChunkTranscriptInput is the input schema for the chunk_transcript tool.
type ChunkTranscriptInput struct {
	Episode string `json:"episode" jsonschema:"episode slug used to build chunk IDs (ep_{slug}_NNNN)"`
	Text    string `json:"text" jsonschema:"transcript body; raw or already annotated with [SPEAKER=..][TIME=..] markers"`
}

// ChunkTranscriptOutput is the output schema for the chunk_transcript tool.
type ChunkTranscriptOutput struct {
	Chunks []domain.Chunk `json:"chunks"`
	Count  int            `json:"count"`
}

// FilterChunksInput is the input schema for the filter_chunks tool.
type FilterChunksInput struct {
	Chunks []domain.Chunk `json:"chunks" jsonschema:"chunks to run through the quality filter"`
}

// FilterChunksOutput is the output schema for the filter_chunks tool.
type FilterChunksOutput struct {
	Chunks     []domain.Chunk `json:"chunks"`
	Original   int            `json:"original"`
	Kept       int            `json:"kept"`
	Rejections map[string]int `json:"rejections"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "chunk_transcript",
		Description: "Annotate and split one transcript into speaker chunks numbered from zero",
	}, s.handleChunkTranscript)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "filter_chunks",
		Description: "Drop low-quality chunks and report how many each rule rejected",
	}, s.handleFilterChunks)
}

// handleChunkTranscript handles the chunk_transcript tool invocation.
func (s *Server) handleChunkTranscript(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ChunkTranscriptInput,
) (*mcp.CallToolResult, ChunkTranscriptOutput, error) {
	chunks, err := s.ports.Pipeline.ChunkText(ctx, input.Episode, input.Text)
	if err != nil {
		return nil, ChunkTranscriptOutput{}, fmt.Errorf("chunking %s: %w", input.Episode, err)
	}
	if chunks == nil {
		chunks = []domain.Chunk{}
	}

	return nil, ChunkTranscriptOutput{
		Chunks: chunks,
		Count:  len(chunks),
	}, nil
}

// handleFilterChunks handles the filter_chunks tool invocation.
func (s *Server) handleFilterChunks(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input FilterChunksInput,
) (*mcp.CallToolResult, FilterChunksOutput, error) {
	kept, report, err := s.ports.Pipeline.Filter(ctx, input.Chunks)
	if err != nil {
		return nil, FilterChunksOutput{}, fmt.Errorf("filtering chunks: %w", err)
	}
	if kept == nil {
		kept = []domain.Chunk{}
	}

	rejections := make(map[string]int, len(report.Rejections))
	for rule, count := range report.Rejections {
		if count > 0 {
			rejections[rule.String()] = count
		}
	}

	return nil, FilterChunksOutput{
		Chunks:     kept,
		Original:   report.Original,
		Kept:       report.Kept,
		Rejections: rejections,
	}, nil
}
