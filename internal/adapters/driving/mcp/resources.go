package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/podchunk/internal/core/domain"
)

const (
	// URIScheme is the custom URI scheme for podchunk resources.
	uriScheme = "podchunk://"

	latestChunksURI = uriScheme + "chunks/latest"
	episodeStatsURI = uriScheme + "episodes/stats"
)

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	s.server.AddResource(&mcp.Resource{
		URI:         latestChunksURI,
		Name:        "latest-chunks",
		Description: "Filtered chunks from the most recent persisted run",
		MIMEType:    "application/json",
	}, s.handleLatestChunksResource)

	s.server.AddResource(&mcp.Resource{
		URI:         episodeStatsURI,
		Name:        "episode-stats",
		Description: "Word and line counts for every raw transcript",
		MIMEType:    "application/json",
	}, s.handleEpisodeStatsResource)
}

// handleLatestChunksResource returns the filtered chunk set of the latest run.
func (s *Server) handleLatestChunksResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	run, err := s.ports.Pipeline.Latest(ctx)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}
	if err != nil {
		return nil, fmt.Errorf("loading latest run: %w", err)
	}

	set := domain.NewFilteredChunkSet(run.Filtered, run.StartedAt)
	data, err := json.MarshalIndent(set, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling chunks: %w", err)
	}

	return jsonResult(req.Params.URI, data), nil
}

// handleEpisodeStatsResource returns statistics for every transcript.
func (s *Server) handleEpisodeStatsResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	if s.ports.Stats == nil {
		return jsonResult(req.Params.URI, []byte("[]")), nil
	}

	stats, err := s.ports.Stats.Collect(ctx)
	if err != nil {
		return nil, fmt.Errorf("collecting stats: %w", err)
	}
	if stats == nil {
		stats = []domain.EpisodeStats{}
	}

	data, err := json.MarshalIndent(stats, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling stats: %w", err)
	}

	return jsonResult(req.Params.URI, data), nil
}

func jsonResult(uri string, data []byte) *mcp.ReadResourceResult {
	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}
}
