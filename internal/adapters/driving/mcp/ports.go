package mcp

import (
	"github.com/custodia-labs/podchunk/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Pipeline chunks and filters transcripts.
	Pipeline driving.PipelineService

	// Stats computes per-episode statistics.
	Stats driving.StatsService
}

// Validate ensures all required ports are set.
// Returns an error if any required port is nil.
func (p *Ports) Validate() error {
	if p.Pipeline == nil {
		return ErrMissingPipelineService
	}
	// Stats is optional
	return nil
}
