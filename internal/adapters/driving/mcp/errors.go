// Package mcp provides an MCP (Model Context Protocol) server adapter for
// podchunk. It lets AI assistants chunk and filter transcripts and read the
// latest filtered chunks without going through the filesystem.
package mcp

import "errors"

// ErrMissingPipelineService is returned when the pipeline service is not provided.
var ErrMissingPipelineService = errors.New("mcp: pipeline service is required")
