// Package driving defines the entry points adapters use to run the
// transcript pipeline. The CLI and the MCP server depend only on these
// interfaces; internal/core/services provides the implementations.
package driving
