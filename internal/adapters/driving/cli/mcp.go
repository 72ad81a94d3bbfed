package cli

import (
	"fmt"
	"net"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/podchunk/internal/adapters/driving/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "MCP server commands",
	Long:  `Commands for the Model Context Protocol (MCP) server integration.`,
}

var mcpServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server",
	Long: `Start the Model Context Protocol server.

Tools:
  chunk_transcript   annotate and segment one transcript
  filter_chunks      run the quality filter over a chunk list

Resources:
  podchunk://chunks/latest    filtered chunks from the last saved run
  podchunk://episodes/stats   word and line counts per episode

The server speaks JSON-RPC over stdio unless --port is given, in which
case it serves the streamable HTTP transport on --host:--port.

Examples:
  podchunk mcp serve
  podchunk mcp serve --port 8080`,
	RunE: runMCPServe,
}

var (
	mcpPort int
	mcpHost string
)

func init() {
	mcpServeCmd.Flags().IntVarP(&mcpPort, "port", "p", 0, "HTTP port (0 = use stdio)")
	mcpServeCmd.Flags().StringVar(&mcpHost, "host", "localhost", "HTTP listen host")
	mcpCmd.AddCommand(mcpServeCmd)
	rootCmd.AddCommand(mcpCmd)
}

func runMCPServe(cmd *cobra.Command, _ []string) error {
	server, err := mcp.NewServer(&mcp.Ports{
		Pipeline: pipelineService,
		Stats:    statsService,
	}, mcp.WithVersion(version))
	if err != nil {
		return fmt.Errorf("mcp serve failed: %w", err)
	}

	if mcpPort > 0 {
		addr := net.JoinHostPort(mcpHost, strconv.Itoa(mcpPort))
		fmt.Fprintf(cmd.OutOrStdout(), "MCP server listening on http://%s\n", addr)
		return server.RunHTTP(cmd.Context(), addr)
	}

	return server.Run(cmd.Context())
}
