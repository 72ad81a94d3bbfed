package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/podchunk/internal/adapters/driving/cli/report"
)

var chunkCmd = &cobra.Command{
	Use:   "chunk",
	Short: "Split transcripts into speaker chunks",
	Long: `Annotates and segments every transcript in slug order. Chunk order is
numbered across all transcripts, so chunk IDs are unique for the whole run.
Transcripts that cannot be segmented are reported and skipped.

Chunks are written to <output>/chunks.json.`,
	RunE: runChunk,
}

func init() {
	rootCmd.AddCommand(chunkCmd)
}

func runChunk(cmd *cobra.Command, _ []string) error {
	if err := requirePipeline(); err != nil {
		return err
	}

	run, err := pipelineService.Chunk(cmd.Context())
	if err != nil {
		return fmt.Errorf("chunk failed: %w", err)
	}

	report.NewPrinter(cmd.OutOrStdout()).Chunks(run)
	return nil
}
