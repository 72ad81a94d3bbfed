package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/podchunk/internal/adapters/driving/cli/report"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Clean, chunk and filter every transcript",
	Long: `Runs the whole pipeline: annotation, segmentation and quality filtering.
The run is saved to the local run store unless --no-store is given or
storage.enabled is false, and the results are written to the output
directory:

  cleaned/<slug>.txt
  chunks.json            (schema 1.0)
  chunks_filtered.json   (schema 1.2)`,
	RunE: runRun,
}

func init() {
	rootCmd.AddCommand(runCmd)
}

func runRun(cmd *cobra.Command, _ []string) error {
	if err := requirePipeline(); err != nil {
		return err
	}

	run, err := pipelineService.Run(cmd.Context())
	if err != nil {
		return fmt.Errorf("run failed: %w", err)
	}

	report.NewPrinter(cmd.OutOrStdout()).Run(run)
	return nil
}
