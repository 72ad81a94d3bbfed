package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/podchunk/internal/adapters/driving/cli/report"
	"github.com/custodia-labs/podchunk/internal/core/domain"
)

var runsLimit int

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "List saved pipeline runs",
	Long: `Lists runs saved by 'podchunk run', newest first, with their document,
chunk and kept counts.`,
	RunE: runRuns,
}

func init() {
	runsCmd.Flags().IntVarP(&runsLimit, "limit", "n", 10, "maximum number of runs to show (0 = all)")
	rootCmd.AddCommand(runsCmd)
}

func runRuns(cmd *cobra.Command, _ []string) error {
	if err := requirePipeline(); err != nil {
		return err
	}

	runs, err := pipelineService.History(cmd.Context(), runsLimit)
	if errors.Is(err, domain.ErrNotFound) {
		cmd.Println("Run storage is disabled. Enable it with 'podchunk settings set storage.enabled true'.")
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to list runs: %w", err)
	}

	report.NewPrinter(cmd.OutOrStdout()).History(runs)
	return nil
}
