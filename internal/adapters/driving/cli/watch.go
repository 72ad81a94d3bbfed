package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/podchunk/internal/adapters/driving/cli/report"
	"github.com/custodia-labs/podchunk/internal/core/domain"
	"github.com/custodia-labs/podchunk/internal/logger"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Re-run the pipeline whenever transcripts change",
	Long: `Runs the pipeline once, then watches the transcripts directory and runs it
again after transcripts are added, edited or removed. Press Ctrl+C to stop.`,
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, _ []string) error {
	if err := requirePipeline(); err != nil {
		return err
	}

	printer := report.NewPrinter(cmd.OutOrStdout())
	cmd.Println("Watching for transcript changes...")

	err := pipelineService.Watch(cmd.Context(), func(run *domain.RunResult, err error) {
		if err != nil {
			logger.Error("run failed: %v", err)
			return
		}
		cmd.Printf("\n[%s]\n", time.Now().Format(time.TimeOnly))
		printer.Run(run)
	})
	if errors.Is(err, domain.ErrUnsupportedType) {
		return fmt.Errorf("watch is not available: %w", err)
	}
	if err != nil {
		return fmt.Errorf("watch failed: %w", err)
	}

	cmd.Println("Stopped watching.")
	return nil
}
