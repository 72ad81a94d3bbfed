package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/podchunk/internal/adapters/driving/cli/report"
)

var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Annotate transcripts with speaker and time markers",
	Long: `Rewrites every transcript into canonical annotated lines:

  [SPEAKER=name][TIME=HH:MM:SS] speech

Front matter is stripped and blank lines are collapsed. Cleaned transcripts
are written to <output>/cleaned/<slug>.txt.`,
	RunE: runClean,
}

func init() {
	rootCmd.AddCommand(cleanCmd)
}

func runClean(cmd *cobra.Command, _ []string) error {
	if err := requirePipeline(); err != nil {
		return err
	}

	result, err := pipelineService.Clean(cmd.Context())
	if err != nil {
		return fmt.Errorf("clean failed: %w", err)
	}

	report.NewPrinter(cmd.OutOrStdout()).Cleaned(result)
	return nil
}
