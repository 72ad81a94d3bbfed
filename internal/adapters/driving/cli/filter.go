package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/podchunk/internal/adapters/driving/cli/report"
	"github.com/custodia-labs/podchunk/internal/core/domain"
)

// Default file names inside the output directory.
const (
	chunksFileName   = "chunks.json"
	filteredFileName = "chunks_filtered.json"
)

var filterOut string

var filterCmd = &cobra.Command{
	Use:   "filter [chunks.json]",
	Short: "Apply the quality filter to a chunk file",
	Long: `Reads a chunk document (default <output>/chunks.json), drops chunks that
fail any quality rule and writes the survivors as a schema 1.2 document
(default <output>/chunks_filtered.json).

Rules are applied in order; the first one that matches rejects the chunk:

  too_short                     fewer characters than filter.min_chars
  sponsor_or_intro              contains a boilerplate phrase
  short_host_chunk              host speaking briefly
  question_heavy                too many question marks
  sentence_count_out_of_range   outside filter.min/max_sentences
  too_much_glue                 too many filler phrases`,
	Args: cobra.MaximumNArgs(1),
	RunE: runFilter,
}

func init() {
	filterCmd.Flags().StringVar(&filterOut, "out", "", "where to write the filtered chunks")
	rootCmd.AddCommand(filterCmd)
}

func runFilter(cmd *cobra.Command, args []string) error {
	if err := requirePipeline(); err != nil {
		return err
	}

	in := filepath.Join(outputDir(), chunksFileName)
	if len(args) > 0 {
		in = args[0]
	}
	out := filterOut
	if out == "" {
		out = filepath.Join(filepath.Dir(in), filteredFileName)
	}

	set, err := readChunkSet(in)
	if err != nil {
		return err
	}

	kept, filterReport, err := pipelineService.Filter(cmd.Context(), set.Chunks)
	if err != nil {
		return fmt.Errorf("filter failed: %w", err)
	}

	if err := writeChunkSet(out, domain.NewFilteredChunkSet(kept, time.Now())); err != nil {
		return err
	}

	report.NewPrinter(cmd.OutOrStdout()).Filter(filterReport)
	cmd.Printf("\nSaved to %s\n", out)
	return nil
}

// outputDir resolves the output directory from flags and settings.
func outputDir() string {
	if opts.OutputDir != "" {
		return opts.OutputDir
	}
	if settingsService != nil {
		if settings, err := settingsService.Get(); err == nil && settings.OutputDir != "" {
			return settings.OutputDir
		}
	}
	return domain.DefaultOutputDir
}

func readChunkSet(path string) (*domain.ChunkSet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read chunks: %w", err)
	}

	var set domain.ChunkSet
	if err := json.Unmarshal(data, &set); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return &set, nil
}

func writeChunkSet(path string, set domain.ChunkSet) error {
	data, err := json.MarshalIndent(set, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode chunks: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
