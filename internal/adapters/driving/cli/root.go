// Package cli provides the command-line interface for podchunk.
package cli

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/podchunk/internal/core/ports/driving"
	"github.com/custodia-labs/podchunk/internal/logger"
)

// version is set at build time via SetVersion.
var version = "dev"

// Services used by the commands. Set by the composition root through
// SetServices or built lazily by the bootstrap function.
var (
	pipelineService driving.PipelineService
	statsService    driving.StatsService
	settingsService driving.SettingsService
)

// Options holds the values of the global flags.
type Options struct {
	// Verbose enables debug logging.
	Verbose bool

	// ConfigDir overrides the configuration directory (~/.podchunk).
	ConfigDir string

	// TranscriptsDir overrides paths.transcripts.
	TranscriptsDir string

	// OutputDir overrides paths.output.
	OutputDir string

	// NoStore disables run persistence for this invocation.
	NoStore bool
}

// Services bundles the driving ports the commands depend on.
type Services struct {
	Pipeline driving.PipelineService
	Stats    driving.StatsService
	Settings driving.SettingsService

	// Close releases resources held by the services. Optional.
	Close func() error
}

// Bootstrap builds services once the global flags have been parsed.
type Bootstrap func(opts Options) (*Services, error)

var (
	opts          Options
	bootstrap     Bootstrap
	closeServices func() error
)

var rootCmd = &cobra.Command{
	Use:   "podchunk",
	Short: "Turn podcast transcripts into filtered speaker chunks",
	Long: `podchunk annotates raw podcast transcripts with speaker and time markers,
splits them into speaker-attributed chunks numbered across the whole corpus,
and filters out chunks that are too short, promotional, host questions or
conversational filler.

Transcripts are read from the transcripts directory; results are written to
the output directory as JSON.`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.BoolVarP(&opts.Verbose, "verbose", "v", false, "enable debug logging")
	flags.StringVar(&opts.ConfigDir, "config-dir", "", "configuration directory (default ~/.podchunk)")
	flags.StringVarP(&opts.TranscriptsDir, "transcripts", "t", "", "transcripts directory (overrides paths.transcripts)")
	flags.StringVarP(&opts.OutputDir, "output", "o", "", "output directory (overrides paths.output)")
	flags.BoolVar(&opts.NoStore, "no-store", false, "do not persist the run")
}

// Execute runs the root command with the given context.
func Execute(ctx context.Context) error {
	defer func() {
		if closeServices != nil {
			if err := closeServices(); err != nil {
				logger.Warn("Closing services: %v", err)
			}
			closeServices = nil
		}
	}()
	return rootCmd.ExecuteContext(ctx)
}

// SetVersion sets the version reported by the version command.
func SetVersion(v string) {
	version = v
}

// SetBootstrap registers the function that builds services after flag parsing.
func SetBootstrap(b Bootstrap) {
	bootstrap = b
}

// SetServices installs services directly.
func SetServices(s *Services) {
	if s == nil {
		pipelineService, statsService, settingsService = nil, nil, nil
		closeServices = nil
		return
	}
	pipelineService = s.Pipeline
	statsService = s.Stats
	settingsService = s.Settings
	closeServices = s.Close
}

// needsServices reports whether cmd runs against the pipeline. Commands
// that only describe the binary skip config loading.
func needsServices(cmd *cobra.Command) bool {
	switch cmd.Name() {
	case versionCmd.Name(), schemaCmd.Name():
		return false
	}
	return true
}

func setup(cmd *cobra.Command, _ []string) error {
	logger.SetVerbose(opts.Verbose)

	if bootstrap == nil || !needsServices(cmd) {
		return nil
	}

	services, err := bootstrap(opts)
	if err != nil {
		return err
	}
	SetServices(services)
	return nil
}

func requirePipeline() error {
	if pipelineService == nil {
		return errors.New("pipeline service not configured")
	}
	return nil
}
