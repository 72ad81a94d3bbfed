package main

import (
	"fmt"
	"path/filepath"

	"github.com/custodia-labs/podchunk/internal/adapters/driven/config/file"
	"github.com/custodia-labs/podchunk/internal/adapters/driven/export/jsonfile"
	"github.com/custodia-labs/podchunk/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/podchunk/internal/adapters/driving/cli"
	"github.com/custodia-labs/podchunk/internal/connectors/filesystem"
	"github.com/custodia-labs/podchunk/internal/core/domain"
	"github.com/custodia-labs/podchunk/internal/core/services"
	"github.com/custodia-labs/podchunk/internal/logger"
	"github.com/custodia-labs/podchunk/internal/normalisers/transcript"
	"github.com/custodia-labs/podchunk/internal/postprocessors"
	"github.com/custodia-labs/podchunk/internal/postprocessors/segmenter"
)

// dataDirName holds the run database inside the config directory.
const dataDirName = "data"

// bootstrap wires adapters into services once flags are known.
// Flags override settings from config.toml.
func bootstrap(opts cli.Options) (*cli.Services, error) {
	configDir := opts.ConfigDir
	if configDir == "" {
		dir, err := file.DefaultDir()
		if err != nil {
			return nil, err
		}
		configDir = dir
	}

	configStore, err := file.NewConfigStore(configDir)
	if err != nil {
		return nil, fmt.Errorf("open config: %w", err)
	}
	settingsService := services.NewSettingsService(configStore)

	settings, err := settingsService.Get()
	if err != nil {
		return nil, fmt.Errorf("load settings: %w", err)
	}
	applyOverrides(settings, opts)
	logger.Debug("Transcripts: %s, output: %s", settings.TranscriptsDir, settings.OutputDir)

	pipeline, err := postprocessors.DefaultPipeline(settings.Filter)
	if err != nil {
		return nil, err
	}

	source := filesystem.New(settings.TranscriptsDir)
	exporter := jsonfile.New(settings.OutputDir)

	pipelineOpts := []services.PipelineOption{services.WithExporter(exporter)}
	closeFn := source.Close

	if settings.StoreEnabled {
		store, err := sqlite.NewStore(filepath.Join(configDir, dataDirName))
		if err != nil {
			return nil, fmt.Errorf("open run store: %w", err)
		}
		logger.Debug("Run store: %s", store.Path())
		pipelineOpts = append(pipelineOpts, services.WithChunkStore(store.ChunkStore()))
		closeFn = func() error {
			source.Close() //nolint:errcheck // store close error is the one worth reporting
			return store.Close()
		}
	}

	return &cli.Services{
		Pipeline: services.NewPipelineService(
			source,
			transcript.New(),
			segmenter.New(),
			pipeline,
			pipelineOpts...,
		),
		Stats:    services.NewStatsService(source, exporter),
		Settings: settingsService,
		Close:    closeFn,
	}, nil
}

func applyOverrides(settings *domain.AppSettings, opts cli.Options) {
	if opts.TranscriptsDir != "" {
		settings.TranscriptsDir = opts.TranscriptsDir
	}
	if opts.OutputDir != "" {
		settings.OutputDir = opts.OutputDir
	}
	if opts.NoStore {
		settings.StoreEnabled = false
	}
}
