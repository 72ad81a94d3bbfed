package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/podchunk/internal/core/domain"
	"github.com/custodia-labs/podchunk/internal/core/ports/driven"
	"github.com/custodia-labs/podchunk/internal/core/ports/driving"
	"github.com/custodia-labs/podchunk/internal/logger"
)

// Ensure PipelineService implements the interface.
var _ driving.PipelineService = (*PipelineService)(nil)

// PipelineService coordinates annotation, segmentation and filtering.
type PipelineService struct {
	source     driven.TranscriptSource
	normaliser driven.Normaliser
	segmenter  driven.Segmenter
	pipeline   driven.ChunkPipeline
	store      driven.ChunkStore
	exporter   driven.Exporter

	now   func() time.Time
	newID func() string
}

// PipelineOption configures a PipelineService.
type PipelineOption func(*PipelineService)

// WithChunkStore persists every completed run.
func WithChunkStore(store driven.ChunkStore) PipelineOption {
	return func(s *PipelineService) { s.store = store }
}

// WithExporter writes cleaned text and chunk documents.
func WithExporter(exporter driven.Exporter) PipelineOption {
	return func(s *PipelineService) { s.exporter = exporter }
}

// WithClock overrides the time source used for run and document stamps.
func WithClock(now func() time.Time) PipelineOption {
	return func(s *PipelineService) { s.now = now }
}

// WithIDGenerator overrides run ID generation.
func WithIDGenerator(newID func() string) PipelineOption {
	return func(s *PipelineService) { s.newID = newID }
}

// NewPipelineService creates a new pipeline service.
// The store and exporter are optional; when absent, runs are neither
// persisted nor written out.
func NewPipelineService(
	source driven.TranscriptSource,
	normaliser driven.Normaliser,
	segmenter driven.Segmenter,
	pipeline driven.ChunkPipeline,
	opts ...PipelineOption,
) *PipelineService {
	s := &PipelineService{
		source:     source,
		normaliser: normaliser,
		segmenter:  segmenter,
		pipeline:   pipeline,
		now:        time.Now,
		newID:      uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Clean annotates every transcript and writes the canonical text when an
// exporter is configured.
func (s *PipelineService) Clean(ctx context.Context) (*domain.CleanResult, error) {
	logger.Section("Clean")

	result, err := s.annotateAll(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.exportCleaned(ctx, result.Transcripts); err != nil {
		return nil, err
	}
	return result, nil
}

// Chunk annotates and segments every transcript in slug order. The order
// counter is threaded from one document to the next; a failed document
// contributes no chunks and leaves the counter where it was.
func (s *PipelineService) Chunk(ctx context.Context) (*domain.RunResult, error) {
	logger.Section("Chunk")

	run, _, err := s.chunkAll(ctx)
	if err != nil {
		return nil, err
	}

	if s.exporter != nil {
		if err := s.exporter.WriteChunks(ctx, domain.NewChunkSet(run.Chunks, s.now())); err != nil {
			return nil, fmt.Errorf("export chunks: %w", err)
		}
	}
	return run, nil
}

// Filter applies the quality filter pipeline to chunks.
func (s *PipelineService) Filter(ctx context.Context, chunks []domain.Chunk) ([]domain.Chunk, domain.FilterReport, error) {
	logger.Section("Filter")
	defer logger.Timed("filter")()

	kept, report, err := s.pipeline.Process(ctx, chunks)
	if err != nil {
		return nil, domain.FilterReport{}, fmt.Errorf("filter chunks: %w", err)
	}

	logger.Info("Kept %d of %d chunks", report.Kept, report.Original)
	for _, rc := range report.Breakdown() {
		logger.Debug("Rejected %d: %s", rc.Count, rc.Rule)
	}
	return kept, report, nil
}

// Run chunks and filters every transcript, then persists and exports the
// result when a store or exporter is configured.
func (s *PipelineService) Run(ctx context.Context) (*domain.RunResult, error) {
	logger.Section("Run")

	run, cleaned, err := s.chunkAll(ctx)
	if err != nil {
		return nil, err
	}

	run.Filtered, run.Report, err = s.Filter(ctx, run.Chunks)
	if err != nil {
		return nil, err
	}

	run.ID = s.newID()

	if s.store != nil {
		if err := s.store.SaveRun(ctx, run); err != nil {
			return nil, fmt.Errorf("save run: %w", err)
		}
		logger.Debug("Saved run %s", run.ID)
	}

	if err := s.exportCleaned(ctx, cleaned); err != nil {
		return nil, err
	}
	if s.exporter != nil {
		generated := s.now()
		if err := s.exporter.WriteChunks(ctx, domain.NewChunkSet(run.Chunks, generated)); err != nil {
			return nil, fmt.Errorf("export chunks: %w", err)
		}
		if err := s.exporter.WriteFiltered(ctx, domain.NewFilteredChunkSet(run.Filtered, generated)); err != nil {
			return nil, fmt.Errorf("export filtered chunks: %w", err)
		}
	}

	logger.Info("Run %s complete: %d documents, %d chunks, %d kept, %d failed",
		run.ID, run.Documents, len(run.Chunks), len(run.Filtered), len(run.Failures))
	return run, nil
}

// ChunkText annotates and segments a single transcript body, numbering
// chunks from zero.
func (s *PipelineService) ChunkText(ctx context.Context, slug, text string) ([]domain.Chunk, error) {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return nil, fmt.Errorf("%w: episode slug is required", domain.ErrInvalidInput)
	}

	raw := &domain.RawTranscript{Slug: slug, Content: []byte(text)}
	result, err := s.normaliser.Normalise(ctx, raw)
	if err != nil {
		return nil, fmt.Errorf("annotate %s: %w", slug, err)
	}

	chunks, _, err := s.segmenter.Segment(splitLines(result.Transcript.Text), raw.EpisodeID(), 0)
	if err != nil {
		return nil, fmt.Errorf("segment %s: %w", slug, err)
	}
	return chunks, nil
}

// Latest returns the most recently persisted run.
func (s *PipelineService) Latest(ctx context.Context) (*domain.RunResult, error) {
	if s.store == nil {
		return nil, fmt.Errorf("%w: run storage is disabled", domain.ErrNotFound)
	}
	run, err := s.store.LatestRun(ctx)
	if err != nil {
		return nil, fmt.Errorf("latest run: %w", err)
	}
	return run, nil
}

// History returns persisted run summaries, newest first.
func (s *PipelineService) History(ctx context.Context, limit int) ([]domain.RunResult, error) {
	if s.store == nil {
		return nil, fmt.Errorf("%w: run storage is disabled", domain.ErrNotFound)
	}
	runs, err := s.store.ListRuns(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	return runs, nil
}

// Watch runs the pipeline once and again after every batch of changes.
// Changes that arrive while a run is in progress are coalesced into the
// next run.
func (s *PipelineService) Watch(ctx context.Context, handle func(*domain.RunResult, error)) error {
	watchable, ok := s.source.(driven.WatchableSource)
	if !ok {
		return fmt.Errorf("%w: source %s cannot be watched", domain.ErrUnsupportedType, s.source.Type())
	}

	changes, err := watchable.Watch(ctx)
	if err != nil {
		return fmt.Errorf("watch source: %w", err)
	}

	handle(s.Run(ctx))

	for {
		select {
		case <-ctx.Done():
			return nil
		case change, ok := <-changes:
			if !ok {
				return nil
			}
			logger.Info("Transcript changed: %s", change.Slug)
			drain(changes)
			if ctx.Err() != nil {
				return nil
			}
			handle(s.Run(ctx))
		}
	}
}

// drain discards queued changes without blocking.
func drain(changes <-chan domain.TranscriptChange) {
	for {
		select {
		case change, ok := <-changes:
			if !ok {
				return
			}
			logger.Debug("Coalescing change: %s", change.Slug)
		default:
			return
		}
	}
}

// annotateAll normalises every transcript in slug order.
func (s *PipelineService) annotateAll(ctx context.Context) (*domain.CleanResult, error) {
	slugs, err := s.source.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list transcripts: %w", err)
	}
	logger.Info("Found %d transcripts in %s source", len(slugs), s.source.Type())

	result := &domain.CleanResult{
		Transcripts: make([]domain.CleanedTranscript, 0, len(slugs)),
	}

	for _, slug := range slugs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		cleaned, err := s.annotate(ctx, slug)
		if err != nil {
			logger.Warn("Skipping %s: %v", slug, err)
			result.Failures = append(result.Failures, domain.NewDocumentFailure(slug, err))
			continue
		}
		result.Transcripts = append(result.Transcripts, *cleaned)
	}

	return result, nil
}

func (s *PipelineService) annotate(ctx context.Context, slug string) (*domain.CleanedTranscript, error) {
	raw, err := s.source.Read(ctx, slug)
	if err != nil {
		return nil, fmt.Errorf("read: %w", err)
	}

	result, err := s.normaliser.Normalise(ctx, raw)
	if err != nil {
		return nil, fmt.Errorf("annotate: %w", err)
	}

	logger.Debug("Annotated %s with %s", slug, s.normaliser.Name())
	return &result.Transcript, nil
}

// chunkAll annotates and segments every transcript, threading the global
// order counter. It also returns the cleaned transcripts for export.
func (s *PipelineService) chunkAll(ctx context.Context) (*domain.RunResult, []domain.CleanedTranscript, error) {
	started := s.now()
	defer logger.Timed("segment")()

	cleaned, err := s.annotateAll(ctx)
	if err != nil {
		return nil, nil, err
	}

	run := &domain.RunResult{
		StartedAt: started,
		Documents: len(cleaned.Transcripts) + len(cleaned.Failures),
		Chunks:    []domain.Chunk{},
		Failures:  cleaned.Failures,
	}

	order := 0
	for _, t := range cleaned.Transcripts {
		if err := ctx.Err(); err != nil {
			return nil, nil, err
		}

		chunks, next, err := s.segmenter.Segment(splitLines(t.Text), t.EpisodeID, order)
		if err != nil {
			logger.Warn("Skipping %s: %v", t.Slug, err)
			run.Failures = append(run.Failures, domain.NewDocumentFailure(t.Slug, fmt.Errorf("segment: %w", err)))
			continue
		}

		logger.Debug("Segmented %s: %d chunks (orders %d-%d)", t.Slug, len(chunks), order, next-1)
		run.Chunks = append(run.Chunks, chunks...)
		order = next
	}

	run.NextOrder = order
	logger.Info("Segmented %d chunks from %d documents", len(run.Chunks), run.Documents-len(run.Failures))
	return run, cleaned.Transcripts, nil
}

func (s *PipelineService) exportCleaned(ctx context.Context, transcripts []domain.CleanedTranscript) error {
	if s.exporter == nil {
		return nil
	}
	for _, t := range transcripts {
		if err := s.exporter.WriteCleaned(ctx, t); err != nil {
			return fmt.Errorf("export cleaned %s: %w", t.Slug, err)
		}
	}
	return nil
}

// splitLines splits canonical text into lines. Empty text has no lines.
func splitLines(text string) []string {
	if text == "" {
		return nil
	}
	return strings.Split(text, "\n")
}
