package driving

import (
	"context"

	"github.com/custodia-labs/podchunk/internal/core/domain"
)

// PipelineService turns raw transcripts into filtered chunks.
type PipelineService interface {
	// Clean annotates every transcript without segmenting.
	Clean(ctx context.Context) (*domain.CleanResult, error)

	// Chunk annotates and segments every transcript in slug order,
	// threading one global order counter across all of them.
	// Failed documents are reported in the result and skipped.
	Chunk(ctx context.Context) (*domain.RunResult, error)

	// Filter applies the quality filter pipeline to chunks.
	Filter(ctx context.Context, chunks []domain.Chunk) ([]domain.Chunk, domain.FilterReport, error)

	// Run chunks and filters every transcript, then persists and exports
	// the result when a store or exporter is configured.
	Run(ctx context.Context) (*domain.RunResult, error)

	// ChunkText annotates and segments a single transcript body,
	// numbering chunks from zero.
	ChunkText(ctx context.Context, slug, text string) ([]domain.Chunk, error)

	// Latest returns the most recently persisted run.
	Latest(ctx context.Context) (*domain.RunResult, error)

	// History returns up to limit persisted runs, newest first, without
	// their chunks. A limit of zero or less returns every run.
	History(ctx context.Context, limit int) ([]domain.RunResult, error)

	// Watch runs the pipeline once, then again whenever the source
	// reports a change, passing every outcome to handle. It blocks until
	// ctx is cancelled. Sources that cannot be watched return
	// domain.ErrUnsupportedType.
	Watch(ctx context.Context, handle func(*domain.RunResult, error)) error
}

// StatsService computes transcript statistics.
type StatsService interface {
	// Collect returns word and line counts for every raw transcript.
	Collect(ctx context.Context) ([]domain.EpisodeStats, error)
}
