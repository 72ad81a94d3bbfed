package driven

import (
	"context"

	"github.com/custodia-labs/podchunk/internal/core/domain"
)

// Segmenter cuts canonical annotated lines into chunks.
type Segmenter interface {
	// Segment emits chunks for one episode, numbering them from start.
	// It returns the counter value after the last emitted chunk.
	// On error no chunks are returned and next equals start.
	Segment(lines []string, episodeID string, start int) (chunks []domain.Chunk, next int, err error)
}

// ChunkProcessor narrows a chunk list (e.g., the quality filter).
type ChunkProcessor interface {
	// Name returns the processor name for logging and configuration.
	Name() string

	// Process returns the surviving chunks, in input order, and a report
	// of what was rejected.
	Process(ctx context.Context, chunks []domain.Chunk) ([]domain.Chunk, domain.FilterReport, error)
}

// ChunkPipeline chains multiple ChunkProcessors.
type ChunkPipeline interface {
	// Process runs the chunks through all processors in order.
	// The report covers the whole chain.
	Process(ctx context.Context, chunks []domain.Chunk) ([]domain.Chunk, domain.FilterReport, error)
}
