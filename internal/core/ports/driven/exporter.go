package driven

import (
	"context"

	"github.com/custodia-labs/podchunk/internal/core/domain"
)

// Exporter writes pipeline outputs for downstream consumers.
type Exporter interface {
	// WriteCleaned writes one canonical annotated transcript.
	WriteCleaned(ctx context.Context, t domain.CleanedTranscript) error

	// WriteChunks writes the full segmented collection.
	WriteChunks(ctx context.Context, set domain.ChunkSet) error

	// WriteFiltered writes the collection that survived filtering.
	WriteFiltered(ctx context.Context, set domain.ChunkSet) error

	// WriteStats writes per-episode statistics.
	WriteStats(ctx context.Context, stats []domain.EpisodeStats) error
}
