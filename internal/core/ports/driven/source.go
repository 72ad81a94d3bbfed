package driven

import (
	"context"

	"github.com/custodia-labs/podchunk/internal/core/domain"
)

// TranscriptSource fetches raw transcripts from storage.
type TranscriptSource interface {
	// Type returns the source type identifier.
	Type() string

	// Validate checks the source is readable.
	Validate(ctx context.Context) error

	// List returns every transcript slug in lexicographic order.
	List(ctx context.Context) ([]string, error)

	// Read returns the raw transcript for a slug.
	// Returns domain.ErrNotFound if the slug is unknown.
	Read(ctx context.Context, slug string) (*domain.RawTranscript, error)
}

// WatchableSource is a TranscriptSource that can push change events.
type WatchableSource interface {
	TranscriptSource

	// Watch emits a change for every transcript written or removed.
	// The channel is closed when ctx is cancelled.
	Watch(ctx context.Context) (<-chan domain.TranscriptChange, error)
}
