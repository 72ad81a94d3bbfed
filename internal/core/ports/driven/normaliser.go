package driven

import (
	"context"

	"github.com/custodia-labs/podchunk/internal/core/domain"
)

// Normaliser rewrites a raw transcript into canonical annotated text,
// one AnnotatedLine per line.
type Normaliser interface {
	// Name returns the normaliser name for logging.
	Name() string

	// Normalise transforms a raw transcript. It performs no I/O.
	Normalise(ctx context.Context, raw *domain.RawTranscript) (*NormaliseResult, error)
}

// NormaliseResult contains the output of normalisation.
// Segmentation is handled by the Segmenter.
type NormaliseResult struct {
	// Transcript holds the canonical annotated text.
	Transcript domain.CleanedTranscript
}
