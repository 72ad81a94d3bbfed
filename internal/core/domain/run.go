package domain

import "time"

// DocumentFailure records an episode skipped during a run.
type DocumentFailure struct {
	Slug      string `json:"slug"`
	EpisodeID string `json:"episode_id"`
	Reason    string `json:"reason"`

	// Err is the original error; it is not persisted.
	Err error `json:"-"`
}

// NewDocumentFailure builds a failure record from an error.
func NewDocumentFailure(slug string, err error) DocumentFailure {
	return DocumentFailure{
		Slug:      slug,
		EpisodeID: EpisodeID(slug),
		Reason:    err.Error(),
		Err:       err,
	}
}

// CleanResult is the outcome of annotating every transcript.
type CleanResult struct {
	Transcripts []CleanedTranscript
	Failures    []DocumentFailure
}

// RunResult is the outcome of one pipeline run.
type RunResult struct {
	// ID identifies a persisted run. Empty until saved.
	ID string

	// StartedAt is when the run began.
	StartedAt time.Time

	// Documents is the number of transcripts attempted.
	Documents int

	// Chunks holds every segmented chunk in global order.
	Chunks []Chunk

	// Filtered holds the chunks that survived the quality filter.
	Filtered []Chunk

	// Report summarises the filtering pass.
	Report FilterReport

	// Failures lists skipped documents.
	Failures []DocumentFailure

	// NextOrder is the counter value after the last emitted chunk.
	NextOrder int
}
