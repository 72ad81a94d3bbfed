package domain

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Schema versions of the chunk collections handed to downstream consumers.
const (
	// ChunkSchemaVersion marks the full segmented collection.
	ChunkSchemaVersion = "1.0"

	// FilteredSchemaVersion marks the collection after quality filtering.
	FilteredSchemaVersion = "1.2"
)

// Chunk is a contiguous run of speech attributed to one speaker and one
// start time. Chunks are immutable once created.
type Chunk struct {
	// ChunkID is {episode_id}_{zero-padded order}.
	ChunkID string `json:"chunk_id"`

	// EpisodeID links to the episode the chunk was cut from.
	EpisodeID string `json:"episode_id"`

	// Speaker is the attributed speaker name.
	Speaker string `json:"speaker"`

	// Text is the buffered speech joined with single spaces.
	Text string `json:"text"`

	// Order is unique and increasing across an entire run.
	Order int `json:"order"`

	// StartTimeRaw is the HH:MM:SS string in effect when the chunk began.
	StartTimeRaw string `json:"start_time_raw"`

	// TimestampSeconds is derived from StartTimeRaw.
	TimestampSeconds int `json:"timestamp_seconds"`
}

// NewChunk builds a chunk, deriving its ID and timestamp.
// It fails if startTimeRaw is missing or not HH:MM:SS.
func NewChunk(episodeID, speaker, text, startTimeRaw string, order int) (Chunk, error) {
	seconds, err := ParseClock(startTimeRaw)
	if err != nil {
		return Chunk{}, err
	}

	return Chunk{
		ChunkID:          ChunkID(episodeID, order),
		EpisodeID:        episodeID,
		Speaker:          strings.TrimSpace(speaker),
		Text:             strings.TrimSpace(text),
		Order:            order,
		StartTimeRaw:     startTimeRaw,
		TimestampSeconds: seconds,
	}, nil
}

// ChunkID formats the identifier of the chunk at the given global order.
func ChunkID(episodeID string, order int) string {
	return fmt.Sprintf("%s_%04d", episodeID, order)
}

// maxClockDigits bounds each clock field so the total cannot overflow.
const maxClockDigits = 9

// ParseClock converts an HH:MM:SS elapsed time into seconds.
// Each field must be 1 to 9 ASCII digits; signs and spaces are rejected.
func ParseClock(raw string) (int, error) {
	if strings.TrimSpace(raw) == "" {
		return 0, ErrMissingTime
	}

	parts := strings.Split(raw, ":")
	if len(parts) != 3 {
		return 0, fmt.Errorf("%w: %q", ErrMalformedTime, raw)
	}

	total := 0
	for _, part := range parts {
		if !isClockField(part) {
			return 0, fmt.Errorf("%w: %q", ErrMalformedTime, raw)
		}
		n, err := strconv.Atoi(part)
		if err != nil {
			return 0, fmt.Errorf("%w: %q", ErrMalformedTime, raw)
		}
		total = total*60 + n
	}
	return total, nil
}

func isClockField(s string) bool {
	if s == "" || len(s) > maxClockDigits {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// ChunkSet is the self-describing document of chunks handed downstream.
type ChunkSet struct {
	SchemaVersion string    `json:"schema_version"`
	GeneratedAt   time.Time `json:"generated_at"`
	TotalChunks   int       `json:"total_chunks"`
	Chunks        []Chunk   `json:"chunks"`
}

// NewChunkSet wraps the full segmented collection.
func NewChunkSet(chunks []Chunk, generatedAt time.Time) ChunkSet {
	return newChunkSet(ChunkSchemaVersion, chunks, generatedAt)
}

// NewFilteredChunkSet wraps the collection that survived filtering.
func NewFilteredChunkSet(chunks []Chunk, generatedAt time.Time) ChunkSet {
	return newChunkSet(FilteredSchemaVersion, chunks, generatedAt)
}

func newChunkSet(version string, chunks []Chunk, generatedAt time.Time) ChunkSet {
	if chunks == nil {
		chunks = []Chunk{}
	}
	return ChunkSet{
		SchemaVersion: version,
		GeneratedAt:   generatedAt.UTC(),
		TotalChunks:   len(chunks),
		Chunks:        chunks,
	}
}
