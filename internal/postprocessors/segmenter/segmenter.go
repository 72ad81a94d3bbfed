// Package segmenter cuts canonical annotated transcript lines into
// speaker/time chunks.
package segmenter

import (
	"strings"

	"github.com/custodia-labs/podchunk/internal/core/domain"
	"github.com/custodia-labs/podchunk/internal/core/ports/driven"
)

// Ensure Segmenter implements the interface.
var _ driven.Segmenter = (*Segmenter)(nil)

// Segmenter accumulates consecutive speech under one speaker and start
// time, emitting a chunk whenever either changes or the episode ends.
// It holds no state between calls; the global order counter is passed
// in and returned explicitly.
type Segmenter struct{}

// New creates a new segmenter.
func New() *Segmenter {
	return &Segmenter{}
}

// Name returns the segmenter name.
func (s *Segmenter) Name() string {
	return "segmenter"
}

// SegmentText splits canonical text into lines and segments it.
func (s *Segmenter) SegmentText(text, episodeID string, start int) ([]domain.Chunk, int, error) {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	return s.Segment(strings.Split(text, "\n"), episodeID, start)
}

// Segment emits the chunks of one episode, numbering them from start.
// A malformed time marker, or speech before any time is known, fails the
// whole episode: no chunks are returned and the counter is not advanced.
func (s *Segmenter) Segment(lines []string, episodeID string, start int) ([]domain.Chunk, int, error) {
	st := &state{
		episodeID: episodeID,
		order:     start,
	}

	for i, raw := range lines {
		lineNo := i + 1
		line := domain.ParseAnnotatedLine(raw)

		if line.IsMarker() {
			if err := st.flush(); err != nil {
				return nil, start, err
			}
			if err := st.apply(line, lineNo); err != nil {
				return nil, start, err
			}
		}

		st.append(line.Text, lineNo)
	}

	if err := st.flush(); err != nil {
		return nil, start, err
	}

	return st.chunks, st.order, nil
}

// state is the carry-forward state for one episode.
type state struct {
	episodeID string
	order     int

	speaker string
	time    string

	buffer   []string
	bufferAt int
	chunks   []domain.Chunk
}

// apply updates speaker and/or time from a marker line.
// Fields the line does not carry are left unchanged.
func (st *state) apply(line domain.AnnotatedLine, lineNo int) error {
	if line.HasSpeaker && line.Speaker != "" {
		st.speaker = line.Speaker
	}
	if line.HasTime {
		if _, err := domain.ParseClock(line.Time); err != nil {
			return &domain.LineError{
				EpisodeID: st.episodeID,
				Line:      lineNo,
				Value:     line.Time,
				Err:       domain.ErrMalformedTime,
			}
		}
		st.time = line.Time
	}
	return nil
}

// append buffers non-blank speech when a speaker is known.
// Speech with no speaker announced yet cannot be attributed and is dropped.
func (st *state) append(text string, lineNo int) {
	if st.speaker == "" {
		return
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return
	}
	if len(st.buffer) == 0 {
		st.bufferAt = lineNo
	}
	st.buffer = append(st.buffer, text)
}

// flush emits the buffered speech as a chunk, if any.
func (st *state) flush() error {
	if st.speaker == "" || len(st.buffer) == 0 {
		return nil
	}

	if st.time == "" {
		return &domain.LineError{
			EpisodeID: st.episodeID,
			Line:      st.bufferAt,
			Err:       domain.ErrMissingTime,
		}
	}

	chunk, err := domain.NewChunk(st.episodeID, st.speaker, strings.Join(st.buffer, " "), st.time, st.order)
	if err != nil {
		return &domain.LineError{
			EpisodeID: st.episodeID,
			Line:      st.bufferAt,
			Value:     st.time,
			Err:       err,
		}
	}

	st.chunks = append(st.chunks, chunk)
	st.order++
	st.buffer = st.buffer[:0]
	return nil
}
