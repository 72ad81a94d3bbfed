package domain

import (
	"regexp"
	"strings"
)

// EpisodeIDPrefix is prepended to a source slug to form an episode ID.
const EpisodeIDPrefix = "ep_"

// RawTranscript represents transcript bytes read from a source.
// It is the source's output before annotation.
type RawTranscript struct {
	// Slug is the stable identifier derived from the source name.
	Slug string

	// URI is the original location (file path).
	URI string

	// Content is the raw bytes. Encoding is expected to be UTF-8
	// but is not guaranteed.
	Content []byte
}

// EpisodeID returns the episode identifier for this transcript.
func (r RawTranscript) EpisodeID() string {
	return EpisodeID(r.Slug)
}

// EpisodeID derives an episode identifier from a source slug.
func EpisodeID(slug string) string {
	return EpisodeIDPrefix + slug
}

// CleanedTranscript is a transcript rewritten into canonical annotated lines.
type CleanedTranscript struct {
	Slug      string
	EpisodeID string
	Text      string
}

// TranscriptChange is emitted by a watching source when a transcript
// is created, modified or removed.
type TranscriptChange struct {
	Slug    string
	URI     string
	Removed bool
}

var (
	speakerMarkerRe = regexp.MustCompile(`\[SPEAKER=([^\]]+)\]`)
	timeMarkerRe    = regexp.MustCompile(`\[TIME=([^\]]*)\]`)
)

// AnnotatedLine is one line of canonical transcript text.
//
// A marker line carries a speaker and/or a time; any text following the
// markers is speech. A line without markers is plain speech that belongs
// to the most recently announced speaker and time.
type AnnotatedLine struct {
	Speaker    string
	HasSpeaker bool
	Time       string
	HasTime    bool
	Text       string
}

// IsMarker reports whether the line announces a speaker or a time.
func (l AnnotatedLine) IsMarker() bool {
	return l.HasSpeaker || l.HasTime
}

// String renders the line in canonical form:
//
//	[SPEAKER=name][TIME=HH:MM:SS] speech
func (l AnnotatedLine) String() string {
	var b strings.Builder
	if l.HasSpeaker {
		b.WriteString("[SPEAKER=")
		b.WriteString(l.Speaker)
		b.WriteString("]")
	}
	if l.HasTime {
		b.WriteString("[TIME=")
		b.WriteString(l.Time)
		b.WriteString("]")
	}
	if l.Text != "" {
		if b.Len() > 0 {
			b.WriteString(" ")
		}
		b.WriteString(l.Text)
	}
	return b.String()
}

// ParseAnnotatedLine parses one line of canonical text.
// Marker values are returned as written; time values are not validated here.
func ParseAnnotatedLine(line string) AnnotatedLine {
	var l AnnotatedLine

	if m := speakerMarkerRe.FindStringSubmatch(line); m != nil {
		l.Speaker = strings.TrimSpace(m[1])
		l.HasSpeaker = true
	}
	if m := timeMarkerRe.FindStringSubmatch(line); m != nil {
		l.Time = strings.TrimSpace(m[1])
		l.HasTime = true
	}

	if !l.IsMarker() {
		l.Text = strings.TrimSpace(line)
		return l
	}

	rest := speakerMarkerRe.ReplaceAllString(line, "")
	rest = timeMarkerRe.ReplaceAllString(rest, "")
	l.Text = strings.TrimSpace(rest)
	return l
}
