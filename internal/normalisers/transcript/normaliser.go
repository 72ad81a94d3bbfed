// Package transcript rewrites loosely structured podcast transcripts into
// canonical annotated lines of the form
//
//	[SPEAKER=name][TIME=HH:MM:SS] speech
//
// carrying the last announced speaker forward onto time-only markers.
package transcript

import (
	"context"
	"regexp"
	"strings"

	"github.com/custodia-labs/podchunk/internal/core/domain"
	"github.com/custodia-labs/podchunk/internal/core/ports/driven"
)

// Ensure Normaliser implements the interface.
var _ driven.Normaliser = (*Normaliser)(nil)

// frontMatterDelimiter opens and closes a YAML preamble block.
const frontMatterDelimiter = "---"

var (
	// Ada Chen Rekhi (00:05:12): hello
	speakerTimeRe = regexp.MustCompile(`^(.+?)\s*\((\d{2}:\d{2}:\d{2})\)\s*:\s*(.*)`)

	// (00:05:54): continued thought
	timeOnlyRe = regexp.MustCompile(`^\((\d{2}:\d{2}:\d{2})\)\s*:\s*(.*)`)

	multiNewlines = regexp.MustCompile(`\n{3,}`)
)

// Normaliser handles raw transcript documents.
type Normaliser struct{}

// New creates a new transcript normaliser.
func New() *Normaliser {
	return &Normaliser{}
}

// Name returns the normaliser name.
func (n *Normaliser) Name() string {
	return "transcript"
}

// Normalise decodes the raw bytes and annotates every line.
// Invalid UTF-8 sequences are dropped rather than failing.
func (n *Normaliser) Normalise(_ context.Context, raw *domain.RawTranscript) (*driven.NormaliseResult, error) {
	if raw == nil {
		return nil, domain.ErrInvalidInput
	}

	text := strings.ToValidUTF8(string(raw.Content), "")

	return &driven.NormaliseResult{
		Transcript: domain.CleanedTranscript{
			Slug:      raw.Slug,
			EpisodeID: raw.EpisodeID(),
			Text:      Annotate(text),
		},
	}, nil
}

// Annotate rewrites raw transcript text into canonical annotated lines.
// It is a pure function of its input.
func Annotate(text string) string {
	text = stripFrontMatter(text)
	text = annotateLines(text)
	return collapseBlankLines(text)
}

// stripFrontMatter removes a leading block delimited by two "---" markers.
// Text without a complete block is only trimmed.
func stripFrontMatter(text string) string {
	if strings.HasPrefix(text, frontMatterDelimiter) {
		parts := strings.SplitN(text, frontMatterDelimiter, 3)
		if len(parts) == 3 {
			return strings.TrimSpace(parts[2])
		}
	}
	return strings.TrimSpace(text)
}

// annotateLines tags every speaker/time line with the current speaker.
// Time-only lines before any speaker, and all other lines, pass through.
func annotateLines(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	lines := strings.Split(text, "\n")
	out := make([]string, 0, len(lines))

	var speaker string
	for _, line := range lines {
		if m := speakerTimeRe.FindStringSubmatch(line); m != nil {
			speaker = strings.TrimSpace(m[1])
			out = append(out, marker(speaker, m[2], m[3]))
			continue
		}

		if m := timeOnlyRe.FindStringSubmatch(line); m != nil && speaker != "" {
			out = append(out, marker(speaker, m[1], m[2]))
			continue
		}

		out = append(out, line)
	}

	return strings.Join(out, "\n")
}

func marker(speaker, timestamp, speech string) string {
	return domain.AnnotatedLine{
		Speaker:    speaker,
		HasSpeaker: true,
		Time:       timestamp,
		HasTime:    true,
		Text:       strings.TrimSpace(speech),
	}.String()
}

// collapseBlankLines reduces runs of blank lines and trims the document.
func collapseBlankLines(text string) string {
	text = multiNewlines.ReplaceAllString(text, "\n\n")
	return strings.TrimSpace(text)
}
