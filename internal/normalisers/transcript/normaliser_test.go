package transcript

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/podchunk/internal/core/domain"
	"github.com/custodia-labs/podchunk/internal/core/ports/driven"
)

func TestNew(t *testing.T) {
	normaliser := New()
	require.NotNil(t, normaliser)
	assert.Equal(t, "transcript", normaliser.Name())

	var _ driven.Normaliser = normaliser
}

func TestAnnotate_SpeakerAndTime(t *testing.T) {
	got := Annotate("Ada Chen Rekhi (00:05:12): hello there")
	assert.Equal(t, "[SPEAKER=Ada Chen Rekhi][TIME=00:05:12] hello there", got)
}

func TestAnnotate_CarriesSpeakerToTimeOnlyLines(t *testing.T) {
	input := "Alice (00:01:00): hello\n(00:01:30): world"

	got := Annotate(input)

	assert.Equal(t,
		"[SPEAKER=Alice][TIME=00:01:00] hello\n[SPEAKER=Alice][TIME=00:01:30] world",
		got)
}

func TestAnnotate_TimeOnlyBeforeAnySpeakerPassesThrough(t *testing.T) {
	input := "(00:00:10): nobody yet\nBob (00:00:20): now me"

	got := Annotate(input)

	assert.Equal(t, "(00:00:10): nobody yet\n[SPEAKER=Bob][TIME=00:00:20] now me", got)
}

func TestAnnotate_SpeakerChangeUpdatesCarry(t *testing.T) {
	input := "Alice (00:00:01): a\nBob (00:00:02): b\n(00:00:03): c"

	got := Annotate(input)

	assert.Contains(t, got, "[SPEAKER=Bob][TIME=00:00:03] c")
}

func TestAnnotate_OtherLinesPassThrough(t *testing.T) {
	input := "# Episode title\nAlice (00:00:01): hi\nsome continuation prose\n(not a time): nope"

	got := Annotate(input)

	assert.Equal(t,
		"# Episode title\n[SPEAKER=Alice][TIME=00:00:01] hi\nsome continuation prose\n(not a time): nope",
		got)
}

func TestAnnotate_EmptySpeech(t *testing.T) {
	got := Annotate("Alice (00:00:01):")
	assert.Equal(t, "[SPEAKER=Alice][TIME=00:00:01]", got)
}

func TestAnnotate_FrontMatter(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "strips complete block",
			input: "---\ntitle: Episode\nguest: Ada\n---\n\nAlice (00:00:01): hi\n",
			want:  "[SPEAKER=Alice][TIME=00:00:01] hi",
		},
		{
			name:  "single delimiter leaves text",
			input: "---\nAlice (00:00:01): hi\n",
			want:  "---\n[SPEAKER=Alice][TIME=00:00:01] hi",
		},
		{
			name:  "delimiter not at start is ignored",
			input: "intro\n---\nmore\n---\n",
			want:  "intro\n---\nmore\n---",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Annotate(tt.input))
		})
	}
}

func TestAnnotate_CollapsesBlankLines(t *testing.T) {
	input := "Alice (00:00:01): a\n\n\n\n\nBob (00:00:02): b\n\nkeep two"

	got := Annotate(input)

	assert.Equal(t,
		"[SPEAKER=Alice][TIME=00:00:01] a\n\n[SPEAKER=Bob][TIME=00:00:02] b\n\nkeep two",
		got)
}

func TestAnnotate_CRLF(t *testing.T) {
	got := Annotate("Alice (00:00:01): a\r\n(00:00:02): b\r\n")
	assert.Equal(t, "[SPEAKER=Alice][TIME=00:00:01] a\n[SPEAKER=Alice][TIME=00:00:02] b", got)
}

func TestAnnotate_Deterministic(t *testing.T) {
	input := "Alice (00:00:01): a\n(00:00:02): b\nprose"
	assert.Equal(t, Annotate(input), Annotate(input))
}

func TestNormalise_Success(t *testing.T) {
	normaliser := New()

	raw := &domain.RawTranscript{
		Slug:    "adam-fishman",
		URI:     "/episodes/adam-fishman/transcript.md",
		Content: []byte("Adam (00:00:05): hello"),
	}

	result, err := normaliser.Normalise(context.Background(), raw)
	require.NoError(t, err)
	require.NotNil(t, result)

	assert.Equal(t, "adam-fishman", result.Transcript.Slug)
	assert.Equal(t, "ep_adam-fishman", result.Transcript.EpisodeID)
	assert.Equal(t, "[SPEAKER=Adam][TIME=00:00:05] hello", result.Transcript.Text)
}

func TestNormalise_DropsInvalidUTF8(t *testing.T) {
	normaliser := New()

	raw := &domain.RawTranscript{
		Slug:    "bad",
		Content: []byte("Adam (00:00:05): he\xffllo\xfe"),
	}

	result, err := normaliser.Normalise(context.Background(), raw)
	require.NoError(t, err)
	assert.Equal(t, "[SPEAKER=Adam][TIME=00:00:05] hello", result.Transcript.Text)
}

func TestNormalise_NilDocument(t *testing.T) {
	result, err := New().Normalise(context.Background(), nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Nil(t, result)
}
