package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewEpisodeStats(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		words int
		lines int
	}{
		{"empty", "", 0, 0},
		{"single line", "one two three", 3, 1},
		{"trailing newline", "a b\nc\n", 3, 2},
		{"blank lines count", "a\n\nb", 2, 3},
		{"crlf", "a\r\nb\r\n", 2, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewEpisodeStats("slug", tt.text)
			assert.Equal(t, "slug", s.Episode)
			assert.Equal(t, tt.words, s.WordCount)
			assert.Equal(t, tt.lines, s.LineCount)
		})
	}
}
