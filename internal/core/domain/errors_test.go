package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestErrors_Existence tests that all error variables exist and are not nil
func TestErrors_Existence(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"ErrNotFound", ErrNotFound},
		{"ErrInvalidInput", ErrInvalidInput},
		{"ErrUnsupportedType", ErrUnsupportedType},
		{"ErrMalformedTime", ErrMalformedTime},
		{"ErrMissingTime", ErrMissingTime},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NotNil(t, tt.err)
			assert.NotEmpty(t, tt.err.Error())
		})
	}
}

func TestErrors_Distinct(t *testing.T) {
	assert.False(t, errors.Is(ErrMalformedTime, ErrMissingTime))
	assert.False(t, errors.Is(ErrNotFound, ErrInvalidInput))
}

func TestLineError(t *testing.T) {
	t.Run("message includes episode, line and value", func(t *testing.T) {
		err := &LineError{EpisodeID: "ep_demo", Line: 7, Value: "1:xx:00", Err: ErrMalformedTime}
		assert.Equal(t, `ep_demo line 7: malformed time "1:xx:00"`, err.Error())
	})

	t.Run("message without value", func(t *testing.T) {
		err := &LineError{EpisodeID: "ep_demo", Line: 2, Err: ErrMissingTime}
		assert.Equal(t, "ep_demo line 2: missing time", err.Error())
	})

	t.Run("unwraps to sentinel through wrapping", func(t *testing.T) {
		var err error = &LineError{EpisodeID: "ep_demo", Line: 1, Err: ErrMalformedTime}
		wrapped := fmt.Errorf("segment: %w", err)

		assert.ErrorIs(t, wrapped, ErrMalformedTime)

		var lineErr *LineError
		assert.True(t, errors.As(wrapped, &lineErr))
		assert.Equal(t, 1, lineErr.Line)
	})
}
