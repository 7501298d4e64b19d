package summarize

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChunk(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		maxLen   int
		expected []string
	}{
		{
			name:     "text under the limit is one chunk",
			text:     "hello\n\nworld",
			maxLen:   3584,
			expected: []string{"hello\n\nworld"},
		},
		{
			name:     "text exactly at the limit is one chunk",
			text:     "abcde",
			maxLen:   5,
			expected: []string{"abcde"},
		},
		{
			name:     "paragraphs pack greedily",
			text:     "aaaa\n\nbbbb\n\ncccc",
			maxLen:   10,
			expected: []string{"aaaa\n\nbbbb", "cccc"},
		},
		{
			name:     "falls back to line boundaries",
			text:     "aaaa\nbbbb\nccccc",
			maxLen:   10,
			expected: []string{"aaaa\nbbbb", "ccccc"},
		},
		{
			name:     "oversized paragraph splits on its lines",
			text:     "aaaa\nbbbb\n\ncccc",
			maxLen:   6,
			expected: []string{"aaaa", "bbbb", "cccc"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chunks, err := Chunk(tt.text, tt.maxLen)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, chunks)
		})
	}
}

func TestChunk_OversizedLineFails(t *testing.T) {
	_, err := Chunk(strings.Repeat("x", 11), 10)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnchunkable)
}
