package summarize

import (
	"errors"
	"strings"
)

// DefaultMaxChunkLen is the largest chunk sent to the model. It
// leaves headroom for the prompt template inside a 4k-token context
// window.
const DefaultMaxChunkLen = 3584

// ErrUnchunkable means no split strategy kept every chunk within the
// limit.
var ErrUnchunkable = errors.New("text has a segment longer than the chunk limit")

// Chunk splits text into ordered segments of at most maxLen bytes,
// preferring paragraph boundaries and falling back to line
// boundaries. Text within the limit comes back as a single chunk
// equal to the input. Content is never truncated or dropped; if even
// single lines exceed the limit, Chunk fails.
func Chunk(text string, maxLen int) ([]string, error) {
	if len(text) <= maxLen {
		return []string{text}, nil
	}
	if chunks, ok := pack(strings.Split(text, "\n\n"), "\n\n", maxLen); ok {
		return chunks, nil
	}
	if chunks, ok := pack(strings.Split(text, "\n"), "\n", maxLen); ok {
		return chunks, nil
	}
	return nil, ErrUnchunkable
}

// pack greedily joins parts back together with sep, starting a new
// chunk whenever the next part would push the current one past
// maxLen. It reports false if any single part is already too long.
func pack(parts []string, sep string, maxLen int) ([]string, bool) {
	var chunks []string
	current := ""
	started := false

	for _, part := range parts {
		if len(part) > maxLen {
			return nil, false
		}
		switch {
		case !started:
			current = part
			started = true
		case len(current)+len(sep)+len(part) <= maxLen:
			current += sep + part
		default:
			chunks = append(chunks, current)
			current = part
		}
	}
	if started {
		chunks = append(chunks, current)
	}
	return chunks, true
}
