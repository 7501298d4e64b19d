package summarize

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opencivics/engage/internal/core/domain"
)

// mockLLM is a test double for driven.LLMService. It records prompts
// and replays scripted responses in order.
type mockLLM struct {
	responses []string
	prompts   []string
	err       error
}

func (m *mockLLM) Invoke(_ context.Context, prompt string) (string, error) {
	m.prompts = append(m.prompts, prompt)
	if m.err != nil {
		return "", m.err
	}
	if len(m.responses) == 0 {
		return "summary", nil
	}
	next := m.responses[0]
	m.responses = m.responses[1:]
	return next, nil
}

func (m *mockLLM) ModelName() string { return "mock-model" }

func (m *mockLLM) Ping(context.Context) error { return nil }

func (m *mockLLM) Close() error { return nil }

func TestEngine_Summarize_SingleChunk(t *testing.T) {
	llm := &mockLLM{responses: []string{"partial", "Final body.\nMore detail."}}
	engine := NewEngine(llm)

	result, err := engine.Summarize(context.Background(), "some text", "map: {text}", "combine: {text}", nil)
	require.NoError(t, err)

	success, ok := result.(*domain.SummarySuccess)
	require.True(t, ok, "expected a success result")
	assert.Equal(t, "some text", success.OriginalText)
	assert.Equal(t, "Final body.\nMore detail.", success.Body)
	assert.Equal(t, "Final body.", success.Headline)
	assert.Equal(t, []string{"some text"}, success.Chunks)
	assert.Equal(t, []string{"partial"}, success.ChunkSummaries)

	require.Len(t, llm.prompts, 2)
	assert.Equal(t, "map: some text", llm.prompts[0])
	assert.Equal(t, "combine: partial", llm.prompts[1])
}

func TestEngine_Summarize_MapReduce(t *testing.T) {
	llm := &mockLLM{responses: []string{"s1", "s2", "final"}}
	engine := NewEngine(llm, WithMaxChunkLen(5))

	result, err := engine.Summarize(context.Background(), "aaaa\n\nbbbb", "m {text}", "c {text}", nil)
	require.NoError(t, err)

	success, ok := result.(*domain.SummarySuccess)
	require.True(t, ok, "expected a success result")
	assert.Equal(t, []string{"aaaa", "bbbb"}, success.Chunks)
	assert.Equal(t, []string{"s1", "s2"}, success.ChunkSummaries)
	assert.Equal(t, "final", success.Body)

	// One invocation per chunk, then one reduce over the partials.
	require.Len(t, llm.prompts, 3)
	assert.Equal(t, "m aaaa", llm.prompts[0])
	assert.Equal(t, "m bbbb", llm.prompts[1])
	assert.Equal(t, "c s1\n\ns2", llm.prompts[2])
}

func TestEngine_Summarize_ContextValues(t *testing.T) {
	llm := &mockLLM{}
	engine := NewEngine(llm)

	subs := map[string]string{"title": "CB 120537"}
	_, err := engine.Summarize(context.Background(), "text", "map <<title>>: {text}", "combine <<title>>: {text}", subs)
	require.NoError(t, err)

	require.Len(t, llm.prompts, 2)
	assert.Equal(t, "map CB 120537: text", llm.prompts[0])
	assert.Equal(t, "combine CB 120537: summary", llm.prompts[1])
}

func TestEngine_Summarize_EmptyText(t *testing.T) {
	llm := &mockLLM{}
	engine := NewEngine(llm)

	result, err := engine.Summarize(context.Background(), "  \n\t ", "m {text}", "c {text}", nil)
	require.NoError(t, err)

	failure, ok := result.(*domain.SummaryFailure)
	require.True(t, ok, "expected a failure result")
	assert.Equal(t, "  \n\t ", failure.OriginalText)
	assert.Equal(t, "no text to summarize", failure.Message)
	assert.Empty(t, llm.prompts)
}

func TestEngine_Summarize_UnchunkableText(t *testing.T) {
	llm := &mockLLM{}
	engine := NewEngine(llm, WithMaxChunkLen(3))

	result, err := engine.Summarize(context.Background(), "abcdefgh", "m {text}", "c {text}", nil)
	require.NoError(t, err)

	failure, ok := result.(*domain.SummaryFailure)
	require.True(t, ok, "expected a failure result")
	assert.Equal(t, ErrUnchunkable.Error(), failure.Message)
	assert.Empty(t, llm.prompts)
}

func TestEngine_Summarize_ModelErrorPropagates(t *testing.T) {
	llm := &mockLLM{err: errors.New("rate limited")}
	engine := NewEngine(llm)

	result, err := engine.Summarize(context.Background(), "text", "m {text}", "c {text}", nil)
	require.Error(t, err)
	assert.Nil(t, result)
	assert.Contains(t, err.Error(), "map chunk 1 of 1")
	assert.Contains(t, err.Error(), "rate limited")
}

func TestEngine_Summarize_NilLLM(t *testing.T) {
	engine := NewEngine(nil)

	_, err := engine.Summarize(context.Background(), "text", "m {text}", "c {text}", nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrLLMUnavailable)
}

func TestFirstLine(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		expected string
	}{
		{
			name:     "single line",
			body:     "Headline only.",
			expected: "Headline only.",
		},
		{
			name:     "multiple lines",
			body:     "First line.\nSecond line.",
			expected: "First line.",
		},
		{
			name:     "leading blank lines skipped",
			body:     "\n\n  Padded answer.\nRest.",
			expected: "Padded answer.",
		},
		{
			name:     "empty body",
			body:     "",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, firstLine(tt.body))
		})
	}
}
