package extractors

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMergeNumberedLines(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "empty text",
			input:    "",
			expected: "",
		},
		{
			name:     "no numbered lines",
			input:    "WHEREAS, the Council finds;\nNOW, THEREFORE,",
			expected: "WHEREAS, the Council finds;\nNOW, THEREFORE,",
		},
		{
			name:     "three line run",
			input:    "1 the City of Seattle\n2 adopts the following\n3 ordinance.",
			expected: "the City of Seattle adopts the following ordinance.",
		},
		{
			name:     "run ends at plain line",
			input:    "1 first\n2 second\n3 third\nSection 2.",
			expected: "first second third\nSection 2.",
		},
		{
			name:     "run ends when the count skips",
			input:    "1 first\n2 second\n3 third\n5 fifth",
			expected: "first second third\n5 fifth",
		},
		{
			name:     "two numbered lines are not a run",
			input:    "1 first\n2 second\nplain",
			expected: "1 first\n2 second\nplain",
		},
		{
			name:     "lookahead gap is not a run",
			input:    "1 first\n3 third\n2 second",
			expected: "1 first\n3 third\n2 second",
		},
		{
			name:     "bare number contributes nothing",
			input:    "1 first\n2\n3 third",
			expected: "first third",
		},
		{
			name:     "bare 1 starts the run with empty text",
			input:    "1\n2 second\n3 third",
			expected: " second third",
		},
		{
			name:     "run continues into double digits",
			input:    "1 a\n2 b\n3 c\n4 d\n5 e\n6 f\n7 g\n8 h\n9 i\n10 j\n11 k",
			expected: "a b c d e f g h i j k",
		},
		{
			name:     "line ending a run does not open a new one",
			input:    "1 a\n2 b\n3 c\n1 d\n2 e\n3 f",
			expected: "a b c\n1 d\n2 e\n3 f",
		},
		{
			name:     "text before and after the run",
			input:    "ORDINANCE 126000\n1 a\n2 b\n3 c\nSigned.",
			expected: "ORDINANCE 126000\na b c\nSigned.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, mergeNumberedLines(tt.input))
		})
	}
}

func TestStripBoilerplate(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "no marker",
			input:    "a\nb\nc",
			expected: "a\nb\nc",
		},
		{
			name:     "marker and three lines removed",
			input:    "keep\nTemplate last revised December 6, 2022\npage 1 of 2\nfooter\njunk\nalso keep",
			expected: "keep\nalso keep",
		},
		{
			name:     "block reaching the last line removed",
			input:    "keep\nTemplate last revised\none\ntwo\nthree",
			expected: "keep",
		},
		{
			name:     "incomplete block at the end kept",
			input:    "keep\nTemplate last revised\none\ntwo",
			expected: "keep\nTemplate last revised\none\ntwo",
		},
		{
			name:     "two blocks removed",
			input:    "a\nTemplate last revised\nx\ny\nz\nb\nTemplate last revised\nx\ny\nz\nc",
			expected: "a\nb\nc",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, stripBoilerplate(tt.input))
		})
	}
}

func TestCleanPage_NumbersMergeBeforeBoilerplate(t *testing.T) {
	// Merging first leaves too few lines after the marker for a
	// full block, so the marker survives. The reverse order would
	// have deleted the numbered lines as boilerplate.
	input := "Template last revised\n1 a\n2 b\n3 c\ntail"
	assert.Equal(t, "Template last revised\na b c\ntail", cleanPage(input))
}

func TestCleanPage_AppliesBothPasses(t *testing.T) {
	input := "1 a\n2 b\n3 c\nTemplate last revised\nw\nx\ny\ntail"
	assert.Equal(t, "a b c\ntail", cleanPage(input))
}

func TestSplitLines(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []string
	}{
		{
			name:     "empty",
			input:    "",
			expected: nil,
		},
		{
			name:     "trailing newline dropped",
			input:    "a\nb\n",
			expected: []string{"a", "b"},
		},
		{
			name:     "blank interior line kept",
			input:    "a\n\nb",
			expected: []string{"a", "", "b"},
		},
		{
			name:     "single newline is one empty line",
			input:    "\n",
			expected: []string{""},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, splitLines(tt.input))
		})
	}
}
