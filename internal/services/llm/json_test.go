package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractJSON(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "bare json",
			input:    `{"a": 1}`,
			expected: `{"a": 1}`,
		},
		{
			name:     "json fence",
			input:    "Here is the analysis:\n```json\n{\"a\": 1}\n```\nDone.",
			expected: `{"a": 1}`,
		},
		{
			name:     "plain fence",
			input:    "```\n{\"a\": 1}\n```",
			expected: `{"a": 1}`,
		},
		{
			name:     "surrounding whitespace",
			input:    "  \n{\"a\": 1}\n  ",
			expected: `{"a": 1}`,
		},
		{
			name:     "unterminated fence falls back to trim",
			input:    "```json\n{\"a\": 1}",
			expected: "```json\n{\"a\": 1}",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ExtractJSON(tt.input))
		})
	}
}

func TestLookup(t *testing.T) {
	for _, id := range []string{"claude", "gemini", "openai", "deepseek"} {
		desc, ok := Lookup(id)
		assert.True(t, ok, id)
		assert.Equal(t, id, desc.ID)
		assert.True(t, desc.RequiresKey)
		assert.NotEmpty(t, desc.DefaultModel)
		assert.NotEmpty(t, desc.EnvKey)
	}

	_, ok := Lookup("mistral")
	assert.False(t, ok)

	// case and whitespace tolerant
	desc, ok := Lookup(" Claude ")
	assert.True(t, ok)
	assert.Equal(t, "claude", desc.ID)
}
