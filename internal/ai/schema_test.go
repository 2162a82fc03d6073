package ai

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEnvelope_Valid(t *testing.T) {
	env, err := ParseEnvelope(`{"customized_markdown": "# Resume", "summary": "reordered skills"}`)
	require.NoError(t, err)
	assert.Equal(t, "# Resume", env.CustomizedMarkdown)
	assert.Equal(t, "reordered skills", env.Summary)
}

func TestParseEnvelope_SummaryOptional(t *testing.T) {
	env, err := ParseEnvelope(`{"customized_markdown": "# Resume"}`)
	require.NoError(t, err)
	assert.Empty(t, env.Summary)
}

func TestParseEnvelope_RejectsMissingDocument(t *testing.T) {
	_, err := ParseEnvelope(`{"summary": "forgot the document"}`)
	assert.Error(t, err)
}

func TestParseEnvelope_RejectsUnknownFields(t *testing.T) {
	_, err := ParseEnvelope(`{"customized_markdown": "# Resume", "confidence": 0.9}`)
	assert.Error(t, err)
}

func TestParseEnvelope_RejectsMalformedJSON(t *testing.T) {
	_, err := ParseEnvelope(`not json at all`)
	assert.Error(t, err)
}

func TestParseEnvelope_RejectsWhitespaceDocument(t *testing.T) {
	_, err := ParseEnvelope(`{"customized_markdown": "   "}`)
	assert.Error(t, err)
}

func TestCleanJSONBlock(t *testing.T) {
	raw := "```json\n{\"customized_markdown\": \"x\"}\n```"
	assert.Equal(t, `{"customized_markdown": "x"}`, cleanJSONBlock(raw))
	assert.Equal(t, `{"a": 1}`, cleanJSONBlock("{\"a\": 1}"))
}
