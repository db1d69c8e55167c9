package ai

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractJSON_WholeString(t *testing.T) {
	raw, ok := ExtractJSON(`{"context_warnings": ["pack a jacket"]}`)
	require.True(t, ok)

	var out map[string][]string
	require.NoError(t, json.Unmarshal(raw, &out))
	assert.Equal(t, []string{"pack a jacket"}, out["context_warnings"])
}

func TestExtractJSON_WholeStringArray(t *testing.T) {
	raw, ok := ExtractJSON(`["a", "b"]`)
	require.True(t, ok)
	assert.JSONEq(t, `["a","b"]`, string(raw))
}

func TestExtractJSON_JSONFence(t *testing.T) {
	text := "Here is the analysis:\n```json\n{\"key\": \"value\"}\n```\nLet me know if you need more."
	raw, ok := ExtractJSON(text)
	require.True(t, ok)
	assert.JSONEq(t, `{"key":"value"}`, string(raw))
}

func TestExtractJSON_AnyFence(t *testing.T) {
	text := "Sure!\n```\n[\"one\", \"two\", \"three\"]\n```"
	raw, ok := ExtractJSON(text)
	require.True(t, ok)
	assert.JSONEq(t, `["one","two","three"]`, string(raw))
}

func TestExtractJSON_PrefersJSONFenceOverAnyFence(t *testing.T) {
	text := "```\nnot json at all\n```\n```json\n{\"picked\": true}\n```"
	raw, ok := ExtractJSON(text)
	require.True(t, ok)
	assert.JSONEq(t, `{"picked":true}`, string(raw))
}

func TestExtractJSON_BraceSpan(t *testing.T) {
	text := `The model says {"suggestions": ["stay hydrated"]} and nothing else useful.`
	raw, ok := ExtractJSON(text)
	require.True(t, ok)
	assert.JSONEq(t, `{"suggestions":["stay hydrated"]}`, string(raw))
}

func TestExtractJSON_GreedyBraceSpan(t *testing.T) {
	// Greedy match covers nested braces in a single object.
	text := `prefix {"outer": {"inner": 1}} suffix`
	raw, ok := ExtractJSON(text)
	require.True(t, ok)
	assert.JSONEq(t, `{"outer":{"inner":1}}`, string(raw))
}

func TestExtractJSON_ProseOnly(t *testing.T) {
	_, ok := ExtractJSON("I'm sorry, I can't produce structured output right now.")
	assert.False(t, ok)
}

func TestExtractJSON_Empty(t *testing.T) {
	_, ok := ExtractJSON("")
	assert.False(t, ok)

	_, ok = ExtractJSON("   \n\t  ")
	assert.False(t, ok)
}

func TestExtractJSON_BareScalarRejected(t *testing.T) {
	// A bare string or number parses as JSON but is indistinguishable from prose.
	_, ok := ExtractJSON(`"just a string"`)
	assert.False(t, ok)

	_, ok = ExtractJSON(`42`)
	assert.False(t, ok)
}

func TestExtractJSON_MalformedFenceFallsThrough(t *testing.T) {
	// Fence content is broken but a valid object follows in plain text.
	text := "```json\n[broken\n```\nactual: {\"fixed\": true}"
	raw, ok := ExtractJSON(text)
	require.True(t, ok)
	assert.JSONEq(t, `{"fixed":true}`, string(raw))
}

func TestExtractStringList_BareArray(t *testing.T) {
	list, ok := ExtractStringList(`["Check local weather updates", "Dress in layers"]`)
	require.True(t, ok)
	assert.Equal(t, []string{"Check local weather updates", "Dress in layers"}, list)
}

func TestExtractStringList_FencedArray(t *testing.T) {
	list, ok := ExtractStringList("```json\n[\"fact one\", \"fact two\"]\n```")
	require.True(t, ok)
	assert.Len(t, list, 2)
}

func TestExtractStringList_ObjectIsNotAList(t *testing.T) {
	_, ok := ExtractStringList(`{"not": "a list"}`)
	assert.False(t, ok)
}

func TestExtractStringList_MixedTypesRejected(t *testing.T) {
	_, ok := ExtractStringList(`["a", 1, true]`)
	assert.False(t, ok)
}
