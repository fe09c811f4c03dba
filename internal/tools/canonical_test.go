package tools

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanonicalizeStructuredResult(t *testing.T) {
	out := Canonicalize(map[string]any{
		"status":   "ok",
		"appended": []string{"2024-01-01T00:00:00", "Аня", "<b>"},
	})

	var decoded map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &decoded))
	assert.Equal(t, "ok", decoded["status"])
	assert.Contains(t, out, "Аня")
	assert.Contains(t, out, "<b>")
	assert.NotContains(t, out, "\n")
}

func TestCanonicalizePlainString(t *testing.T) {
	assert.Equal(t, "saved, thanks", Canonicalize("saved, thanks"))
	assert.Equal(t, `{"not":"reencoded"}`, Canonicalize(`{"not":"reencoded"}`))
}

func TestCanonicalizeOtherValues(t *testing.T) {
	assert.Equal(t, "42", Canonicalize(42))
	assert.Equal(t, "true", Canonicalize(true))
	assert.Equal(t, "", Canonicalize(nil))
	assert.Equal(t, `[1,2]`, Canonicalize([]int{1, 2}))
	assert.Equal(t, `{"A":1}`, Canonicalize(struct{ A int }{A: 1}))
}
