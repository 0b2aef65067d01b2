package analysis

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validOutput = `{
  "summary": {
    "summary": "整體能力穩定",
    "strengths": "進食與如廁獨立",
    "concerns": "洗澡需大量協助",
    "priority_item": "洗澡"
  },
  "suggestions": {
    "strategy": "分段練習洗澡步驟"
  }
}`

func TestStripFence(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"no fence", `{"a":1}`, `{"a":1}`},
		{"json fence", "```json\n{\"a\":1}\n```", `{"a":1}`},
		{"bare fence", "```\n{\"a\":1}\n```", `{"a":1}`},
		{"fence without closing", "```json\n{\"a\":1}", `{"a":1}`},
		{"surrounding whitespace", "  \n```json\n{\"a\":1}\n```\n  ", `{"a":1}`},
		{"lone fence line", "```", ""},
		{"fence inside body untouched", "{\"a\":\"```\"}", "{\"a\":\"```\"}"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StripFence(tt.in))
		})
	}
}

// The fenced and unfenced renditions of the same JSON must parse to the
// same result, byte for byte on every field.
func TestStripFenceRoundTrip(t *testing.T) {
	fenced := "```json\n" + validOutput + "\n```"

	plain, err := Parse(StripFence(validOutput))
	require.NoError(t, err)
	stripped, err := Parse(StripFence(fenced))
	require.NoError(t, err)

	assert.Equal(t, plain, stripped)
}

func TestParseValid(t *testing.T) {
	r, err := Parse(validOutput)
	require.NoError(t, err)

	assert.Equal(t, "整體能力穩定", r.Summary.Summary)
	assert.Equal(t, "進食與如廁獨立", r.Summary.Strengths)
	assert.Equal(t, "洗澡需大量協助", r.Summary.Concerns)
	assert.Equal(t, "洗澡", r.Summary.PriorityItem)
	assert.Equal(t, "分段練習洗澡步驟", r.Suggestions.Strategy)
}

func TestParseEmptyStringsAllowed(t *testing.T) {
	// present-but-empty is valid; only absence is malformed
	r, err := Parse(`{
		"summary": {"summary":"","strengths":"","concerns":"","priority_item":""},
		"suggestions": {"strategy":""}
	}`)
	require.NoError(t, err)
	assert.Empty(t, r.Summary.Summary)
}

func TestParseMalformed(t *testing.T) {
	tests := []struct {
		name   string
		in     string
		reason string
	}{
		{"not JSON", "這不是 JSON", "invalid JSON"},
		{"empty input", "", "invalid JSON"},
		{"missing summary section", `{"suggestions":{"strategy":"x"}}`, "missing field summary"},
		{"missing suggestions section", `{"summary":{"summary":"x","strengths":"x","concerns":"x","priority_item":"x"}}`, "missing field suggestions"},
		{"missing summary.summary", `{"summary":{"strengths":"x","concerns":"x","priority_item":"x"},"suggestions":{"strategy":"x"}}`, "missing field summary.summary"},
		{"missing summary.strengths", `{"summary":{"summary":"x","concerns":"x","priority_item":"x"},"suggestions":{"strategy":"x"}}`, "missing field summary.strengths"},
		{"missing summary.concerns", `{"summary":{"summary":"x","strengths":"x","priority_item":"x"},"suggestions":{"strategy":"x"}}`, "missing field summary.concerns"},
		{"missing summary.priority_item", `{"summary":{"summary":"x","strengths":"x","concerns":"x"},"suggestions":{"strategy":"x"}}`, "missing field summary.priority_item"},
		{"missing suggestions.strategy", `{"summary":{"summary":"x","strengths":"x","concerns":"x","priority_item":"x"},"suggestions":{}}`, "missing field suggestions.strategy"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.in)
			require.Error(t, err)

			var m *MalformedOutputError
			require.True(t, errors.As(err, &m))
			assert.Equal(t, tt.reason, m.Reason)
		})
	}
}

func TestParseIgnoresExtraFields(t *testing.T) {
	var doc map[string]any
	require.NoError(t, json.Unmarshal([]byte(validOutput), &doc))
	doc["extra"] = "ignored"
	b, err := json.Marshal(doc)
	require.NoError(t, err)

	_, err = Parse(string(b))
	assert.NoError(t, err)
}
