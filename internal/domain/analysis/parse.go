package analysis

import (
	"encoding/json"
	"strings"
)

// StripFence removes a Markdown code-fence wrapper from model output.
//
// Rule: if the trimmed text starts with a ``` fence line (with or without an
// info tag such as "json"), that first line is dropped, and a trailing ```
// line is dropped if present. Anything else passes through unchanged. This
// is a best-effort textual normalization; the JSON decoder in Parse is the
// authoritative validator.
func StripFence(raw string) string {
	text := strings.TrimSpace(raw)
	if !strings.HasPrefix(text, "```") {
		return text
	}

	// drop the opening fence line, info tag included
	if i := strings.IndexByte(text, '\n'); i >= 0 {
		text = text[i+1:]
	} else {
		// a lone fence line carries no payload
		return ""
	}

	text = strings.TrimSpace(text)
	if strings.HasSuffix(text, "```") {
		text = strings.TrimSpace(strings.TrimSuffix(text, "```"))
	}
	return text
}

// parsePayload mirrors the required output schema with pointer fields so a
// decoded-but-absent field is distinguishable from an empty string.
type parsePayload struct {
	Summary *struct {
		Summary      *string `json:"summary"`
		Strengths    *string `json:"strengths"`
		Concerns     *string `json:"concerns"`
		PriorityItem *string `json:"priority_item"`
	} `json:"summary"`
	Suggestions *struct {
		Strategy *string `json:"strategy"`
	} `json:"suggestions"`
}

// Parse decodes cleaned model text into a Result.
// It fails with *MalformedOutputError when the text is not valid JSON or
// any required field is absent. The returned Result carries only the
// summary and suggestions sections; identity fields are stamped by the
// caller before persistence.
func Parse(text string) (*Result, error) {
	var p parsePayload
	if err := json.Unmarshal([]byte(text), &p); err != nil {
		return nil, &MalformedOutputError{Reason: "invalid JSON", Err: err}
	}

	if p.Summary == nil {
		return nil, &MalformedOutputError{Reason: "missing field summary"}
	}
	if p.Suggestions == nil {
		return nil, &MalformedOutputError{Reason: "missing field suggestions"}
	}
	for _, f := range []struct {
		name  string
		value *string
	}{
		{"summary.summary", p.Summary.Summary},
		{"summary.strengths", p.Summary.Strengths},
		{"summary.concerns", p.Summary.Concerns},
		{"summary.priority_item", p.Summary.PriorityItem},
		{"suggestions.strategy", p.Suggestions.Strategy},
	} {
		if f.value == nil {
			return nil, &MalformedOutputError{Reason: "missing field " + f.name}
		}
	}

	return &Result{
		Summary: Summary{
			Summary:      *p.Summary.Summary,
			Strengths:    *p.Summary.Strengths,
			Concerns:     *p.Summary.Concerns,
			PriorityItem: *p.Summary.PriorityItem,
		},
		Suggestions: Suggestions{Strategy: *p.Suggestions.Strategy},
	}, nil
}
