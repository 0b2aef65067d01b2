package analysis

import (
	"time"

	"github.com/guardtree/guardtree-api/internal/domain/forms"
)

// AnalysisID identifier type
type AnalysisID string

// Summary is the structured summary section of a model analysis.
type Summary struct {
	Summary      string `json:"summary"`
	Strengths    string `json:"strengths"`
	Concerns     string `json:"concerns"`
	PriorityItem string `json:"priority_item"`
}

// Suggestions is the strategy section of a model analysis.
type Suggestions struct {
	Strategy string `json:"strategy"`
}

// Result represents the LLM-derived analysis stored for one filled form.
// At most one Result exists per (filled_form_id, form_type) pair.
type Result struct {
	ID           AnalysisID     `json:"id"`
	FilledFormID forms.FormID   `json:"filled_form_id"`
	FormType     forms.FormType `json:"form_type"`
	Summary      Summary        `json:"summary"`
	Suggestions  Suggestions    `json:"suggestions"`
	RawURL       string         `json:"raw_url,omitempty"`
	CreatedAt    time.Time      `json:"created_at"`
}
