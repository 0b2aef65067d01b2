package forms

import (
	"fmt"
	"time"
)

// FormID tipe untuk filled form
type FormID int64

// FormType enum: which assessment template a filled form follows
type FormType string

const (
	FormTypeA FormType = "A"
	FormTypeB FormType = "B"
	FormTypeC FormType = "C"
	FormTypeD FormType = "D"
	FormTypeE FormType = "E"
	FormTypeF FormType = "F"
	FormTypeG FormType = "G"
)

// Valid reports whether the form type is one of the known templates.
func (t FormType) Valid() bool {
	switch t {
	case FormTypeA, FormTypeB, FormTypeC, FormTypeD, FormTypeE, FormTypeF, FormTypeG:
		return true
	}
	return false
}

// SupportLevel graded assistance score for an assessment item.
// 4 = full physical assistance ... 0 = no assistance needed.
// A nil *SupportLevel means the item is not applicable.
type SupportLevel int

const (
	SupportNone    SupportLevel = 0
	SupportMonitor SupportLevel = 1
	SupportPrompt  SupportLevel = 2
	SupportPartial SupportLevel = 3
	SupportFull    SupportLevel = 4
)

// Valid reports whether the level is inside the 0-4 scale.
func (l SupportLevel) Valid() bool { return l >= SupportNone && l <= SupportFull }

// Entry is one assessment item inside a filled form.
type Entry struct {
	Activity    string        `json:"activity"`
	Item        string        `json:"item"`
	Subitem     string        `json:"subitem,omitempty"`
	CoreArea    string        `json:"core_area"`
	SupportType *SupportLevel `json:"support_type"`
}

// Aggregate Root: FormContent, the filled assessment for one
// (case_id, year, form_type) triple.
type FormContent struct {
	ID        FormID    `json:"id"`
	CaseID    int64     `json:"case_id"`
	Year      int       `json:"year"`
	FormType  FormType  `json:"form_type"`
	Entries   []Entry   `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// Key renders the lookup identity of the form, used for per-key locking.
func (f *FormContent) Key() string {
	return fmt.Sprintf("%d:%d:%s", f.CaseID, f.Year, f.FormType)
}
