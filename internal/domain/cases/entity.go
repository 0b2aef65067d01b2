package cases

import "time"

// CaseID tipe untuk Case
type CaseID int64

// Case is a service recipient record.
type Case struct {
	ID          CaseID    `json:"id"`
	Name        string    `json:"name"`
	Birthdate   time.Time `json:"birthdate"`
	Gender      string    `json:"gender"`
	Description string    `json:"caseDescription,omitempty"`
	Types       []string  `json:"types"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Update carries the mutable fields of a case; nil means keep current value.
type Update struct {
	Name        *string
	Birthdate   *time.Time
	Gender      *string
	Description *string
	Types       []string
}
