package store

import (
	"time"

	"github.com/mailroom-dev/mailroom/constants"
	"github.com/mailroom-dev/mailroom/internal/common"
	"github.com/mailroom-dev/mailroom/internal/llm"
)

const (
	maxNameLength = 100
	maxDocLength  = 50
)

// Record is the persisted unit: one row per processed letter.
// Append-only; identity is the row position.
type Record struct {
	FirstName    string `json:"first_name"`
	MiddleName   string `json:"middle_name,omitempty"`
	LastName     string `json:"last_name"`
	DateCreated  string `json:"date_created"` // YYYY-MM-DD
	DocNumber    string `json:"doc_number"`
	FacilityName string `json:"facility_name"`
	Address      string `json:"address"`
	Unit         string `json:"unit,omitempty"`
	Summary      string `json:"ai_summary"`
	RawText      string `json:"raw_text"`
}

// NewRecord builds a record from extracted fields, stamping today's
// date. Required fields arrive already defaulted to Unknown upstream.
func NewRecord(fields llm.Fields, summary, rawText string) Record {
	return Record{
		FirstName:    fields.FirstName,
		MiddleName:   fields.MiddleName,
		LastName:     fields.LastName,
		DateCreated:  time.Now().Format(constants.DateLayout),
		DocNumber:    fields.DocNumber,
		FacilityName: fields.FacilityName,
		Address:      fields.Address,
		Unit:         fields.Unit,
		Summary:      summary,
		RawText:      rawText,
	}
}

// Validate enforces presence of required fields and the length bounds
// the sheet consumers rely on.
func (r Record) Validate() error {
	required := map[string]string{
		"first name":    r.FirstName,
		"last name":     r.LastName,
		"DOC number":    r.DocNumber,
		"facility name": r.FacilityName,
		"address":       r.Address,
	}
	for name, v := range required {
		if v == "" {
			return common.ValidationError("missing required field: %s", name)
		}
	}
	if len(r.FirstName) > maxNameLength {
		return common.ValidationError("first name too long")
	}
	if len(r.LastName) > maxNameLength {
		return common.ValidationError("last name too long")
	}
	if len(r.DocNumber) > maxDocLength {
		return common.ValidationError("DOC number too long")
	}
	return nil
}

// row returns the record's cells in the fixed column order.
func (r Record) row() []string {
	return []string{
		r.FirstName,
		r.MiddleName,
		r.LastName,
		r.DateCreated,
		r.DocNumber,
		r.FacilityName,
		r.Address,
		r.Unit,
		r.Summary,
		r.RawText,
	}
}
