package llm

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/mailroom-dev/mailroom/constants"
)

// Fields is the normalized shape we want from the model.
type Fields struct {
	FirstName    string `json:"firstName"`
	MiddleName   string `json:"middleName,omitempty"`
	LastName     string `json:"lastName"`
	DocNumber    string `json:"docNumber"`
	FacilityName string `json:"facilityName"`
	Address      string `json:"address"`
	Unit         string `json:"unit,omitempty"`
}

// requiredKeys are defaulted to the Unknown sentinel when missing or
// empty; they never fail the document and never trigger a retry.
var requiredKeys = []string{"firstName", "lastName", "docNumber", "facilityName", "address"}

// fieldsSchemaJSON is deliberately lenient: it pins the shape (an object
// whose known keys are strings or null) without requiring any key, so a
// sparse but well-formed response is accepted and defaulted rather than
// retried. Only structurally wrong output counts as malformed.
const fieldsSchemaJSON = `{
  "type": "object",
  "properties": {
    "firstName":    {"type": ["string", "null"]},
    "middleName":   {"type": ["string", "null"]},
    "lastName":     {"type": ["string", "null"]},
    "docNumber":    {"type": ["string", "null"]},
    "facilityName": {"type": ["string", "null"]},
    "address":      {"type": ["string", "null"]},
    "unit":         {"type": ["string", "null"]}
  }
}`

var fieldsSchema = jsonschema.MustCompileString("fields.json", fieldsSchemaJSON)

// parseFields validates and decodes a model response, then applies the
// Unknown defaulting to required keys.
func parseFields(raw string) (Fields, error) {
	var doc any
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		return Fields{}, fmt.Errorf("malformed json: %w", err)
	}
	if err := fieldsSchema.Validate(doc); err != nil {
		return Fields{}, fmt.Errorf("schema validation: %w", err)
	}

	m, ok := doc.(map[string]any)
	if !ok {
		return Fields{}, fmt.Errorf("malformed json: not an object")
	}
	get := func(k string) string {
		if v, ok := m[k].(string); ok {
			return strings.TrimSpace(v)
		}
		return ""
	}

	f := Fields{
		FirstName:    get("firstName"),
		MiddleName:   get("middleName"),
		LastName:     get("lastName"),
		DocNumber:    get("docNumber"),
		FacilityName: get("facilityName"),
		Address:      get("address"),
		Unit:         get("unit"),
	}
	f.applyDefaults()
	return f, nil
}

func (f *Fields) applyDefaults() {
	fill := func(p *string) {
		if *p == "" {
			*p = constants.Unknown
		}
	}
	fill(&f.FirstName)
	fill(&f.LastName)
	fill(&f.DocNumber)
	fill(&f.FacilityName)
	fill(&f.Address)
}
