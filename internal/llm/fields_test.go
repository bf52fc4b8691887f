package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mailroom-dev/mailroom/constants"
)

func TestParseFieldsComplete(t *testing.T) {
	raw := `{
		"firstName": "Ivan",
		"middleName": "R",
		"lastName": "Sanchez",
		"docNumber": "BK8702",
		"facilityName": "California State Prison",
		"address": "P.O. Box 409089, Ione, CA 95640",
		"unit": "B4-217"
	}`
	f, err := parseFields(raw)
	require.NoError(t, err)
	assert.Equal(t, "Ivan", f.FirstName)
	assert.Equal(t, "R", f.MiddleName)
	assert.Equal(t, "Sanchez", f.LastName)
	assert.Equal(t, "BK8702", f.DocNumber)
	assert.Equal(t, "B4-217", f.Unit)
}

func TestParseFieldsDefaultsMissingRequired(t *testing.T) {
	// only lastName present; every other required key must become the
	// sentinel, not an error
	f, err := parseFields(`{"lastName": "Sanchez"}`)
	require.NoError(t, err)
	assert.Equal(t, constants.Unknown, f.FirstName)
	assert.Equal(t, "Sanchez", f.LastName)
	assert.Equal(t, constants.Unknown, f.DocNumber)
	assert.Equal(t, constants.Unknown, f.FacilityName)
	assert.Equal(t, constants.Unknown, f.Address)
	// optional fields stay empty
	assert.Empty(t, f.MiddleName)
	assert.Empty(t, f.Unit)
}

func TestParseFieldsNullsAndWhitespaceDefault(t *testing.T) {
	f, err := parseFields(`{"firstName": null, "lastName": "  ", "docNumber": "101241"}`)
	require.NoError(t, err)
	assert.Equal(t, constants.Unknown, f.FirstName)
	assert.Equal(t, constants.Unknown, f.LastName)
	assert.Equal(t, "101241", f.DocNumber)
}

func TestParseFieldsMalformedJSON(t *testing.T) {
	_, err := parseFields(`not json at all`)
	require.Error(t, err)
}

func TestParseFieldsRejectsNonObject(t *testing.T) {
	_, err := parseFields(`["firstName", "Ivan"]`)
	require.Error(t, err)
}

func TestParseFieldsRejectsWrongTypes(t *testing.T) {
	_, err := parseFields(`{"firstName": 42}`)
	require.Error(t, err)
}
