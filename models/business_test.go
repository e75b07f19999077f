package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPresenceStates(t *testing.T) {
	var zero Presence
	assert.False(t, zero.IsResolved())
	assert.False(t, zero.IsPresent())
	assert.False(t, zero.IsAbsent())

	assert.True(t, Absent().IsResolved())
	assert.True(t, Absent().IsAbsent())

	p := Present("+52 642 000 0000")
	assert.True(t, p.IsPresent())
	assert.Equal(t, "+52 642 000 0000", p.Value())

	assert.True(t, PresenceOf("").IsAbsent())
	assert.True(t, PresenceOf("https://x.mx").IsPresent())
}

func TestBusinessProfileJSONUsesAbsentMarker(t *testing.T) {
	profile := BusinessProfile{
		Name:          "Tacos El Pariente",
		Phone:         Present("+52 642 123 4567"),
		Website:       Absent(),
		AutoResponder: Absent(),
		Categories:    []string{"restaurant"},
	}

	raw, err := json.Marshal(profile)
	require.NoError(t, err)

	var generic map[string]any
	require.NoError(t, json.Unmarshal(raw, &generic))
	assert.Equal(t, "+52 642 123 4567", generic["telefono"])
	assert.Equal(t, AbsentMarker, generic["web"])
	assert.Equal(t, AbsentMarker, generic["bot"])

	var back BusinessProfile
	require.NoError(t, json.Unmarshal(raw, &back))
	assert.Equal(t, profile, back)
}

func TestUnresolvedPresenceMarshalsNull(t *testing.T) {
	raw, err := json.Marshal(struct {
		Web Presence `json:"web"`
	}{})
	require.NoError(t, err)
	assert.JSONEq(t, `{"web":null}`, string(raw))
}

func TestAuditRequestValidate(t *testing.T) {
	assert.NoError(t, AuditRequest{BusinessName: "Farmacia Lupita"}.Validate())

	err := AuditRequest{BusinessName: "   ", City: "Navojoa"}.Validate()
	var inputErr *ClientInputError
	require.ErrorAs(t, err, &inputErr)
	assert.Equal(t, "businessName", inputErr.Field)
}
