package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimeIsInvalid(t *testing.T) {
	assert.False(t, (&Incident{}).TimeIsInvalid())
	assert.False(t, (&Incident{OccurredAt: String("2026-02-23 14:00")}).TimeIsInvalid())
	assert.True(t, (&Incident{OccurredAt: String(TimeInvalid)}).TimeIsInvalid())
}

func TestIncident_MarshalNulls(t *testing.T) {
	out, err := json.Marshal(&Incident{IncidentType: String("incendio")})
	require.NoError(t, err)

	assert.JSONEq(t, `{
		"occurred_at": null,
		"location": null,
		"incident_type": "incendio",
		"impact": null
	}`, string(out))
}
