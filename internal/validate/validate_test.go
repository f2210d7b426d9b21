package validate

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/relato-labs/incident-cli/internal/model"
	"github.com/relato-labs/incident-cli/internal/textproc"
)

func TestIncident_PartialData(t *testing.T) {
	inc, err := Incident(map[string]any{
		"location":      "praca sete",
		"incident_type": "queda",
	}, nil, "houve uma queda na praca sete")

	require.NoError(t, err)
	require.NotNil(t, inc.Location)
	assert.Equal(t, "praca sete", *inc.Location)
	require.NotNil(t, inc.IncidentType)
	assert.Equal(t, "queda", *inc.IncidentType)
	assert.Nil(t, inc.OccurredAt)
	assert.Nil(t, inc.Impact)
}

func TestIncident_WrongTypesBecomeNil(t *testing.T) {
	inc, err := Incident(map[string]any{
		"occurred_at":   42,
		"location":      []any{"a", "b"},
		"incident_type": map[string]any{"x": 1},
		"impact":        true,
	}, nil, "relato qualquer")

	require.NoError(t, err)
	assert.Nil(t, inc.OccurredAt)
	assert.Nil(t, inc.Location)
	assert.Nil(t, inc.IncidentType)
	assert.Nil(t, inc.Impact)
}

func TestIncident_EmptyAndNullStringsBecomeNil(t *testing.T) {
	inc, err := Incident(map[string]any{
		"location": "  ",
		"impact":   "null",
	}, nil, "relato")

	require.NoError(t, err)
	assert.Nil(t, inc.Location)
	assert.Nil(t, inc.Impact)
}

func TestIncident_NotAnObject(t *testing.T) {
	for _, output := range []any{"texto solto", []any{1, 2}, 3.14, nil} {
		_, err := Incident(output, nil, "relato")
		assert.True(t, errors.Is(err, ErrValidationFailed))
	}
}

func TestIncident_InvalidTimeHintForcesSentinel(t *testing.T) {
	hints := []textproc.TemporalHint{
		{Span: "25:70", Kind: textproc.HintTime, Canonical: "25:70", Valid: false},
	}

	inc, err := Incident(map[string]any{
		"occurred_at": "2026-02-23 14:00",
	}, hints, "o registro marca 25:70 no log")

	require.NoError(t, err)
	require.NotNil(t, inc.OccurredAt)
	assert.Equal(t, model.TimeInvalid, *inc.OccurredAt)
	assert.True(t, inc.TimeIsInvalid())
}

func TestIncident_ImpossibleHourInRawText(t *testing.T) {
	inc, err := Incident(map[string]any{
		"occurred_at": "2026-02-23 14:00",
	}, nil, "erro ocorrido as 99h")

	require.NoError(t, err)
	require.NotNil(t, inc.OccurredAt)
	assert.Equal(t, model.TimeInvalid, *inc.OccurredAt)
}

func TestIncident_ImpossibleClockInModelValue(t *testing.T) {
	inc, err := Incident(map[string]any{
		"occurred_at": "2026-02-23 25:70",
	}, nil, "relato sem horas claras")

	require.NoError(t, err)
	require.NotNil(t, inc.OccurredAt)
	assert.Equal(t, model.TimeInvalid, *inc.OccurredAt)
}

func TestIncident_ValidTimeKept(t *testing.T) {
	hints := []textproc.TemporalHint{
		{Span: "14h", Kind: textproc.HintTime, Canonical: "14:00", Valid: true},
	}

	inc, err := Incident(map[string]any{
		"occurred_at": "2026-02-23 14:00",
	}, hints, "erro ocorrido as 14h")

	require.NoError(t, err)
	require.NotNil(t, inc.OccurredAt)
	assert.Equal(t, "2026-02-23 14:00", *inc.OccurredAt)
}

func TestIncident_NoTimeMentionStaysNil(t *testing.T) {
	inc, err := Incident(map[string]any{
		"location": "centro",
	}, nil, "houve um assalto no centro")

	require.NoError(t, err)
	assert.Nil(t, inc.OccurredAt)
	assert.False(t, inc.TimeIsInvalid())
}

func TestIncident_ModelCannotClaimSentinel(t *testing.T) {
	// The model answered INVALID but nothing in the text supports it; the
	// untraceable value is dropped.
	for _, claimed := range []string{"INVALID", "invalido", "INVALIDO"} {
		inc, err := Incident(map[string]any{
			"occurred_at": claimed,
		}, nil, "relato sem qualquer hora")

		require.NoError(t, err)
		assert.Nil(t, inc.OccurredAt)
	}
}

func TestIncident_UnresolvedDateHintForcesSentinel(t *testing.T) {
	hints := []textproc.TemporalHint{
		{Span: "99/99/2024", Kind: textproc.HintNumericDate, Valid: false},
	}

	inc, err := Incident(map[string]any{
		"occurred_at": "2024-01-01",
	}, hints, "anotado como 99/99/2024")

	require.NoError(t, err)
	require.NotNil(t, inc.OccurredAt)
	assert.Equal(t, model.TimeInvalid, *inc.OccurredAt)
}
