package model

// TimeInvalid is the sentinel stored in a time field when the report stated
// a time that is logically impossible (e.g. "73h", "25:70"). It is distinct
// from nil, which means no time was stated or inferable.
const TimeInvalid = "INVALID"

// Incident is the structured record extracted from a free-form report.
// Every field is independently nullable: a nil pointer means the value could
// not be inferred from the text, never that extraction failed as a whole.
type Incident struct {
	// OccurredAt is the date and/or time of the event, normally
	// "YYYY-MM-DD HH:MM" (either half may be absent), or TimeInvalid when
	// the report stated an impossible time.
	OccurredAt *string `json:"occurred_at"`

	// Location is the city, public place or spatial reference mentioned.
	Location *string `json:"location"`

	// IncidentType is a short description of what happened.
	IncidentType *string `json:"incident_type"`

	// Impact is the consequence of the incident or the systems affected.
	Impact *string `json:"impact"`
}

// TimeIsInvalid reports whether the occurred_at field carries the
// impossible-time sentinel.
func (i *Incident) TimeIsInvalid() bool {
	return i.OccurredAt != nil && *i.OccurredAt == TimeInvalid
}

// String returns a pointer to s, for building incidents in one expression.
func String(s string) *string {
	return &s
}
