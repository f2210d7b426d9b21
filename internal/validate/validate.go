// Package validate coerces raw model output into the incident schema. It is
// the single authority for the null-vs-INVALID distinction: the model's
// structured output is treated as untrusted input, and nothing the model
// claims can override what the preprocessing found in the text.
package validate

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/relato-labs/incident-cli/internal/model"
	"github.com/relato-labs/incident-cli/internal/textproc"
)

// ErrValidationFailed means the model output was not a JSON object at all,
// so not even field-by-field salvage is possible.
var ErrValidationFailed = eris.New("validation failed")

var (
	// impossibleHour catches hour-only mentions like "73h" or "999h" in the
	// raw report text.
	impossibleHour = regexp.MustCompile(`\b([2-9]\d|\d{3,})h\b`)
	clockValue     = regexp.MustCompile(`\b(\d{1,2}):(\d{2})\b`)
)

// Incident validates decoded model output against the incident schema.
// Fields that are absent, of the wrong type or empty become nil rather than
// failing the request; one bad field never discards the rest. The occurred_at
// field additionally passes through impossible-time detection and is forced
// to the INVALID sentinel when the report stated a time that cannot exist.
// Only a structurally unusable output (not an object) returns an error.
func Incident(output any, hints []textproc.TemporalHint, rawText string) (*model.Incident, error) {
	fields, ok := output.(map[string]any)
	if !ok {
		return nil, eris.Wrap(ErrValidationFailed, "model output is not a json object")
	}

	inc := &model.Incident{
		OccurredAt:   stringField(fields, "occurred_at"),
		Location:     stringField(fields, "location"),
		IncidentType: stringField(fields, "incident_type"),
		Impact:       stringField(fields, "impact"),
	}
	inc.OccurredAt = fixOccurredAt(inc.OccurredAt, hints, rawText)

	return inc, nil
}

// stringField coerces one field to a non-empty string or nil.
func stringField(fields map[string]any, key string) *string {
	v, ok := fields[key]
	if !ok {
		return nil
	}
	s, ok := v.(string)
	if !ok {
		return nil
	}
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, "null") {
		return nil
	}
	return &s
}

// fixOccurredAt applies the null-vs-INVALID rule. When preprocessing or the
// raw text shows an impossible time, the sentinel wins regardless of what the
// model answered. Conversely a sentinel claimed by the model without any
// impossible time in the text is discarded: the value would not be traceable
// to the input.
func fixOccurredAt(value *string, hints []textproc.TemporalHint, rawText string) *string {
	if timeImpossible(hints, rawText, value) {
		s := model.TimeInvalid
		return &s
	}
	if value != nil && isSentinel(*value) {
		return nil
	}
	return value
}

func isSentinel(s string) bool {
	s = strings.ToUpper(strings.TrimSpace(s))
	return s == model.TimeInvalid || s == "INVALIDO"
}

// timeImpossible reports whether a stated date or time is logically
// impossible: an unresolved or out-of-range temporal hint, an impossible
// hour pattern in the raw text, or an out-of-range HH:MM inside the value
// the model returned.
func timeImpossible(hints []textproc.TemporalHint, rawText string, value *string) bool {
	for _, h := range hints {
		if !h.Valid {
			return true
		}
	}

	if impossibleHour.MatchString(strings.ToLower(rawText)) {
		return true
	}

	if value != nil {
		for _, m := range clockValue.FindAllStringSubmatch(*value, -1) {
			hour, _ := strconv.Atoi(m[1])
			minute, _ := strconv.Atoi(m[2])
			if hour > 23 || minute > 59 {
				return true
			}
		}
	}

	return false
}
