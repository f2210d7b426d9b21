package textproc

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"
)

// HintKind identifies which recognizer produced a temporal hint.
type HintKind string

const (
	HintRelativeDate HintKind = "relative_date"
	HintWeekday      HintKind = "weekday"
	HintTime         HintKind = "time"
	HintWrittenDate  HintKind = "written_date"
	HintNumericDate  HintKind = "numeric_date"
)

// TemporalHint is a span of text recognized as a date or time expression.
// Canonical holds the resolved ISO-like value ("2026-02-24", "14:00"); when
// Valid is false the expression was stated but is out of range or could not
// be resolved, and Canonical keeps the out-of-range rendering (or is empty).
// The INVALID output sentinel itself is applied only by the validator.
type TemporalHint struct {
	Span      string
	Kind      HintKind
	Canonical string
	Valid     bool
}

// relativeDays maps relative day words to their offset from the reference
// date. Matched fuzzily, so "onten" still resolves.
var relativeDays = map[string]int{
	"hoje":       0,
	"ontem":      -1,
	"anteontem":  -2,
	"ante-ontem": -2,
	"amanha":     1,
}

// weekdays maps weekday names (accent-stripped) to time.Weekday. Monday
// through Friday require the "-feira" suffix so that ordinals like
// "segunda vez" are not mistaken for dates.
var weekdays = map[string]time.Weekday{
	"domingo": time.Sunday,
	"segunda": time.Monday,
	"terca":   time.Tuesday,
	"quarta":  time.Wednesday,
	"quinta":  time.Thursday,
	"sexta":   time.Friday,
	"sabado":  time.Saturday,
}

var months = map[string]time.Month{
	"janeiro":   time.January,
	"fevereiro": time.February,
	"marco":     time.March,
	"abril":     time.April,
	"maio":      time.May,
	"junho":     time.June,
	"julho":     time.July,
	"agosto":    time.August,
	"setembro":  time.September,
	"outubro":   time.October,
	"novembro":  time.November,
	"dezembro":  time.December,
}

var (
	relativeDayKeys []string
	monthKeys       []string
)

func init() {
	for k := range relativeDays {
		relativeDayKeys = append(relativeDayKeys, k)
	}
	sort.Strings(relativeDayKeys)
	for k := range months {
		monthKeys = append(monthKeys, k)
	}
	sort.Strings(monthKeys)
}

var (
	wordCore           = regexp.MustCompile(`[^\p{L}\p{N}_-]`)
	weekdayPattern     = regexp.MustCompile(`\b(segunda|terca|quarta|quinta|sexta)-feira\b|\b(sabado|domingo)\b`)
	hourPattern        = regexp.MustCompile(`\b(\d{1,2})\s*h(?:oras?)?\s*(\d{0,2})`)
	colonPattern       = regexp.MustCompile(`\b(\d{1,2}):(\d{2})\b`)
	writtenDatePattern = regexp.MustCompile(`\b(\d{1,2})\s+de\s+(\p{L}+)\s+de\s+(\d{4})\b`)
	numericDatePattern = regexp.MustCompile(`\b(\d{1,2})[/-](\d{1,2})[/-](\d{2,4})\b`)
)

// TemporalExtractor resolves date and time expressions in normalized text
// against a fixed reference date, rewriting each match to its canonical form
// so the model receives disambiguated values instead of re-deriving them.
type TemporalExtractor struct {
	ref time.Time
}

// NewTemporalExtractor returns an extractor that resolves relative
// expressions ("ontem", "sexta-feira") against reference.
func NewTemporalExtractor(reference time.Time) *TemporalExtractor {
	return &TemporalExtractor{ref: reference}
}

// Extract scans text for temporal expressions and returns the annotated text
// plus the hints in recognition order. Recognizers run in a fixed sequence:
// relative day words, named weekdays, clock times, written dates, numeric
// dates; within a pass, matches are handled left to right. Input is expected
// to be normalized (lowercase, accent-free). No match is not an error.
func (e *TemporalExtractor) Extract(text string) (string, []TemporalHint) {
	if text == "" {
		return "", nil
	}

	var hints []TemporalHint
	text = e.resolveRelativeDays(text, &hints)
	text = e.resolveWeekdays(text, &hints)
	text = normalizeTimes(text, &hints)
	text = normalizeWrittenDates(text, &hints)
	text = normalizeNumericDates(text, &hints)

	return strings.TrimSpace(collapseWhitespace(text)), hints
}

// resolveRelativeDays substitutes the first fuzzy-matched relative day word
// with its absolute YYYY-MM-DD date. Newlines delimit tokens just like
// spaces, so a day word ending a line still resolves.
func (e *TemporalExtractor) resolveRelativeDays(text string, hints *[]TemporalHint) string {
	lines := strings.Split(text, "\n")
	for li, line := range lines {
		tokens := strings.Split(line, " ")
		for i, tok := range tokens {
			clean := wordCore.ReplaceAllString(tok, "")
			if clean == "" {
				continue
			}
			key, ok := closestKey(clean, relativeDayKeys)
			if !ok {
				continue
			}

			date := e.ref.AddDate(0, 0, relativeDays[key]).Format("2006-01-02")
			tokens[i] = strings.Replace(tok, clean, date, 1)
			*hints = append(*hints, TemporalHint{Span: clean, Kind: HintRelativeDate, Canonical: date, Valid: true})
			lines[li] = strings.Join(tokens, " ")
			return strings.Join(lines, "\n")
		}
	}
	return text
}

// resolveWeekdays substitutes the first named weekday with the date of its
// most recent occurrence at or before the reference date.
func (e *TemporalExtractor) resolveWeekdays(text string, hints *[]TemporalHint) string {
	m := weekdayPattern.FindStringSubmatchIndex(text)
	if m == nil {
		return text
	}

	name := ""
	for _, g := range []int{2, 4} {
		if m[g] >= 0 {
			name = text[m[g]:m[g+1]]
		}
	}

	span := text[m[0]:m[1]]
	delta := (int(e.ref.Weekday()) - int(weekdays[name]) + 7) % 7
	date := e.ref.AddDate(0, 0, -delta).Format("2006-01-02")
	*hints = append(*hints, TemporalHint{Span: span, Kind: HintWeekday, Canonical: date, Valid: true})

	return text[:m[0]] + date + text[m[1]:]
}

type byteRange struct{ start, end int }

func overlapsAny(ranges []byteRange, start, end int) bool {
	for _, r := range ranges {
		if start < r.end && end > r.start {
			return true
		}
	}
	return false
}

// normalizeTimes rewrites "14h30" / "9 horas" / "14:30" expressions to
// zero-padded HH:MM. Hours over 23 or minutes over 59 yield a hint with
// Valid=false but the value is still written through untouched.
func normalizeTimes(text string, hints *[]TemporalHint) string {
	text, produced := rewriteHourForm(text, hints)
	return rewriteColonForm(text, produced, hints)
}

// rewriteHourForm handles the "14h30" family. Matches preceded by "por " are
// skipped: those are durations ("por 2 horas"), not times of day. Returns the
// byte ranges of the rewritten values so the colon pass does not hint them a
// second time.
func rewriteHourForm(text string, hints *[]TemporalHint) (string, []byteRange) {
	matches := hourPattern.FindAllStringSubmatchIndex(text, -1)
	if matches == nil {
		return text, nil
	}

	var b strings.Builder
	var produced []byteRange
	last := 0
	for _, m := range matches {
		start, end := m[0], m[1]
		if strings.HasSuffix(text[:start], "por ") {
			continue
		}

		hour, _ := strconv.Atoi(text[m[2]:m[3]])
		minute := 0
		if m[4] != m[5] {
			// A digit right after the match means the minute group bit into
			// an unrelated number ("3h 150 pessoas"); treat it as a bare
			// hour instead of fabricating a minute.
			if end < len(text) && text[end] >= '0' && text[end] <= '9' {
				end = m[4]
			} else {
				minute, _ = strconv.Atoi(text[m[4]:m[5]])
			}
		}

		canonical := fmt.Sprintf("%02d:%02d", hour, minute)
		*hints = append(*hints, TemporalHint{
			Span:      strings.TrimRight(text[start:end], " \t\n"),
			Kind:      HintTime,
			Canonical: canonical,
			Valid:     hour <= 23 && minute <= 59,
		})

		b.WriteString(text[last:start])
		rs := b.Len()
		b.WriteString(canonical)
		produced = append(produced, byteRange{rs, b.Len()})
		// Restore separation when the match swallowed the space before the
		// next word ("14h houve" -> "14:00 houve").
		if end < len(text) && text[end] != ' ' && text[end] != '\n' {
			b.WriteByte(' ')
		}
		last = end
	}
	b.WriteString(text[last:])

	return b.String(), produced
}

// rewriteColonForm zero-pads pre-existing HH:MM values and hints them,
// skipping spans the hour-form pass already produced.
func rewriteColonForm(text string, produced []byteRange, hints *[]TemporalHint) string {
	matches := colonPattern.FindAllStringSubmatchIndex(text, -1)
	if matches == nil {
		return text
	}

	var b strings.Builder
	last := 0
	for _, m := range matches {
		if overlapsAny(produced, m[0], m[1]) {
			continue
		}

		hour, _ := strconv.Atoi(text[m[2]:m[3]])
		minute, _ := strconv.Atoi(text[m[4]:m[5]])
		canonical := fmt.Sprintf("%02d:%02d", hour, minute)
		*hints = append(*hints, TemporalHint{
			Span:      text[m[0]:m[1]],
			Kind:      HintTime,
			Canonical: canonical,
			Valid:     hour <= 23 && minute <= 59,
		})

		b.WriteString(text[last:m[0]])
		b.WriteString(canonical)
		last = m[1]
	}
	b.WriteString(text[last:])

	return b.String()
}

// normalizeWrittenDates rewrites "3 de abril de 2024" to ISO form. Month
// names are fuzzy-matched so small misspellings still resolve; an
// unrecognized month leaves the text untouched with no hint, while a
// recognized month with an impossible day yields an unresolved hint.
func normalizeWrittenDates(text string, hints *[]TemporalHint) string {
	matches := writtenDatePattern.FindAllStringSubmatchIndex(text, -1)
	if matches == nil {
		return text
	}

	var b strings.Builder
	last := 0
	for _, m := range matches {
		monthName, ok := closestKey(text[m[4]:m[5]], monthKeys)
		if !ok {
			continue
		}

		span := text[m[0]:m[1]]
		day, _ := strconv.Atoi(text[m[2]:m[3]])
		year, _ := strconv.Atoi(text[m[6]:m[7]])
		month := months[monthName]

		if day < 1 || day > daysIn(year, month) {
			*hints = append(*hints, TemporalHint{Span: span, Kind: HintWrittenDate, Valid: false})
			continue
		}

		canonical := fmt.Sprintf("%04d-%02d-%02d", year, month, day)
		*hints = append(*hints, TemporalHint{Span: span, Kind: HintWrittenDate, Canonical: canonical, Valid: true})

		b.WriteString(text[last:m[0]])
		b.WriteString(canonical)
		last = m[1]
	}
	b.WriteString(text[last:])

	return b.String()
}

// normalizeNumericDates rewrites numeric dates like "03/04/2024" or
// "3-4-24" to ISO form. Ambiguous orderings resolve day-month-year first;
// when that is impossible but month-day-year is valid, the latter is used.
// This preference is a fixed rule, not locale detection, so behavior stays
// deterministic. Two-digit years map to 2000-2099. A value impossible under
// both orderings yields an unresolved hint and the text is left as written.
func normalizeNumericDates(text string, hints *[]TemporalHint) string {
	matches := numericDatePattern.FindAllStringSubmatchIndex(text, -1)
	if matches == nil {
		return text
	}

	var b strings.Builder
	last := 0
	for _, m := range matches {
		span := text[m[0]:m[1]]
		first, _ := strconv.Atoi(text[m[2]:m[3]])
		second, _ := strconv.Atoi(text[m[4]:m[5]])
		year, _ := strconv.Atoi(text[m[6]:m[7]])
		if m[7]-m[6] <= 2 {
			year += 2000
		}

		day, month := first, second
		switch {
		case validDate(year, month, day):
		case validDate(year, first, second):
			day, month = second, first
		default:
			*hints = append(*hints, TemporalHint{Span: span, Kind: HintNumericDate, Valid: false})
			continue
		}

		canonical := fmt.Sprintf("%04d-%02d-%02d", year, month, day)
		*hints = append(*hints, TemporalHint{Span: span, Kind: HintNumericDate, Canonical: canonical, Valid: true})

		b.WriteString(text[last:m[0]])
		b.WriteString(canonical)
		last = m[1]
	}
	b.WriteString(text[last:])

	return b.String()
}

func validDate(year, month, day int) bool {
	return month >= 1 && month <= 12 && day >= 1 && day <= daysIn(year, time.Month(month))
}

func daysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
