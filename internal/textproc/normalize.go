package textproc

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// stripMarks decomposes characters and drops combining marks, turning
// "incêndio" into "incendio".
var stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

var (
	controlChars     = regexp.MustCompile("[\x00-\x08\x0b\x0c\x0e-\x1f\x7f]")
	curlyDoubleQuote = regexp.MustCompile("[“”„]")
	curlySingleQuote = regexp.MustCompile("[‘’‚]")
	unicodeDash      = regexp.MustCompile(`\s*[` + "–—" + `]\s*`)
	newlineRun       = regexp.MustCompile(`\n{3,}`)
	spaceRun         = regexp.MustCompile(`[ \t]+`)
	spaceBeforePunct = regexp.MustCompile(` ([.,;:!?])`)
)

// Normalize case-folds a report, strips diacritics, removes control
// characters, replaces typographic punctuation with ASCII equivalents and
// collapses whitespace. It is pure and idempotent; empty input yields empty
// output.
func Normalize(text string) string {
	if text == "" {
		return ""
	}

	if folded, _, err := transform.String(stripMarks, text); err == nil {
		text = folded
	}
	text = strings.ToLower(text)
	text = controlChars.ReplaceAllString(text, "")
	text = curlyDoubleQuote.ReplaceAllString(text, `"`)
	text = curlySingleQuote.ReplaceAllString(text, "'")
	text = unicodeDash.ReplaceAllString(text, " - ")
	text = collapseWhitespace(text)

	return strings.TrimSpace(text)
}

// collapseWhitespace squeezes runs of spaces and tabs, caps consecutive
// newlines at two and drops spaces left dangling before punctuation.
func collapseWhitespace(text string) string {
	text = newlineRun.ReplaceAllString(text, "\n\n")
	text = spaceRun.ReplaceAllString(text, " ")
	text = spaceBeforePunct.ReplaceAllString(text, "$1")
	return text
}
