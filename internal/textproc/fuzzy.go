package textproc

import (
	"regexp"
	"strings"

	"github.com/agext/levenshtein"
)

// tokenCore strips everything but letters, digits and hyphens so that
// punctuation glued to a word does not defeat the match.
var tokenCore = regexp.MustCompile(`[^\p{L}\p{N}-]`)

// Correct replaces near-miss tokens with their canonical vocabulary form.
// Tokens already in the vocabulary are untouched, and tokens with no entry
// within threshold are left as written: the corrector never invents terms.
// Tokens are delimited by spaces and newlines. Running it twice over the
// same text yields the same result.
func Correct(text string, vocab *Vocabulary) string {
	if text == "" || vocab == nil || vocab.Len() == 0 {
		return text
	}

	lines := strings.Split(text, "\n")
	for li, line := range lines {
		tokens := strings.Split(line, " ")
		for i, tok := range tokens {
			core := tokenCore.ReplaceAllString(tok, "")
			if core == "" || vocab.Contains(core) {
				continue
			}
			entry, ok := vocab.bestMatch(core)
			if !ok {
				continue
			}
			tokens[i] = strings.Replace(tok, core, entry.Term, 1)
		}
		lines[li] = strings.Join(tokens, " ")
	}

	return strings.Join(lines, "\n")
}

// bestMatch finds the vocabulary entry closest to token within that entry's
// max distance. Candidates whose length differs by more than one or whose
// first rune differs are pruned before computing the distance. Ties on
// distance go to the shortest canonical term, then lexicographic order.
func (v *Vocabulary) bestMatch(token string) (VocabularyEntry, bool) {
	runes := []rune(token)
	if len(runes) == 0 {
		return VocabularyEntry{}, false
	}

	var best VocabularyEntry
	bestDist := -1

	for _, e := range v.entries {
		term := []rune(e.Term)
		if abs(len(runes)-len(term)) > 1 || runes[0] != term[0] {
			continue
		}

		d := levenshtein.Distance(token, e.Term, nil)
		if d > e.MaxDistance {
			continue
		}

		if bestDist == -1 || d < bestDist || (d == bestDist && prefer(e, best)) {
			bestDist = d
			best = e
		}
	}

	return best, bestDist >= 0
}

// prefer implements the deterministic tie-break: shortest canonical term
// first, lexicographic order second.
func prefer(a, b VocabularyEntry) bool {
	if len(a.Term) != len(b.Term) {
		return len(a.Term) < len(b.Term)
	}
	return a.Term < b.Term
}

// closestKey matches token against a small fixed set of canonical words
// (relative-date words, month names) using the length-adaptive threshold of
// the shorter word, with the same pruning and tie-break as bestMatch.
func closestKey(token string, keys []string) (string, bool) {
	if token == "" {
		return "", false
	}
	for _, k := range keys {
		if k == token {
			return k, true
		}
	}

	best := ""
	bestDist := -1

	for _, k := range keys {
		if abs(len(token)-len(k)) > 1 || token[0] != k[0] {
			continue
		}

		shorter := token
		if len(k) < len(token) {
			shorter = k
		}
		d := levenshtein.Distance(token, k, nil)
		if d > defaultMaxDistance(shorter) {
			continue
		}

		if bestDist == -1 || d < bestDist ||
			(d == bestDist && (len(k) < len(best) || (len(k) == len(best) && k < best))) {
			bestDist = d
			best = k
		}
	}

	return best, bestDist >= 0
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
