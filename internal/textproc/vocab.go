package textproc

import (
	"os"
	"strings"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

// VocabularyEntry is a canonical domain term plus the maximum edit distance
// accepted when matching misspelled tokens against it.
type VocabularyEntry struct {
	Term        string `yaml:"term"`
	MaxDistance int    `yaml:"max_distance"`
}

// Vocabulary is the set of known canonical terms. It is built once at
// startup and never mutated afterwards, so it is safe for concurrent readers.
type Vocabulary struct {
	entries []VocabularyEntry
	index   map[string]struct{}
}

type vocabFile struct {
	Terms []VocabularyEntry `yaml:"terms"`
}

// NewVocabulary builds a vocabulary from entries. Terms are normalized so the
// file may carry accents; entries without an explicit max_distance get the
// length-adaptive default. Duplicate and empty terms are dropped, as are
// multi-word terms: the corrector matches single tokens, so a term with
// spaces could never be reached.
func NewVocabulary(entries []VocabularyEntry) *Vocabulary {
	v := &Vocabulary{index: make(map[string]struct{}, len(entries))}
	for _, e := range entries {
		e.Term = Normalize(e.Term)
		if e.Term == "" || strings.ContainsRune(e.Term, ' ') {
			continue
		}
		if _, dup := v.index[e.Term]; dup {
			continue
		}
		if e.MaxDistance <= 0 {
			e.MaxDistance = defaultMaxDistance(e.Term)
		}
		v.index[e.Term] = struct{}{}
		v.entries = append(v.entries, e)
	}
	return v
}

// LoadVocabulary reads a YAML vocabulary file:
//
//	terms:
//	  - term: incêndio
//	    max_distance: 2
//	  - term: alagamento
func LoadVocabulary(path string) (*Vocabulary, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "vocab: read %s", path)
	}

	var f vocabFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, eris.Wrapf(err, "vocab: parse %s", path)
	}

	return NewVocabulary(f.Terms), nil
}

// Contains reports whether token is already a canonical term.
func (v *Vocabulary) Contains(token string) bool {
	_, ok := v.index[token]
	return ok
}

// Len returns the number of canonical terms.
func (v *Vocabulary) Len() int {
	return len(v.entries)
}

// defaultMaxDistance tolerates more edits for longer words: 1 for short
// terms (up to 4 chars), 2 for medium (up to 7), 3 beyond that.
func defaultMaxDistance(term string) int {
	switch n := len([]rune(term)); {
	case n <= 4:
		return 1
	case n <= 7:
		return 2
	default:
		return 3
	}
}
