// internal/validate/validate.go
//
// Word validation for guesses.
//
// Responsibilities:
//   - IsValidWord: syntactic gate applied to every guess (letters only, short-word whitelist, length cap).
//   - IsKnownGameWord: membership in the union of all category word lists.
//   - Suggest: closest known game word for a rejected guess ("did you mean").
//
// Rules (applied to the trimmed, lowercased, whitespace-collapsed input):
//   • Empty input is invalid.
//   • Input longer than MaxLength characters is invalid.
//   • Every space-separated segment must be a-z only.
//   • Segments shorter than 3 letters must appear in the short-word whitelist.
//
// The validator never blocks and never fails; all lists are built once at construction.

package validate

import (
	"strings"
	"sync"

	"github.com/sajari/fuzzy"

	"github.com/robalobadob/proximity/assets"
	"github.com/robalobadob/proximity/internal/category"
)

// MaxLength is the longest normalized guess accepted.
const MaxLength = 30

// minPlainSegment is the shortest segment accepted without the whitelist.
const minPlainSegment = 3

// Validator holds the lookup sets used by the checks. It is immutable after New.
type Validator struct {
	short map[string]struct{} // whitelisted 1-2 letter words
	known map[string]struct{} // union of every category word list
	model *fuzzy.Model
}

// New builds a Validator from a registry and a short-word whitelist.
// A nil registry yields a validator that knows no game words.
func New(reg *category.Registry, shortWords []string) *Validator {
	v := &Validator{
		short: toSet(shortWords),
		known: map[string]struct{}{},
	}
	var all []string
	if reg != nil {
		all = reg.AllWords()
		v.known = toSet(all)
	}

	v.model = fuzzy.NewModel()
	v.model.SetThreshold(1)
	v.model.SetDepth(2)
	v.model.Train(all)
	return v
}

var (
	defaultOnce sync.Once
	defaultV    *Validator
	defaultErr  error
)

// Default returns the validator built from the embedded registry and whitelist.
func Default() (*Validator, error) {
	defaultOnce.Do(func() {
		reg, err := category.Default()
		if err != nil {
			defaultErr = err
			return
		}
		short, err := assets.ShortWords()
		if err != nil {
			defaultErr = err
			return
		}
		defaultV = New(reg, short)
	})
	return defaultV, defaultErr
}

// Normalize trims, lowercases and collapses internal whitespace.
func Normalize(s string) string {
	return category.Normalize(s)
}

// IsValidWord reports whether input passes the syntactic guess rules.
func (v *Validator) IsValidWord(input string) bool {
	w := Normalize(input)
	if w == "" || len(w) > MaxLength {
		return false
	}
	for _, seg := range strings.Split(w, " ") {
		if !isAlpha(seg) {
			return false
		}
		if len(seg) < minPlainSegment {
			if _, ok := v.short[seg]; !ok {
				return false
			}
		}
	}
	return true
}

// IsKnownGameWord reports whether input is a word from any category list.
func (v *Validator) IsKnownGameWord(input string) bool {
	_, ok := v.known[Normalize(input)]
	return ok
}

// Accept is the guess gate used by sessions: known game words pass without
// further checks, everything else must satisfy IsValidWord.
func (v *Validator) Accept(input string) bool {
	return v.IsKnownGameWord(input) || v.IsValidWord(input)
}

// Suggest returns the closest known game word to input, if one is within
// two edits. Known words are returned unchanged.
func (v *Validator) Suggest(input string) (string, bool) {
	w := Normalize(input)
	if w == "" {
		return "", false
	}
	if v.IsKnownGameWord(w) {
		return w, true
	}
	s := v.model.SpellCheck(w)
	if s == "" {
		return "", false
	}
	return s, true
}

// toSet converts a list of strings into a lookup set.
func toSet(list []string) map[string]struct{} {
	m := make(map[string]struct{}, len(list))
	for _, w := range list {
		m[Normalize(w)] = struct{}{}
	}
	return m
}

// isAlpha reports whether s is non-empty and all lowercase ASCII letters.
func isAlpha(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < 'a' || r > 'z' {
			return false
		}
	}
	return true
}
