// internal/hint/hint.go
//
// Hint generation.
//
// A hint is one sentence about the target word. When the target has a semantic
// entry, one of three shapes is drawn at random:
//   - related term:   "It's related to roar."
//   - property value: phrased per property name, e.g. "It's a type of big cat."
//   - first letter:   "It starts with the letter T."
//
// Up to maxAttempts draws are made to find a sentence not already shown; after
// that a letter-position hint is derived deterministically. Targets with no
// semantic entry only ever get letter-position and length hints.
//
// Hints are advisory; nothing here influences scoring.

package hint

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/robalobadob/proximity/internal/category"
	"github.com/robalobadob/proximity/internal/random"
	"github.com/robalobadob/proximity/internal/semantic"
)

const maxAttempts = 10

const (
	shapeRelated = iota
	shapeProperty
	shapeFirstLetter
	shapeCount
)

// phrasing maps a property name to a sentence template with one %s verb.
var phrasing = map[string]string{
	"species":     "It's a type of %s.",
	"country":     "It's from %s.",
	"habitat":     "It lives in %s.",
	"ingredients": "It contains %s.",
	"region":      "It's in %s.",
	"language":    "People there speak %s.",
	"equipment":   "You need %s for it.",
	"genre":       "It's a %s film.",
	"director":    "It was directed by %s.",
	"type":        "It's a kind of %s.",
}

// Set is the collection of hints already shown in a round.
type Set map[string]struct{}

// Has reports whether h is in the set. A nil Set is empty.
func (s Set) Has(h string) bool {
	_, ok := s[h]
	return ok
}

// Generator produces hints from the knowledge base.
type Generator struct {
	kb  *semantic.KnowledgeBase
	rnd random.Source
}

// New returns a Generator. A nil rnd uses crypto/rand.
func New(kb *semantic.KnowledgeBase, rnd random.Source) *Generator {
	if rnd == nil {
		rnd = random.Crypto{}
	}
	return &Generator{kb: kb, rnd: rnd}
}

// Generate returns a hint for target, preferring one not in prior.
// It only repeats a prior hint when every letter-position hint is used up.
func (g *Generator) Generate(target string, cat category.ID, prior Set) string {
	h, _ := g.Next(target, cat, prior)
	return h
}

// Next is Generate with a flag reporting whether the hint is new.
func (g *Generator) Next(target string, cat category.ID, prior Set) (string, bool) {
	target = category.Normalize(target)

	candidates := append([]string{Fallback(target)}, letterHints(target)...)
	if entry, ok := g.kb.Lookup(cat, target); ok {
		for range maxAttempts {
			h := g.draw(entry, target)
			if h != "" && !prior.Has(h) {
				return h, true
			}
		}
		candidates = append(letterHints(target), Fallback(target))
	}

	for _, h := range candidates {
		if !prior.Has(h) {
			return h, true
		}
	}
	return candidates[0], false
}

// draw produces one random hint of a random shape. It returns "" when the
// chosen shape has no data for this entry.
func (g *Generator) draw(e semantic.Entry, target string) string {
	switch g.rnd.IntN(shapeCount) {
	case shapeRelated:
		if len(e.Related) == 0 {
			return ""
		}
		return fmt.Sprintf("It's related to %s.", random.Pick(g.rnd, e.Related))
	case shapeProperty:
		names := e.PropertyNames()
		if len(names) == 0 {
			return ""
		}
		name := random.Pick(g.rnd, names)
		return phrase(name, random.Pick(g.rnd, e.Property(name)))
	default:
		return firstLetter(target)
	}
}

func phrase(property, value string) string {
	if tmpl, ok := phrasing[property]; ok {
		return fmt.Sprintf(tmpl, value)
	}
	return fmt.Sprintf("Its %s is %s.", property, value)
}

func firstLetter(target string) string {
	for _, r := range target {
		if unicode.IsLetter(r) {
			return fmt.Sprintf("It starts with the letter %c.", unicode.ToUpper(r))
		}
	}
	return ""
}

// Fallback is the knowledge-free hint: the letter count, and the word count
// for multi-word targets.
func Fallback(target string) string {
	target = category.Normalize(target)
	words := strings.Fields(target)
	letters := 0
	for _, r := range target {
		if unicode.IsLetter(r) {
			letters++
		}
	}
	if len(words) > 1 {
		return fmt.Sprintf("It's %d words with %d letters in total.", len(words), letters)
	}
	return fmt.Sprintf("It has %d letters.", letters)
}

// letterHints lists one hint per letter position, first to last. Spaces are
// skipped but still counted in the position.
func letterHints(target string) []string {
	var out []string
	for i, r := range []rune(target) {
		if !unicode.IsLetter(r) {
			continue
		}
		out = append(out, fmt.Sprintf("Letter %d is %c.", i+1, unicode.ToUpper(r)))
	}
	return out
}
