// internal/scoring/semantic.go
//
// Category-aware proximity calculator.
//
// The lexical score is the base. When both words have entries in the
// category's knowledge table, bonuses are added on top:
//   - related-term overlap (or a smaller participation bonus)
//   - primary property overlap (flat, the category's identity-defining property)
//   - secondary property overlaps (match ratio capped per property, or flat)
//
// Which properties count and how much is data (Rule), not code, so adding a
// category is a table change.

package scoring

import (
	"context"
	"fmt"
	"math"
	"slices"

	"github.com/robalobadob/proximity/internal/category"
	"github.com/robalobadob/proximity/internal/semantic"
)

// PropertyRule weights one secondary property.
// A positive Flat awards Flat points for any shared value; otherwise the
// contribution is matchCount/len(target values)*100, capped at Cap.
type PropertyRule struct {
	Name string
	Cap  float64
	Flat float64
}

// Rule is the per-category scoring configuration.
type Rule struct {
	Primary      string
	PrimaryBonus float64
	Secondary    []PropertyRule
}

const (
	relatedOverlapBonus = 15
	participationBonus  = 5
	floorMinimum        = 3

	// Only the target itself may reach 100; a 100 ends a classic round.
	maxNonIdentical = 99
)

// DefaultRules returns the shipped per-category rules.
func DefaultRules() map[category.ID]Rule {
	return map[category.ID]Rule{
		category.Food: {
			Primary: "country", PrimaryBonus: 20,
			Secondary: []PropertyRule{{Name: "ingredients", Cap: 25}},
		},
		category.Animals: {
			Primary: "species", PrimaryBonus: 20,
			Secondary: []PropertyRule{{Name: "habitat", Cap: 20}, {Name: "features", Cap: 20}},
		},
		category.Countries: {
			Primary: "region", PrimaryBonus: 25,
			Secondary: []PropertyRule{{Name: "language", Cap: 20}, {Name: "features", Cap: 15}},
		},
		category.Sports: {
			Primary: "type", PrimaryBonus: 25,
			Secondary: []PropertyRule{{Name: "equipment", Cap: 20}, {Name: "features", Cap: 15}},
		},
		category.Movies: {
			Primary: "genre", PrimaryBonus: 25,
			Secondary: []PropertyRule{{Name: "director", Flat: 30}, {Name: "features", Cap: 20}},
		},
	}
}

// Bonus is one itemised contribution in a Breakdown.
type Bonus struct {
	Reason string  `json:"reason"`
	Points float64 `json:"points"`
}

// Breakdown explains how a proximity score was reached.
type Breakdown struct {
	Lexical int     `json:"lexical"`
	Bonuses []Bonus `json:"bonuses,omitempty"`
	Total   int     `json:"total"`
}

// Calculator is the local, deterministic proximity scorer.
type Calculator struct {
	kb         *semantic.KnowledgeBase
	rules      map[category.ID]Rule
	penaltyCap int
}

// NewCalculator builds a Calculator. A nil rules map means DefaultRules and a
// non-positive penaltyCap means DefaultLengthPenaltyCap.
func NewCalculator(kb *semantic.KnowledgeBase, rules map[category.ID]Rule, penaltyCap int) *Calculator {
	if rules == nil {
		rules = DefaultRules()
	}
	if penaltyCap <= 0 {
		penaltyCap = DefaultLengthPenaltyCap
	}
	return &Calculator{kb: kb, rules: rules, penaltyCap: penaltyCap}
}

// Score implements Scorer. It never blocks and ignores ctx.
func (c *Calculator) Score(_ context.Context, guess, target string, cat category.ID) int {
	return c.Semantic(guess, target, cat)
}

// Semantic returns the proximity of guess to target within cat.
func (c *Calculator) Semantic(guess, target string, cat category.ID) int {
	return c.Explain(guess, target, cat).Total
}

// Explain returns the itemised score for guess against target.
func (c *Calculator) Explain(guess, target string, cat category.ID) Breakdown {
	g, t := category.Normalize(guess), category.Normalize(target)
	if g == t {
		return Breakdown{Lexical: 100, Total: 100}
	}

	base := LexicalWithCap(g, t, c.penaltyCap)
	out := Breakdown{Lexical: base}

	ge, gok := c.kb.Lookup(cat, g)
	te, tok := c.kb.Lookup(cat, t)
	if !gok || !tok {
		out.Total = min(max(base, floorMinimum), maxNonIdentical)
		return out
	}

	if shared := intersect(ge.Related, te.Related); len(shared) > 0 {
		out.Bonuses = append(out.Bonuses, Bonus{Reason: fmt.Sprintf("related: %s", shared[0]), Points: relatedOverlapBonus})
	} else {
		out.Bonuses = append(out.Bonuses, Bonus{Reason: "same category table", Points: participationBonus})
	}

	if rule, ok := c.rules[cat]; ok {
		if rule.Primary != "" && len(intersect(ge.Property(rule.Primary), te.Property(rule.Primary))) > 0 {
			out.Bonuses = append(out.Bonuses, Bonus{Reason: rule.Primary, Points: rule.PrimaryBonus})
		}
		for _, pr := range rule.Secondary {
			if pts := secondaryPoints(pr, ge.Property(pr.Name), te.Property(pr.Name)); pts > 0 {
				out.Bonuses = append(out.Bonuses, Bonus{Reason: pr.Name, Points: pts})
			}
		}
	}

	total := float64(base)
	for _, b := range out.Bonuses {
		total += b.Points
	}
	out.Total = min(clampRound(total), maxNonIdentical)
	return out
}

func secondaryPoints(pr PropertyRule, guessValues, targetValues []string) float64 {
	if len(guessValues) == 0 || len(targetValues) == 0 {
		return 0
	}
	matches := len(intersect(targetValues, guessValues))
	if matches == 0 {
		return 0
	}
	if pr.Flat > 0 {
		return pr.Flat
	}
	ratio := float64(matches) / float64(len(targetValues)) * 100
	return math.Min(ratio, pr.Cap)
}

// intersect returns the values of a that also appear in b, in a's order.
func intersect(a, b []string) []string {
	var out []string
	for _, v := range a {
		if slices.Contains(b, v) && !slices.Contains(out, v) {
			out = append(out, v)
		}
	}
	return out
}
