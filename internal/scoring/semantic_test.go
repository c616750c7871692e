package scoring

import (
	"testing"

	"github.com/robalobadob/proximity/internal/category"
	"github.com/robalobadob/proximity/internal/semantic"
)

func newTestCalculator(t *testing.T) *Calculator {
	t.Helper()
	kb, err := semantic.Default()
	if err != nil {
		t.Fatalf("load knowledge base: %v", err)
	}
	return NewCalculator(kb, nil, 0)
}

func TestSemanticIdentity(t *testing.T) {
	calc := newTestCalculator(t)
	reg, err := category.Default()
	if err != nil {
		t.Fatal(err)
	}
	for _, c := range reg.Categories() {
		for _, w := range reg.WordList(c.ID) {
			if got := calc.Semantic(w, w, c.ID); got != 100 {
				t.Errorf("Semantic(%q,%q,%s) = %d, want 100", w, w, c.ID, got)
			}
		}
	}
	if got := calc.Semantic("LION", " lion ", category.Animals); got != 100 {
		t.Errorf("case-insensitive identity = %d", got)
	}
}

func TestSemanticLionTiger(t *testing.T) {
	calc := newTestCalculator(t)
	lex := Lexical("lion", "tiger")
	got := calc.Semantic("lion", "tiger", category.Animals)
	if got < lex+20 {
		t.Errorf("Semantic(lion,tiger) = %d, want >= lexical %d + 20", got, lex)
	}
	// base 15 + related(roar) 15 + species 20 + habitat 20 (capped) + features 20 (capped)
	if got != 90 {
		t.Errorf("Semantic(lion,tiger) = %d, want 90", got)
	}
}

func TestSemanticExplain(t *testing.T) {
	calc := newTestCalculator(t)
	b := calc.Explain("lion", "tiger", category.Animals)
	if b.Lexical != 15 {
		t.Errorf("Lexical = %d, want 15", b.Lexical)
	}
	reasons := map[string]float64{}
	for _, bonus := range b.Bonuses {
		reasons[bonus.Reason] = bonus.Points
	}
	if reasons["related: roar"] != 15 {
		t.Errorf("missing related bonus: %+v", b.Bonuses)
	}
	if reasons["species"] != 20 {
		t.Errorf("missing species bonus: %+v", b.Bonuses)
	}
}

func TestSemanticMoviesDirectorFlat(t *testing.T) {
	calc := newTestCalculator(t)
	b := calc.Explain("jaws", "jurassic park", category.Movies)
	found := false
	for _, bonus := range b.Bonuses {
		if bonus.Reason == "director" {
			found = true
			if bonus.Points != 30 {
				t.Errorf("director bonus = %v, want 30", bonus.Points)
			}
		}
	}
	if !found {
		t.Errorf("expected director bonus, got %+v", b.Bonuses)
	}
}

func TestSemanticParticipationBonus(t *testing.T) {
	calc := newTestCalculator(t)
	// penguin and cheetah share no related terms.
	b := calc.Explain("penguin", "cheetah", category.Animals)
	if len(b.Bonuses) == 0 || b.Bonuses[0].Points != 5 {
		t.Errorf("expected participation bonus first, got %+v", b.Bonuses)
	}
}

func TestSemanticFallsBackToLexical(t *testing.T) {
	calc := newTestCalculator(t)
	tests := []struct {
		guess, target string
		cat           category.ID
	}{
		{"computer", "compiler", category.Technology},
		{"spaceship", "lion", category.Animals},
		{"lion", "spaceship", category.Animals},
		{"pizza", "lion", category.Animals},
	}
	for _, tt := range tests {
		want := min(max(Lexical(tt.guess, tt.target), 3), 99)
		if got := calc.Semantic(tt.guess, tt.target, tt.cat); got != want {
			t.Errorf("Semantic(%q,%q,%s) = %d, want %d", tt.guess, tt.target, tt.cat, got, want)
		}
	}
}

func TestSemanticRange(t *testing.T) {
	calc := newTestCalculator(t)
	reg, err := category.Default()
	if err != nil {
		t.Fatal(err)
	}
	extra := []string{"a", "zzzz", "spaceship", "big cat"}
	for _, c := range reg.Categories() {
		words := append(reg.WordList(c.ID), extra...)
		for _, g := range words {
			for _, tw := range words {
				got := calc.Semantic(g, tw, c.ID)
				if got < 0 || got > 100 {
					t.Fatalf("Semantic(%q,%q,%s) = %d out of range", g, tw, c.ID, got)
				}
				if got == 100 && category.Normalize(g) != category.Normalize(tw) {
					t.Errorf("Semantic(%q,%q,%s) = 100 for different words", g, tw, c.ID)
				}
			}
		}
	}
}

func TestSemanticDeterministic(t *testing.T) {
	calc := newTestCalculator(t)
	first := calc.Semantic("wolf", "dog", category.Animals)
	for i := 0; i < 20; i++ {
		if got := calc.Semantic("wolf", "dog", category.Animals); got != first {
			t.Fatalf("non-deterministic score: %d then %d", first, got)
		}
	}
}

func TestCustomRules(t *testing.T) {
	kb, err := semantic.Default()
	if err != nil {
		t.Fatal(err)
	}
	rules := map[category.ID]Rule{
		category.Animals: {Primary: "habitat", PrimaryBonus: 40},
	}
	calc := NewCalculator(kb, rules, 0)
	b := calc.Explain("lion", "cheetah", category.Animals)
	found := false
	for _, bonus := range b.Bonuses {
		if bonus.Reason == "habitat" && bonus.Points == 40 {
			found = true
		}
		if bonus.Reason == "species" {
			t.Errorf("species must not score under custom rules")
		}
	}
	if !found {
		t.Errorf("expected habitat bonus, got %+v", b.Bonuses)
	}
}

func TestSemanticAnagramBelowWin(t *testing.T) {
	calc := newTestCalculator(t)
	if Lexical("ab", "ba") != 100 {
		t.Skip("lexical no longer saturates on anagrams")
	}
	if got := calc.Semantic("ab", "ba", category.Technology); got != 99 {
		t.Errorf("Semantic(ab, ba) = %d, want 99", got)
	}
}
