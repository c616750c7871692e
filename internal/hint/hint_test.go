package hint

import (
	"math/rand/v2"
	"strings"
	"testing"

	"github.com/robalobadob/proximity/internal/category"
	"github.com/robalobadob/proximity/internal/semantic"
)

type fixedSource int

func (f fixedSource) IntN(n int) int { return min(int(f), n-1) }

func newGenerator(t *testing.T, seed uint64) *Generator {
	t.Helper()
	kb, err := semantic.Default()
	if err != nil {
		t.Fatalf("semantic.Default: %v", err)
	}
	return New(kb, rand.New(rand.NewPCG(seed, seed+1)))
}

func TestFallback(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"tiger", "It has 5 letters."},
		{" Computer ", "It has 8 letters."},
		{"new zealand", "It's 2 words with 10 letters in total."},
	}
	for _, tt := range tests {
		if got := Fallback(tt.in); got != tt.want {
			t.Errorf("Fallback(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestGenerateWithoutEntryUsesLengthThenLetters(t *testing.T) {
	g := newGenerator(t, 1)
	prior := Set{}

	want := []string{"It has 8 letters.", "Letter 1 is C.", "Letter 2 is O."}
	for _, w := range want {
		h := g.Generate("computer", category.Technology, prior)
		if h != w {
			t.Fatalf("Generate = %q, want %q", h, w)
		}
		prior[h] = struct{}{}
	}
}

func TestGenerateSemanticShapes(t *testing.T) {
	kb, err := semantic.Default()
	if err != nil {
		t.Fatal(err)
	}
	lion, _ := kb.Lookup(category.Animals, "lion")

	allowed := Set{"It starts with the letter L.": {}}
	for _, r := range lion.Related {
		allowed["It's related to "+r+"."] = struct{}{}
	}
	for _, name := range lion.PropertyNames() {
		for _, v := range lion.Property(name) {
			allowed[phrase(name, v)] = struct{}{}
		}
	}

	g := newGenerator(t, 42)
	for i := 0; i < 50; i++ {
		h := g.Generate("lion", category.Animals, nil)
		if !allowed.Has(h) {
			t.Fatalf("unexpected hint %q", h)
		}
	}
}

func TestGenerateFirstLetterShape(t *testing.T) {
	kb, _ := semantic.Default()
	g := New(kb, fixedSource(shapeFirstLetter))

	if h := g.Generate("tiger", category.Animals, nil); h != "It starts with the letter T." {
		t.Errorf("got %q", h)
	}

	// Every draw repeats the prior hint, so the letter-position fallback kicks in.
	prior := Set{"It starts with the letter T.": {}}
	if h := g.Generate("tiger", category.Animals, prior); h != "Letter 1 is T." {
		t.Errorf("got %q, want letter-position hint", h)
	}
}

func TestPhrasing(t *testing.T) {
	tests := []struct {
		prop, val, want string
	}{
		{"species", "big cat", "It's a type of big cat."},
		{"country", "italy", "It's from italy."},
		{"director", "james cameron", "It was directed by james cameron."},
		{"features", "mane", "Its features is mane."},
	}
	for _, tt := range tests {
		if got := phrase(tt.prop, tt.val); got != tt.want {
			t.Errorf("phrase(%q, %q) = %q, want %q", tt.prop, tt.val, got, tt.want)
		}
	}
}

func TestNextAvoidsPriorHints(t *testing.T) {
	g := newGenerator(t, 7)
	prior := Set{}
	// The length hint and four letter hints guarantee five novel hints for "lion".
	for i := 0; i < 5; i++ {
		h, novel := g.Next("lion", category.Animals, prior)
		if !novel {
			t.Fatalf("call %d: expected a novel hint", i)
		}
		if prior.Has(h) {
			t.Fatalf("call %d: repeated hint %q", i, h)
		}
		prior[h] = struct{}{}
	}
}

func TestNextExhausted(t *testing.T) {
	prior := Set{Fallback("ox"): {}}
	for _, h := range letterHints("ox") {
		prior[h] = struct{}{}
	}
	g := New(nil, fixedSource(0))
	h, novel := g.Next("ox", category.Animals, prior)
	if novel {
		t.Errorf("expected no novel hint, got %q", h)
	}
	if h == "" {
		t.Error("hint must never be empty")
	}
}

func TestLetterHintsSkipSpaces(t *testing.T) {
	got := letterHints("up up")
	want := []string{"Letter 1 is U.", "Letter 2 is P.", "Letter 4 is U.", "Letter 5 is P."}
	if strings.Join(got, "|") != strings.Join(want, "|") {
		t.Errorf("letterHints = %v, want %v", got, want)
	}
}
