// internal/category/category.go
//
// Category registry and word lists.
//
// Responsibilities:
//   - Parse the embedded categories.yaml once (sync.Once) into an immutable Registry.
//   - Serve the read-only Category/WordList provider used by the game engine:
//     Categories(), WordList(id), Has(id), AllWords().
//
// Constraints:
//   - Words are lowercased and trimmed at load; a duplicate inside one list is a load error.
//   - Returned slices are copies; nothing handed out aliases registry state.

package category

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/samber/lo"
	"gopkg.in/yaml.v3"

	"github.com/robalobadob/proximity/assets"
)

// ID identifies a category. The constants below are the categories shipped in
// the embedded registry; the scoring rules table is keyed by the same values.
type ID string

const (
	Animals     ID = "animals"
	Food        ID = "food"
	Countries   ID = "countries"
	Sports      ID = "sports"
	Movies      ID = "movies"
	Technology  ID = "technology"
	Professions ID = "professions"
)

// Category is one row of the static registry.
type Category struct {
	ID          ID     `json:"id" yaml:"id"`
	DisplayName string `json:"displayName" yaml:"name"`
	Icon        string `json:"icon" yaml:"icon"`
}

// Registry is the immutable category + word list table.
type Registry struct {
	order []Category
	lists map[ID][]string
	all   map[string]struct{}
}

type document struct {
	Categories []struct {
		Category `yaml:",inline"`
		Words    []string `yaml:"words"`
	} `yaml:"categories"`
}

// Parse builds a Registry from a YAML document.
func Parse(data []byte) (*Registry, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("category: decode: %w", err)
	}
	if len(doc.Categories) == 0 {
		return nil, errors.New("category: registry is empty")
	}

	r := &Registry{
		lists: make(map[ID][]string, len(doc.Categories)),
		all:   make(map[string]struct{}),
	}
	for _, c := range doc.Categories {
		if c.ID == "" {
			return nil, errors.New("category: entry without id")
		}
		if _, dup := r.lists[c.ID]; dup {
			return nil, fmt.Errorf("category: duplicate id %q", c.ID)
		}
		words := lo.Map(c.Words, func(w string, _ int) string {
			return Normalize(w)
		})
		words = lo.Compact(words)
		if dups := lo.FindDuplicates(words); len(dups) > 0 {
			return nil, fmt.Errorf("category: %s: duplicate words %v", c.ID, dups)
		}
		if len(words) == 0 {
			return nil, fmt.Errorf("category: %s: empty word list", c.ID)
		}
		r.order = append(r.order, c.Category)
		r.lists[c.ID] = words
		for _, w := range words {
			r.all[w] = struct{}{}
		}
	}
	return r, nil
}

var (
	defaultOnce sync.Once
	defaultReg  *Registry
	defaultErr  error
)

// Default returns the registry built from the embedded categories.yaml.
// Loading runs exactly once.
func Default() (*Registry, error) {
	defaultOnce.Do(func() {
		data, err := assets.CategoriesYAML()
		if err != nil {
			defaultErr = err
			return
		}
		defaultReg, defaultErr = Parse(data)
	})
	return defaultReg, defaultErr
}

// Categories returns the registry rows in display order.
func (r *Registry) Categories() []Category {
	out := make([]Category, len(r.order))
	copy(out, r.order)
	return out
}

// Has reports whether id is a registered category.
func (r *Registry) Has(id ID) bool {
	_, ok := r.lists[id]
	return ok
}

// Lookup returns the registry row for id.
func (r *Registry) Lookup(id ID) (Category, bool) {
	return lo.Find(r.order, func(c Category) bool { return c.ID == id })
}

// WordList returns the candidate targets for id, or nil for an unknown category.
func (r *Registry) WordList(id ID) []string {
	words, ok := r.lists[id]
	if !ok {
		return nil
	}
	out := make([]string, len(words))
	copy(out, words)
	return out
}

// Contains reports whether word belongs to any category's list.
func (r *Registry) Contains(word string) bool {
	_, ok := r.all[Normalize(word)]
	return ok
}

// AllWords returns the union of every word list, in no particular order.
func (r *Registry) AllWords() []string {
	return lo.Keys(r.all)
}

// Stats returns (categories, distinct words).
func (r *Registry) Stats() (categories int, words int) {
	return len(r.order), len(r.all)
}

// Normalize trims, lowercases and collapses inner whitespace to single spaces.
func Normalize(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}
