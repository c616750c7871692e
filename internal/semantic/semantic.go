// internal/semantic/semantic.go
//
// Semantic knowledge base: per-category tables mapping a word to its related
// terms and typed property lists.
//
// The base is parsed once from the embedded semantic.yaml and is read-only
// afterwards. Lookup hands out deep copies, so no caller can mutate the tables.
//
// Load-time invariants:
//   - an entry's name equals its (lowercased) key
//   - every property present has at least one value

package semantic

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/robalobadob/proximity/assets"
	"github.com/robalobadob/proximity/internal/category"
)

// ErrInvalidEntry is returned when a table violates the load-time invariants.
var ErrInvalidEntry = errors.New("semantic: invalid entry")

// Entry is the curated metadata for one word within one category.
type Entry struct {
	Name       string
	Related    []string
	Properties map[string][]string
}

// Property returns the values for name, or nil.
func (e Entry) Property(name string) []string {
	return e.Properties[name]
}

// PropertyNames returns the entry's property names in sorted order.
func (e Entry) PropertyNames() []string {
	return slices.Sorted(maps.Keys(e.Properties))
}

func (e Entry) clone() Entry {
	props := make(map[string][]string, len(e.Properties))
	for k, v := range e.Properties {
		props[k] = slices.Clone(v)
	}
	return Entry{Name: e.Name, Related: slices.Clone(e.Related), Properties: props}
}

// KnowledgeBase holds one table per category.
type KnowledgeBase struct {
	tables map[category.ID]map[string]Entry
}

type rawEntry struct {
	Name       string              `yaml:"name"`
	Related    []string            `yaml:"related"`
	Properties map[string][]string `yaml:"properties"`
}

// Parse builds a KnowledgeBase from a YAML document keyed category -> word -> entry.
func Parse(data []byte) (*KnowledgeBase, error) {
	var doc map[category.ID]map[string]rawEntry
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("semantic: decode: %w", err)
	}

	kb := &KnowledgeBase{tables: make(map[category.ID]map[string]Entry, len(doc))}
	for cat, words := range doc {
		table := make(map[string]Entry, len(words))
		for key, raw := range words {
			norm := category.Normalize(key)
			name := raw.Name
			if name == "" {
				name = norm
			}
			if category.Normalize(name) != norm || norm != key {
				return nil, fmt.Errorf("%w: %s/%q: name %q does not match key", ErrInvalidEntry, cat, key, raw.Name)
			}
			props := make(map[string][]string, len(raw.Properties))
			for p, values := range raw.Properties {
				if len(values) == 0 {
					return nil, fmt.Errorf("%w: %s/%s: property %q is empty", ErrInvalidEntry, cat, key, p)
				}
				props[strings.ToLower(p)] = lowerAll(values)
			}
			table[norm] = Entry{Name: norm, Related: lowerAll(raw.Related), Properties: props}
		}
		kb.tables[cat] = table
	}
	return kb, nil
}

func lowerAll(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.ToLower(strings.TrimSpace(s)); s != "" {
			out = append(out, s)
		}
	}
	return out
}

var (
	defaultOnce sync.Once
	defaultKB   *KnowledgeBase
	defaultErr  error
)

// Default returns the knowledge base parsed from the embedded semantic.yaml.
func Default() (*KnowledgeBase, error) {
	defaultOnce.Do(func() {
		data, err := assets.SemanticYAML()
		if err != nil {
			defaultErr = err
			return
		}
		defaultKB, defaultErr = Parse(data)
	})
	return defaultKB, defaultErr
}

// HasTable reports whether cat has a semantic table.
func (kb *KnowledgeBase) HasTable(cat category.ID) bool {
	if kb == nil {
		return false
	}
	_, ok := kb.tables[cat]
	return ok
}

// Lookup returns a copy of the entry for word in cat.
func (kb *KnowledgeBase) Lookup(cat category.ID, word string) (Entry, bool) {
	if kb == nil {
		return Entry{}, false
	}
	table, ok := kb.tables[cat]
	if !ok {
		return Entry{}, false
	}
	e, ok := table[category.Normalize(word)]
	if !ok {
		return Entry{}, false
	}
	return e.clone(), true
}

// Size returns the number of entries in cat's table.
func (kb *KnowledgeBase) Size(cat category.ID) int {
	if kb == nil {
		return 0
	}
	return len(kb.tables[cat])
}
