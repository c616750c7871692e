// Package assets embeds the static game data: the category registry, the
// semantic knowledge tables, the short-word whitelist and the sqlite
// migrations.
package assets

import (
	"bufio"
	"embed"
	"io/fs"
	"strings"
)

//go:embed categories.yaml semantic.yaml shortwords.txt sql/*.sql
var FS embed.FS

// readLines returns the non-empty, non-comment lines of an embedded file, lowercased.
func readLines(name string) ([]string, error) {
	f, err := FS.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var out []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		s := strings.TrimSpace(sc.Text())
		if s == "" || strings.HasPrefix(s, "#") {
			continue
		}
		out = append(out, strings.ToLower(s))
	}
	return out, sc.Err()
}

// CategoriesYAML returns the raw category registry document.
func CategoriesYAML() ([]byte, error) {
	return FS.ReadFile("categories.yaml")
}

// SemanticYAML returns the raw knowledge table document.
func SemanticYAML() ([]byte, error) {
	return FS.ReadFile("semantic.yaml")
}

// ShortWords returns the whitelist of real words shorter than three letters.
func ShortWords() ([]string, error) {
	return readLines("shortwords.txt")
}

// Migrations exposes the embedded sql directory.
func Migrations() fs.FS {
	sub, err := fs.Sub(FS, "sql")
	if err != nil {
		// sql/ is part of the embed pattern; Sub only fails on an invalid path.
		panic(err)
	}
	return sub
}
