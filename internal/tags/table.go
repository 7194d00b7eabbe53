// Package tags translates article tags between locales and keeps the tag
// lists of an article's locale files in sync.
package tags

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"

	"shamir/internal/models"
)

//go:embed tags.yaml
var embeddedTable []byte

var defaultTable = mustLoad(embeddedTable)

type entry map[models.Locale]string

// Table is an immutable tag lookup. Special entries win over general ones.
type Table struct {
	special map[string]entry
	general map[string]entry
}

// Default returns the table shipped with the binary.
func Default() *Table {
	return defaultTable
}

// Load parses a table document with "general" and "special" sections.
func Load(data []byte) (*Table, error) {
	var doc struct {
		General map[string]map[string]string `yaml:"general"`
		Special map[string]map[string]string `yaml:"special"`
	}

	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse tag table: %w", err)
	}

	return &Table{
		special: toEntries(doc.Special),
		general: toEntries(doc.General),
	}, nil
}

func mustLoad(data []byte) *Table {
	t, err := Load(data)
	if err != nil {
		panic(err)
	}

	return t
}

func toEntries(raw map[string]map[string]string) map[string]entry {
	out := make(map[string]entry, len(raw))

	for tag, names := range raw {
		e := make(entry, len(names))
		for locale, name := range names {
			e[models.Locale(locale)] = name
		}

		out[tag] = e
	}

	return out
}

// Translate returns the name of tag in locale. Unknown tags, and tags
// without a name for locale, come back unchanged.
func (t *Table) Translate(tag string, locale models.Locale) string {
	if locale == models.LocaleRU {
		return tag
	}

	for _, table := range []map[string]entry{t.special, t.general} {
		if e, ok := table[tag]; ok {
			if name := e[locale]; name != "" {
				return name
			}

			return tag
		}
	}

	return tag
}

// TranslateAll maps every tag, keeping order and duplicates.
func (t *Table) TranslateAll(tags []string, locale models.Locale) []string {
	out := make([]string, len(tags))
	for i, tag := range tags {
		out[i] = t.Translate(tag, locale)
	}

	return out
}

// Len returns the number of known tags.
func (t *Table) Len() int {
	return len(t.special) + len(t.general)
}
