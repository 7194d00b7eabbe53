// Package models defines the data structures shared by the pipeline stages.
package models

import (
	"strings"

	"gopkg.in/yaml.v3"
)

// Locale is one of the three site languages.
type Locale string

// Site locales. Russian is the authoritative source.
const (
	LocaleRU Locale = "ru"
	LocaleLV Locale = "lv"
	LocaleEN Locale = "en"
)

// TranslationLocales lists the derived locales in processing order.
var TranslationLocales = []Locale{LocaleEN, LocaleLV}

// ParseLocale accepts "ru", "lv" or "en" in any case.
func ParseLocale(s string) (Locale, bool) {
	switch Locale(strings.ToLower(strings.TrimSpace(s))) {
	case LocaleRU:
		return LocaleRU, true
	case LocaleLV:
		return LocaleLV, true
	case LocaleEN:
		return LocaleEN, true
	}

	return "", false
}

// Upper returns the locale code for summaries ("EN", "LV").
func (l Locale) Upper() string {
	return strings.ToUpper(string(l))
}

// Article is one locale version of a numbered article.
type Article struct {
	ID     string  `yaml:"id,omitempty"`
	Title  string  `yaml:"title,omitempty"`
	Locale Locale  `yaml:"locale,omitempty"`
	Date   string  `yaml:"date,omitempty"`
	OldURL string  `yaml:"oldUrl,omitempty"`
	Image  string  `yaml:"image,omitempty"`
	Tags   TagList `yaml:"tags,omitempty"`
	Body   string  `yaml:"-"`
}

// EffectiveLocale treats a missing locale as Russian. Known codes are
// matched case-insensitively; anything else is returned as written.
func (a *Article) EffectiveLocale() Locale {
	if a.Locale == "" {
		return LocaleRU
	}

	if l, ok := ParseLocale(string(a.Locale)); ok {
		return l
	}

	return a.Locale
}

// TagList decodes either a YAML sequence or a single scalar and drops
// empty entries. Nested sequences are flattened.
type TagList []string

// UnmarshalYAML implements yaml.Unmarshaler.
func (t *TagList) UnmarshalYAML(value *yaml.Node) error {
	var out []string

	collectTags(value, &out)
	*t = out

	return nil
}

func collectTags(n *yaml.Node, out *[]string) {
	switch n.Kind {
	case yaml.ScalarNode:
		if n.Tag == "!!null" || n.Value == "" {
			return
		}

		*out = append(*out, n.Value)
	case yaml.SequenceNode:
		for _, item := range n.Content {
			collectTags(item, out)
		}
	case yaml.AliasNode:
		if n.Alias != nil {
			collectTags(n.Alias, out)
		}
	}
}
