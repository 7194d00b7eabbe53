package translator

import (
	"regexp"
	"strings"

	"shamir/internal/frontmatter"
)

var cyrillic = regexp.MustCompile(`[А-ЯЁа-яё]`)

// ContainsCyrillic reports whether text has any Russian letter.
func ContainsCyrillic(text string) bool {
	return cyrillic.MatchString(text)
}

// NeedsTranslation reports whether a translation file still holds a
// placeholder marker or Russian body text. When the front matter cannot be
// parsed the whole content is checked.
func NeedsTranslation(content string, markers []string) bool {
	for _, m := range markers {
		if m != "" && strings.Contains(content, m) {
			return true
		}
	}

	doc, err := frontmatter.Parse(content)
	if err != nil {
		return ContainsCyrillic(content)
	}

	return ContainsCyrillic(doc.Body)
}
