package normalizer

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"shamir/internal/models"
	"shamir/internal/tags"
)

var (
	ordinalSuffix = regexp.MustCompile(`\b(\d{1,2})(st|nd|rd|th)\b`)
	weekdayPrefix = regexp.MustCompile(`(?i)^(monday|tuesday|wednesday|thursday|friday|saturday|sunday),?\s+`)
	looseDate     = regexp.MustCompile(`(\d{4})[-/](\d{1,2})[-/](\d{1,2})`)
)

var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"January 2, 2006",
	"January 2 2006",
	"Jan 2, 2006",
	"2 January 2006",
	"02.01.2006",
	"2.1.2006",
}

// ParseDate normalises a page date to YYYY-MM-DD. It returns "" when no
// date can be recognised.
func ParseDate(raw string) string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return ""
	}

	s = weekdayPrefix.ReplaceAllString(s, "")
	s = ordinalSuffix.ReplaceAllString(s, "$1")

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format("2006-01-02")
		}
	}

	if m := looseDate.FindStringSubmatch(raw); m != nil {
		year, _ := strconv.Atoi(m[1])
		month, _ := strconv.Atoi(m[2])
		day, _ := strconv.Atoi(m[3])

		t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
		if t.Month() != time.Month(month) || t.Day() != day {
			return ""
		}

		return t.Format("2006-01-02")
	}

	return ""
}

// Transformer maps a scraped variant onto the translated article's front
// matter.
type Transformer struct {
	table *tags.Table
}

// NewTransformer creates a new transformer instance.
func NewTransformer(table *tags.Table) *Transformer {
	if table == nil {
		table = tags.Default()
	}

	return &Transformer{table: table}
}

// Transform fills date, tags and image from the page and falls back to the
// Russian article for whatever the page lacks.
func (t *Transformer) Transform(in Input) *models.Article {
	base := in.Base
	if base == nil {
		base = &models.Article{}
	}

	article := &models.Article{
		ID:     in.ID,
		Title:  strings.TrimSpace(in.Post.Title),
		Locale: in.Locale,
		Date:   ParseDate(in.Post.Date),
		OldURL: in.URL,
		Image:  in.Post.Image,
		Tags:   models.TagList(in.Post.Tags),
	}

	if article.Date == "" {
		article.Date = base.Date
	}

	if len(article.Tags) == 0 && len(base.Tags) > 0 {
		article.Tags = t.table.TranslateAll(base.Tags, in.Locale)
	}

	if article.Image == "" {
		article.Image = base.Image
	}

	return article
}
