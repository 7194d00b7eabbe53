package scrape

import (
	"context"
	"fmt"
	"path/filepath"

	"shamir/internal/content"
	"shamir/internal/converter"
	"shamir/internal/crawler"
	"shamir/internal/frontmatter"
	"shamir/internal/models"
)

var pageLocales = []models.Locale{models.LocaleRU, models.LocaleLV, models.LocaleEN}

// PageScraper saves one standalone page in all three locales as
// "<dir>/<locale>.md".
type PageScraper struct {
	deps Deps
}

// NewPageScraper creates a page scraper. Deps.Store is not used.
func NewPageScraper(deps Deps) *PageScraper {
	return &PageScraper{deps: deps}
}

// Scrape fetches every locale variant of pageURL. A locale that fails is
// reported and skipped; the written locales are returned.
func (p *PageScraper) Scrape(ctx context.Context, pageURL, dir string) ([]models.Locale, error) {
	out := p.deps.out()

	var saved []models.Locale

	for _, locale := range pageLocales {
		variant, ok := p.deps.Resolver.URLFor(pageURL, locale)
		if !ok {
			fmt.Fprintf(out, "✗ %s: No URL available\n", locale.Upper())
			continue
		}

		fmt.Fprintf(out, "Fetching %s version: %s\n", locale.Upper(), variant)

		page, err := p.deps.Getter.Fetch(ctx, variant)
		if err != nil {
			if ctx.Err() != nil {
				return saved, ctx.Err()
			}

			p.deps.Log.Warn("Failed to fetch page", "url", variant, "error", err)
			fmt.Fprintf(out, "✗ %s: Failed to scrape\n", locale.Upper())

			continue
		}

		post := p.deps.Extractor.Extract(page, crawler.Host(variant))

		doc := frontmatter.New(converter.ToMarkdown(post.BodyHTML))
		if err := doc.Set("title", post.Title); err != nil {
			return saved, err
		}

		if err := doc.Set("locale", string(locale)); err != nil {
			return saved, err
		}

		rendered, err := doc.Render()
		if err != nil {
			return saved, err
		}

		path := filepath.Join(dir, string(locale)+".md")
		if _, err := content.WriteIfChanged(path, rendered); err != nil {
			return saved, err
		}

		saved = append(saved, locale)
		fmt.Fprintf(out, "✓ Saved %s content to %s\n", locale, path)
	}

	return saved, nil
}
