// Package scrape creates article files from legacy site pages.
package scrape

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"shamir/internal/content"
	"shamir/internal/crawler"
	"shamir/internal/frontmatter"
	"shamir/internal/logger"
	"shamir/internal/metrics"
	"shamir/internal/models"
	"shamir/internal/normalizer"
)

const translationsJob = "scrape-translations"

// TranslationResult summarises a scrape-translations run.
type TranslationResult struct {
	Processed int
	Created   map[models.Locale]int
	Failed    map[models.Locale]int
	Skipped   int
}

// Summary formats the closing report lines.
func (r TranslationResult) Summary() string {
	return fmt.Sprintf("Processed: %d\nCreated EN: %d\nCreated LV: %d\nFailed EN: %d\nFailed LV: %d\nSkipped: %d",
		r.Processed,
		r.Created[models.LocaleEN], r.Created[models.LocaleLV],
		r.Failed[models.LocaleEN], r.Failed[models.LocaleLV],
		r.Skipped)
}

// Deps are the collaborators shared by the scrape jobs.
type Deps struct {
	Store     *content.Store
	Getter    crawler.PageGetter
	Extractor *crawler.Extractor
	Resolver  *crawler.VariantResolver
	Log       *logger.Logger
	Metrics   *metrics.Metrics
	Out       io.Writer
}

func (d *Deps) out() io.Writer {
	if d.Out == nil {
		return io.Discard
	}

	return d.Out
}

// TranslationScraper creates missing "<id>-en.md" and "<id>-lv.md" files
// from the legacy site's locale variants of each Russian article.
type TranslationScraper struct {
	deps      Deps
	processor *normalizer.Processor
}

// NewTranslationScraper creates a scraper. A nil processor uses the
// default tag table.
func NewTranslationScraper(deps Deps, processor *normalizer.Processor) *TranslationScraper {
	if processor == nil {
		processor = normalizer.NewProcessor(nil)
	}

	return &TranslationScraper{deps: deps, processor: processor}
}

// Run visits every Markdown file in name order. Files already in another
// locale and files without oldUrl are skipped. Existing translations are
// never overwritten.
func (s *TranslationScraper) Run(ctx context.Context) (TranslationResult, error) {
	result := TranslationResult{
		Created: map[models.Locale]int{},
		Failed:  map[models.Locale]int{},
	}

	out := s.deps.out()

	names, err := s.deps.Store.MarkdownFiles()
	if err != nil {
		return result, err
	}

	fmt.Fprintf(out, "📂 Found %d articles to process\n", len(names))

	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		if err := s.scrapeFile(ctx, name, &result); err != nil {
			if ctx.Err() != nil {
				return result, ctx.Err()
			}

			s.deps.Log.Error("Failed to process article", "file", name, "error", err)
			fmt.Fprintf(out, "❌ Error processing %s: %v\n", name, err)
		}
	}

	return result, nil
}

func (s *TranslationScraper) scrapeFile(ctx context.Context, name string, result *TranslationResult) error {
	out := s.deps.out()

	_, base, err := content.LoadFile(filepath.Join(s.deps.Store.Dir(), name))
	if err != nil {
		return err
	}

	locale := base.EffectiveLocale()
	if _, named, err := content.ParseFileName(name); err == nil {
		locale = named
	}

	if locale != models.LocaleRU {
		fmt.Fprintf(out, "Skipping %s - already a translation\n", name)
		result.Skipped++
		s.deps.Metrics.IncFile(translationsJob, "skipped")

		return nil
	}

	if base.OldURL == "" {
		fmt.Fprintf(out, "Skipping %s - no oldUrl\n", name)
		result.Skipped++
		s.deps.Metrics.IncFile(translationsJob, "skipped")

		return nil
	}

	id := base.ID
	if id == "" {
		id = strings.TrimSuffix(name, ".md")
	}

	fmt.Fprintf(out, "\n⚙️  Processing article %s:\n  Original: %s\n", id, base.OldURL)

	variants := s.deps.Resolver.Variants(base.OldURL)

	for _, locale := range models.TranslationLocales {
		variant, ok := variants[locale]
		if !ok {
			fmt.Fprintf(out, "  %s: No URL available\n", locale.Upper())
			continue
		}

		if s.deps.Store.Exists(id, locale) {
			fmt.Fprintf(out, "  %s: Translation file already exists, skipping\n", locale.Upper())
			continue
		}

		if err := s.createTranslation(ctx, id, locale, variant, base); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}

			result.Failed[locale]++
			s.deps.Metrics.IncFile(translationsJob, "failed")
			s.deps.Log.Warn("Failed to scrape translation", "id", id, "locale", locale, "url", variant, "error", err)
			fmt.Fprintf(out, "  %s: Failed to scrape or no content found\n", locale.Upper())

			continue
		}

		result.Created[locale]++
		s.deps.Metrics.IncFile(translationsJob, "written")
		fmt.Fprintf(out, "  %s: ✓ Created %s\n", locale.Upper(), content.FileName(id, locale))
	}

	result.Processed++

	return nil
}

func (s *TranslationScraper) createTranslation(ctx context.Context, id string, locale models.Locale, variant string, base *models.Article) error {
	page, err := s.deps.Getter.Fetch(ctx, variant)
	if err != nil {
		return err
	}

	post := s.deps.Extractor.Extract(page, crawler.Host(variant))
	post.URL = variant

	article, err := s.processor.Process(normalizer.Input{
		ID:     id,
		Locale: locale,
		URL:    variant,
		Post:   post,
		Base:   base,
	})
	if err != nil {
		return err
	}

	doc, err := frontmatter.FromArticle(article)
	if err != nil {
		return err
	}

	_, err = s.deps.Store.Save(id, locale, doc)

	return err
}
