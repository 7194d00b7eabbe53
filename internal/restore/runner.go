package restore

import (
	"context"
	"fmt"
	"io"

	"shamir/internal/content"
	"shamir/internal/crawler"
	"shamir/internal/logger"
	"shamir/internal/metrics"
	"shamir/internal/models"
	"shamir/internal/validator"
)

const jobName = "restore-tables"

// restoreOrder is the order translations are visited in.
var restoreOrder = []models.Locale{models.LocaleLV, models.LocaleEN}

// Result summarises a restore run.
type Result struct {
	Processed int
	Restored  int
	Tables    int
}

// String formats the run summary.
func (r Result) String() string {
	return fmt.Sprintf("Processed %d files, restored tables in %d translation files", r.Processed, r.Restored)
}

// Runner re-scrapes tables from the legacy locale pages of articles whose
// translations have fewer tables than the Russian source.
type Runner struct {
	store     *content.Store
	getter    crawler.PageGetter
	extractor *crawler.Extractor
	resolver  *crawler.VariantResolver
	log       *logger.Logger
	metrics   *metrics.Metrics
	out       io.Writer
}

// NewRunner creates a runner.
func NewRunner(store *content.Store, getter crawler.PageGetter, extractor *crawler.Extractor,
	resolver *crawler.VariantResolver, log *logger.Logger, m *metrics.Metrics, out io.Writer) *Runner {
	if out == nil {
		out = io.Discard
	}

	return &Runner{
		store:     store,
		getter:    getter,
		extractor: extractor,
		resolver:  resolver,
		log:       log,
		metrics:   m,
		out:       out,
	}
}

// Run walks every "<id>.md" in numeric order.
func (r *Runner) Run(ctx context.Context) (Result, error) {
	var result Result

	ids, err := r.store.SourceIDs()
	if err != nil {
		return result, err
	}

	fmt.Fprintf(r.out, "📂 Found %d Russian article files\n", len(ids))

	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		result.Processed++

		if err := r.restoreArticle(ctx, id, &result); err != nil {
			r.log.Error("Failed to restore tables", "id", id, "error", err)
			fmt.Fprintf(r.out, "❌ Error processing %s: %v\n", id, err)
		}
	}

	return result, nil
}

func (r *Runner) restoreArticle(ctx context.Context, id string, result *Result) error {
	_, ru, err := r.store.Load(id, models.LocaleRU)
	if err != nil {
		return err
	}

	ruTables := ExtractTables(ru.Body)
	if len(ruTables) == 0 {
		return nil
	}

	fmt.Fprintf(r.out, "\n📋 %s: Found %d table(s) in Russian version\n", id, len(ruTables))

	if ru.OldURL == "" {
		fmt.Fprintln(r.out, "  ⚠️  No oldUrl found, skipping")
		return nil
	}

	for _, locale := range restoreOrder {
		if !r.store.Exists(id, locale) {
			continue
		}

		variant, ok := r.resolver.URLFor(ru.OldURL, locale)
		if !ok {
			continue
		}

		n, err := r.restoreLocale(ctx, id, locale, variant, ru.Body, len(ruTables))
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}

			r.metrics.IncFile(jobName, "failed")
			r.log.Warn("Table restore failed", "id", id, "locale", locale, "url", variant, "error", err)
			fmt.Fprintf(r.out, "  ⚠️  %s: %v\n", locale.Upper(), err)

			continue
		}

		if n > 0 {
			result.Restored++
			result.Tables += n
			r.metrics.IncFile(jobName, "written")
			r.metrics.AddTablesRestored(n)
		} else {
			r.metrics.IncFile(jobName, "skipped")
		}
	}

	return nil
}

// restoreLocale returns the number of tables written into one translation.
func (r *Runner) restoreLocale(ctx context.Context, id string, locale models.Locale, variant, ruBody string, want int) (int, error) {
	doc, tr, err := r.store.Load(id, locale)
	if err != nil {
		return 0, err
	}

	if have := validator.CountTables(tr.Body); have >= want {
		r.log.Debug("Translation already has its tables", "id", id, "locale", locale, "tables", have)
		return 0, nil
	}

	fmt.Fprintf(r.out, "  Fetching %s tables from: %s\n", locale.Upper(), variant)

	page, err := r.getter.Fetch(ctx, variant)
	if err != nil {
		return 0, err
	}

	scraped := r.extractor.Tables(page, crawler.Host(variant))
	if len(scraped) == 0 {
		fmt.Fprintf(r.out, "  ⚠️  %s: No tables found on website\n", locale.Upper())
		return 0, nil
	}

	fmt.Fprintf(r.out, "  ✓ %s: Scraped %d table(s) from website\n", locale.Upper(), len(scraped))

	body, placed := Restore(ruBody, doc.Body, scraped)
	for _, p := range placed {
		fmt.Fprintf(r.out, "  ✓ %s: Inserted table %d at line %d\n", locale.Upper(), p.Index+1, p.Line)
	}

	if len(placed) == 0 {
		r.log.Warn("No anchor found for any table", "id", id, "locale", locale)
		return 0, nil
	}

	doc.Body = body

	if _, err := r.store.Save(id, locale, doc); err != nil {
		return 0, err
	}

	return len(placed), nil
}
