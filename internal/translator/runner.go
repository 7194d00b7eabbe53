package translator

import (
	"context"
	"fmt"
	"io"

	"shamir/internal/content"
	"shamir/internal/frontmatter"
	"shamir/internal/logger"
	"shamir/internal/metrics"
	"shamir/internal/models"
	"shamir/internal/tags"
)

const jobName = "translate-articles"

// RunResult summarises a translation run.
type RunResult struct {
	Processed  int
	Translated map[models.Locale]int
	Skipped    int
	Failed     int
}

// Summary formats the result as the closing report lines.
func (r RunResult) Summary() string {
	return fmt.Sprintf("Processed: %d\nTranslated EN: %d\nTranslated LV: %d\nSkipped: %d\nFailed: %d",
		r.Processed, r.Translated[models.LocaleEN], r.Translated[models.LocaleLV], r.Skipped, r.Failed)
}

// Runner rewrites "<id>-en.md" and "<id>-lv.md" files that still hold a
// placeholder or Russian text with a machine translation of "<id>.md".
type Runner struct {
	store      *content.Store
	translator *Translator
	table      *tags.Table
	markers    map[string][]string
	log        *logger.Logger
	metrics    *metrics.Metrics
	out        io.Writer
}

// NewRunner creates a runner. A nil table uses tags.Default.
func NewRunner(store *content.Store, tr *Translator, table *tags.Table, markers map[string][]string,
	log *logger.Logger, m *metrics.Metrics, out io.Writer) *Runner {
	if table == nil {
		table = tags.Default()
	}

	if out == nil {
		out = io.Discard
	}

	return &Runner{store: store, translator: tr, table: table, markers: markers, log: log, metrics: m, out: out}
}

// Run processes every translation file in file-name order.
func (r *Runner) Run(ctx context.Context) (RunResult, error) {
	result := RunResult{Translated: map[models.Locale]int{}}

	files, err := r.store.TranslationFiles()
	if err != nil {
		return result, err
	}

	fmt.Fprintf(r.out, "📂 Found %d translation articles\n", len(files))

	for _, f := range files {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		translated, err := r.translateFile(ctx, f)

		switch {
		case err != nil:
			if ctx.Err() != nil {
				return result, ctx.Err()
			}

			result.Failed++
			r.metrics.IncFile(jobName, "failed")
			r.log.Error("Failed to translate article", "file", f.Name, "error", err)
			fmt.Fprintf(r.out, "❌ Error processing %s: %v\n", f.Name, err)
		case !translated:
			result.Skipped++
			r.metrics.IncFile(jobName, "skipped")
		default:
			result.Processed++
			result.Translated[f.Locale]++
			r.metrics.IncFile(jobName, "written")
			fmt.Fprintf(r.out, "  ✓ Translated %s\n", f.Name)
		}
	}

	return result, nil
}

func (r *Runner) translateFile(ctx context.Context, f content.TranslationFile) (bool, error) {
	raw, err := r.store.ReadRaw(f.ID, f.Locale)
	if err != nil {
		return false, err
	}

	if !NeedsTranslation(raw, r.markers[string(f.Locale)]) {
		fmt.Fprintf(r.out, "Skipping %s - already translated\n", f.Name)
		return false, nil
	}

	if !r.store.Exists(f.ID, models.LocaleRU) {
		fmt.Fprintf(r.out, "Skipping %s - Russian file %s not found\n", f.Name, content.FileName(f.ID, models.LocaleRU))
		return false, nil
	}

	doc, err := frontmatter.Parse(raw)
	if err != nil {
		return false, err
	}

	_, ru, err := r.store.Load(f.ID, models.LocaleRU)
	if err != nil {
		return false, err
	}

	fmt.Fprintf(r.out, "\n⚙️  Processing %s (%s)...\n", f.Name, f.Locale.Upper())

	target := string(f.Locale)

	title, err := r.translator.TranslateText(ctx, ru.Title, target)
	if err != nil {
		return false, err
	}

	body, err := r.translator.TranslateBody(ctx, ru.Body, target)
	if err != nil {
		return false, err
	}

	if err := doc.Set("title", title); err != nil {
		return false, err
	}

	if len(ru.Tags) > 0 {
		if err := doc.Set("tags", r.table.TranslateAll(ru.Tags, f.Locale)); err != nil {
			return false, err
		}
	}

	if err := doc.Set("locale", target); err != nil {
		return false, err
	}

	doc.Body = body

	if _, err := r.store.Save(f.ID, f.Locale, doc); err != nil {
		return false, err
	}

	return true, nil
}
