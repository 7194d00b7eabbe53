package formatter

import (
	"context"
	"fmt"
	"io"

	"shamir/internal/content"
	"shamir/internal/logger"
	"shamir/internal/metrics"
)

const fixImagesJob = "fix-images"

// FixResult summarises a fix-images run.
type FixResult struct {
	Processed int
	Fixed     int
}

// String formats the run summary.
func (r FixResult) String() string {
	return fmt.Sprintf("Processed %d files, fixed %d files", r.Processed, r.Fixed)
}

// ImageFixer removes image indentation from every translation file and,
// optionally, re-aligns its tables.
type ImageFixer struct {
	store       *content.Store
	log         *logger.Logger
	metrics     *metrics.Metrics
	out         io.Writer
	dryRun      bool
	alignTables bool
}

// NewImageFixer creates a fixer. With dryRun set, files are reported but
// not written.
func NewImageFixer(store *content.Store, log *logger.Logger, m *metrics.Metrics, out io.Writer, dryRun bool) *ImageFixer {
	if out == nil {
		out = io.Discard
	}

	return &ImageFixer{store: store, log: log, metrics: m, out: out, dryRun: dryRun}
}

// AlignTables makes Run also pad table cells with FormatMarkdown.
func (f *ImageFixer) AlignTables() *ImageFixer {
	f.alignTables = true
	return f
}

// Run rewrites the translation files whose content changes.
func (f *ImageFixer) Run(ctx context.Context) (FixResult, error) {
	var result FixResult

	files, err := f.store.TranslationFiles()
	if err != nil {
		return result, err
	}

	for _, file := range files {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		result.Processed++

		raw, err := f.store.ReadRaw(file.ID, file.Locale)
		if err != nil {
			f.metrics.IncFile(fixImagesJob, "failed")
			f.log.Error("Failed to read file", "file", file.Name, "error", err)

			continue
		}

		fixed := FixImageIndentation(raw)
		if f.alignTables {
			fixed = FormatMarkdown(fixed)
		}
		if fixed == raw {
			f.metrics.IncFile(fixImagesJob, "skipped")
			continue
		}

		result.Fixed++

		if f.dryRun {
			fmt.Fprintf(f.out, "Would fix %s\n", file.Name)
			continue
		}

		if _, err := content.WriteIfChanged(f.store.Path(file.ID, file.Locale), fixed); err != nil {
			result.Fixed--
			f.metrics.IncFile(fixImagesJob, "failed")
			f.log.Error("Failed to write file", "file", file.Name, "error", err)

			continue
		}

		f.metrics.IncFile(fixImagesJob, "written")
		fmt.Fprintf(f.out, "✓ Fixed %s\n", file.Name)
	}

	return result, nil
}
