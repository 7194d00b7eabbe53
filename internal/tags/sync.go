package tags

import (
	"context"
	"fmt"
	"io"
	"strings"

	"shamir/internal/content"
	"shamir/internal/frontmatter"
	"shamir/internal/logger"
	"shamir/internal/metrics"
	"shamir/internal/models"
)

const jobName = "sync-tags"

// SyncResult summarises a sync run.
type SyncResult struct {
	Processed    int
	Updated      int
	FilesWritten int
	Failed       int
}

// String formats the run summary.
func (r SyncResult) String() string {
	return fmt.Sprintf("Processed %d files, updated %d files with tags", r.Processed, r.Updated)
}

// Syncer copies the tags of each Russian article, translated, into its
// Latvian and English files.
type Syncer struct {
	store   *content.Store
	table   *Table
	log     *logger.Logger
	metrics *metrics.Metrics
	out     io.Writer
}

// NewSyncer creates a syncer. A nil table uses Default.
func NewSyncer(store *content.Store, table *Table, log *logger.Logger, m *metrics.Metrics, out io.Writer) *Syncer {
	if table == nil {
		table = Default()
	}

	if out == nil {
		out = io.Discard
	}

	return &Syncer{store: store, table: table, log: log, metrics: m, out: out}
}

// Run walks every "<id>.md" file in numeric order. A second run over the
// same tree writes nothing.
func (s *Syncer) Run(ctx context.Context) (SyncResult, error) {
	var result SyncResult

	ids, err := s.store.SourceIDs()
	if err != nil {
		return result, err
	}

	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		result.Processed++

		updated, err := s.syncArticle(id)
		if err != nil {
			result.Failed++
			s.metrics.IncFile(jobName, "failed")
			s.log.Error("Failed to sync tags", "id", id, "error", err)
			fmt.Fprintf(s.out, "❌ %s: %v\n", id, err)

			continue
		}

		if len(updated) == 0 {
			s.metrics.IncFile(jobName, "skipped")
			continue
		}

		result.Updated++
		result.FilesWritten += len(updated)
		s.metrics.IncFile(jobName, "written")
	}

	return result, nil
}

// syncArticle rewrites the tags of one article and returns the locales whose
// files changed.
func (s *Syncer) syncArticle(id string) ([]string, error) {
	_, article, err := s.store.Load(id, models.LocaleRU)
	if err != nil {
		return nil, err
	}

	ruTags := []string(article.Tags)
	if len(ruTags) == 0 {
		s.log.Warn("No tags found", "id", id)
		fmt.Fprintf(s.out, "⚠️  %s: No tags found in RU file\n", id)

		return nil, nil
	}

	var written []string

	for _, locale := range []models.Locale{models.LocaleRU, models.LocaleLV, models.LocaleEN} {
		if locale != models.LocaleRU && !s.store.Exists(id, locale) {
			continue
		}

		changed, err := s.rewrite(id, locale, s.table.TranslateAll(ruTags, locale))
		if err != nil {
			return written, fmt.Errorf("%s: %w", content.FileName(id, locale), err)
		}

		if changed {
			written = append(written, locale.Upper())
		}
	}

	if len(written) > 0 {
		fmt.Fprintf(s.out, "✓ %s: Updated %s tags: [%s]\n", id, strings.Join(written, ", "), strings.Join(ruTags, ", "))
	}

	return written, nil
}

func (s *Syncer) rewrite(id string, locale models.Locale, tags []string) (bool, error) {
	raw, err := s.store.ReadRaw(id, locale)
	if err != nil {
		return false, err
	}

	updated, err := frontmatter.SetListBlock(raw, "tags", tags)
	if err != nil {
		return false, err
	}

	updated, err = frontmatter.EnsureScalar(updated, "locale", string(locale))
	if err != nil {
		return false, err
	}

	return content.WriteIfChanged(s.store.Path(id, locale), updated)
}
