package scrape

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"shamir/internal/content"
	"shamir/internal/converter"
	"shamir/internal/crawler"
	"shamir/internal/frontmatter"
	"shamir/internal/models"
	"shamir/internal/normalizer"
	"shamir/pkg/utils"
)

const importJob = "import-articles"

// Import errors.
var (
	ErrNoTitle    = errors.New("page has no title")
	ErrInvalidURL = errors.New("not an absolute http(s) URL")
)

// ImportResult summarises an import run.
type ImportResult struct {
	Known    int
	Imported []string
	Failed   int
}

// String formats the run summary.
func (r ImportResult) String() string {
	return fmt.Sprintf("Imported %d articles, %d already known, %d failed", len(r.Imported), r.Known, r.Failed)
}

// Importer creates new Russian articles for legacy URLs that no article
// references yet.
type Importer struct {
	deps Deps
	urls *utils.HTTPHelper
}

// NewImporter creates an importer.
func NewImporter(deps Deps) *Importer {
	return &Importer{deps: deps, urls: utils.NewHTTPHelper("")}
}

// KnownURLs collects the oldUrl of every Russian article.
func (im *Importer) KnownURLs() (map[string]bool, error) {
	ids, err := im.deps.Store.SourceIDs()
	if err != nil {
		return nil, err
	}

	known := make(map[string]bool, len(ids))

	for _, id := range ids {
		_, a, err := im.deps.Store.Load(id, models.LocaleRU)
		if err != nil {
			im.deps.Log.Warn("Skipping unreadable article", "id", id, "error", err)
			continue
		}

		if a.OldURL != "" {
			known[a.OldURL] = true
		}
	}

	return known, nil
}

// Import writes "<next id>.md" for every URL not yet imported.
func (im *Importer) Import(ctx context.Context, urls []string) (ImportResult, error) {
	var result ImportResult

	out := im.deps.out()

	known, err := im.KnownURLs()
	if err != nil {
		return result, err
	}

	for _, u := range urls {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		if known[u] {
			result.Known++
			continue
		}

		id, err := im.importURL(ctx, u)
		if err != nil {
			if ctx.Err() != nil {
				return result, ctx.Err()
			}

			result.Failed++
			im.deps.Metrics.IncFile(importJob, "failed")
			im.deps.Log.Warn("Failed to import article", "url", u, "error", err)
			fmt.Fprintf(out, "❌ %s: %v\n", u, err)

			continue
		}

		known[u] = true
		result.Imported = append(result.Imported, id)
		im.deps.Metrics.IncFile(importJob, "written")
		fmt.Fprintf(out, "✓ %s: Created %s\n", u, content.FileName(id, models.LocaleRU))
	}

	return result, nil
}

func (im *Importer) importURL(ctx context.Context, u string) (string, error) {
	if !im.urls.IsValidURL(u) {
		return "", fmt.Errorf("%w: %q", ErrInvalidURL, u)
	}

	page, err := im.deps.Getter.Fetch(ctx, u)
	if err != nil {
		return "", err
	}

	post := im.deps.Extractor.Extract(page, crawler.Host(u))
	if !post.HasTitle() {
		return "", ErrNoTitle
	}

	id, err := im.deps.Store.NextID()
	if err != nil {
		return "", err
	}

	doc, err := frontmatter.FromArticle(&models.Article{
		ID:     id,
		Title:  post.Title,
		Locale: models.LocaleRU,
		Date:   normalizer.ParseDate(post.Date),
		OldURL: u,
		Image:  post.Image,
		Tags:   models.TagList(post.Tags),
		Body:   converter.ToMarkdown(post.BodyHTML),
	})
	if err != nil {
		return "", err
	}

	if _, err := im.deps.Store.Save(id, models.LocaleRU, doc); err != nil {
		return "", err
	}

	return id, nil
}

// ReadURLList reads one URL per line, skipping blanks and "#" comments.
func ReadURLList(path string) ([]string, error) {
	raw, err := content.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var urls []string

	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		urls = append(urls, line)
	}

	return urls, nil
}

// WriteURLList writes one URL per line.
func WriteURLList(path string, urls []string) error {
	if err := os.WriteFile(path, []byte(strings.Join(urls, "\n")+"\n"), 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}

	return nil
}
