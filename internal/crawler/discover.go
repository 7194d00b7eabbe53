package crawler

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/mmcdole/gofeed"

	"shamir/internal/config"
	"shamir/internal/logger"
)

const defaultListingSelector = ".herald-main-content article"

// PageGetter fetches a page body. *Fetcher implements it.
type PageGetter interface {
	Fetch(ctx context.Context, url string) (string, error)
}

// Discoverer collects article URLs from category listings and feeds.
type Discoverer struct {
	getter PageGetter
	cfg    *config.Config
	log    *logger.Logger
	feeds  *gofeed.Parser
}

// NewDiscoverer creates a discoverer that fetches through getter.
func NewDiscoverer(getter PageGetter, cfg *config.Config, log *logger.Logger) *Discoverer {
	return &Discoverer{
		getter: getter,
		cfg:    cfg,
		log:    log,
		feeds:  gofeed.NewParser(),
	}
}

// ListingPageURL returns the address of page n of a category listing.
func ListingPageURL(category string, n int) string {
	if n <= 1 {
		return category
	}

	return fmt.Sprintf("%s/page/%d", strings.TrimRight(category, "/"), n)
}

// Listing walks the pages of one category until a page has no articles,
// fails to load, or the page limit is reached.
func (d *Discoverer) Listing(ctx context.Context, category string) ([]string, error) {
	var links []string

	for n := 1; n <= d.cfg.Discover.MaxPages; n++ {
		if err := ctx.Err(); err != nil {
			return links, err
		}

		pageURL := ListingPageURL(category, n)

		body, err := d.getter.Fetch(ctx, pageURL)
		if err != nil {
			d.log.Debug("listing page unavailable", "url", pageURL, "error", err)
			break
		}

		found := d.ArticleLinks(body, pageURL)
		if len(found) == 0 {
			break
		}

		links = append(links, found...)

		if n == d.cfg.Discover.MaxPages {
			d.log.Warn("listing page limit reached", "category", category, "pages", n)
		}
	}

	return links, nil
}

// ArticleLinks returns the first link of every listed article, resolved
// against pageURL.
func (d *Discoverer) ArticleLinks(rawHTML, pageURL string) []string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		return nil
	}

	selector := defaultListingSelector

	base, _ := url.Parse(pageURL)
	if base != nil {
		if site, ok := d.cfg.SiteFor(base.Hostname()); ok && site.ListingSelector != "" {
			selector = site.ListingSelector
		}
	}

	var links []string

	doc.Find(selector).Each(func(_ int, article *goquery.Selection) {
		href, ok := article.Find("a[href]").First().Attr("href")
		if !ok || strings.TrimSpace(href) == "" {
			return
		}

		links = append(links, resolve(base, strings.TrimSpace(href)))
	})

	return links
}

// Feed returns the item links of an RSS or Atom feed.
func (d *Discoverer) Feed(ctx context.Context, feedURL string) ([]string, error) {
	body, err := d.getter.Fetch(ctx, feedURL)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch feed: %w", err)
	}

	feed, err := d.feeds.ParseString(body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse feed %s: %w", feedURL, err)
	}

	links := make([]string, 0, len(feed.Items))

	for _, item := range feed.Items {
		if item.Link != "" {
			links = append(links, item.Link)
		}
	}

	return links, nil
}

// Discover runs every configured category and feed and returns the
// de-duplicated links in discovery order. A failing feed is logged and
// skipped.
func (d *Discoverer) Discover(ctx context.Context) ([]string, error) {
	seen := make(map[string]bool)

	var out []string

	add := func(links []string) {
		for _, l := range links {
			if !seen[l] {
				seen[l] = true
				out = append(out, l)
			}
		}
	}

	for _, category := range d.cfg.Discover.Categories {
		links, err := d.Listing(ctx, category)
		if err != nil {
			return out, err
		}

		d.log.Info("category listed", "category", category, "articles", len(links))
		add(links)
	}

	for _, feedURL := range d.cfg.Discover.Feeds {
		links, err := d.Feed(ctx, feedURL)
		if err != nil {
			d.log.Warn("feed skipped", "feed", feedURL, "error", err)
			continue
		}

		add(links)
	}

	return out, nil
}

func resolve(base *url.URL, href string) string {
	if base == nil {
		return href
	}

	ref, err := url.Parse(href)
	if err != nil {
		return href
	}

	return base.ResolveReference(ref).String()
}
