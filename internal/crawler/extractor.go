package crawler

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"shamir/internal/config"
	"shamir/internal/formatter"
	"shamir/internal/models"
	"shamir/pkg/utils"
)

// Generic selector chains tried after the site-specific selector misses.
const (
	genericContent    = `.post-content, .entry-content, article .content, [class*="content"]`
	structuralContent = `article, main, [role="main"]`
	chromeElements    = `header, nav, footer, .header, .footer`
	genericDate       = `.date, .post-date, time, [class*="date"]`
	genericTags       = `.tags a, .categories a, [class*="tag"] a, [class*="category"] a`
	genericImage      = `img[class*="featured"], img[class*="main"], .post-image img, article img`
)

var (
	titleChain     = []string{"h1", ".post-title", "title"}
	imageAttrChain = []string{"src", "data-src", "data-lazy-src"}
)

// Extractor pulls a ScrapedPost out of arbitrary legacy HTML.
type Extractor struct {
	cfg     *config.Config
	strings *utils.StringHelper
}

// NewExtractor creates an extractor using the configured site rules.
func NewExtractor(cfg *config.Config) *Extractor {
	return &Extractor{cfg: cfg, strings: utils.NewStringHelper()}
}

// Extract never fails: fields that cannot be found are left empty.
func (e *Extractor) Extract(rawHTML, host string) *models.ScrapedPost {
	post := &models.ScrapedPost{}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		return post
	}

	site, _ := e.cfg.SiteFor(host)

	post.Title = e.firstText(doc.Selection, append([]string{site.TitleSelector}, titleChain...)...)
	post.Date = e.date(doc.Selection, site.DateSelector, genericDate)
	post.Tags = e.tags(doc.Selection, site.TagSelector, genericTags)
	post.Image = e.image(doc.Selection, site.ImageSelector, genericImage)

	if body, err := contentRoot(doc, site).Html(); err == nil {
		post.BodyHTML = strings.TrimSpace(body)
	}

	return post
}

// contentRoot walks the content selector chain down to <body>.
func contentRoot(doc *goquery.Document, site config.SiteConfig) *goquery.Selection {
	for _, sel := range []string{site.ContentSelector, genericContent} {
		if sel == "" {
			continue
		}

		if s := doc.Find(sel).First(); s.Length() > 0 {
			return s
		}
	}

	if s := doc.Find(structuralContent).First(); s.Length() > 0 {
		s.Find(chromeElements).Remove()
		return s
	}

	return doc.Find("body").First()
}

func (e *Extractor) firstText(root *goquery.Selection, selectors ...string) string {
	for _, sel := range selectors {
		if sel == "" {
			continue
		}

		if text := e.strings.NormalizeWhitespace(root.Find(sel).First().Text()); text != "" {
			return text
		}
	}

	return ""
}

func (e *Extractor) date(root *goquery.Selection, selectors ...string) string {
	for _, sel := range selectors {
		if sel == "" {
			continue
		}

		s := root.Find(sel).First()
		if s.Length() == 0 {
			continue
		}

		if text := e.strings.NormalizeWhitespace(s.Text()); text != "" {
			return text
		}

		if dt, ok := s.Attr("datetime"); ok && dt != "" {
			return strings.TrimSpace(dt)
		}
	}

	return ""
}

func (e *Extractor) tags(root *goquery.Selection, selectors ...string) []string {
	for _, sel := range selectors {
		if sel == "" {
			continue
		}

		var tags []string

		root.Find(sel).Each(func(_ int, s *goquery.Selection) {
			if text := e.strings.NormalizeWhitespace(s.Text()); text != "" {
				tags = append(tags, text)
			}
		})

		if len(tags) > 0 {
			return tags
		}
	}

	return nil
}

func (e *Extractor) image(root *goquery.Selection, selectors ...string) string {
	for _, sel := range selectors {
		if sel == "" {
			continue
		}

		s := root.Find(sel).First()
		for _, attr := range imageAttrChain {
			if v, ok := s.Attr(attr); ok && strings.TrimSpace(v) != "" {
				return strings.TrimSpace(v)
			}
		}
	}

	return ""
}

// Tables converts every <table> of the content area into aligned Markdown
// table text. The first row becomes the header; other rows are padded or
// cut to the header width.
func (e *Extractor) Tables(rawHTML, host string) []string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		return nil
	}

	site, _ := e.cfg.SiteFor(host)

	area := doc.Find("body").First()
	for _, sel := range []string{site.ContentSelector, genericContent} {
		if sel == "" {
			continue
		}

		if s := doc.Find(sel).First(); s.Length() > 0 {
			area = s
			break
		}
	}

	var tables []string

	area.Find("table").Each(func(_ int, table *goquery.Selection) {
		var rows [][]string

		table.Find("tr").Each(func(_ int, tr *goquery.Selection) {
			var cells []string

			tr.Find("th, td").Each(func(_ int, cell *goquery.Selection) {
				cells = append(cells, e.strings.NormalizeWhitespace(cell.Text()))
			})

			if len(cells) > 0 {
				rows = append(rows, cells)
			}
		})

		if md := markdownTable(rows); md != "" {
			tables = append(tables, md)
		}
	})

	return tables
}

func markdownTable(rows [][]string) string {
	if len(rows) == 0 {
		return ""
	}

	width := len(rows[0])
	lines := make([]string, 0, len(rows)+1)
	lines = append(lines, tableRow(rows[0]))

	sep := make([]string, width)
	for i := range sep {
		sep[i] = "---"
	}

	lines = append(lines, tableRow(sep))

	for _, row := range rows[1:] {
		cells := make([]string, width)
		copy(cells, row)
		lines = append(lines, tableRow(cells))
	}

	return strings.Join(formatter.AlignTable(lines), "\n")
}

func tableRow(cells []string) string {
	escaped := make([]string, len(cells))
	for i, c := range cells {
		escaped[i] = strings.ReplaceAll(c, "|", `\|`)
	}

	return "| " + strings.Join(escaped, " | ") + " |"
}
