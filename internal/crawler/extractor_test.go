package crawler

import (
	"strings"
	"testing"

	"shamir/internal/config"
	"shamir/internal/models"
)

func localeOf(s string) models.Locale {
	return models.Locale(s)
}

const shamirPage = `<!DOCTYPE html>
<html><head><title>Shamir | Exhibition</title></head>
<body>
<div class="herald-post-thumbnail-single">
  <header class="entry-header">
    <div>Exhibition   opening</div>
    <span class="herald-date">Monday, May 27, 2013</span>
    <span class="meta-category"><a href="/c/1">Exhibitions</a><a href="/c/2">Projects</a></span>
  </header>
  <img class="attachment-herald-lay-a-full" src="/wp/2013/05/main.jpg">
</div>
<div class="entry-content"><p>First paragraph.</p><table><tr><th>Date</th><th>Event</th></tr><tr><td>12.05.2013</td><td>Opening | talk</td></tr><tr><td>13.05.2013</td></tr></table></div>
</body></html>`

const rglhmPage = `<html><head><title>Riga Ghetto Museum</title></head>
<body>
<header class="header"><h1>Site name</h1></header>
<article>
  <h1>Concert in the museum</h1>
  <time datetime="2014-03-09T10:00:00+02:00"></time>
  <div class="tags"><a>Concerts</a></div>
  <img class="featured-image" data-lazy-src="/uploads/c.jpg">
  <div class="post-content"><p>Body text.</p></div>
</article>
</body></html>`

func TestExtractor_ShamirTemplate(t *testing.T) {
	e := NewExtractor(config.Default())

	post := e.Extract(shamirPage, "shamir.lv")

	if post.Title != "Exhibition opening" {
		t.Errorf("Expected site title, got %q", post.Title)
	}

	if post.Date != "Monday, May 27, 2013" {
		t.Errorf("Expected date text, got %q", post.Date)
	}

	if strings.Join(post.Tags, ",") != "Exhibitions,Projects" {
		t.Errorf("Expected category tags, got %v", post.Tags)
	}

	if post.Image != "/wp/2013/05/main.jpg" {
		t.Errorf("Expected featured image, got %q", post.Image)
	}

	if !strings.HasPrefix(post.BodyHTML, "<p>First paragraph.</p>") {
		t.Errorf("Expected entry-content inner HTML, got %q", post.BodyHTML)
	}
}

func TestExtractor_GenericTemplate(t *testing.T) {
	e := NewExtractor(config.Default())

	post := e.Extract(rglhmPage, "rglhm.lv")

	// The first h1 in document order wins, as on the live site.
	if post.Title != "Site name" {
		t.Errorf("Expected first h1, got %q", post.Title)
	}

	if post.Date != "2014-03-09T10:00:00+02:00" {
		t.Errorf("Expected datetime attribute, got %q", post.Date)
	}

	if len(post.Tags) != 1 || post.Tags[0] != "Concerts" {
		t.Errorf("Expected [Concerts], got %v", post.Tags)
	}

	if post.Image != "/uploads/c.jpg" {
		t.Errorf("Expected lazy image, got %q", post.Image)
	}

	if post.BodyHTML != "<p>Body text.</p>" {
		t.Errorf("Expected post-content HTML, got %q", post.BodyHTML)
	}
}

func TestExtractor_StructuralFallback(t *testing.T) {
	e := NewExtractor(config.Default())

	page := `<html><body><main><nav>menu</nav><p>Only text</p><footer>foot</footer></main></body></html>`
	post := e.Extract(page, "example.com")

	if post.BodyHTML != "<p>Only text</p>" {
		t.Errorf("Expected chrome removed from main, got %q", post.BodyHTML)
	}

	if post.Title != "" || post.Date != "" || post.Image != "" || post.Tags != nil {
		t.Errorf("Expected empty fields, got %+v", post)
	}
}

func TestExtractor_GarbageNeverFails(t *testing.T) {
	e := NewExtractor(config.Default())

	for _, input := range []string{"", "<<<>>>", "<div><p>unclosed", "\x00\x01binary"} {
		post := e.Extract(input, "shamir.lv")
		if post == nil {
			t.Fatalf("Expected a post for %q, got nil", input)
		}

		if post.HasTitle() {
			t.Errorf("Expected no title for %q, got %q", input, post.Title)
		}
	}
}

func TestExtractor_Tables(t *testing.T) {
	e := NewExtractor(config.Default())

	tables := e.Tables(shamirPage, "shamir.lv")
	if len(tables) != 1 {
		t.Fatalf("Expected 1 table, got %d", len(tables))
	}

	expected := strings.Join([]string{
		"| Date       | Event" + strings.Repeat(" ", 10) + " |",
		"| ---------- | " + strings.Repeat("-", 15) + " |",
		`| 12.05.2013 | Opening \| talk |`,
		"| 13.05.2013 | " + strings.Repeat(" ", 15) + " |",
	}, "\n")

	if tables[0] != expected {
		t.Errorf("Expected:\n%s\ngot:\n%s", expected, tables[0])
	}

	if got := e.Tables("<p>no tables</p>", "shamir.lv"); len(got) != 0 {
		t.Errorf("Expected no tables, got %v", got)
	}
}
