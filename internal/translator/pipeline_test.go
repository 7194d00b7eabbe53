package translator

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"shamir/internal/config"
	"shamir/internal/throttle"
)

// MockProvider is a scripted Provider.
type MockProvider struct {
	Calls      []string
	TranslateF func(call int, text string) (string, error)
}

func (m *MockProvider) Translate(_ context.Context, text, _, target string) (string, error) {
	m.Calls = append(m.Calls, text)

	if m.TranslateF != nil {
		return m.TranslateF(len(m.Calls), text)
	}

	return "[" + target + "]" + text, nil
}

func newTestTranslator(p Provider, rec *throttle.Recorder, maxChunk int) *Translator {
	return New(p, Options{
		Sleep:         rec.Sleep,
		Retry:         config.RetryPolicy{DelayMs: 5000, RateLimitWaitMs: 30000, ErrorDelayFactor: 2},
		MaxChunkChars: maxChunk,
	})
}

func assertWaits(t *testing.T, rec *throttle.Recorder, expected ...time.Duration) {
	t.Helper()

	if len(rec.Waits) != len(expected) {
		t.Fatalf("Expected waits %v, got %v", expected, rec.Waits)
	}

	for i := range expected {
		if rec.Waits[i] != expected[i] {
			t.Errorf("Expected wait %d to be %v, got %v", i, expected[i], rec.Waits[i])
		}
	}
}

func TestTranslateText_Success(t *testing.T) {
	rec := &throttle.Recorder{}
	p := &MockProvider{}
	tr := newTestTranslator(p, rec, 4000)

	got, err := tr.TranslateText(context.Background(), "Привет", "en")
	if err != nil {
		t.Fatalf("TranslateText failed: %v", err)
	}

	if got != "[en]Привет" {
		t.Errorf("Expected [en]Привет, got %s", got)
	}

	assertWaits(t, rec, 5*time.Second)
}

func TestTranslateText_Blank(t *testing.T) {
	rec := &throttle.Recorder{}
	p := &MockProvider{}
	tr := newTestTranslator(p, rec, 4000)

	got, _ := tr.TranslateText(context.Background(), "  \n ", "lv")
	if got != "" || len(p.Calls) != 0 || len(rec.Waits) != 0 {
		t.Errorf("Expected no call for blank text, got %q with %d calls", got, len(p.Calls))
	}
}

func TestTranslateText_Retry(t *testing.T) {
	tests := []struct {
		name      string
		firstErr  error
		retryWait time.Duration
	}{
		{name: "sentinel rate limit", firstErr: ErrRateLimited, retryWait: 30 * time.Second},
		{name: "message rate limit", firstErr: errors.New("429 Too Many Requests"), retryWait: 30 * time.Second},
		{name: "other error", firstErr: errors.New("connection reset"), retryWait: 10 * time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := &throttle.Recorder{}
			p := &MockProvider{TranslateF: func(call int, text string) (string, error) {
				if call == 1 {
					return "", tt.firstErr
				}

				return "ok", nil
			}}

			got, err := newTestTranslator(p, rec, 4000).TranslateText(context.Background(), "текст", "en")
			if err != nil {
				t.Fatalf("TranslateText failed: %v", err)
			}

			if got != "ok" {
				t.Errorf("Expected retried translation, got %s", got)
			}

			assertWaits(t, rec, 5*time.Second, tt.retryWait)
		})
	}
}

func TestTranslateText_RateLimitWaitsAtLeastThirtySeconds(t *testing.T) {
	rec := &throttle.Recorder{}
	p := &MockProvider{TranslateF: func(call int, _ string) (string, error) {
		if call == 1 {
			return "", ErrRateLimited
		}

		return "ok", nil
	}}

	if _, err := newTestTranslator(p, rec, 4000).TranslateText(context.Background(), "текст", "lv"); err != nil {
		t.Fatalf("TranslateText failed: %v", err)
	}

	if rec.Total() < 30*time.Second {
		t.Errorf("Expected at least 30s of waiting before the retry, got %v", rec.Total())
	}
}

func TestTranslateText_FallbackKeepsOriginal(t *testing.T) {
	rec := &throttle.Recorder{}
	p := &MockProvider{TranslateF: func(int, string) (string, error) {
		return "", errors.New("boom")
	}}
	tr := newTestTranslator(p, rec, 4000)

	got, err := tr.TranslateText(context.Background(), "оригинал", "en")
	if err != nil {
		t.Fatalf("TranslateText failed: %v", err)
	}

	if got != "оригинал" {
		t.Errorf("Expected original text, got %s", got)
	}

	if len(p.Calls) != 2 {
		t.Errorf("Expected exactly 2 provider calls, got %d", len(p.Calls))
	}

	// failures are not cached
	_, _ = tr.TranslateText(context.Background(), "оригинал", "en")
	if len(p.Calls) != 4 {
		t.Errorf("Expected failed unit to be retried on next call, got %d calls", len(p.Calls))
	}
}

func TestTranslateText_Cache(t *testing.T) {
	rec := &throttle.Recorder{}
	p := &MockProvider{}
	cache := NewMemoryCache()

	tr := New(p, Options{Sleep: rec.Sleep, Cache: cache})

	for range 3 {
		if _, err := tr.TranslateText(context.Background(), "Выставка", "en"); err != nil {
			t.Fatalf("TranslateText failed: %v", err)
		}
	}

	if len(p.Calls) != 1 {
		t.Errorf("Expected 1 provider call, got %d", len(p.Calls))
	}

	if cache.Len() != 1 {
		t.Errorf("Expected 1 cached entry, got %d", cache.Len())
	}

	if _, err := tr.TranslateText(context.Background(), "Выставка", "lv"); err != nil {
		t.Fatalf("TranslateText failed: %v", err)
	}

	if len(p.Calls) != 2 {
		t.Errorf("Expected separate cache entry per locale, got %d calls", len(p.Calls))
	}
}

func TestTranslateText_Chunks(t *testing.T) {
	rec := &throttle.Recorder{}
	p := &MockProvider{TranslateF: func(_ int, text string) (string, error) {
		return strings.TrimSpace(text), nil
	}}

	text := strings.Repeat("Это предложение. ", 10)

	got, err := newTestTranslator(p, rec, 40).TranslateText(context.Background(), text, "en")
	if err != nil {
		t.Fatalf("TranslateText failed: %v", err)
	}

	if len(p.Calls) < 2 {
		t.Fatalf("Expected text to be chunked, got %d calls", len(p.Calls))
	}

	for _, call := range p.Calls {
		if n := utf8.RuneCountInString(call); n > 40 {
			t.Errorf("Expected chunk of at most 40 runes, got %d", n)
		}
	}

	if strings.Count(got, "Это предложение.") != 10 {
		t.Errorf("Expected all sentences in output, got %q", got)
	}

	if len(rec.Waits) != len(p.Calls) {
		t.Errorf("Expected one delay per call, got %d waits for %d calls", len(rec.Waits), len(p.Calls))
	}
}

func TestTranslateText_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	p := &MockProvider{}
	tr := newTestTranslator(p, &throttle.Recorder{}, 4000)

	if _, err := tr.TranslateText(ctx, "текст", "en"); !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}

	if len(p.Calls) != 0 {
		t.Errorf("Expected no provider call, got %d", len(p.Calls))
	}
}

func TestTranslateBody(t *testing.T) {
	rec := &throttle.Recorder{}
	p := &MockProvider{}
	tr := newTestTranslator(p, rec, 4000)

	body := "\nПервый абзац.\n\nВторой\nабзац.\n\n\n![img](/images/1.jpg)\n"

	got, err := tr.TranslateBody(context.Background(), body, "en")
	if err != nil {
		t.Fatalf("TranslateBody failed: %v", err)
	}

	expected := "[en]Первый абзац.\n\n[en]Второй абзац.\n\n\n[en]![img](/images/1.jpg)"
	if got != expected {
		t.Errorf("Expected:\n%q\ngot:\n%q", expected, got)
	}

	if len(p.Calls) != 3 {
		t.Errorf("Expected 3 provider calls, got %d", len(p.Calls))
	}
}

func TestSplitParagraphs(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []string
	}{
		{name: "empty", input: "", expected: nil},
		{name: "single", input: "a", expected: []string{"a"}},
		{name: "wrapped lines", input: "a\n  b ", expected: []string{"a b"}},
		{name: "blank lines", input: "a\n\n\nb", expected: []string{"a", "", "", "b"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SplitParagraphs(tt.input)
			if strings.Join(got, "|") != strings.Join(tt.expected, "|") || len(got) != len(tt.expected) {
				t.Errorf("Expected %q, got %q", tt.expected, got)
			}
		})
	}

	if JoinParagraphs(SplitParagraphs("a\n\nb\n\n\nc")) != "a\n\nb\n\n\nc" {
		t.Error("Expected blank-line layout to survive split and join")
	}
}

func TestChunkText(t *testing.T) {
	text := "Один. Два.\nТри четыре пять шесть семь восемь девять десять"

	for _, limit := range []int{5, 8, 12, 100} {
		chunks := ChunkText(text, limit)

		if strings.Join(chunks, "") != text {
			t.Errorf("limit %d: expected chunks to cover the text, got %q", limit, chunks)
		}

		for _, c := range chunks {
			if utf8.RuneCountInString(c) > limit {
				t.Errorf("limit %d: chunk %q too long", limit, c)
			}
		}
	}

	chunks := ChunkText("Один. Два. Три.", 12)
	if chunks[0] != "Один. Два." {
		t.Errorf("Expected cut at full stop, got %q", chunks[0])
	}
}
