package crawler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"shamir/internal/config"
	"shamir/internal/logger"
	"shamir/internal/metrics"
	"shamir/internal/throttle"
)

func testConfig() *config.Config {
	cfg := config.Default()
	cfg.Fetch.BufferSizeKb = 1

	return cfg
}

func TestFetcher_Fetch(t *testing.T) {
	var gotUA string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		_, _ = w.Write([]byte("<html><body>ok</body></html>"))
	}))
	defer server.Close()

	rec := &throttle.Recorder{}
	f := NewFetcher(testConfig(), metrics.New(), rec.Sleep)

	body, err := f.Fetch(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}

	if !strings.Contains(body, "ok") {
		t.Errorf("Expected body, got %q", body)
	}

	if !strings.HasPrefix(gotUA, "Mozilla/5.0") {
		t.Errorf("Expected browser user agent, got %q", gotUA)
	}

	if len(rec.Waits) != 1 || rec.Waits[0] != time.Second {
		t.Errorf("Expected one 1s pre-request delay, got %v", rec.Waits)
	}
}

func TestFetcher_NonSuccessStatus(t *testing.T) {
	calls := 0

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	rec := &throttle.Recorder{}
	f := NewFetcher(testConfig(), nil, rec.Sleep)

	_, status, _, err := f.FetchWithMetrics(context.Background(), server.URL)
	if !errors.Is(err, ErrUnexpectedStatusCode) {
		t.Fatalf("Expected ErrUnexpectedStatusCode, got %v", err)
	}

	if status != http.StatusServiceUnavailable {
		t.Errorf("Expected status 503, got %d", status)
	}

	if calls != 1 {
		t.Errorf("Expected exactly one request (no retries), got %d", calls)
	}

	stats := f.Attempts().Stats()
	if stats.FailedURLs != 1 || stats.TotalAttempts != 1 {
		t.Errorf("Unexpected attempt stats: %s", stats)
	}

	if failed := f.Attempts().Failed(); len(failed) != 1 || failed[0] != server.URL {
		t.Errorf("Expected failed URL recorded, got %v", failed)
	}

	f.Attempts().LogSummary(logger.NewNop())
}

func TestFetcher_BufferLimit(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(strings.Repeat("a", 4096)))
	}))
	defer server.Close()

	f := NewFetcher(testConfig(), nil, (&throttle.Recorder{}).Sleep)

	body, err := f.Fetch(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}

	if len(body) != 1024 {
		t.Errorf("Expected body capped at 1024 bytes, got %d", len(body))
	}
}

func TestFetcher_CancelledBeforeRequest(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	f := NewFetcher(testConfig(), nil, (&throttle.Recorder{}).Sleep)

	if _, err := f.Fetch(ctx, "http://127.0.0.1:1/"); !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
}

func TestVariantResolver(t *testing.T) {
	r := NewVariantResolver(config.Default(), logger.NewNop())

	tests := []struct {
		name     string
		oldURL   string
		expected map[string]string
	}{
		{
			name:   "shamir query",
			oldURL: "http://shamir.lv/vystavka/",
			expected: map[string]string{
				"en": "http://shamir.lv/vystavka/?lang=en",
				"lv": "http://shamir.lv/vystavka/?lang=lv",
			},
		},
		{
			name:   "shamir with existing query",
			oldURL: "http://shamir.lv/?p=123",
			expected: map[string]string{
				"en": "http://shamir.lv/?p=123&lang=en",
				"lv": "http://shamir.lv/?p=123&lang=lv",
			},
		},
		{
			name:   "rglhm path",
			oldURL: "https://www.rglhm.lv/ru/news/1/",
			expected: map[string]string{
				"en": "https://www.rglhm.lv/en/news/1/",
				"lv": "https://www.rglhm.lv/lv/news/1/",
			},
		},
		{
			name:     "rglhm without ru segment",
			oldURL:   "https://rglhm.lv/news/1/",
			expected: map[string]string{},
		},
		{
			name:     "unknown host",
			oldURL:   "https://example.com/ru/x",
			expected: map[string]string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := r.Variants(tt.oldURL)
			if len(got) != len(tt.expected) {
				t.Fatalf("Expected %d variants, got %v", len(tt.expected), got)
			}

			for locale, want := range tt.expected {
				if got[localeOf(locale)] != want {
					t.Errorf("Expected %s variant %s, got %s", locale, want, got[localeOf(locale)])
				}
			}
		})
	}

	if u, ok := r.URLFor("http://shamir.lv/x/", "ru"); !ok || u != "http://shamir.lv/x/" {
		t.Errorf("Expected ru URL to be the source URL, got %s", u)
	}
}
