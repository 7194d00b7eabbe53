package crawler

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"shamir/internal/logger"
)

// AttemptResult records the result of one fetch.
type AttemptResult struct {
	Timestamp  time.Time
	URL        string
	Error      string
	Duration   time.Duration
	StatusCode int
	Success    bool
}

// AttemptLog keeps every fetch of a run for the end-of-run summary.
type AttemptLog struct {
	byURL map[string][]AttemptResult
	mu    sync.Mutex
}

// NewAttemptLog creates an empty ledger.
func NewAttemptLog() *AttemptLog {
	return &AttemptLog{byURL: make(map[string][]AttemptResult)}
}

// Record appends one fetch result.
func (l *AttemptLog) Record(url string, status int, duration time.Duration, err error) {
	result := AttemptResult{
		Timestamp:  time.Now(),
		URL:        url,
		Duration:   duration,
		StatusCode: status,
		Success:    err == nil,
	}
	if err != nil {
		result.Error = err.Error()
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	l.byURL[url] = append(l.byURL[url], result)
}

// Results returns the attempts made for url.
func (l *AttemptLog) Results(url string) []AttemptResult {
	l.mu.Lock()
	defer l.mu.Unlock()

	return append([]AttemptResult(nil), l.byURL[url]...)
}

// Failed returns the URLs whose last attempt failed, sorted.
func (l *AttemptLog) Failed() []string {
	l.mu.Lock()
	defer l.mu.Unlock()

	var failed []string

	for url, results := range l.byURL {
		if !results[len(results)-1].Success {
			failed = append(failed, url)
		}
	}

	sort.Strings(failed)

	return failed
}

// Stats summarises the ledger.
func (l *AttemptLog) Stats() AttemptStats {
	l.mu.Lock()
	defer l.mu.Unlock()

	stats := AttemptStats{TotalURLs: len(l.byURL)}

	for _, results := range l.byURL {
		stats.TotalAttempts += len(results)

		urlSuccess := false

		for _, result := range results {
			stats.TotalDuration += result.Duration

			if result.Success {
				stats.SuccessfulAttempts++
				urlSuccess = true
			} else {
				stats.FailedAttempts++
			}
		}

		if urlSuccess {
			stats.SuccessfulURLs++
		} else {
			stats.FailedURLs++
		}
	}

	return stats
}

// AttemptStats contains statistics about fetch attempts.
type AttemptStats struct {
	TotalURLs          int
	SuccessfulURLs     int
	FailedURLs         int
	TotalAttempts      int
	SuccessfulAttempts int
	FailedAttempts     int
	TotalDuration      time.Duration
}

// String returns a string representation of attempt stats.
func (s AttemptStats) String() string {
	return fmt.Sprintf(
		"URLs: %d total, %d success, %d failed | Attempts: %d total, %d success, %d failed | %.1fs on the wire",
		s.TotalURLs,
		s.SuccessfulURLs,
		s.FailedURLs,
		s.TotalAttempts,
		s.SuccessfulAttempts,
		s.FailedAttempts,
		s.TotalDuration.Seconds(),
	)
}

// LogSummary logs the overall stats and each failed URL.
func (l *AttemptLog) LogSummary(log *logger.Logger) {
	for _, url := range l.Failed() {
		results := l.Results(url)
		last := results[len(results)-1]

		log.Warn("fetch failed", "url", url, "status", last.StatusCode, "error", last.Error)
	}

	log.Info("fetch summary", "stats", l.Stats().String())
}
