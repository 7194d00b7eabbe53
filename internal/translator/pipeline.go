package translator

import (
	"context"
	"strings"
	"unicode/utf8"

	"shamir/internal/config"
	"shamir/internal/logger"
	"shamir/internal/metrics"
	"shamir/internal/throttle"
	"shamir/pkg/utils"
)

// previewLength bounds the text quoted in log lines.
const previewLength = 60

var preview = utils.NewStringHelper()

// Translation call outcomes reported to metrics.
const (
	OutcomeOK       = "ok"
	OutcomeRetried  = "retried"
	OutcomeFallback = "fallback"
)

// Options configures a Translator. Zero values fall back to defaults.
type Options struct {
	Cache         Cache
	Sleep         throttle.SleepFunc
	Retry         config.RetryPolicy
	MaxChunkChars int
	SourceLang    string
	Logger        *logger.Logger
	Metrics       *metrics.Metrics
}

// Translator runs text through a Provider with a fixed delay before each
// call and a single retry. A unit that still fails keeps its original text.
type Translator struct {
	provider Provider
	cache    Cache
	throttle *throttle.Throttle
	retry    config.RetryPolicy
	maxChunk int
	source   string
	log      *logger.Logger
	metrics  *metrics.Metrics
}

// New creates a translator around provider.
func New(provider Provider, opts Options) *Translator {
	defaults := config.Default().Translate

	if opts.Cache == nil {
		opts.Cache = NewMemoryCache()
	}

	if opts.Retry == (config.RetryPolicy{}) {
		opts.Retry = defaults.Retry
	}

	if opts.MaxChunkChars <= 0 {
		opts.MaxChunkChars = defaults.MaxChunkChars
	}

	if opts.SourceLang == "" {
		opts.SourceLang = defaults.SourceLang
	}

	if opts.Logger == nil {
		opts.Logger = logger.NewNop()
	}

	return &Translator{
		provider: provider,
		cache:    opts.Cache,
		throttle: throttle.New(opts.Retry.Delay(), opts.Sleep),
		retry:    opts.Retry,
		maxChunk: opts.MaxChunkChars,
		source:   opts.SourceLang,
		log:      opts.Logger,
		metrics:  opts.Metrics,
	}
}

// TranslateText translates one unit. Blank input yields "". Only a context
// error is returned; provider failures fall back to the original text.
func (t *Translator) TranslateText(ctx context.Context, text, target string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", nil
	}

	key := CacheKey(target, text)

	cached, ok, err := t.cache.Get(ctx, key)
	if err != nil {
		t.log.Warn("Translation cache lookup failed", "error", err)
	}

	t.metrics.IncCache(ok)

	if ok {
		return cached, nil
	}

	chunks := []string{text}
	if utf8.RuneCountInString(text) > t.maxChunk {
		chunks = ChunkText(text, t.maxChunk)
	}

	translated := make([]string, 0, len(chunks))
	complete := true

	for _, chunk := range chunks {
		if strings.TrimSpace(chunk) == "" {
			continue
		}

		out, ok, err := t.translateChunk(ctx, chunk, target)
		if err != nil {
			return text, err
		}

		complete = complete && ok
		translated = append(translated, out)
	}

	result := strings.Join(translated, " ")

	if complete {
		if err := t.cache.Set(ctx, key, result); err != nil {
			t.log.Warn("Translation cache store failed", "error", err)
		}
	}

	return result, nil
}

// translateChunk makes at most two provider calls. ok is false when the
// original chunk is returned.
func (t *Translator) translateChunk(ctx context.Context, chunk, target string) (string, bool, error) {
	if err := t.throttle.Wait(ctx); err != nil {
		return chunk, false, err
	}

	out, err := t.provider.Translate(ctx, chunk, t.source, target)
	if err == nil {
		t.metrics.IncTranslation(OutcomeOK)
		return out, true, nil
	}

	rateLimited := IsRateLimited(err)
	wait := t.retry.GetRetryDelay(rateLimited)

	t.log.Warn("Translation failed, retrying once",
		"target", target, "rate_limited", rateLimited, "wait", wait,
		"text", preview.TruncateString(chunk, previewLength), "error", err)

	if err := t.throttle.WaitFor(ctx, wait); err != nil {
		return chunk, false, err
	}

	out, err = t.provider.Translate(ctx, chunk, t.source, target)
	if err == nil {
		t.metrics.IncTranslation(OutcomeRetried)
		return out, true, nil
	}

	if ctxErr := ctx.Err(); ctxErr != nil {
		return chunk, false, ctxErr
	}

	t.log.Error("Retry also failed, keeping original text",
		"target", target, "text", preview.TruncateString(chunk, previewLength), "error", err)
	t.metrics.IncTranslation(OutcomeFallback)

	return chunk, false, nil
}

// TranslateBody translates a Markdown body paragraph by paragraph and keeps
// the blank-line layout.
func (t *Translator) TranslateBody(ctx context.Context, body, target string) (string, error) {
	paragraphs := SplitParagraphs(strings.TrimSpace(body))

	for i, p := range paragraphs {
		if p == "" {
			continue
		}

		t.log.Debug("Translating paragraph", "index", i+1, "total", len(paragraphs))

		out, err := t.TranslateText(ctx, p, target)
		if err != nil {
			return "", err
		}

		paragraphs[i] = out
	}

	return JoinParagraphs(paragraphs), nil
}

// SplitParagraphs joins the trimmed lines of each block with a space. Every
// blank line becomes an empty placeholder.
func SplitParagraphs(body string) []string {
	if body == "" {
		return nil
	}

	var (
		out     []string
		current []string
	)

	flush := func() {
		if len(current) > 0 {
			out = append(out, strings.Join(current, " "))
			current = current[:0]
		}
	}

	for _, line := range strings.Split(body, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			flush()
			out = append(out, "")

			continue
		}

		current = append(current, trimmed)
	}

	flush()

	return out
}

// JoinParagraphs is the inverse of SplitParagraphs for bodies whose blocks
// are single lines.
func JoinParagraphs(paragraphs []string) string {
	return strings.Join(paragraphs, "\n")
}

// ChunkText cuts text into pieces of at most limit runes. Each piece ends at
// the last newline or full stop inside the budget when there is one.
func ChunkText(text string, limit int) []string {
	runes := []rune(text)

	var chunks []string

	for len(runes) > limit {
		cut := -1

		for i := limit - 1; i >= 0; i-- {
			if runes[i] == '\n' || runes[i] == '.' {
				cut = i
				break
			}
		}

		if cut < 0 {
			cut = limit - 1
		}

		chunks = append(chunks, string(runes[:cut+1]))
		runes = runes[cut+1:]
	}

	if len(runes) > 0 {
		chunks = append(chunks, string(runes))
	}

	return chunks
}
