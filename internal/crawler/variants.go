package crawler

import (
	"net/url"
	"strings"

	"shamir/internal/config"
	"shamir/internal/logger"
	"shamir/internal/models"
)

// VariantResolver derives the locale-specific URL of a legacy page.
type VariantResolver struct {
	cfg *config.Config
	log *logger.Logger
}

// NewVariantResolver creates a resolver over the configured site rules.
func NewVariantResolver(cfg *config.Config, log *logger.Logger) *VariantResolver {
	return &VariantResolver{cfg: cfg, log: log}
}

// Site returns the rule matching the host of rawURL.
func (r *VariantResolver) Site(rawURL string) (config.SiteConfig, bool) {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return config.SiteConfig{}, false
	}

	return r.cfg.SiteFor(u.Hostname())
}

// URLFor returns the page address for locale. The Russian address is the
// source URL itself.
func (r *VariantResolver) URLFor(oldURL string, locale models.Locale) (string, bool) {
	if locale == models.LocaleRU {
		return oldURL, true
	}

	site, ok := r.Site(oldURL)
	if !ok {
		r.log.Warn("no site rule for url", "url", oldURL)
		return "", false
	}

	switch site.Variant {
	case config.VariantQuery:
		sep := "?"
		if strings.Contains(oldURL, "?") {
			sep = "&"
		}

		return oldURL + sep + "lang=" + string(locale), true
	case config.VariantPath:
		if !strings.Contains(oldURL, "/ru/") {
			r.log.Warn("url has no /ru/ segment", "url", oldURL)
			return "", false
		}

		return strings.Replace(oldURL, "/ru/", "/"+string(locale)+"/", 1), true
	}

	return "", false
}

// Variants returns the en and lv addresses that could be derived.
func (r *VariantResolver) Variants(oldURL string) map[models.Locale]string {
	out := make(map[models.Locale]string, len(models.TranslationLocales))

	for _, locale := range models.TranslationLocales {
		if u, ok := r.URLFor(oldURL, locale); ok {
			out[locale] = u
		}
	}

	return out
}

// Host returns the hostname of rawURL, or "" when it cannot be parsed.
func Host(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}

	return u.Hostname()
}
