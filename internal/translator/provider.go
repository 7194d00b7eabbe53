// Package translator machine-translates Russian article text into Latvian
// and English.
package translator

import (
	"context"
	"errors"
	"strings"
)

// ErrRateLimited marks provider responses that ask the caller to slow down.
var ErrRateLimited = errors.New("rate limited: Too Many Requests")

// ErrEmptyResponse is returned when a provider answers without text.
var ErrEmptyResponse = errors.New("empty translation response")

// Provider translates one piece of text.
type Provider interface {
	Translate(ctx context.Context, text, source, target string) (string, error)
}

// ProviderFunc adapts a function to Provider.
type ProviderFunc func(ctx context.Context, text, source, target string) (string, error)

// Translate calls f.
func (f ProviderFunc) Translate(ctx context.Context, text, source, target string) (string, error) {
	return f(ctx, text, source, target)
}

// IsRateLimited classifies err as a rate-limit failure, either by wrapping
// ErrRateLimited or by its message.
func IsRateLimited(err error) bool {
	if err == nil {
		return false
	}

	return errors.Is(err, ErrRateLimited) || strings.Contains(err.Error(), "Too Many Requests")
}
