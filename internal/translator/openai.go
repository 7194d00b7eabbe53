package translator

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"

	"shamir/internal/config"
)

var languageNames = map[string]string{
	"ru": "Russian",
	"lv": "Latvian",
	"en": "English",
}

// OpenAIProvider translates through a chat-completion model.
type OpenAIProvider struct {
	client openai.Client
	model  openai.ChatModel
}

// NewOpenAIProvider creates a provider. Retries are left to the pipeline.
func NewOpenAIProvider(cfg config.OpenAIConfig, timeout time.Duration) *OpenAIProvider {
	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithMaxRetries(0),
		option.WithRequestTimeout(timeout),
	}

	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}

	return &OpenAIProvider{
		client: openai.NewClient(opts...),
		model:  cfg.Model,
	}
}

// Translate asks the model for a plain translation of text.
func (p *OpenAIProvider) Translate(ctx context.Context, text, source, target string) (string, error) {
	completion, err := p.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(systemPrompt(source, target)),
			openai.UserMessage(text),
		},
		Model: p.model,
	})
	if err != nil {
		var apiErr *openai.Error
		if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusTooManyRequests {
			return "", fmt.Errorf("%w: %w", ErrRateLimited, err)
		}

		return "", fmt.Errorf("chat completion failed: %w", err)
	}

	if len(completion.Choices) == 0 {
		return "", ErrEmptyResponse
	}

	out := strings.TrimSpace(completion.Choices[0].Message.Content)
	if out == "" {
		return "", ErrEmptyResponse
	}

	return out, nil
}

func systemPrompt(source, target string) string {
	return fmt.Sprintf(
		"Translate the user's text from %s to %s. Keep Markdown markup, links and names of people unchanged. Reply with the translation only.",
		languageName(source), languageName(target),
	)
}

func languageName(code string) string {
	if name, ok := languageNames[code]; ok {
		return name
	}

	return code
}
