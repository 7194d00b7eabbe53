package translator

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"shamir/pkg/utils"
)

// GTXProvider talks to a Google-Translate-compatible "translate_a/single"
// endpoint.
type GTXProvider struct {
	client   *http.Client
	endpoint string
	headers  http.Header
}

// NewGTXProvider creates a provider for endpoint.
func NewGTXProvider(endpoint, userAgent string, timeout time.Duration) *GTXProvider {
	return &GTXProvider{
		client:   &http.Client{Timeout: timeout},
		endpoint: endpoint,
		headers:  utils.NewHTTPHelper(userAgent).BuildHeaders(map[string]string{"Accept": "application/json"}),
	}
}

// Translate sends text as a form body and joins the translated segments.
func (p *GTXProvider) Translate(ctx context.Context, text, source, target string) (string, error) {
	query := url.Values{
		"client": {"gtx"},
		"sl":     {source},
		"tl":     {target},
		"dt":     {"t"},
	}

	form := url.Values{"q": {text}}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.endpoint+"?"+query.Encode(), strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	req.Header = p.headers.Clone()
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := p.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("translate request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read translate response: %w", err)
	}

	if resp.StatusCode == http.StatusTooManyRequests {
		return "", fmt.Errorf("%w: status %d", ErrRateLimited, resp.StatusCode)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("translate endpoint returned status %d", resp.StatusCode)
	}

	return parseGTX(body)
}

// parseGTX reads the first element of every sentence entry in the
// response array.
func parseGTX(body []byte) (string, error) {
	if !gjson.ValidBytes(body) {
		return "", fmt.Errorf("invalid translate response: %.80s", body)
	}

	var sb strings.Builder

	for _, segment := range gjson.GetBytes(body, "0.#.0").Array() {
		sb.WriteString(segment.String())
	}

	if sb.Len() == 0 {
		return "", ErrEmptyResponse
	}

	return sb.String(), nil
}
