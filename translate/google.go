package translate

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

const googleEndpoint = "https://translate.googleapis.com"

// Google translates through the public web endpoint. No API key is
// required, which also makes it the fallback when a configured backend is
// missing its credentials.
type Google struct {
	source string
	target string
	cfg    backendConfig
}

// NewGoogle builds the Google backend for one language pair. source may be
// "auto" for detection.
func NewGoogle(source, target string, opts ...BackendOption) *Google {
	return &Google{
		source: source,
		target: target,
		cfg:    newBackendConfig(googleEndpoint, opts...),
	}
}

func (g *Google) Name() string { return "google" }

func (g *Google) Translate(ctx context.Context, text string) (string, error) {
	return withRetry(retryPolicy(ctx, g.cfg.maxRetries), func() (string, error) {
		return g.translateOnce(ctx, text)
	})
}

func (g *Google) translateOnce(ctx context.Context, text string) (string, error) {
	q := url.Values{}
	q.Set("client", "gtx")
	q.Set("sl", g.source)
	q.Set("tl", g.target)
	q.Set("dt", "t")
	q.Set("q", text)
	u := g.cfg.baseURL + "/translate_a/single?" + q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return "", fmt.Errorf("google translate: %w", err)
	}
	resp, err := g.cfg.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("google translate: %w", err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("google translate: read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", &HTTPError{Status: resp.StatusCode, Body: snippet(string(body), 200)}
	}
	return parseGoogleResponse(body)
}

// parseGoogleResponse walks the endpoint's nested-array payload: the first
// element lists segments whose first element is the translated chunk.
func parseGoogleResponse(body []byte) (string, error) {
	var outer []json.RawMessage
	if err := json.Unmarshal(body, &outer); err != nil {
		return "", fmt.Errorf("google translate: decode response: %w", err)
	}
	if len(outer) == 0 {
		return "", fmt.Errorf("google translate: empty payload")
	}
	var segments [][]interface{}
	if err := json.Unmarshal(outer[0], &segments); err != nil {
		return "", fmt.Errorf("google translate: decode segments: %w", err)
	}
	var sb strings.Builder
	for _, seg := range segments {
		if len(seg) == 0 {
			continue
		}
		if s, ok := seg[0].(string); ok {
			sb.WriteString(s)
		}
	}
	if sb.Len() == 0 {
		return "", fmt.Errorf("google translate: no translation segments")
	}
	return sb.String(), nil
}
