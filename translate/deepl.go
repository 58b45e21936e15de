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

const deeplEndpoint = "https://api-free.deepl.com"

// DeepL translates through the DeepL REST API.
type DeepL struct {
	apiKey string
	source string
	target string
	cfg    backendConfig
}

// NewDeepL builds the DeepL backend. The free-tier endpoint is the
// default; point WithBaseURL at api.deepl.com for paid keys.
func NewDeepL(apiKey, source, target string, opts ...BackendOption) *DeepL {
	return &DeepL{
		apiKey: apiKey,
		source: source,
		target: target,
		cfg:    newBackendConfig(deeplEndpoint, opts...),
	}
}

func (d *DeepL) Name() string { return "deepl" }

func (d *DeepL) Translate(ctx context.Context, text string) (string, error) {
	return withRetry(retryPolicy(ctx, d.cfg.maxRetries), func() (string, error) {
		return d.translateOnce(ctx, text)
	})
}

func (d *DeepL) translateOnce(ctx context.Context, text string) (string, error) {
	form := url.Values{}
	form.Set("text", text)
	form.Set("target_lang", deeplLang(d.target))
	if src := deeplLang(d.source); src != "" {
		form.Set("source_lang", src)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		d.cfg.baseURL+"/v2/translate", strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("deepl: %w", err)
	}
	req.Header.Set("Authorization", "DeepL-Auth-Key "+d.apiKey)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := d.cfg.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("deepl: %w", err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("deepl: read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", &HTTPError{Status: resp.StatusCode, Body: snippet(string(body), 200)}
	}

	var out struct {
		Translations []struct {
			Text string `json:"text"`
		} `json:"translations"`
	}
	if err := json.Unmarshal(body, &out); err != nil {
		return "", fmt.Errorf("deepl: decode response: %w", err)
	}
	if len(out.Translations) == 0 {
		return "", fmt.Errorf("deepl: empty translations")
	}
	return out.Translations[0].Text, nil
}

// deeplLang maps BCP-47-ish codes to DeepL's uppercase codes. "auto" maps
// to empty, letting the service detect; Chinese variants collapse to ZH.
func deeplLang(code string) string {
	c := strings.ToUpper(strings.TrimSpace(code))
	if c == "" || c == "AUTO" {
		return ""
	}
	if strings.HasPrefix(c, "ZH") {
		return "ZH"
	}
	if i := strings.IndexByte(c, '-'); i > 0 {
		return c[:i]
	}
	return c
}
