package translate

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

const (
	anthropicEndpoint     = "https://api.anthropic.com"
	anthropicVersion      = "2023-06-01"
	defaultAnthropicModel = "claude-3-5-haiku-20241022"
)

// Anthropic translates through the messages REST API.
type Anthropic struct {
	apiKey string
	model  string
	source string
	target string
	cfg    backendConfig
}

// NewAnthropic builds the Anthropic backend. An empty model selects the
// haiku tier.
func NewAnthropic(apiKey, model, source, target string, opts ...BackendOption) *Anthropic {
	if model == "" {
		model = defaultAnthropicModel
	}
	return &Anthropic{
		apiKey: apiKey,
		model:  model,
		source: source,
		target: target,
		cfg:    newBackendConfig(anthropicEndpoint, opts...),
	}
}

func (a *Anthropic) Name() string { return "anthropic" }

func (a *Anthropic) Translate(ctx context.Context, text string) (string, error) {
	return withRetry(retryPolicy(ctx, a.cfg.maxRetries), func() (string, error) {
		return a.translateOnce(ctx, text)
	})
}

type anthropicMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type anthropicRequest struct {
	Model       string             `json:"model"`
	MaxTokens   int                `json:"max_tokens"`
	Temperature float64            `json:"temperature"`
	Messages    []anthropicMessage `json:"messages"`
}

func (a *Anthropic) translateOnce(ctx context.Context, text string) (string, error) {
	// Three tokens per source character allows for expansion.
	maxTokens := 3 * len(text)
	if maxTokens < 256 {
		maxTokens = 256
	}
	payload, err := json.Marshal(anthropicRequest{
		Model:       a.model,
		MaxTokens:   maxTokens,
		Temperature: 0.3,
		Messages: []anthropicMessage{
			{Role: "user", Content: userPrompt(a.source, a.target, text)},
		},
	})
	if err != nil {
		return "", fmt.Errorf("anthropic: encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		a.cfg.baseURL+"/v1/messages", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("anthropic: %w", err)
	}
	req.Header.Set("x-api-key", a.apiKey)
	req.Header.Set("anthropic-version", anthropicVersion)
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.cfg.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("anthropic: %w", err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("anthropic: read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", &HTTPError{Status: resp.StatusCode, Body: snippet(string(body), 200)}
	}

	var out struct {
		Content []struct {
			Type string `json:"type"`
			Text string `json:"text"`
		} `json:"content"`
	}
	if err := json.Unmarshal(body, &out); err != nil {
		return "", fmt.Errorf("anthropic: decode response: %w", err)
	}
	for _, block := range out.Content {
		if block.Type == "text" {
			return strings.TrimSpace(block.Text), nil
		}
	}
	return "", fmt.Errorf("anthropic: no text content in response")
}
