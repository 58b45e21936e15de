package translate

import (
	"context"
	"errors"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

const defaultOpenAIModel = "gpt-4o-mini"

// OpenAI translates through a chat-completion model.
type OpenAI struct {
	client *openai.Client
	model  string
	source string
	target string
	cfg    backendConfig
}

// NewOpenAI builds the OpenAI backend. An empty model selects
// gpt-4o-mini.
func NewOpenAI(apiKey, model, source, target string, opts ...BackendOption) *OpenAI {
	cfg := newBackendConfig("", opts...)
	clientCfg := openai.DefaultConfig(apiKey)
	if cfg.baseURL != "" {
		clientCfg.BaseURL = cfg.baseURL
	}
	clientCfg.HTTPClient = cfg.httpClient
	if model == "" {
		model = defaultOpenAIModel
	}
	return &OpenAI{
		client: openai.NewClientWithConfig(clientCfg),
		model:  model,
		source: source,
		target: target,
		cfg:    cfg,
	}
}

func (t *OpenAI) Name() string { return "openai" }

func (t *OpenAI) Translate(ctx context.Context, text string) (string, error) {
	return withRetry(retryPolicy(ctx, t.cfg.maxRetries), func() (string, error) {
		return t.translateOnce(ctx, text)
	})
}

func (t *OpenAI) translateOnce(ctx context.Context, text string) (string, error) {
	resp, err := t.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       t.model,
		Temperature: 0.3,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt(t.source, t.target)},
			{Role: openai.ChatMessageRoleUser, Content: text},
		},
	})
	if err != nil {
		var apiErr *openai.APIError
		if errors.As(err, &apiErr) && apiErr.HTTPStatusCode > 0 {
			return "", &HTTPError{Status: apiErr.HTTPStatusCode, Body: snippet(apiErr.Message, 200)}
		}
		return "", fmt.Errorf("openai: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("openai: empty completion")
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}
