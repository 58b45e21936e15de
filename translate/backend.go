package translate

import (
	"net/http"
	"time"
)

// backendConfig holds the transport knobs shared by every backend.
type backendConfig struct {
	httpClient *http.Client
	baseURL    string
	timeout    time.Duration
	maxRetries int
}

// BackendOption adjusts a backend's transport.
type BackendOption func(*backendConfig)

// WithHTTPClient substitutes the HTTP client.
func WithHTTPClient(c *http.Client) BackendOption {
	return func(cfg *backendConfig) {
		if c != nil {
			cfg.httpClient = c
		}
	}
}

// WithBaseURL redirects the backend at another endpoint.
func WithBaseURL(u string) BackendOption {
	return func(cfg *backendConfig) { cfg.baseURL = u }
}

// WithTimeout bounds each request attempt.
func WithTimeout(d time.Duration) BackendOption {
	return func(cfg *backendConfig) {
		if d > 0 {
			cfg.timeout = d
		}
	}
}

// WithMaxRetries caps retries per translation.
func WithMaxRetries(n int) BackendOption {
	return func(cfg *backendConfig) {
		if n >= 0 {
			cfg.maxRetries = n
		}
	}
}

func newBackendConfig(defaultBase string, opts ...BackendOption) backendConfig {
	cfg := backendConfig{
		baseURL:    defaultBase,
		timeout:    30 * time.Second,
		maxRetries: 3,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.httpClient == nil {
		cfg.httpClient = &http.Client{Timeout: cfg.timeout}
	}
	return cfg
}
