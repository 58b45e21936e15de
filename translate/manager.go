package translate

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/lifeinpassion/translator/config"
	"github.com/lifeinpassion/translator/observability"
)

// Environment variables consulted for backend credentials.
const (
	EnvOpenAIKey    = "OPENAI_API_KEY"
	EnvAnthropicKey = "ANTHROPIC_API_KEY"
	EnvDeepLKey     = "DEEPL_API_KEY"
)

// Manager owns the configured backend and presents the Gateway contract.
// A keyed engine whose credential is absent degrades to the keyless Google
// backend with a warning instead of failing construction.
type Manager struct {
	mu      sync.Mutex
	cfg     config.Translation
	keys    map[string]string
	bases   map[string]string
	client  []BackendOption
	cache   *Cache
	log     observability.Logger
	backend Translator
	batcher *Batcher
}

// Option configures a Manager.
type Option func(*Manager)

// WithLogger attaches a logger.
func WithLogger(log observability.Logger) Option {
	return func(m *Manager) {
		if log != nil {
			m.log = log
		}
	}
}

// WithCache injects a translation cache, overriding the one the
// configuration would build.
func WithCache(c *Cache) Option {
	return func(m *Manager) { m.cache = c }
}

// WithAPIKey supplies a credential directly instead of via environment.
func WithAPIKey(engine, key string) Option {
	return func(m *Manager) { m.keys[engine] = key }
}

// WithEndpoint points one engine at another base URL.
func WithEndpoint(engine, baseURL string) Option {
	return func(m *Manager) { m.bases[engine] = baseURL }
}

// WithTransport forwards transport options to whichever backend gets
// built.
func WithTransport(opts ...BackendOption) Option {
	return func(m *Manager) { m.client = append(m.client, opts...) }
}

// NewManager builds the gateway for cfg.
func NewManager(cfg config.Translation, opts ...Option) (*Manager, error) {
	m := &Manager{
		cfg:   cfg,
		keys:  make(map[string]string),
		bases: make(map[string]string),
		log:   observability.NopLogger{},
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.cache == nil && cfg.CacheTranslations {
		if cfg.CachePath != "" {
			cache, err := LoadCache(cfg.CachePath, DefaultCacheCapacity)
			if err != nil {
				m.log.Warn("translation cache unreadable, starting empty",
					observability.String("path", cfg.CachePath),
					observability.Error("error", err))
				cache = NewCache(DefaultCacheCapacity)
			}
			m.cache = cache
		} else {
			m.cache = NewCache(DefaultCacheCapacity)
		}
	}
	if err := m.rebuild(); err != nil {
		return nil, err
	}
	return m, nil
}

// rebuild constructs the backend and batcher for the current direction.
// Callers hold no lock during NewManager; SwitchDirection locks.
func (m *Manager) rebuild() error {
	backend, err := m.buildBackend(m.cfg.Engine)
	if err != nil {
		return err
	}
	m.backend = backend
	m.batcher = NewBatcher(backend, m.cfg.SourceLang, m.cfg.TargetLang, m.cache, m.log)
	m.log.Info("translation backend ready",
		observability.String("engine", backend.Name()),
		observability.String("source", m.cfg.SourceLang),
		observability.String("target", m.cfg.TargetLang))
	return nil
}

func (m *Manager) buildBackend(engine string) (Translator, error) {
	opts := m.transportFor(engine)
	switch engine {
	case config.EngineGoogle:
		return NewGoogle(m.cfg.SourceLang, m.cfg.TargetLang, opts...), nil
	case config.EngineDeepL:
		key := m.credential(engine, EnvDeepLKey)
		if key == "" {
			return m.keylessFallback(engine), nil
		}
		return NewDeepL(key, m.cfg.SourceLang, m.cfg.TargetLang, opts...), nil
	case config.EngineOpenAI:
		key := m.credential(engine, EnvOpenAIKey)
		if key == "" {
			return m.keylessFallback(engine), nil
		}
		return NewOpenAI(key, m.cfg.Model, m.cfg.SourceLang, m.cfg.TargetLang, opts...), nil
	case config.EngineAnthropic:
		key := m.credential(engine, EnvAnthropicKey)
		if key == "" {
			return m.keylessFallback(engine), nil
		}
		return NewAnthropic(key, m.cfg.Model, m.cfg.SourceLang, m.cfg.TargetLang, opts...), nil
	}
	return nil, fmt.Errorf("translate: unknown engine %q", engine)
}

func (m *Manager) keylessFallback(engine string) Translator {
	m.log.Warn("api key missing, falling back to google backend",
		observability.String("engine", engine))
	return NewGoogle(m.cfg.SourceLang, m.cfg.TargetLang, m.transportFor(config.EngineGoogle)...)
}

func (m *Manager) credential(engine, envVar string) string {
	if key, ok := m.keys[engine]; ok {
		return key
	}
	return os.Getenv(envVar)
}

func (m *Manager) transportFor(engine string) []BackendOption {
	opts := []BackendOption{
		WithMaxRetries(m.cfg.MaxRetries),
	}
	if m.cfg.TimeoutSeconds > 0 {
		opts = append(opts, WithTimeout(time.Duration(m.cfg.TimeoutSeconds)*time.Second))
	}
	if base := m.bases[engine]; base != "" {
		opts = append(opts, WithBaseURL(base))
	}
	return append(opts, m.client...)
}

// TranslateBatch satisfies Gateway.
func (m *Manager) TranslateBatch(ctx context.Context, texts []string) []Outcome {
	m.mu.Lock()
	b := m.batcher
	m.mu.Unlock()
	return b.TranslateBatch(ctx, texts)
}

// SwitchDirection swaps source and target languages and rebuilds the
// backend for the reversed pair.
func (m *Manager) SwitchDirection() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cfg.SourceLang, m.cfg.TargetLang = m.cfg.TargetLang, m.cfg.SourceLang
	if err := m.rebuild(); err != nil {
		return err
	}
	m.log.Info("translation direction switched",
		observability.String("source", m.cfg.SourceLang),
		observability.String("target", m.cfg.TargetLang))
	return nil
}

// Languages reports the current pair.
func (m *Manager) Languages() (source, target string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.cfg.SourceLang, m.cfg.TargetLang
}

// Engine reports the live backend's name, which may be google after a
// keyless fallback.
func (m *Manager) Engine() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.backend.Name()
}

// Cache exposes the cache for stats reporting. Nil when caching is off.
func (m *Manager) Cache() *Cache {
	return m.cache
}

// SaveCache persists the cache to the configured path, if both exist.
func (m *Manager) SaveCache() error {
	if m.cache == nil || m.cfg.CachePath == "" {
		return nil
	}
	return m.cache.SaveFile(m.cfg.CachePath)
}
