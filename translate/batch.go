package translate

import (
	"context"
	"strings"

	"github.com/lifeinpassion/translator/observability"
)

// Batcher lifts a single-string Translator to the batch Gateway contract.
// Entries translate independently: a failure substitutes that entry's
// source text and is logged, never raised, and the result keeps the
// input's length and order exactly.
type Batcher struct {
	backend Translator
	source  string
	target  string
	cache   *Cache
	log     observability.Logger
}

// NewBatcher wraps backend for the given language pair. cache may be nil
// to disable memoization, log may be nil for silence.
func NewBatcher(backend Translator, source, target string, cache *Cache, log observability.Logger) *Batcher {
	if log == nil {
		log = observability.NopLogger{}
	}
	return &Batcher{backend: backend, source: source, target: target, cache: cache, log: log}
}

func (b *Batcher) TranslateBatch(ctx context.Context, texts []string) []Outcome {
	outcomes := make([]Outcome, len(texts))
	for i, text := range texts {
		outcomes[i] = b.translateOne(ctx, text)
	}
	return outcomes
}

func (b *Batcher) translateOne(ctx context.Context, text string) Outcome {
	// Blank entries pass through without touching the backend.
	if strings.TrimSpace(text) == "" {
		return Translated(text, text)
	}
	key := ""
	if b.cache != nil {
		key = CacheKey(b.backend.Name(), b.source, b.target, text)
		if hit, ok := b.cache.Get(key); ok {
			return Translated(text, hit)
		}
	}
	translated, err := b.backend.Translate(ctx, text)
	if err != nil {
		b.log.Warn("translation failed, keeping source text",
			observability.String("engine", b.backend.Name()),
			observability.String("text", snippet(text, 40)),
			observability.Error("error", err))
		return Fallback(text, err)
	}
	if b.cache != nil {
		b.cache.Put(key, translated)
	}
	b.log.Debug("translated",
		observability.String("source", snippet(text, 40)),
		observability.String("result", snippet(translated, 40)))
	return Translated(text, translated)
}

// snippet truncates s for log lines, keeping rune boundaries intact.
func snippet(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + "..."
}
