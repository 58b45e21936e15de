// Package fonts resolves font assets by style and script, caches loaded
// handles by (path, size), and fits text to boxes by binary search over
// integer sizes.
package fonts

import (
	"os"
	"strings"

	"github.com/lifeinpassion/translator/observability"
)

// Style names accepted by Resolve.
const (
	StyleSans   = "sans"
	StyleModern = "modern"
	StyleSerif  = "serif"
	StyleScript = "script"
)

// Asset names recognized in the fonts configuration map.
const (
	AssetPingFangSC = "pingfang_sc"
	AssetPingFangTC = "pingfang_tc"
	AssetHeiti      = "heiti"
	AssetSongti     = "songti"
	AssetKaiti      = "kaiti"
)

// Variant picks between the simplified and traditional Han faces when a
// style resolves to the PingFang family.
type Variant int

const (
	VariantDefault Variant = iota
	VariantSimplified
	VariantTraditional
)

// VariantForLang derives the Han variant from a BCP-47-ish language tag.
// Traditional regions and the Hant subtag map to the traditional face,
// any other Chinese tag to the simplified one.
func VariantForLang(lang string) Variant {
	l := strings.ToLower(lang)
	switch {
	case strings.HasPrefix(l, "zh-tw"), strings.HasPrefix(l, "zh-hk"),
		strings.HasPrefix(l, "zh-mo"), strings.Contains(l, "hant"):
		return VariantTraditional
	case strings.HasPrefix(l, "zh"):
		return VariantSimplified
	}
	return VariantDefault
}

// Resolver maps (style, variant) to a configured font file path.
type Resolver struct {
	assets map[string]string
	log    observability.Logger
}

// ResolverOption configures a Resolver.
type ResolverOption func(*Resolver)

// WithLogger attaches a logger for fallback warnings.
func WithLogger(log observability.Logger) ResolverOption {
	return func(r *Resolver) {
		if log != nil {
			r.log = log
		}
	}
}

// NewResolver builds a resolver over the asset-name to file-path map from
// the configuration. The map is copied.
func NewResolver(assets map[string]string, opts ...ResolverOption) *Resolver {
	r := &Resolver{assets: make(map[string]string, len(assets)), log: observability.NopLogger{}}
	for k, v := range assets {
		r.assets[k] = v
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve maps a style and Han variant to a font file path. An asset that
// is not configured or not on disk falls back to the heiti face with a
// warning; resolution never fails.
func (r *Resolver) Resolve(style string, v Variant) string {
	name := assetFor(style, v)
	if path, ok := r.lookup(name); ok {
		return path
	}
	r.log.Warn("font asset unavailable, using fallback",
		observability.String("asset", name),
		observability.String("fallback", AssetHeiti))
	if path, ok := r.lookup(AssetHeiti); ok {
		return path
	}
	// Whatever heiti is configured as, present or not. A load failure
	// downstream is a per-region rendering fault, not a resolution error.
	return r.assets[AssetHeiti]
}

func (r *Resolver) lookup(name string) (string, bool) {
	path := r.assets[name]
	if path == "" {
		return "", false
	}
	if _, err := os.Stat(path); err != nil {
		return "", false
	}
	return path, true
}

func assetFor(style string, v Variant) string {
	switch style {
	case StyleSerif:
		return AssetSongti
	case StyleScript:
		return AssetKaiti
	}
	if v == VariantTraditional {
		return AssetPingFangTC
	}
	return AssetPingFangSC
}
