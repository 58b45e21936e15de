// Package config defines the pipeline configuration surface: recognized
// keys, documented defaults, and the construction-time validation rules.
package config

import (
	"encoding/json"
	"fmt"
	"os"
)

// Inpainting method names accepted by Validate.
const (
	MethodTelea = "telea"
	MethodNS    = "ns"
)

// Translation engine names accepted by Validate.
const (
	EngineGoogle    = "google"
	EngineDeepL     = "deepl"
	EngineOpenAI    = "openai"
	EngineAnthropic = "anthropic"
)

// OCR configures the detection engine. The threshold fields are forwarded
// to the engine verbatim; engines ignore parameters they do not understand.
type OCR struct {
	Languages      []string `json:"languages"`
	UseGPU         bool     `json:"use_gpu"`
	DetDBThresh    float64  `json:"det_db_thresh"`
	DetDBBoxThresh float64  `json:"det_db_box_thresh"`
	DropScore      float64  `json:"drop_score"`
}

// Inpainting selects and tunes the reconstruction algorithm.
type Inpainting struct {
	Method     string `json:"method"`
	Radius     int    `json:"radius"`
	ExpandMask int    `json:"expand_mask"`
}

// Rendering tunes how translated text is drawn back.
type Rendering struct {
	AutoScale   bool    `json:"auto_scale"`
	LineSpacing float64 `json:"line_spacing"`
}

// Translation configures the gateway backend.
type Translation struct {
	Engine            string `json:"engine"`
	SourceLang        string `json:"source_lang"`
	TargetLang        string `json:"target_lang"`
	Model             string `json:"model"`
	CacheTranslations bool   `json:"cache_translations"`
	CachePath         string `json:"cache_path"`
	TimeoutSeconds    int    `json:"timeout_seconds"`
	MaxRetries        int    `json:"max_retries"`
}

// Config is the full recognized configuration. Unknown JSON keys are
// ignored; absent keys keep their defaults.
type Config struct {
	OCR         OCR               `json:"ocr"`
	Inpainting  Inpainting        `json:"inpainting"`
	Fonts       map[string]string `json:"fonts"`
	Rendering   Rendering         `json:"rendering"`
	Translation Translation       `json:"translation"`
}

// Default returns the documented defaults.
func Default() Config {
	return Config{
		OCR: OCR{
			Languages:      []string{"eng"},
			UseGPU:         false,
			DetDBThresh:    0.3,
			DetDBBoxThresh: 0.6,
			DropScore:      0.5,
		},
		Inpainting: Inpainting{
			Method:     MethodTelea,
			Radius:     5,
			ExpandMask: 2,
		},
		Fonts: map[string]string{
			"pingfang_sc": "/usr/share/fonts/opentype/noto/NotoSansCJK-Regular.ttc",
			"pingfang_tc": "/usr/share/fonts/opentype/noto/NotoSansCJK-Regular.ttc",
			"heiti":       "/usr/share/fonts/truetype/dejavu/DejaVuSans.ttf",
			"songti":      "/usr/share/fonts/opentype/noto/NotoSerifCJK-Regular.ttc",
			"kaiti":       "/usr/share/fonts/opentype/noto/NotoSerifCJK-Regular.ttc",
		},
		Rendering: Rendering{
			AutoScale:   true,
			LineSpacing: 1.3,
		},
		Translation: Translation{
			Engine:            EngineGoogle,
			SourceLang:        "auto",
			TargetLang:        "zh-CN",
			Model:             "gpt-4o-mini",
			CacheTranslations: true,
			TimeoutSeconds:    30,
			MaxRetries:        3,
		},
	}
}

// Error reports a rejected configuration value.
type Error struct {
	Field  string
	Value  interface{}
	Reason string
}

func (e *Error) Error() string {
	return fmt.Sprintf("config: %s = %v: %s", e.Field, e.Value, e.Reason)
}

// Load reads a JSON config file over the defaults and validates the result.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate enforces the construction-time rules. An unrecognized
// inpainting method or translation engine is fatal here, not at call time.
func (c Config) Validate() error {
	switch c.Inpainting.Method {
	case MethodTelea, MethodNS:
	default:
		return &Error{Field: "inpainting.method", Value: c.Inpainting.Method, Reason: "must be telea or ns"}
	}
	if c.Inpainting.Radius <= 0 {
		return &Error{Field: "inpainting.radius", Value: c.Inpainting.Radius, Reason: "must be positive"}
	}
	if c.Inpainting.ExpandMask < 0 {
		return &Error{Field: "inpainting.expand_mask", Value: c.Inpainting.ExpandMask, Reason: "must not be negative"}
	}
	if c.OCR.DropScore < 0 || c.OCR.DropScore > 1 {
		return &Error{Field: "ocr.drop_score", Value: c.OCR.DropScore, Reason: "must be in [0,1]"}
	}
	switch c.Translation.Engine {
	case EngineGoogle, EngineDeepL, EngineOpenAI, EngineAnthropic:
	default:
		return &Error{Field: "translation.engine", Value: c.Translation.Engine, Reason: "unsupported engine"}
	}
	if c.Rendering.LineSpacing <= 0 {
		return &Error{Field: "rendering.line_spacing", Value: c.Rendering.LineSpacing, Reason: "must be positive"}
	}
	return nil
}
