// Package pipeline runs the end-to-end image translation: detect text,
// erase it from the pixels, translate the strings, and draw the fitted
// translations back into place.
//
// A run is single-threaded and strictly forward; no stage retries in
// place. Parallelism belongs to the caller: independent runs may execute
// concurrently as long as every image buffer stays with one run. The font
// handle cache and the translation cache are safe to share across runs.
package pipeline

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/lifeinpassion/translator/config"
	"github.com/lifeinpassion/translator/fonts"
	"github.com/lifeinpassion/translator/geom"
	"github.com/lifeinpassion/translator/inpaint"
	"github.com/lifeinpassion/translator/observability"
	"github.com/lifeinpassion/translator/ocr"
	"github.com/lifeinpassion/translator/raster"
	"github.com/lifeinpassion/translator/render"
	"github.com/lifeinpassion/translator/translate"
)

// tiltWarn is the polygon tilt, in radians, above which a detection is
// flagged as substantially rotated. Roughly five degrees.
const tiltWarn = 0.087

// Runner is the single-image contract external harnesses drive. Pipeline
// implements it.
type Runner interface {
	TranslateImage(ctx context.Context, inputPath, outputPath string, visualize bool) (*Result, error)
}

// Pipeline wires the stages together for one configuration. It is safe
// for concurrent use once constructed.
type Pipeline struct {
	detector  *ocr.Detector
	inpainter *inpaint.Inpainter
	gateway   translate.Gateway
	renderer  *render.Renderer

	engine    ocr.Engine
	fontCache *fonts.Cache
	log       observability.Logger
	tracer    observability.Tracer
}

var _ Runner = (*Pipeline)(nil)

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithLogger routes pipeline and component diagnostics to log.
func WithLogger(log observability.Logger) Option {
	return func(p *Pipeline) {
		if log != nil {
			p.log = log
		}
	}
}

// WithTracer attaches a tracer; every stage runs under a span.
func WithTracer(tracer observability.Tracer) Option {
	return func(p *Pipeline) {
		if tracer != nil {
			p.tracer = tracer
		}
	}
}

// WithEngine injects the detection engine. The default is the library
// default engine, which the tesseract package installs when linked in.
func WithEngine(engine ocr.Engine) Option {
	return func(p *Pipeline) { p.engine = engine }
}

// WithGateway injects the translation gateway, replacing the manager the
// configuration would build. Useful for sharing one manager, and its
// cache, across several pipelines.
func WithGateway(gw translate.Gateway) Option {
	return func(p *Pipeline) { p.gateway = gw }
}

// WithFontCache shares a font handle cache across pipelines. The cache is
// synchronized, so concurrent runs may hit it freely.
func WithFontCache(cache *fonts.Cache) Option {
	return func(p *Pipeline) { p.fontCache = cache }
}

// New validates cfg and builds every stage from it. Construction is where
// unrecoverable configuration problems surface: an unknown inpainting
// method or translation engine fails here, not mid-run.
func New(cfg config.Config, opts ...Option) (*Pipeline, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	p := &Pipeline{log: observability.NopLogger{}, tracer: observability.NopTracer()}
	for _, opt := range opts {
		opt(p)
	}
	p.log.Info("initializing translation pipeline")

	p.detector = ocr.NewDetector(p.engine, ocr.Params{
		Languages:      cfg.OCR.Languages,
		UseGPU:         cfg.OCR.UseGPU,
		DetDBThresh:    cfg.OCR.DetDBThresh,
		DetDBBoxThresh: cfg.OCR.DetDBBoxThresh,
		DropScore:      cfg.OCR.DropScore,
	}, ocr.WithLogger(p.log))

	inp, err := inpaint.New(cfg.Inpainting.Method, cfg.Inpainting.Radius, cfg.Inpainting.ExpandMask,
		inpaint.WithLogger(p.log))
	if err != nil {
		return nil, err
	}
	p.inpainter = inp

	if p.gateway == nil {
		mgr, err := translate.NewManager(cfg.Translation, translate.WithLogger(p.log))
		if err != nil {
			return nil, err
		}
		p.gateway = mgr
	}

	if p.fontCache == nil {
		p.fontCache = fonts.NewCache()
	}
	resolver := fonts.NewResolver(cfg.Fonts, fonts.WithLogger(p.log))
	p.renderer = render.New(resolver, p.fontCache, cfg.Rendering,
		render.WithVariant(fonts.VariantForLang(cfg.Translation.TargetLang)),
		render.WithLogger(p.log))

	p.log.Info("pipeline initialized",
		observability.String("inpaint", cfg.Inpainting.Method),
		observability.String("engine", cfg.Translation.Engine))
	return p, nil
}

// TranslateImage translates all detected text in the image at inputPath
// and returns the per-image result. When outputPath is non-empty the
// final image is also written there. visualize additionally strokes the
// detected boxes on the output.
//
// An unreadable image, a detection engine fault, or a reconstruction
// fault aborts the run with an error. Per-region translation and render
// problems never do; they are recovered locally and reported on the
// Result.
func (p *Pipeline) TranslateImage(ctx context.Context, inputPath, outputPath string, visualize bool) (*Result, error) {
	log := p.log.With(observability.String("image", inputPath))
	log.Info("starting translation")
	res := &Result{InputPath: inputPath, Timings: make(map[string]time.Duration)}

	start := time.Now()
	img, raw, err := raster.Load(inputPath)
	res.Timings[StageLoad] = time.Since(start)
	if err != nil {
		log.Error("image load failed", observability.Error("error", err))
		return nil, err
	}

	log.Info("detecting text")
	ctx, span := p.tracer.StartSpan(ctx, "pipeline.detect")
	start = time.Now()
	regions, err := p.detector.Detect(ctx, inputPath, raw)
	res.Timings[StageDetect] = time.Since(start)
	span.SetTag(observability.MetricRegionCount, len(regions))
	if err != nil {
		span.SetError(err)
		span.Finish()
		log.Error("text detection failed", observability.Error("error", err))
		return nil, fmt.Errorf("detect %s: %w", inputPath, err)
	}
	span.Finish()
	res.Regions = regions

	if len(regions) == 0 {
		log.Warn("no text detected, returning original image")
		res.Image = img
		return res, nil
	}

	boxes := make([]geom.Rect, len(regions))
	texts := make([]string, len(regions))
	for i, r := range regions {
		boxes[i] = r.BBox()
		texts[i] = r.Text
		if tilt := r.Polygon.Tilt(); math.Abs(tilt) > tiltWarn {
			log.Warn("substantially rotated region, using its axis-aligned box",
				observability.Int("region", i),
				observability.Float64("tilt_radians", tilt))
		}
	}

	log.Info("removing original text", observability.Int("regions", len(regions)))
	ctx, span = p.tracer.StartSpan(ctx, "pipeline.inpaint")
	start = time.Now()
	inpainted, err := p.inpainter.RemoveText(img, boxes)
	res.Timings[StageInpaint] = time.Since(start)
	if err != nil {
		span.SetError(err)
		span.Finish()
		log.Error("text removal failed", observability.Error("error", err))
		return nil, fmt.Errorf("inpaint %s: %w", inputPath, err)
	}
	span.Finish()

	log.Info("translating text")
	ctx, span = p.tracer.StartSpan(ctx, "pipeline.translate")
	start = time.Now()
	outcomes := p.gateway.TranslateBatch(ctx, texts)
	res.Timings[StageTranslate] = time.Since(start)
	res.Outcomes = outcomes
	span.SetTag(observability.MetricFallbackCount, translate.Fallbacks(outcomes))
	span.Finish()

	log.Info("rendering translated text")
	_, span = p.tracer.StartSpan(ctx, "pipeline.render")
	start = time.Now()
	out := inpainted
	for i, outcome := range outcomes {
		next, err := p.renderer.RenderText(out, outcome.Text, boxes[i], nil, "")
		if err != nil {
			res.RenderErrors = append(res.RenderErrors, RegionError{Index: i, Err: err})
			continue
		}
		out = next
	}
	res.Timings[StageRender] = time.Since(start)
	span.SetTag("render_failures", len(res.RenderErrors))
	span.Finish()

	if visualize {
		out = render.Overlay(out, boxes)
	}

	if outputPath != "" {
		start = time.Now()
		if err := raster.Save(outputPath, out); err != nil {
			log.Error("save failed", observability.Error("error", err))
			return nil, err
		}
		res.Timings[StageSave] = time.Since(start)
		res.OutputPath = outputPath
		log.Info("saved translated image", observability.String("output", outputPath))
	}

	res.Image = out
	if res.Warnings() > 0 {
		log.Warn("translation completed with recovered faults",
			observability.Int("fallbacks", res.Fallbacks()),
			observability.Int("render_failures", len(res.RenderErrors)))
	} else {
		log.Info("translation completed")
	}
	return res, nil
}
