package ocr

import (
	"context"
	"net/http"
	"strconv"

	"github.com/lifeinpassion/translator/observability"
)

// Params is the engine tuning surface the detector forwards verbatim. The
// threshold fields follow the conventions of DB-style text detectors;
// engines that do not implement them ignore them.
type Params struct {
	Languages      []string
	UseGPU         bool
	DetDBThresh    float64
	DetDBBoxThresh float64
	DropScore      float64
}

func (p Params) metadata() map[string]string {
	return map[string]string{
		ParamUseGPU:         strconv.FormatBool(p.UseGPU),
		ParamDetDBThresh:    strconv.FormatFloat(p.DetDBThresh, 'f', -1, 64),
		ParamDetDBBoxThresh: strconv.FormatFloat(p.DetDBBoxThresh, 'f', -1, 64),
		ParamDropScore:      strconv.FormatFloat(p.DropScore, 'f', -1, 64),
	}
}

// Detector wraps a detection engine and normalizes its output for the
// pipeline. Confidence filtering below DropScore is the engine's
// responsibility; the detector does not re-filter.
type Detector struct {
	engine Engine
	params Params
	log    observability.Logger
}

// DetectorOption configures a Detector.
type DetectorOption func(*Detector)

// WithLogger attaches a logger to the detector.
func WithLogger(log observability.Logger) DetectorOption {
	return func(d *Detector) {
		if log != nil {
			d.log = log
		}
	}
}

// NewDetector wraps engine with the given tuning parameters. A nil engine
// falls back to the library default.
func NewDetector(engine Engine, params Params, opts ...DetectorOption) *Detector {
	if engine == nil {
		engine = DefaultEngine()
	}
	d := &Detector{engine: engine, params: params, log: observability.NopLogger{}}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Detect runs the engine over one encoded image and returns its regions in
// engine order. An empty slice means no text was found; an engine fault is
// wrapped in DetectionError and propagated, never swallowed.
func (d *Detector) Detect(ctx context.Context, id string, data []byte, opts ...InputOption) ([]TextRegion, error) {
	all := []InputOption{
		WithLanguages(d.params.Languages...),
		WithMetadata(d.params.metadata()),
	}
	all = append(all, opts...)
	in := NewInput(id, data, sniffFormat(data), all...)

	regions, err := d.engine.Detect(ctx, in)
	if err != nil {
		return nil, &DetectionError{Engine: d.engine.Name(), Err: err}
	}
	d.log.Debug("text detection finished",
		observability.String("image", id),
		observability.String("engine", d.engine.Name()),
		observability.Int("regions", len(regions)))
	return regions, nil
}

func sniffFormat(data []byte) ImageFormat {
	switch http.DetectContentType(data) {
	case "image/jpeg":
		return ImageFormatJPEG
	case "image/tiff":
		return ImageFormatTIFF
	default:
		return ImageFormatPNG
	}
}
