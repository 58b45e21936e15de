package ocr

import (
	"context"
	"fmt"

	"github.com/lifeinpassion/translator/geom"
)

// ImageFormat identifies the content type of a detection input image.
type ImageFormat string

const (
	ImageFormatPNG  ImageFormat = "image/png"
	ImageFormatJPEG ImageFormat = "image/jpeg"
	ImageFormatTIFF ImageFormat = "image/tiff"
)

// TextRegion is one detected text instance: the bounding polygon the engine
// reported, the transcribed text, and the recognition confidence in [0,1].
// Regions live for a single pipeline invocation and are never persisted.
type TextRegion struct {
	Polygon    geom.Polygon
	Text       string
	Confidence float64
}

// BBox derives the axis-aligned rectangle of the region's polygon.
func (r TextRegion) BBox() geom.Rect { return r.Polygon.BBox() }

// Metadata keys reserved for engine tuning parameters. Engines consume the
// keys they understand and ignore the rest; they are never forwarded as raw
// provider variables.
const (
	ParamUseGPU         = "use_gpu"
	ParamDetDBThresh    = "det_db_thresh"
	ParamDetDBBoxThresh = "det_db_box_thresh"
	ParamDropScore      = "drop_score"
	ParamGranularity    = "granularity"
)

// Granularity values for ParamGranularity.
const (
	GranularityLine = "line"
	GranularityWord = "word"
)

// Input encapsulates a single image submitted for detection.
type Input struct {
	// ID is an optional caller-provided identifier that is echoed back in
	// engine errors and logs.
	ID string
	// Image is the encoded image payload in the format specified by Format.
	Image []byte
	// Format declares the image content type (e.g., image/png).
	Format ImageFormat
	// DPI carries the effective dots-per-inch for the image. Providers such
	// as Tesseract use this for scaling heuristics; zero means unknown.
	DPI int
	// Languages is a list of language hints (e.g., "eng", "chi_sim") that
	// providers can use to select trained data.
	Languages []string
	// Region restricts detection to a subsection of the image. Nil means
	// the full image is processed.
	Region *geom.Rect
	// Metadata passes engine-specific knobs (thresholds, page segmentation
	// modes) without hard-coding them into the API surface. Keys matching
	// the Param* constants are tuning parameters; anything else is handed
	// to the provider as a raw variable.
	Metadata map[string]string
}

// Engine is the detection provider contract: one image in, zero or more
// ordered regions out. An empty slice means no text was found; an error
// means the engine itself failed.
type Engine interface {
	Name() string
	Detect(ctx context.Context, input Input) ([]TextRegion, error)
}

// BatchEngine handles multiple images in a single call, enabling providers
// that amortize setup costs or remote round-trips.
type BatchEngine interface {
	Engine
	DetectBatch(ctx context.Context, inputs []Input) ([][]TextRegion, error)
}

// DetectionError wraps an engine-level fault. It distinguishes "the engine
// failed" from "no text found", which is reported as an empty region slice.
type DetectionError struct {
	Engine string
	Err    error
}

func (e *DetectionError) Error() string {
	return fmt.Sprintf("ocr engine %s: %v", e.Engine, e.Err)
}

func (e *DetectionError) Unwrap() error { return e.Err }
