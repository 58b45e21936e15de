// Package tesseract backs the detection boundary with a local Tesseract
// installation through the gosseract client.
package tesseract

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"
	"math"
	"strconv"
	"strings"

	"github.com/otiai10/gosseract/v2"

	"github.com/lifeinpassion/translator/geom"
	"github.com/lifeinpassion/translator/ocr"
)

func init() {
	ocr.SetDefaultEngine(NewEngine())
}

// Engine implements ocr.Engine and ocr.BatchEngine using the gosseract
// client.
type Engine struct {
	clientFactory func() *gosseract.Client
}

// NewEngine constructs a Tesseract-backed detection engine.
func NewEngine() *Engine {
	return &Engine{clientFactory: gosseract.NewClient}
}

func (e *Engine) Name() string { return "tesseract" }

// Detect performs OCR on a single image input and returns one region per
// text line (or per word, when requested through metadata). Regions below
// the drop_score parameter are filtered here, as the detection contract
// assigns confidence filtering to the engine.
func (e *Engine) Detect(ctx context.Context, in ocr.Input) ([]ocr.TextRegion, error) {
	c := e.clientFactory()
	defer c.Close()
	return e.detectWithClient(ctx, c, in)
}

// DetectBatch processes multiple inputs sequentially, one client per input.
func (e *Engine) DetectBatch(ctx context.Context, inputs []ocr.Input) ([][]ocr.TextRegion, error) {
	results := make([][]ocr.TextRegion, 0, len(inputs))
	for _, in := range inputs {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}
		c := e.clientFactory()
		regions, err := e.detectWithClient(ctx, c, in)
		if err != nil {
			c.Close()
			return nil, fmt.Errorf("detect %s: %w", in.ID, err)
		}
		c.Close()
		results = append(results, regions)
	}
	return results, nil
}

func (e *Engine) detectWithClient(ctx context.Context, c *gosseract.Client, in ocr.Input) ([]ocr.TextRegion, error) {
	imgData, offset, err := cropImage(in.Image, in.Region)
	if err != nil {
		return nil, err
	}
	if err := c.SetImageFromBytes(imgData); err != nil {
		return nil, fmt.Errorf("set image: %w", err)
	}
	if len(in.Languages) > 0 {
		if err := c.SetLanguage(in.Languages...); err != nil {
			return nil, fmt.Errorf("set languages: %w", err)
		}
	}
	if in.DPI > 0 {
		if err := c.SetVariable(gosseract.SettableVariable("user_defined_dpi"), fmt.Sprint(in.DPI)); err != nil {
			return nil, fmt.Errorf("set dpi: %w", err)
		}
	}

	dropScore, level := tuning(in.Metadata)
	for k, v := range in.Metadata {
		if reservedParam(k) {
			continue
		}
		if err := c.SetVariable(gosseract.SettableVariable(k), v); err != nil {
			return nil, fmt.Errorf("set variable %s: %w", k, err)
		}
	}

	boxes, err := c.GetBoundingBoxes(level)
	if err != nil {
		return nil, fmt.Errorf("bounding boxes: %w", err)
	}

	regions := make([]ocr.TextRegion, 0, len(boxes))
	for _, b := range boxes {
		conf := b.Confidence / 100.0
		if conf < dropScore {
			continue
		}
		text := strings.TrimSpace(b.Word)
		if text == "" {
			continue
		}
		rect := geom.FromImageRect(b.Box.Add(offset))
		regions = append(regions, ocr.TextRegion{
			Polygon:    geom.RectPolygon(rect),
			Text:       text,
			Confidence: clamp01(conf),
		})
	}
	return regions, nil
}

// tuning extracts the detector parameters this engine understands.
func tuning(meta map[string]string) (dropScore float64, level gosseract.PageIteratorLevel) {
	level = gosseract.RIL_TEXTLINE
	if meta == nil {
		return 0, level
	}
	if v, err := strconv.ParseFloat(meta[ocr.ParamDropScore], 64); err == nil {
		dropScore = v
	}
	if meta[ocr.ParamGranularity] == ocr.GranularityWord {
		level = gosseract.RIL_WORD
	}
	return dropScore, level
}

func reservedParam(key string) bool {
	switch key {
	case ocr.ParamUseGPU, ocr.ParamDetDBThresh, ocr.ParamDetDBBoxThresh,
		ocr.ParamDropScore, ocr.ParamGranularity:
		return true
	}
	return false
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}

// cropImage restricts the input to the requested region, remembering the
// crop origin so detected boxes can be mapped back to full-image space.
func cropImage(data []byte, region *geom.Rect) ([]byte, image.Point, error) {
	if region == nil || region.Empty() {
		return data, image.Point{}, nil
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, image.Point{}, fmt.Errorf("decode for region: %w", err)
	}
	rect := region.ImageRect().Intersect(img.Bounds())
	if rect.Empty() {
		return nil, image.Point{}, fmt.Errorf("region outside image bounds")
	}
	subImg, ok := img.(interface {
		SubImage(r image.Rectangle) image.Image
	})
	if !ok {
		return nil, image.Point{}, fmt.Errorf("image does not support sub-image")
	}
	cropped := subImg.SubImage(rect)
	var buf bytes.Buffer
	if err := png.Encode(&buf, cropped); err != nil {
		return nil, image.Point{}, fmt.Errorf("encode cropped image: %w", err)
	}
	return buf.Bytes(), rect.Min, nil
}
