package ocr

import (
	"context"
	"fmt"
)

var defaultEngine Engine = &noopEngine{}

// DefaultEngine returns the library's default detection engine (Tesseract,
// when its package is linked in).
func DefaultEngine() Engine {
	return defaultEngine
}

// SetDefaultEngine sets the library's default detection engine.
func SetDefaultEngine(engine Engine) {
	defaultEngine = engine
}

// DetectAll runs detection for every input against the provided engine. If
// the engine supports batch operation it is used; otherwise calls execute
// sequentially. Result order matches input order.
func DetectAll(ctx context.Context, engine Engine, inputs []Input) ([][]TextRegion, error) {
	if b, ok := engine.(BatchEngine); ok {
		return b.DetectBatch(ctx, inputs)
	}
	results := make([][]TextRegion, 0, len(inputs))
	for _, in := range inputs {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}
		regions, err := engine.Detect(ctx, in)
		if err != nil {
			return nil, fmt.Errorf("detect %s: %w", in.ID, err)
		}
		results = append(results, regions)
	}
	return results, nil
}

type noopEngine struct{}

func (n noopEngine) Name() string { return "noop" }

func (n noopEngine) Detect(ctx context.Context, input Input) ([]TextRegion, error) {
	return nil, nil
}
