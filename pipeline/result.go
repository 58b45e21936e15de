package pipeline

import (
	"fmt"
	"image"
	"time"

	"github.com/lifeinpassion/translator/ocr"
	"github.com/lifeinpassion/translator/translate"
)

// Timing keys in Result.Timings.
const (
	StageLoad      = "load"
	StageDetect    = "detect"
	StageInpaint   = "inpaint"
	StageTranslate = "translate"
	StageRender    = "render"
	StageSave      = "save"
)

// RegionError records a render fault on one region that was recovered by
// keeping the inpainted background there.
type RegionError struct {
	Index int
	Err   error
}

func (e RegionError) Error() string { return fmt.Sprintf("region %d: %v", e.Index, e.Err) }

func (e RegionError) Unwrap() error { return e.Err }

// Result reports a single image run. Callers aggregating many images read
// the counts; the final image is also returned in memory so output files
// are optional.
type Result struct {
	InputPath  string
	OutputPath string // empty when nothing was written

	Image    *image.RGBA
	Regions  []ocr.TextRegion
	Outcomes []translate.Outcome

	RenderErrors []RegionError
	Timings      map[string]time.Duration
}

// Fallbacks counts regions that kept their source text because translation
// failed for them.
func (r *Result) Fallbacks() int { return translate.Fallbacks(r.Outcomes) }

// Warnings counts every recovered per-region problem: translation
// fallbacks plus render faults.
func (r *Result) Warnings() int { return r.Fallbacks() + len(r.RenderErrors) }
