package fonts

// Bounds of the size search.
const (
	MinFitSize = 8
	MaxFitSize = 200
)

// Fit finds the largest integer size in [minSize, maxSize] at which measure
// reports text fitting inside maxW by maxH pixels. Binary search: a fitting
// midpoint is recorded as the best so far and the upper half searched,
// since a larger size may still fit; a non-fit discards the upper half.
// Returns minSize when nothing in range fits. Measurement errors count as
// non-fits, so Fit never fails.
func Fit(measure Measurer, text string, maxW, maxH float64, minSize, maxSize int) int {
	best := minSize
	lo, hi := minSize, maxSize
	for lo <= hi {
		mid := (lo + hi) / 2
		w, h, err := measure(text, mid)
		if err == nil && w <= maxW && h <= maxH {
			best = mid
			lo = mid + 1
		} else {
			hi = mid - 1
		}
	}
	return best
}
