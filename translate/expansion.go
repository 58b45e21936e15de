package translate

import "strings"

// EstimateExpansion predicts the width ratio of translated text to source
// text for a language pair. Chinese sets English in roughly three quarters
// of the width, the reverse direction grows by about a third. Callers can
// size regions ahead of rendering with it.
func EstimateExpansion(sourceLang, targetLang string) float64 {
	switch {
	case sourceLang == "en" && strings.Contains(targetLang, "zh"):
		return 0.75
	case strings.Contains(sourceLang, "zh") && targetLang == "en":
		return 1.3
	}
	return 1.0
}
