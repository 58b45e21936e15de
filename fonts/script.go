package fonts

import (
	"unicode"

	"github.com/go-text/typesetting/di"
	"github.com/go-text/typesetting/language"
)

// Script identifies the writing system a string is predominantly written
// in. The set is closed so font and translation routing can switch over it
// exhaustively.
type Script int

const (
	ScriptLatin Script = iota
	ScriptHan
	ScriptHangul
	ScriptKana
	ScriptArabic
	ScriptCyrillic
	ScriptOther
)

func (s Script) String() string {
	switch s {
	case ScriptLatin:
		return "latin"
	case ScriptHan:
		return "han"
	case ScriptHangul:
		return "hangul"
	case ScriptKana:
		return "kana"
	case ScriptArabic:
		return "arabic"
	case ScriptCyrillic:
		return "cyrillic"
	}
	return "other"
}

// scriptOf classifies a single rune. Digits, punctuation, and anything
// outside the tracked ranges return ScriptOther and never sway a vote.
func scriptOf(r rune) Script {
	switch {
	case unicode.Is(unicode.Han, r):
		return ScriptHan
	case unicode.Is(unicode.Hiragana, r), unicode.Is(unicode.Katakana, r):
		return ScriptKana
	case unicode.Is(unicode.Hangul, r):
		return ScriptHangul
	case unicode.Is(unicode.Arabic, r):
		return ScriptArabic
	case unicode.Is(unicode.Cyrillic, r):
		return ScriptCyrillic
	case unicode.Is(unicode.Latin, r):
		return ScriptLatin
	}
	return ScriptOther
}

// Classify returns the script with the most runes in text. Ties keep the
// script counted first; text with no classifiable runes is ScriptOther.
func Classify(text string) Script {
	counts := make(map[Script]int)
	best := ScriptOther
	maxCount := 0
	for _, r := range text {
		s := scriptOf(r)
		if s == ScriptOther {
			continue
		}
		counts[s]++
		if counts[s] > maxCount {
			maxCount = counts[s]
			best = s
		}
	}
	return best
}

// ContainsHan reports whether text holds at least one codepoint in the CJK
// Unified Ideographs block, U+4E00 through U+9FFF. The renderer keys its
// Han-capable font choice on exactly this block.
func ContainsHan(text string) bool {
	for _, r := range text {
		if r >= 0x4E00 && r <= 0x9FFF {
			return true
		}
	}
	return false
}

// TypesettingScript maps to the identifier the shaping engine expects.
func (s Script) TypesettingScript() language.Script {
	switch s {
	case ScriptHan:
		return language.Han
	case ScriptHangul:
		return language.Hangul
	case ScriptKana:
		return language.Katakana
	case ScriptArabic:
		return language.Arabic
	case ScriptCyrillic:
		return language.Cyrillic
	}
	return language.Latin
}

// Direction returns the shaping direction for the script.
func (s Script) Direction() di.Direction {
	if s == ScriptArabic {
		return di.DirectionRTL
	}
	return di.DirectionLTR
}
