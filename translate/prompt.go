package translate

import "fmt"

// languageName renders a language code the way a model expects to read it
// in a prompt. Unknown codes pass through as-is.
func languageName(code string) string {
	names := map[string]string{
		"en":    "English",
		"zh-CN": "Simplified Chinese",
		"zh-TW": "Traditional Chinese",
		"es":    "Spanish",
		"fr":    "French",
		"de":    "German",
		"ja":    "Japanese",
		"ko":    "Korean",
		"ru":    "Russian",
		"ar":    "Arabic",
		"pt":    "Portuguese",
		"it":    "Italian",
		"nl":    "Dutch",
		"pl":    "Polish",
		"tr":    "Turkish",
		"vi":    "Vietnamese",
		"th":    "Thai",
		"id":    "Indonesian",
		"hi":    "Hindi",
	}
	if name, ok := names[code]; ok {
		return name
	}
	return code
}

func systemPrompt(source, target string) string {
	return fmt.Sprintf("You are a professional translator. Translate the following text from %s to %s.\n"+
		"Maintain the original formatting, tone, and style. Only return the translated text without any explanations or additions.",
		languageName(source), languageName(target))
}

func userPrompt(source, target, text string) string {
	return fmt.Sprintf("Translate the following text from %s to %s.\n"+
		"Maintain the original formatting, tone, and style. Only return the translated text.\n\n"+
		"Text to translate:\n%s",
		languageName(source), languageName(target), text)
}
