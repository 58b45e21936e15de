package translate

// Outcome is the per-entry result of a batch translation. Text always
// holds the string to render: the translation on success, the source
// itself when the entry fell back.
type Outcome struct {
	Source string
	Text   string
	Err    error
}

// Translated builds the success outcome.
func Translated(source, text string) Outcome {
	return Outcome{Source: source, Text: text}
}

// Fallback builds the outcome for a failed entry. The source string stands
// in for the translation and the cause is kept for reporting.
func Fallback(source string, err error) Outcome {
	return Outcome{Source: source, Text: source, Err: err}
}

// FellBack reports whether the entry kept its source text due to a
// failure.
func (o Outcome) FellBack() bool { return o.Err != nil }

// Texts flattens outcomes back to the plain ordered string sequence.
func Texts(outcomes []Outcome) []string {
	texts := make([]string, len(outcomes))
	for i, o := range outcomes {
		texts[i] = o.Text
	}
	return texts
}

// Fallbacks counts the entries that kept their source text.
func Fallbacks(outcomes []Outcome) int {
	n := 0
	for _, o := range outcomes {
		if o.FellBack() {
			n++
		}
	}
	return n
}
