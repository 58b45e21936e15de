// Package translate is the boundary between the pipeline and external
// translation services. Backends implement the single-string Translator
// contract; Batcher lifts any of them to the ordered batch contract the
// pipeline consumes, with passthrough for blank entries and per-entry
// fallback to the source text on failure.
package translate

import "context"

// Translator converts one string between a fixed language pair.
type Translator interface {
	Name() string
	Translate(ctx context.Context, text string) (string, error)
}

// Gateway is the batch contract. The result has the same length and order
// as the input, entry for entry; failures never surface as errors here,
// they are recorded on the affected Outcome.
type Gateway interface {
	TranslateBatch(ctx context.Context, texts []string) []Outcome
}
