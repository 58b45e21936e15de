package ocr

// Package ocr defines the detection boundary of the image translation
// pipeline: the TextRegion value produced for every piece of text found in
// an image, and the small engine contracts for plugging third-party
// recognizers (a local Tesseract binary, a remote API) behind it. The
// interfaces are transport-agnostic so engines can be swapped without
// leaking provider-specific concerns into callers.
