// Package embed provides the pluggable text-to-vector embedding interface
// consumed by pkg/core, plus a small deterministic reference implementation
// used by tests and the CLI default.
package embed

import "strings"

// Embedder maps text to a fixed-length real vector. Implementations must be
// deterministic for a given input text.
type Embedder interface {
	// Embed computes the embedding for text. The returned slice always has
	// length Dim().
	Embed(text string) ([]float64, error)
	// Dim returns the fixed dimensionality this embedder produces.
	Dim() int
}

// letterCount is the reference embedder: a 26-dimensional vector of
// lowercase a-z letter counts. It is swappable; production callers inject a
// real embedding model instead.
type letterCount struct{}

// NewLetterCount returns the reference embedder used by tests and the CLI
// default. It produces the zero vector for text with no letters, including
// the empty string — a valid but degenerate input for cosine similarity.
func NewLetterCount() Embedder {
	return letterCount{}
}

const letterCountDim = 26

func (letterCount) Dim() int { return letterCountDim }

func (letterCount) Embed(text string) ([]float64, error) {
	vec := make([]float64, letterCountDim)
	for _, r := range strings.ToLower(text) {
		if r >= 'a' && r <= 'z' {
			vec[r-'a']++
		}
	}
	return vec, nil
}
