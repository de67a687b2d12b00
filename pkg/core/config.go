package core

import (
	"time"

	"github.com/google/uuid"
	"github.com/vecbase/vecbase/pkg/embed"
)

// Algo selects which Index variant BuildIndex constructs.
type Algo string

const (
	AlgoLinear Algo = "linear"
	AlgoKD     Algo = "kd"
	AlgoLSH    Algo = "lsh"
)

// Config wires the external collaborators a Service needs: an embedder, an
// identifier generator, a clock, a logger, and the LSH build parameters.
// Every field has a working zero-config default via DefaultConfig.
type Config struct {
	Embedder embed.Embedder
	IDGen    func() uuid.UUID
	Clock    func() time.Time
	Logger   Logger

	// LSHPlanes is the number of random hyperplanes sampled per LSH build.
	// Zero means index.DefaultLSHPlanes.
	LSHPlanes int
	// LSHSeed, when non-nil, makes LSH bucketing reproducible for a fixed
	// seed and input, per the build contract's determinism note.
	LSHSeed *int64
}

// DefaultConfig returns a Config using the reference letter-count embedder,
// uuid.New, time.Now in UTC, and a no-op logger.
func DefaultConfig() Config {
	return Config{
		Embedder: embed.NewLetterCount(),
		IDGen:    uuid.New,
		Clock:    func() time.Time { return time.Now().UTC() },
		Logger:   NopLogger(),
	}
}

func (c Config) withDefaults() Config {
	if c.Embedder == nil {
		c.Embedder = embed.NewLetterCount()
	}
	if c.IDGen == nil {
		c.IDGen = uuid.New
	}
	if c.Clock == nil {
		c.Clock = func() time.Time { return time.Now().UTC() }
	}
	if c.Logger == nil {
		c.Logger = NopLogger()
	}
	return c
}
