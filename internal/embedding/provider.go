// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package embedding maps text into a fixed-dimensional vector space and
// measures cosine similarity there. The Provider loads its Model at most
// once per process, on first use, and shares it read-only with every
// caller afterwards.
package embedding

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/pdiddy/paper-scout/internal/logging"
)

// ErrModelUnavailable is wrapped by every error caused by a model that
// could not be loaded. Load failures are remembered: later calls fail
// fast with the same error.
var ErrModelUnavailable = errors.New("embedding model unavailable")

// Model is a loaded embedding model. Implementations must be safe for
// concurrent use once loaded.
type Model interface {
	// Name identifies the backend and model (e.g. "ollama:all-minilm").
	Name() string

	// EmbedBatch returns one vector per input text, in input order. All
	// vectors share one dimension.
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
}

// Loader constructs a Model. It is called at most once per Provider.
type Loader func(ctx context.Context) (Model, error)

// Provider is the process-wide handle to the embedding model. The zero
// value is not usable; construct with NewProvider or FromConfig.
type Provider struct {
	load   Loader
	logger *zap.Logger

	once  sync.Once
	model Model
	err   error
}

// NewProvider returns a Provider that defers load until first use.
func NewProvider(load Loader, logger *zap.Logger) *Provider {
	return &Provider{load: load, logger: logging.OrNop(logger)}
}

// NewStaticProvider wraps an already loaded Model.
func NewStaticProvider(m Model) *Provider {
	return NewProvider(func(context.Context) (Model, error) { return m, nil }, nil)
}

// Model returns the loaded model, loading it on first call. Concurrent
// first callers block until the single load finishes.
func (p *Provider) Model(ctx context.Context) (Model, error) {
	p.once.Do(func() {
		start := time.Now()
		if p.load == nil {
			p.err = fmt.Errorf("%w: no loader configured", ErrModelUnavailable)
			return
		}
		// One caller's cancellation must not poison the shared load.
		m, err := p.load(context.WithoutCancel(ctx))
		switch {
		case err != nil:
			p.err = fmt.Errorf("%w: %w", ErrModelUnavailable, err)
		case m == nil:
			p.err = fmt.Errorf("%w: loader returned no model", ErrModelUnavailable)
		default:
			p.model = m
		}
		if p.err != nil {
			p.logger.Error("embedding model load failed", zap.Error(p.err))
			return
		}
		p.logger.Info("embedding model loaded",
			zap.String("model", m.Name()),
			zap.Duration("elapsed", time.Since(start)))
	})
	return p.model, p.err
}

// Embed maps a single text to its vector.
func (p *Provider) Embed(ctx context.Context, text string) ([]float32, error) {
	vecs, err := p.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vecs[0], nil
}

// EmbedBatch maps texts to vectors in one model call. An empty input
// returns an empty result without loading the model.
func (p *Provider) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return [][]float32{}, nil
	}
	m, err := p.Model(ctx)
	if err != nil {
		return nil, err
	}

	vecs, err := m.EmbedBatch(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("embedding %d texts with %s: %w", len(texts), m.Name(), err)
	}
	if len(vecs) != len(texts) {
		return nil, fmt.Errorf("%s returned %d vectors for %d texts", m.Name(), len(vecs), len(texts))
	}
	dim := len(vecs[0])
	for i, v := range vecs {
		if len(v) != dim {
			return nil, fmt.Errorf("%s returned vector %d with dimension %d, want %d", m.Name(), i, len(v), dim)
		}
	}
	p.logger.Debug("embedded batch", zap.Int("texts", len(texts)), zap.Int("dimensions", dim))
	return vecs, nil
}

// Similarity returns the cosine similarity of a and b in [-1, 1]. It is
// 0 when either vector has zero magnitude or the dimensions differ.
func Similarity(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, aMag, bMag float64
	for i := range a {
		x, y := float64(a[i]), float64(b[i])
		dot += x * y
		aMag += x * x
		bMag += y * y
	}
	if aMag == 0 || bMag == 0 {
		return 0
	}
	s := dot / (math.Sqrt(aMag) * math.Sqrt(bMag))
	// Rounding can push identical vectors just past 1.
	return math.Max(-1, math.Min(1, s))
}
