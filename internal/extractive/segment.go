// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extractive

import (
	"strings"
	"sync"

	"github.com/neurosnap/sentences"
	"github.com/neurosnap/sentences/english"
)

// Segmenter splits text into sentences in reading order.
type Segmenter interface {
	Segment(text string) []string
}

// PunktSegmenter uses the Punkt English model, which knows common
// abbreviations ("e.g.", "et al.", "Fig.") and does not split on them.
type PunktSegmenter struct {
	tokenizer *sentences.DefaultSentenceTokenizer
}

var (
	punktOnce sync.Once
	punkt     *PunktSegmenter
	punktErr  error
)

// NewPunktSegmenter returns the shared English Punkt segmenter. The
// training data is parsed once per process.
func NewPunktSegmenter() (*PunktSegmenter, error) {
	punktOnce.Do(func() {
		tok, err := english.NewSentenceTokenizer(nil)
		if err != nil {
			punktErr = err
			return
		}
		punkt = &PunktSegmenter{tokenizer: tok}
	})
	return punkt, punktErr
}

// Segment returns the trimmed, non-empty sentences of text.
func (s *PunktSegmenter) Segment(text string) []string {
	var out []string
	for _, sent := range s.tokenizer.Tokenize(text) {
		if t := strings.TrimSpace(sent.Text); t != "" {
			out = append(out, t)
		}
	}
	return out
}
