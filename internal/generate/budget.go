// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package generate

import (
	"strings"

	"github.com/pkoukk/tiktoken-go"
	"go.uber.org/zap"

	"github.com/pdiddy/paper-scout/internal/logging"
)

// Tokenizer counts and truncates prompt text in model tokens.
type Tokenizer interface {
	Count(text string) int
	Truncate(text string, maxTokens int) string
}

// Tiktoken measures text with an OpenAI BPE encoding.
type Tiktoken struct {
	enc *tiktoken.Tiktoken
}

// NewTiktoken returns the encoding for model, or cl100k_base when the
// model is unknown to tiktoken.
func NewTiktoken(model string) (*Tiktoken, error) {
	enc, err := tiktoken.EncodingForModel(model)
	if err != nil {
		enc, err = tiktoken.GetEncoding("cl100k_base")
		if err != nil {
			return nil, err
		}
	}
	return &Tiktoken{enc: enc}, nil
}

// Count returns the number of tokens in text.
func (t *Tiktoken) Count(text string) int {
	return len(t.enc.Encode(text, nil, nil))
}

// Truncate keeps the first maxTokens tokens of text.
func (t *Tiktoken) Truncate(text string, maxTokens int) string {
	if maxTokens <= 0 {
		return text
	}
	toks := t.enc.Encode(text, nil, nil)
	if len(toks) <= maxTokens {
		return text
	}
	return strings.TrimSpace(t.enc.Decode(toks[:maxTokens]))
}

// WordTokenizer approximates tokens by whitespace-separated words. It
// needs no encoding tables.
type WordTokenizer struct{}

// Count returns the number of words in text.
func (WordTokenizer) Count(text string) int { return len(strings.Fields(text)) }

// Truncate keeps the first maxTokens words of text.
func (WordTokenizer) Truncate(text string, maxTokens int) string {
	words := strings.Fields(text)
	if maxTokens <= 0 || len(words) <= maxTokens {
		return text
	}
	return strings.Join(words[:maxTokens], " ")
}

// DefaultTokenizer returns a tiktoken encoding for model, falling back
// to WordTokenizer when the encoding tables cannot be loaded.
func DefaultTokenizer(model string, logger *zap.Logger) Tokenizer {
	if model == "" {
		model = defaultOpenAIModel
	}
	t, err := NewTiktoken(model)
	if err != nil {
		logging.OrNop(logger).Warn("tiktoken unavailable, counting words instead", zap.Error(err))
		return WordTokenizer{}
	}
	return t
}
