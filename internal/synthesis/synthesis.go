// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package synthesis drives the text generator for everything past the
// extractive stage: the abstractive rewrite of each paper, the
// cross-paper insights, and the research plan built from those insights.
package synthesis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/tidwall/gjson"
	"go.uber.org/zap"

	"github.com/pdiddy/paper-scout/internal/generate"
	"github.com/pdiddy/paper-scout/internal/logging"
	"github.com/pdiddy/paper-scout/pkg/types"
)

// Token limits for each kind of generation.
const (
	AbstractiveMaxTokens = 220
	InsightsMaxTokens    = 500
	PlanMaxTokens        = 600
)

const (
	defaultTemperature = 0.3
	defaultTokenBudget = 1500
)

// Errors returned for missing caller input.
var (
	ErrNoSummaries = errors.New("summaries are required")
	ErrNoInsights  = errors.New("insights and topic are required")
)

// Synthesizer wraps a Generator with prompt rendering and token budgets.
// A nil Gen makes every method return generate.ErrNoGenerator.
type Synthesizer struct {
	Gen         generate.Generator
	Tokenizer   generate.Tokenizer
	TokenBudget int
	Temperature float64
	Logger      *zap.Logger
}

// New returns a Synthesizer configured from cfg.
func New(gen generate.Generator, tok generate.Tokenizer, cfg types.GenerationConfig, logger *zap.Logger) *Synthesizer {
	return &Synthesizer{
		Gen:         gen,
		Tokenizer:   tok,
		TokenBudget: cfg.PromptTokenBudget,
		Temperature: cfg.Temperature,
		Logger:      logger,
	}
}

func (s *Synthesizer) logger() *zap.Logger { return logging.OrNop(s.Logger) }

func (s *Synthesizer) tokenizer() generate.Tokenizer {
	if s.Tokenizer == nil {
		return generate.WordTokenizer{}
	}
	return s.Tokenizer
}

func (s *Synthesizer) budget() int {
	if s.TokenBudget <= 0 {
		return defaultTokenBudget
	}
	return s.TokenBudget
}

func (s *Synthesizer) temperature() float64 {
	if s.Temperature <= 0 {
		return defaultTemperature
	}
	return s.Temperature
}

func (s *Synthesizer) generate(ctx context.Context, prompt string, maxTokens int, asJSON bool) (string, error) {
	if s.Gen == nil {
		return "", generate.ErrNoGenerator
	}
	return s.Gen.Generate(ctx, generate.Request{
		Prompt:      prompt,
		MaxTokens:   maxTokens,
		Temperature: s.temperature(),
		JSON:        asJSON,
	})
}

// Abstractive rewrites one paper in a few plain sentences, seeded by its
// extractive summary. The abstract is cut to the prompt token budget.
func (s *Synthesizer) Abstractive(ctx context.Context, title, extractive, abstract string) (string, error) {
	prompt, err := render(abstractivePromptTmpl, struct{ Title, Extractive, Abstract string }{
		Title:      title,
		Extractive: extractive,
		Abstract:   s.tokenizer().Truncate(abstract, s.budget()),
	})
	if err != nil {
		return "", fmt.Errorf("rendering abstractive prompt: %w", err)
	}
	return s.generate(ctx, prompt, AbstractiveMaxTokens, false)
}

// Insights synthesizes themes, pros, cons and gaps across summaries.
func (s *Synthesizer) Insights(ctx context.Context, summaries []types.Summary) (types.Insights, error) {
	if len(summaries) == 0 {
		return types.Insights{}, ErrNoSummaries
	}

	perPaper := max(s.budget()/len(summaries), 1)
	items := make([]promptSummary, len(summaries))
	for i, sm := range summaries {
		text := sm.Abstractive
		if strings.TrimSpace(text) == "" {
			text = sm.Extractive
		}
		items[i] = promptSummary{Title: sm.Title, Text: s.tokenizer().Truncate(text, perPaper)}
	}
	prompt, err := render(insightsPromptTmpl, struct{ Summaries []promptSummary }{items})
	if err != nil {
		return types.Insights{}, fmt.Errorf("rendering insights prompt: %w", err)
	}

	raw, err := s.generate(ctx, prompt, InsightsMaxTokens, true)
	if err != nil {
		return types.Insights{}, fmt.Errorf("generating insights: %w", err)
	}
	in, err := Validate(raw)
	if err != nil {
		s.logger().Warn("insights response is not JSON", zap.Int("bytes", len(raw)))
		return types.Insights{}, err
	}
	in.Raw = FormatRaw(in)
	return in, nil
}

// Plan turns insights into a staged research roadmap for topic.
func (s *Synthesizer) Plan(ctx context.Context, insights types.Insights, topic string) (string, error) {
	topic = strings.TrimSpace(topic)
	if insights.IsEmpty() || topic == "" {
		return "", ErrNoInsights
	}
	payload, err := json.Marshal(struct {
		Themes []string `json:"themes"`
		Pros   []string `json:"pros"`
		Cons   []string `json:"cons"`
		Gaps   []string `json:"gaps"`
	}{insights.Themes, insights.Pros, insights.Cons, insights.Gaps})
	if err != nil {
		return "", fmt.Errorf("encoding insights: %w", err)
	}

	prompt, err := render(planPromptTmpl, struct{ Topic, Insights string }{topic, string(payload)})
	if err != nil {
		return "", fmt.Errorf("rendering plan prompt: %w", err)
	}
	plan, err := s.generate(ctx, prompt, PlanMaxTokens, false)
	if err != nil {
		return "", fmt.Errorf("planner failed: %w", err)
	}
	return plan, nil
}

// Validate parses a generator response into Insights. Each of themes,
// pros, cons and gaps keeps its string items when it is a list; any
// other shape yields an empty list. Markdown code fences around the JSON
// are ignored. Raw is left empty.
func Validate(raw string) (types.Insights, error) {
	body := stripFences(raw)
	if !gjson.Valid(body) {
		return types.Insights{}, fmt.Errorf("parsing insights JSON: invalid JSON")
	}
	doc := gjson.Parse(body)
	if !doc.IsObject() {
		return emptyInsights(), nil
	}
	return types.Insights{
		Themes: stringList(doc.Get("themes")),
		Pros:   stringList(doc.Get("pros")),
		Cons:   stringList(doc.Get("cons")),
		Gaps:   stringList(doc.Get("gaps")),
	}, nil
}

func emptyInsights() types.Insights {
	return types.Insights{Themes: []string{}, Pros: []string{}, Cons: []string{}, Gaps: []string{}}
}

func stringList(v gjson.Result) []string {
	out := []string{}
	if !v.IsArray() {
		return out
	}
	v.ForEach(func(_, item gjson.Result) bool {
		if item.Type == gjson.String {
			if s := strings.TrimSpace(item.String()); s != "" {
				out = append(out, s)
			}
		}
		return true
	})
	return out
}

func stripFences(raw string) string {
	s := strings.TrimSpace(raw)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if nl := strings.IndexByte(s, '\n'); nl >= 0 {
		s = s[nl+1:]
	}
	return strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(s), "```"))
}

// FormatRaw renders insights as labelled bullet blocks separated by blank
// lines. Empty lists are omitted.
func FormatRaw(in types.Insights) string {
	var blocks []string
	add := func(label, bullet string, items []string) {
		if len(items) == 0 {
			return
		}
		lines := []string{label + ":"}
		for _, it := range items {
			lines = append(lines, bullet+" "+it)
		}
		blocks = append(blocks, strings.Join(lines, "\n"))
	}
	add("Themes", "•", in.Themes)
	add("Pros", "+", in.Pros)
	add("Cons", "-", in.Cons)
	add("Gaps", "?", in.Gaps)
	return strings.Join(blocks, "\n\n")
}
