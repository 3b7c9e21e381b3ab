// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the paper-scout pipeline:
// the normalized Paper produced by every source adapter, the per-paper
// Summary, synthesized Insights, and the pipeline configuration.
package types

import "time"

// Paper is a candidate paper normalized from one external catalog. Values
// are built fresh for every request and carry no persistent identity.
type Paper struct {
	// Title is the paper title. Empty when the source omits it.
	Title string `json:"title" yaml:"title"`

	// Abstract is the plain-text abstract. Nested source values are
	// flattened to a single space-joined string before they land here.
	Abstract string `json:"abstract" yaml:"abstract"`

	// Link identifies the paper at its source. Not unique across sources.
	Link string `json:"link" yaml:"link"`

	// Source names the adapter that produced the paper (e.g. "arxiv", "pubmed").
	Source string `json:"source" yaml:"source"`

	// Authors lists author names in source order. Never nil once a paper
	// leaves the aggregator.
	Authors []string `json:"authors" yaml:"authors"`

	// Identifier is the catalog identifier (arXiv ID, PMID, DOI) when known.
	// Used for display and CSL export only.
	Identifier string `json:"identifier,omitempty" yaml:"identifier,omitempty"`

	// Published is the publication or submission date, zero when unknown.
	Published time.Time `json:"published,omitempty" yaml:"published,omitempty"`

	// Score is the cosine similarity to the query in [-1, 1]. Nil until
	// the paper has been ranked.
	Score *float64 `json:"score,omitempty" yaml:"score,omitempty"`
}

// HasScore reports whether the paper has been ranked.
func (p Paper) HasScore() bool { return p.Score != nil }

// ScoreValue returns the attached score, or 0 for an unranked paper.
func (p Paper) ScoreValue() float64 {
	if p.Score == nil {
		return 0
	}
	return *p.Score
}

// WithScore returns a copy of p carrying score s. The Authors slice is
// copied so the ranked copy never aliases the candidate it came from.
func (p Paper) WithScore(s float64) Paper {
	out := p
	out.Authors = append([]string{}, p.Authors...)
	out.Score = &s
	return out
}
