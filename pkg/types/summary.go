// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// Summary holds the layered summaries produced for one paper.
type Summary struct {
	Title   string   `json:"title" yaml:"title"`
	Authors []string `json:"authors" yaml:"authors"`
	Link    string   `json:"link" yaml:"link"`
	Source  string   `json:"source" yaml:"source"`

	// Extractive is the top sentences of the abstract, verbatim and in
	// their original order.
	Extractive string `json:"extractive" yaml:"extractive"`

	// Abstractive is a generated rewrite seeded by Extractive. It equals
	// Extractive when no generator is configured or generation failed.
	Abstractive string `json:"abstractive" yaml:"abstractive"`
}

// Insights is the cross-paper synthesis over a set of summaries.
type Insights struct {
	Themes []string `json:"themes" yaml:"themes"`
	Pros   []string `json:"pros" yaml:"pros"`
	Cons   []string `json:"cons" yaml:"cons"`
	Gaps   []string `json:"gaps" yaml:"gaps"`

	// Raw is a human-readable rendering of the four lists.
	Raw string `json:"raw" yaml:"raw"`
}

// IsEmpty reports whether all four insight lists are empty.
func (in Insights) IsEmpty() bool {
	return len(in.Themes) == 0 && len(in.Pros) == 0 && len(in.Cons) == 0 && len(in.Gaps) == 0
}
