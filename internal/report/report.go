// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package report renders pipeline output for the terminal, for other
// programs (JSON) and for reference managers (CSL-YAML), and reads papers
// back from JSON produced elsewhere.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/pdiddy/paper-scout/internal/pipeline"
	"github.com/pdiddy/paper-scout/pkg/types"
)

// FormatTable writes ranked papers as a human-readable table to w,
// followed by one line per source that failed.
func FormatTable(res pipeline.Result, w io.Writer) {
	if len(res.Papers) == 0 {
		fmt.Fprintln(w, "No results found.")
	} else {
		fmt.Fprintf(w, "%-4s  %-60s  %-20s  %-4s  %-6s  %s\n",
			"Rank", "Title", "Authors", "Year", "Score", "Source")
		fmt.Fprintln(w, strings.Repeat("-", 110))

		for i, p := range res.Papers {
			year := ""
			if !p.Published.IsZero() {
				year = fmt.Sprintf("%d", p.Published.Year())
			}
			fmt.Fprintf(w, "%-4d  %-60s  %-20s  %-4s  %-6.3f  %s\n",
				i+1, truncate(p.Title, 60), formatAuthors(p.Authors), year, p.ScoreValue(), p.Source)
		}
		fmt.Fprintf(w, "\n%d of %d candidates\n", len(res.Papers), res.Candidates)
	}

	for _, s := range res.Sources {
		if s.Error != "" {
			fmt.Fprintf(w, "source %s failed: %s\n", s.Source, s.Error)
		}
	}
}

// FormatJSON writes v as indented JSON to w.
func FormatJSON(v any, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// FormatSummaries writes each summary as a titled block.
func FormatSummaries(summaries []types.Summary, w io.Writer) {
	for i, s := range summaries {
		if i > 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprintf(w, "%d. %s\n", i+1, s.Title)
		if len(s.Authors) > 0 {
			fmt.Fprintf(w, "   %s\n", strings.Join(s.Authors, ", "))
		}
		if s.Link != "" {
			fmt.Fprintf(w, "   %s\n", s.Link)
		}
		if s.Extractive == "" {
			fmt.Fprintln(w, "   (no abstract)")
			continue
		}
		fmt.Fprintf(w, "   Key sentences: %s\n", s.Extractive)
		if s.Abstractive != s.Extractive {
			fmt.Fprintf(w, "   Summary: %s\n", s.Abstractive)
		}
	}
}

func formatAuthors(authors []string) string {
	switch len(authors) {
	case 0:
		return ""
	case 1:
		return truncate(authors[0], 20)
	default:
		return truncate(authors[0], 14) + " et al."
	}
}

// truncate shortens s to max runes, marking the cut with "...".
func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-3]) + "..."
}
