// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package report

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/tidwall/gjson"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/paper-scout/internal/normalize"
	"github.com/pdiddy/paper-scout/pkg/types"
)

// ErrNoInput is returned when the input holds no JSON or YAML document.
var ErrNoInput = errors.New("empty input")

// ReadPapers reads papers from r. Accepted shapes are a JSON array of
// papers, a JSON object with a "papers" (or "results") array, and a YAML
// results file. Abstracts and titles may be strings, lists or objects and
// are flattened to plain text. Entries that are not objects are skipped.
func ReadPapers(r io.Reader) ([]types.Paper, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading papers: %w", err)
	}
	raw := strings.TrimSpace(string(data))
	if raw == "" {
		return nil, ErrNoInput
	}
	if !gjson.Valid(raw) {
		return readPapersYAML(data)
	}

	list := gjson.Parse(raw)
	if list.IsObject() {
		list = firstArray(list, "papers", "results")
	}
	if !list.IsArray() {
		return nil, errors.New("papers input must be an array or hold a papers array")
	}

	papers := []types.Paper{}
	for _, v := range list.Array() {
		if !v.IsObject() {
			continue
		}
		papers = append(papers, paperFromJSON(v))
	}
	return papers, nil
}

func readPapersYAML(data []byte) ([]types.Paper, error) {
	var rf ResultsFile
	if err := yaml.Unmarshal(data, &rf); err != nil {
		return nil, fmt.Errorf("papers input is neither JSON nor a results file: %w", err)
	}
	if rf.Papers == nil {
		return []types.Paper{}, nil
	}
	return rf.Papers, nil
}

func firstArray(obj gjson.Result, keys ...string) gjson.Result {
	for _, k := range keys {
		if v := obj.Get(k); v.IsArray() {
			return v
		}
	}
	return gjson.Result{}
}

func paperFromJSON(v gjson.Result) types.Paper {
	p := types.Paper{
		Title:      normalize.Text(normalize.FlattenValue(v.Get("title"))),
		Abstract:   normalize.Text(normalize.FlattenValue(v.Get("abstract"))),
		Link:       firstString(v, "link", "url"),
		Source:     firstString(v, "source"),
		Identifier: firstString(v, "identifier", "id", "doi"),
		Authors:    authorList(v.Get("authors")),
	}
	if s := firstString(v, "published", "date"); s != "" {
		p.Published = parseDate(s)
	}
	if sc := v.Get("score"); sc.Type == gjson.Number {
		p = p.WithScore(sc.Float())
	}
	return p
}

func firstString(v gjson.Result, keys ...string) string {
	for _, k := range keys {
		f := v.Get(k)
		if f.Type != gjson.String {
			continue
		}
		if s := strings.TrimSpace(f.String()); s != "" {
			return s
		}
	}
	return ""
}

// authorList accepts ["A B", ...], [{"name": "A B"}, ...] or "A B, C D".
func authorList(v gjson.Result) []string {
	out := []string{}
	switch {
	case v.IsArray():
		for _, a := range v.Array() {
			name := a.String()
			if a.IsObject() {
				name = a.Get("name").String()
			}
			if name = normalize.CollapseSpace(name); name != "" {
				out = append(out, name)
			}
		}
	case v.Type == gjson.String:
		for _, name := range strings.Split(v.String(), ",") {
			if name = normalize.CollapseSpace(name); name != "" {
				out = append(out, name)
			}
		}
	}
	return out
}

var dateLayouts = []string{time.RFC3339, "2006-01-02", "2006-01", "2006"}

func parseDate(s string) time.Time {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC()
		}
	}
	return time.Time{}
}

// ReadSummaries reads summaries from r: a JSON array, or an object with a
// "summaries" array.
func ReadSummaries(r io.Reader) ([]types.Summary, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading summaries: %w", err)
	}
	raw := strings.TrimSpace(string(data))
	if raw == "" {
		return nil, ErrNoInput
	}
	if !gjson.Valid(raw) {
		return nil, errors.New("summaries input is not valid JSON")
	}

	list := gjson.Parse(raw)
	if list.IsObject() {
		list = firstArray(list, "summaries")
	}
	if !list.IsArray() {
		return nil, errors.New("summaries input must be an array or hold a summaries array")
	}

	out := []types.Summary{}
	for _, v := range list.Array() {
		if !v.IsObject() {
			continue
		}
		out = append(out, types.Summary{
			Title:       normalize.FlattenValue(v.Get("title")),
			Authors:     authorList(v.Get("authors")),
			Link:        firstString(v, "link", "url"),
			Source:      firstString(v, "source"),
			Extractive:  normalize.FlattenValue(v.Get("extractive")),
			Abstractive: normalize.FlattenValue(v.Get("abstractive")),
		})
	}
	return out, nil
}
