// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package sources

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/mmcdole/gofeed"
	"go.uber.org/zap"

	"github.com/pdiddy/paper-scout/internal/httputil"
	"github.com/pdiddy/paper-scout/internal/logging"
	"github.com/pdiddy/paper-scout/internal/normalize"
	"github.com/pdiddy/paper-scout/pkg/types"
)

// arxivAPIBase is the arXiv search endpoint. Declared as a var so tests
// can substitute an httptest server.
var arxivAPIBase = "https://export.arxiv.org/api/query"

// ArxivAdapter queries the arXiv Atom API.
type ArxivAdapter struct {
	Getter *httputil.Getter
	Logger *zap.Logger
}

// Name returns the adapter identifier.
func (a *ArxivAdapter) Name() string { return string(types.SourceArxiv) }

// Fetch returns the newest submissions matching query.
func (a *ArxivAdapter) Fetch(ctx context.Context, query string, limit int) ([]types.Paper, error) {
	q := buildArxivQuery(query)
	if q == "" {
		return nil, fmt.Errorf("empty arXiv query")
	}

	reqURL := fmt.Sprintf("%s?search_query=%s&start=0&max_results=%d&sortBy=submittedDate&sortOrder=descending",
		arxivAPIBase, q, effectiveLimit(limit))

	body, err := getterOrDefault(a.Getter, a.Logger).Get(ctx, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("arXiv API request: %w", err)
	}

	feed, err := gofeed.NewParser().Parse(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parsing arXiv feed: %w", err)
	}

	logger := logging.OrNop(a.Logger)
	papers := make([]types.Paper, 0, len(feed.Items))
	for i, item := range feed.Items {
		p, err := arxivPaper(item)
		if err != nil {
			logger.Debug("skipping arXiv entry", zap.Int("index", i), zap.Error(err))
			continue
		}
		papers = append(papers, p)
	}
	return papers, nil
}

// buildArxivQuery turns free text into an all-fields search_query value.
func buildArxivQuery(query string) string {
	terms := strings.Fields(query)
	if len(terms) == 0 {
		return ""
	}
	for i, t := range terms {
		terms[i] = url.QueryEscape(t)
	}
	return "all:" + strings.Join(terms, "+")
}

func arxivPaper(item *gofeed.Item) (types.Paper, error) {
	if item == nil {
		return types.Paper{}, errors.New("nil entry")
	}
	link := strings.TrimSpace(item.GUID)
	if link == "" {
		link = strings.TrimSpace(item.Link)
	}
	if link == "" {
		return types.Paper{}, errors.New("entry has no id or link")
	}

	abstract := item.Description
	if abstract == "" {
		abstract = item.Content
	}

	p := types.Paper{
		Title:      normalize.Text(item.Title),
		Abstract:   normalize.Text(abstract),
		Link:       link,
		Source:     string(types.SourceArxiv),
		Authors:    []string{},
		Identifier: extractArxivID(link),
	}
	for _, person := range item.Authors {
		if person == nil {
			continue
		}
		if name := normalize.CollapseSpace(person.Name); name != "" {
			p.Authors = append(p.Authors, name)
		}
	}
	if item.PublishedParsed != nil {
		p.Published = item.PublishedParsed.UTC()
	}
	return p, nil
}

// extractArxivID pulls the arXiv ID from an entry URL
// (e.g. "http://arxiv.org/abs/2301.07041v1" -> "2301.07041").
func extractArxivID(idURL string) string {
	const prefix = "/abs/"
	idx := strings.Index(idURL, prefix)
	if idx < 0 {
		return ""
	}
	id := idURL[idx+len(prefix):]

	// Strip version suffix (e.g. "v1", "v2").
	if vIdx := strings.LastIndex(id, "v"); vIdx > 0 {
		if _, err := strconv.Atoi(id[vIdx+1:]); err == nil {
			id = id[:vIdx]
		}
	}
	return id
}
