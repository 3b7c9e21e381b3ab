// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package sources

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/pdiddy/paper-scout/internal/httputil"
	"github.com/pdiddy/paper-scout/internal/logging"
	"github.com/pdiddy/paper-scout/internal/normalize"
	"github.com/pdiddy/paper-scout/pkg/types"
)

// openAlexSearchBase is the OpenAlex Works search endpoint. Declared as a
// var so tests can substitute an httptest server.
var openAlexSearchBase = "https://api.openalex.org/works"

const openAlexMaxPerPage = 200

// OpenAlexAdapter queries the OpenAlex Works API.
type OpenAlexAdapter struct {
	Getter *httputil.Getter
	// Email is sent as mailto parameter for polite pool access.
	Email  string
	Logger *zap.Logger
}

// Name returns the adapter identifier.
func (a *OpenAlexAdapter) Name() string { return string(types.SourceOpenAlex) }

// Fetch queries the OpenAlex API and maps each work to a Paper.
func (a *OpenAlexAdapter) Fetch(ctx context.Context, query string, limit int) ([]types.Paper, error) {
	searchText := normalize.CollapseSpace(query)
	if searchText == "" {
		return nil, fmt.Errorf("empty OpenAlex query")
	}

	perPage := min(effectiveLimit(limit), openAlexMaxPerPage)
	params := url.Values{
		"search":   {searchText},
		"per_page": {strconv.Itoa(perPage)},
		"page":     {"1"},
	}
	if a.Email != "" {
		params.Set("mailto", a.Email)
	}
	reqURL := openAlexSearchBase + "?" + params.Encode()

	body, err := getterOrDefault(a.Getter, a.Logger).Get(ctx, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("OpenAlex API request: %w", err)
	}

	var oar openAlexResponse
	if err := json.Unmarshal(body, &oar); err != nil {
		return nil, fmt.Errorf("parsing OpenAlex response: %w", err)
	}

	logger := logging.OrNop(a.Logger)
	papers := make([]types.Paper, 0, len(oar.Results))
	for i, raw := range oar.Results {
		p, err := openAlexToPaper(raw)
		if err != nil {
			logger.Debug("skipping OpenAlex work", zap.Int("index", i), zap.Error(err))
			continue
		}
		papers = append(papers, p)
	}
	return papers, nil
}

func openAlexToPaper(raw json.RawMessage) (types.Paper, error) {
	var work openAlexWork
	if err := json.Unmarshal(raw, &work); err != nil {
		return types.Paper{}, err
	}
	if work.ID == "" && work.DOI == "" {
		return types.Paper{}, errors.New("work has no id or doi")
	}

	title := work.Title
	if title == "" {
		title = work.DisplayName
	}
	p := types.Paper{
		Title:    normalize.CollapseSpace(title),
		Abstract: reconstructAbstract(work.AbstractInvertedIndex),
		Source:   string(types.SourceOpenAlex),
		Authors:  []string{},
	}
	for _, authorship := range work.Authorships {
		if name := normalize.CollapseSpace(authorship.Author.DisplayName); name != "" {
			p.Authors = append(p.Authors, name)
		}
	}

	if work.PublicationDate != "" {
		if t, err := time.Parse("2006-01-02", work.PublicationDate); err == nil {
			p.Published = t
		}
	} else if work.PublicationYear > 0 {
		p.Published = time.Date(work.PublicationYear, 1, 1, 0, 0, 0, 0, time.UTC)
	}

	// OpenAlex is DOI-centric: link to the DOI resolver when there is one.
	if work.DOI != "" {
		p.Link = work.DOI
		p.Identifier = strings.TrimPrefix(work.DOI, "https://doi.org/")
	} else {
		p.Link = work.ID
		p.Identifier = strings.TrimPrefix(work.ID, "https://openalex.org/")
	}
	return p, nil
}

// reconstructAbstract converts OpenAlex's abstract_inverted_index back to
// plain text. The inverted index maps each word to a list of positions
// where that word appears.
func reconstructAbstract(invertedIndex map[string][]int) string {
	if len(invertedIndex) == 0 {
		return ""
	}

	type posWord struct {
		pos  int
		word string
	}
	var pairs []posWord
	for word, positions := range invertedIndex {
		for _, pos := range positions {
			pairs = append(pairs, posWord{pos: pos, word: word})
		}
	}
	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i].pos != pairs[j].pos {
			return pairs[i].pos < pairs[j].pos
		}
		return pairs[i].word < pairs[j].word
	})

	words := make([]string, len(pairs))
	for i, p := range pairs {
		words[i] = p.word
	}
	return normalize.CollapseSpace(strings.Join(words, " "))
}

// OpenAlex API JSON structures.
type openAlexResponse struct {
	Meta    openAlexMeta      `json:"meta"`
	Results []json.RawMessage `json:"results"`
}

type openAlexMeta struct {
	Count   int `json:"count"`
	PerPage int `json:"per_page"`
	Page    int `json:"page"`
}

type openAlexWork struct {
	ID                    string               `json:"id"`
	Title                 string               `json:"title"`
	DisplayName           string               `json:"display_name"`
	DOI                   string               `json:"doi"`
	PublicationDate       string               `json:"publication_date"`
	PublicationYear       int                  `json:"publication_year"`
	Authorships           []openAlexAuthorship `json:"authorships"`
	AbstractInvertedIndex map[string][]int     `json:"abstract_inverted_index"`
}

type openAlexAuthorship struct {
	Author openAlexAuthor `json:"author"`
}

type openAlexAuthor struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
}
