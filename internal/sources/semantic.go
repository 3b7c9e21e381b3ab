// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package sources

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/pdiddy/paper-scout/internal/httputil"
	"github.com/pdiddy/paper-scout/internal/logging"
	"github.com/pdiddy/paper-scout/internal/normalize"
	"github.com/pdiddy/paper-scout/pkg/types"
)

// semanticAPIBase is the Semantic Scholar paper search endpoint. Declared
// as a var so tests can substitute an httptest server.
var semanticAPIBase = "https://api.semanticscholar.org/graph/v1/paper/search"

const (
	semanticFields    = "title,abstract,authors,externalIds,url,year,publicationDate"
	semanticPaperBase = "https://www.semanticscholar.org/paper/"
)

// SemanticScholarAdapter queries the Semantic Scholar Graph API.
type SemanticScholarAdapter struct {
	Getter *httputil.Getter
	APIKey string
	Logger *zap.Logger
}

// Name returns the adapter identifier.
func (a *SemanticScholarAdapter) Name() string { return string(types.SourceSemanticScholar) }

// Fetch queries the Semantic Scholar API and maps each record to a Paper.
func (a *SemanticScholarAdapter) Fetch(ctx context.Context, query string, limit int) ([]types.Paper, error) {
	q := normalize.CollapseSpace(query)
	if q == "" {
		return nil, fmt.Errorf("empty Semantic Scholar query")
	}

	params := url.Values{
		"query":  {q},
		"limit":  {strconv.Itoa(effectiveLimit(limit))},
		"fields": {semanticFields},
	}
	reqURL := semanticAPIBase + "?" + params.Encode()

	var headers http.Header
	if a.APIKey != "" {
		headers = http.Header{"X-Api-Key": {a.APIKey}}
	}

	body, err := getterOrDefault(a.Getter, a.Logger).Get(ctx, reqURL, headers)
	if err != nil {
		return nil, fmt.Errorf("Semantic Scholar API request: %w", err)
	}

	var sr semanticResponse
	if err := json.Unmarshal(body, &sr); err != nil {
		return nil, fmt.Errorf("parsing Semantic Scholar response: %w", err)
	}

	logger := logging.OrNop(a.Logger)
	papers := make([]types.Paper, 0, len(sr.Data))
	for i, raw := range sr.Data {
		p, err := semanticToPaper(raw)
		if err != nil {
			logger.Debug("skipping Semantic Scholar record", zap.Int("index", i), zap.Error(err))
			continue
		}
		papers = append(papers, p)
	}
	return papers, nil
}

func semanticToPaper(raw json.RawMessage) (types.Paper, error) {
	var sp semanticPaper
	if err := json.Unmarshal(raw, &sp); err != nil {
		return types.Paper{}, err
	}
	if sp.PaperID == "" && sp.URL == "" {
		return types.Paper{}, errors.New("record has no paperId or url")
	}

	p := types.Paper{
		Title:    normalize.CollapseSpace(sp.Title.String()),
		Abstract: sp.Abstract.String(),
		Link:     sp.URL,
		Source:   string(types.SourceSemanticScholar),
		Authors:  []string{},
	}
	if p.Link == "" {
		p.Link = semanticPaperBase + sp.PaperID
	}
	for _, au := range sp.Authors {
		if name := normalize.CollapseSpace(au.Name); name != "" {
			p.Authors = append(p.Authors, name)
		}
	}

	if sp.PublicationDate != "" {
		if t, err := time.Parse("2006-01-02", sp.PublicationDate); err == nil {
			p.Published = t
		}
	} else if sp.Year > 0 {
		p.Published = time.Date(sp.Year, 1, 1, 0, 0, 0, 0, time.UTC)
	}

	// Prefer arXiv ID, then DOI, then the corpus paper ID.
	switch {
	case sp.ExternalIDs.ArXiv != "":
		p.Identifier = sp.ExternalIDs.ArXiv
	case sp.ExternalIDs.DOI != "":
		p.Identifier = strings.ToLower(sp.ExternalIDs.DOI)
	default:
		p.Identifier = sp.PaperID
	}
	return p, nil
}

// Semantic Scholar API JSON structures.
type semanticResponse struct {
	Total int               `json:"total"`
	Data  []json.RawMessage `json:"data"`
}

type semanticPaper struct {
	PaperID         string              `json:"paperId"`
	URL             string              `json:"url"`
	Title           normalize.FlexText  `json:"title"`
	Abstract        normalize.FlexText  `json:"abstract"`
	Year            int                 `json:"year"`
	PublicationDate string              `json:"publicationDate"`
	Authors         []semanticAuthor    `json:"authors"`
	ExternalIDs     semanticExternalIDs `json:"externalIds"`
}

type semanticAuthor struct {
	AuthorID string `json:"authorId"`
	Name     string `json:"name"`
}

type semanticExternalIDs struct {
	DOI   string `json:"DOI"`
	ArXiv string `json:"ArXiv"`
}
