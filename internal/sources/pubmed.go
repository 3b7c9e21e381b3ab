// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package sources

import (
	"bytes"
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/tidwall/gjson"
	"go.uber.org/zap"

	"github.com/pdiddy/paper-scout/internal/httputil"
	"github.com/pdiddy/paper-scout/internal/logging"
	"github.com/pdiddy/paper-scout/internal/normalize"
	"github.com/pdiddy/paper-scout/pkg/types"
)

// PubMed E-utilities endpoints. Declared as vars so tests can substitute
// an httptest server.
var (
	pubmedSearchBase = "https://eutils.ncbi.nlm.nih.gov/entrez/eutils/esearch.fcgi"
	pubmedFetchBase  = "https://eutils.ncbi.nlm.nih.gov/entrez/eutils/efetch.fcgi"
)

const pubmedArticleBase = "https://pubmed.ncbi.nlm.nih.gov/"

// PubMedAdapter queries PubMed in two steps: esearch for matching PMIDs,
// then one batched efetch for the article records.
type PubMedAdapter struct {
	Getter *httputil.Getter
	APIKey string
	Logger *zap.Logger
}

// Name returns the adapter identifier.
func (a *PubMedAdapter) Name() string { return string(types.SourcePubMed) }

// Fetch searches PubMed and returns the matching articles in esearch order.
func (a *PubMedAdapter) Fetch(ctx context.Context, query string, limit int) ([]types.Paper, error) {
	term := normalize.CollapseSpace(query)
	if term == "" {
		return nil, fmt.Errorf("empty PubMed query")
	}
	getter := getterOrDefault(a.Getter, a.Logger)

	ids, err := a.search(ctx, getter, term, effectiveLimit(limit))
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return []types.Paper{}, nil
	}

	params := url.Values{
		"db":      {"pubmed"},
		"id":      {strings.Join(ids, ",")},
		"retmode": {"xml"},
	}
	a.addKey(params)
	body, err := getter.Get(ctx, pubmedFetchBase+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("PubMed efetch request: %w", err)
	}

	byID, err := decodePubmedArticles(body, a.Logger)
	if err != nil {
		return nil, fmt.Errorf("parsing PubMed efetch response: %w", err)
	}

	papers := make([]types.Paper, 0, len(ids))
	for _, id := range ids {
		if p, ok := byID[id]; ok {
			papers = append(papers, p)
		}
	}
	return papers, nil
}

func (a *PubMedAdapter) search(ctx context.Context, getter *httputil.Getter, term string, limit int) ([]string, error) {
	params := url.Values{
		"db":      {"pubmed"},
		"term":    {term},
		"retmax":  {strconv.Itoa(limit)},
		"retmode": {"json"},
	}
	a.addKey(params)
	body, err := getter.Get(ctx, pubmedSearchBase+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("PubMed esearch request: %w", err)
	}
	if !gjson.ValidBytes(body) {
		return nil, errors.New("PubMed esearch returned invalid JSON")
	}

	idList := gjson.GetBytes(body, "esearchresult.idlist")
	if !idList.IsArray() {
		return nil, errors.New("PubMed esearch response has no idlist")
	}
	var ids []string
	idList.ForEach(func(_, v gjson.Result) bool {
		if id := strings.TrimSpace(v.String()); id != "" {
			ids = append(ids, id)
		}
		return true
	})
	return ids, nil
}

func (a *PubMedAdapter) addKey(params url.Values) {
	if a.APIKey != "" {
		params.Set("api_key", a.APIKey)
	}
}

// decodePubmedArticles streams a PubmedArticleSet and maps each
// PubmedArticle independently, keyed by PMID. Records that fail to
// decode or map are skipped.
func decodePubmedArticles(body []byte, logger *zap.Logger) (map[string]types.Paper, error) {
	logger = logging.OrNop(logger)
	dec := xml.NewDecoder(bytes.NewReader(body))
	out := make(map[string]types.Paper)
	sawSet := false
	index := 0

	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			if !sawSet {
				return nil, err
			}
			// Truncated document: keep what was already mapped.
			logger.Debug("PubMed efetch stream ended early", zap.Error(err))
			break
		}
		start, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}
		switch start.Name.Local {
		case "PubmedArticleSet":
			sawSet = true
		case "PubmedArticle":
			var art pubmedArticle
			if err := dec.DecodeElement(&art, &start); err != nil {
				logger.Debug("skipping PubMed record", zap.Int("index", index), zap.Error(err))
				index++
				continue
			}
			p, err := art.toPaper()
			if err != nil {
				logger.Debug("skipping PubMed record", zap.Int("index", index), zap.Error(err))
			} else {
				out[art.Citation.PMID] = p
			}
			index++
		}
	}
	if !sawSet {
		return nil, errors.New("no PubmedArticleSet element")
	}
	return out, nil
}

func (art pubmedArticle) toPaper() (types.Paper, error) {
	pmid := strings.TrimSpace(art.Citation.PMID)
	if pmid == "" {
		return types.Paper{}, errors.New("article has no PMID")
	}
	a := art.Citation.Article

	sections := make([]string, 0, len(a.Abstract))
	for _, s := range a.Abstract {
		sections = append(sections, normalize.PlainText(s.Inner))
	}

	p := types.Paper{
		Title:      normalize.PlainText(a.Title.Inner),
		Abstract:   normalize.JoinText(sections...),
		Link:       pubmedArticleBase + pmid + "/",
		Source:     string(types.SourcePubMed),
		Authors:    []string{},
		Identifier: pmid,
		Published:  a.Journal.Issue.PubDate.time(),
	}
	for _, au := range a.Authors {
		if name := au.name(); name != "" {
			p.Authors = append(p.Authors, name)
		}
	}
	return p, nil
}

// PubMed efetch XML structures.
type pubmedArticle struct {
	Citation struct {
		PMID    string `xml:"PMID"`
		Article struct {
			Title    pubmedMarkup   `xml:"ArticleTitle"`
			Abstract []pubmedMarkup `xml:"Abstract>AbstractText"`
			Authors  []pubmedAuthor `xml:"AuthorList>Author"`
			Journal  struct {
				Issue struct {
					PubDate pubmedDate `xml:"PubDate"`
				} `xml:"JournalIssue"`
			} `xml:"Journal"`
		} `xml:"Article"`
	} `xml:"MedlineCitation"`
}

// pubmedMarkup keeps the raw inner XML so inline markup (<i>, <sup>) can
// be flattened with the same rules as every other source.
type pubmedMarkup struct {
	Inner string `xml:",innerxml"`
}

type pubmedAuthor struct {
	LastName       string `xml:"LastName"`
	ForeName       string `xml:"ForeName"`
	CollectiveName string `xml:"CollectiveName"`
}

func (a pubmedAuthor) name() string {
	if a.CollectiveName != "" {
		return normalize.CollapseSpace(a.CollectiveName)
	}
	return normalize.JoinText(a.ForeName, a.LastName)
}

type pubmedDate struct {
	Year  string `xml:"Year"`
	Month string `xml:"Month"`
	Day   string `xml:"Day"`
}

func (d pubmedDate) time() time.Time {
	year, err := strconv.Atoi(strings.TrimSpace(d.Year))
	if err != nil || year <= 0 {
		return time.Time{}
	}
	month := parsePubmedMonth(d.Month)
	day, err := strconv.Atoi(strings.TrimSpace(d.Day))
	if err != nil || day < 1 || day > 31 {
		day = 1
	}
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// parsePubmedMonth accepts "Mar", "March" or "03". Unknown values map to
// January.
func parsePubmedMonth(s string) time.Month {
	s = strings.TrimSpace(s)
	if n, err := strconv.Atoi(s); err == nil && n >= 1 && n <= 12 {
		return time.Month(n)
	}
	if len(s) >= 3 {
		if t, err := time.Parse("Jan", s[:3]); err == nil {
			return t.Month()
		}
	}
	return time.January
}
