// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package sources

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const pubmedEfetchXML = `<?xml version="1.0" ?>
<!DOCTYPE PubmedArticleSet PUBLIC "-//NLM//DTD PubMedArticle, 1st January 2024//EN" "https://dtd.nlm.nih.gov/ncbi/pubmed/out/pubmed_240101.dtd">
<PubmedArticleSet>
  <PubmedArticle>
    <MedlineCitation>
      <PMID Version="1">222</PMID>
      <Article>
        <Journal><JournalIssue><PubDate><Year>2021</Year><Month>Mar</Month><Day>09</Day></PubDate></JournalIssue></Journal>
        <ArticleTitle>Second article</ArticleTitle>
        <Abstract><AbstractText>Plain abstract.</AbstractText></Abstract>
        <AuthorList><Author><CollectiveName>The Consortium</CollectiveName></Author></AuthorList>
      </Article>
    </MedlineCitation>
  </PubmedArticle>
  <PubmedArticle>
    <MedlineCitation>
      <Article><ArticleTitle>Missing PMID</ArticleTitle></Article>
    </MedlineCitation>
  </PubmedArticle>
  <PubmedArticle>
    <MedlineCitation>
      <PMID Version="1">111</PMID>
      <Article>
        <Journal><JournalIssue><PubDate><Year>2020</Year></PubDate></JournalIssue></Journal>
        <ArticleTitle>Role of <i>TP53</i> in H<sub>2</sub>O stress</ArticleTitle>
        <Abstract>
          <AbstractText Label="BACKGROUND">Cells respond to stress.</AbstractText>
          <AbstractText Label="RESULTS">TP53 is <b>upregulated</b>.</AbstractText>
        </Abstract>
        <AuthorList>
          <Author><LastName>Curie</LastName><ForeName>Marie</ForeName></Author>
          <Author><LastName>Pasteur</LastName><ForeName>Louis</ForeName></Author>
        </AuthorList>
      </Article>
    </MedlineCitation>
  </PubmedArticle>
</PubmedArticleSet>`

func withPubmedServer(t *testing.T, search, fetch http.HandlerFunc) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/esearch.fcgi", search)
	mux.HandleFunc("/efetch.fcgi", fetch)
	ts := httptest.NewServer(mux)

	oldSearch, oldFetch := pubmedSearchBase, pubmedFetchBase
	pubmedSearchBase = ts.URL + "/esearch.fcgi"
	pubmedFetchBase = ts.URL + "/efetch.fcgi"
	t.Cleanup(func() {
		pubmedSearchBase, pubmedFetchBase = oldSearch, oldFetch
		ts.Close()
	})
	return ts
}

func TestPubMedFetchSearchThenFetch(t *testing.T) {
	var searchTerm, searchMax, fetchIDs, apiKey string
	ts := withPubmedServer(t,
		func(w http.ResponseWriter, r *http.Request) {
			searchTerm = r.URL.Query().Get("term")
			searchMax = r.URL.Query().Get("retmax")
			apiKey = r.URL.Query().Get("api_key")
			fmt.Fprint(w, `{"esearchresult":{"count":"3","idlist":["111","222","333"]}}`)
		},
		func(w http.ResponseWriter, r *http.Request) {
			fetchIDs = r.URL.Query().Get("id")
			fmt.Fprint(w, pubmedEfetchXML)
		})

	a := &PubMedAdapter{Getter: testGetter(ts), APIKey: "k"}
	papers, err := a.Fetch(context.Background(), "tp53  stress", 3)
	require.NoError(t, err)

	assert.Equal(t, "tp53 stress", searchTerm)
	assert.Equal(t, "3", searchMax)
	assert.Equal(t, "k", apiKey)
	assert.Equal(t, "111,222,333", fetchIDs, "efetch must be batched")

	// esearch order, record without PMID skipped, 333 absent from efetch.
	require.Len(t, papers, 2)

	p := papers[0]
	assert.Equal(t, "Role of TP53 in H2O stress", p.Title)
	assert.Equal(t, "Cells respond to stress. TP53 is upregulated.", p.Abstract)
	assert.Equal(t, "https://pubmed.ncbi.nlm.nih.gov/111/", p.Link)
	assert.Equal(t, "pubmed", p.Source)
	assert.Equal(t, "111", p.Identifier)
	assert.Equal(t, []string{"Marie Curie", "Louis Pasteur"}, p.Authors)
	assert.True(t, p.Published.Equal(time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)))

	q := papers[1]
	assert.Equal(t, "222", q.Identifier)
	assert.Equal(t, []string{"The Consortium"}, q.Authors)
	assert.True(t, q.Published.Equal(time.Date(2021, 3, 9, 0, 0, 0, 0, time.UTC)))
}

func TestPubMedNoHitsSkipsEfetch(t *testing.T) {
	fetched := false
	ts := withPubmedServer(t,
		func(w http.ResponseWriter, _ *http.Request) {
			fmt.Fprint(w, `{"esearchresult":{"count":"0","idlist":[]}}`)
		},
		func(w http.ResponseWriter, _ *http.Request) {
			fetched = true
		})

	papers, err := (&PubMedAdapter{Getter: testGetter(ts)}).Fetch(context.Background(), "nothing", 5)
	require.NoError(t, err)
	assert.Empty(t, papers)
	assert.False(t, fetched)
}

func TestPubMedSourceLevelFailures(t *testing.T) {
	tests := []struct {
		name   string
		search http.HandlerFunc
		fetch  http.HandlerFunc
	}{
		{
			name:   "esearch HTTP error",
			search: func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusInternalServerError) },
			fetch:  func(http.ResponseWriter, *http.Request) {},
		},
		{
			name:   "esearch invalid JSON",
			search: func(w http.ResponseWriter, _ *http.Request) { fmt.Fprint(w, `{"esearchresult":`) },
			fetch:  func(http.ResponseWriter, *http.Request) {},
		},
		{
			name:   "esearch without idlist",
			search: func(w http.ResponseWriter, _ *http.Request) { fmt.Fprint(w, `{"error":"bad term"}`) },
			fetch:  func(http.ResponseWriter, *http.Request) {},
		},
		{
			name:   "efetch not XML",
			search: func(w http.ResponseWriter, _ *http.Request) { fmt.Fprint(w, `{"esearchresult":{"idlist":["1"]}}`) },
			fetch:  func(w http.ResponseWriter, _ *http.Request) { fmt.Fprint(w, "<html><body>oops") },
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := withPubmedServer(t, tt.search, tt.fetch)
			_, err := (&PubMedAdapter{Getter: testGetter(ts)}).Fetch(context.Background(), "q", 5)
			assert.Error(t, err)
		})
	}
}

func TestDecodePubmedArticlesTruncated(t *testing.T) {
	// Cut the document in the middle of the last record.
	body := pubmedEfetchXML[:strings.Index(pubmedEfetchXML, "<AuthorList>\n          <Author><LastName>Curie")]
	byID, err := decodePubmedArticles([]byte(body), nil)
	require.NoError(t, err)
	assert.Contains(t, byID, "222")
	assert.NotContains(t, byID, "111")
}

func TestParsePubmedMonth(t *testing.T) {
	tests := map[string]time.Month{
		"Mar": time.March, "march": time.March, "03": time.March,
		"12": time.December, "": time.January, "Spring": time.January,
	}
	for in, want := range tests {
		assert.Equal(t, want, parsePubmedMonth(in), in)
	}
}
