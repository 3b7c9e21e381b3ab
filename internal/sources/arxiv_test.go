// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package sources

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const arxivFeed = `<?xml version="1.0" encoding="UTF-8"?>
<feed xmlns="http://www.w3.org/2005/Atom">
  <title>ArXiv Query</title>
  <entry>
    <id>http://arxiv.org/abs/2301.07041v2</id>
    <published>2023-01-17T18:00:00Z</published>
    <title>Graph Neural Networks
      for Molecules</title>
    <summary>  We apply message passing
  to molecular property prediction.  </summary>
    <author><name>Ada Lovelace</name></author>
    <author><name>Alan Turing</name></author>
    <link href="http://arxiv.org/abs/2301.07041v2" rel="alternate" type="text/html"/>
  </entry>
  <entry>
    <title>Entry with no identifier</title>
    <summary>Should be skipped.</summary>
  </entry>
  <entry>
    <id>http://arxiv.org/abs/2302.00001v1</id>
    <title>Second</title>
    <summary>Another abstract.</summary>
  </entry>
</feed>`

func withArxivServer(t *testing.T, h http.HandlerFunc) *httptest.Server {
	t.Helper()
	ts := httptest.NewServer(h)
	old := arxivAPIBase
	arxivAPIBase = ts.URL
	t.Cleanup(func() {
		arxivAPIBase = old
		ts.Close()
	})
	return ts
}

func TestArxivFetchMapsEntries(t *testing.T) {
	var gotQuery, gotUA string
	ts := withArxivServer(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		gotUA = r.Header.Get("User-Agent")
		w.Header().Set("Content-Type", "application/atom+xml")
		fmt.Fprint(w, arxivFeed)
	})

	a := &ArxivAdapter{Getter: testGetter(ts)}
	papers, err := a.Fetch(context.Background(), "graph neural", 7)
	require.NoError(t, err)

	assert.Contains(t, gotQuery, "search_query=all:graph+neural")
	assert.Contains(t, gotQuery, "max_results=7")
	assert.Contains(t, gotQuery, "sortBy=submittedDate")
	assert.Contains(t, gotQuery, "sortOrder=descending")
	assert.Equal(t, "paper-scout-test/1.0", gotUA)

	require.Len(t, papers, 2, "entry without id must be skipped")
	p := papers[0]
	assert.Equal(t, "Graph Neural Networks for Molecules", p.Title)
	assert.Equal(t, "We apply message passing to molecular property prediction.", p.Abstract)
	assert.Equal(t, "http://arxiv.org/abs/2301.07041v2", p.Link)
	assert.Equal(t, "arxiv", p.Source)
	assert.Equal(t, "2301.07041", p.Identifier)
	assert.Equal(t, []string{"Ada Lovelace", "Alan Turing"}, p.Authors)
	assert.True(t, p.Published.Equal(time.Date(2023, 1, 17, 18, 0, 0, 0, time.UTC)))

	assert.Equal(t, "Second", papers[1].Title)
	assert.NotNil(t, papers[1].Authors)
	assert.Empty(t, papers[1].Authors)
}

func TestArxivFetchKeepsInlineMath(t *testing.T) {
	ts := withArxivServer(t, func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `<?xml version="1.0" encoding="UTF-8"?>
<feed xmlns="http://www.w3.org/2005/Atom">
  <entry>
    <id>http://arxiv.org/abs/2405.00001v1</id>
    <title>Bounds for $k&lt;n$</title>
    <summary>For $k&lt;n$ the bound is tight. Experiments on graphs confirm it.</summary>
  </entry>
</feed>`)
	})

	papers, err := (&ArxivAdapter{Getter: testGetter(ts)}).Fetch(context.Background(), "bounds", 3)
	require.NoError(t, err)
	require.Len(t, papers, 1)
	assert.Equal(t, "Bounds for $k<n$", papers[0].Title)
	assert.Equal(t, "For $k<n$ the bound is tight. Experiments on graphs confirm it.", papers[0].Abstract)
}

func TestArxivFetchHTTPError(t *testing.T) {
	ts := withArxivServer(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})

	_, err := (&ArxivAdapter{Getter: testGetter(ts)}).Fetch(context.Background(), "x", 3)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "503")
}

func TestArxivFetchMalformedFeed(t *testing.T) {
	ts := withArxivServer(t, func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, "this is not a feed")
	})

	_, err := (&ArxivAdapter{Getter: testGetter(ts)}).Fetch(context.Background(), "x", 3)
	assert.Error(t, err)
}

func TestArxivEmptyQuery(t *testing.T) {
	_, err := (&ArxivAdapter{}).Fetch(context.Background(), "   ", 3)
	assert.Error(t, err)
}

func TestExtractArxivID(t *testing.T) {
	tests := map[string]string{
		"http://arxiv.org/abs/2301.07041v1":   "2301.07041",
		"http://arxiv.org/abs/2301.07041":     "2301.07041",
		"http://arxiv.org/abs/hep-th/9901001v3": "hep-th/9901001",
		"https://example.org/paper/1":         "",
	}
	for in, want := range tests {
		assert.Equal(t, want, extractArxivID(in), in)
	}
}
