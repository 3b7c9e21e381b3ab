// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package normalize

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

func TestFlattenValue(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"plain string", `"Graph networks."`, "Graph networks."},
		{"list", `["Background text.", "Results text."]`, "Background text. Results text."},
		{"object keeps document order", `{"z_background": "First.", "a_results": "Second."}`, "First. Second."},
		{"nested", `{"sections": [{"label": "BG", "text": "One."}, "Two."]}`, "BG One. Two."},
		{"null", `null`, ""},
		{"nulls inside", `["A.", null, "B."]`, "A. B."},
		{"numbers", `[1, "x"]`, "1 x"},
		{"whitespace collapsed", `"  a \n\t b  "`, "a b"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FlattenValue(gjson.Parse(tt.raw)))
		})
	}
}

func TestFlexTextUnmarshal(t *testing.T) {
	var in struct {
		Abstract FlexText `json:"abstract"`
		Title    FlexText `json:"title"`
	}
	err := json.Unmarshal([]byte(`{"abstract": {"Background": "A.", "Methods": ["B.", "C."]}, "title": null}`), &in)
	require.NoError(t, err)
	assert.Equal(t, "A. B. C.", in.Abstract.String())
	assert.Equal(t, "", in.Title.String())
}

func TestPlainText(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"no markup", "Simple   text\n here", "Simple text here"},
		{"inline tags joined", "Water is H<sub>2</sub>O in <i>vitro</i>.", "Water is H2O in vitro."},
		{"block tags separated", "<p>First.</p><p>Second.</p>", "First. Second."},
		{"jats", "<jats:p>Alpha.</jats:p><jats:p>Beta.</jats:p>", "Alpha. Beta."},
		{"entities", "Cats &amp; dogs", "Cats & dogs"},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, PlainText(tt.in))
		})
	}
}

func TestTextKeepsLiteralAngleBrackets(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"inline math", "We show that for $k<n$ the bound is tight. Experiments agree.", "We show that for $k<n$ the bound is tight. Experiments agree."},
		{"comparison both ways", "a < b and c > d", "a < b and c > d"},
		{"escaped entities", "For $k&lt;n$ &amp; more", "For $k<n$ & more"},
		{"whitespace", "  line one\n\t line two ", "line one line two"},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Text(tt.in))
		})
	}
}

func TestJoinTextSkipsBlanks(t *testing.T) {
	assert.Equal(t, "a b", JoinText("", " a ", "\n", "b"))
	assert.Equal(t, "", JoinText())
}
