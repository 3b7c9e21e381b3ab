// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package normalize turns the loosely typed text fields returned by
// external catalogs into the plain strings carried by types.Paper.
//
// Catalogs disagree on shape: an abstract may arrive as a string, a list
// of labelled sections, an object keyed by section name, or a fragment of
// JATS/HTML markup. Every variant is reduced to one whitespace-collapsed
// string whose parts appear in document order.
package normalize

import (
	"html"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/tidwall/gjson"
)

// CollapseSpace trims s and replaces every run of whitespace with a
// single space.
func CollapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// JoinText joins the non-blank parts with single spaces.
func JoinText(parts ...string) string {
	kept := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = CollapseSpace(p); p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, " ")
}

// FlattenValue flattens a parsed JSON value into plain text. Strings are
// kept as-is, arrays and objects contribute their leaf values in document
// order, null contributes nothing.
func FlattenValue(v gjson.Result) string {
	var parts []string
	collectJSON(v, &parts)
	return JoinText(parts...)
}

func collectJSON(v gjson.Result, parts *[]string) {
	switch {
	case v.IsObject(), v.IsArray():
		v.ForEach(func(_, child gjson.Result) bool {
			collectJSON(child, parts)
			return true
		})
	case v.Type == gjson.Null:
	default:
		*parts = append(*parts, v.String())
	}
}

// FlexText is a string field that accepts any JSON shape on input and
// stores its flattened text.
type FlexText string

// UnmarshalJSON flattens b with FlattenValue.
func (t *FlexText) UnmarshalJSON(b []byte) error {
	*t = FlexText(FlattenValue(gjson.ParseBytes(b)))
	return nil
}

// String returns the flattened text.
func (t FlexText) String() string { return string(t) }

// blockElements separate their text from neighbours with a space; inline
// elements (i, sub, sup, ...) do not, so "H<sub>2</sub>O" stays "H2O".
var blockElements = map[string]bool{
	"p": true, "div": true, "br": true, "li": true, "ul": true, "ol": true,
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
	"section": true, "title": true, "table": true, "tr": true, "td": true,
	"jats:p": true, "jats:sec": true, "jats:title": true, "jats:list-item": true,
	"abstracttext": true,
}

// Text unescapes HTML entities in s and collapses whitespace. It is for
// fields that are plain text by contract, where a literal "<" (as in
// "$k<n$") is content rather than the start of a tag.
func Text(s string) string {
	return CollapseSpace(html.UnescapeString(s))
}

// PlainText strips markup from s and collapses whitespace. Strings with
// no markup characters skip the HTML parser.
func PlainText(s string) string {
	if !strings.ContainsAny(s, "<&") {
		return CollapseSpace(s)
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return CollapseSpace(s)
	}
	var b strings.Builder
	writeText(doc.Find("body"), &b)
	return CollapseSpace(b.String())
}

func writeText(sel *goquery.Selection, b *strings.Builder) {
	sel.Contents().Each(func(_ int, c *goquery.Selection) {
		name := goquery.NodeName(c)
		switch {
		case name == "#text":
			b.WriteString(c.Text())
		case name == "#comment":
		case blockElements[name]:
			b.WriteByte(' ')
			writeText(c, b)
			b.WriteByte(' ')
		default:
			writeText(c, b)
		}
	})
}
