// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package synthesis

import (
	"bytes"
	"text/template"
)

// abstractivePromptTmpl asks for a short plain-language rewrite of one
// paper, anchored on its extractive summary.
var abstractivePromptTmpl = template.Must(template.New("abstractive").Parse(`You are an expert research summarizer.

Paper title: {{.Title}}

Key sentences (extractive):
{{.Extractive}}

Full abstract:
{{.Abstract}}

Write a clear summary of this paper in 2 to 3 sentences.
- Use plain language.
- Focus on the method and the main results.
- Mark important terms in **bold**.
- Stay factual; do not add claims that are not in the abstract.
`))

// insightsPromptTmpl asks for a cross-paper synthesis as a JSON object.
var insightsPromptTmpl = template.Must(template.New("insights").
	Funcs(template.FuncMap{"inc": func(i int) int { return i + 1 }}).
	Parse(`You are a research synthesizer.

Below are summaries of several research papers:
{{range $i, $s := .Summaries}}
{{inc $i}}. {{$s.Title}}
{{$s.Text}}
{{end}}
Return a JSON object with exactly these keys, each a list of short strings:
themes, pros, cons, gaps.
Make every item specific to the papers above.
`))

// planPromptTmpl asks for a staged research roadmap.
var planPromptTmpl = template.Must(template.New("plan").Parse(`You are a senior researcher guiding a new project.

Research topic: {{.Topic}}
Synthesized insights (JSON): {{.Insights}}

Provide a 3-step research roadmap:
1. Immediate small reproduction (2 weeks)
2. Small extension (1 month)
3. Full experiment (2 months)
For each step recommend papers, datasets and tools, with short bullet justifications. Highlight the key recommendations.
`))

type promptSummary struct {
	Title string
	Text  string
}

func render(tmpl *template.Template, data any) (string, error) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
