// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package report

import (
	"fmt"
	"os"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/paper-scout/internal/aggregate"
	"github.com/pdiddy/paper-scout/internal/pipeline"
	"github.com/pdiddy/paper-scout/pkg/types"
)

// ResultsFile is the on-disk record of one retrieval. It can be reloaded
// and summarized later without querying the catalogs again.
type ResultsFile struct {
	Query   ResultsQuery      `yaml:"query"`
	Papers  []types.Paper     `yaml:"papers"`
	Sources []aggregate.Stats `yaml:"sources"`
	Summary ResultsSummary    `yaml:"summary"`
}

// ResultsQuery stores the request parameters.
type ResultsQuery struct {
	Text  string `yaml:"text"`
	TopK  int    `yaml:"top_k"`
	Limit int    `yaml:"limit"`
}

// ResultsSummary stores result statistics and a timestamp.
type ResultsSummary struct {
	RunID      string    `yaml:"run_id"`
	Candidates int       `yaml:"candidates"`
	Returned   int       `yaml:"returned"`
	Timestamp  time.Time `yaml:"timestamp"`
}

// WriteResultsFile saves a retrieval result to a YAML file.
func WriteResultsFile(path string, res pipeline.Result, topK, limit int) error {
	rf := ResultsFile{
		Query:   ResultsQuery{Text: res.Query, TopK: topK, Limit: limit},
		Papers:  res.Papers,
		Sources: res.Sources,
		Summary: ResultsSummary{
			RunID:      res.RunID,
			Candidates: res.Candidates,
			Returned:   len(res.Papers),
			Timestamp:  time.Now().UTC(),
		},
	}
	data, err := yaml.Marshal(&rf)
	if err != nil {
		return fmt.Errorf("marshaling results file: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// ReadResultsFile loads a results file written by WriteResultsFile.
func ReadResultsFile(path string) (*ResultsFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading results file: %w", err)
	}
	var rf ResultsFile
	if err := yaml.Unmarshal(data, &rf); err != nil {
		return nil, fmt.Errorf("parsing results file: %w", err)
	}
	if rf.Papers == nil {
		rf.Papers = []types.Paper{}
	}
	return &rf, nil
}
