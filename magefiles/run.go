// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

//go:build mage

package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

// Retrieve builds the CLI and runs a retrieval for $QUERY with the
// lexical embedder, so no model server is needed.
func Retrieve() error {
	mg.Deps(Build)
	query := os.Getenv("QUERY")
	if query == "" {
		return fmt.Errorf("set QUERY to the research topic")
	}
	env := map[string]string{"PAPER_SCOUT_EMBEDDING_BACKEND": "lexical"}
	return sh.RunWithV(env, filepath.Join(binDir, binName), "retrieve", query)
}
