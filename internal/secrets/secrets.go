// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package secrets loads API keys from a directory of plain-text files and
// from a .env file. Directory entries use kebab-case names
// (openai-api-key); .env entries use environment names (OPENAI_API_KEY)
// and are folded to the same kebab-case keys.
//
// Recognised keys: openai-api-key, gemini-api-key, anthropic-api-key,
// semantic-scholar-api-key, ncbi-api-key, openalex-email.
package secrets

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/pdiddy/paper-scout/internal/logging"
)

// Set maps kebab-case key names to secret values.
type Set map[string]string

// Load reads all files in dir and returns a Set of filename to trimmed
// contents. A missing directory is not an error. Unreadable files are
// logged and skipped.
func Load(dir string, logger *zap.Logger) (Set, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Set{}, nil
		}
		return nil, fmt.Errorf("reading secrets directory %s: %w", dir, err)
	}

	out := make(Set)
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || strings.HasPrefix(name, ".") {
			continue
		}
		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			logging.OrNop(logger).Warn("could not read secret", zap.String("name", name), zap.Error(err))
			continue
		}
		if value := strings.TrimSpace(string(data)); value != "" {
			out[name] = value
		}
	}
	return out, nil
}

// LoadDotenv parses a .env file. A missing file yields an empty Set.
func LoadDotenv(path string) (Set, error) {
	env, err := godotenv.Read(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Set{}, nil
		}
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	out := make(Set, len(env))
	for k, v := range env {
		if v = strings.TrimSpace(v); v != "" {
			out[keyName(k)] = v
		}
	}
	return out, nil
}

// Merge returns a new Set holding s plus every key of other that s lacks.
func (s Set) Merge(other Set) Set {
	out := make(Set, len(s)+len(other))
	for k, v := range other {
		out[k] = v
	}
	for k, v := range s {
		out[k] = v
	}
	return out
}

// Lookup returns the value for key, falling back to the process
// environment variable of the same name (openai-api-key -> OPENAI_API_KEY).
func (s Set) Lookup(key string) string {
	if v, ok := s[key]; ok {
		return v
	}
	return strings.TrimSpace(os.Getenv(EnvName(key)))
}

// Keys returns the key names without their values.
func (s Set) Keys() []string {
	keys := make([]string, 0, len(s))
	for k := range s {
		keys = append(keys, k)
	}
	return keys
}

// EnvName converts a kebab-case key to its environment variable name.
func EnvName(key string) string {
	return strings.ToUpper(strings.ReplaceAll(key, "-", "_"))
}

func keyName(env string) string {
	return strings.ToLower(strings.ReplaceAll(env, "_", "-"))
}
