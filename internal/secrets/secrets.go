// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package secrets loads provider API keys. Keys come from a directory of
// plain-text files (the filename is the key name, the trimmed contents the
// value), from the process environment, or from a dotenv file.
//
// Supported key files: pubmed-api-key, scopus-api-key, wos-api-key, ieee-api-key, serpapi-api-key.
package secrets

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/pdiddy/article-harvest/pkg/types"
)

// Credential names one provider key in each place it may be stored.
type Credential struct {
	Source types.Source
	File   string
	Env    string
}

// Credentials lists the keys the adapters understand. SciELO needs none.
var Credentials = []Credential{
	{Source: types.SourcePubMed, File: "pubmed-api-key", Env: "PUBMED_API_KEY"},
	{Source: types.SourceScopus, File: "scopus-api-key", Env: "SCOPUS_API_KEY"},
	{Source: types.SourceWebOfScience, File: "wos-api-key", Env: "WOS_API_KEY"},
	{Source: types.SourceIEEEXplore, File: "ieee-api-key", Env: "IEEE_API_KEY"},
	{Source: types.SourceGoogleScholar, File: "serpapi-api-key", Env: "SERPAPI_API_KEY"},
}

// Load reads all files in dir and returns a map of filename to trimmed contents.
// A missing directory or missing files are not errors; Load returns an empty map.
// Unreadable files are logged and skipped.
func Load(dir string, logger zerolog.Logger) (map[string]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("reading secrets directory %s: %w", dir, err)
	}

	secrets := make(map[string]string)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if strings.HasPrefix(name, ".") {
			continue
		}

		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			logger.Warn().Str("secret", name).Err(err).Msg("could not read secret")
			continue
		}

		value := strings.TrimSpace(string(data))
		if value != "" {
			secrets[name] = value
		}
	}

	return secrets, nil
}

// LoadEnvFile parses a dotenv file without touching the process
// environment. A missing file yields an empty map.
func LoadEnvFile(path string) (map[string]string, error) {
	values, err := godotenv.Read(path)
	if errors.Is(err, fs.ErrNotExist) {
		return map[string]string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading env file %s: %w", path, err)
	}
	return values, nil
}

// Resolve picks each provider's key. A secrets file wins over the process
// environment, which wins over the dotenv file. Providers without a key are
// absent from the result.
func Resolve(files, dotenv map[string]string, getenv func(string) string) map[types.Source]string {
	if getenv == nil {
		getenv = os.Getenv
	}
	keys := make(map[types.Source]string)
	for _, c := range Credentials {
		for _, v := range []string{files[c.File], getenv(c.Env), dotenv[c.Env]} {
			if v = strings.TrimSpace(v); v != "" {
				keys[c.Source] = v
				break
			}
		}
	}
	return keys
}

// Apply sets APIKey on every source that has none configured.
func Apply(cfg *types.ExtractionConfig, keys map[types.Source]string) {
	for src, key := range keys {
		slug := src.Slug()
		sc, ok := cfg.Sources[slug]
		if !ok || sc.APIKey != "" {
			continue
		}
		sc.APIKey = key
		cfg.Sources[slug] = sc
	}
}
