// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pipeline

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/article-harvest/internal/store"
	"github.com/pdiddy/article-harvest/pkg/types"
)

// ManifestFile is written to the raw directory after every run that
// produced data.
const ManifestFile = "manifest.yaml"

// SourceResult describes one adapter's contribution to a run.
type SourceResult struct {
	Source  types.Source `yaml:"source"`
	Query   string       `yaml:"query"`
	Records int          `yaml:"records"`
	Seconds float64      `yaml:"seconds"`
	Files   []string     `yaml:"files,omitempty"`
}

// Combined describes the consolidated corpus.
type Combined struct {
	Records           int      `yaml:"records"`
	DuplicatesRemoved int      `yaml:"duplicates_removed"`
	Files             []string `yaml:"files,omitempty"`
}

// Manifest records what a run fetched and wrote.
type Manifest struct {
	RunID      string         `yaml:"run_id"`
	StartedAt  time.Time      `yaml:"started_at"`
	FinishedAt time.Time      `yaml:"finished_at"`
	Sources    []SourceResult `yaml:"sources"`
	Empty      []types.Source `yaml:"empty_sources,omitempty"`
	Combined   Combined       `yaml:"combined"`
}

// ManifestPath returns the manifest location for rawDir.
func ManifestPath(rawDir string) string {
	return filepath.Join(rawDir, ManifestFile)
}

// WriteManifest writes m as YAML to path.
func WriteManifest(path string, m Manifest) error {
	data, err := yaml.Marshal(m)
	if err != nil {
		return fmt.Errorf("marshaling manifest: %w", err)
	}
	return store.WriteFile(path, data)
}

// ReadManifest loads a manifest written by WriteManifest.
func ReadManifest(path string) (Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Manifest{}, fmt.Errorf("reading manifest: %w", err)
	}
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return Manifest{}, fmt.Errorf("parsing manifest %s: %w", path, err)
	}
	return m, nil
}
