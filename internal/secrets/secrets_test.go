// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package secrets

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/article-harvest/pkg/types"
)

func TestLoad(t *testing.T) {
	tests := []struct {
		name   string
		setup  func(t *testing.T) string
		want   map[string]string
		errMsg string
	}{
		{
			name: "reads key files and trims whitespace",
			setup: func(t *testing.T) string {
				dir := t.TempDir()
				writeFile(t, dir, "scopus-api-key", "  els_abc123  \n")
				writeFile(t, dir, "ieee-api-key", "ieee_xyz789")
				writeFile(t, dir, "pubmed-api-key", "ncbi\n")
				return dir
			},
			want: map[string]string{
				"scopus-api-key": "els_abc123",
				"ieee-api-key":   "ieee_xyz789",
				"pubmed-api-key": "ncbi",
			},
		},
		{
			name: "returns empty map for nonexistent directory",
			setup: func(t *testing.T) string {
				return filepath.Join(t.TempDir(), "does-not-exist")
			},
			want: map[string]string{},
		},
		{
			name: "skips empty files",
			setup: func(t *testing.T) string {
				dir := t.TempDir()
				writeFile(t, dir, "wos-api-key", "valid-key")
				writeFile(t, dir, "empty-key", "")
				writeFile(t, dir, "whitespace-only", "   \n\t  ")
				return dir
			},
			want: map[string]string{
				"wos-api-key": "valid-key",
			},
		},
		{
			name: "skips dotfiles",
			setup: func(t *testing.T) string {
				dir := t.TempDir()
				writeFile(t, dir, ".gitkeep", "")
				writeFile(t, dir, ".hidden-key", "secret")
				writeFile(t, dir, "serpapi-api-key", "serp_real")
				return dir
			},
			want: map[string]string{
				"serpapi-api-key": "serp_real",
			},
		},
		{
			name: "skips subdirectories",
			setup: func(t *testing.T) string {
				dir := t.TempDir()
				writeFile(t, dir, "scopus-api-key", "els_123")
				require.NoError(t, os.Mkdir(filepath.Join(dir, "subdir"), 0o755))
				return dir
			},
			want: map[string]string{
				"scopus-api-key": "els_123",
			},
		},
		{
			name: "returns empty map for empty directory",
			setup: func(t *testing.T) string {
				return t.TempDir()
			},
			want: map[string]string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := tt.setup(t)
			got, err := Load(dir, zerolog.Nop())
			if tt.errMsg != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errMsg)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLoadUnreadableFile(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("root ignores file permissions")
	}
	dir := t.TempDir()
	writeFile(t, dir, "good-key", "value123")

	badPath := filepath.Join(dir, "bad-key")
	require.NoError(t, os.WriteFile(badPath, []byte("secret"), 0o000))
	t.Cleanup(func() { os.Chmod(badPath, 0o644) })

	got, err := Load(dir, zerolog.Nop())
	require.NoError(t, err)
	assert.Equal(t, "value123", got["good-key"])
	_, hasBad := got["bad-key"]
	assert.False(t, hasBad, "unreadable file should not appear in result")
}

func TestLoadEnvFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	writeFile(t, dir, ".env", "# keys\nSCOPUS_API_KEY=from-dotenv\nIEEE_API_KEY=\"quoted\"\nARTICLE_HARVEST_DOTENV_PROBE=1\n")

	got, err := LoadEnvFile(path)
	require.NoError(t, err)
	assert.Equal(t, "from-dotenv", got["SCOPUS_API_KEY"])
	assert.Equal(t, "quoted", got["IEEE_API_KEY"])
	_, exported := os.LookupEnv("ARTICLE_HARVEST_DOTENV_PROBE")
	assert.False(t, exported, "process environment must stay untouched")

	missing, err := LoadEnvFile(filepath.Join(dir, "absent.env"))
	require.NoError(t, err)
	assert.Empty(t, missing)
}

func TestResolve_Precedence(t *testing.T) {
	files := map[string]string{"scopus-api-key": "file-scopus"}
	dotenv := map[string]string{
		"SCOPUS_API_KEY":  "dotenv-scopus",
		"IEEE_API_KEY":    "dotenv-ieee",
		"SERPAPI_API_KEY": "dotenv-serp",
	}
	env := map[string]string{"IEEE_API_KEY": "env-ieee"}

	keys := Resolve(files, dotenv, func(k string) string { return env[k] })
	assert.Equal(t, map[types.Source]string{
		types.SourceScopus:        "file-scopus",
		types.SourceIEEEXplore:    "env-ieee",
		types.SourceGoogleScholar: "dotenv-serp",
	}, keys)
}

func TestApply_KeepsConfiguredKeys(t *testing.T) {
	cfg := types.ExtractionConfig{Sources: map[string]types.SourceConfig{
		"scopus": {Enabled: true, APIKey: "explicit"},
		"ieee":   {Enabled: true},
	}}
	Apply(&cfg, map[types.Source]string{
		types.SourceScopus:       "resolved",
		types.SourceIEEEXplore:   "resolved-ieee",
		types.SourceWebOfScience: "unused",
	})
	assert.Equal(t, "explicit", cfg.Sources["scopus"].APIKey)
	assert.Equal(t, "resolved-ieee", cfg.Sources["ieee"].APIKey)
	_, added := cfg.Sources["wos"]
	assert.False(t, added)
}

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}
