// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package catalog indexes the processed corpus into SQLite so it can be
// filtered, summarized and exported. The catalog is a downstream reader: it
// fails fast when the processed file is missing.
package catalog

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/article-harvest/internal/store"
	"github.com/pdiddy/article-harvest/pkg/types"
)

const (
	dbFile            = "catalog.db"
	defaultMaxResults = 20
	dateLayout        = "2006-01-02"
)

// Store manages the catalog SQLite database.
type Store struct {
	db         *sql.DB
	catalogDir string
	maxResults int
}

// Open opens or creates catalogDir/catalog.db and ensures the schema exists.
func Open(cfg types.CatalogConfig) (*Store, error) {
	if err := os.MkdirAll(cfg.CatalogDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating catalog directory: %w", err)
	}

	dbPath := filepath.Join(cfg.CatalogDir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	maxResults := cfg.MaxResults
	if maxResults <= 0 {
		maxResults = defaultMaxResults
	}

	s := &Store{db: db, catalogDir: cfg.CatalogDir, maxResults: maxResults}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS articles (
			rowid INTEGER PRIMARY KEY AUTOINCREMENT,
			id TEXT NOT NULL,
			title TEXT NOT NULL,
			journal TEXT NOT NULL,
			authors TEXT NOT NULL,
			pub_date TEXT NOT NULL,
			year INTEGER NOT NULL,
			source TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_articles_source ON articles(source)`,
		`CREATE INDEX IF NOT EXISTS idx_articles_year ON articles(year)`,
		`CREATE TABLE IF NOT EXISTS article_authors (
			article_rowid INTEGER NOT NULL REFERENCES articles(rowid) ON DELETE CASCADE,
			name TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_article_authors_name ON article_authors(name)`,
		`CREATE TABLE IF NOT EXISTS indexing_status (
			path TEXT PRIMARY KEY,
			file_mod_time TEXT NOT NULL,
			records INTEGER NOT NULL
		)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// IndexSummary holds the outcome of an Index call.
type IndexSummary struct {
	Path    string
	Records int
	Skipped bool
}

// Index loads the processed Parquet file at path into the catalog,
// replacing earlier contents. A file whose modification time matches the
// last indexed one is skipped. A missing file returns store.ErrMissingFile.
func (s *Store) Index(ctx context.Context, path string) (IndexSummary, error) {
	summary := IndexSummary{Path: path}

	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return summary, fmt.Errorf("%w: %s", store.ErrMissingFile, path)
	}
	if err != nil {
		return summary, fmt.Errorf("stat %s: %w", path, err)
	}
	modTime := info.ModTime().UTC().Format(time.RFC3339Nano)

	var storedModTime string
	var storedRecords int
	err = s.db.QueryRowContext(ctx,
		`SELECT file_mod_time, records FROM indexing_status WHERE path = ?`, path,
	).Scan(&storedModTime, &storedRecords)
	if err == nil && storedModTime == modTime {
		summary.Records = storedRecords
		summary.Skipped = true
		return summary, nil
	}

	recs, err := store.ReadProcessedParquet(ctx, path)
	if err != nil {
		return summary, err
	}
	if err := s.replace(ctx, path, modTime, recs); err != nil {
		return summary, err
	}
	summary.Records = len(recs)
	return summary, nil
}

func (s *Store) replace(ctx context.Context, path, modTime string, recs []types.ProcessedRecord) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	for _, stmt := range []string{`DELETE FROM article_authors`, `DELETE FROM articles`, `DELETE FROM indexing_status`} {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("clearing catalog: %w", err)
		}
	}

	insArticle, err := tx.PrepareContext(ctx,
		`INSERT INTO articles (id, title, journal, authors, pub_date, year, source)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing article insert: %w", err)
	}
	defer insArticle.Close()

	insAuthor, err := tx.PrepareContext(ctx,
		`INSERT INTO article_authors (article_rowid, name) VALUES (?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing author insert: %w", err)
	}
	defer insAuthor.Close()

	for _, r := range recs {
		res, err := insArticle.ExecContext(ctx,
			r.ID, r.Title, r.Journal, r.Authors,
			r.PubDate.Format(dateLayout), r.PubDate.Year(), string(r.Source),
		)
		if err != nil {
			return fmt.Errorf("inserting article %s: %w", r.ID, err)
		}
		rowid, err := res.LastInsertId()
		if err != nil {
			return fmt.Errorf("reading rowid of %s: %w", r.ID, err)
		}
		for _, name := range SplitAuthors(r.Authors) {
			if _, err := insAuthor.ExecContext(ctx, rowid, name); err != nil {
				return fmt.Errorf("inserting author of %s: %w", r.ID, err)
			}
		}
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO indexing_status (path, file_mod_time, records) VALUES (?, ?, ?)`,
		path, modTime, len(recs))
	if err != nil {
		return fmt.Errorf("updating indexing status: %w", err)
	}
	return tx.Commit()
}

// SplitAuthors splits a ", "-joined author field. The sentinel yields none.
func SplitAuthors(authors string) []string {
	if authors == types.NotAvailable {
		return nil
	}
	var names []string
	for _, n := range strings.Split(authors, ", ") {
		if n = strings.TrimSpace(n); n != "" {
			names = append(names, n)
		}
	}
	return names
}
