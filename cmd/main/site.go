package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
)

// setupSiteSchema creates the tables backing the demo site's shared state and
// seeds the default owner name.
func setupSiteSchema(db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS site_settings (
		key   TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);
	CREATE TABLE IF NOT EXISTS page_views (
		path  TEXT PRIMARY KEY,
		views INTEGER NOT NULL DEFAULT 0
	);
	INSERT INTO site_settings (key, value) VALUES ('owner_name', 'User Name')
		ON CONFLICT(key) DO NOTHING;
	`
	_, err := db.Exec(schema)
	return err
}

// PageViews holds the view counter for a single path.
type PageViews struct {
	Path  string `json:"path"`
	Views int64  `json:"views"`
}

// SiteData is the process-wide application state that the page context
// builder reads from. All synchronization is the database's; SiteData itself
// holds no mutable state and is safe for concurrent use.
type SiteData struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewSiteData creates a new SiteData over an already opened database.
func NewSiteData(db *sql.DB, logger *slog.Logger) *SiteData {
	return &SiteData{
		db:     db,
		logger: logger,
	}
}

// OwnerName returns the configured site owner display name, or an empty
// string if none has been set.
func (s *SiteData) OwnerName(ctx context.Context) (string, error) {
	var name string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM site_settings WHERE key = 'owner_name'`).Scan(&name)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return name, nil
}

// SetOwnerName stores the site owner display name.
func (s *SiteData) SetOwnerName(ctx context.Context, name string) error {
	_, err := s.db.ExecContext(ctx, `INSERT INTO site_settings (key, value) VALUES ('owner_name', ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value`, name)
	return err
}

// CountView increments the view counter for a path and returns the new count.
func (s *SiteData) CountView(ctx context.Context, path string) (int64, error) {
	var views int64
	err := s.db.QueryRowContext(ctx, `INSERT INTO page_views (path, views) VALUES (?, 1)
		ON CONFLICT(path) DO UPDATE SET views = views + 1
		RETURNING views`, path).Scan(&views)
	return views, err
}

// TopPages returns the most viewed paths, busiest first.
func (s *SiteData) TopPages(ctx context.Context, limit int) ([]PageViews, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT path, views FROM page_views
		ORDER BY views DESC, path LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer func(rows *sql.Rows) {
		_ = rows.Close()
	}(rows)

	var pages []PageViews
	for rows.Next() {
		var p PageViews
		if err = rows.Scan(&p.Path, &p.Views); err != nil {
			return nil, err
		}
		pages = append(pages, p)
	}
	return pages, rows.Err()
}
