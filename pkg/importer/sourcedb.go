package importer

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/oklog/ulid/v2"
	_ "modernc.org/sqlite"
)

// Source is a row of the word_sources table.
type Source struct {
	AdapterID   string
	DictID      string
	Locale      string
	Description string
	SourceURL   string
	License     string
	LastCheck   *int64
	LastStatus  *int
	LastError   *string
	UpdatedAt   int64
}

// ImportRun is one import attempt recorded in import_runs.
type ImportRun struct {
	ID         string
	AdapterID  string
	StartedAt  int64
	FinishedAt *int64
	Entries    *int
	Encoding   *string
	Error      *string
}

// SourceDB tracks word-list sources and their import history in SQLite.
type SourceDB struct {
	db *sql.DB
}

// OpenSourceDB opens (or creates) the SQLite database at path and ensures
// the tables exist.
func OpenSourceDB(path string) (*SourceDB, error) {
	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(wal)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open source db: %w", err)
	}

	ddl := []string{`CREATE TABLE IF NOT EXISTS word_sources (
		adapter_id   TEXT PRIMARY KEY,
		dict_id      TEXT NOT NULL,
		locale       TEXT NOT NULL DEFAULT '',
		description  TEXT NOT NULL,
		source_url   TEXT NOT NULL,
		license      TEXT NOT NULL DEFAULT '',
		last_check   INTEGER,
		last_status  INTEGER,
		last_error   TEXT,
		updated_at   INTEGER NOT NULL
	)`,
		`CREATE TABLE IF NOT EXISTS import_runs (
		id           TEXT PRIMARY KEY,
		adapter_id   TEXT NOT NULL REFERENCES word_sources(adapter_id),
		started_at   INTEGER NOT NULL,
		finished_at  INTEGER,
		entries      INTEGER,
		encoding     TEXT,
		error        TEXT
	)`,
		`CREATE INDEX IF NOT EXISTS import_runs_adapter ON import_runs(adapter_id, id)`,
	}
	for _, stmt := range ddl {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("create tables: %w", err)
		}
	}

	return &SourceDB{db: db}, nil
}

// Close closes the database.
func (s *SourceDB) Close() error {
	return s.db.Close()
}

// Seed inserts a row for each adapter. Existing rows are left untouched so
// that manual URL overrides survive restarts.
func (s *SourceDB) Seed(adapters []Adapter) error {
	const q = `INSERT OR IGNORE INTO word_sources
		(adapter_id, dict_id, locale, description, source_url, license, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`

	now := time.Now().Unix()
	for _, a := range adapters {
		if _, err := s.db.Exec(q, a.ID(), a.DictID(), a.Locale(), a.Description(), a.DefaultURL(), a.License(), now); err != nil {
			return fmt.Errorf("seed %s: %w", a.ID(), err)
		}
	}
	return nil
}

// GetURL returns the current source URL for a given adapter ID.
func (s *SourceDB) GetURL(adapterID string) (string, error) {
	var url string
	err := s.db.QueryRow(`SELECT source_url FROM word_sources WHERE adapter_id = ?`, adapterID).Scan(&url)
	if err != nil {
		return "", fmt.Errorf("get url for %s: %w", adapterID, err)
	}
	return url, nil
}

// SetURL overrides the source URL for a given adapter.
func (s *SourceDB) SetURL(adapterID, url string) error {
	res, err := s.db.Exec(
		`UPDATE word_sources SET source_url = ?, updated_at = ? WHERE adapter_id = ?`,
		url, time.Now().Unix(), adapterID,
	)
	if err != nil {
		return fmt.Errorf("set url for %s: %w", adapterID, err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return fmt.Errorf("adapter %s not found in word_sources", adapterID)
	}
	return nil
}

// UpdateCheck persists the result of an availability check.
func (s *SourceDB) UpdateCheck(adapterID string, status int, checkErr string) error {
	_, err := s.db.Exec(
		`UPDATE word_sources SET last_check = ?, last_status = ?, last_error = ? WHERE adapter_id = ?`,
		time.Now().Unix(), status, nullString(checkErr), adapterID,
	)
	if err != nil {
		return fmt.Errorf("update check for %s: %w", adapterID, err)
	}
	return nil
}

// ListSources returns all sources ordered by adapter_id.
func (s *SourceDB) ListSources() ([]Source, error) {
	rows, err := s.db.Query(`SELECT adapter_id, dict_id, locale, description, source_url, license,
		last_check, last_status, last_error, updated_at
		FROM word_sources ORDER BY adapter_id`)
	if err != nil {
		return nil, fmt.Errorf("list sources: %w", err)
	}
	defer rows.Close()

	var sources []Source
	for rows.Next() {
		var src Source
		if err := rows.Scan(&src.AdapterID, &src.DictID, &src.Locale, &src.Description, &src.SourceURL,
			&src.License, &src.LastCheck, &src.LastStatus, &src.LastError, &src.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan source: %w", err)
		}
		sources = append(sources, src)
	}
	return sources, rows.Err()
}

// StartRun records the start of an import and returns its ID. IDs are
// monotonic ULIDs, so they sort by start time.
func (s *SourceDB) StartRun(adapterID string) (string, error) {
	id := ulid.Make()
	if _, err := s.db.Exec(`INSERT INTO import_runs (id, adapter_id, started_at) VALUES (?, ?, ?)`,
		id.String(), adapterID, time.Now().Unix()); err != nil {
		return "", fmt.Errorf("start run for %s: %w", adapterID, err)
	}
	return id.String(), nil
}

// FinishRun records the outcome of an import. res is nil when runErr is set.
func (s *SourceDB) FinishRun(runID string, res *Result, runErr error) error {
	var entries sql.NullInt64
	var enc sql.NullString
	if res != nil {
		entries = sql.NullInt64{Int64: int64(res.Entries), Valid: true}
		enc = nullString(res.Encoding)
	}
	var msg sql.NullString
	if runErr != nil {
		msg = nullString(runErr.Error())
	}
	_, err := s.db.Exec(`UPDATE import_runs SET finished_at = ?, entries = ?, encoding = ?, error = ? WHERE id = ?`,
		time.Now().Unix(), entries, enc, msg, runID)
	if err != nil {
		return fmt.Errorf("finish run %s: %w", runID, err)
	}
	return nil
}

// ListRuns returns the most recent runs for an adapter, newest first.
func (s *SourceDB) ListRuns(adapterID string, limit int) ([]ImportRun, error) {
	rows, err := s.db.Query(`SELECT id, adapter_id, started_at, finished_at, entries, encoding, error
		FROM import_runs WHERE adapter_id = ? ORDER BY id DESC LIMIT ?`, adapterID, limit)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var runs []ImportRun
	for rows.Next() {
		var r ImportRun
		if err := rows.Scan(&r.ID, &r.AdapterID, &r.StartedAt, &r.FinishedAt, &r.Entries, &r.Encoding, &r.Error); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
