// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package store persists crawl sessions to a local SQLite database and
// maintains a full-text index over record titles.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/litmap/pkg/types"
)

const dbFile = "litmap.db"

// Store manages the session database.
type Store struct {
	db *sql.DB
}

// NewStore opens or creates the session database at cfg.DataDir/litmap.db,
// creating the schema if it does not exist.
func NewStore(cfg types.StoreConfig) (*Store, error) {
	dataDir := cfg.DataDir
	if dataDir == "" {
		dataDir = "."
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db}
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
		`CREATE TABLE IF NOT EXISTS sessions (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			query TEXT NOT NULL,
			year_start INTEGER,
			year_end INTEGER,
			venue_filter TEXT,
			max_results INTEGER,
			created TEXT NOT NULL,
			record_count INTEGER NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS records (
			rowid INTEGER PRIMARY KEY AUTOINCREMENT,
			session_id INTEGER NOT NULL REFERENCES sessions(id),
			record_id TEXT NOT NULL,
			title TEXT,
			authors TEXT,
			venue TEXT,
			venue_type TEXT,
			year TEXT,
			doi TEXT,
			source_key TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_records_session_id ON records(session_id)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}

	// FTS5 virtual table with triggers for sync.
	var ftsExists int
	if err := s.db.QueryRow(
		`SELECT count(*) FROM sqlite_master WHERE type='table' AND name='records_fts'`,
	).Scan(&ftsExists); err != nil {
		return fmt.Errorf("checking FTS table: %w", err)
	}

	if ftsExists == 0 {
		ftsStatements := []string{
			`CREATE VIRTUAL TABLE records_fts USING fts5(title, content=records, content_rowid=rowid)`,
			`CREATE TRIGGER records_ai AFTER INSERT ON records BEGIN
				INSERT INTO records_fts(rowid, title) VALUES (new.rowid, new.title);
			END`,
			`CREATE TRIGGER records_ad AFTER DELETE ON records BEGIN
				INSERT INTO records_fts(records_fts, rowid, title) VALUES('delete', old.rowid, old.title);
			END`,
			`CREATE TRIGGER records_au AFTER UPDATE ON records BEGIN
				INSERT INTO records_fts(records_fts, rowid, title) VALUES('delete', old.rowid, old.title);
				INSERT INTO records_fts(rowid, title) VALUES (new.rowid, new.title);
			END`,
		}
		for _, stmt := range ftsStatements {
			if _, err := s.db.Exec(stmt); err != nil {
				return fmt.Errorf("creating FTS infrastructure: %w", err)
			}
		}
	}

	return nil
}

// SessionInfo summarizes one stored session.
type SessionInfo struct {
	ID          int64
	Query       string
	Created     time.Time
	RecordCount int
}

// TitleMatch is one full-text search hit with the session it came from.
type TitleMatch struct {
	SessionID int64
	Record    types.Record
}

// SaveSession stores a finished crawl and returns its session id.
func (s *Store) SaveSession(ctx context.Context, query types.CrawlQuery, records []types.Record) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO sessions (query, year_start, year_end, venue_filter, max_results, created, record_count)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		query.QueryString, query.YearStart, query.YearEnd, string(query.VenueFilter),
		query.MaxResults, time.Now().UTC().Format(time.RFC3339), len(records))
	if err != nil {
		return 0, fmt.Errorf("inserting session: %w", err)
	}

	sessionID, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("reading session id: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO records (session_id, record_id, title, authors, venue, venue_type, year, doi, source_key)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("preparing record insert: %w", err)
	}
	defer stmt.Close()

	for _, rec := range records {
		authors, err := json.Marshal(rec.Authors)
		if err != nil {
			return 0, fmt.Errorf("marshaling authors for %s: %w", rec.ID, err)
		}
		if _, err := stmt.ExecContext(ctx, sessionID, rec.ID, rec.Title, string(authors),
			rec.Venue, string(rec.VenueType), rec.Year, rec.DOI, rec.SourceKey); err != nil {
			return 0, fmt.Errorf("inserting record %s: %w", rec.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing session: %w", err)
	}
	return sessionID, nil
}

// ListSessions returns all stored sessions, newest first.
func (s *Store) ListSessions(ctx context.Context) ([]SessionInfo, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, query, created, record_count FROM sessions ORDER BY id DESC`)
	if err != nil {
		return nil, fmt.Errorf("querying sessions: %w", err)
	}
	defer rows.Close()

	var sessions []SessionInfo
	for rows.Next() {
		var info SessionInfo
		var created string
		if err := rows.Scan(&info.ID, &info.Query, &created, &info.RecordCount); err != nil {
			return nil, fmt.Errorf("scanning session: %w", err)
		}
		if t, parseErr := time.Parse(time.RFC3339, created); parseErr == nil {
			info.Created = t
		}
		sessions = append(sessions, info)
	}
	return sessions, rows.Err()
}

// LoadRecords returns the records of one session in insertion order.
func (s *Store) LoadRecords(ctx context.Context, sessionID int64) ([]types.Record, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT record_id, title, authors, venue, venue_type, year, doi, source_key
		 FROM records WHERE session_id = ? ORDER BY rowid`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("querying records: %w", err)
	}
	defer rows.Close()

	var records []types.Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// SearchTitles runs an FTS5 match over stored record titles.
func (s *Store) SearchTitles(ctx context.Context, match string, limit int) ([]TitleMatch, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT r.session_id, r.record_id, r.title, r.authors, r.venue, r.venue_type, r.year, r.doi, r.source_key
		 FROM records_fts
		 JOIN records r ON r.rowid = records_fts.rowid
		 WHERE records_fts MATCH ? ORDER BY records_fts.rank LIMIT ?`, match, limit)
	if err != nil {
		return nil, fmt.Errorf("searching titles: %w", err)
	}
	defer rows.Close()

	var matches []TitleMatch
	for rows.Next() {
		var m TitleMatch
		var authors, venueType string
		if err := rows.Scan(&m.SessionID, &m.Record.ID, &m.Record.Title, &authors,
			&m.Record.Venue, &venueType, &m.Record.Year, &m.Record.DOI, &m.Record.SourceKey); err != nil {
			return nil, fmt.Errorf("scanning title match: %w", err)
		}
		if err := json.Unmarshal([]byte(authors), &m.Record.Authors); err != nil {
			return nil, fmt.Errorf("parsing authors for %s: %w", m.Record.ID, err)
		}
		m.Record.VenueType = types.VenueType(venueType)
		matches = append(matches, m)
	}
	return matches, rows.Err()
}

func scanRecord(rows *sql.Rows) (types.Record, error) {
	var rec types.Record
	var authors, venueType string
	if err := rows.Scan(&rec.ID, &rec.Title, &authors, &rec.Venue, &venueType,
		&rec.Year, &rec.DOI, &rec.SourceKey); err != nil {
		return types.Record{}, fmt.Errorf("scanning record: %w", err)
	}
	if err := json.Unmarshal([]byte(authors), &rec.Authors); err != nil {
		return types.Record{}, fmt.Errorf("parsing authors for %s: %w", rec.ID, err)
	}
	rec.VenueType = types.VenueType(venueType)
	return rec, nil
}
