// Package store keeps a persistent log of evaluations in SQLite.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"github.com/comalice/formulax"
	"github.com/comalice/formulax/internal/session"
)

const schema = `
CREATE TABLE IF NOT EXISTS evaluations (
	seq INTEGER PRIMARY KEY AUTOINCREMENT,
	id TEXT NOT NULL UNIQUE,
	formula TEXT NOT NULL,
	args TEXT NOT NULL,
	kind TEXT NOT NULL,
	value TEXT NOT NULL,
	label TEXT NOT NULL DEFAULT '',
	degenerate INTEGER NOT NULL DEFAULT 0,
	error TEXT NOT NULL DEFAULT '',
	at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_evaluations_formula ON evaluations(formula);
`

// Store is a SQLite-backed session.Recorder. Numbers are stored as text so
// NaN and infinities survive the round-trip.
type Store struct {
	db   *sql.DB
	mu   sync.Mutex
	path string
}

var _ session.Recorder = (*Store)(nil)

// Open opens (creating if needed) the database at path. ":memory:" opens a
// private in-memory database.
func Open(path string) (*Store, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// A single connection keeps ":memory:" databases shared and serializes writers.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create table: %w", err)
	}
	return &Store{db: db, path: path}, nil
}

// Path is the database location.
func (s *Store) Path() string {
	return s.path
}

// Save appends a record.
func (s *Store) Save(ctx context.Context, rec session.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	kind, err := rec.Result.Kind.MarshalText()
	if err != nil {
		return err
	}
	degenerate := 0
	if rec.Result.Degenerate {
		degenerate = 1
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO evaluations (id, formula, args, kind, value, label, degenerate, error, at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.Formula, encodeFloats(rec.Args), string(kind),
		formulax.FormatFloat(rec.Result.Value, -1), rec.Result.Label, degenerate,
		rec.Err, rec.At.UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("save record %s: %w", rec.ID, err)
	}
	return nil
}

// Recent returns up to limit of the newest records, oldest first. A limit
// of zero or less returns every record.
func (s *Store) Recent(ctx context.Context, limit int) ([]session.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if limit <= 0 {
		limit = -1
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, formula, args, kind, value, label, degenerate, error, at
		 FROM evaluations ORDER BY seq DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query records: %w", err)
	}
	defer rows.Close()

	var out []session.Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("query records: %w", err)
	}
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out, nil
}

// Count returns the number of stored records.
func (s *Store) Count(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM evaluations`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count records: %w", err)
	}
	return n, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func scanRecord(rows *sql.Rows) (session.Record, error) {
	var (
		rec               session.Record
		args, kind, value string
		at                string
		degenerate        int
	)
	if err := rows.Scan(&rec.ID, &rec.Formula, &args, &kind, &value,
		&rec.Result.Label, &degenerate, &rec.Err, &at); err != nil {
		return rec, fmt.Errorf("scan record: %w", err)
	}

	var err error
	if rec.Args, err = decodeFloats(args); err != nil {
		return rec, fmt.Errorf("record %s args: %w", rec.ID, err)
	}
	if err := rec.Result.Kind.UnmarshalText([]byte(kind)); err != nil {
		return rec, fmt.Errorf("record %s: %w", rec.ID, err)
	}
	if rec.Result.Value, err = strconv.ParseFloat(value, 64); err != nil {
		return rec, fmt.Errorf("record %s value: %w", rec.ID, err)
	}
	if rec.At, err = time.Parse(time.RFC3339Nano, at); err != nil {
		return rec, fmt.Errorf("record %s time: %w", rec.ID, err)
	}
	rec.Result.Degenerate = degenerate != 0
	if !rec.Failed() {
		rec.Result.Formula = rec.Formula
	}
	return rec, nil
}

func encodeFloats(vs []float64) string {
	parts := make([]string, len(vs))
	for i, v := range vs {
		parts[i] = formulax.FormatFloat(v, -1)
	}
	return strings.Join(parts, " ")
}

func decodeFloats(s string) ([]float64, error) {
	fields := strings.Fields(s)
	out := make([]float64, len(fields))
	for i, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}
