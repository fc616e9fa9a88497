// internal/store/sqlite.go
//
// SQLite-backed Store so in-progress games survive a server restart.
// Responsibilities:
//   - Opening the database with safe defaults (WAL, busy timeout, foreign keys).
//   - Applying embedded migrations from sql/*.sql (idempotent, recorded in _migrations).
//   - Upserting and loading game records.

package store

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog/log"
)

//go:embed sql/*.sql
var migrations embed.FS

type sqliteStore struct {
	db *sql.DB
}

// OpenSQLite opens (and creates if missing) the database at dsn and
// applies pending migrations.
func OpenSQLite(dsn string) (Store, error) {
	db, err := openDB(dsn)
	if err != nil {
		return nil, err
	}
	if err := migrate(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &sqliteStore{db: db}, nil
}

// openDB ensures the parent directory exists for relative DSNs
// (e.g. ./data/endgame.db) and configures busy timeout + WAL.
func openDB(dsn string) (*sql.DB, error) {
	dir := filepath.Dir(dsn)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("mkdir %s: %w", dir, err)
		}
	}

	db, err := sql.Open("sqlite3", dsn+"?_busy_timeout=5000&_journal_mode=WAL")
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(`PRAGMA foreign_keys = ON; PRAGMA journal_mode = WAL;`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("set pragmas: %w", err)
	}
	return db, nil
}

// migrate applies embedded migrations in lexical order, each in its own
// transaction, skipping names already recorded in _migrations.
func migrate(db *sql.DB) error {
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS _migrations (name TEXT PRIMARY KEY);`); err != nil {
		return fmt.Errorf("create _migrations: %w", err)
	}

	files, err := fs.Glob(migrations, "sql/*.sql")
	if err != nil {
		return fmt.Errorf("list migrations: %w", err)
	}
	sort.Strings(files)

	for _, f := range files {
		var done int
		err := db.QueryRow(`SELECT 1 FROM _migrations WHERE name=?`, f).Scan(&done)
		if err == nil {
			log.Debug().Str("migration", f).Msg("already applied")
			continue
		}
		if !errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("query _migrations: %w", err)
		}

		b, err := migrations.ReadFile(f)
		if err != nil {
			return fmt.Errorf("read %s: %w", f, err)
		}

		tx, err := db.Begin()
		if err != nil {
			return err
		}
		if _, err := tx.Exec(string(b)); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("apply %s: %w", f, err)
		}
		if _, err := tx.Exec(`INSERT INTO _migrations(name) VALUES (?)`, f); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("record %s: %w", f, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit %s: %w", f, err)
		}
		log.Info().Str("migration", strings.TrimPrefix(f, "sql/")).Msg("applied")
	}
	return nil
}

// Save upserts a record.
func (s *sqliteStore) Save(ctx context.Context, r Record) error {
	if r.UpdatedAt.IsZero() {
		r.UpdatedAt = time.Now().UTC()
	}
	_, err := s.db.ExecContext(ctx, `
        INSERT INTO games (id, mode, word, category, guessed, time_left, updated_at)
        VALUES (?, ?, ?, ?, ?, ?, ?)
        ON CONFLICT(id) DO UPDATE SET
            mode=excluded.mode,
            word=excluded.word,
            category=excluded.category,
            guessed=excluded.guessed,
            time_left=excluded.time_left,
            updated_at=excluded.updated_at`,
		r.ID, r.Mode, r.Word, r.Category, r.Guessed, r.TimeLeft, r.UpdatedAt.UTC().Format(time.RFC3339),
	)
	return err
}

// Get loads a record by ID.
func (s *sqliteStore) Get(ctx context.Context, id string) (Record, error) {
	var r Record
	var updated string
	err := s.db.QueryRowContext(ctx, `
        SELECT id, mode, word, category, guessed, time_left, updated_at
        FROM games WHERE id=?`, id,
	).Scan(&r.ID, &r.Mode, &r.Word, &r.Category, &r.Guessed, &r.TimeLeft, &updated)
	if errors.Is(err, sql.ErrNoRows) {
		return Record{}, ErrNotFound
	}
	if err != nil {
		return Record{}, err
	}
	r.UpdatedAt, _ = time.Parse(time.RFC3339, updated)
	return r, nil
}

// Delete removes a record by ID.
func (s *sqliteStore) Delete(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM games WHERE id=?`, id)
	return err
}

// DeleteBefore removes records not updated since cutoff. updated_at is
// stored as UTC RFC3339, so text order is time order.
func (s *sqliteStore) DeleteBefore(ctx context.Context, cutoff time.Time) (int, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM games WHERE updated_at < ?`,
		cutoff.UTC().Format(time.RFC3339))
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	return int(n), err
}

func (s *sqliteStore) Close() error { return s.db.Close() }
