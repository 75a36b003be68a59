package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

const sqliteTimeLayout = time.RFC3339Nano

type SQLiteRepository struct {
	db  *sql.DB
	now func() time.Time
}

func NewSQLiteRepository(db *sql.DB) (*SQLiteRepository, error) {
	if db == nil {
		return nil, errors.New("storage: nil db")
	}
	if _, err := db.Exec("PRAGMA busy_timeout = 2000"); err != nil {
		return nil, fmt.Errorf("set busy timeout: %w", err)
	}
	return &SQLiteRepository{db: db, now: time.Now}, nil
}

func OpenSQLite(path string) (*SQLiteRepository, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	repo, err := NewSQLiteRepository(db)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return repo, nil
}

// Open creates the parent directory, opens the database and applies migrations.
func Open(path string) (*SQLiteRepository, error) {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return nil, fmt.Errorf("create state dir: %w", err)
		}
	}
	repo, err := OpenSQLite(path)
	if err != nil {
		return nil, err
	}
	if err := MigrateUp(repo.db); err != nil {
		_ = repo.Close()
		return nil, err
	}
	return repo, nil
}

func (r *SQLiteRepository) Close() error {
	return r.db.Close()
}

func (r *SQLiteRepository) LoadCredential(ctx context.Context) (string, error) {
	row := r.db.QueryRowContext(ctx, `SELECT name, value, updated_at FROM credentials WHERE name = ?`, SessionCredential)
	cred, err := scanCredential(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", ErrNotFound
		}
		return "", err
	}
	return cred.Value, nil
}

func (r *SQLiteRepository) SaveCredential(ctx context.Context, value string) error {
	if strings.TrimSpace(value) == "" {
		return errors.New("storage: empty credential")
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO credentials (name, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		SessionCredential, value, mustTime(r.now()),
	)
	return err
}

// ClearCredential is idempotent; clearing an absent credential is not an error.
func (r *SQLiteRepository) ClearCredential(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM credentials WHERE name = ?`, SessionCredential)
	return err
}

func (r *SQLiteRepository) GetPreference(ctx context.Context, key string) (string, error) {
	row := r.db.QueryRowContext(ctx, `SELECT key, value, updated_at FROM preferences WHERE key = ?`, key)
	pref, err := scanPreference(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", ErrNotFound
		}
		return "", err
	}
	return pref.Value, nil
}

func (r *SQLiteRepository) SetPreference(ctx context.Context, key, value string) error {
	if strings.TrimSpace(key) == "" {
		return errors.New("storage: preference key is required")
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO preferences (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, value, mustTime(r.now()),
	)
	return err
}

func (r *SQLiteRepository) ListPreferences(ctx context.Context) ([]Preference, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT key, value, updated_at FROM preferences ORDER BY key ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Preference, 0)
	for rows.Next() {
		pref, scanErr := scanPreference(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		out = append(out, pref)
	}
	return out, rows.Err()
}

func mustTime(v time.Time) string {
	return v.UTC().Format(sqliteTimeLayout)
}

func parseRequiredTime(v string) (time.Time, error) {
	return time.Parse(sqliteTimeLayout, v)
}

type scanner interface {
	Scan(dest ...any) error
}

func scanCredential(s scanner) (Credential, error) {
	var (
		out       Credential
		updatedAt string
	)
	if err := s.Scan(&out.Name, &out.Value, &updatedAt); err != nil {
		return Credential{}, err
	}
	t, err := parseRequiredTime(updatedAt)
	if err != nil {
		return Credential{}, fmt.Errorf("parse credential updated_at: %w", err)
	}
	out.UpdatedAt = t
	return out, nil
}

func scanPreference(s scanner) (Preference, error) {
	var (
		out       Preference
		updatedAt string
	)
	if err := s.Scan(&out.Key, &out.Value, &updatedAt); err != nil {
		return Preference{}, err
	}
	t, err := parseRequiredTime(updatedAt)
	if err != nil {
		return Preference{}, fmt.Errorf("parse preference updated_at: %w", err)
	}
	out.UpdatedAt = t
	return out, nil
}
