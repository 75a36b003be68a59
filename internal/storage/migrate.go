package storage

import (
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strconv"
	"strings"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

type migration struct {
	version int
	up      string
	down    string
}

// loadMigrations pairs NNNN_name.up.sql with NNNN_name.down.sql, ordered by
// version.
func loadMigrations() ([]migration, error) {
	names, err := fs.Glob(migrationFiles, "migrations/*.sql")
	if err != nil {
		return nil, fmt.Errorf("storage: list migrations: %w", err)
	}
	byVersion := map[int]*migration{}
	for _, name := range names {
		base := path.Base(name)
		prefix, _, ok := strings.Cut(base, "_")
		if !ok {
			return nil, fmt.Errorf("storage: migration %s has no version prefix", base)
		}
		v, err := strconv.Atoi(prefix)
		if err != nil {
			return nil, fmt.Errorf("storage: migration %s: %w", base, err)
		}
		m := byVersion[v]
		if m == nil {
			m = &migration{version: v}
			byVersion[v] = m
		}
		switch {
		case strings.HasSuffix(base, ".up.sql"):
			m.up = name
		case strings.HasSuffix(base, ".down.sql"):
			m.down = name
		}
	}
	out := make([]migration, 0, len(byVersion))
	for _, m := range byVersion {
		out = append(out, *m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].version < out[j].version })
	return out, nil
}

func schemaVersion(db *sql.DB) (int, error) {
	var v int
	if err := db.QueryRow("PRAGMA user_version").Scan(&v); err != nil {
		return 0, fmt.Errorf("storage: read schema version: %w", err)
	}
	return v, nil
}

func runMigration(db *sql.DB, file string, version int) error {
	body, err := migrationFiles.ReadFile(file)
	if err != nil {
		return fmt.Errorf("storage: read %s: %w", file, err)
	}
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	if _, err := tx.Exec(string(body)); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("storage: apply %s: %w", path.Base(file), err)
	}
	// PRAGMA does not take bind parameters.
	if _, err := tx.Exec("PRAGMA user_version = " + strconv.Itoa(version)); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("storage: set schema version: %w", err)
	}
	return tx.Commit()
}

// MigrateUp applies every migration newer than the recorded schema version.
func MigrateUp(db *sql.DB) error {
	migrations, err := loadMigrations()
	if err != nil {
		return err
	}
	current, err := schemaVersion(db)
	if err != nil {
		return err
	}
	for _, m := range migrations {
		if m.version <= current || m.up == "" {
			continue
		}
		if err := runMigration(db, m.up, m.version); err != nil {
			return err
		}
	}
	return nil
}

// MigrateDown reverts applied migrations, newest first.
func MigrateDown(db *sql.DB) error {
	migrations, err := loadMigrations()
	if err != nil {
		return err
	}
	current, err := schemaVersion(db)
	if err != nil {
		return err
	}
	for i := len(migrations) - 1; i >= 0; i-- {
		m := migrations[i]
		if m.version > current {
			continue
		}
		if m.down == "" {
			return fmt.Errorf("storage: migration %d has no down step", m.version)
		}
		prev := 0
		if i > 0 {
			prev = migrations[i-1].version
		}
		if err := runMigration(db, m.down, prev); err != nil {
			return err
		}
	}
	return nil
}
