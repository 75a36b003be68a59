package storage

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"
	"time"
)

func setupRepo(t *testing.T) *SQLiteRepository {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "taskdeck-test.db")
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	if err := MigrateUp(db); err != nil {
		t.Fatalf("migrate up: %v", err)
	}

	repo, err := NewSQLiteRepository(db)
	if err != nil {
		t.Fatalf("new repo: %v", err)
	}
	return repo
}

func TestCredentialLifecycle(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	if _, err := repo.LoadCredential(ctx); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound before save, got %v", err)
	}

	if err := repo.SaveCredential(ctx, "abc"); err != nil {
		t.Fatalf("save credential: %v", err)
	}
	if err := repo.SaveCredential(ctx, "def"); err != nil {
		t.Fatalf("overwrite credential: %v", err)
	}
	got, err := repo.LoadCredential(ctx)
	if err != nil {
		t.Fatalf("load credential: %v", err)
	}
	if got != "def" {
		t.Fatalf("expected def, got %q", got)
	}

	if err := repo.ClearCredential(ctx); err != nil {
		t.Fatalf("clear credential: %v", err)
	}
	if err := repo.ClearCredential(ctx); err != nil {
		t.Fatalf("second clear should be a no-op, got %v", err)
	}
	if _, err := repo.LoadCredential(ctx); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after clear, got %v", err)
	}

	if err := repo.SaveCredential(ctx, "  "); err == nil {
		t.Fatal("expected error for blank credential")
	}
}

func TestPreferencesUpsertAndList(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()
	repo.now = func() time.Time { return time.Date(2026, 2, 9, 12, 0, 0, 0, time.UTC) }

	if err := repo.SetPreference(ctx, PreferenceTheme, "light"); err != nil {
		t.Fatalf("set theme: %v", err)
	}
	if err := repo.SetPreference(ctx, PreferenceTheme, "dark"); err != nil {
		t.Fatalf("update theme: %v", err)
	}
	if err := repo.SetPreference(ctx, PreferenceSort, "due_asc"); err != nil {
		t.Fatalf("set sort: %v", err)
	}

	theme, err := repo.GetPreference(ctx, PreferenceTheme)
	if err != nil || theme != "dark" {
		t.Fatalf("expected dark theme, got %q err=%v", theme, err)
	}

	prefs, err := repo.ListPreferences(ctx)
	if err != nil {
		t.Fatalf("list preferences: %v", err)
	}
	if len(prefs) != 2 || prefs[0].Key != PreferenceSort || prefs[1].Key != PreferenceTheme {
		t.Fatalf("unexpected preferences: %+v", prefs)
	}
	if !prefs[1].UpdatedAt.Equal(repo.now()) {
		t.Fatalf("unexpected updated_at: %v", prefs[1].UpdatedAt)
	}

	if _, err := repo.GetPreference(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestOpenCreatesDirectoryAndMigrates(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "state.db")
	repo, err := Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer repo.Close()

	if err := repo.SaveCredential(context.Background(), "xyz"); err != nil {
		t.Fatalf("save after open: %v", err)
	}

	reopened, err := Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer reopened.Close()
	got, err := reopened.LoadCredential(context.Background())
	if err != nil || got != "xyz" {
		t.Fatalf("expected persisted credential, got %q err=%v", got, err)
	}
}

func TestMemoryRepositoryMatchesSQLiteSemantics(t *testing.T) {
	var repo Repository = NewMemoryRepository()
	ctx := context.Background()

	if _, err := repo.LoadCredential(ctx); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := repo.SaveCredential(ctx, "abc"); err != nil {
		t.Fatalf("save: %v", err)
	}
	if got, _ := repo.LoadCredential(ctx); got != "abc" {
		t.Fatalf("expected abc, got %q", got)
	}
	if err := repo.ClearCredential(ctx); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if _, err := repo.LoadCredential(ctx); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after clear, got %v", err)
	}
	if err := repo.SetPreference(ctx, PreferenceTheme, "light"); err != nil {
		t.Fatalf("set preference: %v", err)
	}
	if got, _ := repo.GetPreference(ctx, PreferenceTheme); got != "light" {
		t.Fatalf("expected light, got %q", got)
	}
}
