package storage

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("storage: not found")

// CredentialStore persists the session credential across runs.
type CredentialStore interface {
	LoadCredential(ctx context.Context) (string, error)
	SaveCredential(ctx context.Context, value string) error
	ClearCredential(ctx context.Context) error
}

type PreferenceStore interface {
	GetPreference(ctx context.Context, key string) (string, error)
	SetPreference(ctx context.Context, key, value string) error
	ListPreferences(ctx context.Context) ([]Preference, error)
}

type Repository interface {
	CredentialStore
	PreferenceStore
	Close() error
}
