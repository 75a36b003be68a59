package storage

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"
)

// MemoryRepository keeps state in process. Used for ephemeral runs and tests.
type MemoryRepository struct {
	mu         sync.Mutex
	credential string
	prefs      map[string]Preference
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{prefs: make(map[string]Preference)}
}

func (r *MemoryRepository) LoadCredential(_ context.Context) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.credential == "" {
		return "", ErrNotFound
	}
	return r.credential, nil
}

func (r *MemoryRepository) SaveCredential(_ context.Context, value string) error {
	if strings.TrimSpace(value) == "" {
		return errors.New("storage: empty credential")
	}
	r.mu.Lock()
	r.credential = value
	r.mu.Unlock()
	return nil
}

func (r *MemoryRepository) ClearCredential(_ context.Context) error {
	r.mu.Lock()
	r.credential = ""
	r.mu.Unlock()
	return nil
}

func (r *MemoryRepository) GetPreference(_ context.Context, key string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.prefs[key]
	if !ok {
		return "", ErrNotFound
	}
	return p.Value, nil
}

func (r *MemoryRepository) SetPreference(_ context.Context, key, value string) error {
	if strings.TrimSpace(key) == "" {
		return errors.New("storage: preference key is required")
	}
	r.mu.Lock()
	r.prefs[key] = Preference{Key: key, Value: value, UpdatedAt: time.Now().UTC()}
	r.mu.Unlock()
	return nil
}

func (r *MemoryRepository) ListPreferences(_ context.Context) ([]Preference, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Preference, 0, len(r.prefs))
	for _, p := range r.prefs {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out, nil
}

func (r *MemoryRepository) Close() error { return nil }
