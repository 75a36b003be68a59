package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/sandeepkv93/taskdeck/internal/api"
	"github.com/sandeepkv93/taskdeck/internal/model"
	"github.com/sandeepkv93/taskdeck/internal/storage"
)

var (
	ErrNotLoggedIn   = errors.New("session: not logged in")
	ErrNoCredential  = errors.New("session: server returned no credential")
	ErrProfileFailed = errors.New("session: profile could not be loaded")
)

type LoadingState string

const (
	LoadingChecking LoadingState = "checking"
	LoadingReady    LoadingState = "ready"
)

// State is a snapshot of the session. Owner is nil when no one is logged in.
type State struct {
	Credential string
	Owner      *model.UserProfile
	Loading    LoadingState
}

func (s State) LoggedIn() bool {
	return s.Owner != nil
}

// UsersAPI is the subset of the users endpoints the store drives.
type UsersAPI interface {
	Register(ctx context.Context, in api.RegisterRequest) (model.UserProfile, error)
	Login(ctx context.Context, mail, password string) (api.LoginResponse, error)
	Guest(ctx context.Context) (api.GuestResponse, error)
	Me(ctx context.Context, redirect bool) (model.UserProfile, error)
	UpdateMe(ctx context.Context, patch api.ProfilePatch) (model.UserProfile, error)
	ChangePassword(ctx context.Context, current, next string) error
	Logout(ctx context.Context) error
}

// Navigator is told to reset the client to the auth entry after logout.
type Navigator interface {
	ResetToAuth()
}

type RetryPolicy struct {
	Attempts int
	Backoff  time.Duration
}

func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{Attempts: 5, Backoff: 700 * time.Millisecond}
}

// delay is the wait after the given zero-based failed attempt.
func (p RetryPolicy) delay(attempt int) time.Duration {
	return time.Duration(attempt+1) * p.Backoff
}

type Option func(*Store)

func WithRetryPolicy(p RetryPolicy) Option {
	return func(s *Store) {
		if p.Attempts < 1 {
			p.Attempts = 1
		}
		s.retry = p
	}
}

func WithNavigator(nav Navigator) Option {
	return func(s *Store) { s.nav = nav }
}

func WithLogger(l *slog.Logger) Option {
	return func(s *Store) { s.logger = l }
}

// WithSleep replaces the backoff wait. Tests use it to avoid real delays.
func WithSleep(fn func(ctx context.Context, d time.Duration) error) Option {
	return func(s *Store) { s.sleep = fn }
}

// Store owns the session lifecycle: the persisted credential and the
// logged-in profile. It is safe for concurrent use.
type Store struct {
	mu       sync.RWMutex
	state    State
	creds    storage.CredentialStore
	users    UsersAPI
	nav      Navigator
	retry    RetryPolicy
	sleep    func(ctx context.Context, d time.Duration) error
	logger   *slog.Logger
	watchers map[int]func(State)
	nextID   int
}

func New(users UsersAPI, creds storage.CredentialStore, opts ...Option) *Store {
	s := &Store{
		state:    State{Loading: LoadingChecking},
		creds:    creds,
		users:    users,
		retry:    DefaultRetryPolicy(),
		sleep:    sleepContext,
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		watchers: make(map[int]func(State)),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Credential implements api.CredentialSource.
func (s *Store) Credential() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Credential
}

func (s *Store) Snapshot() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := s.state
	if out.Owner != nil {
		owner := *out.Owner
		out.Owner = &owner
	}
	return out
}

// Watch registers fn to be called after every state change. The returned
// func removes it.
func (s *Store) Watch(fn func(State)) func() {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.watchers[id] = fn
	s.mu.Unlock()
	return func() {
		s.mu.Lock()
		delete(s.watchers, id)
		s.mu.Unlock()
	}
}

func (s *Store) setState(next State) {
	s.mu.Lock()
	s.state = next
	watchers := make([]func(State), 0, len(s.watchers))
	for _, fn := range s.watchers {
		watchers = append(watchers, fn)
	}
	s.mu.Unlock()

	snap := s.Snapshot()
	for _, fn := range watchers {
		fn(snap)
	}
}

func (s *Store) setLoading(l LoadingState) {
	s.mu.RLock()
	next := s.state
	s.mu.RUnlock()
	next.Loading = l
	s.setState(next)
}

// Initialize restores the persisted credential and resolves its profile.
// Without a credential no request is made.
func (s *Store) Initialize(ctx context.Context) {
	s.setLoading(LoadingChecking)

	cred, err := s.creds.LoadCredential(ctx)
	if err != nil || cred == "" {
		if err != nil && !errors.Is(err, storage.ErrNotFound) {
			s.logger.Warn("load credential failed", "err", err)
		}
		s.setState(State{Loading: LoadingReady})
		return
	}

	s.setState(State{Credential: cred, Loading: LoadingChecking})
	profile, err := s.users.Me(ctx, false)
	if err != nil {
		s.logger.Warn("restore session failed", "err", err)
		if api.IsUnauthorized(err) {
			if clearErr := s.creds.ClearCredential(ctx); clearErr != nil {
				s.logger.Warn("clear stale credential failed", "err", clearErr)
			}
		}
		s.setState(State{Loading: LoadingReady})
		return
	}
	s.logger.Info("session restored", "user_id", profile.ID.String())
	s.setState(State{Credential: cred, Owner: &profile, Loading: LoadingReady})
}

// Login authenticates and resolves the profile. A profile that never arrives
// revokes the credential so stored and in-memory state agree.
func (s *Store) Login(ctx context.Context, mail, password string) bool {
	s.setLoading(LoadingChecking)

	resp, err := s.users.Login(ctx, strings.TrimSpace(mail), password)
	if err != nil {
		s.logger.Warn("login failed", "err", err)
		s.setState(State{Loading: LoadingReady})
		return false
	}
	profile, err := s.adopt(ctx, resp.Credential(), false)
	if err != nil {
		s.logger.Warn("login profile failed", "err", err)
		return false
	}
	s.logger.Info("logged in", "user_id", profile.ID.String())
	return true
}

// LoginAsGuest creates a throwaway account. The generated credentials are
// returned once for display and never persisted.
func (s *Store) LoginAsGuest(ctx context.Context) (bool, *model.GuestAccount) {
	s.setLoading(LoadingChecking)

	resp, err := s.users.Guest(ctx)
	if err != nil {
		s.logger.Warn("guest login failed", "err", err)
		s.setState(State{Loading: LoadingReady})
		return false, nil
	}
	profile, err := s.adopt(ctx, resp.SessionID, true)
	if err != nil {
		s.logger.Warn("guest profile failed", "err", err)
		return false, nil
	}
	s.logger.Info("guest session started", "user_id", profile.ID.String())

	account := resp.AccountInfo
	return true, &account
}

func (s *Store) adopt(ctx context.Context, cred string, guest bool) (model.UserProfile, error) {
	cred = strings.TrimSpace(cred)
	if cred == "" {
		s.setState(State{Loading: LoadingReady})
		return model.UserProfile{}, ErrNoCredential
	}
	if err := s.creds.SaveCredential(ctx, cred); err != nil {
		s.logger.Warn("persist credential failed", "err", err)
	}
	s.setState(State{Credential: cred, Loading: LoadingChecking})

	profile, err := s.fetchProfileWithRetry(ctx)
	if err != nil {
		s.revoke(ctx)
		return model.UserProfile{}, fmt.Errorf("%w: %v", ErrProfileFailed, err)
	}
	if guest {
		profile.IsGuest = true
	}
	s.setState(State{Credential: cred, Owner: &profile, Loading: LoadingReady})
	return profile, nil
}

func (s *Store) fetchProfileWithRetry(ctx context.Context) (model.UserProfile, error) {
	var lastErr error
	for attempt := 0; attempt < s.retry.Attempts; attempt++ {
		profile, err := s.users.Me(ctx, false)
		if err == nil {
			return profile, nil
		}
		lastErr = err
		s.logger.Debug("profile fetch retry", "attempt", attempt+1, "err", err)
		if attempt == s.retry.Attempts-1 {
			break
		}
		if err := s.sleep(ctx, s.retry.delay(attempt)); err != nil {
			return model.UserProfile{}, err
		}
	}
	return model.UserProfile{}, lastErr
}

func (s *Store) revoke(ctx context.Context) {
	if err := s.creds.ClearCredential(ctx); err != nil {
		s.logger.Warn("clear credential failed", "err", err)
	}
	s.setState(State{Loading: LoadingReady})
}

// Logout ends the session. The server call is best effort; local state is
// always cleared and the client is reset to the auth entry.
func (s *Store) Logout(ctx context.Context) {
	if s.Credential() != "" {
		if err := s.users.Logout(ctx); err != nil {
			s.logger.Warn("server logout failed", "err", err)
		}
	}
	s.revoke(ctx)
	s.logger.Info("logged out")
	if s.nav != nil {
		s.nav.ResetToAuth()
	}
}

// ReloadUser refreshes the profile. Any failure logs the user out.
func (s *Store) ReloadUser(ctx context.Context) bool {
	snap := s.Snapshot()
	profile, err := s.users.Me(ctx, false)
	if err != nil {
		s.logger.Warn("reload user failed", "err", err)
		s.Logout(ctx)
		return false
	}
	if snap.Owner != nil && snap.Owner.IsGuest {
		profile.IsGuest = true
	}
	s.setState(State{Credential: snap.Credential, Owner: &profile, Loading: LoadingReady})
	return true
}

func (s *Store) Register(ctx context.Context, name, mail, password string) (model.UserProfile, error) {
	return s.users.Register(ctx, api.RegisterRequest{
		Name:     strings.TrimSpace(name),
		Mail:     strings.TrimSpace(mail),
		Password: password,
	})
}

// UpdateProfile sends the changed fields and adopts the server's answer.
func (s *Store) UpdateProfile(ctx context.Context, name, avatarURL string) (model.UserProfile, error) {
	snap := s.Snapshot()
	if snap.Owner == nil {
		return model.UserProfile{}, ErrNotLoggedIn
	}
	var patch api.ProfilePatch
	if n := strings.TrimSpace(name); n != "" && n != snap.Owner.Name {
		patch.Name = &n
	}
	if a := strings.TrimSpace(avatarURL); a != snap.Owner.AvatarURL {
		patch.AvatarURL = &a
	}
	if patch.Name == nil && patch.AvatarURL == nil {
		return *snap.Owner, nil
	}
	profile, err := s.users.UpdateMe(ctx, patch)
	if err != nil {
		return model.UserProfile{}, err
	}
	profile.IsGuest = profile.IsGuest || snap.Owner.IsGuest
	s.setState(State{Credential: snap.Credential, Owner: &profile, Loading: LoadingReady})
	return profile, nil
}

func (s *Store) ChangePassword(ctx context.Context, current, next string) error {
	if s.Snapshot().Owner == nil {
		return ErrNotLoggedIn
	}
	if next == "" {
		return errors.New("session: new password is required")
	}
	return s.users.ChangePassword(ctx, current, next)
}
