package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/sandeepkv93/taskdeck/internal/api"
	"github.com/sandeepkv93/taskdeck/internal/config"
	"github.com/sandeepkv93/taskdeck/internal/model"
	"github.com/sandeepkv93/taskdeck/internal/session"
	"github.com/sandeepkv93/taskdeck/internal/storage"
	"github.com/sandeepkv93/taskdeck/internal/tasks"
)

var errNotLoggedIn = errors.New("not logged in: run `taskdeck login` or `taskdeck guest` first")

// app is the wiring shared by the TUI and the one-shot commands.
type app struct {
	cfg     config.RuntimeConfig
	logger  *slog.Logger
	state   storage.Repository
	gateway *api.Gateway
	session *session.Store
	tasks   *api.TasksClient
	chat    *api.ChatClient
	closers []io.Closer
}

type appOptions struct {
	gatewayNav api.Navigator
	sessionNav session.Navigator
}

func openApp(cfg config.RuntimeConfig, opts appOptions) (*app, error) {
	logger, logCloser, err := config.OpenLogger(cfg)
	if err != nil {
		return nil, err
	}
	a := &app{cfg: cfg, logger: logger, closers: []io.Closer{logCloser}}

	state, err := storage.Open(cfg.StatePath)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("open state: %w", err)
	}
	a.state = state
	a.closers = append(a.closers, state)

	gwOpts := []api.Option{api.WithLogger(logger)}
	if cfg.HTTPTimeout > 0 {
		gwOpts = append(gwOpts, api.WithTimeout(cfg.HTTPTimeout))
	}
	if opts.gatewayNav != nil {
		gwOpts = append(gwOpts, api.WithNavigator(opts.gatewayNav))
	}
	gw, err := api.NewGateway(cfg.BackendURL, gwOpts...)
	if err != nil {
		a.Close()
		return nil, err
	}
	a.gateway = gw

	sessOpts := []session.Option{
		session.WithLogger(logger),
		session.WithRetryPolicy(session.RetryPolicy{
			Attempts: cfg.LoginRetryAttempts,
			Backoff:  cfg.LoginRetryBackoff,
		}),
	}
	if opts.sessionNav != nil {
		sessOpts = append(sessOpts, session.WithNavigator(opts.sessionNav))
	}
	a.session = session.New(api.NewUsersClient(gw), state, sessOpts...)
	gw.UseCredentials(a.session)
	a.tasks = api.NewTasksClient(gw)
	a.chat = api.NewChatClient(gw)

	logger.Debug("app opened", "backend", gw.BaseURL(), "state", cfg.StatePath)
	return a, nil
}

// Close releases resources in reverse order of acquisition.
func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i].Close(); err != nil {
			a.logger.Warn("close failed", "err", err)
		}
	}
	a.closers = nil
}

// restore resolves the persisted session and fails when no one is logged in.
func (a *app) restore(ctx context.Context) (model.UserProfile, error) {
	a.session.Initialize(ctx)
	owner := a.session.Snapshot().Owner
	if owner == nil {
		return model.UserProfile{}, errNotLoggedIn
	}
	return *owner, nil
}

// initialFilter is the filter the task list starts with: the persisted sort
// preference when present, otherwise the configured default.
func (a *app) initialFilter(ctx context.Context) model.Filter {
	f := model.Filter{Sort: a.cfg.DefaultSort}
	raw, err := a.state.GetPreference(ctx, storage.PreferenceSort)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			a.logger.Warn("load sort preference failed", "err", err)
		}
		return f
	}
	if sort, err := model.ParseSortOrder(raw); err == nil {
		f.Sort = sort
	}
	return f
}

func (a *app) themeName(ctx context.Context) string {
	raw, err := a.state.GetPreference(ctx, storage.PreferenceTheme)
	if err != nil || (raw != "light" && raw != "dark") {
		return a.cfg.Theme
	}
	return raw
}

func (a *app) repository(ctx context.Context) *tasks.Repository {
	return tasks.NewRepository(a.tasks,
		tasks.WithLogger(a.logger),
		tasks.WithInitialFilter(a.initialFilter(ctx)),
	)
}
