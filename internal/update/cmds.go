package update

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sandeepkv93/taskdeck/internal/model"
	"github.com/sandeepkv93/taskdeck/internal/scheduler"
	"github.com/sandeepkv93/taskdeck/internal/session"
	"github.com/sandeepkv93/taskdeck/internal/signals"
	"github.com/sandeepkv93/taskdeck/internal/tasks"
)

const settleInterval = 16 * time.Millisecond

func initSessionCmd(s *session.Store) tea.Cmd {
	return func() tea.Msg {
		s.Initialize(context.Background())
		return SessionReadyMsg{State: s.Snapshot()}
	}
}

func loginCmd(s *session.Store, mail, password string) tea.Cmd {
	return func() tea.Msg {
		return LoginResultMsg{OK: s.Login(context.Background(), mail, password)}
	}
}

func guestCmd(s *session.Store) tea.Cmd {
	return func() tea.Msg {
		ok, account := s.LoginAsGuest(context.Background())
		return GuestResultMsg{OK: ok, Account: account}
	}
}

func registerCmd(s *session.Store, name, mail, password string) tea.Cmd {
	return func() tea.Msg {
		p, err := s.Register(context.Background(), name, mail, password)
		return RegisterResultMsg{Profile: p, Err: err}
	}
}

func logoutCmd(s *session.Store) tea.Cmd {
	return func() tea.Msg {
		s.Logout(context.Background())
		return LoggedOutMsg{}
	}
}

func reloadUserCmd(s *session.Store) tea.Cmd {
	return func() tea.Msg {
		return SessionReloadedMsg{OK: s.ReloadUser(context.Background())}
	}
}

func saveProfileCmd(s *session.Store, name, avatar, current, next string) tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		if _, err := s.UpdateProfile(ctx, name, avatar); err != nil {
			return ProfileSavedMsg{Err: err}
		}
		if next == "" {
			return ProfileSavedMsg{Notice: "profile saved"}
		}
		if err := s.ChangePassword(ctx, current, next); err != nil {
			return ProfileSavedMsg{Err: err}
		}
		return ProfileSavedMsg{Notice: "profile saved, password changed"}
	}
}

func listTasksCmd(repo *tasks.Repository, f model.Filter) tea.Cmd {
	return func() tea.Msg {
		return TasksLoadedMsg{Err: repo.List(context.Background(), f)}
	}
}

func reloadTasksCmd(repo *tasks.Repository) tea.Cmd {
	return func() tea.Msg {
		return TasksLoadedMsg{Err: repo.Reload(context.Background())}
	}
}

func searchTasksCmd(repo *tasks.Repository, patch model.FilterPatch) tea.Cmd {
	return func() tea.Msg {
		return TasksLoadedMsg{Err: repo.ApplySearch(context.Background(), patch)}
	}
}

func createTaskCmd(repo *tasks.Repository, d model.TaskDraft) tea.Cmd {
	return func() tea.Msg {
		t, err := repo.Create(context.Background(), d)
		return TaskSavedMsg{Task: t, Created: true, Err: err}
	}
}

func updateTaskCmd(repo *tasks.Repository, id int64, patch model.TaskPatch) tea.Cmd {
	return func() tea.Msg {
		t, err := repo.Update(context.Background(), id, patch)
		return TaskSavedMsg{Task: t, Err: err}
	}
}

func fetchTaskCmd(repo *tasks.Repository, id int64) tea.Cmd {
	return func() tea.Msg {
		t, err := repo.Get(context.Background(), id)
		return TaskFetchedMsg{Task: t, Err: err}
	}
}

func deleteTaskCmd(repo *tasks.Repository, id int64) tea.Cmd {
	return func() tea.Msg {
		return TaskDeletedMsg{ID: id, Err: repo.Delete(context.Background(), id, tasks.Confirmed(true))}
	}
}

func savePreferenceCmd(m Model, key, value string) tea.Cmd {
	prefs := m.deps.Prefs
	if prefs == nil {
		return nil
	}
	return func() tea.Msg {
		if err := prefs.SetPreference(context.Background(), key, value); err != nil {
			return AppErrorMsg{Err: fmt.Errorf("save %s preference: %w", key, err)}
		}
		return nil
	}
}

func copyCmd(copyFn func(string) error, text string) tea.Cmd {
	if copyFn == nil {
		return nil
	}
	return func() tea.Msg {
		if err := copyFn(text); err != nil {
			return SetStatusMsg{Text: "clipboard unavailable: " + err.Error(), IsError: true}
		}
		return SetStatusMsg{Text: "guest credentials copied"}
	}
}

func waitForSignalCmd(sub *signals.Subscription) tea.Cmd {
	if sub == nil {
		return nil
	}
	ch := sub.Chan()
	return func() tea.Msg {
		sig, ok := <-ch
		if !ok {
			return nil
		}
		return SignalMsg{Signal: sig}
	}
}

func waitForDeadlineCmd(engine *scheduler.Engine) tea.Cmd {
	if engine == nil {
		return nil
	}
	ch := engine.C()
	return func() tea.Msg {
		ev, ok := <-ch
		if !ok {
			return nil
		}
		return DeadlineMsg{Event: ev}
	}
}

func settleTickCmd() tea.Cmd {
	return tea.Tick(settleInterval, func(time.Time) tea.Msg { return SettleMsg{} })
}
