package update

import (
	"io"
	"log/slog"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	zone "github.com/lrstanley/bubblezone"
	"github.com/sandeepkv93/taskdeck/internal/config"
	"github.com/sandeepkv93/taskdeck/internal/gesture"
	"github.com/sandeepkv93/taskdeck/internal/model"
	"github.com/sandeepkv93/taskdeck/internal/scheduler"
	"github.com/sandeepkv93/taskdeck/internal/session"
	"github.com/sandeepkv93/taskdeck/internal/signals"
	"github.com/sandeepkv93/taskdeck/internal/storage"
	"github.com/sandeepkv93/taskdeck/internal/tasks"
	"github.com/sandeepkv93/taskdeck/internal/views"
)

type Screen string

const (
	ScreenAuth    Screen = "auth"
	ScreenTasks   Screen = "tasks"
	ScreenNewTask Screen = "new_task"
	ScreenDetail  Screen = "detail"
	ScreenProfile Screen = "profile"
)

type StatusBar struct {
	Text    string
	IsError bool
}

// Deps are the long-lived collaborators the TUI drives. Session, Tasks and
// Bus are required; the rest may be nil.
type Deps struct {
	Session   *session.Store
	Tasks     *tasks.Repository
	Bus       *signals.Broker
	Prefs     storage.PreferenceStore
	Nav       *Navigator
	Deadlines *scheduler.Engine
	Zones     *zone.Manager
	Copy      func(string) error
	Logger    *slog.Logger
	Now       func() time.Time
}

type Model struct {
	Screen      Screen
	Status      StatusBar
	Theme       views.Theme
	HelpVisible bool
	Quitting    bool
	LastError   error

	deps Deps
	cfg  config.RuntimeConfig

	width  int
	height int

	checking bool
	authMode authMode
	auth     form
	guest    *model.GuestAccount
	copied   bool

	cursor  int
	sub     *signals.Subscription
	board   *gesture.Board
	pointer *pointerBridge
	feed    *sessionFeed
	settle  bool
	confirm *int64

	taskForm form
	profile  form
	detail   detailState

	palette      bool
	commandInput textinput.Model
	spinner      spinner.Model
	helpModel    help.Model
}

type detailState struct {
	task     model.Task
	viewport viewport.Model
}

type SetStatusMsg struct {
	Text    string
	IsError bool
}

type ClearStatusMsg struct{}

type AppErrorMsg struct {
	Err error
}

type SessionReadyMsg struct {
	State session.State
}

type LoginResultMsg struct {
	OK bool
}

type GuestResultMsg struct {
	OK      bool
	Account *model.GuestAccount
}

type RegisterResultMsg struct {
	Profile model.UserProfile
	Err     error
}

type TasksLoadedMsg struct {
	Err error
}

type TaskSavedMsg struct {
	Task    model.Task
	Created bool
	Err     error
}

type TaskFetchedMsg struct {
	Task model.Task
	Err  error
}

type TaskDeletedMsg struct {
	ID  int64
	Err error
}

type ProfileSavedMsg struct {
	Notice string
	Err    error
}

type SignalMsg struct {
	Signal signals.Signal
}

type DeadlineMsg struct {
	Event scheduler.DeadlineEvent
}

// AuthRequiredMsg is sent when the gateway or the session store resets the
// client to the auth screen.
type AuthRequiredMsg struct{}

// SessionReloadedMsg reports whether the profile survived a redirect.
type SessionReloadedMsg struct {
	OK bool
}

type SessionChangedMsg struct {
	State session.State
}

type LoggedOutMsg struct{}

type SettleMsg struct{}

func NewModel(deps Deps, cfg config.RuntimeConfig) Model {
	if deps.Logger == nil {
		deps.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if deps.Nav == nil {
		deps.Nav = NewNavigator()
	}
	if cfg.CellWidthPx <= 0 {
		cfg.CellWidthPx = 8
	}

	m := Model{
		Screen:   ScreenAuth,
		Theme:    views.ThemeByName(cfg.Theme),
		deps:     deps,
		cfg:      cfg,
		width:    120,
		height:   32,
		checking: true,
		authMode: modeLogin,
		pointer:  &pointerBridge{},
		feed:     watchSession(deps.Session),
	}
	m.board = gesture.NewBoard(gesture.Thresholds{
		Reveal: cfg.RevealThresholdPx,
		Commit: cfg.CommitThresholdPx,
	}, m.pointer, m.pointer.recordDelete)
	m.initBubbleComponents()
	return m
}

func (m *Model) initBubbleComponents() {
	m.auth = loginForm()
	m.taskForm = newTaskForm()
	m.profile = profileForm()

	m.commandInput = textinput.New()
	m.commandInput.Prompt = "/"
	m.commandInput.CharLimit = 256
	m.commandInput.Width = 48

	m.spinner = spinner.New()
	m.spinner.Spinner = spinner.Dot
	m.helpModel = help.New()
	m.detail.viewport = viewport.New(m.width/2-6, m.height-10)
}

func (m Model) now() time.Time {
	return m.deps.Now()
}

func (m Model) busy() bool {
	return m.checking || m.auth.busy || m.taskForm.busy || m.profile.busy || m.deps.Tasks.Loading()
}
