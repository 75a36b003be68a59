package update

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sandeepkv93/taskdeck/internal/views"
)

func (m Model) Init() tea.Cmd {
	return tea.Batch(
		initSessionCmd(m.deps.Session),
		waitForAuthCmd(m.deps.Nav),
		waitForSessionCmd(m.feed),
		waitForDeadlineCmd(m.deps.Deadlines),
		m.spinner.Tick,
	)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch typed := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = typed.Width, typed.Height
		m.detail.viewport.Width = max(20, m.width/2-6)
		m.detail.viewport.Height = max(5, m.height-12)
		if m.Screen == ScreenDetail {
			m = m.showDetail(m.detail.task)
		}
		return m, nil
	case tea.KeyMsg:
		return m.handleKey(typed)
	case tea.MouseMsg:
		return m.handleMouse(typed)
	case spinner.TickMsg:
		if !m.busy() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(typed)
		return m, cmd
	case SessionReadyMsg:
		m.checking = false
		if typed.State.LoggedIn() {
			return m.enterTasks()
		}
		return m, nil
	case LoginResultMsg:
		return m.onLoginResult(typed)
	case GuestResultMsg:
		return m.onGuestResult(typed)
	case RegisterResultMsg:
		return m.onRegisterResult(typed)
	case TasksLoadedMsg:
		return m.onTasksLoaded(typed)
	case TaskSavedMsg:
		return m.onTaskSaved(typed)
	case TaskFetchedMsg:
		return m.onTaskFetched(typed)
	case TaskDeletedMsg:
		return m.onTaskDeleted(typed)
	case ProfileSavedMsg:
		return m.onProfileSaved(typed)
	case SignalMsg:
		return m.onSignal(typed)
	case DeadlineMsg:
		return m.onDeadline(typed)
	case SettleMsg:
		return m.onSettle()
	case AuthRequiredMsg:
		next := waitForAuthCmd(m.deps.Nav)
		if m.deps.Session.Credential() != "" {
			// A rejected credential must resolve to a profile or be cleared.
			next = tea.Batch(next, reloadUserCmd(m.deps.Session))
		}
		if m.Screen == ScreenAuth {
			return m, next
		}
		m = m.leaveTasks()
		m.Status = StatusBar{Text: "please log in to continue"}
		return m, next
	case SessionReloadedMsg:
		if !typed.OK {
			m.Status = StatusBar{Text: "session expired, please log in again", IsError: true}
			return m, nil
		}
		if m.Screen == ScreenAuth {
			m.Status = StatusBar{}
			return m.enterTasks()
		}
		return m, nil
	case SessionChangedMsg:
		next := waitForSessionCmd(m.feed)
		if typed.State.LoggedIn() || m.Screen == ScreenAuth {
			return m, next
		}
		m = m.leaveTasks()
		m.Status = StatusBar{Text: "session ended"}
		return m, next
	case LoggedOutMsg:
		if m.Screen != ScreenAuth {
			m = m.leaveTasks()
		}
		m.Status = StatusBar{Text: "logged out"}
		return m, nil
	case SetStatusMsg:
		m.Status = StatusBar{Text: typed.Text, IsError: typed.IsError}
		return m, nil
	case ClearStatusMsg:
		m.Status = StatusBar{}
		return m, nil
	case AppErrorMsg:
		m.LastError = typed.Err
		if typed.Err != nil {
			m.Status = StatusBar{Text: typed.Err.Error(), IsError: true}
			m.deps.Logger.Warn("app error", "err", typed.Err)
		}
		return m, nil
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		m.Quitting = true
		return m, tea.Quit
	}
	if m.palette {
		return m.handlePaletteKey(msg)
	}
	switch m.Screen {
	case ScreenAuth:
		return m.handleAuthKey(msg)
	case ScreenNewTask:
		return m.handleNewTaskKey(msg)
	case ScreenProfile:
		return m.handleProfileKey(msg)
	}

	if m.confirm == nil {
		switch msg.String() {
		case "/":
			return m.openPalette(), nil
		case "t":
			return m.applyTheme("")
		case "?":
			m.HelpVisible = !m.HelpVisible
			return m, nil
		case "q":
			m.Quitting = true
			return m, tea.Quit
		}
	}
	if m.Screen == ScreenDetail {
		return m.handleDetailKey(msg)
	}
	return m.handleTasksKey(msg)
}

func (m Model) View() string {
	if m.Quitting {
		return ""
	}
	header := "taskdeck"
	if owner := m.deps.Session.Snapshot().Owner; owner != nil {
		header = fmt.Sprintf("taskdeck | %s", owner.DisplayName())
		if owner.IsGuest {
			header += " (guest)"
		}
	}
	header += " | theme: " + m.Theme.Name

	paneWidth := max(30, m.width/2-8)
	left, right := "", ""
	switch m.Screen {
	case ScreenAuth:
		left = m.renderAuth()
		right = m.renderHelpIfVisible()
	case ScreenTasks:
		left = m.renderTaskList(paneWidth)
		right = joinSections(m.renderUrgent(), m.renderGuest(), m.renderPalette(), m.renderHelpIfVisible())
	case ScreenNewTask:
		left = m.renderNewTask()
		right = m.renderTaskList(paneWidth)
	case ScreenDetail:
		left = m.renderDetail()
		right = joinSections(m.renderPalette(), m.renderHelpIfVisible())
	case ScreenProfile:
		left = m.renderProfile()
		right = m.renderHelpIfVisible()
	}

	out := views.RenderApp(m.Theme, views.AppData{
		Header:     header,
		LeftPane:   left,
		RightPane:  right,
		StatusLine: m.Status.Text,
		IsError:    m.Status.IsError,
		Overlay:    m.renderConfirm(),
		Footer:     m.footer(),
		Width:      m.width,
	})
	if m.deps.Zones != nil {
		return m.deps.Zones.Scan(out)
	}
	return out
}

func (m Model) renderPalette() string {
	return views.RenderCommandPalette(m.palette, m.commandInput.View())
}

func (m Model) footer() string {
	switch m.Screen {
	case ScreenAuth:
		return "keys: tab next | enter submit | ctrl+r register | ctrl+g guest | ctrl+c quit"
	case ScreenTasks:
		return "keys: j/k move | enter open | n new | s/d/u status | x delete | / cmd | t theme | p profile | ? help | q quit"
	default:
		return "keys: esc back | ? help | ctrl+c quit"
	}
}

func joinSections(parts ...string) string {
	kept := make([]string, 0, len(parts))
	for _, p := range parts {
		if strings.TrimSpace(p) != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, "\n\n")
}
