package update

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sandeepkv93/taskdeck/internal/commands"
	"github.com/sandeepkv93/taskdeck/internal/model"
	"github.com/sandeepkv93/taskdeck/internal/storage"
)

func (m Model) openPalette() Model {
	m.palette = true
	m.commandInput.SetValue("")
	m.commandInput.Focus()
	m.Status = StatusBar{Text: "command palette active"}
	return m
}

func (m Model) closePalette() Model {
	m.palette = false
	m.commandInput.SetValue("")
	m.commandInput.Blur()
	return m
}

func (m Model) handlePaletteKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m = m.closePalette()
		m.Status = StatusBar{Text: "command palette closed"}
		return m, nil
	case "enter":
		return m.executePaletteCommand()
	}
	var cmd tea.Cmd
	m.commandInput, cmd = m.commandInput.Update(msg)
	return m, cmd
}

func (m Model) executePaletteCommand() (Model, tea.Cmd) {
	raw := strings.TrimSpace(m.commandInput.Value())
	m = m.closePalette()
	cmd, err := commands.Parse(raw)
	if err != nil {
		m.Status = StatusBar{Text: err.Error(), IsError: true}
		return m, nil
	}

	var pending tea.Cmd
	res, err := commands.Execute(cmd, m.deps.Bus, commands.Handlers{
		Add: func(a commands.AddArgs) (commands.Result, error) {
			pending = createTaskCmd(m.deps.Tasks, model.TaskDraft{Title: a.Title})
			return commands.Result{Message: fmt.Sprintf("adding %q", a.Title)}, nil
		},
		Theme: func(a commands.ThemeArgs) (commands.Result, error) {
			var next tea.Cmd
			m, next = m.applyTheme(a.Name)
			pending = next
			return commands.Result{Message: "theme: " + m.Theme.Name}, nil
		},
		Logout: func() (commands.Result, error) {
			pending = logoutCmd(m.deps.Session)
			return commands.Result{Message: "logging out"}, nil
		},
	})
	if err != nil {
		m.Status = StatusBar{Text: err.Error(), IsError: true}
		return m, nil
	}
	m.Status = StatusBar{Text: res.Message}
	return m, pending
}

// applyTheme switches to name, or toggles when name is empty, and persists
// the choice.
func (m Model) applyTheme(name string) (Model, tea.Cmd) {
	if name != m.Theme.Name {
		m.Theme = m.Theme.Toggle()
	}
	if m.Screen == ScreenDetail {
		m = m.showDetail(m.detail.task)
	}
	return m, savePreferenceCmd(m, storage.PreferenceTheme, m.Theme.Name)
}
