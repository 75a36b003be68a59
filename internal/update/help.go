package update

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/sandeepkv93/taskdeck/internal/views"
)

// keyColumns feeds help.Model: global keys in the first column, keys of the
// active screen in the second.
type keyColumns [][]key.Binding

func (c keyColumns) ShortHelp() []key.Binding {
	var out []key.Binding
	for _, col := range c {
		out = append(out, col...)
	}
	return out
}

func (c keyColumns) FullHelp() [][]key.Binding { return c }

func bind(keys, desc string) key.Binding {
	return key.NewBinding(key.WithKeys(keys), key.WithHelp(keys, desc))
}

var globalKeys = []key.Binding{
	bind("/", "command palette"),
	bind("t", "toggle theme"),
	bind("?", "help"),
	bind("q", "quit"),
}

var formKeys = []key.Binding{
	bind("tab", "next field"),
	bind("ctrl+s", "save"),
	bind("esc", "cancel"),
}

var screenKeys = map[Screen][]key.Binding{
	ScreenAuth: {
		bind("tab", "next field"),
		bind("enter", "submit"),
		bind("ctrl+r", "login/register"),
		bind("ctrl+g", "guest"),
	},
	ScreenTasks: {
		bind("j/k", "select"),
		bind("enter", "open"),
		bind("n", "new task"),
		bind("s/d/u", "start/done/reopen"),
		bind("x", "delete, or drag a row left"),
		bind("r", "reload"),
		bind("p", "profile"),
		bind("c", "copy guest credentials"),
		bind("L", "log out"),
	},
	ScreenDetail: {
		bind("j/k", "scroll"),
		bind("s/d/u", "start/done/reopen"),
		bind("x", "delete"),
		bind("esc", "back"),
	},
	ScreenNewTask: formKeys,
	ScreenProfile: formKeys,
}

func (m Model) renderHelpIfVisible() string {
	if !m.HelpVisible {
		return ""
	}
	h := m.helpModel
	h.ShowAll = true
	return views.RenderHelpPanel(views.HelpPanelData{
		Screen:   string(m.Screen),
		HelpView: h.View(keyColumns{globalKeys, screenKeys[m.Screen]}),
	})
}
