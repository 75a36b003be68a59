package update

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sandeepkv93/taskdeck/internal/views"
)

type fieldSpec struct {
	label       string
	placeholder string
	secret      bool
}

// form is a vertical stack of text inputs with one focused field.
type form struct {
	labels []string
	inputs []textinput.Model
	focus  int
	err    string
	busy   bool
}

func newForm(fields ...fieldSpec) form {
	f := form{}
	for _, spec := range fields {
		in := textinput.New()
		in.Placeholder = spec.placeholder
		in.CharLimit = 512
		in.Width = 40
		in.Prompt = ""
		if spec.secret {
			in.EchoMode = textinput.EchoPassword
			in.EchoCharacter = '*'
		}
		f.labels = append(f.labels, spec.label)
		f.inputs = append(f.inputs, in)
	}
	if len(f.inputs) > 0 {
		f.inputs[0].Focus()
	}
	return f
}

func loginForm() form {
	return newForm(
		fieldSpec{label: "email", placeholder: "you@example.com"},
		fieldSpec{label: "password", secret: true},
	)
}

func registerForm() form {
	return newForm(
		fieldSpec{label: "name", placeholder: "Alice"},
		fieldSpec{label: "email", placeholder: "you@example.com"},
		fieldSpec{label: "password", secret: true},
	)
}

func newTaskForm() form {
	return newForm(
		fieldSpec{label: "title", placeholder: "what needs doing"},
		fieldSpec{label: "description", placeholder: "markdown, optional"},
		fieldSpec{label: "priority", placeholder: "1-5, default 3"},
		fieldSpec{label: "due", placeholder: "2024-01-10T18:00, optional"},
	)
}

func profileForm() form {
	return newForm(
		fieldSpec{label: "name"},
		fieldSpec{label: "avatar url"},
		fieldSpec{label: "current password", secret: true},
		fieldSpec{label: "new password", secret: true},
	)
}

func (f *form) setFocus(i int) {
	if len(f.inputs) == 0 {
		return
	}
	if i < 0 {
		i = len(f.inputs) - 1
	}
	if i >= len(f.inputs) {
		i = 0
	}
	f.inputs[f.focus].Blur()
	f.focus = i
	f.inputs[f.focus].Focus()
}

func (f *form) next() { f.setFocus(f.focus + 1) }
func (f *form) prev() { f.setFocus(f.focus - 1) }

func (f *form) onLast() bool {
	return f.focus == len(f.inputs)-1
}

func (f *form) update(msg tea.KeyMsg) tea.Cmd {
	if len(f.inputs) == 0 {
		return nil
	}
	var cmd tea.Cmd
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	return cmd
}

func (f form) value(i int) string {
	if i < 0 || i >= len(f.inputs) {
		return ""
	}
	return strings.TrimSpace(f.inputs[i].Value())
}

// raw skips trimming, for passwords.
func (f form) raw(i int) string {
	if i < 0 || i >= len(f.inputs) {
		return ""
	}
	return f.inputs[i].Value()
}

func (f *form) set(i int, v string) {
	if i >= 0 && i < len(f.inputs) {
		f.inputs[i].SetValue(v)
	}
}

func (f *form) clear() {
	for i := range f.inputs {
		f.inputs[i].SetValue("")
	}
	f.err = ""
	f.busy = false
	f.setFocus(0)
}

func (f form) fields() []views.FieldData {
	out := make([]views.FieldData, 0, len(f.inputs))
	for i, in := range f.inputs {
		out = append(out, views.FieldData{Label: f.labels[i], View: in.View(), Focused: i == f.focus})
	}
	return out
}

// handleKey applies navigation keys and reports whether enter on the last
// field asked for a submit.
func (f *form) handleKey(msg tea.KeyMsg) (submit bool, cmd tea.Cmd) {
	switch msg.String() {
	case "tab", "down":
		f.next()
		return false, nil
	case "shift+tab", "up":
		f.prev()
		return false, nil
	case "enter":
		if f.onLast() {
			return true, nil
		}
		f.next()
		return false, nil
	case "ctrl+s":
		return true, nil
	}
	return false, f.update(msg)
}
