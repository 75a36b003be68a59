package update

import (
	"strconv"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sandeepkv93/taskdeck/internal/api"
	"github.com/sandeepkv93/taskdeck/internal/model"
	"github.com/sandeepkv93/taskdeck/internal/views"
)

const stampLayout = "2006-01-02 15:04"

func (m Model) openDetail(t model.Task) (Model, tea.Cmd) {
	m.Screen = ScreenDetail
	m = m.showDetail(t)
	return m, fetchTaskCmd(m.deps.Tasks, t.ID)
}

func (m Model) showDetail(t model.Task) Model {
	m.detail.task = t
	m.detail.viewport.SetContent(views.RenderMarkdown(t.DescriptionText(), m.Theme, m.detail.viewport.Width))
	return m
}

func (m Model) onTaskFetched(msg TaskFetchedMsg) (Model, tea.Cmd) {
	if m.Screen != ScreenDetail {
		return m, nil
	}
	if msg.Err != nil {
		m.Status = StatusBar{Text: api.Message(msg.Err), IsError: true}
		if api.KindOf(msg.Err) == api.KindNotFound {
			m.Screen = ScreenTasks
		}
		return m, nil
	}
	if msg.Task.ID != m.detail.task.ID {
		return m, nil
	}
	return m.showDetail(msg.Task), nil
}

func (m Model) handleDetailKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	if m.confirm != nil {
		next, cmd := m.handleConfirmKey(msg)
		return next, cmd
	}
	switch msg.String() {
	case "esc", "backspace":
		m.Screen = ScreenTasks
		return m, nil
	case "s", "d", "u":
		return m.changeSelectedStatus(msg.String())
	case "x":
		id := m.detail.task.ID
		m.confirm = &id
		return m, nil
	}
	var cmd tea.Cmd
	m.detail.viewport, cmd = m.detail.viewport.Update(msg)
	return m, cmd
}

func (m Model) renderDetail() string {
	t := m.detail.task
	data := views.DetailData{
		Title:    t.Title,
		Status:   t.Status.Label(),
		Priority: t.Priority,
		Created:  stamp(t.CreatedAt),
		Updated:  stamp(t.UpdatedAt),
		BodyView: m.detail.viewport.View(),
	}
	if due, ok := t.Due(m.now().Location()); ok {
		data.Due = model.FormatLocal(due)
	}
	if label, ok := model.TimeUntilDue(t, m.now()); ok {
		data.DueText = label.Text
	}
	if t.DescriptionText() == "" {
		data.BodyView = ""
	}
	return views.RenderDetail(m.Theme, data)
}

func stamp(ts model.Timestamp) string {
	if ts.IsZero() {
		return "-"
	}
	return ts.Local().Format(stampLayout)
}

// submitNewTask turns the form into a draft; validation happens in the
// repository before any request.
func (m Model) submitNewTask() (Model, tea.Cmd) {
	draft := model.TaskDraft{
		Title:       m.taskForm.value(0),
		Description: m.taskForm.value(1),
		DueDate:     m.taskForm.value(3),
	}
	if raw := m.taskForm.value(2); raw != "" {
		p, err := strconv.Atoi(raw)
		if err != nil || !model.ValidPriority(p) {
			m.taskForm.err = "priority must be between 1 and 5"
			return m, nil
		}
		draft.Priority = p
	}
	if draft.DueDate != "" {
		if _, err := model.ParseDateTime(draft.DueDate, m.now().Location()); err != nil {
			m.taskForm.err = "due must look like 2024-01-10T18:00"
			return m, nil
		}
	}
	if _, err := draft.Normalize(); err != nil {
		m.taskForm.err = err.Error()
		return m, nil
	}
	m.taskForm.err = ""
	m.taskForm.busy = true
	return m, tea.Batch(createTaskCmd(m.deps.Tasks, draft), m.spinner.Tick)
}

func (m Model) handleNewTaskKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	if m.taskForm.busy {
		return m, nil
	}
	if msg.String() == "esc" {
		m.taskForm.clear()
		m.Screen = ScreenTasks
		return m, nil
	}
	submit, cmd := m.taskForm.handleKey(msg)
	if submit {
		return m.submitNewTask()
	}
	return m, cmd
}

func (m Model) renderNewTask() string {
	return views.RenderForm(m.Theme, views.FormData{
		Title:  "new task",
		Fields: m.taskForm.fields(),
		Err:    m.taskForm.err,
		Hint:   "[tab]next [enter]save on last field [ctrl+s]save [esc]cancel",
	})
}
