package update

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sandeepkv93/taskdeck/internal/api"
	"github.com/sandeepkv93/taskdeck/internal/gesture"
	"github.com/sandeepkv93/taskdeck/internal/model"
	"github.com/sandeepkv93/taskdeck/internal/scheduler"
	"github.com/sandeepkv93/taskdeck/internal/signals"
	"github.com/sandeepkv93/taskdeck/internal/storage"
	"github.com/sandeepkv93/taskdeck/internal/tasks"
	"github.com/sandeepkv93/taskdeck/internal/views"
)

const (
	keySource  = "keys"
	zonePrefix = "task-"
	// settleStepPx is how far a snapped-back row moves per tick.
	settleStepPx = 16
)

// enterTasks mounts the task list: it subscribes to the bus and loads the
// first page with the current filter.
func (m Model) enterTasks() (Model, tea.Cmd) {
	m.Screen = ScreenTasks
	m.checking = false
	m.deps.Nav.setOnAuth(false)
	var cmds []tea.Cmd
	if m.sub == nil && m.deps.Bus != nil {
		m.sub = m.deps.Bus.Subscribe(signals.KindReload, signals.KindSearch)
		cmds = append(cmds, waitForSignalCmd(m.sub))
	}
	cmds = append(cmds, listTasksCmd(m.deps.Tasks, m.deps.Tasks.Filter()), m.spinner.Tick)
	return m, tea.Batch(cmds...)
}

// leaveTasks unmounts the task list and drops every cached task.
func (m Model) leaveTasks() Model {
	m.sub.Close()
	m.sub = nil
	m.board.Sync(nil)
	m.pointer.takeDeletes()
	m.confirm = nil
	m.palette = false
	m.guest = nil
	m.cursor = 0
	m.deps.Tasks.Reset(model.Filter{Sort: m.deps.Tasks.Filter().Sort})
	if m.deps.Deadlines != nil {
		m.deps.Deadlines.Clear()
	}
	m.deps.Nav.setOnAuth(true)
	m.Screen = ScreenAuth
	m.checking = false
	m.auth = loginForm()
	m.authMode = modeLogin
	return m
}

func (m Model) selectedTask() (model.Task, bool) {
	list := m.deps.Tasks.Tasks()
	if m.cursor < 0 || m.cursor >= len(list) {
		return model.Task{}, false
	}
	return list[m.cursor], true
}

func (m Model) clampCursor() Model {
	n := len(m.deps.Tasks.Tasks())
	if m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
	return m
}

func rowID(id int64) string {
	return strconv.FormatInt(id, 10)
}

// syncRows keeps gesture recognizers and deadline timers in step with the
// cached list.
func (m Model) syncRows() {
	list := m.deps.Tasks.Tasks()
	ids := make([]string, 0, len(list))
	for _, t := range list {
		ids = append(ids, rowID(t.ID))
	}
	m.board.Sync(ids)
	if m.deps.Deadlines != nil {
		if err := m.deps.Deadlines.Replace(scheduler.Plan(list, m.now())); err != nil {
			m.deps.Logger.Warn("schedule deadlines failed", "err", err)
		}
	}
}

func (m Model) handleTasksKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	if m.confirm != nil {
		return m.handleConfirmKey(msg)
	}
	switch msg.String() {
	case "j", "down":
		m.cursor++
		return m.clampCursor(), nil
	case "k", "up":
		m.cursor--
		return m.clampCursor(), nil
	case "enter":
		t, ok := m.selectedTask()
		if !ok {
			return m, nil
		}
		return m.openDetail(t)
	case "n":
		m.taskForm.clear()
		m.Screen = ScreenNewTask
		return m, nil
	case "x":
		if t, ok := m.selectedTask(); ok {
			id := t.ID
			m.confirm = &id
		}
		return m, nil
	case "s", "d", "u":
		return m.changeSelectedStatus(msg.String())
	case "r":
		if m.deps.Bus != nil {
			m.deps.Bus.Publish(signals.Reload(keySource))
		}
		return m, nil
	case "c":
		if m.guest != nil {
			m.copied = true
			return m, copyCmd(m.deps.Copy, fmt.Sprintf("id: %s\npassword: %s", m.guest.ID, m.guest.Password))
		}
		return m, nil
	case "esc":
		m.guest = nil
		return m, nil
	case "p":
		return m.openProfile(), nil
	case "L":
		return m, logoutCmd(m.deps.Session)
	}
	return m, nil
}

func statusForKey(k string) model.TaskStatus {
	switch k {
	case "s":
		return model.StatusInProgress
	case "d":
		return model.StatusDone
	default:
		return model.StatusTodo
	}
}

func (m Model) changeSelectedStatus(k string) (Model, tea.Cmd) {
	t, ok := m.selectedTask()
	if m.Screen == ScreenDetail {
		t, ok = m.detail.task, true
	}
	if !ok {
		return m, nil
	}
	next := statusForKey(k)
	if t.Status == next {
		return m, nil
	}
	return m, updateTaskCmd(m.deps.Tasks, t.ID, model.StatusPatch(next))
}

func (m Model) handleConfirmKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	id := *m.confirm
	switch msg.String() {
	case "y", "enter":
		m.confirm = nil
		return m, deleteTaskCmd(m.deps.Tasks, id)
	case "n", "esc":
		m.confirm = nil
		err := m.deps.Tasks.Delete(context.Background(), id, tasks.Confirmed(false))
		if errors.Is(err, tasks.ErrDeleteCancelled) {
			m.Status = StatusBar{Text: "delete cancelled"}
		}
		return m.resetRow(id)
	}
	return m, nil
}

// resetRow animates a confirmed row back to rest.
func (m Model) resetRow(id int64) (Model, tea.Cmd) {
	rec := m.board.Row(rowID(id))
	if rec == nil || rec.State() != gesture.Confirmed {
		return m, nil
	}
	rec.Reset()
	return m.startSettle()
}

func (m Model) startSettle() (Model, tea.Cmd) {
	if m.settle {
		return m, nil
	}
	m.settle = true
	return m, settleTickCmd()
}

func (m Model) onSettle() (Model, tea.Cmd) {
	if m.board.Settle(settleStepPx) {
		return m, settleTickCmd()
	}
	m.settle = false
	return m, nil
}

func (m Model) handleMouse(msg tea.MouseMsg) (Model, tea.Cmd) {
	if m.Screen != ScreenTasks || m.confirm != nil {
		return m, nil
	}
	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft {
			return m, nil
		}
		id, ok := m.rowAt(msg)
		if !ok {
			return m, nil
		}
		return m.pointerDown(id, msg.X)
	case tea.MouseActionMotion:
		return m.pointerMove(msg.X)
	case tea.MouseActionRelease:
		return m.pointerUp()
	}
	return m, nil
}

func (m Model) rowAt(msg tea.MouseMsg) (int64, bool) {
	if m.deps.Zones == nil {
		return 0, false
	}
	for _, t := range m.deps.Tasks.Tasks() {
		z := m.deps.Zones.Get(zonePrefix + rowID(t.ID))
		if z != nil && z.InBounds(msg) {
			return t.ID, true
		}
	}
	return 0, false
}

func (m Model) px(cells int) int {
	return cells * m.cfg.CellWidthPx
}

func (m Model) pointerDown(id int64, x int) (Model, tea.Cmd) {
	for i, t := range m.deps.Tasks.Tasks() {
		if t.ID == id {
			m.cursor = i
			break
		}
	}
	m.board.Press(rowID(id), m.px(x))
	return m, m.pointer.drain()
}

func (m Model) pointerMove(x int) (Model, tea.Cmd) {
	if _, ok := m.board.Active(); !ok {
		return m, nil
	}
	m.board.Move(m.px(x))
	return m, nil
}

func (m Model) pointerUp() (Model, tea.Cmd) {
	row, state, ok := m.board.Release()
	if !ok {
		return m, nil
	}
	cmds := []tea.Cmd{m.pointer.drain()}
	for _, deleted := range m.pointer.takeDeletes() {
		if id, err := strconv.ParseInt(deleted, 10, 64); err == nil {
			m.confirm = &id
		}
	}
	if state == gesture.Idle && m.board.Row(row) != nil && m.board.Row(row).Offset() != 0 {
		var cmd tea.Cmd
		m, cmd = m.startSettle()
		cmds = append(cmds, cmd)
	}
	return m, tea.Batch(cmds...)
}

func (m Model) onTasksLoaded(msg TasksLoadedMsg) (Model, tea.Cmd) {
	if errors.Is(msg.Err, tasks.ErrSuperseded) {
		return m, nil
	}
	if msg.Err != nil {
		m.deps.Logger.Warn("list tasks failed", "err", msg.Err)
	}
	m.syncRows()
	return m.clampCursor(), nil
}

func (m Model) onTaskSaved(msg TaskSavedMsg) (Model, tea.Cmd) {
	if msg.Err != nil {
		text := api.Message(msg.Err)
		if msg.Created && m.Screen == ScreenNewTask {
			m.taskForm.busy = false
			m.taskForm.err = text
			return m, nil
		}
		m.Status = StatusBar{Text: text, IsError: true}
		return m, nil
	}
	m.syncRows()
	if msg.Created {
		m.taskForm.clear()
		if m.Screen == ScreenNewTask {
			m.Screen = ScreenTasks
		}
		m.Status = StatusBar{Text: fmt.Sprintf("created %q", msg.Task.Title)}
		return m, nil
	}
	if m.Screen == ScreenDetail && m.detail.task.ID == msg.Task.ID {
		m = m.showDetail(msg.Task)
	}
	m.Status = StatusBar{Text: fmt.Sprintf("%q is now %s", msg.Task.Title, msg.Task.Status.Label())}
	return m, nil
}

func (m Model) onTaskDeleted(msg TaskDeletedMsg) (Model, tea.Cmd) {
	if msg.Err != nil {
		m.Status = StatusBar{Text: api.Message(msg.Err), IsError: true}
		return m.resetRow(msg.ID)
	}
	m.syncRows()
	if m.Screen == ScreenDetail && m.detail.task.ID == msg.ID {
		m.Screen = ScreenTasks
	}
	m.Status = StatusBar{Text: "task deleted"}
	return m.clampCursor(), nil
}

func (m Model) onSignal(msg SignalMsg) (Model, tea.Cmd) {
	if m.sub == nil {
		return m, nil
	}
	next := waitForSignalCmd(m.sub)
	switch msg.Signal.Kind {
	case signals.KindReload:
		return m, tea.Batch(next, reloadTasksCmd(m.deps.Tasks), m.spinner.Tick)
	case signals.KindSearch:
		cmds := []tea.Cmd{next, searchTasksCmd(m.deps.Tasks, msg.Signal.Search), m.spinner.Tick}
		if p := msg.Signal.Search.Sort; p != nil {
			cmds = append(cmds, savePreferenceCmd(m, storage.PreferenceSort, string(*p)))
		}
		m.cursor = 0
		return m, tea.Batch(cmds...)
	}
	return m, next
}

func (m Model) onDeadline(msg DeadlineMsg) (Model, tea.Cmd) {
	next := waitForDeadlineCmd(m.deps.Deadlines)
	if m.Screen == ScreenAuth {
		return m, next
	}
	if msg.Event.Kind == scheduler.KindRollover {
		m.syncRows()
	}
	if msg.Event.Kind == scheduler.KindDue {
		if t, ok := m.deps.Tasks.Find(msg.Event.TaskID); ok {
			m.Status = StatusBar{Text: fmt.Sprintf("%q is now overdue", t.Title), IsError: true}
		}
	}
	return m, next
}

func (m Model) filterText() string {
	f := m.deps.Tasks.Filter()
	var parts []string
	if f.Keyword != "" {
		parts = append(parts, fmt.Sprintf("q=%q", f.Keyword))
	}
	if len(f.Statuses) > 0 {
		names := make([]string, 0, len(f.Statuses))
		for _, s := range f.Statuses {
			names = append(names, string(s))
		}
		parts = append(parts, "status="+strings.Join(names, ","))
	}
	if f.Sort != "" {
		parts = append(parts, "sort="+string(f.Sort))
	}
	return strings.Join(parts, " ")
}

func (m Model) rowData(t model.Task, selected bool) views.TaskRowData {
	row := views.TaskRowData{
		Title:    t.Title,
		Status:   string(t.Status),
		Priority: t.Priority,
		Selected: selected,
	}
	if label, ok := model.TimeUntilDue(t, m.now()); ok {
		row.DueText = label.Text
		row.Overdue = label.Overdue
		row.Soon = label.Soon
	}
	if rec := m.board.Row(rowID(t.ID)); rec != nil {
		row.OffsetCells = -rec.Offset() / m.cfg.CellWidthPx
		row.Affordance = rec.AffordanceVisible()
	}
	return row
}

func (m Model) renderTaskList(width int) string {
	list := m.deps.Tasks.Tasks()
	rows := make([]views.TaskRowData, 0, len(list))
	zones := make([]string, 0, len(list))
	for i, t := range list {
		rows = append(rows, m.rowData(t, i == m.cursor))
		zones = append(zones, zonePrefix+rowID(t.ID))
	}
	data := views.TaskListData{
		Filter:      m.filterText(),
		Rows:        rows,
		ZoneIDs:     zones,
		Width:       width,
		Loading:     m.deps.Tasks.Loading(),
		SpinnerView: m.spinner.View(),
		Err:         m.deps.Tasks.Err(),
	}
	if owner := m.deps.Session.Snapshot().Owner; owner != nil {
		data.Owner = owner.DisplayName()
	}
	if m.deps.Zones != nil {
		data.Mark = m.deps.Zones.Mark
	}
	c := m.deps.Tasks.Counts()
	data.Counts = views.CountsData{Todo: c.Todo, InProgress: c.InProgress, Done: c.Done}
	return views.RenderTaskList(m.Theme, data)
}

func (m Model) renderUrgent() string {
	now := m.now()
	urgent := m.deps.Tasks.Urgent(now)
	rows := make([]views.TaskRowData, 0, len(urgent))
	for _, t := range urgent {
		rows = append(rows, m.rowData(t, false))
	}
	return views.RenderUrgent(m.Theme, views.UrgentData{Rows: rows})
}

func (m Model) renderConfirm() string {
	if m.confirm == nil {
		return ""
	}
	title := ""
	if t, ok := m.deps.Tasks.Find(*m.confirm); ok {
		title = t.Title
	}
	return views.RenderConfirm(m.Theme, views.ConfirmData{Prompt: "delete this task?", Title: title})
}

func (m Model) renderGuest() string {
	if m.guest == nil {
		return ""
	}
	return views.RenderGuestCredentials(m.Theme, views.GuestCredentialsData{
		ID:       m.guest.ID.String(),
		Password: m.guest.Password,
		Copied:   m.copied,
	})
}
