package cli

import (
	"fmt"
	"strconv"
	"time"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"
	"github.com/sandeepkv93/taskdeck/internal/model"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7aa2f7"))
	okStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#9ece6a"))
	mutedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#565f89"))
	warnStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#e0af68"))
)

// taskTable renders tasks as a static table; the model is never focused.
func taskTable(list []model.Task, now time.Time) string {
	cols := []table.Column{
		{Title: "ID", Width: 6},
		{Title: "Status", Width: 12},
		{Title: "P", Width: 2},
		{Title: "Due", Width: 16},
		{Title: "Title", Width: 40},
	}
	rows := make([]table.Row, 0, len(list))
	for _, t := range list {
		rows = append(rows, table.Row{
			strconv.FormatInt(t.ID, 10),
			t.Status.Label(),
			strconv.Itoa(t.Priority),
			dueText(t, now),
			t.Title,
		})
	}
	styles := table.DefaultStyles()
	styles.Selected = lipgloss.NewStyle()
	tbl := table.New(
		table.WithColumns(cols),
		table.WithRows(rows),
		table.WithHeight(len(rows)+2),
		table.WithStyles(styles),
	)
	return tbl.View()
}

func dueText(t model.Task, now time.Time) string {
	label, ok := model.TimeUntilDue(t, now)
	if !ok {
		return "-"
	}
	return label.Text
}

func taskDetail(t model.Task, now time.Time) string {
	out := headerStyle.Render(t.Title) + "\n"
	out += fmt.Sprintf("id: %d | status: %s | priority: P%d\n", t.ID, t.Status.Label(), t.Priority)
	if due, ok := t.Due(now.Location()); ok {
		line := fmt.Sprintf("due: %s (%s)", model.FormatLocal(due), dueText(t, now))
		if model.IsUrgent(t, now) {
			line = warnStyle.Render(line)
		}
		out += line + "\n"
	}
	if desc := t.DescriptionText(); desc != "" {
		out += "\n" + desc + "\n"
	}
	return out
}
