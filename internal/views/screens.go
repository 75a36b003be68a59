package views

import (
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"
)

type FieldData struct {
	Label   string
	View    string
	Focused bool
}

type AuthPanelData struct {
	Mode        string
	Fields      []FieldData
	Checking    bool
	Busy        bool
	SpinnerView string
	Err         string
}

type TaskRowData struct {
	Title    string
	Status   string
	Priority int
	DueText  string
	Overdue  bool
	Soon     bool
	Selected bool
	// OffsetCells is how far the row is dragged left.
	OffsetCells int
	Affordance  bool
}

type CountsData struct {
	Todo       int
	InProgress int
	Done       int
}

type TaskListData struct {
	Owner       string
	Filter      string
	Rows        []TaskRowData
	ZoneIDs     []string
	Mark        func(id, s string) string
	Width       int
	Loading     bool
	SpinnerView string
	Err         string
	Counts      CountsData
}

type UrgentData struct {
	Rows []TaskRowData
}

type DetailData struct {
	Title    string
	Status   string
	Priority int
	Due      string
	DueText  string
	Created  string
	Updated  string
	BodyView string
}

type FormData struct {
	Title  string
	Fields []FieldData
	Err    string
	Hint   string
}

type ProfileData struct {
	Name   string
	Mail   string
	Guest  bool
	Form   FormData
	Notice string
}

type ConfirmData struct {
	Prompt string
	Title  string
}

type GuestCredentialsData struct {
	ID       string
	Password string
	Copied   bool
}

type HelpPanelData struct {
	Screen   string
	HelpView string
}

const deleteLabel = " delete "

func RenderAuthPanel(theme Theme, data AuthPanelData) string {
	var b strings.Builder
	if data.Checking {
		b.WriteString(fmt.Sprintf("%s checking session...", data.SpinnerView))
		return b.String()
	}
	b.WriteString(theme.header().Render(data.Mode) + "\n")
	for _, f := range data.Fields {
		b.WriteString(renderField(theme, f) + "\n")
	}
	if data.Busy {
		b.WriteString(data.SpinnerView + " working...\n")
	}
	if data.Err != "" {
		b.WriteString(theme.errorText().Render("error: "+data.Err) + "\n")
	}
	b.WriteString(theme.muted().Render("actions: [tab]next [enter]submit [ctrl+r]login/register [ctrl+g]guest"))
	return strings.TrimSpace(b.String())
}

func renderField(theme Theme, f FieldData) string {
	label := fmt.Sprintf("%-18s", f.Label+":")
	if f.Focused {
		return theme.selected().Render(label) + f.View
	}
	return label + f.View
}

func RenderTaskList(theme Theme, data TaskListData) string {
	var b strings.Builder
	header := "tasks"
	if data.Owner != "" {
		header = fmt.Sprintf("tasks for %s", data.Owner)
	}
	b.WriteString(theme.header().Render(header) + "\n")
	b.WriteString(theme.muted().Render(RenderCounts(data.Counts)) + "\n")
	if data.Filter != "" {
		b.WriteString(theme.muted().Render("filter: "+data.Filter) + "\n")
	}
	if data.Loading {
		b.WriteString(data.SpinnerView + " loading...\n")
	}
	if data.Err != "" {
		b.WriteString(theme.errorText().Render(data.Err) + "\n")
	}
	if len(data.Rows) == 0 && !data.Loading && data.Err == "" {
		b.WriteString("(no tasks)")
		return strings.TrimSpace(b.String())
	}
	for i, row := range data.Rows {
		line := RenderTaskRow(theme, row, data.Width)
		if data.Mark != nil && i < len(data.ZoneIDs) {
			line = data.Mark(data.ZoneIDs[i], line)
		}
		b.WriteString(line + "\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

// RenderTaskRow lays out one row at width cells, shifted left by the drag
// offset with the delete label revealed in the gap.
func RenderTaskRow(theme Theme, row TaskRowData, width int) string {
	if width <= 0 {
		width = 56
	}
	cursor := " "
	if row.Selected {
		cursor = ">"
	}
	plain := fmt.Sprintf("%s %s P%d %s", cursor, statusGlyph(row.Status), row.Priority, row.Title)
	if row.DueText != "" {
		plain += " (" + row.DueText + ")"
	}
	plain = runewidth.Truncate(plain, width, "…")

	offset := row.OffsetCells
	if offset <= 0 {
		return styleRow(theme, row, runewidth.FillRight(plain, width))
	}
	if offset > width {
		offset = width
	}
	shifted := runewidth.FillRight(runewidth.TruncateLeft(plain, offset, ""), width-offset)
	gap := strings.Repeat(" ", offset)
	if row.Affordance {
		gap = theme.danger().Render(runewidth.FillLeft(runewidth.Truncate(deleteLabel, offset, ""), offset))
	}
	return styleRow(theme, row, shifted) + gap
}

func styleRow(theme Theme, row TaskRowData, s string) string {
	switch {
	case row.Selected:
		return theme.selected().Render(s)
	case row.Overdue:
		return theme.errorText().Render(s)
	case row.Soon:
		return theme.warn().Render(s)
	default:
		return s
	}
}

func statusGlyph(status string) string {
	switch status {
	case "done":
		return "[x]"
	case "in_progress":
		return "[~]"
	default:
		return "[ ]"
	}
}

func RenderCounts(c CountsData) string {
	return fmt.Sprintf("todo %d | in progress %d | done %d", c.Todo, c.InProgress, c.Done)
}

func RenderUrgent(theme Theme, data UrgentData) string {
	var b strings.Builder
	b.WriteString(theme.warn().Render(fmt.Sprintf("urgent (%d):", len(data.Rows))) + "\n")
	if len(data.Rows) == 0 {
		b.WriteString("  nothing due before tomorrow ends")
		return b.String()
	}
	for _, row := range data.Rows {
		line := fmt.Sprintf("- %s", row.Title)
		if row.DueText != "" {
			line += " | " + row.DueText
		}
		if row.Overdue {
			line = theme.errorText().Render(line)
		}
		b.WriteString(line + "\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func RenderDetail(theme Theme, data DetailData) string {
	var b strings.Builder
	b.WriteString(theme.header().Render(data.Title) + "\n")
	b.WriteString(fmt.Sprintf("status: %s | priority: P%d\n", data.Status, data.Priority))
	if data.Due != "" {
		due := "due: " + data.Due
		if data.DueText != "" {
			due += " (" + data.DueText + ")"
		}
		b.WriteString(due + "\n")
	}
	b.WriteString(theme.muted().Render(fmt.Sprintf("created %s | updated %s", data.Created, data.Updated)) + "\n\n")
	if strings.TrimSpace(data.BodyView) == "" {
		b.WriteString(theme.muted().Render("(no description)"))
	} else {
		b.WriteString(data.BodyView)
	}
	b.WriteString("\n" + theme.muted().Render("actions: [esc]back [s]start [d]done [u]reopen [x]delete"))
	return b.String()
}

func RenderForm(theme Theme, data FormData) string {
	var b strings.Builder
	b.WriteString(theme.header().Render(data.Title) + "\n")
	for _, f := range data.Fields {
		b.WriteString(renderField(theme, f) + "\n")
	}
	if data.Err != "" {
		b.WriteString(theme.errorText().Render("error: "+data.Err) + "\n")
	}
	if data.Hint != "" {
		b.WriteString(theme.muted().Render(data.Hint))
	}
	return strings.TrimSpace(b.String())
}

func RenderProfile(theme Theme, data ProfileData) string {
	var b strings.Builder
	b.WriteString(theme.header().Render("profile") + "\n")
	b.WriteString(fmt.Sprintf("name: %s\nmail: %s\n", data.Name, data.Mail))
	if data.Guest {
		b.WriteString(theme.warn().Render("guest account") + "\n")
	}
	if data.Notice != "" {
		b.WriteString(theme.status().Render(data.Notice) + "\n")
	}
	b.WriteString("\n" + RenderForm(theme, data.Form))
	return b.String()
}

func RenderConfirm(theme Theme, data ConfirmData) string {
	return fmt.Sprintf("%s\n%s\n%s",
		theme.danger().Render(data.Prompt),
		data.Title,
		theme.muted().Render("[y]es / [n]o"),
	)
}

func RenderGuestCredentials(theme Theme, data GuestCredentialsData) string {
	var b strings.Builder
	b.WriteString(theme.warn().Render("guest account created, save these to log in again:") + "\n")
	b.WriteString(fmt.Sprintf("id:       %s\npassword: %s\n", data.ID, data.Password))
	if data.Copied {
		b.WriteString(theme.status().Render("copied to clipboard"))
	} else {
		b.WriteString(theme.muted().Render("[c] copy to clipboard"))
	}
	return b.String()
}

func RenderCommandPalette(active bool, inputView string) string {
	if !active {
		return ""
	}
	return fmt.Sprintf("command: %s\nsearch <kw> | status <a,b|all> | sort <order> | reload | add <title> | theme [light|dark] | logout", inputView)
}

func RenderHelpPanel(data HelpPanelData) string {
	return fmt.Sprintf("keys (%s)\n%s", data.Screen, data.HelpView)
}
