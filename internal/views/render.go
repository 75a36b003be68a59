package views

import (
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
)

type AppData struct {
	Header     string
	LeftPane   string
	RightPane  string
	StatusLine string
	IsError    bool
	Footer     string
	Overlay    string
	Width      int
}

func RenderApp(theme Theme, data AppData) string {
	width := data.Width
	if width <= 0 {
		width = 120
	}
	paneWidth := width/2 - 4
	if paneWidth < 30 {
		paneWidth = 30
	}

	var body string
	if strings.TrimSpace(data.RightPane) == "" {
		body = theme.panel().Width(width - 4).Render(data.LeftPane)
	} else {
		left := theme.panel().Width(paneWidth).Render(data.LeftPane)
		right := theme.panel().Width(paneWidth).Render(data.RightPane)
		body = lipgloss.JoinHorizontal(lipgloss.Top, left, right)
	}

	status := theme.status().Render(data.StatusLine)
	if data.IsError {
		status = theme.errorText().Render(data.StatusLine)
	}

	lines := []string{theme.header().Render(data.Header), body}
	if data.Overlay != "" {
		lines = append(lines, theme.panel().BorderForeground(theme.Accent).Render(data.Overlay))
	}
	if data.StatusLine != "" {
		lines = append(lines, status)
	}
	if data.Footer != "" {
		lines = append(lines, theme.muted().Render(data.Footer))
	}
	return strings.Join(lines, "\n")
}

// RenderMarkdown falls back to the raw text when glamour fails.
func RenderMarkdown(md string, theme Theme, width int) string {
	if strings.TrimSpace(md) == "" {
		return ""
	}
	opts := []glamour.TermRendererOption{glamour.WithStandardStyle(theme.Glamour)}
	if width > 0 {
		opts = append(opts, glamour.WithWordWrap(width))
	}
	r, err := glamour.NewTermRenderer(opts...)
	if err != nil {
		return md
	}
	out, err := r.Render(md)
	if err != nil {
		return md
	}
	return strings.TrimSpace(out)
}
