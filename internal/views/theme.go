package views

import "github.com/charmbracelet/lipgloss"

type Theme struct {
	Name    string
	Primary lipgloss.Color
	Accent  lipgloss.Color
	Success lipgloss.Color
	Warning lipgloss.Color
	Error   lipgloss.Color
	Muted   lipgloss.Color
	Fg      lipgloss.Color
	Border  lipgloss.Color
	// Glamour is the glamour standard style name for markdown.
	Glamour string
}

func DarkTheme() Theme {
	return Theme{
		Name:    "dark",
		Primary: lipgloss.Color("#7aa2f7"),
		Accent:  lipgloss.Color("#bb9af7"),
		Success: lipgloss.Color("#9ece6a"),
		Warning: lipgloss.Color("#e0af68"),
		Error:   lipgloss.Color("#f7768e"),
		Muted:   lipgloss.Color("#565f89"),
		Fg:      lipgloss.Color("#c0caf5"),
		Border:  lipgloss.Color("#3b4261"),
		Glamour: "dark",
	}
}

func LightTheme() Theme {
	return Theme{
		Name:    "light",
		Primary: lipgloss.Color("#2e59c7"),
		Accent:  lipgloss.Color("#7847bd"),
		Success: lipgloss.Color("#387068"),
		Warning: lipgloss.Color("#8f5e15"),
		Error:   lipgloss.Color("#c64343"),
		Muted:   lipgloss.Color("#6c6e75"),
		Fg:      lipgloss.Color("#343b58"),
		Border:  lipgloss.Color("#a8aecb"),
		Glamour: "light",
	}
}

// ThemeByName falls back to dark for unknown names.
func ThemeByName(name string) Theme {
	if name == "light" {
		return LightTheme()
	}
	return DarkTheme()
}

// Toggle returns the other theme.
func (t Theme) Toggle() Theme {
	if t.Name == "light" {
		return DarkTheme()
	}
	return LightTheme()
}

func (t Theme) header() lipgloss.Style {
	return lipgloss.NewStyle().Bold(true).Foreground(t.Primary)
}

func (t Theme) status() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.Success)
}

func (t Theme) errorText() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.Error)
}

func (t Theme) warn() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.Warning)
}

func (t Theme) muted() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.Muted)
}

func (t Theme) panel() lipgloss.Style {
	return lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(t.Border).Padding(0, 1)
}

func (t Theme) selected() lipgloss.Style {
	return lipgloss.NewStyle().Bold(true).Foreground(t.Accent)
}

func (t Theme) danger() lipgloss.Style {
	return lipgloss.NewStyle().Bold(true).Foreground(t.Error)
}
