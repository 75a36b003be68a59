package update

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sandeepkv93/taskdeck/internal/api"
	"github.com/sandeepkv93/taskdeck/internal/views"
)

func (m Model) openProfile() Model {
	m.profile = profileForm()
	if owner := m.deps.Session.Snapshot().Owner; owner != nil {
		m.profile.set(0, owner.Name)
		m.profile.set(1, owner.AvatarURL)
	}
	m.Screen = ScreenProfile
	return m
}

func (m Model) handleProfileKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	if m.profile.busy {
		return m, nil
	}
	if msg.String() == "esc" {
		m.Screen = ScreenTasks
		return m, nil
	}
	submit, cmd := m.profile.handleKey(msg)
	if !submit {
		return m, cmd
	}
	current, next := m.profile.raw(2), m.profile.raw(3)
	if next != "" && current == "" {
		m.profile.err = "current password is required to change it"
		return m, nil
	}
	m.profile.err = ""
	m.profile.busy = true
	return m, tea.Batch(saveProfileCmd(m.deps.Session, m.profile.value(0), m.profile.value(1), current, next), m.spinner.Tick)
}

func (m Model) onProfileSaved(msg ProfileSavedMsg) (Model, tea.Cmd) {
	m.profile.busy = false
	if msg.Err != nil {
		m.profile.err = api.Message(msg.Err)
		return m, nil
	}
	m.profile.set(2, "")
	m.profile.set(3, "")
	m.Status = StatusBar{Text: msg.Notice}
	return m, nil
}

func (m Model) renderProfile() string {
	data := views.ProfileData{
		Form: views.FormData{
			Title:  "edit",
			Fields: m.profile.fields(),
			Err:    m.profile.err,
			Hint:   "[tab]next [ctrl+s]save [esc]back",
		},
	}
	if owner := m.deps.Session.Snapshot().Owner; owner != nil {
		data.Name = owner.DisplayName()
		data.Mail = owner.Mail
		data.Guest = owner.IsGuest
	}
	return views.RenderProfile(m.Theme, data)
}
