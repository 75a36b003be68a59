package update

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sandeepkv93/taskdeck/internal/api"
	"github.com/sandeepkv93/taskdeck/internal/views"
)

type authMode string

const (
	modeLogin    authMode = "login"
	modeRegister authMode = "register"
)

const loginFailedText = "login failed, check your email and password"

func (m Model) handleAuthKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	if m.checking || m.auth.busy {
		return m, nil
	}
	switch msg.String() {
	case "ctrl+r":
		return m.switchAuthMode(), nil
	case "ctrl+g":
		m.auth.busy = true
		m.auth.err = ""
		return m, tea.Batch(guestCmd(m.deps.Session), m.spinner.Tick)
	}

	submit, cmd := m.auth.handleKey(msg)
	if !submit {
		return m, cmd
	}
	return m.submitAuth()
}

func (m Model) switchAuthMode() Model {
	mail := ""
	if m.authMode == modeLogin {
		mail = m.auth.value(0)
		m.authMode = modeRegister
		m.auth = registerForm()
		m.auth.set(1, mail)
	} else {
		mail = m.auth.value(1)
		m.authMode = modeLogin
		m.auth = loginForm()
		m.auth.set(0, mail)
	}
	return m
}

func (m Model) submitAuth() (Model, tea.Cmd) {
	m.auth.err = ""
	switch m.authMode {
	case modeRegister:
		name, mail, password := m.auth.value(0), m.auth.value(1), m.auth.raw(2)
		if name == "" || mail == "" || password == "" {
			m.auth.err = "name, email and password are required"
			return m, nil
		}
		m.auth.busy = true
		return m, tea.Batch(registerCmd(m.deps.Session, name, mail, password), m.spinner.Tick)
	default:
		mail, password := m.auth.value(0), m.auth.raw(1)
		if mail == "" || password == "" {
			m.auth.err = "email and password are required"
			return m, nil
		}
		m.auth.busy = true
		return m, tea.Batch(loginCmd(m.deps.Session, mail, password), m.spinner.Tick)
	}
}

func (m Model) onLoginResult(msg LoginResultMsg) (Model, tea.Cmd) {
	m.auth.busy = false
	if !msg.OK {
		m.auth.err = loginFailedText
		m.auth.set(1, "")
		return m, nil
	}
	m.auth = loginForm()
	return m.enterTasks()
}

func (m Model) onGuestResult(msg GuestResultMsg) (Model, tea.Cmd) {
	m.auth.busy = false
	if !msg.OK {
		m.auth.err = "guest login failed, try again"
		return m, nil
	}
	m.guest = msg.Account
	m.copied = false
	return m.enterTasks()
}

func (m Model) onRegisterResult(msg RegisterResultMsg) (Model, tea.Cmd) {
	m.auth.busy = false
	if msg.Err != nil {
		m.auth.err = api.Message(msg.Err)
		return m, nil
	}
	m = m.switchAuthMode()
	if m.auth.value(0) == "" {
		m.auth.set(0, msg.Profile.Mail)
	}
	m.auth.setFocus(1)
	m.Status = StatusBar{Text: "account created, log in to continue"}
	return m, nil
}

func (m Model) renderAuth() string {
	data := views.AuthPanelData{
		Mode:        string(m.authMode),
		Fields:      m.auth.fields(),
		Checking:    m.checking,
		Busy:        m.auth.busy,
		SpinnerView: m.spinner.View(),
		Err:         m.auth.err,
	}
	return views.RenderAuthPanel(m.Theme, data)
}
