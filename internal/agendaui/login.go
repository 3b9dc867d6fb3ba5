package agendaui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/charmbracelet/bubbles/textinput"

	"github.com/satchel-tui/satchel/internal/api"
	"github.com/satchel-tui/satchel/internal/listview"
)

type loginState struct {
	registering bool
	email       textinput.Model
	name        textinput.Model
	password    textinput.Model
	focus       int
	submitting  bool
	err         error
	notice      string
}

func newLoginState() loginState {
	email := textinput.New()
	email.Placeholder = "email"
	email.Prompt = "  "
	email.CharLimit = 120

	name := textinput.New()
	name.Placeholder = "name"
	name.Prompt = "  "
	name.CharLimit = 120

	password := textinput.New()
	password.Placeholder = "password"
	password.Prompt = "  "
	password.EchoMode = textinput.EchoPassword
	password.CharLimit = 120

	return loginState{email: email, name: name, password: password}
}

func (l *loginState) fields() []*textinput.Model {
	if l.registering {
		return []*textinput.Model{&l.email, &l.name, &l.password}
	}
	return []*textinput.Model{&l.email, &l.password}
}

func (l *loginState) focusFirst() tea.Cmd {
	l.focus = 0
	return l.applyFocus()
}

func (l *loginState) applyFocus() tea.Cmd {
	var cmd tea.Cmd
	for i, f := range l.fields() {
		if i == l.focus {
			cmd = f.Focus()
		} else {
			f.Blur()
		}
	}
	return cmd
}

func (m Model) handleLoginKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.login.submitting {
		return m, nil
	}

	switch msg.String() {
	case "tab", "down":
		m.login.focus = (m.login.focus + 1) % len(m.login.fields())
		return m, m.login.applyFocus()

	case "shift+tab", "up":
		n := len(m.login.fields())
		m.login.focus = (m.login.focus + n - 1) % n
		return m, m.login.applyFocus()

	case "ctrl+r":
		m.login.registering = !m.login.registering
		m.login.err = nil
		return m, m.login.focusFirst()

	case "enter":
		return m.submitLogin()
	}

	fields := m.login.fields()
	var cmd tea.Cmd
	*fields[m.login.focus], cmd = fields[m.login.focus].Update(msg)
	return m, cmd
}

func (m Model) submitLogin() (tea.Model, tea.Cmd) {
	required := []listview.Field{{Name: "email", Value: m.login.email.Value()}}
	if m.login.registering {
		required = append(required, listview.Field{Name: "name", Value: m.login.name.Value()})
	}
	required = append(required, listview.Field{Name: "password", Value: m.login.password.Value()})

	if err := listview.CheckRequired(required...); err != nil {
		m.login.err = err
		return m, nil
	}

	m.login.submitting = true
	m.login.err = nil
	m.login.notice = ""

	if m.login.registering {
		return m, registerCmd(m.ctx, m.session, api.Registration{
			Email:    m.login.email.Value(),
			Name:     m.login.name.Value(),
			Password: m.login.password.Value(),
		})
	}
	return m, loginCmd(m.ctx, m.session, api.Credentials{
		Email:    m.login.email.Value(),
		Password: m.login.password.Value(),
	})
}

func (m Model) renderLogin() string {
	title := "Sign in"
	if m.login.registering {
		title = "Create account"
	}

	lines := []string{m.styles.Accent.Render(title), ""}
	lines = append(lines, m.login.email.View())
	if m.login.registering {
		lines = append(lines, m.login.name.View())
	}
	lines = append(lines, m.login.password.View())

	if m.login.submitting {
		lines = append(lines, "", m.styles.Muted.Render("Signing in..."))
	}
	if m.login.notice != "" {
		lines = append(lines, "", m.styles.Muted.Render(m.login.notice))
	}
	if m.login.err != nil {
		lines = append(lines, "", m.styles.Danger.Render(api.Message(m.login.err)))
	}

	return m.styles.Panel.Render(strings.Join(lines, "\n"))
}
