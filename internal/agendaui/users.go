package agendaui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/charmbracelet/bubbles/textinput"

	"github.com/satchel-tui/satchel/internal/api"
)

// usersState is the admin account screen.
type usersState struct {
	gen       int
	list      []api.User
	cursor    int
	search    textinput.Model
	searching bool
	err       error
	opErr     error
	loading   bool
	confirm   bool
}

func (m Model) enterUsers() (tea.Model, tea.Cmd) {
	m.screen = ScreenUsers
	if m.users.search.Prompt == "" {
		search := textinput.New()
		search.Placeholder = "search accounts"
		search.Prompt = "/ "
		search.CharLimit = 120
		m.users.search = search
	}
	m.users.confirm = false
	return m.refreshUsers()
}

func (m Model) refreshUsers() (tea.Model, tea.Cmd) {
	m.users.gen++
	m.users.loading = true
	m.users.err = nil
	q := api.UserQuery{Search: strings.TrimSpace(m.users.search.Value())}
	return m, fetchUsersCmd(m.ctx, m.client, m.users.gen, q)
}

func (m Model) handleUsers(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case usersMsg:
		if msg.gen != m.users.gen {
			return m, nil
		}
		if api.IsUnauthorized(msg.err) {
			return m.unauthorized()
		}
		if api.IsCanceled(msg.err) {
			return m, nil
		}
		m.users.loading = false
		if msg.err != nil {
			m.users.err = msg.err
			return m, nil
		}
		m.users.list = msg.users
		if m.users.cursor >= len(msg.users) {
			m.users.cursor = len(msg.users) - 1
		}
		if m.users.cursor < 0 {
			m.users.cursor = 0
		}

	case userChangedMsg:
		if msg.gen != m.users.gen {
			return m, nil
		}
		if api.IsUnauthorized(msg.err) {
			return m.unauthorized()
		}
		if msg.err != nil {
			if !api.IsCanceled(msg.err) {
				m.users.opErr = msg.err
			}
			return m, nil
		}
		m.users.opErr = nil
		return m, fetchUsersCmd(m.ctx, m.client, m.users.gen, api.UserQuery{
			Search: strings.TrimSpace(m.users.search.Value()),
		})
	}
	return m, nil
}

func (m Model) handleUsersKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.users.searching {
		switch msg.String() {
		case "enter", "esc":
			if msg.String() == "esc" {
				m.users.search.Reset()
			}
			m.users.search.Blur()
			m.users.searching = false
			return m.refreshUsers()
		}
		var cmd tea.Cmd
		m.users.search, cmd = m.users.search.Update(msg)
		return m, cmd
	}

	if m.users.confirm {
		switch msg.String() {
		case "y", "Y":
			m.users.confirm = false
			if m.users.cursor < len(m.users.list) {
				return m, deleteUserCmd(m.ctx, m.client, m.users.gen, m.users.list[m.users.cursor].ID)
			}
		case "n", "N", "esc":
			m.users.confirm = false
		}
		return m, nil
	}

	switch msg.String() {
	case "esc":
		m.screen = ScreenTasks
		return m, nil

	case "/":
		m.users.searching = true
		return m, m.users.search.Focus()

	case "j", "down":
		if m.users.cursor < len(m.users.list)-1 {
			m.users.cursor++
		}
	case "k", "up":
		if m.users.cursor > 0 {
			m.users.cursor--
		}

	case "r":
		if m.users.cursor < len(m.users.list) {
			u := m.users.list[m.users.cursor]
			role := api.RoleAdmin
			if u.Role == api.RoleAdmin {
				role = api.RoleUser
			}
			return m, updateUserCmd(m.ctx, m.client, m.users.gen, u.ID, api.UserPayload{Role: role})
		}

	case "x":
		if m.users.cursor < len(m.users.list) {
			m.users.confirm = true
		}
	}
	return m, nil
}

func (m Model) renderUsers() string {
	lines := []string{
		m.styles.Accent.Render("Accounts") + "   " + m.users.search.View(),
		"",
	}

	switch {
	case m.users.loading:
		lines = append(lines, m.styles.Muted.Render("Loading..."))
	case m.users.err != nil:
		lines = append(lines, m.styles.Danger.Render("Could not load accounts: "+api.Message(m.users.err)))
	case len(m.users.list) == 0:
		lines = append(lines, m.styles.Muted.Render("No accounts match."))
	default:
		for i, u := range m.users.list {
			row := fmt.Sprintf("%s  %s  %s", u.Email, u.Name, m.styles.Muted.Render(string(u.Role)))
			if i == m.users.cursor {
				row = m.styles.Selected.Render("▸ ") + row
			} else {
				row = "  " + row
			}
			lines = append(lines, row)
		}
	}

	if m.users.confirm && m.users.cursor < len(m.users.list) {
		lines = append(lines, "", m.styles.ErrorBox.Render("Delete account "+m.users.list[m.users.cursor].Email+"? (y/n)"))
	}
	if m.users.opErr != nil {
		lines = append(lines, "", m.styles.Danger.Render(api.Message(m.users.opErr)))
	}

	return strings.Join(lines, "\n")
}
