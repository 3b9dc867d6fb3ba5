package agendaui

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/satchel-tui/satchel/internal/api"
	"github.com/satchel-tui/satchel/internal/listview"
	"github.com/satchel-tui/satchel/internal/session"
	"github.com/satchel-tui/satchel/internal/ui"
)

// Screen represents the current active screen.
type Screen int

const (
	ScreenBoot Screen = iota
	ScreenLogin
	ScreenTasks
	ScreenTask
	ScreenCalendar
	ScreenUsers
)

// Options configures the UI.
type Options struct {
	Context context.Context
	Client  *api.Client
	Session *session.Store
	Theme   ui.Theme
}

// Model is the root application state for Bubble Tea.
type Model struct {
	ctx     context.Context
	client  *api.Client
	session *session.Store

	styles  ui.Styles
	screen  Screen
	width   int
	height  int
	ready   bool
	waiting spinner.Model

	login loginState

	// Task list state
	tasks        *listview.Model[api.Task]
	tasksGen     int
	cursor       int
	search       textinput.Model
	searching    bool
	statusFilter api.TaskStatus // empty means all
	knownTags    []api.Tag
	form         taskFormState
	confirming   bool
	tagPanel     tagPanelState

	// Task detail state
	detail detailState

	// Calendar state
	calendar calendarState

	// Admin users state
	users usersState
}

// New creates a new Bubble Tea model.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}

	theme := opts.Theme
	if theme == (ui.Theme{}) {
		theme = ui.DefaultTheme()
	}

	search := textinput.New()
	search.Placeholder = "search tasks"
	search.Prompt = "/ "
	search.CharLimit = 120

	styles := theme.Styles()
	waiting := spinner.New()
	waiting.Spinner = spinner.Dot
	waiting.Style = styles.Accent

	return Model{
		ctx:      ctx,
		client:   opts.Client,
		session:  opts.Session,
		styles:   styles,
		screen:   ScreenBoot,
		waiting:  waiting,
		login:    newLoginState(),
		tasks:    listview.New(func(t api.Task) int { return t.ID }),
		search:   search,
		calendar: newCalendarState(time.Now()),
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		tea.EnterAltScreen,
		textinput.Blink,
		m.waiting.Tick,
		initSessionCmd(m.ctx, m.session),
	)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.waiting, cmd = m.waiting.Update(msg)
		return m, cmd

	case sessionReadyMsg:
		return m.handleSessionReady(msg)

	case authMsg:
		return m.handleAuth(msg)

	case tasksMsg:
		return m.handleTasks(msg)

	case tagsMsg:
		return m.handleTags(msg)

	case tagDeletedMsg:
		return m.handleTagDeleted(msg)

	case taskSavedMsg:
		return m.handleTaskSaved(msg)

	case taskUpdatedMsg:
		return m.handleTaskUpdated(msg)

	case taskDeletedMsg:
		return m.handleTaskDeleted(msg)

	case taskMsg:
		return m.handleTaskDetail(msg)

	case subtasksMsg, subtaskChangedMsg, filesMsg, fileChangedMsg, fileDownloadedMsg, remindersMsg, reminderChangedMsg:
		return m.handleDetailData(msg)

	case calendarMsg:
		return m.handleCalendar(msg)

	case usersMsg, userChangedMsg:
		return m.handleUsers(msg)
	}

	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n")

	switch m.screen {
	case ScreenBoot:
		b.WriteString(m.waiting.View() + m.styles.Muted.Render(" Restoring session..."))
	case ScreenLogin:
		b.WriteString(m.renderLogin())
	case ScreenTasks:
		b.WriteString(m.renderTasks())
	case ScreenTask:
		b.WriteString(m.renderTask())
	case ScreenCalendar:
		b.WriteString(m.renderCalendar())
	case ScreenUsers:
		b.WriteString(m.renderUsers())
	}

	b.WriteString("\n")
	b.WriteString(m.renderFooter())
	return b.String()
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	switch m.screen {
	case ScreenLogin:
		return m.handleLoginKey(msg)
	case ScreenTasks:
		return m.handleTasksKey(msg)
	case ScreenTask:
		return m.handleTaskKey(msg)
	case ScreenCalendar:
		return m.handleCalendarKey(msg)
	case ScreenUsers:
		return m.handleUsersKey(msg)
	}
	return m, nil
}

func (m Model) handleSessionReady(msg sessionReadyMsg) (tea.Model, tea.Cmd) {
	if m.session.State() == session.StateAuthenticated {
		return m.enterTasks()
	}
	m.screen = ScreenLogin
	if msg.err != nil {
		m.login.err = msg.err
	}
	return m, m.login.focusFirst()
}

func (m Model) handleAuth(msg authMsg) (tea.Model, tea.Cmd) {
	m.login.submitting = false
	if api.IsCanceled(msg.err) {
		return m, nil
	}
	if msg.err != nil {
		m.login.err = msg.err
		return m, nil
	}
	m.login = newLoginState()
	return m.enterTasks()
}

// enterTasks switches to the task list and refetches it together with the
// tag vocabulary the create form needs.
func (m Model) enterTasks() (tea.Model, tea.Cmd) {
	m.screen = ScreenTasks
	m.tasksGen++
	m.tasks.BeginLoad()
	return m, tea.Batch(
		fetchTasksCmd(m.ctx, m.client, m.tasksGen, m.query()),
		fetchTagsCmd(m.ctx, m.client),
	)
}

// query assembles the list filters currently in effect.
func (m Model) query() api.TaskQuery {
	return api.TaskQuery{
		Search: strings.TrimSpace(m.search.Value()),
		Status: m.statusFilter,
	}
}

func (m Model) unauthorized() (tea.Model, tea.Cmd) {
	m.session.Invalidate()
	m.screen = ScreenLogin
	m.login = newLoginState()
	m.login.notice = "Session expired, please sign in again."
	return m, m.login.focusFirst()
}

func (m Model) renderHeader() string {
	title := m.styles.Title.Render("agenda")
	who := ""
	if user, ok := m.session.User(); ok {
		who = m.styles.Muted.Render(user.Email)
		if user.Role == api.RoleAdmin {
			who += m.styles.Accent.Render(" (admin)")
		}
	}
	return m.styles.Header.Render(title + "  " + who)
}

func (m Model) renderFooter() string {
	var hints string
	switch m.screen {
	case ScreenLogin:
		hints = "tab: next field • enter: submit • ctrl+r: toggle register • ctrl+c: quit"
	case ScreenTasks:
		if m.tagPanel.open {
			hints = "j/k: move • x: delete tag • esc: close"
		} else {
			hints = "j/k: move • enter: open • n: new • s: status • d: delete • f: filter • /: search • T: tags • c: calendar • L: logout"
			if m.session.IsAdmin() {
				hints += " • U: users"
			}
		}
	case ScreenTask:
		hints = "tab: section • space: toggle • a: add • x: delete • D: download • g: next occurrence • esc: back"
	case ScreenCalendar:
		hints = "h/l: month • esc: back"
	case ScreenUsers:
		hints = "j/k: move • /: search • r: toggle role • x: delete • esc: back"
	}
	return m.styles.Footer.Render(hints)
}

// Run starts the Bubble Tea program.
func Run(opts Options) error {
	m := New(opts)
	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err := p.Run()
	return err
}
