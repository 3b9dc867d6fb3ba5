package agendaui

import (
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/charmbracelet/bubbles/textinput"

	"github.com/satchel-tui/satchel/internal/api"
	"github.com/satchel-tui/satchel/internal/listview"
	"github.com/satchel-tui/satchel/internal/tags"
)

// taskFormState is the inline new-task form. Tags are drafted as free text
// and resolved to ids on submit.
type taskFormState struct {
	open        bool
	title       textinput.Model
	description textinput.Model
	due         textinput.Model
	repeat      textinput.Model
	tagsDraft   textinput.Model
	focus       int
	err         error
}

func newTaskForm() taskFormState {
	title := textinput.New()
	title.Placeholder = "title"
	title.Prompt = "  "
	title.CharLimit = 200

	description := textinput.New()
	description.Placeholder = "description"
	description.Prompt = "  "
	description.CharLimit = 500

	due := textinput.New()
	due.Placeholder = "due (2026-01-31T09:00)"
	due.Prompt = "  "
	due.CharLimit = 40

	repeat := textinput.New()
	repeat.Placeholder = "repeat every N minutes (blank for none)"
	repeat.Prompt = "  "
	repeat.CharLimit = 10

	draft := textinput.New()
	draft.Placeholder = "tags, comma separated"
	draft.Prompt = "  "
	draft.CharLimit = 200

	f := taskFormState{open: true, title: title, description: description, due: due, repeat: repeat, tagsDraft: draft}
	f.title.Focus()
	return f
}

func (f *taskFormState) fields() []*textinput.Model {
	return []*textinput.Model{&f.title, &f.description, &f.due, &f.repeat, &f.tagsDraft}
}

// tagPanelState is the tag vocabulary overlay on the task list. Deleting a
// tag removes it from every task that carries it.
type tagPanelState struct {
	open    bool
	cursor  int
	confirm bool
	err     error
}

func (m Model) handleTasks(msg tasksMsg) (tea.Model, tea.Cmd) {
	if msg.gen != m.tasksGen {
		return m, nil
	}
	if api.IsUnauthorized(msg.err) {
		return m.unauthorized()
	}
	m.tasks.FinishLoad(msg.tasks, msg.err)
	m.clampCursor()
	return m, nil
}

func (m Model) handleTags(msg tagsMsg) (tea.Model, tea.Cmd) {
	if api.IsUnauthorized(msg.err) {
		return m.unauthorized()
	}
	if msg.err == nil {
		m.knownTags = msg.tags
	}
	return m, nil
}

func (m Model) handleTaskSaved(msg taskSavedMsg) (tea.Model, tea.Cmd) {
	if api.IsUnauthorized(msg.err) {
		return m.unauthorized()
	}
	if api.IsCanceled(msg.err) {
		return m, nil
	}
	if msg.err != nil {
		m.tasks.FinishCreate(api.Task{}, msg.err)
		m.form.err = msg.err
		return m, nil
	}
	m.knownTags = append(m.knownTags, msg.newTags...)
	m.tasks.FinishCreate(*msg.task, nil)
	m.form = taskFormState{}
	m.cursor = 0
	return m, nil
}

func (m Model) handleTaskUpdated(msg taskUpdatedMsg) (tea.Model, tea.Cmd) {
	if api.IsUnauthorized(msg.err) {
		return m.unauthorized()
	}
	if api.IsCanceled(msg.err) {
		return m, nil
	}
	if msg.err != nil {
		m.tasks.FinishUpdate(api.Task{}, msg.err)
		return m, nil
	}
	m.tasks.FinishUpdate(*msg.task, nil)
	if m.detail.task != nil && m.detail.task.ID == msg.task.ID {
		m.detail.task = msg.task
	}
	return m, nil
}

func (m Model) handleTaskDeleted(msg taskDeletedMsg) (tea.Model, tea.Cmd) {
	if api.IsUnauthorized(msg.err) {
		return m.unauthorized()
	}
	m.tasks.FinishDelete(msg.id, m.tasks.Items(), msg.err)
	m.syncCursorToSelection()
	return m, nil
}

func (m Model) handleTasksKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.form.open {
		return m.handleTaskFormKey(msg)
	}
	if m.confirming {
		return m.handleConfirmKey(msg)
	}
	if m.searching {
		return m.handleSearchKey(msg)
	}
	if m.tagPanel.open {
		return m.handleTagPanelKey(msg)
	}

	items := m.tasks.Items()

	switch msg.String() {
	case "j", "down":
		if m.cursor < len(items)-1 {
			m.cursor++
		}
		m.selectUnderCursor()
	case "k", "up":
		if m.cursor > 0 {
			m.cursor--
		}
		m.selectUnderCursor()
	case "g", "home":
		m.cursor = 0
		m.selectUnderCursor()
	case "G", "end":
		m.cursor = len(items) - 1
		m.selectUnderCursor()

	case "enter":
		if m.cursor >= 0 && m.cursor < len(items) {
			m.selectUnderCursor()
			return m.enterTask(items[m.cursor].ID)
		}

	case "n":
		m.form = newTaskForm()
		return m, textinput.Blink

	case "s":
		if m.cursor >= 0 && m.cursor < len(items) {
			task := items[m.cursor]
			m.tasks.BeginUpdate()
			return m, updateTaskCmd(m.ctx, m.client, task.ID, payloadFrom(task, nextStatus(task.Status)))
		}

	case "d":
		if m.cursor >= 0 && m.cursor < len(items) {
			m.selectUnderCursor()
			m.confirming = true
		}

	case "f":
		m.statusFilter = nextFilter(m.statusFilter)
		m.tasksGen++
		m.tasks.BeginLoad()
		return m, fetchTasksCmd(m.ctx, m.client, m.tasksGen, m.query())

	case "/":
		m.searching = true
		return m, m.search.Focus()

	case "r":
		m.tasksGen++
		m.tasks.BeginLoad()
		return m, fetchTasksCmd(m.ctx, m.client, m.tasksGen, m.query())

	case "T":
		m.tagPanel = tagPanelState{open: true}
		return m, fetchTagsCmd(m.ctx, m.client)

	case "c":
		return m.enterCalendar()

	case "U":
		if m.session.IsAdmin() {
			return m.enterUsers()
		}

	case "L":
		m.session.Logout()
		m.screen = ScreenLogin
		m.login = newLoginState()
		return m, m.login.focusFirst()
	}

	return m, nil
}

func (m Model) handleTaskFormKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.form = taskFormState{}
		return m, nil

	case "tab", "down", "shift+tab", "up":
		n := len(m.form.fields())
		if msg.String() == "tab" || msg.String() == "down" {
			m.form.focus = (m.form.focus + 1) % n
		} else {
			m.form.focus = (m.form.focus + n - 1) % n
		}
		var cmd tea.Cmd
		for i, f := range m.form.fields() {
			if i == m.form.focus {
				cmd = f.Focus()
			} else {
				f.Blur()
			}
		}
		return m, cmd

	case "enter":
		return m.submitTaskForm()
	}

	fields := m.form.fields()
	var cmd tea.Cmd
	*fields[m.form.focus], cmd = fields[m.form.focus].Update(msg)
	return m, cmd
}

func (m Model) submitTaskForm() (tea.Model, tea.Cmd) {
	if err := listview.CheckRequired(
		listview.Field{Name: "title", Value: m.form.title.Value()},
	); err != nil {
		m.form.err = err
		return m, nil
	}

	repeat := 0
	if v := strings.TrimSpace(m.form.repeat.Value()); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed < 0 {
			m.form.err = fmt.Errorf("repeat interval must be a number of minutes")
			return m, nil
		}
		repeat = parsed
	}

	m.form.err = nil
	m.tasks.BeginCreate()
	payload := api.TaskPayload{
		Title:                 m.form.title.Value(),
		Description:           m.form.description.Value(),
		DueAt:                 strings.TrimSpace(m.form.due.Value()),
		Status:                api.StatusTodo,
		RepeatIntervalMinutes: repeat,
	}
	return m, createTaskCmd(m.ctx, m.client, payload, m.form.tagsDraft.Value(), m.knownTags)
}

func (m Model) handleConfirmKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		m.confirming = false
		if id, ok := m.tasks.SelectedID(); ok {
			m.tasks.BeginDelete()
			return m, deleteTaskCmd(m.ctx, m.client, id)
		}
	case "n", "N", "esc":
		m.confirming = false
	}
	return m, nil
}

func (m Model) handleTagPanelKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.tagPanel.confirm {
		switch msg.String() {
		case "y", "Y":
			m.tagPanel.confirm = false
			if m.tagPanel.cursor < len(m.knownTags) {
				return m, deleteTagCmd(m.ctx, m.client, m.knownTags[m.tagPanel.cursor].ID)
			}
		case "n", "N", "esc":
			m.tagPanel.confirm = false
		}
		return m, nil
	}

	switch msg.String() {
	case "esc":
		m.tagPanel = tagPanelState{}

	case "j", "down":
		if m.tagPanel.cursor < len(m.knownTags)-1 {
			m.tagPanel.cursor++
		}
	case "k", "up":
		if m.tagPanel.cursor > 0 {
			m.tagPanel.cursor--
		}

	case "x":
		if m.tagPanel.cursor < len(m.knownTags) {
			m.tagPanel.confirm = true
		}
	}
	return m, nil
}

// handleTagDeleted drops the tag from the vocabulary and refetches the task
// list, which the server has already stripped of the tag.
func (m Model) handleTagDeleted(msg tagDeletedMsg) (tea.Model, tea.Cmd) {
	if api.IsUnauthorized(msg.err) {
		return m.unauthorized()
	}
	if api.IsCanceled(msg.err) {
		return m, nil
	}
	if msg.err != nil {
		m.tagPanel.err = msg.err
		return m, nil
	}
	m.tagPanel.err = nil
	kept := make([]api.Tag, 0, len(m.knownTags))
	for _, t := range m.knownTags {
		if t.ID != msg.id {
			kept = append(kept, t)
		}
	}
	m.knownTags = kept
	if m.tagPanel.cursor >= len(kept) {
		m.tagPanel.cursor = len(kept) - 1
	}
	if m.tagPanel.cursor < 0 {
		m.tagPanel.cursor = 0
	}
	m.tasksGen++
	m.tasks.BeginLoad()
	return m, fetchTasksCmd(m.ctx, m.client, m.tasksGen, m.query())
}

func (m Model) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter", "esc":
		if msg.String() == "esc" {
			m.search.Reset()
		}
		m.search.Blur()
		m.searching = false
		m.tasksGen++
		m.tasks.BeginLoad()
		return m, fetchTasksCmd(m.ctx, m.client, m.tasksGen, m.query())
	}

	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	return m, cmd
}

func (m *Model) selectUnderCursor() {
	items := m.tasks.Items()
	if m.cursor >= 0 && m.cursor < len(items) {
		m.tasks.Select(items[m.cursor].ID)
	}
}

func (m *Model) clampCursor() {
	n := m.tasks.Len()
	if m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m *Model) syncCursorToSelection() {
	id, ok := m.tasks.SelectedID()
	if !ok {
		m.cursor = 0
		return
	}
	for i, t := range m.tasks.Items() {
		if t.ID == id {
			m.cursor = i
			return
		}
	}
	m.clampCursor()
}

func (m Model) renderTasks() string {
	if m.form.open {
		return m.renderTaskForm()
	}

	var lines []string
	filter := "all"
	if m.statusFilter != "" {
		filter = string(m.statusFilter)
	}
	lines = append(lines, m.search.View()+"   "+m.styles.Muted.Render("status: "+filter), "")

	switch {
	case m.tasks.Loading:
		lines = append(lines, m.styles.Muted.Render("Loading tasks..."))
	case m.tasks.LoadErr != nil:
		lines = append(lines, m.styles.Danger.Render("Could not load tasks: "+api.Message(m.tasks.LoadErr)))
	default:
		items := m.tasks.Items()
		if len(items) == 0 {
			lines = append(lines, m.styles.Muted.Render("No tasks match."))
		}
		for i, t := range items {
			lines = append(lines, m.renderTaskRow(t, i == m.cursor))
		}
	}

	if m.confirming {
		if task, ok := m.tasks.Selected(); ok {
			lines = append(lines, "", m.styles.ErrorBox.Render("Delete \""+task.Title+"\" and everything under it? (y/n)"))
		}
	}
	for _, err := range []error{m.tasks.DeleteErr, m.tasks.UpdateErr} {
		if err != nil {
			lines = append(lines, "", m.styles.Danger.Render(api.Message(err)))
		}
	}

	if m.tagPanel.open {
		lines = append(lines, "", m.renderTagPanel())
	}

	return strings.Join(lines, "\n")
}

func (m Model) renderTagPanel() string {
	lines := []string{m.styles.Accent.Render("Tags"), ""}

	if len(m.knownTags) == 0 {
		lines = append(lines, m.styles.Muted.Render("No tags yet."))
	}
	for i, t := range m.knownTags {
		row := t.Name
		if i == m.tagPanel.cursor {
			row = m.styles.Selected.Render("▸ ") + row
		} else {
			row = "  " + row
		}
		lines = append(lines, row)
	}

	if m.tagPanel.confirm && m.tagPanel.cursor < len(m.knownTags) {
		lines = append(lines, "",
			m.styles.ErrorBox.Render("Delete tag \""+m.knownTags[m.tagPanel.cursor].Name+"\" from every task? (y/n)"))
	}
	if m.tagPanel.err != nil {
		lines = append(lines, "", m.styles.Danger.Render(api.Message(m.tagPanel.err)))
	}

	return m.styles.Panel.Render(strings.Join(lines, "\n"))
}

func (m Model) renderTaskRow(t api.Task, current bool) string {
	status := m.styles.Muted.Render("[" + statusGlyph(t.Status) + "]")
	row := fmt.Sprintf("%s %s", status, t.Title)
	if t.DueAt != "" {
		row += "  " + m.styles.Muted.Render("due "+t.DueAt)
	}
	if len(t.Tags) > 0 {
		names := make([]string, len(t.Tags))
		for i, tag := range t.Tags {
			names[i] = tag.Name
		}
		row += "  " + m.styles.Accent.Render("#"+tags.Join(names))
	}
	if n := t.SubtasksCount + t.FilesCount + t.RemindersCount; n > 0 {
		row += "  " + m.styles.Muted.Render(fmt.Sprintf("(%d attached)", n))
	}
	if current {
		return m.styles.Selected.Render("▸ ") + row
	}
	return "  " + row
}

func (m Model) renderTaskForm() string {
	lines := []string{
		m.styles.Accent.Render("New task"), "",
		m.form.title.View(),
		m.form.description.View(),
		m.form.due.View(),
		m.form.repeat.View(),
		m.form.tagsDraft.View(),
	}
	if m.tasks.Creating {
		lines = append(lines, "", m.styles.Muted.Render("Saving..."))
	}
	if m.form.err != nil {
		lines = append(lines, "", m.styles.Danger.Render(api.Message(m.form.err)))
	}
	lines = append(lines, "", m.styles.Muted.Render("enter: save • esc: cancel"))
	return m.styles.Panel.Render(strings.Join(lines, "\n"))
}

// payloadFrom rebuilds the full editable record for a PUT, changing only the
// status. Updates always resend every field.
func payloadFrom(t api.Task, status api.TaskStatus) api.TaskPayload {
	ids := make([]int, len(t.Tags))
	for i, tag := range t.Tags {
		ids[i] = tag.ID
	}
	return api.TaskPayload{
		Title:                 t.Title,
		Description:           t.Description,
		DueAt:                 t.DueAt,
		Status:                status,
		RepeatIntervalMinutes: t.RepeatIntervalMinutes,
		TagIDs:                ids,
	}
}

func nextStatus(s api.TaskStatus) api.TaskStatus {
	switch s {
	case api.StatusTodo:
		return api.StatusInProgress
	case api.StatusInProgress:
		return api.StatusDone
	case api.StatusDone:
		return api.StatusArchived
	default:
		return api.StatusTodo
	}
}

func nextFilter(s api.TaskStatus) api.TaskStatus {
	switch s {
	case "":
		return api.StatusTodo
	case api.StatusTodo:
		return api.StatusInProgress
	case api.StatusInProgress:
		return api.StatusDone
	case api.StatusDone:
		return api.StatusArchived
	default:
		return ""
	}
}

func statusGlyph(s api.TaskStatus) string {
	switch s {
	case api.StatusTodo:
		return " "
	case api.StatusInProgress:
		return "~"
	case api.StatusDone:
		return "x"
	case api.StatusArchived:
		return "-"
	default:
		return "?"
	}
}
