package agendaui

import (
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/charmbracelet/bubbles/textinput"

	"github.com/satchel-tui/satchel/internal/api"
)

// Detail sections, cycled with tab.
const (
	sectionSubtasks = iota
	sectionFiles
	sectionReminders
)

// Detail input modes, entered with "a" on the focused section.
const (
	inputNone = iota
	inputSubtask
	inputFilePath
	inputReminder
)

// detailState is the task detail screen: the task record plus the three
// attached collections, one of which holds the cursor at a time.
type detailState struct {
	gen       int
	task      *api.Task
	err       error
	subtasks  []api.Subtask
	files     []api.File
	reminders []api.Reminder

	section   int
	cursor    int
	input     textinput.Model
	inputMode int
	opErr     error
	notice    string
}

// enterTask switches to the detail screen and fetches the task with every
// attached collection.
func (m Model) enterTask(id int) (tea.Model, tea.Cmd) {
	m.screen = ScreenTask
	m.detail = detailState{gen: m.detail.gen + 1}
	gen := m.detail.gen
	return m, tea.Batch(
		fetchTaskCmd(m.ctx, m.client, gen, id),
		fetchSubtasksCmd(m.ctx, m.client, gen, id),
		fetchFilesCmd(m.ctx, m.client, gen, id),
		fetchRemindersCmd(m.ctx, m.client, gen, id),
	)
}

func (m Model) handleTaskDetail(msg taskMsg) (tea.Model, tea.Cmd) {
	if msg.gen != m.detail.gen {
		return m, nil
	}
	if api.IsUnauthorized(msg.err) {
		return m.unauthorized()
	}
	if api.IsCanceled(msg.err) {
		return m, nil
	}
	if msg.err != nil {
		m.detail.err = msg.err
		return m, nil
	}
	m.detail.task = msg.task
	return m, nil
}

// handleDetailData applies list results and mutation acknowledgements for the
// attached collections. A confirmed mutation refetches its list so the screen
// shows the server's record, not a local guess.
func (m Model) handleDetailData(msg tea.Msg) (tea.Model, tea.Cmd) {
	gen := m.detail.gen
	taskID := 0
	if m.detail.task != nil {
		taskID = m.detail.task.ID
	}

	switch msg := msg.(type) {
	case subtasksMsg:
		if msg.gen != gen {
			return m, nil
		}
		if api.IsUnauthorized(msg.err) {
			return m.unauthorized()
		}
		if msg.err == nil {
			m.detail.subtasks = msg.subtasks
			m.clampDetailCursor()
		}

	case subtaskChangedMsg:
		if msg.gen != gen {
			return m, nil
		}
		if api.IsUnauthorized(msg.err) {
			return m.unauthorized()
		}
		if msg.err != nil {
			if !api.IsCanceled(msg.err) {
				m.detail.opErr = msg.err
			}
			return m, nil
		}
		m.detail.opErr = nil
		return m, fetchSubtasksCmd(m.ctx, m.client, gen, taskID)

	case filesMsg:
		if msg.gen != gen {
			return m, nil
		}
		if api.IsUnauthorized(msg.err) {
			return m.unauthorized()
		}
		if msg.err == nil {
			m.detail.files = msg.files
			m.clampDetailCursor()
		}

	case fileChangedMsg:
		if msg.gen != gen {
			return m, nil
		}
		if api.IsUnauthorized(msg.err) {
			return m.unauthorized()
		}
		if msg.err != nil {
			if !api.IsCanceled(msg.err) {
				m.detail.opErr = msg.err
			}
			return m, nil
		}
		m.detail.opErr = nil
		return m, fetchFilesCmd(m.ctx, m.client, gen, taskID)

	case fileDownloadedMsg:
		if msg.gen != gen {
			return m, nil
		}
		if api.IsUnauthorized(msg.err) {
			return m.unauthorized()
		}
		if msg.err != nil {
			if !api.IsCanceled(msg.err) {
				m.detail.opErr = msg.err
			}
			return m, nil
		}
		m.detail.opErr = nil
		m.detail.notice = "Saved " + msg.name

	case remindersMsg:
		if msg.gen != gen {
			return m, nil
		}
		if api.IsUnauthorized(msg.err) {
			return m.unauthorized()
		}
		if msg.err == nil {
			m.detail.reminders = msg.reminders
			m.clampDetailCursor()
		}

	case reminderChangedMsg:
		if msg.gen != gen {
			return m, nil
		}
		if api.IsUnauthorized(msg.err) {
			return m.unauthorized()
		}
		if msg.err != nil {
			if !api.IsCanceled(msg.err) {
				m.detail.opErr = msg.err
			}
			return m, nil
		}
		m.detail.opErr = nil
		return m, fetchRemindersCmd(m.ctx, m.client, gen, taskID)
	}

	return m, nil
}

func (m Model) handleTaskKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.detail.inputMode != inputNone {
		return m.handleDetailInputKey(msg)
	}
	// Everything below needs the task record's id.
	if m.detail.task == nil {
		if msg.String() == "esc" {
			return m.enterTasks()
		}
		return m, nil
	}

	switch msg.String() {
	case "esc":
		return m.enterTasks()

	case "tab":
		m.detail.section = (m.detail.section + 1) % 3
		m.detail.cursor = 0
		return m, nil

	case "j", "down":
		if m.detail.cursor < m.sectionLen()-1 {
			m.detail.cursor++
		}
	case "k", "up":
		if m.detail.cursor > 0 {
			m.detail.cursor--
		}

	case " ":
		return m.toggleCurrent()

	case "a":
		return m.beginDetailInput()

	case "x":
		return m.deleteCurrent()

	case "D":
		if m.detail.section == sectionFiles && m.detail.cursor < len(m.detail.files) {
			return m, downloadFileCmd(m.ctx, m.client, m.detail.gen, m.detail.files[m.detail.cursor])
		}

	case "g":
		if t := m.detail.task; t != nil && t.RepeatIntervalMinutes > 0 {
			return m, generateNextCmd(m.ctx, m.client, t.ID)
		}

	case "s":
		if t := m.detail.task; t != nil {
			m.tasks.BeginUpdate()
			return m, updateTaskCmd(m.ctx, m.client, t.ID, payloadFrom(*t, nextStatus(t.Status)))
		}
	}
	return m, nil
}

func (m Model) sectionLen() int {
	switch m.detail.section {
	case sectionSubtasks:
		return len(m.detail.subtasks)
	case sectionFiles:
		return len(m.detail.files)
	default:
		return len(m.detail.reminders)
	}
}

func (m *Model) clampDetailCursor() {
	if n := m.sectionLen(); m.detail.cursor >= n {
		m.detail.cursor = n - 1
	}
	if m.detail.cursor < 0 {
		m.detail.cursor = 0
	}
}

// toggleCurrent flips a subtask's done flag or a reminder's enabled flag via
// a full-record PUT.
func (m Model) toggleCurrent() (tea.Model, tea.Cmd) {
	switch m.detail.section {
	case sectionSubtasks:
		if m.detail.cursor < len(m.detail.subtasks) {
			s := m.detail.subtasks[m.detail.cursor]
			s.IsDone = !s.IsDone
			return m, updateSubtaskCmd(m.ctx, m.client, m.detail.gen, s)
		}
	case sectionReminders:
		if m.detail.cursor < len(m.detail.reminders) {
			r := m.detail.reminders[m.detail.cursor]
			r.IsEnabled = !r.IsEnabled
			return m, updateReminderCmd(m.ctx, m.client, m.detail.gen, r)
		}
	}
	return m, nil
}

func (m Model) beginDetailInput() (tea.Model, tea.Cmd) {
	input := textinput.New()
	input.Prompt = "  "
	input.CharLimit = 300

	switch m.detail.section {
	case sectionSubtasks:
		input.Placeholder = "subtask title"
		m.detail.inputMode = inputSubtask
	case sectionFiles:
		input.Placeholder = "path of file to attach"
		m.detail.inputMode = inputFilePath
	case sectionReminders:
		input.Placeholder = "remind every N minutes"
		m.detail.inputMode = inputReminder
	}
	m.detail.input = input
	return m, m.detail.input.Focus()
}

func (m Model) handleDetailInputKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.detail.inputMode = inputNone
		return m, nil

	case "enter":
		value := strings.TrimSpace(m.detail.input.Value())
		if value == "" {
			m.detail.inputMode = inputNone
			return m, nil
		}
		mode := m.detail.inputMode
		m.detail.inputMode = inputNone
		taskID := 0
		if m.detail.task != nil {
			taskID = m.detail.task.ID
		}

		switch mode {
		case inputSubtask:
			return m, createSubtaskCmd(m.ctx, m.client, m.detail.gen, api.SubtaskPayload{
				TaskID: taskID,
				Title:  value,
			})
		case inputFilePath:
			return m, uploadFileCmd(m.ctx, m.client, m.detail.gen, taskID, value)
		case inputReminder:
			minutes, err := strconv.Atoi(value)
			if err != nil || minutes <= 0 {
				m.detail.opErr = fmt.Errorf("reminder interval must be a positive number of minutes")
				return m, nil
			}
			return m, createReminderCmd(m.ctx, m.client, m.detail.gen, taskID, api.ReminderPayload{
				EveryMinutes: minutes,
				IsEnabled:    true,
			})
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.detail.input, cmd = m.detail.input.Update(msg)
	return m, cmd
}

func (m Model) deleteCurrent() (tea.Model, tea.Cmd) {
	gen := m.detail.gen
	switch m.detail.section {
	case sectionSubtasks:
		if m.detail.cursor < len(m.detail.subtasks) {
			return m, deleteSubtaskCmd(m.ctx, m.client, gen, m.detail.subtasks[m.detail.cursor].ID)
		}
	case sectionFiles:
		if m.detail.cursor < len(m.detail.files) {
			return m, deleteFileCmd(m.ctx, m.client, gen, m.detail.files[m.detail.cursor].ID)
		}
	case sectionReminders:
		if m.detail.cursor < len(m.detail.reminders) {
			r := m.detail.reminders[m.detail.cursor]
			return m, deleteReminderCmd(m.ctx, m.client, gen, r.TaskID, r.ID)
		}
	}
	return m, nil
}

func (m Model) renderTask() string {
	if m.detail.err != nil {
		return m.styles.Danger.Render("Could not load task: " + api.Message(m.detail.err))
	}
	t := m.detail.task
	if t == nil {
		return m.styles.Muted.Render("Loading task...")
	}

	lines := []string{
		m.styles.Accent.Render(t.Title) + "  " + m.styles.Muted.Render("["+string(t.Status)+"]"),
	}
	if t.Description != "" {
		lines = append(lines, m.styles.Muted.Render(t.Description))
	}
	if t.DueAt != "" {
		lines = append(lines, m.styles.Muted.Render("due "+t.DueAt))
	}
	if t.RepeatIntervalMinutes > 0 {
		lines = append(lines, m.styles.Muted.Render(fmt.Sprintf("repeats every %d min", t.RepeatIntervalMinutes)))
	}

	lines = append(lines, "", m.sectionTitle("Subtasks", sectionSubtasks))
	if len(m.detail.subtasks) == 0 {
		lines = append(lines, m.styles.Muted.Render("  none"))
	}
	for i, s := range m.detail.subtasks {
		mark := "[ ]"
		if s.IsDone {
			mark = "[x]"
		}
		lines = append(lines, m.detailRow(fmt.Sprintf("%s %s", mark, s.Title), sectionSubtasks, i))
	}

	lines = append(lines, "", m.sectionTitle("Files", sectionFiles))
	if len(m.detail.files) == 0 {
		lines = append(lines, m.styles.Muted.Render("  none"))
	}
	for i, f := range m.detail.files {
		lines = append(lines, m.detailRow(fmt.Sprintf("%s (%s)", f.Filename, sizeLabel(f.SizeBytes)), sectionFiles, i))
	}

	lines = append(lines, "", m.sectionTitle("Reminders", sectionReminders))
	if len(m.detail.reminders) == 0 {
		lines = append(lines, m.styles.Muted.Render("  none"))
	}
	for i, r := range m.detail.reminders {
		state := "off"
		if r.IsEnabled {
			state = "on"
		}
		row := fmt.Sprintf("every %d min (%s)", r.EveryMinutes, state)
		if r.NextRunAt != "" {
			row += "  next " + r.NextRunAt
		}
		lines = append(lines, m.detailRow(row, sectionReminders, i))
	}

	if m.detail.inputMode != inputNone {
		lines = append(lines, "", m.detail.input.View())
	}
	if m.detail.opErr != nil {
		lines = append(lines, "", m.styles.Danger.Render(api.Message(m.detail.opErr)))
	}
	if m.detail.notice != "" {
		lines = append(lines, "", m.styles.Success.Render(m.detail.notice))
	}

	return strings.Join(lines, "\n")
}

func (m Model) sectionTitle(name string, section int) string {
	if m.detail.section == section {
		return m.styles.Accent.Render(name)
	}
	return m.styles.Muted.Render(name)
}

func (m Model) detailRow(text string, section, idx int) string {
	if m.detail.section == section && m.detail.cursor == idx {
		return m.styles.Selected.Render("▸ ") + text
	}
	return "  " + text
}

func sizeLabel(bytes int64) string {
	switch {
	case bytes >= 1<<20:
		return fmt.Sprintf("%.1f MiB", float64(bytes)/(1<<20))
	case bytes >= 1<<10:
		return fmt.Sprintf("%.1f KiB", float64(bytes)/(1<<10))
	default:
		return fmt.Sprintf("%d B", bytes)
	}
}
