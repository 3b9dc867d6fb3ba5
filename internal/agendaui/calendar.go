package agendaui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/satchel-tui/satchel/internal/api"
)

// calendarState is the month view over /calendar.
type calendarState struct {
	gen     int
	year    int
	month   time.Month
	items   []api.CalendarItem
	err     error
	loading bool
}

func newCalendarState(now time.Time) calendarState {
	return calendarState{year: now.Year(), month: now.Month()}
}

// monthRange returns the inclusive date bounds of the displayed month.
func (c calendarState) monthRange() (string, string) {
	first := time.Date(c.year, c.month, 1, 0, 0, 0, 0, time.UTC)
	last := first.AddDate(0, 1, -1)
	return first.Format("2006-01-02"), last.Format("2006-01-02")
}

func (c calendarState) title() string {
	return fmt.Sprintf("%s %d", c.month, c.year)
}

func (m Model) enterCalendar() (tea.Model, tea.Cmd) {
	m.screen = ScreenCalendar
	return m.refreshCalendar()
}

func (m Model) refreshCalendar() (tea.Model, tea.Cmd) {
	m.calendar.gen++
	m.calendar.loading = true
	m.calendar.err = nil
	from, to := m.calendar.monthRange()
	return m, fetchCalendarCmd(m.ctx, m.client, m.calendar.gen, from, to)
}

func (m Model) handleCalendar(msg calendarMsg) (tea.Model, tea.Cmd) {
	if msg.gen != m.calendar.gen {
		return m, nil
	}
	if api.IsUnauthorized(msg.err) {
		return m.unauthorized()
	}
	if api.IsCanceled(msg.err) {
		return m, nil
	}
	m.calendar.loading = false
	if msg.err != nil {
		m.calendar.err = msg.err
		return m, nil
	}
	m.calendar.items = msg.items
	return m, nil
}

func (m Model) handleCalendarKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.screen = ScreenTasks
		return m, nil

	case "h", "left":
		m.calendar.month--
		if m.calendar.month < time.January {
			m.calendar.month = time.December
			m.calendar.year--
		}
		return m.refreshCalendar()

	case "l", "right":
		m.calendar.month++
		if m.calendar.month > time.December {
			m.calendar.month = time.January
			m.calendar.year++
		}
		return m.refreshCalendar()
	}
	return m, nil
}

func (m Model) renderCalendar() string {
	lines := []string{m.styles.Accent.Render(m.calendar.title()), ""}

	switch {
	case m.calendar.loading:
		lines = append(lines, m.styles.Muted.Render("Loading..."))
	case m.calendar.err != nil:
		lines = append(lines, m.styles.Danger.Render("Could not load calendar: "+api.Message(m.calendar.err)))
	case len(m.calendar.items) == 0:
		lines = append(lines, m.styles.Muted.Render("Nothing due this month."))
	default:
		day := ""
		for _, item := range m.calendar.items {
			d := dueDay(item.DueAt)
			if d != day {
				if day != "" {
					lines = append(lines, "")
				}
				day = d
				lines = append(lines, m.styles.Text.Render(d))
			}
			row := "  " + item.Title
			if item.Status == api.StatusDone {
				row += "  " + m.styles.Success.Render("done")
			}
			lines = append(lines, row)
		}
	}

	return strings.Join(lines, "\n")
}

// dueDay extracts the calendar day from a due timestamp; items arrive sorted
// by due time, so equal prefixes group together.
func dueDay(dueAt string) string {
	if len(dueAt) >= 10 {
		return dueAt[:10]
	}
	return dueAt
}
