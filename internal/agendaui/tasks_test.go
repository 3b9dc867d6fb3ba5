package agendaui

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/satchel-tui/satchel/internal/api"
)

func TestNextStatusCycle(t *testing.T) {
	order := []api.TaskStatus{api.StatusTodo, api.StatusInProgress, api.StatusDone, api.StatusArchived, api.StatusTodo}
	for i := 0; i < len(order)-1; i++ {
		assert.Equal(t, order[i+1], nextStatus(order[i]))
	}
}

func TestNextFilterCyclesThroughAll(t *testing.T) {
	// Starting from "all", five presses land back on "all".
	f := api.TaskStatus("")
	seen := map[api.TaskStatus]bool{}
	for i := 0; i < 5; i++ {
		f = nextFilter(f)
		assert.False(t, seen[f], "filter %q repeats before the cycle closes", f)
		seen[f] = true
	}
	assert.Equal(t, api.TaskStatus(""), f)
}

func TestPayloadFrom_KeepsEveryEditableField(t *testing.T) {
	task := api.Task{
		ID:                    3,
		Title:                 "water plants",
		Description:           "the big ones",
		DueAt:                 "2026-09-01T08:00",
		Status:                api.StatusTodo,
		RepeatIntervalMinutes: 1440,
		Tags:                  []api.Tag{{ID: 7, Name: "home"}, {ID: 9, Name: "garden"}},
	}

	p := payloadFrom(task, api.StatusDone)

	assert.Equal(t, api.StatusDone, p.Status)
	assert.Equal(t, task.Title, p.Title)
	assert.Equal(t, task.Description, p.Description)
	assert.Equal(t, task.DueAt, p.DueAt)
	assert.Equal(t, task.RepeatIntervalMinutes, p.RepeatIntervalMinutes)
	assert.Equal(t, []int{7, 9}, p.TagIDs)
}

func TestMonthRange(t *testing.T) {
	c := calendarState{year: 2026, month: time.February}
	from, to := c.monthRange()
	assert.Equal(t, "2026-02-01", from)
	assert.Equal(t, "2026-02-28", to)
}

func TestDueDay(t *testing.T) {
	assert.Equal(t, "2026-08-31", dueDay("2026-08-31T17:30:00Z"))
	assert.Equal(t, "short", dueDay("short"))
}

func TestHandleTagDeleted_DropsTagAndRefetchesTasks(t *testing.T) {
	m := New(Options{})
	m.knownTags = []api.Tag{{ID: 1, Name: "home"}, {ID: 2, Name: "garden"}}
	m.tagPanel = tagPanelState{open: true, cursor: 1}
	gen := m.tasksGen

	updated, cmd := m.handleTagDeleted(tagDeletedMsg{id: 2})
	got := updated.(Model)

	assert.Equal(t, []api.Tag{{ID: 1, Name: "home"}}, got.knownTags)
	assert.Zero(t, got.tagPanel.cursor, "cursor clamps to the shrunk vocabulary")
	assert.Equal(t, gen+1, got.tasksGen, "the task list refetches without the tag")
	assert.True(t, got.tasks.Loading)
	assert.NotNil(t, cmd)
}

func TestHandleTagDeleted_ErrorStaysInPanel(t *testing.T) {
	m := New(Options{})
	m.knownTags = []api.Tag{{ID: 1, Name: "home"}}
	m.tagPanel = tagPanelState{open: true}

	updated, _ := m.handleTagDeleted(tagDeletedMsg{id: 1, err: &api.Error{StatusCode: 409, Message: "tag in use"}})
	got := updated.(Model)

	assert.Len(t, got.knownTags, 1, "nothing is removed locally on failure")
	assert.Equal(t, "tag in use", api.Message(got.tagPanel.err))
}

func TestSizeLabel(t *testing.T) {
	assert.Equal(t, "512 B", sizeLabel(512))
	assert.Equal(t, "2.0 KiB", sizeLabel(2048))
	assert.Equal(t, "1.5 MiB", sizeLabel(3*1<<20/2))
}
