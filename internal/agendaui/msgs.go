package agendaui

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/satchel-tui/satchel/internal/api"
	"github.com/satchel-tui/satchel/internal/session"
	"github.com/satchel-tui/satchel/internal/tags"
)

// Messages

type sessionReadyMsg struct{ err error }

type authMsg struct{ err error }

type tasksMsg struct {
	gen   int
	tasks []api.Task
	err   error
}

type tagsMsg struct {
	tags []api.Tag
	err  error
}

type tagDeletedMsg struct {
	id  int
	err error
}

type taskMsg struct {
	gen  int
	task *api.Task
	err  error
}

type taskSavedMsg struct {
	task    *api.Task
	newTags []api.Tag
	err     error
}

type taskUpdatedMsg struct {
	task *api.Task
	err  error
}

type taskDeletedMsg struct {
	id  int
	err error
}

type subtasksMsg struct {
	gen      int
	subtasks []api.Subtask
	err      error
}

type subtaskChangedMsg struct {
	gen int
	err error
}

type filesMsg struct {
	gen   int
	files []api.File
	err   error
}

type fileChangedMsg struct {
	gen int
	err error
}

type fileDownloadedMsg struct {
	gen  int
	name string
	err  error
}

type remindersMsg struct {
	gen       int
	reminders []api.Reminder
	err       error
}

type reminderChangedMsg struct {
	gen int
	err error
}

type calendarMsg struct {
	gen   int
	items []api.CalendarItem
	err   error
}

type usersMsg struct {
	gen   int
	users []api.User
	err   error
}

type userChangedMsg struct {
	gen int
	err error
}

// Commands

func initSessionCmd(ctx context.Context, store *session.Store) tea.Cmd {
	return func() tea.Msg {
		return sessionReadyMsg{err: store.Initialize(ctx)}
	}
}

func loginCmd(ctx context.Context, store *session.Store, creds api.Credentials) tea.Cmd {
	return func() tea.Msg {
		return authMsg{err: store.Login(ctx, creds)}
	}
}

func registerCmd(ctx context.Context, store *session.Store, reg api.Registration) tea.Cmd {
	return func() tea.Msg {
		return authMsg{err: store.Register(ctx, reg)}
	}
}

func fetchTasksCmd(ctx context.Context, client *api.Client, gen int, q api.TaskQuery) tea.Cmd {
	return func() tea.Msg {
		list, err := client.ListTasks(ctx, q)
		return tasksMsg{gen: gen, tasks: list, err: err}
	}
}

func fetchTagsCmd(ctx context.Context, client *api.Client) tea.Cmd {
	return func() tea.Msg {
		list, err := client.ListTags(ctx)
		return tagsMsg{tags: list, err: err}
	}
}

// createTaskCmd resolves the free-text tag draft before creating the task:
// names already in the vocabulary reuse their id, unseen names are created
// first. Matching is case-insensitive like the draft parser itself.
func createTaskCmd(ctx context.Context, client *api.Client, p api.TaskPayload, draft string, known []api.Tag) tea.Cmd {
	return func() tea.Msg {
		byName := make(map[string]int, len(known))
		for _, t := range known {
			byName[strings.ToLower(t.Name)] = t.ID
		}

		var created []api.Tag
		for _, name := range tags.Parse(draft) {
			if id, ok := byName[strings.ToLower(name)]; ok {
				p.TagIDs = append(p.TagIDs, id)
				continue
			}
			tag, err := client.CreateTag(ctx, name)
			if err != nil {
				return taskSavedMsg{err: err}
			}
			created = append(created, *tag)
			p.TagIDs = append(p.TagIDs, tag.ID)
		}

		task, err := client.CreateTask(ctx, p)
		return taskSavedMsg{task: task, newTags: created, err: err}
	}
}

func deleteTagCmd(ctx context.Context, client *api.Client, id int) tea.Cmd {
	return func() tea.Msg {
		return tagDeletedMsg{id: id, err: client.DeleteTag(ctx, id)}
	}
}

func updateTaskCmd(ctx context.Context, client *api.Client, id int, p api.TaskPayload) tea.Cmd {
	return func() tea.Msg {
		task, err := client.UpdateTask(ctx, id, p)
		return taskUpdatedMsg{task: task, err: err}
	}
}

func deleteTaskCmd(ctx context.Context, client *api.Client, id int) tea.Cmd {
	return func() tea.Msg {
		return taskDeletedMsg{id: id, err: client.DeleteTask(ctx, id)}
	}
}

func generateNextCmd(ctx context.Context, client *api.Client, id int) tea.Cmd {
	return func() tea.Msg {
		task, err := client.GenerateNext(ctx, id)
		return taskSavedMsg{task: task, err: err}
	}
}

func fetchTaskCmd(ctx context.Context, client *api.Client, gen, id int) tea.Cmd {
	return func() tea.Msg {
		task, err := client.GetTask(ctx, id)
		return taskMsg{gen: gen, task: task, err: err}
	}
}

func fetchSubtasksCmd(ctx context.Context, client *api.Client, gen, taskID int) tea.Cmd {
	return func() tea.Msg {
		list, err := client.ListSubtasks(ctx, taskID)
		return subtasksMsg{gen: gen, subtasks: list, err: err}
	}
}

func createSubtaskCmd(ctx context.Context, client *api.Client, gen int, p api.SubtaskPayload) tea.Cmd {
	return func() tea.Msg {
		_, err := client.CreateSubtask(ctx, p)
		return subtaskChangedMsg{gen: gen, err: err}
	}
}

func updateSubtaskCmd(ctx context.Context, client *api.Client, gen int, s api.Subtask) tea.Cmd {
	return func() tea.Msg {
		_, err := client.UpdateSubtask(ctx, s.ID, api.SubtaskPayload{
			TaskID: s.TaskID,
			Title:  s.Title,
			IsDone: s.IsDone,
		})
		return subtaskChangedMsg{gen: gen, err: err}
	}
}

func deleteSubtaskCmd(ctx context.Context, client *api.Client, gen, id int) tea.Cmd {
	return func() tea.Msg {
		return subtaskChangedMsg{gen: gen, err: client.DeleteSubtask(ctx, id)}
	}
}

func fetchFilesCmd(ctx context.Context, client *api.Client, gen, taskID int) tea.Cmd {
	return func() tea.Msg {
		list, err := client.ListFiles(ctx, taskID)
		return filesMsg{gen: gen, files: list, err: err}
	}
}

// uploadFileCmd streams a local file to the backend as a task attachment.
func uploadFileCmd(ctx context.Context, client *api.Client, gen, taskID int, path string) tea.Cmd {
	return func() tea.Msg {
		f, err := os.Open(path)
		if err != nil {
			return fileChangedMsg{gen: gen, err: err}
		}
		defer f.Close()
		_, err = client.UploadFile(ctx, taskID, filepath.Base(path), f)
		return fileChangedMsg{gen: gen, err: err}
	}
}

// downloadFileCmd saves an attachment into the working directory under its
// server-side filename.
func downloadFileCmd(ctx context.Context, client *api.Client, gen int, file api.File) tea.Cmd {
	return func() tea.Msg {
		out, err := os.Create(filepath.Base(file.Filename))
		if err != nil {
			return fileDownloadedMsg{gen: gen, err: err}
		}
		defer out.Close()
		_, err = client.DownloadFile(ctx, file.ID, out)
		return fileDownloadedMsg{gen: gen, name: out.Name(), err: err}
	}
}

func deleteFileCmd(ctx context.Context, client *api.Client, gen, id int) tea.Cmd {
	return func() tea.Msg {
		return fileChangedMsg{gen: gen, err: client.DeleteFile(ctx, id)}
	}
}

func fetchRemindersCmd(ctx context.Context, client *api.Client, gen, taskID int) tea.Cmd {
	return func() tea.Msg {
		list, err := client.ListReminders(ctx, taskID)
		return remindersMsg{gen: gen, reminders: list, err: err}
	}
}

func createReminderCmd(ctx context.Context, client *api.Client, gen, taskID int, p api.ReminderPayload) tea.Cmd {
	return func() tea.Msg {
		_, err := client.CreateReminder(ctx, taskID, p)
		return reminderChangedMsg{gen: gen, err: err}
	}
}

func updateReminderCmd(ctx context.Context, client *api.Client, gen int, r api.Reminder) tea.Cmd {
	return func() tea.Msg {
		_, err := client.UpdateReminder(ctx, r.TaskID, r.ID, api.ReminderPayload{
			EveryMinutes: r.EveryMinutes,
			StartAt:      r.StartAt,
			EndAt:        r.EndAt,
			IsEnabled:    r.IsEnabled,
		})
		return reminderChangedMsg{gen: gen, err: err}
	}
}

func deleteReminderCmd(ctx context.Context, client *api.Client, gen, taskID, id int) tea.Cmd {
	return func() tea.Msg {
		return reminderChangedMsg{gen: gen, err: client.DeleteReminder(ctx, taskID, id)}
	}
}

func fetchCalendarCmd(ctx context.Context, client *api.Client, gen int, from, to string) tea.Cmd {
	return func() tea.Msg {
		items, err := client.Calendar(ctx, from, to)
		return calendarMsg{gen: gen, items: items, err: err}
	}
}

func fetchUsersCmd(ctx context.Context, client *api.Client, gen int, q api.UserQuery) tea.Cmd {
	return func() tea.Msg {
		list, err := client.ListUsers(ctx, q)
		return usersMsg{gen: gen, users: list, err: err}
	}
}

func updateUserCmd(ctx context.Context, client *api.Client, gen, id int, p api.UserPayload) tea.Cmd {
	return func() tea.Msg {
		_, err := client.UpdateUser(ctx, id, p)
		return userChangedMsg{gen: gen, err: err}
	}
}

func deleteUserCmd(ctx context.Context, client *api.Client, gen, id int) tea.Cmd {
	return func() tea.Msg {
		return userChangedMsg{gen: gen, err: client.DeleteUser(ctx, id)}
	}
}
