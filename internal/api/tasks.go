package api

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strconv"
)

// TaskQuery narrows /tasks listings. Zero values are omitted.
type TaskQuery struct {
	Search  string
	Status  TaskStatus
	DueFrom string
	DueTo   string
	Limit   int
	Offset  int
}

// TaskPayload carries the full editable task record.
type TaskPayload struct {
	Title                 string     `json:"title"`
	Description           string     `json:"description,omitempty"`
	DueAt                 string     `json:"due_at,omitempty"`
	Status                TaskStatus `json:"status,omitempty"`
	RepeatIntervalMinutes int        `json:"repeat_interval_minutes,omitempty"`
	TagIDs                []int      `json:"tag_ids"`
}

// SubtaskPayload carries the full editable subtask record.
type SubtaskPayload struct {
	TaskID int    `json:"task_id,omitempty"`
	Title  string `json:"title"`
	IsDone bool   `json:"is_done"`
}

// ReminderPayload carries the full editable reminder record.
type ReminderPayload struct {
	TaskID       int    `json:"task_id,omitempty"`
	EveryMinutes int    `json:"every_minutes"`
	StartAt      string `json:"start_at,omitempty"`
	EndAt        string `json:"end_at,omitempty"`
	IsEnabled    bool   `json:"is_enabled"`
}

// UserQuery narrows admin /users listings.
type UserQuery struct {
	Search string
	Limit  int
	Offset int
}

// UserPayload updates an account's mutable fields (admin only).
type UserPayload struct {
	Name string `json:"name,omitempty"`
	Role Role   `json:"role,omitempty"`
}

// ListTasks returns tasks matching the query.
func (c *Client) ListTasks(ctx context.Context, q TaskQuery) ([]Task, error) {
	values := url.Values{}
	if q.Search != "" {
		values.Set("search", q.Search)
	}
	if q.Status != "" {
		values.Set("status_filter", string(q.Status))
	}
	if q.DueFrom != "" {
		values.Set("due_from", q.DueFrom)
	}
	if q.DueTo != "" {
		values.Set("due_to", q.DueTo)
	}
	if q.Limit > 0 {
		values.Set("limit", strconv.Itoa(q.Limit))
	}
	if q.Offset > 0 {
		values.Set("offset", strconv.Itoa(q.Offset))
	}
	var payload []Task
	if err := c.get(ctx, "/tasks", values, &payload); err != nil {
		return nil, err
	}
	return payload, nil
}

// GetTask returns one task.
func (c *Client) GetTask(ctx context.Context, id int) (*Task, error) {
	var payload Task
	if err := c.get(ctx, "/tasks/"+strconv.Itoa(id), nil, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// CreateTask stores a new task and returns the canonical record.
func (c *Client) CreateTask(ctx context.Context, p TaskPayload) (*Task, error) {
	var payload Task
	if err := c.do(ctx, "POST", "/tasks", nil, p, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// UpdateTask resends the full record.
func (c *Client) UpdateTask(ctx context.Context, id int, p TaskPayload) (*Task, error) {
	var payload Task
	if err := c.do(ctx, "PUT", "/tasks/"+strconv.Itoa(id), nil, p, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// DeleteTask removes a task and everything under it.
func (c *Client) DeleteTask(ctx context.Context, id int) error {
	return c.do(ctx, "DELETE", "/tasks/"+strconv.Itoa(id), nil, nil, nil)
}

// GenerateNext asks the backend to materialize the next occurrence of a
// repeating task.
func (c *Client) GenerateNext(ctx context.Context, taskID int) (*Task, error) {
	var payload Task
	if err := c.do(ctx, "POST", fmt.Sprintf("/tasks/%d/generate-next", taskID), nil, nil, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// ListTags returns the caller's tags.
func (c *Client) ListTags(ctx context.Context) ([]Tag, error) {
	var payload []Tag
	if err := c.get(ctx, "/tags", nil, &payload); err != nil {
		return nil, err
	}
	return payload, nil
}

// CreateTag stores a new tag.
func (c *Client) CreateTag(ctx context.Context, name string) (*Tag, error) {
	var payload Tag
	if err := c.do(ctx, "POST", "/tags", nil, map[string]string{"name": name}, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// DeleteTag removes a tag.
func (c *Client) DeleteTag(ctx context.Context, id int) error {
	return c.do(ctx, "DELETE", "/tags/"+strconv.Itoa(id), nil, nil, nil)
}

// ListSubtasks returns the subtasks under a task.
func (c *Client) ListSubtasks(ctx context.Context, taskID int) ([]Subtask, error) {
	values := url.Values{"task_id": []string{strconv.Itoa(taskID)}}
	var payload []Subtask
	if err := c.get(ctx, "/subtasks", values, &payload); err != nil {
		return nil, err
	}
	return payload, nil
}

// CreateSubtask stores a new subtask.
func (c *Client) CreateSubtask(ctx context.Context, p SubtaskPayload) (*Subtask, error) {
	var payload Subtask
	if err := c.do(ctx, "POST", "/subtasks", nil, p, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// UpdateSubtask resends the full record.
func (c *Client) UpdateSubtask(ctx context.Context, id int, p SubtaskPayload) (*Subtask, error) {
	var payload Subtask
	if err := c.do(ctx, "PUT", "/subtasks/"+strconv.Itoa(id), nil, p, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// DeleteSubtask removes a subtask.
func (c *Client) DeleteSubtask(ctx context.Context, id int) error {
	return c.do(ctx, "DELETE", "/subtasks/"+strconv.Itoa(id), nil, nil, nil)
}

// Calendar returns tasks due inside the inclusive date range.
func (c *Client) Calendar(ctx context.Context, dateFrom, dateTo string) ([]CalendarItem, error) {
	values := url.Values{
		"date_from": []string{dateFrom},
		"date_to":   []string{dateTo},
	}
	var payload []CalendarItem
	if err := c.get(ctx, "/calendar", values, &payload); err != nil {
		return nil, err
	}
	return payload, nil
}

// ListFiles returns the attachments under a task.
func (c *Client) ListFiles(ctx context.Context, taskID int) ([]File, error) {
	values := url.Values{"task_id": []string{strconv.Itoa(taskID)}}
	var payload []File
	if err := c.get(ctx, "/files", values, &payload); err != nil {
		return nil, err
	}
	return payload, nil
}

// UploadFile attaches content to a task as a multipart "file" field.
func (c *Client) UploadFile(ctx context.Context, taskID int, filename string, content io.Reader) (*File, error) {
	values := url.Values{"task_id": []string{strconv.Itoa(taskID)}}
	var payload File
	if err := c.upload(ctx, "/files", values, filename, content, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// DownloadFile streams an attachment into w and reports the bytes written.
func (c *Client) DownloadFile(ctx context.Context, fileID int, w io.Writer) (int64, error) {
	return c.download(ctx, fmt.Sprintf("/files/%d/download", fileID), w)
}

// DeleteFile removes an attachment.
func (c *Client) DeleteFile(ctx context.Context, id int) error {
	return c.do(ctx, "DELETE", "/files/"+strconv.Itoa(id), nil, nil, nil)
}

// ListReminders returns the reminders under a task.
func (c *Client) ListReminders(ctx context.Context, taskID int) ([]Reminder, error) {
	var payload []Reminder
	if err := c.get(ctx, fmt.Sprintf("/tasks/%d/reminders", taskID), nil, &payload); err != nil {
		return nil, err
	}
	return payload, nil
}

// CreateReminder stores a new reminder under a task.
func (c *Client) CreateReminder(ctx context.Context, taskID int, p ReminderPayload) (*Reminder, error) {
	p.TaskID = taskID
	var payload Reminder
	if err := c.do(ctx, "POST", fmt.Sprintf("/tasks/%d/reminders", taskID), nil, p, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// UpdateReminder resends the full record.
func (c *Client) UpdateReminder(ctx context.Context, taskID, reminderID int, p ReminderPayload) (*Reminder, error) {
	var payload Reminder
	if err := c.do(ctx, "PUT", fmt.Sprintf("/tasks/%d/reminders/%d", taskID, reminderID), nil, p, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// DeleteReminder removes a reminder.
func (c *Client) DeleteReminder(ctx context.Context, taskID, reminderID int) error {
	return c.do(ctx, "DELETE", fmt.Sprintf("/tasks/%d/reminders/%d", taskID, reminderID), nil, nil, nil)
}

// ListUsers returns accounts matching the query (admin only).
func (c *Client) ListUsers(ctx context.Context, q UserQuery) ([]User, error) {
	values := url.Values{}
	if q.Search != "" {
		values.Set("search", q.Search)
	}
	if q.Limit > 0 {
		values.Set("limit", strconv.Itoa(q.Limit))
	}
	if q.Offset > 0 {
		values.Set("offset", strconv.Itoa(q.Offset))
	}
	var payload []User
	if err := c.get(ctx, "/users", values, &payload); err != nil {
		return nil, err
	}
	return payload, nil
}

// UpdateUser changes an account's name or role (admin only).
func (c *Client) UpdateUser(ctx context.Context, id int, p UserPayload) (*User, error) {
	var payload User
	if err := c.do(ctx, "PUT", "/users/"+strconv.Itoa(id), nil, p, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// DeleteUser removes an account (admin only).
func (c *Client) DeleteUser(ctx context.Context, id int) error {
	return c.do(ctx, "DELETE", "/users/"+strconv.Itoa(id), nil, nil, nil)
}
