package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
)

func TestClient_ListTasksEncodesQuery(t *testing.T) {
	t.Parallel()

	var gotQuery url.Values
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode([]Task{{ID: 1, Title: "write report"}})
	}))
	t.Cleanup(server.Close)

	c, err := NewClient(server.URL, staticTokens("t"))
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}

	tasks, err := c.ListTasks(context.Background(), TaskQuery{
		Search:  "report",
		Status:  StatusInProgress,
		DueFrom: "2026-01-01T00:00:00Z",
		DueTo:   "2026-01-31T00:00:00Z",
		Limit:   20,
		Offset:  40,
	})
	if err != nil {
		t.Fatalf("ListTasks returned error: %v", err)
	}
	if len(tasks) != 1 || tasks[0].ID != 1 {
		t.Fatalf("tasks = %#v, want 1 item id=1", tasks)
	}
	if gotQuery.Get("search") != "report" ||
		gotQuery.Get("status_filter") != "in_progress" ||
		gotQuery.Get("due_from") != "2026-01-01T00:00:00Z" ||
		gotQuery.Get("due_to") != "2026-01-31T00:00:00Z" ||
		gotQuery.Get("limit") != "20" ||
		gotQuery.Get("offset") != "40" {
		t.Fatalf("query = %v, want params encoded", gotQuery)
	}

	// Zero values stay out of the query string.
	_, err = c.ListTasks(context.Background(), TaskQuery{})
	if err != nil {
		t.Fatalf("ListTasks returned error: %v", err)
	}
	if len(gotQuery) != 0 {
		t.Fatalf("query = %v, want empty", gotQuery)
	}
}

func TestClient_CalendarRange(t *testing.T) {
	t.Parallel()

	var gotQuery url.Values
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/calendar" {
			http.NotFound(w, r)
			return
		}
		gotQuery = r.URL.Query()
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode([]CalendarItem{{TaskID: 3, Title: "standup", Status: StatusTodo}})
	}))
	t.Cleanup(server.Close)

	c, err := NewClient(server.URL, staticTokens("t"))
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}

	items, err := c.Calendar(context.Background(), "2026-03-01", "2026-03-31")
	if err != nil {
		t.Fatalf("Calendar returned error: %v", err)
	}
	if len(items) != 1 || items[0].TaskID != 3 {
		t.Fatalf("items = %#v, want 1 item task_id=3", items)
	}
	if gotQuery.Get("date_from") != "2026-03-01" || gotQuery.Get("date_to") != "2026-03-31" {
		t.Fatalf("query = %v, want date range encoded", gotQuery)
	}
}

func TestClient_UploadFileMultipart(t *testing.T) {
	t.Parallel()

	var gotTaskID, gotFilename, gotContent string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotTaskID = r.URL.Query().Get("task_id")
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		file, header, err := r.FormFile("file")
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		defer func() { _ = file.Close() }()
		gotFilename = header.Filename
		content, _ := io.ReadAll(file)
		gotContent = string(content)

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(File{ID: 9, TaskID: 12, Filename: header.Filename, SizeBytes: int64(len(content))})
	}))
	t.Cleanup(server.Close)

	c, err := NewClient(server.URL, staticTokens("t"))
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}

	uploaded, err := c.UploadFile(context.Background(), 12, "notes.txt", strings.NewReader("hello"))
	if err != nil {
		t.Fatalf("UploadFile returned error: %v", err)
	}
	if gotTaskID != "12" || gotFilename != "notes.txt" || gotContent != "hello" {
		t.Fatalf("upload = task %q file %q content %q, want 12/notes.txt/hello", gotTaskID, gotFilename, gotContent)
	}
	if uploaded.ID != 9 || uploaded.SizeBytes != 5 {
		t.Fatalf("uploaded = %#v, want id=9 size=5", uploaded)
	}
}

func TestClient_DownloadFileStreamsBinary(t *testing.T) {
	t.Parallel()

	blob := []byte{0x50, 0x4b, 0x03, 0x04, 0x00, 0x01}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/files/9/download" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/octet-stream")
		_, _ = w.Write(blob)
	}))
	t.Cleanup(server.Close)

	c, err := NewClient(server.URL, staticTokens("t"))
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}

	var buf bytes.Buffer
	n, err := c.DownloadFile(context.Background(), 9, &buf)
	if err != nil {
		t.Fatalf("DownloadFile returned error: %v", err)
	}
	if n != int64(len(blob)) || !bytes.Equal(buf.Bytes(), blob) {
		t.Fatalf("download = %d bytes %v, want %v", n, buf.Bytes(), blob)
	}
}

func TestClient_RemindersUnderTaskPath(t *testing.T) {
	t.Parallel()

	var gotPath string
	var gotBody ReminderPayload
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(Reminder{ID: 2, TaskID: 5, EveryMinutes: 30, IsEnabled: true})
	}))
	t.Cleanup(server.Close)

	c, err := NewClient(server.URL, staticTokens("t"))
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}

	rem, err := c.CreateReminder(context.Background(), 5, ReminderPayload{EveryMinutes: 30, IsEnabled: true})
	if err != nil {
		t.Fatalf("CreateReminder returned error: %v", err)
	}
	if gotPath != "/tasks/5/reminders" {
		t.Fatalf("path = %q, want /tasks/5/reminders", gotPath)
	}
	if gotBody.TaskID != 5 || gotBody.EveryMinutes != 30 {
		t.Fatalf("body = %#v, want task_id filled in", gotBody)
	}
	if rem.ID != 2 {
		t.Fatalf("reminder id = %d, want 2", rem.ID)
	}
}
