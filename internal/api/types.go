package api

// Role distinguishes regular accounts from administrators.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// User is the identity returned by /profile, /login and /register.
type User struct {
	ID        int    `json:"id"`
	Email     string `json:"email"`
	Name      string `json:"name"`
	Role      Role   `json:"role"`
	CreatedAt string `json:"created_at,omitempty"`
}

// AuthResponse is the payload of a successful login or registration.
type AuthResponse struct {
	Token string `json:"token"`
	User  User   `json:"user_data"`
}

// Card is a single flashcard. The front is the prompt, the back the expected
// answer.
type Card struct {
	ID        int      `json:"id"`
	Front     string   `json:"front"`
	Back      string   `json:"back"`
	Examples  string   `json:"examples"`
	Tags      []string `json:"tags"`
	UserID    int      `json:"user_id"`
	CreatedAt string   `json:"created_at"`
}

// Deck is a named set of cards, including the embedded card list on detail
// responses.
type Deck struct {
	ID          int     `json:"id"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	RatingAvg   float64 `json:"rating_avg"`
	RatingCount int     `json:"rating_count"`
	CreatedAt   string  `json:"created_at"`
	Cards       []Card  `json:"cards"`
}

// TestResult is a persisted practice-session score.
type TestResult struct {
	ID         int     `json:"id"`
	UserID     int     `json:"user_id"`
	DeckID     int     `json:"deck_id"`
	Score      int     `json:"score"`
	Total      int     `json:"total"`
	Percentage float64 `json:"percentage"`
	CreatedAt  string  `json:"created_at"`
}

// Review is a 1-5 star deck rating.
type Review struct {
	ID        int    `json:"id"`
	UserID    int    `json:"user_id"`
	DeckID    int    `json:"deck_id"`
	Rating    int    `json:"rating"`
	CreatedAt string `json:"created_at"`
}

// TaskStatus enumerates the task lifecycle.
type TaskStatus string

const (
	StatusTodo       TaskStatus = "todo"
	StatusInProgress TaskStatus = "in_progress"
	StatusDone       TaskStatus = "done"
	StatusArchived   TaskStatus = "archived"
)

// Tag is a user-scoped task label.
type Tag struct {
	ID        int    `json:"id"`
	Name      string `json:"name"`
	UserID    int    `json:"user_id"`
	CreatedAt string `json:"created_at,omitempty"`
}

// Task is the full task record. PUT updates resend every editable field.
type Task struct {
	ID                    int        `json:"id"`
	UserID                int        `json:"user_id"`
	Title                 string     `json:"title"`
	Description           string     `json:"description,omitempty"`
	DueAt                 string     `json:"due_at,omitempty"`
	Status                TaskStatus `json:"status"`
	RepeatIntervalMinutes int        `json:"repeat_interval_minutes,omitempty"`
	CreatedAt             string     `json:"created_at,omitempty"`
	UpdatedAt             string     `json:"updated_at,omitempty"`
	Tags                  []Tag      `json:"tags"`
	SubtasksCount         int        `json:"subtasks_count"`
	FilesCount            int        `json:"files_count"`
	RemindersCount        int        `json:"reminders_count"`
}

// Subtask is a checklist entry under a task.
type Subtask struct {
	ID        int    `json:"id"`
	TaskID    int    `json:"task_id"`
	UserID    int    `json:"user_id"`
	Title     string `json:"title"`
	IsDone    bool   `json:"is_done"`
	CreatedAt string `json:"created_at,omitempty"`
	UpdatedAt string `json:"updated_at,omitempty"`
}

// File is an attachment stored server-side under a task.
type File struct {
	ID          int    `json:"id"`
	TaskID      int    `json:"task_id"`
	UserID      int    `json:"user_id"`
	Filename    string `json:"filename"`
	ContentType string `json:"content_type,omitempty"`
	SizeBytes   int64  `json:"size_bytes"`
	CreatedAt   string `json:"created_at,omitempty"`
}

// Reminder is a recurring notification attached to a task.
type Reminder struct {
	ID           int    `json:"id"`
	TaskID       int    `json:"task_id"`
	UserID       int    `json:"user_id"`
	EveryMinutes int    `json:"every_minutes"`
	StartAt      string `json:"start_at,omitempty"`
	EndAt        string `json:"end_at,omitempty"`
	IsEnabled    bool   `json:"is_enabled"`
	NextRunAt    string `json:"next_run_at,omitempty"`
	CreatedAt    string `json:"created_at,omitempty"`
}

// CalendarItem is a task due inside a queried date range.
type CalendarItem struct {
	TaskID int        `json:"task_id"`
	Title  string     `json:"title"`
	DueAt  string     `json:"due_at"`
	Status TaskStatus `json:"status"`
	UserID int        `json:"user_id"`
}
