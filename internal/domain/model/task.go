package model

// TaskStatus is the lifecycle state of a household task as reported by the
// family API. The API uses exactly two states.
type TaskStatus string

const (
	TaskStatusTodo TaskStatus = "TODO"
	TaskStatusDone TaskStatus = "DONE"
)

// Task is a household task. Rating is nil until another family member rates
// a completed task (1-5); the API rejects self-rating. AssignedToID and
// Deadline are optional.
type Task struct {
	ID           int64      `json:"id"`
	Title        string     `json:"title"`
	Status       TaskStatus `json:"status"`
	Rating       *int       `json:"rating"`
	AssignedToID *int64     `json:"assigned_to_id"`
	CreatedByID  int64      `json:"created_by_id"`
	Deadline     *string    `json:"deadline"`
}

// IsDone reports whether the task has been completed.
func (t Task) IsDone() bool {
	return t.Status == TaskStatusDone
}

// TaskComment is a free-text comment on a task. Content is treated as
// markdown by the panel and rendered sanitized.
type TaskComment struct {
	ID        int64  `json:"id"`
	Content   string `json:"content"`
	CreatedAt string `json:"created_at"`
	UserID    int64  `json:"user_id"`
	TaskID    int64  `json:"task_id"`
}
