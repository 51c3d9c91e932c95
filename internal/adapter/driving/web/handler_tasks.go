package web

import (
	"net/http"
	"strconv"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/adrianwozniak/hearth/internal/adapter/driving/web/templates/pages"
	vm "github.com/adrianwozniak/hearth/internal/adapter/driving/web/viewmodel"
	"github.com/adrianwozniak/hearth/internal/domain/model"
	"github.com/adrianwozniak/hearth/internal/domain/port/driven"
)

// Tasks renders the task list and creation form. Tasks and members are
// fetched in parallel.
func (h *Handler) Tasks(w http.ResponseWriter, r *http.Request) {
	tasks, members, err := h.fetchTasksAndMembers(r)
	if err != nil {
		h.flashError(w, r, err, "Could not load tasks.")
		http.Redirect(w, r, "/app/dashboard", http.StatusSeeOther)
		return
	}

	page := vm.TasksPage{
		CSRF:    ensureCSRF(w, r),
		Tasks:   taskCards(tasks, memberNames(members)),
		Members: memberOptions(members),
	}
	h.render(w, r, "Tasks", pages.Tasks(page))
}

func (h *Handler) fetchTasksAndMembers(r *http.Request) ([]model.Task, []model.FamilyMember, error) {
	var (
		tasks   []model.Task
		members []model.FamilyMember
	)

	g, ctx := errgroup.WithContext(r.Context())
	g.Go(func() error {
		var err error
		tasks, err = h.api.Tasks(ctx)
		return err
	})
	g.Go(func() error {
		var err error
		members, err = h.api.Members(ctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return tasks, members, nil
}

// taskDraft builds a draft from the create/edit form values. Assignee and
// deadline stay nil when their fields are left empty.
func taskDraft(r *http.Request) (driven.TaskDraft, string) {
	draft := driven.TaskDraft{Title: strings.TrimSpace(r.FormValue("title"))}
	if draft.Title == "" {
		return draft, "A task needs a title."
	}

	if raw := strings.TrimSpace(r.FormValue("assigned_to_id")); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return draft, "Unknown assignee."
		}
		draft.AssignedToID = &id
	}
	if raw := strings.TrimSpace(r.FormValue("deadline")); raw != "" {
		draft.Deadline = &raw
	}
	return draft, ""
}

// CreateTask handles the new-task form.
func (h *Handler) CreateTask(w http.ResponseWriter, r *http.Request) {
	draft, problem := taskDraft(r)
	if problem != "" {
		setFlash(w, "error", problem)
		http.Redirect(w, r, "/app/tasks", http.StatusSeeOther)
		return
	}

	if _, err := h.api.CreateTask(r.Context(), draft); err != nil {
		h.flashError(w, r, err, "Could not create the task.")
		http.Redirect(w, r, "/app/tasks", http.StatusSeeOther)
		return
	}

	setFlash(w, "success", "Task added.")
	http.Redirect(w, r, "/app/tasks", http.StatusSeeOther)
}

// TaskDetail renders one task with its comments and actions.
func (h *Handler) TaskDetail(w http.ResponseWriter, r *http.Request) {
	taskID, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		http.NotFound(w, r)
		return
	}

	tasks, members, err := h.fetchTasksAndMembers(r)
	if err != nil {
		h.flashError(w, r, err, "Could not load the task.")
		http.Redirect(w, r, "/app/tasks", http.StatusSeeOther)
		return
	}

	var task *model.Task
	for i := range tasks {
		if tasks[i].ID == taskID {
			task = &tasks[i]
			break
		}
	}
	if task == nil {
		http.NotFound(w, r)
		return
	}

	commentsError := ""
	comments, err := h.api.Comments(r.Context(), taskID)
	if err != nil {
		h.logger.Warn("comment fetch failed", "task_id", taskID, "error", err)
		commentsError = "Comments could not be loaded right now."
	}

	names := memberNames(members)
	card := taskCard(*task, names)
	page := vm.TaskDetailPage{
		CSRF:          ensureCSRF(w, r),
		Task:          card,
		Members:       memberOptions(members),
		Comments:      commentViews(comments, names),
		CommentsError: commentsError,
		Edit: vm.TaskForm{
			Title:    vm.Field{Value: task.Title},
			Deadline: vm.Field{Value: card.Deadline},
		},
	}
	if task.AssignedToID != nil {
		page.Edit.AssignedTo.Value = strconv.FormatInt(*task.AssignedToID, 10)
	}

	h.render(w, r, card.Title, pages.TaskDetail(page))
}

// UpdateTask handles the edit form on the task detail page.
func (h *Handler) UpdateTask(w http.ResponseWriter, r *http.Request) {
	taskID, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		http.NotFound(w, r)
		return
	}

	draft, problem := taskDraft(r)
	if problem != "" {
		setFlash(w, "error", problem)
		http.Redirect(w, r, taskPath(taskID), http.StatusSeeOther)
		return
	}

	if _, err := h.api.UpdateTask(r.Context(), taskID, draft); err != nil {
		h.flashError(w, r, err, "Could not update the task.")
		http.Redirect(w, r, taskReturnPath(err, taskID), http.StatusSeeOther)
		return
	}
	setFlash(w, "success", "Task updated.")
	http.Redirect(w, r, taskPath(taskID), http.StatusSeeOther)
}

// CompleteTask marks a task done.
func (h *Handler) CompleteTask(w http.ResponseWriter, r *http.Request) {
	taskID, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		http.NotFound(w, r)
		return
	}

	if err := h.api.CompleteTask(r.Context(), taskID); err != nil {
		h.flashError(w, r, err, "Could not complete the task.")
		http.Redirect(w, r, taskReturnPath(err, taskID), http.StatusSeeOther)
		return
	}
	setFlash(w, "success", "Task completed.")
	http.Redirect(w, r, taskPath(taskID), http.StatusSeeOther)
}

// RateTask submits a 1-5 rating. Rating your own task is rejected
// server-side and the rejection message is shown verbatim.
func (h *Handler) RateTask(w http.ResponseWriter, r *http.Request) {
	taskID, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		http.NotFound(w, r)
		return
	}

	rating, parseErr := strconv.Atoi(r.FormValue("rating"))
	if parseErr != nil || rating < 1 || rating > 5 {
		setFlash(w, "error", "Pick a rating between 1 and 5.")
		http.Redirect(w, r, taskPath(taskID), http.StatusSeeOther)
		return
	}

	if err := h.api.RateTask(r.Context(), taskID, rating); err != nil {
		h.flashError(w, r, err, "Could not rate the task.")
		http.Redirect(w, r, taskReturnPath(err, taskID), http.StatusSeeOther)
		return
	}
	setFlash(w, "success", "Rating saved.")
	http.Redirect(w, r, taskPath(taskID), http.StatusSeeOther)
}

// DeleteTask removes a task. Only the family owner may delete; anyone else
// gets the server's permission rejection.
func (h *Handler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	taskID, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		http.NotFound(w, r)
		return
	}

	if err := h.api.DeleteTask(r.Context(), taskID); err != nil {
		h.flashError(w, r, err, "Could not delete the task.")
		http.Redirect(w, r, taskPath(taskID), http.StatusSeeOther)
		return
	}

	setFlash(w, "success", "Task deleted.")
	http.Redirect(w, r, "/app/tasks", http.StatusSeeOther)
}

// AddComment posts a comment on a task.
func (h *Handler) AddComment(w http.ResponseWriter, r *http.Request) {
	taskID, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		http.NotFound(w, r)
		return
	}

	content := strings.TrimSpace(r.FormValue("content"))
	if content == "" {
		setFlash(w, "error", "A comment cannot be empty.")
		http.Redirect(w, r, taskPath(taskID), http.StatusSeeOther)
		return
	}

	if err := h.api.AddComment(r.Context(), taskID, content); err != nil {
		h.flashError(w, r, err, "Could not add the comment.")
		http.Redirect(w, r, taskReturnPath(err, taskID), http.StatusSeeOther)
		return
	}
	setFlash(w, "success", "Comment added.")
	http.Redirect(w, r, taskPath(taskID), http.StatusSeeOther)
}

func taskPath(taskID int64) string {
	return "/app/tasks/" + strconv.FormatInt(taskID, 10)
}

// taskReturnPath picks where a failed task mutation lands: back on the task,
// or on the list when the server says the task no longer exists.
func taskReturnPath(err error, taskID int64) string {
	if driven.IsNotFound(err) {
		return "/app/tasks"
	}
	return taskPath(taskID)
}
