package driven

import (
	"context"

	"github.com/adrianwozniak/hearth/internal/domain/model"
)

// ContributionResult is the family API's response to a goal contribution.
// Completed comes straight from the server; the panel uses it only to pick
// the success notification, never to update goal state locally.
type ContributionResult struct {
	Completed bool
}

// TaskDraft carries the optional and required fields for creating or
// updating a task. A nil AssignedToID leaves the task unassigned; a nil
// Deadline leaves it open-ended.
type TaskDraft struct {
	Title        string
	AssignedToID *int64
	Deadline     *string
}

// FamilyAPI defines the driven port for the remote household-management API.
// Every method is a single request/response call: no retries, no local
// caching of results beyond the transport layer's conditional GET support.
// Domain rules (invite code validity, payment eligibility, rating bounds,
// delete authority) are enforced server-side and reported as *APIError
// values by the adapter.
type FamilyAPI interface {
	// Auth

	// Register creates a new account and returns the created profile.
	// It does not log the user in; callers follow up with Login.
	Register(ctx context.Context, email, password, fullName string) (*model.User, error)
	// Login exchanges credentials for a bearer token (form-encoded
	// username/password per the API's OAuth2 password flow).
	Login(ctx context.Context, email, password string) (token string, err error)
	// Me returns the profile of the credential holder.
	Me(ctx context.Context) (*model.User, error)

	// Family

	CreateFamily(ctx context.Context, name string, monthlyAmount float64) (*model.Family, error)
	JoinFamily(ctx context.Context, inviteCode string) error
	// Family returns the caller's household.
	Family(ctx context.Context) (*model.Family, error)
	Members(ctx context.Context) ([]model.FamilyMember, error)

	// Finance

	SavingsStatus(ctx context.Context) (*model.SavingsStatus, error)
	PaySavings(ctx context.Context) error
	Goals(ctx context.Context) ([]model.Goal, error)
	CreateGoal(ctx context.Context, name string, target float64) (*model.Goal, error)
	Contribute(ctx context.Context, goalID int64, amount float64) (*ContributionResult, error)

	// Tasks

	Tasks(ctx context.Context) ([]model.Task, error)
	CreateTask(ctx context.Context, draft TaskDraft) (*model.Task, error)
	UpdateTask(ctx context.Context, taskID int64, draft TaskDraft) (*model.Task, error)
	CompleteTask(ctx context.Context, taskID int64) error
	RateTask(ctx context.Context, taskID int64, rating int) error
	DeleteTask(ctx context.Context, taskID int64) error
	Comments(ctx context.Context, taskID int64) ([]model.TaskComment, error)
	AddComment(ctx context.Context, taskID int64, content string) error
}
