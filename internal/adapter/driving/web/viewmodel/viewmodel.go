// Package viewmodel defines the presentation types rendered by the templ
// components. Converters from domain types live in the web package.
package viewmodel

// Flash is a one-shot notification surfaced after a mutation.
type Flash struct {
	// Level is "success" or "error"; it selects the banner style.
	Level   string
	Message string
}

// Nav carries the layout's navigation state. CSRF protects the logout form.
type Nav struct {
	Authenticated bool
	UserName      string
	CSRF          string
}

// Field is a form input's submitted value plus its inline validation error.
type Field struct {
	Value string
	Error string
}

// LoginPage is the login form state.
type LoginPage struct {
	CSRF     string
	Email    Field
	Password Field
}

// RegisterPage is the registration form state.
type RegisterPage struct {
	CSRF     string
	FullName Field
	Email    Field
	Password Field
}

// FamilyCard summarizes the user's household on the dashboard.
type FamilyCard struct {
	Name                string
	InviteCode          string
	MonthlyContribution float64
	IsOwner             bool
}

// DashboardPage branches between the family dashboard and the
// create-or-join choice.
type DashboardPage struct {
	UserName  string
	HasFamily bool
	// Family is nil when the household summary could not be fetched;
	// the dashboard renders without it.
	Family *FamilyCard
}

// CreateFamilyPage is the family creation form state.
type CreateFamilyPage struct {
	CSRF          string
	Name          Field
	MonthlyAmount Field
}

// JoinFamilyPage is the invite-code redemption form state.
type JoinFamilyPage struct {
	CSRF string
	Code Field
}

// SavingsCard is the monthly contribution status block.
type SavingsCard struct {
	PaidThisMonth      bool
	TotalFamilySavings float64
	PaymentAmount      float64
}

// GoalCard is one savings goal row.
type GoalCard struct {
	ID            int64
	Name          string
	TargetAmount  float64
	CurrentAmount float64
	ProgressPct   int
	Completed     bool
}

// GoalForm is the new-goal form state.
type GoalForm struct {
	Name   Field
	Target Field
}

// FinancesPage aggregates the savings status and goal list.
type FinancesPage struct {
	CSRF    string
	Savings SavingsCard
	Goals   []GoalCard
	NewGoal GoalForm
}

// MemberOption is an assignee choice in task forms.
type MemberOption struct {
	ID       int64
	FullName string
}

// TaskCard is one task row.
type TaskCard struct {
	ID           int64
	Title        string
	Done         bool
	Rating       int // 0 = unrated
	AssigneeName string
	Deadline     string
}

// TaskForm is the create/update task form state.
type TaskForm struct {
	Title      Field
	AssignedTo Field
	Deadline   Field
}

// TasksPage is the task list plus the creation form.
type TasksPage struct {
	CSRF    string
	Tasks   []TaskCard
	Members []MemberOption
	NewTask TaskForm
}

// CommentView is a rendered task comment. BodyHTML is sanitized markdown
// and safe to emit without further escaping.
type CommentView struct {
	AuthorName string
	CreatedAt  string
	BodyHTML   string
}

// TaskDetailPage is a single task with its comments and edit form.
type TaskDetailPage struct {
	CSRF     string
	Task     TaskCard
	Members  []MemberOption
	Comments []CommentView
	// CommentsError is shown in place of the comment list when the fetch
	// failed; the rest of the page still renders.
	CommentsError string
	Edit          TaskForm
	// NewComment holds the rejected value when comment validation fails.
	NewComment Field
}
