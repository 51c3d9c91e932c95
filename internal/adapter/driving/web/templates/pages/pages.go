// Package pages contains one templ component per panel page. Markup is
// deliberately plain; behavior lives in the web handlers.
package pages

import (
	"context"
	"fmt"
	"io"

	"github.com/a-h/templ"

	vm "github.com/adrianwozniak/hearth/internal/adapter/driving/web/viewmodel"
)

// page accumulates HTML writes and carries the first error, keeping the
// component bodies free of per-write error plumbing.
type page struct {
	w   io.Writer
	err error
}

func (p *page) raw(s string) {
	if p.err != nil {
		return
	}
	_, p.err = io.WriteString(p.w, s)
}

// text writes s HTML-escaped.
func (p *page) text(s string) {
	p.raw(templ.EscapeString(s))
}

// f writes a formatted fragment. Callers escape interpolated user data.
func (p *page) f(format string, args ...any) {
	if p.err != nil {
		return
	}
	_, p.err = fmt.Fprintf(p.w, format, args...)
}

func (p *page) csrf(token string) {
	p.f(`<input type="hidden" name="csrf_token" value="%s">`, templ.EscapeString(token))
}

// field renders a labeled input with its inline validation error, if any.
func (p *page) field(label, typ, name string, f vm.Field) {
	p.f(`<label>%s<input type="%s" name="%s" value="%s"></label>`,
		templ.EscapeString(label), typ, name, templ.EscapeString(f.Value))
	if f.Error != "" {
		p.f(`<p class="field-error">%s</p>`, templ.EscapeString(f.Error))
	}
}

func component(render func(p *page)) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		p := &page{w: w}
		render(p)
		return p.err
	})
}

func amount(v float64) string {
	return fmt.Sprintf("%.2f", v)
}

// Landing is the public start page.
func Landing() templ.Component {
	return component(func(p *page) {
		p.raw(`<section class="hero"><h1>Run your household together</h1>`)
		p.raw(`<p>Shared savings, family goals, and chores with ratings.</p>`)
		p.raw(`<p><a class="button" href="/register">Get started</a> <a class="button secondary" href="/login">Log in</a></p></section>`)
	})
}

// Unavailable is shown when the family API cannot be reached.
func Unavailable() templ.Component {
	return component(func(p *page) {
		p.raw(`<section class="card"><h1>Service unavailable</h1>`)
		p.raw(`<p>The family service is not responding right now. Your session is still active.</p>`)
		p.raw(`<p><a class="button" href="/app/dashboard">Try again</a></p></section>`)
	})
}

// Login renders the login form.
func Login(m vm.LoginPage) templ.Component {
	return component(func(p *page) {
		p.raw(`<h1>Log in</h1><form method="post" action="/login" class="card">`)
		p.csrf(m.CSRF)
		p.field("Email", "email", "email", m.Email)
		p.field("Password", "password", "password", m.Password)
		p.raw(`<button type="submit">Log in</button></form>`)
		p.raw(`<p>No account? <a href="/register">Register</a></p>`)
	})
}

// Register renders the registration form.
func Register(m vm.RegisterPage) templ.Component {
	return component(func(p *page) {
		p.raw(`<h1>Create an account</h1><form method="post" action="/register" class="card">`)
		p.csrf(m.CSRF)
		p.field("Full name", "text", "full_name", m.FullName)
		p.field("Email", "email", "email", m.Email)
		p.field("Password", "password", "password", m.Password)
		p.raw(`<button type="submit">Register</button></form>`)
	})
}

// Dashboard renders either the family overview or the create-or-join
// choice for users without a family.
func Dashboard(m vm.DashboardPage) templ.Component {
	return component(func(p *page) {
		p.raw(`<h1>Welcome, `)
		p.text(m.UserName)
		p.raw(`!</h1>`)

		if !m.HasFamily {
			p.raw(`<p>You don't belong to a family yet. Create a new one or join with an invite code.</p>`)
			p.raw(`<div class="choice"><a class="button" href="/app/family/new">Create a family</a>`)
			p.raw(`<a class="button secondary" href="/app/family/join">I have an invite code</a></div>`)
			return
		}

		if m.Family != nil {
			p.raw(`<section class="card"><h2>`)
			p.text(m.Family.Name)
			p.f(`</h2><p>Monthly contribution: %s</p>`, amount(m.Family.MonthlyContribution))
			if m.Family.IsOwner {
				p.f(`<p>Invite code: <code>%s</code></p>`, templ.EscapeString(m.Family.InviteCode))
			}
			p.raw(`</section>`)
		}

		p.raw(`<div class="tiles">`)
		p.raw(`<a class="tile" href="/app/finances"><h2>Finances</h2><p>Savings status, monthly payments, and goals.</p></a>`)
		p.raw(`<a class="tile" href="/app/tasks"><h2>Tasks</h2><p>Assign chores, complete them, rate the work.</p></a>`)
		p.raw(`</div>`)
	})
}

// CreateFamily renders the family creation form.
func CreateFamily(m vm.CreateFamilyPage) templ.Component {
	return component(func(p *page) {
		p.raw(`<h1>Create a family</h1><form method="post" action="/app/family/new" class="card">`)
		p.csrf(m.CSRF)
		p.field("Family name", "text", "name", m.Name)
		p.field("Monthly contribution", "number", "monthly_amount", m.MonthlyAmount)
		p.raw(`<button type="submit">Create</button></form>`)
	})
}

// JoinFamily renders the invite-code form.
func JoinFamily(m vm.JoinFamilyPage) templ.Component {
	return component(func(p *page) {
		p.raw(`<h1>Join a family</h1><form method="post" action="/app/family/join" class="card">`)
		p.csrf(m.CSRF)
		p.field("Invite code", "text", "code", m.Code)
		p.raw(`<button type="submit">Join</button></form>`)
	})
}

// Finances renders the savings status, the goal list, and the new-goal form.
func Finances(m vm.FinancesPage) templ.Component {
	return component(func(p *page) {
		p.raw(`<h1>Finances</h1><section class="card"><h2>Monthly savings</h2>`)
		p.f(`<p>Family total: <strong>%s</strong></p>`, amount(m.Savings.TotalFamilySavings))
		if m.Savings.PaidThisMonth {
			p.f(`<p class="ok">Paid this month (%s).</p>`, amount(m.Savings.PaymentAmount))
		} else {
			p.raw(`<p class="due">Not paid this month.</p><form method="post" action="/app/finances/pay">`)
			p.csrf(m.CSRF)
			p.raw(`<button type="submit">Pay monthly contribution</button></form>`)
		}
		p.raw(`</section><section><h2>Goals</h2>`)

		if len(m.Goals) == 0 {
			p.raw(`<p>No goals yet.</p>`)
		}
		for _, g := range m.Goals {
			p.raw(`<div class="card goal"><h3>`)
			p.text(g.Name)
			p.f(`</h3><p>%s of %s (%d%%)</p>`, amount(g.CurrentAmount), amount(g.TargetAmount), g.ProgressPct)
			if g.Completed {
				p.raw(`<p class="ok">Completed</p>`)
			} else {
				p.f(`<form method="post" action="/app/finances/goals/%d/contribute">`, g.ID)
				p.csrf(m.CSRF)
				p.raw(`<input type="number" name="amount" step="0.01" min="0" placeholder="Amount">`)
				p.raw(`<button type="submit">Contribute</button></form>`)
			}
			p.raw(`</div>`)
		}

		p.raw(`</section><section class="card"><h2>New goal</h2><form method="post" action="/app/finances/goals">`)
		p.csrf(m.CSRF)
		p.field("Goal name", "text", "name", m.NewGoal.Name)
		p.field("Target amount", "number", "target", m.NewGoal.Target)
		p.raw(`<button type="submit">Create goal</button></form></section>`)
	})
}

// memberSelect renders the assignee dropdown, preselecting the submitted
// value.
func (p *page) memberSelect(members []vm.MemberOption, selected string) {
	p.raw(`<label>Assign to<select name="assigned_to_id"><option value="">Nobody</option>`)
	for _, m := range members {
		sel := ""
		if fmt.Sprintf("%d", m.ID) == selected {
			sel = ` selected`
		}
		p.f(`<option value="%d"%s>%s</option>`, m.ID, sel, templ.EscapeString(m.FullName))
	}
	p.raw(`</select></label>`)
}

func (p *page) taskCard(t vm.TaskCard, detail bool) {
	p.raw(`<div class="card task"><h3>`)
	if detail {
		p.text(t.Title)
	} else {
		p.f(`<a href="/app/tasks/%d">%s</a>`, t.ID, templ.EscapeString(t.Title))
	}
	p.raw(`</h3>`)
	if t.Done {
		p.raw(`<p class="ok">Done</p>`)
	} else {
		p.raw(`<p class="due">To do</p>`)
	}
	if t.AssigneeName != "" {
		p.f(`<p>Assigned to %s</p>`, templ.EscapeString(t.AssigneeName))
	}
	if t.Deadline != "" {
		p.f(`<p>Deadline: %s</p>`, templ.EscapeString(t.Deadline))
	}
	if t.Rating > 0 {
		p.f(`<p>Rated %d/5</p>`, t.Rating)
	}
	p.raw(`</div>`)
}

// Tasks renders the task list and the creation form.
func Tasks(m vm.TasksPage) templ.Component {
	return component(func(p *page) {
		p.raw(`<h1>Tasks</h1>`)
		if len(m.Tasks) == 0 {
			p.raw(`<p>No tasks yet.</p>`)
		}
		for _, t := range m.Tasks {
			p.taskCard(t, false)
		}

		p.raw(`<section class="card"><h2>New task</h2><form method="post" action="/app/tasks">`)
		p.csrf(m.CSRF)
		p.field("Title", "text", "title", m.NewTask.Title)
		p.memberSelect(m.Members, m.NewTask.AssignedTo.Value)
		p.field("Deadline", "date", "deadline", m.NewTask.Deadline)
		p.raw(`<button type="submit">Add task</button></form></section>`)
	})
}

// TaskDetail renders one task with its actions, edit form, and comments.
func TaskDetail(m vm.TaskDetailPage) templ.Component {
	return component(func(p *page) {
		p.taskCard(m.Task, true)

		p.raw(`<div class="actions">`)
		if !m.Task.Done {
			p.f(`<form method="post" action="/app/tasks/%d/complete" class="inline">`, m.Task.ID)
			p.csrf(m.CSRF)
			p.raw(`<button type="submit">Mark done</button></form>`)
		}
		if m.Task.Done && m.Task.Rating == 0 {
			p.f(`<form method="post" action="/app/tasks/%d/rate" class="inline">`, m.Task.ID)
			p.csrf(m.CSRF)
			p.raw(`<select name="rating"><option value="1">1</option><option value="2">2</option><option value="3">3</option><option value="4">4</option><option value="5">5</option></select>`)
			p.raw(`<button type="submit">Rate</button></form>`)
		}
		// Deletion authority is the family owner's; the server decides.
		p.f(`<form method="post" action="/app/tasks/%d/delete" class="inline">`, m.Task.ID)
		p.csrf(m.CSRF)
		p.raw(`<button type="submit" class="danger">Delete</button></form>`)
		p.raw(`</div>`)

		p.f(`<section class="card"><h2>Edit</h2><form method="post" action="/app/tasks/%d">`, m.Task.ID)
		p.csrf(m.CSRF)
		p.field("Title", "text", "title", m.Edit.Title)
		p.memberSelect(m.Members, m.Edit.AssignedTo.Value)
		p.field("Deadline", "date", "deadline", m.Edit.Deadline)
		p.raw(`<button type="submit">Save</button></form></section>`)

		p.raw(`<section><h2>Comments</h2>`)
		if m.CommentsError != "" {
			p.f(`<div class="flash flash-error">%s</div>`, templ.EscapeString(m.CommentsError))
		} else if len(m.Comments) == 0 {
			p.raw(`<p>No comments yet.</p>`)
		}
		for _, c := range m.Comments {
			p.raw(`<div class="card comment"><p class="meta">`)
			p.text(c.AuthorName)
			p.raw(` &middot; `)
			p.text(c.CreatedAt)
			// BodyHTML is sanitized markdown output; emit as-is.
			p.raw(`</p><div class="body">` + c.BodyHTML + `</div></div>`)
		}

		p.f(`<form method="post" action="/app/tasks/%d/comments" class="card">`, m.Task.ID)
		p.csrf(m.CSRF)
		p.f(`<label>Add a comment<textarea name="content">%s</textarea></label>`, templ.EscapeString(m.NewComment.Value))
		if m.NewComment.Error != "" {
			p.f(`<p class="field-error">%s</p>`, templ.EscapeString(m.NewComment.Error))
		}
		p.raw(`<button type="submit">Comment</button></form></section>`)
	})
}
