// Package familyapi implements the FamilyAPI port against the remote
// household-management REST service.
package familyapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/gregjones/httpcache"

	"github.com/adrianwozniak/hearth/internal/domain/model"
	"github.com/adrianwozniak/hearth/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.FamilyAPI = (*Client)(nil)

// maxErrorBody caps how much of an error response body is read for the
// APIError detail.
const maxErrorBody = 64 << 10

// Client implements the driven.FamilyAPI port. The transport stack is:
//  1. httpcache (ETag-based conditional request caching for GETs)
//  2. bearerTransport (credential injection plus 401 notification)
//
// Every call is a single attempt; failures propagate to the caller either
// as an *APIError (the server answered with non-2xx) or a wrapped transport
// error (the server was unreachable).
type Client struct {
	http    *http.Client
	baseURL *url.URL
}

// Options configures a Client.
type Options struct {
	// BaseURL is the root of the family API, e.g. "https://api.example.com".
	BaseURL string
	// Tokens supplies the current bearer credential; required.
	Tokens TokenFunc
	// OnUnauthorized fires when an authenticated request is rejected with
	// 401. Optional.
	OnUnauthorized func()
	// Timeout bounds each request as a safety net alongside context
	// cancellation. Zero means no client-level timeout.
	Timeout time.Duration
}

// NewClient creates a family API client with the caching bearer transport.
func NewClient(opts Options) (*Client, error) {
	return newClient(opts, httpcache.NewMemoryCacheTransport())
}

// NewClientWithTransport creates a Client on top of the provided base
// transport. This constructor is intended for testing, allowing injection
// of an httptest server transport without the caching layer.
func NewClientWithTransport(opts Options, base http.RoundTripper) (*Client, error) {
	return newClient(opts, base)
}

func newClient(opts Options, base http.RoundTripper) (*Client, error) {
	if opts.Tokens == nil {
		return nil, fmt.Errorf("familyapi: Options.Tokens is required")
	}

	u, err := url.Parse(opts.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("parsing base URL: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("base URL %q must be absolute", opts.BaseURL)
	}

	if base == nil {
		base = http.DefaultTransport
	}

	return &Client{
		http: &http.Client{
			Transport: &bearerTransport{
				base:           base,
				tokens:         opts.Tokens,
				onUnauthorized: opts.OnUnauthorized,
			},
			Timeout: opts.Timeout,
		},
		baseURL: u,
	}, nil
}

// endpoint joins path onto the base URL, preserving trailing slashes the
// backend routes require (e.g. "/tasks/").
func (c *Client) endpoint(path string, query url.Values) string {
	u := *c.baseURL
	u.Path = strings.TrimRight(c.baseURL.Path, "/") + path
	if query != nil {
		u.RawQuery = query.Encode()
	}
	return u.String()
}

// do issues one request and decodes a 2xx JSON response into out (when out
// is non-nil). Non-2xx responses become *APIError.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body io.Reader, contentType string, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, c.endpoint(path, query), body)
	if err != nil {
		return fmt.Errorf("creating %s %s request: %w", method, path, err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	slog.Debug("family api call",
		"method", method,
		"path", path,
		"status", resp.StatusCode,
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return newAPIError(resp.StatusCode, raw)
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding %s %s response: %w", method, path, err)
	}
	return nil
}

// --- Auth ---

// registerRequest is the JSON body for account creation.
type registerRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"full_name"`
}

// Register creates a new account. The API enforces email uniqueness and
// reports violations as a 400 APIError.
func (c *Client) Register(ctx context.Context, email, password, fullName string) (*model.User, error) {
	payload, err := json.Marshal(registerRequest{Email: email, Password: password, FullName: fullName})
	if err != nil {
		return nil, fmt.Errorf("marshaling register request: %w", err)
	}

	var user model.User
	if err := c.do(ctx, http.MethodPost, "/auth/register", nil, bytes.NewReader(payload), "application/json", &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// tokenResponse is the login response envelope.
type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// Login exchanges email and password for a bearer token. The API's OAuth2
// password flow expects a form-encoded body with a "username" field, which
// carries the email.
func (c *Client) Login(ctx context.Context, email, password string) (string, error) {
	form := url.Values{}
	form.Set("username", email)
	form.Set("password", password)

	var tok tokenResponse
	err := c.do(ctx, http.MethodPost, "/auth/login", nil,
		strings.NewReader(form.Encode()), "application/x-www-form-urlencoded", &tok)
	if err != nil {
		return "", err
	}
	if tok.AccessToken == "" {
		return "", fmt.Errorf("login response missing access_token")
	}
	return tok.AccessToken, nil
}

// Me returns the credential holder's profile.
func (c *Client) Me(ctx context.Context) (*model.User, error) {
	var user model.User
	if err := c.do(ctx, http.MethodGet, "/auth/me", nil, nil, "", &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// --- Family ---

// CreateFamily creates a household and makes the caller its owner. The API
// takes the parameters as query values rather than a JSON body.
func (c *Client) CreateFamily(ctx context.Context, name string, monthlyAmount float64) (*model.Family, error) {
	query := url.Values{}
	query.Set("name", name)
	query.Set("monthly_amount", formatAmount(monthlyAmount))

	var family model.Family
	if err := c.do(ctx, http.MethodPost, "/family/create", query, nil, "", &family); err != nil {
		return nil, err
	}
	return &family, nil
}

// JoinFamily redeems an invite code. Callers must re-fetch the profile
// afterwards; family membership changes server-side state the session's
// user object does not reflect.
func (c *Client) JoinFamily(ctx context.Context, inviteCode string) error {
	query := url.Values{}
	query.Set("code", inviteCode)
	return c.do(ctx, http.MethodPost, "/family/join", query, nil, "", nil)
}

// Family returns the caller's household.
func (c *Client) Family(ctx context.Context) (*model.Family, error) {
	var family model.Family
	if err := c.do(ctx, http.MethodGet, "/family/me", nil, nil, "", &family); err != nil {
		return nil, err
	}
	return &family, nil
}

// Members lists the caller's family members.
func (c *Client) Members(ctx context.Context) ([]model.FamilyMember, error) {
	var members []model.FamilyMember
	if err := c.do(ctx, http.MethodGet, "/family/members", nil, nil, "", &members); err != nil {
		return nil, err
	}
	if members == nil {
		members = []model.FamilyMember{}
	}
	return members, nil
}

// --- Finance ---

// SavingsStatus reports this month's contribution state and the family total.
func (c *Client) SavingsStatus(ctx context.Context) (*model.SavingsStatus, error) {
	var status model.SavingsStatus
	if err := c.do(ctx, http.MethodGet, "/finance/savings/status", nil, nil, "", &status); err != nil {
		return nil, err
	}
	return &status, nil
}

// PaySavings records the caller's mandatory monthly payment. The API rejects
// a second payment in the same month with a 400 APIError; the caller's view
// state must stay unchanged in that case.
func (c *Client) PaySavings(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/finance/savings/pay", nil, nil, "", nil)
}

// Goals lists the family's savings goals.
func (c *Client) Goals(ctx context.Context) ([]model.Goal, error) {
	var goals []model.Goal
	if err := c.do(ctx, http.MethodGet, "/finance/goals", nil, nil, "", &goals); err != nil {
		return nil, err
	}
	if goals == nil {
		goals = []model.Goal{}
	}
	return goals, nil
}

// CreateGoal creates a savings goal with the given target amount.
func (c *Client) CreateGoal(ctx context.Context, name string, target float64) (*model.Goal, error) {
	query := url.Values{}
	query.Set("name", name)
	query.Set("target", formatAmount(target))

	var goal model.Goal
	if err := c.do(ctx, http.MethodPost, "/finance/goals", query, nil, "", &goal); err != nil {
		return nil, err
	}
	return &goal, nil
}

// contributeResponse is the goal contribution response envelope.
type contributeResponse struct {
	Msg         string `json:"msg"`
	IsCompleted bool   `json:"is_completed"`
}

// Contribute adds amount to a goal. The result's Completed flag is the
// server's verdict on whether this contribution finished the goal.
func (c *Client) Contribute(ctx context.Context, goalID int64, amount float64) (*driven.ContributionResult, error) {
	query := url.Values{}
	query.Set("amount", formatAmount(amount))

	var resp contributeResponse
	path := fmt.Sprintf("/finance/goals/%d/contribute", goalID)
	if err := c.do(ctx, http.MethodPost, path, query, nil, "", &resp); err != nil {
		return nil, err
	}
	return &driven.ContributionResult{Completed: resp.IsCompleted}, nil
}

// --- Tasks ---

// Tasks lists the family's tasks, newest first (server ordering).
func (c *Client) Tasks(ctx context.Context) ([]model.Task, error) {
	var tasks []model.Task
	if err := c.do(ctx, http.MethodGet, "/tasks/", nil, nil, "", &tasks); err != nil {
		return nil, err
	}
	if tasks == nil {
		tasks = []model.Task{}
	}
	return tasks, nil
}

// taskQuery renders a TaskDraft as the query parameters the tasks endpoints
// expect.
func taskQuery(draft driven.TaskDraft) url.Values {
	query := url.Values{}
	query.Set("title", draft.Title)
	if draft.AssignedToID != nil {
		query.Set("assigned_to_id", strconv.FormatInt(*draft.AssignedToID, 10))
	}
	if draft.Deadline != nil {
		query.Set("deadline", *draft.Deadline)
	}
	return query
}

// CreateTask creates a task from the draft.
func (c *Client) CreateTask(ctx context.Context, draft driven.TaskDraft) (*model.Task, error) {
	var task model.Task
	if err := c.do(ctx, http.MethodPost, "/tasks/", taskQuery(draft), nil, "", &task); err != nil {
		return nil, err
	}
	return &task, nil
}

// UpdateTask rewrites a task's title, assignee, and deadline.
func (c *Client) UpdateTask(ctx context.Context, taskID int64, draft driven.TaskDraft) (*model.Task, error) {
	var task model.Task
	path := fmt.Sprintf("/tasks/%d", taskID)
	if err := c.do(ctx, http.MethodPut, path, taskQuery(draft), nil, "", &task); err != nil {
		return nil, err
	}
	return &task, nil
}

// CompleteTask marks a task DONE.
func (c *Client) CompleteTask(ctx context.Context, taskID int64) error {
	return c.do(ctx, http.MethodPost, fmt.Sprintf("/tasks/%d/complete", taskID), nil, nil, "", nil)
}

// RateTask rates a completed task 1-5. Self-rating and out-of-range values
// are rejected server-side; the APIError detail carries the reason.
func (c *Client) RateTask(ctx context.Context, taskID int64, rating int) error {
	query := url.Values{}
	query.Set("rating", strconv.Itoa(rating))
	return c.do(ctx, http.MethodPost, fmt.Sprintf("/tasks/%d/rate", taskID), query, nil, "", nil)
}

// DeleteTask deletes a task. Only the family owner may delete; the panel
// attempts the call regardless and surfaces the 403 detail on rejection.
func (c *Client) DeleteTask(ctx context.Context, taskID int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/tasks/%d", taskID), nil, nil, "", nil)
}

// Comments lists a task's comments.
func (c *Client) Comments(ctx context.Context, taskID int64) ([]model.TaskComment, error) {
	var comments []model.TaskComment
	path := fmt.Sprintf("/tasks/%d/comments", taskID)
	if err := c.do(ctx, http.MethodGet, path, nil, nil, "", &comments); err != nil {
		return nil, err
	}
	if comments == nil {
		comments = []model.TaskComment{}
	}
	return comments, nil
}

// AddComment appends a comment to a task.
func (c *Client) AddComment(ctx context.Context, taskID int64, content string) error {
	query := url.Values{}
	query.Set("content", content)
	return c.do(ctx, http.MethodPost, fmt.Sprintf("/tasks/%d/comments", taskID), query, nil, "", nil)
}

// formatAmount renders a monetary amount without scientific notation and
// without trailing zero noise.
func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
