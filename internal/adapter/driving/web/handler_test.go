package web

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	vm "github.com/adrianwozniak/hearth/internal/adapter/driving/web/viewmodel"
	"github.com/adrianwozniak/hearth/internal/application"
	"github.com/adrianwozniak/hearth/internal/domain/model"
	"github.com/adrianwozniak/hearth/internal/domain/port/driven"
)

// memCreds is an in-memory CredentialStore for handler tests.
type memCreds struct {
	mu     sync.Mutex
	values map[string]string
}

func newMemCreds() *memCreds {
	return &memCreds{values: map[string]string{}}
}

func (m *memCreds) Set(_ context.Context, service, key, plaintext string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[service+"/"+key] = plaintext
	return nil
}

func (m *memCreds) Get(_ context.Context, service, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.values[service+"/"+key], nil
}

func (m *memCreds) List(_ context.Context) ([]model.Credential, error) {
	return nil, nil
}

func (m *memCreds) Delete(_ context.Context, service, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.values, service+"/"+key)
	return nil
}

// stubAPI implements the FamilyAPI methods the handlers under test touch.
// The embedded interface panics on anything unexpected.
type stubAPI struct {
	driven.FamilyAPI

	loginFn      func(ctx context.Context, email, password string) (string, error)
	meFn         func(ctx context.Context) (*model.User, error)
	familyFn     func(ctx context.Context) (*model.Family, error)
	savingsFn    func(ctx context.Context) (*model.SavingsStatus, error)
	goalsFn      func(ctx context.Context) ([]model.Goal, error)
	contributeFn func(ctx context.Context, goalID int64, amount float64) (*driven.ContributionResult, error)
	tasksFn      func(ctx context.Context) ([]model.Task, error)
	membersFn    func(ctx context.Context) ([]model.FamilyMember, error)
	commentsFn   func(ctx context.Context, taskID int64) ([]model.TaskComment, error)
	rateFn       func(ctx context.Context, taskID int64, rating int) error
	completeFn   func(ctx context.Context, taskID int64) error
}

func (s *stubAPI) Login(ctx context.Context, email, password string) (string, error) {
	return s.loginFn(ctx, email, password)
}

func (s *stubAPI) Me(ctx context.Context) (*model.User, error) { return s.meFn(ctx) }

func (s *stubAPI) Family(ctx context.Context) (*model.Family, error) { return s.familyFn(ctx) }

func (s *stubAPI) SavingsStatus(ctx context.Context) (*model.SavingsStatus, error) {
	return s.savingsFn(ctx)
}

func (s *stubAPI) Goals(ctx context.Context) ([]model.Goal, error) { return s.goalsFn(ctx) }

func (s *stubAPI) Contribute(ctx context.Context, goalID int64, amount float64) (*driven.ContributionResult, error) {
	return s.contributeFn(ctx, goalID, amount)
}

func (s *stubAPI) Tasks(ctx context.Context) ([]model.Task, error) { return s.tasksFn(ctx) }

func (s *stubAPI) Members(ctx context.Context) ([]model.FamilyMember, error) {
	return s.membersFn(ctx)
}

func (s *stubAPI) Comments(ctx context.Context, taskID int64) ([]model.TaskComment, error) {
	return s.commentsFn(ctx, taskID)
}

func (s *stubAPI) RateTask(ctx context.Context, taskID int64, rating int) error {
	return s.rateFn(ctx, taskID, rating)
}

func (s *stubAPI) CompleteTask(ctx context.Context, taskID int64) error {
	return s.completeFn(ctx, taskID)
}

type env struct {
	mux     *http.ServeMux
	session *application.Session
	store   *memCreds
}

// newEnv wires a full route table over the stub API. A non-empty token
// starts the session authenticated.
func newEnv(t *testing.T, api driven.FamilyAPI, token string) *env {
	t.Helper()

	store := newMemCreds()
	session := application.NewSession(store)
	if token != "" {
		require.NoError(t, session.SetCredential(context.Background(), token))
	}

	auth := application.NewAuthService(api, session)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	h := NewHandler(api, session, auth, logger)

	mux := http.NewServeMux()
	RegisterRoutes(mux, h, session)
	return &env{mux: mux, session: session, store: store}
}

func (e *env) get(path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	e.mux.ServeHTTP(rec, req)
	return rec
}

// postForm submits a form with a matching CSRF cookie and field.
func (e *env) postForm(path string, form url.Values) *httptest.ResponseRecorder {
	form.Set("csrf_token", "testtoken")
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.AddCookie(&http.Cookie{Name: csrfCookieName, Value: "testtoken"})
	rec := httptest.NewRecorder()
	e.mux.ServeHTTP(rec, req)
	return rec
}

// flashFrom decodes the flash cookie set on a response, nil when absent.
func flashFrom(t *testing.T, rec *httptest.ResponseRecorder) *vm.Flash {
	t.Helper()

	for _, c := range rec.Result().Cookies() {
		if c.Name == flashCookieName && c.Value != "" {
			payload, err := base64.RawURLEncoding.DecodeString(c.Value)
			require.NoError(t, err)
			var f vm.Flash
			require.NoError(t, json.Unmarshal(payload, &f))
			return &f
		}
	}
	return nil
}

func TestGuard_AnonymousRedirectedToLogin(t *testing.T) {
	e := newEnv(t, &stubAPI{}, "")

	for _, path := range []string{"/app/dashboard", "/app/finances", "/app/tasks"} {
		rec := e.get(path)
		assert.Equal(t, http.StatusSeeOther, rec.Code, path)
		assert.Equal(t, "/login", rec.Header().Get("Location"), path)
	}
}

func TestGuard_MissingCSRFTokenRejected(t *testing.T) {
	e := newEnv(t, &stubAPI{}, "tok")

	req := httptest.NewRequest(http.MethodPost, "/app/finances/pay", nil)
	rec := httptest.NewRecorder()
	e.mux.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestLogin_SetsCredentialAndRedirects(t *testing.T) {
	api := &stubAPI{
		loginFn: func(_ context.Context, email, password string) (string, error) {
			assert.Equal(t, "anna@example.com", email)
			assert.Equal(t, "hunter22", password)
			return "tok456", nil
		},
		meFn: func(context.Context) (*model.User, error) {
			return &model.User{ID: 7, FullName: "Anna"}, nil
		},
	}
	e := newEnv(t, api, "")

	rec := e.postForm("/login", url.Values{
		"email":    {"anna@example.com"},
		"password": {"hunter22"},
	})

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/app/dashboard", rec.Header().Get("Location"))
	assert.True(t, e.session.Authenticated())
}

func TestLogin_UpstreamRejectionFlashedVerbatim(t *testing.T) {
	api := &stubAPI{
		loginFn: func(context.Context, string, string) (string, error) {
			return "", &driven.APIError{StatusCode: 401, Detail: "Incorrect email or password"}
		},
	}
	e := newEnv(t, api, "")

	rec := e.postForm("/login", url.Values{
		"email":    {"anna@example.com"},
		"password": {"wrong"},
	})

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/login", rec.Header().Get("Location"))
	flash := flashFrom(t, rec)
	require.NotNil(t, flash)
	assert.Equal(t, "error", flash.Level)
	assert.Equal(t, "Incorrect email or password", flash.Message)
	assert.False(t, e.session.Authenticated())
}

func TestLogout_ClearsSessionAndRedirectsHome(t *testing.T) {
	e := newEnv(t, &stubAPI{}, "tok")
	require.True(t, e.session.Authenticated())

	rec := e.postForm("/logout", url.Values{})

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("Location"))
	assert.False(t, e.session.Authenticated())

	next := e.get("/app/dashboard")
	assert.Equal(t, "/login", next.Header().Get("Location"))
}

func TestDashboard_WithoutFamilyOffersChoice(t *testing.T) {
	api := &stubAPI{
		meFn: func(context.Context) (*model.User, error) {
			return &model.User{ID: 3, FullName: "Jan"}, nil
		},
	}
	e := newEnv(t, api, "tok")

	rec := e.get("/app/dashboard")

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "/app/family/new")
	assert.Contains(t, body, "/app/family/join")
	assert.NotContains(t, body, "Invite code")
}

func TestDashboard_UpstreamOutageRendersErrorNotLoginLoop(t *testing.T) {
	api := &stubAPI{
		meFn: func(context.Context) (*model.User, error) {
			return nil, errors.New("connection refused")
		},
	}
	e := newEnv(t, api, "tok")

	rec := e.get("/app/dashboard")

	// The session still holds a credential, so the dashboard must render
	// an error state rather than bounce to /login (which redirects
	// authenticated sessions straight back).
	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Empty(t, rec.Header().Get("Location"))
	assert.Contains(t, rec.Body.String(), "not responding")
	assert.True(t, e.session.Authenticated())

	login := e.get("/login")
	assert.Equal(t, http.StatusSeeOther, login.Code)
	assert.Equal(t, "/app/dashboard", login.Header().Get("Location"))
}

func TestDashboard_ShowsInviteCodeToOwner(t *testing.T) {
	familyID := int64(5)
	api := &stubAPI{
		meFn: func(context.Context) (*model.User, error) {
			return &model.User{ID: 3, FullName: "Jan", FamilyID: &familyID}, nil
		},
		familyFn: func(context.Context) (*model.Family, error) {
			return &model.Family{ID: 5, Name: "Kowalscy", InviteCode: "ABC123", OwnerID: 3, MonthlyContribution: 200}, nil
		},
	}
	e := newEnv(t, api, "tok")

	rec := e.get("/app/dashboard")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "ABC123")
}

func TestFinances_RendersSavingsAndGoals(t *testing.T) {
	api := &stubAPI{
		savingsFn: func(context.Context) (*model.SavingsStatus, error) {
			return &model.SavingsStatus{PaidThisMonth: false, TotalFamilySavings: 1250.50, PaymentAmount: 200}, nil
		},
		goalsFn: func(context.Context) ([]model.Goal, error) {
			return []model.Goal{
				{ID: 1, Name: "Vacation", TargetAmount: 1000, CurrentAmount: 250},
			}, nil
		},
	}
	e := newEnv(t, api, "tok")

	rec := e.get("/app/finances")

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "1250.50")
	assert.Contains(t, body, "Vacation")
	assert.Contains(t, body, "25%")
	assert.Contains(t, body, "/app/finances/pay")
}

func TestContribute_CompletionVerdictPicksFlash(t *testing.T) {
	tests := []struct {
		name      string
		completed bool
		want      string
	}{
		{"goal still open", false, "Contribution added."},
		{"goal completed", true, "Goal completed!"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := &stubAPI{
				contributeFn: func(_ context.Context, goalID int64, amount float64) (*driven.ContributionResult, error) {
					assert.Equal(t, int64(9), goalID)
					assert.Equal(t, 50.0, amount)
					return &driven.ContributionResult{Completed: tt.completed}, nil
				},
			}
			e := newEnv(t, api, "tok")

			rec := e.postForm("/app/finances/goals/9/contribute", url.Values{"amount": {"50"}})

			assert.Equal(t, http.StatusSeeOther, rec.Code)
			flash := flashFrom(t, rec)
			require.NotNil(t, flash)
			assert.Equal(t, "success", flash.Level)
			assert.Equal(t, tt.want, flash.Message)
		})
	}
}

func TestRateTask_SelfRatingDetailShownVerbatim(t *testing.T) {
	api := &stubAPI{
		rateFn: func(context.Context, int64, int) error {
			return &driven.APIError{StatusCode: 400, Detail: "You cannot rate your own task"}
		},
	}
	e := newEnv(t, api, "tok")

	rec := e.postForm("/app/tasks/4/rate", url.Values{"rating": {"5"}})

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	flash := flashFrom(t, rec)
	require.NotNil(t, flash)
	assert.Equal(t, "error", flash.Level)
	assert.Equal(t, "You cannot rate your own task", flash.Message)
}

func TestTaskDetail_RendersSanitizedComments(t *testing.T) {
	deadline := "2026-09-15"
	assignee := int64(2)
	api := &stubAPI{
		tasksFn: func(context.Context) ([]model.Task, error) {
			return []model.Task{
				{ID: 4, Title: "Mow the lawn", Status: model.TaskStatusTodo, AssignedToID: &assignee, Deadline: &deadline},
			}, nil
		},
		membersFn: func(context.Context) ([]model.FamilyMember, error) {
			return []model.FamilyMember{{ID: 2, FullName: "Piotr"}}, nil
		},
		commentsFn: func(_ context.Context, taskID int64) ([]model.TaskComment, error) {
			assert.Equal(t, int64(4), taskID)
			return []model.TaskComment{
				{ID: 1, Content: "**careful** near the <script>fence</script>", UserID: 2, TaskID: 4},
			}, nil
		},
	}
	e := newEnv(t, api, "tok")

	rec := e.get("/app/tasks/4")

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Mow the lawn")
	assert.Contains(t, body, "Piotr")
	assert.Contains(t, body, "<strong>careful</strong>")
	assert.NotContains(t, body, "<script>")
}

func TestTaskDetail_CommentFetchFailureShowsNotice(t *testing.T) {
	api := &stubAPI{
		tasksFn: func(context.Context) ([]model.Task, error) {
			return []model.Task{{ID: 4, Title: "Mow the lawn", Status: model.TaskStatusTodo}}, nil
		},
		membersFn: func(context.Context) ([]model.FamilyMember, error) {
			return nil, nil
		},
		commentsFn: func(context.Context, int64) ([]model.TaskComment, error) {
			return nil, errors.New("connection refused")
		},
	}
	e := newEnv(t, api, "tok")

	rec := e.get("/app/tasks/4")

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Mow the lawn")
	assert.Contains(t, body, "Comments could not be loaded")
	assert.NotContains(t, body, "No comments yet.")
}

func TestCompleteTask_MissingTaskReturnsToList(t *testing.T) {
	api := &stubAPI{
		completeFn: func(context.Context, int64) error {
			return &driven.APIError{StatusCode: 404, Detail: "Task not found"}
		},
	}
	e := newEnv(t, api, "tok")

	rec := e.postForm("/app/tasks/4/complete", url.Values{})

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/app/tasks", rec.Header().Get("Location"))
	flash := flashFrom(t, rec)
	require.NotNil(t, flash)
	assert.Equal(t, "Task not found", flash.Message)
}

func TestFlash_IsOneShot(t *testing.T) {
	rec := httptest.NewRecorder()
	setFlash(rec, "success", "saved")

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range rec.Result().Cookies() {
		req.AddCookie(c)
	}

	rec2 := httptest.NewRecorder()
	flash := popFlash(rec2, req)
	require.NotNil(t, flash)
	assert.Equal(t, "saved", flash.Message)

	// The pop clears the cookie.
	cleared := false
	for _, c := range rec2.Result().Cookies() {
		if c.Name == flashCookieName {
			assert.Equal(t, -1, c.MaxAge)
			cleared = true
		}
	}
	assert.True(t, cleared)
}
