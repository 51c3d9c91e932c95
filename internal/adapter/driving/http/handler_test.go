package httphandler

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adrianwozniak/hearth/internal/application"
	"github.com/adrianwozniak/hearth/internal/domain/model"
)

// nullCreds satisfies CredentialStore without persistence.
type nullCreds struct{}

func (nullCreds) Set(context.Context, string, string, string) error { return nil }
func (nullCreds) Get(context.Context, string, string) (string, error) {
	return "", nil
}
func (nullCreds) List(context.Context) ([]model.Credential, error) { return nil, nil }
func (nullCreds) Delete(context.Context, string, string) error     { return nil }

func newTestServer(t *testing.T, session *application.Session) http.Handler {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	h := NewHandler(session, logger)

	mux := http.NewServeMux()
	RegisterRoutes(mux, h)
	return Middleware(logger, mux)
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t, application.NewSession(nullCreds{}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/health", nil)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))

	var resp HealthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.NotEmpty(t, resp.Time)
}

func TestSessionStatus_Anonymous(t *testing.T) {
	srv := newTestServer(t, application.NewSession(nullCreds{}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/session", nil)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp SessionResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.False(t, resp.Authenticated)
	assert.Empty(t, resp.Email)
}

func TestSessionStatus_Authenticated(t *testing.T) {
	session := application.NewSession(nullCreds{})
	require.NoError(t, session.SetCredential(context.Background(), "tok"))
	familyID := int64(2)
	session.SetUser(&model.User{ID: 1, Email: "anna@example.com", FullName: "Anna", FamilyID: &familyID})

	srv := newTestServer(t, session)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/session", nil)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp SessionResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Authenticated)
	assert.Equal(t, "anna@example.com", resp.Email)
	assert.True(t, resp.HasFamily)
}

func TestRequestID_PropagatesFromCaller(t *testing.T) {
	srv := newTestServer(t, application.NewSession(nullCreds{}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/health", nil)
	req.Header.Set("X-Request-ID", "probe-42")
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	assert.Equal(t, "probe-42", rec.Header().Get("X-Request-ID"))
}
