package familyapi

import (
	"fmt"
	"net/http"
)

// TokenFunc supplies the current bearer credential, or "" when the session
// is anonymous. The session store is the usual implementation; reading it
// per request means a login or logout takes effect without rebuilding the
// client.
type TokenFunc func() string

// bearerTransport injects the Authorization header on every request that has
// a credential available and reports 401 responses to the onUnauthorized
// hook. One attempt per call, no retries.
type bearerTransport struct {
	base   http.RoundTripper
	tokens TokenFunc

	// onUnauthorized fires when an authenticated request comes back 401,
	// signalling that the stored credential is no longer valid. Anonymous
	// 401s (a failed login attempt) do not fire it.
	onUnauthorized func()
}

func (t *bearerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	// Per RoundTripper contract the request must not be mutated.
	clone := req.Clone(req.Context())

	if clone.Header.Get("Content-Type") == "" {
		clone.Header.Set("Content-Type", "application/json")
	}
	clone.Header.Set("Accept", "application/json")

	authenticated := false
	if token := t.tokens(); token != "" {
		clone.Header.Set("Authorization", fmt.Sprintf("Bearer %s", token))
		authenticated = true
	}

	resp, err := t.base.RoundTrip(clone)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode == http.StatusUnauthorized && authenticated && t.onUnauthorized != nil {
		t.onUnauthorized()
	}

	return resp, nil
}
