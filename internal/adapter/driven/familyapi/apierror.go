package familyapi

import (
	"encoding/json"
	"strings"

	"github.com/adrianwozniak/hearth/internal/domain/port/driven"
)

// errorBody is the error envelope the family API emits. Detail is usually a
// string, but request validation failures deliver a structured list, so it
// is decoded leniently.
type errorBody struct {
	Detail json.RawMessage `json:"detail"`
}

// newAPIError builds a driven.APIError from a response status and raw body.
// A JSON {"detail": "..."} body yields the detail string; anything else
// falls back to the trimmed raw body.
func newAPIError(statusCode int, body []byte) *driven.APIError {
	apiErr := &driven.APIError{StatusCode: statusCode}

	var eb errorBody
	if err := json.Unmarshal(body, &eb); err == nil && len(eb.Detail) > 0 {
		var detail string
		if err := json.Unmarshal(eb.Detail, &detail); err == nil {
			apiErr.Detail = detail
			return apiErr
		}
		// Structured validation detail; keep it raw rather than invent prose.
		apiErr.Detail = string(eb.Detail)
		return apiErr
	}

	apiErr.Detail = strings.TrimSpace(string(body))
	return apiErr
}
