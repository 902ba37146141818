package client

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/tidwall/gjson"
)

// HTTPError represents a non-2xx HTTP response from a backend.
type HTTPError struct {
	StatusCode int
	Message    string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Message)
}

// IsStatus returns true if err (or any wrapped error) is an HTTPError with the given status code.
func IsStatus(err error, code int) bool {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.StatusCode == code
	}
	return false
}

// readHTTPError builds an HTTPError from a failed response. The database
// reports {"error": "text"}; the identity service reports
// {"error": {"code": 400, "message": "EMAIL_EXISTS"}}.
func readHTTPError(resp *http.Response) error {
	respBody, readErr := io.ReadAll(io.LimitReader(resp.Body, 1<<20)) // 1 MB max error body
	if readErr != nil {
		return &HTTPError{StatusCode: resp.StatusCode, Message: fmt.Sprintf("failed to read body: %v", readErr)}
	}
	if gjson.ValidBytes(respBody) {
		detail := gjson.GetBytes(respBody, "error")
		if detail.Type == gjson.String && detail.Str != "" {
			return &HTTPError{StatusCode: resp.StatusCode, Message: detail.Str}
		}
		if msg := detail.Get("message").String(); msg != "" {
			return &HTTPError{StatusCode: resp.StatusCode, Message: msg}
		}
	}
	return &HTTPError{StatusCode: resp.StatusCode, Message: string(respBody)}
}
