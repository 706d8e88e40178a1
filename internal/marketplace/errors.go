package marketplace

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/tidwall/gjson"
)

// APIError is returned for non-2xx responses. Its message is what a failed
// step records.
type APIError struct {
	StatusCode int
	Message    string
	Method     string
	Path       string
}

func (e *APIError) Error() string {
	return e.Message
}

// IsNotFound reports whether err is an APIError with status 404.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}

func newAPIError(method, path string, resp *Response) *APIError {
	return &APIError{
		StatusCode: resp.StatusCode,
		Message:    errorMessage(resp),
		Method:     method,
		Path:       path,
	}
}

// errorMessage picks the human-readable message out of an error body.
func errorMessage(resp *Response) string {
	if gjson.ValidBytes(resp.Body) {
		for _, path := range []string{"message", "error.message", "error", "detail"} {
			if v := gjson.GetBytes(resp.Body, path); v.Type == gjson.String && v.String() != "" {
				return v.String()
			}
		}
	}
	if text := http.StatusText(resp.StatusCode); text != "" {
		return fmt.Sprintf("%d %s", resp.StatusCode, text)
	}
	return fmt.Sprintf("unexpected status %d", resp.StatusCode)
}
