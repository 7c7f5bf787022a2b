package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// Sentinel errors for the two response classes callers branch on.
var (
	// ErrUnauthorized marks a 401/403 response. By the time a caller
	// sees it the gateway has already cleared the session.
	ErrUnauthorized = errors.New("authorization failed")

	// ErrNotFound marks a 404, e.g. an invalid or expired public
	// share token.
	ErrNotFound = errors.New("resource not found")
)

// Error is a non-2xx response from the CloudBox API. Message carries
// the server's body verbatim so the CLI can surface it next to the
// failing command.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api: status %d", e.Status)
	}
	return fmt.Sprintf("api: status %d: %s", e.Status, e.Message)
}

// Is maps status codes onto the sentinel errors so callers can use
// errors.Is without inspecting statuses themselves.
func (e *Error) Is(target error) bool {
	switch target {
	case ErrUnauthorized:
		return e.Status == http.StatusUnauthorized || e.Status == http.StatusForbidden
	case ErrNotFound:
		return e.Status == http.StatusNotFound
	}
	return false
}

// decodeError turns an error response into an *Error, consuming the
// body. The server usually replies with a plain-text message; some
// endpoints wrap it as {"message": "..."}.
func decodeError(resp *http.Response) *Error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 64*1024))

	msg := strings.TrimSpace(string(body))
	var wrapped struct {
		Message string `json:"message"`
	}
	if json.Unmarshal(body, &wrapped) == nil && wrapped.Message != "" {
		msg = wrapped.Message
	}

	return &Error{Status: resp.StatusCode, Message: msg}
}
