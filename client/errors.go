// Package client implements the HTTP collaborators of the assistant: the
// chat endpoint and the checklist-to-text endpoint.
package client

import "context"

// Error codes distinguishing the failure classes callers care about.
const (
	CodeAPIError        = "API_ERROR"
	CodeInvalidResponse = "INVALID_RESPONSE"
	CodeNetworkError    = "NETWORK_ERROR"
	CodeAborted         = "ABORTED"
)

// Error is a user-presentable collaborator failure.
type Error struct {
	Code    string
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// IsAborted reports whether err represents a cancelled request. Aborts are
// silent cancellations, never user-visible errors.
func IsAborted(err error) bool {
	if clientErr, ok := err.(*Error); ok {
		return clientErr.Code == CodeAborted
	}
	return false
}

// classify maps a transport failure to the domain taxonomy: a cancelled
// context is an abort, anything else is a connection failure.
func classify(ctx context.Context) *Error {
	if ctx.Err() == context.Canceled {
		return &Error{Code: CodeAborted, Message: "Request was cancelled"}
	}
	return &Error{Code: CodeNetworkError, Message: "No connection to server"}
}
