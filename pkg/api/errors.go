package api

import "fmt"

// MalformedInputError is a request the engine must never see: wrong shapes, types or symbols.
type MalformedInputError struct {
	Reason string
}

func (e *MalformedInputError) Error() string {
	return e.Reason
}

func malformed(format string, args ...interface{}) error {
	return &MalformedInputError{Reason: fmt.Sprintf(format, args...)}
}

// InternalError is a fault while computing a move. It is reported without taking the server down.
type InternalError struct {
	Reason string
	Board  []string
	Err    error
}

func (e *InternalError) Error() string {
	if e.Err == nil {
		return e.Reason
	}
	return fmt.Sprintf("%s: %s", e.Reason, e.Err)
}

func (e *InternalError) Unwrap() error {
	return e.Err
}

// APIError is a non-success reply received by Client.
type APIError struct {
	StatusCode int
	Message    string
	Details    string
}

func (e *APIError) Error() string {
	if e.Details == "" {
		return fmt.Sprintf("api returned %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("api returned %d: %s (%s)", e.StatusCode, e.Message, e.Details)
}
