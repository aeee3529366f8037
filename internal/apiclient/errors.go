package apiclient

import (
	"errors"
	"fmt"
)

// RequestFailedError is returned for every failed API call: transport
// failures (StatusCode 0) and non-2xx responses alike. Error() is the
// human-readable message meant for the user.
type RequestFailedError struct {
	Op         string
	StatusCode int
	Message    string
	Err        error
}

func (e *RequestFailedError) Error() string {
	return e.Message
}

func (e *RequestFailedError) Unwrap() error {
	return e.Err
}

// StatusCode extracts the HTTP status of a failed request, or 0 when err
// is not an HTTP failure.
func StatusCode(err error) int {
	var rf *RequestFailedError
	if errors.As(err, &rf) {
		return rf.StatusCode
	}
	return 0
}

// errorBody is the structured error returned by the backend.
type errorBody struct {
	Detail string `json:"detail"`
}

func transportError(op string, err error) *RequestFailedError {
	return &RequestFailedError{
		Op:      op,
		Message: fmt.Sprintf("Network error: %v", rootCause(err)),
		Err:     err,
	}
}

func rootCause(err error) error {
	for {
		next := errors.Unwrap(err)
		if next == nil {
			return err
		}
		err = next
	}
}
