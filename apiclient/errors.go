package apiclient

import (
	"errors"
	"fmt"
)

// GenericErrorMessage is shown when a failure carries no usable message.
const GenericErrorMessage = "Something went wrong. Please try again."

// TransportError is a network failure or a non-2xx response.
// These are always retryable from the user's point of view.
type TransportError struct {
	Method     string
	Path       string
	StatusCode int // 0 when the request never got a response
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s %s: unexpected status %d", e.Method, e.Path, e.StatusCode)
	}
	return fmt.Sprintf("%s %s: %v", e.Method, e.Path, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// AppError is an application-level failure: the API answered
// {"success": false, "message": "..."}.
type AppError struct {
	Path    string
	Message string
}

func (e *AppError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%s: request failed", e.Path)
	}
	return fmt.Sprintf("%s: %s", e.Path, e.Message)
}

// InvalidPayloadError means the response decoded but did not pass validation.
type InvalidPayloadError struct {
	Path string
	Err  error
}

func (e *InvalidPayloadError) Error() string {
	return fmt.Sprintf("%s: invalid payload: %v", e.Path, e.Err)
}

func (e *InvalidPayloadError) Unwrap() error {
	return e.Err
}

// UserMessage returns the text to show in a message slot for err.
// Application failures are shown verbatim; everything else gets the generic message.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	var appErr *AppError
	if errors.As(err, &appErr) && appErr.Message != "" {
		return appErr.Message
	}
	return GenericErrorMessage
}

// IsRetryable reports whether err is a transport failure worth a manual retry.
func IsRetryable(err error) bool {
	var transportErr *TransportError
	return errors.As(err, &transportErr)
}

// IsStatus reports whether err is a transport error with the given HTTP status.
func IsStatus(err error, status int) bool {
	var transportErr *TransportError
	return errors.As(err, &transportErr) && transportErr.StatusCode == status
}
