// Package resilient runs persistence calls with classification-based
// retries.  Transient failures (network unreachable or 5xx) are retried up
// to the policy's attempt limit; client errors fail immediately.
package resilient

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

// ErrNothingToSave is returned by a save that found no unsaved changes.
// Callers treat it as a skipped save, not a failure.
var ErrNothingToSave = errors.New("nothing to save")

// StatusError is a collaborator failure carrying an HTTP-style status and an
// optional message from the failure payload.  Status 0 means the service
// could not be reached at all.
type StatusError struct {
	Status  int
	Message string
	Err     error
}

func (e *StatusError) Error() string {
	switch {
	case e.Message != "" && e.Err != nil:
		return fmt.Sprintf("status %d: %s: %v", e.Status, e.Message, e.Err)
	case e.Message != "":
		return fmt.Sprintf("status %d: %s", e.Status, e.Message)
	case e.Err != nil:
		return fmt.Sprintf("status %d: %v", e.Status, e.Err)
	}
	return fmt.Sprintf("status %d", e.Status)
}

func (e *StatusError) Unwrap() error { return e.Err }

// Status builds a StatusError.
func Status(code int, msg string) *StatusError {
	return &StatusError{Status: code, Message: msg}
}

// Class is the retry classification of a failure.
type Class int

const (
	Transient Class = iota
	Permanent
)

func (c Class) String() string {
	if c == Transient {
		return "transient"
	}
	return "permanent"
}

// Classify decides whether err is worth retrying.  Status 0 and 5xx are
// transient, every other status is permanent.  Cancellation is permanent.
// Errors without a status are treated as an unreachable service.
func Classify(err error) Class {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return Permanent
	}
	var se *StatusError
	if errors.As(err, &se) {
		if se.Status == 0 || se.Status >= http.StatusInternalServerError {
			return Transient
		}
		return Permanent
	}
	return Transient
}

// Failure is the terminal error of a pipeline run.  Message is safe to show
// to the owner.
type Failure struct {
	Operation string
	Attempts  int
	Class     Class
	Message   string
	Err       error
}

func (f *Failure) Error() string {
	return fmt.Sprintf("%s failed after %d attempt(s): %v", f.Operation, f.Attempts, f.Err)
}

func (f *Failure) Unwrap() error { return f.Err }

// Message picks the user-facing text for err: the payload message when the
// collaborator supplied one, otherwise the generic fallback for operation.
func Message(err error, operation string) string {
	var f *Failure
	if errors.As(err, &f) && f.Message != "" {
		return f.Message
	}
	var se *StatusError
	if errors.As(err, &se) && se.Message != "" {
		return se.Message
	}
	return FallbackMessage(operation)
}

// FallbackMessage is the generic text used when a failure has no payload
// message, e.g. "Failed to create hall. Please try again.".
func FallbackMessage(operation string) string {
	return fmt.Sprintf("Failed to %s. Please try again.", operation)
}
