package domain

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrSessionNotFound is returned when a session key has no thread.
	ErrSessionNotFound = errors.New("session not found")
	// ErrEmptyMessage is returned for blank user input.
	ErrEmptyMessage = errors.New("message text is required")
)

// TimeoutError reports a run that did not reach a terminal status in time.
// The remote run is left as is.
type TimeoutError struct {
	RunID   string
	Elapsed time.Duration
	Limit   time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("assistant run %s timed out after %s (limit %s)", e.RunID, e.Elapsed.Round(time.Millisecond), e.Limit)
}

// RunFailedError reports a run that ended in a terminal non-success status.
type RunFailedError struct {
	RunID   string
	Status  RunStatus
	Code    string
	Message string
}

func (e *RunFailedError) Error() string {
	msg := fmt.Sprintf("assistant run %s ended with status: %s", e.RunID, e.Status)
	switch {
	case e.Code != "" && e.Message != "":
		msg += fmt.Sprintf(" (%s: %s)", e.Code, e.Message)
	case e.Message != "":
		msg += fmt.Sprintf(" (%s)", e.Message)
	case e.Code != "":
		msg += fmt.Sprintf(" (%s)", e.Code)
	}
	return msg
}

// TransportError wraps any failure talking to the remote service or a
// capability target.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// IsTimeout reports whether err is, or wraps, a TimeoutError.
func IsTimeout(err error) bool {
	var te *TimeoutError
	return errors.As(err, &te)
}
