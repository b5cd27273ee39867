package attendance

import (
	"fmt"

	"github.com/pkg/errors"
)

var ErrNotFound = errors.New("attendance record not found")

// AuthorizationError indicates that the actor's role lacks the capability for
// the attempted action. It is surfaced to the user and never retried.
type AuthorizationError struct {
	Role   string
	Action Action
}

func (e *AuthorizationError) Error() string {
	return fmt.Sprintf("permission denied: role %q cannot %s attendance", e.Role, e.Action)
}

func IsAuthorizationDenied(err error) bool {
	_, ok := errors.Cause(err).(*AuthorizationError)
	return ok
}

// TransitionError indicates that a status precondition was not met (stale
// state, or a holiday blocking submission). The caller should refresh rather
// than retry blindly.
type TransitionError struct {
	Action Action
	Status Status
	Reason string
}

func (e *TransitionError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("cannot %s attendance: %s", e.Action, e.Reason)
	}
	return fmt.Sprintf("cannot %s attendance: status is %q", e.Action, e.Status)
}

func IsTransitionDenied(err error) bool {
	_, ok := errors.Cause(err).(*TransitionError)
	return ok
}

// TransportError indicates that persisting a transition failed. The local
// status has been rolled back, so the caller may safely retry the same
// transition: the precondition check makes retries idempotent.
type TransportError struct {
	Op  Action
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("persisting %s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

func IsTransportFailure(err error) bool {
	_, ok := errors.Cause(err).(*TransportError)
	return ok
}
