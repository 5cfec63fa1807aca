// Package escalation contains the pure business logic for supervisor
// escalations. This is part of the Functional Core - no I/O, only pure functions.
package escalation

import "time"

// Status is the lifecycle state of an escalation.
type Status string

const (
	StatusPending    Status = "PENDING"
	StatusResolved   Status = "RESOLVED"
	StatusUnresolved Status = "UNRESOLVED"
)

// ParseStatus validates a status string from storage or a request.
func ParseStatus(s string) (Status, bool) {
	switch Status(s) {
	case StatusPending, StatusResolved, StatusUnresolved:
		return Status(s), true
	}
	return "", false
}

// InitialStatus returns the status of a newly recorded escalation.
func InitialStatus() Status {
	return StatusPending
}

// IsOpen reports whether questions can still be appended to the escalation.
func (s Status) IsOpen() bool {
	return s == StatusPending
}

// IsOverdue reports whether a PENDING escalation created at createdAt has
// waited strictly longer than timeout as of now.
func IsOverdue(createdAt, now time.Time, timeout time.Duration) bool {
	return now.Sub(createdAt) > timeout
}

// TransitionResult captures the new status of a closing transition and the
// time it closed.
type TransitionResult struct {
	NewStatus Status
	ClosedAt  time.Time
}

// ApplyResolve returns the transition for a supervisor answer.
func ApplyResolve(now time.Time) TransitionResult {
	return TransitionResult{NewStatus: StatusResolved, ClosedAt: now}
}

// ApplyExpire returns the transition for an escalation that aged out.
func ApplyExpire(now time.Time) TransitionResult {
	return TransitionResult{NewStatus: StatusUnresolved, ClosedAt: now}
}
