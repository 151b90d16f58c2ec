package types

import "fmt"

// AssignmentStatus represents the lifecycle state of an audit assignment
type AssignmentStatus string

const (
	AssignmentStatusAssigned   AssignmentStatus = "assigned"
	AssignmentStatusInProgress AssignmentStatus = "in_progress"
	AssignmentStatusCompleted  AssignmentStatus = "completed"
	AssignmentStatusOverdue    AssignmentStatus = "overdue"
	AssignmentStatusCancelled  AssignmentStatus = "cancelled"
)

// AllAssignmentStatuses returns all valid assignment statuses
func AllAssignmentStatuses() []AssignmentStatus {
	return []AssignmentStatus{
		AssignmentStatusAssigned,
		AssignmentStatusInProgress,
		AssignmentStatusCompleted,
		AssignmentStatusOverdue,
		AssignmentStatusCancelled,
	}
}

// IsValid checks if the assignment status is valid
func (s AssignmentStatus) IsValid() bool {
	switch s {
	case AssignmentStatusAssigned,
		AssignmentStatusInProgress,
		AssignmentStatusCompleted,
		AssignmentStatusOverdue,
		AssignmentStatusCancelled:
		return true
	default:
		return false
	}
}

// Normalize returns the status, treating empty and the legacy "pending" value
// as AssignmentStatusAssigned.
func (s AssignmentStatus) Normalize() AssignmentStatus {
	if s == "" || s == "pending" {
		return AssignmentStatusAssigned
	}
	return s
}

// IsTerminal reports whether no further lifecycle transition is allowed.
func (s AssignmentStatus) IsTerminal() bool {
	return s == AssignmentStatusCompleted || s == AssignmentStatusCancelled
}

// CanStartExecution reports whether an audit execution may begin from this status.
// Overdue is advisory only, so an overdue assignment can still start.
func (s AssignmentStatus) CanStartExecution() bool {
	switch s.Normalize() {
	case AssignmentStatusAssigned, AssignmentStatusOverdue:
		return true
	default:
		return false
	}
}

// String returns the string representation of the assignment status
func (s AssignmentStatus) String() string {
	return string(s)
}

// ParseAssignmentStatus parses a string into an AssignmentStatus
func ParseAssignmentStatus(s string) (AssignmentStatus, error) {
	status := AssignmentStatus(s)
	if !status.IsValid() {
		return "", fmt.Errorf("invalid assignment status: %s", s)
	}
	return status, nil
}
