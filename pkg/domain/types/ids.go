package types

import (
	"github.com/google/uuid"
	"github.com/m-mizutani/goerr/v2"
)

// AssignmentID represents a unique identifier for an audit assignment
type AssignmentID string

// Validate checks if the AssignmentID is usable
func (id AssignmentID) Validate() error {
	if id == "" {
		return goerr.New("assignment ID cannot be empty")
	}
	return nil
}

// String returns the string representation of AssignmentID
func (id AssignmentID) String() string {
	return string(id)
}

// ExecutionID represents a unique identifier for one audit execution
type ExecutionID string

// NewExecutionID generates a new random ExecutionID
func NewExecutionID() ExecutionID {
	return ExecutionID(uuid.New().String())
}

// Validate checks if the ExecutionID is usable
func (id ExecutionID) Validate() error {
	if id == "" {
		return goerr.New("execution ID cannot be empty")
	}
	return nil
}

// String returns the string representation of ExecutionID
func (id ExecutionID) String() string {
	return string(id)
}

// LabID represents a unique identifier for a laboratory
type LabID string

// String returns the string representation of LabID
func (id LabID) String() string {
	return string(id)
}

// ItemID represents the identifier of a checklist item.
//
// Items arrive from upstream inventory systems that sometimes serialize a
// missing identifier as the literal string "undefined". Such items are
// displayable but must never be written back.
type ItemID string

const undefinedItemID ItemID = "undefined"

// Updatable reports whether the identifier is usable for write operations.
func (id ItemID) Updatable() bool {
	return id != "" && id != undefinedItemID
}

// String returns the string representation of ItemID
func (id ItemID) String() string {
	return string(id)
}
