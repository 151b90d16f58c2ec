package interfaces

import (
	"context"

	"github.com/labops/labaudit/pkg/domain/model"
	"github.com/labops/labaudit/pkg/domain/types"
)

// AuditAPI is the remote audit service this core talks to. It is the single
// authority over persisted state: every mutation returns the server's view of
// the affected entity, and callers replace local state with that response.
type AuditAPI interface {
	// StartExecution requests a new (or resumed) execution for one lab and
	// category of an assignment, populated with its checklist items.
	StartExecution(ctx context.Context, assignmentID types.AssignmentID, labID types.LabID, category string) (*model.AuditExecution, error)

	// UpdateItem persists one checklist item mutation and returns the
	// authoritative item state.
	UpdateItem(ctx context.Context, executionID types.ExecutionID, itemID types.ItemID, update model.ItemUpdate) (*model.ChecklistItem, error)

	// CompleteExecution closes an execution with the auditor's closing notes.
	CompleteExecution(ctx context.Context, executionID types.ExecutionID, observations, recommendations string) (*model.AuditExecution, error)

	// GetAssignment hydrates an assignment after external changes.
	GetAssignment(ctx context.Context, id types.AssignmentID) (*model.Assignment, error)

	// ListExecutions returns the executions recorded for an assignment.
	ListExecutions(ctx context.Context, assignmentID types.AssignmentID) ([]*model.AuditExecution, error)
}
