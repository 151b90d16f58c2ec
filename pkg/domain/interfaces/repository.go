package interfaces

import (
	"context"

	"github.com/labops/labaudit/pkg/domain/model"
	"github.com/labops/labaudit/pkg/domain/types"
)

// Repository defines the storage interface behind the reference audit API
// server. The client-side core never touches it directly.
type Repository interface {
	Assignment() AssignmentRepository
	Execution() ExecutionRepository
	Close() error
}

// AssignmentRepository defines data access for assignments
type AssignmentRepository interface {
	// Create stores a new assignment. An empty ID is auto-generated.
	Create(ctx context.Context, a *model.Assignment) (*model.Assignment, error)

	// Get retrieves an assignment by ID
	Get(ctx context.Context, id types.AssignmentID) (*model.Assignment, error)

	// List retrieves all assignments ordered by creation time
	List(ctx context.Context) ([]*model.Assignment, error)

	// Update replaces an existing assignment
	Update(ctx context.Context, a *model.Assignment) (*model.Assignment, error)
}

// ExecutionRepository defines data access for audit executions
type ExecutionRepository interface {
	// Create stores a new execution with a generated ID and start timestamp
	Create(ctx context.Context, e *model.AuditExecution) (*model.AuditExecution, error)

	// Get retrieves an execution by ID
	Get(ctx context.Context, id types.ExecutionID) (*model.AuditExecution, error)

	// GetOpen returns the open execution for the (assignment, lab, category)
	// combination, or nil when none is open.
	GetOpen(ctx context.Context, assignmentID types.AssignmentID, labID types.LabID, category string) (*model.AuditExecution, error)

	// Update replaces an existing execution
	Update(ctx context.Context, e *model.AuditExecution) (*model.AuditExecution, error)

	// ListByAssignment retrieves executions of an assignment, newest first
	ListByAssignment(ctx context.Context, assignmentID types.AssignmentID) ([]*model.AuditExecution, error)
}
