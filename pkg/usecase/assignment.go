package usecase

import (
	"context"
	"sync"

	"github.com/m-mizutani/goerr/v2"

	"github.com/labops/labaudit/pkg/domain/interfaces"
	"github.com/labops/labaudit/pkg/domain/model"
	"github.com/labops/labaudit/pkg/domain/types"
	"github.com/labops/labaudit/pkg/utils/async"
	"github.com/labops/labaudit/pkg/utils/errutil"
)

// AssignmentUseCase orchestrates the assignment lifecycle
// (assigned -> in_progress -> completed) and mediates between the assignment
// entity and the execution engine. The remote API records the transitions;
// this controller requests them and mirrors the result locally.
type AssignmentUseCase struct {
	api      interfaces.AuditAPI
	exec     *ExecutionUseCase
	notifier interfaces.Notifier

	mu         sync.Mutex
	assignment *model.Assignment
}

// AssignmentOption is a functional option for AssignmentUseCase
type AssignmentOption func(*AssignmentUseCase)

// WithNotifier wires a completion notifier. Notification failures are logged,
// never surfaced as lifecycle failures.
func WithNotifier(n interfaces.Notifier) AssignmentOption {
	return func(uc *AssignmentUseCase) {
		uc.notifier = n
	}
}

// NewAssignmentUseCase creates a lifecycle controller over the given audit
// API client and execution engine.
func NewAssignmentUseCase(api interfaces.AuditAPI, exec *ExecutionUseCase, opts ...AssignmentOption) *AssignmentUseCase {
	uc := &AssignmentUseCase{
		api:  api,
		exec: exec,
	}
	for _, opt := range opts {
		opt(uc)
	}
	return uc
}

// Hydrate loads the assignment from the audit API, replacing any local copy.
func (uc *AssignmentUseCase) Hydrate(ctx context.Context, id types.AssignmentID) (*model.Assignment, error) {
	if err := id.Validate(); err != nil {
		return nil, goerr.Wrap(err, "invalid assignment ID")
	}

	assignment, err := uc.api.GetAssignment(ctx, id)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to load assignment", goerr.V(AssignmentIDKey, id))
	}

	uc.mu.Lock()
	uc.assignment = assignment.Clone()
	uc.mu.Unlock()

	return assignment.Clone(), nil
}

// Assignment returns a copy of the hydrated assignment, or nil.
func (uc *AssignmentUseCase) Assignment() *model.Assignment {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	return uc.assignment.Clone()
}

// Executions lists the executions recorded for the hydrated assignment.
func (uc *AssignmentUseCase) Executions(ctx context.Context) ([]*model.AuditExecution, error) {
	uc.mu.Lock()
	assignment := uc.assignment
	uc.mu.Unlock()
	if assignment == nil {
		return nil, goerr.Wrap(ErrAssignmentNotHydrated, "hydrate the assignment first")
	}

	executions, err := uc.api.ListExecutions(ctx, assignment.ID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list executions", goerr.V(AssignmentIDKey, assignment.ID))
	}
	return executions, nil
}

// BeginExecution starts an audit run for one lab and category. It is valid
// only while the assignment can still start work; on success the assignment
// moves to in_progress.
func (uc *AssignmentUseCase) BeginExecution(ctx context.Context, labID types.LabID, category string) (*model.AuditExecution, error) {
	uc.mu.Lock()
	assignment := uc.assignment
	uc.mu.Unlock()
	if assignment == nil {
		return nil, goerr.Wrap(ErrAssignmentNotHydrated, "hydrate the assignment first")
	}

	status := assignment.Status.Normalize()
	if status != types.AssignmentStatusInProgress && !status.CanStartExecution() {
		return nil, goerr.Wrap(ErrAssignmentNotStartable, "assignment is not open for auditing",
			goerr.V(AssignmentIDKey, assignment.ID),
			goerr.V(StatusKey, status))
	}

	execution, err := uc.exec.Start(ctx, assignment.ID, labID, category)
	if err != nil {
		return nil, err
	}

	uc.mu.Lock()
	if uc.assignment != nil && !uc.assignment.Status.Normalize().IsTerminal() {
		uc.assignment.Status = types.AssignmentStatusInProgress
		uc.assignment.Progress = execution.Stats().Percentage
	}
	uc.mu.Unlock()

	return execution, nil
}

// RecordProgress recomputes checklist statistics and republishes the derived
// progress percentage onto the assignment. It is called after every
// successful item update and performs no state transition.
func (uc *AssignmentUseCase) RecordProgress() model.ChecklistStats {
	stats := uc.exec.Stats()

	uc.mu.Lock()
	if uc.assignment != nil {
		uc.assignment.Progress = stats.Percentage
	}
	uc.mu.Unlock()

	return stats
}

// UpdateItem records one verification result through the engine and
// republishes progress.
func (uc *AssignmentUseCase) UpdateItem(ctx context.Context, itemID types.ItemID, status types.ItemStatus, suppliedQuantity int, remarks string) (*model.ChecklistItem, error) {
	item, err := uc.exec.UpdateItem(ctx, itemID, status, suppliedQuantity, remarks)
	if err != nil {
		return nil, err
	}
	uc.RecordProgress()
	return item, nil
}

// BulkUpdate applies one status change to a set of items through the engine
// and republishes progress. Partial failure is reported, not raised.
func (uc *AssignmentUseCase) BulkUpdate(ctx context.Context, itemIDs []types.ItemID, status types.ItemStatus, suppliedQuantity int, remarks string) (*model.BulkResult, error) {
	result, err := uc.exec.BulkUpdate(ctx, itemIDs, status, suppliedQuantity, remarks)
	if err != nil {
		return nil, err
	}
	uc.RecordProgress()
	return result, nil
}

// Finish closes the active execution and moves the assignment to completed.
// The 100% guard is checked here before the engine is even asked, so a
// premature call never reaches the network.
func (uc *AssignmentUseCase) Finish(ctx context.Context, observations, recommendations string) (*model.AuditExecution, error) {
	uc.mu.Lock()
	assignment := uc.assignment
	uc.mu.Unlock()
	if assignment == nil {
		return nil, goerr.Wrap(ErrAssignmentNotHydrated, "hydrate the assignment first")
	}

	stats := uc.exec.Stats()
	if !stats.Complete() {
		return nil, goerr.Wrap(ErrIncompleteAudit, "audit cannot be finished yet",
			goerr.V(AssignmentIDKey, assignment.ID),
			goerr.V("percentage", stats.Percentage))
	}

	execution, err := uc.exec.Complete(ctx, observations, recommendations)
	if err != nil {
		return nil, err
	}

	uc.mu.Lock()
	uc.assignment.Status = types.AssignmentStatusCompleted
	uc.assignment.Progress = 100
	uc.mu.Unlock()

	// Refresh from the API so collaborators see the server's view of the
	// completed assignment. The completion itself already succeeded, so a
	// failed refresh is only logged.
	if refreshed, err := uc.api.GetAssignment(ctx, assignment.ID); err != nil {
		_ = errutil.Handle(ctx, err, "failed to refresh assignment after completion")
	} else {
		uc.mu.Lock()
		uc.assignment = refreshed.Clone()
		uc.mu.Unlock()
	}

	if uc.notifier != nil {
		notified := uc.Assignment()
		async.Dispatch(ctx, func(ctx context.Context) error {
			return uc.notifier.NotifyCompletion(ctx, notified, execution, stats)
		})
	}

	return execution, nil
}
