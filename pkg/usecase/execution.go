package usecase

import (
	"context"
	"sync"

	"github.com/m-mizutani/goerr/v2"
	"golang.org/x/sync/errgroup"

	"github.com/labops/labaudit/pkg/domain/interfaces"
	"github.com/labops/labaudit/pkg/domain/model"
	"github.com/labops/labaudit/pkg/domain/types"
)

// DefaultBulkLimit bounds how many item updates may be in flight at once
// during a bulk update.
const DefaultBulkLimit = 8

// ExecutionUseCase is the audit execution engine: the sole mutator of
// checklist state within one execution. Authoritative state always comes from
// the audit API's responses; local state is replaced, never merged.
type ExecutionUseCase struct {
	api       interfaces.AuditAPI
	bulkLimit int

	mu      sync.Mutex
	current *model.AuditExecution
}

// ExecutionOption is a functional option for ExecutionUseCase
type ExecutionOption func(*ExecutionUseCase)

// WithBulkLimit sets the maximum number of in-flight requests during
// BulkUpdate.
func WithBulkLimit(n int) ExecutionOption {
	return func(uc *ExecutionUseCase) {
		if n > 0 {
			uc.bulkLimit = n
		}
	}
}

// NewExecutionUseCase creates an execution engine backed by the given audit
// API client.
func NewExecutionUseCase(api interfaces.AuditAPI, opts ...ExecutionOption) *ExecutionUseCase {
	uc := &ExecutionUseCase{
		api:       api,
		bulkLimit: DefaultBulkLimit,
	}
	for _, opt := range opts {
		opt(uc)
	}
	return uc
}

// Start begins (or resumes) an execution for one lab and category of an
// assignment. The checklist returned by the audit API is stored verbatim,
// replacing any prior in-memory execution of the same run. Starting a
// different run while one is still open is refused.
func (uc *ExecutionUseCase) Start(ctx context.Context, assignmentID types.AssignmentID, labID types.LabID, category string) (*model.AuditExecution, error) {
	if labID == "" || category == "" {
		return nil, goerr.Wrap(ErrInvalidStartParameters, "lab and category must both be set",
			goerr.V(AssignmentIDKey, assignmentID),
			goerr.V(LabIDKey, labID),
			goerr.V(CategoryKey, category))
	}

	uc.mu.Lock()
	if cur := uc.current; cur != nil && cur.Open() && !cur.SameRun(assignmentID, labID, category) {
		uc.mu.Unlock()
		return nil, goerr.Wrap(ErrExecutionOpen, "complete the open execution before starting another",
			goerr.V(ExecutionIDKey, cur.ID),
			goerr.V(LabIDKey, cur.LabID),
			goerr.V(CategoryKey, cur.Category))
	}
	uc.mu.Unlock()

	exec, err := uc.api.StartExecution(ctx, assignmentID, labID, category)
	if err != nil {
		return nil, goerr.Wrap(ErrExecutionStartFailed, err.Error(),
			goerr.V(AssignmentIDKey, assignmentID),
			goerr.V(LabIDKey, labID),
			goerr.V(CategoryKey, category))
	}

	stored := exec.Clone()
	for i := range stored.Items {
		stored.Items[i].Status = stored.Items[i].Status.Normalize()
	}

	uc.mu.Lock()
	uc.current = stored
	uc.mu.Unlock()

	return stored.Clone(), nil
}

// Snapshot returns a copy of the active execution for display, or nil when
// none is active. Readers never share the engine's checklist slice.
func (uc *ExecutionUseCase) Snapshot() *model.AuditExecution {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	return uc.current.Clone()
}

// Stats derives checklist statistics for the active execution.
func (uc *ExecutionUseCase) Stats() model.ChecklistStats {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	if uc.current == nil {
		return model.ChecklistStats{}
	}
	return uc.current.Stats()
}

// Project derives the filtered, searched, paginated checklist page for
// display.
func (uc *ExecutionUseCase) Project(filter model.ChecklistFilter, search string, page, pageSize int) model.ChecklistPage {
	snapshot := uc.Snapshot()
	if snapshot == nil {
		return model.ProjectChecklist(nil, filter, search, page, pageSize)
	}
	return model.ProjectChecklist(snapshot.Items, filter, search, page, pageSize)
}

// UpdateItem records one verification result. The actual quantity follows the
// status semantics (only a quantity mismatch carries the supplied count), the
// actual location defaults to the lab being audited, and the item is replaced
// with the audit API's authoritative response.
func (uc *ExecutionUseCase) UpdateItem(ctx context.Context, itemID types.ItemID, status types.ItemStatus, suppliedQuantity int, remarks string) (*model.ChecklistItem, error) {
	if !itemID.Updatable() {
		return nil, goerr.Wrap(ErrInvalidItemID, "item is read-only",
			goerr.V(ItemIDKey, itemID))
	}
	if !status.IsValid() {
		return nil, goerr.New("invalid item status",
			goerr.V(StatusKey, status),
			goerr.V(ItemIDKey, itemID))
	}

	uc.mu.Lock()
	if uc.current == nil {
		uc.mu.Unlock()
		return nil, goerr.Wrap(ErrNoActiveExecution, "start an execution before updating items")
	}
	idx := uc.current.FindItem(itemID)
	if idx < 0 {
		uc.mu.Unlock()
		return nil, goerr.Wrap(ErrItemNotFound, "item not in active checklist",
			goerr.V(ItemIDKey, itemID),
			goerr.V(ExecutionIDKey, uc.current.ID))
	}
	item := uc.current.Items[idx]
	execID := uc.current.ID
	location := uc.current.LabName
	if location == "" {
		location = uc.current.LabID.String()
	}
	uc.mu.Unlock()

	update := model.ItemUpdate{
		Status:         status,
		ActualQuantity: item.EffectiveQuantity(status, suppliedQuantity),
		ActualLocation: location,
		Remarks:        remarks,
	}

	resp, err := uc.api.UpdateItem(ctx, execID, itemID, update)
	if err != nil {
		return nil, goerr.Wrap(ErrItemUpdateFailed, err.Error(),
			goerr.V(ItemIDKey, itemID),
			goerr.V(ExecutionIDKey, execID))
	}

	uc.mu.Lock()
	if uc.current != nil && uc.current.ID == execID {
		if i := uc.current.FindItem(itemID); i >= 0 {
			uc.current.Items[i] = *resp
		}
	}
	uc.mu.Unlock()

	updated := *resp
	return &updated, nil
}

// BulkUpdate applies one status change to every given item, with requests in
// flight concurrently. Individual failures never abort the rest and there is
// no rollback; the mixed outcome is reported in the result.
func (uc *ExecutionUseCase) BulkUpdate(ctx context.Context, itemIDs []types.ItemID, status types.ItemStatus, suppliedQuantity int, remarks string) (*model.BulkResult, error) {
	uc.mu.Lock()
	if uc.current == nil {
		uc.mu.Unlock()
		return nil, goerr.Wrap(ErrNoActiveExecution, "start an execution before updating items")
	}
	uc.mu.Unlock()

	errs := make([]error, len(itemIDs))

	var g errgroup.Group
	g.SetLimit(uc.bulkLimit)
	for i, itemID := range itemIDs {
		g.Go(func() error {
			_, errs[i] = uc.UpdateItem(ctx, itemID, status, suppliedQuantity, remarks)
			return nil
		})
	}
	_ = g.Wait()

	result := &model.BulkResult{}
	for i, err := range errs {
		if err != nil {
			result.Failed++
			result.FailedIDs = append(result.FailedIDs, itemIDs[i])
			continue
		}
		result.Succeeded++
	}
	return result, nil
}

// Complete closes the active execution with the auditor's closing notes. It
// is permitted only when every item has been checked; the guard runs locally
// and never reaches the network when it fails.
func (uc *ExecutionUseCase) Complete(ctx context.Context, observations, recommendations string) (*model.AuditExecution, error) {
	uc.mu.Lock()
	if uc.current == nil {
		uc.mu.Unlock()
		return nil, goerr.Wrap(ErrNoActiveExecution, "no execution to complete")
	}
	stats := uc.current.Stats()
	execID := uc.current.ID
	uc.mu.Unlock()

	if !stats.Complete() {
		return nil, goerr.Wrap(ErrIncompleteAudit, "all checklist items must be checked before completion",
			goerr.V(ExecutionIDKey, execID),
			goerr.V("percentage", stats.Percentage),
			goerr.V("checked", stats.Checked),
			goerr.V("total", stats.Total))
	}

	resp, err := uc.api.CompleteExecution(ctx, execID, observations, recommendations)
	if err != nil {
		return nil, goerr.Wrap(ErrCompletionFailed, err.Error(),
			goerr.V(ExecutionIDKey, execID))
	}

	uc.mu.Lock()
	uc.current = resp.Clone()
	uc.mu.Unlock()

	return resp.Clone(), nil
}
