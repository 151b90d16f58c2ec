package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/m-mizutani/goerr/v2"

	"github.com/labops/labaudit/pkg/domain/model"
	"github.com/labops/labaudit/pkg/domain/types"
)

type executionRepository struct {
	mu         sync.RWMutex
	executions map[types.ExecutionID]*model.AuditExecution
}

func newExecutionRepository() *executionRepository {
	return &executionRepository{
		executions: make(map[types.ExecutionID]*model.AuditExecution),
	}
}

func (r *executionRepository) Create(ctx context.Context, e *model.AuditExecution) (*model.AuditExecution, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	created := e.Clone()
	if created.ID == "" {
		created.ID = types.NewExecutionID()
	}
	if _, exists := r.executions[created.ID]; exists {
		return nil, goerr.New("execution already exists", goerr.V("execution_id", created.ID))
	}
	if created.StartedAt.IsZero() {
		created.StartedAt = time.Now().UTC()
	}

	r.executions[created.ID] = created
	return created.Clone(), nil
}

func (r *executionRepository) Get(ctx context.Context, id types.ExecutionID) (*model.AuditExecution, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.executions[id]
	if !ok {
		return nil, goerr.Wrap(ErrNotFound, "execution not found", goerr.V("execution_id", id))
	}
	return e.Clone(), nil
}

func (r *executionRepository) GetOpen(ctx context.Context, assignmentID types.AssignmentID, labID types.LabID, category string) (*model.AuditExecution, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, e := range r.executions {
		if e.Open() && e.SameRun(assignmentID, labID, category) {
			return e.Clone(), nil
		}
	}
	return nil, nil
}

func (r *executionRepository) Update(ctx context.Context, e *model.AuditExecution) (*model.AuditExecution, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.executions[e.ID]
	if !ok {
		return nil, goerr.Wrap(ErrNotFound, "execution not found", goerr.V("execution_id", e.ID))
	}

	updated := e.Clone()
	updated.StartedAt = existing.StartedAt

	r.executions[updated.ID] = updated
	return updated.Clone(), nil
}

func (r *executionRepository) ListByAssignment(ctx context.Context, assignmentID types.AssignmentID) ([]*model.AuditExecution, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []*model.AuditExecution
	for _, e := range r.executions {
		if e.AssignmentID == assignmentID {
			out = append(out, e.Clone())
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].StartedAt.After(out[j].StartedAt)
	})
	return out, nil
}
