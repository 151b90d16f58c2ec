package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/m-mizutani/goerr/v2"

	"github.com/labops/labaudit/pkg/domain/model"
	"github.com/labops/labaudit/pkg/domain/types"
)

type assignmentRepository struct {
	mu          sync.RWMutex
	assignments map[types.AssignmentID]*model.Assignment
}

func newAssignmentRepository() *assignmentRepository {
	return &assignmentRepository{
		assignments: make(map[types.AssignmentID]*model.Assignment),
	}
}

func (r *assignmentRepository) Create(ctx context.Context, a *model.Assignment) (*model.Assignment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	created := a.Clone()
	if created.ID == "" {
		created.ID = types.AssignmentID(uuid.New().String())
	}
	if _, exists := r.assignments[created.ID]; exists {
		return nil, goerr.New("assignment already exists", goerr.V("assignment_id", created.ID))
	}

	now := time.Now().UTC()
	created.Status = created.Status.Normalize()
	created.CreatedAt = now
	created.UpdatedAt = now

	r.assignments[created.ID] = created
	return created.Clone(), nil
}

func (r *assignmentRepository) Get(ctx context.Context, id types.AssignmentID) (*model.Assignment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, ok := r.assignments[id]
	if !ok {
		return nil, goerr.Wrap(ErrNotFound, "assignment not found", goerr.V("assignment_id", id))
	}
	return a.Clone(), nil
}

func (r *assignmentRepository) List(ctx context.Context) ([]*model.Assignment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*model.Assignment, 0, len(r.assignments))
	for _, a := range r.assignments {
		out = append(out, a.Clone())
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (r *assignmentRepository) Update(ctx context.Context, a *model.Assignment) (*model.Assignment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.assignments[a.ID]
	if !ok {
		return nil, goerr.Wrap(ErrNotFound, "assignment not found", goerr.V("assignment_id", a.ID))
	}

	updated := a.Clone()
	updated.CreatedAt = existing.CreatedAt
	updated.UpdatedAt = time.Now().UTC()

	r.assignments[updated.ID] = updated
	return updated.Clone(), nil
}
