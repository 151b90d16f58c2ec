package memory_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/m-mizutani/gt"

	"github.com/labops/labaudit/pkg/domain/model"
	"github.com/labops/labaudit/pkg/domain/types"
	"github.com/labops/labaudit/pkg/repository/memory"
)

func TestAssignmentRepository(t *testing.T) {
	ctx := context.Background()

	t.Run("create and get", func(t *testing.T) {
		repo := memory.New()

		created, err := repo.Assignment().Create(ctx, &model.Assignment{
			Title:      "Monthly glassware audit",
			AssignedTo: "U-FAC-02",
			Priority:   types.PriorityMedium,
		})
		gt.NoError(t, err).Required()
		gt.String(t, created.ID.String()).NotEqual("")
		gt.Value(t, created.Status).Equal(types.AssignmentStatusAssigned)
		gt.Bool(t, created.CreatedAt.IsZero()).False()

		retrieved, err := repo.Assignment().Get(ctx, created.ID)
		gt.NoError(t, err).Required()
		gt.Value(t, retrieved.Title).Equal("Monthly glassware audit")
	})

	t.Run("get missing returns ErrNotFound", func(t *testing.T) {
		repo := memory.New()
		_, err := repo.Assignment().Get(ctx, "missing")
		gt.Bool(t, errors.Is(err, memory.ErrNotFound)).True()
	})

	t.Run("update preserves creation time", func(t *testing.T) {
		repo := memory.New()
		created, err := repo.Assignment().Create(ctx, &model.Assignment{Title: "Audit"})
		gt.NoError(t, err).Required()

		created.Status = types.AssignmentStatusInProgress
		created.Progress = 40
		updated, err := repo.Assignment().Update(ctx, created)
		gt.NoError(t, err).Required()
		gt.Value(t, updated.Status).Equal(types.AssignmentStatusInProgress)
		gt.Value(t, updated.CreatedAt).Equal(created.CreatedAt)
	})

	t.Run("list is ordered by creation time", func(t *testing.T) {
		repo := memory.New()
		for _, title := range []string{"first", "second", "third"} {
			_, err := repo.Assignment().Create(ctx, &model.Assignment{Title: title})
			gt.NoError(t, err).Required()
			time.Sleep(time.Millisecond)
		}

		assignments, err := repo.Assignment().List(ctx)
		gt.NoError(t, err).Required()
		gt.Array(t, assignments).Length(3)
		gt.Value(t, assignments[0].Title).Equal("first")
		gt.Value(t, assignments[2].Title).Equal("third")
	})

	t.Run("stored state is isolated from caller mutation", func(t *testing.T) {
		repo := memory.New()
		created, err := repo.Assignment().Create(ctx, &model.Assignment{
			Title: "Audit",
			Labs:  []model.LabRef{{ID: "lab-1", Name: "Chem Lab"}},
		})
		gt.NoError(t, err).Required()

		created.Labs[0].Name = "mutated"
		retrieved, err := repo.Assignment().Get(ctx, created.ID)
		gt.NoError(t, err).Required()
		gt.Value(t, retrieved.Labs[0].Name).Equal("Chem Lab")
	})
}

func TestExecutionRepository(t *testing.T) {
	ctx := context.Background()

	newExecution := func() *model.AuditExecution {
		return &model.AuditExecution{
			AssignmentID: "assign-1",
			LabID:        "lab-1",
			Category:     "chemical",
			Items: []model.ChecklistItem{
				{ItemID: "CHEM-001", Status: types.ItemStatusNotChecked},
			},
		}
	}

	t.Run("create assigns ID and start time", func(t *testing.T) {
		repo := memory.New()
		created, err := repo.Execution().Create(ctx, newExecution())
		gt.NoError(t, err).Required()
		gt.String(t, created.ID.String()).NotEqual("")
		gt.Bool(t, created.StartedAt.IsZero()).False()
		gt.Bool(t, created.Open()).True()
	})

	t.Run("GetOpen finds only the open run", func(t *testing.T) {
		repo := memory.New()
		created, err := repo.Execution().Create(ctx, newExecution())
		gt.NoError(t, err).Required()

		open, err := repo.Execution().GetOpen(ctx, "assign-1", "lab-1", "chemical")
		gt.NoError(t, err).Required()
		gt.Value(t, open).NotNil()
		gt.Value(t, open.ID).Equal(created.ID)

		// A different run has no open execution.
		other, err := repo.Execution().GetOpen(ctx, "assign-1", "lab-2", "chemical")
		gt.NoError(t, err).Required()
		gt.Value(t, other).Nil()

		created.CompletedAt = time.Now().UTC()
		_, err = repo.Execution().Update(ctx, created)
		gt.NoError(t, err).Required()

		closed, err := repo.Execution().GetOpen(ctx, "assign-1", "lab-1", "chemical")
		gt.NoError(t, err).Required()
		gt.Value(t, closed).Nil()
	})

	t.Run("ListByAssignment is newest first", func(t *testing.T) {
		repo := memory.New()
		for i := 0; i < 3; i++ {
			e := newExecution()
			e.StartedAt = time.Now().UTC().Add(time.Duration(i) * time.Minute)
			_, err := repo.Execution().Create(ctx, e)
			gt.NoError(t, err).Required()
		}

		executions, err := repo.Execution().ListByAssignment(ctx, "assign-1")
		gt.NoError(t, err).Required()
		gt.Array(t, executions).Length(3)
		gt.Bool(t, executions[0].StartedAt.After(executions[2].StartedAt)).True()
	})

	t.Run("update missing returns ErrNotFound", func(t *testing.T) {
		repo := memory.New()
		e := newExecution()
		e.ID = "missing"
		_, err := repo.Execution().Update(ctx, e)
		gt.Bool(t, errors.Is(err, memory.ErrNotFound)).True()
	})
}
