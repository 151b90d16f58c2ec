package usecase_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gt"

	"github.com/labops/labaudit/pkg/domain/model"
	"github.com/labops/labaudit/pkg/domain/types"
	"github.com/labops/labaudit/pkg/usecase"
)

// recordingNotifier captures completion notifications for assertions.
type recordingNotifier struct {
	mu     sync.Mutex
	calls  int
	stats  model.ChecklistStats
	doneCh chan struct{}
}

func newRecordingNotifier() *recordingNotifier {
	return &recordingNotifier{doneCh: make(chan struct{})}
}

func (n *recordingNotifier) NotifyCompletion(ctx context.Context, assignment *model.Assignment, execution *model.AuditExecution, stats model.ChecklistStats) error {
	n.mu.Lock()
	n.calls++
	n.stats = stats
	n.mu.Unlock()
	close(n.doneCh)
	return nil
}

func newController(t *testing.T, api *mockAuditAPI, opts ...usecase.AssignmentOption) *usecase.AssignmentUseCase {
	t.Helper()
	engine := usecase.NewExecutionUseCase(api)
	return usecase.NewAssignmentUseCase(api, engine, opts...)
}

func TestAssignmentUseCase_Hydrate(t *testing.T) {
	ctx := context.Background()

	t.Run("loads the assignment", func(t *testing.T) {
		api := &mockAuditAPI{assignment: scriptedAssignment()}
		uc := newController(t, api)

		a, err := uc.Hydrate(ctx, "assign-1")
		gt.NoError(t, err).Required()
		gt.Value(t, a.Title).Equal("Quarterly chemical audit")
		gt.Value(t, uc.Assignment().ID).Equal(types.AssignmentID("assign-1"))
	})

	t.Run("empty ID fails", func(t *testing.T) {
		api := &mockAuditAPI{assignment: scriptedAssignment()}
		uc := newController(t, api)

		_, err := uc.Hydrate(ctx, "")
		gt.Value(t, err).NotNil()
		gt.Number(t, api.getCalls).Equal(0)
	})
}

func TestAssignmentUseCase_BeginExecution(t *testing.T) {
	ctx := context.Background()

	t.Run("moves the assignment to in_progress", func(t *testing.T) {
		api := &mockAuditAPI{assignment: scriptedAssignment(), execution: scriptedExecution()}
		uc := newController(t, api)
		_, err := uc.Hydrate(ctx, "assign-1")
		gt.NoError(t, err).Required()

		exec, err := uc.BeginExecution(ctx, "lab-1", "chemical")
		gt.NoError(t, err).Required()
		gt.Array(t, exec.Items).Length(3)
		gt.Value(t, uc.Assignment().Status).Equal(types.AssignmentStatusInProgress)
	})

	t.Run("refused before hydration", func(t *testing.T) {
		api := &mockAuditAPI{execution: scriptedExecution()}
		uc := newController(t, api)

		_, err := uc.BeginExecution(ctx, "lab-1", "chemical")
		gt.Error(t, err).Is(usecase.ErrAssignmentNotHydrated)
	})

	t.Run("refused for a completed assignment", func(t *testing.T) {
		done := scriptedAssignment()
		done.Status = types.AssignmentStatusCompleted
		api := &mockAuditAPI{assignment: done, execution: scriptedExecution()}
		uc := newController(t, api)
		_, err := uc.Hydrate(ctx, "assign-1")
		gt.NoError(t, err).Required()

		_, err = uc.BeginExecution(ctx, "lab-1", "chemical")
		gt.Error(t, err).Is(usecase.ErrAssignmentNotStartable)
		gt.Number(t, api.startCalls).Equal(0)
	})

	t.Run("refused for a cancelled assignment", func(t *testing.T) {
		cancelled := scriptedAssignment()
		cancelled.Status = types.AssignmentStatusCancelled
		api := &mockAuditAPI{assignment: cancelled, execution: scriptedExecution()}
		uc := newController(t, api)
		_, err := uc.Hydrate(ctx, "assign-1")
		gt.NoError(t, err).Required()

		_, err = uc.BeginExecution(ctx, "lab-1", "chemical")
		gt.Error(t, err).Is(usecase.ErrAssignmentNotStartable)
	})

	t.Run("invalid start parameters do not transition the assignment", func(t *testing.T) {
		api := &mockAuditAPI{assignment: scriptedAssignment(), execution: scriptedExecution()}
		uc := newController(t, api)
		_, err := uc.Hydrate(ctx, "assign-1")
		gt.NoError(t, err).Required()

		_, err = uc.BeginExecution(ctx, "", "chemical")
		gt.Error(t, err).Is(usecase.ErrInvalidStartParameters)
		gt.Value(t, uc.Assignment().Status).Equal(types.AssignmentStatusAssigned)
	})

	t.Run("resume while in progress", func(t *testing.T) {
		inProgress := scriptedAssignment()
		inProgress.Status = types.AssignmentStatusInProgress
		api := &mockAuditAPI{assignment: inProgress, execution: scriptedExecution()}
		uc := newController(t, api)
		_, err := uc.Hydrate(ctx, "assign-1")
		gt.NoError(t, err).Required()

		_, err = uc.BeginExecution(ctx, "lab-1", "chemical")
		gt.NoError(t, err).Required()
	})
}

func TestAssignmentUseCase_Progress(t *testing.T) {
	ctx := context.Background()

	api := &mockAuditAPI{assignment: scriptedAssignment(), execution: scriptedExecution()}
	uc := newController(t, api)
	_, err := uc.Hydrate(ctx, "assign-1")
	gt.NoError(t, err).Required()
	_, err = uc.BeginExecution(ctx, "lab-1", "chemical")
	gt.NoError(t, err).Required()

	_, err = uc.UpdateItem(ctx, "CHEM-001", types.ItemStatusPresent, 0, "")
	gt.NoError(t, err).Required()
	gt.Number(t, uc.Assignment().Progress).Equal(33)

	result, err := uc.BulkUpdate(ctx, []types.ItemID{"CHEM-002", "CHEM-003"}, types.ItemStatusPresent, 0, "")
	gt.NoError(t, err).Required()
	gt.Number(t, result.Succeeded).Equal(2)
	gt.Number(t, uc.Assignment().Progress).Equal(100)
}

func TestAssignmentUseCase_Finish(t *testing.T) {
	ctx := context.Background()

	setup := func(t *testing.T, opts ...usecase.AssignmentOption) (*usecase.AssignmentUseCase, *mockAuditAPI) {
		t.Helper()
		api := &mockAuditAPI{assignment: scriptedAssignment(), execution: scriptedExecution()}
		uc := newController(t, api, opts...)
		_, err := uc.Hydrate(ctx, "assign-1")
		gt.NoError(t, err).Required()
		_, err = uc.BeginExecution(ctx, "lab-1", "chemical")
		gt.NoError(t, err).Required()
		return uc, api
	}

	checkAll := func(t *testing.T, uc *usecase.AssignmentUseCase) {
		t.Helper()
		for _, id := range []types.ItemID{"CHEM-001", "CHEM-002", "CHEM-003"} {
			_, err := uc.UpdateItem(ctx, id, types.ItemStatusPresent, 0, "")
			gt.NoError(t, err).Required()
		}
	}

	t.Run("premature finish is refused before the engine", func(t *testing.T) {
		uc, api := setup(t)

		_, err := uc.Finish(ctx, "", "")
		gt.Error(t, err).Is(usecase.ErrIncompleteAudit)
		gt.Number(t, api.completeCalls).Equal(0)
		gt.Value(t, uc.Assignment().Status).Equal(types.AssignmentStatusInProgress)
	})

	t.Run("finish closes the assignment", func(t *testing.T) {
		uc, api := setup(t)
		checkAll(t, uc)

		exec, err := uc.Finish(ctx, "done", "none")
		gt.NoError(t, err).Required()
		gt.Bool(t, exec.Open()).False()
		gt.Value(t, uc.Assignment().Status).Equal(types.AssignmentStatusCompleted)
		gt.Number(t, uc.Assignment().Progress).Equal(100)
		gt.Number(t, api.completeCalls).Equal(1)
		// One read for Hydrate, one for the post-completion refresh that
		// replaces the local copy with the server's closed assignment.
		gt.Number(t, api.getCalls).Equal(2)
	})

	t.Run("failed refresh keeps the local terminal state", func(t *testing.T) {
		uc, api := setup(t)
		checkAll(t, uc)
		api.getErr = goerr.New("backend unavailable")

		exec, err := uc.Finish(ctx, "done", "")
		gt.NoError(t, err).Required()
		gt.Bool(t, exec.Open()).False()
		gt.Value(t, uc.Assignment().Status).Equal(types.AssignmentStatusCompleted)
		gt.Number(t, uc.Assignment().Progress).Equal(100)
	})

	t.Run("completion notifies asynchronously", func(t *testing.T) {
		notifier := newRecordingNotifier()
		uc, _ := setup(t, usecase.WithNotifier(notifier))
		checkAll(t, uc)

		_, err := uc.Finish(ctx, "done", "")
		gt.NoError(t, err).Required()

		select {
		case <-notifier.doneCh:
		case <-time.After(time.Second):
			t.Fatal("completion notification not delivered")
		}

		notifier.mu.Lock()
		defer notifier.mu.Unlock()
		gt.Number(t, notifier.calls).Equal(1)
		gt.Number(t, notifier.stats.Percentage).Equal(100)
	})
}

func TestAssignmentUseCase_Executions(t *testing.T) {
	ctx := context.Background()

	closed := scriptedExecution()
	closed.ID = "exec-0"
	closed.CompletedAt = time.Now().UTC()

	api := &mockAuditAPI{
		assignment: scriptedAssignment(),
		executions: []*model.AuditExecution{closed},
	}
	uc := newController(t, api)

	_, err := uc.Executions(ctx)
	gt.Error(t, err).Is(usecase.ErrAssignmentNotHydrated)

	_, err = uc.Hydrate(ctx, "assign-1")
	gt.NoError(t, err).Required()

	executions, err := uc.Executions(ctx)
	gt.NoError(t, err).Required()
	gt.Array(t, executions).Length(1)
	gt.Bool(t, executions[0].Open()).False()
}
