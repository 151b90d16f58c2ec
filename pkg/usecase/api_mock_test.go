package usecase_test

import (
	"context"
	"sync"
	"time"

	"github.com/m-mizutani/goerr/v2"

	"github.com/labops/labaudit/pkg/domain/interfaces"
	"github.com/labops/labaudit/pkg/domain/model"
	"github.com/labops/labaudit/pkg/domain/types"
)

// mockAuditAPI is a scriptable stand-in for the remote audit service. It
// applies updates the way the backend does (server state is authoritative)
// and counts calls so tests can assert that local guards never reach the
// network.
type mockAuditAPI struct {
	mu sync.Mutex

	assignment *model.Assignment
	execution  *model.AuditExecution
	executions []*model.AuditExecution

	startErr     error
	completeErr  error
	getErr       error
	updateErrFor map[types.ItemID]error

	startCalls    int
	updateCalls   int
	completeCalls int
	getCalls      int
}

var _ interfaces.AuditAPI = &mockAuditAPI{}

func (m *mockAuditAPI) StartExecution(ctx context.Context, assignmentID types.AssignmentID, labID types.LabID, category string) (*model.AuditExecution, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.startCalls++

	if m.startErr != nil {
		return nil, m.startErr
	}
	if m.execution == nil {
		return nil, goerr.New("no execution scripted")
	}
	m.execution.AssignmentID = assignmentID
	m.execution.LabID = labID
	m.execution.Category = category
	if m.execution.StartedAt.IsZero() {
		m.execution.StartedAt = time.Now().UTC()
	}
	return m.execution.Clone(), nil
}

func (m *mockAuditAPI) UpdateItem(ctx context.Context, executionID types.ExecutionID, itemID types.ItemID, update model.ItemUpdate) (*model.ChecklistItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.updateCalls++

	if err := m.updateErrFor[itemID]; err != nil {
		return nil, err
	}
	if m.execution == nil || m.execution.ID != executionID {
		return nil, goerr.New("unknown execution", goerr.V("execution_id", executionID))
	}
	idx := m.execution.FindItem(itemID)
	if idx < 0 {
		return nil, goerr.New("unknown item", goerr.V("item_id", itemID))
	}

	item := &m.execution.Items[idx]
	item.Status = update.Status
	item.ActualQuantity = update.ActualQuantity
	item.ActualLocation = update.ActualLocation
	item.Remarks = update.Remarks
	item.Damaged = update.Status == types.ItemStatusDamaged

	updated := *item
	return &updated, nil
}

func (m *mockAuditAPI) CompleteExecution(ctx context.Context, executionID types.ExecutionID, observations, recommendations string) (*model.AuditExecution, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.completeCalls++

	if m.completeErr != nil {
		return nil, m.completeErr
	}
	if m.execution == nil || m.execution.ID != executionID {
		return nil, goerr.New("unknown execution", goerr.V("execution_id", executionID))
	}
	m.execution.CompletedAt = time.Now().UTC()
	m.execution.Observations = observations
	m.execution.Recommendations = recommendations

	// The backend closes the assignment together with its execution, so a
	// subsequent GetAssignment must see the terminal state.
	if m.assignment != nil && m.assignment.ID == m.execution.AssignmentID {
		m.assignment.Status = types.AssignmentStatusCompleted
		m.assignment.Progress = 100
	}

	return m.execution.Clone(), nil
}

func (m *mockAuditAPI) GetAssignment(ctx context.Context, id types.AssignmentID) (*model.Assignment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.getCalls++

	if m.getErr != nil {
		return nil, m.getErr
	}
	if m.assignment == nil || m.assignment.ID != id {
		return nil, goerr.New("unknown assignment", goerr.V("assignment_id", id))
	}
	return m.assignment.Clone(), nil
}

func (m *mockAuditAPI) ListExecutions(ctx context.Context, assignmentID types.AssignmentID) ([]*model.AuditExecution, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []*model.AuditExecution
	for _, e := range m.executions {
		if e.AssignmentID == assignmentID {
			out = append(out, e.Clone())
		}
	}
	return out, nil
}

func scriptedExecution() *model.AuditExecution {
	return &model.AuditExecution{
		ID:           "exec-1",
		AssignmentID: "assign-1",
		LabID:        "lab-1",
		LabName:      "Organic Chemistry Lab",
		Category:     "chemical",
		Items: []model.ChecklistItem{
			{ItemID: "CHEM-001", Name: "Sulfuric Acid", Type: types.ItemTypeChemical, ExpectedQuantity: 5, ExpectedLocation: "Shelf A", Status: types.ItemStatusNotChecked},
			{ItemID: "CHEM-002", Name: "Ethanol", Type: types.ItemTypeChemical, ExpectedQuantity: 3, ExpectedLocation: "Shelf B", Status: types.ItemStatusNotChecked},
			{ItemID: "CHEM-003", Name: "Acetone", Type: types.ItemTypeChemical, ExpectedQuantity: 2, ExpectedLocation: "Shelf B", Status: types.ItemStatusNotChecked},
		},
	}
}

func scriptedAssignment() *model.Assignment {
	return &model.Assignment{
		ID:         "assign-1",
		Title:      "Quarterly chemical audit",
		AssignedTo: "U-FAC-01",
		Labs:       []model.LabRef{{ID: "lab-1", Name: "Organic Chemistry Lab"}},
		Tasks:      []model.AuditTask{{Description: "Verify chemical stock", Category: "chemical"}},
		Priority:   types.PriorityHigh,
		Status:     types.AssignmentStatusAssigned,
	}
}
