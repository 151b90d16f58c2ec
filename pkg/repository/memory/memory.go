package memory

import (
	"github.com/m-mizutani/goerr/v2"

	"github.com/labops/labaudit/pkg/domain/interfaces"
)

// ErrNotFound is returned when the requested entity does not exist
var ErrNotFound = goerr.New("not found")

// Memory is an in-memory Repository for development and tests
type Memory struct {
	assignment *assignmentRepository
	execution  *executionRepository
}

var _ interfaces.Repository = &Memory{}

// New creates an empty in-memory repository.
func New() *Memory {
	return &Memory{
		assignment: newAssignmentRepository(),
		execution:  newExecutionRepository(),
	}
}

func (m *Memory) Assignment() interfaces.AssignmentRepository {
	return m.assignment
}

func (m *Memory) Execution() interfaces.ExecutionRepository {
	return m.execution
}

func (m *Memory) Close() error {
	return nil
}
