package usecase

import "github.com/m-mizutani/goerr/v2"

// Local validation errors. These are raised before any network call is
// attempted.
var (
	ErrInvalidStartParameters = goerr.New("lab and category are required to start an execution")
	ErrInvalidItemID          = goerr.New("checklist item has no usable identifier")
	ErrIncompleteAudit        = goerr.New("audit checklist is not fully checked")
	ErrNoActiveExecution      = goerr.New("no active audit execution")
	ErrExecutionOpen          = goerr.New("another audit execution is already open")
	ErrItemNotFound           = goerr.New("item is not part of the active checklist")
	ErrAssignmentNotStartable = goerr.New("assignment cannot start an execution in its current status")
	ErrAssignmentNotHydrated  = goerr.New("assignment has not been loaded")
)

// Collaborator failures. The remote service's message is preserved in the
// error chain for display.
var (
	ErrExecutionStartFailed = goerr.New("failed to start audit execution")
	ErrItemUpdateFailed     = goerr.New("failed to update checklist item")
	ErrCompletionFailed     = goerr.New("failed to complete audit execution")
)

// Context keys for error values
const (
	AssignmentIDKey = "assignment_id"
	ExecutionIDKey  = "execution_id"
	ItemIDKey       = "item_id"
	LabIDKey        = "lab_id"
	CategoryKey     = "category"
	StatusKey       = "status"
)
