package model

import (
	"time"

	"github.com/labops/labaudit/pkg/domain/types"
)

// AuditExecution represents one concrete run of an assignment against a
// specific lab and category
type AuditExecution struct {
	ID              types.ExecutionID  `json:"id" firestore:"id"`
	AssignmentID    types.AssignmentID `json:"assignmentId" firestore:"assignment_id"`
	LabID           types.LabID        `json:"labId" firestore:"lab_id"`
	LabName         string             `json:"labName,omitempty" firestore:"lab_name"`
	Category        string             `json:"category" firestore:"category"`
	Items           []ChecklistItem    `json:"checklistItems" firestore:"checklist_items"`
	StartedAt       time.Time          `json:"startedAt" firestore:"started_at"`
	CompletedAt     time.Time          `json:"completedAt,omitempty" firestore:"completed_at"`
	Observations    string             `json:"generalObservations,omitempty" firestore:"general_observations"`
	Recommendations string             `json:"recommendations,omitempty" firestore:"recommendations"`
}

// Open reports whether the execution has not been closed yet.
func (e *AuditExecution) Open() bool {
	return e.CompletedAt.IsZero()
}

// SameRun reports whether the execution belongs to the given
// (assignment, lab, category) combination.
func (e *AuditExecution) SameRun(assignmentID types.AssignmentID, labID types.LabID, category string) bool {
	return e.AssignmentID == assignmentID && e.LabID == labID && e.Category == category
}

// FindItem returns the index of the item with the given identifier, or -1.
func (e *AuditExecution) FindItem(itemID types.ItemID) int {
	for i := range e.Items {
		if e.Items[i].ItemID == itemID {
			return i
		}
	}
	return -1
}

// Stats derives checklist statistics for the execution.
func (e *AuditExecution) Stats() ChecklistStats {
	return ComputeStats(e.Items)
}

// Clone returns a deep copy of the execution. The checklist slice is owned
// exclusively by the engine, so every external reader gets its own copy.
func (e *AuditExecution) Clone() *AuditExecution {
	if e == nil {
		return nil
	}
	copied := *e
	copied.Items = make([]ChecklistItem, len(e.Items))
	copy(copied.Items, e.Items)
	return &copied
}
