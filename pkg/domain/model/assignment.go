package model

import (
	"time"

	"github.com/labops/labaudit/pkg/domain/types"
)

// LabRef identifies one target laboratory of an assignment
type LabRef struct {
	ID   types.LabID `json:"id" firestore:"id"`
	Name string      `json:"name" firestore:"name"`
}

// AuditTask describes one unit of audit work within an assignment, tagged
// with the inventory category it covers
type AuditTask struct {
	Description string `json:"description" firestore:"description"`
	Category    string `json:"category" firestore:"category"`
}

// InventoryEntry is one expected inventory record used to populate the
// checklist when an execution starts
type InventoryEntry struct {
	ItemID   types.ItemID   `json:"itemId" firestore:"item_id"`
	Name     string         `json:"name" firestore:"name"`
	Type     types.ItemType `json:"type" firestore:"type"`
	QRCode   string         `json:"qrCode,omitempty" firestore:"qr_code"`
	Quantity int            `json:"quantity" firestore:"quantity"`
	Location string         `json:"location" firestore:"location"`
	LabID    types.LabID    `json:"labId" firestore:"lab_id"`
	Category string         `json:"category" firestore:"category"`
}

// Assignment represents a unit of audit work assigned to one faculty member
type Assignment struct {
	ID          types.AssignmentID     `json:"id" firestore:"id"`
	Title       string                 `json:"title" firestore:"title"`
	Description string                 `json:"description,omitempty" firestore:"description"`
	AssignedTo  string                 `json:"assignedTo" firestore:"assigned_to"`
	Labs        []LabRef               `json:"labs" firestore:"labs"`
	Tasks       []AuditTask            `json:"tasks" firestore:"tasks"`
	Inventory   []InventoryEntry       `json:"inventory,omitempty" firestore:"inventory"`
	DueDate     time.Time              `json:"dueDate,omitempty" firestore:"due_date"`
	Priority    types.Priority         `json:"priority" firestore:"priority"`
	Recurrence  string                 `json:"recurrence,omitempty" firestore:"recurrence"`
	Status      types.AssignmentStatus `json:"status" firestore:"status"`
	Progress    int                    `json:"progress" firestore:"progress"`
	CreatedAt   time.Time              `json:"createdAt,omitempty" firestore:"created_at"`
	UpdatedAt   time.Time              `json:"updatedAt,omitempty" firestore:"updated_at"`
}

// Overdue reports whether the assignment is past due. It is a derived display
// state, never written back as a stored transition.
func (a *Assignment) Overdue(now time.Time) bool {
	if a.DueDate.IsZero() {
		return false
	}
	if a.Status.Normalize().IsTerminal() {
		return false
	}
	return now.After(a.DueDate)
}

// Lab returns the lab reference matching the given ID, if any.
func (a *Assignment) Lab(labID types.LabID) (LabRef, bool) {
	for _, lab := range a.Labs {
		if lab.ID == labID {
			return lab, true
		}
	}
	return LabRef{}, false
}

// InventoryFor returns the expected inventory scoped to one lab and category,
// rendered as unchecked checklist items.
func (a *Assignment) InventoryFor(labID types.LabID, category string) []ChecklistItem {
	var items []ChecklistItem
	for _, entry := range a.Inventory {
		if entry.LabID != labID || entry.Category != category {
			continue
		}
		items = append(items, ChecklistItem{
			ItemID:           entry.ItemID,
			Name:             entry.Name,
			Type:             entry.Type,
			QRCode:           entry.QRCode,
			ExpectedQuantity: entry.Quantity,
			ExpectedLocation: entry.Location,
			Status:           types.ItemStatusNotChecked,
		})
	}
	return items
}

// Clone returns a deep copy of the assignment.
func (a *Assignment) Clone() *Assignment {
	if a == nil {
		return nil
	}
	copied := *a
	copied.Labs = make([]LabRef, len(a.Labs))
	copy(copied.Labs, a.Labs)
	copied.Tasks = make([]AuditTask, len(a.Tasks))
	copy(copied.Tasks, a.Tasks)
	copied.Inventory = make([]InventoryEntry, len(a.Inventory))
	copy(copied.Inventory, a.Inventory)
	return &copied
}
