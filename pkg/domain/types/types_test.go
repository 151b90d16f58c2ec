package types_test

import (
	"testing"

	"github.com/labops/labaudit/pkg/domain/types"
)

func TestItemStatus_IsValid(t *testing.T) {
	tests := []struct {
		name   string
		status types.ItemStatus
		want   bool
	}{
		{"not checked", types.ItemStatusNotChecked, true},
		{"present", types.ItemStatusPresent, true},
		{"missing", types.ItemStatusMissing, true},
		{"damaged", types.ItemStatusDamaged, true},
		{"location mismatch", types.ItemStatusLocationMismatch, true},
		{"quantity mismatch", types.ItemStatusQuantityMismatch, true},
		{"empty", "", false},
		{"unknown", "verified", false},
		{"uppercase", "PRESENT", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.status.IsValid(); got != tt.want {
				t.Errorf("ItemStatus.IsValid() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestItemStatus_Checked(t *testing.T) {
	tests := []struct {
		name   string
		status types.ItemStatus
		want   bool
	}{
		{"not checked", types.ItemStatusNotChecked, false},
		{"empty normalizes to not checked", "", false},
		{"present", types.ItemStatusPresent, true},
		{"missing", types.ItemStatusMissing, true},
		{"damaged", types.ItemStatusDamaged, true},
		{"location mismatch", types.ItemStatusLocationMismatch, true},
		{"quantity mismatch", types.ItemStatusQuantityMismatch, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.status.Checked(); got != tt.want {
				t.Errorf("ItemStatus.Checked() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestItemStatus_IsIssue(t *testing.T) {
	issues := []types.ItemStatus{
		types.ItemStatusMissing,
		types.ItemStatusDamaged,
		types.ItemStatusLocationMismatch,
		types.ItemStatusQuantityMismatch,
	}
	for _, s := range issues {
		if !s.IsIssue() {
			t.Errorf("ItemStatus(%s).IsIssue() = false, want true", s)
		}
	}

	nonIssues := []types.ItemStatus{
		types.ItemStatusNotChecked,
		types.ItemStatusPresent,
	}
	for _, s := range nonIssues {
		if s.IsIssue() {
			t.Errorf("ItemStatus(%s).IsIssue() = true, want false", s)
		}
	}
}

func TestItemID_Updatable(t *testing.T) {
	tests := []struct {
		name string
		id   types.ItemID
		want bool
	}{
		{"normal ID", "ITEM-001", true},
		{"empty", "", false},
		{"undefined sentinel", "undefined", false},
		{"near sentinel is fine", "undefined-2", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.id.Updatable(); got != tt.want {
				t.Errorf("ItemID.Updatable() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestAssignmentStatus_CanStartExecution(t *testing.T) {
	tests := []struct {
		name   string
		status types.AssignmentStatus
		want   bool
	}{
		{"assigned", types.AssignmentStatusAssigned, true},
		{"empty normalizes to assigned", "", true},
		{"legacy pending", "pending", true},
		{"overdue is advisory", types.AssignmentStatusOverdue, true},
		{"in progress", types.AssignmentStatusInProgress, false},
		{"completed", types.AssignmentStatusCompleted, false},
		{"cancelled", types.AssignmentStatusCancelled, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.status.CanStartExecution(); got != tt.want {
				t.Errorf("AssignmentStatus.CanStartExecution() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestParseItemType(t *testing.T) {
	for _, typ := range types.AllItemTypes() {
		parsed, err := types.ParseItemType(typ.String())
		if err != nil {
			t.Fatalf("ParseItemType(%s) returned error: %v", typ, err)
		}
		if parsed != typ {
			t.Errorf("ParseItemType(%s) = %s", typ, parsed)
		}
	}

	if _, err := types.ParseItemType("furniture"); err == nil {
		t.Error("ParseItemType(furniture) did not return error")
	}
}

func TestParsePriority(t *testing.T) {
	for _, p := range types.AllPriorities() {
		parsed, err := types.ParsePriority(p.String())
		if err != nil {
			t.Fatalf("ParsePriority(%s) returned error: %v", p, err)
		}
		if parsed != p {
			t.Errorf("ParsePriority(%s) = %s", p, parsed)
		}
	}

	if _, err := types.ParsePriority("critical"); err == nil {
		t.Error("ParsePriority(critical) did not return error")
	}
}
