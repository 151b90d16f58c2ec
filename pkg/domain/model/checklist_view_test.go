package model_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/m-mizutani/gt"

	"github.com/labops/labaudit/pkg/domain/model"
	"github.com/labops/labaudit/pkg/domain/types"
)

func mustParse(t *testing.T, s string) time.Time {
	t.Helper()
	ts, err := time.Parse(time.RFC3339, s)
	gt.NoError(t, err).Required()
	return ts
}

func sampleChecklist() []model.ChecklistItem {
	return []model.ChecklistItem{
		{ItemID: "CHEM-001", Name: "Sulfuric Acid", Type: types.ItemTypeChemical, ExpectedLocation: "Shelf A", Status: types.ItemStatusPresent},
		{ItemID: "CHEM-002", Name: "Ethanol", Type: types.ItemTypeChemical, ExpectedLocation: "Shelf B", Status: types.ItemStatusNotChecked},
		{ItemID: "EQ-001", Name: "Centrifuge", Type: types.ItemTypeEquipment, ExpectedLocation: "Bench 3", Status: types.ItemStatusMissing},
		{ItemID: "GL-001", Name: "Beaker 500ml", Type: types.ItemTypeGlassware, ExpectedLocation: "Cabinet 1", Status: types.ItemStatusNotChecked},
		{ItemID: "GL-002", Name: "Flask", Type: types.ItemTypeGlassware, ExpectedLocation: "Cabinet 1", Status: types.ItemStatusPresent},
	}
}

func TestProjectChecklist(t *testing.T) {
	t.Run("no filter returns everything paged", func(t *testing.T) {
		page := model.ProjectChecklist(sampleChecklist(), model.ChecklistFilter{}, "", 1, 3)
		gt.Number(t, page.Total).Equal(5)
		gt.Array(t, page.Items).Length(3)
		gt.Number(t, page.PageCount).Equal(2)
		gt.Number(t, page.Page).Equal(1)
	})

	t.Run("status filter", func(t *testing.T) {
		status := types.ItemStatusNotChecked
		page := model.ProjectChecklist(sampleChecklist(), model.ChecklistFilter{Status: &status}, "", 1, 10)
		gt.Number(t, page.Total).Equal(2)
		gt.Value(t, page.Items[0].ItemID).Equal(types.ItemID("CHEM-002"))
	})

	t.Run("type filter combined with search", func(t *testing.T) {
		typ := types.ItemTypeGlassware
		page := model.ProjectChecklist(sampleChecklist(), model.ChecklistFilter{Type: &typ}, "beaker", 1, 10)
		gt.Number(t, page.Total).Equal(1)
		gt.Value(t, page.Items[0].ItemID).Equal(types.ItemID("GL-001"))
	})

	t.Run("search is case-insensitive over name, id and location", func(t *testing.T) {
		byName := model.ProjectChecklist(sampleChecklist(), model.ChecklistFilter{}, "ETHANOL", 1, 10)
		gt.Number(t, byName.Total).Equal(1)

		byID := model.ProjectChecklist(sampleChecklist(), model.ChecklistFilter{}, "eq-001", 1, 10)
		gt.Number(t, byID.Total).Equal(1)

		byLocation := model.ProjectChecklist(sampleChecklist(), model.ChecklistFilter{}, "cabinet", 1, 10)
		gt.Number(t, byLocation.Total).Equal(2)
	})

	t.Run("page is clamped into valid range", func(t *testing.T) {
		page := model.ProjectChecklist(sampleChecklist(), model.ChecklistFilter{}, "", 99, 2)
		gt.Number(t, page.Page).Equal(3)
		gt.Array(t, page.Items).Length(1)

		page = model.ProjectChecklist(sampleChecklist(), model.ChecklistFilter{}, "", -1, 2)
		gt.Number(t, page.Page).Equal(1)
	})

	t.Run("no match yields an empty first page", func(t *testing.T) {
		page := model.ProjectChecklist(sampleChecklist(), model.ChecklistFilter{}, "no-such-item", 1, 10)
		gt.Number(t, page.Total).Equal(0)
		gt.Array(t, page.Items).Length(0)
		gt.Number(t, page.Page).Equal(1)
		gt.Number(t, page.PageCount).Equal(1)
	})

	t.Run("default page size applies", func(t *testing.T) {
		var items []model.ChecklistItem
		for i := 0; i < 45; i++ {
			items = append(items, model.ChecklistItem{ItemID: types.ItemID(fmt.Sprintf("ITEM-%03d", i)), Name: "Item"})
		}
		page := model.ProjectChecklist(items, model.ChecklistFilter{}, "", 1, 0)
		gt.Array(t, page.Items).Length(model.DefaultPageSize)
		gt.Number(t, page.PageCount).Equal(3)
	})
}

func TestAssignment_Overdue(t *testing.T) {
	now := mustParse(t, "2026-03-10T12:00:00Z")

	tests := []struct {
		name   string
		due    string
		status types.AssignmentStatus
		want   bool
	}{
		{"past due and in progress", "2026-03-01T00:00:00Z", types.AssignmentStatusInProgress, true},
		{"past due and assigned", "2026-03-01T00:00:00Z", types.AssignmentStatusAssigned, true},
		{"past due but completed", "2026-03-01T00:00:00Z", types.AssignmentStatusCompleted, false},
		{"past due but cancelled", "2026-03-01T00:00:00Z", types.AssignmentStatusCancelled, false},
		{"not yet due", "2026-04-01T00:00:00Z", types.AssignmentStatusAssigned, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := &model.Assignment{DueDate: mustParse(t, tt.due), Status: tt.status}
			gt.Value(t, a.Overdue(now)).Equal(tt.want)
		})
	}

	t.Run("no due date is never overdue", func(t *testing.T) {
		a := &model.Assignment{Status: types.AssignmentStatusAssigned}
		gt.Bool(t, a.Overdue(now)).False()
	})
}

func TestAssignment_InventoryFor(t *testing.T) {
	a := &model.Assignment{
		Inventory: []model.InventoryEntry{
			{ItemID: "CHEM-001", Name: "Acetone", Type: types.ItemTypeChemical, Quantity: 4, Location: "Shelf A", LabID: "lab-1", Category: "chemical"},
			{ItemID: "CHEM-002", Name: "Ethanol", Type: types.ItemTypeChemical, Quantity: 2, Location: "Shelf B", LabID: "lab-2", Category: "chemical"},
			{ItemID: "EQ-001", Name: "Microscope", Type: types.ItemTypeEquipment, Quantity: 1, Location: "Bench 1", LabID: "lab-1", Category: "equipment"},
		},
	}

	items := a.InventoryFor("lab-1", "chemical")
	gt.Array(t, items).Length(1)
	gt.Value(t, items[0].ItemID).Equal(types.ItemID("CHEM-001"))
	gt.Value(t, items[0].Status).Equal(types.ItemStatusNotChecked)
	gt.Number(t, items[0].ExpectedQuantity).Equal(4)
	gt.Value(t, items[0].ExpectedLocation).Equal("Shelf A")
}
