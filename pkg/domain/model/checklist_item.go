package model

import (
	"github.com/labops/labaudit/pkg/domain/types"
)

// ChecklistItem represents one inventory entry to verify during an execution
type ChecklistItem struct {
	ItemID           types.ItemID     `json:"itemId" firestore:"item_id"`
	Name             string           `json:"name" firestore:"name"`
	Type             types.ItemType   `json:"type" firestore:"type"`
	QRCode           string           `json:"qrCode,omitempty" firestore:"qr_code"`
	ExpectedQuantity int              `json:"expectedQuantity" firestore:"expected_quantity"`
	ExpectedLocation string           `json:"expectedLocation" firestore:"expected_location"`
	ActualQuantity   int              `json:"actualQuantity" firestore:"actual_quantity"`
	ActualLocation   string           `json:"actualLocation,omitempty" firestore:"actual_location"`
	Status           types.ItemStatus `json:"status" firestore:"status"`
	Damaged          bool             `json:"damaged" firestore:"damaged"`
	Remarks          string           `json:"remarks,omitempty" firestore:"remarks"`
}

// Updatable reports whether status-changing operations are permitted.
// Items lacking a usable identifier are displayable but read-only.
func (i ChecklistItem) Updatable() bool {
	return i.ItemID.Updatable()
}

// EffectiveQuantity returns the actual quantity to record for a status change.
// Only a quantity mismatch carries a caller-supplied count; every other status
// implies the expected quantity was confirmed.
func (i ChecklistItem) EffectiveQuantity(status types.ItemStatus, supplied int) int {
	if status == types.ItemStatusQuantityMismatch {
		return supplied
	}
	return i.ExpectedQuantity
}

// ItemUpdate carries the fields written back to the audit API for one item
type ItemUpdate struct {
	Status         types.ItemStatus `json:"status"`
	ActualQuantity int              `json:"actualQuantity"`
	ActualLocation string           `json:"actualLocation"`
	Remarks        string           `json:"remarks,omitempty"`
}
