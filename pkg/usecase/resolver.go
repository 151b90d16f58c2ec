package usecase

import (
	"strings"
	"time"

	"github.com/labops/labaudit/pkg/domain/model"
	"github.com/labops/labaudit/pkg/domain/types"
)

// HighlightWindow is how long presentation code should keep a resolved row
// highlighted after an equipment scan. A UI constant, not a core invariant.
const HighlightWindow = 3 * time.Second

// ResolveByToken maps a scan token (manual entry or camera decode) to a
// checklist item. Matching order, first match wins: exact item identifier,
// exact QR code, then case-insensitive substring of the display name.
// A miss is a normal outcome for the caller to handle, not an error.
func ResolveByToken(token string, items []model.ChecklistItem) (*model.ChecklistItem, bool) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, false
	}

	for i := range items {
		if items[i].ItemID.String() == token {
			return itemCopy(items[i]), true
		}
	}

	for i := range items {
		if items[i].QRCode != "" && items[i].QRCode == token {
			return itemCopy(items[i]), true
		}
	}

	lowered := strings.ToLower(token)
	for i := range items {
		if strings.Contains(strings.ToLower(items[i].Name), lowered) {
			return itemCopy(items[i]), true
		}
	}

	return nil, false
}

// ResolveByEquipmentID maps a hardware scanner's equipment identifier to a
// checklist item by identifier equality only. When equipmentOnly is set,
// items of other types never match, which keeps a chemical sharing an ID
// prefix from being picked up by the equipment scanning path.
func ResolveByEquipmentID(equipmentID string, items []model.ChecklistItem, equipmentOnly bool) (*model.ChecklistItem, bool) {
	equipmentID = strings.TrimSpace(equipmentID)
	if equipmentID == "" {
		return nil, false
	}

	for i := range items {
		if items[i].ItemID.String() != equipmentID {
			continue
		}
		if equipmentOnly && items[i].Type != types.ItemTypeEquipment {
			continue
		}
		return itemCopy(items[i]), true
	}

	return nil, false
}

func itemCopy(item model.ChecklistItem) *model.ChecklistItem {
	return &item
}
