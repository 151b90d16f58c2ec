package types

import "fmt"

// ItemType represents the kind of inventory entry being audited
type ItemType string

const (
	ItemTypeChemical  ItemType = "chemical"
	ItemTypeEquipment ItemType = "equipment"
	ItemTypeGlassware ItemType = "glassware"
	ItemTypeOthers    ItemType = "others"
)

// AllItemTypes returns all valid item types
func AllItemTypes() []ItemType {
	return []ItemType{
		ItemTypeChemical,
		ItemTypeEquipment,
		ItemTypeGlassware,
		ItemTypeOthers,
	}
}

// IsValid checks if the item type is valid
func (t ItemType) IsValid() bool {
	switch t {
	case ItemTypeChemical,
		ItemTypeEquipment,
		ItemTypeGlassware,
		ItemTypeOthers:
		return true
	default:
		return false
	}
}

// String returns the string representation of the item type
func (t ItemType) String() string {
	return string(t)
}

// ParseItemType parses a string into an ItemType
func ParseItemType(s string) (ItemType, error) {
	t := ItemType(s)
	if !t.IsValid() {
		return "", fmt.Errorf("invalid item type: %s", s)
	}
	return t, nil
}
