package types

import "fmt"

// ItemStatus represents the verification status of a checklist item
type ItemStatus string

const (
	ItemStatusNotChecked       ItemStatus = "not_checked"
	ItemStatusPresent          ItemStatus = "present"
	ItemStatusMissing          ItemStatus = "missing"
	ItemStatusDamaged          ItemStatus = "damaged"
	ItemStatusLocationMismatch ItemStatus = "location_mismatch"
	ItemStatusQuantityMismatch ItemStatus = "quantity_mismatch"
)

// AllItemStatuses returns all valid item statuses
func AllItemStatuses() []ItemStatus {
	return []ItemStatus{
		ItemStatusNotChecked,
		ItemStatusPresent,
		ItemStatusMissing,
		ItemStatusDamaged,
		ItemStatusLocationMismatch,
		ItemStatusQuantityMismatch,
	}
}

// IsValid checks if the item status is valid
func (s ItemStatus) IsValid() bool {
	switch s {
	case ItemStatusNotChecked,
		ItemStatusPresent,
		ItemStatusMissing,
		ItemStatusDamaged,
		ItemStatusLocationMismatch,
		ItemStatusQuantityMismatch:
		return true
	default:
		return false
	}
}

// Normalize returns the status, treating empty as ItemStatusNotChecked.
func (s ItemStatus) Normalize() ItemStatus {
	if s == "" {
		return ItemStatusNotChecked
	}
	return s
}

// Checked reports whether the item has been verified in any way.
func (s ItemStatus) Checked() bool {
	return s.Normalize() != ItemStatusNotChecked
}

// IsIssue reports whether the status describes a problem found during the audit.
func (s ItemStatus) IsIssue() bool {
	switch s {
	case ItemStatusMissing,
		ItemStatusDamaged,
		ItemStatusLocationMismatch,
		ItemStatusQuantityMismatch:
		return true
	default:
		return false
	}
}

// String returns the string representation of the item status
func (s ItemStatus) String() string {
	return string(s)
}

// ParseItemStatus parses a string into an ItemStatus
func ParseItemStatus(s string) (ItemStatus, error) {
	status := ItemStatus(s)
	if !status.IsValid() {
		return "", fmt.Errorf("invalid item status: %s", s)
	}
	return status, nil
}
