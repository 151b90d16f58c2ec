package model

import (
	"math"

	"github.com/labops/labaudit/pkg/domain/types"
)

// ChecklistStats summarizes verification progress over a checklist
type ChecklistStats struct {
	Total      int `json:"total"`
	Checked    int `json:"checked"`
	Present    int `json:"present"`
	Issues     int `json:"issues"`
	Percentage int `json:"percentage"`
}

// Complete reports whether every item has been checked.
func (s ChecklistStats) Complete() bool {
	return s.Percentage == 100
}

// ComputeStats derives checklist statistics. Percentage is the rounded share
// of checked items and is defined as 0 for an empty checklist.
func ComputeStats(items []ChecklistItem) ChecklistStats {
	stats := ChecklistStats{Total: len(items)}

	for _, item := range items {
		status := item.Status.Normalize()
		if status.Checked() {
			stats.Checked++
		}
		if status.IsIssue() {
			stats.Issues++
		}
		if status == types.ItemStatusPresent {
			stats.Present++
		}
	}

	if stats.Total > 0 {
		stats.Percentage = int(math.Round(float64(stats.Checked) / float64(stats.Total) * 100))
	}

	return stats
}
