package model

import "github.com/labops/labaudit/pkg/domain/types"

// BulkResult aggregates the per-item outcomes of a bulk status update.
// A mixed outcome is expected, not exceptional; the caller decides how to
// surface partial failure (FailedIDs exists to support a retry-failed-only
// flow).
type BulkResult struct {
	Succeeded int            `json:"succeeded"`
	Failed    int            `json:"failed"`
	FailedIDs []types.ItemID `json:"failedIds,omitempty"`
}

// AllSucceeded reports whether every requested item was updated.
func (r BulkResult) AllSucceeded() bool {
	return r.Failed == 0
}
