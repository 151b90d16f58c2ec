package model

import (
	"strings"

	"github.com/labops/labaudit/pkg/domain/types"
)

// DefaultPageSize is the checklist page size used when the caller passes a
// non-positive page size.
const DefaultPageSize = 20

// ChecklistFilter narrows a checklist projection by status and/or item type
type ChecklistFilter struct {
	Status *types.ItemStatus
	Type   *types.ItemType
}

func (f ChecklistFilter) matches(item ChecklistItem) bool {
	if f.Status != nil && item.Status.Normalize() != *f.Status {
		return false
	}
	if f.Type != nil && item.Type != *f.Type {
		return false
	}
	return true
}

// ChecklistPage is one displayable page of a filtered, searched checklist
type ChecklistPage struct {
	Items     []ChecklistItem `json:"items"`
	Total     int             `json:"total"`
	Page      int             `json:"page"`
	PageCount int             `json:"pageCount"`
	PageSize  int             `json:"pageSize"`
}

// ProjectChecklist derives the displayable page for the given filter, search
// query, and page number. It is a pure function over a snapshot of the
// checklist: the filter is applied first, then a case-insensitive substring
// search over name, identifier, and expected location, then pagination.
// Page numbers start at 1 and are clamped into the valid range.
func ProjectChecklist(items []ChecklistItem, filter ChecklistFilter, search string, page, pageSize int) ChecklistPage {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}

	query := strings.ToLower(strings.TrimSpace(search))

	var matched []ChecklistItem
	for _, item := range items {
		if !filter.matches(item) {
			continue
		}
		if query != "" && !searchMatches(item, query) {
			continue
		}
		matched = append(matched, item)
	}

	pageCount := (len(matched) + pageSize - 1) / pageSize
	if pageCount == 0 {
		pageCount = 1
	}
	if page < 1 {
		page = 1
	}
	if page > pageCount {
		page = pageCount
	}

	start := (page - 1) * pageSize
	end := start + pageSize
	if start > len(matched) {
		start = len(matched)
	}
	if end > len(matched) {
		end = len(matched)
	}

	pageItems := make([]ChecklistItem, end-start)
	copy(pageItems, matched[start:end])

	return ChecklistPage{
		Items:     pageItems,
		Total:     len(matched),
		Page:      page,
		PageCount: pageCount,
		PageSize:  pageSize,
	}
}

func searchMatches(item ChecklistItem, query string) bool {
	if strings.Contains(strings.ToLower(item.Name), query) {
		return true
	}
	if strings.Contains(strings.ToLower(item.ItemID.String()), query) {
		return true
	}
	return strings.Contains(strings.ToLower(item.ExpectedLocation), query)
}
