package model

import (
	"fmt"
	"strings"
)

const (
	// SortAsc and SortDesc are the direction tokens used in sort parameters.
	SortAsc  = "asc"
	SortDesc = "desc"
	// IDField is the identifier sort predicate.
	IDField = "id"
)

// SortOrder is one "field,direction" sort key.
type SortOrder struct {
	Field     string
	Ascending bool
}

// String renders the sort key in its query-string form.
func (s SortOrder) String() string {
	dir := SortDesc
	if s.Ascending {
		dir = SortAsc
	}
	return s.Field + "," + dir
}

// ParseSortOrder parses "field,asc|desc". A missing direction means ascending.
func ParseSortOrder(raw string) (SortOrder, error) {
	field, dir, _ := strings.Cut(strings.TrimSpace(raw), ",")
	field = strings.TrimSpace(field)
	if field == "" {
		return SortOrder{}, fmt.Errorf("invalid sort %q: field is required", raw)
	}
	switch strings.ToLower(strings.TrimSpace(dir)) {
	case "", SortAsc:
		return SortOrder{Field: field, Ascending: true}, nil
	case SortDesc:
		return SortOrder{Field: field}, nil
	default:
		return SortOrder{}, fmt.Errorf("invalid sort %q: direction must be one of: asc, desc", raw)
	}
}

// SortKeys returns the sort keys for a predicate, appending an ascending
// identifier key when the predicate is not the identifier.
func SortKeys(s SortOrder) []string {
	if s.Field == "" {
		return nil
	}
	keys := []string{s.String()}
	if s.Field != IDField {
		keys = append(keys, SortOrder{Field: IDField, Ascending: true}.String())
	}
	return keys
}

// PageRequest selects one page of a listing. Page is zero-based.
type PageRequest struct {
	Page int
	Size int
	Sort []SortOrder
}

// Offset returns the row offset of the requested page.
func (p PageRequest) Offset() int {
	if p.Page <= 0 || p.Size <= 0 {
		return 0
	}
	return p.Page * p.Size
}

// Page is one page of a listing together with the total number of matches.
type Page[T any] struct {
	Items      []T
	TotalCount int64
}
