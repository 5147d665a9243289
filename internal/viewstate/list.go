package viewstate

import (
	"maps"
	"net/url"
	"strconv"
	"strings"

	"github.com/giraone/jobadmin/internal/client"
	"github.com/giraone/jobadmin/internal/domain/model"
)

// Sort is the active sort predicate of a list view.
type Sort struct {
	Predicate string
	Ascending bool
}

// String renders the sort as "predicate,asc|desc".
func (s Sort) String() string {
	return model.SortOrder{Field: s.Predicate, Ascending: s.Ascending}.String()
}

// Toggle returns the sort after a click on the column header of predicate.
func (s Sort) Toggle(predicate string) Sort {
	if s.Predicate == predicate {
		return Sort{Predicate: predicate, Ascending: !s.Ascending}
	}
	return Sort{Predicate: predicate, Ascending: true}
}

// SortKeys returns the backend sort keys for s. A non-id predicate gets
// "id,asc" appended so paging is deterministic.
func SortKeys(s Sort) []string {
	return model.SortKeys(model.SortOrder{Field: s.Predicate, Ascending: s.Ascending})
}

// ListDefaults configures how a list view reads its URL.
type ListDefaults struct {
	Size       int
	MaxSize    int
	Sort       Sort
	FilterKeys []string
}

// ListState is the state of one list view. It only changes through Reduce.
type ListState[T any] struct {
	Page       int
	Size       int
	Sort       Sort
	Filters    map[string]string
	Busy       bool
	Items      []T
	TotalCount int64
	Err        error
	Generation uint64
}

// ListStateFromQuery reads page, size, sort and the allowed filters from q.
// Missing or malformed values fall back to defaults.
func ListStateFromQuery[T any](q url.Values, d ListDefaults) ListState[T] {
	s := ListState[T]{Page: 1, Size: d.Size, Sort: d.Sort, Filters: map[string]string{}}
	if s.Sort.Predicate == "" {
		s.Sort = Sort{Predicate: model.IDField, Ascending: true}
	}
	if n, err := strconv.Atoi(q.Get("page")); err == nil && n > 0 {
		s.Page = n
	}
	if n, err := strconv.Atoi(q.Get("size")); err == nil && n > 0 {
		s.Size = n
	}
	if d.MaxSize > 0 && s.Size > d.MaxSize {
		s.Size = d.MaxSize
	}
	if raw := q.Get("sort"); raw != "" {
		if so, err := model.ParseSortOrder(raw); err == nil {
			s.Sort = Sort{Predicate: so.Field, Ascending: so.Ascending}
		}
	}
	for _, k := range d.FilterKeys {
		if v := strings.TrimSpace(q.Get(k)); v != "" {
			s.Filters[k] = v
		}
	}
	return s
}

// Query writes the state back into URL query parameters.
func (s ListState[T]) Query() url.Values {
	v := url.Values{}
	v.Set("page", strconv.Itoa(max(s.Page, 1)))
	if s.Size > 0 {
		v.Set("size", strconv.Itoa(s.Size))
	}
	if s.Sort.Predicate != "" {
		v.Set("sort", s.Sort.String())
	}
	for k, val := range s.Filters {
		if val != "" {
			v.Set(k, val)
		}
	}
	return v
}

// QueryWith returns Query with key overridden by value.
func (s ListState[T]) QueryWith(key, value string) url.Values {
	v := s.Query()
	v.Set(key, value)
	return v
}

// BackendParams converts the state into the backend listing parameters.
func (s ListState[T]) BackendParams() client.QueryParams {
	return client.QueryParams{
		Page:    max(s.Page-1, 0),
		Size:    s.Size,
		Sort:    SortKeys(s.Sort),
		Filters: maps.Clone(s.Filters),
	}
}

// TotalPages returns the number of pages for TotalCount.
func (s ListState[T]) TotalPages() int {
	if s.Size <= 0 || s.TotalCount <= 0 {
		return 1
	}
	return int((s.TotalCount + int64(s.Size) - 1) / int64(s.Size))
}

// Action is a list state transition.
type Action interface {
	listAction()
}

// LoadStarted marks a query with generation Gen as in flight.
type LoadStarted struct{ Gen uint64 }

// LoadSucceeded carries the page returned for generation Gen.
type LoadSucceeded[T any] struct {
	Gen  uint64
	Page model.Page[T]
}

// LoadFailed carries the error returned for generation Gen.
type LoadFailed struct {
	Gen uint64
	Err error
}

// Navigated changes page and sort.
type Navigated struct {
	Page int
	Sort Sort
}

// FiltersChanged replaces the filters and returns to page 1.
type FiltersChanged struct{ Filters map[string]string }

// DeleteAllStarted marks a bulk delete as in flight.
type DeleteAllStarted struct{}

// DeleteAllFailed ends a bulk delete with an error.
type DeleteAllFailed struct{ Err error }

// DeleteAllSucceeded ends a bulk delete.
type DeleteAllSucceeded struct{}

func (LoadStarted) listAction()        {}
func (LoadSucceeded[T]) listAction()   {}
func (LoadFailed) listAction()         {}
func (Navigated) listAction()          {}
func (FiltersChanged) listAction()     {}
func (DeleteAllStarted) listAction()   {}
func (DeleteAllFailed) listAction()    {}
func (DeleteAllSucceeded) listAction() {}

// Reduce applies a to s and returns the new state. Results for a generation
// other than the current one are ignored.
func Reduce[T any](s ListState[T], a Action) ListState[T] {
	switch a := a.(type) {
	case LoadStarted:
		s.Generation = a.Gen
		s.Busy = true
		s.Err = nil
	case LoadSucceeded[T]:
		if a.Gen != s.Generation {
			return s
		}
		s.Busy = false
		s.Items = a.Page.Items
		s.TotalCount = a.Page.TotalCount
		s.Err = nil
	case LoadFailed:
		if a.Gen != s.Generation {
			return s
		}
		s.Busy = false
		s.Err = a.Err
	case Navigated:
		s.Page = max(a.Page, 1)
		if a.Sort.Predicate != "" {
			s.Sort = a.Sort
		}
	case FiltersChanged:
		s.Filters = maps.Clone(a.Filters)
		if s.Filters == nil {
			s.Filters = map[string]string{}
		}
		s.Page = 1
	case DeleteAllStarted:
		s.Busy = true
		s.Err = nil
	case DeleteAllFailed:
		s.Busy = false
		s.Err = a.Err
	case DeleteAllSucceeded:
		s.Busy = false
		s.Page = 1
	}
	return s
}
