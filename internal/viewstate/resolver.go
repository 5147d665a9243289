// Package viewstate holds the per-request state of the console views and the
// transitions that change it: route resolution, list paging and editing.
package viewstate

import (
	"context"
	"fmt"
	"strings"

	"github.com/giraone/jobadmin/internal/client"
)

// NotFoundRoute is the console route shown for unknown entities.
const NotFoundRoute = "/404"

// ResolutionKind is the outcome of resolving a route.
type ResolutionKind int

const (
	// Placeholder means the route carried no id: the view edits a new entity.
	Placeholder ResolutionKind = iota
	// Found means the entity was fetched.
	Found
	// Redirect means the entity does not exist and the view must not be built.
	Redirect
)

func (k ResolutionKind) String() string {
	switch k {
	case Placeholder:
		return "placeholder"
	case Found:
		return "found"
	case Redirect:
		return "redirect"
	default:
		return fmt.Sprintf("ResolutionKind(%d)", int(k))
	}
}

// RouteParams are the path parameters of a console route.
type RouteParams map[string]string

// ID returns the trimmed id parameter.
func (p RouteParams) ID() string {
	return strings.TrimSpace(p["id"])
}

// Resolution is the result of a Resolve call. Value is set only for Found,
// RedirectTo only for Redirect.
type Resolution[T any] struct {
	Kind       ResolutionKind
	Value      *T
	RedirectTo string
}

// Resolver fetches the entity named by a route before its view is built.
type Resolver[T any] struct {
	finder client.Finder[T]
}

// NewResolver creates a Resolver backed by finder.
func NewResolver[T any](finder client.Finder[T]) *Resolver[T] {
	if finder == nil {
		panic("viewstate: NewResolver requires a non-nil finder")
	}
	return &Resolver[T]{finder: finder}
}

// Resolve returns the entity named by params. Without an id no call is made.
// Transport and server failures are returned as errors.
func (r *Resolver[T]) Resolve(ctx context.Context, params RouteParams) (Resolution[T], error) {
	id := params.ID()
	if id == "" {
		return Resolution[T]{Kind: Placeholder}, nil
	}
	entity, err := r.finder.Find(ctx, id)
	if err != nil {
		return Resolution[T]{}, fmt.Errorf("resolve %q: %w", id, err)
	}
	if entity == nil {
		return Resolution[T]{Kind: Redirect, RedirectTo: NotFoundRoute}, nil
	}
	return Resolution[T]{Kind: Found, Value: entity}, nil
}
