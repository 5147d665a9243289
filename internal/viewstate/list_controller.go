package viewstate

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/giraone/jobadmin/internal/client"
)

// ErrSuperseded is returned by Load when a newer load replaced it.
var ErrSuperseded = errors.New("list load superseded")

// ListBackend is what a list view needs from a resource client.
type ListBackend[T any] interface {
	client.Lister[T]
	client.Deleter
	client.BulkDeleter
}

// ListController drives a ListState through Reduce. At most one load is in
// flight; starting a new one cancels the previous.
type ListController[T any] struct {
	mu      sync.Mutex
	state   ListState[T]
	backend ListBackend[T]
	cancel  context.CancelFunc
	logger  *slog.Logger
}

// NewListController creates a controller starting from initial.
func NewListController[T any](backend ListBackend[T], initial ListState[T], logger *slog.Logger) *ListController[T] {
	if backend == nil {
		panic("viewstate: NewListController requires a non-nil backend")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &ListController[T]{backend: backend, state: initial, logger: logger}
}

// State returns a snapshot of the current state.
func (c *ListController[T]) State() ListState[T] {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

func (c *ListController[T]) dispatch(a Action) ListState[T] {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state = Reduce(c.state, a)
	return c.state
}

// Load queries the backend with the current state. A load that is replaced by
// a newer one before it completes returns ErrSuperseded and leaves the state alone.
func (c *ListController[T]) Load(ctx context.Context) error {
	c.mu.Lock()
	if c.cancel != nil {
		c.cancel()
	}
	loadCtx, cancel := context.WithCancel(ctx)
	c.cancel = cancel
	gen := c.state.Generation + 1
	c.state = Reduce(c.state, LoadStarted{Gen: gen})
	params := c.state.BackendParams()
	c.mu.Unlock()

	page, err := c.backend.Query(loadCtx, params)
	cancel()

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state.Generation != gen {
		return ErrSuperseded
	}
	c.cancel = nil
	if err != nil {
		c.state = Reduce(c.state, LoadFailed{Gen: gen, Err: err})
		c.logger.WarnContext(ctx, "list load failed", "error", err)
		return fmt.Errorf("load list: %w", err)
	}
	c.state = Reduce[T](c.state, LoadSucceeded[T]{Gen: gen, Page: page})
	return nil
}

// Navigate moves to page with sort and reloads.
func (c *ListController[T]) Navigate(ctx context.Context, page int, sort Sort) error {
	c.dispatch(Navigated{Page: page, Sort: sort})
	return c.Load(ctx)
}

// Filter replaces the filters and reloads from page 1.
func (c *ListController[T]) Filter(ctx context.Context, filters map[string]string) error {
	c.dispatch(FiltersChanged{Filters: filters})
	return c.Load(ctx)
}

// ConfirmDelete deletes id and then reloads with the unchanged page, sort and
// filters. A failed delete does not reload.
func (c *ListController[T]) ConfirmDelete(ctx context.Context, id string) error {
	if err := c.backend.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete %q: %w", id, err)
	}
	return c.Load(ctx)
}

// DeleteAll deletes every entity and reloads page 1. On error the busy flag
// is cleared and no reload happens.
func (c *ListController[T]) DeleteAll(ctx context.Context) error {
	c.dispatch(DeleteAllStarted{})
	if err := c.backend.DeleteAll(ctx); err != nil {
		c.dispatch(DeleteAllFailed{Err: err})
		return fmt.Errorf("delete all: %w", err)
	}
	c.dispatch(DeleteAllSucceeded{})
	return c.Load(ctx)
}
