// Package client provides typed REST clients for the job backend's
// job-record and process collections.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/giraone/jobadmin/internal/domain/model"
)

// Resource base paths, relative to the backend base URL.
const (
	JobRecordsPath = "api/job-records"
	ProcessesPath  = "api/processes"

	// TotalCountHeader carries the total number of matches of a listing.
	TotalCountHeader = "X-Total-Count"

	contentTypeJSON       = "application/json"
	contentTypeMergePatch = "application/merge-patch+json"

	defaultTimeout = 10 * time.Second
)

// Recorder observes outbound backend calls.
type Recorder interface {
	ObserveBackendCall(resource, operation string, err error, d time.Duration)
}

// Config configures a resource client.
type Config struct {
	// BaseURL is the backend root, e.g. http://localhost:8080/.
	BaseURL string
	// HTTPClient defaults to a client with Timeout.
	HTTPClient *http.Client
	Timeout    time.Duration
	Logger     *slog.Logger
	Metrics    Recorder
}

// Creator creates entities.
type Creator[T any] interface {
	Create(ctx context.Context, e T) (*T, error)
}

// Finder fetches one entity. A nil entity with a nil error means absent.
type Finder[T any] interface {
	Find(ctx context.Context, id string) (*T, error)
}

// Updater replaces entities.
type Updater[T any] interface {
	Update(ctx context.Context, e T) (*T, error)
}

// PartialUpdater sends sparse entity updates.
type PartialUpdater[T any] interface {
	PartialUpdate(ctx context.Context, e T) (*T, error)
}

// Lister queries one page of a collection.
type Lister[T any] interface {
	Query(ctx context.Context, params QueryParams) (model.Page[T], error)
}

// Deleter deletes one entity.
type Deleter interface {
	Delete(ctx context.Context, id string) error
}

// BulkDeleter deletes a whole collection.
type BulkDeleter interface {
	DeleteAll(ctx context.Context) error
}

// Resource is the full set of collection operations.
type Resource[T any] interface {
	Creator[T]
	Finder[T]
	Updater[T]
	PartialUpdater[T]
	Lister[T]
	Deleter
	BulkDeleter
}

type codec[T, W any] struct {
	toWire   func(T) W
	fromWire func(W) (T, error)
	identity func(T) string
}

// resource implements Resource for one collection endpoint.
type resource[T, W any] struct {
	base    *url.URL
	path    string
	http    *http.Client
	logger  *slog.Logger
	metrics Recorder
	codec   codec[T, W]
}

func newResource[T, W any](cfg Config, path string, c codec[T, W]) *resource[T, W] {
	base, err := url.Parse(strings.TrimSpace(cfg.BaseURL))
	if err != nil || base.Scheme == "" {
		base = &url.URL{Scheme: "http", Host: "localhost:8080", Path: "/"}
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = defaultTimeout
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &resource[T, W]{
		base:    base,
		path:    path,
		http:    httpClient,
		logger:  logger.With("component", "client", "resource", path),
		metrics: cfg.Metrics,
		codec:   c,
	}
}

// ResourceURL returns the absolute collection URL.
func (r *resource[T, W]) ResourceURL() string {
	return r.collectionURL().String()
}

func (r *resource[T, W]) collectionURL() *url.URL {
	return r.base.JoinPath(r.path)
}

func (r *resource[T, W]) entityURL(id string) string {
	return r.base.JoinPath(r.path, url.PathEscape(id)).String()
}

// Create posts e to the collection and returns the stored entity.
func (r *resource[T, W]) Create(ctx context.Context, e T) (*T, error) {
	var out *W
	if err := r.do(ctx, "create", http.MethodPost, r.ResourceURL(), contentTypeJSON, r.codec.toWire(e), &out, nil); err != nil {
		return nil, err
	}
	return r.decodeRequired("create", out)
}

// Update replaces the entity identified by e's id.
func (r *resource[T, W]) Update(ctx context.Context, e T) (*T, error) {
	id := r.codec.identity(e)
	if id == "" {
		return nil, ErrMissingID
	}
	var out *W
	if err := r.do(ctx, "update", http.MethodPut, r.entityURL(id), contentTypeJSON, r.codec.toWire(e), &out, nil); err != nil {
		return nil, err
	}
	return r.decodeRequired("update", out)
}

// PartialUpdate sends only the set fields of e.
func (r *resource[T, W]) PartialUpdate(ctx context.Context, e T) (*T, error) {
	id := r.codec.identity(e)
	if id == "" {
		return nil, ErrMissingID
	}
	var out *W
	if err := r.do(ctx, "partial_update", http.MethodPatch, r.entityURL(id), contentTypeMergePatch,
		r.codec.toWire(e), &out, nil); err != nil {
		return nil, err
	}
	return r.decodeRequired("partial_update", out)
}

// Find fetches one entity. It returns nil, nil when the backend has no such entity.
func (r *resource[T, W]) Find(ctx context.Context, id string) (*T, error) {
	if id == "" {
		return nil, ErrMissingID
	}
	var out *W
	err := r.do(ctx, "find", http.MethodGet, r.entityURL(id), "", nil, &out, nil)
	if IsStatus(err, http.StatusNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if out == nil {
		return nil, nil
	}
	return r.decode(*out)
}

// Query fetches one page of the collection.
func (r *resource[T, W]) Query(ctx context.Context, params QueryParams) (model.Page[T], error) {
	u := r.collectionURL()
	u.RawQuery = params.Values().Encode()

	var (
		out    []W
		header http.Header
	)
	if err := r.do(ctx, "query", http.MethodGet, u.String(), "", nil, &out, &header); err != nil {
		return model.Page[T]{}, err
	}

	items := make([]T, 0, len(out))
	for _, w := range out {
		e, err := r.codec.fromWire(w)
		if err != nil {
			return model.Page[T]{}, fmt.Errorf("decode %s: %w", r.path, err)
		}
		items = append(items, e)
	}
	total := int64(len(items))
	if raw := header.Get(TotalCountHeader); raw != "" {
		if n, err := strconv.ParseInt(raw, 10, 64); err == nil && n >= 0 {
			total = n
		}
	}
	return model.Page[T]{Items: items, TotalCount: total}, nil
}

// Delete removes one entity.
func (r *resource[T, W]) Delete(ctx context.Context, id string) error {
	if id == "" {
		return ErrMissingID
	}
	return r.do(ctx, "delete", http.MethodDelete, r.entityURL(id), "", nil, nil, nil)
}

// DeleteAll removes every entity of the collection.
func (r *resource[T, W]) DeleteAll(ctx context.Context) error {
	u := r.base.JoinPath(r.path + "-delete-all")
	return r.do(ctx, "delete_all", http.MethodDelete, u.String(), "", nil, nil, nil)
}

// decodeRequired decodes a response that must carry an entity.
func (r *resource[T, W]) decodeRequired(operation string, w *W) (*T, error) {
	if w == nil {
		return nil, fmt.Errorf("%s %s: %w", operation, r.path, ErrEmptyResponse)
	}
	return r.decode(*w)
}

func (r *resource[T, W]) decode(w W) (*T, error) {
	e, err := r.codec.fromWire(w)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", r.path, err)
	}
	return &e, nil
}

// do performs one request. A nil out discards the body; an empty body leaves out untouched.
func (r *resource[T, W]) do(
	ctx context.Context,
	operation, method, target, contentType string,
	payload any,
	out any,
	header *http.Header,
) (err error) {
	start := time.Now()
	status := 0
	defer func() {
		elapsed := time.Since(start)
		if r.metrics != nil {
			r.metrics.ObserveBackendCall(r.path, operation, err, elapsed)
		}
		r.logger.DebugContext(ctx, "backend call",
			"method", method, "url", target, "status", status, "duration", elapsed, "error", err)
	}()

	var body io.Reader
	if payload != nil {
		buf, mErr := json.Marshal(payload)
		if mErr != nil {
			return fmt.Errorf("encode request: %w", mErr)
		}
		body = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", contentTypeJSON)
	if payload != nil {
		req.Header.Set("Content-Type", contentType)
	}

	resp, err := r.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, target, err)
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close response body: %w", cerr)
		}
	}()
	status = resp.StatusCode

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &StatusError{
			StatusCode: resp.StatusCode,
			Method:     method,
			URL:        target,
			Body:       strings.TrimSpace(string(raw)),
		}
	}
	if header != nil {
		*header = resp.Header
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
