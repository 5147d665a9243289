package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/giraone/jobadmin/internal/domain/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordedRequest struct {
	Method      string
	Path        string
	RawQuery    string
	ContentType string
	Body        string
}

type fakeBackend struct {
	mu       sync.Mutex
	requests []recordedRequest
	handler  http.HandlerFunc
}

func newFakeBackend(t *testing.T, handler http.HandlerFunc) (*fakeBackend, *httptest.Server) {
	t.Helper()
	fb := &fakeBackend{handler: handler}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		fb.mu.Lock()
		fb.requests = append(fb.requests, recordedRequest{
			Method:      r.Method,
			Path:        r.URL.EscapedPath(),
			RawQuery:    r.URL.RawQuery,
			ContentType: r.Header.Get("Content-Type"),
			Body:        string(body),
		})
		fb.mu.Unlock()
		r.Body = io.NopCloser(bytes.NewReader(body))
		fb.handler(w, r)
	}))
	t.Cleanup(srv.Close)
	return fb, srv
}

func (f *fakeBackend) last(t *testing.T) recordedRequest {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	require.NotEmpty(t, f.requests)
	return f.requests[len(f.requests)-1]
}

func (f *fakeBackend) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.requests)
}

type callRecorder struct {
	mu    sync.Mutex
	calls []string
	errs  []error
}

func (c *callRecorder) ObserveBackendCall(resource, operation string, err error, _ time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls = append(c.calls, resource+":"+operation)
	c.errs = append(c.errs, err)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func TestJobRecordClient_CreatePaused(t *testing.T) {
	fb, srv := newFakeBackend(t, func(w http.ResponseWriter, r *http.Request) {
		var in model.JobRecordWire
		_ = json.NewDecoder(r.Body).Decode(&in)
		in.ID = "jr-1"
		writeJSON(w, http.StatusCreated, in)
	})
	rec := &callRecorder{}
	c := NewJobRecordClient(Config{BaseURL: srv.URL + "/", Metrics: rec})

	day := time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC)
	created, err := c.Create(context.Background(), model.JobRecord{
		JobAcceptedTimestamp:      day,
		LastEventTimestamp:        day,
		LastRecordUpdateTimestamp: day,
		Status:                    model.JobStatusPaused,
		Process:                   &model.ProcessRef{ID: "P1"},
	})
	require.NoError(t, err)
	assert.Equal(t, "jr-1", created.ID)

	req := fb.last(t)
	assert.Equal(t, http.MethodPost, req.Method)
	assert.Equal(t, "/api/job-records", req.Path)
	assert.Equal(t, "application/json", req.ContentType)

	var payload map[string]any
	require.NoError(t, json.Unmarshal([]byte(req.Body), &payload))
	assert.Equal(t, "PAUSED", payload["status"])
	assert.Equal(t, map[string]any{"id": "P1"}, payload["process"])
	assert.NotContains(t, payload, "id")
	assert.Equal(t, "2026-10-19T00:00:00Z", payload["jobAcceptedTimestamp"])

	assert.Equal(t, []string{"api/job-records:create"}, rec.calls)
}

func TestClient_WriteWithEmptyBody(t *testing.T) {
	_, srv := newFakeBackend(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			w.WriteHeader(http.StatusCreated)
			return
		}
		w.WriteHeader(http.StatusOK)
	})
	c := NewProcessClient(Config{BaseURL: srv.URL})
	p := model.Process{Key: "ingest", Name: "Ingest", Activation: model.ActivationActive}

	created, err := c.Create(context.Background(), p)
	require.ErrorIs(t, err, ErrEmptyResponse)
	assert.Nil(t, created)

	p.ID = "p1"
	_, err = c.Update(context.Background(), p)
	require.ErrorIs(t, err, ErrEmptyResponse)
	_, err = c.PartialUpdate(context.Background(), p)
	require.ErrorIs(t, err, ErrEmptyResponse)
}

func TestJobRecordClient_UpdateRequiresID(t *testing.T) {
	fb, srv := newFakeBackend(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	c := NewJobRecordClient(Config{BaseURL: srv.URL})

	_, err := c.Update(context.Background(), model.JobRecord{Status: model.JobStatusFailed})
	require.ErrorIs(t, err, ErrMissingID)
	_, err = c.PartialUpdate(context.Background(), model.JobRecord{})
	require.ErrorIs(t, err, ErrMissingID)
	assert.Zero(t, fb.count())
}

func TestJobRecordClient_Update(t *testing.T) {
	fb, srv := newFakeBackend(t, func(w http.ResponseWriter, r *http.Request) {
		var in model.JobRecordWire
		_ = json.NewDecoder(r.Body).Decode(&in)
		writeJSON(w, http.StatusOK, in)
	})
	c := NewJobRecordClient(Config{BaseURL: srv.URL})

	ts := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	updated, err := c.Update(context.Background(), model.JobRecord{
		ID: "123", JobAcceptedTimestamp: ts, LastEventTimestamp: ts, LastRecordUpdateTimestamp: ts,
		Status: model.JobStatusCompleted, Process: &model.ProcessRef{ID: "P1"},
	})
	require.NoError(t, err)
	assert.Equal(t, "123", updated.ID)
	assert.Equal(t, model.JobStatusCompleted, updated.Status)
	assert.True(t, updated.LastEventTimestamp.Equal(ts))

	req := fb.last(t)
	assert.Equal(t, http.MethodPut, req.Method)
	assert.Equal(t, "/api/job-records/123", req.Path)
}

func TestProcessClient_PartialUpdateIsSparse(t *testing.T) {
	fb, srv := newFakeBackend(t, func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, model.ProcessWire{ID: "p1", Key: "ingest", Name: "Renamed", Activation: "ACTIVE"})
	})
	c := NewProcessClient(Config{BaseURL: srv.URL})

	got, err := c.PartialUpdate(context.Background(), model.Process{ID: "p1", Name: "Renamed"})
	require.NoError(t, err)
	assert.Equal(t, "ingest", got.Key)

	req := fb.last(t)
	assert.Equal(t, http.MethodPatch, req.Method)
	assert.Equal(t, "/api/processes/p1", req.Path)
	assert.Equal(t, "application/merge-patch+json", req.ContentType)
	assert.JSONEq(t, `{"id":"p1","name":"Renamed"}`, req.Body)
}

func TestClient_FindAbsent(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{
			name: "not found",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				writeJSON(w, http.StatusNotFound, ErrorBody{Error: "not_found", Message: "not found"})
			},
		},
		{
			name: "empty body",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusOK)
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, srv := newFakeBackend(t, tt.handler)
			c := NewJobRecordClient(Config{BaseURL: srv.URL})

			got, err := c.Find(context.Background(), "missing")
			require.NoError(t, err)
			assert.Nil(t, got)
		})
	}
}

func TestClient_FindEscapesID(t *testing.T) {
	fb, srv := newFakeBackend(t, func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, model.ProcessWire{ID: "a/b", Key: "k", Name: "n", Activation: "PAUSED"})
	})
	c := NewProcessClient(Config{BaseURL: srv.URL + "/backend/"})

	got, err := c.Find(context.Background(), "a/b")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "a/b", got.ID)
	assert.Equal(t, "/backend/api/processes/a%2Fb", fb.last(t).Path)
}

func TestClient_FindServerError(t *testing.T) {
	_, srv := newFakeBackend(t, func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})
	rec := &callRecorder{}
	c := NewJobRecordClient(Config{BaseURL: srv.URL, Metrics: rec})

	_, err := c.Find(context.Background(), "123")
	require.Error(t, err)
	se, ok := AsStatusError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusInternalServerError, se.StatusCode)
	assert.Equal(t, "boom", se.Body)
	assert.Equal(t, 500, se.HTTPStatus())
	require.Len(t, rec.errs, 1)
	assert.Error(t, rec.errs[0])
}

func TestClient_FindInvalidTimestamp(t *testing.T) {
	_, srv := newFakeBackend(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, `{"id":"1","jobAcceptedTimestamp":"yesterday"}`)
	})
	c := NewJobRecordClient(Config{BaseURL: srv.URL})

	_, err := c.Find(context.Background(), "1")
	require.ErrorIs(t, err, model.ErrInvalidTimestamp)
}

func TestClient_Query(t *testing.T) {
	fb, srv := newFakeBackend(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set(TotalCountHeader, "57")
		writeJSON(w, http.StatusOK, []model.JobRecordWire{{ID: "1", Status: "PAUSED"}, {ID: "2", Status: "FAILED"}})
	})
	c := NewJobRecordClient(Config{BaseURL: srv.URL})

	page, err := c.Query(context.Background(), QueryParams{
		Page:    2,
		Size:    20,
		Sort:    []string{"lastEventTimestamp,desc", "id,asc"},
		Filters: map[string]string{"status": "PAUSED", "processId": ""},
	})
	require.NoError(t, err)
	assert.EqualValues(t, 57, page.TotalCount)
	require.Len(t, page.Items, 2)
	assert.Equal(t, model.JobStatusFailed, page.Items[1].Status)

	req := fb.last(t)
	assert.Equal(t, "/api/job-records", req.Path)
	assert.Equal(t, "page=2&size=20&sort=lastEventTimestamp%2Cdesc&sort=id%2Casc&status=PAUSED", req.RawQuery)
}

func TestClient_QueryWithoutTotalHeader(t *testing.T) {
	_, srv := newFakeBackend(t, func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, []model.ProcessWire{{ID: "p1"}})
	})
	c := NewProcessClient(Config{BaseURL: srv.URL})

	page, err := c.Query(context.Background(), QueryParams{})
	require.NoError(t, err)
	assert.EqualValues(t, 1, page.TotalCount)
}

func TestClient_NumericIDs(t *testing.T) {
	_, srv := newFakeBackend(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("X-Total-Count", "1")
		if r.URL.Path == "/api/processes" {
			_, _ = io.WriteString(w, `[{"id":1,"key":"ingest","name":"Ingest","activation":"ACTIVE"}]`)
			return
		}
		_, _ = io.WriteString(w, `{"id":1001,"jobAcceptedTimestamp":"2026-01-02T03:04:05Z",`+
			`"lastEventTimestamp":"2026-01-02T03:04:05Z","lastRecordUpdateTimestamp":"2026-01-02T03:04:05Z",`+
			`"status":"PAUSED","process":{"id":1,"key":"ingest","name":"Ingest"}}`)
	})
	cfg := Config{BaseURL: srv.URL}

	page, err := NewProcessClient(cfg).Query(context.Background(), QueryParams{})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "1", page.Items[0].ID)

	rec, err := NewJobRecordClient(cfg).Find(context.Background(), "1001")
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, "1001", rec.ID)
	assert.Equal(t, &model.ProcessRef{ID: "1", Key: "ingest", Name: "Ingest"}, rec.Process)
}

func TestClient_DeleteAndDeleteAll(t *testing.T) {
	fb, srv := newFakeBackend(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	c := NewJobRecordClient(Config{BaseURL: srv.URL})

	require.NoError(t, c.Delete(context.Background(), "123"))
	req := fb.last(t)
	assert.Equal(t, http.MethodDelete, req.Method)
	assert.Equal(t, "/api/job-records/123", req.Path)

	require.NoError(t, c.DeleteAll(context.Background()))
	assert.Equal(t, "/api/job-records-delete-all", fb.last(t).Path)

	require.ErrorIs(t, c.Delete(context.Background(), ""), ErrMissingID)
}

func TestClient_ConflictBody(t *testing.T) {
	_, srv := newFakeBackend(t, func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusConflict, ErrorBody{Error: "conflict", Message: "key already exists", Field: "process_key"})
	})
	c := NewProcessClient(Config{BaseURL: srv.URL})

	_, err := c.Create(context.Background(), model.Process{Key: "dup", Name: "Dup", Activation: "ACTIVE"})
	se, ok := AsStatusError(err)
	require.True(t, ok)
	assert.True(t, IsStatus(err, http.StatusConflict))
	assert.Equal(t, "process_key", se.Decoded().Field)
}

func TestClient_ContextCanceled(t *testing.T) {
	release := make(chan struct{})
	_, srv := newFakeBackend(t, func(w http.ResponseWriter, _ *http.Request) {
		<-release
		w.WriteHeader(http.StatusOK)
	})
	defer close(release)
	c := NewProcessClient(Config{BaseURL: srv.URL})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := c.Query(ctx, QueryParams{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestQueryParams_Values(t *testing.T) {
	tests := []struct {
		name string
		in   QueryParams
		want string
	}{
		{name: "empty", in: QueryParams{}, want: ""},
		{name: "negative page clamps", in: QueryParams{Page: -1, Size: 5}, want: "page=0&size=5"},
		{name: "sort only", in: QueryParams{Sort: []string{"id,asc", ""}}, want: "sort=id%2Casc"},
		{
			name: "filters sorted by key",
			in:   QueryParams{Filters: map[string]string{"status": "FAILED", "processId": "P1"}},
			want: "processId=P1&status=FAILED",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.in.Values().Encode())
		})
	}
}
