package httpx

import (
	"cmp"
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"slices"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/giraone/jobadmin/internal/client"
	"github.com/giraone/jobadmin/internal/domain/model"
	apperrors "github.com/giraone/jobadmin/internal/errors"
	"github.com/giraone/jobadmin/internal/service"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"
)

// RequireTemplateRenderer creates a TemplateRenderer for tests, skipping the test if templates are not available.
func RequireTemplateRenderer(t *testing.T) *TemplateRenderer {
	t.Helper()
	tr, err := NewTemplateRenderer(TemplateRendererConfig{
		TemplateFS: os.DirFS(TemplatePathFromTest),
		Logger:     quietLogger(),
	})
	if err != nil {
		t.Skipf("Templates not available, skipping: %v", err)
		return nil
	}
	return tr
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// memProcessRepo is an in-memory core.ProcessRepository.
type memProcessRepo struct {
	mu    sync.Mutex
	items map[string]model.Process
	seq   int
	refs  func(processID string) bool
}

func newMemProcessRepo() *memProcessRepo {
	return &memProcessRepo{items: map[string]model.Process{}}
}

func (r *memProcessRepo) Create(_ context.Context, p *model.Process) (*model.Process, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.items {
		if existing.Key == p.Key {
			return nil, &apperrors.AppError{Code: apperrors.ErrCodeConflict, Message: "key already exists", Field: "process_key"}
		}
	}
	c := *p
	if c.ID == "" {
		r.seq++
		c.ID = "p" + strconv.Itoa(r.seq)
	}
	r.items[c.ID] = c
	return &c, nil
}

func (r *memProcessRepo) GetByID(_ context.Context, id string) (*model.Process, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.items[id]
	if !ok {
		return nil, apperrors.NotFound("process not found")
	}
	return &p, nil
}

func (r *memProcessRepo) Update(_ context.Context, p *model.Process) (*model.Process, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[p.ID]; !ok {
		return nil, apperrors.NotFound("process not found")
	}
	r.items[p.ID] = *p
	c := *p
	return &c, nil
}

func (r *memProcessRepo) List(_ context.Context, req model.PageRequest) (model.Page[model.Process], error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	all := make([]model.Process, 0, len(r.items))
	for _, p := range r.items {
		all = append(all, p)
	}
	slices.SortFunc(all, func(a, b model.Process) int { return cmp.Compare(a.ID, b.ID) })
	return pageOf(all, req), nil
}

func (r *memProcessRepo) Delete(_ context.Context, id string) (bool, error) {
	if r.refs != nil && r.refs(id) {
		return false, &apperrors.AppError{
			Code:    apperrors.ErrCodeForeignKey,
			Message: "Cannot delete because this item is in use by Job Record.",
		}
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.items[id]
	delete(r.items, id)
	return ok, nil
}

func (r *memProcessRepo) DeleteAll(_ context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := int64(len(r.items))
	r.items = map[string]model.Process{}
	return n, nil
}

// memJobRecordRepo is an in-memory core.JobRecordRepository. Listings sort by
// status or id only.
type memJobRecordRepo struct {
	mu        sync.Mutex
	items     map[string]model.JobRecord
	seq       int
	processes *memProcessRepo
	deletes   []string
	failList  error
}

func newMemJobRecordRepo(processes *memProcessRepo) *memJobRecordRepo {
	r := &memJobRecordRepo{items: map[string]model.JobRecord{}, processes: processes}
	processes.refs = r.references
	return r
}

func (r *memJobRecordRepo) references(processID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, j := range r.items {
		if j.ProcessID() == processID {
			return true
		}
	}
	return false
}

func (r *memJobRecordRepo) withProcess(j model.JobRecord) model.JobRecord {
	if j.Process == nil {
		return j
	}
	if p, err := r.processes.GetByID(context.Background(), j.Process.ID); err == nil {
		j.Process = p.Ref()
	}
	return j
}

func (r *memJobRecordRepo) Create(_ context.Context, rec *model.JobRecord) (*model.JobRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c := *rec
	if c.ID == "" {
		r.seq++
		c.ID = strconv.Itoa(100 + r.seq)
	}
	r.items[c.ID] = c
	out := r.withProcess(c)
	return &out, nil
}

func (r *memJobRecordRepo) GetByID(_ context.Context, id string) (*model.JobRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	j, ok := r.items[id]
	if !ok {
		return nil, apperrors.NotFound("job record not found")
	}
	out := r.withProcess(j)
	return &out, nil
}

func (r *memJobRecordRepo) Update(_ context.Context, rec *model.JobRecord) (*model.JobRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[rec.ID]; !ok {
		return nil, apperrors.NotFound("job record not found")
	}
	r.items[rec.ID] = *rec
	out := r.withProcess(*rec)
	return &out, nil
}

func (r *memJobRecordRepo) List(
	_ context.Context,
	filter model.JobRecordFilter,
	req model.PageRequest,
) (model.Page[model.JobRecord], error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failList != nil {
		return model.Page[model.JobRecord]{}, r.failList
	}
	var all []model.JobRecord
	for _, j := range r.items {
		if filter.Status != "" && j.Status != filter.Status {
			continue
		}
		if filter.ProcessID != "" && j.ProcessID() != filter.ProcessID {
			continue
		}
		all = append(all, r.withProcess(j))
	}
	slices.SortFunc(all, func(a, b model.JobRecord) int {
		for _, s := range req.Sort {
			var c int
			switch s.Field {
			case "status":
				c = cmp.Compare(a.Status, b.Status)
			case model.IDField:
				c = cmp.Compare(a.ID, b.ID)
			}
			if !s.Ascending {
				c = -c
			}
			if c != 0 {
				return c
			}
		}
		return cmp.Compare(a.ID, b.ID)
	})
	return pageOf(all, req), nil
}

func (r *memJobRecordRepo) Delete(_ context.Context, id string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.deletes = append(r.deletes, id)
	_, ok := r.items[id]
	delete(r.items, id)
	return ok, nil
}

func (r *memJobRecordRepo) DeleteAll(_ context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := int64(len(r.items))
	r.items = map[string]model.JobRecord{}
	return n, nil
}

func (r *memJobRecordRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.items)
}

func pageOf[T any](all []T, req model.PageRequest) model.Page[T] {
	start := min(req.Offset(), len(all))
	end := len(all)
	if req.Size > 0 {
		end = min(start+req.Size, len(all))
	}
	return model.Page[T]{Items: append([]T(nil), all[start:end]...), TotalCount: int64(len(all))}
}

// consoleEnv runs the console against a REST backend served from the same
// package: console -> REST client -> REST handlers -> services -> memory.
type consoleEnv struct {
	Backend    *httptest.Server
	Console    http.Handler
	UI         *UIHandlers
	Processes  *memProcessRepo
	JobRecords *memJobRecordRepo
}

func newConsoleEnv(t *testing.T) *consoleEnv {
	t.Helper()
	tr := RequireTemplateRenderer(t)

	processes := newMemProcessRepo()
	jobRecords := newMemJobRecordRepo(processes)
	logger := quietLogger()

	backend := httptest.NewServer(NewRouter(RouterServices{
		JobRecords: service.NewJobRecordService(service.JobRecordServiceOptions{
			Repo: jobRecords, Processes: processes, Logger: logger,
		}),
		Processes:   service.NewProcessService(service.ProcessServiceOptions{Repo: processes, Logger: logger}),
		Compression: CompressionConfig{Disabled: true},
		Logger:      logger,
	}))
	t.Cleanup(backend.Close)

	cfg := client.Config{BaseURL: backend.URL + "/", Timeout: 5 * time.Second, Logger: logger}
	ui := &UIHandlers{
		T:          tr,
		JobRecords: client.NewJobRecordClient(cfg),
		Processes:  client.NewProcessClient(cfg),
		PageSize:   20,
		Now:        func() time.Time { return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC) },
		Logger:     logger,
	}
	console := NewRouter(RouterServices{UI: ui, Compression: CompressionConfig{Disabled: true}, Logger: logger})

	return &consoleEnv{Backend: backend, Console: console, UI: ui, Processes: processes, JobRecords: jobRecords}
}

// seed stores one process and n job records referencing it. Ids are 101..100+n.
func (e *consoleEnv) seed(t *testing.T, n int) model.Process {
	t.Helper()
	p, err := e.Processes.Create(context.Background(), &model.Process{
		Key: "ingest", Name: "Ingest", Activation: model.ActivationActive,
	})
	require.NoError(t, err)
	ts := time.Date(2026, 2, 1, 8, 0, 0, 0, time.UTC)
	for i := range n {
		status := model.JobStatusAccepted
		if i%2 == 1 {
			status = model.JobStatusPaused
		}
		_, err := e.JobRecords.Create(context.Background(), &model.JobRecord{
			JobAcceptedTimestamp:      ts,
			LastEventTimestamp:        ts,
			LastRecordUpdateTimestamp: ts,
			Status:                    status,
			Process:                   p.Ref(),
		})
		require.NoError(t, err)
	}
	return *p
}

func (e *consoleEnv) do(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	e.Console.ServeHTTP(rec, req)
	return rec
}

func (e *consoleEnv) get(target string, htmx bool) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	if htmx {
		req.Header.Set("Hx-Request", "true")
	}
	return e.do(req)
}

func (e *consoleEnv) postForm(target string, form map[string]string, htmx bool) *httptest.ResponseRecorder {
	vals := make([]string, 0, len(form))
	for k, v := range form {
		vals = append(vals, k+"="+url.QueryEscape(v))
	}
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(strings.Join(vals, "&")))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if htmx {
		req.Header.Set("Hx-Request", "true")
	}
	return e.do(req)
}

// parseHTML parses a page or fragment body.
func parseHTML(t *testing.T, body string) *html.Node {
	t.Helper()
	doc, err := html.Parse(strings.NewReader(body))
	require.NoError(t, err)
	return doc
}

// findByID returns the element with the given id attribute, or nil.
func findByID(n *html.Node, id string) *html.Node {
	if n.Type == html.ElementNode && attr(n, "id") == id {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findByID(c, id); found != nil {
			return found
		}
	}
	return nil
}

// findAll returns every element matching pred in document order.
func findAll(n *html.Node, pred func(*html.Node) bool) []*html.Node {
	var out []*html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && pred(n) {
			out = append(out, n)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return out
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func textContent(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return strings.TrimSpace(b.String())
}

// rowIDs returns the ids of the rendered job record rows.
func rowIDs(doc *html.Node) []string {
	rows := findAll(doc, func(n *html.Node) bool {
		return n.Data == "tr" && strings.HasPrefix(attr(n, "id"), "job-record-")
	})
	ids := make([]string, 0, len(rows))
	for _, r := range rows {
		ids = append(ids, strings.TrimPrefix(attr(r, "id"), "job-record-"))
	}
	return ids
}
