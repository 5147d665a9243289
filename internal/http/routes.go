package httpx

import (
	"bytes"
	"io/fs"
	"log/slog"
	"net/http"
	"os"

	jobadmin "github.com/giraone/jobadmin"
	"github.com/giraone/jobadmin/internal/viewstate"
)

// RouterServices holds everything the HTTP router can serve. Nil members
// switch the corresponding routes off: no JobRecords/Processes means no REST
// API, no UI means no console.
type RouterServices struct {
	JobRecords JobRecordAPIService
	Processes  ProcessAPIService
	UI         *UIHandlers
	Health     *HealthHandlers
	Metrics    MetricsProvider
	// Static serves /static/. Defaults to the embedded frontend/static tree.
	Static      fs.FS
	Compression CompressionConfig
	// BaseURL is the public base URL used for absolute REST headers.
	BaseURL string
	IsDev   bool
	Logger  *slog.Logger
}

// MetricsProvider records HTTP metrics and exposes them for scraping.
type MetricsProvider interface {
	HTTPRecorder
	Handler() http.Handler
}

// NewRouter creates the HTTP router and wraps it with the middleware chain
// Recover, Logging, Metrics, Compression (outermost first).
func NewRouter(services RouterServices) http.Handler {
	logger := services.Logger
	if logger == nil {
		logger = slog.Default()
	}
	mux := http.NewServeMux()

	if services.JobRecords != nil {
		registerJobRecordRoutes(mux, &JobRecordHandlers{
			Svc: services.JobRecords, BaseURL: services.BaseURL, Logger: logger,
		})
	}
	if services.Processes != nil {
		registerProcessRoutes(mux, &ProcessHandlers{
			Svc: services.Processes, BaseURL: services.BaseURL, Logger: logger,
		})
	}

	health := services.Health
	if health == nil {
		health = &HealthHandlers{Logger: logger}
	}
	mux.HandleFunc("GET /healthz", health.Health)
	mux.HandleFunc("HEAD /healthz", health.Health)

	var recorder HTTPRecorder
	if services.Metrics != nil {
		recorder = services.Metrics
		mux.Handle("GET /metrics", services.Metrics.Handler())
	}

	if services.UI != nil {
		mux.Handle("GET /static/", staticHandler(services.Static, services.IsDev, logger))
		registerUIRoutes(mux, services.UI)
	}

	var handler http.Handler = &notFoundHandler{mux: mux, uiHandlers: services.UI}
	if !services.Compression.Disabled {
		handler = Compression(services.Compression)(handler)
	}
	handler = Metrics(recorder)(handler)
	handler = Logging(logger)(handler)
	return Recover(logger)(handler)
}

func registerJobRecordRoutes(mux *http.ServeMux, h *JobRecordHandlers) {
	registerCRUD(mux, crudRoutes{
		Base:      JobRecordsAPIPath,
		Create:    h.Create,
		List:      h.List,
		GetByID:   h.Get,
		Update:    h.Update,
		Patch:     h.Patch,
		Delete:    h.Delete,
		DeleteAll: h.DeleteAll,
	})
}

func registerProcessRoutes(mux *http.ServeMux, h *ProcessHandlers) {
	registerCRUD(mux, crudRoutes{
		Base:      ProcessesAPIPath,
		Create:    h.Create,
		List:      h.List,
		GetByID:   h.Get,
		Update:    h.Update,
		Patch:     h.Patch,
		Delete:    h.Delete,
		DeleteAll: h.DeleteAll,
	})
}

// crudRoutes lists the REST handlers of one resource base path.
type crudRoutes struct {
	Base      string
	Create    http.HandlerFunc
	List      http.HandlerFunc
	GetByID   http.HandlerFunc
	Update    http.HandlerFunc
	Patch     http.HandlerFunc
	Delete    http.HandlerFunc
	DeleteAll http.HandlerFunc
}

func registerCRUD(mux *http.ServeMux, cfg crudRoutes) {
	if cfg.Base == "" {
		panic("registerCRUD: Base must not be empty") //nolint:forbidigo // Fail fast during server setup.
	}
	if cfg.Create == nil ||
		cfg.List == nil ||
		cfg.GetByID == nil ||
		cfg.Update == nil ||
		cfg.Patch == nil ||
		cfg.Delete == nil ||
		cfg.DeleteAll == nil {
		panic("registerCRUD: nil handler for base " + cfg.Base) //nolint:forbidigo // Fail fast during server setup.
	}

	mux.HandleFunc("POST "+cfg.Base, cfg.Create)
	mux.HandleFunc("GET "+cfg.Base, cfg.List)
	mux.HandleFunc("GET "+cfg.Base+"/{id}", cfg.GetByID)
	mux.HandleFunc("PUT "+cfg.Base+"/{id}", cfg.Update)
	mux.HandleFunc("PATCH "+cfg.Base+"/{id}", cfg.Patch)
	mux.HandleFunc("DELETE "+cfg.Base+"/{id}", cfg.Delete)
	mux.HandleFunc("DELETE "+cfg.Base+"-delete-all", cfg.DeleteAll)
}

// registerUIRoutes wires the console pages.
func registerUIRoutes(mux *http.ServeMux, h *UIHandlers) {
	mux.HandleFunc("GET /{$}", h.Index)
	mux.HandleFunc("GET "+viewstate.NotFoundRoute, h.NotFoundPage)
	registerUIJobRecordRoutes(mux, h)
	registerUIProcessRoutes(mux, h)
}

func registerUIJobRecordRoutes(mux *http.ServeMux, h *UIHandlers) {
	base := JobRecordsUIPath
	mux.HandleFunc("GET "+base, h.JobRecordList)
	mux.HandleFunc("GET "+base+"/new", h.JobRecordForm)
	mux.HandleFunc("POST "+base, h.JobRecordSave)
	mux.HandleFunc("POST "+base+"/delete-all", h.JobRecordsDeleteAll)
	mux.HandleFunc("GET "+base+"/{id}/view", h.JobRecordView)
	mux.HandleFunc("GET "+base+"/{id}/edit", h.JobRecordForm)
	mux.HandleFunc("POST "+base+"/{id}", h.JobRecordSave)
	mux.HandleFunc("GET "+base+"/{id}/delete", h.JobRecordDeleteConfirm)
	mux.HandleFunc("POST "+base+"/{id}/delete", h.JobRecordDelete)
}

func registerUIProcessRoutes(mux *http.ServeMux, h *UIHandlers) {
	base := ProcessesUIPath
	mux.HandleFunc("GET "+base, h.ProcessList)
	mux.HandleFunc("GET "+base+"/new", h.ProcessForm)
	mux.HandleFunc("POST "+base, h.ProcessSave)
	mux.HandleFunc("POST "+base+"/delete-all", h.ProcessesDeleteAll)
	mux.HandleFunc("GET "+base+"/{id}/view", h.ProcessView)
	mux.HandleFunc("GET "+base+"/{id}/edit", h.ProcessForm)
	mux.HandleFunc("POST "+base+"/{id}", h.ProcessSave)
	mux.HandleFunc("GET "+base+"/{id}/delete", h.ProcessDeleteConfirm)
	mux.HandleFunc("POST "+base+"/{id}/delete", h.ProcessDelete)
}

// TemplateFS returns the template tree: from disk in dev mode for hot
// reloading, else the embedded copy.
func TemplateFS(isDev bool, logger *slog.Logger) fs.FS {
	if isDev {
		return os.DirFS(TemplatePathFromRoot)
	}
	sub, err := fs.Sub(jobadmin.TemplateFS, "frontend/templates")
	if err != nil {
		logger.Error("failed to create sub-filesystem for templates; falling back to disk", "error", err)
		return os.DirFS(TemplatePathFromRoot)
	}
	return sub
}

// staticHandler serves /static/* from fsys, from disk in dev mode or from
// the embedded frontend/static tree otherwise.
func staticHandler(fsys fs.FS, isDev bool, logger *slog.Logger) http.Handler {
	if fsys == nil {
		if isDev {
			fsys = os.DirFS("frontend/static")
		} else {
			sub, err := fs.Sub(jobadmin.StaticFS, "frontend/static")
			if err != nil {
				logger.Error("failed to create sub-filesystem for static assets", "error", err)
				sub = os.DirFS("frontend/static")
			}
			fsys = sub
		}
	}
	return staticWithCacheHeaders(http.StripPrefix("/static/", http.FileServer(http.FS(fsys))), isDev)
}

// staticWithCacheHeaders disables caching in dev mode and allows a short
// revalidating cache otherwise.
func staticWithCacheHeaders(handler http.Handler, isDev bool) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if isDev {
			w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
		} else {
			w.Header().Set("Cache-Control", "public, max-age=3600, must-revalidate")
		}
		handler.ServeHTTP(w, r)
	})
}

// notFoundHandler wraps a ServeMux and provides custom 404 handling.
type notFoundHandler struct {
	mux        *http.ServeMux
	uiHandlers *UIHandlers
}

// ServeHTTP serves through the mux. Requests no route matched are answered by
// the UI not-found page, or a JSON 404 for the API.
func (h *notFoundHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if _, pattern := h.mux.Handler(r); pattern != "" {
		h.mux.ServeHTTP(w, r)
		return
	}
	// Let the mux answer 405s and redirects itself.
	cw := newCaptureWriter()
	h.mux.ServeHTTP(cw, r)
	if cw.status != http.StatusNotFound {
		cw.flushTo(w, h.logger())
		return
	}
	h.uiHandlers.NotFound(w, r)
}

func (h *notFoundHandler) logger() *slog.Logger {
	if h.uiHandlers != nil {
		return h.uiHandlers.logger()
	}
	return slog.Default()
}

// captureWriter buffers headers, status and body so we can decide post-dispatch.
type captureWriter struct {
	header http.Header
	status int
	buf    bytes.Buffer
}

func newCaptureWriter() *captureWriter {
	return &captureWriter{header: make(http.Header), status: http.StatusOK}
}

func (c *captureWriter) Header() http.Header         { return c.header }
func (c *captureWriter) WriteHeader(code int)        { c.status = code }
func (c *captureWriter) Write(b []byte) (int, error) { return c.buf.Write(b) }

func (c *captureWriter) flushTo(w http.ResponseWriter, logger *slog.Logger) {
	for k, vs := range c.header {
		for _, v := range vs {
			w.Header().Add(k, v)
		}
	}
	w.WriteHeader(c.status)
	if _, err := w.Write(c.buf.Bytes()); err != nil {
		logger.Debug("failed to write captured response", "error", err)
	}
}
