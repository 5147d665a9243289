package httpx

import (
	"context"
	"html"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/giraone/jobadmin/internal/client"
	"github.com/giraone/jobadmin/internal/core"
	"github.com/giraone/jobadmin/internal/domain/model"
	"github.com/giraone/jobadmin/internal/http/ui/viewmodel"
	"github.com/giraone/jobadmin/internal/viewstate"
)

const (
	errMsgFixBelow   = "Please fix the errors below."
	errMsgSaveFailed = "Unable to save. Please try again."
	appTitleSuffix   = " - Job Admin"
)

// Compile-time assertions that the REST clients serve the console.
var (
	_ client.Resource[model.JobRecord] = (*client.JobRecordClient)(nil)
	_ client.Resource[model.Process]   = (*client.ProcessClient)(nil)
)

// UIHandlers serves browser-facing routes. All entity access goes through
// the REST resource clients.
type UIHandlers struct {
	T              *TemplateRenderer
	JobRecords     client.Resource[model.JobRecord]
	Processes      client.Resource[model.Process]
	ProcessOptions *core.ProcessOptionsCache // Optional: caches the process option list
	PageSize       int                       // Default list page size
	Now            func() time.Time
	IsDev          bool // Development mode flag for enhanced error reporting
	Logger         *slog.Logger
}

// logger returns the configured logger or falls back to slog.Default().
func (h *UIHandlers) logger() *slog.Logger {
	if h != nil && h.Logger != nil {
		return h.Logger
	}
	return slog.Default()
}

func (h *UIHandlers) now() time.Time {
	if h.Now != nil {
		return h.Now()
	}
	return time.Now()
}

func (h *UIHandlers) pageSize() int {
	if h.PageSize > 0 {
		return h.PageSize
	}
	return 20
}

// processOptions returns every process for selects, through the cache when configured.
func (h *UIHandlers) processOptions(ctx context.Context) ([]model.Process, error) {
	load := viewstate.AllProcesses(h.Processes)
	if h.ProcessOptions == nil {
		return load(ctx)
	}
	return h.ProcessOptions.Get(ctx, load)
}

// invalidateProcessOptions drops cached process options after process writes.
func (h *UIHandlers) invalidateProcessOptions(ctx context.Context) {
	if h.ProcessOptions != nil {
		h.ProcessOptions.Invalidate(ctx)
	}
}

// PageMeta contains metadata for page rendering.
type PageMeta struct {
	Title       string
	PageTitle   string
	CurrentPage string
}

//nolint:gochecknoglobals // static read-only lookup
var pageSections = map[string]string{
	PageJobRecords:    PageJobRecords,
	PageJobRecordView: PageJobRecords,
	PageJobRecordForm: PageJobRecords,
	PageProcesses:     PageProcesses,
	PageProcessView:   PageProcesses,
	PageProcessForm:   PageProcesses,
}

// basePageData constructs the common page data map.
func basePageData(_ *http.Request, meta PageMeta) map[string]any {
	layout := viewmodel.NewLayout(meta.Title+appTitleSuffix, meta.PageTitle, meta.CurrentPage, pageSections)
	return map[string]any{
		"Title":       layout.Title,
		"PageTitle":   layout.PageTitle,
		"CurrentPage": layout.CurrentPage,
		"Nav":         layout.Nav,
	}
}

// renderPage renders data as a full page, or as the content fragment plus an
// out-of-band header for htmx requests.
func (h *UIHandlers) renderPage(w http.ResponseWriter, r *http.Request, data map[string]any) {
	if !WantsPartial(r) {
		if err := h.T.RenderFull(w, r, data); err != nil {
			h.logAndRenderTemplateError(w, r, err, "full page render")
		}
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	SetHXTrigger(w, "nav:activate", map[string]string{"path": r.URL.Path})

	title, _ := data["Title"].(string)
	pageTitle, _ := data["PageTitle"].(string)
	currentPage, _ := data["CurrentPage"].(string)

	// <title> lets htmx update document.title on partial swaps.
	if _, err := w.Write([]byte(`<title>` + html.EscapeString(title) + `</title>` +
		`<h1 id="header-title" class="header-title" hx-swap-oob="outerHTML">` +
		html.EscapeString(pageTitle) + `</h1>`)); err != nil {
		h.logger().Error("failed to write partial header", "error", err)
		return
	}
	if err := h.T.RenderNamed(w, ContentTemplateFor(currentPage), data); err != nil {
		h.logAndRenderTemplateError(w, r, err, "partial content render")
	}
}

// logAndRenderTemplateError logs template errors and renders them in dev mode.
func (h *UIHandlers) logAndRenderTemplateError(w http.ResponseWriter, r *http.Request, err error, context string) {
	h.logger().Error("template rendering failed",
		"error", err,
		"context", context,
		"path", r.URL.Path,
		"method", r.Method,
	)

	if h.IsDev {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusInternalServerError)
		if _, writeErr := w.Write([]byte(`<div class="dev-error"><h2>Template Rendering Error</h2>` +
			`<p><strong>Context:</strong> ` + html.EscapeString(context) + `</p>` +
			`<p><strong>Path:</strong> ` + html.EscapeString(r.URL.Path) + `</p>` +
			`<pre>` + html.EscapeString(err.Error()) + `</pre></div>`)); writeErr != nil {
			h.logger().Error("failed to write template error response", "error", writeErr)
		}
		return
	}
	http.Error(w, "internal server error", http.StatusInternalServerError)
}

// safeReturnPath accepts only local absolute paths (with optional query) as
// navigation targets and falls back otherwise.
func safeReturnPath(raw, fallback string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" || !strings.HasPrefix(raw, "/") || strings.HasPrefix(raw, "//") || strings.Contains(raw, `\`) {
		return fallback
	}
	u, err := url.Parse(raw)
	if err != nil || u.IsAbs() || u.Host != "" {
		return fallback
	}
	return u.RequestURI()
}

// listURL joins a list path and its state query.
func listURL(path string, q url.Values) string {
	if enc := q.Encode(); enc != "" {
		return path + "?" + enc
	}
	return path
}
