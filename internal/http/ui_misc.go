package httpx

import (
	"errors"
	"net/http"
	"strings"
)

// Index redirects the console root to the job record list.
func (h *UIHandlers) Index(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, JobRecordsUIPath, http.StatusFound)
}

// NotFoundPage renders the not-found view that resolvers redirect to.
func (h *UIHandlers) NotFoundPage(w http.ResponseWriter, r *http.Request) {
	data := NewTemplateData(r, PageMeta{
		Title:       "Page Not Found",
		PageTitle:   "Page Not Found",
		CurrentPage: PageNotFound,
	}).Build()
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusNotFound)
	h.renderPage(w, r, data)
}

// NotFound handles unmatched routes: JSON for the REST API, HTML otherwise.
func (h *UIHandlers) NotFound(w http.ResponseWriter, r *http.Request) {
	if strings.HasPrefix(r.URL.Path, "/api/") || h == nil || h.T == nil {
		WriteError(w, ErrorParams{
			Code:    http.StatusNotFound,
			ErrCode: "not_found",
			Err:     errors.New("not found"),
		})
		return
	}
	h.renderErrorPage(w, r, ErrorPage{
		Status:  http.StatusNotFound,
		Title:   "Page Not Found",
		Message: "The page you're looking for doesn't exist.",
	})
}
