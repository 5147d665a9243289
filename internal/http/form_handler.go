package httpx

import (
	"context"
	"net/http"
	"net/url"

	"github.com/giraone/jobadmin/internal/client"
	"github.com/giraone/jobadmin/internal/viewstate"
)

// resolveEntity runs the navigation gate for an {id} route. It returns false
// when a response was already written: a redirect to the not-found route for
// absent entities, or an error page for backend failures.
func resolveEntity[T any](h *UIHandlers, w http.ResponseWriter, r *http.Request, finder client.Finder[T]) (*T, bool) {
	res, err := viewstate.NewResolver[T](finder).Resolve(r.Context(), viewstate.RouteParams{"id": r.PathValue("id")})
	if err != nil {
		h.renderBackendError(w, r, err)
		return nil, false
	}
	if res.Kind == viewstate.Redirect {
		Redirect(w, r, res.RedirectTo)
		return nil, false
	}
	return res.Value, true
}

// deleteConfirm describes the delete confirmation of one entity.
type deleteConfirm struct {
	EntityLabel string // "Job Record"
	Name        string // identifying text of the entity
	ActionURL   string // POST target
	ListPath    string
}

// renderDeleteConfirm renders the confirmation dialog. The list query is
// passed through so the list comes back on the same page after deletion.
func (h *UIHandlers) renderDeleteConfirm(w http.ResponseWriter, r *http.Request, dc deleteConfirm) {
	returnQ := r.URL.Query().Get("return")
	q, err := url.ParseQuery(returnQ)
	if err != nil {
		returnQ = ""
	}
	data := NewTemplateData(r, PageMeta{
		Title:       "Delete " + dc.EntityLabel,
		PageTitle:   "Confirm delete operation",
		CurrentPage: PageDeleteConfirm,
	}).
		With("Confirm", dc).
		With("ReturnQuery", returnQ).
		With("CancelURL", listURL(dc.ListPath, q)).
		Build()

	if IsHTMX(r) {
		if err := h.T.RenderNamed(w, "delete-confirm-modal", data); err != nil {
			h.logAndRenderTemplateError(w, r, err, "delete confirm render")
		}
		return
	}
	h.renderPage(w, r, data)
}

// confirmDeleteAction deletes id and reloads the list with the same state.
// A failed delete is followed by a plain reload so the list is still shown.
func confirmDeleteAction[T any](id, entity string) listAction[T] {
	return func(ctx context.Context, c *viewstate.ListController[T]) string {
		if err := c.ConfirmDelete(ctx, id); err != nil {
			_ = c.Load(ctx)
			return deleteFailure(err, entity)
		}
		return ""
	}
}

// deleteAllAction deletes every entity and shows page one.
func deleteAllAction[T any](entity string) listAction[T] {
	return func(ctx context.Context, c *viewstate.ListController[T]) string {
		if err := c.DeleteAll(ctx); err != nil {
			_ = c.Load(ctx)
			return deleteFailure(err, entity)
		}
		return ""
	}
}

// serveListMutation runs a destructive list action. Plain form posts are
// answered with a redirect to the resulting list URL on success; htmx requests
// and failures get the refreshed list with a toast.
func serveListMutation[T any](
	h *UIHandlers,
	w http.ResponseWriter,
	r *http.Request,
	spec listSpec[T],
	action listAction[T],
) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	ctx := r.Context()
	initial := viewstate.ListStateFromQuery[T](returnQuery(r), spec.Defaults)
	ctrl := viewstate.NewListController(spec.Backend, initial, h.logger())

	msg := action(ctx, ctrl)
	state := ctrl.State()
	if msg == "" && !IsHTMX(r) {
		Redirect(w, r, listURL(spec.BasePath, state.Query()))
		return
	}
	if msg != "" {
		triggerToast(w, msg, "error")
	} else {
		triggerToast(w, spec.EntityLabel+" deleted.", "success")
		if state.Err != nil {
			msg = spec.ErrorMessage
		}
	}

	var extras map[string]any
	if spec.Extras != nil {
		var err error
		if extras, err = spec.Extras(ctx); err != nil {
			h.logger().WarnContext(ctx, "loading list extras failed", "error", err, "path", spec.BasePath)
		}
	}
	renderListState(h, w, r, spec, state, extras, msg)
}
