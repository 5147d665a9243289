package httpx

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/giraone/jobadmin/internal/http/ui/viewmodel"
	"github.com/giraone/jobadmin/internal/viewstate"
	"golang.org/x/sync/errgroup"
)

// listSpec describes one entity list view.
type listSpec[T any] struct {
	Meta         PageMeta
	BasePath     string
	EntityLabel  string // used in messages, e.g. "Job Record"
	Defaults     viewstate.ListDefaults
	SortColumns  []string
	Backend      viewstate.ListBackend[T]
	ErrorMessage string
	// Data is static template data merged into every render.
	Data map[string]any
	// Extras loads additional template data (filter options) concurrently
	// with the list query. Failures are logged and leave the extras out.
	Extras func(ctx context.Context) (map[string]any, error)
}

// listAction runs against the controller before the page renders. It
// returns the failure message of the action itself, if any.
type listAction[T any] func(ctx context.Context, c *viewstate.ListController[T]) string

func loadAction[T any](ctx context.Context, c *viewstate.ListController[T]) string {
	_ = c.Load(ctx)
	return ""
}

// serveList builds a list controller from the request query, runs action
// concurrently with the extras, and renders.
func serveList[T any](h *UIHandlers, w http.ResponseWriter, r *http.Request, spec listSpec[T], action listAction[T]) {
	initial := viewstate.ListStateFromQuery[T](r.URL.Query(), spec.Defaults)
	ctrl := viewstate.NewListController(spec.Backend, initial, h.logger())

	var (
		g         errgroup.Group
		actionMsg string
		extras    map[string]any
	)
	g.Go(func() error {
		actionMsg = action(r.Context(), ctrl)
		return nil
	})
	if spec.Extras != nil {
		g.Go(func() error {
			var err error
			extras, err = spec.Extras(r.Context())
			return err
		})
	}
	if err := g.Wait(); err != nil {
		h.logger().WarnContext(r.Context(), "loading list extras failed", "error", err, "path", spec.BasePath)
	}

	state := ctrl.State()
	msg := actionMsg
	if msg == "" && state.Err != nil {
		msg = spec.ErrorMessage
	}
	renderListState(h, w, r, spec, state, extras, msg)
}

// renderListState renders the list page for state.
func renderListState[T any](
	h *UIHandlers,
	w http.ResponseWriter,
	r *http.Request,
	spec listSpec[T],
	state viewstate.ListState[T],
	extras map[string]any,
	errMsg string,
) {
	pagination := viewmodel.NewPagination(state.Page, state.Size, state.TotalPages(), state.TotalCount, len(state.Items),
		func(page int) string {
			return listURL(spec.BasePath, state.QueryWith("page", strconv.Itoa(page)))
		})

	sortURLs := make(map[string]string, len(spec.SortColumns))
	for _, col := range spec.SortColumns {
		next := state.Sort.Toggle(col)
		q := state.QueryWith("sort", next.String())
		q.Set("page", "1")
		sortURLs[col] = listURL(spec.BasePath, q)
	}

	builder := NewTemplateData(r, spec.Meta).
		WithPagination(pagination).
		WithError(errMsg).
		With("Items", state.Items).
		With("TotalCount", state.TotalCount).
		With("Sort", state.Sort).
		With("SortURLs", sortURLs).
		With("Filters", state.Filters).
		With("BasePath", spec.BasePath).
		With("ReturnQuery", state.Query().Encode()).
		WithAll(spec.Data).
		WithAll(extras)

	if WantsPartial(r) {
		SetHXPushURL(w, listURL(spec.BasePath, state.Query()))
	}
	h.renderPage(w, r, builder.Build())
}

// returnQuery parses the list query carried by the "return" form field.
func returnQuery(r *http.Request) url.Values {
	q, err := url.ParseQuery(r.PostFormValue("return"))
	if err != nil {
		return url.Values{}
	}
	return q
}
