package httpx

import (
	"context"
	"errors"
	"net/http"

	"github.com/giraone/jobadmin/internal/domain/model"
	"github.com/giraone/jobadmin/internal/viewstate"
)

const processLabel = "Process"

//nolint:gochecknoglobals // static read-only column list
var processSortColumns = []string{"id", "key", "name", "activation", "agentKey", "bucketKeyIfPaused"}

func (h *UIHandlers) processListSpec() listSpec[model.Process] {
	return listSpec[model.Process]{
		Meta:        PageMeta{Title: "Processes", PageTitle: "Processes", CurrentPage: PageProcesses},
		BasePath:    ProcessesUIPath,
		EntityLabel: processLabel,
		Defaults: viewstate.ListDefaults{
			Size:    h.pageSize(),
			MaxSize: 100,
			Sort:    viewstate.Sort{Predicate: model.IDField, Ascending: true},
		},
		SortColumns:  processSortColumns,
		Backend:      h.Processes,
		ErrorMessage: "Unable to load processes.",
	}
}

// ProcessList renders the process list.
func (h *UIHandlers) ProcessList(w http.ResponseWriter, r *http.Request) {
	serveList(h, w, r, h.processListSpec(), loadAction[model.Process])
}

// ProcessView renders one process.
func (h *UIHandlers) ProcessView(w http.ResponseWriter, r *http.Request) {
	p, ok := resolveEntity[model.Process](h, w, r, h.Processes)
	if !ok {
		return
	}
	if p == nil {
		Redirect(w, r, viewstate.NotFoundRoute)
		return
	}
	data := NewTemplateData(r, PageMeta{
		Title:       processLabel + " " + p.Label(),
		PageTitle:   processLabel,
		CurrentPage: PageProcessView,
	}).
		With("Process", p).
		With("ReturnURL", safeReturnPath(r.URL.Query().Get("return"), ProcessesUIPath)).
		Build()
	h.renderPage(w, r, data)
}

// ProcessForm renders the create form (/processes/new) or the edit form
// (/processes/{id}/edit).
func (h *UIHandlers) ProcessForm(w http.ResponseWriter, r *http.Request) {
	p, ok := resolveEntity[model.Process](h, w, r, h.Processes)
	if !ok {
		return
	}
	h.renderProcessForm(w, r, viewstate.NewProcessEdit(p), "", nil)
}

// ProcessSave handles form posts to /processes (create) and /processes/{id}
// (update). Saved processes invalidate the cached process options.
func (h *UIHandlers) ProcessSave(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	var resolved *model.Process
	if r.PathValue("id") != "" {
		var ok bool
		if resolved, ok = resolveEntity[model.Process](h, w, r, h.Processes); !ok {
			return
		}
	}

	edit := viewstate.NewProcessEdit(resolved)
	form := viewstate.ProcessFormFromValues(r.PostForm)
	form.ID = ""
	if resolved != nil {
		form.ID = resolved.ID
	}
	edit.Submitted(form)

	_, err := edit.Save(r.Context(), h.Processes)
	if err == nil {
		h.invalidateProcessOptions(r.Context())
		Redirect(w, r, safeReturnPath(r.PostFormValue("return"), ProcessesUIPath))
		return
	}
	if !errors.Is(err, viewstate.ErrInvalidForm) {
		h.logger().WarnContext(r.Context(), "saving process failed", "error", err, "id", form.ID)
	}
	msg, fieldErrs := saveFailure(err, edit.Errors)
	h.renderProcessForm(w, r, edit, msg, fieldErrs)
}

func (h *UIHandlers) renderProcessForm(
	w http.ResponseWriter,
	r *http.Request,
	edit *viewstate.ProcessEdit,
	errMsg string,
	fieldErrs map[string]string,
) {
	mode, title, action := FormModeCreate, "Create a new "+processLabel, ProcessesUIPath
	if !edit.IsNew() {
		mode, title, action = FormModeEdit, "Edit "+processLabel, ProcessesUIPath+"/"+edit.Form.ID
	}
	returnTo := r.URL.Query().Get("return")
	if r.Method == http.MethodPost {
		returnTo = r.PostFormValue("return")
	}

	data := NewTemplateData(r, PageMeta{Title: title, PageTitle: title, CurrentPage: PageProcessForm}).
		WithError(errMsg).
		WithFieldErrors(fieldErrs).
		With("Mode", string(mode)).
		With("Edit", edit).
		With("Form", edit.Form).
		With("Activations", edit.ActivationOptions()).
		With("ActionURL", action).
		With("ReturnURL", safeReturnPath(returnTo, ProcessesUIPath)).
		Build()
	h.renderPage(w, r, data)
}

// ProcessDeleteConfirm renders the delete confirmation of a process.
func (h *UIHandlers) ProcessDeleteConfirm(w http.ResponseWriter, r *http.Request) {
	p, ok := resolveEntity[model.Process](h, w, r, h.Processes)
	if !ok {
		return
	}
	if p == nil {
		Redirect(w, r, viewstate.NotFoundRoute)
		return
	}
	h.renderDeleteConfirm(w, r, deleteConfirm{
		EntityLabel: processLabel,
		Name:        p.Label(),
		ActionURL:   ProcessesUIPath + "/" + p.ID + "/delete",
		ListPath:    ProcessesUIPath,
	})
}

// ProcessDelete deletes a process and shows the list again.
func (h *UIHandlers) ProcessDelete(w http.ResponseWriter, r *http.Request) {
	serveListMutation(h, w, r, h.processListSpec(), h.invalidatingAction(
		confirmDeleteAction[model.Process](r.PathValue("id"), processLabel)))
}

// ProcessesDeleteAll deletes every process.
func (h *UIHandlers) ProcessesDeleteAll(w http.ResponseWriter, r *http.Request) {
	serveListMutation(h, w, r, h.processListSpec(), h.invalidatingAction(deleteAllAction[model.Process](processLabel)))
}

// invalidatingAction drops the cached process options after action ran.
func (h *UIHandlers) invalidatingAction(action listAction[model.Process]) listAction[model.Process] {
	return func(ctx context.Context, c *viewstate.ListController[model.Process]) string {
		msg := action(ctx, c)
		h.invalidateProcessOptions(ctx)
		return msg
	}
}
