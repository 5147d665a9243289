package httpx

import (
	"context"
	"errors"
	"net/http"

	"github.com/giraone/jobadmin/internal/domain/model"
	"github.com/giraone/jobadmin/internal/viewstate"
	"golang.org/x/sync/errgroup"
)

const jobRecordLabel = "Job Record"

//nolint:gochecknoglobals // static read-only column list
var jobRecordSortColumns = []string{
	"id",
	"jobAcceptedTimestamp",
	"lastEventTimestamp",
	"lastRecordUpdateTimestamp",
	"status",
	"pausedBucketKey",
	"processId",
}

func (h *UIHandlers) jobRecordListSpec() listSpec[model.JobRecord] {
	return listSpec[model.JobRecord]{
		Meta:        PageMeta{Title: "Job Records", PageTitle: "Job Records", CurrentPage: PageJobRecords},
		BasePath:    JobRecordsUIPath,
		EntityLabel: jobRecordLabel,
		Defaults: viewstate.ListDefaults{
			Size:       h.pageSize(),
			MaxSize:    100,
			Sort:       viewstate.Sort{Predicate: model.IDField, Ascending: true},
			FilterKeys: []string{"status", "processId"},
		},
		SortColumns:  jobRecordSortColumns,
		Backend:      h.JobRecords,
		ErrorMessage: "Unable to load job records.",
		Data:         map[string]any{"Statuses": model.JobStatuses()},
		Extras: func(ctx context.Context) (map[string]any, error) {
			options, err := h.processOptions(ctx)
			if err != nil {
				return nil, err
			}
			return map[string]any{"ProcessOptions": options}, nil
		},
	}
}

// JobRecordList renders the job record list.
func (h *UIHandlers) JobRecordList(w http.ResponseWriter, r *http.Request) {
	serveList(h, w, r, h.jobRecordListSpec(), loadAction[model.JobRecord])
}

// JobRecordView renders one job record.
func (h *UIHandlers) JobRecordView(w http.ResponseWriter, r *http.Request) {
	rec, ok := resolveEntity[model.JobRecord](h, w, r, h.JobRecords)
	if !ok {
		return
	}
	if rec == nil {
		Redirect(w, r, viewstate.NotFoundRoute)
		return
	}
	data := NewTemplateData(r, PageMeta{
		Title:       jobRecordLabel + " " + rec.ID,
		PageTitle:   jobRecordLabel,
		CurrentPage: PageJobRecordView,
	}).
		With("JobRecord", rec).
		With("ReturnURL", safeReturnPath(r.URL.Query().Get("return"), JobRecordsUIPath)).
		Build()
	h.renderPage(w, r, data)
}

// JobRecordForm renders the create form (/job-records/new) or the edit form
// (/job-records/{id}/edit). The record and the process options load concurrently.
func (h *UIHandlers) JobRecordForm(w http.ResponseWriter, r *http.Request) {
	var (
		res        viewstate.Resolution[model.JobRecord]
		options    []model.Process
		optionsErr error
	)
	resolver := viewstate.NewResolver[model.JobRecord](h.JobRecords)
	g, ctx := errgroup.WithContext(r.Context())
	g.Go(func() error {
		var err error
		res, err = resolver.Resolve(ctx, viewstate.RouteParams{"id": r.PathValue("id")})
		return err
	})
	g.Go(func() error {
		options, optionsErr = h.processOptions(ctx)
		return nil
	})
	if err := g.Wait(); err != nil {
		h.renderBackendError(w, r, err)
		return
	}
	if res.Kind == viewstate.Redirect {
		Redirect(w, r, res.RedirectTo)
		return
	}

	edit := viewstate.NewJobRecordEdit(res.Value, h.now)
	msg := ""
	if optionsErr != nil {
		h.logger().WarnContext(r.Context(), "loading process options failed", "error", optionsErr)
		msg = "Unable to load processes."
	} else {
		loaded := func(context.Context) ([]model.Process, error) { return options, nil }
		if loadErr := edit.LoadProcessOptions(r.Context(), loaded); loadErr != nil {
			h.logger().WarnContext(r.Context(), "merging process options failed", "error", loadErr)
			msg = "Unable to load processes."
		}
	}
	h.renderJobRecordForm(w, r, edit, msg, nil)
}

// JobRecordSave handles form posts to /job-records (create) and
// /job-records/{id} (update). On success the browser goes back to the
// "return" location, else to the list.
func (h *UIHandlers) JobRecordSave(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	var resolved *model.JobRecord
	if r.PathValue("id") != "" {
		var ok bool
		if resolved, ok = resolveEntity[model.JobRecord](h, w, r, h.JobRecords); !ok {
			return
		}
	}

	edit := viewstate.NewJobRecordEdit(resolved, h.now)
	form := viewstate.JobRecordFormFromValues(r.PostForm)
	form.ID = ""
	if resolved != nil {
		form.ID = resolved.ID
	}
	edit.Submitted(form)

	_, err := edit.Save(r.Context(), h.JobRecords)
	if err == nil {
		Redirect(w, r, safeReturnPath(r.PostFormValue("return"), JobRecordsUIPath))
		return
	}
	if !errors.Is(err, viewstate.ErrInvalidForm) {
		h.logger().WarnContext(r.Context(), "saving job record failed", "error", err, "id", form.ID)
	}

	msg, fieldErrs := saveFailure(err, edit.Errors)
	if loadErr := edit.LoadProcessOptions(r.Context(), h.processOptions); loadErr != nil {
		h.logger().WarnContext(r.Context(), "loading process options failed", "error", loadErr)
	}
	h.renderJobRecordForm(w, r, edit, msg, fieldErrs)
}

func (h *UIHandlers) renderJobRecordForm(
	w http.ResponseWriter,
	r *http.Request,
	edit *viewstate.JobRecordEdit,
	errMsg string,
	fieldErrs map[string]string,
) {
	mode, title, action := FormModeCreate, "Create a new "+jobRecordLabel, JobRecordsUIPath
	if !edit.IsNew() {
		mode, title, action = FormModeEdit, "Edit "+jobRecordLabel, JobRecordsUIPath+"/"+edit.Form.ID
	}
	returnTo := r.URL.Query().Get("return")
	if r.Method == http.MethodPost {
		returnTo = r.PostFormValue("return")
	}

	data := NewTemplateData(r, PageMeta{Title: title, PageTitle: title, CurrentPage: PageJobRecordForm}).
		WithError(errMsg).
		WithFieldErrors(fieldErrs).
		With("Mode", string(mode)).
		With("Edit", edit).
		With("Form", edit.Form).
		With("ActionURL", action).
		With("ReturnURL", safeReturnPath(returnTo, JobRecordsUIPath)).
		Build()
	h.renderPage(w, r, data)
}

// JobRecordDeleteConfirm renders the delete confirmation of a job record.
func (h *UIHandlers) JobRecordDeleteConfirm(w http.ResponseWriter, r *http.Request) {
	rec, ok := resolveEntity[model.JobRecord](h, w, r, h.JobRecords)
	if !ok {
		return
	}
	if rec == nil {
		Redirect(w, r, viewstate.NotFoundRoute)
		return
	}
	h.renderDeleteConfirm(w, r, deleteConfirm{
		EntityLabel: jobRecordLabel,
		Name:        rec.ID,
		ActionURL:   JobRecordsUIPath + "/" + rec.ID + "/delete",
		ListPath:    JobRecordsUIPath,
	})
}

// JobRecordDelete deletes a job record and shows the list again with the
// page, sort and filters it was opened from.
func (h *UIHandlers) JobRecordDelete(w http.ResponseWriter, r *http.Request) {
	serveListMutation(h, w, r, h.jobRecordListSpec(),
		confirmDeleteAction[model.JobRecord](r.PathValue("id"), jobRecordLabel))
}

// JobRecordsDeleteAll deletes every job record.
func (h *UIHandlers) JobRecordsDeleteAll(w http.ResponseWriter, r *http.Request) {
	serveListMutation(h, w, r, h.jobRecordListSpec(), deleteAllAction[model.JobRecord](jobRecordLabel))
}
