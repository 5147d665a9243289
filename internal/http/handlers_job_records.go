package httpx

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/giraone/jobadmin/internal/domain/model"
	apperrors "github.com/giraone/jobadmin/internal/errors"
	"github.com/giraone/jobadmin/internal/service"
)

// JobRecordsAPIPath is the REST collection path for job records.
const JobRecordsAPIPath = "/api/job-records"

// JobRecordAPIService is the subset of the job record service used by the REST handlers.
type JobRecordAPIService interface {
	Create(ctx context.Context, rec *model.JobRecord) (*model.JobRecord, error)
	GetByID(ctx context.Context, id string) (*model.JobRecord, error)
	Update(ctx context.Context, rec *model.JobRecord) (*model.JobRecord, error)
	Patch(ctx context.Context, id string, patch model.JobRecordPatch) (*model.JobRecord, error)
	List(ctx context.Context, filter model.JobRecordFilter, req model.PageRequest) (model.Page[model.JobRecord], error)
	Delete(ctx context.Context, id string) (bool, error)
	DeleteAll(ctx context.Context) (int64, error)
}

var _ JobRecordAPIService = (*service.JobRecordService)(nil)

// JobRecordHandlers serves the job record REST resource.
type JobRecordHandlers struct {
	Svc JobRecordAPIService
	// BaseURL makes Location and Link headers absolute when set.
	BaseURL string
	Logger  *slog.Logger
}

func (h *JobRecordHandlers) logger() *slog.Logger {
	if h.Logger != nil {
		return h.Logger
	}
	return slog.Default()
}

// Create handles POST /api/job-records.
func (h *JobRecordHandlers) Create(w http.ResponseWriter, r *http.Request) {
	var body model.JobRecordWire
	if !DecodeJSON(w, r, &body) {
		return
	}
	if body.ID != "" {
		writeIDError(w, "idexists", "A new jobRecord cannot already have an ID")
		return
	}
	rec, err := model.JobRecordFromWire(body)
	if err != nil {
		WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: "invalid_timestamp", Err: err})
		return
	}

	created, err := h.Svc.Create(r.Context(), &rec)
	if err != nil {
		writeServiceError(w, r, err, "create_failed")
		return
	}
	w.Header().Set("Location", absoluteURL(h.BaseURL, url.URL{Path: JobRecordsAPIPath + "/" + created.ID}))
	WriteJSON(w, http.StatusCreated, model.JobRecordToWire(*created))
}

// Update handles PUT /api/job-records/{id}.
func (h *JobRecordHandlers) Update(w http.ResponseWriter, r *http.Request) {
	var body model.JobRecordWire
	if !DecodeJSON(w, r, &body) {
		return
	}
	if !checkBodyID(w, r.PathValue("id"), body.ID.String()) {
		return
	}
	rec, err := model.JobRecordFromWire(body)
	if err != nil {
		WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: "invalid_timestamp", Err: err})
		return
	}

	updated, err := h.Svc.Update(r.Context(), &rec)
	if err != nil {
		writeUpdateError(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, model.JobRecordToWire(*updated))
}

// Patch handles PATCH /api/job-records/{id} with merge-patch semantics:
// absent fields keep their stored value.
func (h *JobRecordHandlers) Patch(w http.ResponseWriter, r *http.Request) {
	var body model.JobRecordWire
	if !DecodeJSON(w, r, &body) {
		return
	}
	id := r.PathValue("id")
	if !checkBodyID(w, id, body.ID.String()) {
		return
	}
	patch, err := jobRecordPatchFromWire(body)
	if err != nil {
		WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: "invalid_patch", Err: err})
		return
	}

	updated, err := h.Svc.Patch(r.Context(), id, patch)
	if err != nil {
		writeUpdateError(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, model.JobRecordToWire(*updated))
}

// Get handles GET /api/job-records/{id}.
func (h *JobRecordHandlers) Get(w http.ResponseWriter, r *http.Request) {
	rec, err := h.Svc.GetByID(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, err, "get_failed")
		return
	}
	WriteJSON(w, http.StatusOK, model.JobRecordToWire(*rec))
}

// List handles GET /api/job-records with paging, sorting and the status and
// processId filters.
func (h *JobRecordHandlers) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	req, err := ParsePageRequest(q)
	if err != nil {
		writeServiceError(w, r, err, "list_failed")
		return
	}
	filter := model.JobRecordFilter{ProcessID: strings.TrimSpace(q.Get("processId"))}
	if raw := strings.TrimSpace(q.Get("status")); raw != "" {
		status, ok := model.ParseJobStatus(raw)
		if !ok {
			writeServiceError(w, r, apperrors.ValidationField("status", "unsupported status "+raw), "list_failed")
			return
		}
		filter.Status = status
	}

	req = service.NormalizePageRequest(req)
	page, err := h.Svc.List(r.Context(), filter, req)
	if err != nil {
		writeServiceError(w, r, err, "list_failed")
		return
	}
	out := make([]model.JobRecordWire, 0, len(page.Items))
	for _, rec := range page.Items {
		out = append(out, model.JobRecordToWire(rec))
	}
	SetPaginationHeaders(w, r, h.BaseURL, req, page.TotalCount)
	WriteJSON(w, http.StatusOK, out)
}

// Delete handles DELETE /api/job-records/{id}. Deleting an absent record also
// answers 204.
func (h *JobRecordHandlers) Delete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	deleted, err := h.Svc.Delete(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err, "delete_failed")
		return
	}
	if !deleted {
		h.logger().DebugContext(r.Context(), "job record to delete not found", "id", id)
	}
	w.WriteHeader(http.StatusNoContent)
}

// DeleteAll handles DELETE /api/job-records-delete-all.
func (h *JobRecordHandlers) DeleteAll(w http.ResponseWriter, r *http.Request) {
	if _, err := h.Svc.DeleteAll(r.Context()); err != nil {
		writeServiceError(w, r, err, "delete_all_failed")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func jobRecordPatchFromWire(body model.JobRecordWire) (model.JobRecordPatch, error) {
	var patch model.JobRecordPatch
	for _, f := range []struct {
		name string
		raw  *string
		dst  **time.Time
	}{
		{"jobAcceptedTimestamp", body.JobAcceptedTimestamp, &patch.JobAcceptedTimestamp},
		{"lastEventTimestamp", body.LastEventTimestamp, &patch.LastEventTimestamp},
		{"lastRecordUpdateTimestamp", body.LastRecordUpdateTimestamp, &patch.LastRecordUpdateTimestamp},
	} {
		if f.raw == nil {
			continue
		}
		t, err := model.DecodeTimestamp(f.raw)
		if err != nil {
			return model.JobRecordPatch{}, fmt.Errorf("%s: %w", f.name, err)
		}
		*f.dst = &t
	}
	if body.Status != "" {
		status := model.JobStatus(body.Status)
		patch.Status = &status
	}
	patch.PausedBucketKey = body.PausedBucketKey
	if body.Process != nil {
		id := body.Process.ID.String()
		patch.ProcessID = &id
	}
	return patch, nil
}

// checkBodyID enforces that an update body carries the id of the addressed entity.
func checkBodyID(w http.ResponseWriter, pathID, bodyID string) bool {
	switch {
	case bodyID == "":
		writeIDError(w, "idnull", "Invalid id")
		return false
	case bodyID != pathID:
		writeIDError(w, "idinvalid", "Invalid ID")
		return false
	}
	return true
}

func writeIDError(w http.ResponseWriter, code, msg string) {
	WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: code, Err: errors.New(msg), Field: "id"})
}

// writeUpdateError reports updates of absent entities as 400 idnotfound.
func writeUpdateError(w http.ResponseWriter, r *http.Request, err error) {
	if apperrors.IsNotFound(err) {
		writeIDError(w, "idnotfound", "Entity not found")
		return
	}
	writeServiceError(w, r, err, "update_failed")
}
