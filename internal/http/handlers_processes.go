package httpx

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/giraone/jobadmin/internal/domain/model"
	"github.com/giraone/jobadmin/internal/service"
)

// ProcessesAPIPath is the REST collection path for processes.
const ProcessesAPIPath = "/api/processes"

// ProcessAPIService is the subset of the process service used by the REST handlers.
type ProcessAPIService interface {
	Create(ctx context.Context, p *model.Process) (*model.Process, error)
	GetByID(ctx context.Context, id string) (*model.Process, error)
	Update(ctx context.Context, p *model.Process) (*model.Process, error)
	Patch(ctx context.Context, id string, patch model.ProcessPatch) (*model.Process, error)
	List(ctx context.Context, req model.PageRequest) (model.Page[model.Process], error)
	Delete(ctx context.Context, id string) (bool, error)
	DeleteAll(ctx context.Context) (int64, error)
}

var _ ProcessAPIService = (*service.ProcessService)(nil)

// ProcessHandlers serves the process REST resource.
type ProcessHandlers struct {
	Svc ProcessAPIService
	// BaseURL makes Location and Link headers absolute when set.
	BaseURL string
	Logger  *slog.Logger
}

// Create handles POST /api/processes.
func (h *ProcessHandlers) Create(w http.ResponseWriter, r *http.Request) {
	var body model.ProcessWire
	if !DecodeJSON(w, r, &body) {
		return
	}
	if body.ID != "" {
		writeIDError(w, "idexists", "A new process cannot already have an ID")
		return
	}
	p, _ := model.ProcessFromWire(body)

	created, err := h.Svc.Create(r.Context(), &p)
	if err != nil {
		writeServiceError(w, r, err, "create_failed")
		return
	}
	w.Header().Set("Location", absoluteURL(h.BaseURL, url.URL{Path: ProcessesAPIPath + "/" + created.ID}))
	WriteJSON(w, http.StatusCreated, model.ProcessToWire(*created))
}

// Update handles PUT /api/processes/{id}.
func (h *ProcessHandlers) Update(w http.ResponseWriter, r *http.Request) {
	var body model.ProcessWire
	if !DecodeJSON(w, r, &body) {
		return
	}
	if !checkBodyID(w, r.PathValue("id"), body.ID.String()) {
		return
	}
	p, _ := model.ProcessFromWire(body)

	updated, err := h.Svc.Update(r.Context(), &p)
	if err != nil {
		writeUpdateError(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, model.ProcessToWire(*updated))
}

// Patch handles PATCH /api/processes/{id}. Absent or empty fields keep their
// stored value.
func (h *ProcessHandlers) Patch(w http.ResponseWriter, r *http.Request) {
	var body model.ProcessWire
	if !DecodeJSON(w, r, &body) {
		return
	}
	id := r.PathValue("id")
	if !checkBodyID(w, id, body.ID.String()) {
		return
	}

	updated, err := h.Svc.Patch(r.Context(), id, processPatchFromWire(body))
	if err != nil {
		writeUpdateError(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, model.ProcessToWire(*updated))
}

// Get handles GET /api/processes/{id}.
func (h *ProcessHandlers) Get(w http.ResponseWriter, r *http.Request) {
	p, err := h.Svc.GetByID(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, err, "get_failed")
		return
	}
	WriteJSON(w, http.StatusOK, model.ProcessToWire(*p))
}

// List handles GET /api/processes.
func (h *ProcessHandlers) List(w http.ResponseWriter, r *http.Request) {
	req, err := ParsePageRequest(r.URL.Query())
	if err != nil {
		writeServiceError(w, r, err, "list_failed")
		return
	}
	req = service.NormalizePageRequest(req)
	page, err := h.Svc.List(r.Context(), req)
	if err != nil {
		writeServiceError(w, r, err, "list_failed")
		return
	}
	out := make([]model.ProcessWire, 0, len(page.Items))
	for _, p := range page.Items {
		out = append(out, model.ProcessToWire(p))
	}
	SetPaginationHeaders(w, r, h.BaseURL, req, page.TotalCount)
	WriteJSON(w, http.StatusOK, out)
}

// Delete handles DELETE /api/processes/{id}. A process still referenced by
// job records answers 409.
func (h *ProcessHandlers) Delete(w http.ResponseWriter, r *http.Request) {
	if _, err := h.Svc.Delete(r.Context(), r.PathValue("id")); err != nil {
		writeServiceError(w, r, err, "delete_failed")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// DeleteAll handles DELETE /api/processes-delete-all.
func (h *ProcessHandlers) DeleteAll(w http.ResponseWriter, r *http.Request) {
	if _, err := h.Svc.DeleteAll(r.Context()); err != nil {
		writeServiceError(w, r, err, "delete_all_failed")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func processPatchFromWire(body model.ProcessWire) model.ProcessPatch {
	nonEmpty := func(s string) *string {
		if s == "" {
			return nil
		}
		return &s
	}
	patch := model.ProcessPatch{
		Key:               nonEmpty(body.Key),
		Name:              nonEmpty(body.Name),
		AgentKey:          body.AgentKey,
		BucketKeyIfPaused: body.BucketKeyIfPaused,
	}
	if body.Activation != "" {
		a := model.Activation(body.Activation)
		patch.Activation = &a
	}
	return patch
}
