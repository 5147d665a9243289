package httpx

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/giraone/jobadmin/internal/client"
	"github.com/giraone/jobadmin/internal/viewstate"
)

// backendFieldNames maps column names reported by the backend onto form fields.
//
//nolint:gochecknoglobals // static read-only lookup
var backendFieldNames = map[string]string{
	"process_key": "key",
	"key":         "key",
	"process_id":  "process",
	"process":     "process",
	"name":        "name",
	"activation":  "activation",
	"status":      "status",
}

// saveFailure translates a failed save into a general message and field errors
// for the form. Invalid forms keep their own field errors.
func saveFailure(err error, fieldErrs viewstate.FieldErrors) (string, map[string]string) {
	if errors.Is(err, viewstate.ErrInvalidForm) {
		return errMsgFixBelow, fieldErrs
	}
	statusErr, ok := client.AsStatusError(err)
	if !ok {
		if errors.Is(err, context.DeadlineExceeded) {
			return "The backend did not respond in time. Please try again.", nil
		}
		return errMsgSaveFailed, nil
	}

	body := statusErr.Decoded()
	field := backendFieldNames[strings.TrimSpace(body.Field)]
	switch statusErr.StatusCode {
	case http.StatusConflict:
		if field == "key" {
			return errMsgFixBelow, map[string]string{"key": "This key is already in use."}
		}
		if body.Message != "" {
			return body.Message, nil
		}
		return errMsgSaveFailed, nil
	case http.StatusBadRequest:
		if field != "" && body.Message != "" {
			return errMsgFixBelow, map[string]string{field: body.Message}
		}
		return errMsgSaveFailed, nil
	default:
		return errMsgSaveFailed, nil
	}
}

// deleteFailure returns the message shown when deleting an entity failed.
func deleteFailure(err error, entity string) string {
	if statusErr, ok := client.AsStatusError(err); ok && statusErr.StatusCode == http.StatusConflict {
		if msg := statusErr.Decoded().Message; msg != "" {
			return msg
		}
		return "This " + entity + " is still in use and cannot be deleted."
	}
	return "Unable to delete " + entity + ". Please try again."
}

// ErrorPage describes a full error page.
type ErrorPage struct {
	Status  int
	Title   string
	Message string
}

// renderErrorPage renders the standalone error layout with status.
func (h *UIHandlers) renderErrorPage(w http.ResponseWriter, r *http.Request, p ErrorPage) {
	data := map[string]any{
		"Title":   p.Title + appTitleSuffix,
		"Code":    p.Status,
		"Message": p.Message,
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(p.Status)
	if h.T == nil {
		_, _ = w.Write([]byte(http.StatusText(p.Status)))
		return
	}
	if err := h.T.RenderError(w, r, data); err != nil {
		h.logger().Error("failed to render error page", "error", err, "status", p.Status)
	}
}

// renderBackendError answers a failed backend read on a detail route.
func (h *UIHandlers) renderBackendError(w http.ResponseWriter, r *http.Request, err error) {
	h.logger().WarnContext(r.Context(), "backend request failed",
		"error", err,
		"path", r.URL.Path,
	)
	h.renderErrorPage(w, r, ErrorPage{
		Status:  http.StatusBadGateway,
		Title:   "Backend unavailable",
		Message: "The job backend could not be reached. Please try again.",
	})
}
