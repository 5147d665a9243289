package httpx

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	apperrors "github.com/giraone/jobadmin/internal/errors"
)

// DecodeJSON decodes JSON from the request body into the destination and handles errors.
// Returns true if successful, false if there was an error (error response already written).
func DecodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: "invalid_json", Err: err})
		return false
	}

	return true
}

// WriteJSON writes a JSON response with the given status code and data.
func WriteJSON(w http.ResponseWriter, code int, v any) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(v); err != nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if _, err := buf.WriteTo(w); err != nil {
		// Response writer errors (e.g., client disconnect) can't be recovered from here.
		return
	}
}

// ErrorParams groups parameters for WriteError to adhere to the ≤3 params guideline.
type ErrorParams struct {
	Code    int
	ErrCode string
	Err     error
	Field   string
}

// ErrorResponse is the JSON error body of the REST API.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

// WriteError writes a JSON error response using ErrorParams.
func WriteError(w http.ResponseWriter, p ErrorParams) {
	msg := http.StatusText(p.Code)
	if p.Err != nil {
		msg = p.Err.Error()
	}
	WriteJSON(w, p.Code, ErrorResponse{Error: p.ErrCode, Message: msg, Field: p.Field})
}

// writeServiceError maps a service error onto the REST error contract. Errors
// that are not AppErrors are logged and reported as 500 with fallbackCode.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error, fallbackCode string) {
	field := apperrors.GetField(err)
	switch {
	case apperrors.IsValidation(err):
		WriteError(w, ErrorParams{
			Code: http.StatusBadRequest, ErrCode: "validation_failed", Err: errors.New(apperrors.Message(err, "")), Field: field,
		})
	case apperrors.IsConflict(err):
		WriteError(w, ErrorParams{
			Code: http.StatusConflict, ErrCode: "conflict", Err: errors.New(apperrors.Message(err, "")), Field: field,
		})
	case apperrors.IsForeignKey(err):
		WriteError(w, ErrorParams{
			Code: http.StatusConflict, ErrCode: "foreign_key", Err: errors.New(apperrors.Message(err, "")), Field: field,
		})
	case apperrors.IsNotFound(err):
		WriteError(w, ErrorParams{Code: http.StatusNotFound, ErrCode: "not_found", Err: errors.New(apperrors.Message(err, ""))})
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		WriteError(w, ErrorParams{Code: http.StatusServiceUnavailable, ErrCode: "timeout", Err: err})
	default:
		slog.Default().ErrorContext(r.Context(), "request failed",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.Any("error", err),
		)
		WriteError(w, ErrorParams{
			Code:    http.StatusInternalServerError,
			ErrCode: fallbackCode,
			Err:     errors.New("internal server error"),
		})
	}
}
