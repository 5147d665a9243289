package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// ErrMissingID is returned when an operation needs an entity id and none is set.
var ErrMissingID = errors.New("entity id is required")

// ErrEmptyResponse is returned when a write succeeds but the backend sends no entity back.
var ErrEmptyResponse = errors.New("backend returned no entity")

// maxErrorBody caps how much of a rejected response body is kept.
const maxErrorBody = 4 << 10

// StatusError reports a non-2xx response from the backend.
type StatusError struct {
	StatusCode int
	Method     string
	URL        string
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("%s %s: %d %s", e.Method, e.URL, e.StatusCode, http.StatusText(e.StatusCode))
	}
	return fmt.Sprintf("%s %s: %d %s: %s", e.Method, e.URL, e.StatusCode, http.StatusText(e.StatusCode), e.Body)
}

// HTTPStatus returns the response status code.
func (e *StatusError) HTTPStatus() int { return e.StatusCode }

// IsStatus reports whether err is a StatusError with the given status code.
func IsStatus(err error, code int) bool {
	var se *StatusError
	return errors.As(err, &se) && se.StatusCode == code
}

// ErrorBody is the JSON error shape returned by the backend.
type ErrorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

// AsStatusError extracts the StatusError from err, if any.
func AsStatusError(err error) (*StatusError, bool) {
	var se *StatusError
	if errors.As(err, &se) {
		return se, true
	}
	return nil, false
}

// Decoded parses the response body as an ErrorBody. Bodies that are not
// JSON yield an ErrorBody carrying the raw text as message.
func (e *StatusError) Decoded() ErrorBody {
	var body ErrorBody
	if err := json.Unmarshal([]byte(e.Body), &body); err != nil || (body.Error == "" && body.Message == "") {
		return ErrorBody{Message: e.Body}
	}
	return body
}
