package service

import (
	"strings"

	"github.com/giraone/jobadmin/internal/domain/model"
	apperrors "github.com/giraone/jobadmin/internal/errors"
)

const (
	// DefaultPageSize is used when a listing does not request a size.
	DefaultPageSize = 20
	// MaxPageSize caps the size of one listing page.
	MaxPageSize = 1000
)

// NormalizePageRequest applies paging defaults and limits. A request without
// sort keys is ordered by id ascending.
func NormalizePageRequest(req model.PageRequest) model.PageRequest {
	if req.Page < 0 {
		req.Page = 0
	}
	switch {
	case req.Size <= 0:
		req.Size = DefaultPageSize
	case req.Size > MaxPageSize:
		req.Size = MaxPageSize
	}
	if len(req.Sort) == 0 {
		req.Sort = []model.SortOrder{{Field: model.IDField, Ascending: true}}
	}
	return req
}

// validationError converts an entity validation failure into an AppError. The
// field is taken from the leading word of messages like "key is required ...".
func validationError(err error) error {
	if err == nil {
		return nil
	}
	msg := err.Error()
	field, _, _ := strings.Cut(msg, " ")
	return apperrors.ValidationField(field, msg)
}
