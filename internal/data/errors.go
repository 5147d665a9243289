package data

import apperrors "github.com/giraone/jobadmin/internal/errors"

// Shared sentinel errors for data-layer repositories. They are AppErrors with
// the not_found code so callers outside the data layer can use apperrors.IsNotFound.
var (
	ErrProcessNotFound   = apperrors.NotFound("process not found")
	ErrJobRecordNotFound = apperrors.NotFound("job record not found")
)
