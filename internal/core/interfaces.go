package core

import (
	"context"

	"github.com/giraone/jobadmin/internal/domain/model"
)

// This file contains repository interface definitions (ports in hexagonal architecture).
// Service implementations depend on these interfaces, not on the data layer.

// ProcessRepository defines the interface for process data operations.
type ProcessRepository interface {
	Create(ctx context.Context, p *model.Process) (*model.Process, error)
	GetByID(ctx context.Context, id string) (*model.Process, error)
	Update(ctx context.Context, p *model.Process) (*model.Process, error)
	List(ctx context.Context, req model.PageRequest) (model.Page[model.Process], error)
	Delete(ctx context.Context, id string) (bool, error)
	DeleteAll(ctx context.Context) (int64, error)
}

// JobRecordRepository defines the interface for job record data operations.
// Returned records carry the key and name of their process.
type JobRecordRepository interface {
	Create(ctx context.Context, rec *model.JobRecord) (*model.JobRecord, error)
	GetByID(ctx context.Context, id string) (*model.JobRecord, error)
	Update(ctx context.Context, rec *model.JobRecord) (*model.JobRecord, error)
	List(ctx context.Context, filter model.JobRecordFilter, req model.PageRequest) (model.Page[model.JobRecord], error)
	Delete(ctx context.Context, id string) (bool, error)
	DeleteAll(ctx context.Context) (int64, error)
}
