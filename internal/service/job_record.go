package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/giraone/jobadmin/internal/core"
	"github.com/giraone/jobadmin/internal/domain/model"
	apperrors "github.com/giraone/jobadmin/internal/errors"
)

// JobRecordServiceOptions groups dependencies for JobRecordService.
type JobRecordServiceOptions struct {
	Repo      core.JobRecordRepository // Required
	Processes core.ProcessRepository   // Optional: verifies the referenced process
	Logger    *slog.Logger             // Optional
}

// JobRecordService implements job record CRUD for the REST API.
type JobRecordService struct {
	repo      core.JobRecordRepository
	processes core.ProcessRepository
	logger    *slog.Logger
}

// NewJobRecordService constructs a new JobRecordService.
func NewJobRecordService(opts JobRecordServiceOptions) *JobRecordService {
	if opts.Repo == nil {
		panic("JobRecordService requires a Repo")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &JobRecordService{
		repo:      opts.Repo,
		processes: opts.Processes,
		logger:    logger.With("component", "job_record_service"),
	}
}

// Create validates and stores a new job record.
func (s *JobRecordService) Create(ctx context.Context, rec *model.JobRecord) (*model.JobRecord, error) {
	if err := s.validate(ctx, rec); err != nil {
		return nil, err
	}
	created, err := s.repo.Create(ctx, rec)
	if err != nil {
		return nil, err
	}
	s.logger.DebugContext(ctx, "job record created", "id", created.ID, "status", created.Status)
	return created, nil
}

// GetByID retrieves a job record by id.
func (s *JobRecordService) GetByID(ctx context.Context, id string) (*model.JobRecord, error) {
	return s.repo.GetByID(ctx, id)
}

// Update validates and replaces an existing job record.
func (s *JobRecordService) Update(ctx context.Context, rec *model.JobRecord) (*model.JobRecord, error) {
	if err := s.validate(ctx, rec); err != nil {
		return nil, err
	}
	return s.repo.Update(ctx, rec)
}

// Patch merges the set fields of patch into the stored job record.
func (s *JobRecordService) Patch(ctx context.Context, id string, patch model.JobRecordPatch) (*model.JobRecord, error) {
	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	patch.Apply(current)
	if err := s.validate(ctx, current); err != nil {
		return nil, err
	}
	updated, err := s.repo.Update(ctx, current)
	if err != nil {
		return nil, fmt.Errorf("patch job record: %w", err)
	}
	return updated, nil
}

// List returns one page of job records matching filter.
func (s *JobRecordService) List(
	ctx context.Context,
	filter model.JobRecordFilter,
	req model.PageRequest,
) (model.Page[model.JobRecord], error) {
	if filter.Status != "" && !filter.Status.Valid() {
		return model.Page[model.JobRecord]{}, apperrors.ValidationField("status",
			fmt.Sprintf("unsupported status %q", filter.Status))
	}
	return s.repo.List(ctx, filter, NormalizePageRequest(req))
}

// Delete deletes a job record by id.
func (s *JobRecordService) Delete(ctx context.Context, id string) (bool, error) {
	return s.repo.Delete(ctx, id)
}

// DeleteAll deletes all job records.
func (s *JobRecordService) DeleteAll(ctx context.Context) (int64, error) {
	n, err := s.repo.DeleteAll(ctx)
	if err != nil {
		return 0, err
	}
	s.logger.InfoContext(ctx, "all job records deleted", "count", n)
	return n, nil
}

func (s *JobRecordService) validate(ctx context.Context, rec *model.JobRecord) error {
	if rec == nil {
		return errors.New("job record is required")
	}
	if err := rec.Validate(); err != nil {
		return validationError(err)
	}
	if s.processes == nil {
		return nil
	}
	if _, err := s.processes.GetByID(ctx, rec.ProcessID()); err != nil {
		if apperrors.IsNotFound(err) {
			return apperrors.ValidationField("process", "referenced process does not exist")
		}
		return fmt.Errorf("check process: %w", err)
	}
	return nil
}
