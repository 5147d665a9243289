package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/giraone/jobadmin/internal/core"
	"github.com/giraone/jobadmin/internal/domain/model"
)

// ProcessServiceOptions groups dependencies for ProcessService.
type ProcessServiceOptions struct {
	Repo   core.ProcessRepository // Required
	Logger *slog.Logger           // Optional
}

// ProcessService implements process CRUD for the REST API.
type ProcessService struct {
	repo   core.ProcessRepository
	logger *slog.Logger
}

// NewProcessService constructs a new ProcessService.
func NewProcessService(opts ProcessServiceOptions) *ProcessService {
	if opts.Repo == nil {
		panic("ProcessService requires a Repo")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &ProcessService{repo: opts.Repo, logger: logger.With("component", "process_service")}
}

// Create validates and stores a new process.
func (s *ProcessService) Create(ctx context.Context, p *model.Process) (*model.Process, error) {
	if p == nil {
		return nil, errors.New("process is required")
	}
	if err := p.Validate(); err != nil {
		return nil, validationError(err)
	}
	created, err := s.repo.Create(ctx, p)
	if err != nil {
		return nil, err
	}
	s.logger.InfoContext(ctx, "process created", "id", created.ID, "key", created.Key)
	return created, nil
}

// GetByID retrieves a process by id.
func (s *ProcessService) GetByID(ctx context.Context, id string) (*model.Process, error) {
	return s.repo.GetByID(ctx, id)
}

// Update validates and replaces an existing process.
func (s *ProcessService) Update(ctx context.Context, p *model.Process) (*model.Process, error) {
	if p == nil {
		return nil, errors.New("process is required")
	}
	if err := p.Validate(); err != nil {
		return nil, validationError(err)
	}
	return s.repo.Update(ctx, p)
}

// Patch merges the set fields of patch into the stored process.
func (s *ProcessService) Patch(ctx context.Context, id string, patch model.ProcessPatch) (*model.Process, error) {
	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	patch.Apply(current)
	if err := current.Validate(); err != nil {
		return nil, validationError(err)
	}
	updated, err := s.repo.Update(ctx, current)
	if err != nil {
		return nil, fmt.Errorf("patch process: %w", err)
	}
	return updated, nil
}

// List returns one page of processes.
func (s *ProcessService) List(ctx context.Context, req model.PageRequest) (model.Page[model.Process], error) {
	return s.repo.List(ctx, NormalizePageRequest(req))
}

// Delete deletes a process by id.
func (s *ProcessService) Delete(ctx context.Context, id string) (bool, error) {
	return s.repo.Delete(ctx, id)
}

// DeleteAll deletes all processes.
func (s *ProcessService) DeleteAll(ctx context.Context) (int64, error) {
	n, err := s.repo.DeleteAll(ctx)
	if err != nil {
		return 0, err
	}
	s.logger.InfoContext(ctx, "all processes deleted", "count", n)
	return n, nil
}
