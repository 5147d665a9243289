// Package mocks provides mock implementations of the jobadmin repository ports.
//
// This package uses go.uber.org/mock (gomock) to generate type-safe mocks for our repository interfaces.
//
// To regenerate mocks after interface changes, run:
//
//	go generate ./internal/mocks
//
// Usage in tests:
//
//	ctrl := gomock.NewController(t)
//	repo := mocks.NewMockJobRecordRepository(ctrl)
//	repo.EXPECT().GetByID(gomock.Any(), "123").Return(rec, nil)
package mocks

// Generate mock for ProcessRepository interface from internal/core package.
// Create, GetByID, Update, List, Delete, DeleteAll
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=process_repository_mock.go github.com/giraone/jobadmin/internal/core ProcessRepository

// Generate mock for JobRecordRepository interface from internal/core package.
// Create, GetByID, Update, List, Delete, DeleteAll
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=job_record_repository_mock.go github.com/giraone/jobadmin/internal/core JobRecordRepository
