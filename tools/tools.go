//go:build tools

// Package tools lists the development tools used by jobadmin. They are
// installed with `go install` and are not tracked in go.mod.
package tools

// mockgen regenerates internal/mocks and internal/core/cache_mock.go:
//   go install go.uber.org/mock/mockgen@v0.6.0
//   go generate ./internal/mocks/... ./internal/core/...
//
// air reloads the console while editing frontend/templates (DEV=true):
//   go install github.com/air-verse/air@v1.63.0
