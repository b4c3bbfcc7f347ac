// Package store defines the Record Store contract for survey submissions and
// its backends: a local JSON file, a hosted row-query API and direct Postgres.
package store

import (
	"context"
	"errors"

	"github.com/multillm/survey-stack/common/models"
)

var (
	// ErrConfigurationMissing means the selected backend lacks its location or credentials.
	ErrConfigurationMissing = errors.New("storage backend is not configured")

	// ErrStorageUnavailable means the backend could not be reached or opened.
	ErrStorageUnavailable = errors.New("storage unavailable")

	// ErrWriteFailure means persisting failed after an id was reserved.
	// The record must not be assumed to exist.
	ErrWriteFailure = errors.New("write failure")

	// ErrBackendError wraps a failure reported by the remote service itself.
	ErrBackendError = errors.New("backend error")
)

// Store is the append/list contract every backend implements.
//
// Append assigns id and receivedAt, persists the submission and returns it.
// List returns every submission ascending by id; an empty store yields an
// empty slice.
type Store interface {
	Append(ctx context.Context, payload models.Payload) (*models.Submission, error)
	List(ctx context.Context) ([]models.Submission, error)
	Name() string
	Close() error
}
