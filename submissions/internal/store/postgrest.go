package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/multillm/survey-stack/common/database"
	"github.com/multillm/survey-stack/common/models"
	"github.com/multillm/survey-stack/common/postgrest"
)

// Columns projected by every list read, in this order.
var SubmissionColumns = []string{"id", "receivedAt", "payload"}

// PostgRESTStore stores submissions in a hosted relational table reached over
// its row-query HTTP API. The service assigns ids.
type PostgRESTStore struct {
	client *postgrest.Client
	now    func() time.Time
}

// NewPostgRESTStore returns a store for the table described by cfg.
// Missing URL or key yields ErrStorageUnavailable.
func NewPostgRESTStore(cfg postgrest.Config) (*PostgRESTStore, error) {
	client, err := postgrest.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}
	return &PostgRESTStore{client: client, now: time.Now}, nil
}

func (s *PostgRESTStore) Name() string { return "postgrest" }

func (s *PostgRESTStore) Close() error { return nil }

type insertRow struct {
	Payload    models.Payload `json:"payload"`
	ReceivedAt string         `json:"receivedAt"`
}

func (s *PostgRESTStore) Append(ctx context.Context, payload models.Payload) (*models.Submission, error) {
	ctx, cancel := database.AppendContext(ctx)
	defer cancel()

	receivedAt := s.now().UTC().Truncate(time.Millisecond)
	if payload == nil {
		payload = models.Payload{}
	}

	rows := []insertRow{{Payload: payload, ReceivedAt: receivedAt.Format(models.TimestampLayout)}}
	var created []struct {
		ID int64 `json:"id"`
	}
	if err := s.client.Insert(ctx, rows, []string{"id"}, &created); err != nil {
		return nil, classify(err)
	}
	if len(created) != 1 {
		return nil, fmt.Errorf("%w: insert returned %d rows", ErrWriteFailure, len(created))
	}

	return &models.Submission{
		ID:         created[0].ID,
		ReceivedAt: receivedAt,
		Payload:    payload,
	}, nil
}

func (s *PostgRESTStore) List(ctx context.Context) ([]models.Submission, error) {
	ctx, cancel := database.ListContext(ctx)
	defer cancel()

	submissions := []models.Submission{}
	if err := s.client.Select(ctx, SubmissionColumns, "id.asc", &submissions); err != nil {
		return nil, classify(err)
	}
	if submissions == nil {
		submissions = []models.Submission{}
	}
	return submissions, nil
}

// classify maps client errors onto the store taxonomy: service-reported
// failures are backend errors, everything else means the service is unreachable.
func classify(err error) error {
	var apiErr *postgrest.APIError
	if errors.As(err, &apiErr) {
		return fmt.Errorf("%w: %s", ErrBackendError, apiErr.Error())
	}
	if errors.Is(err, context.Canceled) {
		return err
	}
	return fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
}
