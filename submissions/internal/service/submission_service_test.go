package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/multillm/survey-stack/common/logging"
	"github.com/multillm/survey-stack/common/messaging"
	"github.com/multillm/survey-stack/common/models"
	"github.com/multillm/survey-stack/submissions/internal/store"
)

type memoryStore struct {
	mu        sync.Mutex
	items     []models.Submission
	appendErr error
	listErr   error
}

func (m *memoryStore) Append(ctx context.Context, payload models.Payload) (*models.Submission, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.appendErr != nil {
		return nil, m.appendErr
	}
	sub := models.Submission{
		ID:         int64(len(m.items) + 1),
		ReceivedAt: time.Date(2025, 3, 1, 9, 0, len(m.items), 0, time.UTC),
		Payload:    payload.Clone(),
	}
	m.items = append(m.items, sub)
	return &sub, nil
}

func (m *memoryStore) List(ctx context.Context) ([]models.Submission, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.listErr != nil {
		return nil, m.listErr
	}
	return append([]models.Submission(nil), m.items...), nil
}

func (m *memoryStore) Name() string { return "memory" }
func (m *memoryStore) Close() error { return nil }

type recordingPublisher struct {
	subjects []string
	payloads [][]byte
	err      error
}

func (r *recordingPublisher) Publish(ctx context.Context, subject string, data []byte) error {
	if r.err != nil {
		return r.err
	}
	r.subjects = append(r.subjects, subject)
	r.payloads = append(r.payloads, data)
	return nil
}

func (r *recordingPublisher) Close() error { return nil }

func TestSubmit_StoresAndPublishes(t *testing.T) {
	st := &memoryStore{}
	pub := &recordingPublisher{}
	svc := NewSubmissionService(st, pub, logging.Discard())

	sub, err := svc.Submit(context.Background(), models.Payload{"name": "Kim"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), sub.ID)
	assert.Equal(t, "Kim", sub.Payload.Text("name"))

	require.Len(t, pub.subjects, 1)
	assert.Equal(t, messaging.SubjectSubmissionsCreated, pub.subjects[0])

	var announced models.Submission
	require.NoError(t, json.Unmarshal(pub.payloads[0], &announced))
	assert.Equal(t, sub.ID, announced.ID)
}

func TestSubmit_PublishFailureIsNotReturned(t *testing.T) {
	svc := NewSubmissionService(&memoryStore{}, &recordingPublisher{err: errors.New("nats down")}, logging.Discard())

	sub, err := svc.Submit(context.Background(), models.Payload{})
	require.NoError(t, err)
	assert.NotNil(t, sub)
}

func TestSubmit_StoreFailure(t *testing.T) {
	st := &memoryStore{appendErr: fmt.Errorf("%w: disk full", store.ErrWriteFailure)}
	pub := &recordingPublisher{}
	svc := NewSubmissionService(st, pub, logging.Discard())

	_, err := svc.Submit(context.Background(), models.Payload{"a": 1})
	require.Error(t, err)
	assert.ErrorIs(t, err, store.ErrWriteFailure)
	assert.Empty(t, pub.subjects)
}

func TestList(t *testing.T) {
	st := &memoryStore{}
	svc := NewSubmissionService(st, nil, logging.Discard())

	subs, err := svc.List(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, subs)
	assert.Empty(t, subs)

	for i := 0; i < 3; i++ {
		_, err := svc.Submit(context.Background(), models.Payload{"n": i})
		require.NoError(t, err)
	}
	subs, err = svc.List(context.Background())
	require.NoError(t, err)
	require.Len(t, subs, 3)
	assert.Less(t, subs[0].ID, subs[2].ID)

	st.listErr = fmt.Errorf("%w: connection refused", store.ErrStorageUnavailable)
	_, err = svc.List(context.Background())
	assert.ErrorIs(t, err, store.ErrStorageUnavailable)
}

func TestUnconfigured(t *testing.T) {
	svc := NewSubmissionService(nil, nil, logging.Discard())
	assert.False(t, svc.Configured())
	assert.Empty(t, svc.Backend())

	_, err := svc.Submit(context.Background(), models.Payload{})
	assert.True(t, IsConfigError(err))

	_, err = svc.List(context.Background())
	assert.True(t, IsConfigError(err))

	cause := fmt.Errorf("%w: missing storage.postgrest.url / storage.postgrest.key", store.ErrConfigurationMissing)
	svc.SetConfigError(cause)
	_, err = svc.List(context.Background())
	assert.Equal(t, cause, err)
	assert.Equal(t, cause, svc.ConfigError())
}

func TestConfigured(t *testing.T) {
	svc := NewSubmissionService(&memoryStore{}, nil, nil)
	assert.True(t, svc.Configured())
	assert.Equal(t, "memory", svc.Backend())
	assert.NoError(t, svc.ConfigError())

	svc.SetConfigError(errors.New("ignored"))
	assert.NoError(t, svc.ConfigError())
}
