package store

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/multillm/survey-stack/common/models"
	"github.com/multillm/survey-stack/common/postgrest"
)

// fakeRowService emulates the row-query API over an in-memory table with a
// serial id column.
type fakeRowService struct {
	mu     sync.Mutex
	nextID int64
	rows   []map[string]any
}

func (f *fakeRowService) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	switch r.Method {
	case http.MethodPost:
		var incoming []map[string]any
		dec := json.NewDecoder(r.Body)
		dec.UseNumber()
		if err := dec.Decode(&incoming); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"message":"bad json"}`))
			return
		}
		out := []map[string]any{}
		for _, row := range incoming {
			f.nextID++
			row["id"] = f.nextID
			f.rows = append(f.rows, row)
			out = append(out, map[string]any{"id": f.nextID})
		}
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(out)
	case http.MethodGet:
		_ = json.NewEncoder(w).Encode(f.rows)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func newFakePostgREST(t *testing.T, handler http.Handler) *PostgRESTStore {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	s, err := NewPostgRESTStore(postgrest.Config{URL: server.URL, Key: "service-key"})
	require.NoError(t, err)
	return s
}

func TestPostgRESTStore_Contract(t *testing.T) {
	runStoreContract(t, func(t *testing.T) Store {
		return newFakePostgREST(t, &fakeRowService{})
	})
}

func TestPostgRESTStore_MissingConfiguration(t *testing.T) {
	_, err := NewPostgRESTStore(postgrest.Config{URL: "", Key: ""})
	assert.ErrorIs(t, err, ErrStorageUnavailable)
}

func TestPostgRESTStore_AppendSendsPayloadAndTimestamp(t *testing.T) {
	var received []map[string]any
	s := newFakePostgREST(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "id", r.URL.Query().Get("select"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`[{"id":9}]`))
	}))

	created, err := s.Append(context.Background(), models.Payload{"name": "A", "modelUsed": "X"})
	require.NoError(t, err)
	assert.Equal(t, int64(9), created.ID)

	require.Len(t, received, 1)
	assert.Equal(t, map[string]any{"name": "A", "modelUsed": "X"}, received[0]["payload"])
	assert.Equal(t, created.ReceivedAtString(), received[0]["receivedAt"])
}

func TestPostgRESTStore_ListProjectionAndOrder(t *testing.T) {
	s := newFakePostgREST(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "id,receivedAt,payload", r.URL.Query().Get("select"))
		assert.Equal(t, "id.asc", r.URL.Query().Get("order"))
		_, _ = w.Write([]byte(`null`))
	}))

	got, err := s.List(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestPostgRESTStore_ServiceFailureIsBackendError(t *testing.T) {
	s := newFakePostgREST(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"message":"Invalid API key"}`))
	}))

	_, err := s.Append(context.Background(), models.Payload{})
	assert.ErrorIs(t, err, ErrBackendError)
	assert.Contains(t, err.Error(), "Invalid API key")

	_, err = s.List(context.Background())
	assert.ErrorIs(t, err, ErrBackendError)
}

func TestPostgRESTStore_UnreachableIsStorageUnavailable(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	s, err := NewPostgRESTStore(postgrest.Config{URL: url, Key: "k"})
	require.NoError(t, err)

	_, err = s.List(context.Background())
	assert.ErrorIs(t, err, ErrStorageUnavailable)
}

func TestPostgRESTStore_EmptyInsertResultIsWriteFailure(t *testing.T) {
	s := newFakePostgREST(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`[]`))
	}))

	_, err := s.Append(context.Background(), models.Payload{})
	assert.ErrorIs(t, err, ErrWriteFailure)
}
