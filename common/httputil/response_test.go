package httputil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteJSON(t *testing.T) {
	rr := httptest.NewRecorder()
	WriteJSON(rr, http.StatusOK, map[string]any{"ok": true, "id": 12})

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"ok":true,"id":12}`, rr.Body.String())
}

func TestWriteFailure(t *testing.T) {
	rr := httptest.NewRecorder()
	WriteFailure(rr, http.StatusMethodNotAllowed, "Method not allowed")

	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)
	var body Failure
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&body))
	assert.False(t, body.OK)
	assert.Equal(t, "Method not allowed", body.Error)
}
