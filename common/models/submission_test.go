package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPayloadText(t *testing.T) {
	p := Payload{
		"name":         "Alice",
		"satisfaction": float64(5),
		"ratio":        0.25,
		"agreed":       true,
		"missing":      nil,
		"tags":         []any{"a", "b"},
	}

	tests := []struct {
		key  string
		want string
	}{
		{"name", "Alice"},
		{"satisfaction", "5"},
		{"ratio", "0.25"},
		{"agreed", "true"},
		{"missing", ""},
		{"absent", ""},
		{"tags", `["a","b"]`},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			assert.Equal(t, tt.want, p.Text(tt.key))
		})
	}
}

func TestSubmissionJSON(t *testing.T) {
	received := time.Date(2025, 3, 1, 9, 30, 0, 123000000, time.UTC)
	s := Submission{ID: 42, ReceivedAt: received, Payload: Payload{"name": "A"}}

	data, err := json.Marshal(s)
	require.NoError(t, err)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))
	assert.Equal(t, float64(42), raw["id"])
	assert.Equal(t, "2025-03-01T09:30:00.123Z", raw["receivedAt"])
	assert.Equal(t, map[string]any{"name": "A"}, raw["payload"])
	assert.Equal(t, "2025-03-01T09:30:00.123Z", s.ReceivedAtString())
	assert.Equal(t, "42", s.IDString())
}

func TestPayloadClone(t *testing.T) {
	orig := Payload{"name": "A"}
	c := orig.Clone()
	c["name"] = "B"
	assert.Equal(t, "A", orig["name"])
	assert.NotNil(t, Payload(nil).Clone())
}

func TestSubmissionJSON_KeepsTrailingZeroMillis(t *testing.T) {
	s := Submission{ID: 1, ReceivedAt: time.Date(2025, 3, 1, 5, 51, 57, 120000000, time.FixedZone("KST", 9*3600))}

	data, err := json.Marshal(s)
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":1,"receivedAt":"2025-02-28T20:51:57.120Z","payload":null}`, string(data))

	var back Submission
	require.NoError(t, json.Unmarshal(data, &back))
	assert.True(t, s.ReceivedAt.Equal(back.ReceivedAt))
}

func TestPayloadUnmarshal_KeepsNumbersExact(t *testing.T) {
	var s Submission
	require.NoError(t, json.Unmarshal([]byte(`{"id":3,"receivedAt":"2025-03-01T09:30:00.000Z","payload":{"phone":9007199254740993,"score":4.50,"nested":{"n":12345678901234567}}}`), &s))

	assert.Equal(t, json.Number("9007199254740993"), s.Payload["phone"])
	assert.Equal(t, "4.50", s.Payload.Text("score"))
	assert.Equal(t, map[string]any{"n": json.Number("12345678901234567")}, s.Payload["nested"])

	out, err := json.Marshal(s.Payload)
	require.NoError(t, err)
	assert.Contains(t, string(out), `"phone":9007199254740993`)
}

func TestPayloadUnmarshal_Null(t *testing.T) {
	p := Payload{"stale": "x"}
	require.NoError(t, json.Unmarshal([]byte(`null`), &p))
	assert.Nil(t, p)

	assert.Error(t, json.Unmarshal([]byte(`[1,2]`), &p))
}
