package models

import (
	"bytes"
	"encoding/json"
	"strconv"
	"time"
)

// TimestampLayout renders receivedAt the way browsers' toISOString does.
const TimestampLayout = "2006-01-02T15:04:05.000Z07:00"

// Payload is the free-form survey answer set supplied by the form client.
// The store never interprets its shape.
type Payload map[string]any

// Submission is one persisted survey response.
type Submission struct {
	ID         int64     `json:"id"`
	ReceivedAt time.Time `json:"receivedAt"`
	Payload    Payload   `json:"payload"`
}

// MarshalJSON writes receivedAt with fixed millisecond precision so API output
// matches the exported CSV column.
func (s Submission) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		ID         int64   `json:"id"`
		ReceivedAt string  `json:"receivedAt"`
		Payload    Payload `json:"payload"`
	}{
		ID:         s.ID,
		ReceivedAt: s.ReceivedAt.UTC().Format(TimestampLayout),
		Payload:    s.Payload,
	})
}

// IDString returns the id in the form used for filtering and export.
func (s Submission) IDString() string {
	return strconv.FormatInt(s.ID, 10)
}

// ReceivedAtString formats receivedAt in UTC with millisecond precision.
func (s Submission) ReceivedAtString() string {
	if s.ReceivedAt.IsZero() {
		return ""
	}
	return s.ReceivedAt.UTC().Format(TimestampLayout)
}

// Text renders a payload value as display text.
// Absent keys and nulls yield an empty string; nested values are rendered as compact JSON.
func (p Payload) Text(key string) string {
	v, ok := p[key]
	if !ok || v == nil {
		return ""
	}
	switch val := v.(type) {
	case string:
		return val
	case bool:
		return strconv.FormatBool(val)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(val), 'f', -1, 32)
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case json.Number:
		return val.String()
	default:
		b, err := json.Marshal(val)
		if err != nil {
			return ""
		}
		return string(b)
	}
}

// UnmarshalJSON keeps numbers as json.Number so large integers survive a
// store round trip unchanged.
func (p *Payload) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*p = nil
		return nil
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var m map[string]any
	if err := dec.Decode(&m); err != nil {
		return err
	}
	*p = m
	return nil
}

// Clone returns a shallow copy so callers cannot mutate stored payloads.
func (p Payload) Clone() Payload {
	if p == nil {
		return Payload{}
	}
	out := make(Payload, len(p))
	for k, v := range p {
		out[k] = v
	}
	return out
}
