// Package messaging defines the publishing side of the message bus used to
// announce stored submissions to downstream consumers.
package messaging

import (
	"context"
	"encoding/json"
	"fmt"
)

// Publisher publishes messages to subjects.
type Publisher interface {
	// Publish sends data to subject. Fire-and-forget.
	Publish(ctx context.Context, subject string, data []byte) error

	// Close releases any resources held by the publisher.
	Close() error
}

// PublishJSON marshals v and publishes it on subject.
func PublishJSON(ctx context.Context, p Publisher, subject string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal message: %w", err)
	}
	return p.Publish(ctx, subject, data)
}

// NoopPublisher drops every message. Used when no broker is configured.
type NoopPublisher struct{}

func (NoopPublisher) Publish(ctx context.Context, subject string, data []byte) error {
	return ctx.Err()
}

func (NoopPublisher) Close() error { return nil }
