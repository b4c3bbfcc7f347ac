// Package nats provides a NATS implementation of messaging.Publisher.
package nats

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"
)

// Client implements messaging.Publisher over a core NATS connection.
type Client struct {
	conn *nats.Conn
}

// Config holds NATS client configuration.
type Config struct {
	// URL is the NATS server URL (e.g., "nats://localhost:4222").
	URL string

	// Name identifies the connection on the server.
	Name string

	// MaxReconnects is the maximum number of reconnection attempts. -1 means forever.
	MaxReconnects int

	ReconnectWait time.Duration
	Timeout       time.Duration

	Username string
	Password string
	Token    string
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		URL:           nats.DefaultURL,
		Name:          "survey-submissions",
		MaxReconnects: -1,
		ReconnectWait: 2 * time.Second,
		Timeout:       5 * time.Second,
	}
}

// NewClient connects to NATS.
func NewClient(cfg Config) (*Client, error) {
	opts := []nats.Option{
		nats.Name(cfg.Name),
		nats.MaxReconnects(cfg.MaxReconnects),
		nats.ReconnectWait(cfg.ReconnectWait),
		nats.Timeout(cfg.Timeout),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				slog.Warn("NATS disconnected", slog.String("error", err.Error()))
			}
		}),
		nats.ReconnectHandler(func(_ *nats.Conn) {
			slog.Info("NATS reconnected")
		}),
	}

	if cfg.Username != "" && cfg.Password != "" {
		opts = append(opts, nats.UserInfo(cfg.Username, cfg.Password))
	}
	if cfg.Token != "" {
		opts = append(opts, nats.Token(cfg.Token))
	}

	conn, err := nats.Connect(cfg.URL, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	return &Client{conn: conn}, nil
}

// Publish sends data to subject.
func (c *Client) Publish(ctx context.Context, subject string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return c.conn.Publish(subject, data)
}

// IsConnected reports whether the connection is currently up.
func (c *Client) IsConnected() bool {
	return c.conn.IsConnected()
}

// Close flushes pending messages and closes the connection.
func (c *Client) Close() error {
	err := c.conn.Drain()
	if err != nil {
		c.conn.Close()
	}
	return err
}
