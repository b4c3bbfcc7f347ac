package nats

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/multillm/survey-stack/common/messaging"
)

var _ messaging.Publisher = (*Client)(nil)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, "nats://127.0.0.1:4222", cfg.URL)
	assert.Equal(t, -1, cfg.MaxReconnects)
	assert.Equal(t, 5*time.Second, cfg.Timeout)
}

func TestNewClient_Unreachable(t *testing.T) {
	cfg := DefaultConfig()
	cfg.URL = "nats://127.0.0.1:1"
	cfg.MaxReconnects = 0
	cfg.Timeout = 200 * time.Millisecond

	client, err := NewClient(cfg)
	assert.Error(t, err)
	assert.Nil(t, client)
}
