package httputil

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetClientIP(t *testing.T) {
	tests := []struct {
		name       string
		headers    map[string]string
		remoteAddr string
		want       string
	}{
		{
			name:       "X-Forwarded-For first entry",
			headers:    map[string]string{"X-Forwarded-For": "203.0.113.195, 70.41.3.18"},
			remoteAddr: "10.0.0.1:1234",
			want:       "203.0.113.195",
		},
		{
			name:       "X-Real-IP",
			headers:    map[string]string{"X-Real-IP": "198.51.100.7"},
			remoteAddr: "10.0.0.1:1234",
			want:       "198.51.100.7",
		},
		{
			name:       "RemoteAddr without port",
			remoteAddr: "192.0.2.10:55555",
			want:       "192.0.2.10",
		},
		{
			name:       "RemoteAddr that is not host:port",
			remoteAddr: "192.0.2.11",
			want:       "192.0.2.11",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/", nil)
			req.RemoteAddr = tt.remoteAddr
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			assert.Equal(t, tt.want, GetClientIP(req))
		})
	}
}
