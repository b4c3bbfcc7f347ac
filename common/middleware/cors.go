package middleware

import (
	"net/http"
	"strconv"
	"strings"
)

// CORSConfig controls which browser origins may call the API.
// The survey form and the admin page are often served from another origin
// (a dev server or static host), so the API answers cross-origin requests.
type CORSConfig struct {
	AllowedOrigins []string
	AllowedMethods []string
	AllowedHeaders []string
	MaxAge         int
}

// DefaultCORSConfig allows any origin to POST submissions and GET the list.
func DefaultCORSConfig() CORSConfig {
	return CORSConfig{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", "X-Request-ID"},
		MaxAge:         600,
	}
}

// CORS returns a middleware that handles Cross-Origin Resource Sharing.
// Origins may be exact ("https://admin.example.com"), a subdomain wildcard
// ("*.example.com") or "*" for any origin.
func CORS(config CORSConfig) func(http.Handler) http.Handler {
	allowedMethods := strings.Join(config.AllowedMethods, ", ")
	allowedHeaders := strings.Join(config.AllowedHeaders, ", ")
	maxAge := "300"
	if config.MaxAge > 0 {
		maxAge = strconv.Itoa(config.MaxAge)
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if origin := r.Header.Get("Origin"); origin != "" {
				if allowed := matchOrigin(config.AllowedOrigins, origin); allowed != "" {
					w.Header().Set("Access-Control-Allow-Origin", allowed)
					w.Header().Add("Vary", "Origin")
				}
			}

			w.Header().Set("Access-Control-Allow-Methods", allowedMethods)
			w.Header().Set("Access-Control-Allow-Headers", allowedHeaders)
			w.Header().Set("Access-Control-Max-Age", maxAge)

			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// matchOrigin returns the value for Access-Control-Allow-Origin, or "" if origin is not allowed.
func matchOrigin(allowed []string, origin string) string {
	for _, a := range allowed {
		switch {
		case a == "*":
			return "*"
		case strings.HasPrefix(a, "*."):
			if strings.HasSuffix(origin, strings.TrimPrefix(a, "*")) {
				return origin
			}
		case a == origin:
			return origin
		}
	}
	return ""
}
