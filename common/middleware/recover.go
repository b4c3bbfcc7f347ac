package middleware

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
)

// Recover turns a panic in next into a 500 `{ok:false,error}` response so a
// handler fault never reaches the transport layer.
func Recover(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			if rec == http.ErrAbortHandler {
				panic(rec)
			}
			slog.ErrorContext(r.Context(), "handler panic",
				slog.String("path", r.URL.Path),
				slog.String("request_id", GetRequestID(r.Context())),
				slog.Any("panic", rec),
			)
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusInternalServerError)
			_ = json.NewEncoder(w).Encode(map[string]any{
				"ok":    false,
				"error": fmt.Sprintf("internal error: %v", rec),
			})
		}()
		next.ServeHTTP(w, r)
	})
}
