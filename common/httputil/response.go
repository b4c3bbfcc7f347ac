package httputil

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

// Failure is the body returned by every endpoint when an operation fails.
type Failure struct {
	OK    bool   `json:"ok"`
	Error string `json:"error"`
}

// WriteJSON writes data as JSON with the given status code.
// Encoding errors are logged since the header is already sent.
func WriteJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("failed to encode JSON response", slog.String("error", err.Error()))
	}
}

// WriteFailure writes `{ "ok": false, "error": message }`.
func WriteFailure(w http.ResponseWriter, status int, message string) {
	WriteJSON(w, status, Failure{OK: false, Error: message})
}
