package logging

import "log/slog"

// Common field names so every component logs the same keys.
const (
	FieldService      = "service"
	FieldRequestID    = "request_id"
	FieldIP           = "ip"
	FieldMethod       = "method"
	FieldPath         = "path"
	FieldStatus       = "status"
	FieldDuration     = "duration_ms"
	FieldError        = "error"
	FieldSubmissionID = "submission_id"
	FieldBackend      = "backend"
	FieldTier         = "tier"
	FieldCount        = "count"
)

func Service(name string) slog.Attr {
	return slog.String(FieldService, name)
}

func IP(ip string) slog.Attr {
	return slog.String(FieldIP, ip)
}

func Method(method string) slog.Attr {
	return slog.String(FieldMethod, method)
}

func Path(path string) slog.Attr {
	return slog.String(FieldPath, path)
}

func Status(code int) slog.Attr {
	return slog.Int(FieldStatus, code)
}

// Duration returns a slog attribute for a duration in milliseconds.
func Duration(ms int64) slog.Attr {
	return slog.Int64(FieldDuration, ms)
}

// Error returns a slog attribute for err. A nil error yields an empty value.
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(FieldError, "")
	}
	return slog.String(FieldError, err.Error())
}

func SubmissionID(id int64) slog.Attr {
	return slog.Int64(FieldSubmissionID, id)
}

func Backend(name string) slog.Attr {
	return slog.String(FieldBackend, name)
}

// Tier names the admin retrieval tier a log line refers to.
func Tier(name string) slog.Attr {
	return slog.String(FieldTier, name)
}

func Count(n int) slog.Attr {
	return slog.Int(FieldCount, n)
}
