package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/multillm/survey-stack/common/httputil"
	"github.com/multillm/survey-stack/common/logging"
	"github.com/multillm/survey-stack/common/models"
	"github.com/multillm/survey-stack/submissions/internal/metrics"
	"github.com/multillm/survey-stack/submissions/internal/ratelimit"
)

const DefaultMaxBodyBytes int64 = 1 << 20

// methodNotAllowedText is the body text form clients already match on.
const methodNotAllowedText = "Method not allowed"

var (
	ErrMethodNotAllowed = errors.New("method not allowed")
	ErrParseFailure     = errors.New("request body must be a JSON object")
	ErrRateLimited      = errors.New("too many submissions, try again later")
)

// SubmissionService is the behaviour the handlers need from the service layer.
type SubmissionService interface {
	Submit(ctx context.Context, payload models.Payload) (*models.Submission, error)
	List(ctx context.Context) ([]models.Submission, error)
	ConfigError() error
	Backend() string
}

type SubmitResponse struct {
	OK bool  `json:"ok"`
	ID int64 `json:"id"`
}

type PingResponse struct {
	OK  bool   `json:"ok"`
	Now string `json:"now"`
}

type SubmissionsHandler struct {
	service      SubmissionService
	rateLimiter  ratelimit.RateLimiter
	maxBodyBytes int64
	logger       *logging.Logger
	now          func() time.Time
}

// NewSubmissionsHandler wires the endpoints. A nil limiter disables rate limiting.
func NewSubmissionsHandler(service SubmissionService, rateLimiter ratelimit.RateLimiter, maxBodyBytes int64, logger *logging.Logger) *SubmissionsHandler {
	if rateLimiter == nil {
		rateLimiter = ratelimit.NoOpRateLimiter{}
	}
	if maxBodyBytes <= 0 {
		maxBodyBytes = DefaultMaxBodyBytes
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &SubmissionsHandler{
		service:      service,
		rateLimiter:  rateLimiter,
		maxBodyBytes: maxBodyBytes,
		logger:       logger,
		now:          time.Now,
	}
}

// Submit handles POST /api/submit. The whole body becomes the payload.
func (h *SubmissionsHandler) Submit(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		httputil.WriteFailure(w, http.StatusMethodNotAllowed, methodNotAllowedText)
		return
	}

	if err := h.service.ConfigError(); err != nil {
		metrics.SubmissionsTotal.WithLabelValues("unconfigured").Inc()
		httputil.WriteFailure(w, http.StatusInternalServerError, err.Error())
		return
	}

	clientIP := httputil.GetClientIP(r)
	allowed, err := h.rateLimiter.Allow(r.Context(), clientIP)
	if err != nil {
		h.logger.WithContext(r.Context()).Warn("rate limiter unavailable, allowing request",
			logging.IP(clientIP),
			logging.Error(err),
		)
		allowed = true
	}
	if !allowed {
		metrics.SubmissionsTotal.WithLabelValues("rate_limited").Inc()
		httputil.WriteFailure(w, http.StatusTooManyRequests, ErrRateLimited.Error())
		return
	}

	payload, err := h.readPayload(w, r)
	if err != nil {
		metrics.SubmissionsTotal.WithLabelValues("rejected").Inc()
		httputil.WriteFailure(w, http.StatusBadRequest, err.Error())
		return
	}

	sub, err := h.service.Submit(r.Context(), payload)
	if err != nil {
		httputil.WriteFailure(w, http.StatusInternalServerError, err.Error())
		return
	}

	httputil.WriteJSON(w, http.StatusOK, SubmitResponse{OK: true, ID: sub.ID})
}

func (h *SubmissionsHandler) readPayload(w http.ResponseWriter, r *http.Request) (models.Payload, error) {
	defer r.Body.Close()
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, h.maxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, fmt.Errorf("%w: body exceeds %d bytes", ErrParseFailure, tooLarge.Limit)
		}
		return nil, fmt.Errorf("%w: %v", ErrParseFailure, err)
	}
	metrics.SubmissionBytesTotal.Add(float64(len(body)))

	if len(bytes.TrimSpace(body)) == 0 {
		return models.Payload{}, nil
	}

	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	var payload models.Payload
	if err := dec.Decode(&payload); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParseFailure, err)
	}
	if payload == nil {
		// literal null
		return nil, ErrParseFailure
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, fmt.Errorf("%w: unexpected data after JSON object", ErrParseFailure)
	}
	return payload, nil
}

// List handles GET /api/submissions.
func (h *SubmissionsHandler) List(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		httputil.WriteFailure(w, http.StatusMethodNotAllowed, methodNotAllowedText)
		return
	}

	subs, err := h.service.List(r.Context())
	if err != nil {
		httputil.WriteFailure(w, http.StatusInternalServerError, err.Error())
		return
	}
	httputil.WriteJSON(w, http.StatusOK, subs)
}

func (h *SubmissionsHandler) Ping(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, PingResponse{
		OK:  true,
		Now: h.now().UTC().Format(models.TimestampLayout),
	})
}

func (h *SubmissionsHandler) Health(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

// Ready answers 503 until a storage backend is configured.
func (h *SubmissionsHandler) Ready(w http.ResponseWriter, r *http.Request) {
	if err := h.service.ConfigError(); err != nil {
		httputil.WriteJSON(w, http.StatusServiceUnavailable, map[string]string{
			"status": "not ready",
			"error":  err.Error(),
		})
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]string{
		"status":  "ready",
		"backend": h.service.Backend(),
	})
}
