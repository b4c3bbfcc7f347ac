package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/multillm/survey-stack/common/logging"
	"github.com/multillm/survey-stack/common/messaging"
	"github.com/multillm/survey-stack/common/models"
	"github.com/multillm/survey-stack/submissions/internal/metrics"
	"github.com/multillm/survey-stack/submissions/internal/store"
)

// SubmissionService fronts the Record Store for the HTTP handlers.
// A nil store is allowed; every call then fails with the configuration error.
type SubmissionService struct {
	store     store.Store
	publisher messaging.Publisher
	logger    *logging.Logger
	configErr error
}

func NewSubmissionService(st store.Store, publisher messaging.Publisher, logger *logging.Logger) *SubmissionService {
	if publisher == nil {
		publisher = messaging.NoopPublisher{}
	}
	if logger == nil {
		logger = logging.Default()
	}
	s := &SubmissionService{
		store:     st,
		publisher: publisher,
		logger:    logger,
	}
	if st == nil {
		s.configErr = store.ErrConfigurationMissing
	}
	return s
}

// SetConfigError records why no store is available so handlers can report it.
func (s *SubmissionService) SetConfigError(err error) {
	if s.store == nil && err != nil {
		s.configErr = err
	}
}

// Configured reports whether a backend is attached.
func (s *SubmissionService) Configured() bool {
	return s.store != nil
}

// ConfigError returns the configuration problem, or nil when configured.
func (s *SubmissionService) ConfigError() error {
	if s.store != nil {
		return nil
	}
	return s.configErr
}

// Backend returns the attached backend name, or "" when unconfigured.
func (s *SubmissionService) Backend() string {
	if s.store == nil {
		return ""
	}
	return s.store.Name()
}

// Submit appends payload and announces the new submission.
func (s *SubmissionService) Submit(ctx context.Context, payload models.Payload) (*models.Submission, error) {
	if s.store == nil {
		metrics.SubmissionsTotal.WithLabelValues("unconfigured").Inc()
		return nil, s.configErr
	}

	backend := s.store.Name()
	start := time.Now()
	sub, err := s.store.Append(ctx, payload)
	metrics.StoreDuration.WithLabelValues(backend, "append").Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.StoreErrors.WithLabelValues(backend, "append").Inc()
		metrics.SubmissionsTotal.WithLabelValues("error").Inc()
		s.logger.WithContext(ctx).Error("failed to append submission",
			logging.Backend(backend),
			logging.Error(err),
		)
		return nil, fmt.Errorf("append submission: %w", err)
	}
	metrics.SubmissionsTotal.WithLabelValues("ok").Inc()

	s.logger.WithContext(ctx).Info("submission stored",
		logging.SubmissionID(sub.ID),
		logging.Backend(backend),
	)

	if err := messaging.PublishJSON(ctx, s.publisher, messaging.SubjectSubmissionsCreated, sub); err != nil {
		metrics.PublishErrors.Inc()
		s.logger.WithContext(ctx).Warn("failed to publish submission event",
			logging.SubmissionID(sub.ID),
			logging.Error(err),
		)
	}

	return sub, nil
}

// List returns every stored submission ascending by id.
func (s *SubmissionService) List(ctx context.Context) ([]models.Submission, error) {
	if s.store == nil {
		metrics.QueriesTotal.WithLabelValues("unconfigured").Inc()
		return nil, s.configErr
	}

	backend := s.store.Name()
	start := time.Now()
	subs, err := s.store.List(ctx)
	metrics.StoreDuration.WithLabelValues(backend, "list").Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.StoreErrors.WithLabelValues(backend, "list").Inc()
		metrics.QueriesTotal.WithLabelValues("error").Inc()
		s.logger.WithContext(ctx).Error("failed to list submissions",
			logging.Backend(backend),
			logging.Error(err),
		)
		return nil, fmt.Errorf("list submissions: %w", err)
	}
	if subs == nil {
		subs = []models.Submission{}
	}
	metrics.QueriesTotal.WithLabelValues("ok").Inc()
	return subs, nil
}

// IsConfigError reports whether err stems from a missing backend configuration.
func IsConfigError(err error) bool {
	return errors.Is(err, store.ErrConfigurationMissing)
}
