// Package admin implements the administrator view of survey submissions:
// tiered retrieval, the filtered board shown to the operator, polling and
// CSV export.
package admin

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/multillm/survey-stack/cli/internal/client"
	"github.com/multillm/survey-stack/common/logging"
	"github.com/multillm/survey-stack/common/models"
	"github.com/multillm/survey-stack/common/postgrest"
)

const (
	TierAPI        = "api"
	TierRelational = "relational"
)

// ErrAllTiersFailed is returned when no retrieval tier produced a result.
var ErrAllTiersFailed = errors.New("all retrieval tiers failed")

// submissionColumns is the projection read from the relational table.
var submissionColumns = []string{"id", "receivedAt", "payload"}

// Tier is one way of obtaining the full submission list.
type Tier struct {
	Name  string
	Fetch func(ctx context.Context) ([]models.Submission, error)
}

// Result is a successful retrieval and the tier that produced it.
type Result struct {
	Items []models.Submission
	Tier  string
}

// Fetcher is satisfied by Retriever; the board depends on this only.
type Fetcher interface {
	Fetch(ctx context.Context) (Result, error)
}

// Retriever tries its tiers in order and stops at the first success.
// Tiers are never retried or raced.
type Retriever struct {
	tiers  []Tier
	logger *logging.Logger
}

func NewRetriever(logger *logging.Logger, tiers ...Tier) *Retriever {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Retriever{tiers: tiers, logger: logger}
}

// Tiers returns the tier names in the order they are tried.
func (r *Retriever) Tiers() []string {
	names := make([]string, len(r.tiers))
	for i, t := range r.tiers {
		names[i] = t.Name
	}
	return names
}

func (r *Retriever) Fetch(ctx context.Context) (Result, error) {
	if len(r.tiers) == 0 {
		return Result{}, fmt.Errorf("%w: no tiers configured", ErrAllTiersFailed)
	}

	var lastErr error
	for _, tier := range r.tiers {
		items, err := tier.Fetch(ctx)
		if err == nil {
			if items == nil {
				items = []models.Submission{}
			}
			r.logger.DebugContext(ctx, "submissions retrieved",
				logging.Tier(tier.Name),
				logging.Count(len(items)),
			)
			return Result{Items: items, Tier: tier.Name}, nil
		}

		lastErr = fmt.Errorf("%s tier: %w", tier.Name, err)
		r.logger.WarnContext(ctx, "retrieval tier failed",
			logging.Tier(tier.Name),
			logging.Error(err),
		)
		if ctx.Err() != nil {
			break
		}
	}

	return Result{}, errors.Join(ErrAllTiersFailed, lastErr)
}

// APITier reads through the service's query endpoint.
func APITier(c *client.SubmissionsClient) Tier {
	return Tier{
		Name:  TierAPI,
		Fetch: c.List,
	}
}

// RelationalTier reads the submissions table directly. The client must be
// built with a read-only key.
func RelationalTier(c *postgrest.Client) Tier {
	return Tier{
		Name: TierRelational,
		Fetch: func(ctx context.Context) ([]models.Submission, error) {
			var rows []models.Submission
			if err := c.Select(ctx, submissionColumns, "id.asc", &rows); err != nil {
				return nil, err
			}
			return rows, nil
		},
	}
}

// Sources describes where a deployment can be read from.
type Sources struct {
	APIURL      string
	RESTURL     string
	RESTReadKey string
	Timeout     time.Duration
}

// BuildTiers returns the API tier followed by the relational fallback, each
// included only when its location (and key) is known.
func BuildTiers(src Sources) ([]Tier, error) {
	timeout := src.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	var tiers []Tier
	if src.APIURL != "" {
		c := client.NewSubmissionsClient(src.APIURL)
		c.SetTimeout(timeout)
		tiers = append(tiers, APITier(c))
	}
	if src.RESTURL != "" && src.RESTReadKey != "" {
		pc, err := postgrest.New(postgrest.Config{
			URL:     src.RESTURL,
			Key:     src.RESTReadKey,
			Timeout: timeout,
		})
		if err != nil {
			return nil, err
		}
		tiers = append(tiers, RelationalTier(pc))
	}
	if len(tiers) == 0 {
		return nil, errors.New("no submission source configured: set api_url or rest_url + rest_read_key")
	}
	return tiers, nil
}
