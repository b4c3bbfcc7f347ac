package seeder

import (
	"context"
	"log"
	"time"

	"github.com/multillm/survey-stack/common/models"
)

// Submitter posts one payload and returns the id the service assigned.
type Submitter interface {
	Submit(ctx context.Context, payload models.Payload) (int64, error)
}

// Runner handles the seeding execution
type Runner struct {
	Config    *Config
	Submitter Submitter
	Generator *Generator
	Logger    *log.Logger
}

// Report summarises one run.
type Report struct {
	Sent   int
	Failed int
	IDs    []int64
}

// NewRunner creates a new seeder runner
func NewRunner(config *Config, submitter Submitter) *Runner {
	return &Runner{
		Config:    config,
		Submitter: submitter,
		Generator: NewGenerator(config.Defaults.Seed, config.Answers),
		Logger:    log.Default(),
	}
}

// Run posts Config.Defaults.Count generated submissions, one at a time.
// Individual failures are counted, not returned; only cancellation stops early.
func (r *Runner) Run(ctx context.Context) (Report, error) {
	var report Report
	count := r.Config.Defaults.Count

	r.Logger.Printf("Starting survey seeder:")
	r.Logger.Printf("  API URL: %s", r.Config.Defaults.APIURL)
	r.Logger.Printf("  Submission count: %d", count)
	r.Logger.Printf("  Interval: %v", r.Config.Defaults.Interval)

	for i := 0; i < count; i++ {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		id, err := r.Submitter.Submit(ctx, r.Generator.Payload())
		if err != nil {
			r.Logger.Printf("Failed to submit #%d: %v", i+1, err)
			report.Failed++
		} else {
			report.Sent++
			report.IDs = append(report.IDs, id)
		}

		if r.Config.Defaults.Interval > 0 && i < count-1 {
			select {
			case <-ctx.Done():
				return report, ctx.Err()
			case <-time.After(r.Config.Defaults.Interval):
			}
		}
	}

	r.Logger.Printf("Seeding complete: %d sent, %d failed", report.Sent, report.Failed)
	return report, nil
}
