package admin

import (
	"context"
	"time"
)

// DefaultPollInterval matches how often the admin view re-reads the list.
const DefaultPollInterval = 3 * time.Second

// Refresher is satisfied by Board.
type Refresher interface {
	Refresh(ctx context.Context) bool
}

// Poller drives a Refresher on a fixed interval and on demand.
// Refreshes run one at a time on the Run goroutine.
type Poller struct {
	target   Refresher
	interval time.Duration
	trigger  chan struct{}

	// OnRefresh, when set, is called after every refresh with whether it was applied.
	OnRefresh func(applied bool)
}

func NewPoller(target Refresher, interval time.Duration) *Poller {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	return &Poller{
		target:   target,
		interval: interval,
		trigger:  make(chan struct{}, 1),
	}
}

// Trigger requests an immediate refresh. Requests made while one is already
// pending are coalesced.
func (p *Poller) Trigger() {
	select {
	case p.trigger <- struct{}{}:
	default:
	}
}

// Run refreshes once immediately and then until ctx is cancelled.
func (p *Poller) Run(ctx context.Context) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	p.refresh(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.refresh(ctx)
		case <-p.trigger:
			p.refresh(ctx)
		}
	}
}

func (p *Poller) refresh(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	applied := p.target.Refresh(ctx)
	if p.OnRefresh != nil {
		p.OnRefresh(applied)
	}
}
