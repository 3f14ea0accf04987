package limiter

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/vnykmshr/sentinel/pkg/metrics"
	"github.com/vnykmshr/sentinel/pkg/store"
)

// Prober periodically pings the shared store and publishes the result to the
// store-up gauge. It is purely observational: Evaluate never consults it, so
// the one-round-trip-per-decision contract and the failure policy stay the
// only degraded-mode mechanisms.
type Prober struct {
	store    store.Store
	interval time.Duration
	metrics  *metrics.Registry
	cron     *cron.Cron
	healthy  atomic.Bool
}

// NewProber creates a store health prober. A non-positive interval defaults
// to 15 seconds.
func NewProber(st store.Store, interval time.Duration, reg *metrics.Registry) *Prober {
	if interval <= 0 {
		interval = 15 * time.Second
	}
	return &Prober{
		store:    st,
		interval: interval,
		metrics:  reg,
		cron:     cron.New(),
	}
}

// Start probes once immediately, then on the configured schedule until Stop.
func (p *Prober) Start() error {
	p.probe()
	if _, err := p.cron.AddFunc("@every "+p.interval.String(), p.probe); err != nil {
		return err
	}
	p.cron.Start()
	return nil
}

// Stop halts scheduled probes. In-flight probes finish before Stop returns.
func (p *Prober) Stop() {
	<-p.cron.Stop().Done()
}

// Healthy reports the outcome of the most recent probe.
func (p *Prober) Healthy() bool {
	return p.healthy.Load()
}

func (p *Prober) probe() {
	ctx, cancel := context.WithTimeout(context.Background(), p.interval)
	defer cancel()

	err := p.store.Ping(ctx)
	p.healthy.Store(err == nil)

	if p.metrics != nil {
		if err == nil {
			p.metrics.StoreUp.Set(1)
		} else {
			p.metrics.StoreUp.Set(0)
		}
	}
}
