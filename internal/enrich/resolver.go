package enrich

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// ErrFetchFailed marks an employer whose lookup was attempted and failed.
// The failure is cached so the employer is not retried within the run.
var ErrFetchFailed = errors.New("enrichment fetch failed")

// Fetcher performs the actual external lookup for one employer. It is called
// at most once per normalized employer name per run.
type Fetcher interface {
	Fetch(ctx context.Context, employer string) (*CompanyEnrichment, error)
}

// Pacer enforces the minimum spacing between outbound lookups. Production
// code uses a rate.Limiter; tests inject a recording fake.
type Pacer interface {
	Wait(ctx context.Context) error
}

type noPacer struct{}

func (noPacer) Wait(context.Context) error { return nil }

// NewPacer builds the production pacing policy: one dispatch per interval,
// globally across employers. A non-positive interval disables pacing.
func NewPacer(interval time.Duration) Pacer {
	if interval <= 0 {
		return noPacer{}
	}
	return rate.NewLimiter(rate.Every(interval), 1)
}

// Stats are the run-level enrichment counters, reported at the end of a run.
type Stats struct {
	Calls    int // external lookups dispatched
	Hits     int // resolutions served from cache
	Failures int // lookups that failed and were cached as FetchFailed
}

type cacheEntry struct {
	enrichment *CompanyEnrichment
	failed     bool
}

// Resolver deduplicates enrichment lookups by normalized employer name and
// paces the external calls. The cache lives for one pipeline run: construct
// a fresh Resolver per run, never share one across runs.
type Resolver struct {
	fetcher Fetcher
	pacer   Pacer
	logger  *zap.Logger
	cache   map[string]cacheEntry
	stats   Stats
}

func NewResolver(fetcher Fetcher, pacer Pacer, logger *zap.Logger) *Resolver {
	if pacer == nil {
		pacer = noPacer{}
	}
	return &Resolver{
		fetcher: fetcher,
		pacer:   pacer,
		logger:  logger,
		cache:   make(map[string]cacheEntry),
	}
}

// Resolve returns the enrichment record for the employer, fetching it on the
// first request and serving every later request for the same normalized name
// from memory. A failed fetch is cached and reported as ErrFetchFailed on
// this and all subsequent resolutions.
func (r *Resolver) Resolve(ctx context.Context, employer string) (*CompanyEnrichment, error) {
	key := NormalizeEmployer(employer)
	if key == "" {
		// Nothing to look up, but the resolution still happened: count it
		// so the run totals add up.
		r.stats.Failures++
		return nil, ErrFetchFailed
	}

	if entry, ok := r.cache[key]; ok {
		r.stats.Hits++
		if entry.failed {
			return nil, ErrFetchFailed
		}
		r.logger.Debug("enrichment cache hit", zap.String("employer", key))
		return entry.enrichment, nil
	}

	if err := r.pacer.Wait(ctx); err != nil {
		return nil, err
	}

	r.stats.Calls++
	enrichment, err := r.fetcher.Fetch(ctx, employer)
	if err != nil {
		r.stats.Failures++
		r.cache[key] = cacheEntry{failed: true}
		r.logger.Warn("enrichment lookup failed",
			zap.String("employer", employer),
			zap.Error(err),
		)
		return nil, ErrFetchFailed
	}

	r.cache[key] = cacheEntry{enrichment: enrichment}
	return enrichment, nil
}

// Stats returns a snapshot of the run counters.
func (r *Resolver) Stats() Stats {
	return r.stats
}
