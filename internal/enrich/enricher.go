package enrich

import (
	"context"
	"errors"

	"go.uber.org/zap"
)

// Enricher is the company enrichment resolver the pipeline talks to. It
// degrades to a neutral fallback record on any lookup failure, so callers
// never have to handle an error.
type Enricher struct {
	resolver *Resolver
	logger   *zap.Logger
}

func NewEnricher(resolver *Resolver, logger *zap.Logger) *Enricher {
	return &Enricher{resolver: resolver, logger: logger}
}

// Enrich returns the best-effort enrichment record for the employer. The
// returned record is always usable: a failed or canceled lookup yields a
// fallback record with Verified=false and every field at its neutral default.
func (e *Enricher) Enrich(ctx context.Context, employer string) *CompanyEnrichment {
	enrichment, err := e.resolver.Resolve(ctx, employer)
	if err != nil {
		if !errors.Is(err, ErrFetchFailed) {
			e.logger.Warn("enrichment interrupted, using fallback",
				zap.String("employer", employer),
				zap.Error(err),
			)
		}
		return Fallback(employer)
	}

	return enrichment
}

// Stats exposes the underlying resolver counters for run reporting.
func (e *Enricher) Stats() Stats {
	return e.resolver.Stats()
}
