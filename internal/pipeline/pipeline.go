package pipeline

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"go.uber.org/zap"

	"jobradar/internal/enrich"
	"jobradar/internal/jobs"
	"jobradar/internal/scoring"
)

// Config controls the enrichment gate of the ranking pipeline.
type Config struct {
	// Enabled is the master switch: when false the enrichment resolver is
	// bypassed entirely and every posting scores without enrichment.
	Enabled bool `mapstructure:"enabled"`
	// EnrichCompanies toggles company lookups while leaving the rest of
	// the pipeline untouched.
	EnrichCompanies bool `mapstructure:"enrich_companies"`
	// MaxEnrichmentJobs caps how many postings, counted in caller order,
	// are candidates for enrichment. Zero disables enrichment.
	MaxEnrichmentJobs int `mapstructure:"max_enrichment_jobs"`
}

// Enricher resolves company facts for an employer name. Implementations
// never fail: a lookup problem yields a fallback record.
type Enricher interface {
	Enrich(ctx context.Context, employer string) *enrich.CompanyEnrichment
}

// Pipeline orchestrates one ranking run: select the enrichment subset,
// resolve each unique employer once, score every posting, sort.
type Pipeline struct {
	engine   *scoring.Engine
	enricher Enricher
	cfg      Config
	logger   *zap.Logger
}

// New builds a pipeline for a single run. enricher may be nil, which
// disables enrichment regardless of configuration.
func New(engine *scoring.Engine, enricher Enricher, cfg Config, logger *zap.Logger) *Pipeline {
	return &Pipeline{
		engine:   engine,
		enricher: enricher,
		cfg:      cfg,
		logger:   logger,
	}
}

// Rank scores all postings and returns their breakdowns ordered by total
// score descending, ties broken by the caller's posting order. Every posting
// yields exactly one breakdown. Empty or malformed input is the only fatal
// condition; all per-employer failures degrade to fallback enrichment inside
// the Enricher.
func (p *Pipeline) Rank(ctx context.Context, postings *jobs.Postings) ([]*jobs.ScoreBreakdown, error) {
	if postings.Len() == 0 {
		return nil, errors.New("no postings to rank")
	}
	for i, posting := range postings.Items {
		if posting == nil || posting.URL == "" || posting.Title == "" || posting.Company == "" {
			return nil, fmt.Errorf("malformed posting at index %d: url, title and company are required", i)
		}
	}

	enrichments := p.enrichSubset(ctx, postings)

	breakdowns := make([]*jobs.ScoreBreakdown, 0, postings.Len())
	for i, posting := range postings.Items {
		var enrichment *enrich.CompanyEnrichment
		if i < p.subsetSize(postings) {
			enrichment = enrichments[enrich.NormalizeEmployer(posting.Company)]
		}
		breakdowns = append(breakdowns, p.engine.Score(posting, enrichment))
	}

	sort.SliceStable(breakdowns, func(i, j int) bool {
		return breakdowns[i].Total > breakdowns[j].Total
	})

	p.logger.Info("ranking completed",
		zap.Int("postings", postings.Len()),
		zap.Int("enriched_employers", len(enrichments)),
	)

	return breakdowns, nil
}

// subsetSize returns how many leading postings are enrichment candidates.
// The gate runs before scoring, so membership depends only on input order,
// never on scores.
func (p *Pipeline) subsetSize(postings *jobs.Postings) int {
	if p.enricher == nil || !p.cfg.Enabled || !p.cfg.EnrichCompanies {
		return 0
	}
	if p.cfg.MaxEnrichmentJobs < postings.Len() {
		return p.cfg.MaxEnrichmentJobs
	}
	return postings.Len()
}

// enrichSubset resolves one enrichment record per unique employer within the
// subset. Postings sharing an employer share the record.
func (p *Pipeline) enrichSubset(ctx context.Context, postings *jobs.Postings) map[string]*enrich.CompanyEnrichment {
	size := p.subsetSize(postings)
	if size <= 0 {
		return nil
	}

	enrichments := make(map[string]*enrich.CompanyEnrichment)
	for _, posting := range postings.Items[:size] {
		key := enrich.NormalizeEmployer(posting.Company)
		if key == "" {
			continue
		}
		if _, ok := enrichments[key]; ok {
			continue
		}
		enrichments[key] = p.enricher.Enrich(ctx, posting.Company)
	}

	p.logger.Debug("enrichment subset resolved",
		zap.Int("postings_considered", size),
		zap.Int("unique_employers", len(enrichments)),
	)

	return enrichments
}

// Shortlist cuts a ranked breakdown list to entries at or above minScore,
// keeping at most topN. Non-positive values leave the respective dimension
// unbounded.
func Shortlist(breakdowns []*jobs.ScoreBreakdown, minScore float64, topN int) []*jobs.ScoreBreakdown {
	out := make([]*jobs.ScoreBreakdown, 0, len(breakdowns))
	for _, breakdown := range breakdowns {
		if minScore > 0 && breakdown.Total < minScore {
			continue
		}
		out = append(out, breakdown)
		if topN > 0 && len(out) == topN {
			break
		}
	}
	return out
}
