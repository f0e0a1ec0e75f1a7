package scrape

import (
	"context"
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"

	"jobradar/internal/jobs"
)

// Source fetches postings from one job board.
type Source interface {
	Name() string
	Fetch(ctx context.Context) ([]*jobs.Posting, error)
}

// Runner collects postings from every configured source. A source failure is
// logged and absorbed; the run only fails when every source fails.
type Runner struct {
	sources []Source
	logger  *zap.Logger
}

func NewRunner(sources []Source, logger *zap.Logger) *Runner {
	return &Runner{sources: sources, logger: logger}
}

// Run fetches all sources sequentially and returns the combined postings in
// source order.
func (r *Runner) Run(ctx context.Context) (*jobs.Postings, error) {
	if len(r.sources) == 0 {
		return nil, errors.New("no sources configured")
	}

	collected := &jobs.Postings{}
	failures := 0
	for _, source := range r.sources {
		postings, err := source.Fetch(ctx)
		if err != nil {
			failures++
			r.logger.Warn("source fetch failed",
				zap.String("source", source.Name()),
				zap.Error(err),
			)
			continue
		}
		r.logger.Info("source fetched",
			zap.String("source", source.Name()),
			zap.Int("postings", len(postings)),
		)
		collected.Items = append(collected.Items, postings...)
	}

	if failures == len(r.sources) {
		return nil, errors.New("all sources failed")
	}
	return collected, nil
}

func newHTTPClient() *http.Client {
	return &http.Client{Timeout: 20 * time.Second}
}

// browserHeaders makes board requests look like a regular browser; some
// boards reject default Go client requests outright.
func browserHeaders(req *http.Request) {
	req.Header.Set("User-Agent", "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0 Safari/537.36")
	req.Header.Set("Accept", "text/html,application/json;q=0.9,*/*;q=0.8")
}
