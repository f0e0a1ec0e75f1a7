package scrape

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"jobradar/internal/jobs"
	"jobradar/internal/utils"
)

const remoteOKAPIURL = "https://remoteok.com/api"

// RemoteOK scrapes the RemoteOK JSON API, keeping postings whose tags or
// title match any of the configured keywords.
type RemoteOK struct {
	keywords []string
	limit    int
	logger   *zap.Logger

	HTTPClient *http.Client
	APIURL     string
}

func NewRemoteOK(keywords []string, limit int, logger *zap.Logger) *RemoteOK {
	return &RemoteOK{
		keywords:   lowercaseAll(keywords),
		limit:      limit,
		logger:     logger,
		HTTPClient: newHTTPClient(),
		APIURL:     remoteOKAPIURL,
	}
}

func (r *RemoteOK) Name() string { return "remoteok" }

type remoteOKListing struct {
	ID          json.Number `json:"id"`
	Position    string      `json:"position"`
	Company     string      `json:"company"`
	URL         string      `json:"url"`
	Location    string      `json:"location"`
	Description string      `json:"description"`
	Tags        []string    `json:"tags"`

	// The first array element is a legal notice carrying this field
	// instead of a listing.
	Legal string `json:"legal"`
}

func (r *RemoteOK) Fetch(ctx context.Context) ([]*jobs.Posting, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.APIURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	browserHeaders(req)

	resp, err := r.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch listings: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %s", resp.Status)
	}

	var listings []remoteOKListing
	if err := json.NewDecoder(resp.Body).Decode(&listings); err != nil {
		return nil, fmt.Errorf("decode listings: %w", err)
	}

	var postings []*jobs.Posting
	for _, listing := range listings {
		if listing.Legal != "" || listing.Position == "" || listing.Company == "" || listing.URL == "" {
			continue
		}
		if !r.matches(listing) {
			continue
		}
		postings = append(postings, &jobs.Posting{
			Title:       strings.TrimSpace(listing.Position),
			Company:     strings.TrimSpace(listing.Company),
			URL:         listing.URL,
			Source:      r.Name(),
			Location:    strings.TrimSpace(listing.Location),
			Remote:      true,
			Description: utils.CleanText(listing.Description),
		})
		if r.limit > 0 && len(postings) == r.limit {
			break
		}
	}

	r.logger.Debug("remoteok listings filtered",
		zap.Int("received", len(listings)),
		zap.Int("kept", len(postings)),
	)
	return postings, nil
}

// matches applies the keyword filter: no keywords means keep everything.
func (r *RemoteOK) matches(listing remoteOKListing) bool {
	if len(r.keywords) == 0 {
		return true
	}
	haystack := strings.ToLower(listing.Position + " " + strings.Join(listing.Tags, " "))
	for _, keyword := range r.keywords {
		if strings.Contains(haystack, keyword) {
			return true
		}
	}
	return false
}

func lowercaseAll(values []string) []string {
	out := make([]string, 0, len(values))
	for _, value := range values {
		value = strings.ToLower(strings.TrimSpace(value))
		if value != "" {
			out = append(out, value)
		}
	}
	return out
}
