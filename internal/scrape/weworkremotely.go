package scrape

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"jobradar/internal/jobs"
)

const weWorkRemotelyBaseURL = "https://weworkremotely.com"

// WeWorkRemotely scrapes We Work Remotely category listing pages. The board
// has no public API, so listings come from the HTML job index.
type WeWorkRemotely struct {
	categories []string
	limit      int
	logger     *zap.Logger

	HTTPClient *http.Client
	BaseURL    string
}

func NewWeWorkRemotely(categories []string, limit int, logger *zap.Logger) *WeWorkRemotely {
	if len(categories) == 0 {
		categories = []string{"remote-full-stack-programming-jobs"}
	}
	return &WeWorkRemotely{
		categories: categories,
		limit:      limit,
		logger:     logger,
		HTTPClient: newHTTPClient(),
		BaseURL:    weWorkRemotelyBaseURL,
	}
}

func (w *WeWorkRemotely) Name() string { return "weworkremotely" }

func (w *WeWorkRemotely) Fetch(ctx context.Context) ([]*jobs.Posting, error) {
	var postings []*jobs.Posting
	for _, category := range w.categories {
		page, err := w.fetchCategory(ctx, category)
		if err != nil {
			return nil, fmt.Errorf("category %s: %w", category, err)
		}
		postings = append(postings, page...)
		if w.limit > 0 && len(postings) >= w.limit {
			postings = postings[:w.limit]
			break
		}
	}
	return postings, nil
}

func (w *WeWorkRemotely) fetchCategory(ctx context.Context, category string) ([]*jobs.Posting, error) {
	url := fmt.Sprintf("%s/categories/%s", w.BaseURL, category)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	browserHeaders(req)

	resp, err := w.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %s", resp.Status)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse page: %w", err)
	}

	var postings []*jobs.Posting
	doc.Find("section.jobs li").Each(func(_ int, item *goquery.Selection) {
		title := strings.TrimSpace(item.Find("span.title").First().Text())
		company := strings.TrimSpace(item.Find("span.company").First().Text())
		if title == "" || company == "" {
			return
		}

		href := ""
		item.Find("a").EachWithBreak(func(_ int, anchor *goquery.Selection) bool {
			value, ok := anchor.Attr("href")
			if !ok || !strings.Contains(value, "/remote-jobs/") {
				return true
			}
			href = value
			return false
		})
		if href == "" {
			return
		}
		if !strings.HasPrefix(href, "http") {
			href = w.BaseURL + href
		}

		postings = append(postings, &jobs.Posting{
			Title:    title,
			Company:  company,
			URL:      href,
			Source:   w.Name(),
			Location: strings.TrimSpace(item.Find("span.region").First().Text()),
			Remote:   true,
		})
	})

	w.logger.Debug("weworkremotely page parsed",
		zap.String("category", category),
		zap.Int("postings", len(postings)),
	)
	return postings, nil
}
