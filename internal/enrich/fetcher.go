package enrich

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"jobradar/internal/tavily"
	"jobradar/internal/utils"
)

// Domains favored for the two lookup queries. Company facts come from
// funding/headcount trackers, tech signals from engineering-blog hosts.
var (
	companyFactDomains = []string{"linkedin.com", "crunchbase.com", "techcrunch.com", "pitchbook.com"}
	techSignalDomains  = []string{"github.com", "medium.com", "dev.to", "stackoverflow.blog"}
)

var techKeywords = []string{
	"python", "fastapi", "aws", "kubernetes", "docker", "react",
	"typescript", "postgresql", "redis", "langchain", "openai",
}

var aiIndicators = []string{
	"artificial intelligence", "machine learning", "deep learning",
	"llm", "large language model", "generative ai", "ai platform",
	"ai-first", "ai company", "ai solutions", "ai-native",
}

var (
	employeeCountRe = regexp.MustCompile(`(\d[\d,.]*)\s*(?:employees?|people)`)
	ratingRe        = regexp.MustCompile(`(\d\.\d)\s*(?:star|rating)`)
)

// Ordered so the more specific stages win over the bare "seed" substring.
var fundingStages = []struct {
	needle string
	stage  string
}{
	{"series a", "Series A"},
	{"series b", "Series B"},
	{"series c", "Series C"},
	{"series d", "Series D"},
	{"publicly traded", "Public"},
	{"seed", "Seed"},
}

type searcher interface {
	Search(req *tavily.SearchRequest) (*tavily.SearchResponse, error)
}

// TavilyFetcher builds CompanyEnrichment records from Tavily search results.
// Extraction is best-effort pattern matching over unstructured result text;
// individual fields are allowed to stay unknown.
type TavilyFetcher struct {
	client searcher
	logger *zap.Logger
}

func NewTavilyFetcher(client *tavily.Client, logger *zap.Logger) *TavilyFetcher {
	return &TavilyFetcher{client: client, logger: logger}
}

// Fetch runs the two lookups for one employer: general company facts, then
// tech-stack signals. A tech-stack failure after a successful facts lookup
// degrades to an empty tech stack rather than discarding the record.
func (f *TavilyFetcher) Fetch(_ context.Context, employer string) (*CompanyEnrichment, error) {
	facts, err := f.client.Search(&tavily.SearchRequest{
		Query:          fmt.Sprintf("%s company AI machine learning funding employees", employer),
		SearchDepth:    "basic",
		MaxResults:     5,
		IncludeDomains: companyFactDomains,
	})
	if err != nil {
		return nil, fmt.Errorf("company facts lookup: %w", err)
	}

	enrichment := &CompanyEnrichment{
		Name:         employer,
		FundingStage: "Unknown",
		Verified:     true,
	}
	parseCompanyFacts(facts, enrichment)

	tech, err := f.client.Search(&tavily.SearchRequest{
		Query:          fmt.Sprintf("%s engineering blog tech stack", employer),
		SearchDepth:    "basic",
		MaxResults:     3,
		IncludeDomains: techSignalDomains,
	})
	if err != nil {
		f.logger.Debug("tech stack lookup failed, keeping partial record",
			zap.String("employer", employer),
			zap.Error(err),
		)
		return enrichment, nil
	}
	parseTechStack(tech, enrichment)

	return enrichment, nil
}

func parseCompanyFacts(resp *tavily.SearchResponse, enrichment *CompanyEnrichment) {
	for _, result := range resp.Results {
		combined := strings.ToLower(result.Title + " " + result.Content)

		if enrichment.EmployeeCount == nil {
			if match := employeeCountRe.FindStringSubmatch(combined); match != nil {
				raw := strings.NewReplacer(",", "", ".", "").Replace(match[1])
				if count, err := strconv.Atoi(raw); err == nil && count >= 0 {
					enrichment.EmployeeCount = &count
				}
			}
		}

		if enrichment.FundingStage == "Unknown" {
			for _, stage := range fundingStages {
				if strings.Contains(combined, stage.needle) {
					enrichment.FundingStage = stage.stage
					break
				}
			}
		}

		if !enrichment.IsAICompany {
			for _, indicator := range aiIndicators {
				if strings.Contains(combined, indicator) {
					enrichment.IsAICompany = true
					break
				}
			}
		}

		if enrichment.ReputationScore == nil {
			if match := ratingRe.FindStringSubmatch(combined); match != nil {
				if rating, err := strconv.ParseFloat(match[1], 64); err == nil {
					enrichment.ReputationScore = &rating
				}
			}
		}

		if enrichment.Note == "" && len(result.Content) > 100 {
			// Rune-aware cut so multi-byte text is never split mid-rune.
			enrichment.Note = utils.TruncateForLog(result.Content, 500)
		}
	}
}

func parseTechStack(resp *tavily.SearchResponse, enrichment *CompanyEnrichment) {
	seen := make(map[string]bool, len(enrichment.TechStack))
	for _, tech := range enrichment.TechStack {
		seen[tech] = true
	}

	for _, result := range resp.Results {
		content := strings.ToLower(result.Content)
		for _, keyword := range techKeywords {
			if seen[keyword] || !strings.Contains(content, keyword) {
				continue
			}
			seen[keyword] = true
			enrichment.TechStack = append(enrichment.TechStack, keyword)
		}
	}
}
