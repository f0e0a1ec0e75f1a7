package parser

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mitchellh/mapstructure"
	"go.uber.org/zap"

	"jobradar/internal/jobs"
	"jobradar/internal/utils"
)

//go:embed prompt.md
var promptTemplate string

const postingPlaceholder = "{{POSTING_JSON}}"

// Generator produces a textual model response for a prompt. The production
// implementation is GeminiGenerator; tests substitute a stub.
type Generator interface {
	GenerateContent(ctx context.Context, prompt string) (string, error)
}

// flags is the structured extraction a model returns for one posting.
type flags struct {
	Skills        []string `mapstructure:"skills"`
	Seniority     string   `mapstructure:"seniority"`
	YearsRequired int      `mapstructure:"years_required"`
	Remote        bool     `mapstructure:"remote"`
}

// Parser fills the structured fields of a posting (skills, seniority, years,
// remote) from its free text. It asks the configured model first and falls
// back to keyword extraction when the model is unavailable or answers with
// something unusable.
type Parser struct {
	generator Generator
	logger    *zap.Logger
}

func New(generator Generator, logger *zap.Logger) *Parser {
	return &Parser{generator: generator, logger: logger}
}

// Parse populates posting's structured fields in place. It never fails: a
// model problem degrades to the keyword fallback. The returned bool reports
// whether the fallback was used.
func (p *Parser) Parse(ctx context.Context, posting *jobs.Posting) bool {
	if p.generator == nil {
		p.apply(posting, extractFlags(posting))
		return true
	}

	prompt, err := p.buildPrompt(posting)
	if err != nil {
		p.logger.Warn("prompt build failed, using keyword extraction",
			zap.String("company", posting.Company),
			zap.Error(err),
		)
		p.apply(posting, extractFlags(posting))
		return true
	}

	response, err := p.generator.GenerateContent(ctx, prompt)
	if err != nil {
		p.logger.Warn("model extraction failed, using keyword extraction",
			zap.String("company", posting.Company),
			zap.Error(err),
		)
		p.apply(posting, extractFlags(posting))
		return true
	}

	parsed, err := parseResponse(response)
	if err != nil {
		p.logger.Warn("model response unusable, using keyword extraction",
			zap.String("company", posting.Company),
			zap.String("response", utils.TruncateForLog(response, 200)),
			zap.Error(err),
		)
		p.apply(posting, extractFlags(posting))
		return true
	}

	p.apply(posting, parsed)
	return false
}

// ParseAll runs Parse over every posting and returns how many needed the
// keyword fallback.
func (p *Parser) ParseAll(ctx context.Context, postings *jobs.Postings) int {
	fallbacks := 0
	for _, posting := range postings.Items {
		if p.Parse(ctx, posting) {
			fallbacks++
		}
	}
	if fallbacks > 0 {
		p.logger.Info("keyword fallback used",
			zap.Int("postings", fallbacks),
			zap.Int("total", postings.Len()),
		)
	}
	return fallbacks
}

func (p *Parser) buildPrompt(posting *jobs.Posting) (string, error) {
	payload, err := json.MarshalIndent(map[string]string{
		"title":       posting.Title,
		"company":     posting.Company,
		"location":    posting.Location,
		"description": utils.CleanText(posting.Description),
	}, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal posting: %w", err)
	}
	if !strings.Contains(promptTemplate, postingPlaceholder) {
		return "", fmt.Errorf("prompt template lacks %s placeholder", postingPlaceholder)
	}
	return strings.Replace(promptTemplate, postingPlaceholder, string(payload), 1), nil
}

func (p *Parser) apply(posting *jobs.Posting, extracted flags) {
	if len(posting.Skills) == 0 {
		posting.Skills = normalizeSkills(extracted.Skills)
	}
	if posting.Seniority == "" || posting.Seniority == jobs.SeniorityUnknown {
		posting.Seniority = toSeniority(extracted.Seniority)
	}
	if posting.YearsRequired == 0 && extracted.YearsRequired > 0 {
		posting.YearsRequired = extracted.YearsRequired
	}
	if extracted.Remote {
		posting.Remote = true
	}
}

// parseResponse decodes a model answer into flags. Models wrap JSON in
// markdown fences or prose more often than not, so the object is located
// by brace matching before decoding.
func parseResponse(response string) (flags, error) {
	raw := extractJSON(response)
	if raw == "" {
		return flags{}, fmt.Errorf("no JSON object in response")
	}

	var loose map[string]any
	if err := json.Unmarshal([]byte(raw), &loose); err != nil {
		return flags{}, fmt.Errorf("decode response: %w", err)
	}

	var out flags
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &out,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return flags{}, fmt.Errorf("build decoder: %w", err)
	}
	if err := decoder.Decode(loose); err != nil {
		return flags{}, fmt.Errorf("map response fields: %w", err)
	}
	return out, nil
}

// extractJSON returns the first balanced top-level JSON object in s.
func extractJSON(s string) string {
	start := strings.Index(s, "{")
	if start < 0 {
		return ""
	}
	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return s[start : i+1]
			}
		}
	}
	return ""
}

func normalizeSkills(skills []string) []string {
	seen := make(map[string]bool, len(skills))
	out := make([]string, 0, len(skills))
	for _, skill := range skills {
		skill = strings.ToLower(strings.TrimSpace(skill))
		if skill == "" || seen[skill] {
			continue
		}
		seen[skill] = true
		out = append(out, skill)
	}
	return out
}

func toSeniority(level string) jobs.Seniority {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "intern", "internship":
		return jobs.SeniorityIntern
	case "junior", "entry":
		return jobs.SeniorityJunior
	case "mid", "middle", "intermediate":
		return jobs.SeniorityMid
	case "senior":
		return jobs.SenioritySenior
	case "lead", "staff", "principal":
		return jobs.SeniorityLead
	default:
		return jobs.SeniorityUnknown
	}
}
