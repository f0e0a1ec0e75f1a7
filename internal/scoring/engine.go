package scoring

import (
	"fmt"
	"math"
	"strings"

	"jobradar/internal/enrich"
	"jobradar/internal/jobs"
)

// ScaleMax is the top of the documented score scale. Totals are clamped here
// when reconfigured weights would push the sum past it, and the clamping is
// recorded in the rationale.
const ScaleMax = 100

// Engine computes score breakdowns. Score is a pure function of
// (posting, profile, enrichment, weights): identical inputs always produce
// bit-identical breakdowns.
type Engine struct {
	weights Weights
	profile *jobs.CandidateProfile

	// Profile term frequencies are fixed for the run, so they are computed
	// once up front.
	profileTerms map[string]float64
}

func NewEngine(profile *jobs.CandidateProfile, weights Weights) *Engine {
	return &Engine{
		weights:      weights,
		profile:      profile,
		profileTerms: termFrequencies(tokenize(profile.SummaryText())),
	}
}

// Score computes the breakdown for one posting. enrichment may be nil, in
// which case the company signal falls back to the unknown classification.
func (e *Engine) Score(posting *jobs.Posting, enrichment *enrich.CompanyEnrichment) *jobs.ScoreBreakdown {
	breakdown := &jobs.ScoreBreakdown{Posting: posting}

	similarity, similarityWhy := e.similarity(posting)
	skills, skillsWhy := e.skillsMatch(posting)
	experience, experienceWhy := e.experienceFit(posting)
	company, companyWhy := e.companySignal(enrichment)
	adjustments, adjustmentsWhy := e.adjustments(enrichment)

	breakdown.Similarity = similarity
	breakdown.SkillsMatch = skills
	breakdown.ExperienceFit = experience
	breakdown.CompanySignal = company
	breakdown.Adjustments = adjustments

	// Rationale entries keep the fixed component order so reports stay
	// comparable across postings.
	for _, entry := range []string{similarityWhy, skillsWhy, experienceWhy, companyWhy, adjustmentsWhy} {
		if entry != "" {
			breakdown.Rationale = append(breakdown.Rationale, entry)
		}
	}

	total := similarity + skills + experience + company + adjustments
	if total > ScaleMax {
		breakdown.Clamped = true
		breakdown.Rationale = append(breakdown.Rationale,
			fmt.Sprintf("Total clamped to %d (raw %s)", ScaleMax, formatPoints(total)))
		total = ScaleMax
	}
	breakdown.Total = round2(total)

	return breakdown
}

func (e *Engine) similarity(posting *jobs.Posting) (float64, string) {
	postingTerms := termFrequencies(tokenize(posting.Title + " " + posting.Description))
	closeness := cosine(e.profileTerms, postingTerms)
	if closeness <= 0 {
		return 0, ""
	}

	points := round2(closeness * e.weights.Similarity)
	return points, fmt.Sprintf("Similarity: +%s (profile overlap %.0f%%)",
		formatPoints(points), closeness*100)
}

func (e *Engine) skillsMatch(posting *jobs.Posting) (float64, string) {
	if len(e.profile.Skills) == 0 {
		return 0, ""
	}

	postingSkills := make(map[string]bool, len(posting.Skills))
	for _, skill := range posting.Skills {
		postingSkills[strings.ToLower(strings.TrimSpace(skill))] = true
	}
	text := strings.ToLower(posting.Title + " " + posting.Description)

	// Matched skills keep the profile's priority order in the rationale.
	var matched []string
	for _, skill := range e.profile.Skills {
		normalized := strings.ToLower(strings.TrimSpace(skill))
		if normalized == "" {
			continue
		}
		if postingSkills[normalized] || strings.Contains(text, normalized) {
			matched = append(matched, normalized)
		}
	}
	if len(matched) == 0 {
		return 0, ""
	}

	ratio := float64(len(matched)) / float64(len(e.profile.Skills))
	points := round2(math.Min(ratio, 1) * e.weights.Skills)
	return points, fmt.Sprintf("Skills: +%s (%d/%d matched: %s)",
		formatPoints(points), len(matched), len(e.profile.Skills), strings.Join(matched, ", "))
}

func (e *Engine) experienceFit(posting *jobs.Posting) (float64, string) {
	max := e.weights.Experience

	var points float64
	var why string
	switch level := posting.Seniority; {
	case level == "" || level == jobs.SeniorityUnknown:
		points = max * 10 / 15
		why = "level not stated"
	case e.profile.Prefers(level):
		points = max
		why = fmt.Sprintf("%s-level role fits", level)
	case level == jobs.SeniorityMid:
		points = max * 5 / 15
		why = "mid-level stretch"
	default:
		points = 0
		why = fmt.Sprintf("%s-level mismatch", level)
	}

	// Stated year requirements refine the level-based estimate: a low bar
	// raises the floor, a high bar caps the score.
	if years := posting.YearsRequired; years > 0 {
		switch {
		case years <= 2:
			points = math.Max(points, max*12/15)
		case years <= 4:
			points = math.Min(points, max*7/15)
		default:
			points = math.Min(points, max*2/15)
		}
		why = fmt.Sprintf("%s, %d+ years required", why, years)
	}

	points = round2(points)
	if points == 0 {
		return 0, ""
	}
	return points, fmt.Sprintf("Experience: +%s (%s)", formatPoints(points), why)
}

func (e *Engine) companySignal(enrichment *enrich.CompanyEnrichment) (float64, string) {
	provenance := "unverified"
	if enrichment != nil && enrichment.Verified {
		provenance = "verified via lookup"
	}

	var points float64
	var size string
	switch enrichment.Type() {
	case enrich.CompanyStartup:
		points = e.weights.CompanyStartup
		size = fmt.Sprintf("startup, %d employees", *enrichment.EmployeeCount)
	case enrich.CompanyMidsize:
		points = e.weights.CompanyMidsize
		size = fmt.Sprintf("mid-size, %d employees", *enrichment.EmployeeCount)
	case enrich.CompanyEnterprise:
		points = e.weights.CompanyEnterprise
		size = fmt.Sprintf("enterprise, %d employees", *enrichment.EmployeeCount)
	default:
		points = e.weights.CompanyMidsize
		size = "size unknown"
	}

	points = round2(points)
	if points == 0 {
		return 0, ""
	}
	return points, fmt.Sprintf("Company: +%s (%s, %s)", formatPoints(points), size, provenance)
}

func (e *Engine) adjustments(enrichment *enrich.CompanyEnrichment) (float64, string) {
	if enrichment == nil {
		return 0, ""
	}

	var points float64
	var reasons []string
	if enrichment.IsAICompany {
		points += e.weights.AIBonus
		reasons = append(reasons, "AI-native company")
	}
	if enrichment.ReputationScore != nil && *enrichment.ReputationScore >= 4.0 {
		points += e.weights.ReputationBonus
		reasons = append(reasons, fmt.Sprintf("reputation %.1f", *enrichment.ReputationScore))
	}

	points = round2(points)
	if points == 0 {
		return 0, ""
	}
	return points, fmt.Sprintf("Adjustments: +%s (%s)", formatPoints(points), strings.Join(reasons, ", "))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// formatPoints renders a point value without trailing zero noise: 7 not
// 7.00, 23.33 stays 23.33.
func formatPoints(v float64) string {
	return strings.TrimRight(strings.TrimRight(fmt.Sprintf("%.2f", v), "0"), ".")
}
