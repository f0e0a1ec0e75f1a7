package scoring

import (
	"math"
	"reflect"
	"strings"
	"testing"

	"jobradar/internal/enrich"
	"jobradar/internal/jobs"
)

func testProfile() *jobs.CandidateProfile {
	return &jobs.CandidateProfile{
		Summary:         "AI engineer building LLM and RAG systems",
		Skills:          []string{"python", "pytorch"},
		YearsExperience: 1,
		PreferredLevels: []jobs.Seniority{jobs.SeniorityIntern, jobs.SeniorityJunior},
	}
}

func intPtr(v int) *int { return &v }

func floatPtr(v float64) *float64 { return &v }

func TestScoreDeterminism(t *testing.T) {
	engine := NewEngine(testProfile(), DefaultWeights())
	posting := &jobs.Posting{
		Title:       "Junior AI Engineer",
		Company:     "Acme",
		URL:         "https://example.com/1",
		Description: "Build RAG systems with Python and PyTorch for LLM products.",
		Seniority:   jobs.SeniorityJunior,
	}
	enrichment := &enrich.CompanyEnrichment{
		Name:          "Acme",
		EmployeeCount: intPtr(150),
		IsAICompany:   true,
		Verified:      true,
	}

	first := engine.Score(posting, enrichment)
	second := engine.Score(posting, enrichment)

	if first.Total != second.Total {
		t.Fatalf("totals differ: %v vs %v", first.Total, second.Total)
	}
	if !reflect.DeepEqual(first.Rationale, second.Rationale) {
		t.Fatalf("rationales differ:\n%v\n%v", first.Rationale, second.Rationale)
	}
}

func TestScoreEnrichedStartupScenario(t *testing.T) {
	// Reference scenario: matching skills at a verified 150-employee AI
	// startup with a 4.6 reputation rating.
	engine := NewEngine(testProfile(), DefaultWeights())
	posting := &jobs.Posting{
		Title:       "AI Engineer",
		Company:     "Acme Corp",
		URL:         "https://example.com/1",
		Description: "Work with python and pytorch on agents.",
		Seniority:   jobs.SeniorityJunior,
	}
	enrichment := &enrich.CompanyEnrichment{
		Name:            "Acme Corp",
		EmployeeCount:   intPtr(150),
		IsAICompany:     true,
		ReputationScore: floatPtr(4.6),
		Verified:        true,
	}

	breakdown := engine.Score(posting, enrichment)

	if breakdown.CompanySignal != 10 {
		t.Fatalf("expected company signal 10, got %v", breakdown.CompanySignal)
	}
	if breakdown.Adjustments != 4 {
		t.Fatalf("expected +3 AI and +1 reputation, got %v", breakdown.Adjustments)
	}
	if breakdown.SkillsMatch != 22 {
		t.Fatalf("expected full skills match, got %v", breakdown.SkillsMatch)
	}
	if breakdown.ExperienceFit != 15 {
		t.Fatalf("expected full experience fit, got %v", breakdown.ExperienceFit)
	}

	want := breakdown.Similarity + breakdown.SkillsMatch + breakdown.ExperienceFit + 14
	if math.Abs(breakdown.Total-want) > 0.005 {
		t.Fatalf("expected total %v, got %v", want, breakdown.Total)
	}
	if breakdown.Clamped {
		t.Fatal("did not expect clamping under reference weights")
	}
}

func TestScoreWithoutEnrichment(t *testing.T) {
	engine := NewEngine(testProfile(), DefaultWeights())
	posting := &jobs.Posting{
		Title:   "Backend Engineer",
		Company: "Initech",
		URL:     "https://example.com/2",
	}

	breakdown := engine.Score(posting, nil)

	if breakdown.CompanySignal != 7 {
		t.Fatalf("expected unknown company scored as mid-size (7), got %v", breakdown.CompanySignal)
	}
	if breakdown.Adjustments != 0 {
		t.Fatalf("expected no bonuses without enrichment, got %v", breakdown.Adjustments)
	}

	var companyWhy string
	for _, entry := range breakdown.Rationale {
		if strings.HasPrefix(entry, "Company:") {
			companyWhy = entry
		}
	}
	if !strings.Contains(companyWhy, "unverified") {
		t.Fatalf("expected fallback provenance in rationale, got %q", companyWhy)
	}
}

func TestScoreMissingProfileSkills(t *testing.T) {
	profile := &jobs.CandidateProfile{Summary: "AI engineer"}
	engine := NewEngine(profile, DefaultWeights())
	posting := &jobs.Posting{
		Title:       "AI Engineer",
		Company:     "Acme",
		URL:         "https://example.com/3",
		Description: "python pytorch",
	}

	breakdown := engine.Score(posting, nil)
	if breakdown.SkillsMatch != 0 {
		t.Fatalf("expected zero skills score without profile skills, got %v", breakdown.SkillsMatch)
	}
}

func TestScoreSeniorMismatch(t *testing.T) {
	engine := NewEngine(testProfile(), DefaultWeights())
	posting := &jobs.Posting{
		Title:     "Senior Staff Engineer",
		Company:   "Globex",
		URL:       "https://example.com/4",
		Seniority: jobs.SenioritySenior,
	}

	breakdown := engine.Score(posting, nil)
	if breakdown.ExperienceFit != 0 {
		t.Fatalf("expected zero experience fit for senior mismatch, got %v", breakdown.ExperienceFit)
	}
	for _, entry := range breakdown.Rationale {
		if strings.HasPrefix(entry, "Experience:") {
			t.Fatalf("did not expect rationale entry for zero component: %q", entry)
		}
	}
}

func TestScoreYearsRequiredCapsFit(t *testing.T) {
	engine := NewEngine(testProfile(), DefaultWeights())
	posting := &jobs.Posting{
		Title:         "ML Engineer",
		Company:       "Globex",
		URL:           "https://example.com/5",
		Seniority:     jobs.SeniorityJunior,
		YearsRequired: 5,
	}

	breakdown := engine.Score(posting, nil)
	if breakdown.ExperienceFit != 2 {
		t.Fatalf("expected a 5+ year requirement to cap the fit at 2, got %v", breakdown.ExperienceFit)
	}
}

func TestScoreClampRecorded(t *testing.T) {
	weights := DefaultWeights()
	weights.Similarity = 80
	weights.Skills = 80

	engine := NewEngine(testProfile(), weights)
	posting := &jobs.Posting{
		Title:       "AI engineer building LLM and RAG systems",
		Company:     "Acme",
		URL:         "https://example.com/6",
		Description: "python pytorch AI engineer building LLM and RAG systems",
		Seniority:   jobs.SeniorityJunior,
	}

	breakdown := engine.Score(posting, nil)
	if !breakdown.Clamped {
		t.Fatalf("expected clamping with inflated weights, total %v", breakdown.Total)
	}
	if breakdown.Total != 100 {
		t.Fatalf("expected clamped total 100, got %v", breakdown.Total)
	}

	last := breakdown.Rationale[len(breakdown.Rationale)-1]
	if !strings.HasPrefix(last, "Total clamped to 100") {
		t.Fatalf("expected clamp recorded last in rationale, got %q", last)
	}
}

func TestScoreBounds(t *testing.T) {
	engine := NewEngine(testProfile(), DefaultWeights())
	postings := []*jobs.Posting{
		{Title: "AI Engineer", Company: "A", URL: "u1", Description: "python pytorch llm rag", Seniority: jobs.SeniorityJunior},
		{Title: "Plumber", Company: "B", URL: "u2", Description: "fix pipes"},
		{Title: "Senior Architect", Company: "C", URL: "u3", Seniority: jobs.SeniorityLead, YearsRequired: 10},
	}

	for _, posting := range postings {
		breakdown := engine.Score(posting, nil)
		if breakdown.Total < 0 || breakdown.Total > 100 {
			t.Fatalf("total out of bounds for %q: %v", posting.Title, breakdown.Total)
		}
	}
}
