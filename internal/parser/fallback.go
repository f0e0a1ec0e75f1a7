package parser

import (
	"regexp"
	"strconv"
	"strings"

	"jobradar/internal/jobs"
	"jobradar/internal/utils"
)

// knownSkills is the vocabulary the keyword fallback recognizes. Matching is
// whole-word over lowercased posting text.
var knownSkills = []string{
	"python", "pytorch", "tensorflow", "scikit-learn", "pandas", "numpy",
	"langchain", "llamaindex", "openai", "huggingface", "transformers",
	"rag", "llm", "nlp", "computer vision", "deep learning",
	"machine learning", "mlops", "airflow", "spark",
	"sql", "postgresql", "mysql", "mongodb", "redis", "elasticsearch",
	"aws", "gcp", "azure", "docker", "kubernetes", "terraform",
	"fastapi", "django", "flask", "react", "typescript", "javascript",
	"java", "c++", "rust", "kafka", "grpc", "rest",
}

// seniorityIndicators maps textual cues to levels, checked in order so the
// more specific phrases win over the generic ones.
var seniorityIndicators = []struct {
	level jobs.Seniority
	cues  []string
}{
	{jobs.SeniorityIntern, []string{"intern", "internship", "working student"}},
	{jobs.SeniorityLead, []string{"lead ", "staff ", "principal", "head of"}},
	{jobs.SenioritySenior, []string{"senior", "sr.", "sr "}},
	{jobs.SeniorityJunior, []string{"junior", "jr.", "jr ", "entry level", "entry-level", "graduate", "new grad"}},
	{jobs.SeniorityMid, []string{"mid-level", "mid level", "intermediate"}},
}

var yearsRe = regexp.MustCompile(`(\d+)\s*\+?\s*year`)

var remoteCues = []string{"remote", "work from home", "work from anywhere", "distributed team"}

// extractFlags derives structured fields from posting text alone. It is
// deterministic and used whenever the model path is unavailable.
func extractFlags(posting *jobs.Posting) flags {
	text := strings.ToLower(posting.Title + " " + utils.CleanText(posting.Description))

	return flags{
		Skills:        matchSkills(text),
		Seniority:     string(matchSeniority(strings.ToLower(posting.Title), text)),
		YearsRequired: matchYears(text),
		Remote:        matchRemote(text, strings.ToLower(posting.Location)),
	}
}

func matchSkills(text string) []string {
	var out []string
	for _, skill := range knownSkills {
		if containsWord(text, skill) {
			out = append(out, skill)
		}
	}
	return out
}

// containsWord reports whether needle occurs in text bounded by non-word
// characters, so "java" does not match "javascript".
func containsWord(text, needle string) bool {
	for from := 0; ; {
		i := strings.Index(text[from:], needle)
		if i < 0 {
			return false
		}
		i += from
		end := i + len(needle)
		beforeOK := i == 0 || !isWordChar(text[i-1])
		afterOK := end == len(text) || !isWordChar(text[end])
		if beforeOK && afterOK {
			return true
		}
		from = i + 1
	}
}

func isWordChar(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= '0' && c <= '9'
}

// matchSeniority prefers cues in the title over cues buried in the
// description body.
func matchSeniority(title, text string) jobs.Seniority {
	for _, indicator := range seniorityIndicators {
		for _, cue := range indicator.cues {
			if strings.Contains(title, cue) {
				return indicator.level
			}
		}
	}
	for _, indicator := range seniorityIndicators {
		for _, cue := range indicator.cues {
			if strings.Contains(text, cue) {
				return indicator.level
			}
		}
	}
	return jobs.SeniorityUnknown
}

func matchYears(text string) int {
	match := yearsRe.FindStringSubmatch(text)
	if match == nil {
		return 0
	}
	years, err := strconv.Atoi(match[1])
	if err != nil || years > 50 {
		return 0
	}
	return years
}

func matchRemote(text, location string) bool {
	for _, cue := range remoteCues {
		if strings.Contains(text, cue) || strings.Contains(location, cue) {
			return true
		}
	}
	return false
}
