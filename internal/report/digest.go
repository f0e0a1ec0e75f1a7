package report

import (
	"fmt"
	"strings"
	"time"

	"jobradar/internal/jobs"
)

// Digest renders a ranked shortlist as a plain-text engineering report,
// one numbered section per posting with the score breakdown underneath.
func Digest(profile *jobs.CandidateProfile, breakdowns []*jobs.ScoreBreakdown, generatedAt time.Time) string {
	var b strings.Builder

	name := "you"
	if profile != nil && profile.Name != "" {
		name = profile.Name
	}
	fmt.Fprintf(&b, "Job digest for %s - %s\n", name, generatedAt.Format("Mon, 02 Jan 2006"))
	fmt.Fprintf(&b, "%d matching roles, best first.\n", len(breakdowns))
	b.WriteString(strings.Repeat("=", 60) + "\n\n")

	if len(breakdowns) == 0 {
		b.WriteString("No roles cleared the score threshold this run.\n")
		return b.String()
	}

	for rank, breakdown := range breakdowns {
		posting := breakdown.Posting
		fmt.Fprintf(&b, "%d. %s - %s", rank+1, posting.Title, posting.Company)
		if posting.Location != "" {
			fmt.Fprintf(&b, " (%s)", posting.Location)
		}
		b.WriteString("\n")

		fmt.Fprintf(&b, "   Score: %.1f/100  [similarity %.1f | skills %.1f | experience %.1f | company %.1f | bonus %.1f]\n",
			breakdown.Total,
			breakdown.Similarity,
			breakdown.SkillsMatch,
			breakdown.ExperienceFit,
			breakdown.CompanySignal,
			breakdown.Adjustments,
		)
		for _, reason := range breakdown.Rationale {
			fmt.Fprintf(&b, "   - %s\n", reason)
		}
		fmt.Fprintf(&b, "   Apply: %s\n\n", posting.URL)
	}

	return b.String()
}
