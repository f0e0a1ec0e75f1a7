package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"jobradar/internal/jobs"
)

var csvHeader = []string{
	"rank", "score", "title", "company", "location", "source", "url",
	"similarity", "skills", "experience", "company_signal", "bonus", "rationale",
}

// WriteCSV exports ranked breakdowns as CSV, one row per posting in rank
// order.
func WriteCSV(w io.Writer, breakdowns []*jobs.ScoreBreakdown) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(csvHeader); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for rank, breakdown := range breakdowns {
		posting := breakdown.Posting
		row := []string{
			strconv.Itoa(rank + 1),
			formatScore(breakdown.Total),
			posting.Title,
			posting.Company,
			posting.Location,
			posting.Source,
			posting.URL,
			formatScore(breakdown.Similarity),
			formatScore(breakdown.SkillsMatch),
			formatScore(breakdown.ExperienceFit),
			formatScore(breakdown.CompanySignal),
			formatScore(breakdown.Adjustments),
			strings.Join(breakdown.Rationale, "; "),
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("write row %d: %w", rank+1, err)
		}
	}

	writer.Flush()
	return writer.Error()
}

func formatScore(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
