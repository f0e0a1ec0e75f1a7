package enrich

// CompanyType classifies an employer by headcount for the company-signal
// scoring component.
type CompanyType string

const (
	CompanyStartup    CompanyType = "startup"    // fewer than 200 employees
	CompanyMidsize    CompanyType = "mid-size"   // 200 to 1999 employees
	CompanyEnterprise CompanyType = "enterprise" // 2000 employees or more
	CompanyUnknown    CompanyType = "unknown"    // scored as mid-size
)

const (
	startupMaxEmployees = 200
	midsizeMaxEmployees = 2000
)

// CompanyEnrichment holds externally sourced facts about one employer.
// A record is created at most once per normalized employer name per run and
// never mutated after creation. Optional numeric fields are pointers so
// "unknown" stays distinguishable from zero.
type CompanyEnrichment struct {
	Name          string
	EmployeeCount *int
	FundingStage  string // Seed / Series A..D / Public / Unknown
	IsAICompany   bool
	TechStack     []string
	// ReputationScore is an employer rating on a 1-5 scale when one was
	// found in the search results.
	ReputationScore *float64
	// Note is a short free-text summary taken from the first useful result.
	Note string
	// Verified is true when the record was built from a successful lookup,
	// false for fallback records.
	Verified bool
}

// Fallback returns the neutral enrichment record used when lookups are
// disabled, failed, or skipped for a posting.
func Fallback(name string) *CompanyEnrichment {
	return &CompanyEnrichment{
		Name:         name,
		FundingStage: "Unknown",
	}
}

// Type classifies the employer by employee count.
func (e *CompanyEnrichment) Type() CompanyType {
	if e == nil || e.EmployeeCount == nil {
		return CompanyUnknown
	}
	switch count := *e.EmployeeCount; {
	case count < startupMaxEmployees:
		return CompanyStartup
	case count < midsizeMaxEmployees:
		return CompanyMidsize
	default:
		return CompanyEnterprise
	}
}
