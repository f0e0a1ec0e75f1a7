package scoring

// Weights is the single source of truth for the scoring table. Every
// component reads its points from here; nothing is hardcoded at call sites.
// The defaults are the reference values the digest scale (0-100) was tuned
// for, but all of them can be overridden from configuration.
type Weights struct {
	// Similarity is the maximum points for profile/description closeness.
	Similarity float64 `mapstructure:"similarity"`
	// Skills is the maximum points for matched profile skills.
	Skills float64 `mapstructure:"skills"`
	// Experience is the maximum points for seniority fit.
	Experience float64 `mapstructure:"experience"`

	// Company-signal points per classification. Smaller employers score
	// higher on purpose; this is a profile preference, not a universal
	// truth. Unknown classifications score as mid-size.
	CompanyStartup    float64 `mapstructure:"company_startup"`
	CompanyMidsize    float64 `mapstructure:"company_midsize"`
	CompanyEnterprise float64 `mapstructure:"company_enterprise"`

	// Additive bonuses from enrichment signals.
	AIBonus         float64 `mapstructure:"ai_bonus"`
	ReputationBonus float64 `mapstructure:"reputation_bonus"`
}

// DefaultWeights returns the reference scoring table.
func DefaultWeights() Weights {
	return Weights{
		Similarity:        35,
		Skills:            22,
		Experience:        15,
		CompanyStartup:    10,
		CompanyMidsize:    7,
		CompanyEnterprise: 4,
		AIBonus:           3,
		ReputationBonus:   1,
	}
}
