package jobs

// ScoreBreakdown holds the component scores for one posting together with a
// human-readable rationale. It is produced once by the scoring engine and
// never mutated afterwards.
type ScoreBreakdown struct {
	Posting *Posting

	Similarity    float64
	SkillsMatch   float64
	ExperienceFit float64
	CompanySignal float64
	Adjustments   float64

	// Total is the clamped sum of the components, in [0, 100] under the
	// reference weights.
	Total float64

	// Rationale lists one entry per non-zero component, in the fixed order
	// similarity, skills, experience, company, adjustments. Clamping, when
	// it happens, is recorded as a final entry.
	Rationale []string

	// Clamped is set when Total had to be cut to the scale maximum.
	Clamped bool
}
