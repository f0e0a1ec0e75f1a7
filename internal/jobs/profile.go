package jobs

import (
	"errors"
	"fmt"
	"strings"
)

// CandidateProfile describes the single candidate the pipeline ranks for.
// It is supplied once at pipeline start and never mutated during a run.
type CandidateProfile struct {
	Name    string `mapstructure:"name"`
	Summary string `mapstructure:"summary"`
	// Skills is an ordered list of normalized skill names; order reflects
	// priority and is preserved in score rationales.
	Skills          []string    `mapstructure:"skills"`
	TargetRoles     []string    `mapstructure:"target_roles"`
	YearsExperience int         `mapstructure:"years_experience"`
	PreferredLevels []Seniority `mapstructure:"preferred_levels"`
	Locations       []string    `mapstructure:"locations"`
	RemoteOnly      bool        `mapstructure:"remote_only"`
}

// Validate reports whether the profile carries the fields the scoring engine
// depends on. A profile failing validation is a fatal condition for the run.
func (p *CandidateProfile) Validate() error {
	if p == nil {
		return errors.New("candidate profile is required")
	}
	if strings.TrimSpace(p.Summary) == "" && len(p.Skills) == 0 {
		return errors.New("candidate profile needs a summary or a skills list")
	}
	if p.YearsExperience < 0 {
		return fmt.Errorf("years_experience must not be negative, got %d", p.YearsExperience)
	}
	return nil
}

// SummaryText is the canonical text representation of the profile used for
// similarity matching against posting descriptions.
func (p *CandidateProfile) SummaryText() string {
	parts := make([]string, 0, 3)
	if s := strings.TrimSpace(p.Summary); s != "" {
		parts = append(parts, s)
	}
	if len(p.Skills) > 0 {
		parts = append(parts, "Core skills: "+strings.Join(p.Skills, ", "))
	}
	if len(p.TargetRoles) > 0 {
		parts = append(parts, "Target roles: "+strings.Join(p.TargetRoles, ", "))
	}
	return strings.Join(parts, " ")
}

// Prefers reports whether the given seniority level is one the candidate
// targets. An empty preference list accepts intern and junior roles, matching
// the reference candidate profile.
func (p *CandidateProfile) Prefers(level Seniority) bool {
	if len(p.PreferredLevels) == 0 {
		return level == SeniorityIntern || level == SeniorityJunior
	}
	for _, preferred := range p.PreferredLevels {
		if preferred == level {
			return true
		}
	}
	return false
}
