package jobs

import (
	"crypto/sha256"
	"fmt"
	"strings"
)

// Seniority is the required experience level stated or inferred for a posting.
type Seniority string

const (
	SeniorityIntern  Seniority = "intern"
	SeniorityJunior  Seniority = "junior"
	SeniorityMid     Seniority = "mid"
	SenioritySenior  Seniority = "senior"
	SeniorityLead    Seniority = "lead"
	SeniorityUnknown Seniority = "unknown"
)

// Posting is one scraped job listing, normalized to a canonical shape
// regardless of source. It is treated as immutable once it enters the
// ranking pipeline.
type Posting struct {
	Title       string `json:"title"`
	Company     string `json:"company"`
	URL         string `json:"url"`
	Source      string `json:"source"`
	Location    string `json:"location,omitempty"`
	Remote      bool   `json:"remote,omitempty"`
	Description string `json:"description,omitempty"`

	// Structured fields populated by the upstream parser. Optional; the
	// scoring engine falls back to description matching when absent.
	Skills        []string  `json:"skills,omitempty"`
	Seniority     Seniority `json:"seniority,omitempty"`
	YearsRequired int       `json:"years_required,omitempty"` // 0 means unstated
}

// ID returns a stable identifier for deduplication, derived from the
// posting URL plus title and company.
func (p *Posting) ID() string {
	content := strings.ToLower(fmt.Sprintf("%s|%s|%s", p.URL, p.Title, p.Company))
	sum := sha256.Sum256([]byte(content))
	return fmt.Sprintf("%x", sum[:8])
}

// Postings is an ordered collection of postings. Order is significant: it is
// the pre-scoring priority order used for enrichment subset selection and
// for breaking score ties.
type Postings struct {
	Items []*Posting
}

func (p *Postings) Len() int {
	if p == nil {
		return 0
	}
	return len(p.Items)
}

// Dedup removes postings with duplicate IDs, keeping the first occurrence.
// It returns the IDs of the removed postings.
func (p *Postings) Dedup() []string {
	seen := make(map[string]bool, len(p.Items))
	kept := make([]*Posting, 0, len(p.Items))
	var removed []string

	for _, posting := range p.Items {
		id := posting.ID()
		if seen[id] {
			removed = append(removed, id)
			continue
		}
		seen[id] = true
		kept = append(kept, posting)
	}

	p.Items = kept
	return removed
}

// Companies returns the distinct company names in collection order.
func (p *Postings) Companies() []string {
	seen := make(map[string]bool, len(p.Items))
	var out []string
	for _, posting := range p.Items {
		name := strings.TrimSpace(posting.Company)
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		out = append(out, name)
	}
	return out
}
