package enrich

import "strings"

// Corporate suffixes stripped during employer name normalization so postings
// at "Acme", "Acme Inc." and "ACME LLC" share one cache entry.
var corporateSuffixes = []string{
	"inc", "inc.", "llc", "llc.", "ltd", "ltd.", "limited",
	"corp", "corp.", "corporation", "co", "co.", "company",
	"gmbh", "s.a.", "b.v.", "plc",
}

// NormalizeEmployer folds an employer name into the cache key form: lower
// case, trimmed, inner whitespace collapsed, trailing corporate suffixes
// removed.
func NormalizeEmployer(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	name = strings.Join(strings.Fields(name), " ")
	name = strings.TrimSuffix(name, ",")

	for changed := true; changed; {
		changed = false
		for _, suffix := range corporateSuffixes {
			trimmed := strings.TrimSuffix(name, " "+suffix)
			if trimmed != name {
				name = strings.TrimSuffix(strings.TrimSpace(trimmed), ",")
				changed = true
			}
		}
	}

	return strings.TrimSpace(name)
}
