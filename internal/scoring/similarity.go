package scoring

import (
	"math"
	"strings"
	"unicode"
)

// Common English and job-board filler dropped before similarity matching.
var stopwords = map[string]bool{
	"a": true, "an": true, "and": true, "are": true, "as": true, "at": true,
	"be": true, "by": true, "for": true, "from": true, "in": true, "is": true,
	"it": true, "of": true, "on": true, "or": true, "our": true, "the": true,
	"to": true, "we": true, "with": true, "you": true, "your": true,
	"will": true, "have": true, "this": true, "that": true,
}

// tokenize lowercases the text and splits it into alphanumeric terms,
// dropping stopwords and single characters.
func tokenize(text string) []string {
	fields := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})

	tokens := make([]string, 0, len(fields))
	for _, field := range fields {
		if len(field) < 2 || stopwords[field] {
			continue
		}
		tokens = append(tokens, field)
	}
	return tokens
}

func termFrequencies(tokens []string) map[string]float64 {
	freq := make(map[string]float64, len(tokens))
	for _, token := range tokens {
		freq[token]++
	}
	return freq
}

// cosine computes the cosine similarity of two term-frequency vectors.
// Unlike embedding distance, this is a pure function of the texts, so scores
// are reproducible across runs and machines.
func cosine(a, b map[string]float64) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}

	var dot, normA, normB float64
	for term, count := range a {
		normA += count * count
		if other, ok := b[term]; ok {
			dot += count * other
		}
	}
	for _, count := range b {
		normB += count * count
	}

	if dot == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
