package scoring

import "testing"

func TestCosineIdenticalTexts(t *testing.T) {
	terms := termFrequencies(tokenize("Build RAG systems with Python"))
	if got := cosine(terms, terms); got < 0.999 {
		t.Fatalf("expected identical texts to score ~1, got %v", got)
	}
}

func TestCosineDisjointTexts(t *testing.T) {
	a := termFrequencies(tokenize("python machine learning"))
	b := termFrequencies(tokenize("plumbing repair services"))
	if got := cosine(a, b); got != 0 {
		t.Fatalf("expected disjoint texts to score 0, got %v", got)
	}
}

func TestCosineEmptyInput(t *testing.T) {
	a := termFrequencies(tokenize("python"))
	if got := cosine(a, map[string]float64{}); got != 0 {
		t.Fatalf("expected empty vector to score 0, got %v", got)
	}
}

func TestTokenizeDropsNoise(t *testing.T) {
	tokens := tokenize("We are looking for a Python/PyTorch engineer!")
	for _, token := range tokens {
		switch token {
		case "we", "are", "for", "a":
			t.Fatalf("expected stopword %q to be dropped", token)
		}
	}

	want := map[string]bool{"looking": true, "python": true, "pytorch": true, "engineer": true}
	for _, token := range tokens {
		if !want[token] {
			t.Fatalf("unexpected token %q", token)
		}
		delete(want, token)
	}
	if len(want) != 0 {
		t.Fatalf("missing tokens: %v", want)
	}
}
