package scrape

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"

	"jobradar/internal/jobs"
)

const remoteOKFixture = `[
	{"legal": "API terms of use apply."},
	{"id": 1, "position": "AI Engineer", "company": "Acme", "url": "https://remoteok.com/jobs/1",
	 "location": "Worldwide", "description": "<p>Build&nbsp;LLM systems</p>", "tags": ["python", "ai"]},
	{"id": 2, "position": "Sales Manager", "company": "Globex", "url": "https://remoteok.com/jobs/2",
	 "tags": ["sales"]},
	{"id": 3, "position": "ML Engineer", "company": "Initech", "url": "https://remoteok.com/jobs/3",
	 "tags": ["machine learning"]}
]`

func TestRemoteOKFiltersAndNormalizes(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("User-Agent") == "" {
			t.Error("expected a user agent header")
		}
		w.Write([]byte(remoteOKFixture))
	}))
	defer server.Close()

	source := NewRemoteOK([]string{"AI", "machine learning"}, 0, zap.NewNop())
	source.APIURL = server.URL

	postings, err := source.Fetch(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(postings) != 2 {
		t.Fatalf("expected 2 matching postings, got %d", len(postings))
	}

	first := postings[0]
	if first.Title != "AI Engineer" || first.Company != "Acme" {
		t.Fatalf("unexpected posting: %+v", first)
	}
	if first.Description != "Build LLM systems" {
		t.Fatalf("expected cleaned description, got %q", first.Description)
	}
	if !first.Remote || first.Source != "remoteok" {
		t.Fatalf("expected remote posting from remoteok, got %+v", first)
	}
}

func TestRemoteOKLimit(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(remoteOKFixture))
	}))
	defer server.Close()

	source := NewRemoteOK(nil, 1, zap.NewNop())
	source.APIURL = server.URL

	postings, err := source.Fetch(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(postings) != 1 {
		t.Fatalf("expected limit of 1, got %d", len(postings))
	}
}

func TestRemoteOKBadStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	source := NewRemoteOK(nil, 0, zap.NewNop())
	source.APIURL = server.URL

	if _, err := source.Fetch(context.Background()); err == nil {
		t.Fatal("expected error for non-200 status")
	}
}

const wwrFixture = `<html><body>
<section class="jobs">
  <ul>
    <li>
      <a href="/remote-jobs/acme-ai-engineer"><span class="title">AI Engineer</span>
      <span class="company">Acme</span><span class="region">Anywhere in the World</span></a>
    </li>
    <li class="view-all"><a href="/categories/all">View all</a></li>
    <li>
      <a href="/remote-jobs/globex-data-scientist"><span class="title">Data Scientist</span>
      <span class="company">Globex</span><span class="region">Europe Only</span></a>
    </li>
  </ul>
</section>
</body></html>`

func TestWeWorkRemotelyParsesListings(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/categories/remote-ai-jobs" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.Write([]byte(wwrFixture))
	}))
	defer server.Close()

	source := NewWeWorkRemotely([]string{"remote-ai-jobs"}, 0, zap.NewNop())
	source.BaseURL = server.URL

	postings, err := source.Fetch(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(postings) != 2 {
		t.Fatalf("expected 2 postings, got %d", len(postings))
	}

	first := postings[0]
	if first.Title != "AI Engineer" || first.Company != "Acme" {
		t.Fatalf("unexpected posting: %+v", first)
	}
	if first.URL != server.URL+"/remote-jobs/acme-ai-engineer" {
		t.Fatalf("expected absolute listing URL, got %q", first.URL)
	}
	if first.Location != "Anywhere in the World" {
		t.Fatalf("unexpected location %q", first.Location)
	}
}

type stubSource struct {
	name     string
	postings []*jobs.Posting
	err      error
}

func (s *stubSource) Name() string { return s.name }

func (s *stubSource) Fetch(context.Context) ([]*jobs.Posting, error) {
	return s.postings, s.err
}

func TestRunnerAbsorbsPartialFailure(t *testing.T) {
	ok := &stubSource{name: "ok", postings: []*jobs.Posting{
		{Title: "Role", Company: "Acme", URL: "https://example.com/1"},
	}}
	broken := &stubSource{name: "broken", err: errors.New("timeout")}

	runner := NewRunner([]Source{broken, ok}, zap.NewNop())
	postings, err := runner.Run(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if postings.Len() != 1 {
		t.Fatalf("expected postings from healthy source, got %d", postings.Len())
	}
}

func TestRunnerFailsWhenAllSourcesFail(t *testing.T) {
	broken := &stubSource{name: "broken", err: errors.New("timeout")}
	runner := NewRunner([]Source{broken}, zap.NewNop())

	if _, err := runner.Run(context.Background()); err == nil {
		t.Fatal("expected error when every source fails")
	}
}

func TestRunnerNoSources(t *testing.T) {
	runner := NewRunner(nil, zap.NewNop())
	if _, err := runner.Run(context.Background()); err == nil {
		t.Fatal("expected error with no sources")
	}
}
