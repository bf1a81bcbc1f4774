package ragctx

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/veredicto/veredicto/internal/dedup"
	"github.com/veredicto/veredicto/internal/fetch"
	"github.com/veredicto/veredicto/internal/model"
	"github.com/veredicto/veredicto/internal/search"
	"github.com/veredicto/veredicto/internal/store"
)

type fakeSearcher struct {
	results []search.Result
	err     error
	query   string
}

func (f *fakeSearcher) Name() string { return "fake" }

func (f *fakeSearcher) Search(ctx context.Context, query string, opts search.Options) ([]search.Result, error) {
	f.query = query
	return f.results, f.err
}

func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	st, err := store.Open(model.StoreConfig{Path: filepath.Join(t.TempDir(), "test.db")})
	if err != nil {
		t.Fatalf("opening store: %v", err)
	}
	t.Cleanup(func() { _ = st.Close() })
	return st
}

func seedFact(t *testing.T, st *store.Store, entity, fact string, confidence float64) {
	t.Helper()
	if err := st.InsertSource(model.Source{ID: "s-" + entity + fact, Platform: "news", Content: "x", Timestamp: time.Now().UTC()}); err != nil {
		t.Fatalf("inserting source: %v", err)
	}
	claimID := "c-" + entity + fact
	claim := &model.Claim{ID: claimID, ClaimText: "seed", Status: model.StatusVerified,
		EvidenceStrength: model.EvidenceStrong, SourceID: "s-" + entity + fact}
	if err := st.InsertClaim(claim, nil); err != nil {
		t.Fatalf("inserting claim: %v", err)
	}
	entityID, err := st.EnsureEntity(model.EntityMention{Name: entity, Type: model.EntityInstitution})
	if err != nil {
		t.Fatalf("ensure entity: %v", err)
	}
	err = st.UpsertFact(model.EntityFact{
		EntityID: entityID, FactText: fact, SourceClaimID: claimID, Confidence: confidence,
	})
	if err != nil {
		t.Fatalf("upsert fact: %v", err)
	}
}

func TestBuild_GathersFactsAndSearchResults(t *testing.T) {
	st := newTestStore(t)
	seedFact(t, st, "Ministerio", "budget is 200 million", 0.9)
	seedFact(t, st, "Ministerio", "low confidence rumor", 0.3)

	searcher := &fakeSearcher{results: []search.Result{
		{URL: "https://factcheck.example/a", Title: "A", Snippet: "snippet"},
	}}
	b := NewBuilder(st, searcher, nil, model.SearchConfig{Locale: "es", MaxResults: 10}, model.EvidenceConfig{}, nil)

	vc := b.Build(context.Background(), "el presupuesto se duplicó",
		[]model.EntityMention{{Name: "Ministerio"}},
		[]dedup.SimilarClaim{{ClaimID: "c0", ClaimText: "similar", Similarity: 0.8}})

	if len(vc.EntityFacts) != 1 || vc.EntityFacts[0].FactText != "budget is 200 million" {
		t.Errorf("expected only the high-confidence fact, got %v", vc.EntityFacts)
	}
	if len(vc.SearchResults) != 1 {
		t.Errorf("search results missing: %v", vc.SearchResults)
	}
	if len(vc.SimilarClaims) != 1 {
		t.Errorf("similar claims not carried through")
	}
	if !strings.Contains(searcher.query, "el presupuesto se duplicó") {
		t.Errorf("claim text missing from search query: %q", searcher.query)
	}
	// No fetcher configured, so pages cannot become evidence docs.
	if len(vc.Evidence) != 0 {
		t.Errorf("unexpected evidence docs: %v", vc.Evidence)
	}
}

func TestBuild_SearchFailureShrinksContext(t *testing.T) {
	st := newTestStore(t)
	b := NewBuilder(st, &fakeSearcher{err: fmt.Errorf("quota exhausted")}, nil,
		model.SearchConfig{}, model.EvidenceConfig{}, nil)

	vc := b.Build(context.Background(), "claim", nil, nil)
	if vc == nil {
		t.Fatal("builder must always return a context")
	}
	if len(vc.Evidence) != 0 || len(vc.SearchResults) != 0 {
		t.Errorf("failed search must yield empty evidence, got %+v", vc)
	}
}

func TestBuild_EmptyDocsDropped(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/robots.txt" {
			w.WriteHeader(http.StatusOK)
			return
		}
		http.Error(w, "gone", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	st := newTestStore(t)
	fetcher := fetch.NewFetcher(
		model.HTTPConfig{Timeout: 2 * time.Second, MaxBodyBytes: 1 << 20},
		model.CacheConfig{}, model.RateLimitConfig{})
	searcher := &fakeSearcher{results: []search.Result{
		{URL: server.URL + "/a", Title: "A", Snippet: "snippet survives"},
		{URL: server.URL + "/b", Title: "B"},
	}}
	b := NewBuilder(st, searcher, fetcher, model.SearchConfig{}, model.EvidenceConfig{}, nil)

	vc := b.Build(context.Background(), "claim", nil, nil)
	if len(vc.Evidence) != 1 || vc.Evidence[0].Snippet != "snippet survives" {
		t.Fatalf("expected only the snippet-bearing doc, got %+v", vc.Evidence)
	}
	if len(vc.SearchResults) != 2 {
		t.Errorf("full result list must survive the doc filter, got %d", len(vc.SearchResults))
	}
}

func TestBuild_NoSearcher(t *testing.T) {
	st := newTestStore(t)
	b := NewBuilder(st, nil, nil, model.SearchConfig{}, model.EvidenceConfig{}, nil)

	vc := b.Build(context.Background(), "claim", nil, nil)
	if len(vc.SearchResults) != 0 {
		t.Errorf("nil searcher must yield no results")
	}
	if vc.ClaimText != "claim" {
		t.Errorf("claim text lost")
	}
}
