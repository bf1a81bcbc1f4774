package search

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/veredicto/veredicto/internal/model"
)

func TestBraveProvider_Search(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/web/search" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.Header.Get("X-Subscription-Token") != "test-key" {
			t.Errorf("missing subscription token")
		}
		if got := r.URL.Query().Get("country"); got != "ES" {
			t.Errorf("locale not forwarded, country = %q", got)
		}
		_, _ = w.Write([]byte(`{"web": {"results": [
			{"url": "https://factchecker.example/a", "title": "A", "description": "snippet a"},
			{"url": "", "title": "no url"},
			{"url": "https://news.example/b", "title": "B", "description": "snippet b"}
		]}}`))
	}))
	defer server.Close()

	p, err := NewBraveProvider(model.ProviderConfig{APIKey: "test-key", BaseURL: server.URL}, 0)
	if err != nil {
		t.Fatalf("creating provider: %v", err)
	}

	results, err := p.Search(context.Background(), "presupuesto salud", Options{Locale: "es", Max: 5})
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results (empty URL dropped), got %d", len(results))
	}
	if results[0].URL != "https://factchecker.example/a" || results[0].Snippet != "snippet a" {
		t.Errorf("unexpected first result: %+v", results[0])
	}
}

func TestBraveProvider_RetriesTransientFailure(t *testing.T) {
	var calls int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt64(&calls, 1) < 3 {
			http.Error(w, "try later", http.StatusTooManyRequests)
			return
		}
		_, _ = w.Write([]byte(`{"web": {"results": [{"url": "https://x.example", "title": "X"}]}}`))
	}))
	defer server.Close()

	p, _ := NewBraveProvider(model.ProviderConfig{APIKey: "k", BaseURL: server.URL}, 0)
	results, err := p.Search(context.Background(), "q", Options{})
	if err != nil {
		t.Fatalf("search should succeed on the third attempt: %v", err)
	}
	if len(results) != 1 {
		t.Errorf("expected 1 result, got %d", len(results))
	}
	if atomic.LoadInt64(&calls) != 3 {
		t.Errorf("expected 3 attempts, got %d", calls)
	}
}

func TestBraveProvider_RequiresKey(t *testing.T) {
	if _, err := NewBraveProvider(model.ProviderConfig{}, 0); err == nil {
		t.Errorf("expected error for missing API key")
	}
}

type stubSearch struct {
	name    string
	results []Result
	err     error
	calls   int
}

func (s *stubSearch) Name() string { return s.name }

func (s *stubSearch) Search(ctx context.Context, query string, opts Options) ([]Result, error) {
	s.calls++
	return s.results, s.err
}

func TestChain_FallsBack(t *testing.T) {
	primary := &stubSearch{name: "primary", err: fmt.Errorf("quota exceeded")}
	secondary := &stubSearch{name: "secondary", results: []Result{{URL: "https://x.example"}}}

	chain, err := NewChain(primary, secondary)
	if err != nil {
		t.Fatalf("building chain: %v", err)
	}

	results, err := chain.Search(context.Background(), "q", Options{})
	if err != nil {
		t.Fatalf("chain search: %v", err)
	}
	if len(results) != 1 {
		t.Errorf("expected secondary results, got %v", results)
	}
	if primary.calls != 1 || secondary.calls != 1 {
		t.Errorf("expected both providers tried, got %d/%d", primary.calls, secondary.calls)
	}
}

func TestChain_AllFail(t *testing.T) {
	chain, _ := NewChain(&stubSearch{name: "a", err: fmt.Errorf("down")})
	if _, err := chain.Search(context.Background(), "q", Options{}); err == nil {
		t.Errorf("expected error when all providers fail")
	}
}

func TestSearxProvider_Search(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("format"); got != "json" {
			t.Errorf("expected format=json, got %q", got)
		}
		_, _ = w.Write([]byte(`{"results": [
			{"url": "https://a.example", "title": "A", "content": "body a"}
		]}`))
	}))
	defer server.Close()

	p, err := NewSearxProvider(model.ProviderConfig{BaseURL: server.URL}, 0)
	if err != nil {
		t.Fatalf("creating provider: %v", err)
	}
	results, err := p.Search(context.Background(), "q", Options{Max: 3})
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(results) != 1 || results[0].Snippet != "body a" {
		t.Errorf("unexpected results: %+v", results)
	}
}
