// Package ragctx assembles the verification context for a claim: similar
// past claims, known entity facts, and fetched web evidence.
package ragctx

import (
	"context"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/veredicto/veredicto/internal/dedup"
	"github.com/veredicto/veredicto/internal/fetch"
	"github.com/veredicto/veredicto/internal/model"
	"github.com/veredicto/veredicto/internal/search"
	"github.com/veredicto/veredicto/internal/store"
)

// EvidenceDoc is one fetched, cleaned, truncated evidence page.
type EvidenceDoc struct {
	URL     string
	Domain  string
	Title   string
	Snippet string // Search-result snippet
	Text    string // Extracted page body, truncated to the char budget
}

// Context is everything the verification agents see about a claim.
type Context struct {
	ClaimText     string
	SimilarClaims []dedup.SimilarClaim
	EntityFacts   []model.EntityFact
	Evidence      []EvidenceDoc
	SearchResults []search.Result // Full ranked list, beyond the fetched top pages
}

// Builder runs the three context retrievals.
type Builder struct {
	store    *store.Store
	searcher search.Provider
	fetcher  *fetch.Fetcher
	cfg      model.SearchConfig
	evidence model.EvidenceConfig
	log      *zap.Logger
}

// NewBuilder creates a context builder.
func NewBuilder(st *store.Store, searcher search.Provider, fetcher *fetch.Fetcher,
	searchCfg model.SearchConfig, evidenceCfg model.EvidenceConfig, log *zap.Logger) *Builder {
	if log == nil {
		log = zap.NewNop()
	}
	if evidenceCfg.TopPages <= 0 {
		evidenceCfg.TopPages = 5
	}
	if evidenceCfg.CharBudget <= 0 {
		evidenceCfg.CharBudget = 2500
	}
	return &Builder{
		store:    st,
		searcher: searcher,
		fetcher:  fetcher,
		cfg:      searchCfg,
		evidence: evidenceCfg,
		log:      log,
	}
}

// Build gathers entity facts and web evidence concurrently and joins them
// with the similar claims from dedup. Every branch tolerates failure:
// a dead search provider or an unfetchable page only shrinks the context,
// and zero evidence is a valid (if weak) state.
func (b *Builder) Build(ctx context.Context, claimText string, entities []model.EntityMention, similar []dedup.SimilarClaim) *Context {
	result := &Context{
		ClaimText:     claimText,
		SimilarClaims: similar,
	}

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		names := make([]string, 0, len(entities))
		for _, e := range entities {
			names = append(names, e.Name)
		}
		facts, err := b.store.FactsForEntities(names, 0.7, 5)
		if err != nil {
			b.log.Warn("entity fact retrieval failed", zap.Error(err))
			return nil
		}
		mu.Lock()
		result.EntityFacts = facts
		mu.Unlock()
		return nil
	})

	g.Go(func() error {
		docs, results := b.gatherWebEvidence(gctx, claimText)
		mu.Lock()
		result.Evidence = docs
		result.SearchResults = results
		mu.Unlock()
		return nil
	})

	// Branches swallow their own errors; the join only orders completion.
	_ = g.Wait()
	return result
}

// gatherWebEvidence searches for the claim and fetches the top pages.
// The query carries a fact-check locale hint so regional outlets rank.
func (b *Builder) gatherWebEvidence(ctx context.Context, claimText string) ([]EvidenceDoc, []search.Result) {
	if b.searcher == nil {
		return nil, nil
	}

	results, err := b.searcher.Search(ctx, claimText+" verificación hechos", search.Options{
		Locale: b.cfg.Locale,
		Max:    b.cfg.MaxResults,
	})
	if err != nil {
		b.log.Warn("web search failed", zap.Error(err))
		return nil, nil
	}
	if len(results) == 0 || b.fetcher == nil {
		return nil, results
	}

	top := results
	if len(top) > b.evidence.TopPages {
		top = top[:b.evidence.TopPages]
	}

	docs := make([]EvidenceDoc, len(top))
	var wg sync.WaitGroup
	for i, r := range top {
		wg.Add(1)
		go func(i int, r search.Result) {
			defer wg.Done()

			fetchCtx := ctx
			if b.evidence.FetchTimeout > 0 {
				var cancel context.CancelFunc
				fetchCtx, cancel = context.WithTimeout(ctx, b.evidence.FetchTimeout)
				defer cancel()
			}

			doc := EvidenceDoc{
				URL:     r.URL,
				Domain:  model.DomainOf(r.URL, ""),
				Title:   r.Title,
				Snippet: r.Snippet,
			}
			page, err := b.fetcher.Page(fetchCtx, r.URL)
			if err != nil {
				// Blocked or timed-out fetches are dropped silently;
				// the snippet still carries some signal.
				b.log.Debug("evidence fetch dropped", zap.String("url", r.URL), zap.Error(err))
			} else {
				doc.Text = fetch.Truncate(page.Text, b.evidence.CharBudget)
				if page.Title != "" {
					doc.Title = page.Title
				}
			}
			docs[i] = doc
		}(i, r)
	}
	wg.Wait()

	// A doc with no body text and no snippet carries nothing for the
	// agents and must not count as retrieved evidence.
	kept := docs[:0]
	for _, doc := range docs {
		if doc.Text == "" && doc.Snippet == "" {
			continue
		}
		kept = append(kept, doc)
	}
	return kept, results
}
