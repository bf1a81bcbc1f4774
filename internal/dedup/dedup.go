// Package dedup decides whether a freshly extracted claim was already
// verified, and collects near matches for historical context.
package dedup

import (
	"context"
	"fmt"

	"github.com/veredicto/veredicto/internal/embed"
	"github.com/veredicto/veredicto/internal/model"
	"github.com/veredicto/veredicto/internal/store"
)

// SimilarClaim is a prior claim inside the historical-context band.
type SimilarClaim struct {
	ClaimID    string
	ClaimText  string
	Similarity float64
}

// Result is the outcome of a dedup check. Duplicate is non-nil when an
// existing verdict should be reused. Embedding is the canonical vector of
// the candidate text; the orchestrator persists this exact vector so
// similarity scores stay comparable across the corpus.
type Result struct {
	Duplicate *model.Claim
	Similar   []SimilarClaim
	Embedding []float32
}

// Engine embeds candidate claims and searches the store for prior verdicts.
type Engine struct {
	embedder embed.Embedder
	store    *store.Store
	cfg      model.DedupConfig
}

// NewEngine creates a deduplication engine.
func NewEngine(embedder embed.Embedder, st *store.Store, cfg model.DedupConfig) *Engine {
	if cfg.DuplicateThreshold == 0 {
		cfg.DuplicateThreshold = 0.95
	}
	if cfg.SimilarThreshold == 0 {
		cfg.SimilarThreshold = 0.70
	}
	if cfg.TopK == 0 {
		cfg.TopK = 8
	}
	return &Engine{embedder: embedder, store: st, cfg: cfg}
}

// Check embeds claimText and classifies prior claims into the duplicate
// band (reuse verdict, >= 0.95) and the similar band ([0.70, 0.95),
// forwarded to the context builder). Matches below 0.70 are dropped.
func (e *Engine) Check(ctx context.Context, claimText string) (*Result, error) {
	vectors, err := e.embedder.Embed(ctx, []string{claimText})
	if err != nil {
		return nil, fmt.Errorf("embedding claim: %w", err)
	}
	if len(vectors) != 1 {
		return nil, fmt.Errorf("embedding claim: expected 1 vector, got %d", len(vectors))
	}
	vec := vectors[0]

	matches, err := e.store.NearestClaims(vec, e.cfg.TopK, e.cfg.SimilarThreshold)
	if err != nil {
		return nil, fmt.Errorf("searching prior claims: %w", err)
	}

	result := &Result{Embedding: vec}
	for _, m := range matches {
		if m.Similarity >= e.cfg.DuplicateThreshold && result.Duplicate == nil {
			claim, err := e.store.ClaimByID(m.ClaimID)
			if err != nil {
				return nil, fmt.Errorf("loading duplicate claim %s: %w", m.ClaimID, err)
			}
			result.Duplicate = claim
			continue
		}
		if m.Similarity < e.cfg.DuplicateThreshold {
			result.Similar = append(result.Similar, SimilarClaim{
				ClaimID:    m.ClaimID,
				ClaimText:  m.ClaimText,
				Similarity: m.Similarity,
			})
		}
	}
	return result, nil
}
