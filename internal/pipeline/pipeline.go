// Package pipeline orchestrates a source's path from raw text to a
// persisted verdict: extraction, deduplication, context building, the
// agent pool, synthesis, and review routing.
package pipeline

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/veredicto/veredicto/internal/dedup"
	"github.com/veredicto/veredicto/internal/extract"
	"github.com/veredicto/veredicto/internal/metrics"
	"github.com/veredicto/veredicto/internal/model"
	"github.com/veredicto/veredicto/internal/ragctx"
	"github.com/veredicto/veredicto/internal/review"
	"github.com/veredicto/veredicto/internal/store"
)

// Outcome classifies what happened to a processed source.
type Outcome string

const (
	// OutcomeNoClaim means the source held nothing checkable and was skipped.
	OutcomeNoClaim Outcome = "no_claim"
	// OutcomeReused means an existing claim's verdict was reused.
	OutcomeReused Outcome = "reused"
	// OutcomeVerified means a new claim went through full verification.
	OutcomeVerified Outcome = "verified"
)

// Result is the outcome of processing one source. Claim is nil only for
// OutcomeNoClaim.
type Result struct {
	Outcome Outcome
	Claim   *model.Claim
}

// Narrow views of the pipeline stages, so tests can substitute fakes
// without standing up providers.
type claimExtractor interface {
	Extract(ctx context.Context, src model.Source) (*extract.Extraction, error)
}

type dedupChecker interface {
	Check(ctx context.Context, claimText string) (*dedup.Result, error)
}

type contextBuilder interface {
	Build(ctx context.Context, claimText string, entities []model.EntityMention, similar []dedup.SimilarClaim) *ragctx.Context
}

type agentRunner interface {
	Size() int
	Run(ctx context.Context, vc *ragctx.Context) []model.AgentFinding
}

type verdictSynthesizer interface {
	Synthesize(ctx context.Context, vc *ragctx.Context, findings []model.AgentFinding) *model.Verdict
}

// Pipeline wires the verification stages together.
type Pipeline struct {
	extractor claimExtractor
	dedup     dedupChecker
	builder   contextBuilder
	pool      agentRunner
	synth     verdictSynthesizer
	store     *store.Store
	reviewCfg model.ReviewConfig
	metrics   *metrics.Metrics
	log       *zap.Logger
}

// New creates a pipeline. metrics may be nil.
func New(extractor claimExtractor, dd dedupChecker, builder contextBuilder,
	pool agentRunner, synth verdictSynthesizer, st *store.Store,
	reviewCfg model.ReviewConfig, m *metrics.Metrics, log *zap.Logger) *Pipeline {
	if log == nil {
		log = zap.NewNop()
	}
	return &Pipeline{
		extractor: extractor,
		dedup:     dd,
		builder:   builder,
		pool:      pool,
		synth:     synth,
		store:     st,
		reviewCfg: reviewCfg,
		metrics:   m,
		log:       log,
	}
}

// ProcessSource runs one source through the pipeline. Processing the same
// source twice returns the already-linked claim without re-verifying. An
// error before any write leaves the source pending, so a restarted run
// loop picks it up again.
func (p *Pipeline) ProcessSource(ctx context.Context, src model.Source) (*Result, error) {
	log := p.log.With(zap.String("source_id", src.ID))

	if claimID, ok, err := p.store.ClaimIDForSource(src.ID); err != nil {
		return nil, err
	} else if ok {
		claim, err := p.store.ClaimByID(claimID)
		if err != nil {
			return nil, err
		}
		log.Debug("source already linked to a claim", zap.String("claim_id", claimID))
		return &Result{Outcome: OutcomeReused, Claim: claim}, nil
	}

	log.Debug("pipeline stage", zap.String("stage", string(model.StageExtracting)))
	extraction, err := p.extractor.Extract(ctx, src)
	if err != nil {
		return nil, fmt.Errorf("extracting claim from source %s: %w", src.ID, err)
	}
	if extraction == nil {
		if err := p.store.MarkSourceProcessed(src.ID); err != nil {
			return nil, err
		}
		p.metrics.NoClaim()
		p.metrics.SourceProcessed()
		log.Info("no checkable claim in source")
		return &Result{Outcome: OutcomeNoClaim}, nil
	}

	log.Debug("pipeline stage", zap.String("stage", string(model.StageDeduplicated)),
		zap.String("claim_text", extraction.ClaimText))
	dedupResult, err := p.dedup.Check(ctx, extraction.ClaimText)
	if err != nil {
		return nil, fmt.Errorf("deduplicating claim for source %s: %w", src.ID, err)
	}
	if dup := dedupResult.Duplicate; dup != nil {
		if err := p.store.LinkDuplicateSource(dup.ID, src.ID); err != nil {
			return nil, err
		}
		p.metrics.DuplicateReused()
		p.metrics.SourceProcessed()
		log.Info("verdict reused from existing claim",
			zap.String("claim_id", dup.ID), zap.String("status", string(dup.Status)))
		return &Result{Outcome: OutcomeReused, Claim: dup}, nil
	}

	log.Debug("pipeline stage", zap.String("stage", string(model.StageAnalyzing)))
	vc := p.builder.Build(ctx, extraction.ClaimText, extraction.Entities, dedupResult.Similar)
	findings := p.pool.Run(ctx, vc)
	p.metrics.AgentFailures(p.pool.Size() - len(findings))

	log.Debug("pipeline stage", zap.String("stage", string(model.StageSynthesizing)),
		zap.Int("findings", len(findings)), zap.Int("evidence_docs", len(vc.Evidence)))
	verdict := p.synth.Synthesize(ctx, vc, findings)

	needsReview, priority := review.Route(verdict.Confidence, p.reviewCfg)

	claim := &model.Claim{
		ID:                uuid.NewString(),
		ClaimText:         extraction.ClaimText,
		OriginalText:      src.Content,
		Status:            verdict.Status,
		Confidence:        verdict.Confidence,
		EvidenceStrength:  verdict.EvidenceStrength,
		Explanation:       verdict.Explanation,
		KeyEvidencePoints: verdict.KeyEvidencePoints,
		Embedding:         dedupResult.Embedding,
		NeedsReview:       needsReview,
		ReviewPriority:    priority,
		AgentFindings:     findings,
		SourceID:          src.ID,
	}
	if err := p.store.InsertClaim(claim, extraction.Entities); err != nil {
		return nil, fmt.Errorf("persisting claim for source %s: %w", src.ID, err)
	}

	p.metrics.Verdict(string(claim.Status))
	p.metrics.SourceProcessed()
	if needsReview {
		p.metrics.ReviewRouted(string(priority))
	}

	log.Info("claim verified",
		zap.String("claim_id", claim.ID),
		zap.String("status", string(claim.Status)),
		zap.Float64("confidence", claim.Confidence),
		zap.String("review_priority", string(priority)))
	return &Result{Outcome: OutcomeVerified, Claim: claim}, nil
}
