package cli

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/veredicto/veredicto/internal/agents"
	"github.com/veredicto/veredicto/internal/dedup"
	"github.com/veredicto/veredicto/internal/embed"
	"github.com/veredicto/veredicto/internal/extract"
	"github.com/veredicto/veredicto/internal/feedback"
	"github.com/veredicto/veredicto/internal/fetch"
	"github.com/veredicto/veredicto/internal/llm"
	"github.com/veredicto/veredicto/internal/metrics"
	"github.com/veredicto/veredicto/internal/model"
	"github.com/veredicto/veredicto/internal/pipeline"
	"github.com/veredicto/veredicto/internal/ragctx"
	"github.com/veredicto/veredicto/internal/review"
	"github.com/veredicto/veredicto/internal/search"
	"github.com/veredicto/veredicto/internal/store"
)

// app holds the fully wired pipeline for one command invocation.
type app struct {
	cfg     *model.Config
	log     *zap.Logger
	store   *store.Store
	pipe    *pipeline.Pipeline
	miner   *feedback.Miner
	review  *review.Service
	correct *feedback.Service
	metrics *metrics.Metrics
}

// newApp builds the pipeline from configuration. withMetrics registers
// Prometheus collectors; one-shot commands leave it off.
func newApp(withMetrics bool) (*app, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	log, err := newLogger()
	if err != nil {
		return nil, fmt.Errorf("building logger: %w", err)
	}

	st, err := store.Open(cfg.Store)
	if err != nil {
		return nil, err
	}

	provider, err := llm.NewFromConfig(cfg.LLM)
	if err != nil {
		_ = st.Close()
		return nil, err
	}

	embedder, err := embed.NewOpenAIEmbedder(cfg.Embed)
	if err != nil {
		_ = st.Close()
		return nil, err
	}

	// A dead search provider degrades verification instead of blocking it:
	// agents still run over similar claims and entity facts.
	searcher, err := search.NewFromConfig(cfg.Search)
	if err != nil {
		log.Warn("web search disabled", zap.Error(err))
		searcher = nil
	}

	fetcher := fetch.NewFetcher(cfg.HTTP, cfg.Cache, cfg.RateLimit)

	var m *metrics.Metrics
	if withMetrics {
		m = metrics.New()
	}

	pipe := pipeline.New(
		extract.NewExtractor(provider, log),
		dedup.NewEngine(embedder, st, cfg.Dedup),
		ragctx.NewBuilder(st, searcher, fetcher, cfg.Search, cfg.Evidence, log),
		agents.NewPool(provider, cfg.Agents, log),
		pipeline.NewSynthesizer(provider, cfg.LLM, log),
		st, cfg.Review, m, log,
	)

	return &app{
		cfg:     cfg,
		log:     log,
		store:   st,
		pipe:    pipe,
		miner:   feedback.NewMiner(st, provider, embedder, log),
		review:  review.NewService(st),
		correct: feedback.NewService(st, log),
		metrics: m,
	}, nil
}

// openStore opens just the knowledge store, for commands that never call
// a model or the network.
func openStore() (*store.Store, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	return store.Open(cfg.Store)
}

func (a *app) Close() {
	_ = a.log.Sync()
	if err := a.store.Close(); err != nil {
		a.log.Warn("closing store", zap.Error(err))
	}
}
