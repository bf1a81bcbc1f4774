package feedback

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/veredicto/veredicto/internal/embed"
	"github.com/veredicto/veredicto/internal/llm"
	"github.com/veredicto/veredicto/internal/model"
	"github.com/veredicto/veredicto/internal/store"
)

// Miner extracts durable entity facts from settled claims so future
// verifications start with more context. It runs on a timer, visits each
// claim once, and tolerates a bad batch by moving on.
type Miner struct {
	store    *store.Store
	provider llm.Provider
	embedder embed.Embedder
	batch    int
	log      *zap.Logger
}

// NewMiner creates a fact miner.
func NewMiner(st *store.Store, provider llm.Provider, embedder embed.Embedder, log *zap.Logger) *Miner {
	if log == nil {
		log = zap.NewNop()
	}
	return &Miner{store: st, provider: provider, embedder: embedder, batch: 20, log: log}
}

const minerSystem = `You distill verified fact-check verdicts into discrete, durable facts about named entities. Each fact must stand on its own, name the entity explicitly, and follow from the verdict. You respond with a single JSON object.`

type minedFact struct {
	Entity     string  `json:"entity"`
	EntityType string  `json:"entity_type"`
	Fact       string  `json:"fact"`
	Confidence float64 `json:"confidence"`
}

type minerOutput struct {
	Facts []minedFact `json:"facts"`
}

// MineOnce visits one batch of unmined settled claims. It returns the
// number of facts stored; per-claim failures are logged and skipped so one
// bad claim cannot wedge the ticker.
func (m *Miner) MineOnce(ctx context.Context) (int, error) {
	claims, err := m.store.ClaimsToMine(m.batch)
	if err != nil {
		return 0, err
	}

	var stored int
	for _, claim := range claims {
		if ctx.Err() != nil {
			return stored, ctx.Err()
		}
		n, err := m.mineClaim(ctx, claim)
		if err != nil {
			m.log.Warn("fact mining failed for claim",
				zap.String("claim_id", claim.ID), zap.Error(err))
			continue
		}
		stored += n
		if err := m.store.MarkMined(claim.ID); err != nil {
			return stored, err
		}
	}
	return stored, nil
}

func (m *Miner) mineClaim(ctx context.Context, claim model.Claim) (int, error) {
	resp, err := m.provider.Complete(ctx, llm.Request{
		System:      minerSystem,
		Prompt:      m.buildPrompt(claim),
		JSONMode:    true,
		Temperature: 0.1,
	})
	if err != nil {
		return 0, fmt.Errorf("mining call: %w", err)
	}

	var out minerOutput
	if err := llm.DecodeJSON(resp.Text, &out); err != nil {
		// Unusable output: record the visit so the claim is not retried
		// forever, and mine nothing from it.
		m.log.Warn("malformed miner output, skipping claim",
			zap.String("claim_id", claim.ID), zap.Error(err))
		return 0, m.store.MarkMined(claim.ID)
	}

	facts := make([]minedFact, 0, len(out.Facts))
	texts := make([]string, 0, len(out.Facts))
	for _, f := range out.Facts {
		if strings.TrimSpace(f.Entity) == "" || strings.TrimSpace(f.Fact) == "" {
			continue
		}
		facts = append(facts, f)
		texts = append(texts, f.Fact)
	}
	if len(facts) == 0 {
		return 0, nil
	}

	vectors, err := m.embedder.Embed(ctx, texts)
	if err != nil {
		return 0, fmt.Errorf("embedding facts: %w", err)
	}
	if len(vectors) != len(facts) {
		return 0, fmt.Errorf("embedding facts: expected %d vectors, got %d", len(facts), len(vectors))
	}

	var stored int
	for i, f := range facts {
		entityID, err := m.store.EnsureEntity(model.EntityMention{
			Name: strings.TrimSpace(f.Entity),
			Type: mineEntityType(f.EntityType),
		})
		if err != nil {
			return stored, err
		}
		if err := m.store.UpsertFact(model.EntityFact{
			EntityID:      entityID,
			FactText:      strings.TrimSpace(f.Fact),
			Embedding:     vectors[i],
			SourceClaimID: claim.ID,
			Confidence:    clampConfidence(f.Confidence),
		}); err != nil {
			return stored, err
		}
		stored++
	}

	m.log.Debug("mined facts from claim",
		zap.String("claim_id", claim.ID), zap.Int("facts", stored))
	return stored, nil
}

func (m *Miner) buildPrompt(claim model.Claim) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Claim: %s\nVerdict: %s (confidence %.2f)\nExplanation: %s\n\n",
		claim.ClaimText, claim.Status, claim.Confidence, claim.Explanation)
	b.WriteString(`Extract durable facts about the named people, institutions, and locations that follow from this verdict. For a debunked claim, the fact is what is actually true (including that the claim itself is false), never the debunked assertion. Skip facts about unnamed or generic subjects.

Respond with JSON:
{"facts": [{"entity": "<name>", "entity_type": "person|institution|location", "fact": "<one self-contained sentence>", "confidence": <0.0-1.0>}]}`)
	return b.String()
}

func mineEntityType(t string) model.EntityType {
	switch strings.ToLower(strings.TrimSpace(t)) {
	case "person":
		return model.EntityPerson
	case "location", "place":
		return model.EntityLocation
	default:
		return model.EntityInstitution
	}
}

func clampConfidence(c float64) float64 {
	if c < 0 {
		return 0
	}
	if c > 1 {
		return 1
	}
	return c
}
