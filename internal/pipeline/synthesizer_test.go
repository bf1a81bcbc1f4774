package pipeline

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/veredicto/veredicto/internal/llm"
	"github.com/veredicto/veredicto/internal/model"
	"github.com/veredicto/veredicto/internal/ragctx"
)

type fakeProvider struct {
	text string
	err  error
}

func (f *fakeProvider) Name() string { return "fake" }

func (f *fakeProvider) Complete(ctx context.Context, req llm.Request) (*llm.Response, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &llm.Response{Text: f.text}, nil
}

func (f *fakeProvider) IsAvailable(ctx context.Context) bool { return true }

func evenFindings(confidence float64) []model.AgentFinding {
	return []model.AgentFinding{
		{Agent: model.AgentEvidence, Confidence: confidence},
		{Agent: model.AgentLogic, Confidence: confidence},
	}
}

func contextWithEvidence() *ragctx.Context {
	return &ragctx.Context{
		ClaimText: "the budget doubled",
		Evidence:  []ragctx.EvidenceDoc{{URL: "https://x.test/a", Text: "evidence"}},
	}
}

func TestSynthesize_NoFindings(t *testing.T) {
	s := NewSynthesizer(&fakeProvider{text: "unused"}, model.LLMConfig{}, nil)
	verdict := s.Synthesize(context.Background(), contextWithEvidence(), nil)

	if verdict.Status != model.StatusUnverified || verdict.Confidence != 0 {
		t.Errorf("no findings must yield unverified/0, got %s/%.2f", verdict.Status, verdict.Confidence)
	}
	if verdict.EvidenceStrength != model.EvidenceInsufficient {
		t.Errorf("unexpected strength: %s", verdict.EvidenceStrength)
	}
}

func TestSynthesize_Verdict(t *testing.T) {
	s := NewSynthesizer(&fakeProvider{text: `{
		"status": "verified", "confidence": 0.9, "evidence_strength": "strong",
		"explanation": "figures check out", "key_evidence_points": ["budget doc"]
	}`}, model.LLMConfig{}, nil)

	verdict := s.Synthesize(context.Background(), contextWithEvidence(), evenFindings(0.8))
	if verdict.Status != model.StatusVerified {
		t.Fatalf("expected verified, got %s", verdict.Status)
	}
	// 0.55*0.9 + 0.45*0.8 - 0 = 0.855, strong factor 1.0
	if verdict.Confidence < 0.854 || verdict.Confidence > 0.856 {
		t.Errorf("unexpected confidence %f", verdict.Confidence)
	}
	if len(verdict.KeyEvidencePoints) != 1 {
		t.Errorf("key evidence points dropped: %v", verdict.KeyEvidencePoints)
	}
}

func TestSynthesize_ExplanationBounded(t *testing.T) {
	long := strings.Repeat("palabra ", 300)
	s := NewSynthesizer(&fakeProvider{text: fmt.Sprintf(`{
		"status": "verified", "confidence": 0.9, "evidence_strength": "strong",
		"explanation": %q
	}`, long)}, model.LLMConfig{}, nil)

	verdict := s.Synthesize(context.Background(), contextWithEvidence(), evenFindings(0.8))
	if len(verdict.Explanation) > explanationBudget {
		t.Errorf("explanation not bounded: %d chars", len(verdict.Explanation))
	}
	if verdict.Explanation == "" {
		t.Errorf("explanation dropped entirely")
	}
	if strings.HasSuffix(verdict.Explanation, " ") {
		t.Errorf("explanation not cut at a word boundary: %q", verdict.Explanation[len(verdict.Explanation)-10:])
	}
}

func TestSynthesize_MalformedOutput(t *testing.T) {
	s := NewSynthesizer(&fakeProvider{text: "I think it's probably true"}, model.LLMConfig{}, nil)
	verdict := s.Synthesize(context.Background(), contextWithEvidence(), evenFindings(0.9))

	if verdict.Status != model.StatusUnverified || verdict.Confidence != 0 {
		t.Errorf("malformed output must fail safe, got %s/%.2f", verdict.Status, verdict.Confidence)
	}
}

func TestSynthesize_ProviderError(t *testing.T) {
	s := NewSynthesizer(&fakeProvider{err: fmt.Errorf("down")}, model.LLMConfig{}, nil)
	verdict := s.Synthesize(context.Background(), contextWithEvidence(), evenFindings(0.9))

	if verdict.Status != model.StatusUnverified || verdict.Confidence != 0 {
		t.Errorf("provider failure must fail safe, got %s/%.2f", verdict.Status, verdict.Confidence)
	}
}

func TestSynthesize_VerifiedNeedsEvidence(t *testing.T) {
	s := NewSynthesizer(&fakeProvider{text: `{
		"status": "verified", "confidence": 0.9, "evidence_strength": "strong",
		"explanation": "trust me"
	}`}, model.LLMConfig{}, nil)

	noEvidence := &ragctx.Context{ClaimText: "x"}
	verdict := s.Synthesize(context.Background(), noEvidence, evenFindings(0.9))
	if verdict.Status != model.StatusUnverified {
		t.Errorf("verified without evidence docs must downgrade, got %s", verdict.Status)
	}
}

func TestSynthesize_DisagreementForcesUnverified(t *testing.T) {
	s := NewSynthesizer(&fakeProvider{text: `{
		"status": "debunked", "confidence": 0.8, "evidence_strength": "moderate",
		"explanation": "split decision"
	}`}, model.LLMConfig{}, nil)

	split := []model.AgentFinding{
		{Agent: model.AgentEvidence, Confidence: 0.95},
		{Agent: model.AgentHistorical, Confidence: 0.1},
	}
	verdict := s.Synthesize(context.Background(), contextWithEvidence(), split)
	if verdict.Status != model.StatusUnverified {
		t.Errorf("spread 0.85 must force unverified, got %s", verdict.Status)
	}
}

func TestCombineConfidence_Monotonic(t *testing.T) {
	// More agent agreement never lowers the score.
	lower := combineConfidence(0.8, 0.5, 0.3, model.EvidenceModerate)
	higher := combineConfidence(0.8, 0.7, 0.3, model.EvidenceModerate)
	if higher < lower {
		t.Errorf("higher agent mean lowered the score: %f < %f", higher, lower)
	}

	// Less spread never lowers the score.
	spread := combineConfidence(0.8, 0.6, 0.5, model.EvidenceModerate)
	tight := combineConfidence(0.8, 0.6, 0.1, model.EvidenceModerate)
	if tight < spread {
		t.Errorf("lower spread lowered the score: %f < %f", tight, spread)
	}

	// Stronger evidence never lowers the score.
	order := []model.EvidenceStrength{
		model.EvidenceInsufficient, model.EvidenceWeak, model.EvidenceModerate, model.EvidenceStrong,
	}
	prev := -1.0
	for _, strength := range order {
		got := combineConfidence(0.8, 0.6, 0.2, strength)
		if got < prev {
			t.Errorf("strength %s lowered the score: %f < %f", strength, got, prev)
		}
		prev = got
	}
}

func TestCombineConfidence_Clamped(t *testing.T) {
	if got := combineConfidence(1.5, 1.2, 0, model.EvidenceStrong); got > 1 {
		t.Errorf("confidence above 1: %f", got)
	}
	if got := combineConfidence(0, 0, 1, model.EvidenceInsufficient); got < 0 {
		t.Errorf("confidence below 0: %f", got)
	}
}

func TestAgentStats(t *testing.T) {
	mean, spread := agentStats([]model.AgentFinding{
		{Confidence: 0.2}, {Confidence: 0.8},
	})
	if mean < 0.49 || mean > 0.51 {
		t.Errorf("mean = %f, want 0.5", mean)
	}
	if spread < 0.59 || spread > 0.61 {
		t.Errorf("spread = %f, want 0.6", spread)
	}

	mean, spread = agentStats([]model.AgentFinding{{Confidence: 0.7}})
	if mean != 0.7 || spread != 0 {
		t.Errorf("single finding: mean %f spread %f", mean, spread)
	}
}

func TestNormalizeStatus(t *testing.T) {
	if got := normalizeStatus(" Verified "); got != model.StatusVerified {
		t.Errorf("normalizeStatus = %s", got)
	}
	if got := normalizeStatus("probably true"); got != model.StatusUnverified {
		t.Errorf("unknown status must map to unverified, got %s", got)
	}
}
