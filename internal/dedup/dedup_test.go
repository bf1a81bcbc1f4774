package dedup

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/veredicto/veredicto/internal/model"
	"github.com/veredicto/veredicto/internal/store"
)

type fakeEmbedder struct {
	vectors map[string][]float32
	err     error
}

func (f *fakeEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := make([][]float32, len(texts))
	for i, text := range texts {
		out[i] = f.vectors[text]
	}
	return out, nil
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

func seedClaim(t *testing.T, st *store.Store, id, text string, embedding []float32) {
	t.Helper()
	if err := st.InsertSource(model.Source{ID: "src-" + id, Platform: "news", Content: text, Timestamp: time.Now().UTC()}); err != nil {
		t.Fatalf("inserting source: %v", err)
	}
	claim := &model.Claim{
		ID: id, ClaimText: text, Status: model.StatusVerified, Confidence: 0.9,
		EvidenceStrength: model.EvidenceStrong, Embedding: embedding, SourceID: "src-" + id,
	}
	if err := st.InsertClaim(claim, nil); err != nil {
		t.Fatalf("inserting claim: %v", err)
	}
}

func TestCheck_Duplicate(t *testing.T) {
	st := newTestStore(t)
	seedClaim(t, st, "c1", "old phrasing", []float32{1, 0, 0})

	embedder := &fakeEmbedder{vectors: map[string][]float32{
		"new phrasing": {0.999, 0.001, 0},
	}}
	engine := NewEngine(embedder, st, model.DedupConfig{})

	result, err := engine.Check(context.Background(), "new phrasing")
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	if result.Duplicate == nil {
		t.Fatal("expected a duplicate above 0.95")
	}
	if result.Duplicate.ID != "c1" {
		t.Errorf("wrong duplicate: %s", result.Duplicate.ID)
	}
	if len(result.Similar) != 0 {
		t.Errorf("duplicate must not also appear as similar: %v", result.Similar)
	}
	if len(result.Embedding) != 3 {
		t.Errorf("result must carry the canonical embedding")
	}
}

func TestCheck_SimilarBand(t *testing.T) {
	st := newTestStore(t)
	// cos with {1,0,0}: ~0.83 (similar band), and an unrelated vector.
	seedClaim(t, st, "near", "related claim", []float32{0.83, 0.56, 0})
	seedClaim(t, st, "far", "unrelated claim", []float32{0, 1, 0})

	embedder := &fakeEmbedder{vectors: map[string][]float32{"query": {1, 0, 0}}}
	engine := NewEngine(embedder, st, model.DedupConfig{})

	result, err := engine.Check(context.Background(), "query")
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	if result.Duplicate != nil {
		t.Errorf("0.83 similarity is not a duplicate, got %s", result.Duplicate.ID)
	}
	if len(result.Similar) != 1 || result.Similar[0].ClaimID != "near" {
		t.Fatalf("expected [near] in the similar band, got %v", result.Similar)
	}
	if result.Similar[0].Similarity < 0.70 || result.Similar[0].Similarity >= 0.95 {
		t.Errorf("similarity %f outside the similar band", result.Similar[0].Similarity)
	}
}

func TestCheck_EmbedderError(t *testing.T) {
	engine := NewEngine(&fakeEmbedder{err: fmt.Errorf("down")}, newTestStore(t), model.DedupConfig{})
	if _, err := engine.Check(context.Background(), "anything"); err == nil {
		t.Errorf("embedder errors must propagate, the claim cannot be stored without a vector")
	}
}
