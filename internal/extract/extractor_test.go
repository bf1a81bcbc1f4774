package extract

import (
	"context"
	"fmt"
	"testing"

	"github.com/veredicto/veredicto/internal/llm"
	"github.com/veredicto/veredicto/internal/model"
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

func TestExtract_Claim(t *testing.T) {
	provider := &fakeProvider{text: `{
		"claim": "The health ministry doubled its budget in 2026",
		"entities": [
			{"name": "Ministerio de Salud", "type": "institution"},
			{"name": "Juan Pérez", "type": "person"},
			{"name": "", "type": "person"}
		]
	}`}
	e := NewExtractor(provider, nil)

	got, err := e.Extract(context.Background(), model.Source{ID: "s1", Platform: "twitter", Content: "..."})
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if got == nil {
		t.Fatal("expected an extraction")
	}
	if got.ClaimText != "The health ministry doubled its budget in 2026" {
		t.Errorf("unexpected claim: %q", got.ClaimText)
	}
	if len(got.Entities) != 2 {
		t.Fatalf("blank entities must be dropped, got %d", len(got.Entities))
	}
	if got.Entities[1].Type != model.EntityPerson {
		t.Errorf("unexpected entity type: %s", got.Entities[1].Type)
	}
}

func TestExtract_NoClaim(t *testing.T) {
	for _, text := range []string{
		`{"claim": "", "entities": []}`,
		`{"claim": "none", "entities": []}`,
	} {
		e := NewExtractor(&fakeProvider{text: text}, nil)
		got, err := e.Extract(context.Background(), model.Source{ID: "s1", Content: "just vibes"})
		if err != nil {
			t.Fatalf("extract: %v", err)
		}
		if got != nil {
			t.Errorf("expected no claim for %q, got %+v", text, got)
		}
	}
}

func TestExtract_MalformedOutputFailsSafe(t *testing.T) {
	e := NewExtractor(&fakeProvider{text: "I could not find a claim, sorry!"}, nil)
	got, err := e.Extract(context.Background(), model.Source{ID: "s1", Content: "..."})
	if err != nil {
		t.Fatalf("malformed output must map to no-claim, got error: %v", err)
	}
	if got != nil {
		t.Errorf("malformed output must never fabricate a claim, got %+v", got)
	}
}

func TestExtract_ProviderError(t *testing.T) {
	e := NewExtractor(&fakeProvider{err: fmt.Errorf("down")}, nil)
	if _, err := e.Extract(context.Background(), model.Source{ID: "s1", Content: "..."}); err == nil {
		t.Errorf("provider errors must propagate so the source stays queued")
	}
}

func TestNormalizeEntityType(t *testing.T) {
	tests := map[string]model.EntityType{
		"person":   model.EntityPerson,
		"Place":    model.EntityLocation,
		"location": model.EntityLocation,
		"party":    model.EntityInstitution,
		"":         model.EntityInstitution,
	}
	for in, want := range tests {
		if got := normalizeEntityType(in); got != want {
			t.Errorf("normalizeEntityType(%q) = %s, want %s", in, got, want)
		}
	}
}
