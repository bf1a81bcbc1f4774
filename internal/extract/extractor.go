// Package extract isolates a single verifiable factual statement from raw
// source text, or decides there is nothing checkable in it.
package extract

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/veredicto/veredicto/internal/llm"
	"github.com/veredicto/veredicto/internal/model"
)

// Extraction is the result of a successful extraction.
type Extraction struct {
	ClaimText string
	Entities  []model.EntityMention
}

// Extractor turns raw source text into a normalized claim.
type Extractor struct {
	provider llm.Provider
	log      *zap.Logger
	now      func() time.Time
}

// NewExtractor creates a claim extractor.
func NewExtractor(provider llm.Provider, log *zap.Logger) *Extractor {
	if log == nil {
		log = zap.NewNop()
	}
	return &Extractor{
		provider: provider,
		log:      log,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

type extractionOutput struct {
	Claim    string `json:"claim"`
	Entities []struct {
		Name string `json:"name"`
		Type string `json:"type"`
	} `json:"entities"`
}

const extractSystem = `You are a claim extraction assistant for a fact-checking pipeline. You isolate single, checkable factual statements from scraped social media and news text. You never invent claims that are not in the text.`

// Extract returns the checkable claim in the source text, or (nil, nil)
// when there is none. Malformed model output maps to "no claim": the
// pipeline fails safe to skipping, never to fabricating a claim.
func (e *Extractor) Extract(ctx context.Context, src model.Source) (*Extraction, error) {
	prompt := e.buildPrompt(src)

	resp, err := e.provider.Complete(ctx, llm.Request{
		System:      extractSystem,
		Prompt:      prompt,
		JSONMode:    true,
		Temperature: 0.1,
	})
	if err != nil {
		return nil, fmt.Errorf("extraction call: %w", err)
	}

	var out extractionOutput
	if err := llm.DecodeJSON(resp.Text, &out); err != nil {
		e.log.Warn("malformed extraction output, skipping source",
			zap.String("source_id", src.ID), zap.Error(err))
		return nil, nil
	}

	claim := strings.TrimSpace(out.Claim)
	if claim == "" || strings.EqualFold(claim, "none") || strings.EqualFold(claim, "null") {
		return nil, nil
	}

	entities := make([]model.EntityMention, 0, len(out.Entities))
	for _, ent := range out.Entities {
		name := strings.TrimSpace(ent.Name)
		if name == "" {
			continue
		}
		entities = append(entities, model.EntityMention{
			Name: name,
			Type: normalizeEntityType(ent.Type),
		})
	}

	return &Extraction{ClaimText: claim, Entities: entities}, nil
}

func (e *Extractor) buildPrompt(src model.Source) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Current date: %s\n", e.now().Format("2006-01-02"))
	fmt.Fprintf(&b, "Platform: %s\n", src.Platform)
	if src.Author != "" {
		fmt.Fprintf(&b, "Author: %s\n", src.Author)
	}
	fmt.Fprintf(&b, "\nText:\n%s\n\n", src.Content)
	b.WriteString(`Extract the single most important verifiable factual claim from the text, rewritten as one neutral declarative statement. Exclude opinions, hashtags, vague complaints, satire, questions, and predictions with no factual core. Also list the named people, institutions, and locations the claim is about.

Respond with JSON:
{"claim": "<statement, or empty string if there is no checkable claim>",
 "entities": [{"name": "<entity name>", "type": "person|institution|location"}]}`)
	return b.String()
}

func normalizeEntityType(t string) model.EntityType {
	switch strings.ToLower(strings.TrimSpace(t)) {
	case "person":
		return model.EntityPerson
	case "location", "place":
		return model.EntityLocation
	default:
		return model.EntityInstitution
	}
}
