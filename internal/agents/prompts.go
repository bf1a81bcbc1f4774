package agents

import (
	"context"
	"fmt"
	"strings"

	"github.com/veredicto/veredicto/internal/llm"
	"github.com/veredicto/veredicto/internal/ragctx"
)

// completionProvider is the slice of llm.Provider the agents need.
type completionProvider interface {
	Complete(ctx context.Context, req llm.Request) (*llm.Response, error)
}

const agentSystem = `You are one specialized analyst inside a fact-checking pipeline. You only use the material provided in the prompt; you never invent sources or cite URLs that are not listed. You respond with a single JSON object.`

// renderEvidence lists the fetched evidence for a prompt, numbered so
// agents can reference documents by index.
func renderEvidence(b *strings.Builder, vc *ragctx.Context) {
	if len(vc.Evidence) == 0 {
		b.WriteString("No web evidence could be retrieved for this claim.\n")
		return
	}
	b.WriteString("Web evidence:\n")
	for i, doc := range vc.Evidence {
		fmt.Fprintf(b, "[%d] %s (%s)\n", i+1, doc.Title, doc.URL)
		if doc.Text != "" {
			fmt.Fprintf(b, "%s\n", doc.Text)
		} else if doc.Snippet != "" {
			fmt.Fprintf(b, "(page not fetched; search snippet) %s\n", doc.Snippet)
		}
		b.WriteString("\n")
	}
}

func renderSimilarClaims(b *strings.Builder, vc *ragctx.Context) {
	if len(vc.SimilarClaims) == 0 {
		b.WriteString("No similar past claims on record.\n")
		return
	}
	b.WriteString("Similar past claims:\n")
	for _, sc := range vc.SimilarClaims {
		fmt.Fprintf(b, "- (%.2f similar) %s\n", sc.Similarity, sc.ClaimText)
	}
	b.WriteString("\n")
}

func renderEntityFacts(b *strings.Builder, vc *ragctx.Context) {
	if len(vc.EntityFacts) == 0 {
		b.WriteString("No established entity facts on record.\n")
		return
	}
	b.WriteString("Established facts about mentioned entities:\n")
	for _, f := range vc.EntityFacts {
		fmt.Fprintf(b, "- [%s, confidence %.2f] %s\n", f.EntityName, f.Confidence, f.FactText)
	}
	b.WriteString("\n")
}

func evidenceURLs(vc *ragctx.Context) []string {
	urls := make([]string, 0, len(vc.Evidence))
	for _, doc := range vc.Evidence {
		urls = append(urls, doc.URL)
	}
	return urls
}
