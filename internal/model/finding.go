package model

// AgentName identifies one of the four fixed verification agents.
type AgentName string

const (
	AgentSourceCredibility AgentName = "source_credibility"
	AgentHistorical        AgentName = "historical"
	AgentLogic             AgentName = "logical_consistency"
	AgentEvidence          AgentName = "evidence_analysis"
)

// AgentFinding is the structured output of a single agent run. Exactly one
// of the typed payloads is set, matching Agent; the closed variant keeps
// missing or extra fields visible at compile time instead of hiding them
// in a free-form map.
type AgentFinding struct {
	Agent      AgentName `json:"agent"`
	Confidence float64   `json:"confidence"` // 0.0-1.0
	Summary    string    `json:"summary"`
	Sources    []string  `json:"sources,omitempty"` // Reference URLs/ids

	Credibility *CredibilityFindings `json:"credibility,omitempty"`
	Historical  *HistoricalFindings  `json:"historical,omitempty"`
	Logic       *LogicFindings       `json:"logic,omitempty"`
	Evidence    *EvidenceFindings    `json:"evidence,omitempty"`
}

// DomainScore rates a single evidence domain.
type DomainScore struct {
	Domain string  `json:"domain"`
	Score  float64 `json:"score"` // 0.0-1.0
	Note   string  `json:"note,omitempty"`
}

// CredibilityFindings is the source-credibility agent payload.
type CredibilityFindings struct {
	DomainScores  []DomainScore `json:"domain_scores,omitempty"`
	SatireDomains []string      `json:"satire_domains,omitempty"`
	LowTrust      []string      `json:"low_trust,omitempty"`
	MostCredible  string        `json:"most_credible,omitempty"`
}

// HistoricalFindings is the historical/contradiction agent payload.
type HistoricalFindings struct {
	Contradictions []string `json:"contradictions,omitempty"`
	RepeatDebunk   bool     `json:"repeat_debunk"`
	RelatedClaims  []string `json:"related_claims,omitempty"`
}

// LogicFindings is the logical-consistency agent payload.
type LogicFindings struct {
	Fallacies        []string `json:"fallacies,omitempty"`
	FactualSubclaims []string `json:"factual_subclaims,omitempty"`
	OpinionFragments []string `json:"opinion_fragments,omitempty"`
	Manipulative     bool     `json:"manipulative"`
}

// EvidenceAssessment is the evidence agent's overall call.
type EvidenceAssessment string

const (
	AssessmentSupports     EvidenceAssessment = "supports"
	AssessmentRefutes      EvidenceAssessment = "refutes"
	AssessmentMixed        EvidenceAssessment = "mixed"
	AssessmentInsufficient EvidenceAssessment = "insufficient"
)

// EvidenceFindings is the evidence-analysis agent payload.
type EvidenceFindings struct {
	Assessment EvidenceAssessment `json:"assessment"`
	Supporting []string           `json:"supporting,omitempty"`
	Refuting   []string           `json:"refuting,omitempty"`
	Gaps       []string           `json:"gaps,omitempty"`
}
