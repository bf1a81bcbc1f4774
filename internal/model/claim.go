package model

import (
	"net/url"
	"time"
)

// ClaimStatus is the verdict assigned to a claim.
type ClaimStatus string

const (
	StatusVerified   ClaimStatus = "verified"
	StatusDebunked   ClaimStatus = "debunked"
	StatusMisleading ClaimStatus = "misleading"
	StatusUnverified ClaimStatus = "unverified"
)

// ValidStatus reports whether s is one of the four terminal verdicts.
func ValidStatus(s ClaimStatus) bool {
	switch s {
	case StatusVerified, StatusDebunked, StatusMisleading, StatusUnverified:
		return true
	}
	return false
}

// EvidenceStrength summarizes how well retrieved evidence supports the verdict.
type EvidenceStrength string

const (
	EvidenceStrong       EvidenceStrength = "strong"
	EvidenceModerate     EvidenceStrength = "moderate"
	EvidenceWeak         EvidenceStrength = "weak"
	EvidenceInsufficient EvidenceStrength = "insufficient"
)

// ReviewPriority orders the human review queue.
type ReviewPriority string

const (
	PriorityHigh   ReviewPriority = "high"
	PriorityMedium ReviewPriority = "medium"
	PriorityLow    ReviewPriority = "low"
	PriorityNone   ReviewPriority = "none"
)

// Claim is the central entity of the pipeline: a single checkable factual
// statement with its verdict. Created once by the orchestrator, mutated
// only by the correction loop, never deleted.
type Claim struct {
	ID                string           `json:"id"`
	ClaimText         string           `json:"claim_text"`    // Normalized factual statement
	OriginalText      string           `json:"original_text"` // Raw source text it came from
	Status            ClaimStatus      `json:"status"`
	Confidence        float64          `json:"confidence"` // 0.0-1.0
	EvidenceStrength  EvidenceStrength `json:"evidence_strength"`
	Explanation       string           `json:"explanation"`
	KeyEvidencePoints []string         `json:"key_evidence_points,omitempty"`
	Embedding         []float32        `json:"-"` // Always computed from ClaimText
	NeedsReview       bool             `json:"needs_review"`
	ReviewPriority    ReviewPriority   `json:"review_priority"`
	AgentFindings     []AgentFinding   `json:"agent_findings,omitempty"`
	SourceID          string           `json:"source_id"`
	CreatedAt         time.Time        `json:"created_at"`
	UpdatedAt         time.Time        `json:"updated_at"`
}

// Verdict is the synthesized outcome of a verification run, before it is
// persisted as a Claim.
type Verdict struct {
	Status            ClaimStatus      `json:"status"`
	Confidence        float64          `json:"confidence"`
	EvidenceStrength  EvidenceStrength `json:"evidence_strength"`
	Explanation       string           `json:"explanation"`
	KeyEvidencePoints []string         `json:"key_evidence_points,omitempty"`
}

// ProcessingStage tracks where a claim is inside a single pipeline run.
// Stages are in-process only; the store holds terminal statuses.
type ProcessingStage string

const (
	StagePending      ProcessingStage = "pending"
	StageExtracting   ProcessingStage = "extracting"
	StageDeduplicated ProcessingStage = "deduplicated"
	StageAnalyzing    ProcessingStage = "analyzing"
	StageSynthesizing ProcessingStage = "synthesizing"
	StageDone         ProcessingStage = "done"
)

// SourceCredibility is the per-domain verdict aggregate.
type SourceCredibility struct {
	Domain           string  `json:"domain"`
	TotalClaims      int     `json:"total_claims"`
	VerifiedCount    int     `json:"verified_count"`
	DebunkedCount    int     `json:"debunked_count"`
	CredibilityScore float64 `json:"credibility_score"` // verified / total
}

// DomainOf extracts a lowercase host from rawURL, falling back to
// fallback when the URL is empty or unparseable.
func DomainOf(rawURL, fallback string) string {
	if rawURL == "" {
		return fallback
	}
	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.Host == "" {
		return fallback
	}
	return parsed.Hostname()
}
