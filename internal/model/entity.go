package model

import "time"

// EntityType categorizes a named actor.
type EntityType string

const (
	EntityPerson      EntityType = "person"
	EntityInstitution EntityType = "institution"
	EntityLocation    EntityType = "location"
)

// Entity is a named political or institutional actor, created on first
// mention during extraction and long-lived across claims.
type Entity struct {
	ID   string     `json:"id"`
	Name string     `json:"name"`
	Type EntityType `json:"entity_type"`
}

// EntityMention is an entity reference found during claim extraction,
// before it is resolved against the store.
type EntityMention struct {
	Name string     `json:"name"`
	Type EntityType `json:"type"`
}

// EntityFact is a discrete, sourced assertion about an entity, mined from
// verified/debunked claims. Never hard-deleted; corrections decay its
// confidence toward zero instead.
type EntityFact struct {
	ID            string    `json:"id"`
	EntityID      string    `json:"entity_id"`
	EntityName    string    `json:"entity_name,omitempty"` // Denormalized for prompts
	FactText      string    `json:"fact_text"`
	Embedding     []float32 `json:"-"`
	SourceClaimID string    `json:"source_claim_id"`
	Confidence    float64   `json:"confidence"`
	VerifiedAt    time.Time `json:"verified_at"`
}

// Correction is a human override of an automated verdict. Append-only.
type Correction struct {
	ID              string      `json:"id"`
	ClaimID         string      `json:"claim_id"`
	OriginalStatus  ClaimStatus `json:"original_status"`
	CorrectedStatus ClaimStatus `json:"corrected_status"`
	Reason          string      `json:"reason,omitempty"`
	CorrectorID     string      `json:"corrector_id"`
	CreatedAt       time.Time   `json:"created_at"`
}
