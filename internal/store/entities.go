package store

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/veredicto/veredicto/internal/model"
)

func upsertEntity(tx *sql.Tx, m model.EntityMention) (string, error) {
	name := strings.TrimSpace(m.Name)
	if name == "" {
		return "", fmt.Errorf("entity name is required")
	}

	var id string
	err := tx.QueryRow(`SELECT id FROM entities WHERE name = ? COLLATE NOCASE`, name).Scan(&id)
	if err == nil {
		return id, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("looking up entity %s: %w", name, err)
	}

	id = uuid.NewString()
	entityType := m.Type
	if entityType == "" {
		entityType = model.EntityInstitution
	}
	if _, err := tx.Exec(
		`INSERT INTO entities (id, name, entity_type) VALUES (?, ?, ?)`,
		id, name, string(entityType)); err != nil {
		return "", fmt.Errorf("inserting entity %s: %w", name, err)
	}
	return id, nil
}

// EntityByName resolves an entity by case-insensitive name.
func (s *Store) EntityByName(name string) (*model.Entity, error) {
	var e model.Entity
	var entityType string
	err := s.db.QueryRow(
		`SELECT id, name, entity_type FROM entities WHERE name = ? COLLATE NOCASE`, name).
		Scan(&e.ID, &e.Name, &entityType)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("entity %s: %w", name, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("looking up entity %s: %w", name, err)
	}
	e.Type = model.EntityType(entityType)
	return &e, nil
}

// FactsForEntities returns known facts about the named entities, substring
// matched against stored entity names, filtered to confidence above
// minConfidence and capped at perEntity facts per entity.
func (s *Store) FactsForEntities(names []string, minConfidence float64, perEntity int) ([]model.EntityFact, error) {
	if perEntity <= 0 {
		perEntity = 5
	}

	var facts []model.EntityFact
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		rows, err := s.db.Query(
			`SELECT f.id, f.entity_id, e.name, f.fact_text, f.embedding, f.source_claim_id, f.confidence, f.verified_at
			 FROM entity_facts f JOIN entities e ON e.id = f.entity_id
			 WHERE (e.name = ? COLLATE NOCASE OR instr(lower(e.name), lower(?)) > 0)
			   AND f.confidence > ?
			 ORDER BY f.confidence DESC LIMIT ?`,
			name, name, minConfidence, perEntity)
		if err != nil {
			return nil, fmt.Errorf("querying facts for %s: %w", name, err)
		}
		for rows.Next() {
			fact, err := scanFact(rows)
			if err != nil {
				_ = rows.Close()
				return nil, err
			}
			facts = append(facts, *fact)
		}
		if err := rows.Err(); err != nil {
			_ = rows.Close()
			return nil, err
		}
		_ = rows.Close()
	}
	return dedupeFacts(facts), nil
}

// UpsertFact stores a mined fact. When the same entity+fact pair already
// exists, confidence is max'd with the stored value so a low-confidence
// re-extraction never downgrades established knowledge.
func (s *Store) UpsertFact(fact model.EntityFact) error {
	if fact.ID == "" {
		fact.ID = uuid.NewString()
	}
	verifiedAt := fact.VerifiedAt
	if verifiedAt.IsZero() {
		verifiedAt = time.Now().UTC()
	}

	_, err := s.db.Exec(
		`INSERT INTO entity_facts (id, entity_id, fact_text, embedding, source_claim_id, confidence, verified_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT (entity_id, fact_text) DO UPDATE SET
			confidence = MAX(entity_facts.confidence, excluded.confidence),
			verified_at = excluded.verified_at`,
		fact.ID, fact.EntityID, fact.FactText, EncodeVector(fact.Embedding),
		fact.SourceClaimID, fact.Confidence, verifiedAt.Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("upserting fact for entity %s: %w", fact.EntityID, err)
	}
	return nil
}

// EnsureEntity upserts an entity outside a claim transaction (used by the
// fact miner, which can surface entities the extractor missed).
func (s *Store) EnsureEntity(m model.EntityMention) (string, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return "", fmt.Errorf("begin ensure entity: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	id, err := upsertEntity(tx, m)
	if err != nil {
		return "", err
	}
	return id, tx.Commit()
}

// DecayFactsForClaim multiplies the confidence of every fact sourced from
// the given claim by factor. Decay is cumulative across corrections.
func (s *Store) DecayFactsForClaim(claimID string, factor float64) (int, error) {
	res, err := s.db.Exec(
		`UPDATE entity_facts SET confidence = confidence * ? WHERE source_claim_id = ?`,
		factor, claimID)
	if err != nil {
		return 0, fmt.Errorf("decaying facts for claim %s: %w", claimID, err)
	}
	n, _ := res.RowsAffected()
	return int(n), nil
}

// FactsForClaim lists facts sourced from a claim.
func (s *Store) FactsForClaim(claimID string) ([]model.EntityFact, error) {
	rows, err := s.db.Query(
		`SELECT f.id, f.entity_id, e.name, f.fact_text, f.embedding, f.source_claim_id, f.confidence, f.verified_at
		 FROM entity_facts f JOIN entities e ON e.id = f.entity_id
		 WHERE f.source_claim_id = ?`, claimID)
	if err != nil {
		return nil, fmt.Errorf("querying facts for claim %s: %w", claimID, err)
	}
	defer func() { _ = rows.Close() }()

	var facts []model.EntityFact
	for rows.Next() {
		fact, err := scanFact(rows)
		if err != nil {
			return nil, err
		}
		facts = append(facts, *fact)
	}
	return facts, rows.Err()
}

// Connections walks the claim/entity graph outward from an entity name up
// to depth hops (entity -> claims mentioning it -> co-mentioned entities).
// This is the on-demand read path that replaces holding a long-lived
// knowledge graph in process.
func (s *Store) Connections(entityName string, depth int) ([]model.Entity, error) {
	start, err := s.EntityByName(entityName)
	if err != nil {
		return nil, err
	}
	if depth <= 0 {
		depth = 1
	}

	seen := map[string]bool{start.ID: true}
	frontier := []string{start.ID}
	var connected []model.Entity

	for hop := 0; hop < depth && len(frontier) > 0; hop++ {
		var next []string
		for _, entityID := range frontier {
			rows, err := s.db.Query(
				`SELECT DISTINCT e.id, e.name, e.entity_type
				 FROM claim_entities ce
				 JOIN claim_entities co ON co.claim_id = ce.claim_id AND co.entity_id != ce.entity_id
				 JOIN entities e ON e.id = co.entity_id
				 WHERE ce.entity_id = ?`, entityID)
			if err != nil {
				return nil, fmt.Errorf("walking connections: %w", err)
			}
			for rows.Next() {
				var e model.Entity
				var entityType string
				if err := rows.Scan(&e.ID, &e.Name, &entityType); err != nil {
					_ = rows.Close()
					return nil, err
				}
				e.Type = model.EntityType(entityType)
				if !seen[e.ID] {
					seen[e.ID] = true
					connected = append(connected, e)
					next = append(next, e.ID)
				}
			}
			if err := rows.Err(); err != nil {
				_ = rows.Close()
				return nil, err
			}
			_ = rows.Close()
		}
		frontier = next
	}
	return connected, nil
}

func scanFact(row rowScanner) (*model.EntityFact, error) {
	var (
		fact       model.EntityFact
		embedding  []byte
		verifiedAt string
	)
	err := row.Scan(&fact.ID, &fact.EntityID, &fact.EntityName, &fact.FactText,
		&embedding, &fact.SourceClaimID, &fact.Confidence, &verifiedAt)
	if err != nil {
		return nil, err
	}
	fact.Embedding = DecodeVector(embedding)
	fact.VerifiedAt, _ = time.Parse(time.RFC3339, verifiedAt)
	return &fact, nil
}

func dedupeFacts(facts []model.EntityFact) []model.EntityFact {
	seen := make(map[string]bool, len(facts))
	out := facts[:0]
	for _, f := range facts {
		if seen[f.ID] {
			continue
		}
		seen[f.ID] = true
		out = append(out, f)
	}
	return out
}
