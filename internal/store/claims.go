package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/veredicto/veredicto/internal/model"
)

// InsertClaim persists a freshly verified claim in one transaction: the
// claim row, its entity links, the source link, the source-credibility
// bump for the originating domain, and the processed marker on the source.
// An abandoned run therefore leaves no half-written claim behind.
func (s *Store) InsertClaim(claim *model.Claim, mentions []model.EntityMention) error {
	if claim.SourceID == "" {
		return fmt.Errorf("claim %s: source id is required", claim.ID)
	}
	if claim.ID == "" {
		claim.ID = uuid.NewString()
	}

	now := time.Now().UTC()
	if claim.CreatedAt.IsZero() {
		claim.CreatedAt = now
	}
	claim.UpdatedAt = now

	keyPoints, err := json.Marshal(claim.KeyEvidencePoints)
	if err != nil {
		return fmt.Errorf("marshal key evidence points: %w", err)
	}
	findings, err := json.Marshal(claim.AgentFindings)
	if err != nil {
		return fmt.Errorf("marshal agent findings: %w", err)
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin insert claim: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var srcURL, srcPlatform sql.NullString
	err = tx.QueryRow(`SELECT url, platform FROM sources WHERE id = ?`, claim.SourceID).
		Scan(&srcURL, &srcPlatform)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("claim %s references missing source %s", claim.ID, claim.SourceID)
	}
	if err != nil {
		return fmt.Errorf("loading source %s: %w", claim.SourceID, err)
	}

	_, err = tx.Exec(
		`INSERT INTO claims (id, claim_text, original_text, status, confidence, evidence_strength,
			explanation, key_evidence_points, embedding, needs_review, review_priority,
			agent_findings, source_id, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		claim.ID, claim.ClaimText, claim.OriginalText, string(claim.Status), claim.Confidence,
		string(claim.EvidenceStrength), claim.Explanation, string(keyPoints),
		EncodeVector(claim.Embedding), claim.NeedsReview, string(claim.ReviewPriority),
		string(findings), claim.SourceID,
		claim.CreatedAt.Format(time.RFC3339), claim.UpdatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting claim: %w", err)
	}

	for _, m := range mentions {
		entityID, err := upsertEntity(tx, m)
		if err != nil {
			return err
		}
		if _, err := tx.Exec(
			`INSERT OR IGNORE INTO claim_entities (claim_id, entity_id) VALUES (?, ?)`,
			claim.ID, entityID); err != nil {
			return fmt.Errorf("linking entity %s: %w", m.Name, err)
		}
	}

	if _, err := tx.Exec(
		`INSERT OR IGNORE INTO claim_sources (claim_id, source_id) VALUES (?, ?)`,
		claim.ID, claim.SourceID); err != nil {
		return fmt.Errorf("linking source: %w", err)
	}

	domain := model.DomainOf(srcURL.String, srcPlatform.String)
	if err := recordVerdict(tx, domain, claim.Status); err != nil {
		return err
	}

	if _, err := tx.Exec(
		`UPDATE sources SET processed_at = ? WHERE id = ?`,
		now.Format(time.RFC3339), claim.SourceID); err != nil {
		return fmt.Errorf("marking source processed: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit insert claim: %w", err)
	}
	return nil
}

// LinkDuplicateSource attaches a source to an existing claim (the >= 0.95
// similarity path) and marks the source processed, atomically.
func (s *Store) LinkDuplicateSource(claimID, sourceID string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin link source: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec(
		`INSERT OR IGNORE INTO claim_sources (claim_id, source_id) VALUES (?, ?)`,
		claimID, sourceID); err != nil {
		return fmt.Errorf("linking duplicate source: %w", err)
	}
	if _, err := tx.Exec(
		`UPDATE sources SET processed_at = ? WHERE id = ?`,
		time.Now().UTC().Format(time.RFC3339), sourceID); err != nil {
		return fmt.Errorf("marking source processed: %w", err)
	}
	return tx.Commit()
}

// ClaimByID fetches a single claim.
func (s *Store) ClaimByID(id string) (*model.Claim, error) {
	row := s.db.QueryRow(claimSelect+` WHERE id = ?`, id)
	claim, err := scanClaim(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("claim %s: %w", id, ErrNotFound)
	}
	return claim, err
}

// ListClaims returns claims filtered by status (empty = all) and an
// optional free-text filter over the claim text, newest first.
func (s *Store) ListClaims(status model.ClaimStatus, query string, limit int) ([]model.Claim, error) {
	if limit <= 0 {
		limit = 50
	}

	q := claimSelect + ` WHERE 1=1`
	args := []any{}
	if status != "" {
		q += ` AND status = ?`
		args = append(args, string(status))
	}
	if query != "" {
		q += ` AND claim_text LIKE ?`
		args = append(args, "%"+query+"%")
	}
	q += ` ORDER BY created_at DESC LIMIT ?`
	args = append(args, limit)

	return s.queryClaims(q, args...)
}

// ReviewQueue lists claims awaiting human review, highest priority first,
// newest first within a priority.
func (s *Store) ReviewQueue(limit int) ([]model.Claim, error) {
	if limit <= 0 {
		limit = 50
	}
	return s.queryClaims(claimSelect+` WHERE needs_review = 1
		ORDER BY CASE review_priority
			WHEN 'high' THEN 0 WHEN 'medium' THEN 1 WHEN 'low' THEN 2 ELSE 3 END,
			created_at DESC
		LIMIT ?`, limit)
}

// ClearReview clears the review flag after a human approves the verdict.
func (s *Store) ClearReview(claimID string) error {
	res, err := s.db.Exec(
		`UPDATE claims SET needs_review = 0, review_priority = 'none', updated_at = ? WHERE id = ?`,
		time.Now().UTC().Format(time.RFC3339), claimID)
	if err != nil {
		return fmt.Errorf("clearing review flag: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("claim %s: %w", claimID, ErrNotFound)
	}
	return nil
}

// OverrideVerdict rewrites a claim's status and explanation from a human
// correction. Last correction wins; the audit trail lives in corrections.
func (s *Store) OverrideVerdict(claimID string, status model.ClaimStatus, explanation string) error {
	if !model.ValidStatus(status) {
		return fmt.Errorf("invalid status %q", status)
	}
	res, err := s.db.Exec(
		`UPDATE claims SET status = ?, explanation = ?, needs_review = 0,
			review_priority = 'none', updated_at = ? WHERE id = ?`,
		string(status), explanation, time.Now().UTC().Format(time.RFC3339), claimID)
	if err != nil {
		return fmt.Errorf("overriding verdict: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("claim %s: %w", claimID, ErrNotFound)
	}
	return nil
}

// ClaimsToMine returns recently settled claims the fact miner has not
// visited yet.
func (s *Store) ClaimsToMine(limit int) ([]model.Claim, error) {
	if limit <= 0 {
		limit = 20
	}
	return s.queryClaims(claimSelect+` WHERE mined_at IS NULL AND status IN ('verified', 'debunked')
		ORDER BY created_at ASC LIMIT ?`, limit)
}

// MarkMined records that the fact miner processed a claim.
func (s *Store) MarkMined(claimID string) error {
	_, err := s.db.Exec(`UPDATE claims SET mined_at = ? WHERE id = ?`,
		time.Now().UTC().Format(time.RFC3339), claimID)
	if err != nil {
		return fmt.Errorf("marking claim %s mined: %w", claimID, err)
	}
	return nil
}

const claimSelect = `SELECT id, claim_text, original_text, status, confidence, evidence_strength,
	explanation, key_evidence_points, embedding, needs_review, review_priority,
	agent_findings, source_id, created_at, updated_at FROM claims`

func (s *Store) queryClaims(query string, args ...any) ([]model.Claim, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying claims: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var claims []model.Claim
	for rows.Next() {
		claim, err := scanClaim(rows)
		if err != nil {
			return nil, err
		}
		claims = append(claims, *claim)
	}
	return claims, rows.Err()
}

func scanClaim(row rowScanner) (*model.Claim, error) {
	var (
		claim                model.Claim
		original, expl       sql.NullString
		keyPoints, findings  sql.NullString
		embedding            []byte
		status, strength     string
		priority             string
		createdAt, updatedAt string
	)
	err := row.Scan(&claim.ID, &claim.ClaimText, &original, &status, &claim.Confidence,
		&strength, &expl, &keyPoints, &embedding, &claim.NeedsReview, &priority,
		&findings, &claim.SourceID, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}

	claim.OriginalText = original.String
	claim.Explanation = expl.String
	claim.Status = model.ClaimStatus(status)
	claim.EvidenceStrength = model.EvidenceStrength(strength)
	claim.ReviewPriority = model.ReviewPriority(priority)
	claim.Embedding = DecodeVector(embedding)
	claim.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	claim.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)

	if keyPoints.Valid && keyPoints.String != "" {
		if err := json.Unmarshal([]byte(keyPoints.String), &claim.KeyEvidencePoints); err != nil {
			return nil, fmt.Errorf("unmarshal key evidence points for %s: %w", claim.ID, err)
		}
	}
	if findings.Valid && findings.String != "" {
		if err := json.Unmarshal([]byte(findings.String), &claim.AgentFindings); err != nil {
			return nil, fmt.Errorf("unmarshal agent findings for %s: %w", claim.ID, err)
		}
	}
	return &claim, nil
}
