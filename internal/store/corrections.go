package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/veredicto/veredicto/internal/model"
)

// InsertCorrection appends a correction to the audit log. Corrections are
// never mutated; conflicting reviews both land here and the latest wins
// for the claim's status.
func (s *Store) InsertCorrection(c *model.Correction) error {
	if c.ClaimID == "" {
		return fmt.Errorf("correction: claim id is required")
	}
	if !model.ValidStatus(c.CorrectedStatus) {
		return fmt.Errorf("correction: invalid corrected status %q", c.CorrectedStatus)
	}
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now().UTC()
	}

	_, err := s.db.Exec(
		`INSERT INTO corrections (id, claim_id, original_status, corrected_status, reason, corrector_id, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		c.ID, c.ClaimID, string(c.OriginalStatus), string(c.CorrectedStatus),
		nullString(c.Reason), c.CorrectorID, c.CreatedAt.Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("inserting correction for claim %s: %w", c.ClaimID, err)
	}
	return nil
}

// CorrectionsForClaim lists a claim's corrections, oldest first.
func (s *Store) CorrectionsForClaim(claimID string) ([]model.Correction, error) {
	rows, err := s.db.Query(
		`SELECT id, claim_id, original_status, corrected_status, reason, corrector_id, created_at
		 FROM corrections WHERE claim_id = ? ORDER BY created_at ASC`, claimID)
	if err != nil {
		return nil, fmt.Errorf("querying corrections for claim %s: %w", claimID, err)
	}
	defer func() { _ = rows.Close() }()

	var corrections []model.Correction
	for rows.Next() {
		var (
			corr            model.Correction
			orig, corrected string
			reason          sql.NullString
			createdAt       string
		)
		if err := rows.Scan(&corr.ID, &corr.ClaimID, &orig, &corrected, &reason, &corr.CorrectorID, &createdAt); err != nil {
			return nil, err
		}
		corr.OriginalStatus = model.ClaimStatus(orig)
		corr.CorrectedStatus = model.ClaimStatus(corrected)
		corr.Reason = reason.String
		corr.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
		corrections = append(corrections, corr)
	}
	return corrections, rows.Err()
}
