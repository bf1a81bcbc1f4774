package store

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/veredicto/veredicto/internal/model"
)

// recordVerdict bumps the per-domain aggregate inside a claim-insert
// transaction. Counters are additive so concurrent claims from different
// workers never need locking beyond the row update itself.
func recordVerdict(tx *sql.Tx, domain string, status model.ClaimStatus) error {
	if domain == "" {
		domain = "unknown"
	}

	verified, debunked := 0, 0
	switch status {
	case model.StatusVerified:
		verified = 1
	case model.StatusDebunked, model.StatusMisleading:
		debunked = 1
	}

	_, err := tx.Exec(
		`INSERT INTO source_credibility (domain, total_claims, verified_count, debunked_count, credibility_score)
		 VALUES (?, 1, ?, ?, ?)
		 ON CONFLICT (domain) DO UPDATE SET
			total_claims = total_claims + 1,
			verified_count = verified_count + ?,
			debunked_count = debunked_count + ?,
			credibility_score = CAST(verified_count + ? AS REAL) / (total_claims + 1)`,
		domain, verified, debunked, float64(verified),
		verified, debunked, verified)
	if err != nil {
		return fmt.Errorf("recording verdict for domain %s: %w", domain, err)
	}
	return nil
}

// RecordCorrectionOutcome increments a domain's debunked count after a
// correction flips a claim to debunked/misleading and recomputes the
// credibility score as verified/total.
func (s *Store) RecordCorrectionOutcome(domain string) error {
	if domain == "" {
		domain = "unknown"
	}
	_, err := s.db.Exec(
		`INSERT INTO source_credibility (domain, total_claims, verified_count, debunked_count, credibility_score)
		 VALUES (?, 1, 0, 1, 0)
		 ON CONFLICT (domain) DO UPDATE SET
			debunked_count = debunked_count + 1,
			credibility_score = CAST(verified_count AS REAL) / MAX(total_claims, 1)`,
		domain)
	if err != nil {
		return fmt.Errorf("recording correction for domain %s: %w", domain, err)
	}
	return nil
}

// Credibility returns the aggregate for a domain.
func (s *Store) Credibility(domain string) (*model.SourceCredibility, error) {
	var c model.SourceCredibility
	err := s.db.QueryRow(
		`SELECT domain, total_claims, verified_count, debunked_count, credibility_score
		 FROM source_credibility WHERE domain = ?`, domain).
		Scan(&c.Domain, &c.TotalClaims, &c.VerifiedCount, &c.DebunkedCount, &c.CredibilityScore)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("domain %s: %w", domain, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("querying credibility for %s: %w", domain, err)
	}
	return &c, nil
}
