// Package feedback closes the loop from human review back into the
// knowledge base: verdict corrections and fact mining.
package feedback

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/veredicto/veredicto/internal/model"
	"github.com/veredicto/veredicto/internal/store"
)

// factDecayFactor is applied to the confidence of every fact mined from a
// corrected claim. Decay is multiplicative, so repeated corrections push a
// fact toward zero without ever deleting it.
const factDecayFactor = 0.9

// Service applies human corrections.
type Service struct {
	store *store.Store
	log   *zap.Logger
}

// NewService creates a correction service.
func NewService(st *store.Store, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{store: st, log: log}
}

// Apply records a human verdict override. The correction is appended to
// the audit log, the claim's status is overwritten, facts mined from the
// claim are decayed, and the source domain's credibility is updated when
// the corrected verdict is negative.
func (s *Service) Apply(claimID string, status model.ClaimStatus, reason, correctorID string) error {
	claim, err := s.store.ClaimByID(claimID)
	if err != nil {
		return err
	}
	if !model.ValidStatus(status) {
		return fmt.Errorf("invalid corrected status %q", status)
	}

	correction := &model.Correction{
		ClaimID:         claimID,
		OriginalStatus:  claim.Status,
		CorrectedStatus: status,
		Reason:          reason,
		CorrectorID:     correctorID,
	}
	if err := s.store.InsertCorrection(correction); err != nil {
		return err
	}

	explanation := claim.Explanation
	if reason != "" {
		explanation = "Corrected by human review: " + reason
	}
	if err := s.store.OverrideVerdict(claimID, status, explanation); err != nil {
		return err
	}

	if status == claim.Status {
		return nil
	}

	// The verdict flipped, so knowledge derived from the old verdict is
	// suspect.
	decayed, err := s.store.DecayFactsForClaim(claimID, factDecayFactor)
	if err != nil {
		return err
	}
	if decayed > 0 {
		s.log.Info("decayed mined facts after correction",
			zap.String("claim_id", claimID), zap.Int("facts", decayed))
	}

	wasNegative := claim.Status == model.StatusDebunked || claim.Status == model.StatusMisleading
	isNegative := status == model.StatusDebunked || status == model.StatusMisleading
	if isNegative && !wasNegative {
		src, err := s.store.SourceByID(claim.SourceID)
		if err != nil {
			return err
		}
		if err := s.store.RecordCorrectionOutcome(src.Domain()); err != nil {
			return err
		}
	}

	s.log.Info("correction applied",
		zap.String("claim_id", claimID),
		zap.String("from", string(claim.Status)),
		zap.String("to", string(status)),
		zap.String("corrector", correctorID))
	return nil
}
