package review

import (
	"fmt"

	"github.com/veredicto/veredicto/internal/model"
	"github.com/veredicto/veredicto/internal/store"
)

// Service serves the human review queue. Verdict overrides go through the
// correction loop instead, so the audit trail and knowledge-base updates
// stay in one place.
type Service struct {
	store *store.Store
}

// NewService creates a review queue service.
func NewService(st *store.Store) *Service {
	return &Service{store: st}
}

// Queue lists claims awaiting review, highest priority first.
func (s *Service) Queue(limit int) ([]model.Claim, error) {
	return s.store.ReviewQueue(limit)
}

// Approve confirms the machine verdict and removes the claim from the
// queue.
func (s *Service) Approve(claimID string) error {
	if err := s.store.ClearReview(claimID); err != nil {
		return fmt.Errorf("approving claim %s: %w", claimID, err)
	}
	return nil
}
