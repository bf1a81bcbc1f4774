// Package review routes low-confidence verdicts to humans and serves the
// review queue.
package review

import "github.com/veredicto/veredicto/internal/model"

// Route maps a synthesized confidence to a review decision. Confidence
// below cfg.HighBelow goes to high-priority review, below cfg.ReviewBelow
// to medium, and everything at or above it skips the queue.
func Route(confidence float64, cfg model.ReviewConfig) (bool, model.ReviewPriority) {
	if cfg.HighBelow == 0 {
		cfg.HighBelow = 0.4
	}
	if cfg.ReviewBelow == 0 {
		cfg.ReviewBelow = 0.6
	}

	switch {
	case confidence < cfg.HighBelow:
		return true, model.PriorityHigh
	case confidence < cfg.ReviewBelow:
		return true, model.PriorityMedium
	default:
		return false, model.PriorityNone
	}
}
