package review

import (
	"testing"

	"github.com/veredicto/veredicto/internal/model"
)

func TestRoute(t *testing.T) {
	cfg := model.ReviewConfig{HighBelow: 0.4, ReviewBelow: 0.6}

	tests := []struct {
		confidence   float64
		wantReview   bool
		wantPriority model.ReviewPriority
	}{
		{0.0, true, model.PriorityHigh},
		{0.39, true, model.PriorityHigh},
		{0.4, true, model.PriorityMedium}, // boundary: 0.4 is medium, not high
		{0.59, true, model.PriorityMedium},
		{0.6, false, model.PriorityNone}, // boundary: 0.6 skips review
		{0.95, false, model.PriorityNone},
	}

	for _, tt := range tests {
		needsReview, priority := Route(tt.confidence, cfg)
		if needsReview != tt.wantReview || priority != tt.wantPriority {
			t.Errorf("Route(%.2f) = (%v, %s), want (%v, %s)",
				tt.confidence, needsReview, priority, tt.wantReview, tt.wantPriority)
		}
	}
}

func TestRoute_Defaults(t *testing.T) {
	needsReview, priority := Route(0.3, model.ReviewConfig{})
	if !needsReview || priority != model.PriorityHigh {
		t.Errorf("zero config should fall back to standard thresholds, got (%v, %s)", needsReview, priority)
	}
	needsReview, _ = Route(0.7, model.ReviewConfig{})
	if needsReview {
		t.Errorf("0.7 should not need review under default thresholds")
	}
}
