package service

import "policyrag/internal/domain"

// AssessConfidence maps the best (first) retrieval distance to a discrete
// label: d < 0.5 is high, 0.5 <= d < 1.0 is medium, d >= 1.0 is low. The
// thresholds are calibrated to the Euclidean distance distribution of the
// default embedding model and must be recalibrated if the model changes.
func AssessConfidence(scores []float64) domain.Confidence {
	if len(scores) == 0 {
		return domain.ConfidenceLow
	}
	best := scores[0]
	switch {
	case best < 0.5:
		return domain.ConfidenceHigh
	case best < 1.0:
		return domain.ConfidenceMedium
	default:
		return domain.ConfidenceLow
	}
}
