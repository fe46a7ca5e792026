// internal/service/scoring/scoring.go
package scoring

import (
	"time"

	"pipeline-service/internal/domain/deal"
)

const (
	baseScore = 50

	// A deal is stagnant after this many days without a field update.
	StagnantAfterDays = 7

	// A stage with more than this many stagnant deals is a bottleneck.
	bottleneckThreshold = 2
)

// Result is the health read-out for a single deal at instant now.
type Result struct {
	Score    int  `json:"score"`
	Stagnant bool `json:"stagnant"`
	Overdue  bool `json:"overdue"`
}

// Score computes the 0-100 health score for a deal. It is a heuristic,
// not a probability calibration; the weights are part of the reporting
// contract.
func Score(d *deal.Deal, now time.Time) Result {
	overdue := d.ExpectedClose.Valid &&
		d.ExpectedClose.Time.Before(now) &&
		!d.Stage.IsTerminal()

	stagnant := DaysSinceActivity(d, now) > StagnantAfterDays

	return Result{Score: weigh(d, stagnant, overdue), Stagnant: stagnant, Overdue: overdue}
}

// weigh applies the additive signals to a deal with the stagnation and
// overdue flags already resolved.
func weigh(d *deal.Deal, stagnant, overdue bool) int {
	score := baseScore

	// Positive signals
	if d.Probability >= 70 {
		score += 15
	} else if d.Probability >= 50 {
		score += 10
	}
	if d.Value >= 10000 {
		score += 10
	}
	if d.Source == "Referral" {
		score += 10
	}
	if d.ContactEmail.Valid && d.ContactEmail.String != "" &&
		d.ContactPhone.Valid && d.ContactPhone.String != "" {
		score += 5
	}

	// Negative signals
	if stagnant {
		score -= 15
	}
	if overdue {
		score -= 20
	}
	if !d.ExpectedClose.Valid {
		score -= 10
	}
	if d.Priority == deal.PriorityLow {
		score -= 5
	}

	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}
	return score
}

// DaysSinceActivity is the whole number of days since the deal's last
// field update.
func DaysSinceActivity(d *deal.Deal, now time.Time) int {
	if now.Before(d.UpdatedAt) {
		return 0
	}
	return int(now.Sub(d.UpdatedAt).Hours() / 24)
}

// Bottleneck reports whether a stage with the given stagnant-deal count
// should be flagged on the board.
func Bottleneck(stagnantCount int) bool {
	return stagnantCount > bottleneckThreshold
}
