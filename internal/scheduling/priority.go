package scheduling

import "github.com/papan-digital/minbar/internal/model"

// Base priority scores per tier. Fixed mapping, shared with the admin UI.
var basePriorityScores = map[model.PriorityTier]float64{
	model.PriorityLow:      2,
	model.PriorityNormal:   5,
	model.PriorityHigh:     7,
	model.PriorityUrgent:   9,
	model.PriorityCritical: 10,
}

const (
	minPriorityScore = 1
	maxPriorityScore = 10
)

// BasePriorityScore returns the numeric score for a tier, 0 for an unknown
// tier (which validation rejects before anything reaches here).
func BasePriorityScore(tier model.PriorityTier) float64 {
	return basePriorityScores[tier]
}

// EffectivePriority is the assignment's base score multiplied by the
// sponsorship boost, clamped to [1, 10]. Pure.
func EffectivePriority(a model.Assignment, boost *model.SponsorshipBoost) float64 {
	score := BasePriorityScore(a.BasePriority)
	if boost != nil && boost.PriorityMultiplier > 0 {
		score *= boost.PriorityMultiplier
	}
	if score < minPriorityScore {
		return minPriorityScore
	}
	if score > maxPriorityScore {
		return maxPriorityScore
	}
	return score
}

// candidate is an assignment bundled with the records a tick needs alongside
// it. Score is filled in by the engine before ordering.
type candidate struct {
	assignment  model.Assignment
	content     model.ContentItem
	sponsorship *model.SponsorshipBoost
	score       float64
}

// less is the deterministic total order used everywhere a queue is built:
// effective priority descending, then sponsorship amount descending, then
// earliest start date, then assignment id. Identical inputs always produce
// identical queues.
func less(a, b candidate) bool {
	if a.score != b.score {
		return a.score > b.score
	}
	if a.content.SponsorshipAmount != b.content.SponsorshipAmount {
		return a.content.SponsorshipAmount > b.content.SponsorshipAmount
	}
	if !a.assignment.StartDate.Equal(b.assignment.StartDate) {
		return a.assignment.StartDate.Before(b.assignment.StartDate)
	}
	return a.assignment.ID < b.assignment.ID
}
