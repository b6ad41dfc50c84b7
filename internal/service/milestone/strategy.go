package milestone

import "agencydesk/internal/model"

// AmountStrategy decides what a milestone-completion quote charges. The
// policy choice is isolated here so it can be swapped by configuration.
type AmountStrategy func(totalPrice float64, milestones []model.Milestone, position int) float64

// EvenSplit divides the project's total price evenly across all milestones,
// ignoring per-milestone prices. This mirrors the original billing behavior.
func EvenSplit(totalPrice float64, milestones []model.Milestone, _ int) float64 {
	if len(milestones) == 0 {
		return 0
	}
	return totalPrice / float64(len(milestones))
}

// MilestonePrice charges the completed milestone's own price, falling back
// to an even split when the milestone has no price set.
func MilestonePrice(totalPrice float64, milestones []model.Milestone, position int) float64 {
	if position >= 0 && position < len(milestones) {
		if p := milestones[position].Price; p != nil {
			return *p
		}
	}
	return EvenSplit(totalPrice, milestones, position)
}

// StrategyByName maps a config value to a strategy, defaulting to EvenSplit.
func StrategyByName(name string) AmountStrategy {
	if name == "milestone_price" {
		return MilestonePrice
	}
	return EvenSplit
}
