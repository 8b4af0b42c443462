package services

import "github.com/treyzar/lotto-advisor/pkg/models"

// BuildWeights converts the refinement answers into per-axis importance
// multipliers. The three answers are independent axes; every matching rule is
// applied additively and the clamp to [0.5, 1.5] happens once at the end.
func BuildWeights(answers models.RefinementAnswers) models.FeatureWeights {
	winRateK := 1.0
	winSizeK := 1.0
	frequencyK := 1.0
	ticketCostK := 1.0

	// Price priority: ticket cost vs win size trade-off. The UI historically
	// sent "dontcare" for the premium option, so both spellings are accepted.
	if answers.PricePriority != nil {
		switch *answers.PricePriority {
		case models.PriceEconomy:
			ticketCostK += 0.4
			winSizeK -= 0.2
		case models.PriceBalance:
			ticketCostK += 0.2
			winSizeK += 0.2
		case models.PricePremium, models.PriceDontCare:
			ticketCostK -= 0.3
			winSizeK += 0.4
		}
	}

	// Risk feeling: reliability of winning vs size of the win.
	if answers.RiskFeeling != nil {
		switch *answers.RiskFeeling {
		case models.RiskAvoid:
			winRateK += 0.4
			winSizeK -= 0.1
		case models.RiskNeutral:
			winRateK += 0.1
			winSizeK += 0.1
		case models.RiskSeek:
			winRateK -= 0.3
			winSizeK += 0.4
		}
	}

	// Play rhythm: draw frequency and ticket cost sensitivity. "sometimes"
	// deliberately leaves the neutral weights untouched.
	if answers.PlayRhythm != nil {
		switch *answers.PlayRhythm {
		case models.RhythmOften:
			frequencyK += 0.5
			ticketCostK += 0.1
		case models.RhythmRare:
			frequencyK -= 0.3
			winSizeK += 0.2
		}
	}

	return models.FeatureWeights{
		WinRateK:    clampWeight(winRateK),
		WinSizeK:    clampWeight(winSizeK),
		FrequencyK:  clampWeight(frequencyK),
		TicketCostK: clampWeight(ticketCostK),
	}
}
