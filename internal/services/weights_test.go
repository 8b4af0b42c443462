package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/treyzar/lotto-advisor/pkg/models"
)

func strPtr(s string) *string { return &s }

func TestBuildWeightsNeutral(t *testing.T) {
	weights := BuildWeights(models.RefinementAnswers{})
	assert.Equal(t, models.NeutralWeights(), weights)
}

func TestBuildWeightsEconomyAvoidOften(t *testing.T) {
	weights := BuildWeights(models.RefinementAnswers{
		PricePriority: strPtr(models.PriceEconomy),
		RiskFeeling:   strPtr(models.RiskAvoid),
		PlayRhythm:    strPtr(models.RhythmOften),
	})

	assert.InDelta(t, 1.4, weights.WinRateK, 1e-12)
	assert.InDelta(t, 0.7, weights.WinSizeK, 1e-12)
	assert.InDelta(t, 1.5, weights.FrequencyK, 1e-12)
	// 1.0 + 0.4 + 0.1 hits the cap exactly.
	assert.InDelta(t, 1.5, weights.TicketCostK, 1e-12)
}

func TestBuildWeightsClampsAccumulatedSum(t *testing.T) {
	// premium + seek + rare pushes win size to 2.0 before the final clamp.
	weights := BuildWeights(models.RefinementAnswers{
		PricePriority: strPtr(models.PricePremium),
		RiskFeeling:   strPtr(models.RiskSeek),
		PlayRhythm:    strPtr(models.RhythmRare),
	})

	assert.Equal(t, 1.5, weights.WinSizeK)
	assert.InDelta(t, 0.7, weights.WinRateK, 1e-12)
	assert.InDelta(t, 0.7, weights.FrequencyK, 1e-12)
	assert.InDelta(t, 0.7, weights.TicketCostK, 1e-12)
}

func TestBuildWeightsDontCareEqualsPremium(t *testing.T) {
	premium := BuildWeights(models.RefinementAnswers{PricePriority: strPtr(models.PricePremium)})
	dontcare := BuildWeights(models.RefinementAnswers{PricePriority: strPtr(models.PriceDontCare)})
	assert.Equal(t, premium, dontcare)
}

func TestBuildWeightsSometimesIsNeutral(t *testing.T) {
	weights := BuildWeights(models.RefinementAnswers{PlayRhythm: strPtr(models.RhythmSometimes)})
	assert.Equal(t, models.NeutralWeights(), weights)
}

func TestBuildWeightsBalanceNeutralAxes(t *testing.T) {
	weights := BuildWeights(models.RefinementAnswers{
		PricePriority: strPtr(models.PriceBalance),
		RiskFeeling:   strPtr(models.RiskNeutral),
	})

	assert.InDelta(t, 1.1, weights.WinRateK, 1e-12)
	assert.InDelta(t, 1.3, weights.WinSizeK, 1e-12)
	assert.InDelta(t, 1.0, weights.FrequencyK, 1e-12)
	assert.InDelta(t, 1.2, weights.TicketCostK, 1e-12)
}

func TestBuildWeightsUnknownValuesIgnored(t *testing.T) {
	weights := BuildWeights(models.RefinementAnswers{
		PricePriority: strPtr("luxury"),
		RiskFeeling:   strPtr("unsure"),
		PlayRhythm:    strPtr("never"),
	})
	assert.Equal(t, models.NeutralWeights(), weights)
}
