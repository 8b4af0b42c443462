package services

import (
	"math"

	"github.com/treyzar/lotto-advisor/pkg/models"
)

// Base feature values per risk tier. These constants are part of the scoring
// contract: rankings must reproduce bit-for-bit across deployments, so they
// are not configurable.
const (
	baseWinRateLow    = 75.0
	baseWinRateMedium = 45.0
	baseWinRateHigh   = 20.0

	baseWinSizeLow    = 150_000.0
	baseWinSizeMedium = 800_000.0
	baseWinSizeHigh   = 3_000_000.0

	baseFrequencyInstant   = 1.0
	baseFrequencyScheduled = 1.0 / 7.0
)

// Fallback desired values used when a profile field was never set.
const (
	fallbackWinRate    = 45.0
	fallbackWinSize    = 800_000.0
	fallbackFrequency  = 1.0 / 7.0
	fallbackTicketCost = 760.0
)

const (
	weightMin = 0.5
	weightMax = 1.5
)

// stableHash is the polynomial rolling hash (multiplier 31, unsigned 32-bit
// wraparound) used to derive per-item deterministic noise. It iterates code
// points, not bytes, so Cyrillic ids hash the same as in other runtimes that
// index strings by character. Do not replace it with a built-in hash:
// cross-implementation reproducibility of rankings depends on bit-for-bit
// equivalent output.
func stableHash(id string) uint32 {
	var h uint32
	for _, r := range id {
		h = h*31 + uint32(r)
	}
	return h
}

// hash01 maps an item id onto [0, 1) in a stable way.
func hash01(id string) float64 {
	return float64(stableHash(id)%1000) / 1000.0
}

// normalizePrice positions a price inside the catalog's [min, max] range.
// A flat catalog or a non-finite price yields the neutral 0.5 so that the
// formulas below never divide by zero.
func normalizePrice(price, minPrice, maxPrice float64) float64 {
	if math.IsNaN(price) || math.IsInf(price, 0) {
		return 0.5
	}
	if maxPrice <= minPrice {
		return 0.5
	}
	return (price - minPrice) / (maxPrice - minPrice)
}

// ItemFeatures derives the universal feature vector of a catalog item.
// minPrice/maxPrice are computed once per scoring call over all candidates.
func ItemFeatures(item models.CatalogItem, minPrice, maxPrice float64) models.UniversalFeatures {
	baseWinRate := baseWinRateMedium
	baseWinSize := baseWinSizeMedium
	switch item.RiskTier {
	case models.RiskLow:
		baseWinRate = baseWinRateLow
		baseWinSize = baseWinSizeLow
	case models.RiskHigh:
		baseWinRate = baseWinRateHigh
		baseWinSize = baseWinSizeHigh
	}

	baseFrequency := baseFrequencyScheduled
	if item.DrawKind == models.DrawInstant {
		baseFrequency = baseFrequencyInstant
	}

	price := float64(item.PriceMinor)
	priceNorm := normalizePrice(price, minPrice, maxPrice)
	h := hash01(item.ID)

	return models.UniversalFeatures{
		Name:       item.Name,
		WinRate:    baseWinRate * (0.9 + 0.25*(1-priceNorm)) * (0.95 + 0.1*h),
		WinSize:    baseWinSize * (0.7 + 0.8*priceNorm) * (0.95 + 0.1*(1-h)),
		Frequency:  baseFrequency * (0.95 + 0.15*(1-priceNorm)) * (0.96 + 0.08*h),
		TicketCost: price,
	}
}

// clampWeight keeps a weight inside [0.5, 1.5]; non-finite input falls back
// to the neutral 1.0.
func clampWeight(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 1.0
	}
	if v < weightMin {
		return weightMin
	}
	if v > weightMax {
		return weightMax
	}
	return v
}

// DesiredFromProfile builds the desired feature vector from a completed
// profile. Nil weights mean the neutral vector; supplied weights are clamped.
func DesiredFromProfile(p models.Profile, weights *models.FeatureWeights) models.DesiredFeatures {
	w := models.NeutralWeights()
	if weights != nil {
		w = *weights
	}

	desired := models.DesiredFeatures{
		UniversalFeatures: models.UniversalFeatures{
			Name:       "user",
			WinRate:    fallbackWinRate,
			WinSize:    fallbackWinSize,
			Frequency:  fallbackFrequency,
			TicketCost: fallbackTicketCost,
		},
		FeatureWeights: models.FeatureWeights{
			WinRateK:    clampWeight(w.WinRateK),
			WinSizeK:    clampWeight(w.WinSizeK),
			FrequencyK:  clampWeight(w.FrequencyK),
			TicketCostK: clampWeight(w.TicketCostK),
		},
	}

	if p.WinRate != nil {
		desired.WinRate = *p.WinRate
	}
	if p.WinSize != nil {
		desired.WinSize = *p.WinSize
	}
	if p.Frequency != nil {
		desired.Frequency = *p.Frequency
	}
	if p.TicketCost != nil {
		desired.TicketCost = *p.TicketCost
	}

	return desired
}
