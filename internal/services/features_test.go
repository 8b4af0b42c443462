package services

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/treyzar/lotto-advisor/pkg/models"
)

func TestStableHash(t *testing.T) {
	// The rolling hash is part of the scoring contract; pin known values.
	assert.Equal(t, uint32(0), stableHash(""))
	assert.Equal(t, uint32(97), stableHash("a"))
	assert.Equal(t, uint32(96354), stableHash("abc"))

	// Non-ASCII ids hash per code point: 'я' is U+044F, 'ж' U+0436, 'а' U+0430.
	assert.Equal(t, uint32(1103), stableHash("я"))
	assert.Equal(t, uint32(1078*31+1072), stableHash("жа"))

	// Same input, same output, always.
	for i := 0; i < 10; i++ {
		assert.Equal(t, stableHash("ruslotto-12345"), stableHash("ruslotto-12345"))
	}
}

func TestHash01Range(t *testing.T) {
	ids := []string{"", "a", "abc", "ruslotto-1", "6x45-99999", "Моментальная"}
	for _, id := range ids {
		h := hash01(id)
		assert.GreaterOrEqual(t, h, 0.0, "id %q", id)
		assert.Less(t, h, 1.0, "id %q", id)
	}
	assert.InDelta(t, 0.354, hash01("abc"), 1e-12)
}

func TestNormalizePrice(t *testing.T) {
	assert.Equal(t, 0.0, normalizePrice(100, 100, 500))
	assert.Equal(t, 1.0, normalizePrice(500, 100, 500))
	assert.InDelta(t, 0.5, normalizePrice(300, 100, 500), 1e-12)

	// Flat catalog and non-finite prices degrade to the neutral middle.
	assert.Equal(t, 0.5, normalizePrice(100, 100, 100))
	assert.Equal(t, 0.5, normalizePrice(100, 500, 100))
	assert.Equal(t, 0.5, normalizePrice(math.NaN(), 100, 500))
	assert.Equal(t, 0.5, normalizePrice(math.Inf(1), 100, 500))
}

func TestItemFeaturesDeterministic(t *testing.T) {
	item := models.CatalogItem{
		ID:         "ruslotto-171",
		Name:       "Русское лото",
		PriceMinor: 150,
		RiskTier:   models.RiskMedium,
		DrawKind:   models.DrawScheduled,
	}

	first := ItemFeatures(item, 100, 500)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, ItemFeatures(item, 100, 500))
	}
}

func TestItemFeaturesFormulas(t *testing.T) {
	item := models.CatalogItem{
		ID:         "abc",
		Name:       "abc",
		PriceMinor: 300,
		RiskTier:   models.RiskLow,
		DrawKind:   models.DrawInstant,
	}

	// priceNorm = 0.5, hash01("abc") = 0.354
	f := ItemFeatures(item, 100, 500)
	assert.InDelta(t, 75.0*(0.9+0.25*0.5)*(0.95+0.1*0.354), f.WinRate, 1e-9)
	assert.InDelta(t, 150_000.0*(0.7+0.8*0.5)*(0.95+0.1*(1-0.354)), f.WinSize, 1e-9)
	assert.InDelta(t, 1.0*(0.95+0.15*0.5)*(0.96+0.08*0.354), f.Frequency, 1e-9)
	assert.Equal(t, 300.0, f.TicketCost)
	assert.Equal(t, "abc", f.Name)
}

func TestItemFeaturesRiskTiers(t *testing.T) {
	base := models.CatalogItem{ID: "same", PriceMinor: 300, DrawKind: models.DrawScheduled}

	low := base
	low.RiskTier = models.RiskLow
	medium := base
	medium.RiskTier = models.RiskMedium
	high := base
	high.RiskTier = models.RiskHigh

	fLow := ItemFeatures(low, 100, 500)
	fMedium := ItemFeatures(medium, 100, 500)
	fHigh := ItemFeatures(high, 100, 500)

	// Win rate falls and win size grows with risk.
	assert.Greater(t, fLow.WinRate, fMedium.WinRate)
	assert.Greater(t, fMedium.WinRate, fHigh.WinRate)
	assert.Less(t, fLow.WinSize, fMedium.WinSize)
	assert.Less(t, fMedium.WinSize, fHigh.WinSize)
}

func TestItemFeaturesCheaperWinsMoreOften(t *testing.T) {
	cheap := models.CatalogItem{ID: "x", PriceMinor: 100, RiskTier: models.RiskMedium, DrawKind: models.DrawScheduled}
	pricey := models.CatalogItem{ID: "x", PriceMinor: 500, RiskTier: models.RiskMedium, DrawKind: models.DrawScheduled}

	fCheap := ItemFeatures(cheap, 100, 500)
	fPricey := ItemFeatures(pricey, 100, 500)

	assert.Greater(t, fCheap.WinRate, fPricey.WinRate)
	assert.Less(t, fCheap.WinSize, fPricey.WinSize)
	assert.Greater(t, fCheap.Frequency, fPricey.Frequency)
}

func TestItemFeaturesInstantFrequency(t *testing.T) {
	instant := models.CatalogItem{ID: "x", PriceMinor: 300, RiskTier: models.RiskLow, DrawKind: models.DrawInstant}
	scheduled := models.CatalogItem{ID: "x", PriceMinor: 300, RiskTier: models.RiskLow, DrawKind: models.DrawScheduled}

	fi := ItemFeatures(instant, 100, 500)
	fs := ItemFeatures(scheduled, 100, 500)
	assert.InDelta(t, 7.0, fi.Frequency/fs.Frequency, 1e-9)
}

func TestClampWeight(t *testing.T) {
	assert.Equal(t, 1.0, clampWeight(1.0))
	assert.Equal(t, 0.5, clampWeight(0.2))
	assert.Equal(t, 1.5, clampWeight(2.0))
	assert.Equal(t, 1.0, clampWeight(math.NaN()))
	assert.Equal(t, 1.0, clampWeight(math.Inf(1)))
	assert.Equal(t, 1.0, clampWeight(math.Inf(-1)))
}

func TestDesiredFromProfileFallbacks(t *testing.T) {
	desired := DesiredFromProfile(models.Profile{}, nil)

	assert.Equal(t, "user", desired.Name)
	assert.Equal(t, 45.0, desired.WinRate)
	assert.Equal(t, 800_000.0, desired.WinSize)
	assert.InDelta(t, 1.0/7.0, desired.Frequency, 1e-12)
	assert.Equal(t, 760.0, desired.TicketCost)
	assert.Equal(t, models.NeutralWeights(), desired.FeatureWeights)
}

func TestDesiredFromProfileOverrides(t *testing.T) {
	winRate := 60.0
	winSize := 250_000.0
	frequency := 1.0
	ticketCost := 150.0

	desired := DesiredFromProfile(models.Profile{
		WinRate:    &winRate,
		WinSize:    &winSize,
		Frequency:  &frequency,
		TicketCost: &ticketCost,
	}, nil)

	assert.Equal(t, winRate, desired.WinRate)
	assert.Equal(t, winSize, desired.WinSize)
	assert.Equal(t, frequency, desired.Frequency)
	assert.Equal(t, ticketCost, desired.TicketCost)
}

func TestDesiredFromProfileClampsWeights(t *testing.T) {
	weights := models.FeatureWeights{
		WinRateK:    5.0,
		WinSizeK:    -1.0,
		FrequencyK:  math.NaN(),
		TicketCostK: 1.2,
	}

	desired := DesiredFromProfile(models.Profile{}, &weights)
	assert.Equal(t, 1.5, desired.WinRateK)
	assert.Equal(t, 0.5, desired.WinSizeK)
	assert.Equal(t, 1.0, desired.FrequencyK)
	assert.Equal(t, 1.2, desired.TicketCostK)
}
