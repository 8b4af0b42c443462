package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/treyzar/lotto-advisor/internal/config"
	"github.com/treyzar/lotto-advisor/pkg/models"
)

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	return logger
}

func testCatalog() []models.CatalogItem {
	return []models.CatalogItem{
		{ID: "ruslotto-1", Name: "Русское лото", PriceMinor: 150, RiskTier: models.RiskHigh, DrawKind: models.DrawScheduled},
		{ID: "5x36-2", Name: "Спортлото «5 из 36»", PriceMinor: 100, RiskTier: models.RiskLow, DrawKind: models.DrawScheduled},
		{ID: "6x45-3", Name: "Спортлото «6 из 45»", PriceMinor: 300, RiskTier: models.RiskMedium, DrawKind: models.DrawScheduled},
	}
}

func TestRankOrdersByAscendingDiff(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/best_of", r.URL.Path)

		var req models.BestOfRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Len(t, req.RealValues, 3)

		// Deliberately unsorted: ranking must not rely on scorer order.
		entries := []models.BestOfEntry{
			{Diff: 2.5, Name: "Русское лото"},
			{Diff: 0.3, Name: "Спортлото «6 из 45»"},
			{Diff: 1.1, Name: "Спортлото «5 из 36»"},
		}
		json.NewEncoder(w).Encode(entries)
	}))
	defer server.Close()

	scorer := NewRemoteScorer(config.ScorerConfig{URL: server.URL, Timeout: 0}, testLogger())
	scorer.client = server.Client()
	rs := NewRankingService(scorer, testLogger())

	ranked := rs.Rank(context.Background(), DesiredFromProfile(models.Profile{}, nil), testCatalog(), models.Profile{}, 0)

	require.Len(t, ranked, 3)
	assert.Equal(t, "6x45-3", ranked[0].Item.ID)
	assert.Equal(t, "5x36-2", ranked[1].Item.ID)
	assert.Equal(t, "ruslotto-1", ranked[2].Item.ID)
	assert.LessOrEqual(t, ranked[0].Diff, ranked[1].Diff)
	assert.LessOrEqual(t, ranked[1].Diff, ranked[2].Diff)
}

func TestRankAppliesLimit(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]models.BestOfEntry{
			{Diff: 0.1, Name: "Русское лото"},
			{Diff: 0.2, Name: "Спортлото «5 из 36»"},
			{Diff: 0.3, Name: "Спортлото «6 из 45»"},
		})
	}))
	defer server.Close()

	scorer := NewRemoteScorer(config.ScorerConfig{URL: server.URL}, testLogger())
	rs := NewRankingService(scorer, testLogger())

	ranked := rs.Rank(context.Background(), DesiredFromProfile(models.Profile{}, nil), testCatalog(), models.Profile{}, 2)
	require.Len(t, ranked, 2)
	assert.Equal(t, "ruslotto-1", ranked[0].Item.ID)
}

func TestRankSkipsUnmatchedNames(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]models.BestOfEntry{
			{Diff: 0.1, Name: "Несуществующая лотерея"},
			{Diff: 0.5, Name: "Русское лото"},
		})
	}))
	defer server.Close()

	scorer := NewRemoteScorer(config.ScorerConfig{URL: server.URL}, testLogger())
	rs := NewRankingService(scorer, testLogger())

	ranked := rs.Rank(context.Background(), DesiredFromProfile(models.Profile{}, nil), testCatalog(), models.Profile{}, 0)
	require.Len(t, ranked, 1)
	assert.Equal(t, "ruslotto-1", ranked[0].Item.ID)
}

func TestRankFailSoftOnScorerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	scorer := NewRemoteScorer(config.ScorerConfig{URL: server.URL}, testLogger())
	rs := NewRankingService(scorer, testLogger())

	ranked := rs.Rank(context.Background(), DesiredFromProfile(models.Profile{}, nil), testCatalog(), models.Profile{}, 0)
	assert.NotNil(t, ranked)
	assert.Empty(t, ranked)
}

func TestRankEmptyCatalogSkipsScorer(t *testing.T) {
	called := false
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer server.Close()

	scorer := NewRemoteScorer(config.ScorerConfig{URL: server.URL}, testLogger())
	rs := NewRankingService(scorer, testLogger())

	ranked := rs.Rank(context.Background(), DesiredFromProfile(models.Profile{}, nil), nil, models.Profile{}, 0)
	assert.Empty(t, ranked)
	assert.False(t, called, "scorer must not be contacted for an empty catalog")
}

func TestLocalScorerPerfectMatch(t *testing.T) {
	scorer := NewLocalScorer(testLogger())

	real := models.UniversalFeatures{Name: "exact", WinRate: 45, WinSize: 800_000, Frequency: 1.0 / 7.0, TicketCost: 760}
	req := models.BestOfRequest{
		Desired: models.DesiredFeatures{
			UniversalFeatures: real,
			FeatureWeights:    models.NeutralWeights(),
		},
		RealValues: []models.UniversalFeatures{real},
	}

	entries, err := scorer.BestOf(context.Background(), req)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.InDelta(t, 0.0, entries[0].Diff, 1e-12)
}

func TestLocalScorerCloserIsBetter(t *testing.T) {
	scorer := NewLocalScorer(testLogger())

	desired := models.DesiredFeatures{
		UniversalFeatures: models.UniversalFeatures{Name: "user", WinRate: 45, WinSize: 800_000, Frequency: 1.0 / 7.0, TicketCost: 300},
		FeatureWeights:    models.NeutralWeights(),
	}
	near := models.UniversalFeatures{Name: "near", WinRate: 44, WinSize: 790_000, Frequency: 1.0 / 7.0, TicketCost: 310}
	far := models.UniversalFeatures{Name: "far", WinRate: 10, WinSize: 3_000_000, Frequency: 1.0, TicketCost: 900}

	entries, err := scorer.BestOf(context.Background(), models.BestOfRequest{
		Desired:    desired,
		RealValues: []models.UniversalFeatures{far, near},
	})
	require.NoError(t, err)
	require.Len(t, entries, 2)

	byName := map[string]float64{}
	for _, e := range entries {
		byName[e.Name] = e.Diff
	}
	assert.Less(t, byName["near"], byName["far"])
}

func TestLocalScorerWeightsAmplifyAxis(t *testing.T) {
	scorer := NewLocalScorer(testLogger())

	desired := models.DesiredFeatures{
		UniversalFeatures: models.UniversalFeatures{Name: "user", WinRate: 45, WinSize: 800_000, Frequency: 1.0 / 7.0, TicketCost: 300},
		FeatureWeights:    models.FeatureWeights{WinRateK: 1.5, WinSizeK: 1, FrequencyK: 1, TicketCostK: 1},
	}
	offAxis := models.UniversalFeatures{Name: "off", WinRate: 20, WinSize: 800_000, Frequency: 1.0 / 7.0, TicketCost: 300}

	weighted, err := scorer.BestOf(context.Background(), models.BestOfRequest{
		Desired:    desired,
		RealValues: []models.UniversalFeatures{offAxis},
	})
	require.NoError(t, err)

	desired.FeatureWeights = models.NeutralWeights()
	neutral, err := scorer.BestOf(context.Background(), models.BestOfRequest{
		Desired:    desired,
		RealValues: []models.UniversalFeatures{offAxis},
	})
	require.NoError(t, err)

	assert.Greater(t, weighted[0].Diff, neutral[0].Diff)
}
