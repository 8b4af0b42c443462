package services

import (
	"context"
	"sort"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/treyzar/lotto-advisor/pkg/models"
)

// RankingService turns a desired vector and a catalog snapshot into a ranked
// shortlist via the scoring collaborator. It is fail-soft by contract: any
// scorer failure degrades to an empty shortlist, never to an error.
type RankingService struct {
	scorer Scorer
	logger *logrus.Logger
}

func NewRankingService(scorer Scorer, logger *logrus.Logger) *RankingService {
	return &RankingService{
		scorer: scorer,
		logger: logger,
	}
}

// Rank scores every catalog item against the desired vector and returns the
// matches ordered by ascending diff, at most limit entries when limit > 0.
// An empty catalog short-circuits without contacting the scorer.
func (rs *RankingService) Rank(
	ctx context.Context,
	desired models.DesiredFeatures,
	items []models.CatalogItem,
	profile models.Profile,
	limit int,
) []models.RankedItem {
	if len(items) == 0 {
		return []models.RankedItem{}
	}

	minPrice := float64(items[0].PriceMinor)
	maxPrice := minPrice
	for _, item := range items[1:] {
		price := float64(item.PriceMinor)
		if price < minPrice {
			minPrice = price
		}
		if price > maxPrice {
			maxPrice = price
		}
	}

	realValues := make([]models.UniversalFeatures, 0, len(items))
	for _, item := range items {
		realValues = append(realValues, ItemFeatures(item, minPrice, maxPrice))
	}

	req := models.BestOfRequest{
		Desired:    desired,
		RealValues: realValues,
		Profile:    profile,
	}

	start := time.Now()
	entries, err := rs.scorer.BestOf(ctx, req)
	observeScoring(time.Since(start), err)
	if err != nil {
		rs.logger.WithError(err).Warn("Scorer call failed, returning empty shortlist")
		return []models.RankedItem{}
	}

	// The scorer is expected to sort, but correctness must not depend on it.
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Diff < entries[j].Diff
	})

	byName := make(map[string]models.CatalogItem, len(items))
	for _, item := range items {
		byName[item.Name] = item
	}

	ranked := make([]models.RankedItem, 0, len(entries))
	for _, entry := range entries {
		item, ok := byName[entry.Name]
		if !ok {
			// The scorer is authoritative only over names it received.
			continue
		}
		ranked = append(ranked, models.RankedItem{Diff: entry.Diff, Item: item})
		if limit > 0 && len(ranked) >= limit {
			break
		}
	}

	return ranked
}
