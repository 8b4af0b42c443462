package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/treyzar/lotto-advisor/internal/config"
	"github.com/treyzar/lotto-advisor/internal/messaging"
	"github.com/treyzar/lotto-advisor/pkg/models"
)

// RecommendationOrchestrator drives the two scoring passes of the assistant
// flow: profile -> shortlist, then refinement answers -> final pick. History
// and event publishing are best-effort side channels; only the catalog fetch
// can fail the flow.
type RecommendationOrchestrator struct {
	catalog *CatalogService
	ranking *RankingService
	history *RecommendationHistory
	bus     *messaging.MessageBus
	cfg     *config.RecommendationConfig
	logger  *logrus.Logger
}

func NewRecommendationOrchestrator(
	catalog *CatalogService,
	ranking *RankingService,
	history *RecommendationHistory,
	bus *messaging.MessageBus,
	cfg *config.RecommendationConfig,
	logger *logrus.Logger,
) *RecommendationOrchestrator {
	return &RecommendationOrchestrator{
		catalog: catalog,
		ranking: ranking,
		history: history,
		bus:     bus,
		cfg:     cfg,
		logger:  logger,
	}
}

func profileStyle(p models.Profile) string {
	if p.Style != nil {
		return *p.Style
	}
	return models.StyleAny
}

// Shortlist ranks the catalog for a completed profile with neutral weights.
func (ro *RecommendationOrchestrator) Shortlist(
	ctx context.Context,
	sessionID *uuid.UUID,
	profile models.Profile,
	count int,
) (*models.ShortlistResponse, error) {
	items, err := ro.catalog.CatalogForStyle(ctx, profileStyle(profile))
	if err != nil {
		return nil, err
	}

	if count <= 0 {
		count = ro.cfg.ShortlistSize
	}

	desired := DesiredFromProfile(profile, nil)
	ranked := ro.ranking.Rank(ctx, desired, items, profile, count)

	resp := &models.ShortlistResponse{
		SessionID:   sessionID,
		Items:       ranked,
		GeneratedAt: time.Now().UTC(),
	}

	if sessionID != nil {
		if ro.history != nil {
			if err := ro.history.RecordShortlist(ctx, *sessionID, profile, ranked); err != nil {
				ro.logger.WithError(err).Warn("Failed to record shortlist history")
			}
		}
		ro.publish(ctx, *sessionID, messaging.EventShortlistGenerated, map[string]any{
			"count": len(ranked),
			"style": profileStyle(profile),
		})
	}

	return resp, nil
}

// Final re-ranks the catalog with refinement-derived weights and returns the
// single best match. When the weighted pass yields nothing the first catalog
// item keeps the flow alive, mirroring the original assistant's fallback.
func (ro *RecommendationOrchestrator) Final(
	ctx context.Context,
	sessionID *uuid.UUID,
	profile models.Profile,
	answers models.RefinementAnswers,
) (*models.FinalResponse, error) {
	items, err := ro.catalog.CatalogForStyle(ctx, profileStyle(profile))
	if err != nil {
		return nil, err
	}

	weights := BuildWeights(answers)
	desired := DesiredFromProfile(profile, &weights)
	ranked := ro.ranking.Rank(ctx, desired, items, profile, 1)

	resp := &models.FinalResponse{
		SessionID:   sessionID,
		Weights:     weights,
		GeneratedAt: time.Now().UTC(),
	}

	switch {
	case len(ranked) > 0:
		resp.Item = &ranked[0]
	case len(items) > 0:
		resp.Item = &models.RankedItem{Item: items[0]}
	}

	if sessionID != nil {
		if ro.history != nil {
			if err := ro.history.RecordFinal(ctx, *sessionID, weights, resp.Item); err != nil {
				ro.logger.WithError(err).Warn("Failed to record final pick history")
			}
		}
		payload := map[string]any{"weights": weights}
		if resp.Item != nil {
			payload["item"] = resp.Item.Item.ID
		}
		ro.publish(ctx, *sessionID, messaging.EventFinalSelected, payload)
	}

	return resp, nil
}

func (ro *RecommendationOrchestrator) publish(ctx context.Context, sessionID uuid.UUID, eventType string, payload map[string]any) {
	if ro.bus == nil {
		return
	}
	if err := ro.bus.Publish(ctx, sessionID, eventType, payload); err != nil {
		ro.logger.WithError(err).WithField("event", eventType).Warn("Failed to publish recommendation event")
	}
}
