package services

import (
	"github.com/sirupsen/logrus"

	"github.com/treyzar/lotto-advisor/internal/config"
	"github.com/treyzar/lotto-advisor/internal/database"
	"github.com/treyzar/lotto-advisor/internal/messaging"
)

type Services struct {
	Health       *HealthService
	Catalog      *CatalogService
	Ranking      *RankingService
	LocalScorer  *LocalScorer
	Sessions     *SessionService
	History      *RecommendationHistory
	MessageBus   *messaging.MessageBus
	Orchestrator *RecommendationOrchestrator
}

func New(cfg *config.Config, logger *logrus.Logger, db *database.Database) (*Services, error) {
	healthService := NewHealthService(db, logger)

	stolotoClient := NewStolotoClient(cfg.Stoloto, logger)
	catalogService := NewCatalogService(stolotoClient, db.Redis, &cfg.Recommendation, logger)

	// The local engine always exists: it backs this service's own /best_of
	// endpoint even when ranking goes through a remote scorer.
	localScorer := NewLocalScorer(logger)
	rankingService := NewRankingService(scorerFromConfig(cfg.Scorer, logger), logger)

	sessionService := NewSessionService(cfg.Recommendation.SessionTTL, logger)
	historyRepo := NewRecommendationHistory(db.PG, logger)

	messageBus, err := messaging.NewMessageBus(cfg, logger)
	if err != nil {
		return nil, err
	}

	orchestrator := NewRecommendationOrchestrator(
		catalogService, rankingService, historyRepo, messageBus,
		&cfg.Recommendation, logger,
	)

	return &Services{
		Health:       healthService,
		Catalog:      catalogService,
		Ranking:      rankingService,
		LocalScorer:  localScorer,
		Sessions:     sessionService,
		History:      historyRepo,
		MessageBus:   messageBus,
		Orchestrator: orchestrator,
	}, nil
}
