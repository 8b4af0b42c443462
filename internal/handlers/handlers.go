package handlers

import (
	"github.com/sirupsen/logrus"

	"github.com/treyzar/lotto-advisor/internal/services"
	"github.com/treyzar/lotto-advisor/internal/validation"
)

type Handlers struct {
	Health         *HealthHandler
	Catalog        *CatalogHandler
	Session        *SessionHandler
	Recommendation *RecommendationHandler
}

func New(logger *logrus.Logger, services *services.Services) (*Handlers, error) {
	validator, err := validation.NewSchemaValidator()
	if err != nil {
		return nil, err
	}

	return &Handlers{
		Health:         NewHealthHandler(logger, services.Health),
		Catalog:        NewCatalogHandler(services.Catalog, logger),
		Session:        NewSessionHandler(services.Sessions, services.History, services.MessageBus, logger),
		Recommendation: NewRecommendationHandler(services.Orchestrator, services.Sessions, services.LocalScorer, validator, logger),
	}, nil
}
