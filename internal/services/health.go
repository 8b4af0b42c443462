package services

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/treyzar/lotto-advisor/internal/database"
)

// HealthService reports dependency status for the health endpoint.
type HealthService struct {
	db     *database.Database
	logger *logrus.Logger
}

func NewHealthService(db *database.Database, logger *logrus.Logger) *HealthService {
	return &HealthService{
		db:     db,
		logger: logger,
	}
}

type HealthStatus struct {
	Status     string            `json:"status"`
	Components map[string]string `json:"components"`
	CheckedAt  time.Time         `json:"checked_at"`
}

func (hs *HealthService) Check(ctx context.Context) HealthStatus {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	status := HealthStatus{
		Status:     "healthy",
		Components: make(map[string]string),
		CheckedAt:  time.Now().UTC(),
	}

	check := func(name string, err error) {
		if err != nil {
			hs.logger.WithError(err).WithField("component", name).Warn("Health check failed")
			status.Components[name] = "unhealthy"
			status.Status = "degraded"
			return
		}
		status.Components[name] = "healthy"
	}

	if hs.db != nil && hs.db.PG != nil {
		check("postgres", hs.db.PG.Ping(ctx))
	}
	if hs.db != nil && hs.db.Redis != nil {
		if hs.db.Redis.Hot != nil {
			check("redis_hot", hs.db.Redis.Hot.Ping(ctx).Err())
		}
		if hs.db.Redis.Warm != nil {
			check("redis_warm", hs.db.Redis.Warm.Ping(ctx).Err())
		}
	}

	return status
}
