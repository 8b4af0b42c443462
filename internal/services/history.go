package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/sirupsen/logrus"

	"github.com/treyzar/lotto-advisor/pkg/models"
)

// DatabaseQuerier is the slice of pgxpool.Pool the history repository needs;
// pgxmock satisfies it in tests.
type DatabaseQuerier interface {
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
}

// RecommendationHistory persists completed profiles, shortlists and final
// picks. Writes on the recommendation path are best-effort: a storage failure
// is logged and never fails the response.
type RecommendationHistory struct {
	db     DatabaseQuerier
	logger *logrus.Logger
}

func NewRecommendationHistory(db DatabaseQuerier, logger *logrus.Logger) *RecommendationHistory {
	return &RecommendationHistory{
		db:     db,
		logger: logger,
	}
}

// HistoryEntry is one recorded recommendation event.
type HistoryEntry struct {
	ID        uuid.UUID       `json:"id"`
	SessionID uuid.UUID       `json:"session_id"`
	Kind      string          `json:"kind"`
	Payload   json.RawMessage `json:"payload"`
	CreatedAt time.Time       `json:"created_at"`
}

const (
	historyKindShortlist = "shortlist"
	historyKindFinal     = "final"
)

// RecordShortlist stores a generated shortlist for a session.
func (rh *RecommendationHistory) RecordShortlist(ctx context.Context, sessionID uuid.UUID, profile models.Profile, items []models.RankedItem) error {
	payload, err := json.Marshal(map[string]any{
		"profile": profile,
		"items":   items,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal shortlist payload: %w", err)
	}
	return rh.insert(ctx, sessionID, historyKindShortlist, payload)
}

// RecordFinal stores the final pick and the weights that produced it.
func (rh *RecommendationHistory) RecordFinal(ctx context.Context, sessionID uuid.UUID, weights models.FeatureWeights, item *models.RankedItem) error {
	payload, err := json.Marshal(map[string]any{
		"weights": weights,
		"item":    item,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal final payload: %w", err)
	}
	return rh.insert(ctx, sessionID, historyKindFinal, payload)
}

func (rh *RecommendationHistory) insert(ctx context.Context, sessionID uuid.UUID, kind string, payload []byte) error {
	if rh.db == nil {
		return nil
	}
	_, err := rh.db.Exec(ctx, `
		INSERT INTO recommendation_history (id, session_id, kind, payload, created_at)
		VALUES ($1, $2, $3, $4, $5)`,
		uuid.New(), sessionID, kind, payload, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert history entry: %w", err)
	}
	return nil
}

// Recent returns the latest entries for a session, newest first.
func (rh *RecommendationHistory) Recent(ctx context.Context, sessionID uuid.UUID, limit int) ([]HistoryEntry, error) {
	if rh.db == nil {
		return nil, nil
	}
	if limit <= 0 {
		limit = 10
	}

	rows, err := rh.db.Query(ctx, `
		SELECT id, session_id, kind, payload, created_at
		FROM recommendation_history
		WHERE session_id = $1
		ORDER BY created_at DESC
		LIMIT $2`,
		sessionID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query history: %w", err)
	}
	defer rows.Close()

	var entries []HistoryEntry
	for rows.Next() {
		var entry HistoryEntry
		if err := rows.Scan(&entry.ID, &entry.SessionID, &entry.Kind, &entry.Payload, &entry.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan history entry: %w", err)
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}
