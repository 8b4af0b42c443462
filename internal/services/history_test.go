package services

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/treyzar/lotto-advisor/pkg/models"
)

func TestRecordShortlist(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectExec("INSERT INTO recommendation_history").
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), "shortlist", pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	rh := NewRecommendationHistory(mock, testLogger())
	sessionID := uuid.New()

	err = rh.RecordShortlist(context.Background(), sessionID, models.Profile{}, []models.RankedItem{
		{Diff: 0.1, Item: models.CatalogItem{ID: "ruslotto-1", Name: "Русское лото"}},
	})
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecordFinal(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectExec("INSERT INTO recommendation_history").
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), "final", pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	rh := NewRecommendationHistory(mock, testLogger())

	item := models.RankedItem{Diff: 0.3, Item: models.CatalogItem{ID: "6x45-3"}}
	err = rh.RecordFinal(context.Background(), uuid.New(), models.NeutralWeights(), &item)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecordShortlistPropagatesError(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectExec("INSERT INTO recommendation_history").
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), "shortlist", pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnError(errors.New("connection refused"))

	rh := NewRecommendationHistory(mock, testLogger())
	err = rh.RecordShortlist(context.Background(), uuid.New(), models.Profile{}, nil)
	assert.Error(t, err)
}

func TestRecentHistory(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	sessionID := uuid.New()
	entryID := uuid.New()
	payload, _ := json.Marshal(map[string]any{"items": []string{}})
	createdAt := time.Now().UTC()

	rows := pgxmock.NewRows([]string{"id", "session_id", "kind", "payload", "created_at"}).
		AddRow(entryID, sessionID, "shortlist", json.RawMessage(payload), createdAt)

	mock.ExpectQuery("SELECT id, session_id, kind, payload, created_at").
		WithArgs(sessionID, 5).
		WillReturnRows(rows)

	rh := NewRecommendationHistory(mock, testLogger())
	entries, err := rh.Recent(context.Background(), sessionID, 5)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, entryID, entries[0].ID)
	assert.Equal(t, "shortlist", entries[0].Kind)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHistoryNilDatabaseIsNoop(t *testing.T) {
	rh := NewRecommendationHistory(nil, testLogger())

	assert.NoError(t, rh.RecordShortlist(context.Background(), uuid.New(), models.Profile{}, nil))
	entries, err := rh.Recent(context.Background(), uuid.New(), 10)
	assert.NoError(t, err)
	assert.Nil(t, entries)
}
