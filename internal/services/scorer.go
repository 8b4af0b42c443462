package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/floats"

	"github.com/treyzar/lotto-advisor/internal/config"
	"github.com/treyzar/lotto-advisor/pkg/models"
)

// Scorer computes a non-negative weighted distance between the desired vector
// and every submitted real vector. Smaller diff means a better match; that
// monotonicity is the only property the ranking pipeline relies on.
type Scorer interface {
	BestOf(ctx context.Context, req models.BestOfRequest) ([]models.BestOfEntry, error)
}

// RemoteScorer posts the request to an external /best_of service.
type RemoteScorer struct {
	baseURL string
	client  *http.Client
	logger  *logrus.Logger
}

func NewRemoteScorer(cfg config.ScorerConfig, logger *logrus.Logger) *RemoteScorer {
	return &RemoteScorer{
		baseURL: cfg.URL,
		client:  &http.Client{Timeout: cfg.Timeout},
		logger:  logger,
	}
}

func (s *RemoteScorer) BestOf(ctx context.Context, req models.BestOfRequest) ([]models.BestOfEntry, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal scorer request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/best_of", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build scorer request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("scorer request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("scorer returned status %d", resp.StatusCode)
	}

	var entries []models.BestOfEntry
	if err := json.NewDecoder(resp.Body).Decode(&entries); err != nil {
		return nil, fmt.Errorf("failed to decode scorer response: %w", err)
	}

	return entries, nil
}

// LocalScorer is the in-process scoring engine behind this service's own
// /best_of endpoint and the default collaborator when no remote scorer is
// configured. It computes a weighted normalized L1 distance per item; the
// exact formula is an implementation detail, only its monotonicity is part of
// the contract.
type LocalScorer struct {
	logger *logrus.Logger
}

func NewLocalScorer(logger *logrus.Logger) *LocalScorer {
	return &LocalScorer{logger: logger}
}

func (s *LocalScorer) BestOf(_ context.Context, req models.BestOfRequest) ([]models.BestOfEntry, error) {
	desired := []float64{
		req.Desired.WinRate,
		req.Desired.WinSize,
		req.Desired.Frequency,
		req.Desired.TicketCost,
	}
	weights := []float64{
		req.Desired.WinRateK,
		req.Desired.WinSizeK,
		req.Desired.FrequencyK,
		req.Desired.TicketCostK,
	}

	entries := make([]models.BestOfEntry, 0, len(req.RealValues))
	for _, real := range req.RealValues {
		axes := []float64{real.WinRate, real.WinSize, real.Frequency, real.TicketCost}

		// Per-axis relative differences, so currency-scale axes do not
		// drown out the [0,1]-scale frequency axis.
		diffs := make([]float64, len(axes))
		for i := range axes {
			scale := math.Max(math.Abs(desired[i]), math.Abs(axes[i]))
			if scale < 1e-9 {
				scale = 1e-9
			}
			diffs[i] = math.Abs(desired[i]-axes[i]) / scale
		}

		entries = append(entries, models.BestOfEntry{
			Diff:           floats.Dot(weights, diffs),
			Name:           real.Name,
			UniversalProps: real,
		})
	}

	return entries, nil
}

// scorerFromConfig wires the collaborator selected by configuration.
func scorerFromConfig(cfg config.ScorerConfig, logger *logrus.Logger) Scorer {
	if cfg.Mode == "remote" && cfg.URL != "" {
		if cfg.Timeout <= 0 {
			cfg.Timeout = 10 * time.Second
		}
		return NewRemoteScorer(cfg, logger)
	}
	return NewLocalScorer(logger)
}
