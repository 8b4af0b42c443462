package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"sort"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/treyzar/lotto-advisor/internal/services"
	"github.com/treyzar/lotto-advisor/internal/validation"
	"github.com/treyzar/lotto-advisor/pkg/models"
)

type RecommendationHandler struct {
	orchestrator *services.RecommendationOrchestrator
	sessions     *services.SessionService
	scorer       *services.LocalScorer
	validator    *validation.SchemaValidator
	logger       *logrus.Logger
}

func NewRecommendationHandler(
	orchestrator *services.RecommendationOrchestrator,
	sessions *services.SessionService,
	scorer *services.LocalScorer,
	validator *validation.SchemaValidator,
	logger *logrus.Logger,
) *RecommendationHandler {
	return &RecommendationHandler{
		orchestrator: orchestrator,
		sessions:     sessions,
		scorer:       scorer,
		validator:    validator,
		logger:       logger,
	}
}

// BestOf is the scoring endpoint itself: it scores the submitted real vectors
// against the desired vector and returns entries ordered by ascending diff.
func (h *RecommendationHandler) BestOf(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		badRequest(c, "INVALID_REQUEST", "Failed to read request body")
		return
	}

	if result := h.validator.ValidateBestOfRequest(body); !result.Valid {
		c.JSON(http.StatusBadRequest, result.ToAPIError())
		return
	}

	var req models.BestOfRequest
	if err := json.Unmarshal(body, &req); err != nil {
		badRequest(c, "INVALID_REQUEST", err.Error())
		return
	}

	entries, err := h.scorer.BestOf(c.Request.Context(), req)
	if err != nil {
		h.logger.WithError(err).Error("Scoring failed")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": gin.H{
				"code":    "SCORING_FAILED",
				"message": "Failed to score catalog items",
			},
		})
		return
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Diff < entries[j].Diff
	})

	c.JSON(http.StatusOK, entries)
}

// Shortlist runs the first scoring pass for a completed profile.
func (h *RecommendationHandler) Shortlist(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		badRequest(c, "INVALID_REQUEST", "Failed to read request body")
		return
	}

	if result := h.validator.ValidateShortlistRequest(body); !result.Valid {
		c.JSON(http.StatusBadRequest, result.ToAPIError())
		return
	}

	var req models.ShortlistRequest
	if err := json.Unmarshal(body, &req); err != nil {
		badRequest(c, "INVALID_REQUEST", err.Error())
		return
	}

	resp, err := h.orchestrator.Shortlist(c.Request.Context(), req.SessionID, req.Profile, req.Count)
	if err != nil {
		h.logger.WithError(err).Error("Failed to build shortlist")
		c.JSON(http.StatusBadGateway, gin.H{
			"error": gin.H{
				"code":    "UPSTREAM_UNAVAILABLE",
				"message": "Lottery catalog is temporarily unavailable",
			},
		})
		return
	}

	if req.SessionID != nil {
		if session, err := h.sessions.Get(*req.SessionID); err == nil {
			session.SetShortlist(resp.Items)
		}
	}

	c.JSON(http.StatusOK, resp)
}

// Final runs the weighted second pass and returns the single best match.
func (h *RecommendationHandler) Final(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		badRequest(c, "INVALID_REQUEST", "Failed to read request body")
		return
	}

	if result := h.validator.ValidateFinalRequest(body); !result.Valid {
		c.JSON(http.StatusBadRequest, result.ToAPIError())
		return
	}

	var req models.FinalRequest
	if err := json.Unmarshal(body, &req); err != nil {
		badRequest(c, "INVALID_REQUEST", err.Error())
		return
	}

	resp, err := h.orchestrator.Final(c.Request.Context(), req.SessionID, req.Profile, req.Answers)
	if err != nil {
		h.logger.WithError(err).Error("Failed to build final recommendation")
		c.JSON(http.StatusBadGateway, gin.H{
			"error": gin.H{
				"code":    "UPSTREAM_UNAVAILABLE",
				"message": "Lottery catalog is temporarily unavailable",
			},
		})
		return
	}

	c.JSON(http.StatusOK, resp)
}
