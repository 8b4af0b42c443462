package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/treyzar/lotto-advisor/internal/messaging"
	"github.com/treyzar/lotto-advisor/internal/services"
	"github.com/treyzar/lotto-advisor/pkg/models"
)

const (
	stagePrimary    = "primary"
	stageRefinement = "refinement"
)

type SessionHandler struct {
	sessions *services.SessionService
	history  *services.RecommendationHistory
	bus      *messaging.MessageBus
	logger   *logrus.Logger
}

func NewSessionHandler(
	sessions *services.SessionService,
	history *services.RecommendationHistory,
	bus *messaging.MessageBus,
	logger *logrus.Logger,
) *SessionHandler {
	return &SessionHandler{
		sessions: sessions,
		history:  history,
		bus:      bus,
		logger:   logger,
	}
}

type sessionView struct {
	SessionID  uuid.UUID                  `json:"session_id"`
	Primary    models.QuestionnaireState  `json:"primary"`
	Refinement *models.QuestionnaireState `json:"refinement,omitempty"`
	Profile    *models.Profile            `json:"profile,omitempty"`
	Cancelled  bool                       `json:"cancelled"`
}

func viewOf(session *services.Session) sessionView {
	view := sessionView{
		SessionID: session.ID(),
		Primary:   session.Primary().State(),
		Profile:   session.Profile(),
		Cancelled: session.Primary().Cancelled(),
	}
	if refine := session.Refine(); refine != nil {
		state := refine.State()
		view.Refinement = &state
	}
	return view
}

// Create starts a new questionnaire session.
func (h *SessionHandler) Create(c *gin.Context) {
	session := h.sessions.Create()
	h.logger.WithField("session_id", session.ID()).Info("Questionnaire session started")
	c.JSON(http.StatusCreated, viewOf(session))
}

// Get returns the current state of both wizards.
func (h *SessionHandler) Get(c *gin.Context) {
	session, ok := h.lookup(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, viewOf(session))
}

type answerRequest struct {
	Stage string `json:"stage"`
	Field string `json:"field" binding:"required"`
	Value any    `json:"value"`
}

// Answer records a value for a questionnaire field.
func (h *SessionHandler) Answer(c *gin.Context) {
	session, ok := h.lookup(c)
	if !ok {
		return
	}

	var req answerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "INVALID_REQUEST", err.Error())
		return
	}

	wizard, ok := h.wizardFor(c, session, req.Stage)
	if !ok {
		return
	}

	wizard.SelectAnswer(req.Field, req.Value)
	c.JSON(http.StatusOK, viewOf(session))
}

type stageRequest struct {
	Stage string `json:"stage"`
}

// Advance confirms the current step. Completing the primary stage finalizes
// the profile and opens the refinement wizard.
func (h *SessionHandler) Advance(c *gin.Context) {
	session, ok := h.lookup(c)
	if !ok {
		return
	}

	var req stageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "INVALID_REQUEST", err.Error())
		return
	}

	wizard, ok := h.wizardFor(c, session, req.Stage)
	if !ok {
		return
	}

	completed := wizard.Advance()
	if completed && stageOf(req.Stage) == stagePrimary {
		profile := h.sessions.CompletePrimary(session)
		h.publishProfile(c, session.ID(), profile)
	}

	c.JSON(http.StatusOK, viewOf(session))
}

// Retreat steps back; at the first step it cancels the questionnaire.
func (h *SessionHandler) Retreat(c *gin.Context) {
	session, ok := h.lookup(c)
	if !ok {
		return
	}

	var req stageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "INVALID_REQUEST", err.Error())
		return
	}

	wizard, ok := h.wizardFor(c, session, req.Stage)
	if !ok {
		return
	}

	wizard.Retreat()
	c.JSON(http.StatusOK, viewOf(session))
}

// History returns the latest recommendation events of a session, newest first.
func (h *SessionHandler) History(c *gin.Context) {
	session, ok := h.lookup(c)
	if !ok {
		return
	}

	limit := 10
	if limitStr := c.Query("limit"); limitStr != "" {
		if parsed, err := strconv.Atoi(limitStr); err == nil && parsed > 0 && parsed <= 100 {
			limit = parsed
		}
	}

	entries, err := h.history.Recent(c.Request.Context(), session.ID(), limit)
	if err != nil {
		h.logger.WithError(err).Error("Failed to load recommendation history")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": gin.H{
				"code":    "HISTORY_UNAVAILABLE",
				"message": "Failed to load recommendation history",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"session_id": session.ID(),
		"entries":    entries,
	})
}

func (h *SessionHandler) lookup(c *gin.Context) (*services.Session, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		badRequest(c, "INVALID_SESSION_ID", "Invalid session ID format")
		return nil, false
	}

	session, err := h.sessions.Get(id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"error": gin.H{
				"code":    "SESSION_NOT_FOUND",
				"message": "Session does not exist or has expired",
			},
		})
		return nil, false
	}
	return session, true
}

func stageOf(stage string) string {
	if stage == "" {
		return stagePrimary
	}
	return stage
}

func (h *SessionHandler) wizardFor(c *gin.Context, session *services.Session, stage string) (*services.Wizard, bool) {
	switch stageOf(stage) {
	case stagePrimary:
		return session.Primary(), true
	case stageRefinement:
		refine := session.Refine()
		if refine == nil {
			c.JSON(http.StatusConflict, gin.H{
				"error": gin.H{
					"code":    "PRIMARY_NOT_COMPLETED",
					"message": "Finish the primary questionnaire first",
				},
			})
			return nil, false
		}
		return refine, true
	default:
		badRequest(c, "INVALID_STAGE", "Stage must be 'primary' or 'refinement'")
		return nil, false
	}
}

func (h *SessionHandler) publishProfile(c *gin.Context, sessionID uuid.UUID, profile models.Profile) {
	if h.bus == nil {
		return
	}
	payload := map[string]any{}
	if profile.Style != nil {
		payload["style"] = *profile.Style
	}
	if err := h.bus.Publish(c.Request.Context(), sessionID, messaging.EventProfileCompleted, payload); err != nil {
		h.logger.WithError(err).Warn("Failed to publish profile completion event")
	}
}

func badRequest(c *gin.Context, code, message string) {
	c.JSON(http.StatusBadRequest, gin.H{
		"error": gin.H{
			"code":    code,
			"message": message,
		},
	})
}
