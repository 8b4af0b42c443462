package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/treyzar/lotto-advisor/internal/services"
	"github.com/treyzar/lotto-advisor/pkg/models"
)

type CatalogHandler struct {
	catalog *services.CatalogService
	logger  *logrus.Logger
}

func NewCatalogHandler(catalog *services.CatalogService, logger *logrus.Logger) *CatalogHandler {
	return &CatalogHandler{
		catalog: catalog,
		logger:  logger,
	}
}

// Get returns the normalized catalog snapshot for a play style plus the
// quick-pick teaser block. An X-Visitor-ID header bumps the visit counter.
func (h *CatalogHandler) Get(c *gin.Context) {
	style := c.DefaultQuery("style", models.StyleAny)
	switch style {
	case models.StyleInstant, models.StyleTirage, models.StyleAny:
	default:
		c.JSON(http.StatusBadRequest, gin.H{
			"error": gin.H{
				"code":    "INVALID_STYLE",
				"message": "Style must be one of: instant, tirage, any",
			},
		})
		return
	}

	if visitorID := c.GetHeader("X-Visitor-ID"); visitorID != "" {
		h.catalog.RegisterVisit(c.Request.Context(), visitorID)
	}

	items, err := h.catalog.CatalogForStyle(c.Request.Context(), style)
	if err != nil {
		h.logger.WithError(err).WithField("style", style).Error("Failed to build catalog snapshot")
		c.JSON(http.StatusBadGateway, gin.H{
			"error": gin.H{
				"code":    "UPSTREAM_UNAVAILABLE",
				"message": "Lottery catalog is temporarily unavailable",
			},
		})
		return
	}

	c.JSON(http.StatusOK, models.CatalogResponse{
		Style:      style,
		Items:      items,
		QuickPicks: h.catalog.QuickPicks(items),
	})
}
