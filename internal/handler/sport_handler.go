package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/matchpoint-id/sports-reg-api/internal/service"
	"github.com/matchpoint-id/sports-reg-api/pkg/response"
)

// SportHandler exposes the reference data endpoints.
type SportHandler struct {
	sports *service.SportService
}

// NewSportHandler constructs SportHandler.
func NewSportHandler(sports *service.SportService) *SportHandler {
	return &SportHandler{sports: sports}
}

// ListSports godoc
// @Summary List sports with distances and sub-types
// @Tags Reference
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /sports [get]
func (h *SportHandler) ListSports(c *gin.Context) {
	sports, err := h.sports.ListSports(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, sports, nil)
}

// ListAgeCategories godoc
// @Summary List configured age categories
// @Tags Reference
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /age-categories [get]
func (h *SportHandler) ListAgeCategories(c *gin.Context) {
	categories, err := h.sports.ListAgeCategories(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, categories, nil)
}
