package trend

import (
	"social-backend/internal/errors"
	"social-backend/internal/service"

	"github.com/gin-gonic/gin"
)

type TrendHandler struct {
	trendService service.TrendServiceInterface
}

func NewTrendHandler(trendService service.TrendServiceInterface) *TrendHandler {
	return &TrendHandler{trendService}
}

func (h *TrendHandler) RecordSearch(c *gin.Context) {
	var body struct {
		SearchTerm string `json:"searchTerm" binding:"notblank"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrValidation, "Search term is required", err))
		return
	}

	if err := h.trendService.RecordSearch(c.Request.Context(), body.SearchTerm); err != nil {
		errors.HandleError(c, err)
		return
	}
	errors.HandleCreated(c, gin.H{"success": true, "message": "Search trend saved"})
}

func (h *TrendHandler) GetTrends(c *gin.Context) {
	trends, err := h.trendService.GetTrends(c.Request.Context())
	if err != nil {
		errors.HandleError(c, err)
		return
	}
	errors.HandleSuccess(c, trends)
}
