package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// DashboardStats
// @Summary Enrollment statistics
// @Tags Dashboard
// @Produce json
// @Security BearerAuth
// @Success 200 {object} repository.DashboardStats
// @Router /api/dashboard/stats [get]
func (h *Handler) DashboardStats(c *gin.Context) {
	stats, err := h.Repository.DashboardStats(c.Request.Context())
	if err != nil {
		h.handleError(c, err, "Statistika nije dostupna")
		return
	}
	c.JSON(http.StatusOK, stats)
}
