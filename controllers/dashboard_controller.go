package controllers

import (
	"net/http"
	"time"

	"github.com/MarkCopeland8889/nutrisnap/services"

	"github.com/gin-gonic/gin"
)

type DashboardController struct {
	Svc *services.DashboardService
}

func NewDashboardController(svc *services.DashboardService) *DashboardController {
	return &DashboardController{Svc: svc}
}

// GetDailySummary reports consumed and remaining nutrients for one local
// calendar day (default today) against the user's cached goals.
func (h *DashboardController) GetDailySummary(c *gin.Context) {
	userID := c.GetUint("userID")

	user, err := services.GetUser(userID)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	now := time.Now()
	day := now
	if v := c.Query("date"); v != "" {
		parsed, err := time.ParseInLocation("2006-01-02", v, now.Location())
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date format. Use YYYY-MM-DD"})
			return
		}
		day = parsed
	}

	summary, err := h.Svc.DailySummary(userID, day, user.Goals)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, summary)
}
