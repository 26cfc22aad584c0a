package controllers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/MarkCopeland8889/nutrisnap/services"

	"github.com/gin-gonic/gin"
)

type AnalyticsController struct {
	Svc *services.AnalyticsService
}

func NewAnalyticsController(svc *services.AnalyticsService) *AnalyticsController {
	return &AnalyticsController{Svc: svc}
}

// GetPeriodSummary reports daily averages and goal adherence over a trailing
// window. Only 7 and 30 day windows exist; anything else is rejected rather
// than silently coerced.
func (h *AnalyticsController) GetPeriodSummary(c *gin.Context) {
	userID := c.GetUint("userID")

	days, err := strconv.Atoi(c.DefaultQuery("days", "7"))
	if err != nil || !services.SupportedPeriods[days] {
		c.JSON(http.StatusBadRequest, gin.H{"error": "days must be 7 or 30"})
		return
	}

	now := time.Now()
	end := now
	if v := c.Query("end"); v != "" {
		parsed, err := time.ParseInLocation("2006-01-02", v, now.Location())
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid end date"})
			return
		}
		end = parsed
	}

	user, err := services.GetUser(userID)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	out, err := h.Svc.PeriodSummary(userID, days, end, user.Goals)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, out)
}
