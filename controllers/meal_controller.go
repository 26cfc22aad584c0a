package controllers

import (
	"errors"
	"net/http"
	"sort"
	"strconv"
	"time"

	"github.com/MarkCopeland8889/nutrisnap/services"

	"github.com/gin-gonic/gin"
)

type MealController struct {
	Meals   *services.MealService
	Entries *services.EntryService
}

func NewMealController(meals *services.MealService, entries *services.EntryService) *MealController {
	return &MealController{Meals: meals, Entries: entries}
}

// AnalyzeAndLog runs one estimation and appends the result to the ledger.
func (h *MealController) AnalyzeAndLog(c *gin.Context) {
	userID := c.GetUint("userID")

	var req services.AnalyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	entry, analysis, err := h.Meals.AnalyzeAndLog(c.Request.Context(), userID, req)
	if err != nil {
		status := http.StatusBadGateway
		var malformed *services.MalformedResponseError
		switch {
		case errors.Is(err, services.ErrAnalysisLimitReached):
			status = http.StatusForbidden
		case errors.As(err, &malformed):
			status = http.StatusBadGateway
		case errors.Is(err, services.ErrEstimationService):
			status = http.StatusBadGateway
		default:
			status = http.StatusBadRequest
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"entry": entry, "analysis": analysis})
}

// ListMeals returns entries for an inclusive date range, defaulting to
// today, newest first.
func (h *MealController) ListMeals(c *gin.Context) {
	userID := c.GetUint("userID")
	now := time.Now()

	fromStr := c.DefaultQuery("from", now.Format("2006-01-02"))
	toStr := c.DefaultQuery("to", now.Format("2006-01-02"))

	from, err := time.ParseInLocation("2006-01-02", fromStr, now.Location())
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid from date"})
		return
	}
	to, err := time.ParseInLocation("2006-01-02", toStr, now.Location())
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid to date"})
		return
	}
	if to.Before(from) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "`to` must be on/after `from`"})
		return
	}

	entries, err := h.Entries.ListRange(userID, from, to.Add(24*time.Hour-time.Nanosecond))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].LoggedAt.After(entries[j].LoggedAt)
	})
	c.JSON(http.StatusOK, entries)
}

func (h *MealController) GetMeal(c *gin.Context) {
	userID := c.GetUint("userID")
	entryID, ok := entryIDParam(c)
	if !ok {
		return
	}

	entry, err := h.Entries.Get(userID, entryID)
	if err != nil {
		if errors.Is(err, services.ErrEntryNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, entry)
}

// UpdateMeal overwrites every editable field; loggedAt keeps its original
// value. A missing entry is fatal here, unlike delete.
func (h *MealController) UpdateMeal(c *gin.Context) {
	userID := c.GetUint("userID")
	entryID, ok := entryIDParam(c)
	if !ok {
		return
	}

	var fields services.EntryFields
	if err := c.ShouldBindJSON(&fields); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	entry, err := h.Entries.Update(userID, entryID, fields)
	if err != nil {
		if errors.Is(err, services.ErrEntryNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, entry)
}

func (h *MealController) DeleteMeal(c *gin.Context) {
	userID := c.GetUint("userID")
	entryID, ok := entryIDParam(c)
	if !ok {
		return
	}

	if err := h.Meals.DeleteMeal(userID, entryID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Status(http.StatusNoContent)
}

func entryIDParam(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid entry id"})
		return 0, false
	}
	return uint(id), true
}
