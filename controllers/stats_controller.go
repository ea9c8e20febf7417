package controllers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/rouf-185/coding-practice-dashboard/repositories"
	"github.com/rouf-185/coding-practice-dashboard/services"

	"github.com/gin-gonic/gin"
)

type StatsController struct {
	Stats *services.StatsService
	Goals *repositories.DailyGoalRepository
}

func NewStatsController(stats *services.StatsService, goals *repositories.DailyGoalRepository) *StatsController {
	return &StatsController{Stats: stats, Goals: goals}
}

// GetPracticeData serves the monthly calendar with the goal-achievement
// overlay. Out-of-range year/month clamp to the current date; these are
// read-only dashboards and never reject.
func (h *StatsController) GetPracticeData(c *gin.Context) {
	userID, ok := userIDFromCtx(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	now := time.Now().UTC()
	year := clampYear(c.Query("year"), now)
	month := clampMonth(c.Query("month"), now)

	data, err := h.Stats.GetMonthlyPracticeData(userID, year, month)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	goals, err := h.Goals.GetForMonth(userID, year, month)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	achieved := make(map[int]bool, len(data.Days))
	for _, day := range data.Days {
		g, ok := goals[day]
		achieved[day] = ok && g.Achieved
	}

	c.JSON(http.StatusOK, gin.H{
		"days":   data.Days,
		"counts": data.Counts,
		"year":   data.Year,
		"month":  data.Month,
		"goals":  achieved,
	})
}

func (h *StatsController) GetDifficultyStats(c *gin.Context) {
	userID, ok := userIDFromCtx(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	// Unknown periods fall back to lifetime inside the service.
	period := c.DefaultQuery("period", "lifetime")

	data, err := h.Stats.GetDifficultyStats(userID, period, time.Now().UTC())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, data)
}

func (h *StatsController) GetHeatmapData(c *gin.Context) {
	userID, ok := userIDFromCtx(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	now := time.Now().UTC()
	year := clampYear(c.Query("year"), now)

	data, err := h.Stats.GetHeatmapData(userID, year)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, data)
}

func clampYear(raw string, now time.Time) int {
	year, err := strconv.Atoi(raw)
	if err != nil || year < 2020 || year > 2100 {
		return now.Year()
	}
	return year
}

func clampMonth(raw string, now time.Time) time.Month {
	month, err := strconv.Atoi(raw)
	if err != nil || month < 1 || month > 12 {
		return now.Month()
	}
	return time.Month(month)
}
