package controllers

import (
	"math"
	"net/http"
	"time"

	"github.com/rouf-185/coding-practice-dashboard/services"

	"github.com/gin-gonic/gin"
)

type DashboardController struct {
	Practice *services.PracticeService
	Stats    *services.StatsService
}

func NewDashboardController(practice *services.PracticeService, stats *services.StatsService) *DashboardController {
	return &DashboardController{Practice: practice, Stats: stats}
}

// GetDashboard returns the grouped practice schedule, overall practice stats
// and today's goal progress in one payload.
func (h *DashboardController) GetDashboard(c *gin.Context) {
	userID, ok := userIDFromCtx(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	now := time.Now().UTC()

	groups, err := h.Practice.GetProblemsToPractice(userID, now)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	stats, err := h.Stats.GetPracticeStats(userID, now)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	total, done := 0, 0
	for _, g := range groups {
		for _, item := range g.Items {
			total++
			if item.SolvedRecently {
				done++
			}
		}
	}
	percentage := 0
	if total > 0 {
		percentage = int(math.Round(float64(done) / float64(total) * 100))
	}

	c.JSON(http.StatusOK, gin.H{
		"grouped_problems": groups,
		"stats":            stats,
		"goal_progress": gin.H{
			"total":      total,
			"done":       done,
			"remaining":  total - done,
			"percentage": percentage,
		},
	})
}
