package services

import (
	"time"

	"github.com/rouf-185/coding-practice-dashboard/models"
	"github.com/rouf-185/coding-practice-dashboard/repositories"
)

// DailyGoalService maintains the per-day scheduled-vs-completed record. It is
// recomputed from scratch on every practice completion so the record stays
// consistent as the scheduled set shifts during the day.
type DailyGoalService struct {
	practice *PracticeService
	goals    *repositories.DailyGoalRepository
}

func NewDailyGoalService(practice *PracticeService, goals *repositories.DailyGoalRepository) *DailyGoalService {
	return &DailyGoalService{practice: practice, goals: goals}
}

// Recompute upserts the goal record keyed by the UTC calendar date of now.
// "Completed" counts scheduled problems whose last practice (or solve) falls
// within the trailing 12 hours of now, the same rule the dashboard uses.
func (s *DailyGoalService) Recompute(userID uint, now time.Time) (*models.DailyGoal, error) {
	groups, err := s.practice.GetProblemsToPractice(userID, now)
	if err != nil {
		return nil, err
	}

	total := 0
	completed := 0
	for _, g := range groups {
		for _, item := range g.Items {
			total++
			if item.SolvedRecently {
				completed++
			}
		}
	}

	return s.goals.CreateOrUpdate(userID, dayStartUTC(now), total, completed)
}
