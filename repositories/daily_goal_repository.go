package repositories

import (
	"errors"
	"time"

	"github.com/rouf-185/coding-practice-dashboard/models"

	"gorm.io/gorm"
)

type DailyGoalRepository struct {
	db *gorm.DB
}

func NewDailyGoalRepository(db *gorm.DB) *DailyGoalRepository {
	return &DailyGoalRepository{db: db}
}

func (r *DailyGoalRepository) GetForDate(userID uint, goalDate time.Time) (*models.DailyGoal, error) {
	var g models.DailyGoal
	err := r.db.Where("user_id = ? AND goal_date = ?", userID, goalDate).First(&g).Error
	if err != nil {
		return nil, err
	}
	return &g, nil
}

func (r *DailyGoalRepository) GetForDateRange(userID uint, start, end time.Time) ([]models.DailyGoal, error) {
	var goals []models.DailyGoal
	err := r.db.
		Where("user_id = ? AND goal_date >= ? AND goal_date <= ?", userID, start, end).
		Find(&goals).Error
	return goals, err
}

// GetForMonth returns the month's goals keyed by day-of-month.
func (r *DailyGoalRepository) GetForMonth(userID uint, year int, month time.Month) (map[int]models.DailyGoal, error) {
	start := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, -1)

	goals, err := r.GetForDateRange(userID, start, end)
	if err != nil {
		return nil, err
	}

	byDay := make(map[int]models.DailyGoal, len(goals))
	for _, g := range goals {
		byDay[g.GoalDate.Day()] = g
	}
	return byDay, nil
}

// CreateOrUpdate upserts the goal record for (user, date). Achieved is
// derived here so every writer applies the same rule.
func (r *DailyGoalRepository) CreateOrUpdate(userID uint, goalDate time.Time, totalScheduled, completed int) (*models.DailyGoal, error) {
	achieved := completed >= totalScheduled && totalScheduled > 0

	existing, err := r.GetForDate(userID, goalDate)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		g := models.DailyGoal{
			UserID:         userID,
			GoalDate:       goalDate,
			TotalScheduled: totalScheduled,
			Completed:      completed,
			Achieved:       achieved,
		}
		if err := r.db.Create(&g).Error; err != nil {
			return nil, err
		}
		return &g, nil
	}

	existing.TotalScheduled = totalScheduled
	existing.Completed = completed
	existing.Achieved = achieved
	if err := r.db.Save(existing).Error; err != nil {
		return nil, err
	}
	return existing, nil
}
