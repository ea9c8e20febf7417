package services

import (
	"testing"
	"time"

	"github.com/rouf-185/coding-practice-dashboard/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecomputeCountsScheduledAndCompleted(t *testing.T) {
	f := newFixture(t)
	user := mustCreateUser(t, f.db, "alice")

	done := mustCreateProblem(t, f.db, user.ID, "done", wednesdayNoon.AddDate(0, 0, -2))
	practiced := wednesdayNoon.Add(-30 * time.Minute)
	require.NoError(t, f.db.Model(done).Update("last_practiced", practiced).Error)

	mustCreateProblem(t, f.db, user.ID, "pending", wednesdayNoon.AddDate(0, 0, -5))

	goal, err := f.goalSvc.Recompute(user.ID, wednesdayNoon)
	require.NoError(t, err)

	assert.Equal(t, 2, goal.TotalScheduled)
	assert.Equal(t, 1, goal.Completed)
	assert.False(t, goal.Achieved)
	assert.Equal(t, time.Date(2024, time.July, 10, 0, 0, 0, 0, time.UTC), goal.GoalDate.UTC())
}

func TestRecomputeIsIdempotent(t *testing.T) {
	f := newFixture(t)
	user := mustCreateUser(t, f.db, "alice")

	mustCreateProblem(t, f.db, user.ID, "due", wednesdayNoon.AddDate(0, 0, -2))

	first, err := f.goalSvc.Recompute(user.ID, wednesdayNoon)
	require.NoError(t, err)
	second, err := f.goalSvc.Recompute(user.ID, wednesdayNoon.Add(5*time.Minute))
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, first.TotalScheduled, second.TotalScheduled)

	var count int64
	require.NoError(t, f.db.Model(&models.DailyGoal{}).Where("user_id = ?", user.ID).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestRecomputeAchievedWhenAllCompleted(t *testing.T) {
	f := newFixture(t)
	user := mustCreateUser(t, f.db, "alice")

	p := mustCreateProblem(t, f.db, user.ID, "due", wednesdayNoon.AddDate(0, 0, -2))
	practiced := wednesdayNoon.Add(-time.Hour)
	require.NoError(t, f.db.Model(p).Update("last_practiced", practiced).Error)

	goal, err := f.goalSvc.Recompute(user.ID, wednesdayNoon)
	require.NoError(t, err)

	assert.Equal(t, goal.TotalScheduled, goal.Completed)
	assert.True(t, goal.Achieved)
}

func TestRecomputeEmptyScheduleNotAchieved(t *testing.T) {
	f := newFixture(t)
	user := mustCreateUser(t, f.db, "alice")

	goal, err := f.goalSvc.Recompute(user.ID, wednesdayNoon)
	require.NoError(t, err)

	assert.Equal(t, 0, goal.TotalScheduled)
	assert.Equal(t, 0, goal.Completed)
	assert.False(t, goal.Achieved)
}
