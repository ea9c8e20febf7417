package services

import (
	"fmt"
	"testing"
	"time"

	// Embedded zone data so timezone-dependent tests run on hosts
	// without a system zoneinfo directory.
	_ "time/tzdata"

	"github.com/rouf-185/coding-practice-dashboard/config"
	"github.com/rouf-185/coding-practice-dashboard/models"
	"github.com/rouf-185/coding-practice-dashboard/repositories"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	// A single connection keeps every query on the same in-memory database.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxIdleConns(1)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, config.Migrate(db))
	return db
}

type fixture struct {
	db       *gorm.DB
	problems *repositories.ProblemRepository
	users    *repositories.UserRepository
	goals    *repositories.DailyGoalRepository
	practice *PracticeService
	goalSvc  *DailyGoalService
	stats    *StatsService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := newTestDB(t)
	problems := repositories.NewProblemRepository(db)
	goals := repositories.NewDailyGoalRepository(db)
	practice := NewPracticeService(problems)
	return &fixture{
		db:       db,
		problems: problems,
		users:    repositories.NewUserRepository(db),
		goals:    goals,
		practice: practice,
		goalSvc:  NewDailyGoalService(practice, goals),
		stats:    NewStatsService(problems),
	}
}

func mustCreateUser(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()
	u := &models.User{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: "x",
		Timezone:     "UTC",
	}
	require.NoError(t, db.Create(u).Error)
	return u
}

var problemSeq int

// mustCreateProblem inserts a problem row directly, without the initial
// history entry the service path would add. URLs get a sequence suffix so
// tests can reuse titles without tripping the per-user URL index.
func mustCreateProblem(t *testing.T, db *gorm.DB, userID uint, title string, solved time.Time) *models.Problem {
	t.Helper()
	problemSeq++
	p := &models.Problem{
		UserID:      userID,
		Title:       title,
		LeetcodeURL: fmt.Sprintf("https://leetcode.com/problems/%s-%d", title, problemSeq),
		Difficulty:  "medium",
		SolvedDate:  solved,
	}
	require.NoError(t, db.Create(p).Error)
	return p
}

func mustAddHistory(t *testing.T, db *gorm.DB, problemID uint, at time.Time) {
	t.Helper()
	require.NoError(t, db.Create(&models.ProblemHistory{ProblemID: problemID, PracticedAt: at}).Error)
}
