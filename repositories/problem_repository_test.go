package repositories

import (
	"fmt"
	"testing"
	"time"

	"github.com/rouf-185/coding-practice-dashboard/config"
	"github.com/rouf-185/coding-practice-dashboard/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	// One connection only, or each pooled connection gets its own empty
	// in-memory database.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxIdleConns(1)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, config.Migrate(db))
	return db
}

func seedUser(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()
	u := &models.User{Username: "alice", Email: "alice@example.com", PasswordHash: "x", Timezone: "UTC"}
	require.NoError(t, db.Create(u).Error)
	return u
}

func seedProblem(t *testing.T, db *gorm.DB, userID uint, title string, solved time.Time) *models.Problem {
	t.Helper()
	p := &models.Problem{
		UserID:      userID,
		Title:       title,
		LeetcodeURL: fmt.Sprintf("https://leetcode.com/problems/%s-%d", title, time.Now().UnixNano()),
		Difficulty:  "medium",
		SolvedDate:  solved,
	}
	require.NoError(t, db.Create(p).Error)
	return p
}

var baseDate = time.Date(2024, time.July, 10, 12, 0, 0, 0, time.UTC)

func TestCreateWritesInitialHistory(t *testing.T) {
	db := newTestDB(t)
	repo := NewProblemRepository(db)
	user := seedUser(t, db)

	p := &models.Problem{
		UserID:      user.ID,
		Title:       "Two Sum",
		LeetcodeURL: "https://leetcode.com/problems/two-sum",
		Difficulty:  "easy",
		SolvedDate:  baseDate,
	}
	require.NoError(t, repo.Create(p))

	entries, err := repo.GetHistoryForProblem(p.ID)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.WithinDuration(t, baseDate, entries[0].PracticedAt, time.Second)
}

func TestGetBySolvedDateRangeIsHalfOpen(t *testing.T) {
	db := newTestDB(t)
	repo := NewProblemRepository(db)
	user := seedUser(t, db)

	dayStart := time.Date(2024, time.July, 8, 0, 0, 0, 0, time.UTC)
	seedProblem(t, db, user.ID, "at-start", dayStart)
	seedProblem(t, db, user.ID, "mid-day", dayStart.Add(13*time.Hour))
	seedProblem(t, db, user.ID, "next-day", dayStart.AddDate(0, 0, 1))

	got, err := repo.GetBySolvedDateRange(user.ID, dayStart, dayStart.AddDate(0, 0, 1))
	require.NoError(t, err)

	var titles []string
	for _, p := range got {
		titles = append(titles, p.Title)
	}
	assert.ElementsMatch(t, []string{"at-start", "mid-day"}, titles)
}

func TestGetExcludingIDs(t *testing.T) {
	db := newTestDB(t)
	repo := NewProblemRepository(db)
	user := seedUser(t, db)

	a := seedProblem(t, db, user.ID, "a", baseDate)
	b := seedProblem(t, db, user.ID, "b", baseDate)
	seedProblem(t, db, user.ID, "c", baseDate)

	got, err := repo.GetExcludingIDs(user.ID, []uint{a.ID, b.ID})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "c", got[0].Title)

	// Empty exclusion list returns everything.
	all, err := repo.GetExcludingIDs(user.ID, nil)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestGetPaginatedOrdersByRecentActivity(t *testing.T) {
	db := newTestDB(t)
	repo := NewProblemRepository(db)
	user := seedUser(t, db)

	stale := seedProblem(t, db, user.ID, "stale", baseDate.AddDate(0, 0, -30))
	recent := seedProblem(t, db, user.ID, "recent", baseDate.AddDate(0, 0, -30))
	require.NoError(t, repo.MarkPracticed(stale, baseDate.AddDate(0, 0, -5)))
	require.NoError(t, repo.MarkPracticed(recent, baseDate))

	got, total, err := repo.GetPaginated(user.ID, 1, 10, "")
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	require.Len(t, got, 2)
	assert.Equal(t, recent.ID, got[0].ID)
	assert.Equal(t, stale.ID, got[1].ID)
}

func TestGetPaginatedSearch(t *testing.T) {
	db := newTestDB(t)
	repo := NewProblemRepository(db)
	user := seedUser(t, db)

	seedProblem(t, db, user.ID, "Binary Search", baseDate)
	seedProblem(t, db, user.ID, "Two Sum", baseDate)

	got, total, err := repo.GetPaginated(user.ID, 1, 10, "binary")
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, got, 1)
	assert.Equal(t, "Binary Search", got[0].Title)

	_, total, err = repo.GetPaginated(user.ID, 1, 10, "no-such-problem")
	require.NoError(t, err)
	assert.Zero(t, total)
}

func TestGetPaginatedSearchIgnoresCase(t *testing.T) {
	db := newTestDB(t)
	repo := NewProblemRepository(db)
	user := seedUser(t, db)

	seedProblem(t, db, user.ID, "Binary Search", baseDate)
	seedProblem(t, db, user.ID, "two sum", baseDate)

	for _, search := range []string{"BINARY", "Binary", "binary search"} {
		_, total, err := repo.GetPaginated(user.ID, 1, 10, search)
		require.NoError(t, err)
		assert.Equalf(t, int64(1), total, "search %q", search)
	}

	// Mixed-case query against a lowercase title.
	got, total, err := repo.GetPaginated(user.ID, 1, 10, "Two Sum")
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, got, 1)
	assert.Equal(t, "two sum", got[0].Title)
}

func TestMarkPracticedAndAddHistoryEntryCounters(t *testing.T) {
	db := newTestDB(t)
	repo := NewProblemRepository(db)
	user := seedUser(t, db)

	p := seedProblem(t, db, user.ID, "p", baseDate.AddDate(0, 0, -10))

	require.NoError(t, repo.MarkPracticed(p, baseDate))
	require.NoError(t, repo.AddHistoryEntry(p, baseDate.Add(time.Hour)))

	reloaded, err := repo.GetByID(user.ID, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, reloaded.PracticeCount)
	assert.WithinDuration(t, baseDate.Add(time.Hour), reloaded.SolvedDate, time.Second)

	entries, err := repo.GetHistoryForProblem(p.ID)
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}

func TestGetHistoryInRangeScopedToUser(t *testing.T) {
	db := newTestDB(t)
	repo := NewProblemRepository(db)
	alice := seedUser(t, db)
	bob := &models.User{Username: "bob", Email: "bob@example.com", PasswordHash: "x", Timezone: "UTC"}
	require.NoError(t, db.Create(bob).Error)

	mine := seedProblem(t, db, alice.ID, "mine", baseDate)
	theirs := seedProblem(t, db, bob.ID, "theirs", baseDate)
	require.NoError(t, db.Create(&models.ProblemHistory{ProblemID: mine.ID, PracticedAt: baseDate}).Error)
	require.NoError(t, db.Create(&models.ProblemHistory{ProblemID: theirs.ID, PracticedAt: baseDate}).Error)

	entries, err := repo.GetHistoryInRange(alice.ID, baseDate.AddDate(0, 0, -1), baseDate.AddDate(0, 0, 1))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, mine.ID, entries[0].ProblemID)
}
