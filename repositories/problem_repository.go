package repositories

import (
	"strings"
	"time"

	"github.com/rouf-185/coding-practice-dashboard/models"

	"gorm.io/gorm"
)

// ProblemRepository owns all database access for problems and their practice
// history. History rows belong exclusively to their problem, so every write
// that touches both runs in one transaction.
type ProblemRepository struct {
	db *gorm.DB
}

func NewProblemRepository(db *gorm.DB) *ProblemRepository {
	return &ProblemRepository{db: db}
}

func (r *ProblemRepository) GetByID(userID, problemID uint) (*models.Problem, error) {
	var p models.Problem
	if err := r.db.Where("id = ? AND user_id = ?", problemID, userID).First(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *ProblemRepository) GetByURL(userID uint, url string) (*models.Problem, error) {
	var p models.Problem
	if err := r.db.Where("user_id = ? AND leetcode_url = ?", userID, url).First(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *ProblemRepository) GetAllForUser(userID uint) ([]models.Problem, error) {
	var problems []models.Problem
	err := r.db.Where("user_id = ?", userID).Find(&problems).Error
	return problems, err
}

func (r *ProblemRepository) GetAllForUserWithHistory(userID uint) ([]models.Problem, error) {
	var problems []models.Problem
	err := r.db.Preload("History").Where("user_id = ?", userID).Find(&problems).Error
	return problems, err
}

// GetBySolvedDateRange returns problems whose solved_date falls within
// [start, end). Callers pass day bounds so the comparison stays portable
// across drivers.
func (r *ProblemRepository) GetBySolvedDateRange(userID uint, start, end time.Time) ([]models.Problem, error) {
	var problems []models.Problem
	err := r.db.
		Where("user_id = ? AND solved_date >= ? AND solved_date < ?", userID, start, end).
		Find(&problems).Error
	return problems, err
}

func (r *ProblemRepository) GetExcludingIDs(userID uint, excludeIDs []uint) ([]models.Problem, error) {
	q := r.db.Where("user_id = ?", userID)
	if len(excludeIDs) > 0 {
		q = q.Where("id NOT IN ?", excludeIDs)
	}
	var problems []models.Problem
	err := q.Find(&problems).Error
	return problems, err
}

// GetPaginated lists problems sorted by most recent activity, with optional
// title/url/difficulty search. Returns the page plus the total match count.
func (r *ProblemRepository) GetPaginated(userID uint, page, perPage int, search string) ([]models.Problem, int64, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = 10
	}

	q := r.db.Model(&models.Problem{}).Where("user_id = ?", userID)
	if search != "" {
		// LOWER on both sides keeps the match case-insensitive on
		// postgres as well as sqlite.
		like := "%" + strings.ToLower(search) + "%"
		q = q.Where(
			"LOWER(title) LIKE ? OR LOWER(leetcode_url) LIKE ? OR LOWER(difficulty) LIKE ?",
			like, like, like,
		)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var problems []models.Problem
	err := q.
		Order("COALESCE(last_practiced, created_at) DESC").
		Offset((page - 1) * perPage).
		Limit(perPage).
		Find(&problems).Error
	return problems, total, err
}

// Create inserts the problem together with its initial history entry.
func (r *ProblemRepository) Create(p *models.Problem) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(p).Error; err != nil {
			return err
		}
		entry := models.ProblemHistory{ProblemID: p.ID, PracticedAt: p.SolvedDate}
		return tx.Create(&entry).Error
	})
}

// MarkPracticed records one completion event: history append, counter
// increment and timestamp update as one atomic unit.
func (r *ProblemRepository) MarkPracticed(p *models.Problem, now time.Time) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		p.LastPracticed = &now
		p.PracticeCount++
		if err := tx.Model(p).Updates(map[string]interface{}{
			"last_practiced": now,
			"practice_count": p.PracticeCount,
		}).Error; err != nil {
			return err
		}
		entry := models.ProblemHistory{ProblemID: p.ID, PracticedAt: now}
		return tx.Create(&entry).Error
	})
}

// AddHistoryEntry handles a duplicate add: the solve timestamps move to now
// and a history row is appended, but the practice counter is untouched.
func (r *ProblemRepository) AddHistoryEntry(p *models.Problem, now time.Time) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		p.SolvedDate = now
		p.LastPracticed = &now
		if err := tx.Model(p).Updates(map[string]interface{}{
			"solved_date":    now,
			"last_practiced": now,
		}).Error; err != nil {
			return err
		}
		entry := models.ProblemHistory{ProblemID: p.ID, PracticedAt: now}
		return tx.Create(&entry).Error
	})
}

// Delete removes the problem and every history entry it owns.
func (r *ProblemRepository) Delete(p *models.Problem) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("problem_id = ?", p.ID).Delete(&models.ProblemHistory{}).Error; err != nil {
			return err
		}
		return tx.Delete(p).Error
	})
}

// GetHistoryInRange returns the user's history entries with practiced_at in
// [start, end], across all of their problems.
func (r *ProblemRepository) GetHistoryInRange(userID uint, start, end time.Time) ([]models.ProblemHistory, error) {
	var entries []models.ProblemHistory
	err := r.db.
		Joins("JOIN problems ON problems.id = problem_histories.problem_id").
		Where("problems.user_id = ? AND problem_histories.practiced_at >= ? AND problem_histories.practiced_at <= ?",
			userID, start, end).
		Find(&entries).Error
	return entries, err
}

func (r *ProblemRepository) GetHistoryForProblem(problemID uint) ([]models.ProblemHistory, error) {
	var entries []models.ProblemHistory
	err := r.db.
		Where("problem_id = ?", problemID).
		Order("practiced_at DESC").
		Find(&entries).Error
	return entries, err
}
