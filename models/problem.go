package models

import "time"

// Problem is one coding exercise tracked for a user. The URL is unique per
// user; re-adding the same URL appends to history instead of creating a row.
type Problem struct {
	ID     uint `gorm:"primaryKey" json:"id"`
	UserID uint `gorm:"uniqueIndex:idx_user_problem_url;index;not null" json:"user_id"`

	Title       string `gorm:"size:255;not null" json:"title"`
	LeetcodeURL string `gorm:"size:512;uniqueIndex:idx_user_problem_url;not null" json:"leetcode_url"`
	Difficulty  string `gorm:"size:10;not null" json:"difficulty"` // easy, medium, hard

	SolvedDate    time.Time  `gorm:"not null" json:"solved_date"`
	CreatedAt     time.Time  `gorm:"autoCreateTime" json:"created_at"`
	LastPracticed *time.Time `json:"last_practiced"`

	PracticeCount int `gorm:"default:0" json:"practice_count"`

	History []ProblemHistory `gorm:"foreignKey:ProblemID" json:"-"`
}

// ProblemHistory is an append-only practice log entry. Entries are never
// updated or deduplicated.
type ProblemHistory struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	ProblemID   uint      `gorm:"index;not null" json:"problem_id"`
	PracticedAt time.Time `gorm:"index;not null" json:"practiced_at"`
}
