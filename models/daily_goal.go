package models

import "time"

// DailyGoal tracks scheduled vs completed practice for one user and one
// calendar day. GoalDate is stored at UTC midnight; (user_id, goal_date)
// is unique so the record is upsert-only.
type DailyGoal struct {
	ID     uint `gorm:"primaryKey" json:"id"`
	UserID uint `gorm:"uniqueIndex:idx_user_goal_date;not null" json:"user_id"`

	GoalDate time.Time `gorm:"uniqueIndex:idx_user_goal_date;not null" json:"goal_date"`

	TotalScheduled int  `gorm:"default:0" json:"total_scheduled"`
	Completed      int  `gorm:"default:0" json:"completed"`
	Achieved       bool `gorm:"default:false" json:"achieved"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}
