package models

import "time"

type User struct {
	ID           uint   `gorm:"primaryKey" json:"id"`
	Username     string `gorm:"size:80;uniqueIndex;not null" json:"username"`
	Email        string `gorm:"size:120;uniqueIndex;not null" json:"email"`
	PasswordHash string `gorm:"size:255;not null" json:"-"`

	// IANA zone name, e.g. "Asia/Colombo". Empty means UTC.
	Timezone string `gorm:"size:64;default:UTC" json:"timezone"`

	DailyEmailEnabled    bool       `gorm:"default:false" json:"daily_email_enabled"`
	DailyEmailTime       string     `gorm:"size:5;default:'06:00'" json:"daily_email_time"`
	DailyEmailLastSentAt *time.Time `json:"daily_email_last_sent_at"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`

	Problems []Problem `gorm:"foreignKey:UserID" json:"-"`
}
