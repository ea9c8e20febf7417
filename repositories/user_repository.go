package repositories

import (
	"time"

	"github.com/rouf-185/coding-practice-dashboard/models"

	"gorm.io/gorm"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) GetByID(userID uint) (*models.User, error) {
	var u models.User
	if err := r.db.First(&u, userID).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepository) GetByEmail(email string) (*models.User, error) {
	var u models.User
	if err := r.db.Where("email = ?", email).First(&u).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepository) GetByUsername(username string) (*models.User, error) {
	var u models.User
	if err := r.db.Where("username = ?", username).First(&u).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepository) Create(u *models.User) error {
	return r.db.Create(u).Error
}

func (r *UserRepository) Update(u *models.User) error {
	return r.db.Save(u).Error
}

func (r *UserRepository) GetDailyEmailEnabled() ([]models.User, error) {
	var users []models.User
	err := r.db.Where("daily_email_enabled = ?", true).Find(&users).Error
	return users, err
}

func (r *UserRepository) SetDailyEmailLastSent(userID uint, sentAt time.Time) error {
	return r.db.Model(&models.User{}).
		Where("id = ?", userID).
		Update("daily_email_last_sent_at", sentAt).Error
}
