package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rouf-185/coding-practice-dashboard/models"
	"github.com/rouf-185/coding-practice-dashboard/repositories"
	"github.com/rouf-185/coding-practice-dashboard/utils"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrEmailTaken         = errors.New("email already registered")
	ErrUsernameTaken      = errors.New("username already taken")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidTimezone    = errors.New("unknown timezone")
)

type AuthService struct {
	users *repositories.UserRepository
}

func NewAuthService(users *repositories.UserRepository) *AuthService {
	return &AuthService{users: users}
}

func (s *AuthService) Register(username, email, password string) (*models.User, error) {
	username = strings.TrimSpace(username)
	email = strings.ToLower(strings.TrimSpace(email))

	if _, err := s.users.GetByEmail(email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	if _, err := s.users.GetByUsername(username); err == nil {
		return nil, ErrUsernameTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
		Timezone:     "UTC",
	}
	if err := s.users.Create(user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *AuthService) Login(email, password string) (string, *models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	user, err := s.users.GetByEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil, ErrInvalidCredentials
		}
		return "", nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", nil, ErrInvalidCredentials
	}

	token, err := utils.GenerateJWT(user.ID, user.Email)
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}

// SettingsUpdate carries the preference fields a user may change. Nil means
// leave unchanged.
type SettingsUpdate struct {
	Timezone          *string `json:"timezone"`
	DailyEmailEnabled *bool   `json:"daily_email_enabled"`
	DailyEmailTime    *string `json:"daily_email_time"`
}

// UpdateSettings validates and persists timezone and daily-email preferences.
func (s *AuthService) UpdateSettings(userID uint, update SettingsUpdate) (*models.User, error) {
	user, err := s.users.GetByID(userID)
	if err != nil {
		return nil, err
	}

	if update.Timezone != nil {
		tz := strings.TrimSpace(*update.Timezone)
		if tz == "" {
			tz = "UTC"
		}
		if _, err := time.LoadLocation(tz); err != nil {
			return nil, ErrInvalidTimezone
		}
		user.Timezone = tz
	}
	if update.DailyEmailEnabled != nil {
		user.DailyEmailEnabled = *update.DailyEmailEnabled
	}
	if update.DailyEmailTime != nil {
		h, m := parseSendTime(*update.DailyEmailTime)
		// Re-render so malformed values normalize instead of erroring.
		user.DailyEmailTime = fmt.Sprintf("%02d:%02d", h, m)
	}

	if err := s.users.Update(user); err != nil {
		return nil, err
	}
	return user, nil
}
