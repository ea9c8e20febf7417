package controllers

import (
	"errors"
	"net/http"

	"github.com/rouf-185/coding-practice-dashboard/repositories"
	"github.com/rouf-185/coding-practice-dashboard/services"

	"github.com/gin-gonic/gin"
)

type UserController struct {
	Users *repositories.UserRepository
	Auth  *services.AuthService
}

func NewUserController(users *repositories.UserRepository, auth *services.AuthService) *UserController {
	return &UserController{Users: users, Auth: auth}
}

func (h *UserController) GetProfile(c *gin.Context) {
	userID, ok := userIDFromCtx(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	user, err := h.Users.GetByID(userID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}
	c.JSON(http.StatusOK, user)
}

// UpdateSettings changes timezone and daily-email preferences.
func (h *UserController) UpdateSettings(c *gin.Context) {
	userID, ok := userIDFromCtx(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req services.SettingsUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.Auth.UpdateSettings(userID, req)
	if err != nil {
		if errors.Is(err, services.ErrInvalidTimezone) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, user)
}

// --- shared helpers ---

func userIDFromCtx(c *gin.Context) (uint, bool) {
	v, ok := c.Get("userID")
	if !ok {
		return 0, false
	}
	switch id := v.(type) {
	case uint:
		return id, true
	case int:
		return uint(id), true
	case int64:
		return uint(id), true
	default:
		return 0, false
	}
}
