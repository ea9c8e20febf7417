package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/rouf-185/coding-practice-dashboard/services"

	"github.com/gin-gonic/gin"
)

type ProblemController struct {
	Svc *services.ProblemService
}

func NewProblemController(svc *services.ProblemService) *ProblemController {
	return &ProblemController{Svc: svc}
}

func (h *ProblemController) AddProblem(c *gin.Context) {
	userID, ok := userIDFromCtx(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req struct {
		LeetcodeURL string `json:"leetcode_url" binding:"required"`
		Difficulty  string `json:"difficulty"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	problem, message, err := h.Svc.AddProblem(userID, req.LeetcodeURL, req.Difficulty, time.Now().UTC())
	if err != nil {
		if errors.Is(err, services.ErrInvalidURL) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"problem": problem, "message": message})
}

func (h *ProblemController) ListProblems(c *gin.Context) {
	userID, ok := userIDFromCtx(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}
	search := strings.TrimSpace(c.Query("search"))

	items, total, err := h.Svc.ListProblems(userID, page, search, time.Now().UTC())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"problems": items,
		"total":    total,
		"page":     page,
	})
}

func (h *ProblemController) MarkDone(c *gin.Context) {
	userID, ok := userIDFromCtx(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	problemID, ok := problemIDParam(c)
	if !ok {
		return
	}

	problem, err := h.Svc.MarkDone(userID, problemID, time.Now().UTC())
	if err != nil {
		if errors.Is(err, services.ErrProblemNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"problem": problem, "message": "Problem marked as done!"})
}

func (h *ProblemController) DeleteProblem(c *gin.Context) {
	userID, ok := userIDFromCtx(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	problemID, ok := problemIDParam(c)
	if !ok {
		return
	}

	if err := h.Svc.DeleteProblem(userID, problemID); err != nil {
		if errors.Is(err, services.ErrProblemNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Problem deleted successfully!"})
}

func (h *ProblemController) GetProblemHistory(c *gin.Context) {
	userID, ok := userIDFromCtx(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	problemID, ok := problemIDParam(c)
	if !ok {
		return
	}

	view, err := h.Svc.GetProblemHistory(userID, problemID)
	if err != nil {
		if errors.Is(err, services.ErrProblemNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, view)
}

func problemIDParam(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid problem id"})
		return 0, false
	}
	return uint(id), true
}
