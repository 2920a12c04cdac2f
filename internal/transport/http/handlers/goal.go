package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Keerthithev/eduexpo/internal/core/domain"
	"github.com/Keerthithev/eduexpo/internal/transport/http/middleware"
	"github.com/Keerthithev/eduexpo/internal/usecase"
)

// GoalHandler exposes CRUD on the account's single learning goal.
type GoalHandler struct {
	goals *usecase.GoalService
}

// NewGoalHandler constructs a GoalHandler.
func NewGoalHandler(goals *usecase.GoalService) *GoalHandler {
	return &GoalHandler{goals: goals}
}

// RegisterRoutes binds goal endpoints. The group must carry auth middleware.
func (h *GoalHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("", h.Get)
	r.POST("", h.Upsert)
	r.PUT("", h.Upsert)
	r.DELETE("", h.Delete)
}

// Get returns the goal, seeding the default one for fresh accounts.
func (h *GoalHandler) Get(c *gin.Context) {
	account, ok := middleware.AccountFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, NewErrorResponse("authentication required"))
		return
	}

	goal, err := h.goals.Get(c.Request.Context(), account.ID)
	if errors.Is(err, usecase.ErrGoalNotFound) {
		goal, err = h.goals.Upsert(c.Request.Context(), account.ID, domain.DefaultGoalTitle, domain.DefaultGoalDescription)
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, NewErrorResponse("failed to load goal"))
		return
	}

	c.JSON(http.StatusOK, GoalResponse{Success: true, Goal: *goal})
}

// Upsert creates or rewrites the goal.
func (h *GoalHandler) Upsert(c *gin.Context) {
	account, ok := middleware.AccountFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, NewErrorResponse("authentication required"))
		return
	}

	var req GoalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse("title is required"))
		return
	}

	goal, err := h.goals.Upsert(c.Request.Context(), account.ID, req.Title, req.Description)
	if err != nil {
		c.JSON(http.StatusInternalServerError, NewErrorResponse("failed to save goal"))
		return
	}

	c.JSON(http.StatusOK, GoalResponse{Success: true, Goal: *goal})
}

// Delete removes the goal and all its topics.
func (h *GoalHandler) Delete(c *gin.Context) {
	account, ok := middleware.AccountFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, NewErrorResponse("authentication required"))
		return
	}

	if err := h.goals.Reset(c.Request.Context(), account.ID); err != nil {
		c.JSON(http.StatusInternalServerError, NewErrorResponse("failed to delete goal"))
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Success: true, Message: "goal deleted"})
}
