package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Keerthithev/eduexpo/internal/transport/http/middleware"
	"github.com/Keerthithev/eduexpo/internal/usecase"
)

// TopicHandler exposes CRUD on the study topics under the account's goal.
type TopicHandler struct {
	topics *usecase.TopicService
}

// NewTopicHandler constructs a TopicHandler.
func NewTopicHandler(topics *usecase.TopicService) *TopicHandler {
	return &TopicHandler{topics: topics}
}

// RegisterRoutes binds topic endpoints. The group must carry auth middleware.
func (h *TopicHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("", h.List)
	r.POST("", h.Add)
	r.PUT("/:id", h.Rename)
	r.PUT("/:id/toggle", h.Toggle)
	r.DELETE("/:id", h.Remove)
}

var topicErrorCases = []ErrorCase{
	{Err: usecase.ErrTopicNotFound, Status: http.StatusNotFound, Message: "topic not found"},
	{Err: usecase.ErrGoalNotFound, Status: http.StatusNotFound, Message: "create a goal before adding topics"},
}

// List returns the account's topics, newest first.
func (h *TopicHandler) List(c *gin.Context) {
	account, ok := middleware.AccountFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, NewErrorResponse("authentication required"))
		return
	}

	topics, err := h.topics.List(c.Request.Context(), account.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, NewErrorResponse("failed to load topics"))
		return
	}

	c.JSON(http.StatusOK, TopicListResponse{Success: true, Topics: topics})
}

// Add creates a pending topic under the account's goal.
func (h *TopicHandler) Add(c *gin.Context) {
	account, ok := middleware.AccountFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, NewErrorResponse("authentication required"))
		return
	}

	var req TopicRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse("name is required"))
		return
	}

	topic, err := h.topics.Add(c.Request.Context(), account.ID, req.Name)
	if err != nil {
		RespondWithMappedError(c, err, topicErrorCases, http.StatusInternalServerError, "failed to create topic")
		return
	}

	c.JSON(http.StatusCreated, TopicResponse{Success: true, Topic: *topic})
}

// Rename changes the topic's name.
func (h *TopicHandler) Rename(c *gin.Context) {
	account, ok := middleware.AccountFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, NewErrorResponse("authentication required"))
		return
	}

	var req TopicRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse("name is required"))
		return
	}

	topic, err := h.topics.Rename(c.Request.Context(), account.ID, c.Param("id"), req.Name)
	if err != nil {
		RespondWithMappedError(c, err, topicErrorCases, http.StatusInternalServerError, "failed to update topic")
		return
	}

	c.JSON(http.StatusOK, TopicResponse{Success: true, Topic: *topic})
}

// Toggle flips the topic between pending and completed.
func (h *TopicHandler) Toggle(c *gin.Context) {
	account, ok := middleware.AccountFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, NewErrorResponse("authentication required"))
		return
	}

	topic, err := h.topics.Toggle(c.Request.Context(), account.ID, c.Param("id"))
	if err != nil {
		RespondWithMappedError(c, err, topicErrorCases, http.StatusInternalServerError, "failed to update topic")
		return
	}

	c.JSON(http.StatusOK, TopicResponse{Success: true, Topic: *topic})
}

// Remove deletes the topic.
func (h *TopicHandler) Remove(c *gin.Context) {
	account, ok := middleware.AccountFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, NewErrorResponse("authentication required"))
		return
	}

	if err := h.topics.Remove(c.Request.Context(), account.ID, c.Param("id")); err != nil {
		RespondWithMappedError(c, err, topicErrorCases, http.StatusInternalServerError, "failed to delete topic")
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Success: true, Message: "topic deleted"})
}
