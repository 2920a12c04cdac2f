package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Keerthithev/eduexpo/internal/usecase"
)

// ErrorCase maps a sentinel error to an HTTP status code and response message.
type ErrorCase struct {
	Err     error
	Status  int
	Message string
}

// RespondWithMappedError resolves the provided error against known cases or
// falls back to a generic response. Cooldown errors are handled uniformly:
// they always become a 429 carrying the remaining wait in seconds.
func RespondWithMappedError(c *gin.Context, err error, cases []ErrorCase, fallbackStatus int, fallbackMessage string) {
	if err == nil {
		c.Status(http.StatusOK)
		return
	}

	var cooldown *usecase.ResendCooldownError
	if errors.As(err, &cooldown) {
		c.JSON(http.StatusTooManyRequests, ErrorResponse{
			Message:       cooldown.Error(),
			RemainingTime: cooldown.RemainingSeconds(),
		})
		return
	}

	for _, cs := range cases {
		if cs.Err == nil {
			continue
		}
		if errors.Is(err, cs.Err) {
			c.JSON(cs.Status, NewErrorResponse(cs.Message))
			return
		}
	}

	c.JSON(fallbackStatus, NewErrorResponse(fallbackMessage))
}
