package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Keerthithev/eduexpo/internal/core/domain"
	"github.com/Keerthithev/eduexpo/internal/infra/security"
	"github.com/Keerthithev/eduexpo/internal/usecase"
)

// AccountKey is the gin context key holding the authenticated account.
const AccountKey = "account"

// errorResponse matches the handlers.ErrorResponse wire shape.
type errorResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func newErrorResponse(message string) errorResponse {
	return errorResponse{Success: false, Message: message}
}

// RequireAuth validates the Authorization header and resolves the account
// behind the bearer credential.
func RequireAuth(auth *usecase.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				newErrorResponse("missing authorization header"))
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				newErrorResponse("invalid authorization format: expected 'Bearer <token>'"))
			return
		}

		token := strings.TrimSpace(parts[1])
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				newErrorResponse("missing access token"))
			return
		}

		account, err := auth.Authenticate(c.Request.Context(), token)
		if err != nil {
			switch {
			case errors.Is(err, security.ErrTokenExpired):
				c.AbortWithStatusJSON(http.StatusUnauthorized,
					newErrorResponse("access token expired"))
			case errors.Is(err, security.ErrTokenInvalid):
				c.AbortWithStatusJSON(http.StatusUnauthorized,
					newErrorResponse("invalid access token"))
			case errors.Is(err, usecase.ErrAccountNotFound):
				c.AbortWithStatusJSON(http.StatusUnauthorized,
					newErrorResponse("account no longer exists"))
			default:
				c.AbortWithStatusJSON(http.StatusInternalServerError,
					newErrorResponse("authentication failed"))
			}
			return
		}

		c.Set(AccountKey, account)
		c.Next()
	}
}

// AccountFromContext retrieves the authenticated account set by RequireAuth.
func AccountFromContext(c *gin.Context) (*domain.Account, bool) {
	val, exists := c.Get(AccountKey)
	if !exists {
		return nil, false
	}

	account, ok := val.(*domain.Account)
	return account, ok
}
