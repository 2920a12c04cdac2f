package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Keerthithev/eduexpo/internal/transport/http/middleware"
	"github.com/Keerthithev/eduexpo/internal/usecase"
)

// AuthHandler exposes login and the authenticated identity endpoint.
type AuthHandler struct {
	auth *usecase.AuthService
}

// NewAuthHandler constructs an AuthHandler.
func NewAuthHandler(auth *usecase.AuthService) *AuthHandler {
	return &AuthHandler{auth: auth}
}

// Login validates credentials and returns a bearer token.
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse("email and password are required"))
		return
	}

	result, err := h.auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: usecase.ErrInvalidCredentials, Status: http.StatusUnauthorized, Message: "invalid email or password"},
		}, http.StatusInternalServerError, "login failed")
		return
	}

	c.JSON(http.StatusOK, AuthResponse{
		Success: true,
		Message: "login successful",
		Token:   result.Token,
		User:    result.Account.Public(),
	})
}

// Me returns the account behind the presented credential.
func (h *AuthHandler) Me(c *gin.Context) {
	account, ok := middleware.AccountFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, NewErrorResponse("authentication required"))
		return
	}

	c.JSON(http.StatusOK, AccountResponse{
		Success: true,
		User:    account.Public(),
	})
}
