package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Keerthithev/eduexpo/internal/transport/http/middleware"
	"github.com/Keerthithev/eduexpo/internal/usecase"
)

// AccountHandler exposes profile operations on the authenticated account.
type AccountHandler struct {
	accounts *usecase.AccountService
}

// NewAccountHandler constructs an AccountHandler.
func NewAccountHandler(accounts *usecase.AccountService) *AccountHandler {
	return &AccountHandler{accounts: accounts}
}

// RegisterRoutes binds profile endpoints. The group must carry auth middleware.
func (h *AccountHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/me", h.Me)
	r.PUT("/me", h.UpdateProfile)
	r.PUT("/change-password", h.ChangePassword)
	r.DELETE("/me", h.Delete)
}

// Me returns the authenticated account.
func (h *AccountHandler) Me(c *gin.Context) {
	account, ok := middleware.AccountFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, NewErrorResponse("authentication required"))
		return
	}

	c.JSON(http.StatusOK, AccountResponse{Success: true, User: account.Public()})
}

// UpdateProfile changes the account's name and email.
func (h *AccountHandler) UpdateProfile(c *gin.Context) {
	account, ok := middleware.AccountFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, NewErrorResponse("authentication required"))
		return
	}

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse("name and a valid email are required"))
		return
	}

	updated, err := h.accounts.UpdateProfile(c.Request.Context(), account.ID, req.Name, req.Email)
	if err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: usecase.ErrDuplicateAccount, Status: http.StatusBadRequest, Message: "an account with this email already exists"},
			{Err: usecase.ErrAccountNotFound, Status: http.StatusNotFound, Message: "account not found"},
		}, http.StatusInternalServerError, "failed to update profile")
		return
	}

	c.JSON(http.StatusOK, AccountResponse{Success: true, User: updated.Public()})
}

// ChangePassword rotates the password after checking the current one.
func (h *AccountHandler) ChangePassword(c *gin.Context) {
	account, ok := middleware.AccountFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, NewErrorResponse("authentication required"))
		return
	}

	var req ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse("current and new passwords are required"))
		return
	}

	if err := h.accounts.ChangePassword(c.Request.Context(), account.ID, req.CurrentPassword, req.NewPassword); err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: usecase.ErrInvalidCredentials, Status: http.StatusUnauthorized, Message: "current password is incorrect"},
			{Err: usecase.ErrWeakPassword, Status: http.StatusBadRequest, Message: "password must be at least 6 characters"},
			{Err: usecase.ErrAccountNotFound, Status: http.StatusNotFound, Message: "account not found"},
		}, http.StatusInternalServerError, "failed to change password")
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Success: true, Message: "password changed"})
}

// Delete removes the account and everything it owns.
func (h *AccountHandler) Delete(c *gin.Context) {
	account, ok := middleware.AccountFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, NewErrorResponse("authentication required"))
		return
	}

	if err := h.accounts.Delete(c.Request.Context(), account.ID); err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: usecase.ErrAccountNotFound, Status: http.StatusNotFound, Message: "account not found"},
		}, http.StatusInternalServerError, "failed to delete account")
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Success: true, Message: "account deleted"})
}
